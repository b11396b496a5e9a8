package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+91 98765 43210", "+919876543210"},
		{"919876543210", "+919876543210"},
		{"9876543210", "+919876543210"},
		{"98-765-43210", "+919876543210"},
		{"+14155551234", "+14155551234"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePhone(tc.in), "input %q", tc.in)
	}
}

func TestDisabledSMSNeverReportsDelivery(t *testing.T) {
	assert.False(t, DisabledSMS{}.Send(context.Background(), "+919876543210", "hello"))
}

func TestTwilioSendPostsForm(t *testing.T) {
	var gotPath, gotTo, gotBody string
	var gotAuth bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _, gotAuth = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotTo = r.PostFormValue("To")
		gotBody = r.PostFormValue("Body")
		json.NewEncoder(w).Encode(map[string]string{"sid": "SM123", "status": "queued"})
	}))
	defer server.Close()

	sms := NewTwilioSMS("AC_test", "token", "+15005550006")
	sms.client = server.Client()
	// Point the client at the fake endpoint by rewriting the host.
	sms.client.Transport = rewriteHost(server.URL)

	ok := sms.Send(context.Background(), "9876543210", "HealthCare: test message")
	assert.True(t, ok)
	assert.Equal(t, "/2010-04-01/Accounts/AC_test/Messages.json", gotPath)
	assert.Equal(t, "+919876543210", gotTo)
	assert.Equal(t, "HealthCare: test message", gotBody)
	assert.True(t, gotAuth)
}

func TestTwilioSendTruncatesLongMessages(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotBody = r.PostFormValue("Body")
		json.NewEncoder(w).Encode(map[string]string{"sid": "SM123"})
	}))
	defer server.Close()

	sms := NewTwilioSMS("AC_test", "token", "+15005550006")
	sms.client = server.Client()
	sms.client.Transport = rewriteHost(server.URL)

	long := strings.Repeat("a", 500)
	require.True(t, sms.Send(context.Background(), "9876543210", long))
	assert.Len(t, gotBody, maxSMSLength+3)
	assert.True(t, strings.HasSuffix(gotBody, "..."))
}

func TestTwilioSendFailsOpenOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "invalid number"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	sms := NewTwilioSMS("AC_test", "token", "+15005550006")
	sms.client = server.Client()
	sms.client.Transport = rewriteHost(server.URL)

	assert.False(t, sms.Send(context.Background(), "9876543210", "hello"))
}

// rewriteHost redirects every request to the test server regardless
// of the URL the client built.
func rewriteHost(target string) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		r.URL.Scheme = "http"
		r.URL.Host = strings.TrimPrefix(target, "http://")
		return http.DefaultTransport.RoundTrip(r)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
