// sms.go - SMS delivery via the Twilio Messages API

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arogyalabs/telehealth-backend/internal/common"
)

const (
	twilioAPIBase = "https://api.twilio.com/2010-04-01"
	// SMS bodies are truncated here; Twilio takes 1600 chars but
	// phone notifications should stay readable at a glance.
	maxSMSLength = 300
)

// SMSSender delivers a short message to a phone number. Send reports
// delivery as a bool, never an error: SMS is best-effort and must not
// fail the request that triggered it.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) bool
}

// DisabledSMS logs what would have been sent. Used when SMS_ENABLED
// is off or Twilio credentials are missing.
type DisabledSMS struct{}

func (DisabledSMS) Send(ctx context.Context, phone, message string) bool {
	log.Printf("SMS disabled - would send to %s: %s", phone, message)
	return false
}

// TwilioSMS sends through the Twilio Messages REST endpoint.
type TwilioSMS struct {
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
}

func NewTwilioSMS(accountSID, authToken, fromNumber string) *TwilioSMS {
	return &TwilioSMS{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *TwilioSMS) Send(ctx context.Context, phone, message string) bool {
	to := NormalizePhone(phone)
	if to == "" {
		return false
	}
	if short := common.Truncate(message, maxSMSLength); short != message {
		message = short + "..."
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.fromNumber)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", twilioAPIBase, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("SMS error: %v", err)
		return false
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		log.Printf("SMS error: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("SMS error: Twilio returned %d: %s", resp.StatusCode, string(body))
		return false
	}

	var result struct {
		SID    string `json:"sid"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		log.Printf("SMS sent to %s (sid=%s status=%s)", to, result.SID, result.Status)
	} else {
		log.Printf("SMS sent to %s", to)
	}
	return true
}

// NormalizePhone cleans a phone number and ensures a country code.
// Bare 10-digit numbers are assumed to be Indian.
func NormalizePhone(phone string) string {
	phone = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	if phone == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(phone, "+91"):
		return phone
	case strings.HasPrefix(phone, "91") && len(phone) == 12:
		return "+" + phone
	case len(phone) == 10:
		return "+91" + phone
	}
	return phone
}
