package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONPlainObject(t *testing.T) {
	var out map[string]interface{}
	err := ExtractJSON(`{"name": "Paracetamol", "dosage": "500mg"}`, &out)
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol", out["name"])
}

func TestExtractJSONStripsMarkdownFences(t *testing.T) {
	raw := "```json\n{\"severity\": \"mild\"}\n```"

	var out map[string]interface{}
	err := ExtractJSON(raw, &out)
	require.NoError(t, err)
	assert.Equal(t, "mild", out["severity"])
}

func TestExtractJSONIgnoresSurroundingProse(t *testing.T) {
	raw := "Sure! Here is the result you asked for:\n" +
		"{\"medicineName\": \"Dolo-650\", \"confidence\": \"high\"}\n" +
		"Let me know if you need anything else."

	var out map[string]interface{}
	err := ExtractJSON(raw, &out)
	require.NoError(t, err)
	assert.Equal(t, "Dolo-650", out["medicineName"])
	assert.Equal(t, "high", out["confidence"])
}

func TestExtractJSONNestedObjects(t *testing.T) {
	raw := `{"medicines": [{"name": "Crocin", "dosage": "650mg"}], "confidence": "medium"}`

	var out struct {
		Medicines []struct {
			Name   string `json:"name"`
			Dosage string `json:"dosage"`
		} `json:"medicines"`
		Confidence string `json:"confidence"`
	}
	err := ExtractJSON(raw, &out)
	require.NoError(t, err)
	require.Len(t, out.Medicines, 1)
	assert.Equal(t, "Crocin", out.Medicines[0].Name)
}

func TestExtractJSONNoObject(t *testing.T) {
	var out map[string]interface{}
	err := ExtractJSON("I cannot help with that.", &out)
	require.Error(t, err)
	assert.True(t, IsMalformedResponse(err))
}

func TestExtractJSONBrokenOuterObjectDoesNotYieldInnerOne(t *testing.T) {
	// A syntax error in the outer object must fail, not silently
	// surface a nested object as the payload.
	raw := `{"analysis": broken, "detail": {"severity": "mild"}}`

	var out map[string]interface{}
	err := ExtractJSON(raw, &out)
	require.Error(t, err)
	assert.True(t, IsMalformedResponse(err))
}

func TestExtractJSONUnrecoverable(t *testing.T) {
	var out map[string]interface{}
	err := ExtractJSON(`{"broken": `+"\n"+`nonsense}`, &out)
	require.Error(t, err)
	assert.True(t, IsMalformedResponse(err))
}
