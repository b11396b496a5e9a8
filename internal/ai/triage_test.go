package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyalabs/telehealth-backend/internal/common"
)

// fakeCompleter returns a fixed response, or an error when set.
type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, rc *common.RequestContext) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeCompleter) CompleteVision(ctx context.Context, prompt string, image []byte, mimeType string, rc *common.RequestContext) (string, error) {
	return f.response, f.err
}

func TestAnalyzeClearSymptoms(t *testing.T) {
	completer := &fakeCompleter{response: `{
		"isValidHealthQuery": true,
		"needsClarification": false,
		"followUpQuestions": [],
		"analysis": "You appear to have symptoms consistent with a viral infection or flu...",
		"severity": "moderate",
		"recommendations": ["Rest and stay hydrated", "Monitor temperature"],
		"suggestedMedicines": ["Paracetamol"],
		"doctorConsultation": "recommended",
		"urgencyLevel": "if symptoms worsen"
	}`}
	engine := NewTriageEngine(completer, nil)

	result := engine.Analyze(context.Background(), "I have a headache and fever for 2 days", "", "English", common.NewRequestContext())

	assert.True(t, result.IsValidHealthQuery)
	assert.False(t, result.NeedsClarification)
	require.NotNil(t, result.Severity)
	assert.Equal(t, "moderate", *result.Severity)
	assert.Equal(t, []string{"Paracetamol"}, result.SuggestedMedicines)
	require.NotNil(t, result.DoctorConsultation)
	assert.Equal(t, "recommended", *result.DoctorConsultation)
}

func TestAnalyzeGreetingIsNotHealthQuery(t *testing.T) {
	completer := &fakeCompleter{response: `{
		"isValidHealthQuery": false,
		"needsClarification": true,
		"followUpQuestions": ["What symptoms are you experiencing?"],
		"analysis": "",
		"severity": null,
		"recommendations": ["Take some rest"],
		"suggestedMedicines": ["Paracetamol"],
		"doctorConsultation": null,
		"urgencyLevel": null
	}`}
	engine := NewTriageEngine(completer, nil)

	result := engine.Analyze(context.Background(), "Hello", "", "English", common.NewRequestContext())

	assert.False(t, result.IsValidHealthQuery)
	assert.True(t, result.NeedsClarification)
	// Invalid queries must never carry clinical guidance, even when
	// the model slipped some in.
	assert.Empty(t, result.SuggestedMedicines)
	assert.Empty(t, result.Recommendations)
	assert.Nil(t, result.Severity)
	assert.NotEmpty(t, result.Analysis)
}

func TestAnalyzeInvalidQueryOverridesModelClaims(t *testing.T) {
	// The model marked the query invalid but still answered it.
	completer := &fakeCompleter{response: `{
		"isValidHealthQuery": false,
		"needsClarification": false,
		"analysis": "That is not a health question, but here is some advice anyway.",
		"severity": "mild",
		"recommendations": ["Take it easy"],
		"suggestedMedicines": ["Aspirin"],
		"doctorConsultation": "recommended",
		"urgencyLevel": "urgent"
	}`}
	engine := NewTriageEngine(completer, nil)

	result := engine.Analyze(context.Background(), "what's the weather", "", "English", common.NewRequestContext())

	assert.False(t, result.IsValidHealthQuery)
	assert.True(t, result.NeedsClarification)
	assert.Empty(t, result.SuggestedMedicines)
	assert.Empty(t, result.Recommendations)
	assert.Nil(t, result.Severity)
	assert.Nil(t, result.DoctorConsultation)
	assert.Nil(t, result.UrgencyLevel)
}

func TestAnalyzeClarificationNullsClinicalFields(t *testing.T) {
	completer := &fakeCompleter{response: `{
		"isValidHealthQuery": true,
		"needsClarification": true,
		"analysis": "Tell me more.",
		"severity": "severe",
		"doctorConsultation": "required",
		"urgencyLevel": "immediate"
	}`}
	engine := NewTriageEngine(completer, nil)

	result := engine.Analyze(context.Background(), "pain", "", "English", common.NewRequestContext())

	assert.True(t, result.NeedsClarification)
	assert.Nil(t, result.Severity)
	assert.Nil(t, result.DoctorConsultation)
	assert.Nil(t, result.UrgencyLevel)
}

func TestAnalyzeClarificationClearsMedicines(t *testing.T) {
	completer := &fakeCompleter{response: `{
		"isValidHealthQuery": true,
		"needsClarification": true,
		"followUpQuestions": ["How long have you felt this way?"],
		"analysis": "I need a bit more information.",
		"suggestedMedicines": ["Ibuprofen"],
		"recommendations": ["Stay hydrated"]
	}`}
	engine := NewTriageEngine(completer, nil)

	result := engine.Analyze(context.Background(), "I don't feel good", "", "English", common.NewRequestContext())

	assert.True(t, result.NeedsClarification)
	assert.Empty(t, result.SuggestedMedicines)
	// Recommendations survive clarification, only medicines are cleared.
	assert.Equal(t, []string{"Stay hydrated"}, result.Recommendations)
	assert.Nil(t, result.Severity)
}

func TestAnalyzeDefaultsForActionableResult(t *testing.T) {
	completer := &fakeCompleter{response: `{
		"isValidHealthQuery": true,
		"needsClarification": false,
		"analysis": "Likely a tension headache.",
		"suggestedMedicines": ["Paracetamol"]
	}`}
	engine := NewTriageEngine(completer, nil)

	result := engine.Analyze(context.Background(), "mild headache since morning", "", "English", common.NewRequestContext())

	require.NotNil(t, result.Severity)
	assert.Equal(t, "moderate", *result.Severity)
	require.NotNil(t, result.DoctorConsultation)
	assert.Equal(t, "recommended", *result.DoctorConsultation)
	require.NotNil(t, result.UrgencyLevel)
	assert.Equal(t, "if symptoms worsen", *result.UrgencyLevel)
}

func TestAnalyzeModelUnavailable(t *testing.T) {
	completer := &fakeCompleter{err: &ModelUnavailableError{Attempted: 4, LastError: "quota"}}
	engine := NewTriageEngine(completer, nil)

	result := engine.Analyze(context.Background(), "chest pain", "", "English", common.NewRequestContext())

	assert.True(t, result.IsValidHealthQuery)
	assert.True(t, result.NeedsClarification)
	assert.Empty(t, result.SuggestedMedicines)
	assert.Len(t, result.FollowUpQuestions, 2)
	assert.Len(t, result.Recommendations, 2)
	assert.Contains(t, result.Recommendations[0], "consult a doctor")
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	completer := &fakeCompleter{response: "I am not JSON at all"}
	engine := NewTriageEngine(completer, nil)

	result := engine.Analyze(context.Background(), "sore throat", "", "English", common.NewRequestContext())

	assert.True(t, result.NeedsClarification)
	assert.Empty(t, result.SuggestedMedicines)
	assert.NotEmpty(t, result.FollowUpQuestions)
}

func TestAnalyzeIncludesFollowUpAnswersInPrompt(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("stop early")}
	engine := NewTriageEngine(completer, nil)

	engine.Analyze(context.Background(), "fever", "it started yesterday", "English", common.NewRequestContext())

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "PATIENT'S INPUT: fever")
	assert.Contains(t, completer.prompts[0], "PATIENT'S PREVIOUS ANSWERS: it started yesterday")
}
