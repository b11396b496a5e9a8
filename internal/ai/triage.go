// triage.go - Symptom triage over the model gateway

package ai

import (
	"context"

	"github.com/arogyalabs/telehealth-backend/internal/common"
)

// TriageResult is the normalized symptom analysis payload. Severity,
// DoctorConsultation and UrgencyLevel are pointers because the contract
// distinguishes "not applicable" (null) from an empty string.
type TriageResult struct {
	IsValidHealthQuery bool     `json:"isValidHealthQuery"`
	NeedsClarification bool     `json:"needsClarification"`
	Analysis           string   `json:"analysis"`
	Severity           *string  `json:"severity"`
	FollowUpQuestions  []string `json:"followUpQuestions"`
	Recommendations    []string `json:"recommendations"`
	SuggestedMedicines []string `json:"suggestedMedicines"`
	DoctorConsultation *string  `json:"doctorConsultation"`
	UrgencyLevel       *string  `json:"urgencyLevel"`
}

// triageResponse mirrors the model's JSON with every field optional,
// so missing keys are distinguishable from explicit values.
type triageResponse struct {
	IsValidHealthQuery *bool    `json:"isValidHealthQuery"`
	NeedsClarification *bool    `json:"needsClarification"`
	Analysis           *string  `json:"analysis"`
	Severity           *string  `json:"severity"`
	FollowUpQuestions  []string `json:"followUpQuestions"`
	Recommendations    []string `json:"recommendations"`
	SuggestedMedicines []string `json:"suggestedMedicines"`
	DoctorConsultation *string  `json:"doctorConsultation"`
	UrgencyLevel       *string  `json:"urgencyLevel"`
}

// TriageEngine turns free-text symptoms into a structured assessment.
// Analyze never returns an error: on any model or parse failure it
// returns the safe clarification payload instead.
type TriageEngine struct {
	completer  Completer
	translator *Translator
}

func NewTriageEngine(completer Completer, translator *Translator) *TriageEngine {
	return &TriageEngine{completer: completer, translator: translator}
}

// Analyze runs the triage prompt and normalizes the response. If
// language is not English, the text fields are translated after
// analysis; translation failures fall back to the English payload.
func (e *TriageEngine) Analyze(ctx context.Context, symptoms, followUpAnswers, language string, rc *common.RequestContext) *TriageResult {
	rc.StartStep("symptom_analysis")

	prompt := BuildTriagePrompt(symptoms, followUpAnswers)
	raw, err := e.completer.Complete(ctx, prompt, rc)
	if err != nil {
		rc.EndStep("failed", err)
		rc.LogWarning("Symptom analysis unavailable, returning safe fallback")
		return safeFallbackResult()
	}

	var resp triageResponse
	if err := ExtractJSON(raw, &resp); err != nil {
		rc.EndStep("failed", err)
		rc.LogWarning("Symptom analysis response unparseable, returning clarification fallback")
		return parseFailureResult()
	}
	rc.EndStep("success", nil)

	result := normalizeTriage(&resp)

	if language != "" && language != "English" && e.translator != nil {
		result = e.translator.TranslateTriage(ctx, result, language, rc)
	}

	return result
}

// normalizeTriage fills deterministic defaults for missing fields and
// enforces the safety invariants on the parsed response.
func normalizeTriage(resp *triageResponse) *TriageResult {
	result := &TriageResult{
		IsValidHealthQuery: true,
		NeedsClarification: false,
		FollowUpQuestions:  []string{},
		Recommendations:    []string{},
		SuggestedMedicines: []string{},
	}

	if resp.IsValidHealthQuery != nil {
		result.IsValidHealthQuery = *resp.IsValidHealthQuery
	}
	if resp.NeedsClarification != nil {
		result.NeedsClarification = *resp.NeedsClarification
	}
	if resp.FollowUpQuestions != nil {
		result.FollowUpQuestions = resp.FollowUpQuestions
	}
	if resp.Recommendations != nil {
		result.Recommendations = resp.Recommendations
	}
	if resp.SuggestedMedicines != nil {
		result.SuggestedMedicines = resp.SuggestedMedicines
	}

	// Off-topic queries always route back to clarification, whatever
	// the model claimed.
	if !result.IsValidHealthQuery {
		result.NeedsClarification = true
	}

	actionable := result.IsValidHealthQuery && !result.NeedsClarification

	// Severity, consultation and urgency are only meaningful on an
	// actionable assessment: default them there, null them elsewhere.
	if actionable {
		result.Severity = resp.Severity
		if result.Severity == nil {
			result.Severity = strPtr("moderate")
		}
		result.DoctorConsultation = resp.DoctorConsultation
		if result.DoctorConsultation == nil {
			result.DoctorConsultation = strPtr("recommended")
		}
		result.UrgencyLevel = resp.UrgencyLevel
		if result.UrgencyLevel == nil {
			result.UrgencyLevel = strPtr("if symptoms worsen")
		}
	}

	if resp.Analysis != nil && *resp.Analysis != "" {
		result.Analysis = *resp.Analysis
	} else if !result.IsValidHealthQuery {
		result.Analysis = "I can only help with health-related questions. Please describe your health symptoms or concerns."
	} else if result.NeedsClarification {
		result.Analysis = "I need more information to help you better. Please answer the questions below."
	} else {
		result.Analysis = "Please provide more details about your symptoms for better analysis."
	}

	// Invalid or unclear queries never carry medicine suggestions.
	if !result.IsValidHealthQuery {
		result.SuggestedMedicines = []string{}
		result.Recommendations = []string{}
	} else if result.NeedsClarification {
		result.SuggestedMedicines = []string{}
	}

	return result
}

// parseFailureResult is returned when the model answered but no JSON
// could be recovered.
func parseFailureResult() *TriageResult {
	return &TriageResult{
		IsValidHealthQuery: true,
		NeedsClarification: true,
		Analysis:           "I apologize, but I'm having trouble processing your request properly. Could you please rephrase your symptoms or health concerns?",
		FollowUpQuestions: []string{
			"Could you describe your symptoms in more detail?",
			"How long have you been experiencing these symptoms?",
		},
		Recommendations:    []string{},
		SuggestedMedicines: []string{},
	}
}

// safeFallbackResult is returned when no model responded at all.
func safeFallbackResult() *TriageResult {
	return &TriageResult{
		IsValidHealthQuery: true,
		NeedsClarification: true,
		Analysis:           "I apologize, but I am unable to process your request at this time. Please describe your health concerns again, or consult a qualified healthcare professional.",
		FollowUpQuestions: []string{
			"Could you describe your symptoms again?",
			"What health concerns are you experiencing?",
		},
		Recommendations: []string{
			"If experiencing severe symptoms, consult a doctor immediately",
			"Do not self-medicate without professional advice",
		},
		SuggestedMedicines: []string{},
	}
}

func strPtr(s string) *string {
	return &s
}
