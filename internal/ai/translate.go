// translate.go - Fail-open translation of patient-facing text

package ai

import (
	"context"

	"github.com/arogyalabs/telehealth-backend/internal/common"
)

// Translator converts the text fields of AI payloads into the
// patient's language. Every method fails open: if translation cannot
// complete, the English payload is returned unchanged.
type Translator struct {
	completer Completer
}

func NewTranslator(completer Completer) *Translator {
	return &Translator{completer: completer}
}

// TranslateTriage translates the conversational fields of a triage
// result. Clinical enums and medicine names stay in English.
func (t *Translator) TranslateTriage(ctx context.Context, result *TriageResult, targetLanguage string, rc *common.RequestContext) *TriageResult {
	rc.StartStep("translation")

	prompt, err := BuildTranslationPrompt(result, targetLanguage)
	if err != nil {
		rc.EndStep("failed", err)
		return result
	}

	raw, err := t.completer.Complete(ctx, prompt, rc)
	if err != nil {
		rc.EndStep("failed", err)
		rc.LogWarning("Translation unavailable, keeping English response")
		return result
	}

	var translated TriageResult
	if err := ExtractJSON(raw, &translated); err != nil {
		rc.EndStep("failed", err)
		rc.LogWarning("Translation response unparseable, keeping English response")
		return result
	}
	rc.EndStep("success", nil)

	// Models occasionally drop fields when rewriting the JSON; keep
	// the originals where the translation came back empty or where
	// the field must stay untouched.
	if translated.Analysis == "" {
		translated.Analysis = result.Analysis
	}
	if len(translated.FollowUpQuestions) == 0 {
		translated.FollowUpQuestions = result.FollowUpQuestions
	}
	if len(translated.Recommendations) == 0 {
		translated.Recommendations = result.Recommendations
	}
	translated.IsValidHealthQuery = result.IsValidHealthQuery
	translated.NeedsClarification = result.NeedsClarification
	translated.Severity = result.Severity
	translated.SuggestedMedicines = result.SuggestedMedicines
	translated.DoctorConsultation = result.DoctorConsultation
	translated.UrgencyLevel = result.UrgencyLevel

	return &translated
}

// TranslateMap translates a generic JSON payload (medicine usage info)
// using the same fail-open contract.
func (t *Translator) TranslateMap(ctx context.Context, payload map[string]interface{}, targetLanguage string, rc *common.RequestContext) map[string]interface{} {
	rc.StartStep("translation")

	prompt, err := BuildTranslationPrompt(payload, targetLanguage)
	if err != nil {
		rc.EndStep("failed", err)
		return payload
	}

	raw, err := t.completer.Complete(ctx, prompt, rc)
	if err != nil {
		rc.EndStep("failed", err)
		return payload
	}

	var translated map[string]interface{}
	if err := ExtractJSON(raw, &translated); err != nil {
		rc.EndStep("failed", err)
		return payload
	}
	rc.EndStep("success", nil)

	return translated
}
