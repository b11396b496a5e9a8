// medicine_pipeline.go - Staged extraction of medicine info from package photos

package processor

import (
	"context"
	"strings"

	"github.com/arogyalabs/telehealth-backend/internal/ai"
	"github.com/arogyalabs/telehealth-backend/internal/common"
	"github.com/arogyalabs/telehealth-backend/internal/ocr"
)

// MedicineExtraction is what the pipeline recovered from a medicine
// package image. Confidence is "high", "medium", "low", or "none"
// when every stage came up empty.
type MedicineExtraction struct {
	MedicineName string `json:"medicineName"`
	GenericName  string `json:"genericName"`
	Dosage       string `json:"dosage"`
	Confidence   string `json:"confidence"`
}

// MedicinePipeline reads medicine packages with staged fallbacks:
// vision model first, then OCR plus a text model, then a free-text
// vision pass. It never fails the request; when everything misses it
// returns an empty extraction with confidence "none".
type MedicinePipeline struct {
	completer ai.Completer
	engine    ocr.Engine
}

func NewMedicinePipeline(completer ai.Completer, engine ocr.Engine) *MedicinePipeline {
	return &MedicinePipeline{completer: completer, engine: engine}
}

// Analyze runs the staged extraction. It returns the extraction, the
// raw text the winning stage produced, and the stage name
// ("gemini-vision", "ocr", "gemini-vision-simple", or "none").
func (p *MedicinePipeline) Analyze(ctx context.Context, image []byte, mimeType string, rc *common.RequestContext) (*MedicineExtraction, string, string) {
	// Stage 1: vision model reads the package directly.
	rc.StartStep("vision_extraction")
	raw, err := p.completer.CompleteVision(ctx, ai.BuildPackageVisionPrompt(), image, mimeType, rc)
	if err == nil {
		var extraction MedicineExtraction
		if parseErr := ai.ExtractJSON(raw, &extraction); parseErr == nil {
			rc.EndStep("success", nil)
			if extraction.Confidence == "" {
				extraction.Confidence = "medium"
			}
			text := "Brand: " + extraction.MedicineName + "\nGeneric: " + extraction.GenericName + "\nDosage: " + extraction.Dosage
			return &extraction, text, "gemini-vision"
		}
		// Model answered but not in JSON; take the first line as the name.
		rc.EndStep("success", nil)
		clean := strings.TrimSpace(strings.ReplaceAll(raw, "```", ""))
		if line := firstMeaningfulLine(clean); line != "" {
			extraction = MedicineExtraction{
				MedicineName: common.Truncate(line, 100),
				Confidence:   "medium",
			}
			return &extraction, clean, "gemini-vision"
		}
	} else {
		rc.EndStep("failed", err)
	}

	// Stage 2: OCR the preprocessed image, then have a text model
	// structure the result.
	rc.StartStep("ocr_extraction")
	processed, _, prepErr := Preprocess(image, LabelMode)
	if prepErr == nil {
		ocrText, ocrErr := p.engine.Recognize(ctx, processed, ocr.ModeLabel)
		if ocrErr == nil && ocrText != "" {
			rc.EndStep("success", nil)
			if extraction := p.structureLabelText(ctx, ocrText, rc); extraction != nil {
				return extraction, ocrText, "ocr"
			}
			// Text model unusable; first OCR line is better than nothing.
			if line := firstMeaningfulLine(ocrText); line != "" {
				return &MedicineExtraction{MedicineName: line, Confidence: "low"}, ocrText, "ocr"
			}
		} else {
			rc.EndStep("skipped", ocrErr)
		}
	} else {
		rc.EndStep("failed", prepErr)
	}

	// Stage 3: last resort, free-text vision reading.
	rc.StartStep("vision_simple_extraction")
	raw, err = p.completer.CompleteVision(ctx, ai.BuildSimpleVisionPrompt(), image, mimeType, rc)
	if err == nil {
		rc.EndStep("success", nil)
		clean := strings.TrimSpace(strings.ReplaceAll(raw, "```", ""))
		lines := meaningfulLines(clean)
		extraction := &MedicineExtraction{Confidence: "medium"}
		if len(lines) > 0 {
			extraction.MedicineName = lines[0]
		}
		if len(lines) > 1 {
			extraction.GenericName = lines[1]
		}
		if extraction.MedicineName != "" {
			return extraction, clean, "gemini-vision-simple"
		}
	} else {
		rc.EndStep("failed", err)
	}

	return &MedicineExtraction{Confidence: "none"}, "", "none"
}

// structureLabelText asks a text model to structure raw OCR output.
// Returns nil when the model is unavailable or unparseable.
func (p *MedicinePipeline) structureLabelText(ctx context.Context, ocrText string, rc *common.RequestContext) *MedicineExtraction {
	raw, err := p.completer.Complete(ctx, ai.BuildLabelOCRPrompt(ocrText), rc)
	if err != nil {
		return nil
	}
	var extraction MedicineExtraction
	if err := ai.ExtractJSON(raw, &extraction); err != nil {
		return nil
	}
	if extraction.Confidence == "" {
		extraction.Confidence = "medium"
	}
	return &extraction
}

// firstMeaningfulLine returns the first line with more than two
// non-space characters.
func firstMeaningfulLine(text string) string {
	lines := meaningfulLines(text)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

func meaningfulLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 2 {
			out = append(out, line)
		}
	}
	return out
}
