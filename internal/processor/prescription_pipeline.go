// prescription_pipeline.go - Staged extraction of prescription details from photos

package processor

import (
	"context"
	"strings"

	"github.com/arogyalabs/telehealth-backend/internal/ai"
	"github.com/arogyalabs/telehealth-backend/internal/common"
	"github.com/arogyalabs/telehealth-backend/internal/ocr"
)

// PrescribedMedicine is one medicine entry read off a prescription.
type PrescribedMedicine struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

// PrescriptionExtraction is the structured content of a prescription
// image. Confidence is "high", "medium", "low", or "none".
type PrescriptionExtraction struct {
	Medicines   []PrescribedMedicine `json:"medicines"`
	DoctorName  string               `json:"doctorName"`
	PatientName string               `json:"patientName"`
	Date        string               `json:"date"`
	Confidence  string               `json:"confidence"`
}

// PrescriptionPipeline reads prescriptions OCR-first: handwriting
// needs the lighter preprocessing path, and a text model is better at
// untangling noisy OCR output than the vision model is at reading pen
// strokes. Vision is the fallback when OCR produces nothing.
type PrescriptionPipeline struct {
	completer ai.Completer
	engine    ocr.Engine
}

func NewPrescriptionPipeline(completer ai.Completer, engine ocr.Engine) *PrescriptionPipeline {
	return &PrescriptionPipeline{completer: completer, engine: engine}
}

// Analyze runs the staged extraction. It returns the extraction, the
// raw text recovered from the image, and the stage name ("ocr",
// "gemini-vision", or "none"). It never fails the request.
func (p *PrescriptionPipeline) Analyze(ctx context.Context, image []byte, mimeType string, rc *common.RequestContext) (*PrescriptionExtraction, string, string) {
	var ocrText string
	method := "none"

	// Stage 1: OCR with prescription-grade preprocessing.
	rc.StartStep("ocr_extraction")
	processed, _, prepErr := Preprocess(image, PrescriptionMode)
	if prepErr == nil {
		text, err := p.engine.Recognize(ctx, processed, ocr.ModePrescription)
		if err == nil && text != "" {
			ocrText = text
			method = "ocr"
			rc.EndStep("success", nil)
		} else {
			rc.EndStep("skipped", err)
		}
	} else {
		rc.EndStep("failed", prepErr)
	}

	// Stage 2: vision fallback produces the raw text OCR couldn't.
	if ocrText == "" {
		rc.StartStep("vision_extraction")
		raw, err := p.completer.CompleteVision(ctx, ai.BuildPrescriptionVisionPrompt(), image, mimeType, rc)
		if err == nil && strings.TrimSpace(raw) != "" {
			ocrText = strings.TrimSpace(raw)
			method = "gemini-vision"
			rc.EndStep("success", nil)
		} else {
			rc.EndStep("failed", err)
		}
	}

	if ocrText == "" {
		return &PrescriptionExtraction{Medicines: []PrescribedMedicine{}, Confidence: "none"}, "", "none"
	}

	// Stage 3: text model structures whatever text we recovered.
	extraction := p.structurePrescriptionText(ctx, ocrText, rc)
	if extraction == nil {
		extraction = fallbackFromText(ocrText)
	}
	if extraction.Medicines == nil {
		extraction.Medicines = []PrescribedMedicine{}
	}

	return extraction, ocrText, method
}

func (p *PrescriptionPipeline) structurePrescriptionText(ctx context.Context, ocrText string, rc *common.RequestContext) *PrescriptionExtraction {
	raw, err := p.completer.Complete(ctx, ai.BuildPrescriptionOCRPrompt(ocrText), rc)
	if err != nil {
		return nil
	}
	var extraction PrescriptionExtraction
	if err := ai.ExtractJSON(raw, &extraction); err != nil {
		return nil
	}
	if extraction.Confidence == "" {
		extraction.Confidence = "medium"
	}
	return &extraction
}

// fallbackFromText builds a low-confidence extraction from the first
// meaningful line of recovered text.
func fallbackFromText(text string) *PrescriptionExtraction {
	extraction := &PrescriptionExtraction{
		Medicines:  []PrescribedMedicine{},
		Confidence: "low",
	}
	if line := firstMeaningfulLine(text); line != "" {
		extraction.Medicines = append(extraction.Medicines, PrescribedMedicine{Name: line})
	}
	return extraction
}
