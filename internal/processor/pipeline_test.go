package processor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyalabs/telehealth-backend/internal/common"
	"github.com/arogyalabs/telehealth-backend/internal/ocr"
)

// stubCompleter scripts text and vision responses separately. Vision
// responses are consumed in order, one per call.
type stubCompleter struct {
	textResponse string
	textErr      error

	visionResponses []string
	visionErrs      []error
	visionCalls     int
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string, rc *common.RequestContext) (string, error) {
	return s.textResponse, s.textErr
}

func (s *stubCompleter) CompleteVision(ctx context.Context, prompt string, img []byte, mimeType string, rc *common.RequestContext) (string, error) {
	idx := s.visionCalls
	s.visionCalls++
	var err error
	if idx < len(s.visionErrs) {
		err = s.visionErrs[idx]
	}
	var resp string
	if idx < len(s.visionResponses) {
		resp = s.visionResponses[idx]
	}
	return resp, err
}

// stubEngine returns fixed OCR text or an error.
type stubEngine struct {
	text string
	err  error
}

func (s stubEngine) Recognize(ctx context.Context, img []byte, mode ocr.Mode) (string, error) {
	return s.text, s.err
}

// testImage returns a small valid PNG so preprocessing succeeds.
func testImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMedicinePipelineVisionSucceeds(t *testing.T) {
	completer := &stubCompleter{
		visionResponses: []string{`{"medicineName": "Dolo-650", "genericName": "Paracetamol", "dosage": "650mg", "confidence": "high"}`},
	}
	pipeline := NewMedicinePipeline(completer, ocr.Disabled{})

	extraction, text, method := pipeline.Analyze(context.Background(), testImage(t), "image/png", common.NewRequestContext())

	assert.Equal(t, "gemini-vision", method)
	assert.Equal(t, "Dolo-650", extraction.MedicineName)
	assert.Equal(t, "Paracetamol", extraction.GenericName)
	assert.Equal(t, "650mg", extraction.Dosage)
	assert.Equal(t, "high", extraction.Confidence)
	assert.Contains(t, text, "Dolo-650")
}

func TestMedicinePipelineOCRFallback(t *testing.T) {
	completer := &stubCompleter{
		visionErrs:   []error{errors.New("vision down")},
		textResponse: `{"medicineName": "Crocin Advance", "genericName": "Paracetamol", "dosage": "500mg", "confidence": "medium"}`,
	}
	pipeline := NewMedicinePipeline(completer, stubEngine{text: "CROCIN ADVANCE\nParacetamol 500mg"})

	extraction, text, method := pipeline.Analyze(context.Background(), testImage(t), "image/png", common.NewRequestContext())

	assert.Equal(t, "ocr", method)
	assert.Equal(t, "Crocin Advance", extraction.MedicineName)
	assert.Equal(t, "CROCIN ADVANCE\nParacetamol 500mg", text)
}

func TestMedicinePipelineVisionSimpleLastResort(t *testing.T) {
	completer := &stubCompleter{
		visionErrs:      []error{errors.New("vision down"), nil},
		visionResponses: []string{"", "Dolo-650\nParacetamol"},
		textErr:         errors.New("text model down"),
	}
	pipeline := NewMedicinePipeline(completer, ocr.Disabled{})

	extraction, _, method := pipeline.Analyze(context.Background(), testImage(t), "image/png", common.NewRequestContext())

	assert.Equal(t, "gemini-vision-simple", method)
	assert.Equal(t, "Dolo-650", extraction.MedicineName)
	assert.Equal(t, "Paracetamol", extraction.GenericName)
	assert.Equal(t, "medium", extraction.Confidence)
}

func TestMedicinePipelineAllStagesFail(t *testing.T) {
	completer := &stubCompleter{
		visionErrs: []error{errors.New("down"), errors.New("down")},
	}
	pipeline := NewMedicinePipeline(completer, ocr.Disabled{})

	extraction, text, method := pipeline.Analyze(context.Background(), testImage(t), "image/png", common.NewRequestContext())

	assert.Equal(t, "none", method)
	assert.Empty(t, extraction.MedicineName)
	assert.Equal(t, "none", extraction.Confidence)
	assert.Empty(t, text)
}

func TestMedicinePipelineNonJSONVisionUsesFirstLine(t *testing.T) {
	completer := &stubCompleter{
		visionResponses: []string{"The medicine shown is Combiflam.\nIt contains Ibuprofen and Paracetamol."},
	}
	pipeline := NewMedicinePipeline(completer, ocr.Disabled{})

	extraction, _, method := pipeline.Analyze(context.Background(), testImage(t), "image/png", common.NewRequestContext())

	assert.Equal(t, "gemini-vision", method)
	assert.Equal(t, "The medicine shown is Combiflam.", extraction.MedicineName)
	assert.Equal(t, "medium", extraction.Confidence)
}

func TestPrescriptionPipelineOCRFirst(t *testing.T) {
	completer := &stubCompleter{
		textResponse: `{
			"medicines": [{"name": "Amoxicillin", "dosage": "500mg", "frequency": "twice daily", "duration": "5 days"}],
			"doctorName": "Dr. Ramesh Kumar",
			"patientName": "John Doe",
			"date": "2026-08-01",
			"confidence": "high"
		}`,
	}
	pipeline := NewPrescriptionPipeline(completer, stubEngine{text: "Rx Amoxicillin 500mg BD x5d"})

	extraction, text, method := pipeline.Analyze(context.Background(), testImage(t), "image/png", common.NewRequestContext())

	assert.Equal(t, "ocr", method)
	assert.Equal(t, "Rx Amoxicillin 500mg BD x5d", text)
	require.Len(t, extraction.Medicines, 1)
	assert.Equal(t, "Amoxicillin", extraction.Medicines[0].Name)
	assert.Equal(t, "twice daily", extraction.Medicines[0].Frequency)
	assert.Equal(t, "Dr. Ramesh Kumar", extraction.DoctorName)
	// Vision must not be consulted when OCR produced text.
	assert.Zero(t, completer.visionCalls)
}

func TestPrescriptionPipelineVisionFallback(t *testing.T) {
	completer := &stubCompleter{
		visionResponses: []string{"Prescription: Dolo 650, twice a day, 3 days"},
		textResponse: `{
			"medicines": [{"name": "Dolo 650", "dosage": "650mg", "frequency": "twice a day", "duration": "3 days"}],
			"confidence": "medium"
		}`,
	}
	pipeline := NewPrescriptionPipeline(completer, ocr.Disabled{})

	extraction, _, method := pipeline.Analyze(context.Background(), testImage(t), "image/png", common.NewRequestContext())

	assert.Equal(t, "gemini-vision", method)
	require.Len(t, extraction.Medicines, 1)
	assert.Equal(t, "Dolo 650", extraction.Medicines[0].Name)
}

func TestPrescriptionPipelineNothingRecovered(t *testing.T) {
	completer := &stubCompleter{
		visionErrs: []error{errors.New("down")},
	}
	pipeline := NewPrescriptionPipeline(completer, ocr.Disabled{})

	extraction, text, method := pipeline.Analyze(context.Background(), testImage(t), "image/png", common.NewRequestContext())

	assert.Equal(t, "none", method)
	assert.Empty(t, text)
	assert.Empty(t, extraction.Medicines)
	assert.Equal(t, "none", extraction.Confidence)
}

func TestPrescriptionPipelineUnparseableModelOutput(t *testing.T) {
	completer := &stubCompleter{textResponse: "sorry, can't structure this"}
	pipeline := NewPrescriptionPipeline(completer, stubEngine{text: "Tab Crocin 500 mg\nonce daily"})

	extraction, _, method := pipeline.Analyze(context.Background(), testImage(t), "image/png", common.NewRequestContext())

	assert.Equal(t, "ocr", method)
	// First meaningful OCR line becomes a low-confidence guess.
	require.Len(t, extraction.Medicines, 1)
	assert.Equal(t, "Tab Crocin 500 mg", extraction.Medicines[0].Name)
	assert.Equal(t, "low", extraction.Confidence)
}
