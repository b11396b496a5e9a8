// engine.go - Text recognition over an external OCR service

package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Mode tells the engine what kind of document it is reading, so it
// can pick segmentation settings suited to print vs handwriting.
type Mode string

const (
	ModeLabel        Mode = "label"
	ModePrescription Mode = "prescription"
)

// ErrUnavailable means no OCR engine is configured or reachable.
// Callers treat it as "skip this step", not as a request failure.
var ErrUnavailable = errors.New("ocr engine unavailable")

// Engine extracts text from an image.
type Engine interface {
	Recognize(ctx context.Context, image []byte, mode Mode) (string, error)
}

// Disabled is the no-op engine used when no OCR service is configured.
type Disabled struct{}

func (Disabled) Recognize(ctx context.Context, image []byte, mode Mode) (string, error) {
	return "", ErrUnavailable
}

// HTTPEngine talks to a sidecar OCR service over multipart POST.
// The service wraps Tesseract and accepts a "mode" form field.
type HTTPEngine struct {
	baseURL string
	client  *http.Client
}

func NewHTTPEngine(baseURL string) *HTTPEngine {
	return &HTTPEngine{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *HTTPEngine) Recognize(ctx context.Context, image []byte, mode Mode) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "document.png")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.WriteField("mode", string(mode)); err != nil {
		return "", fmt.Errorf("failed to write mode field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/ocr", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: service returned status %d", ErrUnavailable, resp.StatusCode)
	}

	text, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read OCR response: %w", err)
	}

	return strings.TrimSpace(string(text)), nil
}
