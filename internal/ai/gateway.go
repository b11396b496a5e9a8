// gateway.go - Multi-model fallback over the Gemini API

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/arogyalabs/telehealth-backend/internal/common"
	"github.com/arogyalabs/telehealth-backend/internal/ratelimit"
)

// Completer is the AI capability consumed by the triage engine,
// translator, and image pipelines.
type Completer interface {
	Complete(ctx context.Context, prompt string, rc *common.RequestContext) (string, error)
	CompleteVision(ctx context.Context, prompt string, image []byte, mimeType string, rc *common.RequestContext) (string, error)
}

// callKind selects which generation parameters a request uses.
type callKind int

const (
	callText callKind = iota
	callVision
)

// modelCaller issues one generation request against one named model.
type modelCaller interface {
	call(ctx context.Context, model string, kind callKind, prompt string, image []byte, mimeType string) (string, error)
}

const perCandidateTimeout = 60 * time.Second

// Gateway tries an ordered list of model candidates and returns the
// first non-empty text response. Every candidate gets exactly one
// attempt per request; a fresh request starts from the primary again.
type Gateway struct {
	textModels   []string
	visionModels []string
	caller       modelCaller
	limiter      *ratelimit.RateLimiter
}

// NewGateway creates a gateway backed by the real Gemini client.
func NewGateway(ctx context.Context, apiKey string, textModels, visionModels []string, limiter *ratelimit.RateLimiter) (*Gateway, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gateway{
		textModels:   textModels,
		visionModels: visionModels,
		caller:       &geminiCaller{client: client},
		limiter:      limiter,
	}, nil
}

// Complete runs a text prompt through the candidate chain.
func (g *Gateway) Complete(ctx context.Context, prompt string, rc *common.RequestContext) (string, error) {
	return g.run(ctx, g.textModels, callText, prompt, nil, "", rc)
}

// CompleteVision runs a prompt plus an image through the vision chain.
func (g *Gateway) CompleteVision(ctx context.Context, prompt string, image []byte, mimeType string, rc *common.RequestContext) (string, error) {
	return g.run(ctx, g.visionModels, callVision, prompt, image, mimeType, rc)
}

func (g *Gateway) run(ctx context.Context, models []string, kind callKind, prompt string, image []byte, mimeType string, rc *common.RequestContext) (string, error) {
	lastErr := "no models configured"

	for _, model := range models {
		if g.limiter != nil {
			g.limiter.Wait()
		}

		callCtx, cancel := context.WithTimeout(ctx, perCandidateTimeout)
		text, err := g.caller.call(callCtx, model, kind, prompt, image, mimeType)
		cancel()

		if err == nil && strings.TrimSpace(text) != "" {
			if rc != nil {
				rc.LogInfo("Model %s responded (%d chars)", model, len(text))
			}
			return text, nil
		}

		if err != nil {
			lastErr = describeFailure(err)
		} else {
			lastErr = fmt.Sprintf("model %s returned empty response", model)
		}
		if rc != nil {
			rc.LogWarning("Model %s failed: %s", model, lastErr)
		}

		// A cancelled parent context means the client is gone, not
		// that this particular model is down.
		if ctx.Err() != nil {
			lastErr = ctx.Err().Error()
			break
		}
	}

	return "", &ModelUnavailableError{Attempted: len(models), LastError: lastErr}
}

// describeFailure turns an API error into a short log-friendly message.
func describeFailure(err error) string {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			return fmt.Sprintf("rate limited (429): %s", apiErr.Message)
		case 404:
			return fmt.Sprintf("model not found (404): %s", apiErr.Message)
		case 503:
			return fmt.Sprintf("service unavailable (503): %s", apiErr.Message)
		}
		return fmt.Sprintf("API error %d: %s", apiErr.Code, apiErr.Message)
	}
	return err.Error()
}

// geminiCaller is the production modelCaller backed by the genai SDK.
type geminiCaller struct {
	client *genai.Client
}

func (c *geminiCaller) call(ctx context.Context, model string, kind callKind, prompt string, image []byte, mimeType string) (string, error) {
	gm := c.client.GenerativeModel(model)

	switch kind {
	case callVision:
		gm.SetTemperature(0.3)
		gm.SetTopP(0.95)
		gm.SetTopK(40)
		gm.SetMaxOutputTokens(1024)
	default:
		gm.SetTemperature(0.7)
		gm.SetTopP(0.95)
		gm.SetTopK(40)
		gm.SetMaxOutputTokens(2048)
	}

	var parts []genai.Part
	parts = append(parts, genai.Text(prompt))
	if kind == callVision {
		parts = append(parts, genai.ImageData(imageFormat(mimeType), image))
	}

	resp, err := gm.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

// imageFormat maps a MIME type to the bare format string genai expects.
func imageFormat(mimeType string) string {
	format := strings.TrimPrefix(mimeType, "image/")
	if format == "" {
		format = "jpeg"
	}
	return format
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	return sb.String()
}
