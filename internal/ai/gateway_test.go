package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCaller returns canned results per model name and records
// the order models were tried in.
type scriptedCaller struct {
	responses map[string]string
	errs      map[string]error
	called    []string
}

func (c *scriptedCaller) call(ctx context.Context, model string, kind callKind, prompt string, image []byte, mimeType string) (string, error) {
	c.called = append(c.called, model)
	if err, ok := c.errs[model]; ok {
		return "", err
	}
	return c.responses[model], nil
}

func newTestGateway(caller modelCaller) *Gateway {
	return &Gateway{
		textModels:   []string{"model-a", "model-b", "model-c"},
		visionModels: []string{"vision-a", "vision-b"},
		caller:       caller,
	}
}

func TestGatewayUsesPrimaryModel(t *testing.T) {
	caller := &scriptedCaller{responses: map[string]string{"model-a": "primary answer"}}
	g := newTestGateway(caller)

	text, err := g.Complete(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "primary answer", text)
	assert.Equal(t, []string{"model-a"}, caller.called)
}

func TestGatewayFallsBackInOrder(t *testing.T) {
	caller := &scriptedCaller{
		responses: map[string]string{"model-b": "backup answer"},
		errs:      map[string]error{"model-a": errors.New("quota exceeded")},
	}
	g := newTestGateway(caller)

	text, err := g.Complete(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "backup answer", text)
	// Third candidate must not be touched once the second succeeds.
	assert.Equal(t, []string{"model-a", "model-b"}, caller.called)
}

func TestGatewayTreatsEmptyResponseAsMiss(t *testing.T) {
	caller := &scriptedCaller{
		responses: map[string]string{"model-a": "   \n", "model-b": "real answer"},
	}
	g := newTestGateway(caller)

	text, err := g.Complete(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "real answer", text)
}

func TestGatewayExhaustion(t *testing.T) {
	caller := &scriptedCaller{
		errs: map[string]error{
			"model-a": errors.New("down"),
			"model-b": errors.New("down"),
			"model-c": errors.New("last failure"),
		},
	}
	g := newTestGateway(caller)

	_, err := g.Complete(context.Background(), "prompt", nil)
	require.Error(t, err)
	assert.True(t, IsModelUnavailable(err))

	var unavailable *ModelUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 3, unavailable.Attempted)
	assert.Contains(t, unavailable.LastError, "last failure")
	assert.Equal(t, []string{"model-a", "model-b", "model-c"}, caller.called)
}

func TestGatewayFreshRequestStartsFromPrimary(t *testing.T) {
	caller := &scriptedCaller{
		responses: map[string]string{"model-b": "answer"},
		errs:      map[string]error{"model-a": errors.New("down")},
	}
	g := newTestGateway(caller)

	_, err := g.Complete(context.Background(), "one", nil)
	require.NoError(t, err)
	_, err = g.Complete(context.Background(), "two", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"model-a", "model-b", "model-a", "model-b"}, caller.called)
}

func TestGatewayVisionUsesVisionChain(t *testing.T) {
	caller := &scriptedCaller{responses: map[string]string{"vision-a": "seen"}}
	g := newTestGateway(caller)

	text, err := g.CompleteVision(context.Background(), "prompt", []byte{0xFF}, "image/jpeg", nil)
	require.NoError(t, err)
	assert.Equal(t, "seen", text)
	assert.Equal(t, []string{"vision-a"}, caller.called)
}
