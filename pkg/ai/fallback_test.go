package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackUsesSecondaryOnFailure(t *testing.T) {
	primary := &scriptedGenerator{name: "gemini", err: errors.New("googleapi: Error 429: quota exceeded")}
	secondary := &scriptedGenerator{name: "ollama", answers: []string{"hello"}}
	f := NewFallbackService(primary, secondary)

	out, err := f.Generate(context.Background(), Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Len(t, primary.prompts, 1)
	assert.Equal(t, "fallback(gemini,ollama)", f.Name())
}

func TestFallbackReportsBothErrors(t *testing.T) {
	f := NewFallbackService(
		&scriptedGenerator{name: "gemini", err: errors.New("first")},
		&scriptedGenerator{name: "ollama", err: errors.New("dial tcp: connection refused")},
	)
	_, err := f.Generate(context.Background(), Prompt{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFallbackStopsWhenContextDone(t *testing.T) {
	secondary := &scriptedGenerator{answers: []string{"late"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFallbackService(&scriptedGenerator{err: context.Canceled}, secondary).Generate(ctx, Prompt{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, secondary.prompts)
}

func TestFallbackWithNoProviders(t *testing.T) {
	_, err := NewFallbackService(nil, nil).Generate(context.Background(), Prompt{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, isQuotaError(errors.New("RESOURCE_EXHAUSTED")))
	assert.False(t, isQuotaError(errors.New("bad request")))
	assert.True(t, isConnectionError(errors.New("dial tcp 127.0.0.1:11434")))
	assert.False(t, isConnectionError(nil))
}
