package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/sirupsen/logrus"
)

// FallbackService routes a prompt to the preferred provider and falls back
// to the other one when it fails
type FallbackService struct {
	primary   Generator
	secondary Generator
}

// NewFallbackService tries primary first, then secondary. Either may be nil.
func NewFallbackService(primary, secondary Generator) *FallbackService {
	return &FallbackService{
		primary:   primary,
		secondary: secondary,
	}
}

func (f *FallbackService) Name() string {
	var names []string
	for _, g := range []Generator{f.primary, f.secondary} {
		if g != nil {
			names = append(names, g.Name())
		}
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}
	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"resource_exhausted",
	}
	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// Generate implements Generator
func (f *FallbackService) Generate(ctx context.Context, p Prompt) (string, error) {
	var firstErr error
	if f.primary != nil {
		result, err := f.primary.Generate(ctx, p)
		if err == nil {
			return result, nil
		}
		firstErr = err

		switch {
		case isQuotaError(err):
			logrus.Warnf("[AI] %s quota exhausted: %v, falling back", f.primary.Name(), err)
		case isConnectionError(err):
			logrus.Warnf("[AI] %s connection failed: %v, falling back", f.primary.Name(), err)
		default:
			logrus.Warnf("[AI] %s error: %v, falling back", f.primary.Name(), err)
		}
		if ctx.Err() != nil {
			return "", err
		}
	}

	if f.secondary != nil {
		result, err := f.secondary.Generate(ctx, p)
		if err == nil {
			logrus.Debugf("[AI] %s answered after fallback", f.secondary.Name())
			return result, nil
		}
		if firstErr != nil {
			return "", fmt.Errorf("%s failed: %w (after %v)", f.secondary.Name(), err, firstErr)
		}
		return "", err
	}

	if firstErr != nil {
		return "", firstErr
	}
	return "", ErrUnavailable
}
