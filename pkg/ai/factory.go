package ai

import (
	"context"
	"fmt"
	"time"

	"eventdesk-backend/pkg/gemini"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	// Gemini config
	GeminiAPIKey string
	GeminiModel  string

	// Ollama config. The getters, when set, take precedence over the static
	// values so the endpoint can be changed at runtime.
	OllamaBaseURL   string // e.g., "http://localhost:11434"
	OllamaModel     string // e.g., "llama3", "mistral"
	OllamaBaseURLFn func() string
	OllamaModelFn   func() string

	Timeout time.Duration
}

// geminiGenerator adapts the Gemini client to Generator
type geminiGenerator struct {
	svc *gemini.Service
}

func (g geminiGenerator) Name() string { return string(ProviderGemini) }

func (g geminiGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	return g.svc.Generate(ctx, gemini.Request{
		System:      p.System,
		User:        p.User,
		JSON:        p.JSON,
		Temperature: p.Temperature,
	})
}

// timeoutGenerator bounds every call of the wrapped generator
type timeoutGenerator struct {
	Generator
	timeout time.Duration
}

func (t timeoutGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Generator.Generate(ctx, p)
}

func (cfg Config) ollama() *OllamaService {
	if cfg.OllamaBaseURLFn != nil && cfg.OllamaModelFn != nil {
		return NewOllamaServiceWithGetters(cfg.OllamaBaseURLFn, cfg.OllamaModelFn)
	}
	return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)
}

// NewGenerator creates a Generator based on the config.
// This is the factory function - switch AI provider by changing config.Provider
func NewGenerator(ctx context.Context, cfg Config) (Generator, error) {
	var gen Generator
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		svc, err := gemini.NewService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		gen = geminiGenerator{svc: svc}

	case ProviderOllama:
		gen = cfg.ollama()

	default:
		// Gemini first when a key is available, Ollama as the fallback
		var primary Generator
		if cfg.GeminiAPIKey != "" {
			svc, err := gemini.NewService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return nil, err
			}
			primary = geminiGenerator{svc: svc}
		}
		gen = NewFallbackService(primary, cfg.ollama())
	}

	if cfg.Timeout > 0 {
		gen = timeoutGenerator{Generator: gen, timeout: cfg.Timeout}
	}
	return gen, nil
}
