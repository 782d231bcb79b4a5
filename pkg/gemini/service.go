package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model name is configured
const DefaultModel = "gemini-2.5-flash"

// Request is one generateContent call
type Request struct {
	System      string
	User        string
	JSON        bool
	Temperature float32
}

// Service talks to the Gemini API through the official Go SDK
type Service struct {
	client *genai.Client
	model  string
}

// NewService creates a Gemini client for apiKey
func NewService(ctx context.Context, apiKey, model string) (*Service, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Service{client: client, model: model}, nil
}

// Close releases the underlying connection
func (s *Service) Close() error {
	return s.client.Close()
}

// Generate sends one prompt and returns the concatenated text parts of the
// first candidate
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	// a GenerativeModel carries per-call config, so build one per request
	model := s.client.GenerativeModel(s.model)
	model.SetTemperature(req.Temperature)
	if req.System != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no content returned")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}
