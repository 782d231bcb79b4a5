package ai

import (
	"context"
	"errors"
)

// ErrNoResult means the provider answered but produced nothing usable:
// empty text, malformed JSON or values outside the allowed set
var ErrNoResult = errors.New("ai returned no usable result")

// ErrUnavailable means no provider is configured
var ErrUnavailable = errors.New("ai provider not configured")

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)

// Prompt is one completion request
type Prompt struct {
	System      string
	User        string
	JSON        bool // ask for a JSON object response
	Temperature float32
}

// Generator turns a prompt into text. Implement this interface to add a
// new provider (Gemini, Ollama, OpenAI, etc.)
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	Name() string
}

// Profile is the workspace context injected into drafting prompts
type Profile struct {
	OfficeName         string
	EventName          string
	EventSummary       string
	WebsiteURL         string
	CommunicationStyle string
	Signature          string
	Knowledge          []Fact
}

// Fact is one knowledge-base entry
type Fact struct {
	Key   string
	Value string
}

// EmailDigest is the plain-text view of an email that is sent to a model
type EmailDigest struct {
	ID          string   `json:"id"`
	Subject     string   `json:"subject"`
	Sender      string   `json:"sender"`
	Body        string   `json:"body"`
	Attachments []string `json:"-"`
}

// SuggestedTask is a follow-up the model found in an email
type SuggestedTask struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// Analysis is the triage result for one email
type Analysis struct {
	Status         string          `json:"status"`
	Tags           []string        `json:"tags"`
	SuggestedTasks []SuggestedTask `json:"suggestedTasks"`
}

// BulkDraft is a subject and body for a personalized bulk send
type BulkDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TemplateDraft is a generated reusable template
type TemplateDraft struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

// ReplyRequest asks for a reply to one email
type ReplyRequest struct {
	Email         EmailDigest
	RecipientName string
	Instruction   string
	Profile       Profile
}

// StatusOption is a status the analyzer may choose, with its meaning
type StatusOption struct {
	Value string
	Label string
}

// Collaborator is everything the application asks of the AI layer
type Collaborator interface {
	AnalyzeEmail(ctx context.Context, email EmailDigest, statuses []StatusOption) (*Analysis, error)
	GenerateReply(ctx context.Context, req ReplyRequest) (string, error)
	GenerateBulkDraft(ctx context.Context, instruction string, p Profile) (*BulkDraft, error)
	GenerateTemplateDraft(ctx context.Context, instruction string, p Profile) (*TemplateDraft, error)
	GenerateTags(ctx context.Context, title, body string) ([]string, error)
	// SearchEmails returns the ids of corpus entries relevant to query,
	// most relevant first. Ids not in corpus are never returned.
	SearchEmails(ctx context.Context, query string, corpus []EmailDigest) ([]string, error)
}
