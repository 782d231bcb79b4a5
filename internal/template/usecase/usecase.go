package usecase

import (
	"context"

	"eventdesk-backend/internal/state"
	"eventdesk-backend/internal/template/domain"
)

// TemplateUsecase manages reusable message templates
type TemplateUsecase interface {
	// ListTemplates returns every template, or those fuzzy-matching query
	// on title and tags, best match first
	ListTemplates(query string) []domain.Template
	GetTemplate(id string) (*domain.Template, error)
	CreateTemplate(in domain.TemplateInput) (*domain.Template, error)
	UpdateTemplate(id string, in domain.TemplateInput) (*domain.Template, error)
	DeleteTemplate(id string) error

	// Render fills workspace placeholders and, when to is given, the
	// recipient's name and address
	Render(id string, to *domain.Recipient) (string, error)
	// RenderForEmail renders a template as a reply to an inbound email
	RenderForEmail(id, emailID string) (string, error)

	// GenerateDraft asks the AI for a new template; nothing is saved
	GenerateDraft(ctx context.Context, instruction string) (*domain.TemplateInput, error)
	// GenerateTags asks the AI for 1-3 tags describing title and body
	GenerateTags(ctx context.Context, title, body string) ([]string, error)
}

// Store is the part of the workspace store the template usecase needs
type Store interface {
	Dispatch(a state.Action)
	DispatchAndGet(a state.Action) *state.State
	GetState() *state.State
}

// Translator renders notification messages
type Translator interface {
	T(messageID string) string
}
