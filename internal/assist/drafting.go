package assist

import (
	"context"
	"strings"

	mail "eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/pkg/ai"
	"eventdesk-backend/pkg/htmltext"
	"eventdesk-backend/pkg/logger"
)

// ReplySource supplies the draft a generated reply is merged into
type ReplySource interface {
	DefaultReply(emailID string) (*mail.Draft, error)
}

// Drafting generates reply and bulk-send drafts from workspace context
type Drafting struct {
	store        Store
	collaborator ai.Collaborator
	replies      ReplySource
}

// NewDrafting creates the drafting service
func NewDrafting(store Store, collaborator ai.Collaborator, replies ReplySource) *Drafting {
	return &Drafting{store: store, collaborator: collaborator, replies: replies}
}

// GenerateReply writes a reply to emailID following instruction. The
// generated text is placed above the current draft body, which keeps the
// quoted original. Nothing is saved.
func (d *Drafting) GenerateReply(ctx context.Context, emailID, instruction string) (*mail.Draft, error) {
	s := d.store.GetState()
	email, ok := s.FindEmail(emailID)
	if !ok {
		return nil, mail.ErrEmailNotFound
	}
	draft, err := d.replies.DefaultReply(emailID)
	if err != nil {
		return nil, err
	}

	text, err := d.collaborator.GenerateReply(ctx, ai.ReplyRequest{
		Email:         DigestOf(email),
		RecipientName: email.Sender.Name,
		Instruction:   instruction,
		Profile:       ProfileOf(s.Settings),
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = ai.ErrNoResult
	}
	if err != nil {
		logger.LogDegraded("ai_reply", err, map[string]interface{}{"email_id": emailID})
		return nil, ErrAIUnavailable
	}

	draft.Body = htmltext.Paragraphs(text) + "<br>" + draft.Body
	return draft, nil
}

// GenerateBulkDraft writes a subject and body for a bulk send. The body uses
// {{name}} for the recipient's name.
func (d *Drafting) GenerateBulkDraft(ctx context.Context, instruction string) (*ai.BulkDraft, error) {
	if strings.TrimSpace(instruction) == "" {
		return nil, ai.ErrNoResult
	}
	draft, err := d.collaborator.GenerateBulkDraft(ctx, instruction, ProfileOf(d.store.GetState().Settings))
	if err != nil {
		logger.LogDegraded("ai_bulk_draft", err, nil)
		return nil, ErrAIUnavailable
	}
	return draft, nil
}
