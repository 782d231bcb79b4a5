package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventdesk-backend/internal/assist"
	mail "eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/internal/template/domain"
	"eventdesk-backend/pkg/ai"
	"eventdesk-backend/pkg/fuzzy"
	"eventdesk-backend/pkg/htmltext"
	"eventdesk-backend/pkg/idgen"
	"eventdesk-backend/pkg/logger"
)

// ErrTitleBodyRequired is returned when a template lacks a title or a body
var ErrTitleBodyRequired = errors.New("template title and body are required")

type templateUsecase struct {
	store        Store
	translator   Translator
	collaborator ai.Collaborator
	newID        idgen.Generator
	now          func() time.Time
}

// NewTemplateUsecase creates the template usecase. collaborator may be nil,
// in which case the AI operations fail with assist.ErrAIUnavailable.
func NewTemplateUsecase(store Store, translator Translator, collaborator ai.Collaborator, newID idgen.Generator) TemplateUsecase {
	if newID == nil {
		newID = idgen.New
	}
	return &templateUsecase{
		store:        store,
		translator:   translator,
		collaborator: collaborator,
		newID:        newID,
		now:          time.Now,
	}
}

func (u *templateUsecase) notify(messageID string, kind state.NotificationKind) {
	u.store.Dispatch(state.AddNotification{Message: u.translator.T(messageID), Kind: kind})
}

func (u *templateUsecase) ListTemplates(query string) []domain.Template {
	templates := u.store.GetState().Templates
	if strings.TrimSpace(query) == "" {
		return templates
	}
	ranked := fuzzy.Rank(query, templates, func(t domain.Template) []fuzzy.Field {
		fields := []fuzzy.Field{{Text: t.Title, Weight: 100}}
		for _, tag := range t.Tags {
			fields = append(fields, fuzzy.Field{Text: tag, Weight: 60})
		}
		return fields
	})
	out := make([]domain.Template, len(ranked))
	for i, idx := range ranked {
		out[i] = templates[idx]
	}
	return out
}

func (u *templateUsecase) GetTemplate(id string) (*domain.Template, error) {
	t, ok := u.store.GetState().FindTemplate(id)
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return &t, nil
}

func normalizeInput(in domain.TemplateInput) (domain.TemplateInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(htmltext.PlainText(in.Body)) == "" {
		return in, ErrTitleBodyRequired
	}
	in.Body = htmltext.Sanitize(in.Body)
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	in.Tags = tags
	return in, nil
}

func (u *templateUsecase) CreateTemplate(in domain.TemplateInput) (*domain.Template, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}
	s := u.store.GetState()
	t := domain.NewTemplate(u.newID("template"), in, s.CurrentUser.Name, u.now())

	next := u.store.DispatchAndGet(state.AddTemplate{Template: t})
	u.notify("template_added", state.NotifySuccess)
	created, ok := next.FindTemplate(t.ID)
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return &created, nil
}

func (u *templateUsecase) UpdateTemplate(id string, in domain.TemplateInput) (*domain.Template, error) {
	current, err := u.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	in, err = normalizeInput(in)
	if err != nil {
		return nil, err
	}
	edited := current.Edit(in, u.store.GetState().CurrentUser.Name, u.now())

	next := u.store.DispatchAndGet(state.UpdateTemplate{Template: edited})
	u.notify("template_updated", state.NotifyInfo)
	t, _ := next.FindTemplate(id)
	return &t, nil
}

func (u *templateUsecase) DeleteTemplate(id string) error {
	if _, err := u.GetTemplate(id); err != nil {
		return err
	}
	u.store.Dispatch(state.DeleteTemplate{TemplateID: id})
	u.notify("template_deleted", state.NotifyInfo)
	return nil
}

func (u *templateUsecase) Render(id string, to *domain.Recipient) (string, error) {
	t, err := u.GetTemplate(id)
	if err != nil {
		return "", err
	}
	return domain.Render(t.Body, u.store.GetState().Settings, to), nil
}

func (u *templateUsecase) RenderForEmail(id, emailID string) (string, error) {
	e, ok := u.store.GetState().FindEmail(emailID)
	if !ok {
		return "", mail.ErrEmailNotFound
	}
	return u.Render(id, &domain.Recipient{Name: e.Sender.Name, Email: e.Sender.Email})
}

func (u *templateUsecase) GenerateDraft(ctx context.Context, instruction string) (*domain.TemplateInput, error) {
	if u.collaborator == nil {
		return nil, assist.ErrAIUnavailable
	}
	if strings.TrimSpace(instruction) == "" {
		return nil, ai.ErrNoResult
	}
	draft, err := u.collaborator.GenerateTemplateDraft(ctx, instruction, assist.ProfileOf(u.store.GetState().Settings))
	if err != nil {
		logger.LogDegraded("ai_template_draft", err, nil)
		u.notify("template_generation_failed", state.NotifyError)
		return nil, assist.ErrAIUnavailable
	}
	return &domain.TemplateInput{Title: draft.Title, Body: draft.Body, Tags: draft.Tags}, nil
}

func (u *templateUsecase) GenerateTags(ctx context.Context, title, body string) ([]string, error) {
	if u.collaborator == nil {
		return nil, assist.ErrAIUnavailable
	}
	tags, err := u.collaborator.GenerateTags(ctx, title, htmltext.PlainText(body))
	if err != nil {
		logger.LogDegraded("ai_template_tags", err, nil)
		u.notify("tag_generation_failed", state.NotifyError)
		return nil, assist.ErrAIUnavailable
	}
	return tags, nil
}
