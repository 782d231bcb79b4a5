package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Assistant implements Collaborator on top of a text Generator
type Assistant struct {
	gen Generator
}

// NewAssistant wraps gen. A nil gen yields an assistant whose every call
// fails with ErrUnavailable.
func NewAssistant(gen Generator) *Assistant {
	return &Assistant{gen: gen}
}

func (a *Assistant) generate(ctx context.Context, op string, p Prompt) (string, error) {
	if a.gen == nil {
		return "", ErrUnavailable
	}
	text, err := a.gen.Generate(ctx, p)
	if err != nil {
		return "", fmt.Errorf("%s via %s: %w", op, a.gen.Name(), err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s via %s: %w", op, a.gen.Name(), ErrNoResult)
	}
	return text, nil
}

func (a *Assistant) AnalyzeEmail(ctx context.Context, email EmailDigest, statuses []StatusOption) (*Analysis, error) {
	text, err := a.generate(ctx, "analyze", analysisPrompt(email, statuses))
	if err != nil {
		return nil, err
	}
	result, err := ParseFencedJSON[Analysis](text)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, s := range statuses {
		if s.Value == result.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		logrus.WithFields(logrus.Fields{"email_id": email.ID, "status": result.Status}).Warn("[AI] Analysis returned an unknown status")
		return nil, fmt.Errorf("%w: status %q", ErrNoResult, result.Status)
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}
	if result.SuggestedTasks == nil {
		result.SuggestedTasks = []SuggestedTask{}
	}
	return result, nil
}

func (a *Assistant) GenerateReply(ctx context.Context, req ReplyRequest) (string, error) {
	text, err := a.generate(ctx, "reply", replyPrompt(req))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (a *Assistant) GenerateBulkDraft(ctx context.Context, instruction string, p Profile) (*BulkDraft, error) {
	text, err := a.generate(ctx, "bulk draft", bulkDraftPrompt(instruction, p))
	if err != nil {
		return nil, err
	}
	draft, err := ParseFencedJSON[BulkDraft](text)
	if err != nil {
		return nil, err
	}
	if draft.Subject == "" && draft.Body == "" {
		return nil, ErrNoResult
	}
	return draft, nil
}

func (a *Assistant) GenerateTemplateDraft(ctx context.Context, instruction string, p Profile) (*TemplateDraft, error) {
	text, err := a.generate(ctx, "template draft", templateDraftPrompt(instruction, p))
	if err != nil {
		return nil, err
	}
	draft, err := ParseFencedJSON[TemplateDraft](text)
	if err != nil {
		return nil, err
	}
	if draft.Title == "" && draft.Body == "" {
		return nil, ErrNoResult
	}
	return draft, nil
}

func (a *Assistant) GenerateTags(ctx context.Context, title, body string) ([]string, error) {
	text, err := a.generate(ctx, "tags", tagsPrompt(title, body))
	if err != nil {
		return nil, err
	}
	result, err := ParseFencedJSON[struct {
		Tags []string `json:"tags"`
	}](text)
	if err != nil {
		return nil, err
	}
	if result.Tags == nil {
		return nil, ErrNoResult
	}
	return result.Tags, nil
}

func (a *Assistant) SearchEmails(ctx context.Context, query string, corpus []EmailDigest) ([]string, error) {
	p, err := searchPrompt(query, corpus)
	if err != nil {
		return nil, err
	}
	text, err := a.generate(ctx, "search", p)
	if err != nil {
		return nil, err
	}
	result, err := ParseFencedJSON[struct {
		EmailIDs []string `json:"emailIds"`
	}](text)
	if err != nil {
		return nil, err
	}
	if result.EmailIDs == nil {
		return nil, ErrNoResult
	}
	return KnownIDs(result.EmailIDs, corpus), nil
}

// KnownIDs keeps the ids that belong to corpus, in order, without repeats
func KnownIDs(ids []string, corpus []EmailDigest) []string {
	known := make(map[string]bool, len(corpus))
	for _, e := range corpus {
		known[e.ID] = true
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if known[id] {
			out = append(out, id)
			delete(known, id)
		}
	}
	return out
}
