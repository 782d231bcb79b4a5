// Package assist connects the AI collaborator to the workspace store: it
// builds prompts from state, runs analysis in the background and turns
// results into actions.
package assist

import (
	"errors"

	mail "eventdesk-backend/internal/mail/domain"
	settings "eventdesk-backend/internal/settings/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/ai"
	"eventdesk-backend/pkg/htmltext"
)

// ErrAIUnavailable is returned when the collaborator produced no suggestion
var ErrAIUnavailable = errors.New("ai suggestion unavailable")

// Store is the part of the workspace store assist needs
type Store interface {
	Dispatch(a state.Action)
	GetState() *state.State
	Subscribe(l state.Listener) func()
}

// Translator renders notification messages
type Translator interface {
	T(messageID string) string
}

// ProfileOf converts workspace settings into prompt context
func ProfileOf(s settings.AppSettings) ai.Profile {
	facts := make([]ai.Fact, 0, len(s.KnowledgeBase))
	for _, k := range s.KnowledgeBase {
		facts = append(facts, ai.Fact{Key: k.Key, Value: k.Value})
	}
	return ai.Profile{
		OfficeName:         s.OfficeName,
		EventName:          s.EventName,
		EventSummary:       s.EventSummary,
		WebsiteURL:         s.WebsiteURL,
		CommunicationStyle: string(s.CommunicationStyle),
		Signature:          s.Signature,
		Knowledge:          facts,
	}
}

// DigestOf renders an email as plain text for a prompt
func DigestOf(e mail.Email) ai.EmailDigest {
	names := make([]string, len(e.Attachments))
	for i, a := range e.Attachments {
		names[i] = a.Name
	}
	return ai.EmailDigest{
		ID:          e.ID,
		Subject:     e.Subject,
		Sender:      e.Sender.Name,
		Body:        htmltext.PlainText(e.Body),
		Attachments: names,
	}
}

// TriageOptions lists the statuses analysis may assign
func TriageOptions() []ai.StatusOption {
	var out []ai.StatusOption
	for _, s := range mail.AllStatuses {
		if s.Triage() {
			out = append(out, ai.StatusOption{Value: string(s), Label: s.Label()})
		}
	}
	return out
}

func analysisOf(r *ai.Analysis) (mail.Analysis, bool) {
	status, err := mail.ParseStatus(r.Status)
	if err != nil || !status.Triage() {
		return mail.Analysis{}, false
	}
	tasks := make([]mail.SuggestedTask, 0, len(r.SuggestedTasks))
	for _, t := range r.SuggestedTasks {
		if t.Title == "" {
			continue
		}
		tasks = append(tasks, mail.SuggestedTask{Title: t.Title, Details: t.Details})
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return mail.Analysis{Status: status, Tags: tags, SuggestedTasks: tasks}, true
}
