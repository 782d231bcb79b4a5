package scheduler

import (
	"time"

	mail "eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/internal/task/domain"
)

// DefaultThreshold is how long an email may wait in NeedsReply before a
// follow-up task is created
const DefaultThreshold = 48 * time.Hour

// Localizer renders the reminder title and details
type Localizer interface {
	TWithData(messageID string, data map[string]interface{}) string
}

// ReminderWatcher creates one follow-up task per email left unanswered past
// the threshold
type ReminderWatcher struct {
	threshold time.Duration
	localizer Localizer
}

// NewReminderWatcher creates a watcher; a non-positive threshold means
// DefaultThreshold
func NewReminderWatcher(threshold time.Duration, localizer Localizer) *ReminderWatcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &ReminderWatcher{threshold: threshold, localizer: localizer}
}

// ReminderID is the id of the follow-up task for emailID
func ReminderID(emailID string) string {
	return "reminder-" + emailID
}

// Pass returns an AddTask for every overdue NeedsReply email that has no
// reminder yet. Running it again on the resulting state returns nothing.
func (w *ReminderWatcher) Pass(s *state.State, now time.Time) []state.Action {
	cutoff := now.Add(-w.threshold)

	var actions []state.Action
	for i := range s.Emails {
		e := &s.Emails[i]
		if e.Status != mail.StatusNeedsReply || !e.Timestamp.Before(cutoff) {
			continue
		}
		if hasReminder(s.Tasks, e.ID) {
			continue
		}

		emailID := e.ID
		actions = append(actions, state.AddTask{Task: domain.Task{
			ID:             ReminderID(emailID),
			Title:          w.localizer.TWithData("reminder_title", map[string]interface{}{"Sender": e.Sender.Name}),
			Details:        w.localizer.TWithData("reminder_details", map[string]interface{}{"Subject": e.Subject}),
			DueDate:        domain.Tomorrow(now),
			Status:         domain.TaskStatusTodo,
			Type:           domain.TaskTypeAutoReminder,
			RelatedEmailID: &emailID,
		}})
	}
	return actions
}

// Effect adapts Pass to a store effect
func (w *ReminderWatcher) Effect() state.Effect {
	return w.Pass
}

func hasReminder(tasks []domain.Task, emailID string) bool {
	for i := range tasks {
		if tasks[i].IsReminderFor(emailID) {
			return true
		}
	}
	return false
}
