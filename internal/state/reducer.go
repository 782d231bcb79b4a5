package state

import (
	mail "eventdesk-backend/internal/mail/domain"
	settings "eventdesk-backend/internal/settings/domain"
)

// Reduce applies a to s and returns the resulting state. It never mutates s.
// When a changes nothing (a lookup missed, the action is unknown, the value
// is already set) s itself is returned, so callers can detect a no-op by
// pointer comparison.
func Reduce(s *State, a Action) *State {
	switch a := a.(type) {
	case SetView:
		if s.View == a.View {
			return s
		}
		next := s.clone()
		next.View = a.View
		return next

	case SetInboxSubView:
		if s.InboxSubView == a.SubView {
			return s
		}
		next := s.clone()
		next.InboxSubView = a.SubView
		return next

	case SetSelectedItem:
		next := s.clone()
		next.SelectedItemID = copyID(a.ID)
		return next

	case SetBulkSelectedIDs:
		next := s.clone()
		next.BulkSelectedIDs = append([]string{}, a.IDs...)
		return next

	case SetCurrentUser:
		next := s.clone()
		next.CurrentUser = a.User
		if !hasCollaborator(s, a.User.ID) {
			next.Collaborators = append(append([]settings.Collaborator{}, s.Collaborators...), a.User)
		}
		return next

	case SetFilterStatus:
		next := s.clone()
		next.Filter.Status = a.Status
		return next

	case SetFilterTag:
		next := s.clone()
		next.Filter.Tag = a.Tag
		return next

	case SetSearchTerm:
		next := s.clone()
		next.Filter.SearchTerm = a.Term
		return next

	case ReceiveEmail:
		return receiveEmail(s, a)
	case UpdateEmailStatus:
		return updateEmails(s, []string{a.EmailID}, func(e *mail.Email) {
			setStatus(e, a.Status)
			touch(e, a.User, a.At)
		})
	case BulkUpdateEmailStatus:
		return bulkUpdateStatus(s, a)
	case UpdateEmailAnalysis:
		return updateEmails(s, []string{a.EmailID}, func(e *mail.Email) {
			setStatus(e, a.Analysis.Status)
			e.AITags = nonNil(a.Analysis.Tags)
			e.SuggestedTasks = a.Analysis.SuggestedTasks
			if e.SuggestedTasks == nil {
				e.SuggestedTasks = []mail.SuggestedTask{}
			}
			touch(e, a.User, a.At)
		})
	case SaveDraft:
		return updateEmails(s, []string{a.EmailID}, func(e *mail.Email) {
			d := a.Draft
			e.Draft = &d
			if !e.Status.InWorkflow() {
				e.Status = mail.StatusDrafting
			}
			touch(e, a.User, a.At)
		})
	case DeleteDraft:
		return updateEmails(s, []string{a.EmailID}, func(e *mail.Email) {
			e.Draft = nil
			e.Status = mail.StatusNeedsReply
			touch(e, a.User, a.At)
		})
	case SendEmail:
		return sendEmail(s, a)
	case SendPersonalizedBulkEmail:
		return sendBulk(s, a)

	case AddTask:
		return addTask(s, a)
	case UpdateTaskStatus:
		return updateTaskStatus(s, a)
	case UpdateTask:
		return updateTask(s, a)
	case DeleteTask:
		return deleteTask(s, a)

	case AddContact:
		return addContact(s, a)
	case AddMailingList:
		return addMailingList(s, a)
	case ImportContacts:
		return importContacts(s, a)

	case AddTemplate:
		return addTemplate(s, a)
	case UpdateTemplate:
		return updateTemplate(s, a)
	case DeleteTemplate:
		return deleteTemplate(s, a)

	case AddNotification:
		next := s.clone()
		kept := s.Notifications
		if len(kept) >= MaxNotifications {
			kept = kept[len(kept)-MaxNotifications+1:]
		}
		next.Notifications = append(append([]Notification{}, kept...), Notification{
			ID:      s.NextNotificationID,
			Message: a.Message,
			Kind:    a.Kind,
		})
		next.NextNotificationID = s.NextNotificationID + 1
		return next

	case RemoveNotification:
		for i, n := range s.Notifications {
			if n.ID == a.ID {
				next := s.clone()
				next.Notifications = removeAt(s.Notifications, i)
				return next
			}
		}
		return s

	case AISearchStart:
		next := s.clone()
		next.AISearch = AISearch{InFlight: true, Query: a.Query, Results: s.AISearch.Results}
		return next

	case AISearchSuccess:
		next := s.clone()
		next.AISearch = AISearch{Query: s.AISearch.Query, Results: append([]string{}, a.IDs...)}
		next.Filter.Status = FilterAll
		next.Filter.Tag = FilterAll
		if len(a.IDs) > 0 {
			next.SelectedItemID = copyID(&a.IDs[0])
		} else {
			next.SelectedItemID = nil
		}
		return next

	case AISearchClear:
		if !s.AISearch.InFlight && s.AISearch.Results == nil && s.AISearch.Query == "" {
			return s
		}
		next := s.clone()
		next.AISearch = AISearch{}
		return next

	case UpdateAppSettings:
		if a.Patch.Empty() {
			return s
		}
		next := s.clone()
		next.Settings = s.Settings.Apply(a.Patch)
		return next
	}

	return s
}

func hasCollaborator(s *State, id string) bool {
	for _, c := range s.Collaborators {
		if c.ID == id {
			return true
		}
	}
	return false
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

// removeAt returns a copy of items without index i
func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// prepend returns a copy of items with v in front
func prepend[T any](items []T, v ...T) []T {
	out := make([]T, 0, len(items)+len(v))
	out = append(out, v...)
	return append(out, items...)
}
