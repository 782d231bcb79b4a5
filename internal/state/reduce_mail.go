package state

import (
	"time"

	mail "eventdesk-backend/internal/mail/domain"
)

func receiveEmail(s *State, a ReceiveEmail) *State {
	if a.Email.ID == "" || s.EmailIndex(a.Email.ID) >= 0 {
		return s
	}
	next := s.clone()
	next.Emails = prepend(s.Emails, a.Email)
	return next
}

// updateEmails copies the inbox once and applies fn to every email whose id
// is in ids. Missing ids are ignored; if none match, s is returned.
func updateEmails(s *State, ids []string, fn func(e *mail.Email)) *State {
	if len(ids) == 0 {
		return s
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var emails []mail.Email
	for i := range s.Emails {
		if !want[s.Emails[i].ID] {
			continue
		}
		if emails == nil {
			emails = make([]mail.Email, len(s.Emails))
			copy(emails, s.Emails)
		}
		fn(&emails[i])
	}
	if emails == nil {
		return s
	}

	next := s.clone()
	next.Emails = emails
	return next
}

// setStatus changes the status and drops the draft when the email leaves
// the reply workflow
func setStatus(e *mail.Email, status mail.EmailStatus) {
	e.Status = status
	if !status.InWorkflow() {
		e.Draft = nil
	}
}

func touch(e *mail.Email, user string, at time.Time) {
	t := at
	e.UpdatedAt = &t
	e.LastModifiedBy = user
}

func bulkUpdateStatus(s *State, a BulkUpdateEmailStatus) *State {
	ids := a.EmailIDs
	if ids == nil {
		ids = s.BulkSelectedIDs
	}
	next := updateEmails(s, ids, func(e *mail.Email) {
		setStatus(e, a.Status)
		touch(e, a.User, a.At)
	})
	if len(next.BulkSelectedIDs) == 0 {
		return next
	}
	if next == s {
		next = s.clone()
	}
	next.BulkSelectedIDs = []string{}
	return next
}

func sendEmail(s *State, a SendEmail) *State {
	if a.ID == "" {
		return s
	}
	sent := mail.NewSentEmail(a.ID, a.Outgoing, a.User, a.At)

	next := s
	if a.Outgoing.InReplyTo != nil {
		next = updateEmails(s, []string{*a.Outgoing.InReplyTo}, func(e *mail.Email) {
			e.Status = mail.StatusReplied
			e.Draft = nil
			touch(e, a.User, a.At)
		})
	}
	if next == s {
		next = s.clone()
	}
	next.SentEmails = prepend(s.SentEmails, sent)
	next.SelectedItemID = copyID(&sent.ID)
	next.InboxSubView = SubViewSent
	return next
}

// sendBulk records the personalized messages newest-first in input order.
// Inbound emails are not touched.
func sendBulk(s *State, a SendPersonalizedBulkEmail) *State {
	if len(a.Messages) == 0 {
		return s
	}
	sent := make([]mail.SentEmail, 0, len(a.Messages))
	for i, out := range a.Messages {
		if i >= len(a.IDs) || a.IDs[i] == "" {
			continue
		}
		out.InReplyTo = nil
		sent = append(sent, mail.NewSentEmail(a.IDs[i], out, a.User, a.At))
	}
	if len(sent) == 0 {
		return s
	}
	next := s.clone()
	next.SentEmails = prepend(s.SentEmails, sent...)
	return next
}
