package usecase

import (
	"fmt"
	"strings"
	"time"

	"eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/htmltext"
	"eventdesk-backend/pkg/idgen"
)

type inboxUsecase struct {
	store      Store
	translator Translator
	newID      idgen.Generator
	now        func() time.Time
}

// NewInboxUsecase creates the inbox usecase
func NewInboxUsecase(store Store, translator Translator, newID idgen.Generator) InboxUsecase {
	if newID == nil {
		newID = idgen.New
	}
	return &inboxUsecase{store: store, translator: translator, newID: newID, now: time.Now}
}

func (u *inboxUsecase) ListInbox() []domain.Email {
	s := u.store.GetState()
	return FilterInbox(s.Emails, QueryFromState(s))
}

func (u *inboxUsecase) ListSent() []domain.SentEmail {
	s := u.store.GetState()
	return FilterSent(s.SentEmails, s.Filter.SearchTerm)
}

func (u *inboxUsecase) GetEmail(id string) (*domain.Email, error) {
	e, ok := u.store.GetState().FindEmail(id)
	if !ok {
		return nil, domain.ErrEmailNotFound
	}
	return &e, nil
}

func (u *inboxUsecase) GetSentEmail(id string) (*domain.SentEmail, error) {
	se, ok := u.store.GetState().FindSentEmail(id)
	if !ok {
		return nil, domain.ErrSentNotFound
	}
	return &se, nil
}

func (u *inboxUsecase) Thread(threadID string) []domain.Item {
	return ThreadItems(u.store.GetState(), threadID)
}

func (u *inboxUsecase) Receive(in domain.InboundInput) (*domain.Email, error) {
	if err := validateAddresses([]domain.Sender{in.Sender}, in.CC); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Sender.Name) == "" {
		in.Sender.Name = in.Sender.Email
	}
	in.Body = htmltext.Sanitize(in.Body)

	id := u.newID("email")
	email := domain.NewInboundEmail(id, in, u.now())
	s := u.store.DispatchAndGet(state.ReceiveEmail{Email: email})
	e, ok := s.FindEmail(id)
	if !ok {
		return nil, domain.ErrEmailNotFound
	}
	return &e, nil
}

func (u *inboxUsecase) SetStatus(emailID string, status domain.EmailStatus) (*domain.Email, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if _, err := u.GetEmail(emailID); err != nil {
		return nil, err
	}
	s := u.store.DispatchAndGet(state.UpdateEmailStatus{EmailID: emailID, Status: status})
	u.store.Dispatch(state.AddNotification{Message: u.translator.T("status_updated"), Kind: state.NotifySuccess})
	e, _ := s.FindEmail(emailID)
	return &e, nil
}

// BulkSetStatus updates emailIDs, or the current bulk selection when
// emailIDs is nil, and returns how many distinct emails were updated
func (u *inboxUsecase) BulkSetStatus(emailIDs []string, status domain.EmailStatus) (int, error) {
	if !status.Valid() {
		return 0, domain.ErrInvalidStatus
	}
	targets := emailIDs
	if targets == nil {
		targets = u.store.GetState().BulkSelectedIDs
	}
	seen := make(map[string]bool, len(targets))
	unique := make([]string, 0, len(targets))
	for _, id := range targets {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	s := u.store.DispatchAndGet(state.BulkUpdateEmailStatus{EmailIDs: unique, Status: status})
	count := 0
	for _, id := range unique {
		if s.EmailIndex(id) >= 0 {
			count++
		}
	}
	if count > 0 {
		u.store.Dispatch(state.AddNotification{Message: u.translator.T("status_updated"), Kind: state.NotifySuccess})
	}
	return count, nil
}

// Compose sends a new message that answers no inbound email
func (u *inboxUsecase) Compose(out domain.Outgoing) (*domain.SentEmail, error) {
	if len(out.Recipients) == 0 || strings.TrimSpace(out.Subject) == "" || strings.TrimSpace(out.Body) == "" {
		return nil, fmt.Errorf("%w: recipients, subject and body are required", domain.ErrNoDraft)
	}
	if err := validateAddresses(out.Recipients, out.CC, out.BCC); err != nil {
		return nil, err
	}
	out.InReplyTo = nil
	out.ThreadID = ""
	out.Body = htmltext.Sanitize(out.Body)

	s := u.store.DispatchAndGet(state.SendEmail{Outgoing: out})
	u.store.Dispatch(state.AddNotification{Message: u.translator.T("email_sent"), Kind: state.NotifySuccess})
	return justSent(s)
}
