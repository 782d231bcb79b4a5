package usecase

import (
	"fmt"
	"strings"

	"eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/htmltext"
)

type replyUsecase struct {
	store      Store
	translator Translator
}

// NewReplyUsecase creates the reply workflow usecase
func NewReplyUsecase(store Store, translator Translator) ReplyUsecase {
	return &replyUsecase{store: store, translator: translator}
}

func (u *replyUsecase) email(id string) (domain.Email, error) {
	e, ok := u.store.GetState().FindEmail(id)
	if !ok {
		return domain.Email{}, domain.ErrEmailNotFound
	}
	return e, nil
}

func (u *replyUsecase) emailAfter(s *state.State, id string) (*domain.Email, error) {
	e, ok := s.FindEmail(id)
	if !ok {
		return nil, domain.ErrEmailNotFound
	}
	return &e, nil
}

func (u *replyUsecase) notify(messageID string, kind state.NotificationKind) {
	u.store.Dispatch(state.AddNotification{Message: u.translator.T(messageID), Kind: kind})
}

func (u *replyUsecase) DefaultReply(emailID string) (*domain.Draft, error) {
	e, err := u.email(emailID)
	if err != nil {
		return nil, err
	}
	if e.Draft != nil {
		d := *e.Draft
		return &d, nil
	}

	s := u.store.GetState()
	var required []domain.Sender
	if c, ok := s.FindContactByEmail(e.Sender.Email); ok && len(c.RequiredCC) > 0 {
		required = ParseRecipients(strings.Join(c.RequiredCC, ","), s.Contacts)
	}
	d := domain.NewReplyDraft(&e, required)
	return &d, nil
}

func (u *replyUsecase) SaveDraft(emailID string, draft domain.Draft) (*domain.Email, error) {
	e, err := u.email(emailID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckWorkflowTransition(e.Status, domain.StatusDrafting); err != nil {
		return nil, fmt.Errorf("save draft in status %s: %w", e.Status, err)
	}
	if strings.TrimSpace(draft.Subject) == "" && strings.TrimSpace(htmltext.PlainText(draft.Body)) == "" {
		return nil, fmt.Errorf("%w: subject or body required", domain.ErrNoDraft)
	}
	if len(draft.Recipients) == 0 {
		draft.Recipients = []domain.Sender{e.Sender}
	}
	if err := validateAddresses(draft.Recipients, draft.CC, draft.BCC); err != nil {
		return nil, err
	}
	draft.Body = htmltext.Sanitize(draft.Body)

	s := u.store.DispatchAndGet(state.SaveDraft{EmailID: emailID, Draft: draft})
	u.notify("draft_saved", state.NotifySuccess)
	return u.emailAfter(s, emailID)
}

func (u *replyUsecase) DiscardDraft(emailID string) (*domain.Email, error) {
	if _, err := u.email(emailID); err != nil {
		return nil, err
	}
	s := u.store.DispatchAndGet(state.DeleteDraft{EmailID: emailID})
	u.notify("draft_discarded", state.NotifyInfo)
	return u.emailAfter(s, emailID)
}

func (u *replyUsecase) transition(emailID string, to domain.EmailStatus, messageID string) (*domain.Email, error) {
	e, err := u.email(emailID)
	if err != nil {
		return nil, err
	}
	if e.Draft == nil {
		return nil, domain.ErrNoDraft
	}
	if err := domain.CheckWorkflowTransition(e.Status, to); err != nil {
		return nil, fmt.Errorf("%s -> %s: %w", e.Status, to, err)
	}
	s := u.store.DispatchAndGet(state.UpdateEmailStatus{EmailID: emailID, Status: to})
	u.notify(messageID, state.NotifySuccess)
	return u.emailAfter(s, emailID)
}

func (u *replyUsecase) SubmitForReview(emailID string) (*domain.Email, error) {
	return u.transition(emailID, domain.StatusReviewing, "draft_submitted")
}

func (u *replyUsecase) SendBack(emailID string) (*domain.Email, error) {
	return u.transition(emailID, domain.StatusDrafting, "draft_sent_back")
}

func (u *replyUsecase) Approve(emailID string) (*domain.Email, error) {
	return u.transition(emailID, domain.StatusApproved, "draft_approved")
}

func (u *replyUsecase) SendReply(emailID string, override *domain.Draft) (*domain.SentEmail, error) {
	e, err := u.email(emailID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanSend(e.Status); err != nil {
		return nil, err
	}

	var draft domain.Draft
	switch {
	case override != nil:
		draft = *override
	case e.Draft != nil:
		draft = *e.Draft
	default:
		return nil, domain.ErrNoDraft
	}
	if len(draft.Recipients) == 0 {
		draft.Recipients = []domain.Sender{e.Sender}
	}
	if strings.TrimSpace(draft.Subject) == "" || strings.TrimSpace(draft.Body) == "" {
		return nil, fmt.Errorf("%w: subject and body required", domain.ErrNoDraft)
	}
	if err := validateAddresses(draft.Recipients, draft.CC, draft.BCC); err != nil {
		return nil, err
	}
	draft.Body = htmltext.Sanitize(draft.Body)

	s := u.store.DispatchAndGet(state.SendEmail{Outgoing: domain.OutgoingFromDraft(&e, draft)})
	u.notify("email_sent", state.NotifySuccess)
	return justSent(s)
}

// justSent returns the sent email a SendEmail commit selected
func justSent(s *state.State) (*domain.SentEmail, error) {
	if s.SelectedItemID == nil {
		return nil, domain.ErrSentNotFound
	}
	se, ok := s.FindSentEmail(*s.SelectedItemID)
	if !ok {
		return nil, domain.ErrSentNotFound
	}
	return &se, nil
}
