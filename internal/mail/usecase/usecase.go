package usecase

import (
	"io"

	"eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/internal/state"
)

// Store is the part of the workspace store the mail usecases need
type Store interface {
	Dispatch(a state.Action)
	DispatchAndGet(a state.Action) *state.State
	GetState() *state.State
}

// Translator renders notification messages
type Translator interface {
	T(messageID string) string
	TPlural(messageID string, count int) string
}

// ReplyUsecase drives the reply workflow for one inbound email:
// draft, review, approval and send
type ReplyUsecase interface {
	// DefaultReply returns the saved draft, or a fresh reply scaffold
	DefaultReply(emailID string) (*domain.Draft, error)
	SaveDraft(emailID string, draft domain.Draft) (*domain.Email, error)
	DiscardDraft(emailID string) (*domain.Email, error)
	SubmitForReview(emailID string) (*domain.Email, error)
	SendBack(emailID string) (*domain.Email, error)
	Approve(emailID string) (*domain.Email, error)
	// SendReply sends override if given, otherwise the saved draft
	SendReply(emailID string, override *domain.Draft) (*domain.SentEmail, error)
}

// InboxUsecase covers inbox listing, triage and composing new mail
type InboxUsecase interface {
	ListInbox() []domain.Email
	ListSent() []domain.SentEmail
	GetEmail(id string) (*domain.Email, error)
	GetSentEmail(id string) (*domain.SentEmail, error)
	Thread(threadID string) []domain.Item
	Receive(in domain.InboundInput) (*domain.Email, error)
	SetStatus(emailID string, status domain.EmailStatus) (*domain.Email, error)
	BulkSetStatus(emailIDs []string, status domain.EmailStatus) (int, error)
	Compose(out domain.Outgoing) (*domain.SentEmail, error)
	// ReceiveEML ingests an RFC 5322 message
	ReceiveEML(r io.Reader) (*domain.Email, error)
	// ExportEML writes an inbound or sent email as an RFC 5322 message
	ExportEML(id string, w io.Writer) error
}
