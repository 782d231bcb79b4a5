package usecase

import (
	"io"

	"eventdesk-backend/internal/contact/domain"
	"eventdesk-backend/internal/state"
)

// ContactUsecase manages the address book and mailing lists
type ContactUsecase interface {
	ListContacts(listID string) ([]domain.Contact, error)
	ListMailingLists() []domain.MailingList
	AddContact(listID string, in domain.ContactInput) (*domain.Contact, error)
	AddMailingList(name string) (*domain.MailingList, error)
	// Import reads a contact CSV and merges it into listID
	Import(listID string, csv io.Reader) (*ImportResult, error)
	// Search ranks contacts by fuzzy similarity of name, email and affiliation
	Search(query string, limit int) []domain.Contact
}

// ImportResult reports what an import changed
type ImportResult struct {
	Touched  []string      `json:"touchedIds"`
	Rejected []RejectedRow `json:"rejected,omitempty"`
}

// Store is the part of the workspace store the contact usecase needs
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
