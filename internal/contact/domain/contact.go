package domain

import (
	"errors"
	"strings"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrListNotFound    = errors.New("mailing list not found")
)

// Contact is an address-book entry. Email is the identity used for import
// merging, compared case-insensitively.
type Contact struct {
	ID          string   `json:"id" toml:"id"`
	Name        string   `json:"name" toml:"name"`
	Email       string   `json:"email" toml:"email"`
	Affiliation *string  `json:"affiliation,omitempty" toml:"affiliation"`
	RequiredCC  []string `json:"requiredCc,omitempty" toml:"required_cc"`
}

// MailingList groups contacts by id. A contact may belong to many lists.
type MailingList struct {
	ID         string   `json:"id" toml:"id"`
	Name       string   `json:"name" toml:"name"`
	ContactIDs []string `json:"contactIds" toml:"contact_ids"`
}

// ContactInput holds the caller-supplied fields of a contact
type ContactInput struct {
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,mailbox"`
	Affiliation *string  `json:"affiliation"`
	RequiredCC  []string `json:"requiredCc" validate:"dive,mailbox"`
}

// NewContact builds a contact; blank affiliation and empty CC lists are
// stored as absent
func NewContact(id string, in ContactInput) Contact {
	c := Contact{
		ID:    id,
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
	}
	if in.Affiliation != nil && strings.TrimSpace(*in.Affiliation) != "" {
		a := strings.TrimSpace(*in.Affiliation)
		c.Affiliation = &a
	}
	if len(in.RequiredCC) > 0 {
		c.RequiredCC = append([]string(nil), in.RequiredCC...)
	}
	return c
}

// NewMailingList builds an empty list
func NewMailingList(id, name string) MailingList {
	return MailingList{ID: id, Name: strings.TrimSpace(name), ContactIDs: []string{}}
}

// EmailKey normalizes an address for identity comparison
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Has reports whether contactID is a member of l
func (l *MailingList) Has(contactID string) bool {
	for _, id := range l.ContactIDs {
		if id == contactID {
			return true
		}
	}
	return false
}

// WithMembers returns the member ids of l followed by every id in add that is
// not already present, in order and without duplicates
func (l MailingList) WithMembers(add []string) []string {
	seen := make(map[string]bool, len(l.ContactIDs)+len(add))
	out := make([]string, 0, len(l.ContactIDs)+len(add))
	for _, list := range [][]string{l.ContactIDs, add} {
		for _, id := range list {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
