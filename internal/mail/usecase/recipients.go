package usecase

import (
	"strings"

	contact "eventdesk-backend/internal/contact/domain"
	"eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/pkg/validation"
)

// ParseRecipients splits a comma-separated address list. Known contacts
// lend their name; unknown addresses are named after themselves.
func ParseRecipients(list string, contacts []contact.Contact) []domain.Sender {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	byEmail := make(map[string]contact.Contact, len(contacts))
	for _, c := range contacts {
		byEmail[contact.EmailKey(c.Email)] = c
	}

	var out []domain.Sender
	for _, part := range strings.Split(list, ",") {
		addr := strings.TrimSpace(part)
		if addr == "" {
			continue
		}
		name := addr
		if c, ok := byEmail[contact.EmailKey(addr)]; ok {
			name = c.Name
		}
		out = append(out, domain.Sender{Name: name, Email: addr})
	}
	return out
}

// validateAddresses checks every address of every list
func validateAddresses(lists ...[]domain.Sender) error {
	for _, list := range lists {
		for _, s := range list {
			if err := validation.Address(s.Email); err != nil {
				return err
			}
		}
	}
	return nil
}
