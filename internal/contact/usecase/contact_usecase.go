package usecase

import (
	"errors"
	"io"
	"strings"

	"eventdesk-backend/internal/contact/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/fuzzy"
	"eventdesk-backend/pkg/idgen"
	"eventdesk-backend/pkg/validation"

	"github.com/sirupsen/logrus"
)

// ErrListNameRequired is returned for a blank mailing list name
var ErrListNameRequired = errors.New("mailing list name is required")

type contactUsecase struct {
	store      Store
	translator Translator
	newID      idgen.Generator
}

// NewContactUsecase creates the contact usecase
func NewContactUsecase(store Store, translator Translator, newID idgen.Generator) ContactUsecase {
	if newID == nil {
		newID = idgen.New
	}
	return &contactUsecase{store: store, translator: translator, newID: newID}
}

func (u *contactUsecase) ListContacts(listID string) ([]domain.Contact, error) {
	s := u.store.GetState()
	if listID == "" {
		return s.Contacts, nil
	}
	if _, ok := s.FindList(listID); !ok {
		return nil, domain.ErrListNotFound
	}
	return s.ListContacts(listID), nil
}

func (u *contactUsecase) ListMailingLists() []domain.MailingList {
	return u.store.GetState().MailingLists
}

func (u *contactUsecase) AddContact(listID string, in domain.ContactInput) (*domain.Contact, error) {
	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}
	if listID != "" {
		if _, ok := u.store.GetState().FindList(listID); !ok {
			return nil, domain.ErrListNotFound
		}
	}

	c := domain.NewContact(u.newID("contact"), in)
	u.store.Dispatch(state.AddContact{ListID: listID, Contact: c})
	u.store.Dispatch(state.AddNotification{Message: u.translator.T("contact_added"), Kind: state.NotifySuccess})
	return &c, nil
}

func (u *contactUsecase) AddMailingList(name string) (*domain.MailingList, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrListNameRequired
	}
	l := domain.NewMailingList(u.newID("list"), name)
	u.store.Dispatch(state.AddMailingList{List: l})
	u.store.Dispatch(state.AddNotification{Message: u.translator.T("mailing_list_added"), Kind: state.NotifySuccess})
	return &l, nil
}

func (u *contactUsecase) Import(listID string, csv io.Reader) (*ImportResult, error) {
	if _, ok := u.store.GetState().FindList(listID); !ok {
		return nil, domain.ErrListNotFound
	}
	parsed, err := ParseContactsCSV(csv)
	if err != nil {
		return nil, err
	}
	if len(parsed.Rejected) > 0 {
		logrus.WithFields(logrus.Fields{
			"list_id":  listID,
			"rejected": len(parsed.Rejected),
		}).Warn("[ContactUsecase] Skipped rows with invalid addresses")
	}

	newIDs := make([]string, len(parsed.Contacts))
	for i := range newIDs {
		newIDs[i] = u.newID("contact")
	}
	s := u.store.GetState()
	_, touched := domain.MergeImported(s.Contacts, parsed.Contacts, newIDs)

	u.store.Dispatch(state.ImportContacts{ListID: listID, Contacts: parsed.Contacts, NewIDs: newIDs})
	u.store.Dispatch(state.AddNotification{
		Message: u.translator.TPlural("contacts_imported", len(touched)),
		Kind:    state.NotifySuccess,
	})
	return &ImportResult{Touched: touched, Rejected: parsed.Rejected}, nil
}

func (u *contactUsecase) Search(query string, limit int) []domain.Contact {
	contacts := u.store.GetState().Contacts
	if strings.TrimSpace(query) == "" {
		return []domain.Contact{}
	}
	ranked := fuzzy.Rank(query, contacts, func(c domain.Contact) []fuzzy.Field {
		fields := []fuzzy.Field{{Text: c.Name, Weight: 100}, {Text: c.Email, Weight: 60}}
		if c.Affiliation != nil {
			fields = append(fields, fuzzy.Field{Text: *c.Affiliation, Weight: 40})
		}
		return fields
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]domain.Contact, len(ranked))
	for i, idx := range ranked {
		out[i] = contacts[idx]
	}
	return out
}
