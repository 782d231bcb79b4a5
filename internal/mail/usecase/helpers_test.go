package usecase

import (
	"strconv"
	"time"

	contact "eventdesk-backend/internal/contact/domain"
	"eventdesk-backend/internal/mail/domain"
	settings "eventdesk-backend/internal/settings/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/idgen"
)

var base = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// echoTranslator returns message ids so tests can assert on them
type echoTranslator struct{}

func (echoTranslator) T(id string) string { return id }
func (echoTranslator) TPlural(id string, n int) string {
	return id + ":" + strconv.Itoa(n)
}

func email(id, thread string, minutes int, status domain.EmailStatus) domain.Email {
	return domain.Email{
		ID:        id,
		DisplayID: "#" + id,
		ThreadID:  thread,
		Sender:    domain.Sender{Name: "Sender " + id, Email: id + "@guest.example.com"},
		Subject:   "Subject " + id,
		Body:      "<p>Body of " + id + "</p>",
		Timestamp: base.Add(time.Duration(minutes) * time.Minute),
		Status:    status,
	}
}

func newStore(emails ...domain.Email) *state.Store {
	s := state.New(settings.Collaborator{ID: "u1", Name: "Alice"})
	s.Emails = emails
	s.Contacts = []contact.Contact{}
	return state.NewStore(s,
		state.WithClock(func() time.Time { return base.Add(time.Hour) }),
		state.WithIDGenerator(idgen.Sequence()),
	)
}

func ids(emails []domain.Email) []string {
	out := make([]string, len(emails))
	for i, e := range emails {
		out[i] = e.ID
	}
	return out
}

func lastNotification(s *state.State) string {
	if len(s.Notifications) == 0 {
		return ""
	}
	return s.Notifications[len(s.Notifications)-1].Message
}
