package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"eventdesk-backend/internal/contact/domain"
	settings "eventdesk-backend/internal/settings/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/idgen"
	"eventdesk-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTranslator struct{}

func (echoTranslator) T(id string) string              { return id }
func (echoTranslator) TPlural(id string, n int) string { return id }

func newUsecase(t *testing.T) (*state.Store, ContactUsecase) {
	t.Helper()
	store := state.NewStore(state.New(settings.Collaborator{ID: "u1", Name: "Alice"}),
		state.WithClock(func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }),
		state.WithIDGenerator(idgen.Sequence()),
	)
	return store, NewContactUsecase(store, echoTranslator{}, idgen.Sequence())
}

const speakers = "Name,Email,Affiliation,RequiredCC\n" +
	"Taro,taro@example.com,ACME,boss@acme.example.com; pa@acme.example.com\n" +
	"Nameless,,,\n" +
	"Broken,not-an-address,,\n" +
	"Hanako,hanako@example.com,,\n"

func TestParseContactsCSV(t *testing.T) {
	parsed, err := ParseContactsCSV(strings.NewReader(speakers))
	require.NoError(t, err)

	require.Len(t, parsed.Contacts, 2)
	taro := parsed.Contacts[0]
	assert.Equal(t, "ACME", *taro.Affiliation)
	assert.Equal(t, []string{"boss@acme.example.com", "pa@acme.example.com"}, taro.RequiredCC)
	assert.Nil(t, parsed.Contacts[1].Affiliation)

	require.Len(t, parsed.Rejected, 1)
	assert.Equal(t, 4, parsed.Rejected[0].Line)
	assert.Equal(t, "not-an-address", parsed.Rejected[0].Email)
}

func TestParseContactsCSVNeedsNameAndEmail(t *testing.T) {
	_, err := ParseContactsCSV(strings.NewReader("name,company\nTaro,ACME\n"))
	assert.ErrorIs(t, err, ErrCSVMissingColumns)

	_, err = ParseContactsCSV(strings.NewReader("name,email\n"))
	assert.ErrorIs(t, err, ErrCSVTooShort)
}

func TestImportMergesIntoList(t *testing.T) {
	store, uc := newUsecase(t)
	list, err := uc.AddMailingList("Speakers")
	require.NoError(t, err)
	_, err = uc.AddContact("", domain.ContactInput{Name: "T. Old", Email: "TARO@example.com"})
	require.NoError(t, err)

	res, err := uc.Import(list.ID, strings.NewReader(speakers))
	require.NoError(t, err)

	assert.Equal(t, []string{"contact-1", "contact-3"}, res.Touched)
	assert.Len(t, res.Rejected, 1)

	s := store.GetState()
	assert.Len(t, s.Contacts, 2)
	assert.Equal(t, "Taro", s.Contacts[0].Name)
	members, err := uc.ListContacts(list.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, "contacts_imported", s.Notifications[len(s.Notifications)-1].Message)
}

func TestImportUnknownList(t *testing.T) {
	_, uc := newUsecase(t)
	_, err := uc.Import("missing", strings.NewReader(speakers))
	assert.ErrorIs(t, err, domain.ErrListNotFound)
}

func TestAddContactValidates(t *testing.T) {
	_, uc := newUsecase(t)

	_, err := uc.AddContact("", domain.ContactInput{Name: "Taro", Email: "nope"})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))

	_, err = uc.AddContact("missing", domain.ContactInput{Name: "Taro", Email: "taro@example.com"})
	assert.ErrorIs(t, err, domain.ErrListNotFound)

	_, err = uc.AddMailingList("  ")
	assert.ErrorIs(t, err, ErrListNameRequired)
}

func TestSearchRanksByName(t *testing.T) {
	_, uc := newUsecase(t)
	for _, in := range []domain.ContactInput{
		{Name: "Hanako Suzuki", Email: "hanako@example.com"},
		{Name: "Taro Yamada", Email: "taro@example.com"},
		{Name: "Kenji", Email: "kenji@example.com"},
	} {
		_, err := uc.AddContact("", in)
		require.NoError(t, err)
	}

	got := uc.Search("yamada", 10)
	require.Len(t, got, 1)
	assert.Equal(t, "Taro Yamada", got[0].Name)

	assert.Empty(t, uc.Search(" ", 10))
	assert.Len(t, uc.Search("example", 2), 2)
}
