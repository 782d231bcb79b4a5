package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventdesk-backend/internal/assist"
	mail "eventdesk-backend/internal/mail/domain"
	settings "eventdesk-backend/internal/settings/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/internal/template/domain"
	"eventdesk-backend/pkg/ai"
	"eventdesk-backend/pkg/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTranslator struct{}

func (echoTranslator) T(id string) string { return id }

// fakeCollaborator answers the template prompts; the other methods are unused
type fakeCollaborator struct {
	ai.Collaborator
	draft *ai.TemplateDraft
	tags  []string
	err   error

	gotProfile ai.Profile
	gotBody    string
}

func (f *fakeCollaborator) GenerateTemplateDraft(_ context.Context, _ string, p ai.Profile) (*ai.TemplateDraft, error) {
	f.gotProfile = p
	return f.draft, f.err
}

func (f *fakeCollaborator) GenerateTags(_ context.Context, _, body string) ([]string, error) {
	f.gotBody = body
	return f.tags, f.err
}

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newUsecase(collab ai.Collaborator) (*state.Store, *templateUsecase) {
	s := state.New(settings.Collaborator{ID: "u1", Name: "Alice"})
	s.Settings.EventName = "Summit"
	store := state.NewStore(s,
		state.WithClock(func() time.Time { return t0 }),
		state.WithIDGenerator(idgen.Sequence()),
	)
	uc := NewTemplateUsecase(store, echoTranslator{}, collab, idgen.Sequence()).(*templateUsecase)
	uc.now = func() time.Time { return t0 }
	return store, uc
}

func lastNotification(s *state.State) string {
	if len(s.Notifications) == 0 {
		return ""
	}
	return s.Notifications[len(s.Notifications)-1].Message
}

func TestCreateUpdateDeleteTemplate(t *testing.T) {
	store, uc := newUsecase(nil)

	created, err := uc.CreateTemplate(domain.TemplateInput{
		Title: " Venue ",
		Body:  "<p>{{eventName}}</p><script>x</script>",
		Tags:  []string{" venue ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "template-1", created.ID)
	assert.Equal(t, "Venue", created.Title)
	assert.Equal(t, "<p>{{eventName}}</p>", created.Body)
	assert.Equal(t, []string{"venue"}, created.Tags)
	assert.Equal(t, "Alice", created.CreatedBy)
	assert.Equal(t, "template_added", lastNotification(store.GetState()))

	store.Dispatch(state.SetCurrentUser{User: settings.Collaborator{ID: "u2", Name: "Bob"}})
	uc.now = func() time.Time { return t0.Add(time.Hour) }
	updated, err := uc.UpdateTemplate(created.ID, domain.TemplateInput{Title: "Venue info", Body: "<p>Hall A</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.CreatedBy)
	assert.Equal(t, "Bob", updated.LastModifiedBy)
	assert.Equal(t, t0, updated.CreatedAt)
	assert.Equal(t, t0.Add(time.Hour), updated.UpdatedAt)

	require.NoError(t, uc.DeleteTemplate(created.ID))
	assert.Empty(t, store.GetState().Templates)
	assert.ErrorIs(t, uc.DeleteTemplate(created.ID), domain.ErrTemplateNotFound)
}

func TestCreateTemplateRequiresTitleAndText(t *testing.T) {
	_, uc := newUsecase(nil)
	_, err := uc.CreateTemplate(domain.TemplateInput{Title: "x", Body: "<p> </p>"})
	assert.ErrorIs(t, err, ErrTitleBodyRequired)
	_, err = uc.CreateTemplate(domain.TemplateInput{Title: " ", Body: "<p>x</p>"})
	assert.ErrorIs(t, err, ErrTitleBodyRequired)
}

func TestListTemplatesFuzzy(t *testing.T) {
	_, uc := newUsecase(nil)
	for _, in := range []domain.TemplateInput{
		{Title: "Parking guide", Body: "<p>x</p>"},
		{Title: "Speaker invitation", Body: "<p>x</p>", Tags: []string{"speakers"}},
	} {
		_, err := uc.CreateTemplate(in)
		require.NoError(t, err)
	}

	assert.Len(t, uc.ListTemplates(""), 2)
	got := uc.ListTemplates("speker")
	require.Len(t, got, 1)
	assert.Equal(t, "Speaker invitation", got[0].Title)
}

func TestRenderForEmail(t *testing.T) {
	store, uc := newUsecase(nil)
	store.Dispatch(state.ReceiveEmail{Email: mail.Email{
		ID:     "e1",
		Sender: mail.Sender{Name: "Taro", Email: "taro@example.com"},
		Status: mail.StatusNeedsReply,
	}})
	tpl, err := uc.CreateTemplate(domain.TemplateInput{Title: "Hi", Body: "<p>{{name}}: {{eventName}}</p>"})
	require.NoError(t, err)

	body, err := uc.RenderForEmail(tpl.ID, "e1")
	require.NoError(t, err)
	assert.Equal(t, "<p><strong>Taro</strong>: Summit</p>", body)

	_, err = uc.RenderForEmail(tpl.ID, "missing")
	assert.ErrorIs(t, err, mail.ErrEmailNotFound)
}

func TestGenerateDraftUsesWorkspaceProfile(t *testing.T) {
	collab := &fakeCollaborator{draft: &ai.TemplateDraft{Title: "T", Body: "<p>B</p>", Tags: []string{"a"}}}
	_, uc := newUsecase(collab)

	in, err := uc.GenerateDraft(context.Background(), "invite speakers")
	require.NoError(t, err)
	assert.Equal(t, &domain.TemplateInput{Title: "T", Body: "<p>B</p>", Tags: []string{"a"}}, in)
	assert.Equal(t, "Summit", collab.gotProfile.EventName)

	_, err = uc.GenerateDraft(context.Background(), " ")
	assert.ErrorIs(t, err, ai.ErrNoResult)
}

func TestGenerateFailuresNotify(t *testing.T) {
	collab := &fakeCollaborator{err: errors.New("model offline")}
	store, uc := newUsecase(collab)

	_, err := uc.GenerateTags(context.Background(), "Title", "<p>Plain <b>body</b></p>")
	assert.ErrorIs(t, err, assist.ErrAIUnavailable)
	assert.Equal(t, " Plain  body  ", collab.gotBody)
	assert.Equal(t, "tag_generation_failed", lastNotification(store.GetState()))

	_, err = uc.GenerateDraft(context.Background(), "x")
	assert.ErrorIs(t, err, assist.ErrAIUnavailable)
	assert.Equal(t, "template_generation_failed", lastNotification(store.GetState()))
}

func TestGenerateWithoutCollaborator(t *testing.T) {
	_, uc := newUsecase(nil)
	_, err := uc.GenerateTags(context.Background(), "t", "b")
	assert.ErrorIs(t, err, assist.ErrAIUnavailable)
}
