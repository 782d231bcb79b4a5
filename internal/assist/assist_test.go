package assist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mail "eventdesk-backend/internal/mail/domain"
	settings "eventdesk-backend/internal/settings/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/ai"
	"eventdesk-backend/pkg/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTranslator struct{}

func (echoTranslator) T(id string) string { return id }

// fakeCollaborator is safe for the worker goroutines
type fakeCollaborator struct {
	ai.Collaborator

	mu       sync.Mutex
	analysis *ai.Analysis
	reply    string
	bulk     *ai.BulkDraft
	ids      []string
	err      error
	analyzed []string
	lastReq  ai.ReplyRequest
}

func (f *fakeCollaborator) AnalyzeEmail(_ context.Context, e ai.EmailDigest, _ []ai.StatusOption) (*ai.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzed = append(f.analyzed, e.ID)
	return f.analysis, f.err
}

func (f *fakeCollaborator) GenerateReply(_ context.Context, req ai.ReplyRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReq = req
	return f.reply, f.err
}

func (f *fakeCollaborator) GenerateBulkDraft(context.Context, string, ai.Profile) (*ai.BulkDraft, error) {
	return f.bulk, f.err
}

func (f *fakeCollaborator) SearchEmails(_ context.Context, _ string, corpus []ai.EmailDigest) ([]string, error) {
	return f.ids, f.err
}

func (f *fakeCollaborator) analyzedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.analyzed...)
}

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newStore(emails ...mail.Email) *state.Store {
	s := state.New(settings.Collaborator{ID: "u1", Name: "Alice"})
	s.Emails = emails
	return state.NewStore(s,
		state.WithClock(func() time.Time { return t0 }),
		state.WithIDGenerator(idgen.Sequence()),
	)
}

func inbound(id string) mail.Email {
	return mail.Email{
		ID:        id,
		ThreadID:  id,
		Sender:    mail.Sender{Name: "Taro", Email: "taro@example.com"},
		Subject:   "Parking",
		Body:      "<p>Is there <b>parking</b>?</p>",
		Timestamp: t0,
		Status:    mail.StatusNeedsReply,
	}
}

func lastNotification(s *state.State) string {
	if len(s.Notifications) == 0 {
		return ""
	}
	return s.Notifications[len(s.Notifications)-1].Message
}

func TestDigestOfUsesPlainText(t *testing.T) {
	e := inbound("e1")
	e.Attachments = []mail.Attachment{{Name: "map.pdf"}}
	d := DigestOf(e)
	assert.Equal(t, " Is there  parking ? ", d.Body)
	assert.Equal(t, "Taro", d.Sender)
	assert.Equal(t, []string{"map.pdf"}, d.Attachments)
}

func TestTriageOptionsExcludeWorkflowStatuses(t *testing.T) {
	for _, o := range TriageOptions() {
		assert.True(t, mail.EmailStatus(o.Value).Triage(), o.Value)
	}
	assert.Len(t, TriageOptions(), 4)
}

func TestSearchStoresRankedIDs(t *testing.T) {
	store := newStore(inbound("e1"), inbound("e2"))
	c := NewSearchCoordinator(store, &fakeCollaborator{ids: []string{"e2"}}, echoTranslator{})

	ids, err := c.Search(context.Background(), " parking ")
	require.NoError(t, err)
	assert.Equal(t, []string{"e2"}, ids)

	s := store.GetState()
	assert.False(t, s.AISearch.InFlight)
	assert.Equal(t, "parking", s.AISearch.Query)
	assert.Equal(t, []string{"e2"}, s.AISearch.Results)

	c.Clear()
	assert.False(t, store.GetState().AISearch.Active())
}

func TestSearchWithNoMatchesStaysActive(t *testing.T) {
	store := newStore(inbound("e1"))
	c := NewSearchCoordinator(store, &fakeCollaborator{}, echoTranslator{})

	ids, err := c.Search(context.Background(), "catering")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.True(t, store.GetState().AISearch.Active())
	assert.Equal(t, "ai_search_no_results", lastNotification(store.GetState()))
}

func TestSearchFailureClears(t *testing.T) {
	store := newStore(inbound("e1"))
	c := NewSearchCoordinator(store, &fakeCollaborator{err: errors.New("offline")}, echoTranslator{})

	_, err := c.Search(context.Background(), "parking")
	assert.ErrorIs(t, err, ErrAIUnavailable)
	s := store.GetState()
	assert.False(t, s.AISearch.Active())
	assert.False(t, s.AISearch.InFlight)
	assert.Equal(t, "ai_search_failed", lastNotification(s))
}

type replySource struct{}

func (replySource) DefaultReply(emailID string) (*mail.Draft, error) {
	return &mail.Draft{Subject: "Re: Parking", Body: "<blockquote>original</blockquote>"}, nil
}

func TestGenerateReplyPrependsText(t *testing.T) {
	store := newStore(inbound("e1"))
	collab := &fakeCollaborator{reply: "Yes, lot B.\n\nRegards"}
	d := NewDrafting(store, collab, replySource{})

	draft, err := d.GenerateReply(context.Background(), "e1", "short")
	require.NoError(t, err)
	assert.Equal(t, "<p>Yes, lot B.</p><p>Regards</p><br><blockquote>original</blockquote>", draft.Body)
	assert.Equal(t, "Taro", collab.lastReq.RecipientName)
	assert.Equal(t, "short", collab.lastReq.Instruction)

	// nothing is saved
	e, _ := store.GetState().FindEmail("e1")
	assert.Nil(t, e.Draft)

	_, err = d.GenerateReply(context.Background(), "missing", "")
	assert.ErrorIs(t, err, mail.ErrEmailNotFound)
}

func TestGenerateReplyBlankAnswer(t *testing.T) {
	d := NewDrafting(newStore(inbound("e1")), &fakeCollaborator{reply: "  "}, replySource{})
	_, err := d.GenerateReply(context.Background(), "e1", "")
	assert.ErrorIs(t, err, ErrAIUnavailable)
}

func TestGenerateBulkDraft(t *testing.T) {
	d := NewDrafting(newStore(), &fakeCollaborator{bulk: &ai.BulkDraft{Subject: "S", Body: "<p>{{name}}</p>"}}, replySource{})
	draft, err := d.GenerateBulkDraft(context.Background(), "invite speakers")
	require.NoError(t, err)
	assert.Equal(t, "S", draft.Subject)

	_, err = d.GenerateBulkDraft(context.Background(), "")
	assert.ErrorIs(t, err, ai.ErrNoResult)
}

func TestAnalyzeNowStoresResult(t *testing.T) {
	store := newStore(inbound("e1"))
	collab := &fakeCollaborator{analysis: &ai.Analysis{
		Status:         "info_received",
		Tags:           []string{"parking"},
		SuggestedTasks: []ai.SuggestedTask{{Title: "Send map"}, {Title: ""}},
	}}
	w := NewAnalysisWorker(store, collab, echoTranslator{}, 1, 6000)

	e, err := w.AnalyzeNow(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, mail.StatusInfoReceived, e.Status)
	assert.Equal(t, []string{"parking"}, e.AITags)
	assert.Equal(t, []mail.SuggestedTask{{Title: "Send map"}}, e.SuggestedTasks)
}

func TestAnalyzeNowRejectsWorkflowStatus(t *testing.T) {
	store := newStore(inbound("e1"))
	collab := &fakeCollaborator{analysis: &ai.Analysis{Status: "approved"}}
	w := NewAnalysisWorker(store, collab, echoTranslator{}, 1, 6000)

	_, err := w.AnalyzeNow(context.Background(), "e1")
	assert.ErrorIs(t, err, ErrAIUnavailable)

	s := store.GetState()
	e, _ := s.FindEmail("e1")
	assert.Equal(t, mail.StatusNeedsReply, e.Status)
	assert.Equal(t, "ai_analysis_unavailable", lastNotification(s))
}

func TestWorkerAnalyzesReceivedEmails(t *testing.T) {
	store := newStore()
	collab := &fakeCollaborator{analysis: &ai.Analysis{Status: "archived"}}
	w := NewAnalysisWorker(store, collab, echoTranslator{}, 2, 6000)
	w.Start()
	w.WatchInbox()

	store.Dispatch(state.ReceiveEmail{Email: inbound("e1")})
	store.Dispatch(state.ReceiveEmail{Email: inbound("e2")})

	assert.Eventually(t, func() bool {
		s := store.GetState()
		e1, _ := s.FindEmail("e1")
		e2, _ := s.FindEmail("e2")
		return e1.Status == mail.StatusArchived && e2.Status == mail.StatusArchived
	}, 2*time.Second, 10*time.Millisecond)

	w.Stop()
	assert.False(t, w.Enqueue("e3"))
	assert.ElementsMatch(t, []string{"e1", "e2"}, collab.analyzedIDs())
}

type recordingIndex struct {
	mu   sync.Mutex
	docs map[string]string
}

func (r *recordingIndex) Upsert(_ context.Context, id, subject, sender, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[id] = body
	return nil
}

func (r *recordingIndex) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

func TestIndexerCoversExistingAndNewEmails(t *testing.T) {
	store := newStore(inbound("e1"))
	index := &recordingIndex{docs: map[string]string{}}
	stop := NewIndexer(index).Watch(store)

	store.Dispatch(state.ReceiveEmail{Email: inbound("e2")})
	stop()
	stop()

	assert.Equal(t, 2, index.len())
	assert.Equal(t, " Is there  parking ? ", index.docs["e1"])
}
