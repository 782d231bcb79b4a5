package usecase

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/eml"
	"eventdesk-backend/pkg/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInbox(store *state.Store) *inboxUsecase {
	uc := NewInboxUsecase(store, echoTranslator{}, idgen.Sequence()).(*inboxUsecase)
	uc.now = func() time.Time { return base.Add(2 * time.Hour) }
	return uc
}

func TestReceiveSanitizesAndDefaultsName(t *testing.T) {
	store := newStore()
	uc := newInbox(store)

	e, err := uc.Receive(domain.InboundInput{
		Sender:  domain.Sender{Email: "guest@example.com"},
		Subject: "Hello",
		Body:    `<p onclick="x()">Hi</p><script>alert(1)</script>`,
	})
	require.NoError(t, err)

	assert.Equal(t, "email-1", e.ID)
	assert.Equal(t, "email-1", e.ThreadID)
	assert.Equal(t, "guest@example.com", e.Sender.Name)
	assert.Equal(t, "<p>Hi</p>", e.Body)
	assert.Equal(t, domain.StatusNeedsReply, e.Status)
	assert.Equal(t, base.Add(2*time.Hour), e.Timestamp)
	assert.Len(t, store.GetState().Emails, 1)
}

func TestReceiveRejectsBadSender(t *testing.T) {
	uc := newInbox(newStore())
	_, err := uc.Receive(domain.InboundInput{Sender: domain.Sender{Email: "nobody"}})
	assert.Error(t, err)
}

func TestSetStatus(t *testing.T) {
	e := email("e1", "e1", 0, domain.StatusDrafting)
	e.Draft = &domain.Draft{Subject: "Re: x", Body: "<p>x</p>"}
	store := newStore(e)
	uc := newInbox(store)

	got, err := uc.SetStatus("e1", domain.StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArchived, got.Status)
	assert.Nil(t, got.Draft)
	assert.Equal(t, "status_updated", lastNotification(store.GetState()))

	_, err = uc.SetStatus("e1", "lost")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = uc.SetStatus("missing", domain.StatusArchived)
	assert.ErrorIs(t, err, domain.ErrEmailNotFound)
}

func TestBulkSetStatusUsesSelectionWhenNoIDs(t *testing.T) {
	store := newStore(
		email("e1", "e1", 0, domain.StatusNeedsReply),
		email("e2", "e2", 1, domain.StatusNeedsReply),
		email("e3", "e3", 2, domain.StatusNeedsReply),
	)
	store.Dispatch(state.SetBulkSelectedIDs{IDs: []string{"e1", "e3"}})
	uc := newInbox(store)

	n, err := uc.BulkSetStatus(nil, domain.StatusInfoReceived)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s := store.GetState()
	assert.Empty(t, s.BulkSelectedIDs)
	e2, _ := s.FindEmail("e2")
	assert.Equal(t, domain.StatusNeedsReply, e2.Status)
	e3, _ := s.FindEmail("e3")
	assert.Equal(t, domain.StatusInfoReceived, e3.Status)
}

func TestBulkSetStatusCountsDistinctEmails(t *testing.T) {
	store := newStore(
		email("e1", "e1", 0, domain.StatusNeedsReply),
		email("e2", "e2", 1, domain.StatusNeedsReply),
	)
	uc := newInbox(store)

	n, err := uc.BulkSetStatus([]string{"e1", "e1", "e2", "nope", "e2"}, domain.StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	store.Dispatch(state.SetBulkSelectedIDs{IDs: []string{"e1", "e1"}})
	n, err = uc.BulkSetStatus(nil, domain.StatusReplied)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, store.GetState().BulkSelectedIDs)
}

func TestBulkSetStatusIgnoresUnknownIDs(t *testing.T) {
	store := newStore(email("e1", "e1", 0, domain.StatusNeedsReply))
	uc := newInbox(store)

	n, err := uc.BulkSetStatus([]string{"nope"}, domain.StatusArchived)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.GetState().Notifications)
}

func TestComposeStartsNewThread(t *testing.T) {
	store := newStore()
	uc := newInbox(store)

	_, err := uc.Compose(domain.Outgoing{Subject: "x", Body: "<p>x</p>"})
	assert.ErrorIs(t, err, domain.ErrNoDraft)

	reply := "e1"
	sent, err := uc.Compose(domain.Outgoing{
		Recipients: []domain.Sender{{Name: "Taro", Email: "taro@example.com"}},
		Subject:    "Schedule",
		Body:       "<p>Attached.</p>",
		InReplyTo:  &reply,
		ThreadID:   "T1",
	})
	require.NoError(t, err)
	assert.Equal(t, "sent-1", sent.ID)
	assert.Equal(t, sent.ID, sent.ThreadID)
	assert.Nil(t, sent.InReplyTo)
	assert.Equal(t, "email_sent", lastNotification(store.GetState()))
}

func TestExportInboundEML(t *testing.T) {
	e := email("e1", "e1", 0, domain.StatusNeedsReply)
	e.Attachments = []domain.Attachment{{Name: "map.pdf"}}
	store := newStore(e)
	uc := newInbox(store)

	var buf bytes.Buffer
	require.NoError(t, uc.ExportEML("e1", &buf))

	m, err := eml.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "e1@guest.example.com", m.From.Email)
	assert.Equal(t, "Subject e1", m.Subject)
	assert.Equal(t, "<p>Body of e1</p>", m.HTMLBody)
	assert.Equal(t, "e1@eventdesk.local", m.MessageID)
	require.Len(t, m.To, 1)
	assert.Equal(t, OfficeMailbox, m.To[0].Email)

	assert.ErrorIs(t, uc.ExportEML("missing", &buf), domain.ErrEmailNotFound)
}

const guestReply = "From: Taro <taro@example.com>\r\n" +
	"To: office@eventdesk.local\r\n" +
	"Subject: Re: Schedule\r\n" +
	"Date: Mon, 02 Jun 2025 10:00:00 +0000\r\n" +
	"Message-Id: <abc@example.com>\r\n" +
	"In-Reply-To: <sent-1@eventdesk.local>\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Thanks!\r\n\r\nSee you.\r\n"

func TestReceiveEMLJoinsThreadOfSentEmail(t *testing.T) {
	store := newStore()
	uc := newInbox(store)
	sent, err := uc.Compose(domain.Outgoing{
		Recipients: []domain.Sender{{Name: "Taro", Email: "taro@example.com"}},
		Subject:    "Schedule",
		Body:       "<p>Attached.</p>",
	})
	require.NoError(t, err)

	e, err := uc.ReceiveEML(strings.NewReader(guestReply))
	require.NoError(t, err)
	assert.Equal(t, sent.ThreadID, e.ThreadID)
	assert.Equal(t, "Taro", e.Sender.Name)
	assert.Equal(t, "<p>Thanks!</p><p>See you.</p>", e.Body)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), e.Timestamp.UTC())

	items := uc.Thread(sent.ThreadID)
	assert.Len(t, items, 2)
}

func TestReceiveEMLWithoutSender(t *testing.T) {
	uc := newInbox(newStore())
	_, err := uc.ReceiveEML(strings.NewReader("Subject: hi\r\n\r\nbody\r\n"))
	assert.ErrorIs(t, err, eml.ErrNoSender)
}

func TestReceiveEMLJoinsThreadOfInboundEmail(t *testing.T) {
	store := newStore(email("e1", "T1", 0, domain.StatusReplied))
	uc := newInbox(store)

	raw := strings.Replace(guestReply, "<sent-1@eventdesk.local>", "<e1@eventdesk.local>", 1)
	e, err := uc.ReceiveEML(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "T1", e.ThreadID)
	assert.Len(t, uc.Thread("T1"), 2)
}
