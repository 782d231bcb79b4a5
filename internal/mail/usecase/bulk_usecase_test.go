package usecase

import (
	"strings"
	"testing"

	settings "eventdesk-backend/internal/settings/domain"
	"eventdesk-backend/internal/state"
	tmpl "eventdesk-backend/internal/template/domain"
	"eventdesk-backend/pkg/csvtable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invitation = tmpl.Template{
	ID:    "tpl-1",
	Title: "{{eventName}}: {{session}}",
	Body:  "<p>Dear {{name}},</p><p>Your session {{session}} is in {{room}}. Reply to {{email}}.</p>",
}

const speakersCSV = "\ufeffname,email,session,room\n" +
	"Taro,taro@example.com,Keynote,Hall A\n" +
	",,,\n" +
	"Hanako,,Panel,Room 2\n" +
	"Jiro,jiro@example.com,Workshop,Lab\n"

func TestTemplatePlaceholdersSkipWorkspaceValues(t *testing.T) {
	got := TemplatePlaceholders(invitation, settings.DefaultSettings())
	assert.Equal(t, []string{"name", "session", "room"}, got)
}

func TestAutoMappingAndValidate(t *testing.T) {
	placeholders := []string{"name", "session", "room"}
	m := AutoMapping(placeholders, []string{"name", "email", "session"})

	assert.Equal(t, ColumnMapping{"email": "email", "name": "name", "session": "session"}, m)

	err := m.Validate(placeholders)
	require.ErrorIs(t, err, ErrMappingIncomplete)
	assert.Contains(t, err.Error(), "room")

	m["room"] = "venue"
	assert.NoError(t, m.Validate(placeholders))
}

func TestGeneratePersonalizesEveryRowWithRecipient(t *testing.T) {
	table, err := ParseBulkCSV(strings.NewReader(speakersCSV))
	require.NoError(t, err)
	rows := make([]map[string]string, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = table.Record(r)
	}
	s := settings.DefaultSettings()
	s.EventName = "Summit"
	placeholders := TemplatePlaceholders(invitation, s)

	out := Generate(invitation, s, placeholders, rows, AutoMapping(placeholders, table.Headers), nil)

	// Hanako has no address and is skipped
	require.Len(t, out, 2)
	assert.Equal(t, "Summit: Keynote", out[0].Subject)
	assert.Equal(t, "<p>Dear Taro,</p><p>Your session Keynote is in Hall A. Reply to taro@example.com.</p>", out[0].Body)
	assert.Equal(t, "jiro@example.com", out[1].Recipients[0].Email)
	assert.Nil(t, out[1].InReplyTo)
}

func TestParseBulkCSVRequiresEmailColumn(t *testing.T) {
	_, err := ParseBulkCSV(strings.NewReader("name,company\nTaro,ACME\n"))
	assert.ErrorIs(t, err, ErrCSVMissingEmail)

	_, err = ParseBulkCSV(strings.NewReader("name,email\n"))
	assert.ErrorIs(t, err, csvtable.ErrTooShort)
}

func TestBulkPreviewReportsIncompleteMapping(t *testing.T) {
	store := newStore()
	store.Dispatch(state.AddTemplate{Template: invitation})
	uc := NewBulkUsecase(store, echoTranslator{})

	preview, err := uc.Preview("tpl-1", strings.NewReader("email,name\ntaro@example.com,Taro\n"), nil)
	require.NoError(t, err)
	assert.False(t, preview.Valid)
	assert.Empty(t, preview.Messages)
	require.Len(t, preview.Problems, 1)
	assert.Contains(t, preview.Problems[0], "session")
}

func TestBulkSendDispatchesOneMessagePerRow(t *testing.T) {
	store := newStore()
	store.Dispatch(state.AddTemplate{Template: invitation})
	uc := NewBulkUsecase(store, echoTranslator{})

	sent, err := uc.Send("tpl-1", strings.NewReader(speakersCSV), nil)
	require.NoError(t, err)
	assert.Len(t, sent, 2)

	s := store.GetState()
	require.Len(t, s.SentEmails, 2)
	assert.NotEqual(t, s.SentEmails[0].ThreadID, s.SentEmails[1].ThreadID)
	assert.Equal(t, "bulk_sent:2", lastNotification(s))
}

func TestBulkSendUnknownTemplate(t *testing.T) {
	uc := NewBulkUsecase(newStore(), echoTranslator{})
	_, err := uc.Send("missing", strings.NewReader(speakersCSV), nil)
	assert.ErrorIs(t, err, tmpl.ErrTemplateNotFound)
}

func TestGenerateEscapesCSVValuesInBody(t *testing.T) {
	table, err := ParseBulkCSV(strings.NewReader("name,email,session,room\n" +
		"\"<script>alert(1)</script>Taro & Co\",taro@example.com,<b>Keynote</b>,Hall A\n"))
	require.NoError(t, err)
	s := settings.DefaultSettings()
	placeholders := TemplatePlaceholders(invitation, s)

	out := Generate(invitation, s, placeholders, []map[string]string{table.Record(table.Rows[0])}, AutoMapping(placeholders, table.Headers), nil)

	require.Len(t, out, 1)
	assert.NotContains(t, out[0].Body, "<script>")
	assert.NotContains(t, out[0].Body, "<b>")
	assert.Contains(t, out[0].Body, "&lt;script&gt;")
	assert.Contains(t, out[0].Body, "Taro &amp; Co")
	// subjects are plain text and keep the raw value
	assert.Contains(t, out[0].Subject, "<b>Keynote</b>")
}
