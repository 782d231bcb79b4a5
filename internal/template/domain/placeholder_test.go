package domain

import (
	"testing"

	settings "eventdesk-backend/internal/settings/domain"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholdersBodyFirstAndUnique(t *testing.T) {
	got := Placeholders("{{ session }} for {{name}}", "<p>{{name}} {{email}} {{room}} {{  room }} {{}}</p>")
	assert.Equal(t, []string{"name", "room", "session"}, got)
	assert.Empty(t, Placeholders("Hello", "<p>no tokens</p>"))
}

func TestSubstituteLeavesUnknownTokens(t *testing.T) {
	got := Substitute("{{ a }}-{{b}}-{{c}}", map[string]string{"a": "1", "b": ""})
	assert.Equal(t, "1--{{c}}", got)
}

func TestRenderFillsWorkspaceAndRecipient(t *testing.T) {
	s := settings.AppSettings{
		EventName:  "Summit",
		WebsiteURL: "https://summit.example.com",
		OfficeName: "Summit Office",
		KnowledgeBase: []settings.KnowledgeItem{
			{ID: "k1", Key: "venue", Value: "Hall A"},
			{ID: "k2", Key: "", Value: "ignored"},
		},
	}
	body := "<p>Dear {{name}} ({{email}}), {{eventName}} is at {{venue}}. See {{websiteUrl}}. {{officeName}} {{unknown}}</p>"

	got := Render(body, s, &Recipient{Name: "Taro", Email: "taro@example.com"})
	assert.Equal(t, "<p>Dear <strong>Taro</strong> (taro@example.com), Summit is at Hall A. See https://summit.example.com. Summit Office {{unknown}}</p>", got)

	// without a recipient the recipient tokens stay
	assert.Equal(t, "{{name}} Summit", Render("{{name}} {{eventName}}", s, nil))
}

func TestRenderEscapesRecipient(t *testing.T) {
	got := Render("<p>{{name}} {{email}}</p>", settings.AppSettings{}, &Recipient{Name: "<i>Taro</i>", Email: "a&b@example.com"})
	assert.Equal(t, "<p><strong>&lt;i&gt;Taro&lt;/i&gt;</strong> a&amp;b@example.com</p>", got)
}
