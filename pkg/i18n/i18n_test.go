package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslatorLanguages(t *testing.T) {
	en := New("en")
	assert.Equal(t, "Email sent", en.T("email_sent"))
	assert.Equal(t, "Follow up with Taro", en.TWithData("reminder_title", map[string]interface{}{"Sender": "Taro"}))
	assert.Equal(t, "Imported 1 contact", en.TPlural("contacts_imported", 1))
	assert.Equal(t, "Imported 3 contacts", en.TPlural("contacts_imported", 3))

	ja := New("")
	assert.Equal(t, "メールを送信しました", ja.T("email_sent"))
	assert.Equal(t, "3件の連絡先をインポートしました", ja.TPlural("contacts_imported", 3))
}

func TestUnknownMessageFallsBackToID(t *testing.T) {
	assert.Equal(t, "no_such_message", New("en").T("no_such_message"))
}
