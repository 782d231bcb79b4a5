package i18n

import (
	"embed"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Translator renders user-facing messages in one configured language
type Translator struct {
	localizer *goi18n.Localizer
}

// New loads the embedded catalogs and returns a translator for lang.
// Japanese is the fallback language.
func New(lang string) *Translator {
	bundle := goi18n.NewBundle(language.Japanese)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"locales/active.ja.toml", "locales/active.en.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			logrus.Warnf("[I18n] Failed to load %s: %v", file, err)
		}
	}

	if lang == "" {
		lang = language.Japanese.String()
	}
	return &Translator{localizer: goi18n.NewLocalizer(bundle, lang)}
}

// T translates a message ID
func (t *Translator) T(messageID string) string {
	return t.localize(&goi18n.LocalizeConfig{MessageID: messageID})
}

// TWithData translates a message ID with template data
func (t *Translator) TWithData(messageID string, data map[string]interface{}) string {
	return t.localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
}

// TPlural translates a message ID with plural support
func (t *Translator) TPlural(messageID string, count int) string {
	return t.localize(&goi18n.LocalizeConfig{
		MessageID:   messageID,
		PluralCount: count,
		TemplateData: map[string]interface{}{
			"Count": count,
		},
	})
}

func (t *Translator) localize(cfg *goi18n.LocalizeConfig) string {
	msg, err := t.localizer.Localize(cfg)
	if err != nil {
		logrus.Debugf("[I18n] Translation error for '%s': %v", cfg.MessageID, err)
		return cfg.MessageID
	}
	return msg
}
