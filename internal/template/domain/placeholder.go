package domain

import (
	"html"
	"regexp"
	"strings"

	settings "eventdesk-backend/internal/settings/domain"
)

// RecipientPlaceholder is filled from the recipient address, never from a
// CSV mapping
const RecipientPlaceholder = "email"

var placeholderRe = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Placeholders returns the unique placeholder names in body then title, in
// order of first appearance. The recipient placeholder is excluded.
func Placeholders(title, body string) []string {
	seen := map[string]bool{RecipientPlaceholder: true}
	var out []string
	for _, text := range []string{body, title} {
		for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// Substitute replaces every {{ name }} (any inner spacing) with its value.
// Names missing from values are left untouched.
func Substitute(text string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(token string) string {
		name := strings.TrimSpace(placeholderRe.FindStringSubmatch(token)[1])
		if v, ok := values[name]; ok {
			return v
		}
		return token
	})
}

// Recipient identifies who a rendered body is addressed to
type Recipient struct {
	Name  string
	Email string
}

// Render fills the workspace placeholders (eventName, websiteUrl,
// officeName and every knowledge-base key) and, when to is given, the
// recipient placeholders {{name}} (in bold) and {{email}}, HTML-escaped
func Render(body string, s settings.AppSettings, to *Recipient) string {
	values := map[string]string{
		"eventName":  s.EventName,
		"websiteUrl": s.WebsiteURL,
		"officeName": s.OfficeName,
	}
	for _, item := range s.KnowledgeBase {
		if item.Key != "" {
			values[item.Key] = item.Value
		}
	}
	if to != nil {
		values["name"] = "<strong>" + html.EscapeString(to.Name) + "</strong>"
		values[RecipientPlaceholder] = html.EscapeString(to.Email)
	}
	return Substitute(body, values)
}
