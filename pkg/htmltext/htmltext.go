package htmltext

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	// richTextPolicy keeps the formatting the reply editor produces
	richTextPolicy = newRichTextPolicy()
	stripPolicy    = bluemonday.StrictPolicy()
)

func newRichTextPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("blockquote", "strong", "em", "u", "s", "br", "p", "div", "span", "ul", "ol", "li", "font")
	p.AllowAttrs("style").OnElements("span", "div", "p", "font")
	p.AllowAttrs("color", "size", "face").OnElements("font")
	p.AllowStyles("color", "font-weight", "font-style", "text-decoration").Globally()
	return p
}

// Sanitize removes scripts, handlers and unknown markup from a rich-text body
func Sanitize(body string) string {
	return richTextPolicy.Sanitize(body)
}

// StripTags removes all markup, keeping only text content
func StripTags(s string) string {
	return stripPolicy.Sanitize(s)
}

// PlainText converts an HTML body into searchable text. Every tag boundary
// becomes a single space so adjacent blocks do not run together.
func PlainText(body string) string {
	if !strings.ContainsAny(body, "<&") {
		return body
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way keep what was collected
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			sb.WriteByte(' ')
		}
	}
}

// Snippet returns at most n runes of the plain text of body
func Snippet(body string, n int) string {
	text := PlainText(body)
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}

// Paragraphs converts plain text to HTML: blank-line separated blocks become
// <p> elements and single newlines become <br>. The text is escaped.
func Paragraphs(text string) string {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.Trim(block, "\n")
		if block == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(block), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}
