package domain

import (
	"fmt"
	"html"
	"strings"
	"time"
)

const replyPrefix = "Re: "

// ReplySubject prefixes subject with "Re: " unless it already has it
func ReplySubject(subject string) string {
	if strings.HasPrefix(subject, replyPrefix) {
		return subject
	}
	return replyPrefix + subject
}

// QuoteHeader renders the "On <time>, <who> wrote:" line above a quote
func QuoteHeader(ts time.Time, who string) string {
	return fmt.Sprintf("On %s, %s wrote:", ts.Format("2006/1/2(Mon) 15:04"), who)
}

// QuotedBody returns an empty paragraph followed by the original body in a
// blockquote, ready for the reply text to be typed above it
func QuotedBody(email *Email) string {
	who := fmt.Sprintf("%s <%s>", email.Sender.Name, email.Sender.Email)
	return fmt.Sprintf("<p><br></p><blockquote>%s<br>%s</blockquote>",
		html.EscapeString(QuoteHeader(email.Timestamp, who)), email.Body)
}

// NewReplyDraft builds the initial reply to email. The CC line keeps the
// original CCs and adds requiredCC (addresses the sender always wants
// copied), deduplicated case-insensitively. The sender is never CC'd.
func NewReplyDraft(email *Email, requiredCC []Sender) Draft {
	seen := map[string]bool{strings.ToLower(email.Sender.Email): true}
	var cc []Sender
	for _, list := range [][]Sender{email.CC, requiredCC} {
		for _, s := range list {
			key := strings.ToLower(strings.TrimSpace(s.Email))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			cc = append(cc, s)
		}
	}

	return Draft{
		Recipients: []Sender{email.Sender},
		CC:         cc,
		Subject:    ReplySubject(email.Subject),
		Body:       QuotedBody(email),
	}
}
