package domain

import "time"

// Outgoing is a message ready to send: a saved draft plus the threading
// information of the email it answers
type Outgoing struct {
	Recipients  []Sender     `json:"recipients" binding:"required,min=1"`
	CC          []Sender     `json:"cc"`
	BCC         []Sender     `json:"bcc"`
	Subject     string       `json:"subject" binding:"required"`
	Body        string       `json:"body" binding:"required"`
	InReplyTo   *string      `json:"inReplyTo,omitempty"`
	ThreadID    string       `json:"threadId,omitempty"`
	Attachments []Attachment `json:"attachments"`
}

// OutgoingFromDraft turns a saved reply draft into a message answering email
func OutgoingFromDraft(email *Email, d Draft) Outgoing {
	id := email.ID
	return Outgoing{
		Recipients:  d.Recipients,
		CC:          d.CC,
		BCC:         d.BCC,
		Subject:     d.Subject,
		Body:        d.Body,
		InReplyTo:   &id,
		ThreadID:    email.ThreadID,
		Attachments: d.Attachments,
	}
}

// SentEmail is an immutable record of a message sent from the workspace
type SentEmail struct {
	ID             string       `json:"id"`
	Recipients     []Sender     `json:"recipients"`
	CC             []Sender     `json:"cc,omitempty"`
	BCC            []Sender     `json:"bcc,omitempty"`
	Subject        string       `json:"subject"`
	Body           string       `json:"body"`
	Timestamp      time.Time    `json:"timestamp"`
	InReplyTo      *string      `json:"inReplyTo,omitempty"`
	ThreadID       string       `json:"threadId"`
	Attachments    []Attachment `json:"attachments,omitempty"`
	SentBy         string       `json:"sentBy"`
	UpdatedAt      time.Time    `json:"updatedAt"`
	LastModifiedBy string       `json:"lastModifiedBy"`
}

// NewSentEmail records out as sent by user at now. A message without a
// thread starts its own, keyed by its id.
func NewSentEmail(id string, out Outgoing, user string, now time.Time) SentEmail {
	threadID := out.ThreadID
	if threadID == "" {
		threadID = id
	}
	return SentEmail{
		ID:             id,
		Recipients:     out.Recipients,
		CC:             out.CC,
		BCC:            out.BCC,
		Subject:        out.Subject,
		Body:           out.Body,
		Timestamp:      now,
		InReplyTo:      out.InReplyTo,
		ThreadID:       threadID,
		Attachments:    out.Attachments,
		SentBy:         user,
		UpdatedAt:      now,
		LastModifiedBy: user,
	}
}
