package domain

import (
	"strings"
	"time"
)

// Sender is a display name plus address
type Sender struct {
	Name  string `json:"name" toml:"name"`
	Email string `json:"email" toml:"email" binding:"required"`
}

// Attachment references a file by name; content is never stored
type Attachment struct {
	Name string `json:"name" toml:"name"`
	URL  string `json:"url" toml:"url"`
}

// SuggestedTask is a follow-up proposed by AI analysis
type SuggestedTask struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// Analysis is the result of asking the AI collaborator to triage an email
type Analysis struct {
	Status         EmailStatus     `json:"status"`
	Tags           []string        `json:"tags"`
	SuggestedTasks []SuggestedTask `json:"suggestedTasks"`
}

// Draft is an in-progress reply attached to an email
type Draft struct {
	Recipients  []Sender     `json:"recipients"`
	CC          []Sender     `json:"cc"`
	BCC         []Sender     `json:"bcc"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments"`
}

// Email is an inbound message in the shared inbox.
//
// Optional collections are nil when absent; AITags and SuggestedTasks stay
// nil until the email has been analyzed, and an analysis that found nothing
// stores an empty slice.
type Email struct {
	ID             string          `json:"id"`
	DisplayID      string          `json:"displayId"`
	Sender         Sender          `json:"sender"`
	CC             []Sender        `json:"cc,omitempty"`
	Subject        string          `json:"subject"`
	Body           string          `json:"body"`
	Timestamp      time.Time       `json:"timestamp"`
	Status         EmailStatus     `json:"status"`
	ThreadID       string          `json:"threadId"`
	AITags         []string        `json:"aiTags"`
	SuggestedTasks []SuggestedTask `json:"suggestedTasks"`
	Attachments    []Attachment    `json:"attachments,omitempty"`
	Draft          *Draft          `json:"draft"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
	LastModifiedBy string          `json:"lastModifiedBy,omitempty"`
}

// HasTag reports whether the AI tagged the email with tag
func (e *Email) HasTag(tag string) bool {
	for _, t := range e.AITags {
		if t == tag {
			return true
		}
	}
	return false
}

// InboundInput holds the fields of an email arriving in the inbox
type InboundInput struct {
	DisplayID   string       `json:"displayId"`
	Sender      Sender       `json:"sender" binding:"required"`
	CC          []Sender     `json:"cc"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Timestamp   *time.Time   `json:"timestamp"`
	ThreadID    string       `json:"threadId"`
	Attachments []Attachment `json:"attachments"`
}

// NewInboundEmail builds an inbox email in NeedsReply. The thread defaults to
// the email itself; displayID defaults to "#" plus the id's last six characters.
func NewInboundEmail(id string, in InboundInput, now time.Time) Email {
	ts := now
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}
	threadID := in.ThreadID
	if threadID == "" {
		threadID = id
	}
	displayID := in.DisplayID
	if displayID == "" {
		displayID = "#" + shortID(id)
	}
	return Email{
		ID:          id,
		DisplayID:   displayID,
		Sender:      in.Sender,
		CC:          in.CC,
		Subject:     in.Subject,
		Body:        in.Body,
		Timestamp:   ts,
		Status:      StatusNeedsReply,
		ThreadID:    threadID,
		Attachments: in.Attachments,
	}
}

func shortID(id string) string {
	compact := strings.ReplaceAll(id, "-", "")
	if len(compact) > 6 {
		compact = compact[len(compact)-6:]
	}
	return strings.ToUpper(compact)
}
