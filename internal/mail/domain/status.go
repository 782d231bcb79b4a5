package domain

import "errors"

// EmailStatus is the triage state of an inbound email
type EmailStatus string

const (
	StatusNeedsReply   EmailStatus = "needs_reply"
	StatusReplied      EmailStatus = "replied"
	StatusInfoReceived EmailStatus = "info_received"
	StatusArchived     EmailStatus = "archived"
	StatusReviewing    EmailStatus = "reviewing"
	StatusDrafting     EmailStatus = "drafting"
	StatusApproved     EmailStatus = "approved"
)

// AllStatuses lists every status in display order
var AllStatuses = []EmailStatus{
	StatusNeedsReply,
	StatusDrafting,
	StatusReviewing,
	StatusApproved,
	StatusReplied,
	StatusInfoReceived,
	StatusArchived,
}

var (
	ErrEmailNotFound     = errors.New("email not found")
	ErrSentNotFound      = errors.New("sent email not found")
	ErrNoDraft           = errors.New("email has no draft")
	ErrInvalidStatus     = errors.New("invalid email status")
	ErrInvalidTransition = errors.New("invalid reply workflow transition")
	ErrNotApproved       = errors.New("reply has not been approved")
)

var statusLabels = map[EmailStatus]string{
	StatusNeedsReply:   "要返信",
	StatusReplied:      "返信済み",
	StatusInfoReceived: "情報受領",
	StatusArchived:     "対応済み",
	StatusReviewing:    "確認中",
	StatusDrafting:     "下書き中",
	StatusApproved:     "承認済み",
}

// Label is the display name of s
func (s EmailStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is one of the known statuses
func (s EmailStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// InWorkflow reports whether s belongs to the reply workflow
// (Drafting -> Reviewing -> Approved). Only these statuses may carry a draft.
func (s EmailStatus) InWorkflow() bool {
	return s == StatusDrafting || s == StatusReviewing || s == StatusApproved
}

// Triage reports whether s may be produced by AI analysis
func (s EmailStatus) Triage() bool {
	switch s {
	case StatusNeedsReply, StatusReplied, StatusInfoReceived, StatusArchived:
		return true
	}
	return false
}

// ParseStatus validates a status coming from a request or an AI response
func ParseStatus(s string) (EmailStatus, error) {
	status := EmailStatus(s)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// CheckWorkflowTransition validates a move inside the reply workflow.
//
//	any non-workflow status -> Drafting
//	Drafting  -> Reviewing
//	Reviewing -> Drafting (send back)
//	Reviewing -> Approved
//
// Approved only leaves the workflow by sending or by a direct status reset.
func CheckWorkflowTransition(from, to EmailStatus) error {
	switch to {
	case StatusDrafting:
		if !from.InWorkflow() || from == StatusDrafting || from == StatusReviewing {
			return nil
		}
	case StatusReviewing:
		if from == StatusDrafting {
			return nil
		}
	case StatusApproved:
		if from == StatusReviewing {
			return nil
		}
	}
	return ErrInvalidTransition
}

// CanSend reports whether a reply to an email in status s may be sent.
// Emails outside the workflow may be answered directly.
func CanSend(s EmailStatus) error {
	if s == StatusDrafting || s == StatusReviewing {
		return ErrNotApproved
	}
	return nil
}
