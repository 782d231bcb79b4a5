package domain

import (
	"fmt"
	"time"
)

// ItemKind discriminates the members of a thread
type ItemKind string

const (
	KindInbound ItemKind = "inbound"
	KindSent    ItemKind = "sent"
)

// Item is either an inbound Email or a SentEmail. Exactly one of the
// pointers is set, matching Kind.
type Item struct {
	Kind  ItemKind   `json:"kind"`
	Email *Email     `json:"email,omitempty"`
	Sent  *SentEmail `json:"sent,omitempty"`
}

// InboundItem wraps an inbound email
func InboundItem(e Email) Item {
	return Item{Kind: KindInbound, Email: &e}
}

// SentItem wraps a sent email
func SentItem(s SentEmail) Item {
	return Item{Kind: KindSent, Sent: &s}
}

func (i Item) ID() string {
	switch i.Kind {
	case KindInbound:
		return i.Email.ID
	case KindSent:
		return i.Sent.ID
	default:
		panic(fmt.Sprintf("mail: unknown item kind %q", i.Kind))
	}
}

func (i Item) ThreadID() string {
	switch i.Kind {
	case KindInbound:
		return i.Email.ThreadID
	case KindSent:
		return i.Sent.ThreadID
	default:
		panic(fmt.Sprintf("mail: unknown item kind %q", i.Kind))
	}
}

func (i Item) Timestamp() time.Time {
	switch i.Kind {
	case KindInbound:
		return i.Email.Timestamp
	case KindSent:
		return i.Sent.Timestamp
	default:
		panic(fmt.Sprintf("mail: unknown item kind %q", i.Kind))
	}
}

// Subject returns the subject line of either variant
func (i Item) Subject() string {
	switch i.Kind {
	case KindInbound:
		return i.Email.Subject
	case KindSent:
		return i.Sent.Subject
	default:
		panic(fmt.Sprintf("mail: unknown item kind %q", i.Kind))
	}
}
