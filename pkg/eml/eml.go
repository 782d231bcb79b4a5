// Package eml reads and writes RFC 5322 messages
package eml

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"eventdesk-backend/pkg/htmltext"
)

// ErrNoSender is returned when a parsed message has no From address
var ErrNoSender = errors.New("message has no sender")

// Address is a display name and mailbox
type Address struct {
	Name  string
	Email string
}

// Message is the subset of an email this application exchanges as .eml
type Message struct {
	MessageID   string
	InReplyTo   string
	From        Address
	To          []Address
	CC          []Address
	Subject     string
	Date        time.Time
	HTMLBody    string
	Attachments []string // file names only; content is not carried
}

func toList(list []Address) []*mail.Address {
	out := make([]*mail.Address, len(list))
	for i, a := range list {
		out[i] = &mail.Address{Name: a.Name, Address: a.Email}
	}
	return out
}

func fromList(list []*mail.Address) []Address {
	out := make([]Address, 0, len(list))
	for _, a := range list {
		out = append(out, Address{Name: a.Name, Email: a.Address})
	}
	return out
}

// Write encodes m as multipart/alternative (plain text and HTML). BCC is
// never written.
func Write(w io.Writer, m Message) error {
	var h mail.Header
	h.SetDate(m.Date)
	h.SetSubject(m.Subject)
	h.SetAddressList("From", toList([]Address{m.From}))
	if len(m.To) > 0 {
		h.SetAddressList("To", toList(m.To))
	}
	if len(m.CC) > 0 {
		h.SetAddressList("Cc", toList(m.CC))
	}
	if m.MessageID != "" {
		h.SetMessageID(m.MessageID)
	}
	if m.InReplyTo != "" {
		h.SetMsgIDList("In-Reply-To", []string{m.InReplyTo})
	}

	mw, err := mail.CreateWriter(w, h)
	if err != nil {
		return fmt.Errorf("failed to create message writer: %w", err)
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return fmt.Errorf("failed to create inline part: %w", err)
	}

	plain := htmltext.PlainText(m.HTMLBody)
	if len(m.Attachments) > 0 {
		plain += "\n\n" + "Attachments: " + strings.Join(m.Attachments, ", ")
	}
	if err := writePart(tw, "text/plain", plain); err != nil {
		return err
	}
	if err := writePart(tw, "text/html", m.HTMLBody); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return mw.Close()
}

func writePart(tw *mail.InlineWriter, contentType, body string) error {
	var ph mail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	pw, err := tw.CreatePart(ph)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(pw, body); err != nil {
		pw.Close()
		return err
	}
	return pw.Close()
}

// Read decodes a message. The HTML part wins over plain text; a plain-text
// only message is converted to paragraphs.
func Read(r io.Reader) (*Message, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	defer mr.Close()

	m := &Message{}
	m.Subject, _ = mr.Header.Subject()
	m.Date, _ = mr.Header.Date()
	m.MessageID, _ = mr.Header.MessageID()
	if ids, _ := mr.Header.MsgIDList("In-Reply-To"); len(ids) > 0 {
		m.InReplyTo = ids[0]
	}

	from, err := mr.Header.AddressList("From")
	if err != nil || len(from) == 0 {
		return nil, ErrNoSender
	}
	m.From = Address{Name: from[0].Name, Email: from[0].Address}
	if to, err := mr.Header.AddressList("To"); err == nil {
		m.To = fromList(to)
	}
	if cc, err := mr.Header.AddressList("Cc"); err == nil {
		m.CC = fromList(cc)
	}

	var plain string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read part: %w", err)
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			ct, _, _ := h.ContentType()
			body, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, err
			}
			switch ct {
			case "text/html":
				if m.HTMLBody == "" {
					m.HTMLBody = string(body)
				}
			case "text/plain":
				if plain == "" {
					plain = string(body)
				}
			}
		case *mail.AttachmentHeader:
			if name, err := h.Filename(); err == nil && name != "" {
				m.Attachments = append(m.Attachments, name)
			}
		}
	}

	if m.HTMLBody == "" {
		m.HTMLBody = htmltext.Paragraphs(plain)
	}
	return m, nil
}
