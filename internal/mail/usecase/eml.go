package usecase

import (
	"io"
	"strings"

	"eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/pkg/eml"
)

// OfficeMailbox is the shared inbox address used in exported messages
var OfficeMailbox = "office@eventdesk.local"

const msgIDDomain = "@eventdesk.local"

func toAddresses(list []domain.Sender) []eml.Address {
	out := make([]eml.Address, len(list))
	for i, s := range list {
		out[i] = eml.Address{Name: s.Name, Email: s.Email}
	}
	return out
}

func toSenders(list []eml.Address) []domain.Sender {
	out := make([]domain.Sender, 0, len(list))
	for _, a := range list {
		name := a.Name
		if name == "" {
			name = a.Email
		}
		out = append(out, domain.Sender{Name: name, Email: a.Email})
	}
	return out
}

func attachmentNames(list []domain.Attachment) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Name
	}
	return out
}

func (u *inboxUsecase) ReceiveEML(r io.Reader) (*domain.Email, error) {
	m, err := eml.Read(r)
	if err != nil {
		return nil, err
	}

	in := domain.InboundInput{
		Sender:  toSenders([]eml.Address{m.From})[0],
		CC:      toSenders(m.CC),
		Subject: m.Subject,
		Body:    m.HTMLBody,
	}
	if len(in.CC) == 0 {
		in.CC = nil
	}
	if !m.Date.IsZero() {
		ts := m.Date
		in.Timestamp = &ts
	}
	for _, name := range m.Attachments {
		in.Attachments = append(in.Attachments, domain.Attachment{Name: name})
	}
	// a reply to a message we know joins its thread
	if m.InReplyTo != "" {
		s := u.store.GetState()
		parent := strings.TrimSuffix(m.InReplyTo, msgIDDomain)
		if se, ok := s.FindSentEmail(parent); ok {
			in.ThreadID = se.ThreadID
		} else if e, ok := s.FindEmail(parent); ok {
			in.ThreadID = e.ThreadID
		}
	}
	return u.Receive(in)
}

func (u *inboxUsecase) ExportEML(id string, w io.Writer) error {
	s := u.store.GetState()
	if e, ok := s.FindEmail(id); ok {
		return eml.Write(w, eml.Message{
			MessageID:   id + msgIDDomain,
			From:        eml.Address{Name: e.Sender.Name, Email: e.Sender.Email},
			To:          []eml.Address{{Name: s.Settings.OfficeName, Email: OfficeMailbox}},
			CC:          toAddresses(e.CC),
			Subject:     e.Subject,
			Date:        e.Timestamp,
			HTMLBody:    e.Body,
			Attachments: attachmentNames(e.Attachments),
		})
	}
	se, ok := s.FindSentEmail(id)
	if !ok {
		return domain.ErrEmailNotFound
	}
	m := eml.Message{
		MessageID:   id + msgIDDomain,
		From:        eml.Address{Name: s.Settings.OfficeName, Email: OfficeMailbox},
		To:          toAddresses(se.Recipients),
		CC:          toAddresses(se.CC),
		Subject:     se.Subject,
		Date:        se.Timestamp,
		HTMLBody:    se.Body,
		Attachments: attachmentNames(se.Attachments),
	}
	if se.InReplyTo != nil {
		m.InReplyTo = *se.InReplyTo + msgIDDomain
	}
	return eml.Write(w, m)
}
