package state

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	contact "eventdesk-backend/internal/contact/domain"
	mail "eventdesk-backend/internal/mail/domain"
	settings "eventdesk-backend/internal/settings/domain"
	tmpl "eventdesk-backend/internal/template/domain"
	"eventdesk-backend/pkg/idgen"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// DefaultUser acts on the workspace when no collaborator is configured
var DefaultUser = settings.Collaborator{ID: "collab-1", Name: "事務局", Initials: "JM"}

// Workspace is the TOML file that seeds the in-memory state at startup
type Workspace struct {
	CurrentUser   *settings.Collaborator  `toml:"current_user"`
	Collaborators []settings.Collaborator `toml:"collaborators"`
	Settings      *settings.AppSettings   `toml:"settings"`
	Contacts      []contact.Contact       `toml:"contacts"`
	MailingLists  []contact.MailingList   `toml:"mailing_lists"`
	Templates     []tmpl.Template         `toml:"templates"`
	Emails        []SeedEmail             `toml:"emails"`
}

// SeedEmail is an inbound email as written in the workspace file
type SeedEmail struct {
	ID          string            `toml:"id"`
	DisplayID   string            `toml:"display_id"`
	ThreadID    string            `toml:"thread_id"`
	Sender      mail.Sender       `toml:"sender"`
	CC          []mail.Sender     `toml:"cc"`
	Subject     string            `toml:"subject"`
	Body        string            `toml:"body"`
	Timestamp   time.Time         `toml:"timestamp"`
	Status      mail.EmailStatus  `toml:"status"`
	AITags      []string          `toml:"ai_tags"`
	Attachments []mail.Attachment `toml:"attachments"`
}

// LoadWorkspace reads path and builds the initial state. A missing file
// yields an empty workspace with default settings.
func LoadWorkspace(path string, now time.Time, newID idgen.Generator) (*State, error) {
	var ws Workspace
	md, err := toml.DecodeFile(path, &ws)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logrus.Infof("[Workspace] %s not found, starting empty", path)
			return New(DefaultUser), nil
		}
		return nil, fmt.Errorf("failed to read workspace %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logrus.Warnf("[Workspace] Ignoring unknown keys: %v", undecoded)
	}
	return ws.Build(now, newID)
}

// Build converts the file contents into a State, filling missing ids and
// rejecting unknown statuses
func (ws Workspace) Build(now time.Time, newID idgen.Generator) (*State, error) {
	user := DefaultUser
	if ws.CurrentUser != nil {
		user = *ws.CurrentUser
	}
	s := New(user)

	for _, c := range ws.Collaborators {
		if c.ID != user.ID {
			s.Collaborators = append(s.Collaborators, c)
		}
	}
	if ws.Settings != nil {
		s.Settings = *ws.Settings
		if s.Settings.KnowledgeBase == nil {
			s.Settings.KnowledgeBase = []settings.KnowledgeItem{}
		}
	}

	for _, c := range ws.Contacts {
		if c.ID == "" {
			c.ID = newID("contact")
		}
		s.Contacts = append(s.Contacts, c)
	}
	for _, l := range ws.MailingLists {
		if l.ID == "" {
			l.ID = newID("list")
		}
		if l.ContactIDs == nil {
			l.ContactIDs = []string{}
		}
		s.MailingLists = append(s.MailingLists, l)
	}
	for _, t := range ws.Templates {
		if t.ID == "" {
			t.ID = newID("template")
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt, t.UpdatedAt = now, now
		}
		if t.CreatedBy == "" {
			t.CreatedBy, t.LastModifiedBy = user.Name, user.Name
		}
		s.Templates = append(s.Templates, t)
	}

	for _, se := range ws.Emails {
		id := se.ID
		if id == "" {
			id = newID("email")
		}
		ts := se.Timestamp
		in := mail.InboundInput{
			DisplayID:   se.DisplayID,
			Sender:      se.Sender,
			CC:          se.CC,
			Subject:     se.Subject,
			Body:        se.Body,
			ThreadID:    se.ThreadID,
			Attachments: se.Attachments,
		}
		if !ts.IsZero() {
			in.Timestamp = &ts
		}
		e := mail.NewInboundEmail(id, in, now)
		if se.Status != "" {
			if !se.Status.Valid() {
				return nil, fmt.Errorf("email %s: %w: %q", id, mail.ErrInvalidStatus, se.Status)
			}
			e.Status = se.Status
		}
		e.AITags = se.AITags
		s.Emails = append(s.Emails, e)
	}

	return s, nil
}
