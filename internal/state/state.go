// Package state owns the workspace: a single State value, the closed set of
// actions that change it, the pure Reduce function, and the Store that
// serializes dispatches and notifies subscribers.
package state

import (
	contact "eventdesk-backend/internal/contact/domain"
	mail "eventdesk-backend/internal/mail/domain"
	settings "eventdesk-backend/internal/settings/domain"
	task "eventdesk-backend/internal/task/domain"
	tmpl "eventdesk-backend/internal/template/domain"
)

// View is the top-level screen
type View string

const (
	ViewDashboard View = "dashboard"
	ViewInbox     View = "inbox"
	ViewTasks     View = "tasks"
	ViewContacts  View = "contacts"
	ViewTemplates View = "templates"
	ViewSettings  View = "settings"
)

// InboxSubView selects the list shown in the inbox view
type InboxSubView string

const (
	SubViewInbox InboxSubView = "inbox"
	SubViewSent  InboxSubView = "sent"
	SubViewNew   InboxSubView = "new"
)

// FilterAll disables the status or tag filter
const FilterAll = "all"

// Filter holds the local inbox filters
type Filter struct {
	Status     string `json:"status"` // FilterAll or an EmailStatus
	Tag        string `json:"tag"`    // FilterAll or an AI tag
	SearchTerm string `json:"searchTerm"`
}

// AISearch tracks the AI-backed search. Results is nil while no search is
// active; an active search that matched nothing holds an empty slice.
type AISearch struct {
	InFlight bool     `json:"inFlight"`
	Query    string   `json:"query,omitempty"`
	Results  []string `json:"results"`
}

// Active reports whether an AI search currently restricts the inbox
func (a AISearch) Active() bool {
	return a.Results != nil
}

// MaxNotifications is how many toasts State keeps; older ones are dropped
const MaxNotifications = 50

// NotificationKind is the severity of a toast notification
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// Notification is a transient message for the user
type Notification struct {
	ID      int              `json:"id"`
	Message string           `json:"message"`
	Kind    NotificationKind `json:"type"`
}

// State is the whole workspace. It is treated as immutable: Reduce returns
// a new State sharing every collection it did not change.
type State struct {
	View            View                    `json:"view"`
	InboxSubView    InboxSubView            `json:"inboxSubView"`
	SelectedItemID  *string                 `json:"selectedItemId"`
	BulkSelectedIDs []string                `json:"bulkSelectedIds"`
	CurrentUser     settings.Collaborator   `json:"currentUser"`
	Collaborators   []settings.Collaborator `json:"collaborators"`

	Emails       []mail.Email          `json:"emails"`
	SentEmails   []mail.SentEmail      `json:"sentEmails"`
	Tasks        []task.Task           `json:"tasks"`
	Contacts     []contact.Contact     `json:"contacts"`
	MailingLists []contact.MailingList `json:"mailingLists"`
	Templates    []tmpl.Template       `json:"templates"`

	Notifications      []Notification `json:"notifications"`
	NextNotificationID int            `json:"-"`

	Filter   Filter               `json:"filter"`
	AISearch AISearch             `json:"aiSearch"`
	Settings settings.AppSettings `json:"appSettings"`
}

// New returns an empty workspace with default settings
func New(user settings.Collaborator) *State {
	return &State{
		View:               ViewInbox,
		InboxSubView:       SubViewInbox,
		BulkSelectedIDs:    []string{},
		CurrentUser:        user,
		Collaborators:      []settings.Collaborator{user},
		Emails:             []mail.Email{},
		SentEmails:         []mail.SentEmail{},
		Tasks:              []task.Task{},
		Contacts:           []contact.Contact{},
		MailingLists:       []contact.MailingList{},
		Templates:          []tmpl.Template{},
		Notifications:      []Notification{},
		NextNotificationID: 1,
		Filter:             Filter{Status: FilterAll, Tag: FilterAll},
		Settings:           settings.DefaultSettings(),
	}
}

// clone returns a shallow copy; callers replace the collections they change
func (s *State) clone() *State {
	next := *s
	return &next
}

// EmailIndex returns the position of email id, or -1
func (s *State) EmailIndex(id string) int {
	for i := range s.Emails {
		if s.Emails[i].ID == id {
			return i
		}
	}
	return -1
}

// FindEmail returns a copy of inbound email id
func (s *State) FindEmail(id string) (mail.Email, bool) {
	if i := s.EmailIndex(id); i >= 0 {
		return s.Emails[i], true
	}
	return mail.Email{}, false
}

// FindSentEmail returns sent email id
func (s *State) FindSentEmail(id string) (mail.SentEmail, bool) {
	for _, se := range s.SentEmails {
		if se.ID == id {
			return se, true
		}
	}
	return mail.SentEmail{}, false
}

// FindTask returns task id
func (s *State) FindTask(id string) (task.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// FindTemplate returns template id
func (s *State) FindTemplate(id string) (tmpl.Template, bool) {
	for _, t := range s.Templates {
		if t.ID == id {
			return t, true
		}
	}
	return tmpl.Template{}, false
}

// FindList returns mailing list id
func (s *State) FindList(id string) (contact.MailingList, bool) {
	for _, l := range s.MailingLists {
		if l.ID == id {
			return l, true
		}
	}
	return contact.MailingList{}, false
}

// FindContactByEmail matches address case-insensitively
func (s *State) FindContactByEmail(address string) (contact.Contact, bool) {
	key := contact.EmailKey(address)
	for _, c := range s.Contacts {
		if contact.EmailKey(c.Email) == key {
			return c, true
		}
	}
	return contact.Contact{}, false
}

// ListContacts resolves the members of list id in list order
func (s *State) ListContacts(id string) []contact.Contact {
	l, ok := s.FindList(id)
	if !ok {
		return nil
	}
	byID := make(map[string]contact.Contact, len(s.Contacts))
	for _, c := range s.Contacts {
		byID[c.ID] = c
	}
	out := make([]contact.Contact, 0, len(l.ContactIDs))
	for _, cid := range l.ContactIDs {
		if c, ok := byID[cid]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Tags returns every distinct AI tag in the inbox, in first-seen order
func (s *State) Tags() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range s.Emails {
		for _, t := range e.AITags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}
