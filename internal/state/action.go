package state

import (
	"time"

	contact "eventdesk-backend/internal/contact/domain"
	mail "eventdesk-backend/internal/mail/domain"
	settings "eventdesk-backend/internal/settings/domain"
	task "eventdesk-backend/internal/task/domain"
	tmpl "eventdesk-backend/internal/template/domain"
	"eventdesk-backend/pkg/idgen"
)

// ActionType is the wire tag of an action
type ActionType string

const (
	TypeSetView                   ActionType = "SET_VIEW"
	TypeSetInboxSubView           ActionType = "SET_INBOX_SUB_VIEW"
	TypeSetSelectedItem           ActionType = "SET_SELECTED_ITEM"
	TypeSetBulkSelectedIDs        ActionType = "SET_BULK_SELECTED_IDS"
	TypeSetCurrentUser            ActionType = "SET_CURRENT_USER"
	TypeSetFilterStatus           ActionType = "SET_FILTER_STATUS"
	TypeSetFilterTag              ActionType = "SET_FILTER_TAG"
	TypeSetSearchTerm             ActionType = "SET_SEARCH_TERM"
	TypeReceiveEmail              ActionType = "RECEIVE_EMAIL"
	TypeUpdateEmailStatus         ActionType = "UPDATE_EMAIL_STATUS"
	TypeBulkUpdateEmailStatus     ActionType = "BULK_UPDATE_EMAIL_STATUS"
	TypeUpdateEmailAnalysis       ActionType = "UPDATE_EMAIL_ANALYSIS"
	TypeSaveDraft                 ActionType = "SAVE_DRAFT"
	TypeDeleteDraft               ActionType = "DELETE_DRAFT"
	TypeSendEmail                 ActionType = "SEND_EMAIL"
	TypeSendPersonalizedBulkEmail ActionType = "SEND_PERSONALIZED_BULK_EMAIL"
	TypeAddTask                   ActionType = "ADD_TASK"
	TypeUpdateTaskStatus          ActionType = "UPDATE_TASK_STATUS"
	TypeUpdateTask                ActionType = "UPDATE_TASK"
	TypeDeleteTask                ActionType = "DELETE_TASK"
	TypeAddContact                ActionType = "ADD_CONTACT"
	TypeAddMailingList            ActionType = "ADD_MAILING_LIST"
	TypeImportContacts            ActionType = "IMPORT_CONTACTS"
	TypeAddTemplate               ActionType = "ADD_TEMPLATE"
	TypeUpdateTemplate            ActionType = "UPDATE_TEMPLATE"
	TypeDeleteTemplate            ActionType = "DELETE_TEMPLATE"
	TypeAddNotification           ActionType = "ADD_NOTIFICATION"
	TypeRemoveNotification        ActionType = "REMOVE_NOTIFICATION"
	TypeAISearchStart             ActionType = "AI_SEARCH_START"
	TypeAISearchSuccess           ActionType = "AI_SEARCH_SUCCESS"
	TypeAISearchClear             ActionType = "AI_SEARCH_CLEAR"
	TypeUpdateAppSettings         ActionType = "UPDATE_APP_SETTINGS"
)

// Action is a request to change the workspace. The set of actions is closed:
// every implementation lives in this package.
type Action interface {
	Type() ActionType
}

// stampEnv is what the Store knows at dispatch time
type stampEnv struct {
	now   time.Time
	newID idgen.Generator
	user  string
}

// stamper is implemented by actions that need a time, an id or the acting
// user. Fields the caller already set are kept.
type stamper interface {
	stamp(env stampEnv) Action
}

func orUser(user string, env stampEnv) string {
	if user == "" {
		return env.user
	}
	return user
}

// --- UI selection ---

type SetView struct {
	View View `json:"view"`
}

type SetInboxSubView struct {
	SubView InboxSubView `json:"subView"`
}

// SetSelectedItem selects an inbound or sent item; nil clears the selection
type SetSelectedItem struct {
	ID *string `json:"id"`
}

type SetBulkSelectedIDs struct {
	IDs []string `json:"ids"`
}

type SetCurrentUser struct {
	User settings.Collaborator `json:"user"`
}

type SetFilterStatus struct {
	Status string `json:"status"`
}

type SetFilterTag struct {
	Tag string `json:"tag"`
}

type SetSearchTerm struct {
	Term string `json:"term"`
}

// --- Inbound email ---

// ReceiveEmail adds an email to the inbox. An email whose id already exists
// is ignored.
type ReceiveEmail struct {
	Email mail.Email `json:"email"`
}

type UpdateEmailStatus struct {
	EmailID string           `json:"emailId"`
	Status  mail.EmailStatus `json:"status"`
	User    string           `json:"user,omitempty"`
	At      time.Time        `json:"-"`
}

// BulkUpdateEmailStatus applies Status to EmailIDs, or to the current bulk
// selection when EmailIDs is nil, then clears the selection
type BulkUpdateEmailStatus struct {
	EmailIDs []string         `json:"emailIds,omitempty"`
	Status   mail.EmailStatus `json:"status"`
	User     string           `json:"user,omitempty"`
	At       time.Time        `json:"-"`
}

// UpdateEmailAnalysis stores an AI analysis result. It overwrites whatever
// the email holds at the time it is applied.
type UpdateEmailAnalysis struct {
	EmailID  string        `json:"emailId"`
	Analysis mail.Analysis `json:"analysis"`
	User     string        `json:"user,omitempty"`
	At       time.Time     `json:"-"`
}

type SaveDraft struct {
	EmailID string     `json:"emailId"`
	Draft   mail.Draft `json:"draft"`
	User    string     `json:"user,omitempty"`
	At      time.Time  `json:"-"`
}

// DeleteDraft drops the draft and resets the email to NeedsReply
type DeleteDraft struct {
	EmailID string    `json:"emailId"`
	User    string    `json:"user,omitempty"`
	At      time.Time `json:"-"`
}

// --- Sending ---

type SendEmail struct {
	Outgoing mail.Outgoing `json:"draft"`
	User     string        `json:"user,omitempty"`
	ID       string        `json:"id,omitempty"`
	At       time.Time     `json:"-"`
}

// SendPersonalizedBulkEmail records one sent email per message. IDs[i] is
// the id of Messages[i].
type SendPersonalizedBulkEmail struct {
	Messages []mail.Outgoing `json:"emails"`
	User     string          `json:"user,omitempty"`
	IDs      []string        `json:"ids,omitempty"`
	At       time.Time       `json:"-"`
}

// --- Tasks ---

// AddTask prepends a task. A task whose id already exists is ignored.
type AddTask struct {
	Task task.Task `json:"task"`
}

type UpdateTaskStatus struct {
	TaskID string          `json:"taskId"`
	Status task.TaskStatus `json:"status"`
}

type UpdateTask struct {
	Task task.Task `json:"task"`
}

type DeleteTask struct {
	TaskID string `json:"taskId"`
}

// --- Contacts ---

// AddContact appends a contact and adds it to list ListID
type AddContact struct {
	ListID  string          `json:"listId"`
	Contact contact.Contact `json:"contact"`
}

type AddMailingList struct {
	List contact.MailingList `json:"list"`
}

// ImportContacts merges Contacts into the address book and adds every
// touched contact to list ListID. NewIDs[i] is used if Contacts[i] turns
// out to be new.
type ImportContacts struct {
	ListID   string                    `json:"listId"`
	Contacts []contact.ImportedContact `json:"contacts"`
	NewIDs   []string                  `json:"newIds,omitempty"`
}

// --- Templates ---

type AddTemplate struct {
	Template tmpl.Template `json:"template"`
}

type UpdateTemplate struct {
	Template tmpl.Template `json:"template"`
}

type DeleteTemplate struct {
	TemplateID string `json:"templateId"`
}

// --- Notifications ---

type AddNotification struct {
	Message string           `json:"message"`
	Kind    NotificationKind `json:"type"`
}

type RemoveNotification struct {
	ID int `json:"id"`
}

// --- AI search ---

type AISearchStart struct {
	Query string `json:"query"`
}

// AISearchSuccess stores result ids in relevance order
type AISearchSuccess struct {
	IDs []string `json:"ids"`
}

type AISearchClear struct{}

// --- Settings ---

type UpdateAppSettings struct {
	Patch settings.SettingsPatch `json:"settings"`
}

// Unknown carries an action tag this build does not know. Reduce passes it
// through unchanged.
type Unknown struct {
	Tag ActionType `json:"-"`
}

func (SetView) Type() ActionType                   { return TypeSetView }
func (SetInboxSubView) Type() ActionType           { return TypeSetInboxSubView }
func (SetSelectedItem) Type() ActionType           { return TypeSetSelectedItem }
func (SetBulkSelectedIDs) Type() ActionType        { return TypeSetBulkSelectedIDs }
func (SetCurrentUser) Type() ActionType            { return TypeSetCurrentUser }
func (SetFilterStatus) Type() ActionType           { return TypeSetFilterStatus }
func (SetFilterTag) Type() ActionType              { return TypeSetFilterTag }
func (SetSearchTerm) Type() ActionType             { return TypeSetSearchTerm }
func (ReceiveEmail) Type() ActionType              { return TypeReceiveEmail }
func (UpdateEmailStatus) Type() ActionType         { return TypeUpdateEmailStatus }
func (BulkUpdateEmailStatus) Type() ActionType     { return TypeBulkUpdateEmailStatus }
func (UpdateEmailAnalysis) Type() ActionType       { return TypeUpdateEmailAnalysis }
func (SaveDraft) Type() ActionType                 { return TypeSaveDraft }
func (DeleteDraft) Type() ActionType               { return TypeDeleteDraft }
func (SendEmail) Type() ActionType                 { return TypeSendEmail }
func (SendPersonalizedBulkEmail) Type() ActionType { return TypeSendPersonalizedBulkEmail }
func (AddTask) Type() ActionType                   { return TypeAddTask }
func (UpdateTaskStatus) Type() ActionType          { return TypeUpdateTaskStatus }
func (UpdateTask) Type() ActionType                { return TypeUpdateTask }
func (DeleteTask) Type() ActionType                { return TypeDeleteTask }
func (AddContact) Type() ActionType                { return TypeAddContact }
func (AddMailingList) Type() ActionType            { return TypeAddMailingList }
func (ImportContacts) Type() ActionType            { return TypeImportContacts }
func (AddTemplate) Type() ActionType               { return TypeAddTemplate }
func (UpdateTemplate) Type() ActionType            { return TypeUpdateTemplate }
func (DeleteTemplate) Type() ActionType            { return TypeDeleteTemplate }
func (AddNotification) Type() ActionType           { return TypeAddNotification }
func (RemoveNotification) Type() ActionType        { return TypeRemoveNotification }
func (AISearchStart) Type() ActionType             { return TypeAISearchStart }
func (AISearchSuccess) Type() ActionType           { return TypeAISearchSuccess }
func (AISearchClear) Type() ActionType             { return TypeAISearchClear }
func (UpdateAppSettings) Type() ActionType         { return TypeUpdateAppSettings }
func (u Unknown) Type() ActionType                 { return u.Tag }

// stamping

func (a ReceiveEmail) stamp(env stampEnv) Action {
	if a.Email.ID == "" {
		a.Email.ID = env.newID("email")
	}
	if a.Email.ThreadID == "" {
		a.Email.ThreadID = a.Email.ID
	}
	if a.Email.Timestamp.IsZero() {
		a.Email.Timestamp = env.now
	}
	if a.Email.Status == "" {
		a.Email.Status = mail.StatusNeedsReply
	}
	return a
}

func (a UpdateEmailStatus) stamp(env stampEnv) Action {
	a.User, a.At = orUser(a.User, env), env.now
	return a
}

func (a BulkUpdateEmailStatus) stamp(env stampEnv) Action {
	a.User, a.At = orUser(a.User, env), env.now
	return a
}

func (a UpdateEmailAnalysis) stamp(env stampEnv) Action {
	a.User, a.At = orUser(a.User, env), env.now
	return a
}

func (a SaveDraft) stamp(env stampEnv) Action {
	a.User, a.At = orUser(a.User, env), env.now
	return a
}

func (a DeleteDraft) stamp(env stampEnv) Action {
	a.User, a.At = orUser(a.User, env), env.now
	return a
}

func (a SendEmail) stamp(env stampEnv) Action {
	a.User, a.At = orUser(a.User, env), env.now
	if a.ID == "" {
		a.ID = env.newID("sent")
	}
	return a
}

func (a SendPersonalizedBulkEmail) stamp(env stampEnv) Action {
	a.User, a.At = orUser(a.User, env), env.now
	ids := make([]string, len(a.Messages))
	copy(ids, a.IDs)
	for i := range ids {
		if ids[i] == "" {
			ids[i] = env.newID("sent")
		}
	}
	a.IDs = ids
	return a
}

func (a AddTask) stamp(env stampEnv) Action {
	if a.Task.ID == "" {
		a.Task.ID = env.newID("task")
	}
	return a
}

func (a AddContact) stamp(env stampEnv) Action {
	if a.Contact.ID == "" {
		a.Contact.ID = env.newID("contact")
	}
	return a
}

func (a AddMailingList) stamp(env stampEnv) Action {
	if a.List.ID == "" {
		a.List.ID = env.newID("list")
	}
	return a
}

func (a ImportContacts) stamp(env stampEnv) Action {
	ids := make([]string, len(a.Contacts))
	copy(ids, a.NewIDs)
	for i := range ids {
		if ids[i] == "" {
			ids[i] = env.newID("contact")
		}
	}
	a.NewIDs = ids
	return a
}

func (a AddTemplate) stamp(env stampEnv) Action {
	if a.Template.ID == "" {
		a.Template.ID = env.newID("template")
	}
	if a.Template.CreatedAt.IsZero() {
		a.Template.CreatedAt = env.now
		a.Template.CreatedBy = orUser(a.Template.CreatedBy, env)
	}
	if a.Template.UpdatedAt.IsZero() {
		a.Template.UpdatedAt = env.now
		a.Template.LastModifiedBy = orUser(a.Template.LastModifiedBy, env)
	}
	return a
}
