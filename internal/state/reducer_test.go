package state

import (
	"testing"
	"time"

	contact "eventdesk-backend/internal/contact/domain"
	mail "eventdesk-backend/internal/mail/domain"
	settings "eventdesk-backend/internal/settings/domain"
	task "eventdesk-backend/internal/task/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0    = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	alice = settings.Collaborator{ID: "u1", Name: "Alice", Initials: "A"}
)

func inbound(id string, status mail.EmailStatus) mail.Email {
	return mail.Email{
		ID:        id,
		ThreadID:  id,
		Sender:    mail.Sender{Name: "Guest " + id, Email: id + "@example.com"},
		Subject:   "Subject " + id,
		Body:      "<p>body " + id + "</p>",
		Timestamp: t0,
		Status:    status,
	}
}

func fixture() *State {
	s := New(alice)
	s.Emails = []mail.Email{
		inbound("e1", mail.StatusNeedsReply),
		inbound("e2", mail.StatusInfoReceived),
	}
	return s
}

func TestReduceUnknownActionIsNoop(t *testing.T) {
	s := fixture()
	assert.Same(t, s, Reduce(s, Unknown{Tag: "SOMETHING_NEW"}))
}

func TestReduceMissingTargetsAreNoops(t *testing.T) {
	s := fixture()
	for _, a := range []Action{
		UpdateEmailStatus{EmailID: "nope", Status: mail.StatusArchived},
		SaveDraft{EmailID: "nope"},
		DeleteDraft{EmailID: "nope"},
		UpdateTaskStatus{TaskID: "nope", Status: task.TaskStatusDone},
		DeleteTask{TaskID: "nope"},
		DeleteTemplate{TemplateID: "nope"},
		RemoveNotification{ID: 42},
		UpdateAppSettings{},
	} {
		assert.Same(t, s, Reduce(s, a), "%s should change nothing", a.Type())
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := fixture()
	before := s.Emails[0]

	next := Reduce(s, UpdateEmailStatus{EmailID: "e1", Status: mail.StatusArchived, User: "Alice", At: t0})

	assert.Equal(t, before, s.Emails[0])
	assert.Equal(t, mail.StatusArchived, next.Emails[0].Status)
	assert.Equal(t, "Alice", next.Emails[0].LastModifiedBy)
	require.NotNil(t, next.Emails[0].UpdatedAt)
	assert.Equal(t, t0, *next.Emails[0].UpdatedAt)
}

func TestReceiveEmailPrependsAndIgnoresDuplicates(t *testing.T) {
	s := fixture()
	next := Reduce(s, ReceiveEmail{Email: inbound("e3", mail.StatusNeedsReply)})
	require.Len(t, next.Emails, 3)
	assert.Equal(t, "e3", next.Emails[0].ID)

	assert.Same(t, next, Reduce(next, ReceiveEmail{Email: inbound("e3", mail.StatusNeedsReply)}))
}

func TestSaveDraftEntersWorkflow(t *testing.T) {
	s := fixture()
	draft := mail.Draft{Subject: "Re: hi", Body: "<p>hello</p>"}

	next := Reduce(s, SaveDraft{EmailID: "e1", Draft: draft})
	require.NotNil(t, next.Emails[0].Draft)
	assert.Equal(t, mail.StatusDrafting, next.Emails[0].Status)

	// saving again while in review keeps the review status
	next.Emails[0].Status = mail.StatusReviewing
	again := Reduce(next, SaveDraft{EmailID: "e1", Draft: draft})
	assert.Equal(t, mail.StatusReviewing, again.Emails[0].Status)
}

func TestDeleteDraftReturnsToNeedsReply(t *testing.T) {
	s := Reduce(fixture(), SaveDraft{EmailID: "e1", Draft: mail.Draft{Body: "x"}})
	next := Reduce(s, DeleteDraft{EmailID: "e1"})
	assert.Nil(t, next.Emails[0].Draft)
	assert.Equal(t, mail.StatusNeedsReply, next.Emails[0].Status)
}

func TestStatusOutsideWorkflowDropsDraft(t *testing.T) {
	s := Reduce(fixture(), SaveDraft{EmailID: "e1", Draft: mail.Draft{Body: "x"}})
	next := Reduce(s, UpdateEmailStatus{EmailID: "e1", Status: mail.StatusArchived})
	assert.Nil(t, next.Emails[0].Draft)

	kept := Reduce(s, UpdateEmailStatus{EmailID: "e1", Status: mail.StatusReviewing})
	assert.NotNil(t, kept.Emails[0].Draft)
}

func TestBulkUpdateUsesSelectionAndClearsIt(t *testing.T) {
	s := fixture()
	s.BulkSelectedIDs = []string{"e1", "e2", "missing"}

	next := Reduce(s, BulkUpdateEmailStatus{Status: mail.StatusArchived})
	assert.Equal(t, mail.StatusArchived, next.Emails[0].Status)
	assert.Equal(t, mail.StatusArchived, next.Emails[1].Status)
	assert.Empty(t, next.BulkSelectedIDs)
	assert.NotNil(t, next.BulkSelectedIDs)
}

func TestBulkUpdateExplicitIDs(t *testing.T) {
	s := fixture()
	next := Reduce(s, BulkUpdateEmailStatus{EmailIDs: []string{"e2"}, Status: mail.StatusReplied})
	assert.Equal(t, mail.StatusNeedsReply, next.Emails[0].Status)
	assert.Equal(t, mail.StatusReplied, next.Emails[1].Status)
}

func TestSendReplyMarksOriginalReplied(t *testing.T) {
	s := Reduce(fixture(), SaveDraft{EmailID: "e1", Draft: mail.Draft{Body: "x"}})
	e1 := s.Emails[0]
	out := mail.OutgoingFromDraft(&e1, *e1.Draft)

	next := Reduce(s, SendEmail{Outgoing: out, ID: "sent-1", User: "Alice", At: t0})

	require.Len(t, next.SentEmails, 1)
	sent := next.SentEmails[0]
	assert.Equal(t, "sent-1", sent.ID)
	assert.Equal(t, "e1", sent.ThreadID)
	assert.Equal(t, "Alice", sent.SentBy)
	assert.Equal(t, mail.StatusReplied, next.Emails[0].Status)
	assert.Nil(t, next.Emails[0].Draft)
	require.NotNil(t, next.SelectedItemID)
	assert.Equal(t, "sent-1", *next.SelectedItemID)
	assert.Equal(t, SubViewSent, next.InboxSubView)
}

func TestSendWithoutIDIsNoop(t *testing.T) {
	s := fixture()
	assert.Same(t, s, Reduce(s, SendEmail{Outgoing: mail.Outgoing{Subject: "x"}}))
}

func TestBulkSendLeavesInboxAlone(t *testing.T) {
	s := fixture()
	reply := "e1"
	next := Reduce(s, SendPersonalizedBulkEmail{
		Messages: []mail.Outgoing{
			{Subject: "A", InReplyTo: &reply},
			{Subject: "B"},
		},
		IDs: []string{"sent-a", "sent-b"},
	})

	require.Len(t, next.SentEmails, 2)
	assert.Equal(t, "sent-a", next.SentEmails[0].ID)
	assert.Equal(t, "sent-b", next.SentEmails[1].ID)
	assert.Nil(t, next.SentEmails[0].InReplyTo)
	assert.Equal(t, s.Emails, next.Emails)
}

func TestAnalysisOverwritesTriage(t *testing.T) {
	s := fixture()
	next := Reduce(s, UpdateEmailAnalysis{EmailID: "e1", Analysis: mail.Analysis{
		Status: mail.StatusInfoReceived,
		Tags:   []string{"venue"},
	}})
	e := next.Emails[0]
	assert.Equal(t, mail.StatusInfoReceived, e.Status)
	assert.Equal(t, []string{"venue"}, e.AITags)
	assert.NotNil(t, e.SuggestedTasks)
}

func TestNotificationsGetIncreasingIDs(t *testing.T) {
	s := fixture()
	s = Reduce(s, AddNotification{Message: "one", Kind: NotifySuccess})
	s = Reduce(s, AddNotification{Message: "two", Kind: NotifyError})
	require.Len(t, s.Notifications, 2)
	assert.Equal(t, 1, s.Notifications[0].ID)
	assert.Equal(t, 2, s.Notifications[1].ID)

	s = Reduce(s, RemoveNotification{ID: 1})
	require.Len(t, s.Notifications, 1)
	assert.Equal(t, "two", s.Notifications[0].Message)

	// ids are never reused
	s = Reduce(s, AddNotification{Message: "three", Kind: NotifyInfo})
	assert.Equal(t, 3, s.Notifications[1].ID)
}

func TestNotificationsAreCapped(t *testing.T) {
	s := fixture()
	for i := 0; i < MaxNotifications+5; i++ {
		s = Reduce(s, AddNotification{Message: "toast", Kind: NotifyInfo})
	}
	require.Len(t, s.Notifications, MaxNotifications)
	assert.Equal(t, 6, s.Notifications[0].ID)
	assert.Equal(t, MaxNotifications+5, s.Notifications[MaxNotifications-1].ID)
}

func TestAISearchLifecycle(t *testing.T) {
	s := fixture()
	s.Filter.Status = string(mail.StatusNeedsReply)

	s = Reduce(s, AISearchStart{Query: "venue"})
	assert.True(t, s.AISearch.InFlight)
	assert.False(t, s.AISearch.Active())

	s = Reduce(s, AISearchSuccess{IDs: []string{"e2", "e1"}})
	assert.False(t, s.AISearch.InFlight)
	assert.True(t, s.AISearch.Active())
	assert.Equal(t, "venue", s.AISearch.Query)
	assert.Equal(t, FilterAll, s.Filter.Status)
	require.NotNil(t, s.SelectedItemID)
	assert.Equal(t, "e2", *s.SelectedItemID)

	s = Reduce(s, AISearchClear{})
	assert.False(t, s.AISearch.Active())
	assert.Same(t, s, Reduce(s, AISearchClear{}))
}

func TestAISearchWithNoHitsIsStillActive(t *testing.T) {
	s := Reduce(fixture(), AISearchSuccess{IDs: nil})
	assert.True(t, s.AISearch.Active())
	assert.Nil(t, s.SelectedItemID)
}

func TestTaskActions(t *testing.T) {
	s := fixture()
	s = Reduce(s, AddTask{Task: task.Task{ID: "t1", Title: "Book venue", Status: task.TaskStatusTodo}})
	assert.Same(t, s, Reduce(s, AddTask{Task: task.Task{ID: "t1", Title: "dup"}}))

	s = Reduce(s, UpdateTaskStatus{TaskID: "t1", Status: task.TaskStatusDone})
	assert.Equal(t, task.TaskStatusDone, s.Tasks[0].Status)
	assert.Same(t, s, Reduce(s, UpdateTaskStatus{TaskID: "t1", Status: task.TaskStatusDone}))

	s = Reduce(s, DeleteTask{TaskID: "t1"})
	assert.Empty(t, s.Tasks)
}

func TestImportContactsMergesAndJoinsList(t *testing.T) {
	s := fixture()
	s.Contacts = []contact.Contact{{ID: "c1", Name: "Old Name", Email: "Taro@Example.com"}}
	s.MailingLists = []contact.MailingList{{ID: "l1", Name: "Speakers", ContactIDs: []string{}}}

	next := Reduce(s, ImportContacts{
		ListID: "l1",
		Contacts: []contact.ImportedContact{
			{Name: "Taro Yamada", Email: "taro@example.com"},
			{Name: "Hanako", Email: "hanako@example.com"},
		},
		NewIDs: []string{"c-new-1", "c-new-2"},
	})

	require.Len(t, next.Contacts, 2)
	assert.Equal(t, "c1", next.Contacts[0].ID)
	assert.Equal(t, "Taro Yamada", next.Contacts[0].Name)
	assert.ElementsMatch(t, []string{"c1", next.Contacts[1].ID}, next.MailingLists[0].ContactIDs)
	assert.Equal(t, "Old Name", s.Contacts[0].Name)
}

func TestUpdateAppSettingsAppliesPatch(t *testing.T) {
	s := fixture()
	name := "Tech Summit"
	next := Reduce(s, UpdateAppSettings{Patch: settings.SettingsPatch{EventName: &name}})
	assert.Equal(t, "Tech Summit", next.Settings.EventName)
	assert.Equal(t, s.Settings.Signature, next.Settings.Signature)
}

func TestSetCurrentUserAddsCollaborator(t *testing.T) {
	bob := settings.Collaborator{ID: "u2", Name: "Bob"}
	s := Reduce(fixture(), SetCurrentUser{User: bob})
	assert.Equal(t, bob, s.CurrentUser)
	assert.Len(t, s.Collaborators, 2)

	s = Reduce(s, SetCurrentUser{User: alice})
	assert.Len(t, s.Collaborators, 2)
}
