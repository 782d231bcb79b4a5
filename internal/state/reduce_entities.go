package state

import (
	contact "eventdesk-backend/internal/contact/domain"
	task "eventdesk-backend/internal/task/domain"
	tmpl "eventdesk-backend/internal/template/domain"
)

func taskIndex(s *State, id string) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func addTask(s *State, a AddTask) *State {
	if a.Task.ID == "" || taskIndex(s, a.Task.ID) >= 0 {
		return s
	}
	next := s.clone()
	next.Tasks = prepend(s.Tasks, a.Task)
	return next
}

func updateTaskStatus(s *State, a UpdateTaskStatus) *State {
	i := taskIndex(s, a.TaskID)
	if i < 0 || s.Tasks[i].Status == a.Status {
		return s
	}
	next := s.clone()
	next.Tasks = replaceAt(s.Tasks, i, func(t *task.Task) { t.Status = a.Status })
	return next
}

func updateTask(s *State, a UpdateTask) *State {
	i := taskIndex(s, a.Task.ID)
	if i < 0 {
		return s
	}
	next := s.clone()
	next.Tasks = replaceAt(s.Tasks, i, func(t *task.Task) { *t = a.Task })
	return next
}

func deleteTask(s *State, a DeleteTask) *State {
	i := taskIndex(s, a.TaskID)
	if i < 0 {
		return s
	}
	next := s.clone()
	next.Tasks = removeAt(s.Tasks, i)
	return next
}

func listIndex(s *State, id string) int {
	for i := range s.MailingLists {
		if s.MailingLists[i].ID == id {
			return i
		}
	}
	return -1
}

func addContact(s *State, a AddContact) *State {
	if a.Contact.ID == "" {
		return s
	}
	next := s.clone()
	next.Contacts = append(append([]contact.Contact{}, s.Contacts...), a.Contact)
	if li := listIndex(s, a.ListID); li >= 0 {
		next.MailingLists = replaceAt(s.MailingLists, li, func(l *contact.MailingList) {
			l.ContactIDs = l.WithMembers([]string{a.Contact.ID})
		})
	}
	return next
}

func addMailingList(s *State, a AddMailingList) *State {
	if a.List.ID == "" || listIndex(s, a.List.ID) >= 0 {
		return s
	}
	list := a.List
	if list.ContactIDs == nil {
		list.ContactIDs = []string{}
	}
	next := s.clone()
	next.MailingLists = append(append([]contact.MailingList{}, s.MailingLists...), list)
	return next
}

// importContacts merges the batch into the address book, then unions the
// touched ids into the target list. The merge happens even when the list
// does not exist.
func importContacts(s *State, a ImportContacts) *State {
	if len(a.Contacts) == 0 {
		return s
	}
	merged, touched := contact.MergeImported(s.Contacts, a.Contacts, a.NewIDs)

	next := s.clone()
	next.Contacts = merged
	if li := listIndex(s, a.ListID); li >= 0 {
		next.MailingLists = replaceAt(s.MailingLists, li, func(l *contact.MailingList) {
			l.ContactIDs = l.WithMembers(touched)
		})
	}
	return next
}

func templateIndex(s *State, id string) int {
	for i := range s.Templates {
		if s.Templates[i].ID == id {
			return i
		}
	}
	return -1
}

func addTemplate(s *State, a AddTemplate) *State {
	if a.Template.ID == "" || templateIndex(s, a.Template.ID) >= 0 {
		return s
	}
	next := s.clone()
	next.Templates = prepend(s.Templates, a.Template)
	return next
}

func updateTemplate(s *State, a UpdateTemplate) *State {
	i := templateIndex(s, a.Template.ID)
	if i < 0 {
		return s
	}
	next := s.clone()
	next.Templates = replaceAt(s.Templates, i, func(t *tmpl.Template) { *t = a.Template })
	return next
}

func deleteTemplate(s *State, a DeleteTemplate) *State {
	i := templateIndex(s, a.TemplateID)
	if i < 0 {
		return s
	}
	next := s.clone()
	next.Templates = removeAt(s.Templates, i)
	return next
}

// replaceAt returns a copy of items with fn applied to element i
func replaceAt[T any](items []T, i int, fn func(*T)) []T {
	out := make([]T, len(items))
	copy(out, items)
	fn(&out[i])
	return out
}
