package usecase

import (
	"sort"
	"strings"
	"time"

	"eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/htmltext"
)

// InboxQuery is every predicate the inbox list is filtered by
type InboxQuery struct {
	SearchTerm string
	Status     string // state.FilterAll or an EmailStatus
	Tag        string // state.FilterAll or an AI tag
	// AIResults restricts the list to these ids, in this order, when
	// AISearchActive is set
	AIResults      []string
	AISearchActive bool
}

// QueryFromState reads the active filters of s
func QueryFromState(s *state.State) InboxQuery {
	return InboxQuery{
		SearchTerm:     s.Filter.SearchTerm,
		Status:         s.Filter.Status,
		Tag:            s.Filter.Tag,
		AIResults:      s.AISearch.Results,
		AISearchActive: s.AISearch.Active(),
	}
}

// FilterInbox derives the visible inbox list.
//
// Without an AI search, emails are grouped by thread and a thread is kept
// whole when any member passes every local predicate. Threads are ordered
// newest first by their latest member; members oldest first.
//
// With an AI search, the result is the AI-ranked ids that exist and pass the
// local predicates, in ranking order.
func FilterInbox(emails []domain.Email, q InboxQuery) []domain.Email {
	term := strings.ToLower(q.SearchTerm)
	match := func(e *domain.Email) bool {
		return statusMatches(e, q.Status) && tagMatches(e, q.Tag) && keywordMatches(e, term)
	}

	if q.AISearchActive {
		byID := make(map[string]int, len(emails))
		for i := range emails {
			byID[emails[i].ID] = i
		}
		out := make([]domain.Email, 0, len(q.AIResults))
		seen := make(map[string]bool, len(q.AIResults))
		for _, id := range q.AIResults {
			i, ok := byID[id]
			if !ok || seen[id] || !match(&emails[i]) {
				continue
			}
			seen[id] = true
			out = append(out, emails[i])
		}
		return out
	}

	keep := make(map[string]bool)
	for i := range emails {
		if match(&emails[i]) {
			keep[emails[i].ThreadID] = true
		}
	}
	kept := make([]domain.Email, 0, len(emails))
	for _, e := range emails {
		if keep[e.ThreadID] {
			kept = append(kept, e)
		}
	}
	return SortByThread(kept,
		func(e domain.Email) string { return e.ThreadID },
		func(e domain.Email) time.Time { return e.Timestamp })
}

// FilterSent keeps sent emails whose subject, plain-text body or recipient
// names contain term, then applies thread ordering
func FilterSent(sent []domain.SentEmail, term string) []domain.SentEmail {
	term = strings.ToLower(term)
	out := make([]domain.SentEmail, 0, len(sent))
	for _, se := range sent {
		if strings.TrimSpace(term) == "" || sentMatches(&se, term) {
			out = append(out, se)
		}
	}
	return SortByThread(out,
		func(e domain.SentEmail) string { return e.ThreadID },
		func(e domain.SentEmail) time.Time { return e.Timestamp })
}

// ThreadItems returns every inbound and sent member of threadID, oldest first
func ThreadItems(s *state.State, threadID string) []domain.Item {
	var items []domain.Item
	for _, e := range s.Emails {
		if e.ThreadID == threadID {
			items = append(items, domain.InboundItem(e))
		}
	}
	for _, se := range s.SentEmails {
		if se.ThreadID == threadID {
			items = append(items, domain.SentItem(se))
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp().Before(items[j].Timestamp())
	})
	return items
}

// SortByThread groups items by thread, orders threads by their latest member
// (newest first) and members by time (oldest first). Ties keep input order.
func SortByThread[T any](items []T, threadOf func(T) string, timeOf func(T) time.Time) []T {
	type thread struct {
		latest  time.Time
		members []T
	}
	var order []string
	threads := make(map[string]*thread)
	for _, it := range items {
		id := threadOf(it)
		th, ok := threads[id]
		if !ok {
			th = &thread{latest: timeOf(it)}
			threads[id] = th
			order = append(order, id)
		}
		if ts := timeOf(it); ts.After(th.latest) {
			th.latest = ts
		}
		th.members = append(th.members, it)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return threads[order[i]].latest.After(threads[order[j]].latest)
	})

	out := make([]T, 0, len(items))
	for _, id := range order {
		members := threads[id].members
		sort.SliceStable(members, func(i, j int) bool {
			return timeOf(members[i]).Before(timeOf(members[j]))
		})
		out = append(out, members...)
	}
	return out
}

func statusMatches(e *domain.Email, status string) bool {
	return status == "" || status == state.FilterAll || string(e.Status) == status
}

func tagMatches(e *domain.Email, tag string) bool {
	return tag == "" || tag == state.FilterAll || e.HasTag(tag)
}

// keywordMatches expects term already lowercased
func keywordMatches(e *domain.Email, term string) bool {
	if strings.TrimSpace(term) == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Subject), term) ||
		strings.Contains(strings.ToLower(htmltext.PlainText(e.Body)), term) ||
		strings.Contains(strings.ToLower(e.Sender.Name), term) ||
		strings.Contains(strings.ToLower(e.DisplayID), term)
}

func sentMatches(se *domain.SentEmail, term string) bool {
	names := make([]string, len(se.Recipients))
	for i, r := range se.Recipients {
		names[i] = r.Name
	}
	return strings.Contains(strings.ToLower(se.Subject), term) ||
		strings.Contains(strings.ToLower(htmltext.PlainText(se.Body)), term) ||
		strings.Contains(strings.ToLower(strings.Join(names, " ")), term)
}
