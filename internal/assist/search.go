package assist

import (
	"context"
	"strings"

	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/ai"
	"eventdesk-backend/pkg/logger"
)

// SearchCoordinator runs AI searches over the inbox. Every search ends in
// exactly one AISearchSuccess or AISearchClear.
type SearchCoordinator struct {
	store        Store
	collaborator ai.Collaborator
	translator   Translator
}

// NewSearchCoordinator creates a search coordinator
func NewSearchCoordinator(store Store, collaborator ai.Collaborator, translator Translator) *SearchCoordinator {
	return &SearchCoordinator{store: store, collaborator: collaborator, translator: translator}
}

// Search asks the collaborator which emails match query and stores the ids,
// most relevant first. A blank query clears the search.
func (c *SearchCoordinator) Search(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		c.Clear()
		return nil, nil
	}

	c.store.Dispatch(state.AISearchStart{Query: query})

	emails := c.store.GetState().Emails
	corpus := make([]ai.EmailDigest, len(emails))
	for i, e := range emails {
		corpus[i] = DigestOf(e)
	}

	var ids []string
	var err error
	if len(corpus) > 0 {
		ids, err = c.collaborator.SearchEmails(ctx, query, corpus)
	}
	if err != nil {
		logger.LogDegraded("ai_search", err, map[string]interface{}{"query": query})
		c.store.Dispatch(state.AISearchClear{})
		c.store.Dispatch(state.AddNotification{Message: c.translator.T("ai_search_failed"), Kind: state.NotifyError})
		return nil, ErrAIUnavailable
	}
	if ids == nil {
		ids = []string{}
	}

	c.store.Dispatch(state.AISearchSuccess{IDs: ids})
	if len(ids) == 0 {
		c.store.Dispatch(state.AddNotification{Message: c.translator.T("ai_search_no_results"), Kind: state.NotifyInfo})
	}
	return ids, nil
}

// Clear drops the AI search and shows the whole inbox again
func (c *SearchCoordinator) Clear() {
	c.store.Dispatch(state.AISearchClear{})
}
