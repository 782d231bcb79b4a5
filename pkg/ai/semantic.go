package ai

import (
	"context"

	"github.com/sirupsen/logrus"
)

// SemanticIndex finds stored emails by embedding similarity
type SemanticIndex interface {
	Query(ctx context.Context, query string, limit int) ([]string, error)
}

// SemanticCollaborator answers SearchEmails from an embedding index and
// delegates everything else. When the index fails or matches nothing in the
// corpus, the wrapped collaborator searches instead.
type SemanticCollaborator struct {
	Collaborator
	index SemanticIndex
}

// WithSemanticSearch wraps c so that searches go to index first
func WithSemanticSearch(c Collaborator, index SemanticIndex) *SemanticCollaborator {
	return &SemanticCollaborator{Collaborator: c, index: index}
}

func (s *SemanticCollaborator) SearchEmails(ctx context.Context, query string, corpus []EmailDigest) ([]string, error) {
	ids, err := s.index.Query(ctx, query, len(corpus))
	if err != nil {
		logrus.Warnf("[AI] Semantic search failed: %v, asking the model", err)
		return s.Collaborator.SearchEmails(ctx, query, corpus)
	}
	known := KnownIDs(ids, corpus)
	if len(known) == 0 {
		return s.Collaborator.SearchEmails(ctx, query, corpus)
	}
	return known, nil
}
