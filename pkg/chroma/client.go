package chroma

import (
	"context"
	"fmt"
	"os"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings/gemini"
	"github.com/sirupsen/logrus"
)

const (
	collectionName = "eventdesk-emails"
	maxDocument    = 10000
)

// Config selects the Chroma Cloud tenant and the embedding key
type Config struct {
	APIKey       string
	Tenant       string
	Database     string
	GeminiAPIKey string
}

// Index keeps one embedding per inbound email for semantic search
type Index struct {
	collection chroma.Collection
}

// NewIndex connects to Chroma Cloud and creates the email collection
func NewIndex(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("CHROMA_API_KEY is required")
	}

	if cfg.GeminiAPIKey != "" {
		os.Setenv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	}
	embedFunc, err := gemini.NewGeminiEmbeddingFunction(
		gemini.WithEnvAPIKey(),
		gemini.WithDefaultModel("text-embedding-004"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini embedding function: %w", err)
	}

	var client chroma.Client
	switch {
	case cfg.Database != "" && cfg.Tenant != "":
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.APIKey),
			chroma.WithDatabaseAndTenant(cfg.Database, cfg.Tenant),
		)
	case cfg.Tenant != "":
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.APIKey),
			chroma.WithTenant(cfg.Tenant),
		)
	default:
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.APIKey),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(ctx, collectionName,
		chroma.WithEmbeddingFunctionCreate(embedFunc),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	logrus.Infof("[Chroma] Initialized collection %s", collectionName)
	return &Index{collection: collection}, nil
}

// Upsert stores or replaces the embedding of one email
func (i *Index) Upsert(ctx context.Context, emailID, subject, sender, body string) error {
	text := fmt.Sprintf("Subject: %s\nFrom: %s\n\nBody: %s", subject, sender, body)
	if r := []rune(text); len(r) > maxDocument {
		text = string(r[:maxDocument])
	}

	metadata, err := chroma.NewDocumentMetadataFromMap(map[string]interface{}{
		"email_id": emailID,
		"subject":  subject,
	})
	if err != nil {
		return fmt.Errorf("failed to create metadata: %w", err)
	}

	err = i.collection.Upsert(ctx,
		chroma.WithIDs(chroma.DocumentID(emailID)),
		chroma.WithMetadatas(metadata),
		chroma.WithTexts(text),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert email embedding: %w", err)
	}
	return nil
}

// Query returns up to limit email ids nearest to query, closest first
func (i *Index) Query(ctx context.Context, query string, limit int) ([]string, error) {
	results, err := i.collection.Query(ctx,
		chroma.WithQueryTexts(query),
		chroma.WithNResults(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	if results == nil || results.CountGroups() == 0 {
		return []string{}, nil
	}

	groups := results.GetIDGroups()
	if len(groups) == 0 {
		return []string{}, nil
	}
	ids := make([]string, 0, len(groups[0]))
	for _, id := range groups[0] {
		ids = append(ids, string(id))
	}
	logrus.Debugf("[Chroma] Query %q matched %d emails", query, len(ids))
	return ids, nil
}

// Delete removes the embedding of one email
func (i *Index) Delete(ctx context.Context, emailID string) error {
	if err := i.collection.Delete(ctx, chroma.WithIDsDelete(chroma.DocumentID(emailID))); err != nil {
		return fmt.Errorf("failed to delete email embedding: %w", err)
	}
	return nil
}
