package assist

import (
	"context"
	"sync"
	"time"

	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/htmltext"
	"eventdesk-backend/pkg/logger"
)

// EmbeddingIndex stores one searchable document per email
type EmbeddingIndex interface {
	Upsert(ctx context.Context, emailID, subject, sender, body string) error
}

type indexJob struct {
	id, subject, sender, body string
}

// Indexer keeps the embedding index in step with the inbox
type Indexer struct {
	index   EmbeddingIndex
	jobs    chan indexJob
	wg      sync.WaitGroup
	once    sync.Once
	timeout time.Duration
}

// NewIndexer creates an indexer; call Watch to start it
func NewIndexer(index EmbeddingIndex) *Indexer {
	return &Indexer{index: index, jobs: make(chan indexJob, 200), timeout: 30 * time.Second}
}

// Watch indexes the current inbox and every email received afterwards.
// The returned function stops the indexer.
func (ix *Indexer) Watch(store Store) func() {
	ix.wg.Add(1)
	go ix.run()

	unsubscribe := store.Subscribe(func(prev, next *state.State, a state.Action) {
		if r, ok := a.(state.ReceiveEmail); ok {
			ix.queue(indexJob{r.Email.ID, r.Email.Subject, r.Email.Sender.Name, r.Email.Body})
		}
	})
	for _, e := range store.GetState().Emails {
		ix.queue(indexJob{e.ID, e.Subject, e.Sender.Name, e.Body})
	}

	return func() {
		ix.once.Do(func() {
			unsubscribe()
			close(ix.jobs)
			ix.wg.Wait()
		})
	}
}

func (ix *Indexer) queue(job indexJob) {
	select {
	case ix.jobs <- job:
	default:
		logger.LogEvent("index_dropped", map[string]interface{}{"email_id": job.id})
	}
}

func (ix *Indexer) run() {
	defer ix.wg.Done()
	for job := range ix.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), ix.timeout)
		err := ix.index.Upsert(ctx, job.id, job.subject, job.sender, htmltext.PlainText(job.body))
		cancel()
		if err != nil {
			logger.LogDegraded("embedding_index", err, map[string]interface{}{"email_id": job.id})
		}
	}
}
