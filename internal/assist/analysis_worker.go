package assist

import (
	"context"
	"errors"
	"sync"
	"time"

	mail "eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/ai"
	"eventdesk-backend/pkg/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// AnalysisWorker analyzes emails in the background and stores the results.
// A result is applied to whatever the email holds when it arrives; there is
// no check that the email is unchanged since the request was made.
type AnalysisWorker struct {
	store        Store
	collaborator ai.Collaborator
	translator   Translator
	limiter      *rate.Limiter
	timeout      time.Duration

	jobQueue    chan string
	workerWg    sync.WaitGroup
	workerCount int
	started     bool
	stopped     bool
	stopOnce    sync.Once
	mu          sync.Mutex
	unsubscribe func()
}

// NewAnalysisWorker creates a worker pool of workerCount goroutines allowed
// requestsPerMinute collaborator calls
func NewAnalysisWorker(store Store, collaborator ai.Collaborator, translator Translator, workerCount, requestsPerMinute int) *AnalysisWorker {
	if workerCount <= 0 {
		workerCount = 2
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &AnalysisWorker{
		store:        store,
		collaborator: collaborator,
		translator:   translator,
		limiter:      rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		timeout:      time.Minute,
		jobQueue:     make(chan string, 500),
		workerCount:  workerCount,
	}
}

// Start starts the workers
func (w *AnalysisWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return
	}
	for i := 0; i < w.workerCount; i++ {
		w.workerWg.Add(1)
		go w.worker(i)
	}
	w.started = true
	logrus.Infof("[AnalysisWorker] Started %d workers", w.workerCount)
}

// Stop stops accepting jobs and waits for running ones
func (w *AnalysisWorker) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		unsubscribe := w.unsubscribe
		w.unsubscribe = nil
		w.mu.Unlock()
		// outside mu: a running listener may be waiting on it in Enqueue
		if unsubscribe != nil {
			unsubscribe()
		}

		w.mu.Lock()
		w.stopped = true
		close(w.jobQueue)
		w.mu.Unlock()

		w.workerWg.Wait()
		logrus.Info("[AnalysisWorker] All workers stopped")
	})
}

// WatchInbox queues every newly received email for analysis
func (w *AnalysisWorker) WatchInbox() {
	unsubscribe := w.store.Subscribe(func(prev, next *state.State, a state.Action) {
		if r, ok := a.(state.ReceiveEmail); ok {
			w.Enqueue(r.Email.ID)
		}
	})
	w.mu.Lock()
	w.unsubscribe = unsubscribe
	w.mu.Unlock()
}

// Enqueue adds an email to the queue without blocking. It reports false when
// the queue is full or the worker has stopped.
func (w *AnalysisWorker) Enqueue(emailID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return false
	}
	select {
	case w.jobQueue <- emailID:
		return true
	default:
		logrus.WithField("email_id", emailID).Warn("[AnalysisWorker] Queue full, dropping job")
		return false
	}
}

func (w *AnalysisWorker) worker(id int) {
	defer w.workerWg.Done()

	for emailID := range w.jobQueue {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		if err := w.limiter.Wait(ctx); err == nil {
			_, _ = w.analyze(ctx, emailID)
		}
		cancel()
	}
	logrus.Debugf("[AnalysisWorker] Worker %d stopped", id)
}

// AnalyzeNow analyzes one email synchronously and returns it as updated.
// Unlike background jobs, a failed request is reported to the user.
func (w *AnalysisWorker) AnalyzeNow(ctx context.Context, emailID string) (*mail.Email, error) {
	if err := w.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	email, err := w.analyze(ctx, emailID)
	if errors.Is(err, ErrAIUnavailable) && w.translator != nil {
		w.store.Dispatch(state.AddNotification{Message: w.translator.T("ai_analysis_unavailable"), Kind: state.NotifyError})
	}
	return email, err
}

func (w *AnalysisWorker) analyze(ctx context.Context, emailID string) (*mail.Email, error) {
	email, ok := w.store.GetState().FindEmail(emailID)
	if !ok {
		return nil, mail.ErrEmailNotFound
	}

	result, err := w.collaborator.AnalyzeEmail(ctx, DigestOf(email), TriageOptions())
	if err != nil {
		logger.LogDegraded("ai_analysis", err, map[string]interface{}{"email_id": emailID})
		return nil, ErrAIUnavailable
	}
	analysis, ok := analysisOf(result)
	if !ok {
		logger.LogDegraded("ai_analysis", ai.ErrNoResult, map[string]interface{}{
			"email_id": emailID,
			"status":   result.Status,
		})
		return nil, ErrAIUnavailable
	}

	w.store.Dispatch(state.UpdateEmailAnalysis{EmailID: emailID, Analysis: analysis})
	logrus.WithFields(logrus.Fields{
		"email_id": emailID,
		"status":   analysis.Status,
		"tags":     len(analysis.Tags),
		"tasks":    len(analysis.SuggestedTasks),
	}).Info("[AnalysisWorker] Analysis stored")

	updated, ok := w.store.GetState().FindEmail(emailID)
	if !ok {
		return nil, mail.ErrEmailNotFound
	}
	return &updated, nil
}
