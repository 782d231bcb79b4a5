package scheduler

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// EffectRunner re-evaluates store effects without a triggering action
type EffectRunner interface {
	RunEffects()
}

// TaskReminderScheduler re-runs the reminder watcher on a ticker so that
// emails crossing the threshold while nothing is dispatched still get a
// follow-up task
type TaskReminderScheduler struct {
	runner   EffectRunner
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewTaskReminderScheduler creates a new scheduler
func NewTaskReminderScheduler(runner EffectRunner, interval time.Duration) *TaskReminderScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &TaskReminderScheduler{
		runner:   runner,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *TaskReminderScheduler) Start() {
	logrus.Infof("[TaskScheduler] Starting follow-up reminder scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.runner.RunEffects()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runner.RunEffects()
			case <-s.stopChan:
				logrus.Info("[TaskScheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *TaskReminderScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}
