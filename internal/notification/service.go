package notification

import (
	"eventdesk-backend/internal/state"

	"github.com/sirupsen/logrus"
)

// Broadcaster pushes an event to connected clients
type Broadcaster interface {
	Broadcast(name string, data interface{})
}

// Subscriber is the part of the store the service listens to
type Subscriber interface {
	Subscribe(l state.Listener) func()
}

// Service relays store commits to live clients: every committed action
// becomes a state_changed event, and toasts added to the state are also sent
// as notification events
type Service struct {
	sseManager  Broadcaster
	unsubscribe func()
}

// NewService creates the relay; call Start to attach it to a store
func NewService(sseManager Broadcaster) *Service {
	return &Service{sseManager: sseManager}
}

// Start subscribes to store
func (s *Service) Start(store Subscriber) {
	s.unsubscribe = store.Subscribe(s.onCommit)
	logrus.Info("[Notification] Relaying store changes to SSE clients")
}

// Stop detaches from the store
func (s *Service) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *Service) onCommit(prev, next *state.State, a state.Action) {
	s.sseManager.Broadcast("state_changed", map[string]interface{}{
		"action": a.Type(),
	})

	for _, n := range Added(prev.Notifications, next.Notifications) {
		s.sseManager.Broadcast("notification", n)
	}
}

// Added returns the notifications in next that prev did not have
func Added(prev, next []state.Notification) []state.Notification {
	seen := make(map[int]bool, len(prev))
	for _, n := range prev {
		seen[n.ID] = true
	}
	var out []state.Notification
	for _, n := range next {
		if !seen[n.ID] {
			out = append(out, n)
		}
	}
	return out
}
