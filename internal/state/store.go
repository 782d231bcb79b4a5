package state

import (
	"slices"
	"sync"
	"time"

	"eventdesk-backend/pkg/idgen"

	"github.com/sirupsen/logrus"
)

// maxCascade bounds how many actions effects may queue from one dispatch
const maxCascade = 256

// Listener is told about every committed change, in commit order
type Listener func(prev, next *State, a Action)

// Effect inspects a freshly committed state and returns follow-up actions.
// Effects must be pure; they run inside the dispatch that triggered them.
type Effect func(s *State, now time.Time) []Action

// Store owns the current State. Dispatch is safe for concurrent use and
// applies actions strictly in the order their calls acquire the store.
type Store struct {
	mu       sync.Mutex
	state    *State
	now      func() time.Time
	newID    idgen.Generator
	lastTick time.Time
	effects  []Effect

	// notifyMu is taken before mu is released so listeners observe commits
	// in the order they happened
	notifyMu  sync.Mutex
	listeners map[int]Listener
	nextSub   int
}

// Option customizes a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces idgen.New
func WithIDGenerator(gen idgen.Generator) Option {
	return func(s *Store) { s.newID = gen }
}

// WithEffects registers post-commit effects
func WithEffects(effects ...Effect) Option {
	return func(s *Store) { s.effects = append(s.effects, effects...) }
}

// NewStore creates a store holding initial
func NewStore(initial *State, opts ...Option) *Store {
	s := &Store{
		state:     initial,
		now:       time.Now,
		newID:     idgen.New,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetState returns the current state. The value must be treated as read-only.
func (s *Store) GetState() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l and returns a function that removes it.
// Listeners run synchronously after the commit and must not call Dispatch
// on the same goroutine.
func (s *Store) Subscribe(l Listener) func() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()
		delete(s.listeners, id)
	}
}

// AddEffect registers an effect after construction
func (s *Store) AddEffect(e Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effects = append(s.effects, e)
}

// Dispatch applies a and any follow-up actions its effects produce
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	commits := s.apply([]Action{a})
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	s.notify(commits)
}

// DispatchAndGet dispatches a and returns the state right after it
// (and its cascade) committed
func (s *Store) DispatchAndGet(a Action) *State {
	s.mu.Lock()
	commits := s.apply([]Action{a})
	current := s.state
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	s.notify(commits)
	return current
}

// RunEffects evaluates every effect against the current state. Used when
// only time has passed, so no action would otherwise trigger them.
func (s *Store) RunEffects() {
	s.mu.Lock()
	pending := s.runEffects(s.state, s.tick())
	var commits []commit
	if len(pending) > 0 {
		commits = s.apply(pending)
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	s.notify(commits)
}

type commit struct {
	prev, next *State
	action     Action
}

// apply runs the queue FIFO; caller holds mu
func (s *Store) apply(queue []Action) []commit {
	var commits []commit
	for processed := 0; len(queue) > 0; processed++ {
		a := queue[0]
		queue = queue[1:]
		if processed >= maxCascade {
			logrus.WithField("action", a.Type()).Error("[Store] Effect cascade limit reached, dropping remaining actions")
			break
		}

		now := s.tick()
		if st, ok := a.(stamper); ok {
			a = st.stamp(stampEnv{now: now, newID: s.newID, user: s.state.CurrentUser.Name})
		}

		prev := s.state
		next := Reduce(prev, a)
		if next == prev {
			continue
		}
		s.state = next
		commits = append(commits, commit{prev: prev, next: next, action: a})

		queue = append(queue, s.runEffects(next, now)...)
	}
	return commits
}

func (s *Store) runEffects(st *State, now time.Time) []Action {
	var out []Action
	for _, e := range s.effects {
		out = append(out, e(st, now)...)
	}
	return out
}

// tick returns a strictly increasing timestamp; caller holds mu
func (s *Store) tick() time.Time {
	now := s.now()
	if !now.After(s.lastTick) {
		now = s.lastTick.Add(time.Nanosecond)
	}
	s.lastTick = now
	return now
}

// notify runs listeners; caller holds notifyMu
func (s *Store) notify(commits []commit) {
	if len(commits) == 0 || len(s.listeners) == 0 {
		return
	}
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, c := range commits {
		for _, id := range ids {
			s.listeners[id](c.prev, c.next, c.action)
		}
	}
}

