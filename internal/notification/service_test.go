package notification

import (
	"sync"
	"testing"
	"time"

	settings "eventdesk-backend/internal/settings/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	name string
	data interface{}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []sent
}

func (f *fakeBroadcaster) Broadcast(name string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sent{name, data})
}

func TestAdded(t *testing.T) {
	prev := []state.Notification{{ID: 1}, {ID: 2}}
	next := []state.Notification{{ID: 2}, {ID: 3}}
	assert.Equal(t, []state.Notification{{ID: 3}}, Added(prev, next))
	assert.Empty(t, Added(next, next))
}

func TestServiceRelaysCommits(t *testing.T) {
	store := state.NewStore(state.New(settings.Collaborator{ID: "u1", Name: "Alice"}),
		state.WithClock(func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }),
		state.WithIDGenerator(idgen.Sequence()),
	)
	b := &fakeBroadcaster{}
	svc := NewService(b)
	svc.Start(store)

	store.Dispatch(state.SetView{View: state.ViewTasks})
	store.Dispatch(state.AddNotification{Message: "saved", Kind: state.NotifySuccess})
	// no-op: same view again
	store.Dispatch(state.SetView{View: state.ViewTasks})

	require.Len(t, b.events, 3)
	assert.Equal(t, "state_changed", b.events[0].name)
	assert.Equal(t, map[string]interface{}{"action": state.TypeSetView}, b.events[0].data)
	assert.Equal(t, "state_changed", b.events[1].name)
	assert.Equal(t, "notification", b.events[2].name)
	assert.Equal(t, "saved", b.events[2].data.(state.Notification).Message)

	svc.Stop()
	store.Dispatch(state.SetView{View: state.ViewInbox})
	assert.Len(t, b.events, 3)
}
