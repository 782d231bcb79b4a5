package sse

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event is one server-sent event
type Event struct {
	ID   string      `json:"id"`
	Name string      `json:"event"`
	Data interface{} `json:"data"`
	Time time.Time   `json:"time"`
}

type client struct {
	id string
	ch chan Event
}

// Manager fans events out to every connected client
type Manager struct {
	register   chan *client
	unregister chan *client
	broadcast  chan Event
	done       chan struct{}
	stopOnce   sync.Once

	mu      sync.RWMutex
	clients map[string]*client

	keepAlive time.Duration
}

// NewManager creates a manager; call Run before serving clients
func NewManager() *Manager {
	return &Manager{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Event, 256),
		done:       make(chan struct{}),
		clients:    make(map[string]*client),
		keepAlive:  30 * time.Second,
	}
}

// Run processes registrations and broadcasts until Stop is called
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.mu.Lock()
			m.clients[c.id] = c
			m.mu.Unlock()
			logrus.Debugf("[SSE] Client %s connected (%d total)", c.id, m.ClientCount())

		case c := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[c.id]; ok {
				delete(m.clients, c.id)
				close(c.ch)
			}
			m.mu.Unlock()
			logrus.Debugf("[SSE] Client %s disconnected", c.id)

		case ev := <-m.broadcast:
			m.mu.RLock()
			for id, c := range m.clients {
				select {
				case c.ch <- ev:
				default:
					logrus.Warnf("[SSE] Channel full for client %s, dropping %s", id, ev.Name)
				}
			}
			m.mu.RUnlock()

		case <-m.done:
			m.mu.Lock()
			for id, c := range m.clients {
				delete(m.clients, id)
				close(c.ch)
			}
			m.mu.Unlock()
			return
		}
	}
}

// Stop ends Run and disconnects every client
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// ClientCount returns the number of connected clients
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Broadcast queues an event for every client. It never blocks; when the
// queue is full the event is dropped.
func (m *Manager) Broadcast(name string, data interface{}) {
	ev := Event{ID: uuid.NewString(), Name: name, Data: data, Time: time.Now()}
	select {
	case m.broadcast <- ev:
	case <-m.done:
	default:
		logrus.Warnf("[SSE] Broadcast queue full, dropping %s", name)
	}
}

// ServeHTTP streams events to one client until it disconnects
func (m *Manager) ServeHTTP(c *gin.Context) {
	cl := &client{id: uuid.NewString(), ch: make(chan Event, 32)}
	select {
	case m.register <- cl:
	case <-m.done:
		c.Status(http.StatusServiceUnavailable)
		return
	}
	defer func() {
		select {
		case m.unregister <- cl:
		case <-m.done:
		}
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(m.keepAlive)
	defer ticker.Stop()

	c.SSEvent("connected", gin.H{"client_id": cl.id})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-cl.ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev)
			return true
		case <-ticker.C:
			_, _ = io.WriteString(w, ": keepalive\n\n")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
