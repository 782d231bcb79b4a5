package idgen

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Generator produces a new identifier for the given entity prefix
type Generator func(prefix string) string

// New returns "<prefix>-<uuid>", or a bare uuid when prefix is empty
func New(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// Sequence returns a deterministic generator ("<prefix>-1", "<prefix>-2", ...).
// Used by tests and workspace seeding.
func Sequence() Generator {
	var mu sync.Mutex
	counters := make(map[string]int)
	return func(prefix string) string {
		mu.Lock()
		defer mu.Unlock()
		counters[prefix]++
		return prefix + "-" + strconv.Itoa(counters[prefix])
	}
}
