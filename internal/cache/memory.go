package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Memory is an in-process Store for tests and single-replica deployments.
// Expired entries are dropped lazily on read.
type Memory struct {
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an empty in-process store. Pass nil to use the real
// clock; tests inject a fake to control expiry.
func NewMemory(clock clockwork.Clock) *Memory {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Memory{
		clock:   clock,
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.clock.Now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: m.clock.Now().Add(ttl),
	}
	return nil
}

// CheckReadiness reports ready unconditionally; an in-process store has no
// backing service to lose.
func (m *Memory) CheckReadiness(_ context.Context) error {
	return nil
}
