// internal/app/wizardstate/memory.go
package wizardstate

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the default, in-process Store backend. Runs expire after a
// fixed TTL measured from their last write, which approximates the browser
// session lifetime of the state this store replaces.
//
// Suitable for a single dashboard instance; use the Redis backend when
// running more than one replica behind a load balancer.
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	runs map[string]*memoryRun
}

type memoryRun struct {
	values   map[string][]byte
	deadline time.Time
}

// NewMemoryStore creates a MemoryStore whose runs expire ttl after their
// last write. A non-positive ttl defaults to 4 hours.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &MemoryStore{
		ttl:  ttl,
		runs: make(map[string]*memoryRun),
	}
}

func (m *MemoryStore) Set(_ context.Context, runID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()

	run, ok := m.runs[runID]
	if !ok {
		run = &memoryRun{values: make(map[string][]byte)}
		m.runs[runID] = run
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	run.values[key] = cp
	run.deadline = time.Now().Add(m.ttl)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, runID, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok || time.Now().After(run.deadline) {
		return nil, false, nil
	}
	v, ok := run.values[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (m *MemoryStore) Remove(_ context.Context, runID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if run, ok := m.runs[runID]; ok {
		delete(run.values, key)
	}
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.runs, runID)
	return nil
}

// sweepLocked drops expired runs. Called opportunistically on writes so idle
// stores do not need a background janitor.
func (m *MemoryStore) sweepLocked() {
	now := time.Now()
	for id, run := range m.runs {
		if now.After(run.deadline) {
			delete(m.runs, id)
		}
	}
}
