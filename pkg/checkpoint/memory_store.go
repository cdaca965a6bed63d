package checkpoint

import (
	"context"
	"sync"

	"trendcheck-go/pkg/scorer"
)

// MemoryStore is an in-memory Store used in tests and as a null
// checkpoint when resumability is not wanted.
type MemoryStore struct {
	mu      sync.Mutex
	results []scorer.ScoreResult
	flushes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) LoadExisting(ctx context.Context) ([]scorer.ScoreResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]scorer.ScoreResult, len(m.results))
	copy(out, m.results)
	return out, nil
}

func (m *MemoryStore) Flush(ctx context.Context, results []scorer.ScoreResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = make([]scorer.ScoreResult, len(results))
	copy(m.results, results)
	m.flushes++
	return nil
}

// Flushes returns how many times Flush has been called.
func (m *MemoryStore) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}
