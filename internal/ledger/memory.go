package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/dtroode/blog-server/internal/model"
)

var _ model.ResetLedger = (*Memory)(nil)

// Memory is a process-local ledger for single-instance deployments.
type Memory struct {
	mu   sync.Mutex
	used map[string]time.Time
	now  func() time.Time
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		used: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Consume marks jti as used until ttl elapses. It reports false if jti is already marked.
func (m *Memory) Consume(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.evict(now)

	if _, ok := m.used[jti]; ok {
		return false, nil
	}
	m.used[jti] = now.Add(ttl)
	return true, nil
}

// Release forgets jti.
func (m *Memory) Release(_ context.Context, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.used, jti)
	return nil
}

// Len returns the number of live marks.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evict(m.now())
	return len(m.used)
}

func (m *Memory) evict(now time.Time) {
	for jti, expiresAt := range m.used {
		if !now.Before(expiresAt) {
			delete(m.used, jti)
		}
	}
}
