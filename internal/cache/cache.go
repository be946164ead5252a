// Package cache provides the reconciliation-result cache: an explicit,
// TTL-bounded object passed into whichever component needs it, never
// process-wide singleton state.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/polyfolio/pnl-data/internal/model"
)

// Cache stores reconciliation results keyed by address for a bounded
// time.
type Cache interface {
	Get(ctx context.Context, address string) (*model.ReconciliationResult, bool)
	Set(ctx context.Context, address string, result *model.ReconciliationResult)
}

// memoryEntry pairs a cached result with its expiry.
type memoryEntry struct {
	result  *model.ReconciliationResult
	expires time.Time
}

// Memory is an in-process Cache with lazy expiry. Used when no redis
// is configured; safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewMemory creates an in-process cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached result for address if present and unexpired.
func (m *Memory) Get(_ context.Context, address string) (*model.ReconciliationResult, bool) {
	m.mu.RLock()
	entry, ok := m.entries[address]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		m.mu.Lock()
		// Re-check under the write lock; a Set may have refreshed it.
		if e, ok := m.entries[address]; ok && time.Now().After(e.expires) {
			delete(m.entries, address)
		}
		m.mu.Unlock()
		return nil, false
	}
	return entry.result, true
}

// Set stores a result for address until the TTL elapses.
func (m *Memory) Set(_ context.Context, address string, result *model.ReconciliationResult) {
	m.mu.Lock()
	m.entries[address] = memoryEntry{
		result:  result,
		expires: time.Now().Add(m.ttl),
	}
	m.mu.Unlock()
}
