package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Cache. Construct one per process and share it.
type Memory[T any] struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      Clock
	value    T
	storedAt time.Time
	valid    bool
	gen      uint64
}

func NewMemory[T any](ttl time.Duration, now Clock) *Memory[T] {
	if now == nil {
		now = time.Now
	}
	return &Memory[T]{ttl: ttl, now: now}
}

func (m *Memory[T]) Get(_ context.Context) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var zero T
	if !m.valid {
		return zero, false
	}
	if m.now().Sub(m.storedAt) >= m.ttl {
		return zero, false
	}
	return m.value, true
}

func (m *Memory[T]) Generation(_ context.Context) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen
}

func (m *Memory[T]) SetIfCurrent(_ context.Context, gen uint64, value T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		return false
	}
	m.value = value
	m.storedAt = m.now()
	m.valid = true
	return true
}

func (m *Memory[T]) Invalidate(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	m.value = zero
	m.valid = false
	m.gen++
}
