package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Memory is an in-memory Store with an optional byte quota.
type Memory struct {
	mu       sync.RWMutex
	data     map[string][]byte
	capacity int64
	used     int64
}

// NewMemory creates a memory store. A capacity of zero or less disables the
// quota.
func NewMemory(capacity int64) *Memory {
	return &Memory{
		data:     make(map[string][]byte),
		capacity: capacity,
	}
}

// Get returns the value for key.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers cannot mutate the stored slice.
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set stores value under key, enforcing the quota.
func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delta := int64(len(value)) - int64(len(m.data[key]))
	if m.capacity > 0 && m.used+delta > m.capacity {
		return fmt.Errorf("%w: %d bytes over quota writing %q", ErrCapacity, m.used+delta-m.capacity, key)
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	m.used += delta
	return nil
}

// Delete removes key. Missing keys are a no-op.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if value, ok := m.data[key]; ok {
		m.used -= int64(len(value))
		delete(m.data, key)
	}
	return nil
}

// List returns all keys with the given prefix.
func (m *Memory) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Used returns the current number of stored bytes.
func (m *Memory) Used() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}
