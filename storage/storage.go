// Package storage provides the durable key/value backend the feed
// persists into. Values are whole JSON documents rewritten on every
// mutation; there is no partial update.
package storage

import (
	"errors"
	"sync"
)

// ErrNoValue is returned by Get when the key has never been written.
var ErrNoValue = errors.New("storage: no value for key")

// Store is the persistence contract. Put replaces the entire value for
// the key in one write.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Memory is an in-process Store used by tests and ephemeral commands.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, ErrNoValue
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

func (m *Memory) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]byte, len(value))
	copy(copied, value)
	m.values[key] = copied
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
