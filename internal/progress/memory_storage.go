package progress

import (
	"context"
	"slices"
	"sync"
)

type memoryStorage struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemoryStorage creates a process-local Storage.
func NewMemoryStorage() Storage {
	return &memoryStorage{data: make(map[string]map[string][]byte)}
}

func (m *memoryStorage) Get(_ context.Context, namespace, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[namespace][key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(value), nil
}

func (m *memoryStorage) Put(_ context.Context, namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		m.data[namespace] = ns
	}
	ns[key] = slices.Clone(value)
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[namespace], key)
	if len(m.data[namespace]) == 0 {
		delete(m.data, namespace)
	}
	return nil
}
