package memory

import (
	"context"
	"sync"

	"github.com/secmon-lab/smartminutes/pkg/domain/interfaces"
)

// Memory is an in-process key-value namespace. Values are copied on the
// way in and out so callers never share backing arrays with the store.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ interfaces.KVStore = &Memory{}

func New() *Memory {
	return &Memory{
		values: make(map[string][]byte),
	}
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	copied := make([]byte, len(b))
	copy(copied, b)
	return copied
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.values[key]
	if !exists {
		return nil, nil
	}
	return copyBytes(value), nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = copyBytes(value)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
