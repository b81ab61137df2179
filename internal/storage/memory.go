package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// Memory keeps values in process. Contents are lost on restart.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ port.Storage = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return append([]byte(nil), value...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
