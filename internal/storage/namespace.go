package storage

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/port"
)

type namespaced struct {
	base   port.Storage
	prefix string
}

// Namespace scopes every key of base under owner, so several client sessions can share one store.
func Namespace(base port.Storage, owner string) port.Storage {
	return &namespaced{base: base, prefix: owner + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}
	return n.base.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	return n.base.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	return n.base.Delete(ctx, n.prefix+key)
}
