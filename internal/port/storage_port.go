package port

import (
	"context"
)

// Storage is durable key-value client storage. Get returns domain.ErrNotFound for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
