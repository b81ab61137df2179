package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ port.Storage = (*Redis)(nil)

// NewRedis stores values under "<prefix>:<key>". A zero ttl keeps values forever.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) (*Redis, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}

	return &Redis{client: client, prefix: prefix, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	value, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("client.Get: %w", err)
	}

	return value, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}

func (r *Redis) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}
