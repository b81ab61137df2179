package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/port"
)

// storageRepository keeps one client session's key-value data in the client_storage table.
type storageRepository struct {
	q       *db.Queries
	ownerID string
}

func NewStorage(pool *pgxpool.Pool, ownerID string) (port.Storage, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	return &storageRepository{
		q:       db.New(pool),
		ownerID: ownerID,
	}, nil
}

func NewStorageWithTx(tx pgx.Tx, ownerID string) port.Storage {
	return &storageRepository{
		q:       db.New(tx),
		ownerID: ownerID,
	}
}

func (r *storageRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	value, err := r.q.GetStorageValue(ctx, db.GetStorageValueParams{
		OwnerID: r.ownerID,
		Key:     key,
	})
	if err != nil {
		return nil, fmt.Errorf("q.GetStorageValue: %w", notFound(err))
	}

	return value, nil
}

func (r *storageRepository) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	err := r.q.SetStorageValue(ctx, db.SetStorageValueParams{
		OwnerID: r.ownerID,
		Key:     key,
		Value:   value,
	})
	if err != nil {
		return fmt.Errorf("q.SetStorageValue: %w", err)
	}

	return nil
}

func (r *storageRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := r.q.DeleteStorageValue(ctx, db.DeleteStorageValueParams{
		OwnerID: r.ownerID,
		Key:     key,
	}); err != nil {
		return fmt.Errorf("q.DeleteStorageValue: %w", err)
	}

	return nil
}
