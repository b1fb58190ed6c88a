// Package document persists stored document records in a key-value store.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/prabhjot018/meilisearch/internal/db"
	"github.com/prabhjot018/meilisearch/internal/domain"
	"github.com/prabhjot018/meilisearch/internal/usecase/search"
)

const keyPrefix = "meili:records:"

// store is the consumer interface for records (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Repo implements memindex.DocumentStore over a key-value store. Records
// for different indexes are kept apart by the index name in the key.
type Repo struct {
	store store
	index string
}

// New creates a record repository for one index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// PutRecord stores the record of one document.
func (r *Repo) PutRecord(ctx context.Context, id uint32, record search.Record) error {
	data, err := encodeRecord(record)
	if err != nil {
		return fmt.Errorf("encode record %d: %w", id, err)
	}
	key := r.key(id)
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Record returns the stored record of one document.
func (r *Repo) Record(ctx context.Context, id uint32) (search.Record, error) {
	key := r.key(id)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	record, err := decodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("decode record %d: %w", id, err)
	}
	return record, nil
}

// Delete removes the stored record of one document.
func (r *Repo) Delete(ctx context.Context, id uint32) error {
	key := r.key(id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (r *Repo) key(id uint32) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, r.index, id)
}
