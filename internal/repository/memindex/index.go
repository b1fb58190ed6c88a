// Package memindex is an in-memory implementation of the search engine
// collaborator: candidate-set computation over naive term matching, field
// catalog, document records and facet counting. It backs tests and the
// demo binary; it is not a ranking engine.
package memindex

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/prabhjot018/meilisearch/internal/domain/fields"
	"github.com/prabhjot018/meilisearch/internal/domain/search/format"
	"github.com/prabhjot018/meilisearch/internal/usecase/search"
	"github.com/prabhjot018/meilisearch/pkg/jsonptr"
)

// DocumentStore persists stored records by document id. The default store
// keeps records in process memory.
type DocumentStore interface {
	PutRecord(ctx context.Context, id uint32, record search.Record) error
	Record(ctx context.Context, id uint32) (search.Record, error)
}

// Option configures an Index.
type Option func(*Index)

// WithDocumentStore makes the index fetch stored records through the
// given store instead of process memory.
func WithDocumentStore(store DocumentStore) Option {
	return func(x *Index) { x.store = store }
}

// Index is an in-memory searchable document collection.
type Index struct {
	mu             sync.RWMutex
	catalog        *fields.Map
	displayedNames []string // nil means all fields are displayed
	docs           map[uint32]map[string]any
	order          []uint32
	nextID         uint32
	store          DocumentStore
}

// New creates an empty index.
func New(opts ...Option) *Index {
	x := &Index{
		catalog: fields.NewMap(),
		docs:    make(map[uint32]map[string]any),
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.store == nil {
		x.store = newMemStore()
	}
	return x
}

// SetDisplayedFields restricts the fields allowed in results. Without a
// call, every field is displayed.
func (x *Index) SetDisplayedFields(names ...string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.displayedNames = append([]string(nil), names...)
}

// AddDocument indexes one document, registering its field paths in the
// catalog and persisting its stored record.
func (x *Index) AddDocument(ctx context.Context, doc map[string]any) (uint32, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.registerPaths("", doc); err != nil {
		return 0, err
	}

	record := make(search.Record, len(doc))
	for name, value := range doc {
		fid, err := x.catalog.Insert(name)
		if err != nil {
			return 0, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return 0, fmt.Errorf("encode field %q: %w", name, err)
		}
		record[fid] = raw
	}

	id := x.nextID
	x.nextID++
	if err := x.store.PutRecord(ctx, id, record); err != nil {
		return 0, fmt.Errorf("store record %d: %w", id, err)
	}
	x.docs[id] = jsonptr.Clone(doc).(map[string]any)
	x.order = append(x.order, id)
	return id, nil
}

func (x *Index) registerPaths(prefix string, value any) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	for key, val := range obj {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if _, err := x.catalog.Insert(path); err != nil {
			return err
		}
		if err := x.registerPaths(path, val); err != nil {
			return err
		}
	}
	return nil
}

// OpenReader returns a consistent snapshot of the index.
func (x *Index) OpenReader(_ context.Context) (search.Reader, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	docs := make(map[uint32]map[string]any, len(x.docs))
	for id, doc := range x.docs {
		docs[id] = doc
	}
	return &reader{
		catalog:        x.catalog.Clone(),
		displayedNames: append([]string(nil), x.displayedNames...),
		docs:           docs,
		order:          append([]uint32(nil), x.order...),
		store:          x.store,
	}, nil
}

// leafWords collects the normalized words of every string and number leaf.
func leafWords(value any, words map[string]struct{}) {
	switch v := value.(type) {
	case string:
		for _, tok := range format.Tokenize(v) {
			if tok.Word != "" {
				words[tok.Word] = struct{}{}
			}
		}
	case float64:
		leafWords(fmt.Sprintf("%v", v), words)
	case json.Number:
		leafWords(v.String(), words)
	case []any:
		for _, elem := range v {
			leafWords(elem, words)
		}
	case map[string]any:
		for _, elem := range v {
			leafWords(elem, words)
		}
	}
}
