package search

import (
	"context"
	"encoding/json"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/prabhjot018/meilisearch/internal/domain/fields"
	"github.com/prabhjot018/meilisearch/internal/domain/search/filter"
	"github.com/prabhjot018/meilisearch/internal/domain/search/sorting"
)

// Index opens consistent read-only snapshots of one search index.
type Index interface {
	OpenReader(ctx context.Context) (Reader, error)
}

// Reader is a consistent read-only view of the index for the duration of
// one search call. Implementations must support concurrent reads: the
// assembler fetches documents from multiple goroutines and multiple search
// calls may share a snapshot.
type Reader interface {
	// Search runs the candidate-set computation and ranking.
	Search(ctx context.Context, p Params) (*Matches, error)

	// Fields returns the field catalog of the snapshot.
	Fields(ctx context.Context) (*fields.Map, error)

	// DisplayedFields returns the set of field ids allowed in results, or
	// nil when every catalog field is displayed.
	DisplayedFields(ctx context.Context) (fields.IDSet, error)

	// Document returns the stored record of one document.
	Document(ctx context.Context, id uint32) (Record, error)

	// FacetDistribution counts documents per distinct value of each facet
	// field over the candidate set. A nil field list means all facetable
	// fields.
	FacetDistribution(ctx context.Context, candidates *roaring.Bitmap, facetNames []string) (map[string]map[string]uint64, error)

	Close() error
}

// Params is the engine-facing search request built by the assembler.
// Offset and Limit are already clamped to the hard result cap.
type Params struct {
	Query  string
	Offset int
	Limit  int
	Filter *filter.Expression
	Sort   []sorting.Criterion
}

// Matches is the engine's answer: ranked page of document ids, the
// normalized matched-term set, and the full pre-pagination candidate set.
type Matches struct {
	DocumentIDs  []uint32
	MatchedTerms []string
	Candidates   *roaring.Bitmap
}

// Record is a stored document as a flat field-id to raw-JSON mapping.
type Record map[fields.ID]json.RawMessage
