// Package result holds the caller-facing search result shapes.
package result

import (
	"encoding/json"

	"github.com/prabhjot018/meilisearch/internal/domain/search/format"
)

// Hit is one returned document: the projected fields, the formatted view,
// and the per-field match spans when requested.
type Hit struct {
	Document        map[string]any
	Formatted       map[string]any
	MatchesPosition format.MatchesPosition
}

// MarshalJSON flattens the document fields at the top level and attaches
// "_formatted" only when non-empty and "_matchesPosition" only when
// present.
func (h Hit) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(h.Document)+2)
	for k, v := range h.Document {
		out[k] = v
	}
	if len(h.Formatted) > 0 {
		out["_formatted"] = h.Formatted
	}
	if h.MatchesPosition != nil {
		out["_matchesPosition"] = h.MatchesPosition
	}
	return json.Marshal(out)
}

// Result is a complete paginated search result. Limit and Offset echo the
// caller's values before hard-cap clamping. EstimatedTotalHits is the
// candidate-set size: the pre-pagination candidate count, not necessarily
// exact under additional constraints.
type Result struct {
	Hits               []Hit                        `json:"hits"`
	EstimatedTotalHits uint64                       `json:"estimatedTotalHits"`
	Query              string                       `json:"query"`
	Limit              int                          `json:"limit"`
	Offset             int                          `json:"offset"`
	ProcessingTimeMs   int64                        `json:"processingTimeMs"`
	FacetDistribution  map[string]map[string]uint64 `json:"facetDistribution,omitempty"`
}
