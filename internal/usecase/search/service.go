// Package search assembles complete search results: it compiles the
// caller's query into an engine request, then projects, formats and
// augments every returned document under the hard result cap.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/prabhjot018/meilisearch/internal/domain"
	"github.com/prabhjot018/meilisearch/internal/domain/fields"
	"github.com/prabhjot018/meilisearch/internal/domain/geo"
	"github.com/prabhjot018/meilisearch/internal/domain/search/filter"
	"github.com/prabhjot018/meilisearch/internal/domain/search/format"
	"github.com/prabhjot018/meilisearch/internal/domain/search/query"
	"github.com/prabhjot018/meilisearch/internal/domain/search/result"
	"github.com/prabhjot018/meilisearch/internal/domain/search/sorting"
	"github.com/prabhjot018/meilisearch/internal/logger"
	"github.com/prabhjot018/meilisearch/internal/metrics"
	"github.com/prabhjot018/meilisearch/pkg/jsonptr"
)

// Service performs searches against one index.
type Service struct {
	index Index
}

// New creates a search service.
func New(index Index) *Service {
	return &Service{index: index}
}

// Search executes a search query end to end. Either a complete result is
// returned or an error; there is no partial-result path.
func (s *Service) Search(ctx context.Context, q query.Query) (*result.Result, error) {
	start := time.Now()

	res, err := s.search(ctx, q)

	elapsed := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(status).Inc()
	metrics.SearchDuration.Observe(elapsed.Seconds())
	if err != nil {
		return nil, err
	}

	metrics.SearchDocumentsReturned.Observe(float64(len(res.Hits)))
	logger.FromContext(ctx).Debug("search executed",
		zap.String("query", q.Q),
		zap.Int("hits", len(res.Hits)),
		zap.Uint64("estimated_total", res.EstimatedTotalHits),
		zap.Duration("elapsed", elapsed),
	)

	res.ProcessingTimeMs = elapsed.Milliseconds()
	return res, nil
}

func (s *Service) search(ctx context.Context, q query.Query) (*result.Result, error) {
	reader, err := s.index.OpenReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	offset, limit := q.Bounds()

	var expr *filter.Expression
	if q.Filter != nil {
		if expr, err = filter.Compile(q.Filter); err != nil {
			return nil, err
		}
	}

	var criteria []sorting.Criterion
	if q.Sort != nil {
		if criteria, err = sorting.ParseList(q.Sort); err != nil {
			return nil, err
		}
	}

	matches, err := reader.Search(ctx, Params{
		Query:  q.Q,
		Offset: offset,
		Limit:  limit,
		Filter: expr,
		Sort:   criteria,
	})
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	catalog, err := reader.Fields(ctx)
	if err != nil {
		return nil, fmt.Errorf("field catalog: %w", err)
	}

	displayed, err := reader.DisplayedFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("displayed fields: %w", err)
	}
	if displayed == nil {
		displayed = fields.NewIDSet(catalog.IDs()...)
	}

	// Retrievable fields: the requested ones (all by default), always
	// within the displayed set.
	var toRetrieve fields.IDSet
	if q.AttributesToRetrieve == nil {
		toRetrieve = displayed.Clone()
	} else {
		toRetrieve = catalog.ResolveNames(q.AttributesToRetrieve, displayed)
	}

	plan := format.ComputePlan(
		q.AttributesToHighlight, q.AttributesToCrop, q.CropLength,
		toRetrieve, catalog, displayed,
	)

	builder := format.NewMatcherBuilder(matches.MatchedTerms)
	builder.SetCropMarker(q.CropMarker)
	builder.SetHighlightTags(q.HighlightPreTag, q.HighlightPostTag)

	displayedNames := catalog.Names(displayed.Sorted())
	retrieveNames := catalog.Names(toRetrieve.Sorted())

	// Hit order reflects ranking, so results land at their input index.
	hits := make([]result.Hit, len(matches.DocumentIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, id := range matches.DocumentIDs {
		g.Go(func() error {
			record, err := reader.Document(gctx, id)
			if err != nil {
				return fmt.Errorf("fetch document %d: %w", id, err)
			}
			full, err := decodeRecord(record, catalog)
			if err != nil {
				return fmt.Errorf("document %d: %w", id, err)
			}

			displayedDoc := jsonptr.SelectValues(full, displayedNames)
			document := jsonptr.SelectValues(displayedDoc, retrieveNames)

			positions, formatted := format.Fields(
				displayedDoc, catalog, builder, plan, q.ShowMatchesPosition, displayed,
			)

			if q.Sort != nil {
				geo.InsertDistance(q.Sort, document)
			}

			hits[i] = result.Hit{
				Document:        document,
				Formatted:       formatted,
				MatchesPosition: positions,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var facetDistribution map[string]map[string]uint64
	if q.Facets != nil {
		facetNames := q.Facets
		for _, f := range q.Facets {
			if f == "*" {
				facetNames = nil
				break
			}
		}
		facetDistribution, err = reader.FacetDistribution(ctx, matches.Candidates, facetNames)
		if err != nil {
			return nil, fmt.Errorf("facet distribution: %w", err)
		}
	}

	return &result.Result{
		Hits:               hits,
		EstimatedTotalHits: matches.Candidates.GetCardinality(),
		Query:              q.Q,
		Limit:              q.Limit,
		Offset:             q.Offset,
		FacetDistribution:  facetDistribution,
	}, nil
}

// decodeRecord reconstructs a document from its stored flat record. Any
// unparseable value or unknown field id is data corruption, fatal for the
// whole call.
func decodeRecord(record Record, catalog *fields.Map) (map[string]any, error) {
	document := make(map[string]any, len(record))
	for fid, raw := range record {
		name, ok := catalog.Name(fid)
		if !ok {
			return nil, fmt.Errorf("%w: unknown field id %d", domain.ErrDocumentDecode, fid)
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", domain.ErrDocumentDecode, name, err)
		}
		document[name] = value
	}
	return document, nil
}
