package memindex

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/prabhjot018/meilisearch/internal/domain"
	"github.com/prabhjot018/meilisearch/internal/domain/fields"
	"github.com/prabhjot018/meilisearch/internal/domain/geo"
	"github.com/prabhjot018/meilisearch/internal/domain/search/format"
	"github.com/prabhjot018/meilisearch/internal/domain/search/sorting"
	"github.com/prabhjot018/meilisearch/internal/usecase/search"
)

type reader struct {
	catalog        *fields.Map
	displayedNames []string
	docs           map[uint32]map[string]any
	order          []uint32
	store          DocumentStore
}

func (r *reader) Close() error { return nil }

func (r *reader) Fields(_ context.Context) (*fields.Map, error) {
	return r.catalog, nil
}

func (r *reader) DisplayedFields(_ context.Context) (fields.IDSet, error) {
	if r.displayedNames == nil {
		return nil, nil
	}
	set := fields.NewIDSet()
	for _, name := range r.displayedNames {
		if id, ok := r.catalog.ID(name); ok {
			set.Add(id)
		}
	}
	return set, nil
}

func (r *reader) Document(ctx context.Context, id uint32) (search.Record, error) {
	return r.store.Record(ctx, id)
}

func (r *reader) Search(_ context.Context, p search.Params) (*search.Matches, error) {
	queryWords := make(map[string]struct{})
	for _, tok := range format.Tokenize(p.Query) {
		if tok.Word != "" {
			queryWords[tok.Word] = struct{}{}
		}
	}

	type scored struct {
		id    uint32
		score int
	}
	var ranked []scored
	candidates := roaring.New()

	for _, id := range r.order {
		doc := r.docs[id]

		if p.Filter != nil {
			ok, err := evalFilter(doc, p.Filter.Groups())
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}

		score := 0
		if len(queryWords) > 0 {
			docWords := make(map[string]struct{})
			leafWords(doc, docWords)
			for w := range queryWords {
				if _, ok := docWords[w]; ok {
					score++
				}
			}
			if score == 0 {
				continue
			}
		}

		candidates.Add(id)
		ranked = append(ranked, scored{id: id, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := r.docs[ranked[i].id], r.docs[ranked[j].id]
		for _, c := range p.Sort {
			if cmp := compareByCriterion(a, b, c); cmp != 0 {
				return cmp < 0
			}
		}
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	lo := p.Offset
	if lo > len(ranked) {
		lo = len(ranked)
	}
	hi := lo + p.Limit
	if hi > len(ranked) {
		hi = len(ranked)
	}
	ids := make([]uint32, 0, hi-lo)
	for _, s := range ranked[lo:hi] {
		ids = append(ids, s.id)
	}

	terms := make([]string, 0, len(queryWords))
	for w := range queryWords {
		terms = append(terms, w)
	}
	sort.Strings(terms)

	return &search.Matches{
		DocumentIDs:  ids,
		MatchedTerms: terms,
		Candidates:   candidates,
	}, nil
}

func (r *reader) FacetDistribution(
	_ context.Context, candidates *roaring.Bitmap, facetNames []string,
) (map[string]map[string]uint64, error) {
	if facetNames == nil {
		for _, name := range r.catalog.Names(r.catalog.IDs()) {
			if !strings.Contains(name, ".") {
				facetNames = append(facetNames, name)
			}
		}
	}

	distribution := make(map[string]map[string]uint64, len(facetNames))
	it := candidates.Iterator()
	for it.HasNext() {
		doc, ok := r.docs[it.Next()]
		if !ok {
			continue
		}
		for _, name := range facetNames {
			value, ok := lookupPath(doc, name)
			if !ok {
				continue
			}
			for _, s := range facetStrings(value) {
				if distribution[name] == nil {
					distribution[name] = make(map[string]uint64)
				}
				distribution[name][s]++
			}
		}
	}
	return distribution, nil
}

// facetStrings renders a facet value into countable strings. Arrays count
// each element; objects and nulls are not facetable.
func facetStrings(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case float64:
		return []string{fmt.Sprintf("%v", v)}
	case json.Number:
		return []string{v.String()}
	case bool:
		return []string{fmt.Sprintf("%t", v)}
	case []any:
		var out []string
		for _, elem := range v {
			out = append(out, facetStrings(elem)...)
		}
		return out
	default:
		return nil
	}
}

// compareByCriterion orders two documents by one sort directive. Geo
// directives order by distance to the query point.
func compareByCriterion(a, b map[string]any, c sorting.Criterion) int {
	var cmp int
	if lat, lng, ok := geo.FirstPoint([]string{c.Field}); ok {
		cmp = compareFloats(docDistance(a, lat, lng), docDistance(b, lat, lng))
	} else {
		av, aok := lookupPath(a, c.Field)
		bv, bok := lookupPath(b, c.Field)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1 // missing values sort last either way
		case !bok:
			return -1
		default:
			cmp = compareValues(av, bv)
		}
	}
	if c.Direction == sorting.Desc {
		cmp = -cmp
	}
	return cmp
}

func docDistance(doc map[string]any, lat, lng float64) float64 {
	point, ok := doc[geo.GeoField].(map[string]any)
	if !ok {
		return 0
	}
	dlat, ok1 := toFloat(point["lat"])
	dlng, ok2 := toFloat(point["lng"])
	if !ok1 || !ok2 {
		return 0
	}
	return geo.Haversine(lat, lng, dlat, dlng)
}

func compareValues(a, b any) int {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		return compareFloats(af, bf)
	}
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// lookupPath navigates a dotted path through nested objects.
func lookupPath(doc map[string]any, path string) (any, bool) {
	if v, ok := doc[path]; ok {
		return v, true
	}
	head, rest, found := strings.Cut(path, ".")
	if !found {
		return nil, false
	}
	child, ok := doc[head].(map[string]any)
	if !ok {
		return nil, false
	}
	return lookupPath(child, rest)
}

type memStore struct {
	mu      sync.RWMutex
	records map[uint32]search.Record
}

func newMemStore() *memStore {
	return &memStore{records: make(map[uint32]search.Record)}
}

func (s *memStore) PutRecord(_ context.Context, id uint32, record search.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = record
	return nil
}

func (s *memStore) Record(_ context.Context, id uint32) (search.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return record, nil
}
