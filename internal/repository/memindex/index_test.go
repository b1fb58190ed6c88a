package memindex

import (
	"context"
	"reflect"
	"testing"

	"github.com/prabhjot018/meilisearch/internal/domain/search/filter"
	"github.com/prabhjot018/meilisearch/internal/domain/search/sorting"
	"github.com/prabhjot018/meilisearch/internal/usecase/search"
)

func mustAdd(t *testing.T, x *Index, doc map[string]any) uint32 {
	t.Helper()
	id, err := x.AddDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	return id
}

func mustReader(t *testing.T, x *Index) search.Reader {
	t.Helper()
	r, err := x.OpenReader(context.Background())
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSearchTermMatching(t *testing.T) {
	x := New()
	for i := 0; i < 5; i++ {
		mustAdd(t, x, map[string]any{"title": "running shoe", "rank": float64(i)})
	}
	mustAdd(t, x, map[string]any{"title": "winter coat"})

	r := mustReader(t, x)
	matches, err := r.Search(context.Background(), search.Params{Query: "shoe", Offset: 0, Limit: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := matches.Candidates.GetCardinality(); got != 5 {
		t.Fatalf("candidates = %d, want 5", got)
	}
	if len(matches.DocumentIDs) != 2 {
		t.Fatalf("page size = %d, want 2", len(matches.DocumentIDs))
	}
	if !reflect.DeepEqual(matches.MatchedTerms, []string{"shoe"}) {
		t.Fatalf("matched terms = %v", matches.MatchedTerms)
	}
}

func TestSearchPlaceholderReturnsAll(t *testing.T) {
	x := New()
	mustAdd(t, x, map[string]any{"title": "a"})
	mustAdd(t, x, map[string]any{"title": "b"})

	r := mustReader(t, x)
	matches, err := r.Search(context.Background(), search.Params{Query: "", Offset: 0, Limit: 20})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := matches.Candidates.GetCardinality(); got != 2 {
		t.Fatalf("candidates = %d, want 2", got)
	}
	if len(matches.MatchedTerms) != 0 {
		t.Fatalf("matched terms = %v, want none", matches.MatchedTerms)
	}
}

func TestSearchFilter(t *testing.T) {
	x := New()
	idCheap := mustAdd(t, x, map[string]any{"title": "shoe", "price": float64(10), "color": "red"})
	mustAdd(t, x, map[string]any{"title": "shoe", "price": float64(90), "color": "blue"})

	expr, err := filter.Compile([]any{"price < 50", []any{"color = red", "color = green"}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	r := mustReader(t, x)
	matches, err := r.Search(context.Background(), search.Params{
		Query: "shoe", Limit: 20, Filter: expr,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []uint32{idCheap}; !reflect.DeepEqual(matches.DocumentIDs, want) {
		t.Fatalf("ids = %v, want %v", matches.DocumentIDs, want)
	}
}

func TestSearchFilterBadLeaf(t *testing.T) {
	x := New()
	mustAdd(t, x, map[string]any{"title": "shoe"})

	expr, err := filter.Compile("price about fifty")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	r := mustReader(t, x)
	if _, err := r.Search(context.Background(), search.Params{Query: "shoe", Limit: 20, Filter: expr}); err == nil {
		t.Fatal("expected an evaluation error")
	}
}

func TestSearchSortByField(t *testing.T) {
	x := New()
	idMid := mustAdd(t, x, map[string]any{"title": "shoe", "price": float64(50)})
	idLow := mustAdd(t, x, map[string]any{"title": "shoe", "price": float64(10)})
	idHigh := mustAdd(t, x, map[string]any{"title": "shoe", "price": float64(90)})

	crit, err := sorting.ParseList([]string{"price:asc"})
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	r := mustReader(t, x)
	matches, err := r.Search(context.Background(), search.Params{Query: "shoe", Limit: 20, Sort: crit})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []uint32{idLow, idMid, idHigh}; !reflect.DeepEqual(matches.DocumentIDs, want) {
		t.Fatalf("ids = %v, want %v", matches.DocumentIDs, want)
	}
}

func TestSearchSortByGeoPoint(t *testing.T) {
	x := New()
	idFar := mustAdd(t, x, map[string]any{
		"title": "shop", "_geo": map[string]any{"lat": float64(45.0), "lng": float64(9.0)},
	})
	idNear := mustAdd(t, x, map[string]any{
		"title": "shop", "_geo": map[string]any{"lat": float64(48.85), "lng": float64(2.35)},
	})

	crit, err := sorting.ParseList([]string{"_geoPoint(48.8583, 2.2945):asc"})
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	r := mustReader(t, x)
	matches, err := r.Search(context.Background(), search.Params{Query: "shop", Limit: 20, Sort: crit})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []uint32{idNear, idFar}; !reflect.DeepEqual(matches.DocumentIDs, want) {
		t.Fatalf("ids = %v, want %v", matches.DocumentIDs, want)
	}
}

func TestDocumentRecordRoundTrip(t *testing.T) {
	x := New()
	id := mustAdd(t, x, map[string]any{"title": "shoe", "price": float64(10)})

	r := mustReader(t, x)
	record, err := r.Document(context.Background(), id)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	catalog, err := r.Fields(context.Background())
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	fid, ok := catalog.ID("title")
	if !ok {
		t.Fatal("title not in catalog")
	}
	if got := string(record[fid]); got != `"shoe"` {
		t.Fatalf("title record = %s", got)
	}
}

func TestDisplayedFields(t *testing.T) {
	x := New()
	mustAdd(t, x, map[string]any{"title": "shoe", "secret": "x"})

	rAll := mustReader(t, x)
	if set, err := rAll.DisplayedFields(context.Background()); err != nil || set != nil {
		t.Fatalf("unrestricted = (%v, %v), want (nil, nil)", set, err)
	}

	x.SetDisplayedFields("title")
	r := mustReader(t, x)
	set, err := r.DisplayedFields(context.Background())
	if err != nil {
		t.Fatalf("DisplayedFields: %v", err)
	}
	catalog, _ := r.Fields(context.Background())
	titleID, _ := catalog.ID("title")
	secretID, _ := catalog.ID("secret")
	if !set.Contains(titleID) || set.Contains(secretID) {
		t.Fatalf("displayed set = %v", set)
	}
}

func TestFacetDistribution(t *testing.T) {
	x := New()
	mustAdd(t, x, map[string]any{"title": "a", "color": "red", "tags": []any{"new", "sale"}})
	mustAdd(t, x, map[string]any{"title": "b", "color": "red"})
	mustAdd(t, x, map[string]any{"title": "c", "color": "blue", "price": float64(10)})

	r := mustReader(t, x)
	matches, err := r.Search(context.Background(), search.Params{Query: "", Limit: 20})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	dist, err := r.FacetDistribution(context.Background(), matches.Candidates, []string{"color", "tags"})
	if err != nil {
		t.Fatalf("FacetDistribution: %v", err)
	}
	if got := dist["color"]["red"]; got != 2 {
		t.Fatalf("color=red count = %d, want 2", got)
	}
	if got := dist["color"]["blue"]; got != 1 {
		t.Fatalf("color=blue count = %d, want 1", got)
	}
	if got := dist["tags"]["sale"]; got != 1 {
		t.Fatalf("tags=sale count = %d, want 1", got)
	}

	all, err := r.FacetDistribution(context.Background(), matches.Candidates, nil)
	if err != nil {
		t.Fatalf("FacetDistribution all: %v", err)
	}
	if got := all["price"]["10"]; got != 1 {
		t.Fatalf("price=10 count = %d, want 1", got)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	x := New()
	mustAdd(t, x, map[string]any{"title": "first"})
	r := mustReader(t, x)
	mustAdd(t, x, map[string]any{"title": "second"})

	matches, err := r.Search(context.Background(), search.Params{Query: "", Limit: 20})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := matches.Candidates.GetCardinality(); got != 1 {
		t.Fatalf("snapshot candidates = %d, want 1", got)
	}
}
