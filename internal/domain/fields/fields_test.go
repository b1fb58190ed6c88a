package fields

import "testing"

func buildMap(t *testing.T, names ...string) *Map {
	t.Helper()
	m := NewMap()
	for _, name := range names {
		if _, err := m.Insert(name); err != nil {
			t.Fatalf("insert %q: %v", name, err)
		}
	}
	return m
}

func TestMap_InsertIsIdempotent(t *testing.T) {
	m := buildMap(t, "title", "body")

	id, err := m.Insert("title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 0 {
		t.Errorf("re-insert id = %d, want 0", id)
	}
	if m.Len() != 2 {
		t.Errorf("len = %d, want 2", m.Len())
	}
}

func TestMap_BidirectionalLookup(t *testing.T) {
	m := buildMap(t, "title", "body", "tags")

	id, ok := m.ID("body")
	if !ok || id != 1 {
		t.Fatalf("ID(body) = %d, %v", id, ok)
	}
	name, ok := m.Name(id)
	if !ok || name != "body" {
		t.Fatalf("Name(%d) = %q, %v", id, name, ok)
	}
	if _, ok := m.ID("missing"); ok {
		t.Error("ID(missing) should not resolve")
	}
	if _, ok := m.Name(99); ok {
		t.Error("Name(99) should not resolve")
	}
}

func TestResolveNames_Wildcard(t *testing.T) {
	m := buildMap(t, "title", "body", "hidden")
	displayed := NewIDSet(0, 1)

	got := m.ResolveNames([]string{"*", "title"}, displayed)
	if got.Len() != 2 || !got.Contains(0) || !got.Contains(1) {
		t.Errorf("wildcard resolve = %v, want displayed set", got.Sorted())
	}

	// wildcard result is a copy, not an alias
	got.Add(2)
	if displayed.Contains(2) {
		t.Error("resolve mutated the displayed set")
	}
}

func TestResolveNames_UnknownDroppedAndDisplayedIntersected(t *testing.T) {
	m := buildMap(t, "title", "body", "hidden")
	displayed := NewIDSet(0, 1)

	got := m.ResolveNames([]string{"title", "nope", "hidden"}, displayed)
	if got.Len() != 1 || !got.Contains(0) {
		t.Errorf("resolve = %v, want [0]", got.Sorted())
	}
}

func TestIDSet_IntersectAndSorted(t *testing.T) {
	a := NewIDSet(3, 1, 2)
	b := NewIDSet(2, 3, 9)

	got := a.Intersect(b).Sorted()
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("intersect = %v, want [2 3]", got)
	}
}
