package jsonptr

import (
	"reflect"
	"testing"
)

func TestIsSubPath(t *testing.T) {
	tests := []struct {
		path, parent string
		want         bool
	}{
		{"doggo", "doggo", true},
		{"doggo.name", "doggo", true},
		{"doggo.name.first", "doggo", true},
		{"doggo", "doggo.name", false},
		{"doggos", "doggo", false},
		{"prices.min", "price", false},
		{"", "", true},
	}
	for _, tt := range tests {
		if got := IsSubPath(tt.path, tt.parent); got != tt.want {
			t.Errorf("IsSubPath(%q, %q) = %v, want %v", tt.path, tt.parent, got, tt.want)
		}
	}
}

func TestRelated(t *testing.T) {
	if !Related("doggo", "doggo.name") {
		t.Error("ancestor should be related to descendant")
	}
	if !Related("doggo.name", "doggo") {
		t.Error("descendant should be related to ancestor")
	}
	if Related("doggos", "doggo") {
		t.Error("sibling prefix must not be related")
	}
}

func TestSelectValues_WholeSubtree(t *testing.T) {
	doc := map[string]any{
		"title": "shoes",
		"owner": map[string]any{"name": "jean", "age": 8.0},
	}

	got := SelectValues(doc, []string{"owner"})
	want := map[string]any{
		"owner": map[string]any{"name": "jean", "age": 8.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelectValues_NestedPath(t *testing.T) {
	doc := map[string]any{
		"title": "shoes",
		"owner": map[string]any{"name": "jean", "age": 8.0},
	}

	got := SelectValues(doc, []string{"owner.name", "title"})
	want := map[string]any{
		"title": "shoes",
		"owner": map[string]any{"name": "jean"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelectValues_DescendsArrays(t *testing.T) {
	doc := map[string]any{
		"doggos": []any{
			map[string]any{"name": "bobby", "age": 2.0},
			map[string]any{"name": "buddy", "age": 4.0},
			"stray",
		},
	}

	got := SelectValues(doc, []string{"doggos.name"})
	want := map[string]any{
		"doggos": []any{
			map[string]any{"name": "bobby"},
			map[string]any{"name": "buddy"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelectValues_NoMatchIsEmpty(t *testing.T) {
	doc := map[string]any{"title": "shoes"}
	if got := SelectValues(doc, []string{"body"}); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestSelectValues_CopiesSubtrees(t *testing.T) {
	doc := map[string]any{"owner": map[string]any{"name": "jean"}}
	got := SelectValues(doc, []string{"owner"})
	got["owner"].(map[string]any)["name"] = "paul"
	if doc["owner"].(map[string]any)["name"] != "jean" {
		t.Error("selection must not alias the source tree")
	}
}

func TestMapLeafValues_PathsAndReplacement(t *testing.T) {
	doc := map[string]any{
		"title": "shoes",
		"owner": map[string]any{"name": "jean"},
		"price": 10.0,
	}

	var visited []string
	MapLeafValues(doc, []string{"title", "owner.name"}, func(path string, v any) any {
		visited = append(visited, path)
		if s, ok := v.(string); ok {
			return s + "!"
		}
		return v
	})

	if len(visited) != 2 {
		t.Fatalf("visited = %v, want 2 leaves", visited)
	}
	if doc["title"] != "shoes!" {
		t.Errorf("title = %v", doc["title"])
	}
	if doc["owner"].(map[string]any)["name"] != "jean!" {
		t.Errorf("owner.name = %v", doc["owner"].(map[string]any)["name"])
	}
	if doc["price"] != 10.0 {
		t.Errorf("price was visited: %v", doc["price"])
	}
}

func TestMapLeafValues_AncestorSelectorCoversLeaves(t *testing.T) {
	doc := map[string]any{
		"owner": map[string]any{"name": "jean", "age": 8.0},
	}

	var visited []string
	MapLeafValues(doc, []string{"owner"}, func(path string, v any) any {
		visited = append(visited, path)
		return v
	})
	if len(visited) != 2 {
		t.Errorf("visited = %v, want both nested leaves", visited)
	}
}

func TestClone_Independent(t *testing.T) {
	src := map[string]any{"a": []any{map[string]any{"b": 1.0}}}
	dst := Clone(src).(map[string]any)
	dst["a"].([]any)[0].(map[string]any)["b"] = 2.0
	if src["a"].([]any)[0].(map[string]any)["b"] != 1.0 {
		t.Error("clone aliases the source")
	}
}
