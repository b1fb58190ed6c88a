package filter

import (
	"errors"
	"strings"
	"testing"
)

func TestCompile_EmptyArrayIsNoFilter(t *testing.T) {
	expr, err := Compile([]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expr != nil {
		t.Errorf("expr = %v, want nil (no filter)", expr)
	}
}

func TestCompile_StringIsSingleLeaf(t *testing.T) {
	expr, err := Compile("genres = horror AND year > 1990")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	groups := expr.Groups()
	if len(groups) != 1 || len(groups[0]) != 1 {
		t.Fatalf("groups = %v, want one single-leaf group", groups)
	}
	if groups[0][0] != "genres = horror AND year > 1990" {
		t.Errorf("leaf = %q, not carried verbatim", groups[0][0])
	}
}

func TestCompile_MixedAndsAndOrs(t *testing.T) {
	expr, err := Compile([]any{"a", []any{"b", "c"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	groups := expr.Groups()
	if len(groups) != 2 {
		t.Fatalf("groups = %v, want 2", groups)
	}
	if len(groups[0]) != 1 || groups[0][0] != "a" {
		t.Errorf("group 0 = %v, want [a]", groups[0])
	}
	if len(groups[1]) != 2 || groups[1][0] != "b" || groups[1][1] != "c" {
		t.Errorf("group 1 = %v, want [b c]", groups[1])
	}
}

func TestCompile_EmptyGroupsDropped(t *testing.T) {
	expr, err := Compile([]any{[]any{}, []any{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expr != nil {
		t.Errorf("expr = %v, want nil", expr)
	}
}

func TestCompile_ShapeErrors(t *testing.T) {
	tests := []struct {
		name         string
		expr         any
		wantExpected string
	}{
		{"number at top level", 12.0, "Array"},
		{"object at top level", map[string]any{"a": "b"}, "Array"},
		{"number element", []any{1.0, 2.0}, "String or Array"},
		{"object element", []any{map[string]any{}}, "String or Array"},
		{"nested array of arrays", []any{[]any{[]any{"a"}}}, "String"},
		{"number inside group", []any{[]any{"a", 3.0}}, "String"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr)
			if err == nil {
				t.Fatal("expected error")
			}
			var shapeErr *InvalidExpressionError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("error type = %T", err)
			}
			if !strings.Contains(err.Error(), "expected "+tt.wantExpected) {
				t.Errorf("error = %q, want mention of %q", err, tt.wantExpected)
			}
		})
	}
}

func TestCompile_ErrorNamesOffendingValue(t *testing.T) {
	_, err := Compile([]any{42.0})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "42") {
		t.Errorf("error = %q, want the offending value in the message", err)
	}
}
