// Package filter compiles a loosely-typed filter expression into a
// structured boolean predicate: a conjunction of groups, each group a
// disjunction of opaque predicate leaves. Leaves are engine-specific
// condition strings; this package validates shape only and never evaluates
// anything.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Expression is the compiled predicate tree: AND over groups, OR within a
// group. A group with a single leaf is a plain AND-ed condition.
type Expression struct {
	groups [][]string
}

// Groups returns the AND-ed OR-groups of predicate leaves.
func (e *Expression) Groups() [][]string { return e.groups }

// InvalidExpressionError reports a filter value of the wrong JSON shape.
// Expected holds the shape names accepted at that position.
type InvalidExpressionError struct {
	Expected []string
	Value    any
}

func (e *InvalidExpressionError) Error() string {
	return fmt.Sprintf(
		"invalid syntax for the filter parameter: expected %s, found: %s",
		strings.Join(e.Expected, " or "), renderValue(e.Value),
	)
}

func renderValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// Compile parses an untyped filter expression into an Expression.
//
// A string is carried verbatim as a single predicate leaf for the engine's
// predicate parser. An array mixes AND-ed leaf strings and OR-groups
// (arrays of strings). Anything else is a shape error. A structure that
// denotes no constraint (empty array, groups all empty) compiles to nil.
func Compile(expr any) (*Expression, error) {
	switch v := expr.(type) {
	case string:
		return &Expression{groups: [][]string{{v}}}, nil
	case []any:
		return compileArray(v)
	default:
		return nil, &InvalidExpressionError{Expected: []string{"Array"}, Value: expr}
	}
}

func compileArray(arr []any) (*Expression, error) {
	var groups [][]string
	for _, elem := range arr {
		switch v := elem.(type) {
		case string:
			groups = append(groups, []string{v})
		case []any:
			var ors []string
			for _, inner := range v {
				s, ok := inner.(string)
				if !ok {
					return nil, &InvalidExpressionError{Expected: []string{"String"}, Value: inner}
				}
				ors = append(ors, s)
			}
			if len(ors) > 0 {
				groups = append(groups, ors)
			}
		default:
			return nil, &InvalidExpressionError{Expected: []string{"String", "Array"}, Value: elem}
		}
	}
	if len(groups) == 0 {
		return nil, nil
	}
	return &Expression{groups: groups}, nil
}
