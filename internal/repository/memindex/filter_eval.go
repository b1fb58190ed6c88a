package memindex

import (
	"fmt"
	"strconv"
	"strings"
)

// evalFilter applies a compiled expression to one document: groups are
// joined with AND, leaves inside a group with OR.
func evalFilter(doc map[string]any, groups [][]string) (bool, error) {
	for _, group := range groups {
		matched := false
		for _, leaf := range group {
			ok, err := evalLeaf(doc, leaf)
			if err != nil {
				return false, err
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

var leafOperators = []string{"!=", ">=", "<=", "=", ">", "<"}

func evalLeaf(doc map[string]any, leaf string) (bool, error) {
	for _, op := range leafOperators {
		idx := strings.Index(leaf, op)
		if idx < 0 {
			continue
		}
		field := strings.TrimSpace(leaf[:idx])
		raw := strings.TrimSpace(leaf[idx+len(op):])
		if field == "" || raw == "" {
			break
		}
		value, ok := lookupPath(doc, field)
		if !ok {
			// a missing field satisfies only the != operator
			return op == "!=", nil
		}
		return compareLeaf(value, op, raw)
	}
	return false, fmt.Errorf("unable to evaluate filter condition %q", leaf)
}

func compareLeaf(value any, op, raw string) (bool, error) {
	if arr, ok := value.([]any); ok {
		for _, elem := range arr {
			ok, err := compareLeaf(elem, op, raw)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	}

	if want, err := strconv.ParseFloat(raw, 64); err == nil {
		if have, ok := toFloat(value); ok {
			return compareOrdered(compareFloats(have, want), op), nil
		}
	}

	have := strings.ToLower(fmt.Sprintf("%v", value))
	want := strings.ToLower(strings.Trim(raw, `"'`))
	switch op {
	case "=":
		return have == want, nil
	case "!=":
		return have != want, nil
	default:
		return compareOrdered(strings.Compare(have, want), op), nil
	}
}

func compareOrdered(cmp int, op string) bool {
	switch op {
	case "=":
		return cmp == 0
	case "!=":
		return cmp != 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	case "<":
		return cmp < 0
	default:
		return cmp <= 0
	}
}
