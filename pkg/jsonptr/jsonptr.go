// Package jsonptr projects and rewrites JSON-like trees
// (map[string]any / []any) by dotted-path selectors.
//
// A selector names either a whole subtree ("address") or a nested leaf
// ("address.city"). Path relations are computed on segments, never by
// substring: "price" is unrelated to "prices.min".
package jsonptr

import "strings"

const sep = "."

// IsSubPath reports whether path equals parent or lives under it
// (segment-wise prefix with the path separator).
func IsSubPath(path, parent string) bool {
	return path == parent || strings.HasPrefix(path, parent+sep)
}

// Related reports whether a and b are equal or one is an ancestor of the
// other.
func Related(a, b string) bool {
	return IsSubPath(a, b) || IsSubPath(b, a)
}

// SelectValues returns a new tree containing only the parts of value
// reachable through the selectors. A selector naming an object or array
// copies the whole subtree; a dotted selector descends into objects and
// into every element of arrays. Keys with no matching selector are absent
// from the result.
func SelectValues(value map[string]any, selectors []string) map[string]any {
	out := make(map[string]any)
	for key, val := range value {
		take := false
		var sub []string
		for _, s := range selectors {
			if s == key {
				take = true
				break
			}
			if strings.HasPrefix(s, key+sep) {
				sub = append(sub, s[len(key)+1:])
			}
		}
		switch {
		case take:
			out[key] = Clone(val)
		case len(sub) > 0:
			switch child := val.(type) {
			case map[string]any:
				if picked := SelectValues(child, sub); len(picked) > 0 {
					out[key] = picked
				}
			case []any:
				if picked := selectArray(child, sub); len(picked) > 0 {
					out[key] = picked
				}
			}
		}
	}
	return out
}

func selectArray(values []any, selectors []string) []any {
	var out []any
	for _, val := range values {
		switch child := val.(type) {
		case map[string]any:
			if picked := SelectValues(child, selectors); len(picked) > 0 {
				out = append(out, picked)
			}
		case []any:
			if picked := selectArray(child, selectors); len(picked) > 0 {
				out = append(out, picked)
			}
		}
	}
	return out
}

// MapLeafValues rewrites, in place, every leaf value whose dotted path is
// related to at least one selector. A leaf is any non-object value; arrays
// are handed to fn whole, the caller decides how to descend. fn receives
// the full dotted path of the leaf and returns its replacement.
func MapLeafValues(value map[string]any, selectors []string, fn func(path string, value any) any) {
	mapLeaves(value, "", selectors, fn)
}

func mapLeaves(obj map[string]any, prefix string, selectors []string, fn func(string, any) any) {
	for key, val := range obj {
		path := key
		if prefix != "" {
			path = prefix + sep + key
		}
		selected := false
		for _, s := range selectors {
			if Related(path, s) {
				selected = true
				break
			}
		}
		if !selected {
			continue
		}
		if child, ok := val.(map[string]any); ok {
			mapLeaves(child, path, selectors, fn)
			continue
		}
		obj[key] = fn(path, val)
	}
}

// Clone deep-copies a JSON-like value. Scalars are returned as-is.
func Clone(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = Clone(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = Clone(val)
		}
		return out
	default:
		return value
	}
}
