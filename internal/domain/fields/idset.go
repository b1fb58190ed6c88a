package fields

import "sort"

// IDSet is an unordered set of field ids. Use Sorted for deterministic
// iteration.
type IDSet map[ID]struct{}

// NewIDSet creates a set holding the given ids.
func NewIDSet(ids ...ID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an id.
func (s IDSet) Add(id ID) { s[id] = struct{}{} }

// Contains reports whether id is in the set.
func (s IDSet) Contains(id ID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the set cardinality.
func (s IDSet) Len() int { return len(s) }

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Intersect returns the ids present in both sets.
func (s IDSet) Intersect(other IDSet) IDSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := NewIDSet()
	for id := range small {
		if large.Contains(id) {
			out.Add(id)
		}
	}
	return out
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []ID {
	ids := make([]ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
