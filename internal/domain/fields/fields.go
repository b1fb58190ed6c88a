// Package fields holds the index field catalog: stable numeric field
// identifiers with bidirectional name lookup, valid for the lifetime of one
// index snapshot.
package fields

import "fmt"

// MaxFields is the maximum number of fields one index can hold.
const MaxFields = 1 << 16

// ID is an opaque numeric field identifier. IDs are assigned in insertion
// order and never reused within a snapshot.
type ID uint16

// Map is the field catalog. The zero ID order is the canonical field order
// used wherever deterministic iteration is required.
type Map struct {
	byName map[string]ID
	byID   []string
}

// NewMap creates an empty field catalog.
func NewMap() *Map {
	return &Map{byName: make(map[string]ID)}
}

// Insert registers a field name, returning its id. Inserting an existing
// name returns the already-assigned id.
func (m *Map) Insert(name string) (ID, error) {
	if id, ok := m.byName[name]; ok {
		return id, nil
	}
	if len(m.byID) >= MaxFields {
		return 0, fmt.Errorf("field catalog full (max %d)", MaxFields)
	}
	id := ID(len(m.byID))
	m.byName[name] = id
	m.byID = append(m.byID, name)
	return id, nil
}

// Clone returns an independent copy of the catalog, preserving ids.
func (m *Map) Clone() *Map {
	c := &Map{
		byName: make(map[string]ID, len(m.byName)),
		byID:   append([]string(nil), m.byID...),
	}
	for name, id := range m.byName {
		c.byName[name] = id
	}
	return c
}

// ID returns the id assigned to name.
func (m *Map) ID(name string) (ID, bool) {
	id, ok := m.byName[name]
	return id, ok
}

// Name returns the name of the given id.
func (m *Map) Name(id ID) (string, bool) {
	if int(id) >= len(m.byID) {
		return "", false
	}
	return m.byID[id], true
}

// Len returns the number of registered fields.
func (m *Map) Len() int { return len(m.byID) }

// IDs returns every field id in canonical (ascending) order.
func (m *Map) IDs() []ID {
	ids := make([]ID, len(m.byID))
	for i := range m.byID {
		ids[i] = ID(i)
	}
	return ids
}

// Names resolves ids to names in the given order, skipping ids unknown to
// the catalog.
func (m *Map) Names(ids []ID) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := m.Name(id); ok {
			names = append(names, name)
		}
	}
	return names
}

// ResolveNames maps attribute names to field ids. "*" expands to the full
// displayed set and short-circuits. Names absent from the catalog are
// silently dropped. The result is always a subset of displayed; fields
// outside the displayed set never resolve even when explicitly named.
func (m *Map) ResolveNames(names []string, displayed IDSet) IDSet {
	ids := NewIDSet()
	for _, name := range names {
		if name == "*" {
			return displayed.Clone()
		}
		if id, ok := m.byName[name]; ok && displayed.Contains(id) {
			ids.Add(id)
		}
	}
	return ids
}
