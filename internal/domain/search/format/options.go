package format

import (
	"strconv"
	"strings"

	"github.com/prabhjot018/meilisearch/internal/domain/fields"
)

// Options is the merged highlight/crop rule for one field.
type Options struct {
	Highlight bool
	Crop      *int // nil means no crop
}

// Merge combines two rules covering the same leaf: highlight is OR-ed,
// crop takes the last-applied value when other carries one.
func (o Options) Merge(other Options) Options {
	crop := o.Crop
	if other.Crop != nil {
		crop = other.Crop
	}
	return Options{Highlight: o.Highlight || other.Highlight, Crop: crop}
}

// Plan maps field ids to their format options. Folds over a plan iterate
// ids in ascending order, which makes overlapping-rule merges
// deterministic.
type Plan map[fields.ID]Options

// SortedIDs returns the planned field ids in ascending (catalog) order.
func (p Plan) SortedIDs() []fields.ID {
	set := fields.NewIDSet()
	for id := range p {
		set.Add(id)
	}
	return set.Sorted()
}

// ComputePlan builds the per-field format plan. Highlighted attributes set
// highlight, cropped attributes set a crop length (inline "name:length"
// overrides the default), both restricted to displayed fields with "*"
// expanding to all of them. When any rule was produced, retrieved fields
// not yet planned are added as plain copies; an empty plan stays empty so
// that no formatted view is produced at all.
func ComputePlan(
	highlightAttrs, cropAttrs []string,
	cropLength int,
	retrieveIDs fields.IDSet,
	catalog *fields.Map,
	displayed fields.IDSet,
) Plan {
	plan := make(Plan)
	addHighlight(plan, highlightAttrs, catalog, displayed)
	addCrop(plan, cropAttrs, cropLength, catalog, displayed)

	if len(plan) > 0 {
		for _, id := range retrieveIDs.Sorted() {
			if _, ok := plan[id]; !ok {
				plan[id] = Options{}
			}
		}
	}
	return plan
}

func addHighlight(plan Plan, attrs []string, catalog *fields.Map, displayed fields.IDSet) {
	for _, attr := range attrs {
		if attr == "*" {
			for _, id := range displayed.Sorted() {
				o := plan[id]
				o.Highlight = true
				plan[id] = o
			}
			break
		}
		if id, ok := catalog.ID(attr); ok && displayed.Contains(id) {
			o := plan[id]
			o.Highlight = true
			plan[id] = o
		}
	}
}

func addCrop(plan Plan, attrs []string, defaultLength int, catalog *fields.Map, displayed fields.IDSet) {
	for _, attr := range attrs {
		name, length := parseCropAttr(attr, defaultLength)
		if name == "*" {
			for _, id := range displayed.Sorted() {
				setCrop(plan, id, length)
			}
			continue
		}
		if id, ok := catalog.ID(name); ok && displayed.Contains(id) {
			setCrop(plan, id, length)
		}
	}
}

func setCrop(plan Plan, id fields.ID, length int) {
	o := plan[id]
	l := length
	o.Crop = &l
	plan[id] = o
}

// parseCropAttr splits an optional ":<length>" suffix off a crop attribute.
// The rightmost colon separates the field name from the length; a suffix
// that is not a valid non-negative integer falls back to the default.
func parseCropAttr(attr string, defaultLength int) (name string, length int) {
	i := strings.LastIndexByte(attr, ':')
	if i < 0 {
		return attr, defaultLength
	}
	name = attr[:i]
	if n, err := strconv.Atoi(attr[i+1:]); err == nil && n >= 0 {
		return name, n
	}
	return name, defaultLength
}
