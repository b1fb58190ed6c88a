package format

import (
	"encoding/json"
	"strconv"

	"github.com/prabhjot018/meilisearch/internal/domain/fields"
	"github.com/prabhjot018/meilisearch/pkg/jsonptr"
)

// MatchesPosition maps a leaf path to the spans of matched words in its
// value.
type MatchesPosition map[string][]MatchBounds

// Fields walks every leaf of the document reachable under the displayed
// field paths, formats each per the merged plan rules covering its path,
// and returns the match positions plus the formatted view filtered down to
// the planned field paths. The input document is not modified.
//
// Positions are nil when computeMatches is false or no leaf matched.
func Fields(
	document map[string]any,
	catalog *fields.Map,
	builder *MatcherBuilder,
	plan Plan,
	computeMatches bool,
	displayed fields.IDSet,
) (MatchesPosition, map[string]any) {
	doc := jsonptr.Clone(document).(map[string]any)
	displayedNames := catalog.Names(displayed.Sorted())

	// plan entries in catalog order, names resolved once
	type planEntry struct {
		name string
		opts Options
	}
	entries := make([]planEntry, 0, len(plan))
	for _, id := range plan.SortedIDs() {
		if name, ok := catalog.Name(id); ok {
			entries = append(entries, planEntry{name: name, opts: plan[id]})
		}
	}

	var positions MatchesPosition
	if computeMatches {
		positions = make(MatchesPosition)
	}

	jsonptr.MapLeafValues(doc, displayedNames, func(path string, value any) any {
		// Merge every rule whose field is an ancestor or descendant of this
		// leaf. Highlighting "owner" and cropping "owner.name" crops and
		// highlights owner.name while owner.age is only highlighted.
		var opts *Options
		for _, e := range entries {
			if !jsonptr.Related(e.name, path) {
				continue
			}
			if opts == nil {
				merged := e.opts
				opts = &merged
			} else {
				merged := opts.Merge(e.opts)
				opts = &merged
			}
		}

		var spans []MatchBounds
		out := formatValue(value, builder, opts, &spans, computeMatches)
		if positions != nil && len(spans) > 0 {
			positions[path] = spans
		}
		return out
	})

	planNames := make([]string, 0, len(entries))
	for _, e := range entries {
		planNames = append(planNames, e.name)
	}
	formatted := jsonptr.SelectValues(doc, planNames)

	if len(positions) == 0 {
		positions = nil
	}
	return positions, formatted
}

// formatValue applies the leaf rules per value type. Strings and numbers
// are tokenized and matched; a number with an active plan becomes a
// formatted string. Arrays and objects recurse with crop suppressed so
// only the top-level leaf may be truncated. Other values pass through.
func formatValue(value any, builder *MatcherBuilder, opts *Options, spans *[]MatchBounds, computeMatches bool) any {
	switch v := value.(type) {
	case string:
		return formatText(v, value, builder, opts, spans, computeMatches)
	case json.Number:
		return formatText(v.String(), value, builder, opts, spans, computeMatches)
	case float64:
		return formatText(strconv.FormatFloat(v, 'f', -1, 64), value, builder, opts, spans, computeMatches)
	case []any:
		child := childOptions(opts)
		for i := range v {
			v[i] = formatValue(v[i], builder, child, spans, computeMatches)
		}
		return v
	case map[string]any:
		child := childOptions(opts)
		for k := range v {
			v[k] = formatValue(v[k], builder, child, spans, computeMatches)
		}
		return v
	default:
		return value
	}
}

func formatText(text string, original any, builder *MatcherBuilder, opts *Options, spans *[]MatchBounds, computeMatches bool) any {
	tokens := Tokenize(text)
	m := builder.Build(tokens, text)
	if computeMatches {
		*spans = append(*spans, m.Matches()...)
	}
	if opts == nil {
		return original
	}
	return m.Format(*opts)
}

func childOptions(opts *Options) *Options {
	if opts == nil {
		return nil
	}
	return &Options{Highlight: opts.Highlight}
}
