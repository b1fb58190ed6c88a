package format

import "strings"

// MatchBounds is a byte (start, length) region of a leaf value matching a
// query term.
type MatchBounds struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// MatcherBuilder carries the matched-term set and the formatting markers
// shared by every matcher of one search call.
type MatcherBuilder struct {
	terms   map[string]struct{}
	preTag  string
	postTag string
	marker  string
}

// NewMatcherBuilder creates a builder over the engine's matched-term set.
func NewMatcherBuilder(matchedTerms []string) *MatcherBuilder {
	terms := make(map[string]struct{}, len(matchedTerms))
	for _, t := range matchedTerms {
		terms[Normalize(t)] = struct{}{}
	}
	return &MatcherBuilder{terms: terms}
}

// SetCropMarker sets the marker inserted where text was truncated.
func (b *MatcherBuilder) SetCropMarker(marker string) { b.marker = marker }

// SetHighlightTags sets the tags wrapped around matched words.
func (b *MatcherBuilder) SetHighlightTags(pre, post string) {
	b.preTag = pre
	b.postTag = post
}

// Build creates a matcher for one tokenized leaf value.
func (b *MatcherBuilder) Build(tokens []Token, text string) *Matcher {
	var matched []int
	for i, tok := range tokens {
		if tok.Word == "" {
			continue
		}
		if _, ok := b.terms[tok.Word]; ok {
			matched = append(matched, i)
		}
	}
	return &Matcher{builder: b, tokens: tokens, text: text, matched: matched}
}

// Matcher formats one leaf value and reports its match spans.
type Matcher struct {
	builder *MatcherBuilder
	tokens  []Token
	text    string
	matched []int // indexes into tokens
}

// Matches returns the spans of matched words in the original text.
func (m *Matcher) Matches() []MatchBounds {
	bounds := make([]MatchBounds, 0, len(m.matched))
	for _, i := range m.matched {
		tok := m.tokens[i]
		bounds = append(bounds, MatchBounds{Start: tok.Start, Length: tok.End - tok.Start})
	}
	return bounds
}

// Format rewrites the text per the given options: matched words wrapped in
// highlight tags, text cropped to a window of words around the first match
// with the crop marker on truncated edges. With no highlight and no crop
// the text is returned unchanged.
func (m *Matcher) Format(opts Options) string {
	cropping := opts.Crop != nil && *opts.Crop > 0
	if (!opts.Highlight && !cropping) || len(m.tokens) == 0 {
		return m.text
	}

	lo, hi := 0, len(m.tokens)-1
	if cropping {
		lo, hi = m.cropWindow(*opts.Crop)
	}

	matched := make(map[int]bool, len(m.matched))
	for _, i := range m.matched {
		matched[i] = true
	}

	var sb strings.Builder
	if lo > 0 {
		sb.WriteString(m.builder.marker)
	}
	for i := lo; i <= hi; i++ {
		tok := m.tokens[i]
		if opts.Highlight && matched[i] {
			sb.WriteString(m.builder.preTag)
			sb.WriteString(tok.Text)
			sb.WriteString(m.builder.postTag)
		} else {
			sb.WriteString(tok.Text)
		}
	}
	if hi < len(m.tokens)-1 {
		sb.WriteString(m.builder.marker)
	}
	return sb.String()
}

// cropWindow picks the inclusive token range covering n words around the
// first matched word, balanced on both sides and clamped to the text. With
// no match the window starts at the beginning.
func (m *Matcher) cropWindow(n int) (lo, hi int) {
	var wordIdx []int
	for i, tok := range m.tokens {
		if tok.Word != "" {
			wordIdx = append(wordIdx, i)
		}
	}
	if len(wordIdx) <= n {
		return 0, len(m.tokens) - 1
	}

	first := 0
	if len(m.matched) > 0 {
		for w, ti := range wordIdx {
			if ti == m.matched[0] {
				first = w
				break
			}
		}
	}

	start := first - (n-1)/2
	if start > len(wordIdx)-n {
		start = len(wordIdx) - n
	}
	if start < 0 {
		start = 0
	}
	return wordIdx[start], wordIdx[start+n-1]
}
