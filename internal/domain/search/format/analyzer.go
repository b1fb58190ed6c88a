// Package format plans and applies per-field highlight and crop rules to
// result documents, and computes match spans against the query's matched
// term set.
package format

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// Token is one UAX#29 segment of a leaf text value. Segmentation is
// exhaustive: tokens cover every byte of the input, separators included.
type Token struct {
	Text  string
	Word  string // normalized form, empty for separator segments
	Start int    // byte offset
	End   int
}

// Tokenize segments text into word and separator tokens with byte offsets.
func Tokenize(text string) []Token {
	var tokens []Token
	seg := words.FromString(text)
	offset := 0
	for seg.Next() {
		raw := seg.Value()
		tok := Token{Text: raw, Start: offset, End: offset + len(raw)}
		if isWord(raw) {
			tok.Word = Normalize(raw)
		}
		tokens = append(tokens, tok)
		offset = tok.End
	}
	return tokens
}

// Normalize maps a token to its comparison form. The engine's matched-term
// set uses the same normalization.
func Normalize(s string) string { return strings.ToLower(s) }

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
