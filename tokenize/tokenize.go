// Package tokenize turns free text into the keyword set Engine.Register
// expects. It sits entirely outside the core graph (the core never
// prescribes how keywords are produced) and is deliberately simple: split
// on Unicode letter/digit runs, fold case, drop short or stopword tokens,
// and de-duplicate.
package tokenize

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fraglab/qsearch/internal/asciifold"
)

// DefaultMinTokenLength is used when Options.MinTokenLength is zero.
const DefaultMinTokenLength = 2

// Options configures Tokenize.
type Options struct {
	// MinTokenLength discards tokens with fewer runes than this. Zero means
	// DefaultMinTokenLength.
	MinTokenLength int
	// StopWords, if non-nil, is a set of already-folded tokens to discard.
	StopWords map[string]struct{}
}

var lowerCaser = cases.Lower(language.Und)

// Tokenize splits text into a de-duplicated slice of lowercase keywords
// suitable for Engine.Register, applying the default options.
func Tokenize(text string) []string {
	return TokenizeWithOptions(text, Options{})
}

// TokenizeWithOptions is Tokenize with explicit control over minimum token
// length and stopword filtering.
func TokenizeWithOptions(text string, opts Options) []string {
	minLen := opts.MinTokenLength
	if minLen == 0 {
		minLen = DefaultMinTokenLength
	}

	seen := make(map[string]struct{})
	var out []string

	for _, raw := range splitWords(text) {
		folded := fold(raw)
		if runeCount(folded) < minLen {
			continue
		}
		if _, stop := opts.StopWords[folded]; stop {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		out = append(out, folded)
	}
	return out
}

// splitWords breaks text into maximal runs of letters and digits, the
// boundary being any rune that is neither (punctuation, whitespace, symbols).
func splitWords(text string) []string {
	var words []string
	start := -1
	runes := []rune(text)
	for i, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			words = append(words, string(runes[start:i]))
			start = -1
		}
	}
	if start != -1 {
		words = append(words, string(runes[start:]))
	}
	return words
}

// fold case-folds a single token, taking the ASCII fast path when possible
// and falling back to golang.org/x/text/cases for anything else.
func fold(s string) string {
	if asciifold.IsASCII(s) {
		return asciifold.Lower(s)
	}
	return lowerCaser.String(s)
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
