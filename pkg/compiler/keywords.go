package compiler

import (
	"sort"

	mapset "github.com/deckarep/golang-set"
)

// defaultKeywords is the MiniScript reserved word list. The grammar only has
// productions for some of them; the rest are reserved so they can never be
// used as identifiers.
var defaultKeywords = []string{
	"if", "while", "for", "print", "return", "break", "continue",
	"else", "in", "range", "and", "or", "not",
}

// KeywordSet is the closed set of reserved words consulted by the lexer and
// the analyzer. The zero value is unusable; build one with DefaultKeywords or
// NewKeywordSet.
type KeywordSet struct {
	words mapset.Set
}

// DefaultKeywords returns a fresh set holding the MiniScript keywords.
func DefaultKeywords() KeywordSet {
	return NewKeywordSet()
}

// NewKeywordSet returns the default keywords plus any extra reserved words.
// The grammar keywords can never be removed.
func NewKeywordSet(extra ...string) KeywordSet {
	s := mapset.NewSet()
	for _, w := range defaultKeywords {
		s.Add(w)
	}
	for _, w := range extra {
		if w != "" {
			s.Add(w)
		}
	}
	return KeywordSet{words: s}
}

// Contains reports whether word is reserved.
func (k KeywordSet) Contains(word string) bool {
	if k.words == nil {
		return false
	}
	return k.words.Contains(word)
}

// Len returns the number of reserved words.
func (k KeywordSet) Len() int {
	if k.words == nil {
		return 0
	}
	return k.words.Cardinality()
}

// Words returns the reserved words in sorted order.
func (k KeywordSet) Words() []string {
	if k.words == nil {
		return nil
	}
	out := make([]string, 0, k.words.Cardinality())
	for _, w := range k.words.ToSlice() {
		out = append(out, w.(string))
	}
	sort.Strings(out)
	return out
}

func (k KeywordSet) valid() bool { return k.words != nil }
