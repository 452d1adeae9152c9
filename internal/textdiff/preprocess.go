package textdiff

import (
	"fmt"
	"unicode"
)

// punctuation is always stripped under IgnorePunctuation, in addition to Unicode category P. It lists the ASCII symbols that users treat as punctuation even though
// Unicode files some of them under S (ex: '$', '^', '=', '`', '~').
const punctuation = ".,!/#$%^&*;:{}=-_`~()\""

// IndexMap maps comparison-text rune offsets back to raw-text rune offsets. It is immutable once built.
//
// Invariant: offsets are strictly increasing, and At(p) is the raw offset of the rune that produced comparison rune p.
type IndexMap struct {
	offsets []int
}

// Len returns the number of comparison runes covered by m.
func (m IndexMap) Len() int {
	return len(m.offsets)
}

// At returns the raw offset of comparison rune p. It panics if p is out of range.
func (m IndexMap) At(p int) int {
	if p < 0 || p >= len(m.offsets) {
		panic(fmt.Sprintf("textdiff: index map access %d out of range [0,%d)", p, len(m.offsets)))
	}
	return m.offsets[p]
}

// Offsets returns a copy of the raw offsets.
func (m IndexMap) Offsets() []int {
	out := make([]int, len(m.offsets))
	copy(out, m.offsets)
	return out
}

// Preprocess produces the comparison text for raw under cfg, along with the IndexMap from comparison offsets to raw offsets. Case folding maps each rune to exactly one
// rune; punctuation stripping drops runes (and their map entries). Whitespace is always kept.
func Preprocess(raw []rune, cfg Config) ([]rune, IndexMap) {
	comp := make([]rune, 0, len(raw))
	offsets := make([]int, 0, len(raw))
	for i, r := range raw {
		if cfg.IgnorePunctuation && IsPunctuation(r) {
			continue
		}
		if cfg.IgnoreCase {
			r = unicode.ToLower(r)
		}
		comp = append(comp, r)
		offsets = append(offsets, i)
	}
	return comp, IndexMap{offsets: offsets}
}

// PreprocessString is Preprocess for strings, discarding the map.
func PreprocessString(raw string, cfg Config) string {
	comp, _ := Preprocess([]rune(raw), cfg)
	return string(comp)
}

// IsPunctuation reports whether r is removed when punctuation is ignored.
func IsPunctuation(r rune) bool {
	if r < 0x80 {
		for i := 0; i < len(punctuation); i++ {
			if rune(punctuation[i]) == r {
				return true
			}
		}
	}
	return unicode.IsPunct(r)
}
