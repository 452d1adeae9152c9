// Package uni measures terminal display width over grapheme clusters.
package uni

import (
	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// Options control width calculation. Currently only relevant for East Asian code points and their locale.
type Options struct {
	EastAsianWidth   bool // if true, treats certain East Asian code points as 2 wide (e.g., Chinese, Japanese, Korean). Use if the locale is one of CJK.
	TreatEmojiAsWide bool // Only considered if EastAsianWidth. If true, treats emoji as wide (2 columns).
}

// TextWidth returns the width of s in a monospace terminal. If opts is nil, locale is assumed to be non-East Asian.
func TextWidth(s string, opts *Options) int {
	return condition(opts).StringWidth(s)
}

// Iterator iterates over the grapheme clusters of a string.
type Iterator struct {
	iter *graphemes.Iterator[string]
	cond *runewidth.Condition
}

// NewGraphemeIterator returns a grapheme iterator over s. If opts is nil, locale is assumed to be non-East Asian.
func NewGraphemeIterator(s string, opts *Options) *Iterator {
	iter := graphemes.FromString(s)
	return &Iterator{iter: &iter, cond: condition(opts)}
}

func (it *Iterator) Next() bool {
	return it.iter.Next()
}

func (it *Iterator) Value() string {
	return it.iter.Value()
}

// Start returns the byte position of the current grapheme in s.
func (it *Iterator) Start() int {
	return it.iter.Start()
}

// End returns the byte position after the current grapheme in s.
func (it *Iterator) End() int {
	return it.iter.End()
}

// TextWidth returns the display width of the current grapheme.
func (it *Iterator) TextWidth() int {
	return it.cond.StringWidth(it.iter.Value())
}

// Cut splits s at the last grapheme boundary that keeps head within width cells. head is never empty when s is non-empty: a single grapheme wider than width is returned on its own.
func Cut(s string, width int, opts *Options) (head, tail string) {
	it := NewGraphemeIterator(s, opts)
	used := 0
	for it.Next() {
		w := it.TextWidth()
		if used+w > width && it.Start() > 0 {
			return s[:it.Start()], s[it.Start():]
		}
		used += w
	}
	return s, ""
}

func condition(opts *Options) *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true

	if opts == nil {
		return cond
	}

	cond.EastAsianWidth = opts.EastAsianWidth
	if opts.EastAsianWidth && opts.TreatEmojiAsWide {
		cond.StrictEmojiNeutral = false
	}
	return cond
}
