package highlight

import (
	"unicode"

	"github.com/codalotl/textdiff/internal/q/uni"
	"github.com/codalotl/textdiff/internal/textdiff"
)

// Wrap splits segs into display lines no wider than width terminal cells. Lines break at whitespace when possible; a word wider than width is hard-broken at grapheme
// boundaries. A word may span several segments (e.g. "cat" deleted then "dog" inserted) and is kept together. Embedded newlines always end a line. Whitespace at a line
// break is dropped. A width <= 0 only splits at newlines. The result always has at least one (possibly empty) line.
//
// Segment text is sanitized (tabs expanded, control characters escaped) before measuring.
func Wrap(segs []textdiff.Segment, width int) [][]textdiff.Segment {
	w := &wrapper{width: width}
	var word []piece
	flushWord := func() {
		if len(word) > 0 {
			w.addWord(word)
			word = nil
		}
	}
	for _, seg := range segs {
		for _, p := range pieces(sanitize(seg.Text), seg.Category) {
			switch p.kind {
			case kindWord:
				word = append(word, p)
			case kindSpace:
				flushWord()
				w.addSpace(p)
			default:
				flushWord()
				w.pending = nil
				w.newline()
			}
		}
	}
	flushWord()
	w.lines = append(w.lines, w.line)
	return w.lines
}

const (
	kindNewline = iota
	kindSpace
	kindWord
)

type piece struct {
	text  string
	cat   textdiff.Category
	kind  int
	width int
}

type wrapper struct {
	width   int
	lines   [][]textdiff.Segment
	line    []textdiff.Segment
	used    int
	pending []piece // spaces held back until the next word is known to fit
}

func (w *wrapper) addSpace(p piece) {
	if w.width <= 0 {
		w.emit(p.text, p.cat, p.width)
		return
	}
	if w.used+pendingWidth(w.pending)+p.width > w.width {
		w.pending = nil
		if w.used > 0 {
			w.newline()
		}
		return
	}
	w.pending = append(w.pending, p)
}

func (w *wrapper) addWord(word []piece) {
	ww := 0
	for _, p := range word {
		ww += p.width
	}
	if w.width <= 0 || w.used+pendingWidth(w.pending)+ww <= w.width {
		for _, p := range append(w.pending, word...) {
			w.emit(p.text, p.cat, p.width)
		}
		w.pending = nil
		return
	}

	w.pending = nil
	if w.used > 0 {
		w.newline()
	}
	for _, p := range word {
		text := p.text
		for text != "" {
			head, tail := uni.Cut(text, w.width-w.used, nil)
			hw := uni.TextWidth(head, nil)
			if w.used > 0 && w.used+hw > w.width {
				w.newline()
				continue
			}
			w.emit(head, p.cat, hw)
			text = tail
			if text != "" {
				w.newline()
			}
		}
	}
}

func (w *wrapper) emit(text string, cat textdiff.Category, width int) {
	if n := len(w.line); n > 0 && w.line[n-1].Category == cat {
		w.line[n-1].Text += text
	} else {
		w.line = append(w.line, textdiff.Segment{Text: text, Category: cat})
	}
	w.used += width
}

func (w *wrapper) newline() {
	w.lines = append(w.lines, w.line)
	w.line = nil
	w.used = 0
}

func pendingWidth(ps []piece) int {
	n := 0
	for _, p := range ps {
		n += p.width
	}
	return n
}

// pieces splits s into newlines, runs of other whitespace, and runs of non-whitespace.
func pieces(s string, cat textdiff.Category) []piece {
	var out []piece
	start, kind := 0, -1
	flush := func(end int) {
		if end > start {
			text := s[start:end]
			out = append(out, piece{text: text, cat: cat, kind: kind, width: uni.TextWidth(text, nil)})
		}
		start = end
	}
	for i, r := range s {
		k := kindWord
		switch {
		case r == '\n':
			k = kindNewline
		case unicode.IsSpace(r):
			k = kindSpace
		}
		if k != kind || k == kindNewline {
			flush(i)
		}
		kind = k
	}
	flush(len(s))
	return out
}
