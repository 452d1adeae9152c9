package textdiff

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ComputeDiff compares oldText to newText under cfg. It is deterministic and total: every pair of strings (including empty ones) yields a Result. Invalid UTF-8 is
// read as U+FFFD.
//
// Outside memoriser mode, if oldText ends in a non-whitespace rune and newText has more words than oldText, a virtual space is appended to oldText before comparison
// and appears in the output (Result.VirtualSpace). This keeps a change at the end of the last old word from being read as the start of the following new word (ex:
// "cat" vs "cat sat" renders "cat " unchanged and "sat" inserted).
//
// In memoriser mode, ComputeDiff delegates to WindowedRender.
func ComputeDiff(oldText, newText string, cfg Config) Result {
	if cfg.Memoriser {
		return WindowedRender(oldText, newText, cfg)
	}
	oldText, virtual := applyVirtualSpace(oldText, newText)
	segs := render(oldText, newText, cfg)
	return Result{
		Segments:     segs,
		Score:        ScoreFunc(segs, countableFor(cfg)),
		VirtualSpace: virtual,
	}
}

// render is the character-level pipeline: preprocess both sides, align, and reconstruct against the raw texts.
func render(oldText, newText string, cfg Config) []Segment {
	rawOld := []rune(oldText)
	rawNew := []rune(newText)
	compOld, mapOld := Preprocess(rawOld, cfg)
	compNew, mapNew := Preprocess(rawNew, cfg)
	script := Align(compOld, compNew)
	return Reconstruct(script, rawOld, rawNew, mapOld, mapNew)
}

// applyVirtualSpace appends a space to oldText when its last word is not followed by whitespace and newText continues past oldText's word count.
func applyVirtualSpace(oldText, newText string) (string, bool) {
	r, size := utf8.DecodeLastRuneInString(oldText)
	if size == 0 || unicode.IsSpace(r) {
		return oldText, false
	}
	if len(strings.Fields(newText)) <= len(strings.Fields(oldText)) {
		return oldText, false
	}
	return oldText + " ", true
}
