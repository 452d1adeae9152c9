package textdiff

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// OpKind is the kind of an edit operation from old text to new text.
type OpKind int

const (
	OpEqual  OpKind = iota // run present in both texts
	OpDelete               // run present only in the old text
	OpInsert               // run present only in the new text
)

func (k OpKind) String() string {
	switch k {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Op is one run of an EditScript. Len counts runes (or words, for AlignWords).
type Op struct {
	Kind OpKind
	Len  int
}

// EditScript is an ordered list of operations transforming one sequence into another.
//
// Invariants (for scripts returned by this package):
//   - No Op has Len <= 0, and no two adjacent Ops share a Kind.
//   - Sum of Equal+Delete lengths == len(old); sum of Equal+Insert lengths == len(new).
type EditScript []Op

// OldLen returns the number of old-side elements consumed by s.
func (s EditScript) OldLen() int {
	n := 0
	for _, op := range s {
		if op.Kind != OpInsert {
			n += op.Len
		}
	}
	return n
}

// NewLen returns the number of new-side elements consumed by s.
func (s EditScript) NewLen() int {
	n := 0
	for _, op := range s {
		if op.Kind != OpDelete {
			n += op.Len
		}
	}
	return n
}

// Align computes a minimal edit script from a to b (Myers' O(ND) algorithm), then applies CleanupSemantic.
func Align(a, b []rune) EditScript {
	diffs := newMatcher().DiffMainRunes(a, b, false)
	script := scriptFromDiffs(diffs, a, b)
	return CleanupSemantic(script, a, b)
}

// CleanupSemantic trades strict minimality for human-readable chunks: it eliminates short equalities surrounded by edits (ex: the "a" in "cat" -> "dog" vs "cbt" ->
// "dxg") and shifts edit boundaries onto word boundaries. script must be a valid script from a to b. CleanupSemantic is idempotent.
func CleanupSemantic(script EditScript, a, b []rune) EditScript {
	diffs := diffsFromScript(script, a, b)
	diffs = newMatcher().DiffCleanupSemantic(diffs)
	return scriptFromDiffs(diffs, a, b)
}

// AlignWords is Align over word sequences: two words are equal iff their strings are equal. Callers normalize words (ex: with PreprocessString) before calling.
func AlignWords(a, b []string) EditScript {
	ids := map[string]rune{}
	next := rune(0xE000) // private use area, above the surrogates
	encode := func(words []string) []rune {
		out := make([]rune, len(words))
		for i, w := range words {
			id, ok := ids[w]
			if !ok {
				if next > unicode.MaxRune {
					panic("textdiff: too many distinct words to align")
				}
				id = next
				ids[w] = id
				next++
			}
			out[i] = id
		}
		return out
	}
	ea := encode(a)
	eb := encode(b)
	return Align(ea, eb)
}

func newMatcher() *diffmatchpatch.DiffMatchPatch {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // no deadline: a timed-out diff would make output depend on machine speed
	return dmp
}

// scriptFromDiffs converts diffs into an EditScript, checking that the diffs actually describe a -> b.
func scriptFromDiffs(diffs []diffmatchpatch.Diff, a, b []rune) EditScript {
	var script EditScript
	ia, ib := 0, 0
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		if n == 0 {
			continue
		}
		var kind OpKind
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			kind = OpEqual
			mustMatch(d.Text, a, ia, "old")
			mustMatch(d.Text, b, ib, "new")
			ia += n
			ib += n
		case diffmatchpatch.DiffDelete:
			kind = OpDelete
			mustMatch(d.Text, a, ia, "old")
			ia += n
		case diffmatchpatch.DiffInsert:
			kind = OpInsert
			mustMatch(d.Text, b, ib, "new")
			ib += n
		default:
			panic(fmt.Sprintf("textdiff: unknown diff operation %v", d.Type))
		}
		if len(script) > 0 && script[len(script)-1].Kind == kind {
			script[len(script)-1].Len += n
			continue
		}
		script = append(script, Op{Kind: kind, Len: n})
	}
	script.mustCover(len(a), len(b))
	return script
}

func diffsFromScript(script EditScript, a, b []rune) []diffmatchpatch.Diff {
	script.mustCover(len(a), len(b))
	diffs := make([]diffmatchpatch.Diff, 0, len(script))
	ia, ib := 0, 0
	for _, op := range script {
		switch op.Kind {
		case OpEqual:
			diffs = append(diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffEqual, Text: string(a[ia : ia+op.Len])})
			ia += op.Len
			ib += op.Len
		case OpDelete:
			diffs = append(diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffDelete, Text: string(a[ia : ia+op.Len])})
			ia += op.Len
		case OpInsert:
			diffs = append(diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffInsert, Text: string(b[ib : ib+op.Len])})
			ib += op.Len
		}
	}
	return diffs
}

func mustMatch(text string, side []rune, at int, sideName string) {
	for _, r := range text {
		if at >= len(side) || side[at] != r {
			panic(fmt.Sprintf("textdiff: edit script diverges from %s text at offset %d", sideName, at))
		}
		at++
	}
}

// mustCover panics unless s consumes exactly oldLen and newLen elements and has no empty ops.
func (s EditScript) mustCover(oldLen, newLen int) {
	for i, op := range s {
		if op.Len <= 0 {
			panic(fmt.Sprintf("textdiff: edit script op[%d] has length %d", i, op.Len))
		}
	}
	if got := s.OldLen(); got != oldLen {
		panic(fmt.Sprintf("textdiff: edit script consumes %d old elements, want %d", got, oldLen))
	}
	if got := s.NewLen(); got != newLen {
		panic(fmt.Sprintf("textdiff: edit script consumes %d new elements, want %d", got, newLen))
	}
}
