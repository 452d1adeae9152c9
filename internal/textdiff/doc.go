// Package textdiff highlights the differences between an "old" and a "new" text at character granularity.
//
// Pipeline: ComputeDiff runs each text through Preprocess (optional case folding and punctuation stripping) which returns a comparison text plus an IndexMap back into the
// raw text. Align turns the two comparison texts into an EditScript (Myers diff followed by a semantic cleanup pass). Reconstruct walks the script and emits Segments over
// the raw texts, so the output always shows what the user actually typed, not the normalized form. ScoreSegments turns segments into a match percentage.
//
// Memoriser mode (Config.Memoriser) bounds the comparison to the number of words in the new text, aligns word-by-word, and renders only short context windows around the
// changed words (see WindowedRender).
//
// Invariants of a non-memoriser Result:
//   - concat(Unchanged + Deleted segment texts) == oldText (plus one trailing space if Result.VirtualSpace).
//   - concat(Unchanged + Inserted segment texts) equals newText after preprocessing (exactly newText when Config ignores nothing).
//   - 0 <= Score.Percent <= 100.
//
// Cost: alignment runs without a deadline so output never depends on machine speed. Myers diff is O(ND), so two long, unrelated texts are slow: roughly 5s for 18k
// characters each. Memoriser mode diffs the bounded text and then each window again, roughly doubling that. Callers that recompute on every keystroke should debounce.
//
// The engine is pure: no package state, no I/O, safe for concurrent use. Violated internal contracts panic.
package textdiff
