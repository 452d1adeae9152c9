package textdiff

import "unicode"

// ScoreSegments scores segs, counting every non-whitespace rune on the old side. Total counts Unchanged and Deleted runes; Correct counts Unchanged runes. Inserted
// text does not lower the score: the score measures how much of the old text was reproduced.
func ScoreSegments(segs []Segment) Score {
	return ScoreFunc(segs, func(r rune) bool { return !unicode.IsSpace(r) })
}

// ScoreFunc is ScoreSegments with a caller-chosen predicate for which runes count.
func ScoreFunc(segs []Segment, countable func(r rune) bool) Score {
	var s Score
	for _, seg := range segs {
		if seg.Category != Unchanged && seg.Category != Deleted {
			continue
		}
		n := 0
		for _, r := range seg.Text {
			if countable(r) {
				n++
			}
		}
		s.Total += n
		if seg.Category == Unchanged {
			s.Correct += n
		}
	}
	if s.Total > 0 {
		s.Percent = 100 * float64(s.Correct) / float64(s.Total)
	}
	return s
}

// countableFor returns the rune predicate used to score under cfg: whitespace never counts, and ignored punctuation does not count either.
func countableFor(cfg Config) func(rune) bool {
	return func(r rune) bool {
		if unicode.IsSpace(r) {
			return false
		}
		if cfg.IgnorePunctuation && IsPunctuation(r) {
			return false
		}
		return true
	}
}
