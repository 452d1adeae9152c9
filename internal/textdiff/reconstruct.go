package textdiff

import "fmt"

// Reconstruct renders script over the raw texts. Equal and Delete runs are looked up through mapOld into rawOld; Insert runs through mapNew into rawNew. The comparison
// texts that produced script must have lengths mapOld.Len() and mapNew.Len().
//
// Raw runes that preprocessing stripped (no map entry) are never dropped from the old side: every old-side run starts where the previous one ended, and the last one
// extends to the end of rawOld. If the script has no old-side run at all, rawOld is emitted as a leading Unchanged segment. On the new side, stripped runes appear only
// when they fall inside an Insert run.
//
// Adjacent segments with the same category are merged. Reconstruct panics if script does not fit the maps.
func Reconstruct(script EditScript, rawOld, rawNew []rune, mapOld, mapNew IndexMap) []Segment {
	script.mustCover(mapOld.Len(), mapNew.Len())
	mustFit(mapOld, len(rawOld), "old")
	mustFit(mapNew, len(rawNew), "new")

	type span struct {
		cat        Category
		start, end int // raw offsets
		fromNew    bool
	}
	var spans []span
	lastOld := -1 // index into spans of the last old-side span

	co, cn := 0, 0 // comparison offsets
	ro, rn := 0, 0 // raw cursors
	for _, op := range script {
		switch op.Kind {
		case OpEqual, OpDelete:
			end := mapOld.At(co+op.Len-1) + 1
			cat := Unchanged
			if op.Kind == OpDelete {
				cat = Deleted
			}
			spans = append(spans, span{cat: cat, start: ro, end: end})
			lastOld = len(spans) - 1
			ro = end
			co += op.Len
			if op.Kind == OpEqual {
				rn = mapNew.At(cn+op.Len-1) + 1
				cn += op.Len
			}
		case OpInsert:
			end := mapNew.At(cn+op.Len-1) + 1
			spans = append(spans, span{cat: Inserted, start: rn, end: end, fromNew: true})
			rn = end
			cn += op.Len
		}
	}

	if ro < len(rawOld) {
		if lastOld >= 0 {
			spans[lastOld].end = len(rawOld)
		} else {
			spans = append([]span{{cat: Unchanged, start: 0, end: len(rawOld)}}, spans...)
		}
	}

	var segs []Segment
	for _, sp := range spans {
		src := rawOld
		if sp.fromNew {
			src = rawNew
		}
		segs = appendSegment(segs, Segment{Text: string(src[sp.start:sp.end]), Category: sp.cat})
	}
	return segs
}

// appendSegment appends s to segs, merging it into the last segment when the categories match. Empty segments are dropped.
func appendSegment(segs []Segment, s Segment) []Segment {
	if s.Text == "" {
		return segs
	}
	if n := len(segs); n > 0 && segs[n-1].Category == s.Category {
		segs[n-1].Text += s.Text
		return segs
	}
	return append(segs, s)
}

func mustFit(m IndexMap, rawLen int, sideName string) {
	if n := m.Len(); n > 0 && m.offsets[n-1] >= rawLen {
		panic(fmt.Sprintf("textdiff: %s index map points past raw text (%d >= %d)", sideName, m.offsets[n-1], rawLen))
	}
}
