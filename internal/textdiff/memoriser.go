package textdiff

import "strings"

const (
	contextWords = 3     // words of context on each side of a changed word
	previewWords = 3     // words shown when nothing has changed
	ellipsis     = "..." // marks omitted words
)

// WindowedRender is the memoriser comparison. It bounds the comparison to what the user has typed so far: with k words in newText, only the first k words of oldText
// take part. Words are aligned (after preprocessing under cfg) to find the changed new-word indices; each changed index i opens a window [i-3, i+3] clipped to the
// typed words, and touching or overlapping windows are merged. Each window is diffed at character level and joined with Elided " ... " segments.
//
// The windowed rendering is scored against the full bounded rendering (all k words, diffed at character level), and the one with the higher percent is returned;
// on a tie the windowed rendering wins. Result.Windows is set either way.
//
// Edge cases:
//   - Empty newText (no words): empty Result.
//   - No changed words: a neutral preview of the first three words of oldText, unhighlighted, with the full bounded score.
func WindowedRender(oldText, newText string, cfg Config) Result {
	newWords := strings.Fields(newText)
	k := len(newWords)
	if k == 0 {
		return Result{}
	}
	oldWords := strings.Fields(oldText)
	if len(oldWords) > k {
		oldWords = oldWords[:k]
	}

	countable := countableFor(cfg)
	full := render(strings.Join(oldWords, " "), strings.Join(newWords, " "), cfg)
	fullScore := ScoreFunc(full, countable)

	changed, oldAfter := classifyWords(oldWords, newWords, cfg)
	if len(changed) == 0 {
		return Result{Segments: preview(strings.Fields(oldText)), Score: fullScore}
	}

	windows := BuildWindows(changed, k)
	windowed := renderWindows(windows, oldWords, newWords, oldAfter, cfg)
	windowedScore := ScoreFunc(windowed, countable)
	if windowedScore.Percent >= fullScore.Percent {
		return Result{Segments: windowed, Score: windowedScore, Windows: windows, Windowed: true}
	}
	return Result{Segments: full, Score: fullScore, Windows: windows}
}

// classifyWords aligns oldWords to newWords word-by-word and returns the sorted indices of changed new words.
//
// A new word is changed when it is inserted (no aligned old word, including a leading run of new words) or when old words were deleted immediately before it. Old
// words deleted after the last new word mark the last new word changed.
//
// oldAfter[i] is the number of old words consumed once new word i has been consumed. The old span for new words [s, e] is therefore [oldAfter[s-1], oldAfter[e]),
// which assigns deleted old words to the new word that follows them.
func classifyWords(oldWords, newWords []string, cfg Config) (changed []int, oldAfter []int) {
	k := len(newWords)
	script := AlignWords(normalizeWords(oldWords, cfg), normalizeWords(newWords, cfg))

	isChanged := make([]bool, k)
	oldAfter = make([]int, k)
	io, in := 0, 0
	for _, op := range script {
		switch op.Kind {
		case OpEqual:
			for j := 0; j < op.Len; j++ {
				io++
				oldAfter[in] = io
				in++
			}
		case OpInsert:
			for j := 0; j < op.Len; j++ {
				isChanged[in] = true
				oldAfter[in] = io
				in++
			}
		case OpDelete:
			io += op.Len
			if in < k {
				isChanged[in] = true
			} else {
				isChanged[k-1] = true
				oldAfter[k-1] = io
			}
		}
	}

	for i, c := range isChanged {
		if c {
			changed = append(changed, i)
		}
	}
	return changed, oldAfter
}

// BuildWindows opens a window [i-3, i+3] around every changed index, clipped to [0, wordCount-1], and merges windows that touch or overlap. changed must be sorted
// ascending. The result is sorted and non-overlapping, with a gap of at least one word between consecutive windows.
func BuildWindows(changed []int, wordCount int) []Window {
	var windows []Window
	for _, i := range changed {
		w := Window{Start: max(0, i-contextWords), End: min(wordCount-1, i+contextWords)}
		if n := len(windows); n > 0 && w.Start <= windows[n-1].End+1 {
			windows[n-1].End = max(windows[n-1].End, w.End)
			continue
		}
		windows = append(windows, w)
	}
	return windows
}

// renderWindows diffs each window at character level and joins them with elisions.
func renderWindows(windows []Window, oldWords, newWords []string, oldAfter []int, cfg Config) []Segment {
	k := len(newWords)
	var segs []Segment
	if windows[0].Start > 0 {
		segs = append(segs, Segment{Text: ellipsis + " ", Category: Elided})
	}
	for wi, w := range windows {
		if wi > 0 {
			segs = appendSegment(segs, Segment{Text: " " + ellipsis + " ", Category: Elided})
		}
		oldStart := 0
		if w.Start > 0 {
			oldStart = oldAfter[w.Start-1]
		}
		oldEnd := len(oldWords)
		if w.End < k-1 {
			oldEnd = oldAfter[w.End]
		}
		oldSpan := strings.Join(oldWords[oldStart:oldEnd], " ")
		newSpan := strings.Join(newWords[w.Start:w.End+1], " ")
		for _, s := range render(oldSpan, newSpan, cfg) {
			segs = appendSegment(segs, s)
		}
	}
	if windows[len(windows)-1].End < k-1 {
		segs = appendSegment(segs, Segment{Text: " " + ellipsis, Category: Elided})
	}
	return segs
}

func preview(oldWords []string) []Segment {
	n := min(previewWords, len(oldWords))
	if n == 0 {
		return nil
	}
	segs := []Segment{{Text: strings.Join(oldWords[:n], " "), Category: Unchanged}}
	if len(oldWords) > n {
		segs = append(segs, Segment{Text: " " + ellipsis, Category: Elided})
	}
	return segs
}

func normalizeWords(words []string, cfg Config) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = PreprocessString(w, cfg)
	}
	return out
}
