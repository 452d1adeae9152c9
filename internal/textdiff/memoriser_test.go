package textdiff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWindows(t *testing.T) {
	cases := []struct {
		name      string
		changed   []int
		wordCount int
		want      []Window
	}{
		{name: "clipped at start", changed: []int{4}, wordCount: 5, want: []Window{{1, 4}}},
		{name: "clipped both ends", changed: []int{1}, wordCount: 3, want: []Window{{0, 2}}},
		{name: "separate", changed: []int{0, 10}, wordCount: 20, want: []Window{{0, 3}, {7, 13}}},
		{name: "touching", changed: []int{2, 9}, wordCount: 20, want: []Window{{0, 12}}},
		{name: "overlapping", changed: []int{2, 4}, wordCount: 20, want: []Window{{0, 7}}},
		{name: "clipped at end", changed: []int{19}, wordCount: 20, want: []Window{{16, 19}}},
		{name: "none", changed: nil, wordCount: 20, want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildWindows(tc.changed, tc.wordCount))
		})
	}
}

func TestClassifyWords(t *testing.T) {
	cases := []struct {
		name         string
		old, new     string
		cfg          Config
		wantChanged  []int
		wantOldAfter []int
	}{
		{name: "no change", old: "a b c", new: "a b c", wantChanged: nil, wantOldAfter: []int{1, 2, 3}},
		{name: "substitution", old: "a b c", new: "a x c", wantChanged: []int{1}, wantOldAfter: []int{1, 2, 3}},
		{name: "leading insertion", old: "b c", new: "a b c", wantChanged: []int{0}, wantOldAfter: []int{0, 1, 2}},
		{name: "case folded", old: "The Cat", new: "the cat", cfg: Config{IgnoreCase: true}, wantChanged: nil, wantOldAfter: []int{1, 2}},
		{name: "punctuation ignored", old: "yes, sir", new: "yes sir!", cfg: Config{IgnorePunctuation: true}, wantChanged: nil, wantOldAfter: []int{1, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			changed, oldAfter := classifyWords(strings.Fields(tc.old), strings.Fields(tc.new), tc.cfg)
			assert.Equal(t, tc.wantChanged, changed)
			assert.Equal(t, tc.wantOldAfter, oldAfter)
		})
	}
}

func TestWindowedRender_OneChangedWord(t *testing.T) {
	oldText := "the quick brown fox jumps over the lazy dog"
	newText := "the quick brown fox jukps"

	res := ComputeDiff(oldText, newText, Config{Memoriser: true})
	require.Equal(t, []Window{{Start: 1, End: 4}}, res.Windows)

	// Only the five typed words take part; the untyped tail of the sentence is not counted.
	assert.Equal(t, 21, res.Score.Total)
	assert.Equal(t, 20, res.Score.Correct)

	// The window drops correct context, so the full bounded rendering scores higher and is chosen.
	assert.False(t, res.Windowed)
	assert.Equal(t, []Segment{{"the quick brown fox ju", Unchanged}, {"m", Deleted}, {"k", Inserted}, {"ps", Unchanged}}, res.Segments)

	changed, oldAfter := classifyWords(strings.Fields(oldText)[:5], strings.Fields(newText), Config{})
	require.Equal(t, []int{4}, changed)
	windowed := renderWindows(res.Windows, strings.Fields(oldText)[:5], strings.Fields(newText), oldAfter, Config{})
	assert.Equal(t, []Segment{{"... ", Elided}, {"quick brown fox ju", Unchanged}, {"m", Deleted}, {"k", Inserted}, {"ps", Unchanged}}, windowed)
	assert.Equal(t, Score{Correct: 17, Total: 18, Percent: 100 * 17.0 / 18.0}, ScoreSegments(windowed))
}

func TestWindowedRender_TiePrefersWindows(t *testing.T) {
	res := WindowedRender("one two three", "one too", Config{})
	assert.True(t, res.Windowed)
	assert.Equal(t, []Window{{0, 1}}, res.Windows)
	assert.Equal(t, []Segment{{"one t", Unchanged}, {"w", Deleted}, {"o", Inserted}, {"o", Unchanged}}, res.Segments)
	assert.Equal(t, 5, res.Score.Correct)
	assert.Equal(t, 6, res.Score.Total)
}

func TestWindowedRender_SeparateWindows(t *testing.T) {
	words := make([]string, 20)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	typed := append([]string(nil), words...)
	typed[2] = "x"
	typed[15] = "y"

	oldWords := words
	newWords := typed
	changed, oldAfter := classifyWords(oldWords, newWords, Config{})
	require.Equal(t, []int{2, 15}, changed)

	windows := BuildWindows(changed, len(newWords))
	require.Equal(t, []Window{{0, 5}, {12, 18}}, windows)

	segs := renderWindows(windows, oldWords, newWords, oldAfter, Config{})
	var elided []string
	for _, s := range segs {
		if s.Category == Elided {
			elided = append(elided, s.Text)
		}
	}
	assert.Equal(t, []string{" ... ", " ..."}, elided)
	assert.Equal(t, Segment{"w0 w1 ", Unchanged}, segs[0])

	oldSide, newSide := joinSides(segs)
	assert.Equal(t, "w0 w1 w2 w3 w4 w5w12 w13 w14 w15 w16 w17 w18", oldSide)
	assert.Equal(t, "w0 w1 x w3 w4 w5w12 w13 w14 y w16 w17 w18", newSide)

	res := WindowedRender(strings.Join(words, " "), strings.Join(typed, " "), Config{})
	assert.Equal(t, windows, res.Windows)
	assert.Less(t, res.Score.Percent, 100.0)
}

func TestWindowedRender_SkippedWordStaysInWindow(t *testing.T) {
	// The user skipped "j": the bounded old slice still ends at "k", so "l" reads as inserted.
	oldWords := strings.Fields("a b c d e f g h i j k l m")
	newWords := strings.Fields("a b c d e f g h i k l")
	bounded := oldWords[:len(newWords)]
	changed, oldAfter := classifyWords(bounded, newWords, Config{})
	require.Equal(t, []int{9, 10}, changed)

	windows := BuildWindows(changed, len(newWords))
	require.Equal(t, []Window{{6, 10}}, windows)

	segs := renderWindows(windows, bounded, newWords, oldAfter, Config{})
	assert.Equal(t, Segment{"... ", Elided}, segs[0])
	oldSide, newSide := joinSides(segs)
	assert.Equal(t, "g h i j k", oldSide)
	assert.Equal(t, "g h i k l", newSide)
}

func TestWindowedRender_NoChangesShowsPreview(t *testing.T) {
	res := ComputeDiff("the quick brown fox jumps", "The quick", Config{Memoriser: true, IgnoreCase: true})
	assert.Equal(t, []Segment{{"the quick brown", Unchanged}, {" ...", Elided}}, res.Segments)
	assert.Empty(t, res.Windows)
	assert.Equal(t, Score{Correct: 8, Total: 8, Percent: 100}, res.Score)

	res = ComputeDiff("one two", "one two", Config{Memoriser: true})
	assert.Equal(t, []Segment{{"one two", Unchanged}}, res.Segments)
	assert.Equal(t, 100.0, res.Score.Percent)
}

func TestWindowedRender_EmptyNewText(t *testing.T) {
	res := ComputeDiff("some passage to learn", "   ", Config{Memoriser: true})
	assert.Empty(t, res.Segments)
	assert.Empty(t, res.Windows)
	assert.Equal(t, Score{}, res.Score)
}

func TestWindowedRender_TypedPastTheEnd(t *testing.T) {
	res := WindowedRender("a b", "a b c d", Config{})
	assert.Equal(t, []Window{{0, 3}}, res.Windows)
	assert.True(t, res.Windowed)
	assert.Equal(t, []Segment{{"a b", Unchanged}, {" c d", Inserted}}, res.Segments)
	assert.Equal(t, 100.0, res.Score.Percent)
}
