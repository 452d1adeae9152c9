package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codalotl/textdiff/internal/textdiff"
)

func seg(text string, cat textdiff.Category) textdiff.Segment {
	return textdiff.Segment{Text: text, Category: cat}
}

func TestANSI(t *testing.T) {
	segs := []textdiff.Segment{
		seg("the ", textdiff.Unchanged),
		seg("cat", textdiff.Deleted),
		seg("dog", textdiff.Inserted),
		seg(" ", textdiff.Inserted),
		seg("sat", textdiff.Unchanged),
		seg(" ...", textdiff.Elided),
	}
	exp := "the " +
		blackFG + pinkSpan + strike + "cat" + reset +
		blackFG + greenSpan + "dog" + reset +
		" sat" +
		dim + " ..." + reset
	assert.Equal(t, exp, ANSI(segs))
}

func TestANSI_StylesEachLine(t *testing.T) {
	segs := []textdiff.Segment{seg("one\n\ntwo", textdiff.Inserted)}
	exp := blackFG + greenSpan + "one" + reset + "\n\n" + blackFG + greenSpan + "two" + reset
	assert.Equal(t, exp, ANSI(segs))
}

func TestMarkers(t *testing.T) {
	segs := []textdiff.Segment{
		seg("... ", textdiff.Elided),
		seg("quick ", textdiff.Unchanged),
		seg("brown", textdiff.Deleted),
		seg("red", textdiff.Inserted),
		seg("\n", textdiff.Deleted),
		seg(" fox", textdiff.Unchanged),
	}
	assert.Equal(t, "... quick [-brown-]{+red+}\n fox", Markers(segs))
	assert.Equal(t, "", Markers(nil))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "plain text\n", want: "plain text\n"},
		{in: "a\tb", want: "a    b"},
		{in: "line\r\nnext", want: "line\nnext"},
		{in: "bare\rcr", want: `bare\x0Dcr`},
		{in: "\x1b[31mred", want: `\x1B[31mred`},
		{in: "del\x7f", want: `del\x7F`},
		{in: "bad\xffbyte", want: "bad�byte"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitize(tt.in), "%q", tt.in)
	}
	// Escaped output is stable.
	assert.Equal(t, `\x1B`, sanitize(sanitize("\x1b")))
}

func TestANSI_EscapesControlCharacters(t *testing.T) {
	segs := []textdiff.Segment{seg("\x1b[2J", textdiff.Unchanged)}
	assert.Equal(t, `\x1B[2J`, ANSI(segs))
}

func TestSummary(t *testing.T) {
	tests := []struct {
		score textdiff.Score
		want  string
	}{
		{score: textdiff.Score{Correct: 20, Total: 21, Percent: 100 * 20.0 / 21}, want: "match: 95% (20/21)"},
		{score: textdiff.Score{Correct: 1, Total: 8, Percent: 12.5}, want: "match: 13% (1/8)"},
		{score: textdiff.Score{}, want: "match: 0% (0/0)"},
		{score: textdiff.Score{Correct: 3, Total: 3, Percent: 100}, want: "match: 100% (3/3)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Summary(tt.score))
	}
}
