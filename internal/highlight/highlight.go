// Package highlight turns textdiff segments into terminal output: ANSI-styled, plain wdiff-style markers, or wrapped to a width.
package highlight

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/codalotl/textdiff/internal/textdiff"
)

const (
	reset     = "\x1b[0m"
	blackFG   = "\x1b[30m"
	strike    = "\x1b[9m"
	dim       = "\x1b[2m"
	pinkSpan  = "\x1b[48;5;217m" // deleted text
	greenSpan = "\x1b[48;5;114m" // inserted text
)

// tabWidth is the number of spaces a tab expands to on display.
const tabWidth = 4

func style(seg textdiff.Segment) string {
	switch {
	case seg.Category == textdiff.Elided:
		return dim
	case !seg.Highlighted():
		return ""
	case seg.Category == textdiff.Deleted:
		return blackFG + pinkSpan + strike
	default:
		return blackFG + greenSpan
	}
}

// ANSI renders segs with deleted runs struck through on pink, inserted runs on green, and elisions dimmed. Styles never span a newline, so each output line is
// independently styled.
func ANSI(segs []textdiff.Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		text := sanitize(seg.Text)
		code := style(seg)
		if code == "" {
			b.WriteString(text)
			continue
		}
		for i, line := range strings.Split(text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line == "" {
				continue
			}
			b.WriteString(code)
			b.WriteString(line)
			b.WriteString(reset)
		}
	}
	return b.String()
}

// Markers renders segs as plain text with [-deleted-] and {+inserted+} markers. Whitespace-only changes and elisions are written as-is.
func Markers(segs []textdiff.Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		text := sanitize(seg.Text)
		switch {
		case !seg.Highlighted():
			b.WriteString(text)
		case seg.Category == textdiff.Deleted:
			b.WriteString("[-" + text + "-]")
		default:
			b.WriteString("{+" + text + "+}")
		}
	}
	return b.String()
}

// Summary formats s for humans, e.g. "match: 95% (20/21)". Percent is rounded half away from zero.
func Summary(s textdiff.Score) string {
	return fmt.Sprintf("match: %d%% (%d/%d)", int(math.Round(s.Percent)), s.Correct, s.Total)
}

// sanitize makes raw input safe to print: tabs expand to spaces, CRLF becomes LF, and other control characters (ESC included) are shown as \xXX.
func sanitize(s string) string {
	const hexDigits = "0123456789ABCDEF"

	clean := true
	for i := 0; i < len(s); i++ {
		if c := s[i]; (c < 0x20 && c != '\n') || c == 0x7F {
			clean = false
			break
		}
	}
	if clean && utf8.ValidString(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case r == '\t':
			b.WriteString(strings.Repeat(" ", tabWidth))
		case r == '\r' && strings.HasPrefix(s[i+1:], "\n"):
		case r == '\n':
			b.WriteByte('\n')
		case r < 0x20 || r == 0x7F:
			b.WriteString(`\x`)
			b.WriteByte(hexDigits[r>>4])
			b.WriteByte(hexDigits[r&0x0F])
		default:
			// Invalid UTF-8 already decodes to utf8.RuneError here.
			b.WriteRune(r)
		}
	}
	return b.String()
}
