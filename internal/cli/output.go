package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/codalotl/textdiff/internal/highlight"
	"github.com/codalotl/textdiff/internal/textdiff"
)

// terminalFd returns w's file descriptor if w is a terminal.
func terminalFd(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// resolveFormat turns FormatAuto into a concrete format for w.
func resolveFormat(format string, w io.Writer) string {
	if format != FormatAuto {
		return format
	}
	if _, ok := terminalFd(w); ok {
		return FormatANSI
	}
	return FormatPlain
}

// resolveWidth returns width if set, else the terminal's width, else 0 (no wrapping).
func resolveWidth(width int, w io.Writer) int {
	if width > 0 {
		return width
	}
	if fd, ok := terminalFd(w); ok {
		if cols, _, err := term.GetSize(fd); err == nil && cols > 0 {
			return cols
		}
	}
	return 0
}

// jsonResult is the json output format.
type jsonResult struct {
	textdiff.Result
	Summary string `json:"summary"`
}

// writeResult renders res to w in format (already resolved), wrapping text formats at width.
func writeResult(w io.Writer, res textdiff.Result, format string, width int) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(jsonResult{Result: res, Summary: highlight.Summary(res.Score)})
	}

	render := highlight.Markers
	if format == FormatANSI {
		render = highlight.ANSI
	}
	for _, line := range highlight.Wrap(res.Segments, width) {
		if _, err := fmt.Fprintln(w, render(line)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", highlight.Summary(res.Score))
	return err
}
