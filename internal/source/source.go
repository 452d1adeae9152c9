// Package source resolves command-line arguments to the texts being compared: a file, standard input ("-"), the clipboard ("+"), or the argument itself. Markdown files are flattened to their
// readable text so a passage can be memorised from a notes file.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/codalotl/textdiff/internal/q/clipboard"
)

// Kind says where a Text came from.
type Kind int

const (
	File Kind = iota
	Stdin
	Clipboard
	Literal
)

// Text is a loaded input.
type Text struct {
	Name     string // file path, StdinArg, ClipboardArg, or "" for literals
	Kind     Kind
	Body     string
	Markdown bool // Body was flattened from markdown
}

// Arguments that select a stream rather than a file.
const (
	StdinArg     = "-"
	ClipboardArg = "+"
)

var readClipboard = clipboard.Read

var bom = []byte("\xef\xbb\xbf")

// Load resolves arg. If literal is true, arg is the text itself. Otherwise "-" reads all of in, "+" reads the clipboard, and anything else is a file path.
func Load(ctx context.Context, arg string, literal bool, in io.Reader) (Text, error) {
	switch {
	case literal:
		return Text{Kind: Literal, Body: arg}, nil
	case arg == StdinArg:
		data, err := io.ReadAll(in)
		if err != nil {
			return Text{}, fmt.Errorf("read stdin: %w", err)
		}
		return Text{Name: StdinArg, Kind: Stdin, Body: normalize(data)}, nil
	case arg == ClipboardArg:
		text, err := readClipboard(ctx)
		if err != nil {
			return Text{}, fmt.Errorf("read clipboard: %w", err)
		}
		return Text{Name: ClipboardArg, Kind: Clipboard, Body: normalize([]byte(text))}, nil
	default:
		return ReadFile(arg)
	}
}

// ReadFile reads path. Files ending in .md or .markdown are flattened with Flatten.
func ReadFile(path string) (Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Text{}, fmt.Errorf("read %s: %w", path, err)
	}
	t := Text{Name: path, Kind: File}
	if IsMarkdown(path) {
		t.Body = Flatten([]byte(normalize(data)))
		t.Markdown = true
	} else {
		t.Body = normalize(data)
	}
	return t, nil
}

// IsMarkdown reports whether path has a markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// normalize drops a UTF-8 byte order mark and converts CRLF line endings to LF.
func normalize(data []byte) string {
	data = bytes.TrimPrefix(data, bom)
	return string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n")))
}
