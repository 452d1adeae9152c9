// Package clipboard reads and writes the system clipboard through the platform's command-line tools (pbcopy, wl-clipboard, xclip, xsel).
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// ErrUnavailable indicates that no clipboard tool is usable on this system.
var ErrUnavailable = errors.New("clipboard unavailable")

// tool is a pair of commands: one prints the clipboard, the other replaces it with stdin.
type tool struct {
	paste []string
	copy  []string
}

var (
	once      sync.Once
	selected  tool
	selectErr error

	lookPath = exec.LookPath
	getenv   = os.Getenv
)

// Read returns the clipboard's text.
func Read(ctx context.Context) (string, error) {
	t, err := pick()
	if err != nil {
		return "", err
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.paste[0], t.paste[1:]...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", commandError(t.paste[0], err, stderr.String())
	}
	return string(out), nil
}

// Write replaces the clipboard's contents with s.
func Write(ctx context.Context, s string) error {
	t, err := pick()
	if err != nil {
		return err
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.copy[0], t.copy[1:]...)
	cmd.Stdin = strings.NewReader(s)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return commandError(t.copy[0], err, stderr.String())
	}
	return nil
}

// Available reports whether a clipboard tool was found.
func Available() bool {
	_, err := pick()
	return err == nil
}

func pick() (tool, error) {
	once.Do(func() {
		selected, selectErr = choose(candidates())
		if selectErr != nil {
			selectErr = errors.Join(ErrUnavailable, selectErr)
		}
	})
	return selected, selectErr
}

// choose returns the first candidate whose commands are all installed.
func choose(cands []tool) (tool, error) {
	for _, t := range cands {
		if installed(t.paste[0]) && installed(t.copy[0]) {
			return t, nil
		}
	}
	return tool{}, errors.New(missingHint)
}

func installed(name string) bool {
	_, err := lookPath(name)
	return err == nil
}

func commandError(name string, err error, stderr string) error {
	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return fmt.Errorf("%s: %w", name, err)
}
