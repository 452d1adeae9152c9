package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codalotl/textdiff/internal/textdiff"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startWatcher(t *testing.T, w *watcher) (stop func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx) }()
	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
			return nil
		}
	}
}

func TestWatcher_RerendersAfterChange(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte("the cat sat"), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte("the cat sat"), 0o644))

	out := &syncBuffer{}
	w := &watcher{
		oldPath:  oldPath,
		newPath:  newPath,
		format:   FormatPlain,
		poll:     5 * time.Millisecond,
		debounce: 20 * time.Millisecond,
		out:      out,
		log:      func(string, ...any) {},
	}
	stop := startWatcher(t, w)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "match: 100% (9/9)")
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, os.WriteFile(newPath, []byte("the dog sat, and more"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "[-")
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, stop())
	assert.GreaterOrEqual(t, strings.Count(out.String(), "match:"), 2, out.String())
}

// editOnFirstWrite rewrites path the first time the watcher writes output, i.e. while the first render is in progress.
type editOnFirstWrite struct {
	syncBuffer
	once sync.Once
	path string
	body string
	err  error
}

func (w *editOnFirstWrite) Write(p []byte) (int, error) {
	w.once.Do(func() { w.err = os.WriteFile(w.path, []byte(w.body), 0o644) })
	return w.syncBuffer.Write(p)
}

func TestWatcher_SeesEditDuringFirstRender(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte("the cat sat"), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte("the cat sat"), 0o644))

	out := &editOnFirstWrite{path: newPath, body: "the dog sat on a mat"}
	w := &watcher{
		oldPath:  oldPath,
		newPath:  newPath,
		format:   FormatPlain,
		poll:     5 * time.Millisecond,
		debounce: 5 * time.Millisecond,
		out:      out,
		log:      func(string, ...any) {},
	}
	stop := startWatcher(t, w)

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "match:") >= 2
	}, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, stop())
	require.NoError(t, out.err)
	assert.Contains(t, out.String(), "[-")
}

func TestWatcher_ReportsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte("hello"), 0o644))

	out := &syncBuffer{}
	w := &watcher{
		oldPath:  oldPath,
		newPath:  newPath,
		cfg:      textdiff.Config{Memoriser: true},
		format:   FormatANSI,
		poll:     5 * time.Millisecond,
		debounce: 0,
		out:      out,
		log:      func(string, ...any) {},
	}
	stop := startWatcher(t, w)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "textdiff: read "+newPath)
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, strings.HasPrefix(out.String(), clearScreen))

	require.NoError(t, os.WriteFile(newPath, []byte("hello"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "match: 100% (5/5)")
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, stop())
}

func TestWatchCommand_RejectsStdin(t *testing.T) {
	isolate(t)

	code, _, stderr := runTextdiff(t, "", "watch", "-", "new.txt")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `"-" cannot be watched`)

	code, _, stderr = runTextdiff(t, "", "watch", "--poll", "0s", "a.txt", "b.txt")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "invalid --poll")
}
