package simplelogger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixClock(t *testing.T) {
	t.Helper()
	old := now
	now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = old })
}

func TestLog_WritesAndAppends(t *testing.T) {
	fixClock(t)
	t.Setenv(EnvVar, filepath.Join(t.TempDir(), "textdiff.log"))

	Log("hello %s", "world")
	Log("%d\n", 123)

	b, err := os.ReadFile(os.Getenv(EnvVar))
	require.NoError(t, err)
	require.Equal(t, "2024-03-01T09:30:00.000 hello world\n2024-03-01T09:30:00.000 123\n", string(b))
}

func TestFor_TagsComponent(t *testing.T) {
	fixClock(t)
	t.Setenv(EnvVar, filepath.Join(t.TempDir(), "textdiff.log"))

	For("watch")("changed %s", "a.txt")

	b, err := os.ReadFile(os.Getenv(EnvVar))
	require.NoError(t, err)
	require.Equal(t, "2024-03-01T09:30:00.000 [watch] changed a.txt\n", string(b))
}

func TestLog_NoOpWhenUnset(t *testing.T) {
	t.Setenv(EnvVar, "")
	Log("should not %s", "panic")
}

func TestLog_NoOpWhenPathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvVar, dir)

	Log("ignored %d", 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
