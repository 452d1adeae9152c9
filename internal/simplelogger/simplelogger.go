// Package simplelogger appends printf-style debug lines to a file named by the environment. textdiff's stdout is the rendered diff, so diagnostics never go there.
package simplelogger

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"
)

// EnvVar names the log file. When it is unset, logging is off.
const EnvVar = "TEXTDIFF_LOG_FILE"

var (
	mu  sync.Mutex
	now = time.Now
)

// Log appends one formatted line, prefixed with a timestamp, to the file named by TEXTDIFF_LOG_FILE.
//
// If TEXTDIFF_LOG_FILE is unset/empty or the path can't be opened as a file, Log is a no-op.
func Log(format string, args ...any) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	var b bytes.Buffer
	b.WriteString(now().Format("2006-01-02T15:04:05.000"))
	b.WriteByte(' ')
	_, _ = fmt.Fprintf(&b, format, args...)
	if b.Bytes()[b.Len()-1] != '\n' {
		_ = b.WriteByte('\n')
	}
	_, _ = f.Write(b.Bytes())
}

// For returns a Log variant that tags every line with component, e.g. "[watch] ...".
func For(component string) func(format string, args ...any) {
	return func(format string, args ...any) {
		Log("["+component+"] "+format, args...)
	}
}
