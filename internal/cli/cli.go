// Package cli implements the textdiff command line: diff, watch, tray, config, and version.
package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"

	qcli "github.com/codalotl/textdiff/internal/q/cli"
)

// Version is the textdiff version. It is a var (not a const) so build tooling can override it (for example via `-ldflags "-X .../internal/cli.Version=1.2.3"`).
var Version = "0.3.0"

// RunOptions overrides standard I/O and the context. Nil fields use the defaults: os.Stdin/os.Stdout/os.Stderr, and a context cancelled by an interrupt.
type RunOptions struct {
	Ctx context.Context
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run runs the CLI with args (typically os.Args).
//
// It returns a recommended exit code and an error, if any:
//   - 0 -> err == nil
//   - 1 -> err != nil, the command failed (or, with diff --exit-code, the texts differ)
//   - 2 -> err != nil, args parse error or misuse of flags, etc.
//
// In cases of errors, Run has already displayed an error message to opts.Err || Stderr.
func Run(args []string, opts *RunOptions) (int, error) {
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	var ctx context.Context
	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	var errW io.Writer = os.Stderr
	if opts != nil {
		ctx = opts.Ctx
		if opts.In != nil {
			in = opts.In
		}
		if opts.Out != nil {
			out = opts.Out
		}
		if opts.Err != nil {
			errW = opts.Err
		}
	}
	if ctx == nil {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
	}

	// internal/q/cli returns only an exit code, so we tee stderr to produce a non-nil error when exitCode != 0.
	var stderrBuf bytes.Buffer
	exitCode := qcli.Run(ctx, newRootCommand(), qcli.Options{
		Args: argv,
		In:   in,
		Out:  out,
		Err:  io.MultiWriter(errW, &stderrBuf),
	})
	if exitCode == 0 {
		return 0, nil
	}

	msg := strings.TrimSpace(stderrBuf.String())
	if msg == "" {
		msg = "command failed"
	}
	return exitCode, errors.New(msg)
}
