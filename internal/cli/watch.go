package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	qcli "github.com/codalotl/textdiff/internal/q/cli"
	"github.com/codalotl/textdiff/internal/simplelogger"
	"github.com/codalotl/textdiff/internal/source"
	"github.com/codalotl/textdiff/internal/textdiff"
	"github.com/codalotl/textdiff/internal/trigger"
)

const clearScreen = "\x1b[H\x1b[2J"

func newWatchCommand(withConfig func(runFunc) qcli.RunFunc) *qcli.Command {
	cmd := &qcli.Command{
		Name:  "watch",
		Short: "Re-compare two files whenever either changes.",
		Long: "watch prints the comparison of OLD and NEW, then polls both files and prints it again once they\n" +
			"have stopped changing for the debounce period. It runs until interrupted. With the ansi format\n" +
			"the screen is cleared before each comparison.",
		Example: "textdiff watch -m poem.md attempt.txt",
		Args:    qcli.ExactArgs(2),
	}
	flags := addCompareFlags(cmd)
	poll := cmd.Flags().Duration("poll", 0, 0, "How often to check the files (default: config poll).")
	debounce := cmd.Flags().Duration("debounce", 0, 0, "Quiet period before re-comparing (default: config debounce).")

	cmd.Run = withConfig(func(c *qcli.Context, cfg Config) error {
		cfg, err := flags.apply(cfg)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("poll") {
			if *poll <= 0 {
				return qcli.Usagef("invalid --poll: must be > 0 (got %s)", *poll)
			}
			cfg.Poll = *poll
		}
		if cmd.Flags().Changed("debounce") {
			cfg.Debounce = *debounce
		}
		for _, arg := range c.Args {
			if arg == source.StdinArg || arg == source.ClipboardArg {
				return qcli.Usagef("watch needs files; %q cannot be watched", arg)
			}
		}

		w := &watcher{
			oldPath:  c.Args[0],
			newPath:  c.Args[1],
			cfg:      cfg.Engine(),
			format:   resolveFormat(cfg.Format, c.Out),
			width:    resolveWidth(cfg.Width, c.Out),
			poll:     cfg.Poll,
			debounce: cfg.Debounce,
			out:      c.Out,
			log:      simplelogger.For("watch"),
		}
		return w.run(c.Context)
	})
	return cmd
}

type watcher struct {
	oldPath, newPath string
	cfg              textdiff.Config
	format           string
	width            int
	poll, debounce   time.Duration
	out              io.Writer
	log              func(format string, args ...any)
}

// stamp identifies a version of a file. A missing file has a zero stamp with err set.
type stamp struct {
	modTime int64
	size    int64
	err     string
}

func stat(path string) stamp {
	fi, err := os.Stat(path)
	if err != nil {
		return stamp{err: err.Error()}
	}
	return stamp{modTime: fi.ModTime().UnixNano(), size: fi.Size()}
}

// run renders once, then re-renders after each settled change until ctx is done. Rendering happens on the calling goroutine; the debouncer only signals it.
func (w *watcher) run(ctx context.Context) error {
	d := trigger.New(w.debounce)
	defer d.Stop()

	fire := make(chan struct{}, 1)
	signal := func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	}

	w.log("watching %s and %s (poll %s, debounce %s)", w.oldPath, w.newPath, w.poll, w.debounce)
	// Stamp before the first render so an edit made while it runs is still seen.
	lastOld, lastNew := stat(w.oldPath), stat(w.newPath)
	if err := w.render(); err != nil {
		return err
	}

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log("stopped")
			return nil
		case <-ticker.C:
			curOld, curNew := stat(w.oldPath), stat(w.newPath)
			if curOld != lastOld || curNew != lastNew {
				lastOld, lastNew = curOld, curNew
				w.log("change detected")
				d.Trigger(signal)
			}
		case <-fire:
			if err := w.render(); err != nil {
				return err
			}
		}
	}
}

// render compares the files and writes the result. Unreadable files (e.g. mid-save) are reported in the output rather than ending the watch; only write errors are returned.
func (w *watcher) render() error {
	if w.format == FormatANSI {
		if _, err := io.WriteString(w.out, clearScreen); err != nil {
			return err
		}
	}

	old, err := source.ReadFile(w.oldPath)
	if err == nil {
		var neu source.Text
		neu, err = source.ReadFile(w.newPath)
		if err == nil {
			return writeResult(w.out, textdiff.ComputeDiff(old.Body, neu.Body, w.cfg), w.format, w.width)
		}
	}
	w.log("render: %v", err)
	_, werr := fmt.Fprintf(w.out, "textdiff: %v\n", err)
	return werr
}
