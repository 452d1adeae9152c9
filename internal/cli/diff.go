package cli

import (
	"errors"
	"fmt"

	qcli "github.com/codalotl/textdiff/internal/q/cli"
	"github.com/codalotl/textdiff/internal/source"
	"github.com/codalotl/textdiff/internal/textdiff"
	"github.com/codalotl/textdiff/internal/tray"
)

func newDiffCommand(withConfig func(runFunc) qcli.RunFunc) *qcli.Command {
	cmd := &qcli.Command{
		Name:  "diff",
		Short: "Compare OLD with NEW and print the highlighted result.",
		Long: "OLD and NEW are file paths, \"-\" for standard input, or \"+\" for the clipboard. Markdown files (.md, .markdown) are compared\n" +
			"by their readable text. Deleted text is shown from OLD and inserted text from NEW, followed by the\n" +
			"share of OLD's characters that NEW kept.\n" +
			"\n" +
			"Every comparison is remembered in the tray database so --last can repeat it.",
		Example: "textdiff diff poem.txt attempt.txt\n" +
			"textdiff diff -m poem.md -\n" +
			"textdiff diff --text 'the cat sat' 'the cta sat'\n" +
			"textdiff diff --tray 3 poem.txt\n" +
			"textdiff diff --last -i",
	}
	flags := addCompareFlags(cmd)
	fs := cmd.Flags()
	literal := fs.Bool("text", 't', false, "Treat OLD and NEW as literal text rather than paths.")
	trayID := fs.Int("tray", 0, 0, "Take NEW from the tray snippet with this ID; only OLD is given.")
	last := fs.Bool("last", 0, false, "Repeat the last comparison (flags still apply).")
	exitCode := fs.Bool("exit-code", 0, false, "Exit with status 1 when the texts differ.")

	cmd.Args = func(args []string) error {
		switch {
		case *last && fs.Changed("tray"):
			return qcli.Usagef("--last and --tray cannot be combined")
		case *last:
			return qcli.NoArgs(args)
		case fs.Changed("tray"):
			return qcli.ExactArgs(1)(args)
		default:
			if err := qcli.ExactArgs(2)(args); err != nil {
				return err
			}
			if !*literal && args[0] == source.StdinArg && args[1] == source.StdinArg {
				return qcli.Usagef("only one of OLD and NEW can be read from stdin")
			}
			return nil
		}
	}

	cmd.Run = withConfig(func(c *qcli.Context, cfg Config) error {
		store, storeErr := tray.Open(cfg.TrayPath)
		if storeErr != nil {
			logf("tray unavailable: %v", storeErr)
		} else {
			defer store.Close()
		}

		var oldText, newText string
		switch {
		case *last:
			if storeErr != nil {
				return storeErr
			}
			sess, ok, err := store.LoadSession(c.Context)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("no previous comparison to repeat")
			}
			oldText, newText = sess.OldText, sess.NewText
			cfg.IgnoreCase = sess.Config.IgnoreCase
			cfg.IgnorePunctuation = sess.Config.IgnorePunctuation
			cfg.Memoriser = sess.Config.Memoriser

		case fs.Changed("tray"):
			if storeErr != nil {
				return storeErr
			}
			sn, err := store.Get(c.Context, int64(*trayID))
			if errors.Is(err, tray.ErrNotFound) {
				return fmt.Errorf("no tray snippet with ID %d", *trayID)
			}
			if err != nil {
				return err
			}
			old, err := source.Load(c.Context, c.Args[0], *literal, c.In)
			if err != nil {
				return err
			}
			oldText, newText = old.Body, sn.Text

		default:
			old, err := source.Load(c.Context, c.Args[0], *literal, c.In)
			if err != nil {
				return err
			}
			neu, err := source.Load(c.Context, c.Args[1], *literal, c.In)
			if err != nil {
				return err
			}
			oldText, newText = old.Body, neu.Body
		}

		cfg, err := flags.apply(cfg)
		if err != nil {
			return err
		}

		res := textdiff.ComputeDiff(oldText, newText, cfg.Engine())
		logf("diff: %d+%d bytes, config %+v, score %d/%d", len(oldText), len(newText), cfg.Engine(), res.Score.Correct, res.Score.Total)

		if store != nil {
			sess := tray.Session{OldText: oldText, NewText: newText, Config: cfg.Engine()}
			if err := store.SaveSession(c.Context, sess); err != nil {
				logf("save session: %v", err)
			}
		}

		if err := writeResult(c.Out, res, resolveFormat(cfg.Format, c.Out), resolveWidth(cfg.Width, c.Out)); err != nil {
			return err
		}
		if *exitCode && differs(res) {
			return qcli.ExitError{Code: 1}
		}
		return nil
	})
	return cmd
}

// differs reports whether res contains any change other than whitespace.
func differs(res textdiff.Result) bool {
	for _, seg := range res.Segments {
		if seg.Highlighted() {
			return true
		}
	}
	return false
}
