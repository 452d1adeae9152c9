package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	qcli "github.com/codalotl/textdiff/internal/q/cli"
	"github.com/codalotl/textdiff/internal/q/clipboard"
	"github.com/codalotl/textdiff/internal/source"
	"github.com/codalotl/textdiff/internal/tray"
)

func newTrayCommand(withConfig func(runFunc) qcli.RunFunc) *qcli.Command {
	trayCmd := &qcli.Command{
		Name:  "tray",
		Short: "Manage saved texts.",
		Long: fmt.Sprintf("The tray keeps up to %d saved texts, newest first. Use them as NEW with `textdiff diff --tray ID OLD`.",
			tray.MaxSnippets),
	}

	addCmd := &qcli.Command{
		Name:    "add",
		Short:   "Save a text (a file, - for stdin, or literal text with --text).",
		Args:    qcli.ExactArgs(1),
		Example: "textdiff tray add attempt.txt\ntextdiff tray add +\ntextdiff tray add --text 'the cat sat on the mat'",
	}
	addLiteral := addCmd.Flags().Bool("text", 't', false, "Treat the argument as literal text rather than a path.")
	addCmd.Run = withConfig(func(c *qcli.Context, cfg Config) error {
		in, err := source.Load(c.Context, c.Args[0], *addLiteral, c.In)
		if err != nil {
			return err
		}
		return withStore(cfg, func(store *tray.Store) error {
			sn, err := store.Add(c.Context, in.Body)
			switch {
			case errors.Is(err, tray.ErrEmpty):
				return errors.New("nothing to save: text is empty")
			case errors.Is(err, tray.ErrDuplicate):
				return errors.New("already in tray")
			case err != nil:
				return err
			}
			_, err = fmt.Fprintf(c.Out, "saved %d\n", sn.ID)
			return err
		})
	})

	lsCmd := &qcli.Command{
		Name:    "ls",
		Aliases: []string{"list"},
		Short:   "List saved texts, newest first.",
		Args:    qcli.NoArgs,
	}
	lsCmd.Run = withConfig(func(c *qcli.Context, cfg Config) error {
		return withStore(cfg, func(store *tray.Store) error {
			snips, err := store.List(c.Context)
			if err != nil {
				return err
			}
			if len(snips) == 0 {
				_, err := fmt.Fprintln(c.Out, "tray is empty")
				return err
			}
			for _, sn := range snips {
				preview := strings.Join(strings.Fields(sn.Preview()), " ")
				if _, err := fmt.Fprintf(c.Out, "%4d  %s  %s\n", sn.ID, sn.CreatedAt.Local().Format("2006-01-02 15:04"), preview); err != nil {
					return err
				}
			}
			return nil
		})
	})

	showCmd := &qcli.Command{
		Name:  "show",
		Short: "Print a saved text.",
		Args:  qcli.ExactArgs(1),
	}
	showCopy := showCmd.Flags().Bool("copy", 'c', false, "Copy the text to the clipboard instead of printing it.")
	showCmd.Run = withConfig(func(c *qcli.Context, cfg Config) error {
		id, err := parseID(c.Args[0])
		if err != nil {
			return err
		}
		return withStore(cfg, func(store *tray.Store) error {
			sn, err := store.Get(c.Context, id)
			if errors.Is(err, tray.ErrNotFound) {
				return fmt.Errorf("no tray snippet with ID %d", id)
			}
			if err != nil {
				return err
			}
			if *showCopy {
				if err := writeClipboard(c.Context, sn.Text); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				_, err = fmt.Fprintf(c.Out, "copied %d\n", sn.ID)
				return err
			}
			_, err = fmt.Fprintln(c.Out, sn.Text)
			return err
		})
	})

	rmCmd := &qcli.Command{
		Name:    "rm",
		Aliases: []string{"remove"},
		Short:   "Delete saved texts.",
		Args:    qcli.MinimumArgs(1),
	}
	rmCmd.Run = withConfig(func(c *qcli.Context, cfg Config) error {
		ids := make([]int64, 0, len(c.Args))
		for _, arg := range c.Args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return withStore(cfg, func(store *tray.Store) error {
			for _, id := range ids {
				err := store.Remove(c.Context, id)
				if errors.Is(err, tray.ErrNotFound) {
					return fmt.Errorf("no tray snippet with ID %d", id)
				}
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(c.Out, "removed %d\n", id); err != nil {
					return err
				}
			}
			return nil
		})
	})

	trayCmd.AddCommand(addCmd, lsCmd, showCmd, rmCmd)
	return trayCmd
}

var writeClipboard = clipboard.Write

func withStore(cfg Config, fn func(store *tray.Store) error) error {
	store, err := tray.Open(cfg.TrayPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, qcli.Usagef("invalid snippet ID %q", s)
	}
	return id, nil
}
