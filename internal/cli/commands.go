package cli

import (
	"fmt"
	"sync"

	qcli "github.com/codalotl/textdiff/internal/q/cli"
	"github.com/codalotl/textdiff/internal/simplelogger"
)

var logf = simplelogger.For("cli")

type configState struct {
	once sync.Once
	cfg  Config
	err  error
}

func (s *configState) get() (Config, error) {
	s.once.Do(func() {
		s.cfg, _, s.err = loadConfig("")
	})
	return s.cfg, s.err
}

// compareFlags are the flags shared by diff and watch. Each overrides its config value only when given.
type compareFlags struct {
	cmd               *qcli.Command
	ignoreCase        *bool
	ignorePunctuation *bool
	memoriser         *bool
	format            *string
	width             *int
}

func addCompareFlags(cmd *qcli.Command) *compareFlags {
	fs := cmd.Flags()
	return &compareFlags{
		cmd:               cmd,
		ignoreCase:        fs.Bool("ignore-case", 'i', false, "Compare case-insensitively."),
		ignorePunctuation: fs.Bool("ignore-punctuation", 'p', false, "Ignore punctuation when comparing."),
		memoriser:         fs.Bool("memoriser", 'm', false, "Compare only as far as NEW goes and show changes in context windows."),
		format:            fs.Enum("format", 0, "", formats, "Output format (default: config format)."),
		width:             fs.Int("width", 'w', 0, "Wrap output at this many columns (default: config width, else terminal width)."),
	}
}

func (f *compareFlags) apply(cfg Config) (Config, error) {
	fs := f.cmd.Flags()
	if fs.Changed("ignore-case") {
		cfg.IgnoreCase = *f.ignoreCase
	}
	if fs.Changed("ignore-punctuation") {
		cfg.IgnorePunctuation = *f.ignorePunctuation
	}
	if fs.Changed("memoriser") {
		cfg.Memoriser = *f.memoriser
	}
	if fs.Changed("format") {
		cfg.Format = *f.format
	}
	if fs.Changed("width") {
		if *f.width < 0 {
			return cfg, qcli.Usagef("invalid --width: must be >= 0 (got %d)", *f.width)
		}
		cfg.Width = *f.width
	}
	return cfg, nil
}

// runFunc is a command handler that needs the loaded configuration.
type runFunc func(c *qcli.Context, cfg Config) error

func newRootCommand() *qcli.Command {
	cfgState := &configState{}

	runWithConfig := func(next runFunc) qcli.RunFunc {
		return func(c *qcli.Context) error {
			cfg, err := cfgState.get()
			if err != nil {
				return qcli.ExitError{Code: 1, Err: err}
			}
			return next(c, cfg)
		}
	}

	root := &qcli.Command{
		Name:  "textdiff",
		Short: "Highlight character-level differences between two texts.",
		Long: "textdiff compares an original text with a modified one, character by character, and reports\n" +
			"how much of the original survives. In memoriser mode it compares only as far as the modified\n" +
			"text goes, which suits checking a passage typed from memory.",
	}

	root.AddCommand(newDiffCommand(runWithConfig), newWatchCommand(runWithConfig), newTrayCommand(runWithConfig))

	configCmd := &qcli.Command{
		Name:  "config",
		Short: "Print textdiff configuration.",
		Args:  qcli.NoArgs,
	}
	configSources := configCmd.Flags().Bool("sources", 0, false, "Show which source set each value.")
	configCmd.Run = func(c *qcli.Context) error {
		cfg, loader, err := loadConfig("")
		if err != nil {
			return qcli.ExitError{Code: 1, Err: err}
		}
		if *configSources {
			return writeConfigSources(c.Out, loader)
		}
		return writeConfig(c.Out, cfg)
	}
	root.AddCommand(configCmd)

	root.AddCommand(&qcli.Command{
		Name:  "version",
		Short: "Print textdiff version.",
		Args:  qcli.NoArgs,
		Run: func(c *qcli.Context) error {
			_, err := fmt.Fprintf(c.Out, "textdiff %s\n", Version)
			return err
		},
	})

	return root
}
