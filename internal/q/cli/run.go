package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type Options struct {
	// Args is the argv excluding the program name (typically os.Args[1:]).
	Args []string

	// In/Out/Err override standard I/O. If nil, defaults are used.
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Context is passed to a command handler. Flag values are read through pointers bound when the command was built.
type Context struct {
	context.Context

	Command *Command
	Args    []string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run executes a command tree as a CLI program and returns a process exit code:
//   - 0 on success (and after -h/--help)
//   - 2 for usage errors, after printing the message and the selected command's usage to Err
//   - the ExitCoder's code for handler errors that carry one, else 1; the message is printed to Err without usage
func Run(ctx context.Context, root *Command, opts Options) int {
	if root == nil || root.Name == "" {
		panic("cli: Run called with nil or unnamed root")
	}

	in, out, errOut := opts.In, opts.Out, opts.Err
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	selected, args, err := parseArgv(root, opts.Args)
	if errors.Is(err, errHelp) {
		writeHelp(out, selected)
		return 0
	}
	if err == nil && selected.Run == nil {
		if len(args) == 0 {
			err = Usagef("missing required subcommand")
		} else {
			err = Usagef("unknown subcommand: %s", args[0])
		}
	}
	if err == nil && selected.Args != nil {
		if argErr := selected.Args(args); argErr != nil {
			err = argErr
			if exitCode(argErr) == 1 {
				err = UsageError{Message: argErr.Error()}
			}
		}
	}
	if err == nil {
		err = selected.Run(&Context{
			Context: ctx,
			Command: selected,
			Args:    args,
			In:      in,
			Out:     out,
			Err:     errOut,
		})
	}
	if err == nil {
		return 0
	}

	code := exitCode(err)
	switch {
	case code == 2:
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(errOut, msg)
			fmt.Fprintln(errOut)
		}
		writeHelp(errOut, selected)
	case code != 0:
		if msg := err.Error(); msg != "" && !isSilentExit(err) {
			fmt.Fprintln(errOut, msg)
		}
	}
	return code
}

var errHelp = errors.New("help requested")

// parseArgv selects the deepest command named by the leading non-flag tokens and parses flags anywhere after that command was selected. Tokens after "--" are
// always positional.
func parseArgv(root *Command, argv []string) (*Command, []string, error) {
	selected := root
	selecting := true
	var positional []string

	for i := 0; i < len(argv); i++ {
		token := argv[i]

		if token == "--" {
			positional = append(positional, argv[i+1:]...)
			break
		}
		if token == "-h" || token == "--help" {
			return selected, nil, errHelp
		}
		if strings.HasPrefix(token, "-") && token != "-" { // "-" is a valid positional arg (stdin).
			consumed, err := selected.Flags().parse(argv, i)
			if err != nil {
				return selected, nil, err
			}
			i += consumed
			continue
		}
		if selecting {
			if child := selected.child(token); child != nil {
				selected = child
				continue
			}
			selecting = false
		}
		positional = append(positional, token)
	}
	return selected, positional, nil
}

func isSilentExit(err error) bool {
	var ee ExitError
	return errors.As(err, &ee) && ee.Err == nil
}
