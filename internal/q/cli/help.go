package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

func writeHelp(w io.Writer, cmd *Command) {
	if cmd.Short != "" {
		fmt.Fprintf(w, "%s - %s\n", cmd.Path(), cmd.Short)
	} else {
		fmt.Fprintf(w, "%s\n", cmd.Path())
	}

	if cmd.Long != "" {
		fmt.Fprintf(w, "\n%s\n", strings.TrimRight(cmd.Long, "\n"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", usageLine(cmd))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(cmd.children) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Commands:")
		children := cmd.Commands()
		sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
		for _, child := range children {
			fmt.Fprintf(tw, "  %s\t%s\n", child.Name, child.Short)
		}
	}

	if cmd.flags != nil && len(cmd.flags.byLong) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Flags:")
		for _, def := range cmd.flags.sorted() {
			fmt.Fprintln(tw, flagHelpLine(def))
		}
	}
	tw.Flush()

	if cmd.Example != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Example:")
		for _, line := range strings.Split(strings.TrimRight(cmd.Example, "\n"), "\n") {
			if line == "" {
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func usageLine(cmd *Command) string {
	segments := []string{cmd.Path()}
	if cmd.flags != nil && len(cmd.flags.byLong) > 0 {
		segments = append(segments, "[flags]")
	}
	if len(cmd.children) > 0 {
		if cmd.Run == nil {
			segments = append(segments, "<command>")
		} else {
			segments = append(segments, "[command]")
		}
	}
	if cmd.Run != nil {
		segments = append(segments, "[args]")
	}
	return strings.Join(segments, " ")
}

func flagHelpLine(def *flagDef) string {
	names := "    --" + def.name
	if def.shorthand != 0 {
		names = fmt.Sprintf("-%c, --%s", def.shorthand, def.name)
	}
	if kind := def.value.kind(); kind != "bool" {
		names += " <" + kind + ">"
	}
	return fmt.Sprintf("  %s\t%s", names, strings.TrimSpace(def.usage))
}
