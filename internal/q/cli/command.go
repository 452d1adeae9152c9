// Package cli is a small command-tree runner: subcommands, typed flags, positional arg validation, generated help, and error-to-exit-code mapping.
package cli

// RunFunc is a command handler.
type RunFunc func(c *Context) error

// ArgsFunc validates positional args. It should return a UsageError for user-facing usage mistakes.
type ArgsFunc func(args []string) error

// Command is one node of a command tree. A Command with a nil Run is a namespace: it only dispatches to children.
type Command struct {
	// Name is the token used to invoke this command (e.g. "add" in "tray add").
	Name string

	// Aliases are additional tokens that invoke this command.
	Aliases []string

	Short   string
	Long    string
	Example string

	Args ArgsFunc // optional
	Run  RunFunc  // optional

	parent   *Command
	children []*Command
	flags    *FlagSet
}

// AddCommand adds child commands under c. It panics on nil, unnamed, already-attached, or duplicate children.
func (c *Command) AddCommand(children ...*Command) {
	for _, child := range children {
		switch {
		case child == nil:
			panic("cli: AddCommand called with nil child")
		case child.parent != nil:
			panic("cli: AddCommand called with a child already attached to a parent")
		case child.Name == "":
			panic("cli: AddCommand called with a child with empty Name")
		case c.child(child.Name) != nil:
			panic("cli: duplicate command: " + child.Name)
		}
		c.children = append(c.children, child)
		child.parent = c
	}
}

// Commands returns the direct children of c.
func (c *Command) Commands() []*Command {
	return append([]*Command(nil), c.children...)
}

// Flags returns c's flags. Flags are local: they are accepted only after c has been selected on the command line.
func (c *Command) Flags() *FlagSet {
	if c.flags == nil {
		c.flags = newFlagSet()
	}
	return c.flags
}

// Path returns the command's invocation path, e.g. "textdiff tray add".
func (c *Command) Path() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.Path() + " " + c.Name
}

func (c *Command) child(token string) *Command {
	for _, child := range c.children {
		if child.Name == token {
			return child
		}
		for _, alias := range child.Aliases {
			if alias == token {
				return child
			}
		}
	}
	return nil
}
