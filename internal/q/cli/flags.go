package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// value is the parsed state behind one flag.
type value interface {
	set(raw string) error
	kind() string // "bool", "string", ... as shown in help
}

type boolValue struct{ p *bool }

func (v boolValue) set(raw string) error {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return err
	}
	*v.p = b
	return nil
}
func (boolValue) kind() string { return "bool" }

type stringValue struct{ p *string }

func (v stringValue) set(raw string) error { *v.p = raw; return nil }
func (stringValue) kind() string           { return "string" }

type intValue struct{ p *int }

func (v intValue) set(raw string) error {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	*v.p = n
	return nil
}
func (intValue) kind() string { return "int" }

type durationValue struct{ p *time.Duration }

func (v durationValue) set(raw string) error {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*v.p = d
	return nil
}
func (durationValue) kind() string { return "duration" }

type enumValue struct {
	p       *string
	choices []string
}

func (v enumValue) set(raw string) error {
	for _, c := range v.choices {
		if raw == c {
			*v.p = raw
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(v.choices, "|"))
}
func (v enumValue) kind() string { return strings.Join(v.choices, "|") }

type flagDef struct {
	name      string
	shorthand rune
	usage     string
	value     value
	changed   bool
}

// FlagSet is a typed flag registry for a command.
type FlagSet struct {
	byLong  map[string]*flagDef
	byShort map[rune]*flagDef
}

func newFlagSet() *FlagSet {
	return &FlagSet{
		byLong:  map[string]*flagDef{},
		byShort: map[rune]*flagDef{},
	}
}

// Bool defines a bool flag. A bare "--name" sets it to true; "--name=false" or "--name false" set it explicitly.
func (fs *FlagSet) Bool(name string, shorthand rune, def bool, usage string) *bool {
	p := &def
	fs.add(name, shorthand, usage, boolValue{p})
	return p
}

func (fs *FlagSet) String(name string, shorthand rune, def string, usage string) *string {
	p := &def
	fs.add(name, shorthand, usage, stringValue{p})
	return p
}

func (fs *FlagSet) Int(name string, shorthand rune, def int, usage string) *int {
	p := &def
	fs.add(name, shorthand, usage, intValue{p})
	return p
}

func (fs *FlagSet) Duration(name string, shorthand rune, def time.Duration, usage string) *time.Duration {
	p := &def
	fs.add(name, shorthand, usage, durationValue{p})
	return p
}

// Enum defines a string flag restricted to choices. def need not be one of choices (use "" for "not given").
func (fs *FlagSet) Enum(name string, shorthand rune, def string, choices []string, usage string) *string {
	if len(choices) == 0 {
		panic("cli: Enum flag needs choices: --" + name)
	}
	p := &def
	fs.add(name, shorthand, usage, enumValue{p: p, choices: append([]string(nil), choices...)})
	return p
}

// Changed reports whether the flag was given on the command line. It panics if no flag is named name.
func (fs *FlagSet) Changed(name string) bool {
	def, ok := fs.byLong[name]
	if !ok {
		panic("cli: Changed called with unknown flag: --" + name)
	}
	return def.changed
}

func (fs *FlagSet) add(name string, shorthand rune, usage string, v value) {
	if name == "" {
		panic("cli: flag name must be non-empty")
	}
	if _, ok := fs.byLong[name]; ok {
		panic("cli: duplicate flag: --" + name)
	}
	def := &flagDef{name: name, shorthand: shorthand, usage: usage, value: v}
	fs.byLong[name] = def
	if shorthand != 0 {
		if _, ok := fs.byShort[shorthand]; ok {
			panic(fmt.Sprintf("cli: duplicate shorthand flag: -%c", shorthand))
		}
		fs.byShort[shorthand] = def
	}
}

func (fs *FlagSet) sorted() []*flagDef {
	defs := make([]*flagDef, 0, len(fs.byLong))
	for _, def := range fs.byLong {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].name < defs[j].name })
	return defs
}

// parse consumes the flag token argv[i] (and possibly argv[i+1]). It returns how many extra tokens were consumed.
func (fs *FlagSet) parse(argv []string, i int) (int, error) {
	token := argv[i]

	var def *flagDef
	var inline *string
	switch {
	case strings.HasPrefix(token, "--"):
		name, v, ok := strings.Cut(token[2:], "=")
		def = fs.byLong[name]
		if ok {
			inline = &v
		}
	case len(token) == 2 || token[2] == '=':
		// -x or -x=value
		def = fs.byShort[rune(token[1])]
		if len(token) > 2 {
			v := token[3:]
			inline = &v
		}
	default:
		// -name or -name=value
		name, v, ok := strings.Cut(token[1:], "=")
		def = fs.byLong[name]
		if ok {
			inline = &v
		}
	}
	if def == nil {
		return 0, Usagef("unknown flag: %s", token)
	}

	consumed := 0
	var raw string
	switch {
	case inline != nil:
		raw = *inline
	case def.value.kind() == "bool":
		// Only the literal words are taken as a value so that "--copy 1" leaves 1 positional.
		raw = "true"
		if i+1 < len(argv) && (argv[i+1] == "true" || argv[i+1] == "false") {
			raw = argv[i+1]
			consumed = 1
		}
	case i+1 < len(argv) && argv[i+1] != "--":
		raw = argv[i+1]
		consumed = 1
	default:
		return 0, Usagef("flag needs a value: %s", token)
	}

	if err := def.value.set(raw); err != nil {
		return 0, Usagef("invalid value for %s: %v", displayFlag(def), err)
	}
	def.changed = true
	return consumed, nil
}

func displayFlag(def *flagDef) string {
	if def.shorthand != 0 {
		return fmt.Sprintf("-%c/--%s", def.shorthand, def.name)
	}
	return "--" + def.name
}
