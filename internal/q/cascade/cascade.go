package cascade

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Source types reported in Provenance.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
)

// Provenance records where a configuration value came from.
type Provenance struct {
	SourceType       string // SourceDefault, SourceFile, or SourceEnv
	SourceIdentifier string // the file path for SourceFile; "" otherwise
}

// IsSet reports whether any source set the value.
func (p Provenance) IsSet() bool {
	return p.SourceType != ""
}

func (p Provenance) String() string {
	if p.SourceIdentifier != "" {
		return p.SourceType + " " + p.SourceIdentifier
	}
	return p.SourceType
}

// Loader builds a prioritized cascade of configuration sources and applies them to a destination struct. The zero value is ready to use.
type Loader struct {
	sources    []source // low to high priority
	provenance map[string]Provenance
}

// New returns a new Loader. It is equivalent to &Loader{} and exists to support fluent chaining.
func New() *Loader {
	return &Loader{}
}

// WithDefaults registers m as a source of default values. Keys may use dot-notation. A nil map contributes no values.
func (c *Loader) WithDefaults(m map[string]any) *Loader {
	c.sources = append(c.sources, &mapSource{m: m})
	return c
}

// WithFile registers a JSON (.json) or YAML (.yaml, .yml) file. path is expanded with ExpandPath and read at load time.
func (c *Loader) WithFile(path string) *Loader {
	c.sources = append(c.sources, &fileSource{path: path})
	return c
}

// WithNearestFile searches upward from start (a directory or file; the working directory if "") for the first non-empty file named fileName and registers it with WithFile. If none
// is found, the Loader is unchanged. It panics if fileName is absolute.
func (c *Loader) WithNearestFile(fileName string, start string) *Loader {
	if path := FindNearest(fileName, start); path != "" {
		c.WithFile(path)
	}
	return c
}

// WithEnv registers environment variables: m maps a configuration key (dots denote nesting) to a variable name.
func (c *Loader) WithEnv(m map[string]string) *Loader {
	c.sources = append(c.sources, &envSource{keyToEnv: m})
	return c
}

// Provenance returns which source last set key (case-insensitive, dotted) in the most recent StrictlyLoad. The zero Provenance means no source set it.
func (c *Loader) Provenance(key string) Provenance {
	return c.provenance[strings.ToLower(key)]
}

// StrictlyLoad applies c's sources, low to high priority, to dest, which must be a non-nil pointer to a struct.
//
// Missing or unreadable files do not cause errors. A source that cannot be parsed, or a value that cannot be coerced to its field's type, fails the load immediately. Required fields
// are validated after all sources have been applied.
func (c *Loader) StrictlyLoad(dest any) error {
	rv := reflect.ValueOf(dest)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a non-nil pointer to struct")
	}
	structVal := rv.Elem()

	c.provenance = map[string]Provenance{}
	for _, src := range c.sources {
		prov := src.provenance()
		m, err := src.load()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				continue
			}
			return fmt.Errorf("%s: %w", prov, err)
		}
		if err := c.apply(structVal, m, "", prov); err != nil {
			return fmt.Errorf("%s: %w", prov, err)
		}
	}
	return c.validateRequired(structVal, "")
}

// fieldKey returns the key that addresses f, or "" if f is skipped.
func fieldKey(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	if name, _, _ := strings.Cut(f.Tag.Get("cascade"), ","); name != "" {
		if name == "-" {
			return ""
		}
		return strings.ToLower(name)
	}
	if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
		return strings.ToLower(name)
	}
	return strings.ToLower(f.Name)
}

func isRequired(f reflect.StructField) bool {
	_, opts, _ := strings.Cut(f.Tag.Get("cascade"), ",")
	for _, opt := range strings.Split(opts, ",") {
		if strings.TrimSpace(opt) == "required" {
			return true
		}
	}
	return false
}

func (c *Loader) apply(structVal reflect.Value, m map[string]any, base string, prov Provenance) error {
	t := structVal.Type()
	fields := map[string]int{}
	for i := 0; i < t.NumField(); i++ {
		key := fieldKey(t.Field(i))
		if key == "" {
			continue
		}
		if prev, dup := fields[key]; dup {
			return fmt.Errorf("fields %s and %s share key %q", t.Field(prev).Name, t.Field(i).Name, key)
		}
		fields[key] = i
	}

	for key, raw := range m {
		idx, ok := fields[key]
		if !ok {
			continue
		}
		path := key
		if base != "" {
			path = base + "." + key
		}
		if err := c.set(structVal.Field(idx), raw, path, prov); err != nil {
			return err
		}
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

func (c *Loader) set(v reflect.Value, raw any, path string, prov Provenance) error {
	if raw == nil {
		return nil
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return c.set(v.Elem(), raw, path, prov)
	}

	if v.Kind() == reflect.Struct {
		obj, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object, got %T", path, raw)
		}
		return c.apply(v, obj, path, prov)
	}

	switch {
	case v.Type() == durationType:
		d, err := coerceDuration(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		v.SetInt(int64(d))
	case v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.String:
		switch vv := raw.(type) {
		case []string:
			v.Set(reflect.ValueOf(append([]string(nil), vv...)).Convert(v.Type()))
		case string:
			v.Set(reflect.ValueOf(splitList(vv)).Convert(v.Type()))
		default:
			return fmt.Errorf("%s: cannot coerce %T to a list", path, raw)
		}
	default:
		if err := setScalar(v, raw); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	c.provenance[path] = prov
	return nil
}

func setScalar(v reflect.Value, raw any) error {
	switch v.Kind() {
	case reflect.String:
		switch vv := raw.(type) {
		case string:
			v.SetString(vv)
		case int:
			v.SetString(strconv.Itoa(vv))
		case float64:
			v.SetString(strconv.FormatFloat(vv, 'f', -1, 64))
		case bool:
			v.SetString(strconv.FormatBool(vv))
		default:
			return fmt.Errorf("cannot coerce %T to string", raw)
		}
	case reflect.Bool:
		switch vv := raw.(type) {
		case bool:
			v.SetBool(vv)
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(vv))
			if err != nil {
				return fmt.Errorf("cannot parse bool from %q", vv)
			}
			v.SetBool(b)
		default:
			return fmt.Errorf("cannot coerce %T to bool", raw)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch vv := raw.(type) {
		case int:
			v.SetInt(int64(vv))
		case float64:
			v.SetInt(int64(vv))
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(vv), 10, 64)
			if err != nil {
				return fmt.Errorf("cannot parse int from %q", vv)
			}
			v.SetInt(n)
		default:
			return fmt.Errorf("cannot coerce %T to int", raw)
		}
	case reflect.Float32, reflect.Float64:
		switch vv := raw.(type) {
		case int:
			v.SetFloat(float64(vv))
		case float64:
			v.SetFloat(vv)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(vv), 64)
			if err != nil {
				return fmt.Errorf("cannot parse float from %q", vv)
			}
			v.SetFloat(f)
		default:
			return fmt.Errorf("cannot coerce %T to float", raw)
		}
	default:
		return fmt.Errorf("unsupported field kind %s", v.Kind())
	}
	return nil
}

// coerceDuration accepts Go duration strings ("750ms") and bare integers, which are read as milliseconds.
func coerceDuration(raw any) (time.Duration, error) {
	switch vv := raw.(type) {
	case int:
		return time.Duration(vv) * time.Millisecond, nil
	case float64:
		return time.Duration(vv * float64(time.Millisecond)), nil
	case string:
		s := strings.TrimSpace(vv)
		if n, err := strconv.Atoi(s); err == nil {
			return time.Duration(n) * time.Millisecond, nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("cannot parse duration from %q", vv)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to duration", raw)
	}
}

// splitList splits a comma-separated env value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Loader) validateRequired(structVal reflect.Value, base string) error {
	t := structVal.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := fieldKey(f)
		if key == "" {
			continue
		}
		path := key
		if base != "" {
			path = base + "." + key
		}
		fv := structVal.Field(i)
		if fv.Kind() == reflect.Pointer && !fv.IsNil() {
			fv = fv.Elem()
		}
		if fv.Kind() == reflect.Struct {
			if err := c.validateRequired(fv, path); err != nil {
				return err
			}
			continue
		}
		if isRequired(f) && !c.provenance[path].IsSet() {
			return fmt.Errorf("missing required key: %s", path)
		}
	}
	return nil
}
