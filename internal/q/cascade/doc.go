// Package cascade loads layered configuration into Go structs from multiple sources with predictable precedence.
//
// Register sources from lowest to highest priority with the With* methods, then call StrictlyLoad:
//
//	err := cascade.New().
//	    WithDefaults(map[string]any{"format": "auto", "poll": "500ms"}).
//	    WithFile("~/.textdiff/config.yaml").
//	    WithNearestFile(".textdiff/config.json", "").
//	    WithEnv(map[string]string{"format": "TEXTDIFF_FORMAT"}).
//	    StrictlyLoad(&cfg)
//
// Sources
//   - Defaults from a map[string]any whose keys may use dot-notation to denote nesting.
//   - Files read at load time, decoded by extension: .json as JSON, .yaml/.yml as YAML. Missing, unreadable, and empty files contribute nothing.
//   - Environment variables mapped to keys via WithEnv. Unset and empty variables contribute nothing; values are strings.
//
// Keys are case-insensitive and dot-separated for nesting. A field's key is its cascade tag name, else its json tag name, else its field name. Unknown keys are ignored. Values are coerced
// to the field type when reasonable: strings to numbers, bools and durations (time.ParseDuration); numbers to strings; floats to ints truncated toward zero.
//
// Fields tagged cascade:",required" must be set by some source. StrictlyLoad fails fast on the first source that cannot be parsed or supplies a value of the wrong shape; errors name the
// source. After a successful load, Loader.Provenance reports which source set each key.
package cascade
