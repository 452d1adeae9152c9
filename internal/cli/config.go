package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/codalotl/textdiff/internal/q/cascade"
	"github.com/codalotl/textdiff/internal/textdiff"
)

// Output formats. FormatAuto picks FormatANSI on a terminal and FormatPlain otherwise.
const (
	FormatAuto  = "auto"
	FormatANSI  = "ansi"
	FormatPlain = "plain"
	FormatJSON  = "json"
)

var formats = []string{FormatAuto, FormatANSI, FormatPlain, FormatJSON}

// Config is textdiff's configuration. Sources, lowest precedence first:
//   - built-in defaults
//   - ~/.textdiff/config.yaml
//   - the nearest .textdiff/config.json, searching up from the working directory
//   - TEXTDIFF_* environment variables
//
// Command-line flags override all of them.
type Config struct {
	IgnoreCase        bool          `json:"ignorecase"`
	IgnorePunctuation bool          `json:"ignorepunctuation"`
	Memoriser         bool          `json:"memoriser"`
	Format            string        `json:"format"`
	Width             int           `json:"width"` // 0: terminal width, or no wrapping when not a terminal
	Debounce          time.Duration `json:"debounce"`
	Poll              time.Duration `json:"poll"`
	TrayPath          string        `json:"traypath"`
}

// Engine returns the comparison options.
func (c Config) Engine() textdiff.Config {
	return textdiff.Config{
		IgnoreCase:        c.IgnoreCase,
		IgnorePunctuation: c.IgnorePunctuation,
		Memoriser:         c.Memoriser,
	}
}

var configEnv = map[string]string{
	"ignorecase":        "TEXTDIFF_IGNORE_CASE",
	"ignorepunctuation": "TEXTDIFF_IGNORE_PUNCTUATION",
	"memoriser":         "TEXTDIFF_MEMORISER",
	"format":            "TEXTDIFF_FORMAT",
	"width":             "TEXTDIFF_WIDTH",
	"traypath":          "TEXTDIFF_TRAY",
}

// configKeys lists Config's keys in display order.
var configKeys = []string{"ignorecase", "ignorepunctuation", "memoriser", "format", "width", "debounce", "poll", "traypath"}

// loadConfig loads the configuration. startDir is where the search for a project config begins ("" means the working directory).
func loadConfig(startDir string) (Config, *cascade.Loader, error) {
	loader := cascade.New().
		WithDefaults(map[string]any{
			"format":   FormatAuto,
			"width":    0,
			"debounce": "150ms",
			"poll":     "250ms",
			"traypath": "~/.textdiff/tray.db",
		}).
		WithFile("~/.textdiff/config.yaml").
		WithNearestFile(filepath.Join(".textdiff", "config.json"), startDir).
		WithEnv(configEnv)

	var cfg Config
	if err := loader.StrictlyLoad(&cfg); err != nil {
		return Config{}, nil, fmt.Errorf("load configuration: %w", err)
	}
	cfg.TrayPath = cascade.ExpandPath(cfg.TrayPath)
	if err := validateConfig(cfg); err != nil {
		return Config{}, nil, err
	}
	return cfg, loader, nil
}

func validateConfig(cfg Config) error {
	if !validFormat(cfg.Format) {
		return fmt.Errorf("invalid configuration: format must be one of auto, ansi, plain, json (got %q)", cfg.Format)
	}
	if cfg.Width < 0 {
		return fmt.Errorf("invalid configuration: width must be >= 0 (got %d)", cfg.Width)
	}
	if cfg.Debounce < 0 {
		return fmt.Errorf("invalid configuration: debounce must be >= 0 (got %s)", cfg.Debounce)
	}
	if cfg.Poll <= 0 {
		return fmt.Errorf("invalid configuration: poll must be > 0 (got %s)", cfg.Poll)
	}
	if cfg.TrayPath == "" {
		return fmt.Errorf("invalid configuration: traypath must be set")
	}
	return nil
}

func validFormat(f string) bool {
	for _, v := range formats {
		if f == v {
			return true
		}
	}
	return false
}

// configJSON is Config as printed by `textdiff config`: durations as strings.
type configJSON struct {
	IgnoreCase        bool   `json:"ignorecase"`
	IgnorePunctuation bool   `json:"ignorepunctuation"`
	Memoriser         bool   `json:"memoriser"`
	Format            string `json:"format"`
	Width             int    `json:"width"`
	Debounce          string `json:"debounce"`
	Poll              string `json:"poll"`
	TrayPath          string `json:"traypath"`
}

func writeConfig(w io.Writer, cfg Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(configJSON{
		IgnoreCase:        cfg.IgnoreCase,
		IgnorePunctuation: cfg.IgnorePunctuation,
		Memoriser:         cfg.Memoriser,
		Format:            cfg.Format,
		Width:             cfg.Width,
		Debounce:          cfg.Debounce.String(),
		Poll:              cfg.Poll.String(),
		TrayPath:          cfg.TrayPath,
	})
}

// writeConfigSources prints where each key's value came from.
func writeConfigSources(w io.Writer, loader *cascade.Loader) error {
	for _, key := range configKeys {
		src := "unset"
		if p := loader.Provenance(key); p.IsSet() {
			src = p.String()
		}
		if _, err := fmt.Fprintf(w, "%-18s %s\n", key, src); err != nil {
			return err
		}
	}
	return nil
}
