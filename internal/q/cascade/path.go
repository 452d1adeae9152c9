package cascade

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var isWindows = runtime.GOOS == "windows"

// ExpandPath expands a leading "~" to the home directory and makes path absolute. It works on Windows, which doesn't traditionally treat ~ as the home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	expanded := path
	if strings.HasPrefix(expanded, "~") {
		if home, _ := os.UserHomeDir(); home != "" {
			switch {
			case expanded == "~" || expanded == "~/" || expanded == `~\`:
				expanded = home
			case strings.HasPrefix(expanded, "~/") || strings.HasPrefix(expanded, `~\`):
				expanded = filepath.Join(home, expanded[2:])
			}
		}
	}

	if !filepath.IsAbs(expanded) {
		if abs, err := filepath.Abs(expanded); err == nil {
			expanded = abs
		}
	}
	return expanded
}

// InUserConfigDirectory returns an absolute path for user-specific config files joined with subPath: under ~ on macOS/Linux, under %USERPROFILE%/AppData/Local on Windows.
func InUserConfigDirectory(subPath string) string {
	if isWindows {
		return filepath.Join(ExpandPath("~/AppData/Local"), subPath)
	}
	return filepath.Join(ExpandPath("~"), subPath)
}

// FindNearest walks up from start (a directory or file; the working directory if "") and returns the first non-empty file named fileName, or "" if there is none. It panics if fileName
// is absolute.
func FindNearest(fileName string, start string) string {
	if filepath.IsAbs(fileName) {
		panic("cascade: fileName shouldn't be absolute")
	}
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		start = wd
	}
	if fi, err := os.Stat(start); err == nil && !fi.IsDir() {
		start = filepath.Dir(start)
	}

	for dir := start; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, fileName)
		if data, err := os.ReadFile(candidate); err == nil && strings.TrimSpace(string(data)) != "" {
			return candidate
		}
		if filepath.Dir(dir) == dir {
			return ""
		}
	}
}
