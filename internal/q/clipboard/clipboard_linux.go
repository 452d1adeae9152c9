//go:build linux

package clipboard

const missingHint = "no clipboard utility found (install wl-clipboard, xclip, or xsel)"

func candidates() []tool {
	var cands []tool
	if getenv("WAYLAND_DISPLAY") != "" {
		cands = append(cands, tool{
			paste: []string{"wl-paste", "--no-newline"},
			copy:  []string{"wl-copy"},
		})
	}
	return append(cands,
		tool{
			paste: []string{"xclip", "-out", "-selection", "clipboard"},
			copy:  []string{"xclip", "-in", "-selection", "clipboard"},
		},
		tool{
			paste: []string{"xsel", "--output", "--clipboard"},
			copy:  []string{"xsel", "--input", "--clipboard"},
		},
	)
}
