//go:build darwin

package clipboard

const missingHint = "missing pbcopy or pbpaste"

func candidates() []tool {
	return []tool{{paste: []string{"pbpaste"}, copy: []string{"pbcopy"}}}
}
