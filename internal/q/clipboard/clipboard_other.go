//go:build !darwin && !linux

package clipboard

const missingHint = "unsupported platform"

func candidates() []tool { return nil }
