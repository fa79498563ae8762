// Package annotate appends resolved guidance to marker notes exactly once and applies
// the duration floor required before a marker is submitted to the host.
package annotate

import "strings"

// Token prefixes the single guidance line a marker note may carry.
const Token = "— Cuts:"

// MinDuration is the shortest span the host accepts; zero-frame markers are dropped.
const MinDuration = 1

// Tagged reports whether note already carries a guidance line.
func Tagged(note string) bool {
	return strings.Contains(note, Token)
}

// Annotate appends the guidance line to note. A tagged note is returned unchanged.
func Annotate(note, guidance string) string {
	if Tagged(note) || guidance == "" {
		return note
	}
	line := Token + " " + guidance
	base := strings.TrimRight(note, " \t\r\n")
	if base == "" {
		return line
	}
	return base + "\n" + line
}

// Retag replaces an existing guidance line with a freshly resolved one.
func Retag(note, guidance string) string {
	return Annotate(Strip(note), guidance)
}

// Strip removes the guidance line and everything after it.
func Strip(note string) string {
	i := strings.Index(note, Token)
	if i < 0 {
		return note
	}
	return strings.TrimRight(note[:i], " \t\r\n")
}

// Floor clamps a computed duration to MinDuration.
func Floor(d int) int {
	if d < MinDuration {
		return MinDuration
	}
	return d
}
