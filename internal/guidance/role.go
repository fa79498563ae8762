package guidance

import (
	"strings"
	"unicode"

	"github.com/ivlev/markercraft/internal/classify"
)

// RoleOf reduces a marker label to its canonical role key:
//
//	"HOOK (Signature Visual)" -> "hook"
//	"COMMIT / PAYOFF #1"      -> "commit"
//	"DEVELOP A"               -> "develop"
//	"PRINCIPLES — ShotFX"     -> "principles"
//
// The result may be empty; Resolver maps empty and unknown roles to the fallback role.
func RoleOf(label string) string {
	s := stripParens(label)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	s = classify.Normalize(s)
	if i := strings.Index(s, " - "); i >= 0 {
		s = s[:i]
	}
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for len(words) > 1 && isVariant(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	if len(words) == 1 && isNumber(words[0]) {
		return ""
	}
	return strings.Join(words, "_")
}

// stripParens drops every parenthetical group, including an unterminated trailing one.
func stripParens(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isVariant matches numbering and single-letter suffixes: "#2", "3", "A".
func isVariant(w string) bool {
	if isNumber(w) {
		return true
	}
	r := []rune(w)
	return len(r) == 1 && unicode.IsLetter(r[0])
}

func isNumber(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
