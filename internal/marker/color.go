package marker

import "strings"

// Color is a marker color tag from the host palette.
type Color string

const (
	Red     Color = "Red"
	Yellow  Color = "Yellow"
	Green   Color = "Green"
	Cyan    Color = "Cyan"
	Blue    Color = "Blue"
	Purple  Color = "Purple"
	Pink    Color = "Pink"
	Black   Color = "Black"
	White   Color = "White"
	Orange  Color = "Orange"
	Magenta Color = "Magenta"
)

var supported = map[Color]bool{
	Red: true, Yellow: true, Green: true, Cyan: true, Blue: true,
	Purple: true, Pink: true, Black: true, White: true, Orange: true,
}

// Supported reports whether every host version accepts the color.
func (c Color) Supported() bool {
	return supported[c]
}

// Fallback returns the color used for the single retry after a host rejection.
// Colors the palette already accepts have no fallback.
func (c Color) Fallback() (Color, bool) {
	switch c {
	case Magenta:
		return Pink, true
	case Orange:
		return Yellow, true
	}
	if !c.Supported() {
		return Red, true
	}
	return c, false
}

// ParseColor matches a color name case-insensitively. Unknown names are returned as-is
// so that the validator can still report them.
func ParseColor(s string) Color {
	s = strings.TrimSpace(s)
	for c := range supported {
		if strings.EqualFold(string(c), s) {
			return c
		}
	}
	if strings.EqualFold(string(Magenta), s) {
		return Magenta
	}
	return Color(s)
}
