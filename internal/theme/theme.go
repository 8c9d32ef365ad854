// Package theme remaps stored colors at render time. Stored colors are never
// changed; only what is drawn is.
package theme

import "strings"

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse returns the named theme, falling back to Light.
func Parse(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), string(Dark)) {
		return Dark
	}
	return Light
}

// Background is the canvas clear color for the theme.
func (t Theme) Background() string {
	if t == Dark {
		return "#121212"
	}
	return "#ffffff"
}

// Remap swaps black and white ink in the dark theme so that default pen
// colors stay visible. Every other color passes through.
func Remap(color string, t Theme) string {
	if t != Dark {
		return color
	}
	switch normalize(color) {
	case "#000000":
		return "#ffffff"
	case "#ffffff":
		return "#000000"
	}
	return color
}

// normalize lowercases hex colors and expands the short #rgb form. Named
// black and white are folded in too.
func normalize(color string) string {
	c := strings.ToLower(strings.TrimSpace(color))
	switch c {
	case "black":
		return "#000000"
	case "white":
		return "#ffffff"
	}
	if len(c) == 4 && c[0] == '#' {
		return "#" + strings.Repeat(c[1:2], 2) + strings.Repeat(c[2:3], 2) + strings.Repeat(c[3:4], 2)
	}
	return c
}
