package core

// Color represents a foreground color for a screen cell.
type Color uint8

// Colors used by the world views.
const (
	ColorDefault Color = iota
	ColorCyan
	ColorMagenta
	ColorYellow
	ColorGray
	ColorBrightWhite
)
