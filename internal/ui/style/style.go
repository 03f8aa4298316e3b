// Package style holds the colors and icons shared by terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Grass  = lipgloss.Color("#5B8C2A")
	Stone  = lipgloss.Color("#7A7F87")
	Gold   = lipgloss.Color("#E0A526")
	Redst  = lipgloss.Color("#C8321E")
	Water  = lipgloss.Color("#3F76E4")
	Bright = lipgloss.Color("#FFFFFF")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
	Skip    = "-"
)
