// Package style provides the colors, icons and text styles shared by the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Arrow   = "→"
)

// Styles holds the text styles bound to one renderer.
type Styles struct {
	// Heading renders the first line of a failure report.
	Heading lipgloss.Style
	// Detail renders supporting lines such as log paths.
	Detail lipgloss.Style
	// Success renders completion lines.
	Success lipgloss.Style
	// Accent renders project names and setting keys.
	Accent lipgloss.Style
}

// New creates the text styles for r. A nil renderer uses lipgloss's default.
func New(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		Heading: r.NewStyle().Bold(true).Foreground(Red),
		Detail:  r.NewStyle().Foreground(Slate),
		Success: r.NewStyle().Foreground(Green),
		Accent:  r.NewStyle().Foreground(Iris),
	}
}
