package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help                          lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	Border                   lipgloss.Border
	BorderColor              lipgloss.TerminalColor
}

var monoBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

var current = theme("classic")

func theme(name string) Theme {
	base := lipgloss.NewStyle()
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:  "neon",
			Title: base.Bold(true).Foreground(lipgloss.Color("13")),
			Muted: base.Faint(true), Accent: base.Foreground(lipgloss.Color("14")),
			Success: base.Foreground(lipgloss.Color("10")), Error: base.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:  base.Foreground(lipgloss.Color("11")),
			Selected: base.Bold(true).Foreground(lipgloss.Color("13")),
			Done:     base.Faint(true).Strikethrough(true),
			Help:     base.Faint(true),
			BoxUnchecked: "◻", BoxChecked: "◼",
			SymDone: "✔", SymPending: "•",
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("13"),
		}
	case "mono":
		return Theme{
			Name:  "mono",
			Title: base, Muted: base, Accent: base, Success: base, Error: base, Pending: base,
			Selected: base.Reverse(true),
			Done:     base,
			Help:     base,
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-",
			Border:      monoBorder,
			BorderColor: lipgloss.NoColor{},
		}
	default: // classic
		return Theme{
			Name:  "classic",
			Title: base.Bold(true),
			Muted: base.Faint(true), Accent: base.Foreground(lipgloss.Color("12")),
			Success: base.Foreground(lipgloss.Color("42")), Error: base.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:  base.Foreground(lipgloss.Color("214")),
			Selected: base.Bold(true).Reverse(true),
			Done:     base.Faint(true).Strikethrough(true),
			Help:     base.Faint(true),
			BoxUnchecked: "☐", BoxChecked: "☑",
			SymDone: "✔", SymPending: "•",
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("8"),
		}
	}
}

// SetTheme switches the palette. Unknown names fall back to classic.
func SetTheme(name string) {
	current = theme(name)
	if current.Name == "mono" {
		SetColor(false)
	}
}

// SetColor turns ANSI colors off (or back to terminal detection).
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Expose what renderers need
func Current() Theme { return current }
