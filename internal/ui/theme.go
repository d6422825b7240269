package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help                          lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor

	SymOK, SymFail    string
	BarFull, BarEmpty string
}

var current = classic()

// SetTheme switches the palette: classic (default), neon or mono.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Selected:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Done:        lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("13"),
			SymOK:       "✔", SymFail: "✖",
			BarFull: "█", BarEmpty: "░",
		}
	case "mono":
		plain := lipgloss.NewStyle()
		current = Theme{
			Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain, Pending: plain,
			Selected:    plain.Reverse(true),
			Done:        plain.Strikethrough(true),
			Help:        plain,
			Border:      lipgloss.ASCIIBorder(),
			BorderColor: lipgloss.NoColor{},
			SymOK:       "ok", SymFail: "error:",
			BarFull: "#", BarEmpty: "-",
		}
	default:
		current = classic()
	}
}

func classic() Theme {
	return Theme{
		Title:       lipgloss.NewStyle().Bold(true),
		Muted:       lipgloss.NewStyle().Faint(true),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:        lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:        lipgloss.NewStyle().Faint(true),
		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("8"),
		SymOK:       "✔", SymFail: "✖",
		BarFull: "█", BarEmpty: "░",
	}
}

// Current returns the active theme.
func Current() Theme { return current }
