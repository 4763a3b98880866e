package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/soothhq/sooth/internal/config"
)

// Accent color for sooth branding.
const soothTeal = "#2BB3A3"

// Styles contains all lipgloss styles for the TUI, derived per theme.
type Styles struct {
	Header    lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Error     lipgloss.Style
	Prompt    lipgloss.Style
	Separator lipgloss.Style // Horizontal line separator
	StatusBar lipgloss.Style
	Notify    lipgloss.Style
	Phase     lipgloss.Style // Breathing phase instruction
}

// StylesFor returns the style set for the given theme. Unknown values get
// the dark set; theme validation happens at load time.
func StylesFor(theme string) Styles {
	if theme == config.ThemeLight {
		return lightStyles()
	}
	return darkStyles()
}

func darkStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(soothTeal)),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		TabActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color(soothTeal)),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		System:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Notify:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		Phase:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(soothTeal)),
	}
}

func lightStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(soothTeal)),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		TabActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color(soothTeal)),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("29")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("90")),
		System:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("29")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Notify:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("94")),
		Phase:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(soothTeal)),
	}
}

// RenderGreeting returns the header shown above an empty or fresh
// transcript.
func (s Styles) RenderGreeting() string {
	return s.Header.Render("sooth") + s.System.Render("  ·  a quiet place to check in with yourself") + "\n" +
		s.System.Render("Type a message to talk, or /help for commands.")
}
