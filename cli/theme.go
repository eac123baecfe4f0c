package cli

import "github.com/charmbracelet/lipgloss"

// Palette colours adapt to the terminal background.
var (
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF5D62", Light: "#C34043"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#98BB6C", Light: "#4E7C5A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FF9E3B", Light: "#A68A64"}
	colorOrange = lipgloss.AdaptiveColor{Dark: "#FFA066", Light: "#CC6B4E"}
	colorCyan   = lipgloss.AdaptiveColor{Dark: "#7E9CD8", Light: "#5B8BBE"}
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#7FB4CA", Light: "#4F7CAC"}
	colorViolet = lipgloss.AdaptiveColor{Dark: "#957FB8", Light: "#674D7A"}
	colorMuted  = lipgloss.AdaptiveColor{Dark: "#727169", Light: "#6C7086"}
)

// Theme holds the styles shared by help output and command renderers.
type Theme struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Command lipgloss.Style
	Flag    lipgloss.Style
	Italic  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Header  lipgloss.Style
}

// DefaultTheme is used by every wallprefs command.
var DefaultTheme = &Theme{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorOrange),
	Section: lipgloss.NewStyle().Italic(true).Foreground(colorOrange),
	Command: lipgloss.NewStyle().Bold(true).Foreground(colorBlue),
	Flag:    lipgloss.NewStyle().Foreground(colorViolet),
	Italic:  lipgloss.NewStyle().Italic(true),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(colorRed),
	Success: lipgloss.NewStyle().Foreground(colorGreen),
	Warning: lipgloss.NewStyle().Foreground(colorYellow),
	Header:  lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
}
