// Package theme holds the lipgloss styles shared by quill's CLI output.
package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Kanagawa Dragon (dark) palette.
const (
	colorGreen     = "#98BB6C"
	colorYellow    = "#FF9E3B"
	colorOrange    = "#FFA066"
	colorRed       = "#FF5D62"
	colorCyan      = "#7E9CD8"
	colorBlue      = "#7FB4CA"
	colorViolet    = "#957FB8"
	colorMutedText = "#727169"
)

// Colors exposes the raw palette for callers that build their own styles.
type Colors struct {
	Green  lipgloss.Color
	Yellow lipgloss.Color
	Orange lipgloss.Color
	Red    lipgloss.Color
	Cyan   lipgloss.Color
	Blue   lipgloss.Color
	Violet lipgloss.Color
	Muted  lipgloss.Color
}

// Theme groups the styles used across commands.
type Theme struct {
	Colors Colors

	Header lipgloss.Style
	Title  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Accent lipgloss.Style
	Bold   lipgloss.Style
	Italic lipgloss.Style
	Muted  lipgloss.Style
}

// DefaultTheme is the theme instance used by quill tools.
var DefaultTheme = New()

// New builds the default theme.
func New() *Theme {
	return &Theme{
		Colors: Colors{
			Green:  lipgloss.Color(colorGreen),
			Yellow: lipgloss.Color(colorYellow),
			Orange: lipgloss.Color(colorOrange),
			Red:    lipgloss.Color(colorRed),
			Cyan:   lipgloss.Color(colorCyan),
			Blue:   lipgloss.Color(colorBlue),
			Violet: lipgloss.Color(colorViolet),
			Muted:  lipgloss.Color(colorMutedText),
		},

		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorViolet)),
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorBlue)),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorCyan)),

		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color(colorCyan)),
		Bold:   lipgloss.NewStyle().Bold(true),
		Italic: lipgloss.NewStyle().Italic(true),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorMutedText)),
	}
}

// StatusText renders text in the style matching a status keyword.
func StatusText(status, text string) string {
	switch status {
	case "success", "ok":
		return DefaultTheme.Success.Render(text)
	case "error", "failed":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	default:
		return DefaultTheme.Info.Render(text)
	}
}
