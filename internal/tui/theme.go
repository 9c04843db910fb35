package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the voxtype configure wizard
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple - main accent
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan - secondary accent
	ColorText      = lipgloss.Color("#F8FAFC") // Bright white
	ColorMuted     = lipgloss.Color("#94A3B8") // Slate gray
	ColorSubtle    = lipgloss.Color("#64748B") // Darker gray
)

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}
