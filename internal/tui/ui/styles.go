package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the styles used in the TUI
type Styles struct {
	// Base styles
	App lipgloss.Style

	// Tab bar
	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	// Content area
	ViewTitle lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusHelp lipgloss.Style

	// Course list
	CourseSelected  lipgloss.Style
	CourseNormal    lipgloss.Style
	CourseIndex     lipgloss.Style
	CourseCategory  lipgloss.Style
	CourseDuration  lipgloss.Style
	CourseUncounted lipgloss.Style

	// Progress bar
	ProgressFull    lipgloss.Style
	ProgressEmpty   lipgloss.Style
	ProgressPercent lipgloss.Style

	// Stats
	StatLabel lipgloss.Style
	StatValue lipgloss.Style

	// Dialog
	Dialog lipgloss.Style

	// Errors and warnings
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
}

// DefaultStyles returns the default TUI styles
func DefaultStyles() Styles {
	// Color palette
	primary := lipgloss.Color("99")     // Purple
	secondary := lipgloss.Color("39")   // Cyan
	accent := lipgloss.Color("212")     // Pink
	muted := lipgloss.Color("240")      // Gray
	success := lipgloss.Color("82")     // Green
	warning := lipgloss.Color("214")    // Orange
	errorColor := lipgloss.Color("196") // Red

	return Styles{
		// Base styles
		App: lipgloss.NewStyle().Padding(1, 2),

		// Tab bar
		TabBar: lipgloss.NewStyle().
			MarginBottom(1).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(muted),
		TabActive: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),

		ViewTitle: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),

		// Status bar
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1),
		StatusKey: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		StatusHelp: lipgloss.NewStyle().
			Foreground(muted),

		// Course list
		CourseSelected: lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Bold(true),
		CourseNormal: lipgloss.NewStyle(),
		CourseIndex: lipgloss.NewStyle().
			Foreground(muted),
		CourseCategory: lipgloss.NewStyle().
			Foreground(secondary),
		CourseDuration: lipgloss.NewStyle().
			Foreground(accent).
			Width(10).
			Align(lipgloss.Right),
		CourseUncounted: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),

		// Progress bar
		ProgressFull: lipgloss.NewStyle().
			Foreground(success),
		ProgressEmpty: lipgloss.NewStyle().
			Foreground(muted),
		ProgressPercent: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		// Stats
		StatLabel: lipgloss.NewStyle().
			Foreground(muted).
			Width(20),
		StatValue: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(1, 2).
			Width(50),

		// Errors and warnings
		Error: lipgloss.NewStyle().
			Foreground(errorColor),
		Warning: lipgloss.NewStyle().
			Foreground(warning),
		Success: lipgloss.NewStyle().
			Foreground(success),
	}
}
