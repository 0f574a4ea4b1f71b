// Package tui provides the Terminal User Interface for certtrack.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xolan/certtrack/internal/service"
	"github.com/xolan/certtrack/internal/tui/ui"
	"github.com/xolan/certtrack/internal/tui/views"
)

// Tab represents a view tab
type Tab int

const (
	TabTracker Tab = iota
	TabCourses
	TabStats
	TabConfig
)

var tabNames = []string{"Tracker", "Courses", "Stats", "Config"}

// Model is the root TUI model
type Model struct {
	// Services
	services *service.Services

	// UI state
	activeTab Tab
	width     int
	height    int
	showHelp  bool

	// View models
	trackerView views.TrackerModel
	coursesView views.CoursesModel
	statsView   views.StatsModel
	configView  views.ConfigModel

	styles ui.Styles
	keys   ui.KeyMap
}

// New creates a new TUI model
func New(services *service.Services) Model {
	styles := ui.DefaultStyles()
	keys := ui.DefaultKeyMap()

	return Model{
		services:    services,
		activeTab:   TabTracker,
		styles:      styles,
		keys:        keys,
		trackerView: views.NewTrackerModel(services, styles, keys),
		coursesView: views.NewCoursesModel(services, styles, keys),
		statsView:   views.NewStatsModel(services, styles, keys),
		configView:  views.NewConfigModel(services, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.reloadAll()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Views in an input mode (forms, search, confirmation) get every key
		inputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit) && !inputMode:
			return m, tea.Quit

		case msg.String() == "ctrl+c":
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help) && !inputMode:
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.NextTab) && !inputMode:
			m.activeTab = Tab((int(m.activeTab) + 1) % len(tabNames))
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.PrevTab) && !inputMode:
			m.activeTab = Tab((int(m.activeTab) - 1 + len(tabNames)) % len(tabNames))
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab1) && !inputMode:
			m.activeTab = TabTracker
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab2) && !inputMode:
			m.activeTab = TabCourses
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab3) && !inputMode:
			m.activeTab = TabStats
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab4) && !inputMode:
			m.activeTab = TabConfig
			return m, m.initCurrentView()
		}

		return m.updateActiveView(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Update view dimensions
		contentHeight := m.height - 4 // Account for tabs and status bar
		m.trackerView.SetSize(m.width, contentHeight)
		m.coursesView.SetSize(m.width, contentHeight)
		m.statsView.SetSize(m.width, contentHeight)
		m.configView.SetSize(m.width, contentHeight)
		return m, nil

	case ui.DocumentChangedMsg:
		return m, m.reloadAll()
	}

	// Load results and other messages go to every view; each ignores the ones it does not own
	return m.updateAllViews(msg)
}

func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case TabTracker:
		m.trackerView, cmd = m.trackerView.Update(msg)
	case TabCourses:
		m.coursesView, cmd = m.coursesView.Update(msg)
	case TabStats:
		m.statsView, cmd = m.statsView.Update(msg)
	case TabConfig:
		m.configView, cmd = m.configView.Update(msg)
	}
	return m, cmd
}

func (m Model) updateAllViews(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 4)
	m.trackerView, cmds[0] = m.trackerView.Update(msg)
	m.coursesView, cmds[1] = m.coursesView.Update(msg)
	m.statsView, cmds[2] = m.statsView.Update(msg)
	m.configView, cmds[3] = m.configView.Update(msg)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	// Render tabs
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	// Render active view
	switch m.activeTab {
	case TabTracker:
		b.WriteString(m.trackerView.View())
	case TabCourses:
		b.WriteString(m.coursesView.View())
	case TabStats:
		b.WriteString(m.statsView.View())
	case TabConfig:
		b.WriteString(m.configView.View())
	}

	// Render status bar
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	// Help overlay
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	return m.styles.App.Render(b.String())
}

// renderTabs renders the tab bar
func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(name))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderStatusBar renders the status bar at the bottom
func (m Model) renderStatusBar() string {
	var parts []string

	if m.isInputMode() {
		if m.activeTab == TabCourses {
			parts = append(parts, m.renderKeyHelp("Tab", "switch field"))
		}
		parts = append(parts, m.renderKeyHelp("Enter", "confirm"))
		parts = append(parts, m.renderKeyHelp("Esc", "cancel"))
	} else {
		// View-specific keys
		switch m.activeTab {
		case TabTracker:
			parts = append(parts, m.renderKeyHelp("t/c/m", "set hours"))
			parts = append(parts, m.renderKeyHelp("r", "refresh"))
		case TabCourses:
			parts = append(parts, m.renderKeyHelp("n", "new"))
			parts = append(parts, m.renderKeyHelp("d", "delete"))
			parts = append(parts, m.renderKeyHelp("space", "counted"))
			parts = append(parts, m.renderKeyHelp("f", "category"))
			parts = append(parts, m.renderKeyHelp("/", "search"))
		case TabStats, TabConfig:
			parts = append(parts, m.renderKeyHelp("r", "refresh"))
		}

		// Global keys
		parts = append(parts, m.renderKeyHelp("1-4", "views"))
		parts = append(parts, m.renderKeyHelp("?", "help"))
		parts = append(parts, m.renderKeyHelp("q", "quit"))
	}

	content := strings.Join(parts, "  ")

	// Fill to width
	padding := m.width - lipgloss.Width(content)
	if padding > 0 {
		content += strings.Repeat(" ", padding)
	}

	return m.styles.StatusBar.Render(content)
}

// renderKeyHelp renders a single key help item
func (m Model) renderKeyHelp(key, desc string) string {
	return fmt.Sprintf("%s %s",
		m.styles.StatusKey.Render(key),
		m.styles.StatusHelp.Render(desc))
}

// isInputMode checks if the current view is capturing keyboard input
func (m Model) isInputMode() bool {
	switch m.activeTab {
	case TabTracker:
		return m.trackerView.IsInputMode()
	case TabCourses:
		return m.coursesView.IsInputMode()
	}
	return false
}

// initCurrentView reloads the current view when switching tabs
func (m Model) initCurrentView() tea.Cmd {
	switch m.activeTab {
	case TabTracker:
		return m.trackerView.Init()
	case TabCourses:
		return m.coursesView.Init()
	case TabStats:
		return m.statsView.Init()
	case TabConfig:
		return m.configView.Init()
	}
	return nil
}

// reloadAll reloads every view, so a change made in one shows up in the others
func (m Model) reloadAll() tea.Cmd {
	return tea.Batch(
		m.trackerView.Init(),
		m.coursesView.Init(),
		m.statsView.Init(),
		m.configView.Init(),
	)
}

// renderHelpOverlay renders the keyboard shortcuts for the current view
func (m Model) renderHelpOverlay() string {
	var help strings.Builder

	help.WriteString(m.styles.ViewTitle.Render("Keyboard Shortcuts"))
	help.WriteString("\n\n")

	// Global keys
	help.WriteString(m.styles.StatLabel.Render("Global:"))
	help.WriteString("\n")
	help.WriteString("  Tab/1-4    Switch views\n")
	help.WriteString("  ?          Toggle help\n")
	help.WriteString("  q          Quit\n")
	help.WriteString("\n")

	// View-specific keys
	switch m.activeTab {
	case TabTracker:
		help.WriteString(m.styles.StatLabel.Render("Tracker:"))
		help.WriteString("\n")
		help.WriteString("  t          Set total hours\n")
		help.WriteString("  c          Set hours completed\n")
		help.WriteString("  m          Set hours remaining\n")
		help.WriteString("  r          Refresh\n")
	case TabCourses:
		help.WriteString(m.styles.StatLabel.Render("Courses:"))
		help.WriteString("\n")
		help.WriteString("  j/k        Navigate up/down\n")
		help.WriteString("  n          Log a course\n")
		help.WriteString("  d          Delete course\n")
		help.WriteString("  space/x    Toggle counted\n")
		help.WriteString("  f          Next category filter\n")
		help.WriteString("  /          Search course names\n")
		help.WriteString("  F          Clear filters\n")
		help.WriteString("  r          Refresh\n")
	case TabStats:
		help.WriteString(m.styles.StatLabel.Render("Stats:"))
		help.WriteString("\n")
		help.WriteString("  r          Refresh\n")
	case TabConfig:
		help.WriteString(m.styles.StatLabel.Render("Config:"))
		help.WriteString("\n")
		help.WriteString("  r          Reload the config file\n")
	}

	help.WriteString("\n")
	help.WriteString(m.styles.StatLabel.Render("Press ? to close"))

	return m.styles.App.Render(m.styles.Dialog.Render(help.String()))
}

// Run starts the TUI application
func Run(services *service.Services) error {
	model := New(services)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
