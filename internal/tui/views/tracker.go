package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/certtrack/internal/service"
	"github.com/xolan/certtrack/internal/tui/ui"
)

// progressWidth is the width of the completion bar
const progressWidth = 40

// TrackerModel is the model for the tracker view
type TrackerModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	// UI state
	width   int
	height  int
	status  *service.StatusResult
	loading bool
	err     error

	// Input state for setting an hour value
	inputMode bool
	field     service.HoursField
	input     textinput.Model
	inputErr  string
}

// NewTrackerModel creates a new tracker view model
func NewTrackerModel(services *service.Services, styles ui.Styles, keys ui.KeyMap) TrackerModel {
	ti := textinput.New()
	ti.Placeholder = "Hours (e.g., 120 or 12.5)..."
	ti.CharLimit = 20
	ti.Width = 30

	return TrackerModel{
		services: services,
		styles:   styles,
		keys:     keys,
		input:    ti,
		loading:  true,
	}
}

// trackerStatusMsg is sent when the tracker status is loaded
type trackerStatusMsg struct {
	status *service.StatusResult
	err    error
}

// Init implements tea.Model
func (m TrackerModel) Init() tea.Cmd {
	return m.loadStatus()
}

// Update implements tea.Model
func (m TrackerModel) Update(msg tea.Msg) (TrackerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputMode(msg)
		}

		switch {
		case key.Matches(msg, m.keys.SetTotal):
			return m.startInput(service.FieldTotal)
		case key.Matches(msg, m.keys.SetCompleted):
			return m.startInput(service.FieldCompleted)
		case key.Matches(msg, m.keys.SetRemaining):
			return m.startInput(service.FieldRemaining)
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadStatus()
		}

	case trackerStatusMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}
		return m, nil
	}

	return m, nil
}

func (m TrackerModel) startInput(field service.HoursField) (TrackerModel, tea.Cmd) {
	m.inputMode = true
	m.field = field
	m.inputErr = ""
	m.input.SetValue("")
	if m.status != nil {
		m.input.SetValue(strconv.FormatFloat(m.currentValue(field), 'f', -1, 64))
	}
	m.input.Focus()
	return m, textinput.Blink
}

// handleInputMode handles key events when in input mode
func (m TrackerModel) handleInputMode(msg tea.KeyMsg) (TrackerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select): // Enter
		value := strings.TrimSpace(m.input.Value())
		hours, err := strconv.ParseFloat(value, 64)
		if err != nil {
			m.inputErr = fmt.Sprintf("%q is not a number", value)
			return m, nil
		}
		m.inputMode = false
		m.input.Blur()
		return m, m.setHours(m.field, hours)
	case key.Matches(msg, m.keys.Back): // Escape
		m.inputMode = false
		m.inputErr = ""
		m.input.Blur()
		return m, nil
	}

	// Pass other keys to text input
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m TrackerModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Tracker"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if m.status == nil {
		if m.loading {
			b.WriteString("Loading...")
		}
		return b.String()
	}

	if m.inputMode {
		b.WriteString(m.styles.StatLabel.Render(fmt.Sprintf("Set %s hours", m.field)))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		if m.inputErr != "" {
			b.WriteString(m.styles.Error.Render(m.inputErr))
			b.WriteString("\n\n")
		}
		b.WriteString(m.styles.StatusHelp.Render("Enter to save, Esc to cancel"))
		return b.String()
	}

	state := m.status.State
	b.WriteString(m.renderStatLine("Total hours:", formatHours(state.TotalHours)))
	b.WriteString(m.renderStatLine("Hours completed:", formatHours(state.HoursCompleted)))
	b.WriteString(m.renderStatLine("Hours remaining:", formatHours(state.HoursRemaining)))
	b.WriteString("\n")
	b.WriteString(RenderProgressBar(m.status.CompletionPercent, min(progressWidth, max(10, m.width-20)), m.styles))
	b.WriteString("\n\n")

	if state.HoursRemaining < 0 {
		b.WriteString(m.styles.Success.Render("Goal exceeded by " + formatHours(-state.HoursRemaining)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderStatLine("Courses:", fmt.Sprintf("%d %s", m.status.CourseCount, pluralize("course", m.status.CourseCount))))
	b.WriteString(m.renderStatLine("Counted hours:", formatHours(m.status.CountedHours)))
	if drift := state.HoursCompleted - m.status.CountedHours; drift > 0.005 || drift < -0.005 {
		b.WriteString(m.renderStatLine("Manual hours:", formatHours(drift)))
	}
	b.WriteString(m.renderStatLine("Storage:", m.status.Location))
	b.WriteString("\n")
	b.WriteString(m.styles.StatusHelp.Render("Press t, c or m to set total, completed or remaining hours"))

	return b.String()
}

// SetSize sets the view dimensions
func (m *TrackerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode returns true when the view is capturing keyboard input
func (m TrackerModel) IsInputMode() bool {
	return m.inputMode
}

func (m TrackerModel) currentValue(field service.HoursField) float64 {
	state := m.status.State
	switch field {
	case service.FieldCompleted:
		return state.HoursCompleted
	case service.FieldRemaining:
		return state.HoursRemaining
	default:
		return state.TotalHours
	}
}

// loadStatus creates a command to load the tracker status
func (m TrackerModel) loadStatus() tea.Cmd {
	return func() tea.Msg {
		status, err := m.services.Tracker.Status(context.Background())
		return trackerStatusMsg{status: status, err: err}
	}
}

// setHours creates a command that sets one hour value. Every view reloads
// on the resulting DocumentChangedMsg.
func (m TrackerModel) setHours(field service.HoursField, hours float64) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.services.Tracker.SetHours(context.Background(), field, hours); err != nil {
			return trackerStatusMsg{status: m.status, err: err}
		}
		return ui.DocumentChangedMsg{}
	}
}

func (m TrackerModel) renderStatLine(label, value string) string {
	return m.styles.StatLabel.Render(label) + " " + m.styles.StatValue.Render(value) + "\n"
}
