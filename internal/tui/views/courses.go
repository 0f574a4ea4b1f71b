package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/certtrack/internal/cli"
	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/filter"
	"github.com/xolan/certtrack/internal/service"
	"github.com/xolan/certtrack/internal/tui/ui"
)

// courseMode represents the current mode of the courses view
type courseMode int

const (
	courseModeNormal courseMode = iota
	courseModeAdd
	courseModeDelete
	courseModeSearch
)

// CoursesModel is the model for the courses view
type CoursesModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	// UI state
	width      int
	height     int
	cursor     int
	courses    []service.IndexedCourse
	categories []string
	total      string
	counted    float64
	loading    bool
	err        error

	// Filters
	category string
	keyword  string

	// Input mode state
	mode         courseMode
	nameInput    textinput.Model
	timeInput    textinput.Model
	focusedInput int // 0 = name, 1 = time
	formErr      string
	searchInput  textinput.Model
}

// NewCoursesModel creates a new courses view model
func NewCoursesModel(services *service.Services, styles ui.Styles, keys ui.KeyMap) CoursesModel {
	nameInput := textinput.New()
	nameInput.Placeholder = "Course name..."
	nameInput.CharLimit = 200
	nameInput.Width = 50

	timeInput := textinput.New()
	timeInput.Placeholder = "Duration (e.g., 5h 30m, 4.5h, 90m)..."
	timeInput.CharLimit = 40
	timeInput.Width = 30

	searchInput := textinput.New()
	searchInput.Placeholder = "Search course names..."
	searchInput.CharLimit = 100
	searchInput.Width = 40

	return CoursesModel{
		services:    services,
		styles:      styles,
		keys:        keys,
		loading:     true,
		nameInput:   nameInput,
		timeInput:   timeInput,
		searchInput: searchInput,
	}
}

// coursesLoadedMsg is sent when courses are loaded
type coursesLoadedMsg struct {
	result     *service.ListResult
	categories []string
	err        error
}

// courseAddedMsg is sent when the add form was submitted
type courseAddedMsg struct {
	err error
}

// courseActionErrMsg is sent when a delete or toggle fails
type courseActionErrMsg struct {
	err error
}

// Init implements tea.Model
func (m CoursesModel) Init() tea.Cmd {
	return m.loadCourses()
}

// Update implements tea.Model
func (m CoursesModel) Update(msg tea.Msg) (CoursesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case courseModeAdd:
			return m.handleAddMode(msg)
		case courseModeDelete:
			return m.handleDeleteMode(msg)
		case courseModeSearch:
			return m.handleSearchMode(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.courses)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadCourses()
		case key.Matches(msg, m.keys.New):
			m.mode = courseModeAdd
			m.formErr = ""
			m.nameInput.SetValue("")
			m.timeInput.SetValue("")
			m.focusedInput = 0
			m.timeInput.Blur()
			m.nameInput.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Delete):
			if m.selected() != nil {
				m.mode = courseModeDelete
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			if c := m.selected(); c != nil {
				return m, m.toggleCounted(c.Course)
			}
			return m, nil
		case key.Matches(msg, m.keys.Filter):
			m.category = nextCategory(m.categories, m.category)
			m.cursor = 0
			return m, m.loadCourses()
		case key.Matches(msg, m.keys.Search):
			m.mode = courseModeSearch
			m.searchInput.SetValue(m.keyword)
			m.searchInput.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.ClearAll):
			m.category = ""
			m.keyword = ""
			m.cursor = 0
			return m, m.loadCourses()
		}

	case coursesLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.courses = msg.result.Courses
			m.categories = msg.categories
			m.total = msg.result.Total.String()
			m.counted = msg.result.CountedHours
			if m.cursor >= len(m.courses) {
				m.cursor = max(0, len(m.courses)-1)
			}
		}
		return m, nil

	case courseAddedMsg:
		if msg.err != nil {
			m.formErr = msg.err.Error()
			return m, nil
		}
		m.mode = courseModeNormal
		m.nameInput.Blur()
		m.timeInput.Blur()
		return m, documentChanged

	case courseActionErrMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// handleAddMode handles key events when in the add form
func (m CoursesModel) handleAddMode(msg tea.KeyMsg) (CoursesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select): // Enter
		name := strings.TrimSpace(m.nameInput.Value())
		duration := strings.TrimSpace(m.timeInput.Value())
		if name == "" || duration == "" {
			m.formErr = "Name and duration are required"
			return m, nil
		}
		return m, m.addCourse(name, duration)
	case key.Matches(msg, m.keys.Back): // Escape
		m.mode = courseModeNormal
		m.nameInput.Blur()
		m.timeInput.Blur()
		return m, nil
	case msg.String() == "tab":
		// Switch between inputs
		if m.focusedInput == 0 {
			m.focusedInput = 1
			m.nameInput.Blur()
			m.timeInput.Focus()
		} else {
			m.focusedInput = 0
			m.timeInput.Blur()
			m.nameInput.Focus()
		}
		return m, textinput.Blink
	}

	// Pass other keys to focused input
	var cmd tea.Cmd
	if m.focusedInput == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.timeInput, cmd = m.timeInput.Update(msg)
	}
	return m, cmd
}

// handleDeleteMode handles key events when in delete confirmation mode
func (m CoursesModel) handleDeleteMode(msg tea.KeyMsg) (CoursesModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = courseModeNormal
		if c := m.selected(); c != nil {
			return m, m.deleteCourse(c.Course.ID)
		}
	case "n", "N", "esc":
		m.mode = courseModeNormal
	}
	return m, nil
}

// handleSearchMode handles key events while typing a search
func (m CoursesModel) handleSearchMode(msg tea.KeyMsg) (CoursesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select): // Enter
		m.keyword = strings.TrimSpace(m.searchInput.Value())
		m.mode = courseModeNormal
		m.searchInput.Blur()
		m.cursor = 0
		return m, m.loadCourses()
	case key.Matches(msg, m.keys.Back): // Escape
		m.mode = courseModeNormal
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m CoursesModel) View() string {
	switch m.mode {
	case courseModeAdd:
		return m.renderAddForm()
	case courseModeDelete:
		return m.renderDeleteConfirm()
	}

	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render(cli.BuildTitleWithFilters("Courses", m.filter())))
	b.WriteString("\n")

	if m.mode == courseModeSearch {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString("Loading...")
		return b.String()
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if len(m.courses) == 0 {
		b.WriteString(m.styles.StatLabel.Render("No courses found"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatusHelp.Render("Press 'n' to log a course"))
		return b.String()
	}

	b.WriteString(RenderCourseList(m.courses, m.styles, CourseRenderOptions{
		Width:  m.width,
		Cursor: m.cursor,
	}))

	b.WriteString(strings.Repeat("─", min(50, max(m.width, 1))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %s (%d %s), %s counted",
		m.total,
		len(m.courses),
		pluralize("course", len(m.courses)),
		formatHours(m.counted)))

	return b.String()
}

// renderAddForm renders the add course form
func (m CoursesModel) renderAddForm() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render("New Course"))
	b.WriteString("\n\n")

	nameLabel := "Name:"
	if m.focusedInput == 0 {
		nameLabel = "▸ Name:"
	}
	b.WriteString(m.styles.StatLabel.Render(nameLabel))
	b.WriteString("\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n\n")

	timeLabel := "Duration:"
	if m.focusedInput == 1 {
		timeLabel = "▸ Duration:"
	}
	b.WriteString(m.styles.StatLabel.Render(timeLabel))
	b.WriteString("\n")
	b.WriteString(m.timeInput.View())
	b.WriteString("\n\n")

	if m.formErr != "" {
		b.WriteString(m.styles.Error.Render(m.formErr))
		b.WriteString("\n\n")
	}

	b.WriteString(m.styles.StatusHelp.Render("Tab to switch fields, Enter to save, Esc to cancel"))
	return b.String()
}

// renderDeleteConfirm renders the delete confirmation dialog
func (m CoursesModel) renderDeleteConfirm() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render("Delete Course"))
	b.WriteString("\n\n")

	if c := m.selected(); c != nil {
		b.WriteString(m.styles.Warning.Render("Are you sure you want to delete this course?"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatLabel.Render("Course:"))
		b.WriteString(" ")
		b.WriteString(m.styles.StatValue.Render(cli.FormatCourse(c.Course)))
		b.WriteString("\n")
		if c.Course.CountsTowardCompleted {
			b.WriteString(m.styles.StatLabel.Render("Hours completed:"))
			b.WriteString(" ")
			b.WriteString(m.styles.StatValue.Render("-" + formatHours(c.Course.CountedHours())))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.styles.StatusHelp.Render("Press Y to confirm, N or Esc to cancel"))
	return b.String()
}

// SetSize sets the view dimensions
func (m *CoursesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode returns true when the view is capturing keyboard input
func (m CoursesModel) IsInputMode() bool {
	return m.mode != courseModeNormal
}

// Category returns the active category filter
func (m CoursesModel) Category() string {
	return m.category
}

func (m CoursesModel) selected() *service.IndexedCourse {
	if m.cursor < 0 || m.cursor >= len(m.courses) {
		return nil
	}
	return &m.courses[m.cursor]
}

func (m CoursesModel) filter() *filter.Filter {
	f := filter.NewFilter(m.keyword, m.category)
	if f.IsEmpty() {
		return nil
	}
	return f
}

// nextCategory cycles through categories, returning to no filter after the last one.
func nextCategory(categories []string, current string) string {
	if current == "" {
		if len(categories) == 0 {
			return ""
		}
		return categories[0]
	}
	for i, c := range categories {
		if c == current && i+1 < len(categories) {
			return categories[i+1]
		}
	}
	return ""
}

// loadCourses creates a command to load the filtered courses and the categories
func (m CoursesModel) loadCourses() tea.Cmd {
	f := m.filter()
	return func() tea.Msg {
		ctx := context.Background()
		result, err := m.services.Course.List(ctx, f)
		if err != nil {
			return coursesLoadedMsg{err: err}
		}
		categories, err := m.services.Course.Categories(ctx)
		if err != nil {
			return coursesLoadedMsg{err: err}
		}
		return coursesLoadedMsg{result: result, categories: categories}
	}
}

// addCourse creates a command to log a course with the configured defaults
func (m CoursesModel) addCourse(name, duration string) tea.Cmd {
	return func() tea.Msg {
		_, _, err := m.services.Course.Add(context.Background(), service.AddRequest{Name: name, Time: duration})
		return courseAddedMsg{err: err}
	}
}

// deleteCourse creates a command to delete a course by id
func (m CoursesModel) deleteCourse(id course.ID) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.services.Course.Delete(context.Background(), id); err != nil {
			return courseActionErrMsg{err: err}
		}
		return ui.DocumentChangedMsg{}
	}
}

// toggleCounted flips whether a course counts toward hours completed
func (m CoursesModel) toggleCounted(c course.Entry) tea.Cmd {
	counts := !c.CountsTowardCompleted
	return func() tea.Msg {
		if _, err := m.services.Course.Edit(context.Background(), c.ID, service.EditRequest{Counts: &counts}); err != nil {
			return courseActionErrMsg{err: err}
		}
		return ui.DocumentChangedMsg{}
	}
}

func documentChanged() tea.Msg {
	return ui.DocumentChangedMsg{}
}
