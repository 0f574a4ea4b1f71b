package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/certtrack/internal/config"
	"github.com/xolan/certtrack/internal/service"
	"github.com/xolan/certtrack/internal/tui/ui"
)

// ConfigModel is the model for the config view
type ConfigModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	// UI state
	width  int
	height int
	config config.Config
	path   string
	exists bool
	err    error
}

// NewConfigModel creates a new config view model
func NewConfigModel(services *service.Services, styles ui.Styles, keys ui.KeyMap) ConfigModel {
	return ConfigModel{
		services: services,
		styles:   styles,
		keys:     keys,
	}
}

// Init implements tea.Model
func (m ConfigModel) Init() tea.Cmd {
	return m.loadConfig(false)
}

// configLoadedMsg is sent when config is loaded
type configLoadedMsg struct {
	config config.Config
	path   string
	exists bool
	err    error
}

// Update implements tea.Model
func (m ConfigModel) Update(msg tea.Msg) (ConfigModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Refresh) {
			return m, m.loadConfig(true)
		}

	case configLoadedMsg:
		m.config = msg.config
		m.path = msg.path
		m.exists = msg.exists
		m.err = msg.err
	}

	return m, nil
}

// View implements tea.Model
func (m ConfigModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Configuration"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.StatLabel.Render("Config file:"))
	b.WriteString(" ")
	b.WriteString(m.styles.StatValue.Render(m.path))
	b.WriteString("\n")

	b.WriteString(m.styles.StatLabel.Render("Status:"))
	b.WriteString(" ")
	if m.exists {
		b.WriteString(m.styles.Success.Render("File exists"))
	} else {
		b.WriteString(m.styles.Warning.Render("Using defaults (no config file)"))
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	b.WriteString(strings.Repeat("─", min(50, max(m.width, 1))))
	b.WriteString("\n\n")

	cfg := m.config
	b.WriteString(m.renderConfigLine("storage_backend", cfg.StorageBackend))
	b.WriteString(m.renderConfigLine("storage_path", orNone(cfg.StoragePath)))
	b.WriteString(m.renderConfigLine("remote_url", orNone(cfg.RemoteURL)))
	b.WriteString(m.renderConfigLine("default_category", cfg.DefaultCategory))
	b.WriteString(m.renderConfigLine("count_toward_completed", strconv.FormatBool(cfg.CountTowardCompleted)))
	b.WriteString(m.renderConfigLine("listen_addr", cfg.ListenAddr))
	b.WriteString(m.renderConfigLine("backup_schedule", orNone(cfg.BackupSchedule)))
	b.WriteString(m.renderConfigLine("log_level", cfg.LogLevel))
	b.WriteString("\n")
	b.WriteString(m.styles.StatusHelp.Render("Edit with 'certtrack config set <key> <value>', press r to reload"))

	return b.String()
}

// SetSize sets the view dimensions
func (m *ConfigModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// loadConfig creates a command to load config, re-reading the file when reload is set
func (m ConfigModel) loadConfig(reload bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if reload {
			err = m.services.Config.Reload()
		}
		return configLoadedMsg{
			config: m.services.Config.Get(),
			path:   m.services.Config.GetPath(),
			exists: m.services.Config.Exists(),
			err:    err,
		}
	}
}

// configKeyWidth fits the longest key, count_toward_completed
const configKeyWidth = 24

func (m ConfigModel) renderConfigLine(key, value string) string {
	return m.styles.StatLabel.Width(configKeyWidth).Render(key+":") + " " + m.styles.StatValue.Render(value) + "\n"
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
