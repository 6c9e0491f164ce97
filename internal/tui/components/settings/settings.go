package settings

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/models"
)

type EditSettingsMsg struct{}

type ToggleRemindersMsg struct{}

type KeyMap struct {
	Edit   key.Binding
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "reminders on/off"),
		),
	}
}

type Model struct {
	settings models.Settings
	keys     KeyMap
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(20)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

func New(settings models.Settings, width, height int) Model {
	return Model{
		settings: settings,
		keys:     DefaultKeyMap(),
		width:    width,
		height:   height,
	}
}

func (m *Model) SetSettings(settings models.Settings) {
	m.settings = settings
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Edit):
			return m, func() tea.Msg { return EditSettingsMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			return m, func() tea.Msg { return ToggleRemindersMsg{} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	rt := m.settings.ReminderTime
	enabled := "off"
	if m.settings.RemindersEnabled {
		enabled = "on"
	}

	title := titleStyle.Render("Reminder Settings")
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		fmt.Sprintf("%s %s", labelStyle.Render("Reminders:"), valueStyle.Render(enabled)),
		fmt.Sprintf("%s %s", labelStyle.Render("Daily reminder at:"), valueStyle.Render(fmt.Sprintf("%02d:%02d", rt.Hour(), rt.Minute()))),
		fmt.Sprintf("%s %s", labelStyle.Render("Message:"), valueStyle.Render(m.settings.CustomMessage)),
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Left,
		lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Render(sectionStyle.Render(title+"\n"+content)),
	)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
