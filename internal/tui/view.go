package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/analytics"
	"github.com/julianstephens/habitlit/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddHabit, StateConfirmDelete, StateEditSettings:
		content = m.form.View()
	case StateStats:
		content = m.statsModel.View()
	case StateSettings:
		content = m.settingsModel.View()
	default:
		content = m.habitsModel.View()
	}

	var banner string
	if m.formError != "" {
		banner = dangerStyle.Render(m.formError)
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		banner,
		content,
		m.help.View(m),
	)
	return docStyle.Render(ui)
}

func (m Model) viewHeader() string {
	parts := []string{titleStyle.Render(constants.AppName)}
	for _, t := range tabs {
		if t.state == m.activeTab() {
			parts = append(parts, activeTabStyle.Render(t.name))
		} else {
			parts = append(parts, inactiveTabStyle.Render(t.name))
		}
	}
	parts = append(parts, inactiveTabStyle.Render(m.today))

	var summary string
	switch habits := m.snapshot.Habits; {
	case len(habits) == 0:
		summary = warningStyle.Render("no habits yet")
	case m.snapshot.AllCompletedOn(m.today):
		summary = doneStyle.Render("all done today")
	default:
		summary = inactiveTabStyle.Render(fmt.Sprintf("%d%% done today", analytics.CompletionRate(habits, m.today)))
	}

	parts = append(parts, summary)
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n"
}

// activeTab maps form states back to the view they were opened from.
func (m Model) activeTab() SessionState {
	switch m.state {
	case StateAddHabit, StateConfirmDelete:
		return StateHabits
	case StateEditSettings:
		return StateSettings
	}
	return m.state
}
