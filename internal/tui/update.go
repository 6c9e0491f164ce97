package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
	"github.com/julianstephens/habitlit/internal/tui/components/settings"
	"github.com/julianstephens/habitlit/internal/validation"
)

// headerHeight is the number of lines above the habit list.
const headerHeight = 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := docStyle.GetFrameSize()
		width, height := msg.Width-h, msg.Height-v-headerHeight-2
		m.habitsModel.SetSize(width, height)
		m.statsModel.SetSize(width, height)
		m.settingsModel.SetSize(width, height)
		return m, nil
	case stateMsg:
		m.snapshot = models.State(msg)
		m = m.refreshToday()
		m.settingsModel.SetSettings(m.snapshot.Settings)
		return m, waitForState(m.updates)
	case dayTickMsg:
		if m.store.Today() != m.today {
			m = m.refreshToday()
		}
		return m, checkDay()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case StateEditSettings:
		return m.updateEditSettings(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.habitsModel.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.state = m.cycleTab(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.state = m.cycleTab(-1)
			return m, nil
		}
	}

	switch m.state {
	case StateStats:
		return m, nil
	case StateSettings:
		return m.updateSettings(msg)
	default:
		return m.updateHabits(msg)
	}
}

// cycleTab returns the view step places away from the current one.
func (m Model) cycleTab(step int) SessionState {
	for i, t := range tabs {
		if t.state == m.state {
			return tabs[(i+step+len(tabs))%len(tabs)].state
		}
	}
	return StateHabits
}

func (m Model) updateHabits(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.formError = ""
		m.habitForm = NewHabitFormModel()
		m.form = NewHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()
	case habits.ToggleHabitMsg:
		// The new snapshot arrives through the subscription
		m.store.ToggleToday(msg.ID)
		return m, nil
	case habits.DeleteHabitMsg:
		m.deleteID = msg.ID
		m.confirmed = new(bool)
		m.form = newConfirmForm(fmt.Sprintf("Delete habit %q?", msg.Title), m.confirmed)
		m.state = StateConfirmDelete
		return m, m.form.Init()
	}

	var cmd tea.Cmd
	m.habitsModel, cmd = m.habitsModel.Update(msg)
	return m, cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return m.afterAddHabit(cmd)
}

// afterAddHabit applies a finished add form. Titles already in use are
// rejected.
func (m Model) afterAddHabit(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch m.form.State {
	case huh.StateCompleted:
		draft := m.habitForm.Draft()
		result := validation.New().ValidateNewHabit(draft, m.snapshot.Habits)
		if err := result.Err(); err != nil {
			m.formError = err.Error()
		} else {
			m.store.AddHabit(draft)
		}
		m.state = StateHabits
		return m, nil
	case huh.StateAborted:
		m.state = StateHabits
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return m.afterConfirm(cmd)
}

// afterConfirm applies a finished confirmation form.
func (m Model) afterConfirm(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch m.form.State {
	case huh.StateCompleted:
		if *m.confirmed {
			m.store.DeleteHabit(m.deleteID)
		}
		m.deleteID = ""
		m.state = StateHabits
		return m, nil
	case huh.StateAborted:
		m.deleteID = ""
		m.state = StateHabits
		return m, nil
	}
	return m, cmd
}

func (m Model) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case settings.EditSettingsMsg:
		m.formError = ""
		m.settingsForm = NewSettingsFormModel(m.snapshot.Settings)
		m.form = NewSettingsForm(m.settingsForm)
		m.state = StateEditSettings
		return m, m.form.Init()
	case settings.ToggleRemindersMsg:
		next := m.snapshot.Settings
		next.RemindersEnabled = !next.RemindersEnabled
		m.store.UpdateSettings(next)
		return m, nil
	}

	var cmd tea.Cmd
	m.settingsModel, cmd = m.settingsModel.Update(msg)
	return m, cmd
}

func (m Model) updateEditSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateSettings
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return m.afterSettings(cmd)
}

// afterSettings applies a finished settings form.
func (m Model) afterSettings(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch m.form.State {
	case huh.StateCompleted:
		next, err := m.settingsForm.Apply(m.snapshot.Settings)
		if err != nil {
			m.formError = err.Error()
		} else {
			m.store.UpdateSettings(next)
		}
		m.state = StateSettings
		return m, nil
	case huh.StateAborted:
		m.state = StateSettings
		return m, nil
	}
	return m, cmd
}

func newConfirmForm(title string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
