// Package tui is the interactive habit list. It renders store snapshots as
// they are committed and sends key presses back as store operations.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
	"github.com/julianstephens/habitlit/internal/tui/components/settings"
	"github.com/julianstephens/habitlit/internal/tui/components/stats"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateStats
	StateSettings
	StateAddHabit
	StateConfirmDelete
	StateEditSettings
)

// tabs lists the top-level views in tab order.
var tabs = []struct {
	state SessionState
	name  string
}{
	{StateHabits, "Habits"},
	{StateStats, "Stats"},
	{StateSettings, "Settings"},
}

// HabitStore is the part of the habit store the TUI drives.
type HabitStore interface {
	Snapshot() models.State
	Today() string
	Subscribe(fn func(models.State)) (unsubscribe func())
	AddHabit(draft models.HabitDraft) models.Habit
	DeleteHabit(id string)
	ToggleToday(id string)
	UpdateSettings(settings models.Settings)
}

// stateMsg carries a committed snapshot into the update loop.
type stateMsg models.State

type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Next key.Binding
	Prev key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous view"),
		),
	}
}

type Model struct {
	store       HabitStore
	updates     chan models.State
	unsubscribe func()

	state         SessionState
	keys          KeyMap
	help          help.Model
	habitsModel   habits.Model
	statsModel    stats.Model
	settingsModel settings.Model
	snapshot      models.State
	today         string

	form         *huh.Form
	habitForm    *HabitFormModel
	settingsForm *SettingsFormModel
	confirmed    *bool
	deleteID     string
	formError    string
	quitting     bool
	width        int
	height       int
}

// NewModel subscribes to store. The subscription is released when the
// program quits through the model.
func NewModel(store HabitStore) Model {
	m := Model{
		store:   store,
		updates: make(chan models.State, 1),
		state:   StateHabits,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}

	m.snapshot = store.Snapshot()
	m.today = store.Today()
	m.habitsModel = habits.New(m.snapshot.Habits, m.today, 0, 0)
	m.statsModel = stats.New(m.snapshot.Habits, m.today, 0, 0)
	m.settingsModel = settings.New(m.snapshot.Settings, 0, 0)

	updates := m.updates
	m.unsubscribe = store.Subscribe(func(st models.State) {
		// Observers run on the mutating goroutine, which is the update loop
		// itself, so this must never block. Only the newest snapshot matters.
		for {
			select {
			case updates <- st:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	return m
}

func waitForState(updates <-chan models.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-updates
		if !ok {
			return nil
		}
		return stateMsg(st)
	}
}

// dayCheckInterval is how often the model checks for a new calendar day.
const dayCheckInterval = time.Minute

type dayTickMsg time.Time

func checkDay() tea.Cmd {
	return tea.Tick(dayCheckInterval, func(t time.Time) tea.Msg {
		return dayTickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForState(m.updates), checkDay())
}

// refreshToday re-renders the views against the store's current day.
func (m Model) refreshToday() Model {
	m.today = m.store.Today()
	m.habitsModel.SetHabits(m.snapshot.Habits, m.today)
	m.statsModel.SetHabits(m.snapshot.Habits, m.today)
	return m
}

func (m Model) viewKeys() []key.Binding {
	switch m.state {
	case StateHabits:
		hk := m.habitsModel.Keys()
		return []key.Binding{hk.Toggle, hk.Add, hk.Delete}
	case StateSettings:
		sk := m.settingsModel.Keys()
		return []key.Binding{sk.Edit, sk.Toggle}
	}
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	return append(m.viewKeys(), m.keys.Next, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		m.viewKeys(),
		{m.keys.Next, m.keys.Prev, m.keys.Quit, m.keys.Help},
	}
}

// Close releases the store subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}
