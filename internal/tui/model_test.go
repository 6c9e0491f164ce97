package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/goleak"

	"github.com/julianstephens/habitlit/internal/habitstore"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/persistence"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *habitstore.Store {
	t.Helper()
	now := func() time.Time { return testNow }
	s, err := habitstore.Open(context.Background(), habitstore.Options{
		Gateway:  persistence.NewGateway(storage.NewMemoryStore(), time.UTC, now),
		Location: time.UTC,
		Now:      now,
	})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

// press sends msg and runs the command it produces once, feeding the result
// back in.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if out := cmd(); out != nil {
		next, _ = m.Update(out)
		m = next.(Model)
	}
	return m
}

// drain applies the snapshot the subscription delivered.
func drain(t *testing.T, m Model) Model {
	t.Helper()
	select {
	case st := <-m.updates:
		next, _ := m.Update(stateMsg(st))
		return next.(Model)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
		return m
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_ToggleThroughStore(t *testing.T) {
	store := openStore(t)
	h := store.AddHabit(models.HabitDraft{Title: "Read"})

	m := sized(t, NewModel(store))
	defer m.Close()

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	got, _ := store.Habit(h.ID)
	if !got.IsCompletedOn("2024-06-10") {
		t.Fatal("space should toggle the selected habit in the store")
	}

	m = drain(t, m)
	if !m.snapshot.AllCompletedOn(m.today) {
		t.Error("model snapshot should follow the store")
	}
	if view := m.View(); view == "" {
		t.Error("expected a rendered view")
	}
}

func TestModel_ExternalCommitsReachTheView(t *testing.T) {
	store := openStore(t)
	m := sized(t, NewModel(store))
	defer m.Close()

	if len(m.snapshot.Habits) != 0 {
		t.Fatal("expected an empty collection")
	}

	store.AddHabit(models.HabitDraft{Title: "Walk"})
	store.AddHabit(models.HabitDraft{Title: "Swim"})

	// Only the newest snapshot is kept
	m = drain(t, m)
	if len(m.snapshot.Habits) != 2 {
		t.Errorf("expected 2 habits after drain, got %d", len(m.snapshot.Habits))
	}
	select {
	case <-m.updates:
		t.Error("stale snapshot left in the channel")
	default:
	}
}

func TestModel_DeleteNeedsConfirmation(t *testing.T) {
	store := openStore(t)
	h := store.AddHabit(models.HabitDraft{Title: "Read"})

	m := sized(t, NewModel(store))
	defer m.Close()

	m = press(t, m, runes("d"))
	if m.state != StateConfirmDelete {
		t.Fatalf("expected confirm state, got %v", m.state)
	}
	if m.deleteID != h.ID {
		t.Errorf("expected pending delete of %s, got %s", h.ID, m.deleteID)
	}

	// Escape cancels
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateHabits {
		t.Errorf("expected habits state after cancel, got %v", m.state)
	}
	if _, ok := store.Habit(h.ID); !ok {
		t.Error("cancelled delete must keep the habit")
	}

	// A confirmed delete reaches the store
	m.confirmed = new(bool)
	*m.confirmed = true
	m.deleteID = h.ID
	m.form = newConfirmForm("Delete?", m.confirmed)
	m.form.State = huh.StateCompleted
	m.state = StateConfirmDelete
	next, _ := m.afterConfirm(nil)
	m = next.(Model)
	if _, ok := store.Habit(h.ID); ok {
		t.Error("confirmed delete should remove the habit")
	}
	if m.state != StateHabits {
		t.Errorf("expected habits state after delete, got %v", m.state)
	}
}

func TestModel_AddOpensForm(t *testing.T) {
	store := openStore(t)
	m := sized(t, NewModel(store))
	defer m.Close()

	next, cmd := m.Update(runes("a"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected an add command")
	}
	if _, ok := cmd().(habits.AddHabitMsg); !ok {
		t.Fatal("expected AddHabitMsg")
	}
	next, _ = m.Update(habits.AddHabitMsg{})
	m = next.(Model)
	if m.state != StateAddHabit || m.form == nil {
		t.Fatalf("expected add form, got state %v", m.state)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateHabits {
		t.Errorf("escape should close the form, got %v", m.state)
	}
}

func TestModel_Quit(t *testing.T) {
	store := openStore(t)
	m := sized(t, NewModel(store))
	defer m.Close()

	next, cmd := m.Update(runes("q"))
	if !next.(Model).quitting || cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestHabitFormModel_Draft(t *testing.T) {
	fm := NewHabitFormModel()
	fm.Title = "  Read  "
	fm.TargetDays = []models.Weekday{models.Monday}

	draft := fm.Draft()
	if draft.Title != "Read" {
		t.Errorf("title should be trimmed, got %q", draft.Title)
	}
	if draft.TargetDays != nil {
		t.Error("target days only apply to a custom frequency")
	}

	fm.Frequency = models.FrequencyCustom
	if got := fm.Draft().TargetDays; len(got) != 1 || got[0] != models.Monday {
		t.Errorf("expected custom target days, got %v", got)
	}
}

func TestModel_TabCyclesViews(t *testing.T) {
	store := openStore(t)
	m := sized(t, NewModel(store))
	defer m.Close()

	want := []SessionState{StateStats, StateSettings, StateHabits}
	for _, w := range want {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.state != w {
			t.Fatalf("expected state %v after tab, got %v", w, m.state)
		}
		if m.View() == "" {
			t.Errorf("expected a rendered view for state %v", w)
		}
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != StateSettings {
		t.Errorf("shift+tab should go back to settings, got %v", m.state)
	}
}

func TestModel_SettingsToggleReminders(t *testing.T) {
	store := openStore(t)
	m := sized(t, NewModel(store))
	defer m.Close()

	m.state = StateSettings
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if store.Settings().RemindersEnabled {
		t.Fatal("space on the settings view should disable reminders")
	}

	m = drain(t, m)
	if m.snapshot.Settings.RemindersEnabled {
		t.Error("model snapshot should follow the store")
	}
}

func TestModel_EditSettings(t *testing.T) {
	store := openStore(t)
	m := sized(t, NewModel(store))
	defer m.Close()

	m.state = StateSettings
	m = press(t, m, runes("e"))
	if m.state != StateEditSettings || m.settingsForm == nil {
		t.Fatalf("expected settings form, got state %v", m.state)
	}

	m.settingsForm.Time = "21:30"
	m.settingsForm.Message = "Go"
	m.form.State = huh.StateCompleted
	next, _ := m.afterSettings(nil)
	m = next.(Model)
	if m.state != StateSettings {
		t.Errorf("expected settings view after save, got %v", m.state)
	}

	got := store.Settings()
	if h, minute := got.ReminderClock(time.UTC); h != 21 || minute != 30 {
		t.Errorf("expected 21:30, got %02d:%02d", h, minute)
	}
	if got.CustomMessage != "Go" {
		t.Errorf("expected message Go, got %q", got.CustomMessage)
	}
}

func TestSettingsFormModel_Apply(t *testing.T) {
	base := models.DefaultSettings(testNow, time.UTC)
	fm := NewSettingsFormModel(base)
	if fm.Time != "07:00" || !fm.Enabled {
		t.Fatalf("unexpected form defaults: %+v", fm)
	}

	fm.Message = "   "
	fm.Time = " 06:15 "
	got, err := fm.Apply(base)
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if got.CustomMessage != base.CustomMessage {
		t.Errorf("blank message should fall back to the default, got %q", got.CustomMessage)
	}
	if got.ReminderTime.Hour() != 6 || got.ReminderTime.Minute() != 15 {
		t.Errorf("expected 06:15, got %s", got.ReminderTime)
	}
	if !got.ReminderTime.Truncate(24 * time.Hour).Equal(base.ReminderTime.Truncate(24 * time.Hour)) {
		t.Error("the reminder should keep its day")
	}

	fm.Time = "noon"
	if _, err := fm.Apply(base); err == nil {
		t.Error("expected error for an invalid time")
	}
}

func TestModel_AddRejectsDuplicateTitle(t *testing.T) {
	store := openStore(t)
	store.AddHabit(models.HabitDraft{Title: "Read"})

	m := sized(t, NewModel(store))
	defer m.Close()

	next, _ := m.Update(habits.AddHabitMsg{})
	m = next.(Model)
	if m.state != StateAddHabit {
		t.Fatalf("expected add form, got state %v", m.state)
	}
	m.habitForm.Title = " read "
	m.form.State = huh.StateCompleted
	next, _ = m.afterAddHabit(nil)
	m = next.(Model)

	if len(store.Habits()) != 1 {
		t.Errorf("duplicate title should not be added, got %d habits", len(store.Habits()))
	}
	if m.formError == "" {
		t.Error("expected a form error for the duplicate title")
	}
	if m.state != StateHabits {
		t.Errorf("expected habits state, got %v", m.state)
	}

	// A fresh title goes through
	next, _ = m.Update(habits.AddHabitMsg{})
	m = next.(Model)
	m.habitForm.Title = "Swim"
	m.form.State = huh.StateCompleted
	next, _ = m.afterAddHabit(nil)
	m = next.(Model)
	if len(store.Habits()) != 2 {
		t.Errorf("expected 2 habits, got %d", len(store.Habits()))
	}
}

func TestModel_DayRollover(t *testing.T) {
	clock := testNow
	now := func() time.Time { return clock }
	store, err := habitstore.Open(context.Background(), habitstore.Options{
		Gateway:  persistence.NewGateway(storage.NewMemoryStore(), time.UTC, now),
		Location: time.UTC,
		Now:      now,
	})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	h := store.AddHabit(models.HabitDraft{Title: "Read"})
	store.ToggleToday(h.ID)

	m := sized(t, NewModel(store))
	defer m.Close()
	if !m.snapshot.AllCompletedOn(m.today) {
		t.Fatal("expected today's habit to be done")
	}

	// Same day: nothing changes, the tick keeps running
	next, cmd := m.Update(dayTickMsg(clock))
	m = next.(Model)
	if m.today != "2024-06-10" || cmd == nil {
		t.Fatalf("expected the same day and another tick, got %q", m.today)
	}

	store.Flush()
	clock = clock.Add(24 * time.Hour)
	next, cmd = m.Update(dayTickMsg(clock))
	m = next.(Model)
	if m.today != "2024-06-11" {
		t.Errorf("expected the new day after midnight, got %q", m.today)
	}
	if cmd == nil {
		t.Error("expected the day check to be rescheduled")
	}
	if m.snapshot.AllCompletedOn(m.today) {
		t.Error("yesterday's completion must not count for the new day")
	}
}
