package models

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestHabit_FormatFrequency(t *testing.T) {
	tests := []struct {
		name  string
		habit Habit
		want  string
	}{
		{name: "daily", habit: Habit{Frequency: FrequencyDaily}, want: "Everyday"},
		{name: "weekly", habit: Habit{Frequency: FrequencyWeekly}, want: "Weekly"},
		{name: "custom without days", habit: Habit{Frequency: FrequencyCustom}, want: "Custom"},
		{
			name:  "custom with days",
			habit: Habit{Frequency: FrequencyCustom, TargetDays: []Weekday{Monday, Wednesday, Friday}},
			want:  "Mon, Wed, Fri",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.habit.FormatFrequency(); got != tt.want {
				t.Errorf("FormatFrequency() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHabit_Apply(t *testing.T) {
	h := Habit{
		ID:             "h1",
		Title:          "Read",
		Icon:           "book",
		Frequency:      FrequencyDaily,
		CompletedDates: []string{"2024-06-01"},
		Streak:         1,
		LongestStreak:  4,
	}

	title := "Read 10 pages"
	freq := FrequencyCustom
	days := []Weekday{Saturday, Sunday}
	h.Apply(HabitPatch{Title: &title, Frequency: &freq, TargetDays: &days})

	if h.Title != title || h.Frequency != FrequencyCustom {
		t.Errorf("patch not applied: %+v", h)
	}
	if diff := cmp.Diff([]Weekday{Saturday, Sunday}, h.TargetDays); diff != "" {
		t.Errorf("target days mismatch (-want +got):\n%s", diff)
	}
	if h.Icon != "book" {
		t.Errorf("untouched field changed: icon = %q", h.Icon)
	}
	if h.ID != "h1" || h.Streak != 1 || h.LongestStreak != 4 || len(h.CompletedDates) != 1 {
		t.Errorf("protected fields changed: %+v", h)
	}

	// The patch slice must not alias the habit.
	days[0] = Monday
	if h.TargetDays[0] != Saturday {
		t.Error("TargetDays aliases the patch slice")
	}
}

func TestHabit_CloneIsDeep(t *testing.T) {
	h := Habit{ID: "h1", CompletedDates: []string{"2024-06-01"}}
	c := h.Clone()
	c.CompletedDates[0] = "2000-01-01"
	if h.CompletedDates[0] != "2024-06-01" {
		t.Error("Clone shares CompletedDates with the original")
	}
	if c.TargetDays == nil {
		t.Error("Clone should normalise nil TargetDays to an empty slice")
	}
}

func TestState_AllCompletedOn(t *testing.T) {
	day := "2024-06-10"

	if (State{}).AllCompletedOn(day) {
		t.Error("empty collection must not count as all completed")
	}

	s := State{Habits: []Habit{
		{ID: "a", CompletedDates: []string{day}},
		{ID: "b", CompletedDates: []string{"2024-06-09"}},
	}}
	if s.AllCompletedOn(day) {
		t.Error("expected incomplete collection")
	}

	s.Habits[1].CompletedDates = append(s.Habits[1].CompletedDates, day)
	if !s.AllCompletedOn(day) {
		t.Error("expected all habits completed")
	}

	if s.Find("b") != 1 || s.Find("missing") != -1 {
		t.Error("Find returned unexpected index")
	}
}

func TestDefaultSettings(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)
	s := DefaultSettings(now, time.UTC)

	hour, minute := s.ReminderClock(time.UTC)
	if hour != 7 || minute != 0 {
		t.Errorf("expected 07:00, got %02d:%02d", hour, minute)
	}
	if !s.RemindersEnabled {
		t.Error("reminders should be enabled by default")
	}
	if s.CustomMessage == "" {
		t.Error("default message should not be empty")
	}
}

func TestPalette(t *testing.T) {
	if len(Icons) != 24 {
		t.Errorf("expected 24 icons, got %d", len(Icons))
	}
	if !IsKnownIcon("fitness") || IsKnownIcon("rocket") {
		t.Error("unexpected icon palette membership")
	}
	for _, w := range Weekdays {
		if !w.IsValid() {
			t.Errorf("weekday %q should be valid", w)
		}
	}
	if Weekday("Funday").IsValid() || Frequency("hourly").IsValid() {
		t.Error("unknown tags should be invalid")
	}
}
