package models

import (
	"slices"
	"strings"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// Weekday is a weekday tag used by custom frequencies ("Mon" .. "Sun").
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// Weekdays lists the weekday tags in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Habit represents a recurring practice and its completion history
type Habit struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Frequency      Frequency `json:"frequency"`
	TargetDays     []Weekday `json:"targetDays"`
	Icon           string    `json:"icon"`
	Color          string    `json:"color"`
	StartDate      string    `json:"startDate"`      // YYYY-MM-DD format
	CompletedDates []string  `json:"completedDates"` // YYYY-MM-DD format, unique
	Streak         int       `json:"streak"`
	LongestStreak  int       `json:"longestStreak"`
}

// HabitDraft holds the caller-supplied fields of a new habit.
type HabitDraft struct {
	Title       string
	Description string
	Icon        string
	Color       string
	Frequency   Frequency
	TargetDays  []Weekday
}

// HabitPatch holds a partial update. Nil fields are left untouched.
// Identity, completion history and streak counters are not patchable.
type HabitPatch struct {
	Title       *string
	Description *string
	Icon        *string
	Color       *string
	Frequency   *Frequency
	TargetDays  *[]Weekday
	StartDate   *string
}

// IsCompletedOn reports whether the habit was completed on day.
func (h Habit) IsCompletedOn(day string) bool {
	return slices.Contains(h.CompletedDates, day)
}

// Clone returns a deep copy of the habit.
func (h Habit) Clone() Habit {
	out := h
	out.TargetDays = slices.Clone(h.TargetDays)
	out.CompletedDates = slices.Clone(h.CompletedDates)
	if out.TargetDays == nil {
		out.TargetDays = []Weekday{}
	}
	if out.CompletedDates == nil {
		out.CompletedDates = []string{}
	}
	return out
}

// Apply merges the non-nil fields of p into h.
func (h *Habit) Apply(p HabitPatch) {
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Icon != nil {
		h.Icon = *p.Icon
	}
	if p.Color != nil {
		h.Color = *p.Color
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if p.TargetDays != nil {
		h.TargetDays = slices.Clone(*p.TargetDays)
	}
	if p.StartDate != nil {
		h.StartDate = *p.StartDate
	}
}

// FormatFrequency returns a human-readable description of how often the habit is due
func (h Habit) FormatFrequency() string {
	switch h.Frequency {
	case FrequencyDaily:
		return "Everyday"
	case FrequencyCustom:
		if len(h.TargetDays) == 0 {
			return "Custom"
		}
		days := make([]string, len(h.TargetDays))
		for i, d := range h.TargetDays {
			days[i] = string(d)
		}
		return strings.Join(days, ", ")
	default:
		return "Weekly"
	}
}

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

// IsValid reports whether w is a known weekday tag.
func (w Weekday) IsValid() bool {
	return slices.Contains(Weekdays, w)
}
