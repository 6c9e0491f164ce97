package models

import (
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
)

// Settings represents the reminder preferences
type Settings struct {
	ReminderTime     time.Time // only the hour and minute in the configured timezone are used
	CustomMessage    string
	RemindersEnabled bool
}

// DefaultSettings returns the first-run settings: a 07:00 reminder on the day
// of now in loc, the default message, reminders enabled.
func DefaultSettings(now time.Time, loc *time.Location) Settings {
	if loc == nil {
		loc = time.Local
	}
	n := now.In(loc)
	return Settings{
		ReminderTime:     time.Date(n.Year(), n.Month(), n.Day(), constants.DefaultReminderHour, constants.DefaultReminderMinute, 0, 0, loc),
		CustomMessage:    constants.DefaultCustomMessage,
		RemindersEnabled: constants.DefaultRemindersEnabled,
	}
}

// ReminderClock returns the hour and minute of the daily reminder in loc.
func (s Settings) ReminderClock(loc *time.Location) (hour, minute int) {
	if loc == nil {
		loc = time.Local
	}
	t := s.ReminderTime.In(loc)
	return t.Hour(), t.Minute()
}
