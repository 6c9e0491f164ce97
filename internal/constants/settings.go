package constants

const (
	// Default Settings Values
	DefaultReminderHour     = 7
	DefaultReminderMinute   = 0
	DefaultCustomMessage    = "It's time to build your habits!"
	DefaultRemindersEnabled = true

	// Habit creation defaults
	DefaultHabitIcon  = "fitness"
	DefaultHabitColor = "#007AFF"
)
