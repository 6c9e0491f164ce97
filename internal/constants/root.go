package constants

import "time"

const (
	AppName            = "habitlit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitlit"
	DefaultConfigPath  = "~/.config/habitlit/config.yaml"
	DefaultStorePath   = "~/.config/habitlit/habitlit.db"
	Version            = "v0.1.0"

	// StoreKeyring selects the PostgreSQL connection string stored in the OS keyring.
	StoreKeyring = "keyring"
	StoreMemory  = "memory"

	// Durable record keys
	RecordHabits        = "habits"
	RecordSettings      = "settings"
	RecordNotifications = "notifications"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "habitlit-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitlit"
	TrayExecutable         = "habitlit-tray"
	TraySecretHeader       = "X-Habitlit-Secret"

	// Reminder content
	DailyReminderTitle = "Habit Reminder"
	CheckInTitle       = "Check-in"
	CheckInBody        = "Don't forget to complete your habits before the day ends!"
	CheckInIdentifier  = "smart_reminder_8pm"
	CheckInHour        = 20
	CheckInMinute      = 0
	DefaultRankingSize = 3
	TrailingWindowDays = 7
)
