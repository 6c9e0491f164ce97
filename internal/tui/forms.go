package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

type HabitFormModel struct {
	Title       string
	Description string
	Icon        string
	Color       string
	Frequency   models.Frequency
	TargetDays  []models.Weekday
}

// NewHabitFormModel returns a form model holding the creation defaults.
func NewHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		Icon:      constants.DefaultHabitIcon,
		Color:     constants.DefaultHabitColor,
		Frequency: models.FrequencyDaily,
	}
}

func (fm *HabitFormModel) Draft() models.HabitDraft {
	draft := models.HabitDraft{
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(fm.Description),
		Icon:        fm.Icon,
		Color:       fm.Color,
		Frequency:   fm.Frequency,
	}
	if fm.Frequency == models.FrequencyCustom {
		draft.TargetDays = fm.TargetDays
	}
	return draft
}

// NewHabitForm creates a new form for adding habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	iconOptions := make([]huh.Option[string], len(models.Icons))
	for i, icon := range models.Icons {
		iconOptions[i] = huh.NewOption(icon, icon)
	}
	colorOptions := make([]huh.Option[string], len(models.Colors))
	for i, color := range models.Colors {
		colorOptions[i] = huh.NewOption(color, color)
	}
	dayOptions := make([]huh.Option[models.Weekday], len(models.Weekdays))
	for i, day := range models.Weekdays {
		dayOptions[i] = huh.NewOption(string(day), day)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewSelect[string]().
				Title("Icon").
				Options(iconOptions...).
				Value(&fm.Icon),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions...).
				Value(&fm.Color),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Everyday", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
					huh.NewOption("Custom days", models.FrequencyCustom),
				).
				Value(&fm.Frequency),
		),
		huh.NewGroup(
			huh.NewMultiSelect[models.Weekday]().
				Title("Target Days").
				Options(dayOptions...).
				Value(&fm.TargetDays).
				Validate(func(days []models.Weekday) error {
					if len(days) == 0 {
						return fmt.Errorf("pick at least one day")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Frequency != models.FrequencyCustom }),
	).WithTheme(huh.ThemeDracula())
}

type SettingsFormModel struct {
	Time    string
	Message string
	Enabled bool
}

func NewSettingsFormModel(settings models.Settings) *SettingsFormModel {
	return &SettingsFormModel{
		Time:    settings.ReminderTime.Format(constants.TimeFormat),
		Message: settings.CustomMessage,
		Enabled: settings.RemindersEnabled,
	}
}

// Apply returns base with the form values. The reminder keeps the day and
// location of base and takes the form's hour and minute.
func (fm *SettingsFormModel) Apply(base models.Settings) (models.Settings, error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(fm.Time))
	if err != nil {
		return base, fmt.Errorf("invalid time format: %s (expected HH:MM)", fm.Time)
	}
	rt := base.ReminderTime
	base.ReminderTime = utils.AtClock(rt, t.Hour(), t.Minute(), rt.Location())

	base.CustomMessage = strings.TrimSpace(fm.Message)
	if base.CustomMessage == "" {
		base.CustomMessage = constants.DefaultCustomMessage
	}
	base.RemindersEnabled = fm.Enabled
	return base, nil
}

// NewSettingsForm creates a new form for editing reminder settings
func NewSettingsForm(fm *SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Daily Reminder (HH:MM)").
				Value(&fm.Time).
				Validate(func(s string) error {
					if !utils.ValidateTimeFormat(strings.TrimSpace(s)) {
						return fmt.Errorf("invalid time format, use HH:MM")
					}
					return nil
				}),
			huh.NewInput().
				Title("Reminder Message").
				Placeholder(constants.DefaultCustomMessage).
				Value(&fm.Message),
			huh.NewConfirm().
				Title("Reminders Enabled").
				Value(&fm.Enabled),
		),
	).WithTheme(huh.ThemeDracula())
}
