package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Time    *string `help:"Daily reminder time (HH:MM)."`
	Message *string `help:"Daily reminder message."`
	Enabled *bool   `help:"Enable or disable reminders."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	var reminderTime time.Time
	if c.Time != nil {
		if !utils.ValidateTimeFormat(*c.Time) {
			return fmt.Errorf("invalid time format: %s (expected HH:MM)", *c.Time)
		}
		t, _ := time.Parse(constants.TimeFormat, *c.Time)
		reminderTime = utils.AtClock(ctx.Clock(), t.Hour(), t.Minute(), ctx.Zone())
	}

	store, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	defer store.Close()

	settings := store.Settings()

	if c.List {
		hour, minute := settings.ReminderClock(ctx.Zone())
		ctx.Println("Current Settings:")
		ctx.Printf("  Reminder Time:     %02d:%02d\n", hour, minute)
		ctx.Printf("  Reminder Message:  %s\n", settings.CustomMessage)
		ctx.Printf("  Reminders Enabled: %v\n", settings.RemindersEnabled)

		// Let the open reconcile land before reading the registry
		store.Flush()
		scheduled, err := ctx.Registry().Scheduled()
		if err != nil {
			return fmt.Errorf("failed to read scheduled reminders: %w", err)
		}
		ctx.Println("\nScheduled Reminders:")
		if len(scheduled) == 0 {
			ctx.Println("  (none)")
		}
		for _, r := range scheduled {
			ctx.Printf("  %02d:%02d  %s: %s\n", r.Trigger.Hour, r.Trigger.Minute, r.Content.Title, r.Content.Body)
		}
		return nil
	}

	updated := false
	if c.Time != nil {
		settings.ReminderTime = reminderTime
		updated = true
	}
	if c.Message != nil {
		msg := strings.TrimSpace(*c.Message)
		if msg == "" {
			msg = constants.DefaultCustomMessage
		}
		settings.CustomMessage = msg
		updated = true
	}
	if c.Enabled != nil {
		settings.RemindersEnabled = *c.Enabled
		updated = true
	}

	if updated {
		store.UpdateSettings(settings)
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}
