package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/notifier"
)

// deliver sends content to the tray. Swapped out in tests.
var deliver = func(ctx *cli.Context, content notifier.Content) error {
	return ctx.Tray().Notify(context.Background(), content)
}

type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

// Run delivers every registered reminder due this minute. It is meant to be
// run once a minute by cron or a launch agent.
func (c *NotifyCmd) Run(ctx *cli.Context) error {
	registry := ctx.Registry()
	now := ctx.Clock().In(ctx.Zone())

	due, err := registry.Due(now)
	if err != nil {
		return fmt.Errorf("failed to read scheduled reminders: %w", err)
	}
	if len(due) == 0 {
		if c.DryRun {
			ctx.Println("No reminders due.")
		}
		return nil
	}

	for _, r := range due {
		if c.DryRun {
			ctx.Printf("[DryRun] %s: %s\n", r.Content.Title, r.Content.Body)
			continue
		}

		if err := deliver(ctx, r.Content); err != nil {
			// Log error but continue with the other reminders
			logger.Warn("Failed to send notification", "id", r.ID, "error", err)
			ctx.Printf("Failed to send notification: %v\n", err)
			continue
		}
		if err := registry.MarkFired(r.ID, now); err != nil {
			logger.Warn("Failed to record delivered reminder", "id", r.ID, "error", err)
		}
	}
	return nil
}
