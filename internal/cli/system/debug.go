package system

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/persistence"
)

type DebugCmd struct {
	StorePath     *DebugStorePathCmd     `cmd:"" help:"Show the storage path."`
	DumpHabit     *DebugDumpHabitCmd     `cmd:"" help:"Dump a stored habit as JSON."`
	DumpSettings  *DebugDumpSettingsCmd  `cmd:"" help:"Dump the stored settings as JSON."`
	DumpReminders *DebugDumpRemindersCmd `cmd:"" help:"Dump the scheduled reminders as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugStorePathCmd struct{}

func (cmd *DebugStorePathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

// DebugDumpHabitCmd prints a habit exactly as stored, before any repair the
// habit store applies on load.
type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	gateway := persistence.NewGateway(ctx.Store, ctx.Zone(), ctx.Clock)
	state, err := gateway.Inspect(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read habits: %w", err)
	}

	habit, err := cli.ResolveHabit(state.Habits, cmd.Habit)
	if err != nil {
		return err
	}
	return printJSON(ctx, habit)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	gateway := persistence.NewGateway(ctx.Store, ctx.Zone(), ctx.Clock)
	state, err := gateway.Inspect(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return printJSON(ctx, state.Settings)
}

type DebugDumpRemindersCmd struct{}

func (cmd *DebugDumpRemindersCmd) Run(ctx *cli.Context) error {
	scheduled, err := ctx.Registry().Scheduled()
	if err != nil {
		return err
	}
	return printJSON(ctx, scheduled)
}
