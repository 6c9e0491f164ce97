package system

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/migration"
	"github.com/julianstephens/habitlit/internal/persistence"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/validation"
	"github.com/julianstephens/habitlit/migrations"
)

type DoctorCmd struct{}

type check struct {
	name      string
	run       func(ctx *cli.Context) error
	needStore bool
	warnOnly  bool
}

var doctorChecks = []check{
	{name: "Store reachable", run: checkStoreReachable},
	{name: "Schema version", run: checkSchemaVersion, needStore: true},
	{name: "Records readable", run: checkRecordsReadable, needStore: true},
	{name: "Habit integrity", run: checkHabitsIntegrity, needStore: true},
	{name: "Reminder registry", run: checkReminderRegistry, needStore: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Tray application", run: checkTray, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	storeReachable := false

	for _, c := range doctorChecks {
		if c.needStore && !storeReachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
			if c.name == "Store reachable" {
				storeReachable = true
			}
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if ctx.Store == nil {
		return fmt.Errorf("no store configured")
	}
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		// Other backends validate their schema on Load
		return nil
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(db, subFS, migration.DialectSQLite).ValidateVersion()
}

// checkRecordsReadable fails on records that exist but cannot be read. Loading
// the habit store would silently fall back to defaults for them.
func checkRecordsReadable(ctx *cli.Context) error {
	gateway := persistence.NewGateway(ctx.Store, ctx.Zone(), ctx.Clock)
	_, err := gateway.Inspect(context.Background())
	return err
}

func checkHabitsIntegrity(ctx *cli.Context) error {
	gateway := persistence.NewGateway(ctx.Store, ctx.Zone(), ctx.Clock)
	// Unreadable records are reported by checkRecordsReadable
	state, _ := gateway.Inspect(context.Background())

	result := validation.New().ValidateHabits(state.Habits)
	if result.HasIssues() {
		return fmt.Errorf("%d issue(s)\n%s", len(result.Issues), result.FormatReport())
	}
	return nil
}

func checkReminderRegistry(ctx *cli.Context) error {
	if _, err := ctx.Registry().Scheduled(); err != nil {
		return fmt.Errorf("failed to read scheduled reminders: %w", err)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Clock()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Config != nil {
		if _, err := ctx.Config.Location(); err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}
	}
	return nil
}

func checkTray(ctx *cli.Context) error {
	if err := ctx.Tray().Available(); err != nil {
		return fmt.Errorf("reminders will not be delivered until the tray application runs: %w", err)
	}
	return nil
}
