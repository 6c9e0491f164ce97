package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/persistence"
	"github.com/julianstephens/habitlit/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing records before initialization."`
	Source string `help:"Source store path or connection string to copy habits and settings from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitlit storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Force {
		// Backends without a file to remove are cleared record by record
		for _, key := range []string{constants.RecordHabits, constants.RecordSettings, constants.RecordNotifications} {
			if err := ctx.Store.Delete(key); err != nil {
				return fmt.Errorf("failed to clear %s: %w", key, err)
			}
		}
	}

	gateway := persistence.NewGateway(ctx.Store, ctx.Zone(), ctx.Clock)
	state := gateway.Load(context.Background())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		copied, err := c.loadSource(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		state = copied
		ctx.Printf("    Migrated %d habits\n", len(state.Habits))
	}

	// Writes default records where none exist and normalizes the rest
	if err := gateway.Save(context.Background(), state); err != nil {
		return err
	}
	if c.Source != "" {
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

// reset removes an existing file-backed store.
func (c *InitCmd) reset(ctx *cli.Context) error {
	switch ctx.Store.(type) {
	case *storage.SQLiteStore, *storage.JSONStore:
	default:
		return nil
	}

	path := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	// Don't delete if it's the source (user error protection)
	if c.Source != "" {
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == path {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing store: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing store: %w", err)
		}
		ctx.Printf("Deleted existing store at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing store: %w", err)
	}
	return nil
}

func (c *InitCmd) loadSource(ctx *cli.Context) (models.State, error) {
	if storage.IsPostgresConnString(c.Source) {
		if err := storage.ValidateConnString(c.Source); err != nil {
			return models.State{}, err
		}
	}
	source, err := storage.New(c.Source)
	if err != nil {
		return models.State{}, err
	}
	if err := source.Load(); err != nil {
		return models.State{}, fmt.Errorf("failed to load source store: %w", err)
	}
	defer source.Close()

	ctx.Println("  Migrating habits and settings...")
	return persistence.NewGateway(source, ctx.Zone(), ctx.Clock).Load(context.Background()), nil
}
