package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/cli/settings"
	"github.com/julianstephens/habitlit/internal/cli/system"
	"github.com/julianstephens/habitlit/internal/config"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"path" default:"${config_path}"`
	Store    string `help:"Store: SQLite path, .json path, PostgreSQL URL without password, 'memory' or 'keyring'." env:"HABITLIT_STORE"`
	Timezone string `help:"IANA timezone that decides what 'today' is." env:"HABITLIT_TIMEZONE"`
	Verbose  bool   `name:"debug" help:"Enable debug logging to stderr." env:"HABITLIT_DEBUG"`

	Init     system.InitCmd       `cmd:"" help:"Initialize habitlit storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit    cli.HabitCmd         `cmd:"" help:"Manage habits and habit tracking."`
	Stats    cli.StatsCmd         `cmd:"" help:"Show completion rate, weekly trend and top streaks."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage reminder settings."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Debug    system.DebugCmd      `cmd:"" help:"Debug commands for troubleshooting."`
	Notify   system.NotifyCmd     `cmd:"" hidden:"" help:"Deliver due reminders (run every minute by cron)."`
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks and daily reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	}
}

func main() {
	ctx := kong.Parse(&CLI, options()...)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	cfg.Override(CLI.Store, CLI.Timezone, CLI.Verbose)

	configDir, err := config.ConfigDir()
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer logger.Close()

	loc, err := cfg.Location()
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Config:   cfg,
		Location: loc,
	}

	command := ctx.Command()
	if !strings.HasPrefix(command, "keyring") {
		target, err := cfg.ResolveStore()
		if err != nil {
			errors.Fatal(err)
		}
		store, err := storage.New(target)
		if err != nil {
			errors.Fatal(err)
		}
		defer store.Close()
		appCtx.Store = store

		// These open the store themselves
		switch command {
		case "init", "migrate", "doctor":
		default:
			if err := store.Load(); err != nil {
				errors.Fatal(err)
			}
		}
	}

	logger.Debug("Running command", "command", command, "store", cfg.Store)
	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}
