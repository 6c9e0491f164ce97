package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/config"
	"github.com/julianstephens/habitlit/internal/habitstore"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/notifier"
	"github.com/julianstephens/habitlit/internal/persistence"
	"github.com/julianstephens/habitlit/internal/reminders"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/utils"
)

type Context struct {
	Store    storage.Provider
	Config   *config.Config
	Location *time.Location
	Now      func() time.Time
	Out      io.Writer
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

func (c *Context) config() *config.Config {
	if c.Config == nil {
		return config.DefaultConfig()
	}
	return c.Config
}

func (c *Context) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c *Context) now() func() time.Time {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}

// Clock returns the current instant.
func (c *Context) Clock() time.Time {
	return c.now()()
}

// Zone returns the timezone "today" is computed in.
func (c *Context) Zone() *time.Location {
	return c.location()
}

// Today returns the current calendar day in the configured timezone.
func (c *Context) Today() string {
	return utils.DayOf(c.now()(), c.location())
}

// Tray returns the notifier for the configured tray directory.
func (c *Context) Tray() *notifier.Notifier {
	return notifier.New(c.config().TrayDir)
}

// Registry returns the durable reminder registry kept in the store.
func (c *Context) Registry() *notifier.Registry {
	return notifier.NewRegistry(c.Store, c.Tray().Available)
}

// OpenHabits opens the habit store over the loaded storage provider, wired
// to the reminder registry. Callers must Close it so pending saves land.
func (c *Context) OpenHabits(ctx context.Context) (*habitstore.Store, error) {
	if c.Store == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	registry := c.Registry()
	return habitstore.Open(ctx, habitstore.Options{
		Gateway:     persistence.NewGateway(c.Store, c.location(), c.now()),
		Reminders:   reminders.NewScheduler(registry, c.location()),
		Permissions: registry,
		Location:    c.location(),
		Now:         c.now(),
	})
}

// ResolveHabit finds a habit by exact id, unique id prefix, or
// case-insensitive title.
func ResolveHabit(habits []models.Habit, ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Habit{}, fmt.Errorf("habit reference cannot be empty")
	}

	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
	}

	var matches []models.Habit
	for _, h := range habits {
		if strings.HasPrefix(h.ID, ref) || strings.EqualFold(h.Title, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q not found", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("habit reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// ParseWeekdays parses a list of weekday names into weekday tags.
func ParseWeekdays(parts []string) ([]models.Weekday, error) {
	dayMap := map[string]models.Weekday{
		"mon": models.Monday, "monday": models.Monday,
		"tue": models.Tuesday, "tuesday": models.Tuesday,
		"wed": models.Wednesday, "wednesday": models.Wednesday,
		"thu": models.Thursday, "thursday": models.Thursday,
		"fri": models.Friday, "friday": models.Friday,
		"sat": models.Saturday, "saturday": models.Saturday,
		"sun": models.Sunday, "sunday": models.Sunday,
	}

	weekdays := []models.Weekday{}
	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		wd, ok := dayMap[part]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, wd)
	}
	return weekdays, nil
}
