// Package persistence maps the habit collection and settings onto two
// independent durable records.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
)

var (
	// ErrRead marks a record that exists but could not be read or decoded.
	ErrRead = errors.New("persistence read failed")
	// ErrWrite marks a record that could not be encoded or written.
	ErrWrite = errors.New("persistence write failed")
)

// settingsRecord is the stored shape of models.Settings.
type settingsRecord struct {
	Time    int64  `json:"time"` // epoch milliseconds
	Message string `json:"message"`
	Enabled bool   `json:"enabled"`
}

type Gateway struct {
	store storage.Provider
	loc   *time.Location
	now   func() time.Time
}

func NewGateway(store storage.Provider, loc *time.Location, now func() time.Time) *Gateway {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Gateway{store: store, loc: loc, now: now}
}

// Defaults returns the first-run state: no habits, default settings.
func (g *Gateway) Defaults() models.State {
	return models.State{
		Habits:   []models.Habit{},
		Settings: models.DefaultSettings(g.now(), g.loc),
	}
}

// Load reads both records. Each record that is missing or unreadable falls
// back to its default on its own; unreadable records are logged.
func (g *Gateway) Load(ctx context.Context) models.State {
	state := g.Defaults()

	if habits, err := g.loadHabits(ctx); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Falling back to empty habit collection", "error", err)
		}
	} else {
		state.Habits = habits
	}

	if settings, err := g.loadSettings(ctx, state.Settings); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Falling back to default settings", "error", err)
		}
	} else {
		state.Settings = settings
	}

	return state
}

// Inspect reads both records like Load but reports unreadable records instead
// of falling back, and returns the habits exactly as stored.
func (g *Gateway) Inspect(ctx context.Context) (models.State, error) {
	state := g.Defaults()

	var errs []error
	data, err := g.read(ctx, constants.RecordHabits)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		errs = append(errs, err)
	default:
		if err := json.Unmarshal(data, &state.Habits); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrRead, constants.RecordHabits, err))
		}
	}

	settings, err := g.loadSettings(ctx, state.Settings)
	switch {
	case err == nil:
		state.Settings = settings
	case !errors.Is(err, storage.ErrNotFound):
		errs = append(errs, err)
	}

	return state, errors.Join(errs...)
}

func (g *Gateway) read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, key, err)
	}
	data, err := g.store.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, key, err)
	}
	return data, nil
}

func (g *Gateway) loadHabits(ctx context.Context) ([]models.Habit, error) {
	data, err := g.read(ctx, constants.RecordHabits)
	if err != nil {
		return nil, err
	}

	var habits []models.Habit
	if err := json.Unmarshal(data, &habits); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, constants.RecordHabits, err)
	}
	for i := range habits {
		habits[i] = normalize(habits[i])
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	return habits, nil
}

func (g *Gateway) loadSettings(ctx context.Context, defaults models.Settings) (models.Settings, error) {
	data, err := g.read(ctx, constants.RecordSettings)
	if err != nil {
		return models.Settings{}, err
	}

	rec := settingsRecord{
		Time:    defaults.ReminderTime.UnixMilli(),
		Message: defaults.CustomMessage,
		Enabled: defaults.RemindersEnabled,
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %s: %v", ErrRead, constants.RecordSettings, err)
	}

	return models.Settings{
		ReminderTime:     time.UnixMilli(rec.Time).In(g.loc),
		CustomMessage:    rec.Message,
		RemindersEnabled: rec.Enabled,
	}, nil
}

// Save writes the habit collection and then the settings as two records.
// Both writes are attempted; a failure of either is reported wrapped in
// ErrWrite. The pair is not written atomically.
func (g *Gateway) Save(ctx context.Context, state models.State) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	habits := state.Habits
	if habits == nil {
		habits = []models.Habit{}
	}

	var errs []error
	if err := g.write(constants.RecordHabits, habits); err != nil {
		errs = append(errs, err)
	}
	if err := g.write(constants.RecordSettings, settingsRecord{
		Time:    state.Settings.ReminderTime.UnixMilli(),
		Message: state.Settings.CustomMessage,
		Enabled: state.Settings.RemindersEnabled,
	}); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (g *Gateway) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}
	if err := g.store.Put(key, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}
	return nil
}

// normalize repairs records written by older or foreign clients.
func normalize(h models.Habit) models.Habit {
	h = h.Clone()

	seen := make(map[string]struct{}, len(h.CompletedDates))
	dates := h.CompletedDates[:0]
	for _, d := range h.CompletedDates {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	h.CompletedDates = dates

	if h.Streak < 0 {
		h.Streak = 0
	}
	if h.LongestStreak < h.Streak {
		h.LongestStreak = h.Streak
	}
	if h.Frequency == "" {
		h.Frequency = models.FrequencyDaily
	}
	return h
}
