// Package habitstore owns the in-memory habit collection and settings.
//
// Every operation commits to the snapshot synchronously and returns. Each
// commit queues one background job that persists the snapshot and reconciles
// reminders; callers never wait on it.
package habitstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/notifier"
	"github.com/julianstephens/habitlit/internal/streak"
	"github.com/julianstephens/habitlit/internal/utils"
)

// Gateway loads and saves the durable state.
type Gateway interface {
	Load(ctx context.Context) models.State
	Save(ctx context.Context, state models.State) error
}

// Reminders keeps scheduled notifications in line with a snapshot.
type Reminders interface {
	Reconcile(ctx context.Context, state models.State, today string)
	CancelCheckIn(ctx context.Context)
}

type Options struct {
	Gateway   Gateway
	Reminders Reminders // optional

	// Permissions, when set, is asked for notification consent once on Open.
	Permissions notifier.PermissionRequester

	Location *time.Location
	Now      func() time.Time
	NewID    func() string
}

type Store struct {
	gateway   Gateway
	reminders Reminders
	loc       *time.Location
	now       func() time.Time
	newID     func() string

	mu    sync.Mutex
	state models.State

	// notifyMu orders observer callbacks in commit order.
	notifyMu  sync.Mutex
	obsMu     sync.Mutex
	observers map[int]func(models.State)
	nextObs   int

	effects *worker
}

// Open loads the durable state and starts the effect worker. The returned
// store always reflects the loaded state before any mutation.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Gateway == nil {
		return nil, errors.New("habitstore: gateway is required")
	}

	s := &Store{
		gateway:   opts.Gateway,
		reminders: opts.Reminders,
		loc:       opts.Location,
		now:       opts.Now,
		newID:     opts.NewID,
		observers: make(map[int]func(models.State)),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	s.state = s.gateway.Load(ctx)
	logger.Debug("Loaded habit state", "habits", len(s.state.Habits))

	if opts.Permissions != nil {
		if err := opts.Permissions.RequestPermission(ctx); err != nil {
			logger.Debug("Notification permission not granted", "error", err)
		}
	}

	s.effects = newWorker(s.apply)
	s.effects.enqueue(effect{state: s.state.Clone(), today: s.Today()})
	return s, nil
}

// apply runs on the worker goroutine.
func (s *Store) apply(e effect) {
	ctx := context.Background()

	if e.cancelCheckIn && s.reminders != nil {
		s.reminders.CancelCheckIn(ctx)
	}
	if e.save {
		if err := s.gateway.Save(ctx, e.state); err != nil {
			logger.Warn("Failed to persist habit state", "error", err)
		}
	}
	if s.reminders != nil {
		s.reminders.Reconcile(ctx, e.state, e.today)
	}
}

// Flush blocks until every queued side effect has run.
func (s *Store) Flush() {
	s.effects.flush()
}

// Close runs pending side effects and stops the worker. Mutations after Close
// still commit in memory but are no longer persisted.
func (s *Store) Close() {
	s.effects.close()
}

// Today returns the current calendar day in the store's location.
func (s *Store) Today() string {
	return utils.DayOf(s.now(), s.loc)
}

// Subscribe registers fn to receive every committed snapshot. fn runs on the
// mutating goroutine after the commit and must not mutate the store.
func (s *Store) Subscribe(fn func(models.State)) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// commit runs mutate under the store lock. mutate reports whether anything
// changed and whether the check-in should be cancelled right away.
func (s *Store) commit(mutate func(st *models.State) (changed, cancelCheckIn bool)) {
	s.mu.Lock()
	changed, cancelCheckIn := mutate(&s.state)
	if !changed {
		s.mu.Unlock()
		return
	}
	snap := s.state.Clone()
	s.effects.enqueue(effect{
		state:         snap.Clone(),
		today:         s.Today(),
		save:          true,
		cancelCheckIn: cancelCheckIn,
	})

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.obsMu.Lock()
	observers := make([]func(models.State), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range observers {
		fn(snap.Clone())
	}
}

// AddHabit creates a habit from draft and returns it.
func (s *Store) AddHabit(draft models.HabitDraft) models.Habit {
	h := models.Habit{
		ID:             s.newID(),
		Title:          draft.Title,
		Description:    draft.Description,
		Frequency:      models.FrequencyDaily,
		TargetDays:     []models.Weekday{},
		Icon:           constants.DefaultHabitIcon,
		Color:          constants.DefaultHabitColor,
		StartDate:      s.Today(),
		CompletedDates: []string{},
	}
	if draft.Icon != "" {
		h.Icon = draft.Icon
	}
	if draft.Color != "" {
		h.Color = draft.Color
	}
	if draft.Frequency != "" {
		h.Frequency = draft.Frequency
	}
	if len(draft.TargetDays) > 0 {
		h.TargetDays = append([]models.Weekday(nil), draft.TargetDays...)
	}

	s.commit(func(st *models.State) (bool, bool) {
		st.Habits = append(st.Habits, h.Clone())
		return true, false
	})
	logger.Debug("Added habit", "id", h.ID, "title", h.Title)
	return h
}

// UpdateHabit merges patch into the habit with id.
func (s *Store) UpdateHabit(id string, patch models.HabitPatch) {
	s.commit(func(st *models.State) (bool, bool) {
		i := st.Find(id)
		if i < 0 {
			logger.Debug("Update of unknown habit ignored", "id", id)
			return false, false
		}
		st.Habits[i].Apply(patch)
		return true, false
	})
}

func (s *Store) DeleteHabit(id string) {
	s.commit(func(st *models.State) (bool, bool) {
		i := st.Find(id)
		if i < 0 {
			logger.Debug("Delete of unknown habit ignored", "id", id)
			return false, false
		}
		st.Habits = append(st.Habits[:i:i], st.Habits[i+1:]...)
		return true, false
	})
}

// ToggleCompletion marks or unmarks the habit as done on today and
// recomputes its streak counters. The longest streak never decreases.
func (s *Store) ToggleCompletion(id, today string) {
	s.commit(func(st *models.State) (bool, bool) {
		i := st.Find(id)
		if i < 0 {
			logger.Debug("Toggle of unknown habit ignored", "id", id)
			return false, false
		}

		h := &st.Habits[i]
		dates := make([]string, 0, len(h.CompletedDates)+1)
		wasCompleted := false
		for _, d := range h.CompletedDates {
			if d == today {
				wasCompleted = true
				continue
			}
			dates = append(dates, d)
		}
		if !wasCompleted {
			dates = append(dates, today)
		}

		h.CompletedDates = dates
		h.Streak = streak.Current(dates, today)
		h.LongestStreak = max(h.LongestStreak, h.Streak)

		return true, st.AllCompletedOn(today)
	})
}

// ToggleToday toggles the habit for the store's current day.
func (s *Store) ToggleToday(id string) {
	s.ToggleCompletion(id, s.Today())
}

// UpdateSettings replaces the settings as a whole.
func (s *Store) UpdateSettings(settings models.Settings) {
	s.commit(func(st *models.State) (bool, bool) {
		st.Settings = settings
		return true, false
	})
}

// Habits returns a copy of the habit collection in insertion order.
func (s *Store) Habits() []models.Habit {
	return s.Snapshot().Habits
}

func (s *Store) Habit(id string) (models.Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.Find(id)
	if i < 0 {
		return models.Habit{}, false
	}
	return s.state.Habits[i].Clone(), true
}

func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}
