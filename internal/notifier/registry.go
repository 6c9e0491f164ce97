package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/storage"
)

const firedFormat = "2006-01-02T15:04"

// Reminder is a scheduled repeating notification.
type Reminder struct {
	ID        string  `json:"id"`
	Content   Content `json:"content"`
	Trigger   Trigger `json:"trigger"`
	LastFired string  `json:"lastFired,omitempty"` // minute of the last delivery
	// Cancelled entries are never due. They hold LastFired for a later
	// reschedule of the same content and trigger.
	Cancelled bool    `json:"cancelled,omitempty"`
}

func (rem Reminder) sameAs(content Content, trigger Trigger) bool {
	return rem.Content == content && rem.Trigger == trigger
}

// Registry is a Service that keeps scheduled reminders in a durable record so
// that a separate delivery process can find them.
type Registry struct {
	store     storage.Provider
	available func() error

	mu sync.Mutex
}

// NewRegistry returns a Registry over store. available, when set, is
// consulted by RequestPermission to check that reminders can be delivered.
func NewRegistry(store storage.Provider, available func() error) *Registry {
	return &Registry{store: store, available: available}
}

func (r *Registry) RequestPermission(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.available == nil {
		return nil
	}
	if err := r.available(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return nil
}

func (r *Registry) ScheduleRepeating(ctx context.Context, content Content, trigger Trigger, identifier string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if trigger.Hour < 0 || trigger.Hour > 23 || trigger.Minute < 0 || trigger.Minute > 59 {
		return "", fmt.Errorf("invalid trigger %02d:%02d", trigger.Hour, trigger.Minute)
	}
	explicit := identifier != ""
	if !explicit {
		identifier = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reminders, err := r.load()
	if err != nil {
		return "", err
	}

	next := Reminder{ID: identifier, Content: content, Trigger: trigger}
	reminders = slices.DeleteFunc(reminders, func(rem Reminder) bool {
		if rem.ID == identifier {
			if rem.sameAs(content, trigger) && rem.LastFired > next.LastFired {
				next.LastFired = rem.LastFired
			}
			return true
		}
		// Explicit identifiers only match themselves
		if explicit || !rem.Cancelled || !rem.sameAs(content, trigger) {
			return false
		}
		if rem.LastFired > next.LastFired {
			next.LastFired = rem.LastFired
		}
		return true
	})
	reminders = append(reminders, next)
	if err := r.save(reminders); err != nil {
		return "", err
	}
	return identifier, nil
}

func (r *Registry) CancelAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// An unreadable record is replaced outright.
	reminders, err := r.load()
	if err != nil {
		reminders = nil
	}
	kept := []Reminder{}
	for _, rem := range reminders {
		if rem.LastFired != "" {
			rem.Cancelled = true
			kept = append(kept, rem)
		}
	}
	return r.save(kept)
}

func (r *Registry) CancelByID(ctx context.Context, identifier string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reminders, err := r.load()
	if err != nil {
		return err
	}
	kept := reminders[:0]
	for _, rem := range reminders {
		if rem.ID == identifier {
			if rem.LastFired == "" {
				continue
			}
			rem.Cancelled = true
		}
		kept = append(kept, rem)
	}
	return r.save(kept)
}

// Scheduled returns every scheduled reminder.
func (r *Registry) Scheduled() ([]Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminders, err := r.load()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(reminders, func(rem Reminder) bool { return rem.Cancelled }), nil
}

// Due returns the reminders whose trigger matches the wall-clock minute of
// now and that have not been delivered during that minute.
func (r *Registry) Due(now time.Time) ([]Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminders, err := r.load()
	if err != nil {
		return nil, err
	}

	minute := now.Format(firedFormat)
	var due []Reminder
	for _, rem := range reminders {
		if rem.Cancelled {
			continue
		}
		if rem.Trigger.Hour != now.Hour() || rem.Trigger.Minute != now.Minute() {
			continue
		}
		if rem.LastFired == minute {
			continue
		}
		due = append(due, rem)
	}
	return due, nil
}

// MarkFired records that the reminder was delivered at now. Cancelled
// reminders last delivered on an earlier day are dropped.
func (r *Registry) MarkFired(identifier string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminders, err := r.load()
	if err != nil {
		return err
	}

	fired := now.Format(firedFormat)
	day := fired[:len("2006-01-02")]
	found := false
	kept := reminders[:0]
	for _, rem := range reminders {
		if rem.Cancelled {
			if !strings.HasPrefix(rem.LastFired, day) {
				continue
			}
		} else if rem.ID == identifier {
			rem.LastFired = fired
			found = true
		}
		kept = append(kept, rem)
	}
	if !found {
		return nil
	}
	return r.save(kept)
}

func (r *Registry) load() ([]Reminder, error) {
	data, err := r.store.Get(constants.RecordNotifications)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []Reminder{}, nil
		}
		return nil, fmt.Errorf("failed to read scheduled reminders: %w", err)
	}

	var reminders []Reminder
	if err := json.Unmarshal(data, &reminders); err != nil {
		return nil, fmt.Errorf("failed to parse scheduled reminders: %w", err)
	}
	return reminders, nil
}

func (r *Registry) save(reminders []Reminder) error {
	data, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("failed to encode scheduled reminders: %w", err)
	}
	if err := r.store.Put(constants.RecordNotifications, data); err != nil {
		return fmt.Errorf("failed to write scheduled reminders: %w", err)
	}
	return nil
}
