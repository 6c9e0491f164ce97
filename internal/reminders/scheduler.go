// Package reminders keeps the scheduled local notifications consistent with
// the current habit state.
package reminders

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/notifier"
)

type Scheduler struct {
	service notifier.Service
	loc     *time.Location
}

// NewScheduler returns a Scheduler driving service. Reminder times are read
// in loc.
func NewScheduler(service notifier.Service, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{service: service, loc: loc}
}

// Reconcile replaces the scheduled reminders with the set implied by state.
// Failures are logged and end the pass; they are never returned.
func (s *Scheduler) Reconcile(ctx context.Context, state models.State, today string) {
	if err := s.service.CancelAll(ctx); err != nil {
		s.report("cancel all", err)
		return
	}
	if !state.Settings.RemindersEnabled {
		logger.Debug("Reminders disabled, nothing scheduled")
		return
	}
	if len(state.Habits) == 0 {
		return
	}

	hour, minute := state.Settings.ReminderClock(s.loc)
	daily := notifier.Content{Title: constants.DailyReminderTitle, Body: state.Settings.CustomMessage}
	if _, err := s.service.ScheduleRepeating(ctx, daily, notifier.Trigger{Hour: hour, Minute: minute}, ""); err != nil {
		s.report("schedule daily reminder", err)
		return
	}

	if state.AllCompletedOn(today) {
		return
	}

	checkIn := notifier.Content{Title: constants.CheckInTitle, Body: constants.CheckInBody}
	trigger := notifier.Trigger{Hour: constants.CheckInHour, Minute: constants.CheckInMinute}
	if _, err := s.service.ScheduleRepeating(ctx, checkIn, trigger, constants.CheckInIdentifier); err != nil {
		s.report("schedule check-in", err)
	}
}

// CancelCheckIn removes only the evening check-in.
func (s *Scheduler) CancelCheckIn(ctx context.Context) {
	if err := s.service.CancelByID(ctx, constants.CheckInIdentifier); err != nil {
		s.report("cancel check-in", err)
	}
}

func (s *Scheduler) report(op string, err error) {
	if errors.Is(err, notifier.ErrPermissionDenied) || errors.Is(err, notifier.ErrUnsupported) {
		logger.Debug("Reminders unavailable", "op", op, "error", err)
		return
	}
	logger.Warn("Reminder update failed", "op", op, "error", err)
}
