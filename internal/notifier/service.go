package notifier

import (
	"context"
	"errors"
)

var (
	// ErrPermissionDenied is returned when the user has refused notifications.
	ErrPermissionDenied = errors.New("notification permission denied")
	// ErrUnsupported is returned when the platform cannot deliver local notifications.
	ErrUnsupported = errors.New("local notifications unsupported")
)

// Content is what a delivered notification shows.
type Content struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Trigger fires once per day at Hour:Minute local time.
type Trigger struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Service schedules repeating local notifications.
type Service interface {
	// ScheduleRepeating schedules content at trigger every day. An empty
	// identifier gets a generated one. The returned handle identifies the
	// scheduled notification.
	ScheduleRepeating(ctx context.Context, content Content, trigger Trigger, identifier string) (string, error)
	CancelAll(ctx context.Context) error
	CancelByID(ctx context.Context, identifier string) error
}

// PermissionRequester is implemented by services that need the user's
// consent before scheduling.
type PermissionRequester interface {
	RequestPermission(ctx context.Context) error
}
