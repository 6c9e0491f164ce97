// Package keyring keeps the PostgreSQL connection string for a habitlit
// store in the OS keyring, so config files and --store values never carry a
// password.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitlit/internal/constants"
)

var (
	ErrNotFound           = errors.New("no habitlit connection string in the OS keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Status describes what the keyring holds for habitlit.
type Status int

const (
	StatusUnavailable Status = iota
	StatusEmpty
	StatusStored
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusStored:
		return "stored"
	}
	return "unavailable"
}

// entry is one secret under the habitlit service name.
type entry struct {
	user string
}

var connection = entry{user: constants.DefaultKeyringUser}

func (e entry) get() (string, error) {
	secret, err := keyring.Get(constants.AppName, e.user)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrNotFound
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func (e entry) set(secret string) error {
	if err := keyring.Set(constants.AppName, e.user, secret); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

func (e entry) delete() error {
	err := keyring.Delete(constants.AppName, e.user)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// GetConnectionString returns the stored connection string, or ErrNotFound.
func GetConnectionString() (string, error) {
	return connection.get()
}

// SetConnectionString stores connStr with surrounding whitespace removed.
func SetConnectionString(connStr string) error {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return connection.set(connStr)
}

// DeleteConnectionString removes the stored connection string, or returns
// ErrNotFound when there is none.
func DeleteConnectionString() error {
	return connection.delete()
}

// Check reports whether the keyring can be reached and holds a connection
// string.
func Check() Status {
	_, err := connection.get()
	switch {
	case err == nil:
		return StatusStored
	case errors.Is(err, ErrNotFound):
		return StatusEmpty
	}
	return StatusUnavailable
}
