package storage

import "errors"

var (
	// ErrNotFound is returned by Get when no record exists for the key
	ErrNotFound = errors.New("record not found")
	// ErrNotLoaded is returned when a record operation runs before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is a durable key-value record store. Values are opaque encoded
// documents; callers own the encoding.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Records
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error

	// Utils
	GetConfigPath() string
}
