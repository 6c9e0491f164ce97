package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/storage"
)

// Format formats an error message with a consistent "Error: " prefix,
// followed by a remediation hint for errors the user can fix.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\n       " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a one-line remediation for well-known errors, or "".
func Hint(err error) string {
	switch {
	case errors.Is(err, storage.ErrEmbeddedCredentials):
		return "Store the connection string in the OS keyring with 'habitlit keyring set' and use --store keyring."
	case errors.Is(err, keyring.ErrNotFound):
		return "No connection string stored yet. Run 'habitlit keyring set <connection-string>'."
	case errors.Is(err, keyring.ErrKeyringUnavailable):
		return "The OS keyring is not available on this system. Use a local SQLite store instead."
	case errors.Is(err, storage.ErrNotLoaded):
		return "Run 'habitlit init' to create the store."
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
