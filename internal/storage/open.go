package storage

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/utils"
)

// New selects a backend from target: a PostgreSQL URL, "memory", a path
// ending in .json, or (by default) a SQLite database path.
func New(target string) (Provider, error) {
	switch {
	case IsPostgresConnString(target):
		return NewPostgresStore(target), nil
	case target == constants.StoreMemory:
		return NewMemoryStore(), nil
	}

	path, err := utils.ExpandPath(target)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("store path cannot be empty")
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return NewJSONStore(path), nil
	}
	return NewSQLiteStore(path), nil
}
