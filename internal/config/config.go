// Package config loads the optional habitlit config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/utils"
)

var getConnectionString = keyring.GetConnectionString

type Config struct {
	// Store is a SQLite path, a .json path, a PostgreSQL URL without a
	// password, "memory", or "keyring".
	Store    string `yaml:"store"`
	Timezone string `yaml:"timezone"`
	Debug    bool   `yaml:"debug"`
	// TrayDir overrides where the tray lockfile is looked up.
	TrayDir string `yaml:"tray_dir,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Store:    constants.DefaultStorePath,
		Timezone: constants.DefaultTimezone,
	}
}

// Load reads the config file at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", expanded, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", expanded, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating its directory.
func (c *Config) Save(path string) error {
	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(expanded, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Override applies command-line values. Empty strings and false leave the
// file values in place.
func (c *Config) Override(store, timezone string, debug bool) {
	if store != "" {
		c.Store = store
	}
	if timezone != "" {
		c.Timezone = timezone
	}
	if debug {
		c.Debug = true
	}
}

func (c *Config) Validate() error {
	if c.Timezone != "" && !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	if storage.IsPostgresConnString(c.Store) {
		if err := storage.ValidateConnString(c.Store); err != nil {
			return err
		}
	}
	return nil
}

// Location returns the timezone "today" is computed in.
func (c *Config) Location() (*time.Location, error) {
	tz := c.Timezone
	if tz == "" {
		tz = constants.DefaultTimezone
	}
	return utils.LoadLocation(tz)
}

// ResolveStore returns the storage target to open. "keyring" is replaced by
// the connection string kept in the OS keyring; other PostgreSQL targets must
// not carry a password.
func (c *Config) ResolveStore() (string, error) {
	switch {
	case c.Store == constants.StoreKeyring:
		connStr, err := getConnectionString()
		if err != nil {
			return "", err
		}
		return connStr, nil
	case storage.IsPostgresConnString(c.Store):
		if err := storage.ValidateConnString(c.Store); err != nil {
			return "", err
		}
	}
	return c.Store, nil
}

// ConfigDir returns the directory that holds logs and the config file.
func ConfigDir() (string, error) {
	return utils.ExpandPath(constants.DefaultConfigDir)
}
