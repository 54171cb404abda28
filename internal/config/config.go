// Package config loads ~/.hotpot/config.toml.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	BackendKeyring = "keyring"
	BackendFile    = "file"

	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"

	DefaultTickInterval   = 250 * time.Millisecond
	DefaultCopiedDuration = 2 * time.Second
	DefaultStatusDuration = 4 * time.Second

	defaultLogMaxSizeMB  = 5
	defaultLogMaxBackups = 2
)

// Config mirrors config.toml.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Log       LogConfig       `toml:"log"`
}

// StorageConfig represents the [storage] section
type StorageConfig struct {
	Backend string `toml:"backend"` // "keyring" or "file"
	File    string `toml:"file"`    // used by the file backend
}

// DashboardConfig represents the [dashboard] section. Durations use Go syntax ("250ms").
type DashboardConfig struct {
	TickInterval   string `toml:"tick_interval"`
	CopiedDuration string `toml:"copied_duration"`
	StatusDuration string `toml:"status_duration"`
	Theme          string `toml:"theme"` // "dark", "light", or "auto"
}

// LogConfig represents the [log] section. An empty file disables logging.
type LogConfig struct {
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	Debug      bool   `toml:"debug"`
}

// Dir is ~/.hotpot.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hotpot"
	}
	return filepath.Join(home, ".hotpot")
}

func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendKeyring,
			File:    filepath.Join(Dir(), "accounts.json"),
		},
		Dashboard: DashboardConfig{
			TickInterval:   DefaultTickInterval.String(),
			CopiedDuration: DefaultCopiedDuration.String(),
			StatusDuration: DefaultStatusDuration.String(),
			Theme:          ThemeAuto,
		},
		Log: LogConfig{
			File:       filepath.Join(Dir(), "hotpot.log"),
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// invalid values are replaced by their defaults. Only unreadable or
// unparsable files are errors.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.validate()
	return cfg, nil
}

func (c *Config) validate() {
	def := Default()

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendKeyring, BackendFile:
		// Valid
	default:
		log.Printf("[CONFIG] unknown storage backend %q, using %s", c.Storage.Backend, def.Storage.Backend)
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Storage.File == "" {
		c.Storage.File = def.Storage.File
	}
	c.Storage.File = ExpandHome(c.Storage.File)

	c.Dashboard.TickInterval = validDuration(c.Dashboard.TickInterval, DefaultTickInterval, 10*time.Millisecond, time.Second)
	c.Dashboard.CopiedDuration = validDuration(c.Dashboard.CopiedDuration, DefaultCopiedDuration, 0, time.Minute)
	c.Dashboard.StatusDuration = validDuration(c.Dashboard.StatusDuration, DefaultStatusDuration, 0, time.Minute)

	c.Dashboard.Theme = strings.ToLower(strings.TrimSpace(c.Dashboard.Theme))
	switch c.Dashboard.Theme {
	case ThemeDark, ThemeLight, ThemeAuto:
		// Valid
	default:
		c.Dashboard.Theme = ThemeAuto
	}

	c.Log.File = ExpandHome(c.Log.File)
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Log.MaxBackups < 0 {
		c.Log.MaxBackups = defaultLogMaxBackups
	}
}

func validDuration(s string, def, minimum, maximum time.Duration) string {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d < minimum || d > maximum {
		return def.String()
	}
	return d.String()
}

func mustDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func (d DashboardConfig) Tick() time.Duration {
	return mustDuration(d.TickInterval, DefaultTickInterval)
}

func (d DashboardConfig) Copied() time.Duration {
	return mustDuration(d.CopiedDuration, DefaultCopiedDuration)
}

func (d DashboardConfig) Status() time.Duration {
	return mustDuration(d.StatusDuration, DefaultStatusDuration)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
