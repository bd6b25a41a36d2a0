// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/weekgrid/internal/board"
	"github.com/javiermolinar/weekgrid/internal/dateutil"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Grid     GridConfig     `toml:"grid"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ScheduleConfig selects the rows of the board and their shared time axis.
type ScheduleConfig struct {
	Days     []string `toml:"days"`      // e.g., ["monday", "tuesday", ...]
	DayStart string   `toml:"day_start"` // e.g., "08:00"
	DayEnd   string   `toml:"day_end"`   // e.g., "20:00"
}

// GridConfig tunes snapping, layout and drag feedback.
type GridConfig struct {
	SnapMinutes         int     `toml:"snap_minutes"`
	HeaderFraction      float64 `toml:"header_fraction"`
	DefaultEventMinutes int     `toml:"default_event_minutes"`
	MaxStaticTilt       float64 `toml:"max_static_tilt"`
	MaxInertialTilt     float64 `toml:"max_inertial_tilt"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
	File  string `toml:"file"`  // log sink; the TUI only logs to a file
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			Days:     []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
			DayStart: "08:00",
			DayEnd:   "20:00",
		},
		Grid: GridConfig{
			SnapMinutes:         10,
			HeaderFraction:      0.05,
			DefaultEventMinutes: 60,
			MaxStaticTilt:       board.DefaultMaxStaticTilt,
			MaxInertialTilt:     board.DefaultMaxTilt,
		},
		Storage: StorageConfig{
			DBPath: defaultDataPath("weekgrid.db"),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  defaultDataPath("weekgrid.log"),
		},
	}
}

// defaultDataPath returns a path under the user's data directory.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "share", "weekgrid", name)
}

// DefaultConfigPath returns the config file path, honoring WEEKGRID_CONFIG.
func DefaultConfigPath() string {
	if v := os.Getenv("WEEKGRID_CONFIG"); v != "" {
		return expandPath(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "weekgrid", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Logging.File = expandPath(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config. Unparsable
// numbers are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WEEKGRID_DAYS"); v != "" {
		cfg.Schedule.Days = strings.Split(v, ",")
	}
	if v := os.Getenv("WEEKGRID_DAY_START"); v != "" {
		cfg.Schedule.DayStart = v
	}
	if v := os.Getenv("WEEKGRID_DAY_END"); v != "" {
		cfg.Schedule.DayEnd = v
	}

	if v := os.Getenv("WEEKGRID_SNAP_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Grid.SnapMinutes = n
		}
	}
	if v := os.Getenv("WEEKGRID_DEFAULT_EVENT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Grid.DefaultEventMinutes = n
		}
	}

	if v := os.Getenv("WEEKGRID_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("WEEKGRID_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("WEEKGRID_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WEEKGRID_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	start, err := dateutil.ParseClock(c.Schedule.DayStart)
	if err != nil {
		return fmt.Errorf("day_start: %w", err)
	}
	end, err := dateutil.ParseClock(c.Schedule.DayEnd)
	if err != nil {
		return fmt.Errorf("day_end: %w", err)
	}
	if start >= end {
		return errors.New("day_start must be before day_end")
	}

	if len(c.Schedule.Days) == 0 {
		return errors.New("at least one day must be configured")
	}
	seen := make(map[time.Weekday]bool)
	for _, name := range c.Schedule.Days {
		d, err := dateutil.ParseWeekday(name)
		if err != nil {
			return fmt.Errorf("invalid day: %s", name)
		}
		if seen[d] {
			return fmt.Errorf("duplicate day: %s", name)
		}
		seen[d] = true
	}

	if c.Grid.SnapMinutes <= 0 {
		return errors.New("snap_minutes must be positive")
	}
	if c.Grid.DefaultEventMinutes < c.Grid.SnapMinutes {
		return errors.New("default_event_minutes must be at least snap_minutes")
	}
	if c.Grid.HeaderFraction < 0 || c.Grid.HeaderFraction >= 1 {
		return errors.New("header_fraction must be in [0, 1)")
	}
	if c.Grid.MaxStaticTilt < 0 || c.Grid.MaxInertialTilt < 0 {
		return errors.New("tilt limits cannot be negative")
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if c.Logging.Level == "" {
		return nil
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	return nil
}

// Board converts the schedule and grid sections into a board configuration.
func (c *Config) Board() (board.Config, error) {
	days, err := dateutil.ParseWeekdays(c.Schedule.Days)
	if err != nil {
		return board.Config{}, err
	}
	start, err := dateutil.ParseClock(c.Schedule.DayStart)
	if err != nil {
		return board.Config{}, err
	}
	end, err := dateutil.ParseClock(c.Schedule.DayEnd)
	if err != nil {
		return board.Config{}, err
	}

	return board.Config{
		Days:            days,
		DayStart:        start,
		DayEnd:          end,
		HeaderFraction:  c.Grid.HeaderFraction,
		SnapStep:        time.Duration(c.Grid.SnapMinutes) * time.Minute,
		DefaultDuration: time.Duration(c.Grid.DefaultEventMinutes) * time.Minute,
		MaxStaticTilt:   c.Grid.MaxStaticTilt,
		MaxTilt:         c.Grid.MaxInertialTilt,
	}, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
