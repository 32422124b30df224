package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. LOCALCALENDAR_TIMEZONE.
const EnvPrefix = "LOCALCALENDAR"

const (
	defaultDatabase      = "localcalendar.db"
	defaultTimezone      = "Local"
	defaultAgendaRefresh = "*/5 * * * *"
)

type Config struct {
	// Database is the path of the SQLite file.
	Database string `yaml:"database" envconfig:"DATABASE"`

	// Timezone is the IANA name wall clocks are read and written in.
	// "Local" uses the zone of the machine.
	Timezone string `yaml:"timezone" envconfig:"TIMEZONE"`

	// Windowed loads only the events around the visible months.
	Windowed bool `yaml:"windowed" envconfig:"WINDOWED"`

	// Seed inserts a few demo events into an empty database.
	Seed bool `yaml:"seed" envconfig:"SEED"`

	// AgendaRefresh is the cron schedule used by "agenda --watch".
	AgendaRefresh string `yaml:"agenda_refresh" envconfig:"AGENDA_REFRESH"`

	Verbose bool `yaml:"verbose" envconfig:"VERBOSE"`
}

func Default() *Config {
	return &Config{
		Database:      defaultDatabase,
		Timezone:      defaultTimezone,
		AgendaRefresh: defaultAgendaRefresh,
	}
}

// Normalize fills in what a partial file left empty.
func (c *Config) Normalize() {
	if c.Database == "" {
		c.Database = defaultDatabase
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.AgendaRefresh == "" {
		c.AgendaRefresh = defaultAgendaRefresh
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads the YAML file at path and applies the environment overrides on
// top of it. A missing file is created with the defaults first.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
	case err != nil:
		return nil, err
	default:
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg to path through a temporary file so a crash never leaves a
// truncated config behind. The file is only readable by its owner.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".localcalendar-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
