package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/logging"
)

// Environment variable names understood by Load.
const (
	EnvConfigFile      = "BOOKIT_CONFIG_FILE"
	EnvHTTPPort        = "BOOKIT_PORT"
	EnvSQLiteDSN       = "BOOKIT_DB_DSN"
	EnvTimeZone        = "BOOKIT_TIMEZONE"
	EnvExtraTimeBefore = "BOOKIT_EXTRA_TIME_BEFORE"
	EnvExtraTimeAfter  = "BOOKIT_EXTRA_TIME_AFTER"
	EnvStartStepWidth  = "BOOKIT_START_STEP_WIDTH"
	EnvShutdownTimeout = "BOOKIT_SHUTDOWN_TIMEOUT"
	EnvLogLevel        = "BOOKIT_LOG_LEVEL"
	EnvLogFormat       = "BOOKIT_LOG_FORMAT"
)

// Config captures the service configuration.
type Config struct {
	HTTPPort  int
	SQLiteDSN string
	// Location is the zone in which calendar days and displayed start times
	// are interpreted.
	Location *time.Location
	// Global padding applied to rooms without their own override.
	ExtraTimeBefore time.Duration
	ExtraTimeAfter  time.Duration
	// StartStepWidth is the grid on which free mode rooms offer start times.
	StartStepWidth  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
}

// fileConfig is the YAML document layout. Pointer fields distinguish absent
// keys from zero values.
type fileConfig struct {
	HTTPPort               *int    `yaml:"http_port"`
	SQLiteDSN              *string `yaml:"sqlite_dsn"`
	TimeZone               *string `yaml:"timezone"`
	ExtraTimeBeforeSeconds *int64  `yaml:"extra_time_before"`
	ExtraTimeAfterSeconds  *int64  `yaml:"extra_time_after"`
	StartStepWidthMinutes  *int64  `yaml:"start_step_width"`
	ShutdownTimeout        *string `yaml:"shutdown_timeout"`
	LogLevel               *string `yaml:"log_level"`
	LogFormat              *string `yaml:"log_format"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTPPort:        8080,
		SQLiteDSN:       "bookit.db",
		Location:        time.UTC,
		StartStepWidth:  15 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by BOOKIT_CONFIG_FILE and finally BOOKIT_* environment variables. Every
// invalid key is reported in a single error.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	invalid := cfg.applyEnv(os.Getenv)
	invalid = append(invalid, cfg.check()...)
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	var invalid []string
	if fc.HTTPPort != nil {
		c.HTTPPort = *fc.HTTPPort
	}
	if fc.SQLiteDSN != nil {
		c.SQLiteDSN = strings.TrimSpace(*fc.SQLiteDSN)
	}
	if fc.TimeZone != nil {
		loc, err := time.LoadLocation(strings.TrimSpace(*fc.TimeZone))
		if err != nil {
			invalid = append(invalid, "timezone")
		} else {
			c.Location = loc
		}
	}
	if fc.ExtraTimeBeforeSeconds != nil {
		c.ExtraTimeBefore = time.Duration(*fc.ExtraTimeBeforeSeconds) * time.Second
	}
	if fc.ExtraTimeAfterSeconds != nil {
		c.ExtraTimeAfter = time.Duration(*fc.ExtraTimeAfterSeconds) * time.Second
	}
	if fc.StartStepWidthMinutes != nil {
		c.StartStepWidth = time.Duration(*fc.StartStepWidthMinutes) * time.Minute
	}
	if fc.ShutdownTimeout != nil {
		d, err := time.ParseDuration(strings.TrimSpace(*fc.ShutdownTimeout))
		if err != nil {
			invalid = append(invalid, "shutdown_timeout")
		} else {
			c.ShutdownTimeout = d
		}
	}
	if fc.LogLevel != nil {
		c.LogLevel = strings.TrimSpace(*fc.LogLevel)
	}
	if fc.LogFormat != nil {
		c.LogFormat = strings.TrimSpace(*fc.LogFormat)
	}

	if len(invalid) > 0 {
		return fmt.Errorf("config file %s has invalid values: %s", path, strings.Join(invalid, ", "))
	}
	return nil
}

// applyEnv overrides fields from getenv and returns the names of variables
// that could not be parsed.
func (c *Config) applyEnv(getenv func(string) string) []string {
	var invalid []string
	lookup := func(key string) (string, bool) {
		v := strings.TrimSpace(getenv(key))
		return v, v != ""
	}

	if v, ok := lookup(EnvHTTPPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			invalid = append(invalid, EnvHTTPPort)
		} else {
			c.HTTPPort = port
		}
	}
	if v, ok := lookup(EnvSQLiteDSN); ok {
		c.SQLiteDSN = v
	}
	if v, ok := lookup(EnvTimeZone); ok {
		loc, err := time.LoadLocation(v)
		if err != nil {
			invalid = append(invalid, EnvTimeZone)
		} else {
			c.Location = loc
		}
	}
	for _, field := range []struct {
		key  string
		unit time.Duration
		dst  *time.Duration
	}{
		{EnvExtraTimeBefore, time.Second, &c.ExtraTimeBefore},
		{EnvExtraTimeAfter, time.Second, &c.ExtraTimeAfter},
		{EnvStartStepWidth, time.Minute, &c.StartStepWidth},
	} {
		v, ok := lookup(field.key)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			invalid = append(invalid, field.key)
			continue
		}
		*field.dst = time.Duration(n) * field.unit
	}
	if v, ok := lookup(EnvShutdownTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			invalid = append(invalid, EnvShutdownTimeout)
		} else {
			c.ShutdownTimeout = d
		}
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.LogFormat = v
	}
	return invalid
}

// check validates ranges after all sources were merged.
func (c *Config) check() []string {
	var invalid []string
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		invalid = append(invalid, EnvHTTPPort)
	}
	if c.SQLiteDSN == "" {
		invalid = append(invalid, EnvSQLiteDSN)
	}
	if c.ExtraTimeBefore < 0 {
		invalid = append(invalid, EnvExtraTimeBefore)
	}
	if c.ExtraTimeAfter < 0 {
		invalid = append(invalid, EnvExtraTimeAfter)
	}
	if c.StartStepWidth <= 0 {
		invalid = append(invalid, EnvStartStepWidth)
	}
	if c.ShutdownTimeout <= 0 {
		invalid = append(invalid, EnvShutdownTimeout)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		invalid = append(invalid, EnvLogLevel)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		invalid = append(invalid, EnvLogFormat)
	}
	return invalid
}
