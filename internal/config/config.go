// Package config loads habitgrid settings from built-in defaults, an
// optional YAML file and HABITGRID_* environment variables, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// PathEnvVar names the environment variable pointing at a config file.
const PathEnvVar = constants.EnvPrefix + "CONFIG"

// DefaultPath is consulted when no file is named explicitly.
const DefaultPath = "~/.config/habitgrid/config.yaml"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	// Timezone defines "today" for streaks and stats, e.g. "Europe/Berlin".
	Timezone string `koanf:"timezone"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitEnabled  bool          `koanf:"rate_limit_enabled"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

type DatabaseConfig struct {
	// DSN is a SQLite file path or a PostgreSQL connection string.
	// Empty falls back to the OS keyring, then the default SQLite path.
	DSN string `koanf:"dsn"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	Dir   string `koanf:"dir"`
	JSON  bool   `koanf:"json"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              constants.DefaultListenAddr,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ShutdownTimeout:   constants.DefaultShutdownTimeout,
			CORSOrigins:       []string{"http://localhost:5173", "http://127.0.0.1:5173"},
			RateLimitEnabled:  true,
			RateLimitRequests: constants.DefaultRateLimitReqs,
			RateLimitWindow:   constants.DefaultRateLimitWindow,
		},
		Timezone: constants.DefaultTimezone,
		Log: LogConfig{
			Level: constants.DefaultLogLevel,
		},
	}
}

// Load builds the configuration. path names a YAML file that must exist;
// when empty, $HABITGRID_CONFIG and then DefaultPath are tried and skipped
// if absent.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(constants.EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		path, err := expandHome(explicit)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return path, nil
	}

	for _, candidate := range []string{os.Getenv(PathEnvVar), DefaultPath} {
		if candidate == "" {
			continue
		}
		path, err := expandHome(candidate)
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// envMappings maps HABITGRID_* suffixes, lowercased, onto config paths.
var envMappings = map[string]string{
	"db":                         "database.dsn",
	"database_dsn":               "database.dsn",
	"timezone":                   "timezone",
	"tz":                         "timezone",
	"log_level":                  "log.level",
	"log_dir":                    "log.dir",
	"log_json":                   "log.json",
	"addr":                       "server.addr",
	"server_addr":                "server.addr",
	"server_read_timeout":        "server.read_timeout",
	"server_write_timeout":       "server.write_timeout",
	"server_idle_timeout":        "server.idle_timeout",
	"server_shutdown_timeout":    "server.shutdown_timeout",
	"server_cors_origins":        "server.cors_origins",
	"cors_origins":               "server.cors_origins",
	"server_rate_limit_enabled":  "server.rate_limit_enabled",
	"server_rate_limit_requests": "server.rate_limit_requests",
	"server_rate_limit_window":   "server.rate_limit_window",
}

// envTransformFunc maps HABITGRID_LOG_LEVEL to log.level. Unknown
// variables are dropped so they cannot shadow real settings.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, constants.EnvPrefix))
	return envMappings[key]
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		var parts []string
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	for name, d := range map[string]time.Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if c.Server.RateLimitEnabled {
		if c.Server.RateLimitRequests <= 0 {
			errs = append(errs, fmt.Errorf("server.rate_limit_requests must be positive, got %d", c.Server.RateLimitRequests))
		}
		if c.Server.RateLimitWindow <= 0 {
			errs = append(errs, fmt.Errorf("server.rate_limit_window must be positive, got %s", c.Server.RateLimitWindow))
		}
	}
	if !utils.ValidateTimezone(c.Timezone) {
		errs = append(errs, fmt.Errorf("timezone %q is not a valid IANA time zone", c.Timezone))
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}
