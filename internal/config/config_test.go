package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitgrid/internal/constants"
)

// isolate points HOME at an empty directory so a developer's own config
// file cannot leak into the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(PathEnvVar, "")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != constants.DefaultListenAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, constants.DefaultListenAddr)
	}
	if cfg.Server.ReadTimeout != constants.DefaultReadTimeout {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, constants.DefaultReadTimeout)
	}
	if !cfg.Server.RateLimitEnabled || cfg.Server.RateLimitRequests != constants.DefaultRateLimitReqs {
		t.Errorf("rate limit defaults wrong: %+v", cfg.Server)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 defaults", cfg.Server.CORSOrigins)
	}
	if cfg.Database.DSN != "" {
		t.Errorf("Database.DSN = %q, want empty", cfg.Database.DSN)
	}
	if cfg.Timezone != constants.DefaultTimezone {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, constants.DefaultTimezone)
	}
	if cfg.Log.Level != constants.DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, constants.DefaultLogLevel)
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
server:
  addr: "0.0.0.0:9000"
  read_timeout: 3s
  cors_origins:
    - https://habits.example.com
  rate_limit_enabled: false
database:
  dsn: /data/habits.db
timezone: UTC
log:
  level: debug
  json: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 3s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != constants.DefaultWriteTimeout {
		t.Errorf("unset key lost its default: WriteTimeout = %v", cfg.Server.WriteTimeout)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://habits.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Server.RateLimitEnabled {
		t.Error("RateLimitEnabled should be false")
	}
	if cfg.Database.DSN != "/data/habits.db" {
		t.Errorf("Database.DSN = %q", cfg.Database.DSN)
	}
	if cfg.Timezone != "UTC" || cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
server:
  addr: "0.0.0.0:9000"
database:
  dsn: /data/habits.db
`)
	t.Setenv("HABITGRID_DB", "/tmp/override.db")
	t.Setenv("HABITGRID_SERVER_ADDR", "127.0.0.1:7000")
	t.Setenv("HABITGRID_CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("HABITGRID_SERVER_RATE_LIMIT_WINDOW", "30s")
	t.Setenv("HABITGRID_UNKNOWN_SETTING", "ignored")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.DSN != "/tmp/override.db" {
		t.Errorf("Database.DSN = %q, want env override", cfg.Database.DSN)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Errorf("Server.Addr = %q, want env override", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Server.RateLimitWindow != 30*time.Second {
		t.Errorf("RateLimitWindow = %v, want 30s", cfg.Server.RateLimitWindow)
	}
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "timezone: UTC\n")
	t.Setenv(PathEnvVar, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", cfg.Timezone)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty addr", func(c *Config) { c.Server.Addr = " " }, "server.addr"},
		{"zero timeout", func(c *Config) { c.Server.IdleTimeout = 0 }, "server.idle_timeout"},
		{"rate limit requests", func(c *Config) { c.Server.RateLimitRequests = 0 }, "rate_limit_requests"},
		{"rate limit disabled", func(c *Config) {
			c.Server.RateLimitEnabled = false
			c.Server.RateLimitRequests = 0
		}, ""},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"HABITGRID_DB":                        "database.dsn",
		"HABITGRID_LOG_LEVEL":                 "log.level",
		"HABITGRID_SERVER_RATE_LIMIT_ENABLED": "server.rate_limit_enabled",
		"HABITGRID_SOMETHING_ELSE":            "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
