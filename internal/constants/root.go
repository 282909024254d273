package constants

import "time"

const (
	AppName            = "habitgrid"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitgrid/habitgrid.db"
	Version            = "v0.1.0"

	// EnvPrefix prefixes every environment variable the application reads
	EnvPrefix = "HABITGRID_"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitgrid-"
	BackupFileSuffix = ".db"

	// Server defaults
	DefaultListenAddr      = "127.0.0.1:8000"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateLimitReqs   = 300
	DefaultRateLimitWindow = time.Minute

	// Habit defaults
	DefaultHabitColor  = "#4ade80"
	MaxHabitNameLength = 120
	DefaultTimezone    = "Local"
	DefaultLogLevel    = "info"
	DefaultHeatmapDays = 91
)
