package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/keyring"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/storage/postgres"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

// Migrator is implemented by providers backed by versioned SQL schemas.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}

// Source names where a DSN came from, for diagnostics.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceKeyring Source = "keyring"
	SourceDefault Source = "default"
)

// ResolveDSN returns dsn when set. Otherwise it falls back to a connection
// string stored in the OS keyring and finally to the default SQLite path.
func ResolveDSN(dsn string) (string, Source) {
	if strings.TrimSpace(dsn) != "" {
		return dsn, SourceFlag
	}

	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		return connStr, SourceKeyring
	case !errors.Is(err, keyring.ErrNotFound):
		logger.Debug("Keyring lookup failed", "error", err)
	}

	return constants.DefaultConfigPath, SourceDefault
}

// Open returns the provider for dsn without connecting. PostgreSQL URLs and
// key=value strings select the PostgreSQL backend, anything else is treated
// as a SQLite file path.
func Open(dsn string) (Provider, error) {
	if postgres.IsConnString(dsn) {
		if err := postgres.ValidateConnString(dsn); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, err
			}
			logger.Warn("Connection string contains a password; prefer PGPASSWORD, .pgpass or 'habitgrid keyring set'")
		}
		return postgres.New(dsn), nil
	}

	path, err := ExpandPath(dsn)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
