// Package migrations embeds the versioned SQL schema for each storage backend.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Sub returns the migration directory for a single backend.
func Sub(dir string) (fs.FS, error) {
	return fs.Sub(FS, dir)
}
