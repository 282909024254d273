package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/storage/postgres"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

type InitCmd struct {
	Force bool `help:"Delete all existing data before initializing."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		if s, ok := ctx.Store.(*sqlite.Store); ok {
			if err := removeSQLiteDatabase(s); err != nil {
				return err
			}
		}
	}

	if err := ctx.Store.Init(ctx.Context()); err != nil {
		return err
	}

	if c.Force {
		if s, ok := ctx.Store.(*postgres.Store); ok {
			if err := s.Truncate(ctx.Context()); err != nil {
				return fmt.Errorf("failed to clear existing data: %w", err)
			}
			ctx.println("Cleared existing habits and check-ins.")
		}
	}

	ctx.printf("Initialized habitgrid storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

func removeSQLiteDatabase(s *sqlite.Store) error {
	path := s.GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	// Close first so the file is not held open
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
	}
	return nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}

	count, err := m.Migrate(func(msg string) {
		ctx.println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.println("No migrations to apply. Database is up to date.")
	} else {
		ctx.printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
