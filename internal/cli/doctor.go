package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitgrid/internal/backup"
	"github.com/julianstephens/habitgrid/internal/storage"
)

type DoctorCmd struct{}

// check is one diagnostic. Warnings are reported but never fail the run.
type check struct {
	name    string
	warning bool
	run     func(*Context) error
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.printf("Storage: %s (from %s)\n\n", ctx.Store.GetConfigPath(), ctx.Source)

	hasError := false
	reachable := false

	if err := checkStorageReachable(ctx); err != nil {
		ctx.println("❌ Storage reachable: FAIL")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.println("✓ Storage reachable: OK")
		reachable = true
	}

	checks := []check{
		{name: "Schema version", run: checkSchemaVersion},
		{name: "Backups present", warning: true, run: checkBackupsPresent},
		{name: "Data integrity", run: checkIntegrity},
	}
	for _, chk := range checks {
		if !reachable {
			ctx.printf("⊘ %s: SKIPPED (storage not reachable)\n", chk.name)
			continue
		}
		err := chk.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", chk.name)
		case chk.warning:
			ctx.printf("⚠ %s: WARNING\n", chk.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", chk.name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
		}
	}

	if err := checkClockTimezone(ctx); err != nil {
		ctx.println("❌ Clock/timezone: FAIL")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.println("✓ Clock/timezone: OK")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	if err := ctx.Store.Load(ctx.Context()); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if err := ctx.Store.Ping(ctx.Context()); err != nil {
		return fmt.Errorf("failed to ping storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}

	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d; run 'habitgrid migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	s, err := ctx.sqliteStore("backup")
	if err != nil {
		return nil
	}

	backups, err := backup.NewManager(s.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'habitgrid backup create'")
	}
	return nil
}

func checkIntegrity(ctx *Context) error {
	report, err := ctx.Service.Audit(ctx.Context())
	if err != nil {
		return err
	}
	if report.HasConflicts() {
		return fmt.Errorf("%d problem(s) found; run 'habitgrid validate' for details", len(report.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	if _, err := ctx.Config.Location(); err != nil {
		return fmt.Errorf("timezone %q cannot be loaded: %w", ctx.Config.Timezone, err)
	}
	ctx.printf("   Today is %s in %s\n", ctx.Service.Today().Format("2006-01-02"), ctx.Service.Location())
	return nil
}
