package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitgrid/internal/backup"
	"github.com/julianstephens/habitgrid/internal/config"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/service"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

// Globals are the flags shared by every command.
type Globals struct {
	Version kong.VersionFlag `help:"Print version and exit."`
	DB      string           `help:"SQLite file path or PostgreSQL connection string. Also read from HABITGRID_DB." placeholder:"DSN"`
	Config  string           `help:"YAML config file. Also read from HABITGRID_CONFIG." type:"path"`
	Debug   bool             `help:"Enable debug logging to stderr."`
}

type Context struct {
	Config  *config.Config
	Store   storage.Provider
	Service *service.Service
	Source  storage.Source
	Out     io.Writer
	Prompts PromptKit

	base context.Context
}

// Setup loads configuration, initializes logging and opens storage for
// the named command. The store is connected unless the command manages
// the connection itself.
func Setup(g Globals, command string) (*Context, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.DB != "" {
		cfg.Database.DSN = g.DB
	}

	logDir := cfg.Log.Dir
	if logDir != "" {
		if logDir, err = storage.ExpandPath(logDir); err != nil {
			return nil, err
		}
	}
	if err := logger.Init(logger.Config{
		Debug:  g.Debug,
		Dir:    logDir,
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Stderr: commandName(command) == "serve",
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dsn, source := storage.ResolveDSN(cfg.Database.DSN)
	store, err := storage.Open(dsn)
	if err != nil {
		return nil, err
	}
	logger.Debug("Storage selected", "backend", store.GetConfigPath(), "source", source)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	c := &Context{
		Config:  cfg,
		Store:   store,
		Service: service.New(store, service.WithLocation(loc)),
		Source:  source,
		Out:     os.Stdout,
		Prompts: NewPromptKit(),
		base:    context.Background(),
	}

	if needsLoad(command) {
		if err := store.Load(c.Context()); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// needsLoad reports whether a command expects an already loaded store.
// init creates it, keyring never touches it, doctor reports load failures
// itself and backup restore must work on a closed database.
func needsLoad(command string) bool {
	switch commandName(command) {
	case "init", "keyring", "doctor":
		return false
	}
	return !strings.HasPrefix(command, "backup restore")
}

func commandName(command string) string {
	if fields := strings.Fields(command); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// Context returns the base context for storage calls.
func (c *Context) Context() context.Context {
	if c.base == nil {
		return context.Background()
	}
	return c.base
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Close releases the store.
func (c *Context) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// sqliteStore returns the SQLite store, or an error naming the operation
// for other backends.
func (c *Context) sqliteStore(operation string) (*sqlite.Store, error) {
	s, ok := c.Store.(*sqlite.Store)
	if !ok {
		return nil, fmt.Errorf("%s is only supported for SQLite storage", operation)
	}
	return s, nil
}

// PerformAutomaticBackup snapshots a SQLite database before destructive
// commands. Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	s, ok := c.Store.(*sqlite.Store)
	if !ok {
		return
	}
	if _, err := backup.NewManager(s.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
