package main

import (
	stderrors "errors"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/errors"
)

type CLI struct {
	cli.Globals

	Serve    cli.ServeCmd    `cmd:"" help:"Start the HTTP API server."`
	Init     cli.InitCmd     `cmd:"" help:"Initialize habitgrid storage."`
	Migrate  cli.MigrateCmd  `cmd:"" help:"Apply pending database migrations."`
	Habit    cli.HabitCmd    `cmd:"" help:"Manage habits."`
	Checkin  cli.CheckinCmd  `cmd:"" help:"Manage check-ins."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show completion stats for a habit."`
	Heatmap  cli.HeatmapCmd  `cmd:"" help:"Render the check-in heatmap."`
	Tui      cli.TuiCmd      `cmd:"" help:"Open the interactive dashboard."`
	Backup   cli.BackupCmd   `cmd:"" help:"Manage SQLite database backups."`
	Keyring  cli.KeyringCmd  `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored data for integrity problems."`
	Debug    cli.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
}

func newParser(app *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name(constants.AppName),
		kong.Description("GitHub-style habit tracker with streaks and a contribution heatmap"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":      constants.Version,
			"heatmap_days": strconv.Itoa(constants.DefaultHeatmapDays),
		},
	}, options...)
	return kong.New(app, options...)
}

// run parses args and executes the selected command, writing command
// output to stdout.
func run(args []string, stdout io.Writer, options ...kong.Option) error {
	var app CLI
	parser, err := newParser(&app, options...)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		var parseErr *kong.ParseError
		if stderrors.As(err, &parseErr) && parseErr.Context != nil {
			_ = parseErr.Context.PrintUsage(true)
		}
		return err
	}

	appCtx, err := cli.Setup(app.Globals, kctx.Command())
	if err != nil {
		return err
	}
	defer appCtx.Close()
	appCtx.Out = stdout

	return kctx.Run(appCtx)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		errors.Fatal(err)
	}
}
