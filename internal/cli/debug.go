package cli

import (
	"github.com/julianstephens/habitgrid/internal/models"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show the storage location."`
	DumpHabit    DebugDumpHabitCmd    `cmd:"" help:"Dump a habit as JSON."`
	DumpCheckins DebugDumpCheckinsCmd `cmd:"" name:"dump-checkins" help:"Dump check-ins as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return ctx.printJSON(map[string]string{
		"path":   ctx.Store.GetConfigPath(),
		"source": string(ctx.Source),
	})
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	h, err := ctx.Service.GetHabit(ctx.Context(), cmd.ID)
	if err != nil {
		return err
	}
	return ctx.printJSON(h)
}

type DebugDumpCheckinsCmd struct {
	Habit string `help:"Only dump check-ins of this habit ID."`
}

func (cmd *DebugDumpCheckinsCmd) Run(ctx *Context) error {
	checkIns, err := ctx.Service.ListCheckIns(ctx.Context(), models.CheckInFilter{HabitID: cmd.Habit})
	if err != nil {
		return err
	}
	return ctx.printJSON(checkIns)
}
