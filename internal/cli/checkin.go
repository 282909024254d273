package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/habitgrid/internal/analytics"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/service"
)

type CheckinCmd struct {
	Add    CheckinAddCmd    `cmd:"" help:"Record a completed habit for a day."`
	List   CheckinListCmd   `cmd:"" help:"List check-ins, newest first."`
	Delete CheckinDeleteCmd `cmd:"" help:"Delete a check-in."`
}

type CheckinAddCmd struct {
	HabitID string `arg:"" name:"habit-id" help:"Habit ID."`
	Date    string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *CheckinAddCmd) Run(ctx *Context) error {
	v, err := ctx.Service.CreateCheckIn(ctx.Context(), service.CheckInInput{HabitID: c.HabitID, Date: c.Date})
	if err != nil {
		return err
	}

	ctx.printf("Checked in %s on %s (ID: %s)\n", v.HabitID, v.Date, v.ID)
	return nil
}

type CheckinListCmd struct {
	Habit string `help:"Only list check-ins of this habit ID."`
	From  string `help:"Earliest date, YYYY-MM-DD."`
	To    string `help:"Latest date, YYYY-MM-DD."`
}

func (c *CheckinListCmd) Run(ctx *Context) error {
	checkIns, err := ctx.Service.ListCheckIns(ctx.Context(), models.CheckInFilter{
		HabitID: c.Habit,
		From:    c.From,
		To:      c.To,
	})
	if err != nil {
		return err
	}

	if len(checkIns) == 0 {
		ctx.println("No check-ins found.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "HABIT", "DATE", "INTENSITY").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, v := range checkIns {
		cell := lipgloss.NewStyle().Foreground(lipgloss.Color(v.Color)).Render("■")
		t.Row(v.ID, v.HabitID, v.Date, cell+" "+strconv.Itoa(analytics.Intensity(v.Color)))
	}
	ctx.println(t.String())
	return nil
}

type CheckinDeleteCmd struct {
	ID string `arg:"" help:"Check-in ID."`
}

func (c *CheckinDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Service.DeleteCheckIn(ctx.Context(), c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted check-in: %s\n", c.ID)
	return nil
}
