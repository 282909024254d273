package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/service"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits with their streaks."`
	Show   HabitShowCmd   `cmd:"" help:"Show one habit and its stats."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and all of its check-ins."`
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name. Opens a form when omitted."`
	Description string `short:"d" help:"Habit description."`
	Color       string `short:"c" help:"Label color as hex, e.g. #4ade80."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	in := service.HabitInput{Name: c.Name, Description: c.Description, Color: c.Color}
	if in.Name == "" {
		if ctx.Prompts.HabitForm == nil {
			return errors.New("habit name is required")
		}
		if err := ctx.Prompts.HabitForm("New habit", &in); err != nil {
			return err
		}
	}

	h, err := ctx.Service.CreateHabit(ctx.Context(), in)
	if err != nil {
		return err
	}

	ctx.printf("Added habit: %s (ID: %s)\n", h.Name, h.ID)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Service.ListHabits(ctx.Context())
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		ctx.println("No habits found.")
		return nil
	}

	ctx.println(habitTable(habits))
	return nil
}

func habitTable(habits []models.HabitView) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "COLOR", "CURRENT", "LONGEST").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, h := range habits {
		t.Row(h.ID, h.Name, h.Color, strconv.Itoa(h.CurrentStreak), strconv.Itoa(h.LongestStreak))
	}
	return t.String()
}

type HabitShowCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	h, err := ctx.Service.GetHabit(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	stats, err := ctx.Service.Stats(ctx.Context(), c.ID)
	if err != nil {
		return err
	}

	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color)).Render("●")
	ctx.printf("%s %s\n", swatch, h.Name)
	ctx.printf("  ID:          %s\n", h.ID)
	if h.Description != "" {
		ctx.printf("  Description: %s\n", h.Description)
	}
	ctx.printf("  Created:     %s\n", h.CreatedAt.In(ctx.Service.Location()).Format("2006-01-02 15:04"))
	ctx.printf("  Completed:   %d days (%.1f%%)\n", stats.TotalCompleted, stats.CompletionPercentage)
	ctx.printf("  Streak:      %d current, %d longest\n", stats.CurrentStreak, stats.LongestStreak)
	return nil
}

// HabitEditCmd changes the given fields, or opens a prefilled form when
// no field flag is set.
type HabitEditCmd struct {
	ID          string `arg:"" help:"Habit ID."`
	Name        string `short:"n" help:"New name."`
	Description string `short:"d" help:"New description."`
	Color       string `short:"c" help:"New label color."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	var (
		h   models.HabitView
		err error
	)

	if c.Name == "" && c.Description == "" && c.Color == "" {
		current, err := ctx.Service.GetHabit(ctx.Context(), c.ID)
		if err != nil {
			return err
		}
		if ctx.Prompts.HabitForm == nil {
			return errors.New("nothing to change; pass --name, --description or --color")
		}
		in := service.HabitInput{Name: current.Name, Description: current.Description, Color: current.Color}
		if err := ctx.Prompts.HabitForm("Edit habit", &in); err != nil {
			return err
		}
		h, err = ctx.Service.UpdateHabit(ctx.Context(), c.ID, in)
		if err != nil {
			return err
		}
	} else {
		h, err = ctx.Service.PatchHabit(ctx.Context(), c.ID, service.HabitPatch{
			Name:        optional(c.Name),
			Description: optional(c.Description),
			Color:       optional(c.Color),
		})
		if err != nil {
			return err
		}
	}

	ctx.printf("Updated habit: %s (ID: %s)\n", h.Name, h.ID)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type HabitDeleteCmd struct {
	ID  string `arg:"" help:"Habit ID."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	h, err := ctx.Service.GetHabit(ctx.Context(), c.ID)
	if err != nil {
		return err
	}

	ok, err := ctx.confirm(c.Yes, fmt.Sprintf("Delete %q and all of its check-ins?", h.Name))
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Deletion cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Service.DeleteHabit(ctx.Context(), c.ID); err != nil {
		return err
	}

	ctx.printf("Deleted habit: %s\n", h.Name)
	return nil
}
