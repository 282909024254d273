package cli

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/julianstephens/habitgrid/internal/analytics"
	"github.com/julianstephens/habitgrid/internal/tui/components/heatmap"
)

type StatsCmd struct {
	HabitID string `arg:"" name:"habit-id" help:"Habit ID."`
	JSON    bool   `help:"Print machine-readable JSON."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	stats, err := ctx.Service.Stats(ctx.Context(), c.HabitID)
	if err != nil {
		return err
	}

	if c.JSON {
		return ctx.printJSON(stats)
	}

	ctx.printf("Total completed:  %d\n", stats.TotalCompleted)
	ctx.printf("Completion:       %.1f%%\n", stats.CompletionPercentage)
	ctx.printf("Current streak:   %d\n", stats.CurrentStreak)
	ctx.printf("Longest streak:   %d\n", stats.LongestStreak)
	return nil
}

type HeatmapCmd struct {
	From string `help:"First day, YYYY-MM-DD."`
	To   string `help:"Last day, YYYY-MM-DD."`
	Days int    `help:"Days ending today to show when --from and --to are omitted." default:"${heatmap_days}"`
	JSON bool   `help:"Print machine-readable JSON."`
}

func (c *HeatmapCmd) Validate() error {
	if c.Days < 1 || c.Days > analytics.MaxRangeDays {
		return fmt.Errorf("--days must be between 1 and %d", analytics.MaxRangeDays)
	}
	return nil
}

func (c *HeatmapCmd) Run(ctx *Context) error {
	from, to := c.From, c.To
	if from == "" && to == "" {
		from, to = ctx.Service.DefaultHeatmapRange(c.Days)
	}

	days, err := ctx.Service.Heatmap(ctx.Context(), from, to)
	if err != nil {
		return err
	}

	if c.JSON {
		return ctx.printJSON(days)
	}

	ctx.printf("%d check-ins from %s to %s\n\n", heatmap.Total(days), from, to)
	ctx.println(heatmap.Render(days))
	return nil
}

func (c *Context) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(data))
	return nil
}
