// Package heatmap renders check-in density as a week-column grid, the
// terminal counterpart of the web calendar.
package heatmap

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitgrid/internal/analytics"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// glyphs are indexed by color intensity so the grid stays readable
// without color support.
var glyphs = [...]string{"·", "░", "▒", "█"}

var weekdayLabels = [7]string{"", "Mon", "", "Wed", "", "Fri", ""}

// Cell renders one day in its heatmap color.
func Cell(color string) string {
	level := analytics.Intensity(color)
	if level < 0 {
		level = 0
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(glyphs[level])
}

// Render lays days out in week columns with Sunday on top, followed by a
// blank line and a Less/More legend. Days must be ascending without gaps,
// as analytics.Heatmap returns them.
func Render(days []analytics.Day) string {
	if len(days) == 0 {
		return ""
	}

	first, err := utils.ParseDate(days[0].Date)
	if err != nil {
		return ""
	}
	offset := int(first.Weekday())
	weeks := (offset + len(days) + 6) / 7

	grid := make([][]string, 7)
	for row := range grid {
		grid[row] = make([]string, weeks)
		for col := range grid[row] {
			grid[row][col] = " "
		}
	}
	for i, d := range days {
		pos := offset + i
		grid[pos%7][pos/7] = Cell(d.Color)
	}

	var b strings.Builder
	for row := range grid {
		fmt.Fprintf(&b, "%-4s%s\n", weekdayLabels[row], strings.Join(grid[row], " "))
	}
	b.WriteString("\n" + Legend())
	return b.String()
}

// Legend shows the four color buckets from least to most check-ins.
func Legend() string {
	var b strings.Builder
	b.WriteString("    Less ")
	for _, color := range []string{analytics.ColorNone, analytics.ColorLight, analytics.ColorMedium, analytics.ColorDark} {
		b.WriteString(Cell(color))
		b.WriteString(" ")
	}
	b.WriteString("More")
	return b.String()
}

// Total sums the check-ins shown.
func Total(days []analytics.Day) int {
	total := 0
	for _, d := range days {
		total += d.Count
	}
	return total
}
