package analytics

import (
	"time"

	"github.com/julianstephens/habitgrid/internal/utils"
)

// Stats summarizes a single habit's completion history.
type Stats struct {
	TotalCompleted       int     `json:"total_completed"`
	CompletionPercentage float64 `json:"completion_percentage"`
	CurrentStreak        int     `json:"current_streak"`
	LongestStreak        int     `json:"longest_streak"`
}

// Valid reports whether the completion percentage lies in [0, 100].
// It holds whenever each habit has at most one check-in per day and no
// check-in is dated after today.
func (s Stats) Valid() bool {
	return s.CompletionPercentage >= 0 && s.CompletionPercentage <= 100
}

// ComputeStats derives completion statistics for a habit created at
// createdDay with check-ins on dates. The tracked span starts at the earlier
// of the creation day and the first check-in and ends at today, inclusive.
// createdDay must already be the creation date in the process timezone.
func ComputeStats(createdDay time.Time, dates []time.Time, today time.Time) Stats {
	total := len(dates)
	today = utils.DateOf(today)

	spanStart := utils.DateOf(createdDay)
	for _, d := range dates {
		if d := utils.DateOf(d); d.Before(spanStart) {
			spanStart = d
		}
	}

	percentage := 0.0
	if days := utils.DaysBetween(spanStart, today) + 1; days > 0 {
		percentage = float64(total) / float64(days) * 100
	}

	return Stats{
		TotalCompleted:       total,
		CompletionPercentage: percentage,
		CurrentStreak:        CurrentStreak(dates, today),
		LongestStreak:        LongestStreak(dates),
	}
}
