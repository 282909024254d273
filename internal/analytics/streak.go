package analytics

import (
	"slices"
	"time"

	"github.com/julianstephens/habitgrid/internal/utils"
)

// StreakInfo holds current and longest streak values.
type StreakInfo struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

// Streaks computes both streak values for one habit.
func Streaks(dates []time.Time, today time.Time) StreakInfo {
	return StreakInfo{
		Current: CurrentStreak(dates, today),
		Longest: LongestStreak(dates),
	}
}

// CurrentStreak counts consecutive checked-in days ending at today.
// A habit not checked in today has a current streak of 0, even if
// yesterday was checked in.
func CurrentStreak(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	seen := daySet(dates)
	streak := 0
	for day := utils.DateOf(today); seen[day]; day = utils.AddDays(day, -1) {
		streak++
	}
	return streak
}

// LongestStreak returns the length of the longest run of consecutive days
// anywhere in the history. Order and duplicates in dates do not matter.
func LongestStreak(dates []time.Time) int {
	days := distinctDays(dates)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if utils.AddDays(days[i-1], 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

func daySet(dates []time.Time) map[time.Time]bool {
	set := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		set[utils.DateOf(d)] = true
	}
	return set
}

// distinctDays returns the calendar days in dates, deduplicated and sorted ascending.
func distinctDays(dates []time.Time) []time.Time {
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		days = append(days, utils.DateOf(d))
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	return slices.CompactFunc(days, func(a, b time.Time) bool { return a.Equal(b) })
}
