package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// MaxRangeDays bounds a single heatmap request (roughly ten years).
const MaxRangeDays = 3660

// DateRange is an inclusive span of calendar days with Start <= End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days covered by the range.
func (r DateRange) Days() int {
	return utils.DaysBetween(r.Start, r.End) + 1
}

// Day is one cell of the heatmap.
type Day struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// CountLookup returns the number of check-ins across all habits on a day.
type CountLookup func(day time.Time) int

// ParseRange validates the from/to query values of a heatmap request.
// A missing value fails with ErrMissingParameter (which also matches
// ErrInvalidRange); an unparsable or inverted range fails with ErrInvalidRange.
func ParseRange(from, to string) (DateRange, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return DateRange{}, fmt.Errorf("%w: from and to query params required: %w", errors.ErrInvalidRange, errors.ErrMissingParameter)
	}

	start, err := utils.ParseDate(from)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: from %q is not a YYYY-MM-DD date", errors.ErrInvalidRange, from)
	}
	end, err := utils.ParseDate(to)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: to %q is not a YYYY-MM-DD date", errors.ErrInvalidRange, to)
	}

	return NewRange(start, end)
}

// NewRange builds a range from two calendar days.
func NewRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: utils.DateOf(start), End: utils.DateOf(end)}
	if r.End.Before(r.Start) {
		return DateRange{}, fmt.Errorf("%w: to must be after from", errors.ErrInvalidRange)
	}
	if r.Days() > MaxRangeDays {
		return DateRange{}, fmt.Errorf("%w: range spans %d days, at most %d allowed", errors.ErrInvalidRange, r.Days(), MaxRangeDays)
	}
	return r, nil
}

// Heatmap produces one entry per day of r, ascending and without gaps.
// Days without check-ins are included with a zero count.
func Heatmap(r DateRange, lookup CountLookup) []Day {
	days := make([]Day, 0, r.Days())
	for day := r.Start; !day.After(r.End); day = utils.AddDays(day, 1) {
		count := 0
		if lookup != nil {
			count = lookup(day)
		}
		days = append(days, Day{
			Date:  utils.FormatDate(day),
			Count: count,
			Color: ColorFor(count),
		})
	}
	return days
}

// MapLookup adapts per-date counts keyed by YYYY-MM-DD into a CountLookup.
func MapLookup(counts map[string]int) CountLookup {
	return func(day time.Time) int {
		return counts[utils.FormatDate(day)]
	}
}
