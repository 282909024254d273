package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// ConflictType classifies an integrity problem found in stored data.
type ConflictType string

const (
	ConflictOrphanCheckIn      ConflictType = "orphan_checkin"
	ConflictDuplicateCheckIn   ConflictType = "duplicate_checkin"
	ConflictInvalidDate        ConflictType = "invalid_date"
	ConflictFutureCheckIn      ConflictType = "future_checkin"
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
)

// Conflict is one integrity problem. Duplicate habit names are
// reported but never break stats.
type Conflict struct {
	Type        ConflictType
	Description string
	IDs         []string
}

// Report holds every conflict found by Audit.
type Report struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (r *Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (r *Report) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Audit checks habits and check-ins for problems the storage layer should
// have prevented, such as imported data or a restored foreign backup.
// today bounds check-in dates.
func Audit(habits []models.Habit, checkIns []models.CheckIn, today time.Time) Report {
	report := Report{Conflicts: []Conflict{}}

	byName := make(map[string][]string)
	known := make(map[string]bool, len(habits))
	for _, h := range habits {
		known[h.ID] = true
		key := strings.ToLower(strings.TrimSpace(h.Name))
		byName[key] = append(byName[key], h.ID)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := byName[name]; len(ids) > 1 {
			report.Conflicts = append(report.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name %q (IDs: %s)", name, strings.Join(ids, ", ")),
				IDs:         ids,
			})
		}
	}

	today = utils.DateOf(today)
	seen := make(map[string]string)
	for _, c := range checkIns {
		if !known[c.HabitID] {
			report.Conflicts = append(report.Conflicts, Conflict{
				Type:        ConflictOrphanCheckIn,
				Description: fmt.Sprintf("Check-in %s references missing habit %s", c.ID, c.HabitID),
				IDs:         []string{c.ID},
			})
		}

		day, err := utils.ParseDate(c.Date)
		if err != nil {
			report.Conflicts = append(report.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Check-in %s has invalid date %q", c.ID, c.Date),
				IDs:         []string{c.ID},
			})
			continue
		}
		if day.After(today) {
			report.Conflicts = append(report.Conflicts, Conflict{
				Type:        ConflictFutureCheckIn,
				Description: fmt.Sprintf("Check-in %s is dated in the future (%s)", c.ID, c.Date),
				IDs:         []string{c.ID},
			})
		}

		key := c.HabitID + "|" + utils.FormatDate(day)
		if first, ok := seen[key]; ok {
			report.Conflicts = append(report.Conflicts, Conflict{
				Type:        ConflictDuplicateCheckIn,
				Description: fmt.Sprintf("Habit %s has more than one check-in on %s", c.HabitID, c.Date),
				IDs:         []string{first, c.ID},
			})
			continue
		}
		seen[key] = c.ID
	}

	return report
}
