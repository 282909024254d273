package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitgrid/internal/analytics"
	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/metrics"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
	"github.com/julianstephens/habitgrid/internal/validation"
)

// CheckInInput creates a check-in. An empty Date means today.
type CheckInInput struct {
	HabitID string `json:"habit" validate:"required,notblank"`
	Date    string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// annotate attaches the heatmap color of the check-in's day, counting
// check-ins across all habits.
func (s *Service) annotate(ctx context.Context, checkIns []models.CheckIn) ([]models.CheckInView, error) {
	counts := make(map[string]int)
	views := make([]models.CheckInView, 0, len(checkIns))
	for _, c := range checkIns {
		count, ok := counts[c.Date]
		if !ok {
			done := observe("count_checkins_for_date")
			var err error
			count, err = s.store.CountCheckInsForDate(ctx, c.Date)
			done(err)
			if err != nil {
				return nil, fmt.Errorf("failed to count check-ins on %s: %w", c.Date, err)
			}
			counts[c.Date] = count
		}
		views = append(views, models.CheckInView{CheckIn: c, Color: analytics.ColorFor(count)})
	}
	return views, nil
}

// ListCheckIns returns check-ins newest first, optionally for one habit.
func (s *Service) ListCheckIns(ctx context.Context, filter models.CheckInFilter) ([]models.CheckInView, error) {
	for _, d := range []string{filter.From, filter.To} {
		if d == "" {
			continue
		}
		if _, err := utils.ParseDate(d); err != nil {
			return nil, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", errors.ErrInvalidRange, d)
		}
	}

	done := observe("get_checkins")
	checkIns, err := s.store.GetCheckIns(ctx, filter)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return s.annotate(ctx, checkIns)
}

func (s *Service) GetCheckIn(ctx context.Context, id string) (models.CheckInView, error) {
	done := observe("get_checkin")
	c, err := s.store.GetCheckIn(ctx, id)
	done(err)
	if err != nil {
		return models.CheckInView{}, err
	}

	views, err := s.annotate(ctx, []models.CheckIn{c})
	if err != nil {
		return models.CheckInView{}, err
	}
	return views[0], nil
}

// CreateCheckIn records a completion. A second check-in for the same habit
// and day fails with ErrDuplicateCheckIn; an unknown habit fails with
// ErrValidation.
func (s *Service) CreateCheckIn(ctx context.Context, in CheckInInput) (models.CheckInView, error) {
	in.HabitID = strings.TrimSpace(in.HabitID)
	in.Date = strings.TrimSpace(in.Date)
	if err := validation.Struct(in); err != nil {
		return models.CheckInView{}, err
	}

	day := s.Today()
	if in.Date != "" {
		parsed, err := utils.ParseDate(in.Date)
		if err != nil {
			return models.CheckInView{}, fmt.Errorf("%w: date must be YYYY-MM-DD", errors.ErrValidation)
		}
		day = parsed
	}

	c := models.CheckIn{
		ID:        s.newID(),
		HabitID:   in.HabitID,
		Date:      utils.FormatDate(day),
		CreatedAt: s.now().In(s.loc),
	}

	done := observe("add_checkin")
	err := s.store.AddCheckIn(ctx, c)
	done(err)
	switch {
	case errors.Is(err, errors.ErrDuplicateCheckIn):
		metrics.CheckInConflicts.Inc()
		return models.CheckInView{}, fmt.Errorf("habit %s on %s: %w", c.HabitID, c.Date, errors.ErrDuplicateCheckIn)
	case errors.Is(err, errors.ErrNotFound):
		return models.CheckInView{}, fmt.Errorf("%w: habit %s does not exist", errors.ErrValidation, c.HabitID)
	case err != nil:
		return models.CheckInView{}, err
	}

	metrics.CheckInsCreated.Inc()
	logger.Debug("Check-in created", "id", c.ID, "habit", c.HabitID, "date", c.Date)

	views, err := s.annotate(ctx, []models.CheckIn{c})
	if err != nil {
		return models.CheckInView{}, err
	}
	return views[0], nil
}

func (s *Service) DeleteCheckIn(ctx context.Context, id string) error {
	done := observe("delete_checkin")
	err := s.store.DeleteCheckIn(ctx, id)
	done(err)
	if err != nil {
		return err
	}

	metrics.CheckInsDeleted.Inc()
	logger.Debug("Check-in deleted", "id", id)
	return nil
}

// Heatmap returns one cell per day of [from, to] with the cross-habit
// check-in count and its color.
func (s *Service) Heatmap(ctx context.Context, from, to string) ([]analytics.Day, error) {
	r, err := analytics.ParseRange(from, to)
	if err != nil {
		return nil, err
	}

	done := observe("count_checkins_by_date")
	counts, err := s.store.CountCheckInsByDate(ctx, utils.FormatDate(r.Start), utils.FormatDate(r.End))
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate check-ins: %w", err)
	}

	return analytics.Heatmap(r, analytics.MapLookup(counts)), nil
}

// DefaultHeatmapRange returns the trailing window ending today, used when
// a caller does not name one.
func (s *Service) DefaultHeatmapRange(days int) (from, to string) {
	today := s.Today()
	return utils.FormatDate(utils.AddDays(today, -(days - 1))), utils.FormatDate(today)
}

// Audit runs the integrity checks over all stored data.
func (s *Service) Audit(ctx context.Context) (validation.Report, error) {
	habits, err := s.store.GetAllHabits(ctx)
	if err != nil {
		return validation.Report{}, fmt.Errorf("failed to list habits: %w", err)
	}
	checkIns, err := s.store.GetCheckIns(ctx, models.CheckInFilter{})
	if err != nil {
		return validation.Report{}, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return validation.Audit(habits, checkIns, s.Today()), nil
}
