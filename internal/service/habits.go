package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitgrid/internal/analytics"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/metrics"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
	"github.com/julianstephens/habitgrid/internal/validation"
)

// HabitInput is the full set of writable habit fields.
type HabitInput struct {
	Name        string `json:"name" validate:"required,notblank,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

// HabitPatch carries the fields of a partial update. Nil fields are left
// unchanged.
type HabitPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (in *HabitInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Color = strings.TrimSpace(in.Color)
	if in.Color == "" {
		in.Color = constants.DefaultHabitColor
	}
}

// view attaches the derived streaks to a habit.
func (s *Service) view(ctx context.Context, h models.Habit) (models.HabitView, error) {
	done := observe("get_checkin_dates")
	raw, err := s.store.GetCheckInDates(ctx, h.ID)
	done(err)
	if err != nil {
		return models.HabitView{}, fmt.Errorf("failed to load check-ins for habit %s: %w", h.ID, err)
	}

	streaks := analytics.Streaks(parseDates(raw), s.Today())
	return models.HabitView{
		Habit:         h,
		CurrentStreak: streaks.Current,
		LongestStreak: streaks.Longest,
	}, nil
}

func (s *Service) ListHabits(ctx context.Context) ([]models.HabitView, error) {
	done := observe("get_all_habits")
	habits, err := s.store.GetAllHabits(ctx)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	views := make([]models.HabitView, 0, len(habits))
	for _, h := range habits {
		v, err := s.view(ctx, h)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *Service) GetHabit(ctx context.Context, id string) (models.HabitView, error) {
	done := observe("get_habit")
	h, err := s.store.GetHabit(ctx, id)
	done(err)
	if err != nil {
		return models.HabitView{}, err
	}
	return s.view(ctx, h)
}

func (s *Service) CreateHabit(ctx context.Context, in HabitInput) (models.HabitView, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return models.HabitView{}, err
	}

	h := models.Habit{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		CreatedAt:   s.now().In(s.loc),
	}

	done := observe("add_habit")
	err := s.store.AddHabit(ctx, h)
	done(err)
	if err != nil {
		return models.HabitView{}, err
	}

	metrics.HabitsCreated.Inc()
	logger.Debug("Habit created", "id", h.ID, "name", h.Name)
	return models.HabitView{Habit: h}, nil
}

// UpdateHabit replaces every writable field of a habit.
func (s *Service) UpdateHabit(ctx context.Context, id string, in HabitInput) (models.HabitView, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return models.HabitView{}, err
	}

	done := observe("get_habit")
	h, err := s.store.GetHabit(ctx, id)
	done(err)
	if err != nil {
		return models.HabitView{}, err
	}

	h.Name, h.Description, h.Color = in.Name, in.Description, in.Color
	return s.saveHabit(ctx, h)
}

// PatchHabit changes only the fields present in p.
func (s *Service) PatchHabit(ctx context.Context, id string, p HabitPatch) (models.HabitView, error) {
	done := observe("get_habit")
	h, err := s.store.GetHabit(ctx, id)
	done(err)
	if err != nil {
		return models.HabitView{}, err
	}

	in := HabitInput{Name: h.Name, Description: h.Description, Color: h.Color}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Color != nil {
		in.Color = *p.Color
	}

	in.normalize()
	if err := validation.Struct(in); err != nil {
		return models.HabitView{}, err
	}

	h.Name, h.Description, h.Color = in.Name, in.Description, in.Color
	return s.saveHabit(ctx, h)
}

func (s *Service) saveHabit(ctx context.Context, h models.Habit) (models.HabitView, error) {
	done := observe("update_habit")
	err := s.store.UpdateHabit(ctx, h)
	done(err)
	if err != nil {
		return models.HabitView{}, err
	}

	logger.Debug("Habit updated", "id", h.ID)
	return s.view(ctx, h)
}

// DeleteHabit removes a habit together with all of its check-ins.
func (s *Service) DeleteHabit(ctx context.Context, id string) error {
	done := observe("delete_habit")
	err := s.store.DeleteHabit(ctx, id)
	done(err)
	if err != nil {
		return err
	}

	metrics.HabitsDeleted.Inc()
	logger.Debug("Habit deleted", "id", id)
	return nil
}

// Stats computes completion statistics for one habit.
func (s *Service) Stats(ctx context.Context, habitID string) (analytics.Stats, error) {
	habitID = strings.TrimSpace(habitID)
	if habitID == "" {
		return analytics.Stats{}, fmt.Errorf("habit_id query param required: %w", errors.ErrMissingParameter)
	}

	done := observe("get_habit")
	h, err := s.store.GetHabit(ctx, habitID)
	done(err)
	if err != nil {
		return analytics.Stats{}, err
	}

	done = observe("get_checkin_dates")
	raw, err := s.store.GetCheckInDates(ctx, h.ID)
	done(err)
	if err != nil {
		return analytics.Stats{}, fmt.Errorf("failed to load check-ins for habit %s: %w", h.ID, err)
	}

	stats := analytics.ComputeStats(s.createdDay(h), parseDates(raw), s.Today())
	if !stats.Valid() {
		metrics.StatsOutOfRange.Inc()
		logger.Warn("Completion percentage out of range",
			"habit", h.ID,
			"percentage", stats.CompletionPercentage,
			"total", stats.TotalCompleted)
	}
	return stats, nil
}

// createdDay is the habit's creation date in the configured timezone.
func (s *Service) createdDay(h models.Habit) time.Time {
	return utils.LocalDateOf(h.CreatedAt, s.loc)
}
