package storage

import (
	"context"

	"github.com/julianstephens/habitgrid/internal/models"
)

// Provider is the persistence boundary for habits and check-ins.
// Implementations enforce at most one check-in per (habit, date).
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Habits
	AddHabit(ctx context.Context, habit models.Habit) error
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	GetAllHabits(ctx context.Context) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, habit models.Habit) error
	// DeleteHabit removes the habit and all of its check-ins.
	DeleteHabit(ctx context.Context, id string) error

	// Check-ins
	AddCheckIn(ctx context.Context, checkIn models.CheckIn) error
	GetCheckIn(ctx context.Context, id string) (models.CheckIn, error)
	// GetCheckIns returns matching check-ins, newest date first.
	GetCheckIns(ctx context.Context, filter models.CheckInFilter) ([]models.CheckIn, error)
	DeleteCheckIn(ctx context.Context, id string) error

	// Aggregates
	GetCheckInDates(ctx context.Context, habitID string) ([]string, error)
	CountCheckInsForDate(ctx context.Context, date string) (int, error)
	// CountCheckInsByDate returns per-day totals across all habits for the
	// inclusive range. Days without check-ins are absent from the map.
	CountCheckInsByDate(ctx context.Context, from, to string) (map[string]int, error)

	// Utils
	GetConfigPath() string
}
