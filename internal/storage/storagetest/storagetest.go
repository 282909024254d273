// Package storagetest holds behavioral tests shared by every
// storage.Provider implementation.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage"
)

// Run exercises p against the Provider contract. newProvider must return an
// initialized, empty store.
func Run(t *testing.T, newProvider func(t *testing.T) storage.Provider) {
	tests := []struct {
		name string
		fn   func(t *testing.T, p storage.Provider)
	}{
		{"HabitLifecycle", testHabitLifecycle},
		{"HabitNotFound", testHabitNotFound},
		{"CheckInLifecycle", testCheckInLifecycle},
		{"DuplicateCheckIn", testDuplicateCheckIn},
		{"CheckInForUnknownHabit", testCheckInForUnknownHabit},
		{"DeleteHabitCascades", testDeleteHabitCascades},
		{"CheckInFilters", testCheckInFilters},
		{"Counts", testCounts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newProvider(t))
		})
	}
}

// NewHabit returns a habit with a fresh id.
func NewHabit(name string) models.Habit {
	return models.Habit{
		ID:          uuid.NewString(),
		Name:        name,
		Description: name + " every day",
		Color:       "#4ade80",
		CreatedAt:   time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

// NewCheckIn returns a check-in with a fresh id.
func NewCheckIn(habitID, date string) models.CheckIn {
	return models.CheckIn{
		ID:        uuid.NewString(),
		HabitID:   habitID,
		Date:      date,
		CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func mustAddHabit(t *testing.T, p storage.Provider, name string) models.Habit {
	t.Helper()
	h := NewHabit(name)
	if err := p.AddHabit(context.Background(), h); err != nil {
		t.Fatalf("AddHabit(%s) failed: %v", name, err)
	}
	return h
}

func mustCheckIn(t *testing.T, p storage.Provider, habitID, date string) models.CheckIn {
	t.Helper()
	c := NewCheckIn(habitID, date)
	if err := p.AddCheckIn(context.Background(), c); err != nil {
		t.Fatalf("AddCheckIn(%s) failed: %v", date, err)
	}
	return c
}

func testHabitLifecycle(t *testing.T, p storage.Provider) {
	ctx := context.Background()

	h := mustAddHabit(t, p, "Read")
	mustAddHabit(t, p, "Run")

	got, err := p.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != h.Name || got.Description != h.Description || got.Color != h.Color {
		t.Errorf("GetHabit = %+v, want %+v", got, h)
	}
	if !got.CreatedAt.Equal(h.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, h.CreatedAt)
	}

	h.Name = "Read more"
	h.Color = "#ff0000"
	if err := p.UpdateHabit(ctx, h); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}
	got, err = p.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != "Read more" || got.Color != "#ff0000" {
		t.Errorf("update not persisted: %+v", got)
	}

	all, err := p.GetAllHabits(ctx)
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(all))
	}

	if err := p.DeleteHabit(ctx, h.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	all, err = p.GetAllHabits(ctx)
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(all) != 1 || all[0].Name != "Run" {
		t.Errorf("expected only Run to remain, got %+v", all)
	}
}

func testHabitNotFound(t *testing.T, p storage.Provider) {
	ctx := context.Background()
	missing := uuid.NewString()

	if _, err := p.GetHabit(ctx, missing); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabit error = %v, want ErrNotFound", err)
	}
	if err := p.UpdateHabit(ctx, models.Habit{ID: missing, Name: "x"}); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("UpdateHabit error = %v, want ErrNotFound", err)
	}
	if err := p.DeleteHabit(ctx, missing); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("DeleteHabit error = %v, want ErrNotFound", err)
	}
	if _, err := p.GetCheckIn(ctx, missing); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetCheckIn error = %v, want ErrNotFound", err)
	}
	if err := p.DeleteCheckIn(ctx, missing); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("DeleteCheckIn error = %v, want ErrNotFound", err)
	}
}

func testCheckInLifecycle(t *testing.T, p storage.Provider) {
	ctx := context.Background()
	h := mustAddHabit(t, p, "Read")
	c := mustCheckIn(t, p, h.ID, "2024-03-10")

	got, err := p.GetCheckIn(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCheckIn failed: %v", err)
	}
	if got.HabitID != h.ID || got.Date != "2024-03-10" {
		t.Errorf("GetCheckIn = %+v, want habit %s date 2024-03-10", got, h.ID)
	}

	if err := p.DeleteCheckIn(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCheckIn failed: %v", err)
	}
	if _, err := p.GetCheckIn(ctx, c.ID); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetCheckIn after delete error = %v, want ErrNotFound", err)
	}

	// The slot is free again once deleted
	mustCheckIn(t, p, h.ID, "2024-03-10")
}

func testDuplicateCheckIn(t *testing.T, p storage.Provider) {
	ctx := context.Background()
	h := mustAddHabit(t, p, "Read")
	other := mustAddHabit(t, p, "Run")
	mustCheckIn(t, p, h.ID, "2024-03-10")

	err := p.AddCheckIn(ctx, NewCheckIn(h.ID, "2024-03-10"))
	if !apperrors.Is(err, apperrors.ErrDuplicateCheckIn) {
		t.Fatalf("AddCheckIn duplicate error = %v, want ErrDuplicateCheckIn", err)
	}

	// Same date for a different habit is fine
	mustCheckIn(t, p, other.ID, "2024-03-10")

	count, err := p.CountCheckInsForDate(ctx, "2024-03-10")
	if err != nil {
		t.Fatalf("CountCheckInsForDate failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 check-ins on 2024-03-10, got %d", count)
	}
}

func testCheckInForUnknownHabit(t *testing.T, p storage.Provider) {
	err := p.AddCheckIn(context.Background(), NewCheckIn(uuid.NewString(), "2024-03-10"))
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("AddCheckIn error = %v, want ErrNotFound", err)
	}
}

func testDeleteHabitCascades(t *testing.T, p storage.Provider) {
	ctx := context.Background()
	h := mustAddHabit(t, p, "Read")
	keep := mustAddHabit(t, p, "Run")
	gone := mustCheckIn(t, p, h.ID, "2024-03-10")
	mustCheckIn(t, p, h.ID, "2024-03-11")
	mustCheckIn(t, p, keep.ID, "2024-03-10")

	if err := p.DeleteHabit(ctx, h.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	if _, err := p.GetCheckIn(ctx, gone.ID); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("check-in survived habit deletion: %v", err)
	}
	dates, err := p.GetCheckInDates(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetCheckInDates failed: %v", err)
	}
	if len(dates) != 0 {
		t.Errorf("expected no dates for deleted habit, got %v", dates)
	}

	all, err := p.GetCheckIns(ctx, models.CheckInFilter{})
	if err != nil {
		t.Fatalf("GetCheckIns failed: %v", err)
	}
	if len(all) != 1 || all[0].HabitID != keep.ID {
		t.Errorf("expected only the other habit's check-in, got %+v", all)
	}
}

func testCheckInFilters(t *testing.T, p storage.Provider) {
	ctx := context.Background()
	a := mustAddHabit(t, p, "Read")
	b := mustAddHabit(t, p, "Run")
	mustCheckIn(t, p, a.ID, "2024-03-09")
	mustCheckIn(t, p, a.ID, "2024-03-11")
	mustCheckIn(t, p, a.ID, "2024-03-10")
	mustCheckIn(t, p, b.ID, "2024-03-12")

	tests := []struct {
		name   string
		filter models.CheckInFilter
		want   []string
	}{
		{"all newest first", models.CheckInFilter{}, []string{"2024-03-12", "2024-03-11", "2024-03-10", "2024-03-09"}},
		{"by habit", models.CheckInFilter{HabitID: a.ID}, []string{"2024-03-11", "2024-03-10", "2024-03-09"}},
		{"by range", models.CheckInFilter{From: "2024-03-10", To: "2024-03-11"}, []string{"2024-03-11", "2024-03-10"}},
		{"habit and range", models.CheckInFilter{HabitID: b.ID, From: "2024-03-01", To: "2024-03-11"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.GetCheckIns(ctx, tt.filter)
			if err != nil {
				t.Fatalf("GetCheckIns failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d check-ins, got %d", len(tt.want), len(got))
			}
			for i, c := range got {
				if c.Date != tt.want[i] {
					t.Errorf("check-in %d date = %s, want %s", i, c.Date, tt.want[i])
				}
			}
		})
	}

	dates, err := p.GetCheckInDates(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetCheckInDates failed: %v", err)
	}
	if len(dates) != 3 || dates[0] != "2024-03-09" || dates[2] != "2024-03-11" {
		t.Errorf("GetCheckInDates = %v", dates)
	}
}

func testCounts(t *testing.T, p storage.Provider) {
	ctx := context.Background()
	a := mustAddHabit(t, p, "Read")
	b := mustAddHabit(t, p, "Run")
	c := mustAddHabit(t, p, "Write")
	mustCheckIn(t, p, a.ID, "2024-03-10")
	mustCheckIn(t, p, b.ID, "2024-03-10")
	mustCheckIn(t, p, c.ID, "2024-03-10")
	mustCheckIn(t, p, a.ID, "2024-03-12")
	mustCheckIn(t, p, a.ID, "2024-04-01")

	count, err := p.CountCheckInsForDate(ctx, "2024-03-11")
	if err != nil {
		t.Fatalf("CountCheckInsForDate failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 check-ins on an empty day, got %d", count)
	}

	counts, err := p.CountCheckInsByDate(ctx, "2024-03-10", "2024-03-31")
	if err != nil {
		t.Fatalf("CountCheckInsByDate failed: %v", err)
	}
	want := map[string]int{"2024-03-10": 3, "2024-03-12": 1}
	if len(counts) != len(want) {
		t.Fatalf("CountCheckInsByDate = %v, want %v", counts, want)
	}
	for d, n := range want {
		if counts[d] != n {
			t.Errorf("count for %s = %d, want %d", d, counts[d], n)
		}
	}
}
