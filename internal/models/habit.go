package models

import "time"

// Habit represents a recurring practice to track
type Habit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"` // UI label color, unrelated to heatmap colors
	CreatedAt   time.Time `json:"created_at"`
}

// CheckIn records that a habit was completed on a calendar day
type CheckIn struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit"`
	Date      string    `json:"date"` // YYYY-MM-DD format
	CreatedAt time.Time `json:"created_at"`
}

// HabitView is a habit together with its derived streaks.
// Streaks are recomputed for every read and never stored.
type HabitView struct {
	Habit
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// CheckInView is a check-in annotated with the heatmap color of its day,
// based on the number of check-ins across all habits on that date.
type CheckInView struct {
	CheckIn
	Color string `json:"color"`
}

// CheckInFilter narrows check-in listings. Zero values match everything.
type CheckInFilter struct {
	HabitID string
	From    string
	To      string
}
