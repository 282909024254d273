package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/models"
)

// Dates travel as YYYY-MM-DD text so they never pick up a time zone.
const checkInColumns = "id, habit_id, to_char(date, 'YYYY-MM-DD'), created_at"

func scanCheckIn(row rowScanner) (models.CheckIn, error) {
	var c models.CheckIn
	if err := row.Scan(&c.ID, &c.HabitID, &c.Date, &c.CreatedAt); err != nil {
		return models.CheckIn{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (s *Store) AddCheckIn(ctx context.Context, checkIn models.CheckIn) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkins (id, habit_id, date, created_at)
		VALUES ($1, $2, $3::date, $4)`,
		checkIn.ID, checkIn.HabitID, checkIn.Date, checkIn.CreatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) GetCheckIn(ctx context.Context, id string) (models.CheckIn, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+checkInColumns+` FROM checkins WHERE id = $1`, id)

	c, err := scanCheckIn(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CheckIn{}, fmt.Errorf("check-in %s: %w", id, apperrors.ErrNotFound)
		}
		return models.CheckIn{}, err
	}
	return c, nil
}

func (s *Store) GetCheckIns(ctx context.Context, filter models.CheckInFilter) ([]models.CheckIn, error) {
	var where []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if filter.HabitID != "" {
		add("habit_id = ?", filter.HabitID)
	}
	if filter.From != "" {
		add("date >= ?::date", filter.From)
	}
	if filter.To != "" {
		add("date <= ?::date", filter.To)
	}

	query := `SELECT ` + checkInColumns + ` FROM checkins`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY checkins.date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkIns := []models.CheckIn{}
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkIns = append(checkIns, c)
	}

	return checkIns, rows.Err()
}

func (s *Store) DeleteCheckIn(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM checkins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete check-in: %w", err)
	}
	return requireAffected(result, "check-in", id)
}

func (s *Store) GetCheckInDates(ctx context.Context, habitID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_char(date, 'YYYY-MM-DD') FROM checkins
		WHERE habit_id = $1 ORDER BY date`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

func (s *Store) CountCheckInsForDate(ctx context.Context, date string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM checkins WHERE date = $1::date`, date).Scan(&count)
	return count, err
}

func (s *Store) CountCheckInsByDate(ctx context.Context, from, to string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_char(date, 'YYYY-MM-DD'), count(*) FROM checkins
		WHERE date BETWEEN $1::date AND $2::date
		GROUP BY date`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var d string
		var n int
		if err := rows.Scan(&d, &n); err != nil {
			return nil, err
		}
		counts[d] = n
	}

	return counts, rows.Err()
}
