package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/models"
)

const checkInColumns = "id, habit_id, date, created_at"

func scanCheckIn(row rowScanner) (models.CheckIn, error) {
	var c models.CheckIn
	var createdAt string

	if err := row.Scan(&c.ID, &c.HabitID, &c.Date, &createdAt); err != nil {
		return models.CheckIn{}, err
	}

	var err error
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("failed to parse created_at for check-in %s: %w", c.ID, err)
	}
	return c, nil
}

func (s *Store) AddCheckIn(ctx context.Context, checkIn models.CheckIn) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkins (`+checkInColumns+`)
		VALUES (?, ?, ?, ?)`,
		checkIn.ID, checkIn.HabitID, checkIn.Date, checkIn.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) GetCheckIn(ctx context.Context, id string) (models.CheckIn, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+checkInColumns+` FROM checkins WHERE id = ?`, id)

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
	if filter.HabitID != "" {
		where = append(where, "habit_id = ?")
		args = append(args, filter.HabitID)
	}
	if filter.From != "" {
		where = append(where, "date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		where = append(where, "date <= ?")
		args = append(args, filter.To)
	}

	query := `SELECT ` + checkInColumns + ` FROM checkins`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

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
	result, err := s.db.ExecContext(ctx, `DELETE FROM checkins WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete check-in: %w", err)
	}
	return requireAffected(result, "check-in", id)
}

func (s *Store) GetCheckInDates(ctx context.Context, habitID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date FROM checkins WHERE habit_id = ? ORDER BY date`, habitID)
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
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM checkins WHERE date = ?`, date).Scan(&count)
	return count, err
}

func (s *Store) CountCheckInsByDate(ctx context.Context, from, to string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, count(*) FROM checkins
		WHERE date >= ? AND date <= ?
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
