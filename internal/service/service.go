// Package service composes storage with the analytics core. It owns the
// process clock and timezone so every caller agrees on "today".
package service

import (
	"context"
	"time"

	"github.com/julianstephens/habitgrid/internal/metrics"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// Service implements the habit, check-in and analytics operations.
type Service struct {
	store storage.Provider
	loc   *time.Location
	now   func() time.Time
	newID func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithLocation sets the timezone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now, for tests and replays.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store: store,
		loc:   time.Local,
		now:   time.Now,
		newID: newUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar day in the configured timezone.
func (s *Service) Today() time.Time {
	return utils.LocalDateOf(s.now(), s.loc)
}

// Location returns the configured timezone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Ping checks that storage is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// observe times a storage call.
func observe(operation string) func(err error) {
	start := time.Now()
	return func(err error) {
		metrics.RecordStorage(operation, start, err)
	}
}

// parseDates converts stored YYYY-MM-DD strings into calendar days,
// skipping anything unparsable.
func parseDates(raw []string) []time.Time {
	dates := make([]time.Time, 0, len(raw))
	for _, r := range raw {
		if d, err := utils.ParseDate(r); err == nil {
			dates = append(dates, d)
		}
	}
	return dates
}
