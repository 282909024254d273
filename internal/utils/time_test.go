package utils

import (
	"testing"
	"time"
)

func TestDateOf(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"utc midday", time.Date(2026, 1, 5, 12, 30, 0, 0, time.UTC), "2026-01-05"},
		{"late evening keeps local date", time.Date(2026, 1, 5, 23, 59, 0, 0, loc), "2026-01-05"},
		{"just after midnight", time.Date(2026, 3, 1, 0, 0, 1, 0, loc), "2026-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DateOf(tt.in)
			if FormatDate(got) != tt.want {
				t.Errorf("DateOf(%v) = %s, want %s", tt.in, FormatDate(got), tt.want)
			}
			if got.Location() != time.UTC || got.Hour() != 0 {
				t.Errorf("DateOf(%v) not normalized to midnight UTC: %v", tt.in, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2026-02-10", false},
		{"2024-02-29", false},
		{"2026-02-30", true},
		{"2026/02/10", true},
		{"", true},
		{"yesterday", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && FormatDate(got) != tt.input {
				t.Errorf("ParseDate(%q) round trip = %s", tt.input, FormatDate(got))
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		b    time.Time
		want int
	}{
		{a, 0},
		{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), -7},
		{time.Date(2027, 2, 27, 0, 0, 0, 0, time.UTC), 365},
		{time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC), -119126},
		{time.Date(2400, 2, 27, 0, 0, 0, 0, time.UTC), 136600},
	}

	for _, tt := range tests {
		if got := DaysBetween(a, tt.b); got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", FormatDate(a), FormatDate(tt.b), got, tt.want)
		}
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	// Calendar days are UTC-based so DST transitions never skip or repeat a day.
	day := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		next := AddDays(day, 1)
		if DaysBetween(day, next) != 1 {
			t.Fatalf("AddDays(%s, 1) = %s", FormatDate(day), FormatDate(next))
		}
		day = next
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		tz   string
		want bool
	}{
		{"", true},
		{"Local", true},
		{"UTC", true},
		{"Mars/Olympus", false},
	}

	for _, tt := range tests {
		if got := ValidateTimezone(tt.tz); got != tt.want {
			t.Errorf("ValidateTimezone(%q) = %v, want %v", tt.tz, got, tt.want)
		}
	}
}
