package analytics

import (
	"testing"
	"time"

	"github.com/julianstephens/habitgrid/internal/utils"
)

// day parses a YYYY-MM-DD literal, failing the test on bad input.
func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date literal %q: %v", s, err)
	}
	return d
}

func days(t *testing.T, ss ...string) []time.Time {
	t.Helper()
	out := make([]time.Time, 0, len(ss))
	for _, s := range ss {
		out = append(out, day(t, s))
	}
	return out
}
