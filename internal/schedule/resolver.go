package schedule

import (
	"time"

	"github.com/prayerkit/prayerkit/internal/timetext"
)

// Resolver turns a prayer's time text into an absolute moment on a
// reference day.
//
// Overrides bypasses parsing entirely: a schedule built from synthetic data
// can map exact time-text strings straight to precomputed instants. This is
// a first-class escape hatch shared by production and test code, not a
// test-only shim — when a time text is present as a key, its stored instant
// wins regardless of whether the text would parse.
type Resolver struct {
	Overrides map[string]time.Time
	// Location is the calendar/time zone moments are constructed in.
	// Nil means time.Local.
	Location *time.Location
}

// Resolve produces the absolute moment for text on ref's calendar day.
// It is a pure function of its inputs; parse failures report false.
func (r Resolver) Resolve(text string, ref time.Time) (time.Time, bool) {
	if at, ok := r.Overrides[text]; ok {
		return at, true
	}

	c, ok := timetext.Parse(text)
	if !ok {
		return time.Time{}, false
	}

	loc := r.Location
	if loc == nil {
		loc = time.Local
	}

	return time.Date(ref.Year(), ref.Month(), ref.Day(), c.Hour, c.Minute, 0, 0, loc), true
}
