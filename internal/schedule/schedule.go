// Package schedule holds the day's prayer list and resolves its textual
// times into absolute moments for current-prayer selection.
package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/prayerkit/prayerkit/internal/api"
)

// PrayerTime is a single named entry in a day's schedule. The ID is
// assigned once at construction and never reused; consumers key row
// identity and selection on it. Name is an opaque display label.
type PrayerTime struct {
	ID       uuid.UUID
	Name     string
	TimeText string
}

// NewPrayerTime creates an entry with a fresh ID.
func NewPrayerTime(name, timeText string) PrayerTime {
	return PrayerTime{ID: uuid.New(), Name: name, TimeText: timeText}
}

// Schedule is an ordered list of prayers. Insertion order is canonical
// (dawn through night); entries are never re-sorted by resolved time, and
// the whole list is replaced wholesale on reload.
type Schedule []PrayerTime

// FromTimings builds the Arabic-named five-prayer schedule the app tracks
// from an Al Adhan timings payload.
func FromTimings(t api.Timings) Schedule {
	return Schedule{
		NewPrayerTime("الفجر", t.Fajr),
		NewPrayerTime("الظهر", t.Dhuhr),
		NewPrayerTime("العصر", t.Asr),
		NewPrayerTime("المغرب", t.Maghrib),
		NewPrayerTime("العشاء", t.Isha),
	}
}

// Current returns the prayer whose resolved moment most recently started:
// among entries resolving at or before now, the one with the latest moment.
// Ties at minute granularity are broken by insertion order (first wins).
// Before the first prayer of the day it falls back to the entry with the
// globally earliest resolvable moment, shown as the upcoming default.
// Entries that fail to resolve are skipped; zero resolvable entries yields
// false.
//
// Current is a pure query and is safe to call on every timer tick.
func Current(s Schedule, now time.Time, r Resolver) (PrayerTime, bool) {
	var (
		cur, first     PrayerTime
		curAt, firstAt time.Time
		haveCur        bool
		haveFirst      bool
	)

	for _, p := range s {
		at, ok := r.Resolve(p.TimeText, now)
		if !ok {
			continue
		}

		if !haveFirst || at.Before(firstAt) {
			first, firstAt, haveFirst = p, at, true
		}

		if !at.After(now) {
			// Started already; keep the latest. Strict After keeps the
			// earlier insertion on equal moments.
			if !haveCur || at.After(curAt) {
				cur, curAt, haveCur = p, at, true
			}
		}
	}

	if haveCur {
		return cur, true
	}
	if haveFirst {
		return first, true
	}
	return PrayerTime{}, false
}
