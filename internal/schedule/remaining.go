package schedule

import (
	"fmt"
	"time"
)

// Next returns the entry with the earliest resolved moment strictly after
// now, for countdown display. False when every entry has passed or nothing
// resolves.
func Next(s Schedule, now time.Time, r Resolver) (PrayerTime, time.Time, bool) {
	var (
		best   PrayerTime
		bestAt time.Time
		have   bool
	)

	for _, p := range s {
		at, ok := r.Resolve(p.TimeText, now)
		if !ok {
			continue
		}
		if at.After(now) && (!have || at.Before(bestAt)) {
			best, bestAt, have = p, at, true
		}
	}

	return best, bestAt, have
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
