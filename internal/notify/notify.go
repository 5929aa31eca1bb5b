// Package notify derives future notification triggers from a prayer
// schedule and hands them to a delivery facility.
package notify

import (
	"fmt"
	"sort"
	"time"

	"github.com/prayerkit/prayerkit/internal/schedule"
)

// Trigger is one scheduled future notification.
type Trigger struct {
	ID     string    `json:"id"`
	FireAt time.Time `json:"fire_at"`
	Prayer string    `json:"prayer"`
}

// Plan emits a trigger for every schedule entry whose moment resolves
// strictly after now, in ascending fire-time order. Entries that fail to
// resolve are skipped silently; a single malformed time never aborts
// planning for the rest. Entries at or before now are never scheduled.
//
// Identifiers are stable per (prayer, day-of-month), so re-planning the
// same day yields the same IDs and a re-install supersedes rather than
// duplicates.
func Plan(s schedule.Schedule, now time.Time, r schedule.Resolver) []Trigger {
	var out []Trigger
	for _, p := range s {
		at, ok := r.Resolve(p.TimeText, now)
		if !ok {
			continue
		}
		if !at.After(now) {
			continue
		}
		out = append(out, Trigger{
			ID:     TriggerID(p.Name, at),
			FireAt: at,
			Prayer: p.Name,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FireAt.Before(out[j].FireAt)
	})
	return out
}

// TriggerID builds the per-day identifier for a prayer notification.
func TriggerID(name string, at time.Time) string {
	return fmt.Sprintf("prayer-%s-%d", name, at.Day())
}

// Deliverer registers triggers with an OS- or transport-specific facility.
// Adding a trigger whose identifier is already pending must supersede the
// previous registration.
type Deliverer interface {
	// Clear removes every pending trigger previously installed.
	Clear() error
	// Install registers the given triggers.
	Install([]Trigger) error
}

// Replace clears pending triggers, then installs the new set, in that
// order. Stale triggers from a prior day or a prior reload must never
// coexist with fresh ones; a brief window with zero pending triggers is
// acceptable.
func Replace(d Deliverer, triggers []Trigger) error {
	if err := d.Clear(); err != nil {
		return fmt.Errorf("failed to clear pending triggers: %w", err)
	}
	if err := d.Install(triggers); err != nil {
		return fmt.Errorf("failed to install triggers: %w", err)
	}
	return nil
}
