package schedule

import (
	"testing"
	"time"

	"github.com/prayerkit/prayerkit/internal/api"
)

// sampleSchedule is the canonical four-prayer day used across the selection
// tests: Fajr 5:00 AM, Dhuhr 12:00 PM, Asr 3:30 PM, Maghrib 6:00 PM.
func sampleSchedule() Schedule {
	return Schedule{
		NewPrayerTime("Fajr", "5:00 AM"),
		NewPrayerTime("Dhuhr", "12:00 PM"),
		NewPrayerTime("Asr", "3:30 PM"),
		NewPrayerTime("Maghrib", "6:00 PM"),
	}
}

func at(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2026, 2, 28, hour, min, 0, 0, time.UTC)
}

func utcResolver() Resolver {
	return Resolver{Location: time.UTC}
}

func TestCurrent_MiddleOfDay(t *testing.T) {
	// At 1:00 PM, Dhuhr (12:00 PM) is the most recently started prayer.
	got, ok := Current(sampleSchedule(), at(t, 13, 0), utcResolver())
	if !ok {
		t.Fatal("expected a current prayer")
	}
	if got.Name != "Dhuhr" {
		t.Errorf("current = %s, want Dhuhr", got.Name)
	}
}

func TestCurrent_BeforeFirstPrayer(t *testing.T) {
	// At 4:00 AM nothing has started yet; fall back to the earliest
	// resolvable entry as the upcoming default.
	got, ok := Current(sampleSchedule(), at(t, 4, 0), utcResolver())
	if !ok {
		t.Fatal("expected a current prayer")
	}
	if got.Name != "Fajr" {
		t.Errorf("current = %s, want Fajr", got.Name)
	}
}

func TestCurrent_BoundaryInclusive(t *testing.T) {
	// Exactly at 12:00 PM the moment is <= now, so Dhuhr is current.
	got, ok := Current(sampleSchedule(), at(t, 12, 0), utcResolver())
	if !ok {
		t.Fatal("expected a current prayer")
	}
	if got.Name != "Dhuhr" {
		t.Errorf("current = %s, want Dhuhr", got.Name)
	}
}

func TestCurrent_LateEvening(t *testing.T) {
	got, ok := Current(sampleSchedule(), at(t, 23, 59), utcResolver())
	if !ok {
		t.Fatal("expected a current prayer")
	}
	if got.Name != "Maghrib" {
		t.Errorf("current = %s, want Maghrib", got.Name)
	}
}

func TestCurrent_TieBreakInsertionOrder(t *testing.T) {
	// Two entries resolving to the same minute: the first in insertion
	// order wins, deterministically.
	s := Schedule{
		NewPrayerTime("First", "12:00 PM"),
		NewPrayerTime("Second", "12:00"),
	}

	got, ok := Current(s, at(t, 13, 0), utcResolver())
	if !ok {
		t.Fatal("expected a current prayer")
	}
	if got.Name != "First" {
		t.Errorf("current = %s, want First", got.Name)
	}

	// Same for the before-day fallback branch.
	got, ok = Current(s, at(t, 4, 0), utcResolver())
	if !ok {
		t.Fatal("expected a current prayer")
	}
	if got.Name != "First" {
		t.Errorf("fallback current = %s, want First", got.Name)
	}
}

func TestCurrent_MalformedEntriesSkipped(t *testing.T) {
	s := Schedule{
		NewPrayerTime("Broken", "nonsense"),
		NewPrayerTime("Fajr", "5:00 AM"),
	}

	got, ok := Current(s, at(t, 6, 0), utcResolver())
	if !ok {
		t.Fatal("expected a current prayer")
	}
	if got.Name != "Fajr" {
		t.Errorf("current = %s, want Fajr", got.Name)
	}
}

func TestCurrent_NothingResolvable(t *testing.T) {
	s := Schedule{
		NewPrayerTime("Broken", "nonsense"),
		NewPrayerTime("AlsoBroken", ""),
	}

	if _, ok := Current(s, at(t, 12, 0), utcResolver()); ok {
		t.Error("expected no current prayer for unresolvable schedule")
	}
}

func TestCurrent_EmptySchedule(t *testing.T) {
	if _, ok := Current(nil, at(t, 12, 0), utcResolver()); ok {
		t.Error("expected no current prayer for empty schedule")
	}
}

func TestNewPrayerTime_UniqueIDs(t *testing.T) {
	a := NewPrayerTime("Fajr", "5:00 AM")
	b := NewPrayerTime("Fajr", "5:00 AM")
	if a.ID == b.ID {
		t.Error("expected distinct IDs for separately created entries")
	}
}

func TestFromTimings(t *testing.T) {
	s := FromTimings(api.Timings{
		Fajr:    "04:57",
		Dhuhr:   "11:42",
		Asr:     "14:43",
		Maghrib: "17:04",
		Isha:    "18:34",
	})

	if len(s) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(s))
	}

	wantNames := []string{"الفجر", "الظهر", "العصر", "المغرب", "العشاء"}
	wantTimes := []string{"04:57", "11:42", "14:43", "17:04", "18:34"}
	for i := range s {
		if s[i].Name != wantNames[i] {
			t.Errorf("entry[%d].Name = %q, want %q", i, s[i].Name, wantNames[i])
		}
		if s[i].TimeText != wantTimes[i] {
			t.Errorf("entry[%d].TimeText = %q, want %q", i, s[i].TimeText, wantTimes[i])
		}
	}
}
