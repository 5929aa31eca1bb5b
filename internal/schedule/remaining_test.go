package schedule

import (
	"testing"
	"time"
)

func TestNext(t *testing.T) {
	s := sampleSchedule()

	// At 1:00 PM the next prayer is Asr at 3:30 PM.
	p, when, ok := Next(s, at(t, 13, 0), utcResolver())
	if !ok {
		t.Fatal("expected a next prayer")
	}
	if p.Name != "Asr" {
		t.Errorf("next = %s, want Asr", p.Name)
	}
	if when.Hour() != 15 || when.Minute() != 30 {
		t.Errorf("next at %v, want 15:30", when)
	}

	// Exactly at a prayer time, strictly-after excludes it.
	p, _, ok = Next(s, at(t, 12, 0), utcResolver())
	if !ok || p.Name != "Asr" {
		t.Errorf("next at noon = %v %v, want Asr", p, ok)
	}

	// After the last prayer nothing remains.
	if _, _, ok := Next(s, at(t, 22, 0), utcResolver()); ok {
		t.Error("expected no next prayer late in the day")
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"hours and minutes", 2*time.Hour + 15*time.Minute, "2h 15m"},
		{"only minutes", 45 * time.Minute, "45m"},
		{"exactly one hour", 1 * time.Hour, "1h 0m"},
		{"zero", 0, "0m"},
		{"negative", -30 * time.Minute, "0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRemaining(tt.duration); got != tt.want {
				t.Errorf("FormatRemaining(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}
