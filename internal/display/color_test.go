package display

import (
	"strings"
	"testing"
)

// ---- style wrappers ----

func TestStyles_WrapWithANSICodes(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"Bold", Bold, "Prayer Times", "\033[1mPrayer Times\033[0m"},
		{"Dim", Dim, "----", "\033[2m----\033[0m"},
		{"Accent", Accent, "الظهر", "\033[1m\033[36mالظهر\033[0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
			}
		})
	}
}

func TestStyles_DisabledReturnPlainText(t *testing.T) {
	SetEnabled(false)

	funcs := []struct {
		name string
		fn   func(string) string
	}{
		{"Bold", Bold},
		{"Dim", Dim},
		{"Accent", Accent},
	}

	for _, f := range funcs {
		t.Run(f.name, func(t *testing.T) {
			if got := f.fn("الفجر"); got != "الفجر" {
				t.Errorf("%s with colors disabled = %q, want the label unchanged", f.name, got)
			}
		})
	}
}

// ---- current-prayer accent on multi-byte labels ----

func TestAccent_LeavesLabelBytesIntact(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	// The escape codes must surround the multi-byte label, never split it.
	for _, label := range []string{"العشاء", "4:57 ص", "Fajr"} {
		got := Accent(label)
		if !strings.Contains(got, label) {
			t.Errorf("Accent(%q) = %q, label bytes not preserved", label, got)
		}
		if !strings.HasSuffix(got, "\033[0m") {
			t.Errorf("Accent(%q) = %q, missing trailing reset", label, got)
		}
	}
}

// ---- state ----

func TestEnabled_ReportsState(t *testing.T) {
	SetEnabled(true)
	if !Enabled() {
		t.Error("Enabled() should return true after SetEnabled(true)")
	}

	SetEnabled(false)
	if Enabled() {
		t.Error("Enabled() should return false after SetEnabled(false)")
	}
}
