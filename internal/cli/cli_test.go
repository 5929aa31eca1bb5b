package cli

import (
	"testing"
	"time"

	"github.com/prayerkit/prayerkit/internal/api"
	"github.com/prayerkit/prayerkit/internal/config"
)

func TestBuildLocationStr_CityCountry(t *testing.T) {
	loc := resolvedLocation{City: "Riyadh", Country: "Saudi Arabia"}
	result := &fetchResult{Meta: api.Meta{Latitude: 24.7136, Longitude: 46.6753}}

	got := buildLocationStr(loc, result)
	want := "Riyadh, Saudi Arabia"
	if got != want {
		t.Errorf("buildLocationStr() = %q, want %q", got, want)
	}
}

func TestBuildLocationStr_CoordsOnly(t *testing.T) {
	loc := resolvedLocation{Lat: 24.7136, Lon: 46.6753}
	result := &fetchResult{Meta: api.Meta{Latitude: 24.7136, Longitude: 46.6753}}

	got := buildLocationStr(loc, result)
	want := "24.7136, 46.6753"
	if got != want {
		t.Errorf("buildLocationStr() = %q, want %q", got, want)
	}
}

func TestFormatGregorianDate_FromAPI(t *testing.T) {
	now := time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)
	result := &fetchResult{
		DateInfo: api.DateInfo{
			Gregorian: api.GregorianDate{
				Day:   "28",
				Month: api.GregorianMonth{Number: 2, En: "February"},
				Year:  "2026",
			},
		},
	}

	got := formatGregorianDate(now, result)
	want := "28 February 2026"
	if got != want {
		t.Errorf("formatGregorianDate() = %q, want %q", got, want)
	}
}

func TestFormatGregorianDate_Fallback(t *testing.T) {
	now := time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)
	result := &fetchResult{}

	got := formatGregorianDate(now, result)
	want := "28 Feb 2026"
	if got != want {
		t.Errorf("formatGregorianDate() = %q, want %q", got, want)
	}
}

func TestFormatMoment(t *testing.T) {
	at := time.Date(2026, 2, 28, 16, 5, 0, 0, time.UTC)

	if got := formatMoment(at, "24h"); got != "16:05" {
		t.Errorf("formatMoment 24h = %q, want %q", got, "16:05")
	}
	if got := formatMoment(at, "12h"); got != "4:05 م" {
		t.Errorf("formatMoment 12h = %q, want %q", got, "4:05 م")
	}

	morning := time.Date(2026, 2, 28, 4, 57, 0, 0, time.UTC)
	if got := formatMoment(morning, "12h"); got != "4:57 ص" {
		t.Errorf("formatMoment 12h morning = %q, want %q", got, "4:57 ص")
	}
}

func TestFetchOptions_MergesTune(t *testing.T) {
	method := 4
	school := 1
	cfg := &config.Config{Method: &method, School: &school, Tune: "0,2,0,1,1,1,1,1,0"}

	opts := fetchOptions(cfg)
	if opts.Method != 4 {
		t.Errorf("Method = %d, want 4", opts.Method)
	}
	if opts.School != 1 {
		t.Errorf("School = %d, want 1", opts.School)
	}
	if opts.Tune != "0,2,0,1,1,1,1,1,0" {
		t.Errorf("Tune = %q", opts.Tune)
	}
}

func TestFetchOptions_Unset(t *testing.T) {
	cfg := &config.Config{}

	opts := fetchOptions(cfg)
	if opts.Method != -1 {
		t.Errorf("Method = %d, want -1 for unset", opts.Method)
	}
	if opts.School != -1 {
		t.Errorf("School = %d, want -1 for unset", opts.School)
	}
}

func TestResolveLocation_CityRequiresCountry(t *testing.T) {
	_, err := resolveLocation(0, 0, "Riyadh", "", nil)
	if err == nil {
		t.Fatal("expected error when city is set without country")
	}
}

func TestResolveLocation_Coords(t *testing.T) {
	loc, err := resolveLocation(24.7136, 46.6753, "", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if loc.Mode != locationCoords {
		t.Errorf("Mode = %v, want locationCoords", loc.Mode)
	}
	if loc.Lat != 24.7136 || loc.Lon != 46.6753 {
		t.Errorf("coords = (%v, %v)", loc.Lat, loc.Lon)
	}
}

func TestResolveLocation_City(t *testing.T) {
	loc, err := resolveLocation(0, 0, "Riyadh", "SA", nil)
	if err != nil {
		t.Fatal(err)
	}
	if loc.Mode != locationCity {
		t.Errorf("Mode = %v, want locationCity", loc.Mode)
	}
}

func TestPrintVersion(t *testing.T) {
	got := PrintVersion("v1.2.3")
	want := "prayerkit v1.2.3\n"
	if got != want {
		t.Errorf("PrintVersion = %q, want %q", got, want)
	}
}
