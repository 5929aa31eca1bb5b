package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prayerkit/prayerkit/internal/cache"
	"github.com/prayerkit/prayerkit/internal/display"
	"github.com/prayerkit/prayerkit/internal/schedule"
	"github.com/prayerkit/prayerkit/internal/timetext"
	"github.com/spf13/cobra"
)

func runToday(cmd *cobra.Command, args []string) error {
	// Get merged config (CLI flags > config file > defaults).
	cfg := effectiveConfig(cmd)

	// Initialize cache.
	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		c = nil
		fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
	}

	now := time.Now()

	// Resolve location.
	loc, err := resolveLocation(cfg.Latitude, cfg.Longitude, cfg.City, cfg.Country, c)
	if err != nil {
		return err
	}

	// Fetch today's timings.
	result, err := fetchTimings(now, loc, fetchOptions(cfg), c)
	if err != nil {
		return err
	}

	// Determine timezone.
	tz := loc.Timezone
	if tz == "" {
		tz = result.Meta.Timezone
	}
	tzLoc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	// Re-anchor "now" to the API's timezone.
	now = now.In(tzLoc)

	// Build the five-prayer schedule and resolve against today.
	sched := schedule.FromTimings(result.Timings)
	resolver := schedule.Resolver{Location: tzLoc}

	current, haveCurrent := schedule.Current(sched, now, resolver)
	next, nextAt, haveNext := schedule.Next(sched, now, resolver)

	// Build location display string.
	locationStr := buildLocationStr(loc, result)

	if FlagJSON {
		return printTodayJSON(sched, current, haveCurrent, next, nextAt, haveNext, now, result, resolver, locationStr, tz, cfg.TimeFormat)
	}

	printTodayRich(sched, current, haveCurrent, next, nextAt, haveNext, now, result, resolver, locationStr, tz, cfg.TimeFormat)
	return nil
}

// buildLocationStr builds a "City, Country" string from available data.
func buildLocationStr(loc resolvedLocation, result *fetchResult) string {
	if loc.City != "" && loc.Country != "" {
		return loc.City + ", " + loc.Country
	}
	// Fall back to coordinates.
	return fmt.Sprintf("%.4f, %.4f", result.Meta.Latitude, result.Meta.Longitude)
}

// formatMoment renders a resolved prayer moment per the configured time format.
// 12h uses the Arabic meridiem form the app displays; 24h is plain "15:04".
func formatMoment(at time.Time, timeFormat string) string {
	if timeFormat == "12h" {
		return timetext.FormatArabic12(timetext.Clock24{Hour: at.Hour(), Minute: at.Minute()})
	}
	return at.Format("15:04")
}

// printTodayRich renders the colored terminal output for today's prayer schedule.
func printTodayRich(sched schedule.Schedule, current schedule.PrayerTime, haveCurrent bool, next schedule.PrayerTime, nextAt time.Time, haveNext bool, now time.Time, result *fetchResult, resolver schedule.Resolver, locationStr, tz, timeFormat string) {
	fmt.Println()
	fmt.Printf("  %s\n", display.Bold("Prayer Times"))
	fmt.Println()

	// Location and date info.
	fmt.Printf("  %s\n", locationStr)
	fmt.Printf("  %s\n", tz)

	// Gregorian date.
	fmt.Printf("  %s\n", formatGregorianDate(now, result))

	// Hijri date.
	if hijriStr := result.DateInfo.Hijri.Format(); hijriStr != "" {
		fmt.Printf("  %s\n", hijriStr)
	}

	fmt.Println()

	tbl := display.NewTable([]string{"Prayer", "Time"})
	for i, p := range sched {
		at, ok := resolver.Resolve(p.TimeText, now)
		timeStr := p.TimeText
		if ok {
			timeStr = formatMoment(at, timeFormat)
		}
		tbl.AddRow([]string{p.Name, timeStr})
		if haveCurrent && p.ID == current.ID {
			tbl.SetHighlightRow(i)
		}
	}
	fmt.Print(tbl.Render())

	fmt.Println()
	if haveCurrent {
		fmt.Printf("  Current: %s\n", display.Accent(current.Name))
	}
	if haveNext {
		remaining := schedule.FormatRemaining(nextAt.Sub(now))
		fmt.Printf("  Next:    %s in %s\n", next.Name, remaining)
	}
	fmt.Println()
}

// formatGregorianDate returns a formatted Gregorian date string.
// Prefers API data; falls back to formatting `now`.
func formatGregorianDate(now time.Time, result *fetchResult) string {
	g := result.DateInfo.Gregorian
	if g.Day != "" && g.Month.En != "" && g.Year != "" {
		return g.Day + " " + g.Month.En + " " + g.Year
	}
	return now.Format("02 Jan 2006")
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location todayJSONLocation `json:"location"`
	Date     todayJSONDate     `json:"date"`
	Schedule []todayJSONEntry  `json:"schedule"`
	Current  string            `json:"current"`
	Next     *todayJSONNext    `json:"next"`
}

type todayJSONLocation struct {
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type todayJSONDate struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri"`
}

type todayJSONEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(sched schedule.Schedule, current schedule.PrayerTime, haveCurrent bool, next schedule.PrayerTime, nextAt time.Time, haveNext bool, now time.Time, result *fetchResult, resolver schedule.Resolver, locationStr, tz, timeFormat string) error {
	out := todayJSON{
		Location: todayJSONLocation{
			Timezone:  tz,
			Latitude:  result.Meta.Latitude,
			Longitude: result.Meta.Longitude,
		},
		Date: todayJSONDate{
			Gregorian: formatGregorianDate(now, result),
			Hijri:     result.DateInfo.Hijri.Format(),
		},
	}

	for _, p := range sched {
		timeStr := p.TimeText
		if at, ok := resolver.Resolve(p.TimeText, now); ok {
			timeStr = formatMoment(at, timeFormat)
		}
		out.Schedule = append(out.Schedule, todayJSONEntry{
			ID:   p.ID.String(),
			Name: p.Name,
			Time: timeStr,
		})
	}

	// Set city/country if available.
	if parts := strings.SplitN(locationStr, ", ", 2); len(parts) == 2 {
		out.Location.City = parts[0]
		out.Location.Country = parts[1]
	}

	if haveCurrent {
		out.Current = current.Name
	}

	if haveNext {
		out.Next = &todayJSONNext{
			Prayer:    next.Name,
			Time:      formatMoment(nextAt, timeFormat),
			Remaining: schedule.FormatRemaining(nextAt.Sub(now)),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
