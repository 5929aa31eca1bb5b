package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/prayerkit/prayerkit/internal/cache"
	"github.com/prayerkit/prayerkit/internal/schedule"
	"github.com/spf13/cobra"
)

var flagCurrentFormat string

// Named output formats for the current subcommand. Useful for status bars
// where the whole output must be a single short line.
const (
	formatName        = "name"
	formatTime        = "time"
	formatNameAndTime = "name-and-time"
	formatFull        = "full"
)

func newCurrentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the prayer currently in effect",
		Long:  "Print the prayer whose time most recently started. Before the first prayer of the day, shows the day's earliest prayer.",
		RunE:  runCurrent,
	}

	cmd.Flags().StringVar(&flagCurrentFormat, "format", formatNameAndTime, "Display format: name, time, name-and-time, full")

	return cmd
}

func runCurrent(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		c = nil
		fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
	}

	now := time.Now()

	loc, err := resolveLocation(cfg.Latitude, cfg.Longitude, cfg.City, cfg.Country, c)
	if err != nil {
		return err
	}

	result, err := fetchTimings(now, loc, fetchOptions(cfg), c)
	if err != nil {
		return err
	}

	tz := loc.Timezone
	if tz == "" {
		tz = result.Meta.Timezone
	}
	tzLoc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	now = now.In(tzLoc)

	sched := schedule.FromTimings(result.Timings)
	resolver := schedule.Resolver{Location: tzLoc}

	current, ok := schedule.Current(sched, now, resolver)
	if !ok {
		return fmt.Errorf("could not determine current prayer: no entry resolved")
	}

	at, _ := resolver.Resolve(current.TimeText, now)
	timeStr := formatMoment(at, cfg.TimeFormat)

	if FlagJSON {
		out := struct {
			Prayer string `json:"prayer"`
			Time   string `json:"time"`
		}{Prayer: current.Name, Time: timeStr}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	switch flagCurrentFormat {
	case formatName:
		fmt.Println(current.Name)
	case formatTime:
		fmt.Println(timeStr)
	case formatFull:
		line := fmt.Sprintf("%s %s", current.Name, timeStr)
		if next, nextAt, haveNext := schedule.Next(sched, now, resolver); haveNext {
			line += fmt.Sprintf(" (next: %s in %s)", next.Name, schedule.FormatRemaining(nextAt.Sub(now)))
		}
		fmt.Println(line)
	default:
		fmt.Printf("%s %s\n", current.Name, timeStr)
	}

	return nil
}
