package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/prayerkit/prayerkit/internal/cache"
	"github.com/prayerkit/prayerkit/internal/notify"
	"github.com/prayerkit/prayerkit/internal/schedule"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var flagPlanInstall bool

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan today's remaining notification triggers",
		Long:  "Compute notification triggers for every prayer still ahead today. Prayers already past are never scheduled. With --install, the pending set is cleared and the new triggers are registered.",
		RunE:  runPlan,
	}

	cmd.Flags().BoolVar(&flagPlanInstall, "install", false, "Clear pending triggers and install the planned set")

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
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

	triggers := notify.Plan(sched, now, resolver)

	if flagPlanInstall {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		deliverer := &notify.LogDeliverer{Log: log}
		if err := notify.Replace(deliverer, triggers); err != nil {
			return err
		}
	}

	if FlagJSON {
		data, err := json.MarshalIndent(triggers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(triggers) == 0 {
		fmt.Println("No prayers remaining today; nothing to schedule.")
		return nil
	}

	fmt.Printf("%d trigger(s) planned:\n", len(triggers))
	for _, t := range triggers {
		fmt.Printf("  %-24s %s  %s\n", t.ID, formatMoment(t.FireAt, cfg.TimeFormat), t.Prayer)
	}
	return nil
}
