package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/prayerkit/prayerkit/internal/cache"
	"github.com/prayerkit/prayerkit/internal/qibla"
	"github.com/spf13/cobra"
)

var flagQiblaHeading float64

func newQiblaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qibla",
		Short: "Show the Qibla bearing from your location",
		Long:  "Compute the great-circle bearing from your location to the Kaaba. With --heading, the bearing is adjusted relative to the direction you are facing.",
		RunE:  runQibla,
	}

	cmd.Flags().Float64Var(&flagQiblaHeading, "heading", 0, "Compass heading in degrees to adjust the bearing against")

	return cmd
}

func runQibla(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		c = nil
		fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
	}

	loc, err := resolveLocation(cfg.Latitude, cfg.Longitude, cfg.City, cfg.Country, c)
	if err != nil {
		return err
	}
	if loc.Mode == locationCity {
		return fmt.Errorf("qibla requires coordinates; set --latitude/--longitude or let auto-detection run")
	}

	bearing := qibla.InitialBearing(
		qibla.Position{Latitude: loc.Lat, Longitude: loc.Lon},
		qibla.Position{Latitude: qibla.TargetLatitude, Longitude: qibla.TargetLongitude},
	)

	heading := 0.0
	if cmd.Flags().Changed("heading") {
		heading = flagQiblaHeading
	}
	angle := qibla.Normalize(bearing - heading)

	if FlagJSON {
		out := struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Heading   float64 `json:"heading"`
			Bearing   float64 `json:"bearing"`
			Angle     float64 `json:"qibla_angle"`
		}{loc.Lat, loc.Lon, heading, bearing, angle}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Qibla bearing: %.1f°\n", angle)
	return nil
}
