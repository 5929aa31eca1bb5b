package cli

import (
	"fmt"
	"time"

	"github.com/prayerkit/prayerkit/internal/api"
	"github.com/prayerkit/prayerkit/internal/cache"
	"github.com/prayerkit/prayerkit/internal/config"
	"github.com/prayerkit/prayerkit/internal/geo"
)

// locationMode describes how the user specified their location.
type locationMode int

const (
	locationCoords locationMode = iota
	locationCity
	locationAuto
)

// resolvedLocation holds the result of location resolution.
type resolvedLocation struct {
	Mode     locationMode
	Lat, Lon float64
	City     string
	Country  string
	Timezone string // optional hint from geo-detection
}

// fetchResult holds the data returned from a prayer times fetch.
type fetchResult struct {
	Timings  api.Timings
	Meta     api.Meta
	DateInfo api.DateInfo
}

// resolveLocation determines the effective location based on user flags, config, or auto-detection.
// Priority: CLI flags > config > cached geolocation > IP auto-detect.
func resolveLocation(lat, lon float64, city, country string, c *cache.Cache) (resolvedLocation, error) {
	switch {
	case lat != 0 || lon != 0:
		return resolvedLocation{Mode: locationCoords, Lat: lat, Lon: lon}, nil
	case city != "":
		if country == "" {
			return resolvedLocation{}, fmt.Errorf("--country is required when using --city")
		}
		return resolvedLocation{Mode: locationCity, City: city, Country: country}, nil
	default:
		// Try cached geolocation first.
		if c != nil {
			if cached := c.LoadGeo(); cached != nil {
				return resolvedLocation{
					Mode:     locationCoords,
					Lat:      cached.Latitude,
					Lon:      cached.Longitude,
					Timezone: cached.Timezone,
				}, nil
			}
		}

		// Fall back to IP-based geolocation.
		detected, err := geo.NewDetector().Detect()
		if err != nil {
			return resolvedLocation{}, fmt.Errorf("no location specified and auto-detection failed: %w", err)
		}

		// Cache the detected location.
		if c != nil {
			_ = c.SaveGeo(detected) // best-effort
		}

		return resolvedLocation{
			Mode:     locationCoords,
			Lat:      detected.Latitude,
			Lon:      detected.Longitude,
			Timezone: detected.Timezone,
		}, nil
	}
}

// fetchOptions builds API options from the merged config.
func fetchOptions(cfg *config.Config) api.Options {
	return api.Options{
		Method: cfg.MethodOrDefault(-1),
		School: cfg.SchoolOrDefault(-1),
		Tune:   cfg.Tune,
	}
}

// fetchTimings returns prayer timings for the given date, using the cache when available.
func fetchTimings(date time.Time, loc resolvedLocation, opts api.Options, c *cache.Cache) (*fetchResult, error) {
	key := cache.Key{
		Date:    date,
		Lat:     loc.Lat,
		Lon:     loc.Lon,
		City:    loc.City,
		Country: loc.Country,
		Method:  opts.Method,
		School:  opts.School,
		Tune:    opts.Tune,
	}

	// Try cache first.
	if c != nil {
		if entry := c.LoadTimings(key); entry != nil {
			return &fetchResult{
				Timings:  entry.Timings,
				Meta:     entry.Meta,
				DateInfo: entry.DateInfo,
			}, nil
		}
	}

	// Cache miss -- fetch from API.
	client := api.NewClient()
	var (
		resp *api.Response
		err  error
	)

	switch loc.Mode {
	case locationCity:
		resp, err = client.FetchByCity(date, loc.City, loc.Country, opts)
	default:
		resp, err = client.FetchByCoordinates(date, loc.Lat, loc.Lon, opts)
	}

	if err != nil {
		return nil, err
	}

	// Write to cache (best-effort).
	if c != nil {
		_ = c.SaveTimings(key, resp)
	}

	return &fetchResult{
		Timings:  resp.Data.Timings,
		Meta:     resp.Data.Meta,
		DateInfo: resp.Data.Date,
	}, nil
}
