// qiblad is the long-running daemon: it consumes position and heading
// samples from an MQTT sensor feed, maintains the Qibla bearing, broadcasts
// bearing updates over WebSocket, tracks the current prayer on a one-minute
// tick, and re-plans notification triggers whenever the schedule changes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/prayerkit/prayerkit/internal/api"
	"github.com/prayerkit/prayerkit/internal/cache"
	"github.com/prayerkit/prayerkit/internal/clock"
	"github.com/prayerkit/prayerkit/internal/config"
	"github.com/prayerkit/prayerkit/internal/feed"
	"github.com/prayerkit/prayerkit/internal/geo"
	"github.com/prayerkit/prayerkit/internal/hub"
	"github.com/prayerkit/prayerkit/internal/metrics"
	"github.com/prayerkit/prayerkit/internal/notify"
	"github.com/prayerkit/prayerkit/internal/qibla"
	"github.com/prayerkit/prayerkit/internal/schedule"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("service", "qiblad").Logger()

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("daemon exited")
	}
}

// settings holds the daemon's effective configuration: config file values
// overridden by QIBLAD_* environment variables.
type settings struct {
	Latitude      float64
	Longitude     float64
	City          string
	Country       string
	Method        int
	School        int
	Tune          string
	CacheDir      string
	BrokerURL     string
	PositionTopic string
	HeadingTopic  string
	WSListen      string
	MetricsListen string
}

func loadSettings() (settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return settings{}, err
	}
	defaults := config.Defaults()

	s := settings{
		Latitude:      cfg.Latitude,
		Longitude:     cfg.Longitude,
		City:          cfg.City,
		Country:       cfg.Country,
		Method:        cfg.MethodOrDefault(*defaults.Method),
		School:        cfg.SchoolOrDefault(*defaults.School),
		Tune:          cfg.Tune,
		CacheDir:      cfg.CacheDir,
		BrokerURL:     cfg.MQTTBroker,
		PositionTopic: cfg.PositionTopic,
		HeadingTopic:  cfg.HeadingTopic,
		WSListen:      cfg.WSListen,
		MetricsListen: cfg.MetricsListen,
	}
	if s.Tune == "" {
		s.Tune = defaults.Tune
	}

	// Environment overrides.
	s.BrokerURL = envOr("QIBLAD_MQTT_BROKER", s.BrokerURL)
	s.PositionTopic = envOr("QIBLAD_POSITION_TOPIC", s.PositionTopic)
	s.HeadingTopic = envOr("QIBLAD_HEADING_TOPIC", s.HeadingTopic)
	s.WSListen = envOr("QIBLAD_WS_LISTEN", s.WSListen)
	s.MetricsListen = envOr("QIBLAD_METRICS_LISTEN", s.MetricsListen)
	if v := os.Getenv("QIBLAD_LATITUDE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Latitude = f
		}
	}
	if v := os.Getenv("QIBLAD_LONGITUDE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Longitude = f
		}
	}

	if s.WSListen == "" {
		s.WSListen = ":8080"
	}
	return s, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(log zerolog.Logger) error {
	log.Info().Str("version", version).Msg("starting")

	s, err := loadSettings()
	if err != nil {
		return err
	}

	m := metrics.New()

	// Engine publishes to the WebSocket hub and the bearing gauge.
	engine := qibla.NewEngine(log.With().Str("component", "qibla").Logger())
	bearingHub := hub.New(log.With().Str("component", "hub").Logger())
	go bearingHub.Run()

	engine.Subscribe(func(angle float64) {
		bearingHub.BroadcastBearing(angle)
		m.BearingPublishes.Inc()
		m.BearingAngle.Set(angle)
	})

	// Seed the first position fix. Config coordinates win; otherwise
	// IP geolocation is a best-effort fallback until the sensor feed
	// delivers a real fix.
	if s.Latitude != 0 || s.Longitude != 0 {
		engine.OnPosition(s.Latitude, s.Longitude)
		m.PositionSamples.Inc()
	} else if loc, err := geo.NewDetector().Detect(); err == nil {
		log.Info().Float64("lat", loc.Latitude).Float64("lon", loc.Longitude).Msg("seeded position from IP geolocation")
		engine.OnPosition(loc.Latitude, loc.Longitude)
		m.PositionSamples.Inc()
	} else {
		log.Warn().Err(err).Msg("no position seed; waiting for sensor feed")
	}

	// Sensor feed (optional; the daemon still serves schedule and the
	// seeded bearing without a broker).
	var sensorFeed *feed.Feed
	if s.BrokerURL != "" {
		sensorFeed = feed.New(feed.Config{
			BrokerURL:     s.BrokerURL,
			ClientID:      "qiblad",
			PositionTopic: s.PositionTopic,
			HeadingTopic:  s.HeadingTopic,
		}, countingSink{engine: engine, metrics: m}, log.With().Str("component", "feed").Logger())

		if err := sensorFeed.Start(); err != nil {
			return fmt.Errorf("sensor feed: %w", err)
		}
		defer sensorFeed.Stop()
	} else {
		log.Info().Msg("no MQTT broker configured; sensor feed disabled")
	}

	// Daily schedule, refreshed at midnight. The resolver's zone follows
	// the fetched timings' Meta.Timezone, so a daemon running in UTC still
	// anchors a remote city's moments on its local calendar day.
	store := schedule.NewStore(nil)
	c, err := cache.New(s.CacheDir)
	if err != nil {
		log.Warn().Err(err).Msg("cache disabled")
		c = nil
	}

	apiClient := api.NewClient()
	watcher := schedule.NewWatcher(store, schedule.Resolver{}, clock.Real{}, log.With().Str("component", "watcher").Logger())

	var resolverMu sync.Mutex
	resolver := schedule.Resolver{}
	currentResolver := func() schedule.Resolver {
		resolverMu.Lock()
		defer resolverMu.Unlock()
		return resolver
	}

	refresh := func() {
		loc, err := refreshSchedule(apiClient, store, s, c, log)
		if err != nil {
			log.Error().Err(err).Msg("schedule refresh failed")
			return
		}
		if loc != nil {
			resolverMu.Lock()
			resolver.Location = loc
			r := resolver
			resolverMu.Unlock()
			watcher.SetResolver(r)
		}
	}
	refresh()

	cr := cron.New()
	if _, err := cr.AddFunc("@daily", refresh); err != nil {
		return err
	}
	cr.Start()
	defer cr.Stop()

	// Trigger delivery: over MQTT when a broker is present, logged otherwise.
	var deliverer notify.Deliverer = notify.LogDeliverer{Log: log.With().Str("component", "notify").Logger()}
	if sensorFeed != nil {
		deliverer = notify.MQTTDeliverer{
			Client: sensorFeed.Client(),
			Log:    log.With().Str("component", "notify").Logger(),
		}
	}

	replan := func() {
		triggers := notify.Plan(store.Snapshot(), time.Now(), currentResolver())
		if err := notify.Replace(deliverer, triggers); err != nil {
			log.Error().Err(err).Msg("trigger replacement failed")
			return
		}
		m.TriggersInstalled.Set(float64(len(triggers)))
		log.Info().Int("count", len(triggers)).Msg("triggers replaced")
	}
	replan()

	// Current-prayer watcher: one-minute tick, change detection.
	watcher.OnChange(func(p schedule.PrayerTime) {
		m.SetCurrentPrayer(p.Name)
		replan()
	})
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	// HTTP surface: WebSocket bearing stream, health, and metrics.
	mux := http.NewServeMux()
	mux.Handle("/ws", bearingHub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	servers := []*http.Server{}

	if s.MetricsListen == "" || s.MetricsListen == s.WSListen {
		mux.Handle("/metrics", m.Handler())
	} else {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", m.Handler())
		servers = append(servers, &http.Server{Addr: s.MetricsListen, Handler: metricsMux})
	}
	servers = append(servers, &http.Server{Addr: s.WSListen, Handler: mux})

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("http server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		_ = srv.Shutdown(shutdownCtx)
	}

	log.Info().Msg("stopped")
	return nil
}

// countingSink forwards sensor samples to the engine while keeping the
// per-sample counters.
type countingSink struct {
	engine  *qibla.Engine
	metrics *metrics.Metrics
}

func (cs countingSink) OnPosition(lat, lon float64) {
	cs.metrics.PositionSamples.Inc()
	cs.engine.OnPosition(lat, lon)
}

func (cs countingSink) OnHeading(degrees float64) {
	cs.metrics.HeadingSamples.Inc()
	if !cs.engine.OnHeading(degrees) {
		cs.metrics.DroppedHeadings.Inc()
	}
}

// refreshSchedule fetches today's timings, swaps the store contents, and
// returns the timings' time zone from the response metadata. The location
// is nil when the metadata carries no loadable zone.
func refreshSchedule(client *api.Client, store *schedule.Store, s settings, c *cache.Cache, log zerolog.Logger) (*time.Location, error) {
	now := time.Now()
	opts := api.Options{Method: s.Method, School: s.School, Tune: s.Tune}

	key := cache.Key{
		Date:    now,
		Lat:     s.Latitude,
		Lon:     s.Longitude,
		City:    s.City,
		Country: s.Country,
		Method:  opts.Method,
		School:  opts.School,
		Tune:    opts.Tune,
	}

	var (
		timings  *api.Timings
		timezone string
	)
	if c != nil {
		if entry := c.LoadTimings(key); entry != nil {
			timings = &entry.Timings
			timezone = entry.Meta.Timezone
		}
	}

	if timings == nil {
		var (
			resp *api.Response
			err  error
		)
		if s.City != "" && s.Country != "" {
			resp, err = client.FetchByCity(now, s.City, s.Country, opts)
		} else {
			resp, err = client.FetchByCoordinates(now, s.Latitude, s.Longitude, opts)
		}
		if err != nil {
			return nil, err
		}
		if c != nil {
			_ = c.SaveTimings(key, resp) // best-effort
		}
		timings = &resp.Data.Timings
		timezone = resp.Data.Meta.Timezone
	}

	store.Replace(schedule.FromTimings(*timings))
	log.Info().Str("fajr", timings.Fajr).Str("isha", timings.Isha).Str("timezone", timezone).Msg("schedule refreshed")

	if timezone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warn().Str("timezone", timezone).Err(err).Msg("cannot load timings time zone, using local")
		return nil, nil
	}
	return loc, nil
}
