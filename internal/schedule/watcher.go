package schedule

import (
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/prayerkit/prayerkit/internal/clock"
)

// Watcher re-evaluates the current prayer on a fixed one-minute tick and
// reports transitions. The evaluation itself is the pure Current query;
// the watcher only adds the tick and change detection.
type Watcher struct {
	store *Store
	clk   clock.Clock
	log   zerolog.Logger

	cron *cron.Cron

	mu       sync.Mutex
	resolver Resolver
	current  uuid.UUID
	haveCur  bool
	onChange func(PrayerTime)
}

// NewWatcher creates a Watcher over the given store. The clock is injected
// so tests can drive Tick with a pinned instant.
func NewWatcher(store *Store, resolver Resolver, clk clock.Clock, log zerolog.Logger) *Watcher {
	return &Watcher{
		store:    store,
		resolver: resolver,
		clk:      clk,
		log:      log,
	}
}

// OnChange registers fn to be called whenever the current prayer changes.
// Must be set before Start.
func (w *Watcher) OnChange(fn func(PrayerTime)) {
	w.onChange = fn
}

// SetResolver swaps the resolver used by subsequent ticks. A schedule
// refresh that learns the timings' time zone calls this so moments are
// constructed on the right calendar day.
func (w *Watcher) SetResolver(r Resolver) {
	w.mu.Lock()
	w.resolver = r
	w.mu.Unlock()
}

// Start begins the one-minute evaluation loop. It runs one evaluation
// immediately so the first tick is not a minute away.
func (w *Watcher) Start() error {
	w.Tick()

	w.cron = cron.New()
	if _, err := w.cron.AddFunc("@every 1m", w.Tick); err != nil {
		return err
	}
	w.cron.Start()

	w.log.Info().Msg("prayer watcher started")
	return nil
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (w *Watcher) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	w.log.Info().Msg("prayer watcher stopped")
}

// Tick runs a single evaluation against the injected clock. Exported so
// tests and callers with their own scheduling can drive it directly.
func (w *Watcher) Tick() {
	now := w.clk.Now()

	w.mu.Lock()
	resolver := w.resolver
	w.mu.Unlock()

	p, ok := Current(w.store.Snapshot(), now, resolver)
	if !ok {
		w.log.Debug().Time("now", now).Msg("no resolvable prayers in schedule")
		return
	}

	w.mu.Lock()
	changed := !w.haveCur || w.current != p.ID
	if changed {
		w.current = p.ID
		w.haveCur = true
	}
	fn := w.onChange
	w.mu.Unlock()

	if changed {
		w.log.Info().Str("prayer", p.Name).Str("time_text", p.TimeText).Msg("current prayer changed")
		if fn != nil {
			fn(p)
		}
	}
}
