// Package qibla computes the compass angle from the device's position and
// heading toward the Kaaba.
package qibla

import (
	"sync"

	"github.com/rs/zerolog"
)

// The fixed great-circle target: the Kaaba.
const (
	TargetLatitude  = 21.4225
	TargetLongitude = 39.8262
)

// Position is a geographic fix in decimal degrees.
type Position struct {
	Latitude  float64
	Longitude float64
}

// fixState tags how much sensor data the engine has seen. Heading alone
// cannot produce a bearing, so the machine only publishes once a position
// exists.
type fixState int

const (
	noFix fixState = iota
	hasPosition
	hasPositionAndHeading
)

// Engine folds position and heading samples into a published Qibla angle.
//
// The engine performs no validation of its inputs: out-of-range coordinates
// or a NaN heading propagate through the trigonometry and into subscribers.
// Filtering malformed samples is the sensor feed's responsibility — see
// feed.Feed, which drops payloads it cannot decode.
//
// Samples may arrive on arbitrary goroutines (MQTT delivers on broker
// threads); a single mutex keeps each recompute exclusive. Recomputes are
// sub-millisecond and never block on I/O.
type Engine struct {
	mu       sync.Mutex
	state    fixState
	position Position
	heading  float64
	angle    float64
	subs     []func(float64)
	log      zerolog.Logger
}

// NewEngine creates an Engine with no fix. The angle is 0 until the first
// position sample arrives.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log}
}

// Subscribe registers fn to receive every published angle. Every successful
// recompute publishes, even when the numeric value is unchanged; consumers
// debounce or animate as they see fit. Subscribers are invoked synchronously
// and must not block.
func (e *Engine) Subscribe(fn func(float64)) {
	e.mu.Lock()
	e.subs = append(e.subs, fn)
	e.mu.Unlock()
}

// Angle returns the last published angle, 0 before the first fix.
func (e *Engine) Angle() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.angle
}

// HasFix reports whether at least one position sample has arrived.
func (e *Engine) HasFix() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != noFix
}

// OnPosition records a position sample and republishes the angle using the
// last known heading, or 0 if none has arrived yet.
func (e *Engine) OnPosition(lat, lon float64) {
	e.mu.Lock()
	e.position = Position{Latitude: lat, Longitude: lon}
	if e.state == noFix {
		e.state = hasPosition
	}
	angle, subs := e.recomputeLocked()
	e.mu.Unlock()

	e.publish(angle, subs)
}

// OnHeading records a heading sample in degrees clockwise from north and
// reports whether it produced a published angle. Without a position the
// sample is dropped and OnHeading returns false: there is no bearing to
// adjust, and the state machine has no heading-only state. The drop decision
// is made under the engine lock, so callers counting drops stay consistent
// with a concurrent first position sample.
func (e *Engine) OnHeading(degrees float64) bool {
	e.mu.Lock()
	if e.state == noFix {
		e.mu.Unlock()
		e.log.Debug().Float64("heading", degrees).Msg("heading sample before first fix, ignoring")
		return false
	}
	e.heading = degrees
	e.state = hasPositionAndHeading
	angle, subs := e.recomputeLocked()
	e.mu.Unlock()

	e.publish(angle, subs)
	return true
}

// recomputeLocked derives the angle from the current fix: great-circle
// initial bearing to the target, minus device heading, normalized to
// [0, 360). Caller holds e.mu.
func (e *Engine) recomputeLocked() (float64, []func(float64)) {
	heading := 0.0
	if e.state == hasPositionAndHeading {
		heading = e.heading
	}

	bearing := InitialBearing(e.position, Position{Latitude: TargetLatitude, Longitude: TargetLongitude})
	e.angle = Normalize(bearing - heading)

	subs := make([]func(float64), len(e.subs))
	copy(subs, e.subs)
	return e.angle, subs
}

func (e *Engine) publish(angle float64, subs []func(float64)) {
	e.log.Debug().Float64("angle", angle).Msg("qibla angle published")
	for _, fn := range subs {
		fn(angle)
	}
}
