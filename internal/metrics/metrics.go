// Package metrics exposes Prometheus instrumentation for the qiblad daemon.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the daemon's collectors, registered on a private registry so
// tests can create as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	PositionSamples   prometheus.Counter
	HeadingSamples    prometheus.Counter
	DroppedHeadings   prometheus.Counter
	BearingPublishes  prometheus.Counter
	TriggersInstalled prometheus.Gauge
	BearingAngle      prometheus.Gauge
	CurrentPrayer     *prometheus.GaugeVec
}

// New builds the collector set on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		PositionSamples: factory.NewCounter(prometheus.CounterOpts{
			Name: "qiblad_position_samples_total",
			Help: "Number of position samples received from the sensor feed.",
		}),
		HeadingSamples: factory.NewCounter(prometheus.CounterOpts{
			Name: "qiblad_heading_samples_total",
			Help: "Number of heading samples received from the sensor feed.",
		}),
		DroppedHeadings: factory.NewCounter(prometheus.CounterOpts{
			Name: "qiblad_dropped_headings_total",
			Help: "Heading samples discarded because no position fix was available.",
		}),
		BearingPublishes: factory.NewCounter(prometheus.CounterOpts{
			Name: "qiblad_bearing_publishes_total",
			Help: "Number of bearing updates published to subscribers.",
		}),
		TriggersInstalled: factory.NewGauge(prometheus.GaugeOpts{
			Name: "qiblad_triggers_installed",
			Help: "Number of prayer triggers currently installed.",
		}),
		BearingAngle: factory.NewGauge(prometheus.GaugeOpts{
			Name: "qiblad_bearing_angle_degrees",
			Help: "Most recently published Qibla bearing in degrees.",
		}),
		CurrentPrayer: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "qiblad_current_prayer",
			Help: "Set to 1 for the prayer currently in effect, 0 otherwise.",
		}, []string{"prayer"}),
	}
}

// SetCurrentPrayer marks name as the active prayer and clears all other
// labels.
func (m *Metrics) SetCurrentPrayer(name string) {
	m.CurrentPrayer.Reset()
	m.CurrentPrayer.WithLabelValues(name).Set(1)
}

// Handler returns an http.Handler serving the registry in the Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for test assertions.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
