// Package metrics exports cabinet activity to Prometheus.
package metrics

import (
	"clapshot/internal/assets"
	"clapshot/internal/events"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Spawns   *prometheus.CounterVec
	Hits     *prometheus.CounterVec
	Expiries prometheus.Counter
	Shots    prometheus.Counter
	Triggers prometheus.Counter
	Cabinets prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Spawns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clapshot_targets_spawned_total",
			Help: "Targets spawned, by asset.",
		}, []string{"asset"}),
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clapshot_targets_hit_total",
			Help: "Targets removed by a shot, by asset.",
		}, []string{"asset"}),
		Expiries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clapshot_targets_expired_total",
			Help: "Targets removed after outliving their lifetime.",
		}),
		Shots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clapshot_shots_total",
			Help: "Shots fired: the microphone went from quiet to above the trigger threshold.",
		}),
		Triggers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clapshot_audio_trigger_frames_total",
			Help: "Frames in which the microphone was above the trigger threshold.",
		}),
		Cabinets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clapshot_cabinets",
			Help: "Cabinets currently running.",
		}),
		gatherer: reg,
	}
	reg.MustRegister(m.Spawns, m.Hits, m.Expiries, m.Shots, m.Triggers, m.Cabinets)
	return m
}

func (m *Metrics) Observe(ev events.Event) {
	switch ev.Kind {
	case events.Spawn, events.Bonus:
		m.Spawns.WithLabelValues(assetLabel(ev.Target.Asset)).Inc()
	case events.Hit, events.Penalty:
		m.Hits.WithLabelValues(assetLabel(ev.Target.Asset)).Inc()
	case events.Expire:
		m.Expiries.Inc()
	case events.Shot:
		m.Shots.Inc()
	case events.Trigger:
		m.Triggers.Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func assetLabel(id assets.ID) string {
	if id == "" {
		return "unknown"
	}
	return string(id)
}
