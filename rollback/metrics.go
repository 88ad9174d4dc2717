package rollback

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts sync-test activity. Each Metrics owns its registry so
// several sessions can run side by side.
type Metrics struct {
	Registry   *prometheus.Registry
	frames     prometheus.Counter
	rollbacks  prometheus.Counter
	resimulate prometheus.Counter
	mismatches prometheus.Counter
	frame      prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "synctest",
			Name:      "frames_advanced_total",
			Help:      "Frames advanced by the session.",
		}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "synctest",
			Name:      "rollbacks_total",
			Help:      "Snapshots loaded to replay earlier frames.",
		}),
		resimulate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "synctest",
			Name:      "frames_resimulated_total",
			Help:      "Frames simulated again after a rollback.",
		}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "synctest",
			Name:      "checksum_mismatches_total",
			Help:      "Replayed frames whose checksum differed from the first run.",
		}),
		frame: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "synctest",
			Name:      "current_frame",
			Help:      "Latest confirmed frame.",
		}),
	}
	m.Registry.MustRegister(m.frames, m.rollbacks, m.resimulate, m.mismatches, m.frame)
	return m
}
