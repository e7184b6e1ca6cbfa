package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for ShopsTotal.
const (
	OutcomeOffline    = "offline"
	OutcomeNotFound   = "place_not_found"
	OutcomeNoWebsite  = "no_website"
	OutcomeThirdParty = "third_party"
	OutcomeDirect     = "direct"
)

// Run holds the counters of a single batch run on its own registry, so the
// textfile only ever describes one run.
type Run struct {
	reg *prometheus.Registry

	ShopsTotal   *prometheus.CounterVec
	LookupsTotal *prometheus.CounterVec
	Duration     prometheus.Gauge
	LastRun      prometheus.Gauge
}

func NewRun() *Run {
	m := &Run{
		reg: prometheus.NewRegistry(),
		ShopsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopscout_shops_total",
				Help: "Shops written to the report, by outcome.",
			},
			[]string{"outcome"},
		),
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopscout_lookups_total",
				Help: "Places API calls, by endpoint and status.",
			},
			[]string{"endpoint", "status"},
		),
		Duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shopscout_run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shopscout_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}
	m.reg.MustRegister(m.ShopsTotal, m.LookupsTotal, m.Duration, m.LastRun)
	return m
}

func (m *Run) Shop(outcome string) {
	m.ShopsTotal.WithLabelValues(outcome).Inc()
}

func (m *Run) Lookup(endpoint, status string) {
	m.LookupsTotal.WithLabelValues(endpoint, status).Inc()
}

func (m *Run) Finish(took time.Duration, at time.Time) {
	m.Duration.Set(took.Seconds())
	m.LastRun.Set(float64(at.Unix()))
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Run) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

func (m *Run) Registry() *prometheus.Registry { return m.reg }
