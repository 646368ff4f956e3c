package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "brazilgas"

// Metrics groups the collectors for dataset loads and view queries.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	rows         *prometheus.CounterVec
	loadFailures prometheus.Counter
	loadDuration prometheus.Histogram
	records      prometheus.Gauge
	queries      *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_parsed_total",
			Help:      "Survey rows parsed, by outcome.",
		}, []string{"outcome"}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_failures_total",
			Help:      "Dataset loads that ended in an error.",
		}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time to fetch and parse the survey file.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Records in the currently served dataset.",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_queries_total",
			Help:      "Aggregation view computations, by view.",
		}, []string{"view"}),
	}
	reg.MustRegister(m.rows, m.loadFailures, m.loadDuration, m.records, m.queries)
	return m
}

// ObserveLoad records a successful load.
func (m *Metrics) ObserveLoad(accepted, rejected int, took time.Duration) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues("accepted").Add(float64(accepted))
	m.rows.WithLabelValues("rejected").Add(float64(rejected))
	m.loadDuration.Observe(took.Seconds())
	m.records.Set(float64(accepted))
}

// LoadFailed counts a failed load.
func (m *Metrics) LoadFailed() {
	if m == nil {
		return
	}
	m.loadFailures.Inc()
}

// Query counts one computation of the named view.
func (m *Metrics) Query(view string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(view).Inc()
}
