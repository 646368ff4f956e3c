package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveLoad(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveLoad(8, 2, 150*time.Millisecond)
	m.LoadFailed()
	m.Query("states")
	m.Query("states")

	assert.Equal(t, 8.0, testutil.ToFloat64(m.rows.WithLabelValues("accepted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rows.WithLabelValues("rejected")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.records))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loadFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.queries.WithLabelValues("states")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLoad(1, 1, time.Second)
		m.LoadFailed()
		m.Query("stats")
	})
}
