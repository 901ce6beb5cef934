package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCall(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordCall("login", OutcomeSuccess, 20*time.Millisecond)
	m.RecordCall("login", OutcomeSuccess, 30*time.Millisecond)
	m.RecordCall("login", OutcomeFailure, time.Millisecond)
	m.RecordCall("update_status", OutcomeDryRun, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("login", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("login", OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("update_status", OutcomeDryRun)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.callDuration))
}

func TestRecordSweep(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordSweep(OutcomeSuccess)
	m.RecordSweep(OutcomeFailure)
	m.RecordSweep(OutcomeSuccess)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sweepsTotal.WithLabelValues(OutcomeSuccess)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCall("login", OutcomeSuccess, time.Second)
		m.RecordSweep(OutcomeFailure)
	})
}
