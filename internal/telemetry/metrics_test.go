package telemetry

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCommand(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveCommand("/meal", OutcomeOK, 10*time.Millisecond)
	m.ObserveCommand("/meal", OutcomeOK, 10*time.Millisecond)
	m.ObserveCommand("/back", OutcomeRejected, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Commands.WithLabelValues("/meal", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues("/back", OutcomeRejected)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveCommand("/start", OutcomeOK, time.Second)
	m.ObserveBreak("meal", time.Minute)
	m.ObserveShift(time.Hour)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveShift(8 * time.Hour)
	m.ObserveBreak("wc", 2*time.Minute)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "shiftbot_shift_duration_seconds_count 1")
	assert.Contains(t, rec.Body.String(), `shiftbot_break_duration_seconds_count{kind="wc"} 1`)
}
