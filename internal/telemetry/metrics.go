// Package telemetry holds the Prometheus metrics exported by the bot.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type Metrics struct {
	Commands        *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	BreakDuration   *prometheus.HistogramVec
	ShiftDuration   prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics registers the bot metrics on reg. Pass prometheus.NewRegistry()
// in tests to avoid clashing with the default registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Commands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftbot_commands_total",
			Help: "Handled chat commands by outcome",
		}, []string{"command", "outcome"}),
		CommandDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shiftbot_command_duration_seconds",
			Help:    "Time spent handling a chat command",
			Buckets: prometheus.DefBuckets,
		}, []string{"command"}),
		BreakDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shiftbot_break_duration_seconds",
			Help:    "Length of closed breaks",
			Buckets: []float64{60, 300, 600, 900, 1800, 3600, 7200},
		}, []string{"kind"}),
		ShiftDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "shiftbot_shift_duration_seconds",
			Help:    "Total length of closed shifts",
			Buckets: []float64{3600, 4 * 3600, 6 * 3600, 8 * 3600, 10 * 3600, 12 * 3600, 16 * 3600},
		}),
		gatherer: reg,
	}
}

// ObserveCommand records one handled command. Safe on a nil receiver.
func (m *Metrics) ObserveCommand(command, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(command, outcome).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(took.Seconds())
}

func (m *Metrics) ObserveBreak(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.BreakDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) ObserveShift(d time.Duration) {
	if m == nil {
		return
	}
	m.ShiftDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
