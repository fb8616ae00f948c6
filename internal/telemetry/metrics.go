// Package telemetry instruments memory strategies and completers with
// Prometheus metrics and OpenTelemetry spans.
package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/pkg/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agentmem"

// Metrics holds the collectors shared by every instrumented component.
type Metrics struct {
	operations     *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	consolidations *prometheus.CounterVec
	contextChars   *prometheus.GaugeVec
	completions    *prometheus.CounterVec
	completionTime prometheus.Histogram
}

// NewMetrics registers the collectors with reg. Registering twice with the
// same registry panics, as with any duplicate Prometheus collector.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memory",
			Name:      "operations_total",
			Help:      "Memory operations by strategy, operation and result.",
		}, []string{"strategy", "op", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "memory",
			Name:      "operation_duration_seconds",
			Help:      "Latency of memory operations, model calls included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy", "op"}),
		consolidations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memory",
			Name:      "consolidation_failures_total",
			Help:      "Failed summarization or compression calls.",
		}, []string{"strategy", "op"}),
		contextChars: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "memory",
			Name:      "context_chars",
			Help:      "Length in characters of the last context produced.",
		}, []string{"strategy"}),
		completions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "completer",
			Name:      "calls_total",
			Help:      "Text completion calls by result.",
		}, []string{"result"}),
		completionTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "completer",
			Name:      "call_duration_seconds",
			Help:      "Latency of text completion calls.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// InstrumentStrategy returns s wrapped so every operation is counted and
// timed under the strategy's Name.
func InstrumentStrategy(s memory.Strategy, m *Metrics) memory.Strategy {
	return &meteredStrategy{Strategy: s, m: m}
}

type meteredStrategy struct {
	memory.Strategy
	m *Metrics
}

func (s *meteredStrategy) AddMessage(ctx context.Context, role message.Role, content string) error {
	start := time.Now()
	err := s.Strategy.AddMessage(ctx, role, content)
	s.observe("add_message", start, err)
	return err
}

func (s *meteredStrategy) Context(ctx context.Context, query string) (string, error) {
	start := time.Now()
	out, err := s.Strategy.Context(ctx, query)
	s.observe("context", start, err)
	if err == nil {
		s.m.contextChars.WithLabelValues(s.Name()).Set(float64(len([]rune(out))))
	}
	return out, err
}

func (s *meteredStrategy) Clear() {
	s.Strategy.Clear()
	s.m.operations.WithLabelValues(s.Name(), "clear", "ok").Inc()
	s.m.contextChars.WithLabelValues(s.Name()).Set(0)
}

func (s *meteredStrategy) observe(op string, start time.Time, err error) {
	name := s.Name()
	s.m.duration.WithLabelValues(name, op).Observe(time.Since(start).Seconds())
	s.m.operations.WithLabelValues(name, op, result(err)).Inc()

	var cerr *memory.ConsolidationError
	if errors.As(err, &cerr) {
		s.m.consolidations.WithLabelValues(name, cerr.Op).Inc()
	}
}

// InstrumentCompleter returns c wrapped so every call is counted and timed.
func InstrumentCompleter(c memory.Completer, m *Metrics) memory.Completer {
	return memory.CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
		start := time.Now()
		out, err := c.Complete(ctx, prompt)
		m.completionTime.Observe(time.Since(start).Seconds())
		m.completions.WithLabelValues(result(err)).Inc()
		return out, err
	})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
