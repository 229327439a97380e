// Package metrics exposes prometheus collectors describing compilations.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/viant/careflow/model/validation"
)

// Compilation outcomes
const (
	OutcomeValid    = "valid"
	OutcomeInvalid  = "invalid"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Collector records compilation counters and latencies
type Collector struct {
	compilations *prometheus.CounterVec
	issues       *prometheus.CounterVec
	duration     prometheus.Histogram
}

// NewCollector registers collectors with registerer; a nil registerer keeps them unregistered.
// Collectors already registered under the same names are reused, so services
// sharing a registerer report into one set of series.
func NewCollector(namespace string, registerer prometheus.Registerer) *Collector {
	factory := promauto.With(nil)
	ret := &Collector{
		compilations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compilations_total",
				Help:      "Total number of workflow compilations by outcome",
			},
			[]string{"outcome"},
		),
		issues: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_issues_total",
				Help:      "Total number of validation issues by code and severity",
			},
			[]string{"code", "severity"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compile_duration_seconds",
				Help:      "Workflow compilation duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
	}
	if registerer == nil {
		return ret
	}
	ret.compilations = register(registerer, ret.compilations)
	ret.issues = register(registerer, ret.issues)
	ret.duration = register(registerer, ret.duration)
	return ret
}

func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return collector
}

// RecordCompilation counts a compilation and its issues
func (c *Collector) RecordCompilation(outcome string, elapsed time.Duration, result *validation.Result) {
	if c == nil {
		return
	}
	c.compilations.WithLabelValues(outcome).Inc()
	c.duration.Observe(elapsed.Seconds())
	if result == nil {
		return
	}
	for _, issue := range result.Issues() {
		c.issues.WithLabelValues(issue.Code, string(issue.Severity)).Inc()
	}
}

// Outcome classifies a compilation
func Outcome(result *validation.Result, err error) string {
	switch {
	case err != nil && result != nil && !result.IsValid:
		return OutcomeRejected
	case err != nil:
		return OutcomeFailed
	case result != nil && !result.IsValid:
		return OutcomeInvalid
	}
	return OutcomeValid
}

// Compilations returns the compilation counter of outcome
func (c *Collector) Compilations(outcome string) prometheus.Counter {
	return c.compilations.WithLabelValues(outcome)
}
