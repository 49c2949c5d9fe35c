// Package metrics holds the Prometheus collectors for session dispatch and
// persistence.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values
const (
	ResultApplied  = "applied"
	ResultNoop     = "noop"
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultRejected = "rejected"
)

// Dispatches counts actions run through the reducer, by action and
// whether the state changed.
var Dispatches = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tracker_dispatches_total",
		Help: "Total number of dispatched session actions",
	},
	[]string{"action", "result"},
)

// DispatchDuration observes how long a dispatch took, persistence included.
var DispatchDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "tracker_dispatch_duration_seconds",
		Help:    "Session dispatch duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"action"},
)

// Saves counts snapshot writes after retries are exhausted or succeed.
var Saves = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tracker_snapshot_saves_total",
		Help: "Total number of snapshot saves",
	},
	[]string{"result"},
)

// SaveAttempts counts every attempt, retries included.
var SaveAttempts = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "tracker_snapshot_save_attempts_total",
		Help: "Total number of snapshot save attempts",
	},
)

// Imports counts import requests by result.
var Imports = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tracker_imports_total",
		Help: "Total number of session imports",
	},
	[]string{"result"},
)

// RegisterMetrics registers the tracker collectors with reg. Panics if a
// collector is already registered.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Dispatches)
	reg.MustRegister(DispatchDuration)
	reg.MustRegister(Saves)
	reg.MustRegister(SaveAttempts)
	reg.MustRegister(Imports)
}

// RecordDispatch counts one action
func RecordDispatch(action string, changed bool) {
	result := ResultNoop
	if changed {
		result = ResultApplied
	}
	Dispatches.WithLabelValues(action, result).Inc()
}

// RecordDispatchDuration observes one dispatch
func RecordDispatchDuration(action string, d time.Duration) {
	DispatchDuration.WithLabelValues(action).Observe(d.Seconds())
}

// RecordSave counts a finished save
func RecordSave(err error) {
	if err != nil {
		Saves.WithLabelValues(ResultError).Inc()
		return
	}
	Saves.WithLabelValues(ResultSuccess).Inc()
}

// RecordSaveAttempt counts one write attempt
func RecordSaveAttempt() {
	SaveAttempts.Inc()
}

// RecordImport counts an import
func RecordImport(err error) {
	if err != nil {
		Imports.WithLabelValues(ResultRejected).Inc()
		return
	}
	Imports.WithLabelValues(ResultSuccess).Inc()
}
