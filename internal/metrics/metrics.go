// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records Prometheus metrics for scans, searches and
// service operations. A nil *Recorder is valid and records nothing, so
// components can run without metrics in tests and one-shot CLI commands.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "analytics_scout"

// Recorder holds the registered collectors.
type Recorder struct {
	registry *prometheus.Registry

	filesFetched  *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	candidates    *prometheus.CounterVec
	repoFailures  prometheus.Counter
	operations    *prometheus.CounterVec
	opDuration    *prometheus.HistogramVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.filesFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "files_fetched_total",
		Help:      "Files fetched from the code host, by component",
	}, []string{"component"})
	r.fetchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "file_failures_total",
		Help:      "Files that failed to fetch or extract, by component",
	}, []string{"component"})
	r.candidates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidates_extracted_total",
		Help:      "Event candidates extracted, by classification",
	}, []string{"classification"})
	r.repoFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "repositories_inaccessible_total",
		Help:      "Repositories skipped by the organization search because no branch resolved",
	})
	r.operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Service operations by name and outcome",
	}, []string{"operation", "outcome"})
	r.opDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Service operation latency",
		Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 180},
	}, []string{"operation"})

	r.registry.MustRegister(
		r.filesFetched, r.fetchFailures, r.candidates,
		r.repoFailures, r.operations, r.opDuration,
	)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// FileFetched counts one fetched file.
func (r *Recorder) FileFetched(component string) {
	if r == nil {
		return
	}
	r.filesFetched.WithLabelValues(component).Inc()
}

// FileFailed counts one file that failed to fetch or extract.
func (r *Recorder) FileFailed(component string) {
	if r == nil {
		return
	}
	r.fetchFailures.WithLabelValues(component).Inc()
}

// CandidateExtracted counts one candidate.
func (r *Recorder) CandidateExtracted(classification string) {
	if r == nil {
		return
	}
	r.candidates.WithLabelValues(classification).Inc()
}

// RepositoryInaccessible counts one repository dropped by branch discovery.
func (r *Recorder) RepositoryInaccessible() {
	if r == nil {
		return
	}
	r.repoFailures.Inc()
}

// Operation records the outcome and latency of one service operation.
func (r *Recorder) Operation(name string, ok bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	r.operations.WithLabelValues(name, outcome).Inc()
	r.opDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}
