// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package metrics provides Prometheus instrumentation for the query
// engine and its HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Query Engine Metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orrery_query_duration_seconds",
			Help:    "Duration of ephemeris and orientation queries in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"operation"}, // "translate", "rotate", "transform"
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orrery_query_errors_total",
			Help: "Total number of failed queries",
		},
		[]string{"operation", "error_type"}, // "no_data", "path", "capacity", "aberration"
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orrery_queries_total",
			Help: "Total number of queries served",
		},
		[]string{"operation"},
	)

	// Kernel Metrics
	KernelsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orrery_kernels_loaded",
			Help: "Number of kernels currently loaded",
		},
		[]string{"kind"}, // "spk", "bpc"
	)

	KernelLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orrery_kernel_load_duration_seconds",
			Help:    "Time spent parsing kernel files at startup",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)

	KernelLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orrery_kernel_load_errors_total",
			Help: "Total number of kernel files that failed to parse",
		},
		[]string{"kind"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orrery_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orrery_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orrery_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)
)

// RecordQuery records the outcome of a single engine query.
func RecordQuery(operation string, duration time.Duration, err error) {
	QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	QueriesTotal.WithLabelValues(operation).Inc()
	if err != nil {
		QueryErrors.WithLabelValues(operation, classifyError(err)).Inc()
	}
}

// RecordAPIRequest records HTTP request metrics.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordKernelLoad records a kernel parse at startup.
func RecordKernelLoad(kind string, duration time.Duration, err error) {
	KernelLoadDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if err != nil {
		KernelLoadErrors.WithLabelValues(kind).Inc()
	}
}

// SetKernelsLoaded updates the loaded-kernel gauges.
func SetKernelsLoaded(spk, bpc int) {
	KernelsLoaded.WithLabelValues("spk").Set(float64(spk))
	KernelsLoaded.WithLabelValues("bpc").Set(float64(bpc))
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
