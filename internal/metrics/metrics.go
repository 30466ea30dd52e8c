// Package metrics holds the prometheus collectors for the HTTP API and the
// parse pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatlens_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatlens_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Pipeline metrics
	RecordsParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatlens_records_parsed_total",
			Help: "Total chat records parsed",
		},
	)

	NullTimestamps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatlens_null_timestamps_total",
			Help: "Total records whose timestamp could not be parsed",
		},
	)

	ParseFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatlens_parse_failures_total",
			Help: "Total exports that could not be analyzed",
		},
		[]string{"reason"}, // empty_input, no_timestamps, undecodable, no_chat_in_archive, strict_timestamp
	)

	ReportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatlens_report_duration_seconds",
			Help:    "Report assembly duration",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
	)
)
