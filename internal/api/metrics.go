package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speech_analysis_requests_total",
		Help: "HTTP requests handled, by endpoint and status code",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "speech_analysis_request_duration_seconds",
		Help:    "End-to-end request latency by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"endpoint"})

	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speech_analysis_analyses_total",
		Help: "Completed analyses, by test type and outcome",
	}, []string{"test_type", "outcome"})
)
