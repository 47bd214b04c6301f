package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embed_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embed_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// InferenceDuration covers one tokenize -> forward -> extract pass.
	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embed_inference_duration_seconds",
			Help:    "Duration of a single text encode in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"model"},
	)

	InferencesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "embed_inferences_in_flight",
			Help: "Number of encodes currently running",
		},
	)

	InferenceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embed_inference_errors_total",
			Help: "Number of encodes that failed in the model runtime",
		},
		[]string{"model"},
	)

	SkippedInputs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embed_skipped_inputs_total",
			Help: "Number of non-string batch elements ignored",
		},
	)

	ModelLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "embed_model_loaded",
			Help: "1 once the model handle is ready",
		},
		[]string{"model", "backend"},
	)
)
