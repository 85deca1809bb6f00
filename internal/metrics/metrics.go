package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "law_agent_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// CompletionDuration tracks upstream latency per handler and outcome.
	CompletionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "law_agent_completion_duration_seconds",
		Help:    "Time spent waiting on the upstream completion API.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"handler", "outcome"})

	// UpstreamFailures counts failed completions by handler and failure kind.
	UpstreamFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "law_agent_upstream_failures_total",
		Help: "Failed upstream completion calls by kind (status, malformed, transport, other).",
	}, []string{"handler", "kind"})

	// InputChars tracks the distribution of input text lengths.
	InputChars = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "law_agent_input_chars",
		Help:    "Number of characters in the user-supplied text or topic.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"handler"})

	// KeywordsExtracted counts framework responses with and without a keyword line.
	KeywordsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "law_agent_framework_keywords_total",
		Help: "Framework responses by whether a keyword line was found.",
	}, []string{"found"})

	// CredentialConfigured is 1 when the handler's upstream key is set.
	CredentialConfigured = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "law_agent_credential_configured",
		Help: "Whether a handler has an upstream API key configured (1) or not (0).",
	}, []string{"handler"})
)
