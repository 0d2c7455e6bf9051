package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		textPromptTokens,
		textCallsLatencyMs,
		strategyFallbacks,
	)
}

var (
	textPromptTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "text_prompt_tokens",
			Help: "Sum of prompt tokens sent per provider/model (estimated where the provider does not report usage).",
		},
		[]string{"provider", "model"},
	)

	textCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "text_calls_latency_ms",
			Help:    "Text-generation call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"provider", "model", "success"},
	)

	strategyFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "strategy_fallbacks_total",
			Help: "Strategy generations that fell back to the deterministic template.",
		},
	)
)

func AddTextPromptTokens(provider, model string, n int) {
	if n > 0 {
		textPromptTokens.WithLabelValues(norm(provider), norm(model)).Add(float64(n))
	}
}

func ObserveTextCall(provider, model string, latencyMs int, success bool) {
	textCallsLatencyMs.WithLabelValues(norm(provider), norm(model), strconv.FormatBool(success)).Observe(float64(latencyMs))
}

func IncStrategyFallback() { strategyFallbacks.Inc() }
