package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CallsBuilt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amm_calls_built_total",
		Help: "Unsent contract calls built, by contract method",
	}, []string{"method"})

	ValidationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amm_validation_failures_total",
		Help: "Rejected build requests, by error kind",
	}, []string{"kind"})

	QuoteErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amm_quote_errors_total",
		Help: "Quotes that failed on the chain or transport",
	})

	QuoteLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "amm_quote_latency_seconds",
		Help:    "Time to obtain a swap quote",
		Buckets: prometheus.DefBuckets,
	})

	QuoteCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amm_quote_cache_total",
		Help: "Quote cache lookups, by result (hit, miss, error)",
	}, []string{"result"})

	FallbackCodeHash = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amm_fallback_code_hash_total",
		Help: "Pool derivations that used the protocol fallback code hash",
	}, []string{"protocol"})
)

func init() {
	prometheus.MustRegister(
		CallsBuilt,
		ValidationFailures,
		QuoteErrors,
		QuoteLatency,
		QuoteCache,
		FallbackCodeHash,
	)
}
