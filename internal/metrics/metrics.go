package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the metrics of reg, or of the default gatherer when reg is nil
func Handler(reg *prometheus.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// ObserveBuild records the outcome of building a call
func ObserveBuild(method, errKind string) {
	if errKind != "" {
		ValidationFailures.WithLabelValues(errKind).Inc()
		return
	}
	CallsBuilt.WithLabelValues(method).Inc()
}
