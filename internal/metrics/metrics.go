// Package metrics exposes per-endpoint request and error counters.
package metrics

import (
	"net/http" // Status code threshold

	"github.com/gin-gonic/gin"                       // Gin web framework
	"github.com/prometheus/client_golang/prometheus" // Prometheus client
)

var (
	// EndpointCalls counts requests per endpoint
	EndpointCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "membership_endpoint_calls_total",              // Metric name
		Help: "Total number of calls per endpoint.",          // Metric help text
	}, []string{"endpoint"})
	// EndpointErrors counts failed (4xx/5xx) responses per endpoint
	EndpointErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "membership_errors_total",                       // Metric name
		Help: "Total number of error responses per endpoint.", // Metric help text
	}, []string{"endpoint"})
)

// Register registers the counters with the default Prometheus registry;
// called once from the server entrypoint
func Register() {
	prometheus.MustRegister(EndpointCalls)  // Register call counter
	prometheus.MustRegister(EndpointErrors) // Register error counter
}

// Middleware records a call per request and an error when the response
// status indicates failure
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()                 // Run the handler chain first so the status is final
		endpoint := c.FullPath() // Route template, empty for unmatched routes
		if endpoint == "" {
			endpoint = "unmatched" // Group unknown paths together
		}
		EndpointCalls.WithLabelValues(endpoint).Inc() // Count the call
		if c.Writer.Status() >= http.StatusBadRequest {
			EndpointErrors.WithLabelValues(endpoint).Inc() // Count the error
		}
	}
}
