package middleware

import (
	"strconv"
	"time"

	"github.com/ErlanBelekov/auth-service/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records latency and counts per route template. Unmatched paths
// share one label so scanners cannot blow up cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		labels := []string{c.Request.Method, routeLabel(c), strconv.Itoa(c.Writer.Status())}
		metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
	}
}

func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}
