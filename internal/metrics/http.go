package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// unmatchedRoute labels requests no route matched, so arbitrary paths never
// become label values.
const unmatchedRoute = "unmatched"

// HTTPMetricsMiddleware records "<namespace>_http_requests_total" and
// "<namespace>_http_requests_duration_seconds" labeled by method, route
// pattern and status code. Record ids and blob keys stay out of the labels
// because the route pattern (/v1/records/:id/data/:key) is used, not the path.
// Liveness and readiness checks are not counted.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	requests, err := newTimedCounter(
		meterProvider.Meter(namespace),
		namespace+"_http_requests",
		"HTTP requests",
		"{request}",
	)
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := routeLabel(c.FullPath())
		if route == "/health" || route == "/ready" {
			return
		}

		requests.observe(c.Request.Context(), time.Since(start),
			attribute.String("method", c.Request.Method),
			attribute.String("route", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
	}
}

func routeLabel(fullPath string) string {
	if fullPath == "" {
		return unmatchedRoute
	}
	return fullPath
}
