package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetricsMiddleware records request count, latency and in-flight requests per route pattern.
// Websocket upgrades are counted when the stream closes.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passThrough
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return passThrough
	}

	inFlight, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_http_requests_in_flight", namespace),
		metric.WithDescription("HTTP requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passThrough
	}

	return func(c *gin.Context) {
		start := time.Now()
		route := routeLabel(c.FullPath())
		ctx := c.Request.Context()

		routeAttr := metric.WithAttributes(attribute.String("path", route))
		inFlight.Add(ctx, 1, routeAttr)
		defer inFlight.Add(ctx, -1, routeAttr)

		c.Next()

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		requestCounter.Add(ctx, 1, attrs)
		durationHisto.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

func passThrough(c *gin.Context) {
	c.Next()
}

// routeLabel keeps label cardinality bounded: unmatched requests share one label.
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
