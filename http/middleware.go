package http

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "tickets",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "path", "status"})

func useMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		status := c.Response().Status
		if err != nil {
			// the error handler has not written the response yet
			status, _ = errorResponse(err)
		}

		requestDuration.
			WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())

		return err
	}
}
