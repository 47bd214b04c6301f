package middleware

import (
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/embed-service/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// Metrics records request counts and latencies labelled by route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			if err != nil && !c.Response().Committed {
				c.Error(err)
			}
			status := c.Response().Status

			metrics.HttpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			metrics.HttpRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
