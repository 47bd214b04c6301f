package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthCheckerFunc adapts a plain function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) bool

func (f HealthCheckerFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

type ReadinessStatus struct {
	Status string `json:"status"`
}

// ReadinessHandler answers 200 while every checker is healthy and 503 otherwise.
func ReadinessHandler(checkers ...HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		for _, hc := range checkers {
			if !hc.Healthy(c.Request().Context()) {
				return c.JSON(http.StatusServiceUnavailable, ReadinessStatus{Status: "unready"})
			}
		}
		return c.JSON(http.StatusOK, ReadinessStatus{Status: "ready"})
	}
}
