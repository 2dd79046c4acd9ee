package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staffdir/employee-directory/internal/api/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request count and latency per route pattern.
//
// Handler errors are rendered here through c.Error so the recorded status is
// the one the client receives; the error is still returned for outer
// middleware, and the error handler ignores already committed responses.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
