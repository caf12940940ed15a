package http

import (
	"strconv"
	"time"

	metrics "main/internal/metrics"
	"main/pkg/customerrors"
	errHandler "main/pkg/error_handler"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records the duration of every request labeled with
// method, route, and the status the error handler will report, and counts
// failures by error kind.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = errHandler.StatusFor(err)
				m.TotalErrors.WithLabelValues(customerrors.KindOf(err).String()).Inc()
			}

			m.RequestDuration.
				WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}
