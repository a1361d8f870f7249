package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	applogger "EconPull/pkg/logger"
)

// RequestLogging logs one line per request at debug, or warn when it
// exceeds slow. 5xx responses are logged by Metrics.
func RequestLogging(l *applogger.Logger, slow time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if l == nil {
				return err
			}

			latency := time.Since(start)
			fields := []applogger.Field{
				applogger.String("method", c.Request().Method),
				applogger.String("route", routeLabel(c)),
				applogger.Int("status", c.Response().Status),
				applogger.Duration("latency", latency),
				applogger.String("remote", c.RealIP()),
			}
			if slow > 0 && latency >= slow {
				l.Warn("http request slow", fields...)
				return err
			}
			l.Debug("http request", fields...)
			return err
		}
	}
}
