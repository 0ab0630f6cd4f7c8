package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/motohunt/motohunt-api/internal/apperror"
)

// RequestLogger logs every request once with method, route, status,
// latency and caller.  Handler errors are rendered through c.Error first
// so the logged status is the one the client received.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			fields := logrus.Fields{
				"method":     req.Method,
				"path":       req.URL.Path,
				"route":      c.Path(),
				"status":     res.Status,
				"latency_ms": float64(time.Since(start).Microseconds()) / 1000,
				"remote_ip":  c.RealIP(),
				"bytes_out":  res.Size,
			}
			if id, ok := GetIdentity(c); ok {
				fields["user_id"] = id.ID
			}
			entry := log.WithFields(fields)
			if err != nil {
				entry = entry.WithError(err).WithField("kind", apperror.KindOf(err))
			}

			switch {
			case res.Status >= 500:
				entry.Error("request")
			case res.Status >= 400:
				entry.Warn("request")
			default:
				entry.Info("request")
			}
			return nil
		}
	}
}
