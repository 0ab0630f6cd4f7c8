package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/motohunt/motohunt-api/internal/apperror"
)

// Recovery turns a panicking handler into an internal_error response and
// logs the stack trace.
func Recovery(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(logrus.Fields{
						"panic":  fmt.Sprint(r),
						"stack":  string(debug.Stack()),
						"method": c.Request().Method,
						"path":   c.Request().URL.Path,
					}).Error("panic recovered")
					returnErr = apperror.NewInternal(fmt.Errorf("panic: %v", r))
				}
			}()
			return next(c)
		}
	}
}
