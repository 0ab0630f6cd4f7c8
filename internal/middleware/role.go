package middleware // middleware provides shared request processing for handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/motohunt/motohunt-api/internal/apperror"
	"github.com/motohunt/motohunt-api/internal/model"
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  It must run after
// SessionAuth; a request without an identity is treated as
// unauthenticated and a role outside the set gets 403 forbidden.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := GetIdentity(c)
			if !ok {
				return apperror.NewUnauthenticated()
			}
			if !allowed[id.Role] {
				return apperror.NewForbidden("Insufficient privilege")
			}
			return next(c)
		}
	}
}
