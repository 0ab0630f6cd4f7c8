package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/motohunt/motohunt-api/internal/apperror"
	"github.com/motohunt/motohunt-api/internal/model"
	"github.com/motohunt/motohunt-api/internal/utils"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

// TokenVerifier decodes a session token.
type TokenVerifier interface {
	Verify(raw string) (*utils.Claims, error)
}

// SessionAuth returns an Echo middleware that reads the session cookie,
// verifies it and stores the caller's Identity in the context.  A request
// without the cookie is rejected as unauthenticated (401); a cookie that
// fails verification is rejected as token_invalid or token_expired (403).
func SessionAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return apperror.NewUnauthenticated()
			}

			claims, err := v.Verify(cookie.Value)
			switch {
			case err == nil:
			case errors.Is(err, utils.ErrTokenExpired):
				return apperror.NewTokenExpired()
			case errors.Is(err, utils.ErrMissingSecret):
				return apperror.NewConfig(err)
			default:
				return apperror.NewTokenInvalid()
			}

			// a signed token with a role outside the closed set is still invalid
			role, err := model.ParseRole(claims.Role)
			if err != nil || claims.ID <= 0 {
				return apperror.NewTokenInvalid()
			}
			SetIdentity(c, Identity{ID: claims.ID, Email: claims.Email, Role: role})
			return next(c)
		}
	}
}
