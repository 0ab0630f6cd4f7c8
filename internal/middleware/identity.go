package middleware

// identity.go holds the typed accessors for the authenticated caller that
// SessionAuth stores in the echo context.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/motohunt/motohunt-api/internal/model"
)

const identityKey = "identity"

// Identity is the verified caller of a request.
type Identity struct {
	ID    int64
	Email string
	Role  model.Role
}

// SetIdentity attaches id to the request context.
func SetIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
}

// GetIdentity returns the identity set by SessionAuth.
func GetIdentity(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// userID returns the caller id for logs and rate limit keys, or "anon".
func userID(c echo.Context) string {
	if id, ok := GetIdentity(c); ok {
		return strconv.FormatInt(id.ID, 10)
	}
	return "anon"
}
