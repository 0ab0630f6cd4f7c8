package handler // handler defines http handlers

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/motohunt/motohunt-api/internal/apperror"
	"github.com/motohunt/motohunt-api/internal/middleware"
	"github.com/motohunt/motohunt-api/internal/service"
)

// dbTimeout bounds the store work of a single request.
const dbTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// requester returns the caller identity set by SessionAuth.
func requester(c echo.Context) (service.Requester, error) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return service.Requester{}, apperror.NewUnauthenticated()
	}
	return service.Requester{ID: id.ID, Role: id.Role}, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || n <= 0 {
		return 0, apperror.NewValidation("Invalid " + name)
	}
	return n, nil
}

// flexID accepts an id sent either as a JSON number or as a numeric
// string, which is what HTML form values produce.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return apperror.NewValidation("bike_id must be an integer")
	}
	*f = flexID(n)
	return nil
}

// bind decodes the request body, mapping decode failures to
// validation_error.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		if appErr, ok := apperror.As(err); ok {
			return appErr
		}
		return apperror.NewValidation("Invalid request body")
	}
	return nil
}
