package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/motohunt/motohunt-api/internal/apperror"
)

type errorBody struct {
	Error string        `json:"error"`
	Kind  apperror.Kind `json:"kind"`
}

// NewHTTPErrorHandler returns the echo error handler: the single place
// where errors become responses.  AppErrors keep their kind and code, echo
// HTTPErrors (unknown route, wrong method, bad body) are mapped onto the
// nearest kind, and anything else becomes internal_error with a generic
// message.  Server-side failures are logged with their cause.
func NewHTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// rendered is always an AppError; err keeps the original cause
		var rendered error = err
		if _, ok := apperror.As(err); !ok {
			rendered = fromHTTPError(err)
		}
		code := apperror.SafeCode(rendered)
		kind := apperror.KindOf(rendered)
		if code >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"kind":   kind,
				"method": c.Request().Method,
				"path":   c.Request().URL.Path,
			}).Error("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, errorBody{Error: apperror.SafeMessage(rendered), Kind: kind})
		}
		if werr != nil {
			log.WithError(werr).Warn("write error response")
		}
	}
}

func fromHTTPError(err error) *apperror.AppError {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return apperror.NewInternal(err)
	}
	msg := http.StatusText(he.Code)
	switch he.Code {
	case http.StatusNotFound:
		return apperror.NewNotFound("Route not found")
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		e := apperror.NewValidation("Invalid request")
		e.Code = he.Code
		return e
	case http.StatusUnauthorized:
		return apperror.NewUnauthenticated()
	case http.StatusForbidden:
		return apperror.NewForbidden(msg)
	case http.StatusTooManyRequests:
		return apperror.NewRateLimited()
	case http.StatusMethodNotAllowed:
		e := apperror.NewNotFound(msg)
		e.Code = he.Code
		return e
	}
	if he.Code >= http.StatusInternalServerError {
		return apperror.NewInternal(err)
	}
	e := apperror.NewValidation(msg)
	e.Code = he.Code
	return e
}
