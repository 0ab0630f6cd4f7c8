package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motohunt/motohunt-api/internal/apperror"
)

// newTestEcho returns an echo instance that renders AppErrors the way the
// API does, without depending on the handler package.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, map[string]string{"error": "http", "kind": "http"})
			return
		}
		_ = c.JSON(apperror.SafeCode(err), map[string]string{
			"error": apperror.SafeMessage(err),
			"kind":  string(apperror.KindOf(err)),
		})
	}
	return e
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func assertKind(t *testing.T, rec *httptest.ResponseRecorder, code int, kind apperror.Kind) {
	t.Helper()
	assert.Equal(t, code, rec.Code, rec.Body.String())
	assert.Equal(t, string(kind), decodeBody(t, rec)["kind"])
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
