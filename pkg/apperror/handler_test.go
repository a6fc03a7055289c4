package apperror

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "response must have an error object")
	return errObj
}

func TestHTTPErrorHandler_AppError(t *testing.T) {
	handler := HTTPErrorHandler(slog.Default())
	c, rec := newTestContext(http.MethodGet)

	handler(NewNotFound("data object", "42"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	errObj := decodeError(t, rec)
	assert.Equal(t, "not_found", errObj["code"])
	assert.Equal(t, "data object '42' not found", errObj["message"])
}

func TestHTTPErrorHandler_ValidationDetails(t *testing.T) {
	handler := HTTPErrorHandler(slog.Default())
	c, rec := newTestContext(http.MethodPost)

	handler(NewValidation("missing required fields", map[string]any{"name": "is required"}), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errObj := decodeError(t, rec)
	assert.Equal(t, "validation_error", errObj["code"])
	details, ok := errObj["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	handler := HTTPErrorHandler(slog.Default())
	c, rec := newTestContext(http.MethodGet)

	handler(echo.NewHTTPError(http.StatusNotFound, "route not found"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	errObj := decodeError(t, rec)
	assert.Equal(t, "not_found", errObj["code"])
	assert.Equal(t, "route not found", errObj["message"])
}

func TestHTTPErrorHandler_UnknownError(t *testing.T) {
	handler := HTTPErrorHandler(slog.Default())
	c, rec := newTestContext(http.MethodGet)

	handler(errors.New("pq: deadlock detected"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	errObj := decodeError(t, rec)
	assert.Equal(t, "internal_error", errObj["code"])
	// Internal causes never leak to the client.
	assert.Equal(t, "An internal error occurred", errObj["message"])
}

func TestHTTPErrorHandler_HeadRequest(t *testing.T) {
	handler := HTTPErrorHandler(slog.Default())
	c, rec := newTestContext(http.MethodHead)

	handler(ErrConflict, c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}
