package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("BODY_LIMIT", "1K")
	app := NewApp()
	require.NoError(t, app.Initialize(t.Context()))
	return app
}

func TestAppRoutes(t *testing.T) {
	app := newTestApp(t)

	t.Run("Health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("Convert", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader(`{"data_json": "{\"data\": [[1, 2]]}"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		app.Echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "output.xlsx")
	})

	t.Run("BodyLimit", func(t *testing.T) {
		body := `{"data_json": {"data": [["` + strings.Repeat("x", 2048) + `"]]}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		app.Echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}
