package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/cementops-poc/server/internal/core/error"
)

func TestHealth(t *testing.T) {
	t.Run("unnamed", func(t *testing.T) {
		e := New("kiln-vision", "")

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.NotContains(t, body, "service")
	})

	t.Run("named", func(t *testing.T) {
		e := New("recommend", "llm-prescriptive-recommendations")

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "llm-prescriptive-recommendations", body["service"])
	})
}

func TestCORSPreflight(t *testing.T) {
	e := New("test", "")
	e.POST("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set(echo.HeaderOrigin, "https://dashboard.example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPost)
}

func TestRequestLoggerRecordsErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	e := New("test", "")
	e.POST("/", func(c echo.Context) error { return errx.BadRequest("bad payload") })

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var entry struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, http.StatusBadRequest, entry.Status)
}

func TestErrorHandlerMapsAppError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantError   string
		wantMessage string
	}{
		{
			name:       "validation error",
			err:        errx.BadRequest("missing required key 'image_data_b64'"),
			wantStatus: http.StatusBadRequest,
			wantError:  "missing required key 'image_data_b64'",
		},
		{
			name:       "unavailable endpoint",
			err:        errx.Unavailable("prediction service is unavailable"),
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "prediction service is unavailable",
		},
		{
			name:        "internal error with hint",
			err:         errx.Internal(assert.AnError, assert.AnError.Error()).WithHint("The engine encountered an error."),
			wantStatus:  http.StatusInternalServerError,
			wantError:   assert.AnError.Error(),
			wantMessage: "The engine encountered an error.",
		},
		{
			name:       "unexpected fault",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantError:  errx.SystemErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New("test", "")
			e.POST("/", func(c echo.Context) error { return tt.err })

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}
