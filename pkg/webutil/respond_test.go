package webutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, map[string]any{"status": "healthy"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestRespondJSONWithStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSONWithStatus(rec, http.StatusServiceUnavailable, map[string]any{
		"error": "overloaded",
	})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"overloaded"}`, rec.Body.String())
}

func TestRespondErrorNil(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	require.False(t, RespondError(rec, req, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	require.True(t, RespondError(rec, req, errors.New("database gone")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// The response leaks an opaque error ID only, never the error itself.
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "ERROR: "), "body %q", body)
	assert.NotContains(t, body, "database gone")
}
