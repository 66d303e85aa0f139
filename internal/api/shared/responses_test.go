package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]interface{}{
		"title":    "Sort donated clothes",
		"capacity": 3,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Sort donated clothes", response["title"])
	assert.Equal(t, float64(3), response["capacity"])
}

func TestRespondWithError(t *testing.T) {
	t.Run("carries reason and trace ID", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/tasks/abc/join", nil)
		req = req.WithContext(SetTraceID(req.Context()))
		w := httptest.NewRecorder()

		RespondWithError(w, req, http.StatusConflict, "This task is already full",
			WithReason("CAPACITY_EXCEEDED"))

		assert.Equal(t, http.StatusConflict, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "This task is already full", response.Error)
		assert.Equal(t, "CAPACITY_EXCEEDED", response.Reason)
		assert.Len(t, response.TraceID, 32)
	})

	t.Run("reason is omitted when empty", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
		w := httptest.NewRecorder()

		RespondWithError(w, req, http.StatusInternalServerError, "An unexpected error occurred")

		assert.NotContains(t, w.Body.String(), "reason")
	})
}

func TestRespondWithErrorAndLogHidesInternalError(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
	req = req.WithContext(context.WithValue(req.Context(), TraceIDKey, "test-trace"))
	w := httptest.NewRecorder()

	internal := errors.New("pq: password authentication failed for user postgres")
	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "An unexpected error occurred", internal)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "postgres")
	assert.NotContains(t, w.Body.String(), "password")

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "An unexpected error occurred", response.Error)
	assert.Equal(t, "test-trace", response.TraceID)
}
