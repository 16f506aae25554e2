package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() *ErrorHandler {
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return NewErrorHandler(logger, false)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleErrorAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
	}{
		{
			name:       "layer_not_found",
			err:        New(http.StatusNotFound, "LAYER_NOT_FOUND", "Layer not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeLayerNotFound,
			wantCode:   "LAYER_NOT_FOUND",
		},
		{
			name:       "zone_not_found",
			err:        New(http.StatusNotFound, "ZONE_NOT_FOUND", "Zone not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeZoneNotFound,
			wantCode:   "ZONE_NOT_FOUND",
		},
		{
			name:       "validation",
			err:        ErrValidation("period", "must be monthly or yearly"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "store_failure",
			err:        StoreError("latest values", errors.New("connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeStoreFailure,
			wantCode:   "STORE_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHandler()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.wantCode, body["error_code"])
			assert.Equal(t, "/api/test", body["instance"])
		})
	}
}

func TestHandleErrorUnmappedErrorIsInternal(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)

	h.HandleError(rec, req, errors.New("something broke"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, body["type"])
	// Internal details never leak to the client.
	assert.NotContains(t, rec.Body.String(), "something broke")
}

func TestHandleErrorContextTimeout(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/slow", nil)

	h.HandleError(rec, req, fmt.Errorf("query: %w", context.DeadlineExceeded))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeTimeout, body["type"])
}

func TestHandlePanic(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)

	h.HandlePanic(rec, req, "boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, body["type"])
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := testHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	h.NotFound(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/layers", nil)
	h.MethodNotAllowed(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := testHandler()

	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler exploded")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	RecoveryMiddleware(h)(panicky).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "gone", "/api/x").
		WithExtension("error_code", "NOT_FOUND")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "NOT_FOUND", body["error_code"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
}

func TestAPIErrorHelpers(t *testing.T) {
	err := NotFoundError("zone")
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "zone not found", err.Message)

	verr := ErrValidation("region", "matches no zones")
	details, ok := verr.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "region", details.Field)
}
