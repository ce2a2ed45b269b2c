package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qfast/qfast/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.EFORBIDDEN, http.StatusForbidden},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.ETOOLARGE, http.StatusRequestEntityTooLarge},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{"something_else", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestErrorResponseJSONBody(t *testing.T) {
	rec := httptest.NewRecorder()

	ErrorResponse(rec, testLogger(), domain.Conflict("client.create", "A client with this company name already exists"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.ECONFLICT, body.Error.Code)
	assert.Equal(t, "A client with this company name already exists", body.Error.Message)
}

func TestErrorResponseHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	ErrorResponse(rec, testLogger(), domain.Internal(assert.AnError, "quote.create", "insert failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	assert.NotContains(t, rec.Body.String(), "insert failed")
}

func TestErrorResponseValidationViolations(t *testing.T) {
	rec := httptest.NewRecorder()

	err := domain.NewValidationError("quote.create", []string{
		"Quote number is required",
		"Client company name is required",
	})
	ErrorResponse(rec, testLogger(), err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Code       string   `json:"code"`
			Violations []string `json:"violations"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.EINVALID, body.Error.Code)
	assert.Len(t, body.Error.Violations, 2, "every violated rule is reported")
}
