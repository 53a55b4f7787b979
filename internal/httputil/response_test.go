package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nutriva/brand-site-server/internal/errors"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError(t *testing.T) {
	t.Run("unauthorized maps to 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, apperrors.Unauthorized("Unauthorized"))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, body.Code)
		assert.Equal(t, "Unauthorized", body.Error)
	})

	t.Run("forbidden maps to 403", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, apperrors.Forbidden("Insufficient role"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("validation maps to 400 with details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, apperrors.ValidationError("bad").WithDetails(map[string]string{"field": "email"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotNil(t, decode(t, rec).Details)
	})

	t.Run("storage error hides cause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, apperrors.Storage(errors.New("dial tcp 10.0.0.5:5432: connection refused")))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		assert.Equal(t, apperrors.ErrCodeStorage, decode(t, rec).Code)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "boom")
		assert.Equal(t, apperrors.ErrCodeInternal, decode(t, rec).Code)
	})
}

func TestStatusFromCode(t *testing.T) {
	tests := map[apperrors.ErrorCode]int{
		apperrors.ErrCodeUnauthorized:      http.StatusUnauthorized,
		apperrors.ErrCodeForbidden:         http.StatusForbidden,
		apperrors.ErrCodeValidation:        http.StatusBadRequest,
		apperrors.ErrCodeMissingRequired:   http.StatusBadRequest,
		apperrors.ErrCodeNotFound:          http.StatusNotFound,
		apperrors.ErrCodeAlreadyExists:     http.StatusConflict,
		apperrors.ErrCodeConflict:          http.StatusConflict,
		apperrors.ErrCodeRateLimitExceeded: http.StatusTooManyRequests,
		apperrors.ErrCodeStorage:           http.StatusInternalServerError,
		apperrors.ErrorCode("SOMETHING"):   http.StatusInternalServerError,
	}
	for code, status := range tests {
		assert.Equal(t, status, StatusFromCode(code), string(code))
	}
}
