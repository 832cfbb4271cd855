package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noratrieb/qotdd/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestMapDomainError tests the error mapping with all domain error types.
func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "RateLimitedError returns 429",
			err:            domain.NewRateLimitedError("192.0.2.1"),
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   ErrorCodeRateLimited,
		},
		{
			name:           "UnavailableError returns 503",
			err:            domain.NewUnavailableError("quote-store", "not loaded"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   ErrorCodeUnavailable,
		},
		{
			name:           "LoadError returns 503",
			err:            domain.NewLoadError("/etc/qotdd/quotes.txt", "no quotes found", nil),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   ErrorCodeUnavailable,
		},
		{
			name:           "unknown error returns 500 with generic message",
			err:            errors.New("something broke"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := mapDomainError(tt.err)

			assert.Equal(t, tt.expectedStatus, status)

			require.NotNil(t, resp)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)

			if tt.expectedCode == ErrorCodeInternal {
				assert.Equal(t, "an internal error occurred", resp.Error.Message)
				assert.NotContains(t, resp.Error.Message, "something broke")
			}
		})
	}
}

func TestHandleError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/quotes/next", nil)

	HandleError(c, domain.NewRateLimitedError("192.0.2.1"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeRateLimited, resp.Error.Code)
	assert.Empty(t, resp.TraceID, "untraced requests carry no trace id")
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeRateLimited, http.StatusTooManyRequests},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatusFromCode(tt.code))
		})
	}
}
