// internal/infrastructure/middleware/middleware_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

func TestRequestIDMiddleware(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Context().Value(requestIDKey)
		assert.NotNil(t, requestID)

		w.Write([]byte(requestID.(string)))
	})

	mw := RequestIDMiddleware(nextHandler)

	// No existing request ID: one gets generated
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	mw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	requestID := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, w.Body.String())

	// Existing request ID is preserved
	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "test-id-123")
	w = httptest.NewRecorder()

	mw.ServeHTTP(w, req)

	assert.Equal(t, "test-id-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "test-id-123", w.Body.String())
}

func TestGetRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), requestIDKey, "test-id-123")
	assert.Equal(t, "test-id-123", GetRequestID(ctx))

	assert.Equal(t, "unknown", GetRequestID(context.Background()))
}

func TestCORSMiddleware(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw := CORSMiddleware(nextHandler)

	t.Run("Sets the allow-origin header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/rates", nil)
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Answers preflight without calling the handler", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/rates", nil)
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestMiddlewareChain(t *testing.T) {
	log := logger.NewNop()

	finalHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := GetRequestID(r.Context())
		w.Write([]byte(requestID))
	})

	chain := RequestIDMiddleware(LoggingMiddleware(log)(finalHandler))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "test-id-123")
	w := httptest.NewRecorder()

	chain.ServeHTTP(w, req)

	assert.Equal(t, "test-id-123", w.Body.String())
}
