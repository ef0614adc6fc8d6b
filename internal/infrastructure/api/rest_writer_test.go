package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

func TestRESTWriterInsert(t *testing.T) {
	ctx := context.Background()
	reading := &entity.RateReading{
		Vedhani:      "7250",
		Ornaments22K: "6700",
		Ornaments18K: "5500",
		Silver:       "92000",
	}

	t.Run("Posts the reading and returns the representation", func(t *testing.T) {
		var gotPrefer, gotToken string
		var gotBody restRateRow
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/rates", r.URL.Path)
			gotPrefer = r.Header.Get("Prefer")
			gotToken = r.Header.Get("X-Stack-Access-Token")
			json.NewDecoder(r.Body).Decode(&gotBody)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`[{"vedhani":"7250","ornaments22k":"6700","ornaments18k":"5500","silver":"92000"}]`))
		}))
		defer server.Close()

		writer := NewRESTWriter(server.URL, "secret-token", server.Client(), logger.NewNop())
		saved, err := writer.Insert(ctx, reading)

		require.NoError(t, err)
		assert.Equal(t, "return=representation", gotPrefer)
		assert.Equal(t, "secret-token", gotToken)
		assert.Equal(t, "7250", gotBody.Vedhani)
		assert.Equal(t, "7250", saved.Vedhani)
		assert.Equal(t, "92000", saved.Silver)
	})

	t.Run("Echoes the input when no representation comes back", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		writer := NewRESTWriter(server.URL, "", server.Client(), logger.NewNop())
		saved, err := writer.Insert(ctx, reading)

		require.NoError(t, err)
		assert.Equal(t, "7250", saved.Vedhani)
	})

	t.Run("Non-2xx status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"bad token"}`))
		}))
		defer server.Close()

		writer := NewRESTWriter(server.URL, "wrong", server.Client(), logger.NewNop())
		_, err := writer.Insert(ctx, reading)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("Omits the token header when unset", func(t *testing.T) {
		var hasToken bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasToken = r.Header["X-Stack-Access-Token"]
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		writer := NewRESTWriter(server.URL, "", server.Client(), logger.NewNop())
		_, err := writer.Insert(ctx, reading)

		require.NoError(t, err)
		assert.False(t, hasToken)
	})
}
