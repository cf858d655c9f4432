package pricesearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(baseURL, key string) *RapidAPI {
	return NewRapidAPI(RapidAPIConfig{
		Key:      key,
		Host:     "real-time-product-search.p.rapidapi.com",
		BaseURL:  baseURL,
		Country:  "ru",
		Language: "ru",
	})
}

func TestRapidAPI_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search-v2", r.URL.Path)
		assert.Equal(t, "oolong tea", r.URL.Query().Get("q"))
		assert.Equal(t, "ru", r.URL.Query().Get("country"))
		assert.Equal(t, "ru", r.URL.Query().Get("language"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "secret", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "real-time-product-search.p.rapidapi.com", r.Header.Get("X-RapidAPI-Host"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","data":{"products":[]}}`))
	}))
	defer srv.Close()

	body, err := newTestProvider(srv.URL+"/", "secret").Search(context.Background(), "oolong tea")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OK","data":{"products":[]}}`, string(body))
}

func TestRapidAPI_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, ErrProviderUnavailable},
		{"server error", http.StatusBadGateway, ErrProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"message":"nope"}`, tt.status)
			}))
			defer srv.Close()

			_, err := newTestProvider(srv.URL, "secret").Search(context.Background(), "tea")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRapidAPI_MissingKey(t *testing.T) {
	for _, key := range []string{"", "  ", placeholderKey} {
		_, err := newTestProvider("http://127.0.0.1:1", key).Search(context.Background(), "tea")
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
}

func TestRapidAPI_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestProvider(srv.URL, "secret").Search(ctx, "tea")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}
