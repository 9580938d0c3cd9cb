package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RetryOnTransientFailure(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spots":[{"id":1,"name":"Test Cafe"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithRetry(3, time.Millisecond))

	spots, err := c.Spots(context.Background(), SpotQuery{})
	require.NoError(t, err)
	require.Len(t, spots, 1)
	assert.Equal(t, "Test Cafe", spots[0].Name)
	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestClient_RetryExhausted(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, WithRetry(3, time.Millisecond))

	_, err := c.Spots(context.Background(), SpotQuery{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Spot not found","code":"NOT_FOUND"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithRetry(3, time.Millisecond))

	_, err := c.Spot(context.Background(), 99)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.EqualValues(t, 1, atomic.LoadInt32(&attempts), "4xx responses are not retried")
}

func TestClient_SessionExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Authorization header required","code":"UNAUTHORIZED"}`))
	}))
	defer srv.Close()

	expired := false
	c := New(srv.URL,
		WithRetry(3, time.Millisecond),
		WithSessionExpiredHandler(func() { expired = true }),
	)
	c.SetToken("stale-token")

	_, err := c.Favorites(context.Background())
	require.Error(t, err)
	assert.True(t, expired)
	assert.Empty(t, c.Token(), "401 clears the stored token")
}

func TestClient_BearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spotIds":[3,7]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("abc123")

	ids, err := c.Favorites(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 7}, ids)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestClient_SpotsCached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spots":[{"id":1,"name":"Cached"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)

	for i := 0; i < 3; i++ {
		spots, err := c.Spots(context.Background(), SpotQuery{Category: "bar"})
		require.NoError(t, err)
		require.Len(t, spots, 1)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "repeat listings come from cache")

	// per-user listings always hit the server
	c.SetToken("tok")
	_, err := c.Spots(context.Background(), SpotQuery{FavoritesOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestClient_MutationInvalidatesCache(t *testing.T) {
	var listHits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			atomic.AddInt32(&listHits, 1)
			_, _ = w.Write([]byte(`{"spots":[]}`))
		case r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`{"message":"Spot favorited"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")

	_, err := c.Spots(context.Background(), SpotQuery{})
	require.NoError(t, err)
	_, err = c.Spots(context.Background(), SpotQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&listHits))

	require.NoError(t, c.AddFavorite(context.Background(), 1))

	_, err = c.Spots(context.Background(), SpotQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&listHits), "favorite toggle drops cached listings")
}
