package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "oludeniz beach", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"lat":"36.549", "lon":"29.116", "display_name":"Oludeniz Beach"},
			{"lat":"not-a-number", "lon":"29.0", "display_name":"Bad Row"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	results, err := c.Search(context.Background(), "oludeniz beach")
	require.NoError(t, err)

	require.Len(t, results, 1, "unparseable coordinates are skipped")
	assert.InDelta(t, 36.549, results[0].Lat, 0.001)
	assert.InDelta(t, 29.116, results[0].Lng, 0.001)
	assert.Equal(t, "Oludeniz Beach", results[0].DisplayName)
}

func TestClient_Reverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "36.549000", r.URL.Query().Get("lat"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lat":"36.549", "lon":"29.116", "display_name":"Oludeniz, Fethiye"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.Reverse(context.Background(), 36.549, 29.116)
	require.NoError(t, err)
	assert.Equal(t, "Oludeniz, Fethiye", result.DisplayName)
}

func TestClient_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	_, err := c.Search(context.Background(), "anywhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
