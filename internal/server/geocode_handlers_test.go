package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"glassmap/internal/config"
	"glassmap/internal/geocode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			_, _ = w.Write([]byte(`[{"lat":"36.549","lon":"29.116","display_name":"Oludeniz Beach"}]`))
		case "/reverse":
			_, _ = w.Write([]byte(`{"lat":"36.549","lon":"29.116","display_name":"Oludeniz, Fethiye"}`))
		}
	}))
	defer upstream.Close()

	_, app, db := setupTestServer(t, func(cfg *config.Config) {
		cfg.GeocodeBaseURL = upstream.URL
	})
	adminToken := registerAdmin(t, app, db, "geo_admin")

	// missing query parameter
	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/geocode", nil, adminToken), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	// forward
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/geocode?address=oludeniz", nil, adminToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results []geocode.Result
	decodeBody(t, resp, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "Oludeniz Beach", results[0].DisplayName)

	// reverse
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/geocode/reverse?lat=36.549&lng=29.116", nil, adminToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result geocode.Result
	decodeBody(t, resp, &result)
	assert.Equal(t, "Oludeniz, Fethiye", result.DisplayName)

	// out-of-range coordinates rejected before the upstream call
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/geocode/reverse?lat=999&lng=0", nil, adminToken), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	// only the geocoding action fails when the upstream is down
	upstream.Close()
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/geocode?address=anywhere", nil, adminToken), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var errBody struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "UPSTREAM_ERROR", errBody.Code)
}
