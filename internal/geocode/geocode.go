// Package geocode proxies forward and reverse geocoding to a
// Nominatim-compatible upstream.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"glassmap/internal/middleware"
)

const (
	defaultTimeout = 5 * time.Second
	userAgent      = "glassmap-api/1.0"
	maxResults     = 5
)

// Result is a single geocoding match.
type Result struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
}

// nominatimPlace mirrors the upstream response. Nominatim sends
// coordinates as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Search resolves a free-form query to coordinates.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(maxResults))

	places, err := c.fetchMany(ctx, "search", c.baseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return convertPlaces(places), nil
}

// Reverse resolves coordinates to the nearest address.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*Result, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', 6, 64))
	params.Set("format", "json")

	var place nominatimPlace
	if err := c.fetch(ctx, "reverse", c.baseURL+"/reverse?"+params.Encode(), &place); err != nil {
		return nil, err
	}

	results := convertPlaces([]nominatimPlace{place})
	if len(results) == 0 {
		return nil, fmt.Errorf("geocode: empty reverse result")
	}
	return &results[0], nil
}

func (c *Client) fetchMany(ctx context.Context, kind, endpoint string) ([]nominatimPlace, error) {
	var places []nominatimPlace
	if err := c.fetch(ctx, kind, endpoint, &places); err != nil {
		return nil, err
	}
	return places, nil
}

func (c *Client) fetch(ctx context.Context, kind, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		middleware.GeocodeRequests.WithLabelValues(kind, "error").Inc()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		middleware.GeocodeRequests.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("geocode: upstream returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		middleware.GeocodeRequests.WithLabelValues(kind, "error").Inc()
		return err
	}

	middleware.GeocodeRequests.WithLabelValues(kind, "ok").Inc()
	return nil
}

func convertPlaces(places []nominatimPlace) []Result {
	results := make([]Result, 0, len(places))
	for _, p := range places {
		lat, latErr := strconv.ParseFloat(p.Lat, 64)
		lng, lngErr := strconv.ParseFloat(p.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		results = append(results, Result{
			Lat:         lat,
			Lng:         lng,
			DisplayName: p.DisplayName,
		})
	}
	return results
}
