package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second
	defaultTimeout     = 10 * time.Second

	spotsCacheTTL      = 5 * time.Minute
	categoriesCacheTTL = 60 * time.Minute
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetry sets the bounded retry policy for transient failures.
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		c.retryDelay = delay
	}
}

// WithSessionExpiredHandler registers a callback invoked when the server
// rejects the bearer token with a 401. The token is cleared first.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// Client talks to the Liquid Glass Map API. Read endpoints go through an
// in-process cache; transient failures are retried a bounded number of
// times with a fixed delay.
type Client struct {
	baseURL     string
	http        *http.Client
	token       string
	maxAttempts int
	retryDelay  time.Duration

	cache            *Cache
	onSessionExpired func()
}

// New creates a Client for the API rooted at baseURL (e.g.
// "http://localhost:8450/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		http:        &http.Client{Timeout: defaultTimeout},
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		cache:       NewCache("glassmap"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token, empty when logged out.
func (c *Client) Token() string {
	return c.token
}

// SpotQuery are the server-side listing parameters.
type SpotQuery struct {
	Category      string
	Search        string
	Lat           *float64
	Lng           *float64
	RadiusKm      *float64
	FavoritesOnly bool
}

func (q SpotQuery) encode() string {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Lat != nil && q.Lng != nil && q.RadiusKm != nil {
		v.Set("lat", strconv.FormatFloat(*q.Lat, 'f', 6, 64))
		v.Set("lng", strconv.FormatFloat(*q.Lng, 'f', 6, 64))
		v.Set("radius", strconv.FormatFloat(*q.RadiusKm, 'f', 3, 64))
	}
	if q.FavoritesOnly {
		v.Set("favoritesOnly", "true")
	}
	return v.Encode()
}

// Spots fetches a listing. Non-favorite listings are cached.
func (c *Client) Spots(ctx context.Context, query SpotQuery) ([]Spot, error) {
	path := "/spots"
	if qs := query.encode(); qs != "" {
		path += "?" + qs
	}

	var resp struct {
		Spots []Spot `json:"spots"`
	}

	// per-user listings bypass the cache
	if query.FavoritesOnly {
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}
		return resp.Spots, nil
	}

	err := c.cache.WithCache("spots:"+query.encode(), &resp, spotsCacheTTL, func() error {
		return c.doJSON(ctx, http.MethodGet, path, nil, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp.Spots, nil
}

// Spot fetches one spot by id, caching the result.
func (c *Client) Spot(ctx context.Context, id uint) (*Spot, error) {
	var resp struct {
		Spot Spot `json:"spot"`
	}
	key := fmt.Sprintf("spot:%d", id)
	err := c.cache.WithCache(key, &resp, spotsCacheTTL, func() error {
		return c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/spots/%d", id), nil, &resp)
	})
	if err != nil {
		return nil, err
	}
	return &resp.Spot, nil
}

// Categories fetches the category list, caching the result.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var resp struct {
		Categories []Category `json:"categories"`
	}
	err := c.cache.WithCache("categories", &resp, categoriesCacheTTL, func() error {
		return c.doJSON(ctx, http.MethodGet, "/categories", nil, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// AuthResponse is the register/login payload.
type AuthResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Login exchanges credentials for a bearer token and installs it.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Register creates an account and installs the returned token.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Logout revokes the current token server-side and forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.token = ""
	c.cache.Clear()
	return err
}

// AddFavorite marks a spot as favorited for the current user.
func (c *Client) AddFavorite(ctx context.Context, spotID uint) error {
	err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/favorites/%d", spotID), nil, nil)
	if err == nil {
		c.invalidateSpot(spotID)
	}
	return err
}

// RemoveFavorite unmarks a favorited spot.
func (c *Client) RemoveFavorite(ctx context.Context, spotID uint) error {
	err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/favorites/%d", spotID), nil, nil)
	if err == nil {
		c.invalidateSpot(spotID)
	}
	return err
}

// Favorites fetches the caller's favorited spot ids.
func (c *Client) Favorites(ctx context.Context) ([]uint, error) {
	var resp struct {
		SpotIDs []uint `json:"spotIds"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/favorites", nil, &resp); err != nil {
		return nil, err
	}
	return resp.SpotIDs, nil
}

// CreateSpot creates a spot (admin) and returns the new id.
func (c *Client) CreateSpot(ctx context.Context, input any) (uint, error) {
	var resp struct {
		SpotID uint `json:"spotId"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/spots", input, &resp); err != nil {
		return 0, err
	}
	c.cache.Clear()
	return resp.SpotID, nil
}

// UpdateSpot replaces a spot (admin).
func (c *Client) UpdateSpot(ctx context.Context, id uint, input any) error {
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/spots/%d", id), input, nil)
	if err == nil {
		c.invalidateSpot(id)
	}
	return err
}

// DeleteSpot soft-deletes a spot (admin).
func (c *Client) DeleteSpot(ctx context.Context, id uint) error {
	err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/spots/%d", id), nil, nil)
	if err == nil {
		c.invalidateSpot(id)
	}
	return err
}

// invalidateSpot drops the single-spot entry and every cached listing.
func (c *Client) invalidateSpot(id uint) {
	c.cache.Remove(fmt.Sprintf("spot:%d", id))
	c.cache.Clear()
}

// doJSON performs one API call with bounded retry. Transport errors and
// 502/503/504 responses are retried after a fixed delay; any other response
// resolves the call. A 401 clears the session before surfacing the error.
func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		retryable, err := c.attempt(ctx, method, path, payload, dest)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}
	return lastErr
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, dest any) (retryable bool, err error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if dest == nil {
			return false, nil
		}
		return false, json.NewDecoder(resp.Body).Decode(dest)

	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return true, c.apiError(resp)

	case resp.StatusCode == http.StatusUnauthorized:
		c.token = ""
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return false, c.apiError(resp)

	default:
		return false, c.apiError(resp)
	}
}

func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
		apiErr.Message = resp.Status
	}
	return apiErr
}
