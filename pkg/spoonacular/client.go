package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.spoonacular.com"
	DefaultNumber  = 5
)

// Client is the Spoonacular recipe API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a new Spoonacular client.
func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("spoonacular API key is required")
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}, nil
}

// WithBaseURL overrides the default API base URL.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithLimiter throttles outgoing requests.
func (c *Client) WithLimiter(l *rate.Limiter) *Client {
	c.limiter = l
	return c
}

// SearchRecipes calls /recipes/complexSearch.
func (c *Client) SearchRecipes(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if req.Number <= 0 {
		req.Number = DefaultNumber
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("number", strconv.Itoa(req.Number))
	setIfNotEmpty(params, "query", req.Query)
	setIfNotEmpty(params, "includeIngredients", strings.Join(req.IncludeIngredients, ","))
	setIfNotEmpty(params, "cuisine", req.Cuisine)
	setIfNotEmpty(params, "type", req.Type)
	setIfNotEmpty(params, "diet", strings.Join(req.Diet, ","))
	if req.MaxCalories > 0 {
		params.Set("maxCalories", strconv.Itoa(req.MaxCalories))
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("spoonacular rate limiter: %w", err)
		}
	}

	endpoint := fmt.Sprintf("%s/recipes/complexSearch?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Spoonacular API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if jsonErr := json.NewDecoder(resp.Body).Decode(&errResp); jsonErr == nil && errResp.Message != "" {
			return nil, fmt.Errorf("spoonacular API error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("spoonacular API error: %d", resp.StatusCode)
	}

	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

func setIfNotEmpty(v url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		v.Set(key, value)
	}
}
