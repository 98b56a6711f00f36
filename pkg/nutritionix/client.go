package nutritionix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://trackapi.nutritionix.com"

// ErrNoFoodsMatched is returned when the query contains nothing the database recognises.
var ErrNoFoodsMatched = errors.New("no foods matched")

// Client is the Nutritionix natural language API client.
type Client struct {
	appID      string
	appKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a new Nutritionix client.
func New(appID, appKey string) (*Client, error) {
	if appID == "" || appKey == "" {
		return nil, fmt.Errorf("nutritionix app id and key are required")
	}

	return &Client{
		appID:      appID,
		appKey:     appKey,
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

// Nutrients analyses a natural language description such as "2 eggs and toast".
func (c *Client) Nutrients(ctx context.Context, query string) (*NutrientsResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("no query provided")
	}

	bodyBytes, err := json.Marshal(NutrientsRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("nutritionix rate limiter: %w", err)
		}
	}

	url := fmt.Sprintf("%s/v2/natural/nutrients", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-app-id", c.appID)
	httpReq.Header.Set("x-app-key", c.appKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Nutritionix API: %w", err)
	}
	defer resp.Body.Close()

	// 404 means the query parsed but matched no foods
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoFoodsMatched
	}
	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if jsonErr := json.NewDecoder(resp.Body).Decode(&errResp); jsonErr == nil && errResp.Message != "" {
			return nil, fmt.Errorf("nutritionix API error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("nutritionix API error: %d", resp.StatusCode)
	}

	var out NutrientsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}
