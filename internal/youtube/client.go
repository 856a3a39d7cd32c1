// Package youtube is a minimal client for the YouTube Data API v3 endpoints
// the discovery pipeline needs: channel search and channel details.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jonesrussell/kidscout/internal/domain"
	"github.com/jonesrussell/kidscout/internal/logger"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	defaultTimeout = 30 * time.Second

	// maxResponseBytes bounds response bodies read into memory.
	maxResponseBytes = 4 << 20
)

// Quota-exhaustion reasons reported in the API error payload. Any of these
// means further calls will fail until the quota window resets.
var quotaReasons = map[string]bool{
	"quotaExceeded":      true,
	"dailyLimitExceeded": true,
	"rateLimitExceeded":  true,
}

// Client calls the YouTube Data API. It is safe for concurrent use, though
// the pipeline drives it sequentially.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	pages   *rate.Limiter
	logger  logger.Logger
}

// ClientConfig holds client construction parameters.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// PageInterval is the minimum pause between successive API calls.
	// Zero disables pacing (used in tests).
	PageInterval time.Duration
	// HTTPClient overrides the default client when set.
	HTTPClient *http.Client
}

// NewClient creates a YouTube Data API client.
func NewClient(cfg ClientConfig, log logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.PageInterval > 0 {
		limit = rate.Every(cfg.PageInterval)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpc:   httpc,
		pages:   rate.NewLimiter(limit, 1),
		logger:  log,
	}
}

// get performs a GET against the given endpoint and decodes the JSON
// response into out. The API key is appended here so callers never handle it.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.pages.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	params.Set("key", c.apiKey)
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	return nil
}

// apiErrorResponse is the error payload shape returned by the API.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// apiError maps a non-success response to an error, distinguishing the
// quota-exhaustion payload from other failures.
func (c *Client) apiError(status int, body []byte) error {
	var payload apiErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, e := range payload.Error.Errors {
			if quotaReasons[e.Reason] {
				return fmt.Errorf("%s: %w", e.Reason, domain.ErrQuotaExceeded)
			}
		}
		if payload.Error.Message != "" {
			return fmt.Errorf("api error (status %d): %s", status, payload.Error.Message)
		}
	}
	return fmt.Errorf("api error: status %d", status)
}
