// Package googlebooks resolves bibliographic records from the Google Books
// volumes API.
package googlebooks

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// Client provides access to the Google Books volumes API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	apiKey      string
}

// NewClient creates a new Google Books client. An empty baseURL selects
// the public API endpoint; apiKey is optional and raises Google's quota
// when present.
// Rate limited to stay well under the public per-minute quota.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// 60 requests per minute, burst of 10
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 10),
		logger:      logger,
		baseURL:     baseURL,
		apiKey:      apiKey,
	}
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}
