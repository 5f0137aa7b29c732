package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
)

const defaultSearchLimit = 20

// Search queries the catalog for volumes matching the query and returns
// registry book candidates. Results are catalog-only: nothing is
// persisted, and the books carry no internal ID yet.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]*domain.Book, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	if limit <= 0 || limit > 40 {
		limit = defaultSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprintf("%d", limit))
	params.Set("printType", "books")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	searchURL := c.baseURL + "/volumes?" + params.Encode()

	c.logger.Debug("searching Google Books",
		"query", query,
		"limit", limit,
	)

	var volsResp volumesResponse
	if err := c.getJSON(ctx, searchURL, &volsResp); err != nil {
		return nil, err
	}

	now := time.Now()
	books := make([]*domain.Book, 0, len(volsResp.Items))
	for i := range volsResp.Items {
		v := &volsResp.Items[i]
		// Volumes without a title are stubs the tracker can't use.
		if v.VolumeInfo.Title == "" {
			continue
		}
		books = append(books, v.toDomain(now))
	}

	c.logger.Debug("Google Books search results",
		"query", query,
		"count", len(books),
	)

	return books, nil
}

// GetVolume fetches a single volume by its catalog ID.
// Returns ErrNotFound for unknown IDs, ErrUnavailable when the catalog
// cannot answer.
func (c *Client) GetVolume(ctx context.Context, volumeID string) (*domain.Book, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	volumeURL := c.baseURL + "/volumes/" + url.PathEscape(volumeID)
	if c.apiKey != "" {
		volumeURL += "?key=" + url.QueryEscape(c.apiKey)
	}

	var v volume
	if err := c.getJSON(ctx, volumeURL, &v); err != nil {
		return nil, err
	}
	if v.ID == "" || v.VolumeInfo.Title == "" {
		return nil, ErrNotFound
	}

	return v.toDomain(time.Now()), nil
}

// getJSON performs a GET and decodes the JSON body, translating HTTP
// failures into the package's sentinel errors.
func (c *Client) getJSON(ctx context.Context, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("catalog request failed: status %d", resp.StatusCode)
	}

	if err := json.UnmarshalRead(resp.Body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
