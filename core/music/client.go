package music

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tunescore/logger"
)

// Client is the music-service collaborator. Every call is best-effort: a
// failure degrades the calling feature, it never takes the store down.
type Client interface {
	// FetchHistory returns recent plays, most recent first.
	FetchHistory(ctx context.Context) ([]HistoryItem, error)

	// FetchAlbum returns the full album record for an album id.
	FetchAlbum(ctx context.Context, albumID string) (*Album, error)

	// Search returns song results for a free-text query.
	Search(ctx context.Context, query string, limit int) ([]HistoryItem, error)

	// SearchAlbums returns album results for a free-text query.
	SearchAlbums(ctx context.Context, query string, limit int) ([]AlbumResult, error)
}

// HTTPClient talks to a music-service API gateway over HTTP.
type HTTPClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewHTTPClient creates a client for the given API base URL.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("music API returned status %d for %s: %s", resp.StatusCode, path, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// FetchHistory returns the account's recent plays.
func (c *HTTPClient) FetchHistory(ctx context.Context) ([]HistoryItem, error) {
	var payload struct {
		History []HistoryItem `json:"history"`
	}
	if err := c.getJSON(ctx, "/history", nil, &payload); err != nil {
		logger.Warn("history fetch failed", logger.ErrorField(err))
		return nil, err
	}
	return payload.History, nil
}

// FetchAlbum returns the album record for an album id.
func (c *HTTPClient) FetchAlbum(ctx context.Context, albumID string) (*Album, error) {
	var album Album
	if err := c.getJSON(ctx, "/albums/"+url.PathEscape(albumID), nil, &album); err != nil {
		logger.Warn("album fetch failed",
			logger.String("albumId", albumID), logger.ErrorField(err))
		return nil, err
	}
	return &album, nil
}

// Search returns song results for a free-text query.
func (c *HTTPClient) Search(ctx context.Context, query string, limit int) ([]HistoryItem, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("filter", "songs")
	q.Set("limit", fmt.Sprintf("%d", limit))

	var payload struct {
		Results []HistoryItem `json:"results"`
	}
	if err := c.getJSON(ctx, "/search", q, &payload); err != nil {
		logger.Warn("search failed", logger.String("query", query), logger.ErrorField(err))
		return nil, err
	}
	return payload.Results, nil
}

// SearchAlbums returns album results for a free-text query.
func (c *HTTPClient) SearchAlbums(ctx context.Context, query string, limit int) ([]AlbumResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("filter", "albums")
	q.Set("limit", fmt.Sprintf("%d", limit))

	var payload struct {
		Results []AlbumResult `json:"results"`
	}
	if err := c.getJSON(ctx, "/search", q, &payload); err != nil {
		logger.Warn("album search failed", logger.String("query", query), logger.ErrorField(err))
		return nil, err
	}
	return payload.Results, nil
}
