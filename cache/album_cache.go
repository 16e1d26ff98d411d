package cache

import (
	"context"
	"sync"

	"tunescore/core/music"
	"tunescore/logger"
)

// AlbumYearCache maps album ids to their release year. Lookups that fail are
// cached as the empty string so a known-bad album id is never fetched twice
// (negative caching); entries live until process exit.
type AlbumYearCache struct {
	mu     sync.Mutex
	client music.Client
	years  map[string]string
}

// NewAlbumYearCache creates an empty album-year cache.
func NewAlbumYearCache(client music.Client) *AlbumYearCache {
	return &AlbumYearCache{
		client: client,
		years:  make(map[string]string),
	}
}

// Year returns the release year for an album id, fetching it on first use.
// An empty album id, an absent client, or a remote failure all yield "".
func (c *AlbumYearCache) Year(ctx context.Context, albumID string) string {
	if albumID == "" {
		return ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if year, ok := c.years[albumID]; ok {
		return year
	}
	if c.client == nil {
		return ""
	}

	album, err := c.client.FetchAlbum(ctx, albumID)
	if err != nil {
		logger.Warn("album year lookup failed, caching empty result",
			logger.String("albumId", albumID), logger.ErrorField(err))
		c.years[albumID] = ""
		return ""
	}

	c.years[albumID] = album.Year
	return album.Year
}

// Peek returns the cached year without triggering a fetch.
func (c *AlbumYearCache) Peek(albumID string) string {
	if albumID == "" {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.years[albumID]
}
