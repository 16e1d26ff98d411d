package cache

import (
	"context"
	"sync"
	"time"

	"tunescore/core/music"
	"tunescore/logger"
)

// Clock supplies the current time. Injected so TTL behavior is testable.
type Clock func() time.Time

// HistoryCache is a single-slot cache over the remote play history. A value
// younger than the TTL is served as-is; a stale slot triggers one remote
// call. When the remote call fails the previous value keeps being served if
// one exists, so a flaky collaborator degrades to stale data rather than an
// error.
type HistoryCache struct {
	mu sync.Mutex

	client music.Client
	ttl    time.Duration
	now    Clock

	data      []music.HistoryItem
	fetchedAt time.Time
	has       bool
}

// NewHistoryCache creates a history cache with the given TTL.
func NewHistoryCache(client music.Client, ttl time.Duration, now Clock) *HistoryCache {
	if now == nil {
		now = time.Now
	}
	return &HistoryCache{
		client: client,
		ttl:    ttl,
		now:    now,
	}
}

// Get returns the play history. The second return is false only when no
// value has ever been fetched successfully and the collaborator is failing
// or absent.
func (c *HistoryCache) Get(ctx context.Context) ([]music.HistoryItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.has && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.data, true
	}
	if c.client == nil {
		return c.data, c.has
	}

	history, err := c.client.FetchHistory(ctx)
	if err != nil {
		logger.Warn("history refresh failed, serving previous value",
			logger.Bool("hadPrevious", c.has), logger.ErrorField(err))
		return c.data, c.has
	}

	c.data = history
	c.fetchedAt = c.now()
	c.has = true
	return c.data, true
}
