// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page HTML cache (L2).
// Rendered tenant pages are stored per site and effective path, so a
// request for a cached page skips the database and template execution.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages full-page HTML caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// PageKey returns the cache key for one page of one site. path is the
// effective path (below the base path) plus any query string.
func PageKey(siteID, path string) string {
	return siteID + ":" + path
}

// Get retrieves cached HTML for a page key.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidatePage removes a single cached page.
func (pc *PageCache) InvalidatePage(ctx context.Context, key string) {
	if err := pc.client.Del(ctx, pageKeyPrefix+key).Err(); err != nil {
		slog.Warn("page cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("page cache invalidated", "key", key)
}

// InvalidateSite removes every cached page of one site. Called when the
// site's design or content changes, since any page could be affected.
func (pc *PageCache) InvalidateSite(ctx context.Context, siteID string) {
	deleted := deleteByPattern(ctx, pc.client, pageKeyPrefix+siteID+":*")
	slog.Debug("page cache site cleared", "site_id", siteID, "deleted", deleted)
}

// InvalidateAll removes all cached pages.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if deleted := deleteByPattern(ctx, pc.client, pageKeyPrefix+"*"); deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}
