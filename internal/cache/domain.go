// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"tenantpress/internal/models"
)

const (
	domainKeyPrefix = "domain:"

	// DefaultDomainTTL is how long a domain-check answer is shared.
	DefaultDomainTTL = 5 * time.Minute
)

// DomainCache shares domain-check results between instances. Unknown
// hostnames are stored as JSON null so misses are shared as well.
type DomainCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDomainCache creates a domain cache backed by the given Valkey client.
func NewDomainCache(client *redis.Client, ttl time.Duration) *DomainCache {
	if ttl == 0 {
		ttl = DefaultDomainTTL
	}
	return &DomainCache{client: client, ttl: ttl}
}

// Get returns the cached result for host. ok is false on a miss or error.
func (dc *DomainCache) Get(ctx context.Context, host string) (*models.DomainCheckResult, bool) {
	val, err := dc.client.Get(ctx, domainKeyPrefix+host).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("domain cache get error", "host", host, "error", err)
		return nil, false
	}

	var res *models.DomainCheckResult
	if err := json.Unmarshal(val, &res); err != nil {
		slog.Warn("domain cache decode error", "host", host, "error", err)
		return nil, false
	}
	slog.Debug("domain cache hit", "host", host, "found", res != nil)
	return res, true
}

// Set stores res (which may be nil) for host.
func (dc *DomainCache) Set(ctx context.Context, host string, res *models.DomainCheckResult) {
	val, err := json.Marshal(res)
	if err != nil {
		slog.Warn("domain cache encode error", "host", host, "error", err)
		return
	}
	if err := dc.client.Set(ctx, domainKeyPrefix+host, val, dc.ttl).Err(); err != nil {
		slog.Warn("domain cache set error", "host", host, "error", err)
	}
}

// Invalidate removes the entry for host.
func (dc *DomainCache) Invalidate(ctx context.Context, host string) {
	if err := dc.client.Del(ctx, domainKeyPrefix+host).Err(); err != nil {
		slog.Warn("domain cache invalidate error", "host", host, "error", err)
	}
}

// InvalidateAll removes every domain entry.
func (dc *DomainCache) InvalidateAll(ctx context.Context) {
	if deleted := deleteByPattern(ctx, dc.client, domainKeyPrefix+"*"); deleted > 0 {
		slog.Info("domain cache fully cleared", "deleted", deleted)
	}
}
