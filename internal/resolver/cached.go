// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package resolver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"tenantpress/internal/models"
)

// SharedCache is an optional second-level cache shared between instances
// (Valkey in production). A nil result with ok=true is a cached miss.
type SharedCache interface {
	Get(ctx context.Context, host string) (res *models.DomainCheckResult, ok bool)
	Set(ctx context.Context, host string, res *models.DomainCheckResult)
	Invalidate(ctx context.Context, host string)
}

// DefaultLookupTimeout bounds one shared lookup.
const DefaultLookupTimeout = 5 * time.Second

// CachedChecker wraps a Checker with an in-memory TTL cache, an optional
// shared cache, and per-hostname deduplication of concurrent lookups.
// Failed lookups are never cached.
type CachedChecker struct {
	next   Checker
	shared SharedCache
	local  *domainCache
	group  singleflight.Group

	lookupTimeout time.Duration
}

// NewCachedChecker wraps next. shared may be nil.
func NewCachedChecker(next Checker, ttl time.Duration, shared SharedCache) *CachedChecker {
	return &CachedChecker{
		next:          next,
		shared:        shared,
		local:         newDomainCache(ttl),
		lookupTimeout: DefaultLookupTimeout,
	}
}

// Check implements Checker. If ctx is cancelled while a lookup is in
// flight the caller returns ctx.Err() immediately and never sees the
// result; the lookup itself keeps running and fills the cache.
func (c *CachedChecker) Check(ctx context.Context, hostname string) (*models.DomainCheckResult, error) {
	if res, ok := c.local.get(hostname); ok {
		return res, nil
	}

	lookupCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(hostname, func() (any, error) {
		lctx, cancel := context.WithTimeout(lookupCtx, c.lookupTimeout)
		defer cancel()

		if c.shared != nil {
			if res, ok := c.shared.Get(lctx, hostname); ok {
				c.local.put(hostname, res)
				return res, nil
			}
		}

		res, err := c.next.Check(lctx, hostname)
		if err != nil {
			return nil, err
		}
		c.local.put(hostname, res)
		if c.shared != nil {
			c.shared.Set(lctx, hostname, res)
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		res, _ := r.Val.(*models.DomainCheckResult)
		return res, nil
	}
}

// Invalidate drops hostname from both cache levels.
func (c *CachedChecker) Invalidate(ctx context.Context, hostname string) {
	c.local.invalidate(hostname)
	if c.shared != nil {
		c.shared.Invalidate(ctx, hostname)
	}
}

// InvalidateSite drops every hostname the site answers on.
func (c *CachedChecker) InvalidateSite(ctx context.Context, site *models.Site) {
	c.Invalidate(ctx, site.Domain)
	for _, h := range site.AliasDomains {
		c.Invalidate(ctx, h)
	}
}

// InvalidateAll clears the in-memory level only.
func (c *CachedChecker) InvalidateAll() {
	c.local.invalidateAll()
}

// domainCache is a concurrency-safe in-memory TTL cache of domain-check
// results keyed by hostname. Misses (nil results) are cached too.
type domainCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]domainEntry
}

type domainEntry struct {
	res     *models.DomainCheckResult
	expires time.Time
}

func newDomainCache(ttl time.Duration) *domainCache {
	return &domainCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]domainEntry),
	}
}

// get returns a live entry. Expired entries are reported as misses and
// removed on the next put.
func (c *domainCache) get(host string) (*models.DomainCheckResult, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[host]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.res, true
}

func (c *domainCache) put(host string, res *models.DomainCheckResult) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[host] = domainEntry{res: res, expires: now.Add(c.ttl)}
	slog.Debug("domain cached", "host", host, "found", res != nil, "size", len(c.entries))
}

func (c *domainCache) invalidate(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, host)
	slog.Debug("domain cache invalidated", "host", host)
}

func (c *domainCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domainEntry)
	slog.Debug("domain cache fully cleared")
}
