// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"tenantpress/internal/models"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"page:*", "domain:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"), 15)
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestPageCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()
	key := PageKey("site-a", "/post/hello")

	// Miss.
	data, ok := pc.Get(ctx, key)
	if ok {
		t.Error("expected cache miss")
	}
	if data != nil {
		t.Error("expected nil data on miss")
	}

	html := []byte("<html><body>Test Page</body></html>")
	pc.Set(ctx, key, html)

	data, ok = pc.Get(ctx, key)
	if !ok {
		t.Error("expected cache hit")
	}
	if string(data) != string(html) {
		t.Errorf("data mismatch: got %q, want %q", data, html)
	}
}

func TestPageCacheInvalidatePage(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()
	key := PageKey("site-a", "/")

	pc.Set(ctx, key, []byte("cached"))
	if _, ok := pc.Get(ctx, key); !ok {
		t.Fatal("expected cache hit before invalidation")
	}

	pc.InvalidatePage(ctx, key)

	if _, ok := pc.Get(ctx, key); ok {
		t.Error("expected cache miss after invalidation")
	}
}

func TestPageCacheInvalidateSite(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	pc.Set(ctx, PageKey("site-a", "/"), []byte("a home"))
	pc.Set(ctx, PageKey("site-a", "/post/x"), []byte("a post"))
	pc.Set(ctx, PageKey("site-b", "/"), []byte("b home"))

	pc.InvalidateSite(ctx, "site-a")

	for _, key := range []string{PageKey("site-a", "/"), PageKey("site-a", "/post/x")} {
		if _, ok := pc.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after InvalidateSite", key)
		}
	}
	if _, ok := pc.Get(ctx, PageKey("site-b", "/")); !ok {
		t.Error("other site's pages must survive InvalidateSite")
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	keys := []string{PageKey("a", "/"), PageKey("b", "/"), PageKey("c", "/tag/go")}
	for _, k := range keys {
		pc.Set(ctx, k, []byte(k))
	}

	pc.InvalidateAll(ctx)

	for _, key := range keys {
		if _, ok := pc.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after InvalidateAll", key)
		}
	}
}

func TestPageKey(t *testing.T) {
	if got := PageKey("abc", "/post/x?page=2"); got != "abc:/post/x?page=2" {
		t.Errorf("PageKey: got %q", got)
	}
}

func TestNewPageCacheDefaultTTL(t *testing.T) {
	client := testValkeyClient(t)

	// TTL = 0 should use default.
	pc := NewPageCache(client, 0)
	if pc.ttl != DefaultPageTTL {
		t.Errorf("expected DefaultPageTTL (%v), got %v", DefaultPageTTL, pc.ttl)
	}
}

func TestDomainCache(t *testing.T) {
	client := testValkeyClient(t)
	dc := NewDomainCache(client, time.Minute)

	ctx := context.Background()

	if _, ok := dc.Get(ctx, "acme.com"); ok {
		t.Fatal("expected miss on empty cache")
	}

	dc.Set(ctx, "acme.com", &models.DomainCheckResult{
		Site:             &models.Site{Domain: "acme.com", BasePath: "/blog"},
		AllowAdminAccess: true,
	})
	res, ok := dc.Get(ctx, "acme.com")
	if !ok || res == nil || res.Site == nil {
		t.Fatalf("expected cached site, got %+v ok=%v", res, ok)
	}
	if res.Site.BasePath != "/blog" || !res.AllowAdminAccess {
		t.Errorf("round trip lost fields: %+v", res)
	}

	// A cached miss is a hit with a nil result.
	dc.Set(ctx, "unknown.example", nil)
	res, ok = dc.Get(ctx, "unknown.example")
	if !ok || res != nil {
		t.Errorf("expected cached nil, got %+v ok=%v", res, ok)
	}

	dc.Invalidate(ctx, "acme.com")
	if _, ok := dc.Get(ctx, "acme.com"); ok {
		t.Error("expected miss after Invalidate")
	}

	dc.InvalidateAll(ctx)
	if _, ok := dc.Get(ctx, "unknown.example"); ok {
		t.Error("expected miss after InvalidateAll")
	}
}
