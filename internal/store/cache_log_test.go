// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestCacheLogStoreLog(t *testing.T) {
	db := testDB(t)
	s := NewCacheLogStore(db)
	ctx := context.Background()

	// Log should not error (best-effort).
	entityID := uuid.New()
	s.Log(ctx, CacheEntitySite, entityID, "design")

	t.Cleanup(func() {
		db.Exec("DELETE FROM cache_invalidation_log WHERE entity_id = $1", entityID)
	})

	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM cache_invalidation_log WHERE entity_id = $1", entityID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 log entry, got %d", count)
	}
}

func TestCacheLogStoreRecentEntries(t *testing.T) {
	db := testDB(t)
	s := NewCacheLogStore(db)
	ctx := context.Background()

	id := uuid.New()
	s.Log(ctx, CacheEntityPost, id, "publish")
	s.Log(ctx, CacheEntityPost, id, "delete")

	t.Cleanup(func() {
		db.Exec("DELETE FROM cache_invalidation_log WHERE entity_id = $1", id)
	})

	entries, err := s.RecentEntries(ctx, id, 10)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.EntityType != CacheEntityPost {
			t.Errorf("entity type: got %q", e.EntityType)
		}
		if e.InvalidatedAt.IsZero() {
			t.Error("expected invalidation timestamp")
		}
	}
}
