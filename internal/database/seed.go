// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// demoSite describes one development tenant.
type demoSite struct {
	domain    string
	aliases   []string
	basePath  string
	siteType  string
	format    string
	title     string
	settings  string // JSON overrides, "" for none
	adminable bool
	posts     []demoPost
}

type demoPost struct {
	slug, title, excerpt, content string
	tags                          []string
}

var demoSites = []demoSite{
	{
		domain: "blog.localhost", siteType: "blog", title: "Field Notes",
		adminable: true,
		posts: []demoPost{
			{"hello-world", "Hello, world", "The first post on a fresh blog.",
				"Welcome to **Field Notes**. This post links to [another one](/post/second-post).", []string{"Announcements"}},
			{"second-post", "A second post", "Writing things down, again.",
				"Short and sweet. See all [announcements](/tag/announcements).", []string{"Announcements", "Writing"}},
		},
	},
	{
		domain: "acme.localhost", aliases: []string{"news.localhost"}, basePath: "/blog",
		siteType: "news", title: "Acme Daily",
		settings:  `{"primaryColor":"#0f766e","topBannerEnabled":true}`,
		adminable: true,
		posts: []demoPost{
			{"markets-open-higher", "Markets open higher", "Stocks rally on the morning bell.",
				"Markets opened higher today. Read the [full briefing](/post/morning-briefing).", []string{"Markets", "Economy"}},
			{"morning-briefing", "Morning briefing", "Everything you need to know before nine.",
				"## Headlines\n\n- Rates hold steady\n- Tech leads gains", []string{"Briefing"}},
			{"city-council-vote", "City council vote delayed", "The vote moves to next week.",
				"Council members postponed the vote.", []string{"Local"}},
		},
	},
	{
		domain: "mag.localhost", siteType: "magazine", title: "Long Form",
		posts: []demoPost{
			{"the-quiet-city", "The quiet city", "A walk through empty streets.",
				"Some essays take their time.", []string{"Essays", "Cities"}},
		},
	},
	{
		domain: "folio.localhost", siteType: "portfolio", format: "root", title: "Studio Nine",
		settings: `{"cardStyle":"flat","showFeaturedHero":false}`,
		posts: []demoPost{
			{"brand-refresh", "Brand refresh", "Identity work for a regional bakery.",
				"Logo, packaging and signage.", []string{"Branding"}},
		},
	},
	{
		domain: "bistro.localhost", siteType: "restaurant", title: "Bistro Verde",
		posts: []demoPost{
			{"spring-menu", "Our spring menu", "Fresh produce from local farms.",
				"Asparagus, peas and wild garlic.", []string{"Menu"}},
		},
	},
	{
		domain: "coin.localhost", siteType: "crypto", title: "Block Ledger",
		posts: []demoPost{},
	},
}

// Seed populates the database with development tenants and a few posts
// each. It does nothing when any site already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sites").Scan(&count); err != nil {
		return fmt.Errorf("seed check sites: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Add(-time.Hour)
	for _, s := range demoSites {
		var settings any
		if s.settings != "" {
			settings = s.settings
		}
		format := s.format
		if format == "" {
			format = "with-prefix"
		}

		var siteID string
		err := tx.QueryRow(`
			INSERT INTO sites (domain, base_path, site_type, template_settings,
			                   post_url_format, title, allow_admin_access)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, s.domain, s.basePath, s.siteType, settings, format, s.title, s.adminable).Scan(&siteID)
		if err != nil {
			return fmt.Errorf("seed insert site %s: %w", s.domain, err)
		}

		if _, err := tx.Exec(`INSERT INTO site_domains (hostname, site_id, is_alias) VALUES ($1, $2, FALSE)`,
			s.domain, siteID); err != nil {
			return fmt.Errorf("seed insert domain %s: %w", s.domain, err)
		}
		for _, alias := range s.aliases {
			if _, err := tx.Exec(`INSERT INTO site_domains (hostname, site_id, is_alias) VALUES ($1, $2, TRUE)`,
				alias, siteID); err != nil {
				return fmt.Errorf("seed insert alias %s: %w", alias, err)
			}
		}

		for i, p := range s.posts {
			published := now.Add(-time.Duration(i) * 24 * time.Hour)
			_, err := tx.Exec(`
				INSERT INTO posts (site_id, slug, title, excerpt, content, tags, published_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, siteID, p.slug, p.title, p.excerpt, p.content, p.tags, published)
			if err != nil {
				return fmt.Errorf("seed insert post %s/%s: %w", s.domain, p.slug, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo sites", "sites", len(demoSites))
	return nil
}
