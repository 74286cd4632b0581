// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seo builds the machine-readable parts of a tenant site: page
// metadata, JSON-LD, sitemap.xml, the RSS feed and robots.txt. Every URL
// is absolute and includes the tenant's base path.
package seo

import (
	"encoding/json"
	"strings"
	"time"

	"tenantpress/internal/markdown"
	"tenantpress/internal/models"
	"tenantpress/internal/tenant"
	"tenantpress/internal/theme"
)

// descriptionLength caps generated meta descriptions.
const descriptionLength = 160

// Meta is the <head> metadata of one page.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	OGImage     string
	OGType      string
	NoIndex     bool
	JSONLD      string
}

// HomeMeta describes a site's home page.
func HomeMeta(sc *tenant.Scope) Meta {
	site := sc.Site
	title := site.MetaTitle
	if title == "" {
		title = site.DisplayTitle()
	}
	return Meta{
		Title:       title,
		Description: site.MetaDescription,
		Canonical:   sc.AbsoluteURL("/"),
		OGImage:     absolute(sc, sc.AssetURL(site.LogoURL)),
		OGType:      "website",
		JSONLD:      WebsiteJSONLD(sc),
	}
}

// PostMeta describes a post page. Explicit post fields win over derived
// values.
func PostMeta(sc *tenant.Scope, p *models.Post) Meta {
	title := p.MetaTitle
	if title == "" {
		title = p.Title + " | " + sc.Site.DisplayTitle()
	}
	desc := p.MetaDescription
	if desc == "" {
		desc = p.Excerpt
	}
	if desc == "" {
		desc = markdown.Excerpt(p.Content, descriptionLength)
	}
	canonical := p.CanonicalURL
	if canonical == "" {
		canonical = sc.AbsoluteURL(sc.PostURL(p.Slug))
	}
	image := p.OGImage
	if image == "" {
		image = p.ImageURL
	}
	return Meta{
		Title:       title,
		Description: desc,
		Canonical:   canonical,
		OGImage:     absolute(sc, sc.AssetURL(image)),
		OGType:      "article",
		NoIndex:     p.NoIndex,
		JSONLD:      ArticleJSONLD(sc, p, canonical, desc),
	}
}

// ListingMeta describes a tag or search listing. Listings are canonical
// to themselves; search results are never indexed.
func ListingMeta(sc *tenant.Scope, title, path string, noindex bool) Meta {
	return Meta{
		Title:     title + " | " + sc.Site.DisplayTitle(),
		Canonical: sc.AbsoluteURL(path),
		OGType:    "website",
		NoIndex:   noindex,
	}
}

// WebsiteJSONLD returns a schema.org WebSite object for the tenant.
func WebsiteJSONLD(sc *tenant.Scope) string {
	site := sc.Site
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.DisplayTitle(),
		"url":      sc.AbsoluteURL("/"),
	}
	if site.MetaDescription != "" {
		data["description"] = site.MetaDescription
	}
	if site.Settings(theme.Default).ShowSearch {
		data["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      sc.AbsoluteURL("/search") + "?q={search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return encode(data)
}

// ArticleJSONLD returns a schema.org Article (NewsArticle on news sites).
func ArticleJSONLD(sc *tenant.Scope, p *models.Post, canonical, description string) string {
	kind := "BlogPosting"
	if sc.Site.SiteType == models.SiteTypeNews {
		kind = "NewsArticle"
	}
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       kind,
		"headline":    p.Title,
		"description": description,
		"url":         canonical,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   canonical,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  sc.Site.DisplayTitle(),
		},
		"dateModified": p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.PublishedAt != nil {
		data["datePublished"] = p.PublishedAt.UTC().Format(time.RFC3339)
	}
	if img := absolute(sc, sc.AssetURL(p.ImageURL)); img != "" {
		data["image"] = img
	}
	if tags := p.UniqueTags(); len(tags) > 0 {
		data["keywords"] = strings.Join(tags, ", ")
	}
	return encode(data)
}

func encode(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// absolute makes a root-relative URL absolute on the request host. Other
// URLs are returned unchanged.
func absolute(sc *tenant.Scope, u string) string {
	if strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
		return sc.Scheme + "://" + sc.Host + u
	}
	return u
}
