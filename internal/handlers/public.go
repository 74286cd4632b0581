// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tenantpress/internal/cache"
	"tenantpress/internal/engine"
	"tenantpress/internal/models"
	"tenantpress/internal/seo"
	"tenantpress/internal/slug"
	"tenantpress/internal/tenant"
	"tenantpress/internal/theme"
)

// Listing sizes for public pages.
const (
	homePostLimit  = 20
	navTagLimit    = 8
	relatedLimit   = 3
	searchLimit    = 30
	feedLimit      = 20
	tagLookupLimit = 500
	maxSearchQuery = 200
)

// Content is the post source behind every public page. It is satisfied
// by *store.PostStore.
type Content interface {
	ListBySite(ctx context.Context, siteID uuid.UUID, limit int) ([]models.Post, error)
	TopTags(ctx context.Context, siteID uuid.UUID, limit int) ([]string, error)
	FindBySlug(ctx context.Context, siteID uuid.UUID, slug string) (*models.Post, error)
	Related(ctx context.Context, post *models.Post, limit int) ([]models.Post, error)
	ListByTag(ctx context.Context, siteID uuid.UUID, tag string) ([]models.Post, error)
	Search(ctx context.Context, siteID uuid.UUID, q string, limit int) ([]models.Post, error)
}

// PageCache stores rendered public pages. It is satisfied by
// *cache.PageCache.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
	InvalidateSite(ctx context.Context, siteID string)
}

// Public groups handlers for a tenant's public site. Every handler runs
// below the router switch and reads the tenant scope from the request
// context. Rendered pages are stored in the L2 page cache per site.
type Public struct {
	engine  *engine.Engine
	content Content
	pages   PageCache
	themes  *theme.Registry
}

// NewPublic creates a new Public handler group. pages may be nil, which
// disables page caching.
func NewPublic(eng *engine.Engine, content Content, pages PageCache) *Public {
	return &Public{
		engine:  eng,
		content: content,
		pages:   pages,
		themes:  theme.Default,
	}
}

// renderFunc produces a page body and its status code.
type renderFunc func(ctx context.Context, sc *tenant.Scope, s theme.Settings) ([]byte, int, error)

// serve resolves the tenant, consults the page cache and writes the page.
// Only 200 responses are cached.
func (p *Public) serve(w http.ResponseWriter, r *http.Request, contentType string, fn renderFunc) {
	ctx := r.Context()
	sc, err := tenant.FromContext(ctx)
	if err != nil {
		slog.Error("public handler without tenant", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	key := cache.PageKey(sc.Site.ID.String(), sc.Host+r.URL.RequestURI())
	if p.pages != nil {
		if cached, ok := p.pages.Get(ctx, key); ok {
			w.Header().Set("Content-Type", contentType)
			w.Header().Set("X-Cache", "HIT")
			w.Write(cached)
			return
		}
	}

	body, status, err := fn(ctx, sc, sc.Site.Settings(p.themes))
	if err != nil {
		slog.Error("render public page failed", "site_id", sc.Site.ID, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if status == http.StatusOK && p.pages != nil {
		p.pages.Set(ctx, key, body)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(status)
	w.Write(body)
}

const htmlType = "text/html; charset=utf-8"

// Home renders the tenant's front page with the renderer for its site type.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, htmlType, func(ctx context.Context, sc *tenant.Scope, s theme.Settings) ([]byte, int, error) {
		posts := p.recentPosts(ctx, sc.Site, homePostLimit)
		body, err := p.engine.RenderHome(sc, s, posts, p.navTags(ctx, sc.Site))
		return body, http.StatusOK, err
	})
}

// Post renders /post/{slug}. On sites using root post URLs the prefixed
// form redirects to the canonical one.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	p.post(w, r, models.PostURLWithPrefix)
}

// RootPost renders /{slug} on sites using root post URLs. On other sites
// the path is not a post and gets the tenant 404.
func (p *Public) RootPost(w http.ResponseWriter, r *http.Request) {
	p.post(w, r, models.PostURLRoot)
}

func (p *Public) post(w http.ResponseWriter, r *http.Request, format string) {
	slugParam := chi.URLParam(r, "slug")

	if sc, err := tenant.FromContext(r.Context()); err == nil && sc.Site.PostURLFormat != format {
		if format == models.PostURLRoot {
			p.NotFound(w, r)
			return
		}
		http.Redirect(w, r, sc.PostURL(slugParam), http.StatusMovedPermanently)
		return
	}

	p.serve(w, r, htmlType, func(ctx context.Context, sc *tenant.Scope, s theme.Settings) ([]byte, int, error) {
		tags := p.navTags(ctx, sc.Site)

		post, err := p.content.FindBySlug(ctx, sc.Site.ID, slugParam)
		if err != nil {
			slog.Error("find post failed", "site_id", sc.Site.ID, "slug", slugParam, "error", err)
		}
		if post == nil {
			body, err := p.engine.RenderNotFound(sc, s, tags)
			return body, http.StatusNotFound, err
		}

		related, err := p.content.Related(ctx, post, relatedLimit)
		if err != nil {
			slog.Warn("related posts failed", "post_id", post.ID, "error", err)
		}
		body, err := p.engine.RenderPost(sc, s, post, related, tags)
		return body, http.StatusOK, err
	})
}

// Tag renders /tag/{tag}. The URL segment is the slug of the tag name.
func (p *Public) Tag(w http.ResponseWriter, r *http.Request) {
	seg := chi.URLParam(r, "tag")
	p.serve(w, r, htmlType, func(ctx context.Context, sc *tenant.Scope, s theme.Settings) ([]byte, int, error) {
		all, err := p.content.TopTags(ctx, sc.Site.ID, tagLookupLimit)
		if err != nil {
			slog.Error("list tags failed", "site_id", sc.Site.ID, "error", err)
		}
		tag, ok := slug.FindTag(all, seg)
		if !ok {
			tag = seg
		}

		posts, err := p.content.ListByTag(ctx, sc.Site.ID, tag)
		if err != nil {
			slog.Error("list posts by tag failed", "site_id", sc.Site.ID, "tag", tag, "error", err)
		}
		nav := firstN(all, navTagLimit)
		if len(posts) == 0 && !ok {
			body, err := p.engine.RenderNotFound(sc, s, nav)
			return body, http.StatusNotFound, err
		}
		body, err := p.engine.RenderTag(sc, s, tag, posts, nav)
		return body, http.StatusOK, err
	})
}

// Search renders /search?q=. Sites with search disabled get the 404 page.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(q) > maxSearchQuery {
		q = q[:maxSearchQuery]
	}
	p.serve(w, r, htmlType, func(ctx context.Context, sc *tenant.Scope, s theme.Settings) ([]byte, int, error) {
		tags := p.navTags(ctx, sc.Site)
		if !s.ShowSearch {
			body, err := p.engine.RenderNotFound(sc, s, tags)
			return body, http.StatusNotFound, err
		}

		var posts []models.Post
		if q != "" {
			var err error
			posts, err = p.content.Search(ctx, sc.Site.ID, q, searchLimit)
			if err != nil {
				slog.Error("search posts failed", "site_id", sc.Site.ID, "error", err)
			}
		}
		body, err := p.engine.RenderSearch(sc, s, q, posts, tags)
		return body, http.StatusOK, err
	})
}

// Sitemap serves the tenant's sitemap.xml with base-path-correct URLs.
func (p *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "application/xml; charset=utf-8", func(ctx context.Context, sc *tenant.Scope, _ theme.Settings) ([]byte, int, error) {
		posts := p.recentPosts(ctx, sc.Site, 0)
		tags, err := p.content.TopTags(ctx, sc.Site.ID, tagLookupLimit)
		if err != nil {
			slog.Error("list tags failed", "site_id", sc.Site.ID, "error", err)
		}
		body, err := seo.Sitemap(sc, posts, tags)
		return body, http.StatusOK, err
	})
}

// Feed serves the tenant's RSS feed.
func (p *Public) Feed(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "application/rss+xml; charset=utf-8", func(ctx context.Context, sc *tenant.Scope, _ theme.Settings) ([]byte, int, error) {
		body, err := seo.Feed(sc, p.recentPosts(ctx, sc.Site, feedLimit))
		return body, http.StatusOK, err
	})
}

// Robots serves robots.txt for the tenant.
func (p *Public) Robots(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "text/plain; charset=utf-8", func(_ context.Context, sc *tenant.Scope, _ theme.Settings) ([]byte, int, error) {
		return []byte(seo.Robots(sc)), http.StatusOK, nil
	})
}

// NotFound renders the tenant-themed 404 page. It is not cached.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sc, err := tenant.FromContext(ctx)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	body, err := p.engine.RenderNotFound(sc, sc.Site.Settings(p.themes), p.navTags(ctx, sc.Site))
	if err != nil {
		slog.Error("render not found page failed", "site_id", sc.Site.ID, "error", err)
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", htmlType)
	w.WriteHeader(http.StatusNotFound)
	w.Write(body)
}

// SiteNotFound renders the terminal page for a host no tenant answers on.
// A failed lookup is reported as 503 so clients and proxies retry.
func (p *Public) SiteNotFound(w http.ResponseWriter, r *http.Request, host string, lookupFailed bool) {
	status := http.StatusNotFound
	if lookupFailed {
		status = http.StatusServiceUnavailable
		w.Header().Set("Retry-After", "30")
	}
	body, err := p.engine.RenderSiteNotFound(host, lookupFailed)
	if err != nil {
		slog.Error("render site not found failed", "host", host, "error", err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", htmlType)
	w.WriteHeader(status)
	w.Write(body)
}

// recentPosts lists published posts and logs failures; the renderers show
// their empty state when the list is empty.
func (p *Public) recentPosts(ctx context.Context, site *models.Site, limit int) []models.Post {
	posts, err := p.content.ListBySite(ctx, site.ID, limit)
	if err != nil {
		slog.Error("list posts failed", "site_id", site.ID, "error", err)
		return nil
	}
	return posts
}

func (p *Public) navTags(ctx context.Context, site *models.Site) []string {
	tags, err := p.content.TopTags(ctx, site.ID, navTagLimit)
	if err != nil {
		slog.Warn("top tags failed", "site_id", site.ID, "error", err)
		return nil
	}
	return tags
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
