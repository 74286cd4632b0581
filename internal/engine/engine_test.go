// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"tenantpress/internal/models"
	"tenantpress/internal/tenant"
	"tenantpress/internal/theme"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func testScope(siteType models.SiteType, base string) *tenant.Scope {
	site := &models.Site{
		ID:            uuid.New(),
		Domain:        "acme.com",
		BasePath:      base,
		SiteType:      siteType,
		Title:         "Acme",
		PostURLFormat: models.PostURLWithPrefix,
	}
	return tenant.NewScope(site, "acme.com", false)
}

func testPosts(n int) []models.Post {
	posts := make([]models.Post, n)
	for i := range posts {
		published := time.Date(2026, 1, 10-i, 0, 0, 0, 0, time.UTC)
		posts[i] = models.Post{
			ID:          uuid.New(),
			Slug:        "post-" + string(rune('a'+i)),
			Title:       "Post " + string(rune('A'+i)),
			Content:     "See [the other post](/post/post-a) and [docs](https://example.com).",
			Tags:        []string{"Go", "Web Design"},
			PublishedAt: &published,
		}
	}
	return posts
}

func TestForSiteTypeIsTotal(t *testing.T) {
	e := testEngine(t)

	for _, st := range models.SiteTypes {
		if got := e.ForSiteType(st).Type; got != st {
			t.Errorf("ForSiteType(%q) = %q", st, got)
		}
	}
	for _, st := range []models.SiteType{"", "wiki", "BLOG"} {
		if got := e.ForSiteType(st).Type; got != models.SiteTypeBlog {
			t.Errorf("ForSiteType(%q) = %q, want blog fallback", st, got)
		}
	}
}

func TestBuildHome(t *testing.T) {
	sc := testScope(models.SiteTypeBlog, "/blog")
	posts := testPosts(3)

	tests := []struct {
		name     string
		hero     bool
		posts    []models.Post
		wantHero string
		wantGrid int
		empty    bool
	}{
		{"hero takes the first post", true, posts, "/blog/post/post-a", 2, false},
		{"no hero puts everything in the grid", false, posts, "", 3, false},
		{"single post becomes hero", true, posts[:1], "/blog/post/post-a", 0, false},
		{"empty state", true, nil, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := theme.DefaultSettings()
			s.ShowFeaturedHero = tt.hero
			v := BuildHome(sc, s, tt.posts, nil)

			if tt.wantHero == "" && v.Hero != nil {
				t.Errorf("expected no hero, got %q", v.Hero.URL)
			}
			if tt.wantHero != "" && (v.Hero == nil || v.Hero.URL != tt.wantHero) {
				t.Errorf("hero: got %+v, want %q", v.Hero, tt.wantHero)
			}
			if len(v.Grid) != tt.wantGrid {
				t.Errorf("grid: got %d cards, want %d", len(v.Grid), tt.wantGrid)
			}
			if v.Empty != tt.empty {
				t.Errorf("empty: got %v, want %v", v.Empty, tt.empty)
			}
		})
	}
}

func TestBuildHomeKeepsOrder(t *testing.T) {
	sc := testScope(models.SiteTypeBlog, "")
	posts := testPosts(3)
	// Oldest first on purpose: the renderer must not re-sort.
	posts[0], posts[2] = posts[2], posts[0]

	v := BuildHome(sc, theme.DefaultSettings(), posts, nil)
	if v.Hero == nil || v.Hero.URL != "/post/post-c" {
		t.Errorf("hero must be posts[0] as given, got %+v", v.Hero)
	}
}

func TestBuildHomeChrome(t *testing.T) {
	sc := testScope(models.SiteTypeNews, "/blog")
	s := theme.DefaultSettings()
	s.TopBannerEnabled = true
	s.TopBannerMessage = "Live"
	s.TopBannerLink = "/post/live"
	s.ShowSearch = false

	v := BuildHome(sc, s, nil, []string{"Local News"})

	if v.Site.HomeURL != "/blog/" {
		t.Errorf("home url: %q", v.Site.HomeURL)
	}
	if v.Site.StaticURL != "/blog/static" {
		t.Errorf("static url: %q", v.Site.StaticURL)
	}
	if v.Site.SearchURL != "" {
		t.Errorf("search disabled, got %q", v.Site.SearchURL)
	}
	if v.TopBanner == nil || v.TopBanner.URL != "/blog/post/live" {
		t.Errorf("top banner: %+v", v.TopBanner)
	}
	if len(v.NavTags) != 1 || v.NavTags[0].URL != "/blog/tag/local-news" {
		t.Errorf("nav tags: %+v", v.NavTags)
	}
	if v.GDPR != nil {
		t.Error("gdpr banner must be off by default")
	}
}

// hrefRe captures href and src attribute values.
var hrefRe = regexp.MustCompile(`(?:href|src)="([^"]*)"`)

func TestRenderHomeRewritesEveryLink(t *testing.T) {
	e := testEngine(t)

	for _, st := range models.SiteTypes {
		t.Run(string(st), func(t *testing.T) {
			sc := testScope(st, "/blog")
			s := theme.Default.Merge(string(st), theme.Tokens{})
			out, err := e.RenderHome(sc, s, testPosts(6), []string{"Go"})
			if err != nil {
				t.Fatalf("RenderHome: %v", err)
			}
			for _, m := range hrefRe.FindAllStringSubmatch(string(out), -1) {
				u := m[1]
				if strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "#") {
					continue
				}
				if !strings.HasPrefix(u, "/blog/") && u != "/blog" {
					t.Errorf("link %q escapes the base path", u)
				}
			}
			if !strings.Contains(string(out), `href="/blog/static/site.css"`) {
				t.Error("stylesheet not under base path")
			}
		})
	}
}

func TestRenderHomeInjectsThemeCSS(t *testing.T) {
	e := testEngine(t)
	sc := testScope(models.SiteTypeBlog, "")

	s := theme.DefaultSettings()
	s.PrimaryColor = "#ff0000"
	out, err := e.RenderHome(sc, s, nil, nil)
	if err != nil {
		t.Fatalf("RenderHome: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "--primary:0 100% 50%;") {
		t.Errorf("expected primary colour property in page, got:\n%s", html)
	}
	if !strings.Contains(html, "No posts yet") {
		t.Error("expected empty state")
	}
}

func TestRenderDoesNotLeakBetweenTenants(t *testing.T) {
	e := testEngine(t)

	red := theme.DefaultSettings()
	red.PrimaryColor = "#ff0000"
	a, err := e.RenderHome(testScope(models.SiteTypeBlog, ""), red, nil, nil)
	if err != nil {
		t.Fatalf("RenderHome A: %v", err)
	}
	b, err := e.RenderHome(testScope(models.SiteTypeBlog, ""), theme.DefaultSettings(), nil, nil)
	if err != nil {
		t.Fatalf("RenderHome B: %v", err)
	}
	if !strings.Contains(string(a), "--primary:0 100% 50%;") {
		t.Error("tenant A missing its primary colour")
	}
	if strings.Contains(string(b), "--primary:0 100% 50%;") {
		t.Error("tenant A's primary colour leaked into tenant B")
	}
}

func TestRenderPost(t *testing.T) {
	e := testEngine(t)
	sc := testScope(models.SiteTypeMagazine, "/mag")
	posts := testPosts(3)

	out, err := e.RenderPost(sc, theme.DefaultSettings(), &posts[0], posts[1:], nil)
	if err != nil {
		t.Fatalf("RenderPost: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		"<h1>Post A</h1>",
		`href="/mag/post/post-a"`,
		`href="https://example.com"`,
		`<h2>Related</h2>`,
		`href="/mag/post/post-b"`,
		`href="/mag/tag/web-design"`,
		`<link rel="canonical" href="https://acme.com/mag/post/post-a">`,
		`application/ld+json`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in post page", want)
		}
	}
}

func TestRenderPostNoIndex(t *testing.T) {
	e := testEngine(t)
	sc := testScope(models.SiteTypeBlog, "")
	p := testPosts(1)[0]
	p.NoIndex = true

	out, err := e.RenderPost(sc, theme.DefaultSettings(), &p, nil, nil)
	if err != nil {
		t.Fatalf("RenderPost: %v", err)
	}
	if !strings.Contains(string(out), `<meta name="robots" content="noindex">`) {
		t.Error("expected noindex meta tag")
	}
}

func TestRenderListings(t *testing.T) {
	e := testEngine(t)
	sc := testScope(models.SiteTypeBlog, "/blog")
	s := theme.DefaultSettings()

	out, err := e.RenderTag(sc, s, "Go", testPosts(2), nil)
	if err != nil {
		t.Fatalf("RenderTag: %v", err)
	}
	if !strings.Contains(string(out), "Tagged “Go”") {
		t.Error("tag heading missing")
	}

	out, err = e.RenderSearch(sc, s, "nothing", nil, nil)
	if err != nil {
		t.Fatalf("RenderSearch: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "Nothing found.") {
		t.Error("search empty state missing")
	}
	if !strings.Contains(html, `<meta name="robots" content="noindex">`) {
		t.Error("search results must not be indexed")
	}

	out, err = e.RenderNotFound(sc, s, nil)
	if err != nil {
		t.Fatalf("RenderNotFound: %v", err)
	}
	if !strings.Contains(string(out), `href="/blog/"`) {
		t.Error("not found page must link back to the tenant home")
	}
}

func TestRenderSiteNotFound(t *testing.T) {
	e := testEngine(t)

	out, err := e.RenderSiteNotFound("nope.example", false)
	if err != nil {
		t.Fatalf("RenderSiteNotFound: %v", err)
	}
	if !strings.Contains(string(out), "Site not found") || !strings.Contains(string(out), "nope.example") {
		t.Errorf("unexpected page: %s", out)
	}

	out, err = e.RenderSiteNotFound("nope.example", true)
	if err != nil {
		t.Fatalf("RenderSiteNotFound: %v", err)
	}
	if !strings.Contains(string(out), "Temporarily unavailable") {
		t.Errorf("unexpected page: %s", out)
	}
}
