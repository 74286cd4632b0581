// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"html/template"
	"log/slog"
	"time"

	"tenantpress/internal/markdown"
	"tenantpress/internal/models"
	"tenantpress/internal/seo"
	"tenantpress/internal/tenant"
	"tenantpress/internal/theme"
)

// excerptLength caps excerpts derived from post bodies.
const excerptLength = 180

// SiteView is the tenant chrome shared by every public page.
type SiteView struct {
	Title       string
	HomeURL     string
	StaticURL   string
	SearchURL   string // empty when search is disabled
	FeedURL     string
	LogoURL     string
	Favicon     string
	AnalyticsID string
	Type        models.SiteType
}

// Banner is an optional top or consent banner.
type Banner struct {
	Message string
	URL     string
}

// TagLink is a tag with its listing URL.
type TagLink struct {
	Name string
	URL  string
}

// Card is one post in a listing.
type Card struct {
	Title    string
	URL      string
	Excerpt  string
	ImageURL string
	Date     string
	Tags     []TagLink
}

// Page holds what every public template needs besides its own content.
type Page struct {
	Site      SiteView
	Settings  theme.Settings
	Classes   theme.Classes
	ThemeCSS  template.CSS
	Meta      seo.Meta
	JSONLD    template.JS
	NavTags   []TagLink
	TopBanner *Banner
	GDPR      *Banner
	Footer    string
	Year      int
}

// HomeView is the data of a site's front page.
type HomeView struct {
	Page
	Hero  *Card
	Grid  []Card
	Empty bool
}

// PostView is the data of a single post page.
type PostView struct {
	Page
	Post    Card
	Body    template.HTML
	Related []Card
}

// ListView is the data of a tag listing, search results or a tenant 404.
type ListView struct {
	Page
	Heading  string
	Query    string
	Cards    []Card
	Empty    bool
	NotFound bool
}

// newPage builds the shared chrome. Every URL goes through the scope so
// it lands under the tenant's base path.
func newPage(sc *tenant.Scope, s theme.Settings, tags []string, meta seo.Meta) Page {
	site := sc.Site
	p := Page{
		Site: SiteView{
			Title:       site.DisplayTitle(),
			HomeURL:     sc.Home(),
			StaticURL:   sc.Link("/static"),
			FeedURL:     sc.Link("/feed.xml"),
			LogoURL:     sc.AssetURL(site.LogoURL),
			Favicon:     sc.AssetURL(site.Favicon),
			AnalyticsID: site.AnalyticsID,
			Type:        site.SiteType,
		},
		Settings: s,
		Classes:  s.Classes(),
		Meta:     meta,
		JSONLD:   template.JS(meta.JSONLD),
		NavTags:  tagLinks(sc, tags),
		Footer:   s.FooterText,
		Year:     time.Now().Year(),
	}
	if s.ShowSearch {
		p.Site.SearchURL = sc.Link("/search")
	}
	if s.TopBannerEnabled && s.TopBannerMessage != "" {
		p.TopBanner = &Banner{Message: s.TopBannerMessage, URL: sc.Link(s.TopBannerLink)}
	}
	if s.GDPRBannerEnabled {
		p.GDPR = &Banner{Message: s.GDPRBannerMessage}
	}
	return p
}

// BuildHome arranges posts for the front page. With the featured hero
// enabled the first post, in the order given, becomes the hero and the
// rest form the grid; otherwise every post is in the grid.
func BuildHome(sc *tenant.Scope, s theme.Settings, posts []models.Post, tags []string) HomeView {
	v := HomeView{
		Page:  newPage(sc, s, tags, seo.HomeMeta(sc)),
		Empty: len(posts) == 0,
	}
	cards := cardsFor(sc, posts)
	if s.ShowFeaturedHero && len(cards) > 0 {
		v.Hero = &cards[0]
		cards = cards[1:]
	}
	v.Grid = cards
	return v
}

// BuildPost prepares a single post page.
func BuildPost(sc *tenant.Scope, s theme.Settings, p *models.Post, related []models.Post, tags []string) PostView {
	body, err := markdown.ToHTML(p.Content, sc.BasePath)
	if err != nil {
		slog.Warn("markdown conversion failed, using raw body", "post", p.Slug, "error", err)
		body = template.HTMLEscapeString(p.Content)
	}
	return PostView{
		Page:    newPage(sc, s, tags, seo.PostMeta(sc, p)),
		Post:    cardFor(sc, p),
		Body:    template.HTML(body),
		Related: cardsFor(sc, related),
	}
}

// BuildTag prepares the listing of one tag.
func BuildTag(sc *tenant.Scope, s theme.Settings, tag string, posts []models.Post, tags []string) ListView {
	return ListView{
		Page:    newPage(sc, s, tags, seo.ListingMeta(sc, "#"+tag, sc.TagURL(tag), false)),
		Heading: "Tagged “" + tag + "”",
		Cards:   cardsFor(sc, posts),
		Empty:   len(posts) == 0,
	}
}

// BuildSearch prepares search results for query q.
func BuildSearch(sc *tenant.Scope, s theme.Settings, q string, posts []models.Post, tags []string) ListView {
	heading := "Search"
	if q != "" {
		heading = "Results for “" + q + "”"
	}
	return ListView{
		Page:    newPage(sc, s, tags, seo.ListingMeta(sc, "Search", "/search", true)),
		Heading: heading,
		Query:   q,
		Cards:   cardsFor(sc, posts),
		Empty:   len(posts) == 0,
	}
}

// BuildNotFound prepares the tenant-themed 404 page.
func BuildNotFound(sc *tenant.Scope, s theme.Settings, tags []string) ListView {
	return ListView{
		Page:     newPage(sc, s, tags, seo.ListingMeta(sc, "Page not found", "/", true)),
		Heading:  "Page not found",
		Empty:    true,
		NotFound: true,
	}
}

func cardsFor(sc *tenant.Scope, posts []models.Post) []Card {
	cards := make([]Card, 0, len(posts))
	for i := range posts {
		cards = append(cards, cardFor(sc, &posts[i]))
	}
	return cards
}

func cardFor(sc *tenant.Scope, p *models.Post) Card {
	excerpt := p.Excerpt
	if excerpt == "" {
		excerpt = markdown.Excerpt(p.Content, excerptLength)
	}
	return Card{
		Title:    p.Title,
		URL:      sc.PostURL(p.Slug),
		Excerpt:  excerpt,
		ImageURL: sc.AssetURL(p.ImageURL),
		Date:     p.DisplayDate(),
		Tags:     tagLinks(sc, p.UniqueTags()),
	}
}

func tagLinks(sc *tenant.Scope, tags []string) []TagLink {
	out := make([]TagLink, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagLink{Name: t, URL: sc.TagURL(t)})
	}
	return out
}
