// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"tenantpress/internal/models"
	"tenantpress/internal/tenant"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap renders sitemap.xml for a tenant: home, every indexable post
// and every tag page.
func Sitemap(sc *tenant.Scope, posts []models.Post, tags []string) ([]byte, error) {
	urls := []sitemapURL{{Loc: sc.AbsoluteURL("/")}}
	for _, p := range posts {
		if p.NoIndex {
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:     sc.AbsoluteURL(sc.PostURL(p.Slug)),
			LastMod: p.UpdatedAt.UTC().Format("2006-01-02"),
		})
	}
	for _, t := range tags {
		urls = append(urls, sitemapURL{Loc: sc.AbsoluteURL(sc.TagURL(t))})
	}
	return marshal(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

// Feed renders an RSS 2.0 feed of posts.
func Feed(sc *tenant.Scope, posts []models.Post) ([]byte, error) {
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := sc.AbsoluteURL(sc.PostURL(p.Slug))
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			Description: PostMeta(sc, &p).Description,
			GUID:        link,
			Categories:  p.UniqueTags(),
		}
		if p.PublishedAt != nil {
			item.PubDate = p.PublishedAt.UTC().Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	return marshal(rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       sc.Site.DisplayTitle(),
			Link:        sc.AbsoluteURL("/"),
			Description: sc.Site.MetaDescription,
			Items:       items,
		},
	})
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	return buf.Bytes(), nil
}

// Robots renders robots.txt. Admin and search pages are excluded and the
// sitemap is advertised with its base-path-correct URL.
func Robots(sc *tenant.Scope) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	fmt.Fprintf(&b, "Disallow: %s\n", sc.Link("/admin"))
	fmt.Fprintf(&b, "Disallow: %s\n", sc.Link("/search"))
	fmt.Fprintf(&b, "\nSitemap: %s\n", sc.AbsoluteURL("/sitemap.xml"))
	return b.String()
}
