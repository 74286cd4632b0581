// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostSource records how a post was created.
type PostSource string

const (
	PostSourceManual PostSource = "manual"
	PostSourceAI     PostSource = "ai"
	PostSourceRSS    PostSource = "rss"
)

// Post belongs to exactly one site. Slugs are unique within a site.
type Post struct {
	ID              uuid.UUID  `json:"id"`
	SiteID          uuid.UUID  `json:"siteId"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Excerpt         string     `json:"excerpt,omitempty"`
	Tags            []string   `json:"tags"`
	ImageURL        string     `json:"imageUrl,omitempty"`
	MetaTitle       string     `json:"metaTitle,omitempty"`
	MetaDescription string     `json:"metaDescription,omitempty"`
	OGImage         string     `json:"ogImage,omitempty"`
	CanonicalURL    string     `json:"canonicalUrl,omitempty"`
	NoIndex         bool       `json:"noindex"`
	Source          PostSource `json:"source"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// IsPublished returns true if the post has a publish date in the past.
func (p *Post) IsPublished() bool {
	return p.PublishedAt != nil && !p.PublishedAt.After(time.Now())
}

// DisplayDate returns the publish date formatted for templates, or the
// creation date for unpublished posts.
func (p *Post) DisplayDate() string {
	if p.PublishedAt != nil {
		return p.PublishedAt.Format("January 2, 2006")
	}
	return p.CreatedAt.Format("January 2, 2006")
}

// UniqueTags returns the post's tags without duplicates, first occurrence
// wins.
func (p *Post) UniqueTags() []string {
	seen := make(map[string]bool, len(p.Tags))
	var out []string
	for _, t := range p.Tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
