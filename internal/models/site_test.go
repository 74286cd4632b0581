// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"testing"
	"time"

	"tenantpress/internal/theme"
)

func validSite() *Site {
	return &Site{
		Domain:   "blog.example.com",
		BasePath: "/blog",
		SiteType: SiteTypeNews,
		Title:    "Example News",
	}
}

func TestSiteNormalize(t *testing.T) {
	s := &Site{
		Domain:       "  Blog.Example.COM ",
		AliasDomains: []string{"WWW.Example.com"},
		BasePath:     "blog/",
	}
	s.Normalize()

	if s.Domain != "blog.example.com" {
		t.Errorf("Domain = %q", s.Domain)
	}
	if s.AliasDomains[0] != "www.example.com" {
		t.Errorf("AliasDomains[0] = %q", s.AliasDomains[0])
	}
	if s.BasePath != "/blog" {
		t.Errorf("BasePath = %q, want /blog", s.BasePath)
	}
	if s.PostURLFormat != PostURLWithPrefix {
		t.Errorf("PostURLFormat = %q, want %q", s.PostURLFormat, PostURLWithPrefix)
	}
}

func TestSiteValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Site)
		wantErr bool
	}{
		{"valid", func(*Site) {}, false},
		{"missing domain", func(s *Site) { s.Domain = "" }, true},
		{"bad domain", func(s *Site) { s.Domain = "not a host" }, true},
		{"bad alias", func(s *Site) { s.AliasDomains = []string{"bad host"} }, true},
		{"base path without slash", func(s *Site) { s.BasePath = "blog" }, true},
		{"unknown site type", func(s *Site) { s.SiteType = "forum" }, true},
		{"bad url format", func(s *Site) { s.PostURLFormat = "dated" }, true},
		{"root url format", func(s *Site) { s.PostURLFormat = PostURLRoot }, false},
		{"unknown theme", func(s *Site) { s.ThemeID = "no-such-theme" }, true},
		{"staged theme is still valid", func(s *Site) { s.ThemeID = "midnight" }, false},
		{"bad colour override", func(s *Site) {
			s.TemplateSettings = &theme.Tokens{PrimaryColor: theme.Ptr("blue-ish")}
		}, true},
		{"alpha colour override", func(s *Site) {
			s.TemplateSettings = &theme.Tokens{TextColor: theme.Ptr("#11223344")}
		}, true},
		{"good colour override", func(s *Site) {
			s.TemplateSettings = &theme.Tokens{PrimaryColor: theme.Ptr("#123abc")}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSite()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected an error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSiteSettingsUsesTypeThemeByDefault(t *testing.T) {
	s := validSite()
	got := s.Settings(theme.Default)
	if got.HeadingFont != theme.FontEditorial {
		t.Errorf("HeadingFont = %q, want editorial from the news theme", got.HeadingFont)
	}

	s.ThemeID = "minimal"
	s.TemplateSettings = &theme.Tokens{HeadingFont: theme.Ptr(theme.FontTech)}
	got = s.Settings(theme.Default)
	if got.HeadingFont != theme.FontTech {
		t.Errorf("HeadingFont = %q, want site override", got.HeadingFont)
	}
	if got.ShowFeaturedHero {
		t.Error("minimal theme disables the hero")
	}
}

func TestSiteHasDomain(t *testing.T) {
	s := validSite()
	s.AliasDomains = []string{"news.example.org"}

	if ok, alias := s.HasDomain("BLOG.example.com"); !ok || alias {
		t.Errorf("primary domain: ok=%v alias=%v", ok, alias)
	}
	if ok, alias := s.HasDomain("news.example.org"); !ok || !alias {
		t.Errorf("alias domain: ok=%v alias=%v", ok, alias)
	}
	if ok, _ := s.HasDomain("other.example.com"); ok {
		t.Error("unrelated host should not match")
	}
}

func TestSiteDisplayTitle(t *testing.T) {
	s := validSite()
	if s.DisplayTitle() != "Example News" {
		t.Errorf("DisplayTitle = %q", s.DisplayTitle())
	}
	s.Title = ""
	if s.DisplayTitle() != "blog.example.com" {
		t.Errorf("DisplayTitle fallback = %q", s.DisplayTitle())
	}
}

func TestPostUniqueTags(t *testing.T) {
	p := &Post{Tags: []string{"go", "", "web", "go", "web", "css"}}
	got := p.UniqueTags()
	want := []string{"go", "web", "css"}
	if len(got) != len(want) {
		t.Fatalf("UniqueTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UniqueTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPostIsPublished(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	if (&Post{}).IsPublished() {
		t.Error("post without publish date is not published")
	}
	if !(&Post{PublishedAt: &past}).IsPublished() {
		t.Error("post published in the past should be published")
	}
	if (&Post{PublishedAt: &future}).IsPublished() {
		t.Error("scheduled post should not be published yet")
	}
}
