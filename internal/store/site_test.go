// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"tenantpress/internal/models"
	"tenantpress/internal/theme"
)

func TestSiteStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)
	ctx := context.Background()

	alias := "alias-" + uuid.NewString()[:8] + ".test"
	site := testSite(t, db, func(site *models.Site) {
		site.Domain = "UPPER-" + uuid.NewString()[:8] + ".test"
		site.BasePath = "blog/"
		site.AliasDomains = []string{alias}
		site.AllowAdminAccess = true
		site.TemplateSettings = &theme.Tokens{PrimaryColor: theme.Ptr("#ff0000")}
	})

	if site.BasePath != "/blog" {
		t.Errorf("base path not normalized: %q", site.BasePath)
	}
	if site.PostURLFormat != models.PostURLWithPrefix {
		t.Errorf("post url format: got %q", site.PostURLFormat)
	}

	found, isAlias, err := s.FindByDomain(ctx, site.Domain)
	if err != nil {
		t.Fatalf("FindByDomain: %v", err)
	}
	if found == nil || found.ID != site.ID || isAlias {
		t.Fatalf("primary lookup: got %+v alias=%v", found, isAlias)
	}
	if len(found.AliasDomains) != 1 || found.AliasDomains[0] != alias {
		t.Errorf("alias domains: got %v", found.AliasDomains)
	}
	if found.TemplateSettings == nil || *found.TemplateSettings.PrimaryColor != "#ff0000" {
		t.Errorf("template settings not round-tripped: %+v", found.TemplateSettings)
	}

	found, isAlias, err = s.FindByDomain(ctx, alias)
	if err != nil {
		t.Fatalf("FindByDomain alias: %v", err)
	}
	if found == nil || !isAlias {
		t.Errorf("alias lookup: got %+v alias=%v", found, isAlias)
	}

	missing, _, err := s.FindByDomain(ctx, "nope-"+uuid.NewString()+".test")
	if err != nil {
		t.Fatalf("FindByDomain missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown domain")
	}
}

func TestSiteStoreCreateDuplicateDomain(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)

	site := testSite(t, db, nil)

	_, err := s.Create(context.Background(), &models.Site{
		Domain:       "other-" + uuid.NewString()[:8] + ".test",
		AliasDomains: []string{site.Domain},
		SiteType:     models.SiteTypeNews,
	})
	if !errors.Is(err, ErrDomainTaken) {
		t.Errorf("expected ErrDomainTaken, got %v", err)
	}
}

func TestSiteStoreCreateInvalid(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)

	_, err := s.Create(context.Background(), &models.Site{Domain: "x.test", SiteType: "wiki"})
	if err == nil {
		t.Error("expected validation error for unknown site type")
	}
}

func TestSiteStoreUpdateDesign(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)
	ctx := context.Background()

	site := testSite(t, db, nil)

	overrides := &theme.Tokens{HeadingFont: theme.Ptr(theme.FontElegant)}
	if err := s.UpdateDesign(ctx, site.ID, "news", overrides); err != nil {
		t.Fatalf("UpdateDesign: %v", err)
	}

	found, err := s.FindByID(ctx, site.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.ThemeID != "news" {
		t.Errorf("theme: got %q", found.ThemeID)
	}
	if found.TemplateSettings == nil || *found.TemplateSettings.HeadingFont != theme.FontElegant {
		t.Errorf("overrides: got %+v", found.TemplateSettings)
	}

	// Clearing overrides stores NULL.
	if err := s.UpdateDesign(ctx, site.ID, "news", nil); err != nil {
		t.Fatalf("UpdateDesign clear: %v", err)
	}
	found, _ = s.FindByID(ctx, site.ID)
	if found.TemplateSettings != nil {
		t.Errorf("expected nil overrides, got %+v", found.TemplateSettings)
	}

	if err := s.UpdateDesign(ctx, site.ID, "no-such-theme", nil); err == nil {
		t.Error("expected error for unknown theme")
	}
	bad := &theme.Tokens{PrimaryColor: theme.Ptr("red")}
	if err := s.UpdateDesign(ctx, site.ID, "", bad); err == nil {
		t.Error("expected error for invalid colour")
	}
}

func TestSiteStoreList(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)

	site := testSite(t, db, nil)

	sites, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var found bool
	for _, x := range sites {
		if x.ID == site.ID {
			found = true
		}
	}
	if !found {
		t.Error("created site missing from List")
	}
}
