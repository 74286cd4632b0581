// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tenantpress/internal/links"
	"tenantpress/internal/theme"
)

// SiteType selects the public renderer for a site.
type SiteType string

const (
	SiteTypeBlog       SiteType = "blog"
	SiteTypeNews       SiteType = "news"
	SiteTypeMagazine   SiteType = "magazine"
	SiteTypePortfolio  SiteType = "portfolio"
	SiteTypeRestaurant SiteType = "restaurant"
	SiteTypeCrypto     SiteType = "crypto"
)

// SiteTypes lists every supported site type.
var SiteTypes = []SiteType{
	SiteTypeBlog, SiteTypeNews, SiteTypeMagazine,
	SiteTypePortfolio, SiteTypeRestaurant, SiteTypeCrypto,
}

// Post URL formats. See links.PostPath.
const (
	PostURLWithPrefix = links.FormatWithPrefix
	PostURLRoot       = links.FormatRoot
)

// Site is a tenant: one independently branded website.
type Site struct {
	ID               uuid.UUID     `json:"id"`
	Domain           string        `json:"domain" validate:"required,hostname_rfc1123"`
	AliasDomains     []string      `json:"aliasDomains,omitempty" validate:"omitempty,dive,hostname_rfc1123"`
	BasePath         string        `json:"basePath,omitempty" validate:"omitempty,startswith=/,max=200"`
	SiteType         SiteType      `json:"siteType" validate:"required,oneof=blog news magazine portfolio restaurant crypto"`
	ThemeID          string        `json:"themeId,omitempty" validate:"omitempty,max=64"`
	TemplateSettings *theme.Tokens `json:"templateSettings,omitempty"`
	PostURLFormat    string        `json:"postUrlFormat,omitempty" validate:"omitempty,oneof=with-prefix root"`
	Title            string        `json:"title" validate:"max=200"`
	MetaTitle        string        `json:"metaTitle,omitempty" validate:"max=200"`
	MetaDescription  string        `json:"metaDescription,omitempty" validate:"max=500"`
	LogoURL          string        `json:"logoUrl,omitempty"`
	Favicon          string        `json:"favicon,omitempty"`
	AnalyticsID      string        `json:"analyticsId,omitempty" validate:"max=64"`
	AllowAdminAccess bool          `json:"allowAdminAccess"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// validate is shared by every model; validator caches struct metadata.
var validate = newValidator()

// newValidator registers csscolor, the colour form the theme palette
// accepts ("#rgb" or "#rrggbb").
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("csscolor", func(fl validator.FieldLevel) bool {
		return theme.IsHexColor(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
	return v
}

// Normalize canonicalises the fields that must hold invariants: lower-case
// domains and a base path with a leading slash and no trailing slash.
func (s *Site) Normalize() {
	s.Domain = strings.ToLower(strings.TrimSpace(s.Domain))
	for i, d := range s.AliasDomains {
		s.AliasDomains[i] = strings.ToLower(strings.TrimSpace(d))
	}
	s.BasePath = links.NormalizeBasePath(s.BasePath)
	if s.PostURLFormat == "" {
		s.PostURLFormat = PostURLWithPrefix
	}
}

// Validate checks the site's fields, including any colour overrides.
func (s *Site) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid site: %w", err)
	}
	if s.ThemeID != "" && !theme.Default.IsValid(s.ThemeID) {
		return fmt.Errorf("invalid site: unknown theme %q", s.ThemeID)
	}
	return nil
}

// Theme returns the registry key for the site's theme. Sites without an
// explicit theme use the theme named after their type.
func (s *Site) Theme() string {
	if s.ThemeID != "" {
		return s.ThemeID
	}
	return string(s.SiteType)
}

// Settings merges base defaults, the site's theme and its overrides.
func (s *Site) Settings(reg *theme.Registry) theme.Settings {
	var overrides theme.Tokens
	if s.TemplateSettings != nil {
		overrides = *s.TemplateSettings
	}
	return reg.Merge(s.Theme(), overrides)
}

// DisplayTitle returns the title shown in headers, falling back to the domain.
func (s *Site) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Domain
}

// HasDomain reports whether host is the primary or an alias domain, and
// whether it matched as an alias.
func (s *Site) HasDomain(host string) (matched, alias bool) {
	if strings.EqualFold(s.Domain, host) {
		return true, false
	}
	for _, d := range s.AliasDomains {
		if strings.EqualFold(d, host) {
			return true, true
		}
	}
	return false, false
}

// ValidateTokens checks a set of design overrides on its own.
func ValidateTokens(t theme.Tokens) error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid design settings: %w", err)
	}
	return nil
}
