// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tenant carries the resolved site and its base path through a
// request. Renderers receive a *Scope explicitly; handlers further down a
// middleware chain can also read it from the request context.
package tenant

import (
	"context"
	"errors"
	"strings"

	"tenantpress/internal/links"
	"tenantpress/internal/models"
	"tenantpress/internal/slug"
)

// ErrNoScope is returned when tenant data is read outside a request that
// the router resolved to a tenant. It signals a wiring mistake.
var ErrNoScope = errors.New("tenant scope requested outside a tenant-resolved request")

// AssetResolver turns a stored asset reference (object key) into a public
// URL. It is satisfied by *storage.Client.
type AssetResolver interface {
	FileURL(key string) string
}

// Scope is the active tenant for one request.
type Scope struct {
	Site          *models.Site
	BasePath      string
	IsAliasDomain bool

	// Scheme is used for absolute URLs ("https" unless configured).
	Scheme string
	// Host is the hostname the request arrived on.
	Host string

	assets AssetResolver
}

// NewScope builds the scope for site as reached through host. On an alias
// domain the proxy has already stripped the base path, so links are
// emitted without it.
func NewScope(site *models.Site, host string, isAlias bool) *Scope {
	base := links.NormalizeBasePath(site.BasePath)
	if isAlias {
		base = ""
	}
	if host == "" {
		host = site.Domain
	}
	return &Scope{
		Site:          site,
		BasePath:      base,
		IsAliasDomain: isAlias,
		Scheme:        "https",
		Host:          host,
	}
}

// WithAssets sets the resolver used for bare object keys in AssetURL.
func (s *Scope) WithAssets(r AssetResolver) *Scope {
	s.assets = r
	return s
}

// Link rewrites href into the tenant's base path.
func (s *Scope) Link(href string) string {
	return links.RewriteInternal(href, s.BasePath)
}

// Home returns the tenant's root URL.
func (s *Scope) Home() string {
	return s.Link("/")
}

// PostURL returns the root-relative URL of a post, following the site's
// post URL format.
func (s *Scope) PostURL(postSlug string) string {
	return links.PostPath(s.BasePath, s.Site.PostURLFormat, postSlug)
}

// TagURL returns the tag listing URL for a tag name.
func (s *Scope) TagURL(tag string) string {
	return s.Link("/tag/" + slug.Generate(tag))
}

// AssetURL resolves an image or file reference. Absolute and
// protocol-relative URLs pass through, root-relative paths are prefixed
// with the base path, and bare keys go through the asset resolver.
func (s *Scope) AssetURL(ref string) string {
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"),
		strings.HasPrefix(ref, "//"), strings.HasPrefix(ref, "data:"):
		return ref
	case strings.HasPrefix(ref, "/"):
		return s.Link(ref)
	case s.assets != nil:
		return s.assets.FileURL(ref)
	default:
		return s.Link("/" + ref)
	}
}

// AbsoluteURL turns a root-relative path into an absolute URL on the
// request host. The path is rewritten into the base path first.
func (s *Scope) AbsoluteURL(path string) string {
	return s.Scheme + "://" + s.Host + s.Link(path)
}

type ctxKey struct{}

// WithScope returns a context carrying s.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the scope stored by WithScope.
func FromContext(ctx context.Context) (*Scope, error) {
	s, ok := ctx.Value(ctxKey{}).(*Scope)
	if !ok || s == nil {
		return nil, ErrNoScope
	}
	return s, nil
}

// MustFromContext is FromContext for code that only runs below the tenant
// router. It panics when the scope is missing.
func MustFromContext(ctx context.Context) *Scope {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}

// SiteFromContext returns the current tenant site.
func SiteFromContext(ctx context.Context) (*models.Site, error) {
	s, err := FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.Site, nil
}

// BasePathFromContext returns the current tenant base path.
func BasePathFromContext(ctx context.Context) (string, error) {
	s, err := FromContext(ctx)
	if err != nil {
		return "", err
	}
	return s.BasePath, nil
}
