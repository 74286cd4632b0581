// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package resolver decides, for an incoming hostname and path, whether the
// request belongs to the bare admin app, a tenant's public site, a tenant's
// site-context admin, or nothing at all.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"tenantpress/internal/links"
	"tenantpress/internal/models"
	"tenantpress/internal/tenant"
)

// ErrLookupFailed wraps any failure of the domain-check source.
var ErrLookupFailed = errors.New("domain check failed")

// State is the outcome of resolving one request.
type State int

const (
	// StateNotFound: unknown host, malformed answer or failed lookup.
	StateNotFound State = iota
	// StateAdminBypass: always-admin path, no lookup performed.
	StateAdminBypass
	// StatePureAdmin: the host is an admin domain with no tenant.
	StatePureAdmin
	// StateTenantAdmin: admin UI inside a tenant's base path.
	StateTenantAdmin
	// StateTenantPublic: the tenant's public site.
	StateTenantPublic
)

func (s State) String() string {
	switch s {
	case StateAdminBypass:
		return "admin-bypass"
	case StatePureAdmin:
		return "pure-admin"
	case StateTenantAdmin:
		return "tenant-admin"
	case StateTenantPublic:
		return "tenant-public"
	default:
		return "not-found"
	}
}

// AdminPrefixes are paths that always belong to the bare admin app.
var AdminPrefixes = []string{"/signup", "/pricing", "/owner", "/admin"}

// Checker answers the domain-check question for one hostname. A nil
// result with a nil error means the hostname is unknown.
type Checker interface {
	Check(ctx context.Context, hostname string) (*models.DomainCheckResult, error)
}

// Decision is the resolved routing target for a request.
type Decision struct {
	State State
	Host  string
	Path  string

	// EffectivePath is Path with the tenant base path removed ("/" when
	// nothing remains). Equal to Path for non-tenant states.
	EffectivePath string
	// InBasePath is false when a tenant request falls outside its base path.
	InBasePath bool

	Result *models.DomainCheckResult
	Scope  *tenant.Scope
	// Err is set when StateNotFound was caused by a failed lookup rather
	// than an unknown host.
	Err error
}

// Resolver maps (host, path) to a Decision.
type Resolver struct {
	checker Checker
	scheme  string
	assets  tenant.AssetResolver
}

// New creates a Resolver backed by checker.
func New(checker Checker) *Resolver {
	return &Resolver{checker: checker, scheme: "https"}
}

// SetScheme sets the scheme used for absolute tenant URLs.
func (r *Resolver) SetScheme(scheme string) {
	if scheme != "" {
		r.scheme = scheme
	}
}

// SetAssets configures the object-key resolver handed to tenant scopes.
// Pass nil when object storage is not configured.
func (r *Resolver) SetAssets(a tenant.AssetResolver) {
	r.assets = a
}

// Resolve runs the routing state machine for one request.
func (r *Resolver) Resolve(ctx context.Context, host, path string) Decision {
	host = NormalizeHost(host)
	if path == "" {
		path = "/"
	}
	d := Decision{Host: host, Path: path, EffectivePath: path, InBasePath: true}

	if IsAdminPath(path) {
		d.State = StateAdminBypass
		return d
	}

	res, err := r.checker.Check(ctx, host)
	if err != nil {
		slog.Warn("domain check failed", "host", host, "error", err)
		d.State = StateNotFound
		d.Err = fmt.Errorf("%w: %w", ErrLookupFailed, err)
		return d
	}
	d.Result = res

	switch {
	case res == nil:
		d.State = StateNotFound
	case res.Site == nil && res.IsAdmin:
		d.State = StatePureAdmin
	case res.Site == nil:
		d.State = StateNotFound
	default:
		scope := tenant.NewScope(res.Site, host, res.IsAliasDomain)
		scope.Scheme = r.scheme
		if r.assets != nil {
			scope.WithAssets(r.assets)
		}
		d.Scope = scope
		d.EffectivePath, d.InBasePath = links.StripBasePath(path, scope.BasePath)

		if d.InBasePath && res.AllowAdminAccess && hasPathPrefix(d.EffectivePath, "/admin") {
			d.State = StateTenantAdmin
		} else {
			d.State = StateTenantPublic
		}
	}
	return d
}

// IsAdminPath reports whether path is "/" or lies under one of the
// always-admin prefixes.
func IsAdminPath(path string) bool {
	if path == "/" {
		return true
	}
	for _, p := range AdminPrefixes {
		if hasPathPrefix(path, p) {
			return true
		}
	}
	return false
}

// hasPathPrefix matches whole segments: "/admin" matches "/admin" and
// "/admin/x" but not "/administrator".
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// NormalizeHost lower-cases a Host header value and strips any port and
// trailing dot.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	return strings.ToLower(host)
}
