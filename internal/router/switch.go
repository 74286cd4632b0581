// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tenantpress/internal/middleware"
	"tenantpress/internal/resolver"
	"tenantpress/internal/tenant"
)

// SiteNotFoundFunc renders the terminal page for a host that resolved to
// no tenant. lookupFailed is true when the domain check itself failed.
type SiteNotFoundFunc func(w http.ResponseWriter, r *http.Request, host string, lookupFailed bool)

// SwitchTargets are the subtrees the Switch mounts.
type SwitchTargets struct {
	BareAdmin http.Handler
	SiteAdmin http.Handler
	Public    http.Handler
	// OutsideBase handles tenant requests that fall outside the tenant's
	// base path. It receives the tenant scope but the unmodified path.
	OutsideBase  http.Handler
	SiteNotFound SiteNotFoundFunc
}

// Switch resolves every request's host and path and mounts exactly one
// subtree for it.
type Switch struct {
	resolver *resolver.Resolver
	targets  SwitchTargets
}

// NewSwitch creates a Switch.
func NewSwitch(res *resolver.Resolver, targets SwitchTargets) *Switch {
	return &Switch{resolver: res, targets: targets}
}

// ServeHTTP implements http.Handler.
func (s *Switch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d := s.resolver.Resolve(r.Context(), r.Host, r.URL.Path)
	slog.Debug("request resolved", "host", d.Host, "path", d.Path, "state", d.State.String(), "effective_path", d.EffectivePath)

	siteID := ""
	if d.Scope != nil {
		siteID = d.Scope.Site.ID.String()
	}
	middleware.Annotate(r.Context(), d.State.String(), siteID, d.EffectivePath)

	switch d.State {
	case resolver.StateAdminBypass, resolver.StatePureAdmin:
		s.targets.BareAdmin.ServeHTTP(w, mount(r, nil, r.URL.Path))
	case resolver.StateTenantAdmin:
		s.targets.SiteAdmin.ServeHTTP(w, mount(r, d.Scope, d.EffectivePath))
	case resolver.StateTenantPublic:
		if !d.InBasePath {
			s.targets.OutsideBase.ServeHTTP(w, mount(r, d.Scope, r.URL.Path))
			return
		}
		s.targets.Public.ServeHTTP(w, mount(r, d.Scope, d.EffectivePath))
	default:
		s.targets.SiteNotFound(w, r, d.Host, d.Err != nil)
	}
}

// mount prepares r for a subtree router: the path becomes the subtree's
// path, the tenant scope (if any) goes into the context, and routing
// starts from a fresh chi context so outer route state does not leak in.
func mount(r *http.Request, sc *tenant.Scope, path string) *http.Request {
	ctx := r.Context()
	if sc != nil {
		ctx = tenant.WithScope(ctx, sc)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, chi.NewRouteContext())

	r2 := r.Clone(ctx)
	r2.URL.Path = path
	r2.URL.RawPath = ""
	return r2
}
