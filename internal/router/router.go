// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains. A small
// outer router serves the host-independent endpoints; everything else goes
// through the Switch, which resolves the host and hands the request to the
// bare admin app, a tenant's site-context admin or a tenant's public site.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tenantpress/internal/handlers"
	"tenantpress/internal/middleware"
	"tenantpress/internal/resolver"
	"tenantpress/web"
)

// Options configures the routers.
type Options struct {
	// AdminToken guards admin writes. Empty disables the check.
	AdminToken string
	// APILimiter rate-limits /api/domain-check and admin sign-in. Nil
	// disables rate limiting.
	APILimiter *middleware.RateLimiter
}

// New creates the root handler with all middleware and route groups wired up.
func New(res *resolver.Resolver, admin *handlers.Admin, public *handlers.Public, domainCheck http.Handler, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)
	r.With(limit(opts.APILimiter)).Get("/api/domain-check", domainCheck.ServeHTTP)
	r.Handle("/static/*", staticHandler())

	sw := NewSwitch(res, SwitchTargets{
		BareAdmin:    bareAdminRouter(admin, opts),
		SiteAdmin:    siteAdminRouter(admin, opts),
		Public:       publicRouter(public),
		OutsideBase:  http.HandlerFunc(public.NotFound),
		SiteNotFound: public.SiteNotFound,
	})
	r.NotFound(sw.ServeHTTP)
	r.MethodNotAllowed(sw.ServeHTTP)

	return r
}

// bareAdminRouter serves the operator app: admin hosts and the
// always-admin paths on any host.
func bareAdminRouter(admin *handlers.Admin, opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.AdminHeaders)

	r.Get("/", admin.LoginPage)
	r.Route("/admin", func(r chi.Router) {
		r.Get("/", admin.Dashboard)
		r.Get("/dashboard", admin.Dashboard)
		r.Get("/login", admin.LoginPage)
		r.With(limit(opts.APILimiter)).Post("/login", admin.LoginSubmit)
		r.Post("/logout", admin.Logout)
	})
	r.Get("/signup", admin.Placeholder("signup", "Sign up", "Self-service sign-up opens soon. Contact the operator to create a site."))
	r.Get("/pricing", admin.Placeholder("pricing", "Pricing", "Plans are being finalised."))
	r.Get("/owner", admin.Placeholder("owner", "Owner console", "Platform-wide settings live here."))
	r.Handle("/static/*", staticHandler())

	r.NotFound(admin.NotFound)
	return r
}

// siteAdminRouter serves the admin UI inside a tenant's base path. Paths
// arrive with the base path already stripped.
func siteAdminRouter(admin *handlers.Admin, opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.AdminHeaders)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/", admin.SiteDashboard)
		r.Get("/dashboard", admin.SiteDashboard)
		r.Get("/posts", admin.SitePosts)
		r.Get("/design", admin.DesignPage)
		r.With(middleware.RequireToken(opts.AdminToken)).Post("/design", admin.DesignSave)
		r.Get("/design/preview", admin.DesignPreview)
	})

	r.NotFound(admin.NotFound)
	return r
}

// publicRouter serves a tenant's public site below its base path.
func publicRouter(public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	r.Get("/", public.Home)
	r.Get("/post/{slug}", public.Post)
	r.Get("/tag/{tag}", public.Tag)
	r.Get("/search", public.Search)
	r.Get("/sitemap.xml", public.Sitemap)
	r.Get("/robots.txt", public.Robots)
	r.Get("/feed.xml", public.Feed)
	r.Handle("/static/*", staticHandler())
	r.Get("/{slug}", public.RootPost)

	r.NotFound(public.NotFound)
	return r
}

// staticHandler serves the embedded web/static tree at /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
