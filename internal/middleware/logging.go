// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package middleware provides HTTP middleware for the tenantpress server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Route records how the router switch dispatched a request. The
// middleware runs before resolution, so the switch fills it in later
// through Annotate and the access log reads it back.
type Route struct {
	State         string
	SiteID        string
	EffectivePath string
}

type routeKey struct{}

// withRoute returns r carrying a Route, reusing one an outer middleware
// already attached.
func withRoute(r *http.Request) (*http.Request, *Route) {
	if rt, ok := r.Context().Value(routeKey{}).(*Route); ok {
		return r, rt
	}
	rt := &Route{}
	return r.WithContext(context.WithValue(r.Context(), routeKey{}, rt)), rt
}

// Annotate stores the routing decision for ctx's request. It is a no-op
// when neither Logger nor Recoverer is installed.
func Annotate(ctx context.Context, state, siteID, effectivePath string) {
	if rt, ok := ctx.Value(routeKey{}).(*Route); ok {
		rt.State = state
		rt.SiteID = siteID
		rt.EffectivePath = effectivePath
	}
}

// RouteFromContext returns the routing decision recorded for ctx.
func RouteFromContext(ctx context.Context) (Route, bool) {
	rt, ok := ctx.Value(routeKey{}).(*Route)
	if !ok || rt.State == "" {
		return Route{}, false
	}
	return *rt, true
}

// attrs renders a route as log attributes. Empty fields are skipped.
func (rt *Route) attrs() []any {
	var out []any
	if rt.State != "" {
		out = append(out, "route", rt.State)
	}
	if rt.SiteID != "" {
		out = append(out, "site", rt.SiteID)
	}
	if rt.EffectivePath != "" {
		out = append(out, "effective_path", rt.EffectivePath)
	}
	return out
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}

// Logger writes one access log line per request: method, host, the path
// the client sent, status, duration, and the route the switch chose.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r, rt := withRoute(r)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		attrs := []any{
			"method", r.Method,
			"host", r.Host,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start).String(),
			"remote", r.RemoteAddr,
		}
		slog.Info("http request", append(attrs, rt.attrs()...)...)
	})
}
