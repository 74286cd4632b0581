// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// AdminCookie holds the admin token after a successful sign-in.
const AdminCookie = "tp_admin"

// AdminTokenHeader carries the admin token for API clients.
const AdminTokenHeader = "X-Admin-Token"

// RequireToken rejects requests that do not present token in the
// X-Admin-Token header, an "Authorization: Bearer" header or the admin
// cookie. An empty token disables the check (development only; config
// refuses to start production without one).
func RequireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		want := []byte(token)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if subtle.ConstantTimeCompare([]byte(presentedToken(r)), want) != 1 {
				slog.Warn("admin token rejected",
					"method", r.Method,
					"host", r.Host,
					"path", r.URL.Path,
				)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// presentedToken returns the first token found on the request.
func presentedToken(r *http.Request) string {
	if v := r.Header.Get(AdminTokenHeader); v != "" {
		return v
	}
	if v, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(v)
	}
	if c, err := r.Cookie(AdminCookie); err == nil {
		return c.Value
	}
	return ""
}
