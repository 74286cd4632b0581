// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer turns a panic below it into a 500 and logs the stack with
// the route the request was dispatched to. Tenant handlers panic with
// tenant.ErrNoScope when mounted without a scope.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, rt := withRoute(r)
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			attrs := []any{
				"error", rec,
				"method", r.Method,
				"host", r.Host,
				"path", r.URL.Path,
			}
			attrs = append(attrs, rt.attrs()...)
			slog.Error("panic recovered", append(attrs, "stack", string(debug.Stack()))...)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
