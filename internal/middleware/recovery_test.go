// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tenantpress/internal/tenant"
)

func TestRecoverer(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"string", "something went wrong"},
		{"int", 42},
		{"error", errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tt.value)
			})
			rr := httptest.NewRecorder()
			Recoverer(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/crash", nil))

			if rr.Code != http.StatusInternalServerError {
				t.Errorf("status: got %d, want 500", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), "Internal Server Error") {
				t.Errorf("body = %q", rr.Body.String())
			}
		})
	}
}

func TestRecovererPassThrough(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom", "test-value")
		w.Write([]byte("ok"))
	})
	rr := httptest.NewRecorder()
	Recoverer(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/design", nil))

	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Errorf("got %d %q", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Custom"); got != "test-value" {
		t.Errorf("X-Custom: got %q", got)
	}
}

func TestRecovererLogsRoute(t *testing.T) {
	buf := captureLog(t)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Annotate(r.Context(), "tenant-admin", "site-9", "/admin/posts")
		panic("render failed")
	})
	Recoverer(inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blog/admin/posts", nil))

	rec := lastRecord(t, buf)
	if rec["msg"] != "panic recovered" || rec["route"] != "tenant-admin" || rec["site"] != "site-9" {
		t.Errorf("log record = %v", rec)
	}
}

func TestRecovererRepanicsOnAbort(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
		}
	}()
	Recoverer(inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRecovererMissingTenantScope(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc := tenant.MustFromContext(r.Context())
		w.Write([]byte(sc.Host))
	})

	rr := httptest.NewRecorder()
	Recoverer(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/posts", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
}
