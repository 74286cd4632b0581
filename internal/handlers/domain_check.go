// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"tenantpress/internal/resolver"
)

// DomainCheck serves GET /api/domain-check?hostname=. It answers from the
// local checker, never from a remote one, so deployments that point
// DOMAIN_CHECK_URL at each other cannot loop.
type DomainCheck struct {
	checker resolver.Checker
}

// NewDomainCheck creates the domain-check API handler.
func NewDomainCheck(checker resolver.Checker) *DomainCheck {
	return &DomainCheck{checker: checker}
}

// ServeHTTP writes the check result as JSON, or null for unknown hosts.
func (h *DomainCheck) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	host := resolver.NormalizeHost(r.URL.Query().Get("hostname"))
	if host == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "hostname is required"})
		return
	}

	res, err := h.checker.Check(r.Context(), host)
	if err != nil {
		slog.Error("domain check api failed", "host", host, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "domain check failed"})
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write json response failed", "error", err)
	}
}
