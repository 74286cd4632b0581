// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tenantpress/internal/models"
)

// SiteFinder looks a site up by primary or alias hostname. A nil site
// with a nil error means no match.
type SiteFinder interface {
	FindByDomain(ctx context.Context, host string) (site *models.Site, alias bool, err error)
}

// StoreChecker answers domain checks from the local database plus the
// configured admin hostnames.
type StoreChecker struct {
	sites      SiteFinder
	adminHosts map[string]bool
}

// NewStoreChecker creates a StoreChecker. adminHosts are hostnames that
// serve the bare admin app.
func NewStoreChecker(sites SiteFinder, adminHosts []string) *StoreChecker {
	m := make(map[string]bool, len(adminHosts))
	for _, h := range adminHosts {
		if h = NormalizeHost(h); h != "" {
			m[h] = true
		}
	}
	return &StoreChecker{sites: sites, adminHosts: m}
}

// Check implements Checker.
func (c *StoreChecker) Check(ctx context.Context, hostname string) (*models.DomainCheckResult, error) {
	hostname = NormalizeHost(hostname)
	if hostname == "" {
		return nil, nil
	}
	isAdmin := c.adminHosts[hostname]

	site, alias, err := c.sites.FindByDomain(ctx, hostname)
	if err != nil {
		return nil, fmt.Errorf("find site by domain: %w", err)
	}
	if site == nil {
		if isAdmin {
			return &models.DomainCheckResult{IsAdmin: true}, nil
		}
		return nil, nil
	}
	return &models.DomainCheckResult{
		IsAdmin:          isAdmin,
		Site:             site,
		AllowAdminAccess: site.AllowAdminAccess,
		SiteID:           site.ID.String(),
		IsAliasDomain:    alias,
	}, nil
}

// HTTPChecker consumes a remote domain-check endpoint:
// GET {base}/domain-check?hostname=.
type HTTPChecker struct {
	base   string
	client *http.Client
}

// NewHTTPChecker creates a checker for the endpoint rooted at baseURL.
func NewHTTPChecker(baseURL string, timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPChecker{
		base:   strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Check implements Checker. A 404, an empty body or a JSON null all mean
// "unknown host". Other non-2xx statuses are reported as errors so they
// are not cached.
func (c *HTTPChecker) Check(ctx context.Context, hostname string) (*models.DomainCheckResult, error) {
	u := c.base + "/domain-check?hostname=" + url.QueryEscape(hostname)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build domain check request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("domain check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("domain check: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read domain check response: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	var res models.DomainCheckResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode domain check response: %w", err)
	}
	if res.Site != nil {
		res.Site.Normalize()
	}
	return &res, nil
}
