// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// DomainCheckResult is the body of GET /api/domain-check. A nil result
// (JSON null) means the hostname is unknown.
type DomainCheckResult struct {
	IsAdmin          bool   `json:"isAdmin"`
	Site             *Site  `json:"site,omitempty"`
	AllowAdminAccess bool   `json:"allowAdminAccess,omitempty"`
	SiteID           string `json:"siteId,omitempty"`
	IsAliasDomain    bool   `json:"isAliasDomain,omitempty"`
}
