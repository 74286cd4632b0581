// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"tenantpress/internal/models"
	"tenantpress/internal/theme"
)

// ErrDomainTaken is returned when a hostname already belongs to a site.
var ErrDomainTaken = errors.New("domain already in use")

// SiteStore handles all site (tenant) database operations.
type SiteStore struct {
	db *sql.DB
}

// NewSiteStore creates a new SiteStore with the given database connection.
func NewSiteStore(db *sql.DB) *SiteStore {
	return &SiteStore{db: db}
}

// siteColumns lists the columns selected in site queries. The alias list
// is aggregated from site_domains.
const siteColumns = `s.id, s.domain, s.base_path, s.site_type, s.theme_id, s.template_settings,
	s.post_url_format, s.title, s.meta_title, s.meta_description, s.logo_url,
	s.favicon, s.analytics_id, s.allow_admin_access, s.created_at, s.updated_at,
	COALESCE((SELECT array_agg(d.hostname ORDER BY d.hostname) FROM site_domains d
	          WHERE d.site_id = s.id AND d.is_alias), '{}')`

// typeMap decodes PostgreSQL arrays for database/sql scans.
var typeMap = pgtype.NewMap()

// scanSite scans a site row from the result set.
func scanSite(scanner interface{ Scan(...any) error }) (*models.Site, error) {
	var s models.Site
	var settings []byte
	err := scanner.Scan(
		&s.ID, &s.Domain, &s.BasePath, &s.SiteType, &s.ThemeID, &settings,
		&s.PostURLFormat, &s.Title, &s.MetaTitle, &s.MetaDescription, &s.LogoURL,
		&s.Favicon, &s.AnalyticsID, &s.AllowAdminAccess, &s.CreatedAt, &s.UpdatedAt,
		typeMap.SQLScanner(&s.AliasDomains),
	)
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		var t theme.Tokens
		if err := json.Unmarshal(settings, &t); err != nil {
			return nil, fmt.Errorf("decode template settings: %w", err)
		}
		s.TemplateSettings = &t
	}
	s.Normalize()
	return &s, nil
}

// FindByDomain retrieves the site answering on host, primary or alias.
// Returns nil if not found.
func (s *SiteStore) FindByDomain(ctx context.Context, host string) (*models.Site, bool, error) {
	var alias bool
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx,
		`SELECT site_id, is_alias FROM site_domains WHERE hostname = $1`, host,
	).Scan(&id, &alias)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find site domain: %w", err)
	}

	site, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if site == nil {
		return nil, false, nil
	}
	return site, alias, nil
}

// FindByID retrieves a site by its UUID. Returns nil if not found.
func (s *SiteStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Site, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+siteColumns+` FROM sites s WHERE s.id = $1`, id)
	site, err := scanSite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find site by id: %w", err)
	}
	return site, nil
}

// List returns all sites ordered by primary domain.
func (s *SiteStore) List(ctx context.Context) ([]models.Site, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+siteColumns+` FROM sites s ORDER BY s.domain`)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var items []models.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		items = append(items, *site)
	}
	return items, rows.Err()
}

// Create validates and inserts a site together with its hostnames. Returns
// ErrDomainTaken when any hostname is already claimed.
func (s *SiteStore) Create(ctx context.Context, site *models.Site) (*models.Site, error) {
	site.Normalize()
	if err := site.Validate(); err != nil {
		return nil, err
	}
	settings, err := encodeSettings(site.TemplateSettings)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create site begin: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO sites (domain, base_path, site_type, theme_id, template_settings,
		                   post_url_format, title, meta_title, meta_description,
		                   logo_url, favicon, analytics_id, allow_admin_access)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, site.Domain, site.BasePath, site.SiteType, site.ThemeID, settings,
		site.PostURLFormat, site.Title, site.MetaTitle, site.MetaDescription,
		site.LogoURL, site.Favicon, site.AnalyticsID, site.AllowAdminAccess,
	).Scan(&id)
	if err != nil {
		return nil, wrapUnique(err, "create site")
	}

	if err := insertDomain(ctx, tx, site.Domain, id, false); err != nil {
		return nil, err
	}
	for _, alias := range site.AliasDomains {
		if err := insertDomain(ctx, tx, alias, id, true); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create site commit: %w", err)
	}
	return s.FindByID(ctx, id)
}

func insertDomain(ctx context.Context, tx *sql.Tx, host string, siteID uuid.UUID, alias bool) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO site_domains (hostname, site_id, is_alias) VALUES ($1, $2, $3)`,
		host, siteID, alias,
	)
	if err != nil {
		return wrapUnique(err, "insert site domain "+host)
	}
	return nil
}

// UpdateDesign stores a site's theme and overrides. A nil overrides value
// clears them.
func (s *SiteStore) UpdateDesign(ctx context.Context, id uuid.UUID, themeID string, overrides *theme.Tokens) error {
	if themeID != "" && !theme.Default.IsValid(themeID) {
		return fmt.Errorf("update site design: unknown theme %q", themeID)
	}
	if overrides != nil {
		if err := models.ValidateTokens(*overrides); err != nil {
			return err
		}
	}
	settings, err := encodeSettings(overrides)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE sites SET theme_id = $1, template_settings = $2, updated_at = NOW()
		WHERE id = $3
	`, themeID, settings, id)
	if err != nil {
		return fmt.Errorf("update site design: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update site design: site %s not found", id)
	}
	return nil
}

// Delete removes a site and, by cascade, its domains and posts.
func (s *SiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sites WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	return nil
}

// encodeSettings marshals overrides for the JSONB column; nil or empty
// overrides become SQL NULL.
func encodeSettings(t *theme.Tokens) (any, error) {
	if t == nil || t.IsZero() {
		return nil, nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode template settings: %w", err)
	}
	return string(b), nil
}

// wrapUnique maps unique violations to ErrDomainTaken.
func wrapUnique(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, ErrDomainTaken)
	}
	return fmt.Errorf("%s: %w", op, err)
}
