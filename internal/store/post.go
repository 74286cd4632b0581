// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tenantpress/internal/models"
	"tenantpress/internal/slug"
)

// ErrReservedSlug is returned when a post slug would be shadowed by a
// fixed route.
var ErrReservedSlug = errors.New("slug is reserved")

// PostStore handles post database operations. Every query is scoped to a
// single site.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns lists the columns selected in post queries.
const postColumns = `id, site_id, slug, title, content, excerpt, tags, image_url,
	meta_title, meta_description, og_image, canonical_url, noindex, source,
	published_at, created_at, updated_at`

// publishedOnly restricts a query to posts visible on the public site.
const publishedOnly = `published_at IS NOT NULL AND published_at <= NOW()`

// scanPost scans a post row from the result set.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.SiteID, &p.Slug, &p.Title, &p.Content, &p.Excerpt,
		typeMap.SQLScanner(&p.Tags), &p.ImageURL, &p.MetaTitle, &p.MetaDescription,
		&p.OGImage, &p.CanonicalURL, &p.NoIndex, &p.Source,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostStore) list(ctx context.Context, op, query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// ListBySite returns the newest published posts of a site. limit <= 0
// means no limit.
func (s *PostStore) ListBySite(ctx context.Context, siteID uuid.UUID, limit int) ([]models.Post, error) {
	return s.list(ctx, "list posts by site", `
		SELECT `+postColumns+` FROM posts
		WHERE site_id = $1 AND `+publishedOnly+`
		ORDER BY published_at DESC
		LIMIT NULLIF($2, 0)
	`, siteID, max(limit, 0))
}

// ListAll returns every post of a site including drafts, newest first.
// Used by the site admin.
func (s *PostStore) ListAll(ctx context.Context, siteID uuid.UUID) ([]models.Post, error) {
	return s.list(ctx, "list all posts", `
		SELECT `+postColumns+` FROM posts
		WHERE site_id = $1
		ORDER BY created_at DESC
	`, siteID)
}

// FindBySlug retrieves a published post by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, siteID uuid.UUID, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE site_id = $1 AND slug = $2 AND `+publishedOnly,
		siteID, slug,
	)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// Related returns published posts sharing at least one tag with post,
// newest first.
func (s *PostStore) Related(ctx context.Context, post *models.Post, limit int) ([]models.Post, error) {
	if len(post.Tags) == 0 {
		return nil, nil
	}
	return s.list(ctx, "list related posts", `
		SELECT `+postColumns+` FROM posts
		WHERE site_id = $1 AND id <> $2 AND tags && $3 AND `+publishedOnly+`
		ORDER BY published_at DESC
		LIMIT $4
	`, post.SiteID, post.ID, post.Tags, limit)
}

// ListByTag returns published posts carrying tag. Matching is case
// insensitive.
func (s *PostStore) ListByTag(ctx context.Context, siteID uuid.UUID, tag string) ([]models.Post, error) {
	return s.list(ctx, "list posts by tag", `
		SELECT `+postColumns+` FROM posts
		WHERE site_id = $1 AND `+publishedOnly+`
		  AND EXISTS (SELECT 1 FROM unnest(tags) t WHERE lower(t) = lower($2))
		ORDER BY published_at DESC
	`, siteID, tag)
}

// Search returns published posts whose title, excerpt or content contains
// every word of q.
func (s *PostStore) Search(ctx context.Context, siteID uuid.UUID, q string, limit int) ([]models.Post, error) {
	words := strings.Fields(q)
	if len(words) == 0 {
		return nil, nil
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE site_id = $1 AND ` + publishedOnly
	args := []any{siteID}
	for _, w := range words {
		args = append(args, "%"+escapeLike(w)+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (title ILIKE $%d OR excerpt ILIKE $%d OR content ILIKE $%d)`, n, n, n)
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY published_at DESC LIMIT $%d`, len(args))

	return s.list(ctx, "search posts", query, args...)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// TopTags returns the most used tags of a site's published posts.
func (s *PostStore) TopTags(ctx context.Context, siteID uuid.UUID, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t, COUNT(*) AS n
		FROM posts, unnest(tags) AS t
		WHERE site_id = $1 AND `+publishedOnly+`
		GROUP BY t
		ORDER BY n DESC, t
		LIMIT $2
	`, siteID, limit)
	if err != nil {
		return nil, fmt.Errorf("top tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		var n int
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Create inserts a new post and returns it with the generated ID.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	if slug.Reserved(p.Slug) {
		return nil, fmt.Errorf("create post %q: %w", p.Slug, ErrReservedSlug)
	}
	if p.Source == "" {
		p.Source = models.PostSourceManual
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (site_id, slug, title, content, excerpt, tags, image_url,
		                   meta_title, meta_description, og_image, canonical_url,
		                   noindex, source, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+postColumns,
		p.SiteID, p.Slug, p.Title, p.Content, p.Excerpt, p.Tags, p.ImageURL,
		p.MetaTitle, p.MetaDescription, p.OGImage, p.CanonicalURL,
		p.NoIndex, p.Source, p.PublishedAt,
	)
	created, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Publish sets a post's publish date to now if it has none.
func (s *PostStore) Publish(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE posts SET published_at = COALESCE(published_at, $1), updated_at = NOW()
		WHERE id = $2
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("publish post: %w", err)
	}
	return nil
}

// Delete removes a post by ID.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// CountBySite returns the number of posts of a site, drafts included.
func (s *PostStore) CountBySite(ctx context.Context, siteID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE site_id = $1`, siteID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}
