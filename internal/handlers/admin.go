// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"tenantpress/internal/engine"
	"tenantpress/internal/middleware"
	"tenantpress/internal/models"
	"tenantpress/internal/render"
	"tenantpress/internal/store"
	"tenantpress/internal/tenant"
	"tenantpress/internal/theme"
)

// SiteStore is the site persistence the admin needs. It is satisfied by
// *store.SiteStore.
type SiteStore interface {
	List(ctx context.Context) ([]models.Site, error)
	UpdateDesign(ctx context.Context, id uuid.UUID, themeID string, overrides *theme.Tokens) error
}

// PostStore is the post persistence the site admin needs. It is
// satisfied by *store.PostStore.
type PostStore interface {
	Content
	ListAll(ctx context.Context, siteID uuid.UUID) ([]models.Post, error)
	CountBySite(ctx context.Context, siteID uuid.UUID) (int, error)
}

// CacheLog records and lists cache purges. It is satisfied by
// *store.CacheLogStore.
type CacheLog interface {
	Log(ctx context.Context, entityType string, entityID uuid.UUID, action string)
	RecentEntries(ctx context.Context, entityID uuid.UUID, limit int) ([]store.CacheLogEntry, error)
}

// DomainInvalidator drops cached domain-check answers for a site's
// hostnames. It is satisfied by *resolver.CachedChecker.
type DomainInvalidator interface {
	InvalidateSite(ctx context.Context, site *models.Site)
}

// Admin groups the bare admin app and the site-context admin mounted
// under a tenant's base path.
type Admin struct {
	renderer *render.Renderer
	engine   *engine.Engine
	sites    SiteStore
	posts    PostStore
	cacheLog CacheLog
	pages    PageCache
	domains  []DomainInvalidator
	token    string
	secure   bool
	themes   *theme.Registry
}

// AdminDeps bundles the collaborators of the admin handlers. pages,
// domains and cacheLog may be nil.
//
// Domains lists every domain-check cache that may hold a site: the one
// behind routing and, when it is separate, the one behind the API.
type AdminDeps struct {
	Renderer *render.Renderer
	Engine   *engine.Engine
	Sites    SiteStore
	Posts    PostStore
	CacheLog CacheLog
	Pages    PageCache
	Domains  []DomainInvalidator
	// Token is the shared admin token; empty disables the check.
	Token string
	// SecureCookies marks the admin cookie HTTPS-only.
	SecureCookies bool
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(d AdminDeps) *Admin {
	return &Admin{
		renderer: d.Renderer,
		engine:   d.Engine,
		sites:    d.Sites,
		posts:    d.Posts,
		cacheLog: d.CacheLog,
		pages:    d.Pages,
		domains:  d.Domains,
		token:    d.Token,
		secure:   d.SecureCookies,
		themes:   theme.Default,
	}
}

// --- Bare admin -----------------------------------------------------------

// LoginPage renders the operator sign-in form. It is also the page served
// at "/" on admin hosts.
func (a *Admin) LoginPage(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Sign in",
		Data:  map[string]any{"Next": safeNext(r.URL.Query().Get("next"))},
	})
}

// LoginSubmit checks the admin token and stores it in the admin cookie.
func (a *Admin) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	next := safeNext(r.FormValue("next"))
	token := r.FormValue("token")

	if a.token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
		slog.Warn("admin login failed", "remote", r.RemoteAddr)
		a.renderer.PageStatus(w, r, http.StatusUnauthorized, "login", &render.PageData{
			Title: "Sign in",
			Data:  map[string]any{"Error": "Invalid admin token.", "Next": next},
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout clears the admin cookie.
func (a *Admin) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Dashboard lists every site on the platform.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	sites, err := a.sites.List(r.Context())
	if err != nil {
		slog.Error("list sites failed", "error", err)
		sites = nil
	}
	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Sites",
		Section: "dashboard",
		Data:    map[string]any{"Sites": sites},
	})
}

// Placeholder returns a handler for operator pages that only carry a
// heading and a message (signup, pricing, owner).
func (a *Admin) Placeholder(section, heading, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.renderer.Page(w, r, "placeholder", &render.PageData{
			Title:   heading,
			Section: section,
			Data:    map[string]any{"Heading": heading, "Message": message},
		})
	}
}

// NotFound renders the admin 404 page. In site context the page keeps
// the tenant's admin navigation.
func (a *Admin) NotFound(w http.ResponseWriter, r *http.Request) {
	data := &render.PageData{Title: "Not found", Data: map[string]any{"Message": "This admin page does not exist."}}
	if sc, err := tenant.FromContext(r.Context()); err == nil {
		data.Site, data.Base = sc.Site, sc.BasePath
	}
	a.renderer.PageStatus(w, r, http.StatusNotFound, "error", data)
}

// --- Site-context admin ---------------------------------------------------

// siteData builds the page data shared by every site-context admin page.
func siteData(sc *tenant.Scope, title, section string) *render.PageData {
	return &render.PageData{
		Title:   title,
		Section: section,
		Site:    sc.Site,
		Base:    sc.BasePath,
		Data:    map[string]any{},
	}
}

// SiteDashboard shows the tenant's overview.
func (a *Admin) SiteDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sc := tenant.MustFromContext(ctx)
	data := siteData(sc, "Dashboard", "dashboard")

	count, err := a.posts.CountBySite(ctx, sc.Site.ID)
	if err != nil {
		slog.Error("count posts failed", "site_id", sc.Site.ID, "error", err)
	}
	data.Data["PostCount"] = count

	name := sc.Site.Theme()
	if def, ok := a.themes.Definition(name); ok {
		name = def.Name
	}
	data.Data["ThemeName"] = name

	if a.cacheLog != nil {
		entries, err := a.cacheLog.RecentEntries(ctx, sc.Site.ID, 10)
		if err != nil {
			slog.Warn("recent cache log failed", "site_id", sc.Site.ID, "error", err)
		}
		data.Data["Invalidations"] = entries
	}

	a.renderer.Page(w, r, "site_dashboard", data)
}

// postRow is one line of the site admin's post table.
type postRow struct {
	Title     string
	URL       string
	Tags      []string
	Published bool
	Date      string
}

// SitePosts lists the tenant's posts, drafts included.
func (a *Admin) SitePosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sc := tenant.MustFromContext(ctx)

	posts, err := a.posts.ListAll(ctx, sc.Site.ID)
	if err != nil {
		slog.Error("list posts failed", "site_id", sc.Site.ID, "error", err)
	}
	rows := make([]postRow, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		rows = append(rows, postRow{
			Title:     p.Title,
			URL:       sc.PostURL(p.Slug),
			Tags:      p.UniqueTags(),
			Published: p.IsPublished(),
			Date:      p.DisplayDate(),
		})
	}

	data := siteData(sc, "Posts", "posts")
	data.Data["Posts"] = rows
	a.renderer.Page(w, r, "posts", data)
}

// DesignPage shows the theme picker and colour overrides.
func (a *Admin) DesignPage(w http.ResponseWriter, r *http.Request) {
	sc := tenant.MustFromContext(r.Context())
	data := a.designData(sc, sc.Site.Theme(), overrideValues(sc.Site.TemplateSettings), nil)
	if r.URL.Query().Get("saved") == "1" {
		data.Flashes = append(data.Flashes, render.Flash{Type: "success", Message: "Design saved."})
	}
	a.renderer.Page(w, r, "design", data)
}

// DesignSave validates and stores the submitted theme and overrides, then
// purges every cache that could still serve the old design.
func (a *Admin) DesignSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sc := tenant.MustFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := designForm(r)

	themeID, overrides, errs := parseDesign(form, sc.Site.TemplateSettings, a.themes)
	if len(errs) > 0 {
		a.renderer.PageStatus(w, r, http.StatusUnprocessableEntity, "design", a.designData(sc, form["theme"], form, errs))
		return
	}

	if err := a.sites.UpdateDesign(ctx, sc.Site.ID, themeID, overrides); err != nil {
		slog.Error("update site design failed", "site_id", sc.Site.ID, "error", err)
		a.renderer.PageStatus(w, r, http.StatusInternalServerError, "design",
			a.designData(sc, themeID, form, []string{"The design could not be saved."}))
		return
	}

	a.purgeSite(ctx, sc.Site, "design")
	slog.Info("site design updated", "site_id", sc.Site.ID, "theme", themeID)

	http.Redirect(w, r, sc.Link("/admin/design?saved=1"), http.StatusSeeOther)
}

// DesignPreview renders the tenant's front page with the theme and
// overrides from the query string, without saving or caching anything.
func (a *Admin) DesignPreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sc := tenant.MustFromContext(ctx)

	form := designForm(r)
	saved := overrideValues(sc.Site.TemplateSettings)
	for field, v := range saved {
		if !r.URL.Query().Has(field) {
			form[field] = v
		}
	}
	if form["theme"] == "" {
		form["theme"] = sc.Site.Theme()
	}
	themeID, overrides, errs := parseDesign(form, sc.Site.TemplateSettings, a.themes)
	if len(errs) > 0 {
		http.Error(w, strings.Join(errs, "\n"), http.StatusUnprocessableEntity)
		return
	}

	var tokens theme.Tokens
	if overrides != nil {
		tokens = *overrides
	}
	settings := a.themes.Merge(themeID, tokens)

	posts, err := a.posts.ListBySite(ctx, sc.Site.ID, homePostLimit)
	if err != nil {
		slog.Warn("preview posts failed", "site_id", sc.Site.ID, "error", err)
	}
	tags, err := a.posts.TopTags(ctx, sc.Site.ID, navTagLimit)
	if err != nil {
		slog.Warn("preview tags failed", "site_id", sc.Site.ID, "error", err)
	}

	body, err := a.engine.RenderHome(sc, settings, posts, tags)
	if err != nil {
		slog.Error("render preview failed", "site_id", sc.Site.ID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", htmlType)
	w.Header().Set("Cache-Control", "no-store")
	w.Write(body)
}

// purgeSite drops cached pages and domain answers for site and records
// the purge.
func (a *Admin) purgeSite(ctx context.Context, site *models.Site, action string) {
	if a.pages != nil {
		a.pages.InvalidateSite(ctx, site.ID.String())
	}
	for _, d := range a.domains {
		d.InvalidateSite(ctx, site)
	}
	if a.cacheLog != nil {
		a.cacheLog.Log(ctx, store.CacheEntitySite, site.ID, action)
	}
}

func (a *Admin) designData(sc *tenant.Scope, themeID string, form map[string]string, errs []string) *render.PageData {
	if !a.themes.IsValid(themeID) {
		themeID = sc.Site.Theme()
	}
	data := siteData(sc, "Design", "design")
	data.Data["Themes"] = a.themes.Enabled()
	data.Data["Current"] = themeID
	data.Data["Settings"] = a.themes.Merge(themeID, theme.Tokens{})
	data.Data["Overrides"] = form
	data.Data["Errors"] = errs
	data.Data["PreviewURL"] = sc.Link("/admin/design/preview?theme=" + themeID)
	return data
}

// safeNext keeps post-login redirects on this host.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/admin"
	}
	return next
}
