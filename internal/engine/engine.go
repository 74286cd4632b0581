// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders tenant public pages. Each site type has its own
// renderer: a set of html/templates sharing one layout but arranging the
// front page differently. Rendering mounts the site's theme on a fresh
// style root so the page carries exactly that tenant's CSS properties.
package engine

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"tenantpress/internal/models"
	"tenantpress/internal/tenant"
	"tenantpress/internal/theme"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page kinds. Each renderer has one compiled template set per kind.
const (
	pageHome = "home"
	pagePost = "post"
	pageList = "list"
)

// shared files parsed into every template set.
var sharedFiles = []string{"templates/layout.html", "templates/partials.html"}

// Renderer is the public renderer for one site type.
type Renderer struct {
	Type  models.SiteType
	pages map[string]*template.Template
}

// Engine holds one compiled Renderer per site type.
type Engine struct {
	renderers map[models.SiteType]*Renderer
	notFound  *template.Template
}

// New parses every embedded template. It fails if any site type is
// missing its front-page template.
func New() (*Engine, error) {
	e := &Engine{renderers: make(map[models.SiteType]*Renderer, len(models.SiteTypes))}

	for _, t := range models.SiteTypes {
		r := &Renderer{Type: t, pages: make(map[string]*template.Template, 3)}
		files := map[string]string{
			pageHome: "templates/home_" + string(t) + ".html",
			pagePost: "templates/post.html",
			pageList: "templates/list.html",
		}
		for kind, file := range files {
			tmpl, err := template.New("layout").Funcs(funcMap).ParseFS(templatesFS, append(sharedFiles, file)...)
			if err != nil {
				return nil, fmt.Errorf("parse %s template for %s: %w", kind, t, err)
			}
			r.pages[kind] = tmpl
		}
		e.renderers[t] = r
	}

	nf, err := template.New("site_not_found.html").ParseFS(templatesFS, "templates/site_not_found.html")
	if err != nil {
		return nil, fmt.Errorf("parse site not found template: %w", err)
	}
	e.notFound = nf
	return e, nil
}

// ForSiteType returns the renderer for t. Unknown types use the blog
// renderer, so selection never fails.
func (e *Engine) ForSiteType(t models.SiteType) *Renderer {
	if r, ok := e.renderers[t]; ok {
		return r
	}
	return e.renderers[models.SiteTypeBlog]
}

// RenderHome renders the front page of the scope's site.
func (e *Engine) RenderHome(sc *tenant.Scope, s theme.Settings, posts []models.Post, tags []string) ([]byte, error) {
	v := BuildHome(sc, s, posts, tags)
	return e.render(sc, s, pageHome, &v.Page, &v)
}

// RenderPost renders a single post with its related posts.
func (e *Engine) RenderPost(sc *tenant.Scope, s theme.Settings, p *models.Post, related []models.Post, tags []string) ([]byte, error) {
	v := BuildPost(sc, s, p, related, tags)
	return e.render(sc, s, pagePost, &v.Page, &v)
}

// RenderTag renders the listing of one tag.
func (e *Engine) RenderTag(sc *tenant.Scope, s theme.Settings, tag string, posts []models.Post, tags []string) ([]byte, error) {
	v := BuildTag(sc, s, tag, posts, tags)
	return e.render(sc, s, pageList, &v.Page, &v)
}

// RenderSearch renders search results.
func (e *Engine) RenderSearch(sc *tenant.Scope, s theme.Settings, q string, posts []models.Post, tags []string) ([]byte, error) {
	v := BuildSearch(sc, s, q, posts, tags)
	return e.render(sc, s, pageList, &v.Page, &v)
}

// RenderNotFound renders the tenant-themed 404 page.
func (e *Engine) RenderNotFound(sc *tenant.Scope, s theme.Settings, tags []string) ([]byte, error) {
	v := BuildNotFound(sc, s, tags)
	return e.render(sc, s, pageList, &v.Page, &v)
}

// RenderSiteNotFound renders the page shown when no tenant answers on
// host. lookupFailed switches the wording to a temporary error.
func (e *Engine) RenderSiteNotFound(host string, lookupFailed bool) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Host         string
		LookupFailed bool
	}{host, lookupFailed}
	if err := e.notFound.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// render mounts the site's theme on a fresh style root, captures the
// resulting CSS into page and executes the renderer's template. The
// style root is released before render returns.
func (e *Engine) render(sc *tenant.Scope, s theme.Settings, kind string, page *Page, data any) ([]byte, error) {
	tmpl := e.ForSiteType(sc.Site.SiteType).pages[kind]

	root := theme.NewStyleRoot()
	var buf bytes.Buffer
	err := theme.Apply(root, sc.Site.ID.String(), &s, func(*theme.Scope) error {
		page.ThemeCSS = template.CSS(root.CSS())
		return tmpl.ExecuteTemplate(&buf, "layout", data)
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

var funcMap = template.FuncMap{
	// dict builds a map from alternating keys and values so partials can
	// take more than one argument.
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, fmt.Errorf("dict: odd number of arguments")
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			k, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
			}
			m[k] = kv[i+1]
		}
		return m, nil
	},
	// initial returns the first letter of s for monogram placeholders.
	"initial": func(s string) string {
		for _, r := range s {
			return strings.ToUpper(string(r))
		}
		return ""
	},
	// first and rest split a card list for layouts with a lead row.
	"first": func(n int, cards []Card) []Card {
		if n > len(cards) {
			n = len(cards)
		}
		return cards[:n]
	},
	"rest": func(n int, cards []Card) []Card {
		if n > len(cards) {
			return nil
		}
		return cards[n:]
	},
}
