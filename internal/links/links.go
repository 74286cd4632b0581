// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package links rewrites root-relative hrefs so they stay inside a tenant's
// base path. Every href emitted by a public renderer or the site-context
// admin passes through RewriteInternal before it reaches the page.
package links

import "strings"

// PostURLFormat controls the shape of public post URLs.
const (
	FormatWithPrefix = "with-prefix" // /post/{slug}
	FormatRoot       = "root"        // /{slug}
)

// NormalizeBasePath returns p with a leading slash and no trailing slash.
// An empty or "/" input yields "".
func NormalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// RewriteInternal prefixes a same-origin root-relative href with basePath.
// Absolute URLs, protocol-relative URLs, fragments and relative paths are
// returned unchanged, as is any href already under basePath. Applying it
// twice is the same as applying it once.
func RewriteInternal(href, basePath string) string {
	if href == "" {
		return href
	}
	base := strings.TrimRight(basePath, "/")
	if base == "" {
		return href
	}
	if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
		return href
	}
	if hasBasePrefix(href, base) {
		return href
	}
	return base + href
}

// hasBasePrefix reports whether href is base itself or base followed by
// a path, query or fragment delimiter.
func hasBasePrefix(href, base string) bool {
	if !strings.HasPrefix(href, base) {
		return false
	}
	if len(href) == len(base) {
		return true
	}
	switch href[len(base)] {
	case '/', '?', '#':
		return true
	}
	return false
}

// StripBasePath returns the part of path below basePath. It falls back to
// "/" when nothing remains. ok is false when path is outside basePath; in
// that case path is returned unchanged.
func StripBasePath(path, basePath string) (effective string, ok bool) {
	base := NormalizeBasePath(basePath)
	if path == "" {
		path = "/"
	}
	if base == "" {
		return path, true
	}
	if path == base {
		return "/", true
	}
	if strings.HasPrefix(path, base+"/") {
		rest := path[len(base):]
		if rest == "" {
			rest = "/"
		}
		return rest, true
	}
	return path, false
}

// PostPath builds the root-relative URL of a post. format "root" yields
// base/slug; anything else, including "", yields base/post/slug.
func PostPath(basePath, format, slug string) string {
	base := NormalizeBasePath(basePath)
	if format == FormatRoot {
		return base + "/" + slug
	}
	return base + "/post/" + slug
}

// Join appends a root-relative path to basePath without doubling slashes.
func Join(basePath, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return RewriteInternal(path, NormalizeBasePath(basePath))
}
