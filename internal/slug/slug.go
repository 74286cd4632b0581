// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns post titles and tag names into URL segments and maps
// tag segments back to the tag they came from.
package slug

import (
	"regexp"
	"strings"
)

var (
	// disallowed matches anything that isn't a letter, digit, hyphen or whitespace.
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	// separators collapses whitespace and hyphen runs into one hyphen.
	separators = regexp.MustCompile(`[\s-]+`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = disallowed.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Match reports whether tag renders to the URL segment seg.
func Match(tag, seg string) bool {
	return seg != "" && Generate(tag) == strings.ToLower(seg)
}

// FindTag returns the first tag in tags whose slug is seg.
func FindTag(tags []string, seg string) (string, bool) {
	for _, t := range tags {
		if Match(t, seg) {
			return t, true
		}
	}
	return "", false
}

// reserved are first path segments a post can never own: the server
// answers them before tenant routing, or they name a fixed tenant page.
var reserved = map[string]bool{
	"health": true, "api": true, "static": true,
	"admin": true, "signup": true, "pricing": true, "owner": true,
	"post": true, "tag": true, "search": true,
}

// Reserved reports whether s is a post slug that a fixed route would
// shadow on sites serving posts at the root.
func Reserved(s string) bool {
	return reserved[strings.ToLower(s)]
}
