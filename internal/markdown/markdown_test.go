// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	got, err := ToHTML("# Title\n\nSome **bold** text.", "")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	for _, want := range []string{`<h1 id="title">Title</h1>`, "<strong>bold</strong>"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestToHTMLRewritesLinks(t *testing.T) {
	src := "[post](/post/a) [ext](https://example.com/x) [frag](#top) [done](/blog/tag/go) ![img](/static/a.png)"
	got, err := ToHTML(src, "/blog/")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	tests := []string{
		`href="/blog/post/a"`,
		`href="https://example.com/x"`,
		`href="#top"`,
		`href="/blog/tag/go"`,
		`src="/blog/static/a.png"`,
	}
	for _, want := range tests {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
	if strings.Contains(got, "/blog/blog/") {
		t.Errorf("link prefixed twice: %q", got)
	}
}

func TestToHTMLWithoutBasePath(t *testing.T) {
	got, err := ToHTML("[post](/post/a)", "")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(got, `href="/post/a"`) {
		t.Errorf("unexpected rewrite: %q", got)
	}
}

func TestToHTMLPassesRawHTML(t *testing.T) {
	got, err := ToHTML(`<div class="note">hi</div>`, "")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(got, `<div class="note">hi</div>`) {
		t.Errorf("raw HTML not passed through: %q", got)
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"# Heading\n\nA **bold** [link](/x).", "Heading A bold link."},
		{"line one\nline two", "line one line two"},
		{"Text\n\n```go\nfunc main() {}\n```\n\nAfter", "Text After"},
		{"<div>raw</div>\n\nvisible", "visible"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Strip(tt.in); got != tt.want {
			t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("short text", 50); got != "short text" {
		t.Errorf("Excerpt short: %q", got)
	}
	got := Excerpt("The quick brown fox jumps over the lazy dog", 16)
	if got != "The quick brown…" {
		t.Errorf("Excerpt long: %q", got)
	}
}
