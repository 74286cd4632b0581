// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts post bodies from Markdown into HTML using
// goldmark. Raw HTML passes through so imported posts render unchanged.
// Root-relative link and image destinations are rewritten under the
// tenant's base path while the document is parsed.
package markdown

import (
	"bytes"
	"strings"
	"unicode/utf8"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"tenantpress/internal/links"
)

// basePathKey carries the tenant base path into the AST transformer.
var basePathKey = parser.NewContextKey()

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,            // GitHub-Flavored Markdown: tables, strikethrough, autolinks, task lists
		extension.Typographer,    // Smart quotes and dashes
		highlighting.NewHighlighting( // Syntax highlighting for fenced code blocks
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(), // Auto-generate heading IDs for anchors
		parser.WithASTTransformers(util.Prioritized(linkTransformer{}, 999)),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // Raw HTML in imported posts
	),
)

// ToHTML converts Markdown source into HTML. Root-relative link and image
// destinations are prefixed with basePath; raw HTML is left untouched.
func ToHTML(source, basePath string) (string, error) {
	pc := parser.NewContext()
	pc.Set(basePathKey, links.NormalizeBasePath(basePath))

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf, parser.WithContext(pc)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// linkTransformer rewrites link and image destinations in place.
type linkTransformer struct{}

func (linkTransformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	base, _ := pc.Get(basePathKey).(string)
	if base == "" {
		return
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			v.Destination = []byte(links.RewriteInternal(string(v.Destination), base))
		case *ast.Image:
			v.Destination = []byte(links.RewriteInternal(string(v.Destination), base))
		}
		return ast.WalkContinue, nil
	})
}

// Strip returns the visible text of a Markdown document with formatting,
// code blocks and raw HTML removed and whitespace collapsed.
func Strip(source string) string {
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch v := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				b.Write(v.Segment.Value(src))
				if v.SoftLineBreak() || v.HardLineBreak() {
					b.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				b.Write(v.Value)
			}
		default:
			if !entering && n.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// Excerpt returns at most n runes of Strip(source), cut at a word
// boundary and suffixed with an ellipsis when shortened.
func Excerpt(source string, n int) string {
	s := Strip(source)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := []rune(s)[:n]
	out := string(cut)
	if i := strings.LastIndexByte(out, ' '); i > 0 {
		out = out[:i]
	}
	return strings.TrimRight(out, " ,.;:") + "…"
}
