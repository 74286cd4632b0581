// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme resolves a site's design tokens. It holds the built-in
// theme registry, merges theme defaults with site overrides, derives the
// CSS custom-property palette and applies it to a page's style root with
// save/restore semantics.
package theme

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed themes.yaml
var builtinThemes []byte

// Definition is a named bundle of default tokens plus descriptive metadata.
type Definition struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	Defaults    Tokens   `yaml:"defaults"`
}

// registryFile is the on-disk shape of themes.yaml.
type registryFile struct {
	Enabled []string     `yaml:"enabled"`
	Themes  []Definition `yaml:"themes"`
}

// Registry is a read-only mapping from theme ID to Definition. Defining a
// theme and offering it to tenants are separate: only IDs in the enabled
// list are selectable.
type Registry struct {
	themes  map[string]Definition
	order   []string
	enabled map[string]bool
}

// Default is the registry built from the embedded themes.yaml.
var Default = mustLoad(builtinThemes)

// Load parses a registry from YAML. Duplicate IDs and enabled IDs without
// a definition are rejected.
func Load(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse themes: %w", err)
	}

	r := &Registry{
		themes:  make(map[string]Definition, len(f.Themes)),
		enabled: make(map[string]bool, len(f.Enabled)),
	}
	for _, d := range f.Themes {
		if d.ID == "" {
			return nil, fmt.Errorf("theme %q has no id", d.Name)
		}
		if _, dup := r.themes[d.ID]; dup {
			return nil, fmt.Errorf("duplicate theme id %q", d.ID)
		}
		r.themes[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	for _, id := range f.Enabled {
		if _, ok := r.themes[id]; !ok {
			return nil, fmt.Errorf("enabled theme %q is not defined", id)
		}
		r.enabled[id] = true
	}
	return r, nil
}

func mustLoad(data []byte) *Registry {
	r, err := Load(data)
	if err != nil {
		panic(err)
	}
	return r
}

// Definition returns the theme registered under id.
func (r *Registry) Definition(id string) (Definition, bool) {
	d, ok := r.themes[id]
	return d, ok
}

// DefaultTokens returns the theme's default tokens, or empty Tokens when
// id is unknown.
func (r *Registry) DefaultTokens(id string) Tokens {
	return r.themes[id].Defaults
}

// Merge layers base defaults, then the theme's defaults, then overrides.
// Later layers win field by field, so a site's explicit choice always beats
// its theme, and the result never has an unset field.
func (r *Registry) Merge(id string, overrides Tokens) Settings {
	s := DefaultSettings()
	s = r.DefaultTokens(id).ApplyTo(s)
	return overrides.ApplyTo(s)
}

// IsValid reports whether id is defined.
func (r *Registry) IsValid(id string) bool {
	_, ok := r.themes[id]
	return ok
}

// IsEnabled reports whether id is defined and offered to tenants.
func (r *Registry) IsEnabled(id string) bool {
	return r.enabled[id]
}

// All returns every definition in file order.
func (r *Registry) All() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.themes[id])
	}
	return out
}

// Enabled returns the selectable definitions in file order.
func (r *Registry) Enabled() []Definition {
	var out []Definition
	for _, id := range r.order {
		if r.enabled[id] {
			out = append(out, r.themes[id])
		}
	}
	return out
}
