// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrStyleRootBusy is returned when a tenant tries to mount its theme on a
// style root that another tenant's scope still holds.
var ErrStyleRootBusy = errors.New("style root is held by another tenant")

// StyleRoot is the custom-property namespace of one rendered document,
// the equivalent of :root's inline style. It is safe for concurrent use.
type StyleRoot struct {
	mu      sync.Mutex
	props   map[string]string
	holders []*Scope
	writes  int
}

// NewStyleRoot returns an empty style root.
func NewStyleRoot() *StyleRoot {
	return &StyleRoot{props: make(map[string]string)}
}

// Get returns the current value of a property.
func (r *StyleRoot) Get(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.props[name]
	return v, ok
}

// Set writes a property directly, outside any scope.
func (r *StyleRoot) Set(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set(name, value)
}

// Remove deletes a property.
func (r *StyleRoot) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.props, name)
}

// Properties returns a copy of every property currently set.
func (r *StyleRoot) Properties() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.props))
	for k, v := range r.props {
		out[k] = v
	}
	return out
}

// Writes returns how many property writes the root has received.
func (r *StyleRoot) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

// CSS renders the properties as a ":root{...}" rule, sorted by name.
// It returns "" when nothing is set.
func (r *StyleRoot) CSS() string {
	props := r.Properties()
	if len(props) == 0 {
		return ""
	}
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root{")
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte(':')
		b.WriteString(props[n])
		b.WriteByte(';')
	}
	b.WriteString("}")
	return b.String()
}

func (r *StyleRoot) set(name, value string) {
	r.props[name] = value
	r.writes++
}

// priorValue is what a property held before a scope overwrote it.
type priorValue struct {
	value   string
	existed bool
}

// Scope is one tenant's hold on a style root. Release restores every
// property it touched.
type Scope struct {
	root        *StyleRoot
	owner       string
	prior       map[string]priorValue
	fingerprint string
	released    bool
}

// Mount derives the palette for settings (DefaultSettings when nil) and
// writes it to root, recording each property's previous value. owner
// identifies the tenant; nested mounts by the same owner are allowed.
func Mount(root *StyleRoot, owner string, settings *Settings) (*Scope, error) {
	s := DefaultSettings()
	if settings != nil {
		s = *settings
	}

	root.mu.Lock()
	defer root.mu.Unlock()

	for _, h := range root.holders {
		if h.owner != owner {
			return nil, ErrStyleRootBusy
		}
	}

	sc := &Scope{
		root:  root,
		owner: owner,
		prior: make(map[string]priorValue, len(PropertyNames)),
	}
	sc.write(s)
	root.holders = append(root.holders, sc)
	return sc, nil
}

// Apply mounts settings on root, runs fn and releases the scope on every
// exit path, including a panic in fn.
func Apply(root *StyleRoot, owner string, settings *Settings, fn func(*Scope) error) error {
	sc, err := Mount(root, owner, settings)
	if err != nil {
		return err
	}
	defer sc.Release()
	return fn(sc)
}

// Update re-applies settings. Nothing is written when none of the fields
// that feed the palette changed. It reports whether properties were
// rewritten.
func (sc *Scope) Update(settings Settings) bool {
	sc.root.mu.Lock()
	defer sc.root.mu.Unlock()
	if sc.released || fingerprint(settings) == sc.fingerprint {
		return false
	}
	sc.write(settings)
	return true
}

// Release restores each touched property to its prior value, or removes
// it if it did not exist before the scope. Calling Release twice is a no-op.
//
// Nested scopes may be released in any order. A scope released while a
// newer scope is still mounted leaves the visible values alone and hands
// its prior values to the scope directly above it, so the last release
// restores what the root held before the first mount.
func (sc *Scope) Release() {
	sc.root.mu.Lock()
	defer sc.root.mu.Unlock()
	if sc.released {
		return
	}
	sc.released = true

	holders := sc.root.holders
	var above *Scope
	for i, h := range holders {
		if h == sc && i+1 < len(holders) {
			above = holders[i+1]
		}
	}

	for name, p := range sc.prior {
		if above != nil {
			if _, ok := above.prior[name]; ok {
				above.prior[name] = p
				continue
			}
		}
		if p.existed {
			sc.root.set(name, p.value)
		} else {
			delete(sc.root.props, name)
		}
	}
	sc.prior = nil

	kept := holders[:0]
	for _, h := range holders {
		if h != sc {
			kept = append(kept, h)
		}
	}
	sc.root.holders = kept
}

// Owner returns the tenant that holds the scope.
func (sc *Scope) Owner() string {
	return sc.owner
}

// write must be called with root.mu held.
func (sc *Scope) write(s Settings) {
	for _, p := range Palette(s) {
		if _, seen := sc.prior[p.Name]; !seen {
			old, existed := sc.root.props[p.Name]
			sc.prior[p.Name] = priorValue{value: old, existed: existed}
		}
		sc.root.set(p.Name, p.Value)
	}
	sc.fingerprint = fingerprint(s)
}
