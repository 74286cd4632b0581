// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paletteMap(s Settings) map[string]string {
	out := map[string]string{}
	for _, p := range Palette(s) {
		out[p.Name] = p.Value
	}
	return out
}

func TestMountWritesEveryProperty(t *testing.T) {
	root := NewStyleRoot()
	s := Default.Merge("news", Tokens{})

	sc, err := Mount(root, "site-a", &s)
	require.NoError(t, err)
	assert.Equal(t, paletteMap(s), root.Properties())

	sc.Release()
	assert.Empty(t, root.Properties())
	assert.Empty(t, root.CSS())
}

func TestMountNilSettingsUsesDefaults(t *testing.T) {
	root := NewStyleRoot()
	sc, err := Mount(root, "site-a", nil)
	require.NoError(t, err)
	defer sc.Release()

	assert.Equal(t, paletteMap(DefaultSettings()), root.Properties())
}

func TestReleaseRestoresPreexistingValues(t *testing.T) {
	root := NewStyleRoot()
	root.Set(PropBackground, "platform-bg")
	root.Set("--unrelated", "keep")

	sc, err := Mount(root, "site-a", nil)
	require.NoError(t, err)
	v, _ := root.Get(PropBackground)
	assert.NotEqual(t, "platform-bg", v)

	sc.Release()
	assert.Equal(t, map[string]string{
		PropBackground: "platform-bg",
		"--unrelated":  "keep",
	}, root.Properties())
}

func TestSequentialTenantsDoNotLeak(t *testing.T) {
	root := NewStyleRoot()
	a := Default.Merge("crypto", Tokens{})
	b := Default.Merge("restaurant", Tokens{})

	scA, err := Mount(root, "site-a", &a)
	require.NoError(t, err)
	scA.Release()

	scB, err := Mount(root, "site-b", &b)
	require.NoError(t, err)
	assert.Equal(t, paletteMap(b), root.Properties())
	scB.Release()

	assert.Empty(t, root.Properties())
}

func TestMountRejectsSecondTenant(t *testing.T) {
	root := NewStyleRoot()
	sc, err := Mount(root, "site-a", nil)
	require.NoError(t, err)

	_, err = Mount(root, "site-b", nil)
	assert.ErrorIs(t, err, ErrStyleRootBusy)

	sc.Release()
	scB, err := Mount(root, "site-b", nil)
	require.NoError(t, err)
	scB.Release()
}

func TestNestedMountSameTenant(t *testing.T) {
	root := NewStyleRoot()
	outer := Default.Merge("blog", Tokens{})
	inner := Default.Merge("blog", Tokens{PrimaryColor: Ptr("#ff0000")})

	scOuter, err := Mount(root, "site-a", &outer)
	require.NoError(t, err)
	scInner, err := Mount(root, "site-a", &inner)
	require.NoError(t, err)

	v, _ := root.Get(PropPrimary)
	assert.Equal(t, "0 100% 50%", v)

	scInner.Release()
	assert.Equal(t, paletteMap(outer), root.Properties())

	scOuter.Release()
	assert.Empty(t, root.Properties())
}

func TestNestedReleaseOutOfOrder(t *testing.T) {
	root := NewStyleRoot()
	root.Set(PropPrimary, "host value")
	outer := Default.Merge("blog", Tokens{})
	inner := Default.Merge("blog", Tokens{PrimaryColor: Ptr("#ff0000")})

	scOuter, err := Mount(root, "site-a", &outer)
	require.NoError(t, err)
	scInner, err := Mount(root, "site-a", &inner)
	require.NoError(t, err)

	// The inner scope is still mounted, so its values stay visible.
	scOuter.Release()
	assert.Equal(t, paletteMap(inner), root.Properties())

	// Unwinding the last scope restores the root as it was before either.
	scInner.Release()
	assert.Equal(t, map[string]string{PropPrimary: "host value"}, root.Properties())

	// A new tenant can mount once both are gone.
	sc, err := Mount(root, "site-b", nil)
	require.NoError(t, err)
	sc.Release()
}

func TestNestedReleaseThreeDeepMiddleFirst(t *testing.T) {
	root := NewStyleRoot()
	a := Default.Merge("blog", Tokens{})
	b := Default.Merge("blog", Tokens{PrimaryColor: Ptr("#00ff00")})
	c := Default.Merge("blog", Tokens{PrimaryColor: Ptr("#0000ff")})

	scA, err := Mount(root, "site-a", &a)
	require.NoError(t, err)
	scB, err := Mount(root, "site-a", &b)
	require.NoError(t, err)
	scC, err := Mount(root, "site-a", &c)
	require.NoError(t, err)

	scB.Release()
	assert.Equal(t, paletteMap(c), root.Properties())

	scC.Release()
	assert.Equal(t, paletteMap(a), root.Properties())

	scA.Release()
	assert.Empty(t, root.Properties())
}

func TestUpdateSkipsUnchangedSettings(t *testing.T) {
	root := NewStyleRoot()
	s := DefaultSettings()
	sc, err := Mount(root, "site-a", &s)
	require.NoError(t, err)
	defer sc.Release()

	writes := root.Writes()

	same := s
	same.FooterText = "only non-visual fields changed"
	same.ShowSearch = !s.ShowSearch
	assert.False(t, sc.Update(same))
	assert.Equal(t, writes, root.Writes())

	changed := s
	changed.PrimaryColor = "#000000"
	assert.True(t, sc.Update(changed))
	assert.Greater(t, root.Writes(), writes)
	v, _ := root.Get(PropPrimary)
	assert.Equal(t, "0 0% 0%", v)
}

func TestUpdateAfterReleaseIsNoop(t *testing.T) {
	root := NewStyleRoot()
	sc, err := Mount(root, "site-a", nil)
	require.NoError(t, err)
	sc.Release()
	sc.Release()

	changed := DefaultSettings()
	changed.PrimaryColor = "#000000"
	assert.False(t, sc.Update(changed))
	assert.Empty(t, root.Properties())
}

func TestApplyReleasesOnError(t *testing.T) {
	root := NewStyleRoot()
	boom := errors.New("boom")

	err := Apply(root, "site-a", nil, func(sc *Scope) error {
		assert.NotEmpty(t, root.Properties())
		assert.Equal(t, "site-a", sc.Owner())
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, root.Properties())
}

func TestApplyReleasesOnPanic(t *testing.T) {
	root := NewStyleRoot()

	assert.Panics(t, func() {
		_ = Apply(root, "site-a", nil, func(*Scope) error {
			panic("render failed")
		})
	})
	assert.Empty(t, root.Properties())

	_, err := Mount(root, "site-b", nil)
	assert.NoError(t, err, "panicking scope must not keep the root busy")
}

func TestStyleRootCSS(t *testing.T) {
	root := NewStyleRoot()
	root.Set("--b", "2")
	root.Set("--a", "1")
	assert.Equal(t, ":root{--a:1;--b:2;}", root.CSS())

	err := Apply(root, "site-a", nil, func(*Scope) error {
		css := root.CSS()
		assert.True(t, strings.HasPrefix(css, ":root{"))
		assert.Contains(t, css, PropFontHeading+":")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, ":root{--a:1;--b:2;}", root.CSS())
}
