// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToHSL(t *testing.T) {
	tests := []struct {
		hex  string
		want HSL
	}{
		{"#ff0000", HSL{0, 100, 50}},
		{"#00ff00", HSL{120, 100, 50}},
		{"#0000ff", HSL{240, 100, 50}},
		{"#ffffff", HSL{0, 0, 100}},
		{"#000000", HSL{0, 0, 0}},
		{"#2563eb", HSL{221, 83, 53}},
		{"#fff", HSL{0, 0, 100}},
		{"#111", HSL{0, 0, 7}},
		{"FF0000", HSL{0, 100, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			got, err := HexToHSL(tt.hex)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHexToHSLRejectsMalformedInput(t *testing.T) {
	for _, hex := range []string{"", "#", "#12", "#12345g", "#1234567", "red", "#ggg"} {
		_, err := HexToHSL(hex)
		assert.Errorf(t, err, "input %q", hex)
	}
}

func TestIsHexColor(t *testing.T) {
	for _, ok := range []string{"#fff", "#FFF", "#2563eb", "#2563EB"} {
		assert.Truef(t, IsHexColor(ok), "%q", ok)
	}
	for _, bad := range []string{"", "#", "fff", "2563eb", "#1234", "#11223344", "#12345", "#ggg"} {
		assert.Falsef(t, IsHexColor(bad), "%q", bad)
	}
}

func TestLightenClamps(t *testing.T) {
	c := HSL{H: 10, S: 20, L: 95}
	assert.Equal(t, 100, c.Lighten(35).L)
	assert.Equal(t, 0, HSL{L: 3}.Lighten(-8).L)
	assert.Equal(t, "10 20% 93%", c.Lighten(-2).String())
}

func TestPaletteDerivation(t *testing.T) {
	s := DefaultSettings()
	s.BackgroundColor = "#ffffff"
	s.TextColor = "#000000"
	s.PrimaryColor = "#ff0000"

	props := map[string]string{}
	for _, p := range Palette(s) {
		props[p.Name] = p.Value
	}

	assert.Len(t, props, len(PropertyNames))
	assert.Equal(t, "0 0% 100%", props[PropBackground])
	assert.Equal(t, "0 0% 98%", props[PropCard])
	assert.Equal(t, "0 0% 92%", props[PropMuted])
	assert.Equal(t, "0 0% 88%", props[PropBorder])
	assert.Equal(t, "0 0% 30%", props[PropMutedForeground])
	assert.Equal(t, "0 100% 85%", props[PropAccent])
	assert.Equal(t, "0 0% 98%", props[PropPrimaryForeground])
	assert.Equal(t, "16px", props[PropFontSizeBase])
}

func TestPaletteFallsBackOnMalformedColours(t *testing.T) {
	s := DefaultSettings()
	s.PrimaryColor = "not-a-colour"

	want, err := HexToHSL(DefaultSettings().PrimaryColor)
	require.NoError(t, err)

	for _, p := range Palette(s) {
		assert.NotContains(t, p.Value, "NaN")
		if p.Name == PropPrimary {
			assert.Equal(t, want.String(), p.Value)
		}
	}
}
