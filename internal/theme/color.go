// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSL is a colour in whole degrees and percentages.
type HSL struct {
	H int
	S int
	L int
}

// HexToHSL converts "#rrggbb" or "#rgb" to HSL. The leading "#" is
// optional. Components are rounded to whole numbers.
func HexToHSL(hex string) (HSL, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if !IsHexColor(hex) {
		return HSL{}, fmt.Errorf("invalid hex colour %q", hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return HSL{}, fmt.Errorf("invalid hex colour %q: %w", hex, err)
	}
	h, s, l := c.Hsl()
	return HSL{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}, nil
}

// Lighten shifts lightness by delta percentage points, clamped to [0,100].
func (c HSL) Lighten(delta int) HSL {
	c.L = clamp(c.L+delta, 0, 100)
	return c
}

// String formats c as a space-separated CSS custom property value,
// e.g. "221 83% 53%".
func (c HSL) String() string {
	return fmt.Sprintf("%d %d%% %d%%", c.H, c.S, c.L)
}

// IsHexColor reports whether s is "#rgb" or "#rrggbb". Alpha forms are
// rejected since the palette has no use for them.
func IsHexColor(s string) bool {
	if (len(s) != 4 && len(s) != 7) || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
