// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"log/slog"
	"strings"
)

// Custom property names written to the document root while a themed
// subtree is mounted. This list is the complete surface.
const (
	PropBackground          = "--background"
	PropForeground          = "--foreground"
	PropCard                = "--card"
	PropCardForeground      = "--card-foreground"
	PropPopover             = "--popover"
	PropPopoverForeground   = "--popover-foreground"
	PropPrimary             = "--primary"
	PropPrimaryForeground   = "--primary-foreground"
	PropSecondary           = "--secondary"
	PropSecondaryForeground = "--secondary-foreground"
	PropMuted               = "--muted"
	PropMutedForeground     = "--muted-foreground"
	PropAccent              = "--accent"
	PropAccentForeground    = "--accent-foreground"
	PropBorder              = "--border"
	PropInput               = "--input"
	PropRing                = "--ring"
	PropFontHeading         = "--font-heading"
	PropFontBody            = "--font-body"
	PropFontSizeBase        = "--font-size-base"
	PropFontSizeHeading     = "--font-size-heading"
	PropFontSizeSmall       = "--font-size-small"
)

// PropertyNames lists every property the applier may write, in output order.
var PropertyNames = []string{
	PropBackground, PropForeground,
	PropCard, PropCardForeground,
	PropPopover, PropPopoverForeground,
	PropPrimary, PropPrimaryForeground,
	PropSecondary, PropSecondaryForeground,
	PropMuted, PropMutedForeground,
	PropAccent, PropAccentForeground,
	PropBorder, PropInput, PropRing,
	PropFontHeading, PropFontBody,
	PropFontSizeBase, PropFontSizeHeading, PropFontSizeSmall,
}

// Lightness deltas applied to the base colours.
const (
	cardDelta            = -2
	mutedDelta           = -8
	borderDelta          = -12
	accentDelta          = 35
	mutedForegroundDelta = 30
)

var (
	darkForeground  = HSL{H: 0, S: 0, L: 9}
	lightForeground = HSL{H: 0, S: 0, L: 98}
)

// Property is one custom property name/value pair.
type Property struct {
	Name  string
	Value string
}

// Palette derives the full custom-property set for s. Malformed colours
// fall back to the matching DefaultSettings colour.
func Palette(s Settings) []Property {
	def := DefaultSettings()
	bg := parseOr(s.BackgroundColor, def.BackgroundColor, "backgroundColor")
	fg := parseOr(s.TextColor, def.TextColor, "textColor")
	primary := parseOr(s.PrimaryColor, def.PrimaryColor, "primaryColor")
	secondary := parseOr(s.SecondaryColor, def.SecondaryColor, "secondaryColor")
	sizes := s.FontScale.Sizes()

	return []Property{
		{PropBackground, bg.String()},
		{PropForeground, fg.String()},
		{PropCard, bg.Lighten(cardDelta).String()},
		{PropCardForeground, fg.String()},
		{PropPopover, bg.String()},
		{PropPopoverForeground, fg.String()},
		{PropPrimary, primary.String()},
		{PropPrimaryForeground, contrast(primary).String()},
		{PropSecondary, secondary.String()},
		{PropSecondaryForeground, contrast(secondary).String()},
		{PropMuted, bg.Lighten(mutedDelta).String()},
		{PropMutedForeground, fg.Lighten(mutedForegroundDelta).String()},
		{PropAccent, primary.Lighten(accentDelta).String()},
		{PropAccentForeground, fg.String()},
		{PropBorder, bg.Lighten(borderDelta).String()},
		{PropInput, bg.Lighten(borderDelta).String()},
		{PropRing, primary.String()},
		{PropFontHeading, s.HeadingFont.Family()},
		{PropFontBody, s.BodyFont.Family()},
		{PropFontSizeBase, sizes.Base},
		{PropFontSizeHeading, sizes.Heading},
		{PropFontSizeSmall, sizes.Small},
	}
}

// fingerprint captures every field that affects Palette output.
func fingerprint(s Settings) string {
	return strings.Join([]string{
		s.PrimaryColor, s.SecondaryColor, s.BackgroundColor, s.TextColor,
		string(s.HeadingFont), string(s.BodyFont), string(s.FontScale),
	}, "|")
}

func parseOr(hex, fallback, field string) HSL {
	c, err := HexToHSL(hex)
	if err == nil {
		return c
	}
	slog.Debug("theme colour rejected, using default", "field", field, "value", hex, "error", err)
	c, _ = HexToHSL(fallback)
	return c
}

// contrast picks a near-black or near-white foreground for text on c.
func contrast(c HSL) HSL {
	if c.L > 60 {
		return darkForeground
	}
	return lightForeground
}
