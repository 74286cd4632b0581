// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

// Settings is a fully populated set of design tokens for one site.
type Settings struct {
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`

	HeadingFont FontKey   `json:"headingFont"`
	BodyFont    FontKey   `json:"bodyFont"`
	FontScale   FontScale `json:"fontScale"`

	LogoSize     LogoSize     `json:"logoSize"`
	ContentWidth ContentWidth `json:"contentWidth"`
	CardStyle    CardStyle    `json:"cardStyle"`
	HeaderStyle  HeaderStyle  `json:"headerStyle"`

	ShowFeaturedHero  bool `json:"showFeaturedHero"`
	ShowSearch        bool `json:"showSearch"`
	GDPRBannerEnabled bool `json:"gdprBannerEnabled"`
	TopBannerEnabled  bool `json:"topBannerEnabled"`

	FooterText        string `json:"footerText"`
	TopBannerMessage  string `json:"topBannerMessage"`
	TopBannerLink     string `json:"topBannerLink"`
	GDPRBannerMessage string `json:"gdprBannerMessage"`
}

// DefaultSettings is the base record used when a site has no settings and
// the first layer of every merge.
func DefaultSettings() Settings {
	return Settings{
		PrimaryColor:      "#2563eb",
		SecondaryColor:    "#64748b",
		BackgroundColor:   "#ffffff",
		TextColor:         "#0f172a",
		HeadingFont:       FontModern,
		BodyFont:          FontModern,
		FontScale:         ScaleNormal,
		LogoSize:          LogoMedium,
		ContentWidth:      WidthNormal,
		CardStyle:         CardRounded,
		HeaderStyle:       HeaderDefault,
		ShowFeaturedHero:  true,
		ShowSearch:        true,
		GDPRBannerMessage: "This site uses cookies to improve your experience.",
	}
}

// Tokens is a sparse set of design tokens. A nil field means "not set" and
// leaves the lower layer's value in place during a merge.
type Tokens struct {
	PrimaryColor    *string `json:"primaryColor,omitempty" yaml:"primaryColor,omitempty" validate:"omitempty,csscolor"`
	SecondaryColor  *string `json:"secondaryColor,omitempty" yaml:"secondaryColor,omitempty" validate:"omitempty,csscolor"`
	BackgroundColor *string `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty" validate:"omitempty,csscolor"`
	TextColor       *string `json:"textColor,omitempty" yaml:"textColor,omitempty" validate:"omitempty,csscolor"`

	HeadingFont *FontKey   `json:"headingFont,omitempty" yaml:"headingFont,omitempty"`
	BodyFont    *FontKey   `json:"bodyFont,omitempty" yaml:"bodyFont,omitempty"`
	FontScale   *FontScale `json:"fontScale,omitempty" yaml:"fontScale,omitempty"`

	LogoSize     *LogoSize     `json:"logoSize,omitempty" yaml:"logoSize,omitempty"`
	ContentWidth *ContentWidth `json:"contentWidth,omitempty" yaml:"contentWidth,omitempty"`
	CardStyle    *CardStyle    `json:"cardStyle,omitempty" yaml:"cardStyle,omitempty"`
	HeaderStyle  *HeaderStyle  `json:"headerStyle,omitempty" yaml:"headerStyle,omitempty"`

	ShowFeaturedHero  *bool `json:"showFeaturedHero,omitempty" yaml:"showFeaturedHero,omitempty"`
	ShowSearch        *bool `json:"showSearch,omitempty" yaml:"showSearch,omitempty"`
	GDPRBannerEnabled *bool `json:"gdprBannerEnabled,omitempty" yaml:"gdprBannerEnabled,omitempty"`
	TopBannerEnabled  *bool `json:"topBannerEnabled,omitempty" yaml:"topBannerEnabled,omitempty"`

	FooterText        *string `json:"footerText,omitempty" yaml:"footerText,omitempty" validate:"omitempty,max=500"`
	TopBannerMessage  *string `json:"topBannerMessage,omitempty" yaml:"topBannerMessage,omitempty" validate:"omitempty,max=300"`
	TopBannerLink     *string `json:"topBannerLink,omitempty" yaml:"topBannerLink,omitempty" validate:"omitempty,max=500"`
	GDPRBannerMessage *string `json:"gdprBannerMessage,omitempty" yaml:"gdprBannerMessage,omitempty" validate:"omitempty,max=500"`
}

// ApplyTo overwrites every field of s that t sets and returns the result.
func (t Tokens) ApplyTo(s Settings) Settings {
	setString(&s.PrimaryColor, t.PrimaryColor)
	setString(&s.SecondaryColor, t.SecondaryColor)
	setString(&s.BackgroundColor, t.BackgroundColor)
	setString(&s.TextColor, t.TextColor)
	set(&s.HeadingFont, t.HeadingFont)
	set(&s.BodyFont, t.BodyFont)
	set(&s.FontScale, t.FontScale)
	set(&s.LogoSize, t.LogoSize)
	set(&s.ContentWidth, t.ContentWidth)
	set(&s.CardStyle, t.CardStyle)
	set(&s.HeaderStyle, t.HeaderStyle)
	set(&s.ShowFeaturedHero, t.ShowFeaturedHero)
	set(&s.ShowSearch, t.ShowSearch)
	set(&s.GDPRBannerEnabled, t.GDPRBannerEnabled)
	set(&s.TopBannerEnabled, t.TopBannerEnabled)
	setString(&s.FooterText, t.FooterText)
	setString(&s.TopBannerMessage, t.TopBannerMessage)
	setString(&s.TopBannerLink, t.TopBannerLink)
	setString(&s.GDPRBannerMessage, t.GDPRBannerMessage)
	return s
}

// Overlay returns t with every field set in o taking precedence.
func (t Tokens) Overlay(o Tokens) Tokens {
	over(&t.PrimaryColor, o.PrimaryColor)
	over(&t.SecondaryColor, o.SecondaryColor)
	over(&t.BackgroundColor, o.BackgroundColor)
	over(&t.TextColor, o.TextColor)
	over(&t.HeadingFont, o.HeadingFont)
	over(&t.BodyFont, o.BodyFont)
	over(&t.FontScale, o.FontScale)
	over(&t.LogoSize, o.LogoSize)
	over(&t.ContentWidth, o.ContentWidth)
	over(&t.CardStyle, o.CardStyle)
	over(&t.HeaderStyle, o.HeaderStyle)
	over(&t.ShowFeaturedHero, o.ShowFeaturedHero)
	over(&t.ShowSearch, o.ShowSearch)
	over(&t.GDPRBannerEnabled, o.GDPRBannerEnabled)
	over(&t.TopBannerEnabled, o.TopBannerEnabled)
	over(&t.FooterText, o.FooterText)
	over(&t.TopBannerMessage, o.TopBannerMessage)
	over(&t.TopBannerLink, o.TopBannerLink)
	over(&t.GDPRBannerMessage, o.GDPRBannerMessage)
	return t
}

// IsZero reports whether no token is set.
func (t Tokens) IsZero() bool {
	return t == Tokens{}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// setString treats an empty string as unset so blank form fields and
// JSON "" never erase a lower layer.
func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func over[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

// Ptr returns a pointer to v. Handy for building Tokens literals.
func Ptr[T any](v T) *T {
	return &v
}
