// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

// FontKey selects a font family from the fixed font table.
type FontKey string

const (
	FontModern    FontKey = "modern"
	FontClassic   FontKey = "classic"
	FontEditorial FontKey = "editorial"
	FontMinimal   FontKey = "minimal"
	FontTech      FontKey = "tech"
	FontElegant   FontKey = "elegant"
)

// Family returns the CSS font-family stack. Unknown keys use modern.
func (f FontKey) Family() string {
	switch f {
	case FontClassic:
		return `Georgia, "Times New Roman", serif`
	case FontEditorial:
		return `"Playfair Display", Georgia, serif`
	case FontMinimal:
		return `"Helvetica Neue", Arial, sans-serif`
	case FontTech:
		return `"JetBrains Mono", "Fira Code", ui-monospace, monospace`
	case FontElegant:
		return `"Cormorant Garamond", Garamond, serif`
	default:
		return `Inter, system-ui, -apple-system, "Segoe UI", sans-serif`
	}
}

// FontScale selects the three base font sizes.
type FontScale string

const (
	ScaleSmall  FontScale = "small"
	ScaleNormal FontScale = "normal"
	ScaleLarge  FontScale = "large"
)

// Sizes holds the font-size tokens for one scale.
type Sizes struct {
	Base    string
	Heading string
	Small   string
}

// Sizes returns the size tokens for the scale. Unknown scales use normal.
func (s FontScale) Sizes() Sizes {
	switch s {
	case ScaleSmall:
		return Sizes{Base: "14px", Heading: "1.75rem", Small: "12px"}
	case ScaleLarge:
		return Sizes{Base: "18px", Heading: "2.5rem", Small: "16px"}
	default:
		return Sizes{Base: "16px", Heading: "2rem", Small: "14px"}
	}
}

// LogoSize selects the header logo height class.
type LogoSize string

const (
	LogoSmall  LogoSize = "small"
	LogoMedium LogoSize = "medium"
	LogoLarge  LogoSize = "large"
)

// Class returns the logo class. Unknown sizes use medium.
func (l LogoSize) Class() string {
	switch l {
	case LogoSmall:
		return "logo-sm"
	case LogoLarge:
		return "logo-lg"
	default:
		return "logo-md"
	}
}

// ContentWidth selects the main column width class.
type ContentWidth string

const (
	WidthNarrow ContentWidth = "narrow"
	WidthNormal ContentWidth = "normal"
	WidthWide   ContentWidth = "wide"
	WidthFull   ContentWidth = "full"
)

// Class returns the width class. Unknown widths use normal.
func (w ContentWidth) Class() string {
	switch w {
	case WidthNarrow:
		return "width-narrow"
	case WidthWide:
		return "width-wide"
	case WidthFull:
		return "width-full"
	default:
		return "width-normal"
	}
}

// CardStyle selects the post card class.
type CardStyle string

const (
	CardRounded  CardStyle = "rounded"
	CardSharp    CardStyle = "sharp"
	CardElevated CardStyle = "elevated"
	CardBordered CardStyle = "bordered"
	CardFlat     CardStyle = "flat"
)

// Class returns the card class. Unknown styles use rounded.
func (c CardStyle) Class() string {
	switch c {
	case CardSharp:
		return "card-sharp"
	case CardElevated:
		return "card-elevated"
	case CardBordered:
		return "card-bordered"
	case CardFlat:
		return "card-flat"
	default:
		return "card-rounded"
	}
}

// HeaderStyle selects the site header layout class.
type HeaderStyle string

const (
	HeaderDefault  HeaderStyle = "default"
	HeaderCentered HeaderStyle = "centered"
	HeaderMinimal  HeaderStyle = "minimal"
	HeaderBold     HeaderStyle = "bold"
)

// Class returns the header class. Unknown styles use default.
func (h HeaderStyle) Class() string {
	switch h {
	case HeaderCentered:
		return "header-centered"
	case HeaderMinimal:
		return "header-minimal"
	case HeaderBold:
		return "header-bold"
	default:
		return "header-default"
	}
}

// Classes is the set of resolved layout class names for one page.
type Classes struct {
	Logo    string
	Content string
	Card    string
	Header  string
}

// Classes resolves every layout token of s through its lookup table.
func (s Settings) Classes() Classes {
	return Classes{
		Logo:    s.LogoSize.Class(),
		Content: s.ContentWidth.Class(),
		Card:    s.CardStyle.Class(),
		Header:  s.HeaderStyle.Class(),
	}
}
