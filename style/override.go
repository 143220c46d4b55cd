// Package style implements the coordinate and style helpers from §4.7:
// selective override merging, font-scale derivation, and script/screen
// axis mapping.
package style

// OverrideMask is the selective_style_overrides bitmask from §6.
type OverrideMask uint32

const (
	OverrideFullStyle OverrideMask = 1 << iota
	OverrideStyle
	OverrideFontName
	OverrideFontSizeFields
	OverrideColors
	OverrideBorder
	OverrideAttributes
	OverrideAlignment
	OverrideJustify
	OverrideMargins
	OverrideSelectiveFontScale
)

func (m OverrideMask) has(bit OverrideMask) bool { return m&bit != 0 }

// Style is the subset of §3's Style fields that selective overrides can
// touch; RenderState carries the full set but override merging only
// ever reasons about these.
type Style struct {
	FontName               string
	FontSize               float64
	ScaleX, ScaleY         float64
	Spacing                float64
	Primary, Secondary     uint32
	Outline, Back          uint32
	Bold, Italic           bool
	Underline, StrikeOut   bool
	BorderStyle            int
	OutlineWidth           float64
	ShadowX, ShadowY       float64
	Angle                  float64
	Alignment              int
	Justify                int
	MarginL, MarginR, MarginV float64
}

// MergeOverride implements handle_selective_style_overrides: produces a
// fresh merged style from (script style, user override style, bitmask).
// When explicit is true (the event is positioned or hard-overridden),
// most overrides are suppressed unless OverrideSelectiveFontScale is
// set, per §4.7.
func MergeOverride(script, user Style, mask OverrideMask, explicit bool) Style {
	if mask == 0 {
		return script
	}
	if mask.has(OverrideFullStyle) {
		return user
	}

	out := script
	allowed := !explicit || mask.has(OverrideSelectiveFontScale)

	if mask.has(OverrideFontName) && allowed {
		out.FontName = user.FontName
	}
	if mask.has(OverrideFontSizeFields) {
		// font size fields follow the same rule as every other channel:
		// blocked for explicit events unless the selective-font-scale
		// bit is set.
		if allowed || mask.has(OverrideSelectiveFontScale) {
			out.FontSize = user.FontSize
			out.ScaleX = user.ScaleX
			out.ScaleY = user.ScaleY
			out.Spacing = user.Spacing
		}
	}
	if mask.has(OverrideColors) && allowed {
		out.Primary = user.Primary
		out.Secondary = user.Secondary
		out.Outline = user.Outline
		out.Back = user.Back
	}
	if mask.has(OverrideBorder) && allowed {
		out.BorderStyle = user.BorderStyle
		out.OutlineWidth = user.OutlineWidth
		out.ShadowX = user.ShadowX
		out.ShadowY = user.ShadowY
	}
	if mask.has(OverrideAttributes) && allowed {
		out.Bold = user.Bold
		out.Italic = user.Italic
		out.Underline = user.Underline
		out.StrikeOut = user.StrikeOut
	}
	if mask.has(OverrideAlignment) && allowed {
		out.Alignment = user.Alignment
	}
	if mask.has(OverrideJustify) && allowed {
		out.Justify = user.Justify
	}
	if mask.has(OverrideMargins) && allowed {
		out.MarginL = user.MarginL
		out.MarginR = user.MarginR
		out.MarginV = user.MarginV
	}
	if mask.has(OverrideStyle) && allowed {
		out = user
	}
	return out
}
