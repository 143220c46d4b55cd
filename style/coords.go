package style

// Anchor describes the horizontal anchoring used by the x2scr family:
// left/centre anchoring shifts the mapped coordinate differently than
// right anchoring, per §4.7.
type Anchor uint8

const (
	AnchorLeft Anchor = iota
	AnchorCenter
	AnchorRight
)

// Axes bundles the inputs every x2scr_*/y2scr_* variant shares: the
// script-space coordinate, the script↔frame scale factor, and whether
// margins should be folded in (use_margins).
type Axes struct {
	FrameWidth, FrameHeight float64
	LeftMargin, TopMargin   float64
	UseMargins              bool
	FontScaleX              float64
	ScaledFontScaleX        bool
}

// ScriptToScreenX maps a script-space x coordinate to frame space. When
// useMargins is set the left margin is folded in; when scaled is true,
// font_scale_x applies (this is the "scaled-vs-unscaled font_scale_x"
// distinction from §4.7).
func ScriptToScreenX(x float64, axes Axes, anchor Anchor, useMargins, scaled bool) float64 {
	scale := 1.0
	if scaled {
		scale = axes.FontScaleX
	}
	out := x * scale
	if useMargins {
		switch anchor {
		case AnchorLeft, AnchorCenter:
			out += axes.LeftMargin
		case AnchorRight:
			out -= axes.LeftMargin
		}
	}
	return out
}

// ScriptToScreenY maps a script-space y coordinate to frame space,
// folding in the top margin when useMargins is set. Vertical mapping
// never applies font_scale_x (only the horizontal axis is affected by
// pixel aspect ratio).
func ScriptToScreenY(y float64, axes Axes, useMargins bool) float64 {
	out := y
	if useMargins {
		out += axes.TopMargin
	}
	return out
}
