package asslay

import (
	"golang.org/x/text/unicode/bidi"

	"github.com/asslay/asslay/outline"
	"github.com/asslay/asslay/raster"
	"github.com/asslay/asslay/style"
)

// glyphRecord is one produced GlyphInfo-in-progress: the snapshot of
// renderState at the moment this character/cluster was emitted, plus
// the layout bookkeeping phases 6-14 accumulate onto it.
type glyphRecord struct {
	rune       rune
	skip       bool
	trimmed    bool
	startsRun  bool
	lineBreak  int // 0 none, 1 soft (wrap), 2 forced (\N or \n)
	clusterLo  int
	isDrawing  bool

	rs *renderState

	outline    *outline.HashValue
	drawingCmd string // raw \p<N> drawing commands, set only when isDrawing
	advance    float64

	penX, penY float64
	line       int

	rtl   bool
	vertShear float64
}

// eventPipeline is the per-event working state threaded through the
// fifteen ordered phases of §4.5. A fresh eventPipeline is created per
// event; nothing survives across events except what's explicitly
// copied into the Renderer's prev-frame bookkeeping.
type eventPipeline struct {
	r   *Renderer
	cfg *Config

	track *Track
	evt   *Event
	nowMs int64

	rs *renderState

	glyphs []*glyphRecord
	lines  []lineInfo

	maxTextWidth float64

	scales style.Scales

	deviceOriginX, deviceOriginY float64
	rotOriginX, rotOriginY       float64

	// karaokeAccum is the running onset time (ms, relative to the
	// event's own start) for the next \k/\kf/\ko syllable: each tag
	// stamps its glyphs' karaokeFrom from this value, then advances it
	// by its own duration so the following syllable's color cutover is
	// computed against the right onset instead of everyone reusing 0.
	karaokeAccum int64

	// clipMask is the rasterized \clip/\iclip vector-drawing outline
	// (phase 13), in device space, consulted by clipImage instead of
	// the full-frame fallback whenever a vector clip was parsed.
	clipMask        *raster.Bitmap
	clipMaskX       int
	clipMaskY       int
	clipMaskInverse bool
}

// lineInfo is one wrapped line's accumulated metrics, filled in by
// measureText (§4.5.1) and consumed by align (§4.5.2).
type lineInfo struct {
	start, end int // glyph index range [start, end)
	width      float64
	ascender   float64
	descender  float64
}

// runEvent drives one event through all fifteen phases, returning the
// rendered image chain for that event or nil if the event produced no
// visible output (degenerate text, fully transparent style, or a
// failure at any phase — failures are logged and treated as "no
// output for this event", never as a RenderFrame-aborting error).
func (r *Renderer) runEvent(track *Track, idx int, nowMs int64) *EventImages {
	evt := &track.Events[idx]
	p := &eventPipeline{r: r, cfg: &r.cfg, track: track, evt: evt, nowMs: nowMs}

	if err := p.validate(); err != nil {
		r.warnEvent(idx, err)
		return nil
	}
	p.initRenderState()
	p.parseTagsAndChars()
	if len(p.glyphs) == 0 {
		return nil
	}
	p.markStyleRuns()
	if err := p.shapeClusters(); err != nil {
		r.warnEvent(idx, err)
		return nil
	}
	p.retrieveOutlines()
	p.preliminaryLayout()
	p.wrapLinesSmart()
	p.applyKaraoke()
	p.reorder()
	p.align()
	p.computeDeviceOrigin()
	p.resolveClipRect()
	p.resolveRotationOrigin()

	return p.renderAndCombine()
}

// validate is phase 1: style index in range, non-empty text.
func (p *eventPipeline) validate() error {
	if p.evt.StyleIndex < 0 || p.evt.StyleIndex >= len(p.track.Styles) {
		return errStyleIndexOutOfRange
	}
	if p.evt.Text == "" {
		return errEmptyText
	}
	return nil
}

// initRenderState is phase 2: copy the script style, apply selective
// overrides (§4.7). Whether the event is explicit (positioned via
// \pos/\move) has to be known before the override merge runs, since
// MergeOverride suppresses most override channels for explicit events —
// so explicit is resolved by a lightweight pre-scan of the event's tag
// blocks rather than left to parseTagsAndChars, which only runs after
// this merge and would otherwise make the suppression rule permanently
// dead code.
func (p *eventPipeline) initRenderState() {
	scriptStyle := p.track.Styles[p.evt.StyleIndex]
	explicit := p.eventIsExplicit()

	merged := scriptStyle
	if p.cfg.SelectiveStyleOverrides != 0 {
		merged = mergeStyleOverride(scriptStyle, p.cfg.OverrideStyle, p.cfg.SelectiveStyleOverrides, explicit)
	}
	if merged.ScaleX == 0 {
		merged.ScaleX = 100
	}
	if merged.ScaleY == 0 {
		merged.ScaleY = 100
	}
	if merged.FontSize == 0 {
		merged.FontSize = 20
	}

	p.scales = style.InitFontScale(float64(p.cfg.StorageHeight), float64(p.track.PlayResY), p.cfg.FontSizeCoeff)
	merged.FontSize *= p.scales.Font
	merged.OutlineWidth *= p.scales.Border
	merged.ShadowX *= p.scales.Border
	merged.ShadowY *= p.scales.Border

	rs := &renderState{
		style:     merged,
		scaleX:    merged.ScaleX / 100,
		scaleY:    merged.ScaleY / 100,
		spacing:   merged.Spacing,
		borderX:   merged.OutlineWidth,
		borderY:   merged.OutlineWidth,
		shadowX:   merged.ShadowX,
		shadowY:   merged.ShadowY,
		frz:       merged.Angle,
		alignment: merged.Alignment,
		justify:   merged.Justify,
		wrapStyle: 0,
	}
	if rs.alignment == 0 {
		rs.alignment = 2
	}
	rs.explicit = explicit
	switch p.evt.Scroll.Direction {
	case ScrollLeft, ScrollRight:
		rs.evtType = evtScrollHorizontal
	case ScrollUp, ScrollDown:
		rs.evtType = evtScrollVertical
	}
	p.rs = rs
}

// eventIsExplicit scans the event's override blocks for a \pos or
// \move tag without running the full tag interpreter, so initRenderState
// can resolve §4.7's explicit-suppression rule before any other tag has
// mutated renderState.
func (p *eventPipeline) eventIsExplicit() bool {
	text := []rune(p.evt.Text)
	i := 0
	for i < len(text) {
		if text[i] != '{' {
			i++
			continue
		}
		end := i + 1
		for end < len(text) && text[end] != '}' {
			end++
		}
		block := string(text[i+1 : min(end, len(text))])
		for _, tag := range splitTags(block) {
			name, _ := splitTagNameArg(tag)
			if name == "pos" || name == "move" {
				return true
			}
		}
		i = end + 1
	}
	return false
}

func mergeStyleOverride(script, user Style, mask style.OverrideMask, explicit bool) Style {
	sub := style.Style{
		FontName: script.FontName, FontSize: script.FontSize,
		ScaleX: script.ScaleX, ScaleY: script.ScaleY, Spacing: script.Spacing,
		Primary: uint32(script.Primary), Secondary: uint32(script.Secondary),
		Outline: uint32(script.Outline), Back: uint32(script.Back),
		Bold: script.Bold, Italic: script.Italic, Underline: script.Underline, StrikeOut: script.StrikeOut,
		BorderStyle: script.BorderStyle, OutlineWidth: script.OutlineWidth,
		ShadowX: script.ShadowX, ShadowY: script.ShadowY, Angle: script.Angle,
		Alignment: script.Alignment, Justify: script.Justify,
		MarginL: script.MarginL, MarginR: script.MarginR, MarginV: script.MarginV,
	}
	userSub := style.Style{
		FontName: user.FontName, FontSize: user.FontSize,
		ScaleX: user.ScaleX, ScaleY: user.ScaleY, Spacing: user.Spacing,
		Primary: uint32(user.Primary), Secondary: uint32(user.Secondary),
		Outline: uint32(user.Outline), Back: uint32(user.Back),
		Bold: user.Bold, Italic: user.Italic, Underline: user.Underline, StrikeOut: user.StrikeOut,
		BorderStyle: user.BorderStyle, OutlineWidth: user.OutlineWidth,
		ShadowX: user.ShadowX, ShadowY: user.ShadowY, Angle: user.Angle,
		Alignment: user.Alignment, Justify: user.Justify,
		MarginL: user.MarginL, MarginR: user.MarginR, MarginV: user.MarginV,
	}
	merged := style.MergeOverride(sub, userSub, mask, explicit)
	out := script
	out.FontName, out.FontSize = merged.FontName, merged.FontSize
	out.ScaleX, out.ScaleY, out.Spacing = merged.ScaleX, merged.ScaleY, merged.Spacing
	out.Primary, out.Secondary = Color(merged.Primary), Color(merged.Secondary)
	out.Outline, out.Back = Color(merged.Outline), Color(merged.Back)
	out.Bold, out.Italic, out.Underline, out.StrikeOut = merged.Bold, merged.Italic, merged.Underline, merged.StrikeOut
	out.BorderStyle, out.OutlineWidth = merged.BorderStyle, merged.OutlineWidth
	out.ShadowX, out.ShadowY, out.Angle = merged.ShadowX, merged.ShadowY, merged.Angle
	out.Alignment, out.Justify = merged.Alignment, merged.Justify
	out.MarginL, out.MarginR, out.MarginV = merged.MarginL, merged.MarginR, merged.MarginV
	return out
}

// resolveBaseDirection is used by shapeClusters (phase 5): the base
// direction is taken from a bidi.Paragraph over the event's plain
// text, matching the grounding shaper's bidi-aware segmentation.
func resolveBaseDirection(text string) bidi.Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return bidi.LeftToRight
	}
	return p.Direction()
}

