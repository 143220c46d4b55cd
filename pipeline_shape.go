package asslay

import (
	"unsafe"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/asslay/asslay/fract"
	assfont "github.com/asslay/asslay/font"
	"github.com/asslay/asslay/outline"
	"github.com/asslay/asslay/shape"
)

// markStyleRuns is phase 4: mark startsRun wherever any dimension that
// would change the shaped/rasterized output changes between adjacent
// glyphs (face, size, scale, colors, transform, effect).
func (p *eventPipeline) markStyleRuns() {
	for i := 1; i < len(p.glyphs); i++ {
		if !sameRunStyle(p.glyphs[i-1].rs, p.glyphs[i].rs) {
			p.glyphs[i].startsRun = true
		}
	}
}

func sameRunStyle(a, b *renderState) bool {
	if a.style.FontName != b.style.FontName || a.style.FontSize != b.style.FontSize {
		return false
	}
	if a.style.Bold != b.style.Bold || a.style.Italic != b.style.Italic {
		return false
	}
	if a.scaleX != b.scaleX || a.scaleY != b.scaleY || a.spacing != b.spacing {
		return false
	}
	if a.style.Primary != b.style.Primary || a.style.Secondary != b.style.Secondary {
		return false
	}
	if a.style.Outline != b.style.Outline || a.style.Back != b.style.Back {
		return false
	}
	if a.borderX != b.borderX || a.borderY != b.borderY {
		return false
	}
	if a.shadowX != b.shadowX || a.shadowY != b.shadowY {
		return false
	}
	if a.be != b.be || a.blur != b.blur {
		return false
	}
	if a.frx != b.frx || a.fry != b.fry || a.frz != b.frz {
		return false
	}
	if a.fax != b.fax || a.fay != b.fay {
		return false
	}
	if a.karaoke != b.karaoke {
		return false
	}
	return true
}

// shapeClusters is phase 5: resolve each glyph's font face, determine
// the base direction, and invoke the configured shaper over each
// contiguous style run to produce glyph-to-cluster chains. For the
// fallback path (no shaper wired or resolution failure) each rune maps
// to its own one-rune cluster.
func (p *eventPipeline) shapeClusters() error {
	rtl := resolveBaseDirection(p.evt.Text) == bidi.RightToLeft

	runStart := 0
	for i := 1; i <= len(p.glyphs); i++ {
		if i == len(p.glyphs) || p.glyphs[i].startsRun {
			p.shapeRun(p.glyphs[runStart:i], rtl)
			runStart = i
		}
	}
	return nil
}

func (p *eventPipeline) shapeRun(run []*glyphRecord, rtl bool) {
	if len(run) == 0 {
		return
	}
	rs := run[0].rs
	face, faceData, err := p.resolveFace(rs)
	if err != nil || face == nil {
		for _, g := range run {
			g.advance = rs.style.FontSize * 64
			g.rtl = rtl
		}
		return
	}
	rs.fontFace = face
	rs.fontData = faceData

	text := make([]rune, len(run))
	for i, g := range run {
		text[i] = g.rune
	}

	if missing, err := assfont.GetMissingRunes(face, string(text)); err == nil && len(missing) > 0 {
		p.r.warnDegraded("glyphs missing from resolved font", "font", rs.style.FontName, "runes", string(missing))
	}

	shaperRun := shape.Run{
		Text:     text,
		Face:     face,
		FaceData: faceData,
		Size:     fract.FromFloat64Down(rs.style.FontSize * 64),
		RTL:      rtl,
	}
	glyphs, err := p.r.shaper.Shape(shaperRun)
	if err != nil || len(glyphs) == 0 {
		var buf sfnt.Buffer
		for i, g := range run {
			idx, _ := face.GlyphIndex(&buf, g.rune)
			adv, _ := face.GlyphAdvance(&buf, idx, fixed.I(int(rs.style.FontSize)), font.HintingNone)
			run[i].advance = float64(adv)
			run[i].rtl = rtl
		}
		return
	}

	for _, sg := range glyphs {
		lo := sg.ClusterLo
		hi := sg.ClusterHi
		if hi <= lo || hi > len(run) {
			hi = lo + 1
		}
		adv := sg.XAdvance
		if adv == 0 {
			adv = sg.YAdvance
		}
		for j := lo; j < hi && j < len(run); j++ {
			run[j].advance = float64(adv) / float64(hi-lo)
			run[j].rtl = rtl
			run[j].clusterLo = lo
		}
	}
}

func (p *eventPipeline) resolveFace(rs *renderState) (*sfnt.Font, []byte, error) {
	if p.cfg.Fonts == nil {
		return nil, nil, ErrNoFontProvider
	}
	family := rs.style.FontName
	if family == "" {
		family = p.cfg.DefaultFamily
	}
	if family == "" {
		family = p.cfg.DefaultFont
	}
	f, err := p.cfg.Fonts.Match(family, rs.style.Bold, rs.style.Italic)
	if err != nil {
		return nil, nil, err
	}
	return f.Font, f.Data, nil
}

// retrieveOutlines is phase 6: fetch each cluster head's outline via
// the outline cache, extend the previous cluster's advance across an
// italic→upright transition, and fold letter-spacing plus
// shear-induced vertical advance into cluster_advance.
func (p *eventPipeline) retrieveOutlines() {
	var buf sfnt.Buffer
	var prevItalic bool
	for i, g := range p.glyphs {
		if g.skip || g.lineBreak != 0 {
			continue
		}
		rs := g.rs

		if g.isDrawing {
			key := outline.Key{Kind: outline.KindDrawing, DrawingCommands: g.drawingCmd, DrawingScale: int32(rs.scaleX * 100)}
			hv, err := p.r.outlineCache.GetOrConstruct(key, func() (*outline.HashValue, error) {
				return outline.ConstructDrawing(g.drawingCmd)
			})
			if err == nil && hv != nil && hv.Valid {
				g.outline = hv
			}
			continue
		}

		if rs.fontFace == nil {
			continue
		}

		key := outline.Key{
			Kind:        outline.KindGlyph,
			FontHandle:  fontHandle(rs.fontFace),
			GlyphIndex:  uint32(glyphIndexFor(rs.fontFace, &buf, g.rune)),
			SizeUnit:    fract.FromFloat64Down(rs.style.FontSize * 64),
			HintingMode: uint8(p.cfg.Hinting),
		}
		hv, err := p.r.outlineCache.GetOrConstruct(key, func() (*outline.HashValue, error) {
			idx := sfnt.GlyphIndex(glyphIndexFor(rs.fontFace, &buf, g.rune))
			return outline.ConstructGlyph(rs.fontFace, &buf, idx, fract.FromFloat64Down(rs.style.FontSize*64))
		})
		if err != nil || hv == nil || !hv.Valid {
			continue
		}
		g.outline = hv

		if prevItalic && !rs.style.Italic && i > 0 {
			p.glyphs[i-1].advance += rs.style.FontSize * 0.15 * 64
		}
		prevItalic = rs.style.Italic

		g.advance += rs.spacing * 64
		if rs.fay != 0 {
			g.vertShear = rs.fay * g.advance
		}
	}
}

func fontHandle(f *sfnt.Font) uintptr {
	return uintptr(unsafe.Pointer(f))
}

func glyphIndexFor(face *sfnt.Font, buf *sfnt.Buffer, r rune) sfnt.GlyphIndex {
	idx, err := face.GlyphIndex(buf, r)
	if err != nil {
		return 0
	}
	return idx
}
