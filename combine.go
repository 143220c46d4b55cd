package asslay

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/asslay/asslay/fract"
	"github.com/asslay/asslay/geom"
	"github.com/asslay/asslay/outline"
	"github.com/asslay/asslay/raster"
)

// filterFlags mirrors the bit-flags get_bitmap_glyph/render_and_combine_glyphs
// compute per run, per §4.6.
type filterFlags uint8

const (
	filterNonzeroBorder filterFlags = 1 << iota
	filterNonzeroShadow
	filterFillInShadow
	filterFillInBorder
)

// bitmapPlacement is one (bitmap, position) pair pushed into a run, for
// both the fill and border lists.
type bitmapPlacement struct {
	bitmap *raster.Bitmap
	x, y   int
}

// combinedBitmapInfo is the CombinedBitmapInfo: one per style-run within
// an event.
type combinedBitmapInfo struct {
	primary, secondary, outlineColor, back Color
	effect                                 KaraokeMode
	effectStart, effectDur                 int64
	fade                                   Fade

	filter                 filterFlags
	be                     int
	blurQuant              int32
	shadowOffX, shadowOffY float64

	leftmostX int // karaoke leftmost-x tracking, device-space pixels

	fills   []bitmapPlacement
	borders []bitmapPlacement

	fillBitmap, borderBitmap, shadowBitmap           *raster.Bitmap
	fillX, fillY, borderX, borderY, shadowX, shadowY int
}

func (c *combinedBitmapInfo) ByteSize() uint32 {
	sz := uint32(64)
	if c.fillBitmap != nil {
		sz += c.fillBitmap.ByteSize()
	}
	if c.borderBitmap != nil {
		sz += c.borderBitmap.ByteSize()
	}
	if c.shadowBitmap != nil {
		sz += c.shadowBitmap.ByteSize()
	}
	return sz
}

// clusterPlacement is the combine stage's view of one shaped cluster:
// its resolved style-run membership, outline reference, pen position
// and per-glyph transform inputs.
type clusterPlacement struct {
	outline *outline.HashValue

	penX, penY float64

	shearFAX, shearFAY float64
	frx, fry, frz      float64

	scaleX, scaleY   float64
	borderX, borderY float64
	blurScale        float64

	startsNewRun bool

	style *renderState
}

// renderAndCombineGlyphs is render_and_combine_glyphs (§4.6): it walks
// clusters in pen order, opens a new combinedBitmapInfo at each
// startsNewRun boundary, and fetches each cluster's fill/border bitmaps
// via getBitmapGlyph, then asks the composite cache to fuse each run's
// placements into final fill/border/shadow rasters.
func (r *Renderer) renderAndCombineGlyphs(clusters []clusterPlacement, fontScaleX float64) []*combinedBitmapInfo {
	var runs []*combinedBitmapInfo
	var cur *combinedBitmapInfo

	for i := range clusters {
		c := &clusters[i]
		c.penX *= fontScaleX

		if c.startsNewRun || cur == nil {
			cur = r.newCombinedBitmapInfo(c)
			runs = append(runs, cur)
		}

		fillBmp, fillX, fillY, borderBmp, borderX, borderY, err := r.getBitmapGlyph(c)
		if err != nil {
			r.warnDegraded("bitmap glyph construction failed", "error", err)
			continue
		}
		if fillBmp != nil {
			cur.fills = append(cur.fills, bitmapPlacement{fillBmp, fillX, fillY})
			if len(cur.fills) == 1 || fillX < cur.leftmostX {
				cur.leftmostX = fillX
			}
		}
		if borderBmp != nil {
			cur.borders = append(cur.borders, bitmapPlacement{borderBmp, borderX, borderY})
		}
	}

	for _, run := range runs {
		if err := r.combineRun(run); err != nil {
			r.warnDegraded("run combine failed", "error", err)
		}
	}
	return runs
}

func (r *Renderer) newCombinedBitmapInfo(c *clusterPlacement) *combinedBitmapInfo {
	rs := c.style
	st := rs.style

	info := &combinedBitmapInfo{
		primary:      st.Primary,
		secondary:    st.Secondary,
		outlineColor: st.Outline,
		back:         st.Back,
		effect:       rs.karaoke,
		effectStart:  rs.karaokeFrom,
		effectDur:    rs.karaokeDur,
		fade:         rs.fade,
		be:           rs.be,
	}
	info.filter = computeFilterFlags(rs, st)
	info.blurQuant = int32(raster.QuantizeBlurPasses(rs.blur))
	info.shadowOffX = raster.QuantizeShadowOffset(rs.shadowX*64, rs.blur)
	info.shadowOffY = raster.QuantizeShadowOffset(rs.shadowY*64, rs.blur)
	return info
}

// computeFilterFlags implements §4.6's flag derivation.
func computeFilterFlags(rs *renderState, st Style) filterFlags {
	var f filterFlags
	if rs.borderX > 0 || rs.borderY > 0 {
		f |= filterNonzeroBorder
	}
	if rs.shadowX != 0 || rs.shadowY != 0 {
		f |= filterNonzeroShadow
	}

	fillInShadow := f&filterNonzeroShadow != 0 &&
		(rs.karaoke == KaraokeKF || rs.karaoke == KaraokeKO || st.Primary.A() < 255 || st.BorderStyle == 3)
	if fillInShadow {
		f |= filterFillInShadow
	}
	if f&filterNonzeroBorder == 0 && f&filterFillInShadow == 0 {
		f &^= filterNonzeroShadow
	}

	fillInBorder := f&filterNonzeroBorder != 0 &&
		((st.Primary.A() == 0 && st.Secondary.A() == 0 && st.Outline.A() == 0) || st.BorderStyle == 3)
	if fillInBorder {
		f |= filterFillInBorder
	}
	return f
}

// getBitmapGlyph is get_bitmap_glyph (§4.6.1): build the per-glyph 3D
// transform, quantize it, and resolve fill/border bitmaps via the
// bitmap cache.
func (r *Renderer) getBitmapGlyph(c *clusterPlacement) (fillBmp *raster.Bitmap, fillX, fillY int, borderBmp *raster.Bitmap, borderX, borderY int, err error) {
	if c.outline == nil || !c.outline.Valid {
		return nil, 0, 0, nil, 0, 0, nil
	}

	rot := geom.RotateXYZ(c.frx, c.fry, c.frz)
	projected := geom.Perspective(rot, 20000*c.blurScale)

	m := geom.Shear(c.shearFAX, c.shearFAY)
	m = geom.Multiply(projected, m)
	m = geom.Multiply(geom.Scale(c.scaleX, c.scaleY), m)
	m = geom.Multiply(geom.Translate(c.penX, c.penY), m)

	var residual geom.Residual
	q := geom.QuantizeTransform(m, c.outline.CBox, true, &residual)
	if !q.Valid {
		return nil, 0, 0, nil, 0, 0, nil
	}

	fillKey := geom.BitmapKey[outline.Key]{Outline: outlineKeyOf(c.outline), MX: q.MX, MY: q.MY, MZ: q.MZ, OffX: q.OffX, OffY: q.OffY}
	fillBmp, err = r.bitmapCache.GetOrConstruct(fillKey, func() (*raster.Bitmap, error) {
		restored := geom.RestoreTransform(q, c.outline.CBox)
		return raster.Build(c.outline.Fill, restored, c.frx != 0 || c.fry != 0)
	})
	if err != nil {
		return nil, 0, 0, nil, 0, 0, nil
	}
	fillX, fillY = int(q.PosX), int(q.PosY)

	if c.borderX <= 0 && c.borderY <= 0 {
		return fillBmp, fillX, fillY, nil, 0, 0, nil
	}

	if c.style.style.BorderStyle == 3 {
		return r.getBoxBorder(c, m, fillBmp, fillX, fillY)
	}

	scaleOrd := borderScaleOrd(q)
	borderKey := outline.Key{Kind: outline.KindBorder, Source: c.outline, BorderX: fract.FromFloat64Down(c.borderX * 64), BorderY: fract.FromFloat64Down(c.borderY * 64), ScaleOrd: scaleOrd}
	borderOutline, err := r.outlineCache.GetOrConstruct(borderKey, func() (*outline.HashValue, error) {
		return outline.ConstructBorder(c.outline, fract.FromFloat64Down(c.borderX*64), fract.FromFloat64Down(c.borderY*64), scaleOrd)
	})
	if err != nil || borderOutline == nil || !borderOutline.Valid {
		return fillBmp, fillX, fillY, nil, 0, 0, nil
	}

	bq := geom.QuantizeTransform(m, borderOutline.CBox, false, &residual)
	if !bq.Valid {
		return fillBmp, fillX, fillY, nil, 0, 0, nil
	}
	borderBitmapKey := geom.BitmapKey[outline.Key]{Outline: outlineKeyOf(borderOutline), MX: bq.MX, MY: bq.MY, MZ: bq.MZ, OffX: bq.OffX, OffY: bq.OffY}
	borderBmp, err = r.bitmapCache.GetOrConstruct(borderBitmapKey, func() (*raster.Bitmap, error) {
		restored := geom.RestoreTransform(bq, borderOutline.CBox)
		return raster.Build(borderOutline.Border, restored, c.frx != 0 || c.fry != 0)
	})
	if err != nil {
		return fillBmp, fillX, fillY, nil, 0, 0, nil
	}
	if borderBmp.W == 0 || borderBmp.H == 0 {
		// Computed border rounds to zero: reuse the fill bitmap
		// reference for the border, per §4.6.1.
		return fillBmp, fillX, fillY, fillBmp, fillX, fillY, nil
	}
	return fillBmp, fillX, fillY, borderBmp, int(bq.PosX), int(bq.PosY), nil
}

// getBoxBorder handles BorderStyle 3: an OUTLINE_BOX key synthesized
// from advance + border + ascent/descent, with VSFilter's double-scale
// quirk (intentionally preserved, not "fixed" — §9).
func (r *Renderer) getBoxBorder(c *clusterPlacement, m geom.Matrix3, fillBmp *raster.Bitmap, fillX, fillY int) (*raster.Bitmap, int, int, *raster.Bitmap, int, int, error) {
	boxOutline, err := r.outlineCache.GetOrConstruct(outline.Key{Kind: outline.KindBox}, func() (*outline.HashValue, error) {
		return outline.ConstructBox(), nil
	})
	if err != nil {
		return fillBmp, fillX, fillY, nil, 0, 0, nil
	}

	width := float64(c.outline.Advance) + 2*c.borderX*64
	height := float64(c.outline.Ascender-c.outline.Descender) + 2*c.borderY*64
	boxScale := geom.Scale(width/64*2, height/64*2) // VSFilter double-scale quirk
	boxTransform := geom.Multiply(m, boxScale)

	var residual geom.Residual
	q := geom.QuantizeTransform(boxTransform, boxOutline.CBox, false, &residual)
	if !q.Valid {
		return fillBmp, fillX, fillY, nil, 0, 0, nil
	}
	key := geom.BitmapKey[outline.Key]{Outline: outlineKeyOf(boxOutline), MX: q.MX, MY: q.MY, MZ: q.MZ, OffX: q.OffX, OffY: q.OffY}
	bmp, err := r.bitmapCache.GetOrConstruct(key, func() (*raster.Bitmap, error) {
		restored := geom.RestoreTransform(q, boxOutline.CBox)
		return raster.Build(boxOutline.Fill, restored, false)
	})
	if err != nil {
		return fillBmp, fillX, fillY, nil, 0, 0, nil
	}
	return fillBmp, fillX, fillY, bmp, int(q.PosX), int(q.PosY), nil
}

// borderScaleOrd chooses scale_ord via frexp of the quantized matrix's
// dominant scale component, matching the derivative-of-projection
// approach §4.6.1 describes so stroker precision matches
// POSITION_PRECISION under perspective.
func borderScaleOrd(q geom.Quantized) int32 {
	scale := math.Hypot(float64(q.MX[0]), float64(q.MY[0]))
	if scale <= 0 {
		return 0
	}
	_, exp := math.Frexp(scale / float64(geom.PositionPrecision))
	return int32(exp)
}

// outlineKeyOf wraps an outline reference for use as the Outline half of
// a bitmap cache key. Since outline.HashValue pointers are themselves
// content-addressed (the outline cache returns the same pointer for the
// same construction inputs), the pointer alone already uniquely
// identifies which outline a bitmap was built from; Kind is left at its
// zero value.
func outlineKeyOf(h *outline.HashValue) outline.Key {
	return outline.Key{Source: h}
}

// combineRun is the composite-cache construct path (§4.6.2): union
// bounding boxes, alias-or-copy, synth blur, fix_outline, shadow.
func (r *Renderer) combineRun(run *combinedBitmapInfo) error {
	key := compositeKeyFor(run)
	cached, err := r.compositeCache.GetOrConstruct(key, func() (*combinedBitmapInfo, error) {
		bePad := raster.Selected.BEPadding(run.be)
		fillBmp, fx, fy := unionAndBlit(run.fills, bePad)
		borderBmp, bx, by := unionAndBlit(run.borders, bePad)

		if fillBmp != nil && (borderBmp == nil || fillInConditions(run)) {
			raster.Selected.SynthBlur(fillBmp, int(run.blurQuant))
		}
		if borderBmp != nil {
			raster.Selected.SynthBlur(borderBmp, int(run.blurQuant))
		}

		fixOutline(run, fillBmp, borderBmp, fx, fy, bx, by)

		run.fillBitmap, run.fillX, run.fillY = fillBmp, fx, fy
		run.borderBitmap, run.borderX, run.borderY = borderBmp, bx, by

		if run.filter&filterNonzeroShadow != 0 {
			computeShadow(run)
		}
		return run, nil
	})
	if err == nil && cached != nil && cached != run {
		run.fillBitmap, run.fillX, run.fillY = cached.fillBitmap, cached.fillX, cached.fillY
		run.borderBitmap, run.borderX, run.borderY = cached.borderBitmap, cached.borderX, cached.borderY
		run.shadowBitmap, run.shadowX, run.shadowY = cached.shadowBitmap, cached.shadowX, cached.shadowY
	}
	return err
}

func fillInConditions(run *combinedBitmapInfo) bool {
	return run.filter&filterFillInShadow != 0 || run.filter&filterFillInBorder != 0
}

// fixOutline subtracts fill from border per the fill-in-border flag, so
// overlapping coverage isn't double-counted in the final composite.
func fixOutline(run *combinedBitmapInfo, fill, border *raster.Bitmap, fx, fy, bx, by int) {
	if fill == nil || border == nil || fill == border || run.filter&filterFillInBorder == 0 {
		return
	}
	for y := 0; y < fill.H; y++ {
		for x := 0; x < fill.W; x++ {
			dx, dy := x+fx-bx, y+fy-by
			if dx < 0 || dy < 0 || dx >= border.W || dy >= border.H {
				continue
			}
			i, f := dy*border.Stride+dx, fill.Pix[y*fill.Stride+x]
			if border.Pix[i] > f {
				border.Pix[i] -= f
			} else {
				border.Pix[i] = 0
			}
		}
	}
}

// computeShadow points the shadow at the post-blur layer chosen per
// flags (border if present, else fill) and translates it by the integer
// part of the quantized shadow offset (offset >> 6). The 6-bit sub-pixel
// remainder is dropped.
func computeShadow(run *combinedBitmapInfo) {
	var base *raster.Bitmap
	var baseX, baseY int
	switch {
	case run.borderBitmap != nil:
		base, baseX, baseY = run.borderBitmap, run.borderX, run.borderY
	case run.fillBitmap != nil:
		base, baseX, baseY = run.fillBitmap, run.fillX, run.fillY
	default:
		return
	}
	run.shadowBitmap = base
	run.shadowX = baseX + int(run.shadowOffX)>>6
	run.shadowY = baseY + int(run.shadowOffY)>>6
}

// unionAndBlit unions placements' bounds padded by bePad, then either
// aliases the single bitmap (when there's exactly one and no padding)
// or allocates a combined raster and additive-blits every placement in.
func unionAndBlit(placements []bitmapPlacement, bePad int) (*raster.Bitmap, int, int) {
	if len(placements) == 0 {
		return nil, 0, 0
	}
	if len(placements) == 1 && bePad == 0 {
		p := placements[0]
		return p.bitmap, p.x, p.y
	}

	minX, minY := placements[0].x, placements[0].y
	maxX, maxY := minX+placements[0].bitmap.W, minY+placements[0].bitmap.H
	for _, p := range placements[1:] {
		if p.x < minX {
			minX = p.x
		}
		if p.y < minY {
			minY = p.y
		}
		if p.x+p.bitmap.W > maxX {
			maxX = p.x + p.bitmap.W
		}
		if p.y+p.bitmap.H > maxY {
			maxY = p.y + p.bitmap.H
		}
	}
	minX -= bePad
	minY -= bePad
	maxX += bePad
	maxY += bePad

	combined := raster.Selected.AllocBitmap(maxX-minX, maxY-minY)
	for _, p := range placements {
		raster.Selected.AddBitmaps(combined, p.bitmap, p.x-minX, p.y-minY)
	}
	return combined, minX, minY
}

func compositeKeyFor(run *combinedBitmapInfo) compositeKey {
	var b strings.Builder
	for _, p := range run.fills {
		b.WriteString("f")
		fmt.Fprintf(&b, "%p@", p.bitmap)
		b.WriteString(strconv.Itoa(p.x))
		b.WriteString(",")
		b.WriteString(strconv.Itoa(p.y))
		b.WriteString(";")
	}
	for _, p := range run.borders {
		b.WriteString("b")
		fmt.Fprintf(&b, "%p@", p.bitmap)
		b.WriteString(strconv.Itoa(p.x))
		b.WriteString(",")
		b.WriteString(strconv.Itoa(p.y))
		b.WriteString(";")
	}
	return compositeKey{filter: run.filter, be: run.be, blur: run.blurQuant, bitmaps: b.String()}
}
