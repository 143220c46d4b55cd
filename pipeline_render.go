package asslay

import (
	"github.com/asslay/asslay/fract"
	"github.com/asslay/asslay/raster"
)

// renderAndCombine is phase 15: build the combine stage's cluster list
// from the laid-out glyphs (device-space pen positions baked in), fan
// it out through renderAndCombineGlyphs, and package each resulting run
// into the event's Image chain, back-to-front (shadow, then border,
// then fill).
func (p *eventPipeline) renderAndCombine() *EventImages {
	clusters := p.buildClusters()
	if len(clusters) == 0 {
		return nil
	}

	runs := p.r.renderAndCombineGlyphs(clusters, p.cfg.parDerived)
	if len(runs) == 0 {
		return nil
	}

	var head, tail *Image
	push := func(img *Image) {
		if img == nil {
			return
		}
		if head == nil {
			head, tail = img, img
			return
		}
		tail.Next = img
		tail = img
	}

	top, left := 1<<30, 1<<30
	bottom, right := -(1 << 30), -(1 << 30)
	clip := p.rs.clipRect

	for _, run := range runs {
		alpha := p.fadeAlpha(run.fade)
		if run.shadowBitmap != nil {
			push(p.clipImage(run.shadowBitmap, run.shadowX, run.shadowY, applyAlphaFactor(run.back, alpha), clip, &top, &left, &bottom, &right))
		}
		if run.borderBitmap != nil {
			push(p.clipImage(run.borderBitmap, run.borderX, run.borderY, applyAlphaFactor(run.outlineColor, alpha), clip, &top, &left, &bottom, &right))
		}
		if run.fillBitmap != nil {
			push(p.clipImage(run.fillBitmap, run.fillX, run.fillY, applyAlphaFactor(p.karaokeColor(run), alpha), clip, &top, &left, &bottom, &right))
		}
	}
	if head == nil {
		return nil
	}

	if left > right {
		left, right, top, bottom = 0, 0, 0, 0
	}
	return &EventImages{
		Images:           head,
		Top:              top,
		Left:             left,
		Width:            right - left,
		Height:           bottom - top,
		DetectCollisions: p.evt.DetectCollisions,
		ShiftDown:        p.evt.ShiftDown,
		sourceEvent:      p.evt,
		layer:            p.evt.Layer,
		readOrder:        p.evt.ReadOrder,
	}
}

// karaokeColor resolves the fill color for a run's current karaoke
// sweep state: unswept text renders in Secondary, already-swept text in
// Primary, per the K/KF/KO timing window relative to nowMs.
func (p *eventPipeline) karaokeColor(run *combinedBitmapInfo) Color {
	if run.effect == KaraokeNone {
		return run.primary
	}
	elapsed := p.nowMs - (p.evt.StartMs + run.effectStart)
	if elapsed >= run.effectDur {
		return run.primary
	}
	return run.secondary
}

// fadeAlpha is \fad/\fade's alpha multiplier at p.nowMs relative to the
// event's start: \fad(in,out) ramps in and out of opaque at the event's
// edges, \fade(a1,a2,a3,t1,t2,t3,t4) interpolates between three alpha
// plateaus over four time points. Returns 255 (no-op) when no fade tag
// touched the event.
func (p *eventPipeline) fadeAlpha(f Fade) uint8 {
	if !f.Set {
		return 255
	}
	elapsed := p.nowMs - p.evt.StartMs

	if f.FadeInMs != 0 || f.FadeOutMs != 0 {
		switch {
		case f.FadeInMs > 0 && elapsed < f.FadeInMs:
			return lerpChannel(0, 255, float64(elapsed)/float64(f.FadeInMs))
		case f.FadeOutMs > 0 && elapsed > p.evt.DurMs-f.FadeOutMs:
			remaining := p.evt.DurMs - elapsed
			return lerpChannel(0, 255, float64(remaining)/float64(f.FadeOutMs))
		default:
			return 255
		}
	}

	switch {
	case elapsed <= f.T1:
		return f.A1
	case elapsed <= f.T2:
		return lerpChannel(f.A1, f.A2, float64(elapsed-f.T1)/float64(f.T2-f.T1))
	case elapsed <= f.T3:
		return f.A2
	case elapsed <= f.T4:
		return lerpChannel(f.A2, f.A3, float64(elapsed-f.T3)/float64(f.T4-f.T3))
	default:
		return f.A3
	}
}

// applyAlphaFactor scales a color's existing alpha by factor/255,
// leaving the color untouched when factor is fully opaque.
func applyAlphaFactor(c Color, factor uint8) Color {
	if factor == 255 {
		return c
	}
	a := uint32(c.A()) * uint32(factor) / 255
	return setAlpha(c, uint8(a))
}

// clipImage converts a raster.Bitmap placement into an *Image,
// intersecting it against the device-space clip rectangle (and, for a
// vector \clip/\iclip, the rasterized clip mask) and updating the
// running bounding box the caller accumulates across every pushed
// image.
func (p *eventPipeline) clipImage(bmp *raster.Bitmap, x, y int, color Color, clip fract.Rect, top, left, bottom, right *int) *Image {
	w, h := bmp.W, bmp.H
	if w <= 0 || h <= 0 {
		return nil
	}

	cx0, cy0, cx1, cy1 := clip.ToInts()

	srcX0, srcY0 := 0, 0
	dstX0, dstY0 := x, y
	dstX1, dstY1 := x+w, y+h
	if dstX0 < cx0 {
		srcX0 += cx0 - dstX0
		dstX0 = cx0
	}
	if dstY0 < cy0 {
		srcY0 += cy0 - dstY0
		dstY0 = cy0
	}
	if dstX1 > cx1 {
		dstX1 = cx1
	}
	if dstY1 > cy1 {
		dstY1 = cy1
	}
	if dstX1 <= dstX0 || dstY1 <= dstY0 {
		return nil
	}

	cw, ch := dstX1-dstX0, dstY1-dstY0
	pix := make([]uint8, cw*ch)
	for row := 0; row < ch; row++ {
		srcOff := (srcY0+row)*bmp.Stride + srcX0
		copy(pix[row*cw:(row+1)*cw], bmp.Pix[srcOff:srcOff+cw])
	}

	if p.clipMask != nil {
		p.applyClipMask(pix, dstX0, dstY0, cw, ch)
	}

	if dstX0 < *left {
		*left = dstX0
	}
	if dstY0 < *top {
		*top = dstY0
	}
	if dstX1 > *right {
		*right = dstX1
	}
	if dstY1 > *bottom {
		*bottom = dstY1
	}

	return &Image{W: cw, H: ch, Stride: cw, Pix: pix, Color: color, DstX: dstX0, DstY: dstY0}
}

// applyClipMask multiplies pix's per-pixel coverage by the rasterized
// \clip/\iclip drawing mask, in place. Pixels outside the mask's own
// bounds are treated as zero coverage (outside the drawn shape) for a
// normal clip, or full coverage for an inverse clip.
func (p *eventPipeline) applyClipMask(pix []uint8, dstX0, dstY0, cw, ch int) {
	mask := p.clipMask
	for row := 0; row < ch; row++ {
		py := dstY0 + row
		my := py - p.clipMaskY
		for col := 0; col < cw; col++ {
			px := dstX0 + col
			mx := px - p.clipMaskX
			var coverage uint8
			if mx >= 0 && my >= 0 && mx < mask.W && my < mask.H {
				coverage = mask.Pix[my*mask.Stride+mx]
			}
			if p.clipMaskInverse {
				coverage = 255 - coverage
			}
			idx := row*cw + col
			pix[idx] = uint8(uint32(pix[idx]) * uint32(coverage) / 255)
		}
	}
}

// buildClusters turns each non-skipped glyph into a clusterPlacement,
// folding the event's device origin into the pen position so combine's
// per-glyph transform lands bitmaps directly in screen space.
func (p *eventPipeline) buildClusters() []clusterPlacement {
	var clusters []clusterPlacement
	for _, g := range p.glyphs {
		if g.skip || g.outline == nil {
			continue
		}
		rs := g.rs
		clusters = append(clusters, clusterPlacement{
			outline:      g.outline,
			penX:         p.deviceOriginX + g.penX,
			penY:         p.deviceOriginY + g.penY,
			shearFAX:     rs.fax,
			shearFAY:     rs.fay,
			frx:          rs.frx,
			fry:          rs.fry,
			frz:          rs.frz,
			scaleX:       rs.scaleX,
			scaleY:       rs.scaleY,
			borderX:      rs.borderX,
			borderY:      rs.borderY,
			blurScale:    p.scales.Blur,
			startsNewRun: g.startsRun,
			style:        rs,
		})
	}
	return clusters
}
