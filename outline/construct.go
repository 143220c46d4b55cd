package outline

import "errors"

import "golang.org/x/image/font/sfnt"
import "golang.org/x/image/font"
import "golang.org/x/image/math/fixed"

import "github.com/asslay/asslay/fract"

// ErrStrokeFailed is returned by ConstructBorder when the stroker can't
// produce a usable outline; callers must mark the cache entry invalid
// and treat the cluster as having no border, per §4.1's failure mode.
var ErrStrokeFailed = errors.New("outline: stroke failed")

// ConstructGlyph loads a glyph outline from a font face at the given
// size, converting it to our polyline representation and reading the
// advance and face ascender/descender, per §4.3's Glyph variant.
func ConstructGlyph(face *sfnt.Font, buf *sfnt.Buffer, glyphIndex sfnt.GlyphIndex, size fract.Unit) (*HashValue, error) {
	fixedSize := fixed.Int26_6(size)
	segments, err := face.LoadGlyph(buf, glyphIndex, fixedSize, nil)
	if err != nil {
		return &HashValue{Valid: false}, err
	}
	advance, err := face.GlyphAdvance(buf, glyphIndex, fixedSize, font.HintingNone)
	if err != nil {
		return &HashValue{Valid: false}, err
	}
	metrics, err := face.Metrics(buf, fixedSize, font.HintingNone)
	if err != nil {
		return &HashValue{Valid: false}, err
	}

	fill := segmentsToPolyline(segments)
	hv := &HashValue{
		Fill:      fill,
		Advance:   fract.Unit(advance),
		Ascender:  fract.Unit(metrics.Ascent),
		Descender: fract.Unit(metrics.Descent),
		Valid:     true,
	}
	hv.CBox = computeCBox(hv.Fill, hv.Border)
	return hv, nil
}

func segmentsToPolyline(segments sfnt.Segments) Polyline {
	var poly Polyline
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			poly.Points = append(poly.Points, toPoint(seg.Args[0]))
			poly.Tags = append(poly.Tags, TagMoveTo)
		case sfnt.SegmentOpLineTo:
			poly.Points = append(poly.Points, toPoint(seg.Args[0]))
			poly.Tags = append(poly.Tags, TagLineTo)
		case sfnt.SegmentOpQuadTo:
			poly.Points = append(poly.Points, toPoint(seg.Args[0]), toPoint(seg.Args[1]))
			poly.Tags = append(poly.Tags, TagQuadControl, TagQuadTo)
		case sfnt.SegmentOpCubeTo:
			poly.Points = append(poly.Points, toPoint(seg.Args[0]), toPoint(seg.Args[1]), toPoint(seg.Args[2]))
			poly.Tags = append(poly.Tags, TagCubeControl1, TagCubeControl2, TagCubeTo)
		}
	}
	return poly
}

func toPoint(p fixed.Point26_6) fract.Point {
	return fract.Point{X: fract.Unit(p.X), Y: fract.Unit(p.Y)}
}

// ConstructBox returns the unit square (0,0)-(64,64) four-segment
// contour used for BorderStyle=3 opaque backgrounds, per §4.3's Box
// variant. It never fails.
func ConstructBox() *HashValue {
	poly := Polyline{
		Points: []fract.Point{
			{X: 0, Y: 0}, {X: 64, Y: 0}, {X: 64, Y: 64}, {X: 0, Y: 64},
		},
		Tags: []SegmentTag{TagMoveTo, TagLineTo, TagLineTo, TagLineTo},
	}
	hv := &HashValue{Fill: poly, Valid: true}
	hv.CBox = computeCBox(hv.Fill, hv.Border)
	return hv
}

// ConstructBorder scales the source fill polyline by 2^scaleOrd on each
// axis and strokes it with separate x/y border widths at fixed stroker
// precision, per §4.3's Border variant. On stroking failure the
// returned value has Valid=false and ErrStrokeFailed, which callers
// must treat as "no border, render gracefully degraded".
func ConstructBorder(source *HashValue, borderX, borderY fract.Unit, scaleOrd int32) (*HashValue, error) {
	if source == nil || !source.Valid || source.Fill.empty() {
		return &HashValue{Valid: false}, ErrStrokeFailed
	}

	scale := pow2(scaleOrd)
	scaled := scalePolyline(source.Fill, scale, scale)

	stroked, err := strokePolyline(scaled, float64(borderX)/64*float64(scale), float64(borderY)/64*float64(scale))
	if err != nil {
		return &HashValue{Valid: false}, ErrStrokeFailed
	}

	hv := &HashValue{
		Fill:      source.Fill,
		Border:    stroked,
		Advance:   source.Advance,
		Ascender:  source.Ascender,
		Descender: source.Descender,
		Valid:     true,
	}
	hv.CBox = computeCBox(hv.Fill, hv.Border)
	return hv, nil
}

func pow2(ord int32) float64 {
	result := 1.0
	if ord >= 0 {
		for i := int32(0); i < ord; i++ {
			result *= 2
		}
	} else {
		for i := int32(0); i < -ord; i++ {
			result /= 2
		}
	}
	return result
}

func scalePolyline(p Polyline, sx, sy float64) Polyline {
	out := Polyline{Points: make([]fract.Point, len(p.Points)), Tags: p.Tags}
	for i, pt := range p.Points {
		out.Points[i] = fract.Point{
			X: fract.Unit(float64(pt.X) * sx),
			Y: fract.Unit(float64(pt.Y) * sy),
		}
	}
	return out
}
