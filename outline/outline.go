// Package outline builds the four outline variants used by the pipeline
// (glyph, drawing, border stroke, box) and represents them as polylines
// suitable for transformation and rasterization downstream.
package outline

import "github.com/asslay/asslay/fract"
import "github.com/asslay/asslay/geom"

// SegmentTag distinguishes an on-curve line point from the control
// points of a quadratic/cubic curve, mirroring sfnt.Segments' op codes
// but flattened into a single polyline-with-tags representation that's
// convenient to transform and re-rasterize after quantization.
type SegmentTag uint8

const (
	TagMoveTo SegmentTag = iota
	TagLineTo
	TagQuadTo
	TagQuadControl
	TagCubeTo
	TagCubeControl1
	TagCubeControl2
)

// Polyline is one contour set: a flat run of points tagged with the
// segment operation they belong to, in x/y 26.6 fixed-point space.
type Polyline struct {
	Points []fract.Point
	Tags   []SegmentTag
}

func (p Polyline) empty() bool { return len(p.Points) == 0 }

// bounds returns the polyline's own bounding box; callers union this
// across fill+stroke to get an outline's cbox.
func (p Polyline) bounds() (geom.Rect, bool) {
	if p.empty() {
		return geom.Rect{}, false
	}
	r := geom.Rect{
		X0: float64(p.Points[0].X), Y0: float64(p.Points[0].Y),
		X1: float64(p.Points[0].X), Y1: float64(p.Points[0].Y),
	}
	for _, pt := range p.Points[1:] {
		x, y := float64(pt.X), float64(pt.Y)
		if x < r.X0 {
			r.X0 = x
		}
		if x > r.X1 {
			r.X1 = x
		}
		if y < r.Y0 {
			r.Y0 = y
		}
		if y > r.Y1 {
			r.Y1 = y
		}
	}
	return r, true
}

// Kind is the tag of the OutlineHashKey sum type.
type Kind uint8

const (
	KindGlyph Kind = iota
	KindDrawing
	KindBorder
	KindBox
)

// Key is the OutlineHashKey sum type from §4.3/§9: a variant tag plus
// only the fields relevant to that variant. Equality (and therefore use
// as a map key) only considers fields belonging to the active Kind,
// which in Go terms just means the irrelevant fields are left at their
// zero value by construction.
type Key struct {
	Kind Kind

	// KindGlyph
	FontHandle  uintptr
	GlyphIndex  uint32
	SizeUnit    fract.Unit
	HintingMode uint8

	// KindDrawing
	DrawingCommands string
	DrawingScale    int32

	// KindBorder
	Source     *HashValue
	BorderX    fract.Unit
	BorderY    fract.Unit
	ScaleOrd   int32

	// KindBox has no extra fields: box outlines are always the unit
	// square, so Kind alone identifies the (single) cached entry.
}

// HashValue is the OutlineHashValue: two polylines (fill, border) with
// advance/ascender/descender metrics and the union cbox, or Valid=false
// if construction failed (stroker failure, overflow, ...).
type HashValue struct {
	Fill      Polyline
	Border    Polyline
	Advance   fract.Unit
	Ascender  fract.Unit
	Descender fract.Unit
	CBox      geom.Rect
	Valid     bool

	refCount int
}

// ByteSize satisfies cache.Sized; outline caches are bounded by count
// per §4.1, so every entry reports a uniform weight of 1.
func (h *HashValue) ByteSize() uint32 { return 1 }

// IncRef / DecRef implement cache.Cache's refCounted hook: the cache
// calls IncRef when it stores a HashValue and DecRef when it evicts it.
// Other holders (GlyphInfo, bitmap cache keys, CombinedBitmapInfo) do
// not change the count.
func (h *HashValue) IncRef() { h.refCount++ }
func (h *HashValue) DecRef() { h.refCount-- }
func (h *HashValue) RefCount() int { return h.refCount }

func unionRect(a, b geom.Rect, bHasValue bool) geom.Rect {
	if !bHasValue {
		return a
	}
	return geom.Rect{
		X0: minF(a.X0, b.X0), Y0: minF(a.Y0, b.Y0),
		X1: maxF(a.X1, b.X1), Y1: maxF(a.Y1, b.Y1),
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// computeCBox unions the fill and border polyline bounds, per §4.3
// ("The cbox of the value is the union over both polylines").
func computeCBox(fill, border Polyline) geom.Rect {
	fr, fok := fill.bounds()
	br, bok := border.bounds()
	switch {
	case fok && bok:
		return unionRect(fr, br, true)
	case fok:
		return fr
	case bok:
		return br
	default:
		return geom.Rect{}
	}
}
