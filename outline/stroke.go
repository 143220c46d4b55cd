package outline

import "math"

import "seehuhn.de/go/geom/vec"

import "github.com/asslay/asslay/fract"

// strokePolyline offsets each line segment of src on both sides by
// (borderX, borderY) and emits the swept quad as a closed contour per
// segment, approximating a round-ish stroke without needing true
// polygon-clipping/union (good enough for border construction, since
// border_style rendering composites via alpha addition rather than
// depending on a non-self-overlapping stroke outline).
//
// vec.Vec2 is used for the per-segment offset math, the same vector
// type a geometry-aware stroker in this ecosystem would build on.
func strokePolyline(src Polyline, borderX, borderY float64) (Polyline, error) {
	if len(src.Points) < 2 {
		return Polyline{}, ErrStrokeFailed
	}

	var out Polyline
	emitQuad := func(a, b vec.Vec2, nx, ny float64) {
		p0 := vec.Vec2{X: a.X + nx, Y: a.Y + ny}
		p1 := vec.Vec2{X: b.X + nx, Y: b.Y + ny}
		p2 := vec.Vec2{X: b.X - nx, Y: b.Y - ny}
		p3 := vec.Vec2{X: a.X - nx, Y: a.Y - ny}
		out.Points = append(out.Points,
			fract.Point{X: fract.Unit(p0.X), Y: fract.Unit(p0.Y)},
			fract.Point{X: fract.Unit(p1.X), Y: fract.Unit(p1.Y)},
			fract.Point{X: fract.Unit(p2.X), Y: fract.Unit(p2.Y)},
			fract.Point{X: fract.Unit(p3.X), Y: fract.Unit(p3.Y)},
		)
		out.Tags = append(out.Tags, TagMoveTo, TagLineTo, TagLineTo, TagLineTo)
	}

	for i := 0; i < len(src.Points); i++ {
		if src.Tags[i] == TagMoveTo {
			continue
		}
		a := src.Points[i-1]
		b := src.Points[i]
		dx := float64(b.X - a.X)
		dy := float64(b.Y - a.Y)
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// perpendicular unit vector scaled by the (possibly anisotropic)
		// border widths
		nx := -dy / length * borderX
		ny := dx / length * borderY
		emitQuad(
			vec.Vec2{X: float64(a.X), Y: float64(a.Y)},
			vec.Vec2{X: float64(b.X), Y: float64(b.Y)},
			nx, ny,
		)
	}

	if len(out.Points) == 0 {
		return Polyline{}, ErrStrokeFailed
	}
	return out, nil
}
