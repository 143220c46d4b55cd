package raster

import "image"
import "image/draw"
import "math"

import "golang.org/x/image/vector"

import "github.com/asslay/asslay/geom"
import "github.com/asslay/asslay/outline"

// Build rasterizes a polyline through the given matrix to a single
// 8-bit alpha bitmap, per §4.4. There is a single path: every point goes
// through Matrix3.TransformPoint's perspective divide, and the
// perspective argument does not change the result. Points are traced
// with the golang.org/x/image/vector.Rasterizer backend, normalized into
// the positive quadrant the same way a mask rasterizer normalizes a
// glyph outline before tracing it.
func Build(poly outline.Polyline, m geom.Matrix3, perspective bool) (*Bitmap, error) {
	if len(poly.Points) == 0 {
		return NewEmpty(), nil
	}

	pts := make([]point2, len(poly.Points))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range poly.Points {
		x, y := applyMatrix(m, float64(p.X)/64, float64(p.Y)/64, perspective)
		pts[i] = point2{x, y}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	if !(maxX > minX) || !(maxY > minY) {
		return NewEmpty(), nil
	}

	left := int(math.Floor(minX))
	top := int(math.Floor(minY))
	width := int(math.Ceil(maxX)) - left + 1
	height := int(math.Ceil(maxY)) - top + 1
	if width <= 0 || height <= 0 {
		return NewEmpty(), nil
	}

	rz := vector.NewRasterizer(width, height)
	first := true
	for i, p := range pts {
		x := float32(p.x - float64(left))
		y := float32(p.y - float64(top))
		switch poly.Tags[i] {
		case outline.TagMoveTo:
			rz.MoveTo(x, y)
			first = false
		case outline.TagLineTo:
			if first {
				rz.MoveTo(x, y)
				first = false
			} else {
				rz.LineTo(x, y)
			}
		case outline.TagQuadControl:
			// handled together with the following TagQuadTo point
		case outline.TagQuadTo:
			ctrl := pts[i-1]
			rz.QuadTo(
				float32(ctrl.x-float64(left)), float32(ctrl.y-float64(top)),
				x, y,
			)
		case outline.TagCubeControl1, outline.TagCubeControl2:
			// handled together with the following TagCubeTo point
		case outline.TagCubeTo:
			c1 := pts[i-2]
			c2 := pts[i-1]
			rz.CubeTo(
				float32(c1.x-float64(left)), float32(c1.y-float64(top)),
				float32(c2.x-float64(left)), float32(c2.y-float64(top)),
				x, y,
			)
		}
	}

	img := image.NewAlpha(image.Rect(0, 0, width, height))
	rz.Draw(img, img.Bounds(), image.Opaque, image.Point{})
	return alphaToBitmap(img, left, top), nil
}

func alphaToBitmap(img *image.Alpha, left, top int) *Bitmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return NewEmpty()
	}
	stride := simdAlign(w)
	pix := make([]uint8, stride*h)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w]
		copy(pix[y*stride:y*stride+w], src)
	}
	return &Bitmap{Pix: pix, Stride: stride, W: w, H: h, Left: left, Top: top}
}

type point2 struct{ x, y float64 }

// applyMatrix transforms a point through m. The perspective divide
// happens unconditionally inside Matrix3.TransformPoint; the perspective
// flag just documents which callers expect matrixZ to be non-trivial,
// mirroring BitmapHashKey's 2D-vs-3D path distinction from §4.4.
func applyMatrix(m geom.Matrix3, x, y float64, perspective bool) (float64, float64) {
	rx, ry, _ := m.TransformPoint(x, y)
	return rx, ry
}

// ensure draw package stays imported even as alphaToBitmap evolves to
// use draw.Draw-style composition in the future blur passes.
var _ = draw.Src
