package raster

import "testing"

import "github.com/asslay/asslay/geom"
import "github.com/asslay/asslay/outline"

func TestBuildEmptyPolylineYieldsEmptyBitmap(t *testing.T) {
	bmp, err := Build(outline.Polyline{}, geom.Identity(), false)
	if err != nil {
		t.Fatal(err)
	}
	if !bmp.empty() {
		t.Fatal("expected an empty bitmap for an empty polyline")
	}
}

func TestBuildUnitSquareProducesPixels(t *testing.T) {
	box := outline.ConstructBox()
	m := geom.Scale(1, 1)
	bmp, err := Build(box.Fill, m, false)
	if err != nil {
		t.Fatal(err)
	}
	if bmp.empty() {
		t.Fatal("expected a non-empty bitmap for the unit square")
	}
}

func TestScalarEngineAddBitmapsSaturates(t *testing.T) {
	e := ScalarEngine{}
	dst := e.AllocBitmap(4, 4)
	for i := range dst.Pix {
		dst.Pix[i] = 200
	}
	src := e.AllocBitmap(4, 4)
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	e.AddBitmaps(dst, src, 0, 0)
	for _, v := range dst.Pix {
		if v != 255 {
			t.Fatalf("expected saturated addition to cap at 255, got %d", v)
		}
	}
}

func TestQuantizeBlurPassesMonotonic(t *testing.T) {
	a := QuantizeBlurPasses(1)
	b := QuantizeBlurPasses(10)
	if b < a {
		t.Fatalf("expected blur passes to grow with radius, got %d then %d", a, b)
	}
}
