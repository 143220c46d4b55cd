package outline

import "testing"

func TestConstructDrawingBox(t *testing.T) {
	hv, err := ConstructDrawing("m 0 0 l 100 0 l 100 100 l 0 100 c")
	if err != nil {
		t.Fatal(err)
	}
	if !hv.Valid {
		t.Fatal("expected a valid outline")
	}
	if len(hv.Fill.Points) == 0 {
		t.Fatal("expected fill points")
	}
	if hv.CBox.X1-hv.CBox.X0 <= 0 || hv.CBox.Y1-hv.CBox.Y0 <= 0 {
		t.Fatalf("expected a non-degenerate cbox, got %+v", hv.CBox)
	}
}

func TestConstructDrawingToleratesGarbage(t *testing.T) {
	hv, err := ConstructDrawing("m 0 0 l garbage l 10 10 zzz")
	if err != nil {
		t.Fatal(err)
	}
	if !hv.Valid {
		t.Fatal("malformed tokens should degrade gracefully, not fail construction")
	}
}

func TestConstructBoxUnitSquare(t *testing.T) {
	hv := ConstructBox()
	if !hv.Valid {
		t.Fatal("box construction never fails")
	}
	if len(hv.Fill.Points) != 4 {
		t.Fatalf("expected 4 points for the unit square, got %d", len(hv.Fill.Points))
	}
}

func TestConstructBorderOnEmptySourceFails(t *testing.T) {
	_, err := ConstructBorder(&HashValue{Valid: true}, 64, 64, 0)
	if err != ErrStrokeFailed {
		t.Fatalf("expected ErrStrokeFailed for an empty source outline, got %v", err)
	}
}

func TestConstructBorderStrokesUnitSquare(t *testing.T) {
	box := ConstructBox()
	bordered, err := ConstructBorder(box, 32, 32, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bordered.Valid {
		t.Fatal("expected a valid bordered outline")
	}
	if len(bordered.Border.Points) == 0 {
		t.Fatal("expected border points to be produced")
	}
}
