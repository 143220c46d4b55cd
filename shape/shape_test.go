package shape

import "testing"

func TestSimpleShapeEmptyRunIsNoop(t *testing.T) {
	var s Simple
	glyphs, err := s.Shape(Run{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(glyphs) != 0 {
		t.Fatalf("expected no glyphs for empty run, got %d", len(glyphs))
	}
}

func TestSimpleShapeNilFaceIsNoop(t *testing.T) {
	var s Simple
	glyphs, err := s.Shape(Run{Text: []rune("abc")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(glyphs) != 0 {
		t.Fatalf("expected no glyphs without a face, got %d", len(glyphs))
	}
}

func TestComplexFallsBackWithoutFaceData(t *testing.T) {
	c := NewComplex()
	glyphs, err := c.Shape(Run{Text: []rune("abc")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// No Face and no FaceData: both the complex path and its Simple
	// fallback produce no glyphs, but neither should error out.
	if len(glyphs) != 0 {
		t.Fatalf("expected no glyphs, got %d", len(glyphs))
	}
}
