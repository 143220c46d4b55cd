package collide

import "testing"

func TestFixCollisionsDisjointAfterShift(t *testing.T) {
	a := &Entry{Rect: Rect{Top: 100, Left: 0, Width: 200, Height: 50}, DetectCollisions: true, AlreadyFixed: true}
	b := &Entry{Rect: Rect{Top: 100, Left: 0, Width: 200, Height: 50}, DetectCollisions: true, Direction: ShiftUp}

	entries := []*Entry{a, b}
	FixCollisions(entries)

	if !disjoint(a.Rect, b.Rect) {
		t.Fatalf("expected disjoint rectangles after fix, got a=%+v b=%+v", a.Rect, b.Rect)
	}
}

func TestFixCollisionsIgnoresNonDetecting(t *testing.T) {
	a := &Entry{Rect: Rect{Top: 0, Left: 0, Width: 100, Height: 50}, DetectCollisions: false}
	b := &Entry{Rect: Rect{Top: 0, Left: 0, Width: 100, Height: 50}, DetectCollisions: false}
	entries := []*Entry{a, b}
	FixCollisions(entries)
	if b.ShiftY != 0 {
		t.Fatal("non-colliding-detecting entries should be left untouched")
	}
}

func TestFixCollisionsXDisjointNeedsNoShift(t *testing.T) {
	a := &Entry{Rect: Rect{Top: 0, Left: 0, Width: 100, Height: 50}, DetectCollisions: true, AlreadyFixed: true}
	b := &Entry{Rect: Rect{Top: 0, Left: 200, Width: 100, Height: 50}, DetectCollisions: true, Direction: ShiftUp}
	entries := []*Entry{a, b}
	FixCollisions(entries)
	if b.ShiftY != 0 {
		t.Fatalf("x-disjoint rectangles shouldn't need a vertical shift, got %d", b.ShiftY)
	}
}
