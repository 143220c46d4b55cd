package asslay

import "testing"

func TestActiveEventsFiltersAndSortsByLayerThenReadOrder(t *testing.T) {
	track := &Track{Events: []Event{
		{Layer: 1, ReadOrder: 5, StartMs: 0, DurMs: 1000},
		{Layer: 0, ReadOrder: 2, StartMs: 0, DurMs: 1000},
		{Layer: 0, ReadOrder: 1, StartMs: 2000, DurMs: 500}, // inactive at nowMs=500
	}}

	got := activeEvents(track, 500)
	want := []int{1, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestContentTagDiffersOnTextChange(t *testing.T) {
	a := Event{Layer: 0, ReadOrder: 0, StyleIndex: 0, StartMs: 0, DurMs: 1000, Text: "hello"}
	b := a
	b.Text = "world"

	if contentTag(&a) == contentTag(&b) {
		t.Fatal("events with different text should have different content tags")
	}

	c := a
	if contentTag(&a) != contentTag(&c) {
		t.Fatal("identical events should produce identical content tags")
	}
}

func TestTranslateImagesShiftsWholeChain(t *testing.T) {
	img := &Image{DstX: 1, DstY: 2, Next: &Image{DstX: 3, DstY: 4}}
	translateImages(img, 10, 20)

	if img.DstX != 11 || img.DstY != 22 {
		t.Fatalf("head not shifted correctly: %+v", img)
	}
	if img.Next.DstX != 13 || img.Next.DstY != 24 {
		t.Fatalf("tail not shifted correctly: %+v", img.Next)
	}
}

func TestDetectChangeLevels(t *testing.T) {
	r := &Renderer{
		prevOrder:  []int{0},
		prevImages: map[int]*EventImages{0: {contentTag: "a", Top: 1, Left: 2}},
	}

	none := r.detectChange([]int{0}, map[int]*EventImages{0: {contentTag: "a", Top: 1, Left: 2}})
	if none != ChangeNone {
		t.Fatalf("expected ChangeNone, got %v", none)
	}

	position := r.detectChange([]int{0}, map[int]*EventImages{0: {contentTag: "a", Top: 5, Left: 2}})
	if position != ChangePosition {
		t.Fatalf("expected ChangePosition, got %v", position)
	}

	content := r.detectChange([]int{0}, map[int]*EventImages{0: {contentTag: "b", Top: 1, Left: 2}})
	if content != ChangeContent {
		t.Fatalf("expected ChangeContent on fingerprint mismatch, got %v", content)
	}

	differentSet := r.detectChange([]int{1}, map[int]*EventImages{1: {contentTag: "a", Top: 1, Left: 2}})
	if differentSet != ChangeContent {
		t.Fatalf("expected ChangeContent on a different active-event set, got %v", differentSet)
	}
}
