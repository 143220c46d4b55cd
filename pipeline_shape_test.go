package asslay

import "testing"

func TestSameRunStyle(t *testing.T) {
	a := &renderState{style: Style{FontName: "Arial", FontSize: 20}, scaleX: 1, scaleY: 1}
	b := &renderState{style: Style{FontName: "Arial", FontSize: 20}, scaleX: 1, scaleY: 1}
	if !sameRunStyle(a, b) {
		t.Fatal("identical render states should be considered the same run")
	}

	c := *b
	c.style.Bold = true
	if sameRunStyle(a, &c) {
		t.Fatal("a bold change should break the run")
	}

	d := *b
	d.frz = 15
	if sameRunStyle(a, &d) {
		t.Fatal("a rotation change should break the run")
	}
}
