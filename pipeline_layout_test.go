package asslay

import (
	"testing"

	"github.com/asslay/asslay/style"
)

func TestHorizontalAnchor(t *testing.T) {
	cases := map[int]style.Anchor{
		1: style.AnchorLeft, 4: style.AnchorLeft, 7: style.AnchorLeft,
		2: style.AnchorCenter, 5: style.AnchorCenter, 8: style.AnchorCenter,
		3: style.AnchorRight, 6: style.AnchorRight, 9: style.AnchorRight,
	}
	for alignment, want := range cases {
		if got := horizontalAnchor(alignment); got != want {
			t.Errorf("horizontalAnchor(%d) = %v, want %v", alignment, got, want)
		}
	}
}

func TestVerticalRow(t *testing.T) {
	if verticalRow(7) != 0 {
		t.Fatal("alignment 7 should be the top row")
	}
	if verticalRow(5) != 1 {
		t.Fatal("alignment 5 should be the middle row")
	}
	if verticalRow(1) != 2 {
		t.Fatal("alignment 1 should be the bottom row")
	}
}

func TestMeasureRangeFallsBackToFontSize(t *testing.T) {
	p := &eventPipeline{
		rs: &renderState{style: Style{FontSize: 20}},
		glyphs: []*glyphRecord{
			{rune: 'a', advance: 640, rs: &renderState{scaleX: 1}},
		},
	}
	li := p.measureRange(0, len(p.glyphs))
	if li.width != 10 {
		t.Fatalf("expected width 10, got %v", li.width)
	}
	if li.ascender != 16 || li.descender != -4 {
		t.Fatalf("expected fallback ascender/descender 16/-4, got %v/%v", li.ascender, li.descender)
	}
}

func TestTrimTrailingWhitespace(t *testing.T) {
	mk := func(r rune, lineBreak int) *glyphRecord {
		return &glyphRecord{rune: r, lineBreak: lineBreak, rs: &renderState{}}
	}
	p := &eventPipeline{glyphs: []*glyphRecord{
		mk('a', 0), mk('b', 0), mk(' ', 0), mk('\n', 2), mk('c', 0), mk('d', 0), mk(' ', 0),
	}}
	p.trimTrailingWhitespace()

	if !p.glyphs[2].trimmed || !p.glyphs[2].skip {
		t.Fatalf("expected the space before the forced break to be trimmed, got %+v", p.glyphs[2])
	}
	if !p.glyphs[6].trimmed || !p.glyphs[6].skip {
		t.Fatalf("expected the trailing space at end of text to be trimmed, got %+v", p.glyphs[6])
	}
	if p.glyphs[1].trimmed || p.glyphs[5].trimmed {
		t.Fatalf("non-whitespace glyphs adjacent to a break should not be trimmed")
	}
}

func TestAlignCentersShorterLines(t *testing.T) {
	mk := func(penX float64) *glyphRecord {
		return &glyphRecord{penX: penX, rs: &renderState{}}
	}
	p := &eventPipeline{
		rs:  &renderState{alignment: 2},
		cfg: &Config{LineSpacing: 0},
		glyphs: []*glyphRecord{
			mk(0), mk(5), // line 0, width 10
			mk(0), mk(3), // line 1, width 6
		},
		lines: []lineInfo{
			{start: 0, end: 2, width: 10, ascender: 16, descender: -4},
			{start: 2, end: 4, width: 6, ascender: 16, descender: -4},
		},
	}
	p.align()

	if p.glyphs[0].penX != 0 || p.glyphs[0].penY != 16 {
		t.Fatalf("line 0 should be unshifted, got penX=%v penY=%v", p.glyphs[0].penX, p.glyphs[0].penY)
	}
	if p.glyphs[2].penX != 2 || p.glyphs[3].penX != 5 {
		t.Fatalf("line 1 should be centered under the wider line, got penX=%v/%v", p.glyphs[2].penX, p.glyphs[3].penX)
	}
	if p.glyphs[2].penY != 36 {
		t.Fatalf("line 1 should stack below line 0, got penY=%v", p.glyphs[2].penY)
	}
}
