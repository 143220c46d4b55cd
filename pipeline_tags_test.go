package asslay

import "testing"

func TestSplitTagNameArg(t *testing.T) {
	cases := []struct {
		tag, name, arg string
	}{
		{"fs20", "fs", "20"},
		{"1c&HFF0000&", "1c", "&HFF0000&"},
		{"pos(100,200)", "pos", "100,200"},
		{"b1", "b", "1"},
		{"r", "r", ""},
	}
	for _, c := range cases {
		name, arg := splitTagNameArg(c.tag)
		if name != c.name || arg != c.arg {
			t.Errorf("splitTagNameArg(%q) = (%q, %q), want (%q, %q)", c.tag, name, arg, c.name, c.arg)
		}
	}
}

func TestParseTagColorIsBGR(t *testing.T) {
	c, ok := parseTagColor("&HFF0000&")
	if !ok {
		t.Fatal("expected parse success")
	}
	if c.B() != 0xFF || c.G() != 0x00 || c.R() != 0x00 || c.A() != 0xFF {
		t.Fatalf("expected pure blue, got R=%x G=%x B=%x A=%x", c.R(), c.G(), c.B(), c.A())
	}
}

func TestParseTagAlphaInvertsByte(t *testing.T) {
	a, ok := parseTagAlpha("&H80&")
	if !ok {
		t.Fatal("expected parse success")
	}
	if a != 255-128 {
		t.Fatalf("expected 127, got %d", a)
	}
}

func TestLegacyAlignToAn(t *testing.T) {
	if legacyAlignToAn(1) != 1 {
		t.Fatal("bottom-left legacy value should map unchanged")
	}
	if legacyAlignToAn(5) != 6 {
		t.Fatal("middle-row legacy value should shift by one")
	}
	if legacyAlignToAn(99) != 2 {
		t.Fatal("unknown legacy value should default to bottom-center")
	}
}

func TestSplitTags(t *testing.T) {
	got := splitTags(`\b1\i1\fs20`)
	want := []string{"b1", "i1", "fs20"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParseTagsAndCharsForcedBreak(t *testing.T) {
	p := &eventPipeline{evt: &Event{Text: `ab\Ncd`}, rs: &renderState{}}
	p.parseTagsAndChars()

	if len(p.glyphs) != 5 {
		t.Fatalf("expected 5 glyphs (a,b,\\n,c,d), got %d", len(p.glyphs))
	}
	if p.glyphs[2].rune != '\n' || p.glyphs[2].lineBreak != 2 {
		t.Fatalf("expected a forced-break glyph at index 2, got %+v", p.glyphs[2])
	}
	if p.glyphs[0].rune != 'a' || p.glyphs[4].rune != 'd' {
		t.Fatalf("unexpected surrounding glyphs: %+v", p.glyphs)
	}
}

func TestParseTagsAndCharsDrawingRun(t *testing.T) {
	p := &eventPipeline{evt: &Event{Text: `{\p1}m 0 0 l 100 0{\p0}abc`}, rs: &renderState{}}
	p.parseTagsAndChars()

	if len(p.glyphs) != 4 {
		t.Fatalf("expected 1 drawing glyph + 3 chars, got %d glyphs: %+v", len(p.glyphs), p.glyphs)
	}
	if !p.glyphs[0].isDrawing || p.glyphs[0].drawingCmd != "m 0 0 l 100 0" {
		t.Fatalf("expected accumulated drawing command, got %+v", p.glyphs[0])
	}
	if p.glyphs[1].rune != 'a' || p.glyphs[2].rune != 'b' || p.glyphs[3].rune != 'c' {
		t.Fatalf("expected plain chars after drawing run, got %+v", p.glyphs[1:])
	}
}
