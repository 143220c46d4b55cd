package shape

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/asslay/asslay/fract"
)

// Simple is a minimal Shaper: one rune maps to exactly one glyph via the
// face's own cmap, with advances read straight off the font and no
// cursive joining, ligatures, or mark positioning. It is the "simple"
// member of the shaper ∈ {simple, complex} configuration: scripts that
// don't need contextual shaping (most Latin/Cyrillic/Greek text) render
// identically through either shaper, so Simple exists as a
// dependency-free fallback when a [Shaper] implementation can't resolve
// a face (e.g. missing HarfBuzz data tables) or when the caller
// explicitly opts out of complex shaping for speed.
type Simple struct {
	buf sfnt.Buffer
}

func (s *Simple) Shape(run Run) ([]Glyph, error) {
	if run.Face == nil || len(run.Text) == 0 {
		return nil, nil
	}
	glyphs := make([]Glyph, 0, len(run.Text))
	fixedSize := fixed.Int26_6(run.Size)
	for i, r := range run.Text {
		idx, err := run.Face.GlyphIndex(&s.buf, r)
		if err != nil {
			continue
		}
		advance, err := run.Face.GlyphAdvance(&s.buf, idx, fixedSize, font.HintingNone)
		if err != nil {
			continue
		}
		glyphs = append(glyphs, Glyph{
			GlyphIndex: idx,
			XAdvance:   fract.Unit(advance),
			ClusterLo:  i,
			ClusterHi:  i + 1,
		})
	}
	if run.RTL {
		for i, j := 0, len(glyphs)-1; i < j; i, j = i+1, j-1 {
			glyphs[i], glyphs[j] = glyphs[j], glyphs[i]
		}
	}
	return glyphs, nil
}
