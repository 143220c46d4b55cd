// Package shape is the text-shaping external-collaborator seam: it turns
// a run of decoded runes plus a resolved font into a sequence of glyph
// clusters with advances, per SPEC_FULL's shaping step (§4.5 step 5).
//
// A Shaper knows nothing about styling, tags or line layout; it is
// handed one style-homogeneous, direction-homogeneous run at a time and
// returns the glyphs needed to draw it.
package shape

import (
	"golang.org/x/image/font/sfnt"

	"github.com/asslay/asslay/fract"
)

// Glyph is one shaped glyph: its index into the source face, the pen
// advance it consumes, and the rune-index range of the cluster it
// represents (for cursor/karaoke mapping back to source text).
type Glyph struct {
	GlyphIndex sfnt.GlyphIndex
	XAdvance   fract.Unit
	YAdvance   fract.Unit
	XOffset    fract.Unit
	YOffset    fract.Unit
	ClusterLo  int // rune index of the first rune in this glyph's cluster
	ClusterHi  int // one past the last rune index in the cluster
}

// Run is the input to Shape: a contiguous, direction- and
// style-homogeneous slice of runes to be shaped against one face at one
// size.
type Run struct {
	Text      []rune
	Face      *sfnt.Font
	FaceData  []byte // raw font bytes; required by shapers with their own parser
	Size      fract.Unit
	RTL       bool
	Script    string // ISO 15924, e.g. "Latn", "Arab"; empty lets the shaper infer it
	Language  string // BCP 47, e.g. "en"; empty lets the shaper infer it
}

// Shaper turns one Run into a sequence of Glyphs in visual left-to-right
// advance order (callers reverse RTL runs themselves when composing the
// reordered line, per §4.5 step 9).
type Shaper interface {
	Shape(run Run) ([]Glyph, error)
}
