package shape

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/asslay/asslay/fract"
)

// Complex is the "complex" member of the shaper ∈ {simple, complex}
// configuration: it runs text through HarfBuzz-equivalent shaping
// (cursive joining, mark positioning, ligatures, script-specific
// contextual forms) via go-text/typesetting, the same engine family
// libass itself delegates to through HarfBuzz.
//
// Complex parses each Run's face independently through go-text's own
// font parser (distinct from the golang.org/x/image/font/sfnt parser
// used for outline construction), since the two libraries don't share a
// font representation. Run.FaceData must be populated for this to work;
// a Run with no FaceData falls through to an internal [Simple] shaper.
type Complex struct {
	shapers  sync.Pool
	mu       sync.RWMutex
	fontCache map[*byte]font.Face // keyed by the FaceData backing array's first byte
	fallback Simple
}

func NewComplex() *Complex {
	c := &Complex{fontCache: make(map[*byte]font.Face)}
	c.shapers.New = func() any { return &shaping.HarfbuzzShaper{} }
	return c
}

func (c *Complex) Shape(run Run) ([]Glyph, error) {
	if len(run.FaceData) == 0 {
		return c.fallback.Shape(run)
	}
	goTextFace, err := c.resolveFont(run.FaceData)
	if err != nil || goTextFace == nil {
		return c.fallback.Shape(run)
	}

	dir := di.DirectionLTR
	if run.RTL {
		dir = di.DirectionRTL
	}

	script := language.Latin
	if run.Script != "" {
		if parsed, err := language.ParseScript(run.Script); err == nil {
			script = parsed
		}
	} else if len(run.Text) > 0 {
		script = language.LookupScript(run.Text[0])
	}
	lang := language.NewLanguage("en")
	if run.Language != "" {
		lang = language.NewLanguage(run.Language)
	}

	input := shaping.Input{
		Text:      run.Text,
		RunStart:  0,
		RunEnd:    len(run.Text),
		Direction: dir,
		Face:      goTextFace,
		Size:      fixed.Int26_6(run.Size),
		Script:    script,
		Language:  lang,
	}

	shaper := c.shapers.Get().(*shaping.HarfbuzzShaper)
	output := shaper.Shape(input)
	c.shapers.Put(shaper)

	glyphs := make([]Glyph, 0, len(output.Glyphs))
	for _, g := range output.Glyphs {
		cluster := g.ClusterIndex
		glyph := Glyph{
			GlyphIndex: sfnt.GlyphIndex(g.GlyphID),
			XOffset:    fract.Unit(g.XOffset),
			YOffset:    fract.Unit(g.YOffset),
			ClusterLo:  cluster,
			ClusterHi:  cluster + 1,
		}
		if dir.IsVertical() {
			glyph.YAdvance = fract.Unit(g.YAdvance)
		} else {
			glyph.XAdvance = fract.Unit(g.XAdvance)
		}
		glyphs = append(glyphs, glyph)
	}
	return glyphs, nil
}

// resolveFont parses run.FaceData through go-text's own font parser and
// caches the resulting font.Face, keyed by the slice's backing pointer so repeated Runs
// against the same resolved face don't reparse on every call.
func (c *Complex) resolveFont(data []byte) (font.Face, error) {
	key := &data[0]
	c.mu.RLock()
	if f, ok := c.fontCache[key]; ok {
		c.mu.RUnlock()
		return f, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.fontCache[key]; ok {
		return f, nil
	}
	parsedFace, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c.fontCache[key] = parsedFace
	return parsedFace, nil
}
