package font

import "errors"
import "golang.org/x/image/font/sfnt"

// Face wraps a resolved font together with the family/weight/slant it
// was matched for, the unit a [Provider] hands back to callers instead
// of a bare *sfnt.Font, per SPEC_FULL's font-resolution external
// collaborator boundary.
type Face struct {
	Font   *sfnt.Font
	Data   []byte // raw font bytes, needed by shapers that use their own parser
	Family string
	Bold   bool
	Italic bool
}

// ErrFontNotFound is returned by a [Provider] when no face matches the
// requested family/weight/slant and no fallback is configured.
var ErrFontNotFound = errors.New("font: no matching face found")

// Provider is the seam a caller implements (or uses our default
// [Library]-backed implementation of) to resolve a style's font family
// plus bold/italic flags to a concrete face. Font discovery and file
// loading themselves stay out of scope; Provider only resolves already
//-loaded fonts by name.
type Provider interface {
	Match(family string, bold, italic bool) (*Face, error)
}

// libraryProvider adapts a [Library] into a [Provider] by looking the
// requested family up exactly among the Library's font names (the full
// names the Library stores fonts under), with a single configurable
// fallback. Bold and italic are not used in the lookup; they are only
// recorded on the returned [Face].
type libraryProvider struct {
	lib      *Library
	fallback string
}

// NewProvider returns a [Provider] backed by lib. If fallback is
// non-empty, a family that can't be matched falls back to it instead of
// returning [ErrFontNotFound].
func NewProvider(lib *Library, fallback string) Provider {
	return &libraryProvider{lib: lib, fallback: fallback}
}

func (p *libraryProvider) Match(family string, bold, italic bool) (*Face, error) {
	name := family
	f := p.lib.GetFont(family)
	if f == nil && p.fallback != "" {
		name = p.fallback
		f = p.lib.GetFont(p.fallback)
	}
	if f == nil {
		return nil, ErrFontNotFound
	}
	return &Face{Font: f, Data: p.lib.GetFontBytes(name), Family: family, Bold: bold, Italic: italic}, nil
}
