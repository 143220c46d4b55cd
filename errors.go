package asslay

import "errors"

// Init-time errors: returned from NewRenderer, never panicked, since a
// caller-supplied Config failing validation is a runtime condition, not
// a programmer error in this package's own code.
var (
	ErrInvalidFrameSize   = errors.New("asslay: frame width/height must be positive")
	ErrInvalidStorageSize = errors.New("asslay: storage width/height must be positive")
	ErrNoFontProvider     = errors.New("asslay: Config.Fonts must be set")
)

// Event-level errors: logged at WARN and treated as "no images for this
// event" by the frame assembler; never returned from RenderFrame.
var (
	errStyleIndexOutOfRange = errors.New("asslay: event style index out of range")
	errEmptyText            = errors.New("asslay: event text is empty")
	errNoFontMatch          = errors.New("asslay: no font matched the event's style")
	errShapingFailed        = errors.New("asslay: shaping failed")
)

// ErrClosed is returned by RenderFrame and GlyphInfo once Close has been
// called on the Renderer.
var ErrClosed = errors.New("asslay: renderer closed")
