package asslay

import (
	"golang.org/x/image/font/sfnt"

	"github.com/asslay/asslay/fract"
	"github.com/asslay/asslay/outline"
	"github.com/asslay/asslay/style"
)

// Color is RGBA packed big-endian (R in the high byte, A in the low
// byte), matching the output image's bit-exact color representation.
type Color uint32

func (c Color) R() uint8 { return uint8(c >> 24) }
func (c Color) G() uint8 { return uint8(c >> 16) }
func (c Color) B() uint8 { return uint8(c >> 8) }
func (c Color) A() uint8 { return uint8(c) }

// Style is a named bundle of the formatting a run of text renders with,
// unless overridden inline or by a selective override.
type Style struct {
	Name string

	FontName string
	FontSize float64
	ScaleX   float64
	ScaleY   float64
	Spacing  float64
	Angle    float64 // frz, degrees

	Primary   Color
	Secondary Color
	Outline   Color
	Back      Color

	Bold      bool
	Italic    bool
	Underline bool
	StrikeOut bool

	BorderStyle int // 0 outline, 1 outline, 3 opaque box
	OutlineWidth float64
	ShadowX      float64
	ShadowY      float64

	Alignment int // 1-11, numpad-style per ASS \an
	Justify   int // 0 auto, 1 left, 2 center, 3 right

	MarginL, MarginR, MarginV float64

	ScaledBorderAndShadow bool
}

// KaraokeMode selects how a karaoke-tagged run's fill color sweeps over
// time.
type KaraokeMode uint8

const (
	KaraokeNone KaraokeMode = iota
	KaraokeK                // sweep fill color
	KaraokeKF                // sweep with leftmost-x tracking
	KaraokeKO                // outline-only sweep
	KaraokeKT                // absolute time sweep
)

// Transition is one \t(...) animated parameter interpolation window.
type Transition struct {
	StartMs, EndMs int64
	Accel          float64 // acceleration exponent, 1.0 = linear

	// Target values; fields left nil are not interpolated. A Transition only ever touches the
	// numeric parameters RenderState models: border, shadow, blur,
	// colors, rotation, shear and alpha.
	BorderX, BorderY   *float64
	ShadowX, ShadowY   *float64
	Blur               *float64
	FRX, FRY, FRZ      *float64
	FAX, FAY           *float64
	Primary, Secondary *Color
	Outline, Back      *Color
	Alpha              *uint8

	// From* mirrors the touched field above with the value RenderState
	// held just before the \t was recorded, so applyTransitions has an
	// interpolation start point instead of blending from zero.
	FromBorderX, FromBorderY     *float64
	FromShadowX, FromShadowY     *float64
	FromBlur                     *float64
	FromFRX, FromFRY, FromFRZ    *float64
	FromFAX, FromFAY             *float64
	FromPrimary, FromSecondary   *Color
	FromOutline, FromBack        *Color
}

// Fade is a \fad/\fade alpha-interpolation-over-time descriptor.
type Fade struct {
	Set               bool
	FadeInMs          int64
	FadeOutMs         int64
	// A1..A3 and T1..T4 hold \fade's three alphas and four times; \fad
	// sets only FadeInMs/FadeOutMs.
	A1, A2, A3 uint8
	T1, T2, T3, T4 int64
}

// Event is one script line: timing, layer/order, the style index it
// starts from, margins and tag-laden text. Immutable input to the
// pipeline — the pipeline never mutates the Event it was handed.
type Event struct {
	StyleIndex int
	Layer      int
	ReadOrder  int

	StartMs int64
	DurMs   int64

	MarginL, MarginR, MarginV int

	Text string

	// DetectCollisions and ShiftDown feed §4.8's fix_collisions;
	// a caller (or a Track builder) sets these per event, since
	// "toptitles move down, subtitles move up" is a script-level
	// classification this package doesn't infer from Style alone.
	DetectCollisions bool
	ShiftDown        bool

	// Scroll requests the legacy \Effect Banner/Scroll placement
	// (horizontal banner crawl or a vertical scroll band). Like
	// DetectCollisions/ShiftDown, classifying the script's raw Effect
	// field string into this struct is a caller/Track-builder
	// responsibility; the pipeline only consumes the parsed result.
	Scroll ScrollEffect
}

// ScrollDirection selects one of the four legacy \Effect placements
// (ass_render.c's EVENT_HSCROLL/EVENT_VSCROLL, SCROLL_RL/LR/TB/BT).
type ScrollDirection uint8

const (
	ScrollNone ScrollDirection = iota
	ScrollLeft              // Banner, right-to-left crawl (legacy lefttoright=0)
	ScrollRight             // Banner, left-to-right crawl (legacy lefttoright=1)
	ScrollUp                // "Scroll up": band sweeps from Y0 toward Y1
	ScrollDown              // "Scroll down": band sweeps from Y1 toward Y0
)

// ScrollEffect is the parsed form of an ASS Effect field's Banner/
// Scroll parameters: a crawl or scroll-band placement that advances one
// pixel every DelayMs of elapsed event time (the legacy Effect field's
// own timing model, independent of \t/\move).
type ScrollEffect struct {
	Direction ScrollDirection
	Y0, Y1    float64 // scroll band bounds, script units; Scroll only
	DelayMs   int64
	FadeWidth float64 // edge fade width, script units; not read by the pipeline
}

func (e *Event) activeAt(nowMs int64) bool {
	return nowMs >= e.StartMs && nowMs < e.StartMs+e.DurMs
}

// Track is the parsed-script aggregate handed to RenderFrame: the
// script's assumed canvas (PlayResX/Y), its styles and its events. This
// is the external-collaborator surface standing in for "script file
// parsing" — building one from .ass text is out of scope.
type Track struct {
	PlayResX, PlayResY int

	Styles []Style
	Events []Event

	// generation counts Bump calls. The renderer does not read it:
	// RenderFrame detects edited events by comparing each event's
	// contentTag with the previous frame's.
	generation uint64
}

// Bump increments the Track's generation counter. RenderFrame does not
// consult the counter, so calling Bump has no effect on rendering.
func (t *Track) Bump() { t.generation++ }

// ChangeLevel reports how much a rendered frame differs from the
// previous call's output, per Property 6.
type ChangeLevel int

const (
	ChangeNone     ChangeLevel = 0
	ChangePosition ChangeLevel = 1
	ChangeContent  ChangeLevel = 2
)

// Image is one positioned alpha bitmap in an output chain: a raster,
// its packed color, and its destination in output canvas coordinates.
// Reference-counted: see FrameRef/FrameUnref.
type Image struct {
	W, H, Stride int
	Pix          []uint8
	Color        Color
	DstX, DstY   int

	Next *Image

	refs int32
}

// EventImages is one event's rendered output: its image chain plus the
// bookkeeping fix_collisions needs across frames.
type EventImages struct {
	Images *Image

	Top, Left, Width, Height int

	DetectCollisions bool
	ShiftDown        bool
	AlreadyFixed     bool

	sourceEvent *Event
	layer       int
	readOrder   int

	// contentTag is a cheap fingerprint of the source event's
	// timing/text/style, used by RenderFrame to tell "same event,
	// reshifted by fix_collisions" apart from "event's content changed"
	// when computing ChangeLevel.
	contentTag string
}

// GlyphInfo is the auxiliary, opt-in per-glyph exposure Renderer.GlyphInfo
// returns: enough to reconstruct where each shaped cluster landed and
// what it was, without forcing RenderFrame's hot path to collect it.
type GlyphInfo struct {
	Symbol      rune
	FontHandle  *sfnt.Font
	GlyphIndex  sfnt.GlyphIndex
	PenX, PenY  fract.Unit
	Advance     fract.Unit
	BBox        geomRect
	Ascender    fract.Unit
	Descender   fract.Unit
	Vertical    bool
	EffectType  KaraokeMode
	EffectStart int64
	StartsRun   bool
	Skip        bool
	Trimmed     bool
}

type geomRect struct{ X0, Y0, X1, Y1 int32 }

// renderState is the mutable working state threaded through one
// event's pipeline run: the effective style after overrides and inline
// tags, plus everything §4.5 step 2 onward accumulates.
type renderState struct {
	style Style // working copy, mutated by inline tags

	fontFace *sfnt.Font
	fontData []byte

	scaleX, scaleY float64
	spacing        float64

	borderX, borderY float64
	shadowX, shadowY float64
	be               int
	blur             float64

	frx, fry, frz float64
	fax, fay      float64

	alignment int
	justify   int

	wrapStyle int

	posSet bool
	posX, posY float64

	explicit bool

	rotOrgSet bool
	rotOrgX, rotOrgY float64

	clipSet bool
	clipInverse bool
	clipRect fract.Rect
	clipDrawing *outline.HashValue

	fade Fade
	transitions []Transition

	karaoke     KaraokeMode
	karaokeFrom int64
	karaokeDur  int64

	scrollShift int
	evtType     eventPositionType
}

type eventPositionType uint8

const (
	evtDefault eventPositionType = iota
	evtPositioned
	evtScrollHorizontal
	evtScrollVertical
)

// Axes bundles style's margins/scales into the coordinate-mapping
// inputs the style package's ScriptToScreen{X,Y} need.
func (rs *renderState) axes(cfg *Config) style.Axes {
	return style.Axes{
		FrameWidth:  float64(cfg.FrameWidth),
		FrameHeight: float64(cfg.FrameHeight),
		LeftMargin:  float64(cfg.LeftMargin),
		TopMargin:   float64(cfg.TopMargin),
		UseMargins:  cfg.UseMargins,
		FontScaleX:  cfg.parDerived,
	}
}
