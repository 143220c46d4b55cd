package asslay

import (
	"log/slog"
	"sync/atomic"

	"github.com/asslay/asslay/cache"
	"github.com/asslay/asslay/geom"
	"github.com/asslay/asslay/outline"
	"github.com/asslay/asslay/raster"
	"github.com/asslay/asslay/shape"
)

// compositeKey identifies one combined run's CombinedBitmapInfo for the
// composite cache, per §4.6.2: the run's filter, BE, blur and the
// bitmap reference+position list in placement order.
type compositeKey struct {
	filter filterFlags
	be     int
	blur   int32

	// bitmaps is a string encoding of the run's (ref, x, y) tuples, fill
	// placements first and then border placements, each in placement
	// order (the tuples are not sorted): comparable map keys need a fixed, hashable shape, and the run's
	// bitmap list length varies per run, so we fold it down to a string
	// rather than modeling a variable-length array key directly.
	bitmaps string
}

func (k compositeKey) ByteSize() uint32 { return 1 }

// Renderer is the top-level entry point: it owns the three
// content-addressed caches (outline, bitmap, composite; there is no
// separate font cache, faces come from Config.Fonts on every lookup)
// and the resolved external collaborators
// (font provider, shaper), and renders Tracks into Image chains.
//
// A Renderer is not safe for concurrent use — render one frame at a
// time from a single goroutine, the same way this module's cache and
// rasterizer types document themselves as single-call-site-at-a-time.
type Renderer struct {
	cfg Config
	log *slog.Logger

	outlineCache   *cache.Cache[outline.Key, *outline.HashValue]
	bitmapCache    *cache.Cache[geom.BitmapKey[outline.Key], *raster.Bitmap]
	compositeCache *cache.Cache[compositeKey, *combinedBitmapInfo]

	shaper shape.Shaper

	prevImages map[int]*EventImages // keyed by event index, for detect_change + fix_collisions carry-over
	prevOrder  []int

	closed atomic.Bool
}

// NewRenderer validates cfg, resolves defaults, and allocates the three
// caches. It never panics on a bad Config — only on this package's own
// programmer errors (there are none reachable from NewRenderer).
func NewRenderer(cfg Config) (*Renderer, error) {
	cfg.applyDefaults()
	if cfg.FrameWidth <= 0 || cfg.FrameHeight <= 0 {
		return nil, ErrInvalidFrameSize
	}
	if cfg.StorageWidth <= 0 || cfg.StorageHeight <= 0 {
		return nil, ErrInvalidStorageSize
	}
	if cfg.Fonts == nil {
		return nil, ErrNoFontProvider
	}
	cfg.updatePAR()

	r := &Renderer{
		cfg:            cfg,
		log:            cfg.Logger,
		outlineCache:   cache.New[outline.Key, *outline.HashValue](cfg.OutlineCacheCount),
		bitmapCache:    cache.New[geom.BitmapKey[outline.Key], *raster.Bitmap](cfg.BitmapCacheBytes),
		compositeCache: cache.New[compositeKey, *combinedBitmapInfo](cfg.CompositeCacheBytes),
		prevImages:     make(map[int]*EventImages),
	}
	r.shaper = resolveShaper(cfg.Shaper)
	return r, nil
}

func resolveShaper(kind ShaperKind) shape.Shaper {
	switch kind {
	case ShaperComplex:
		return shape.NewComplex()
	default:
		return &shape.Simple{}
	}
}

// Close idempotently releases the renderer's caches. A Renderer holds
// no OS resources of its own (fonts/shapers are caller-owned via
// Config), so Close is mostly about making further RenderFrame/
// GlyphInfo calls fail predictably rather than freeing anything
// critical.
func (r *Renderer) Close() error {
	r.closed.Store(true)
	return nil
}

// FrameRef increments img's reference count so the caller can retain it
// beyond the next RenderFrame call.
func FrameRef(img *Image) {
	for n := img; n != nil; n = n.Next {
		atomic.AddInt32(&n.refs, 1)
	}
}

// FrameUnref decrements img's reference count. This package does not
// pool freed Images; once unreferenced, they're simply left for the
// garbage collector.
func FrameUnref(img *Image) {
	for n := img; n != nil; n = n.Next {
		atomic.AddInt32(&n.refs, -1)
	}
}
