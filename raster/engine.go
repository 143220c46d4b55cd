package raster

// Engine is the "blit engine" capability set from §9: copy_bitmap,
// add_bitmaps, synth_blur, alloc_bitmap, tile_order, be_padding. The
// engine pointer is selected once at process start from CPU
// capabilities and is treated as immutable afterwards, the same way a
// font rasterizer backend is chosen once and reused across renderers.
type Engine interface {
	// AllocBitmap allocates a bitmap of the given size, with rows
	// aligned to the engine's preferred stride.
	AllocBitmap(w, h int) *Bitmap

	// CopyBitmap copies src into dst at (dstX, dstY), clipping to dst's
	// bounds.
	CopyBitmap(dst *Bitmap, src *Bitmap, dstX, dstY int)

	// AddBitmaps additively composites src into dst at (dstX, dstY),
	// saturating at 255, clipping to dst's bounds.
	AddBitmaps(dst *Bitmap, src *Bitmap, dstX, dstY int)

	// SynthBlur applies `passes` 3x3 box-blur passes ("BE" passes) to
	// bitmap in place.
	SynthBlur(bitmap *Bitmap, passes int)

	// TileOrder reports the row-processing granularity the engine
	// prefers, purely informational (kept because §9 asks for it as
	// part of the capability set).
	TileOrder() int

	// BEPadding returns how many extra pixels of border a BE pass count
	// requires on each side, so composite bounding boxes can be padded
	// before allocation (§4.6.2 step 1).
	BEPadding(bePasses int) int
}

// Selected is the process-wide engine chosen at init time from CPU
// capability detection. Treated as immutable after selection per §9.
var Selected Engine = selectEngine()
