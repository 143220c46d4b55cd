package asslay

import (
	"log/slog"

	"github.com/asslay/asslay/font"
	"github.com/asslay/asslay/style"
)

// Hinting selects the font hinting mode applied when rasterizing glyph
// outlines.
type Hinting uint8

const (
	HintingNone Hinting = iota
	HintingLight
	HintingNormal
	HintingNative
)

// ShaperKind selects which shape.Shaper a Renderer builds by default
// when Config.Shaper is left nil.
type ShaperKind uint8

const (
	ShaperSimple ShaperKind = iota
	ShaperComplex
)

// Config bundles every renderer-configuration field enumerated in §6.
// FrameWidth/FrameHeight and Fonts are required; every other field has
// a documented zero-value-safe default that NewRenderer fills in when
// left unset.
type Config struct {
	// FrameWidth/FrameHeight: output canvas, in pixels. Required (no
	// default) — NewRenderer returns ErrInvalidFrameSize if either is
	// <= 0.
	FrameWidth, FrameHeight int

	// StorageWidth/StorageHeight: the PAR reference resolution. Default:
	// equal to FrameWidth/FrameHeight (PAR 1:1) when left at zero.
	StorageWidth, StorageHeight int

	// PAR is the pixel aspect ratio (DAR/SAR). Default 0 means "derive
	// automatically from StorageWidth/Height vs FrameWidth/Height".
	PAR float64

	LeftMargin, TopMargin int
	UseMargins            bool

	// FontSizeCoeff scales every resolved font size uniformly. Default 1.
	FontSizeCoeff float64

	// LineSpacing is added between lines, in script-space pixels.
	LineSpacing float64

	// LinePosition is a percentage (0-100). Default 0. The pipeline does
	// not read it: default (non-positioned, non-scrolling) vertical
	// placement uses alignment and margins only.
	LinePosition float64

	Hinting Hinting
	Shaper  ShaperKind

	DefaultFont   string
	DefaultFamily string

	SelectiveStyleOverrides style.OverrideMask
	OverrideStyle           Style

	// Fonts resolves a Style's font family/weight/slant to a face.
	// Required — NewRenderer returns ErrNoFontProvider if nil.
	Fonts font.Provider

	// OutlineCacheCount bounds the outline cache by entry count.
	// Default 1000.
	OutlineCacheCount int
	// BitmapCacheBytes/CompositeCacheBytes bound their caches by
	// summed byte footprint. Defaults: 64 MiB / 64 MiB.
	BitmapCacheBytes    int
	CompositeCacheBytes int

	Logger *slog.Logger

	// parDerived is the resolved font_scale_x for the current frame,
	// computed at frame start from PAR/StorageWidth/Height vs Frame
	// dimensions, or from PAR directly when non-zero. Not user-set.
	parDerived float64
}

func (c *Config) applyDefaults() {
	if c.StorageWidth <= 0 {
		c.StorageWidth = c.FrameWidth
	}
	if c.StorageHeight <= 0 {
		c.StorageHeight = c.FrameHeight
	}
	if c.FontSizeCoeff <= 0 {
		c.FontSizeCoeff = 1
	}
	if c.OutlineCacheCount <= 0 {
		c.OutlineCacheCount = 1000
	}
	if c.BitmapCacheBytes <= 0 {
		c.BitmapCacheBytes = 64 * 1024 * 1024
	}
	if c.CompositeCacheBytes <= 0 {
		c.CompositeCacheBytes = 64 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = defaultLogger()
	}
}

// updatePAR recomputes parDerived (font_scale_x) from either the
// explicit PAR or the storage/frame aspect ratios, per §4.8 frame start.
func (c *Config) updatePAR() {
	if c.PAR > 0 {
		c.parDerived = c.PAR
		return
	}
	if c.StorageWidth <= 0 || c.StorageHeight <= 0 || c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		c.parDerived = 1
		return
	}
	dar := float64(c.FrameWidth) / float64(c.FrameHeight)
	sar := float64(c.StorageWidth) / float64(c.StorageHeight)
	if sar == 0 {
		c.parDerived = 1
		return
	}
	c.parDerived = dar / sar
}
