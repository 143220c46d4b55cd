// Package asslay renders parsed subtitle events into layered alpha-bitmap
// frames.
//
// The pipeline is split across a handful of subpackages, each responsible
// for one stage:
//
//   - fract: 26.6 fixed point arithmetic.
//   - geom: transform matrices and cache-key quantization.
//   - outline: glyph, drawing, border and box outline construction.
//   - raster: bitmap construction, layer composition and blur.
//   - cache: content-addressed, construct-on-miss caches shared by the
//     outline and raster stages.
//   - style: selective override merging and script/screen coordinate
//     mapping.
//   - collide: event bounding-box collision avoidance.
//   - font, shape: font resolution and text shaping (external
//     collaborators with a real default implementation).
//
// Common usage:
//
//	r, err := asslay.NewRenderer(asslay.Config{FrameWidth: 1920, FrameHeight: 1080, Fonts: fonts}) // fonts: any font.Provider
//	if err != nil { ... }
//	defer r.Close()
//	img, change, err := r.RenderFrame(track, nowMs)
package asslay
