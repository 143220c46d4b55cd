// Package cache provides the content-addressed, construct-on-miss caches
// used throughout the rendering pipeline: outline caches, bitmap caches
// and composite-layer caches all share the same eviction machinery.
//
// Since outline construction and bitmap rasterization are comparatively
// expensive, caches are a vital part of keeping per-frame rendering cost
// proportional to the number of *changed* glyphs rather than the number
// of glyphs on screen.
//
// There is no good rule of thumb for "how big should my cache be". It
// depends on how many distinct (font, size, transform) combinations a
// track exercises and how many distinct glyphs appear. [Cache.PeakSize]
// is the right tool to measure actual usage and tune capacity afterwards.
package cache
