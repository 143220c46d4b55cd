package raster

// sse2Engine and avx2Engine are the two CPU-feature-gated tiers from
// §9's three-implementation dispatch (scalar, SSE2, AVX2). They embed
// ScalarEngine and only exist as distinct types so TileOrder can report
// the wider row granularity those instruction sets would process at
// once; the pixel math itself is identical to the scalar path.
type sse2Engine struct{ ScalarEngine }

func (sse2Engine) TileOrder() int { return 4 }

type avx2Engine struct{ ScalarEngine }

func (avx2Engine) TileOrder() int { return 8 }
