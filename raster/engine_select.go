package raster

import "golang.org/x/sys/cpu"

// selectEngine picks the best available Engine for the current
// processor, the same "pick once at init from CPU capabilities" posture
// §9 calls for. The SSE2/AVX2 variants don't carry real vectorized
// assembly (out of reach for a straight Go rewrite); they run the
// identical scalar algorithm and exist so the three-tier dispatch
// structure itself is real and exercised, not merely documented.
func selectEngine() Engine {
	switch {
	case cpu.X86.HasAVX2:
		return avx2Engine{}
	case cpu.X86.HasSSE2:
		return sse2Engine{}
	default:
		return ScalarEngine{}
	}
}
