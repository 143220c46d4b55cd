package cache

import "sync/atomic"
import _ "unsafe"

//go:linkname systemMonoNanoTime runtime.nanotime

//go:noescape
func systemMonoNanoTime() int64

// Sized is implemented by anything that can be stored in a [Cache]. The
// returned value is used both for accounting (ApproxByteSize, PeakSize)
// and for eviction: entries report their own footprint rather than the
// cache guessing it from reflection.
type Sized interface {
	ByteSize() uint32
}

// An entry with additional bookkeeping to estimate how much it is
// being used, the same heuristic a glyph-mask cache would use to
// decide what to evict first.
type entry[V Sized] struct {
	Value           V      // Read-only.
	ByteSize        uint32 // Read-only.
	CreationInstant uint32 // see cacheEntryInstant(). Read-only.
	accessCount     uint32 // number of times the entry has been accessed
}

// Must be called after accessing an entry in order to keep the
// Hotness() heuristic making sense. Concurrent-safe.
func (e *entry[V]) IncreaseAccessCount() {
	atomic.AddUint32(&e.accessCount, 1)
}

// A measure of "bytes accessed per time". Coldest entries (smallest
// values) are candidates for eviction. Concurrent-safe.
func (e *entry[V]) Hotness(instant uint32) uint32 {
	const constEvictionCost = 1000 // additional threshold and pad
	bytesHit := e.ByteSize * atomic.LoadUint32(&e.accessCount)
	elapsed := instant - e.CreationInstant
	if elapsed == 0 {
		elapsed = 1
	}
	return (constEvictionCost + bytesHit) / elapsed
}

// Used to make eviction timing deterministic in tests without
// needing real sleeps between cache operations.
var testInstantNanosHack int64

// A time instant related to the system's monotonic nano time, but with
// some arbitrary downscaling applied (each unit is 2^27 nanoseconds,
// about 0.134 seconds).
func cacheEntryInstant() uint32 {
	return uint32((systemMonoNanoTime() + testInstantNanosHack) >> 27)
}

func newEntry[V Sized](value V) (*entry[V], uint32) {
	instant := cacheEntryInstant()
	return &entry[V]{
		Value:           value,
		ByteSize:        value.ByteSize(),
		CreationInstant: instant,
		accessCount:     1,
	}, instant
}
