package cache

import "sync"
import "sync/atomic"
import "math/rand"

// Cache is a generic content-addressed, construct-on-miss cache bounded
// by a total "byte size" budget. It is concurrent-safe (though not
// optimized for, nor expected to see, heavy concurrent use) and evicts
// entries by sampling a handful of candidates and dropping the coldest
// one, exactly the strategy a real-time glyph mask cache would use:
// no background sweep, no strict LRU ordering, just cheap approximate
// pressure relief applied only when a new entry doesn't fit.
//
// Outline caches, bitmap caches and composite-layer caches are all
// instances of Cache with different key and value types; a cache
// bounded "by count" rather than by byte footprint is simply one whose
// Sized.ByteSize() always returns 1.
// refCounted is implemented by cache values that track shared ownership
// explicitly (currently outline.HashValue). Put gives the cache's own
// hold an IncRef; eviction releases it with DecRef. Nothing else calls
// IncRef or DecRef, so RefCount counts the caches holding the value, not
// other references to it (bitmap cache keys, in-flight clusterPlacements).
type refCounted interface {
	IncRef()
	DecRef()
}

type Cache[K comparable, V Sized] struct {
	entries         map[K]*entry[V]
	rng             *rand.Rand
	spaceBytesLeft  uint32
	lowestBytesLeft uint32
	byteSizeLimit   uint32
	mutex           sync.RWMutex
}

// New creates a cache bounded by the given capacity. Negative values
// will panic, as that's almost always a configuration mistake rather
// than a runtime condition a caller should recover from.
//
// Values below a few KiB are rarely useful; the package overview has
// more detailed sizing guidance.
func New[K comparable, V Sized](maxByteSize int) *Cache[K, V] {
	if maxByteSize < 0 {
		panic("maxByteSize < 0")
	}
	return &Cache[K, V]{
		entries:         make(map[K]*entry[V], 128),
		spaceBytesLeft:  uint32(maxByteSize),
		lowestBytesLeft: uint32(maxByteSize),
		byteSizeLimit:   uint32(maxByteSize),
		rng:             rand.New(rand.NewSource(systemMonoNanoTime() ^ 0x36285016_051A1E33)),
	}
}

// Attempts to remove the entry with the lowest eviction cost from a
// small pool of samples. May not remove anything in some cases.
//
// The returned value is the freed space, which must be manually
// added to spaceBytesLeft by the caller.
func (c *Cache[K, V]) removeRandEntry(hotness uint32, instant uint32) uint32 {
	const sampleSize = 10 // could be made configurable, but not a big deal

	c.mutex.RLock()
	var selectedKey K
	lowestHotness := ^uint32(0)
	samplesTaken := 0
	for key, e := range c.entries {
		currHotness := e.Hotness(instant)
		if currHotness < lowestHotness {
			lowestHotness = currHotness
			selectedKey = key
		}
		samplesTaken += 1
		if samplesTaken >= sampleSize {
			break
		}
	}
	c.mutex.RUnlock()

	freedSpace := uint32(0)
	if lowestHotness < hotness {
		c.mutex.Lock()
		e, stillExists := c.entries[selectedKey]
		if stillExists {
			delete(c.entries, selectedKey)
			if rc, ok := any(e.Value).(refCounted); ok {
				rc.DecRef()
			}
			freedSpace = e.ByteSize
		}
		c.mutex.Unlock()
	}
	return freedSpace
}

// Put stores the given value under the given key. If the value doesn't
// fit even after evicting some room, it's silently dropped: callers are
// expected to keep using the value they just constructed regardless of
// whether it was cached (construct-on-miss, not construct-then-cache).
func (c *Cache[K, V]) Put(key K, value V) {
	const maxMakeRoomAttempts = 2

	e, instant := newEntry(value)
	if e.ByteSize > atomic.LoadUint32(&c.byteSizeLimit) {
		return
	}
	spaceBytesLeft := atomic.LoadUint32(&c.spaceBytesLeft)
	freedSpace := uint32(0)
	if e.ByteSize > spaceBytesLeft {
		hotness := e.Hotness(instant)
		missingSpace := e.ByteSize - spaceBytesLeft
		roomMade := false
		for i := 0; i < maxMakeRoomAttempts; i++ {
			freedSpace += c.removeRandEntry(hotness, instant)
			if freedSpace >= missingSpace {
				roomMade = true
				break
			}
		}
		if !roomMade {
			if freedSpace != 0 {
				atomic.AddUint32(&c.spaceBytesLeft, freedSpace)
			}
			return
		}
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if freedSpace != 0 {
		atomic.AddUint32(&c.spaceBytesLeft, freedSpace)
	}
	if _, exists := c.entries[key]; exists {
		return
	}
	if atomic.LoadUint32(&c.spaceBytesLeft) < e.ByteSize {
		return
	}
	newLeft := atomic.AddUint32(&c.spaceBytesLeft, ^uint32(e.ByteSize-1))
	if newLeft < atomic.LoadUint32(&c.lowestBytesLeft) {
		atomic.StoreUint32(&c.lowestBytesLeft, newLeft)
	}
	c.entries[key] = e
	if rc, ok := any(value).(refCounted); ok {
		rc.IncRef()
	}
}

// Get retrieves the value stored under the given key, if any.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	e, found := c.entries[key]
	c.mutex.RUnlock()
	if !found {
		var zero V
		return zero, false
	}
	e.IncreaseAccessCount()
	return e.Value, true
}

// GetOrConstruct returns the cached value for key, or calls construct,
// stores its result and returns it. This is the shape every cache
// consumer in the pipeline uses: outline construction, bitmap
// rasterization and layer composition are all expressed as
// GetOrConstruct calls against the relevant cache.
func (c *Cache[K, V]) GetOrConstruct(key K, construct func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	value, err := construct()
	if err != nil {
		return value, err
	}
	c.Put(key, value)
	return value, nil
}

// ApproxByteSize returns an approximation of the number of bytes
// currently held by entries in the cache.
func (c *Cache[K, V]) ApproxByteSize() int {
	return int(atomic.LoadUint32(&c.byteSizeLimit) - atomic.LoadUint32(&c.spaceBytesLeft))
}

// PeakSize returns an approximation of the maximum amount of bytes the
// cache has been filled with at any point of its life. Useful to tune
// capacity to observed usage.
func (c *Cache[K, V]) PeakSize() int {
	return int(atomic.LoadUint32(&c.byteSizeLimit) - atomic.LoadUint32(&c.lowestBytesLeft))
}

// Len returns the current number of live entries. Mainly useful in tests.
func (c *Cache[K, V]) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}
