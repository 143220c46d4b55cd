package cache

import "testing"

type byteBlob struct {
	size uint32
}

func (b byteBlob) ByteSize() uint32 { return b.size }

// refCountedBlob mirrors outline.HashValue's shared-ownership shape
// closely enough to exercise Cache's IncRef/DecRef wiring without
// importing the outline package here.
type refCountedBlob struct {
	size uint32
	refs int
}

func (b *refCountedBlob) ByteSize() uint32 { return b.size }
func (b *refCountedBlob) IncRef()          { b.refs++ }
func (b *refCountedBlob) DecRef()          { b.refs-- }
func (b *refCountedBlob) RefCount() int    { return b.refs }

func TestCachePutIncRefsAndEvictionDecRefs(t *testing.T) {
	const capacity = 32
	c := New[int, *refCountedBlob](capacity)

	kept := &refCountedBlob{size: 32}
	c.Put(0, kept)
	if kept.RefCount() != 1 {
		t.Fatalf("expected Put to IncRef the stored value, got refcount %d", kept.RefCount())
	}

	// Age kept relative to the entry that follows so eviction
	// deterministically picks it: entry.Hotness divides by elapsed
	// time since creation, so an artificially old entry looks the
	// coldest regardless of sampling order.
	testInstantNanosHack += 1 << 32
	defer func() { testInstantNanosHack = 0 }()

	other := &refCountedBlob{size: 32}
	c.Put(1, other)

	if kept.RefCount() != 0 {
		t.Fatalf("expected eviction to DecRef the displaced value, got refcount %d", kept.RefCount())
	}
	if other.RefCount() != 1 {
		t.Fatalf("expected the newly stored value to hold refcount 1, got %d", other.RefCount())
	}
	if _, ok := c.Get(0); ok {
		t.Fatal("expected kept to have been evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Fatal("expected other to be resident")
	}
}

func TestCacheGetPutMiss(t *testing.T) {
	c := New[int, byteBlob](1024)
	if _, ok := c.Get(1); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Put(1, byteBlob{size: 64})
	value, ok := c.Get(1)
	if !ok || value.size != 64 {
		t.Fatal("expected hit after Put")
	}
}

func TestCacheGetOrConstruct(t *testing.T) {
	c := New[string, byteBlob](1024)
	calls := 0
	construct := func() (byteBlob, error) {
		calls++
		return byteBlob{size: 32}, nil
	}
	for i := 0; i < 3; i++ {
		_, err := c.GetOrConstruct("k", construct)
		if err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected construct to run once, ran %d times", calls)
	}
}

func TestCacheEvictsUnderPressure(t *testing.T) {
	const capacity = 256
	c := New[int, byteBlob](capacity)
	for i := 0; i < 64; i++ {
		c.Put(i, byteBlob{size: 32})
	}
	if c.ApproxByteSize() > capacity {
		t.Fatalf("cache exceeded its capacity: %d > %d", c.ApproxByteSize(), capacity)
	}
	if c.PeakSize() > capacity {
		t.Fatalf("peak size exceeded capacity: %d", c.PeakSize())
	}
}

func TestCacheRejectsOversizedEntry(t *testing.T) {
	c := New[int, byteBlob](128)
	c.Put(1, byteBlob{size: 4096})
	if _, ok := c.Get(1); ok {
		t.Fatal("entry larger than the whole cache should never be stored")
	}
}
