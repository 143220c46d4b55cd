package asslay

import "testing"

func TestApplyDefaults(t *testing.T) {
	c := &Config{FrameWidth: 100, FrameHeight: 50}
	c.applyDefaults()

	if c.StorageWidth != 100 || c.StorageHeight != 50 {
		t.Fatalf("expected storage size to default to frame size, got %dx%d", c.StorageWidth, c.StorageHeight)
	}
	if c.FontSizeCoeff != 1 {
		t.Fatalf("expected FontSizeCoeff to default to 1, got %v", c.FontSizeCoeff)
	}
	if c.OutlineCacheCount != 1000 {
		t.Fatalf("expected OutlineCacheCount to default to 1000, got %v", c.OutlineCacheCount)
	}
	if c.BitmapCacheBytes != 64*1024*1024 || c.CompositeCacheBytes != 64*1024*1024 {
		t.Fatalf("expected 64 MiB cache defaults, got bitmap=%v composite=%v", c.BitmapCacheBytes, c.CompositeCacheBytes)
	}
	if c.Logger == nil {
		t.Fatal("expected a default logger to be set")
	}
}

func TestUpdatePARDerivesFromStorageVsFrame(t *testing.T) {
	c := &Config{FrameWidth: 100, FrameHeight: 50, StorageWidth: 200, StorageHeight: 100}
	c.updatePAR()
	if c.parDerived != 1 {
		t.Fatalf("equal aspect ratios should derive PAR 1, got %v", c.parDerived)
	}

	wide := &Config{FrameWidth: 200, FrameHeight: 50, StorageWidth: 100, StorageHeight: 50}
	wide.updatePAR()
	if wide.parDerived != 2 {
		t.Fatalf("a frame twice as wide relative to storage should derive PAR 2, got %v", wide.parDerived)
	}

	explicit := &Config{PAR: 1.5}
	explicit.updatePAR()
	if explicit.parDerived != 1.5 {
		t.Fatalf("an explicit PAR should win over derivation, got %v", explicit.parDerived)
	}
}
