package geom

import "math"
import "testing"

func TestQuantizeTransformIdentity(t *testing.T) {
	cbox := Rect{X0: 0, Y0: 0, X1: 640, Y1: 640}
	m := Translate(320, 240)
	q := QuantizeTransform(m, cbox, true, &Residual{})
	if !q.Valid {
		t.Fatal("expected identity-ish translation to quantize successfully")
	}
}

func TestQuantizeTransformRejectsDegenerate(t *testing.T) {
	cbox := Rect{X0: 0, Y0: 0, X1: 64, Y1: 64}
	degenerate := Matrix3{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, -1}}}
	q := QuantizeTransform(degenerate, cbox, true, &Residual{})
	if q.Valid {
		t.Fatal("expected m[2][2] <= 0 to be rejected")
	}
}

func TestQuantizeRestoreRoundTrip(t *testing.T) {
	cbox := Rect{X0: 0, Y0: 0, X1: 128, Y1: 128}
	m := Multiply(Translate(500, 300), Scale(1.0, 1.0))

	q := QuantizeTransform(m, cbox, true, &Residual{})
	if !q.Valid {
		t.Fatal("expected valid quantization")
	}
	restored := RestoreTransform(q, cbox)

	corners := [][2]float64{{cbox.X0, cbox.Y0}, {cbox.X1, cbox.Y0}, {cbox.X0, cbox.Y1}, {cbox.X1, cbox.Y1}}
	for _, c := range corners {
		ox, oy, _ := m.TransformPoint(c[0], c[1])
		rx, ry, _ := restored.TransformPoint(c[0], c[1])
		if math.Abs(ox-rx) > 2*PositionPrecision || math.Abs(oy-ry) > 2*PositionPrecision {
			t.Fatalf("corner %v: original (%.2f,%.2f) vs restored (%.2f,%.2f) diverge beyond 2*POSITION_PRECISION", c, ox, oy, rx, ry)
		}
	}
}

func TestQuantizeStabilityWithinStep(t *testing.T) {
	cbox := Rect{X0: 0, Y0: 0, X1: 256, Y1: 256}
	base := Translate(100, 100)
	nudged := Translate(100.001, 100.001)

	qa := QuantizeTransform(base, cbox, true, &Residual{})
	qb := QuantizeTransform(nudged, cbox, true, &Residual{})
	if qa != qb {
		t.Fatalf("sub-unit nudge should map to identical keys, got %+v vs %+v", qa, qb)
	}
}
