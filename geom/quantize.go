package geom

import "math"

// Constants from the glossary: POSITION_PRECISION is expressed in
// 1/64-pixel units, SUBPIXEL_ORDER is the number of sub-pixel bits kept
// in the quantized position, and MaxPerspScale bounds how close to the
// horizon a z value is allowed to get before z0 is clamped.
const (
	SubpixelOrder     = 3
	PositionPrecision = 8
	MaxPerspScale     = 16
	maxCoeffMagnitude = 1e6
)

// Rect is an axis-aligned bounding box in the same space as the outline
// it bounds (26.6 fixed-point units, represented here as float64 for
// quantization math).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

func (r Rect) width() float64  { return r.X1 - r.X0 }
func (r Rect) height() float64 { return r.Y1 - r.Y0 }
func (r Rect) centerX() float64 { return (r.X0 + r.X1) / 2 }
func (r Rect) centerY() float64 { return (r.Y0 + r.Y1) / 2 }

// Quantized is a discrete, hashable encoding of a continuous transform
// relative to a particular outline's cbox: an integer pixel position, a
// SubpixelOrder-bit fractional offset, and three quantized matrix pairs
// (the rows of the recentred matrix, scaled by a position-precision
// dependent step). Matches BitmapHashKey's "three integer pairs plus
// sub-pixel offset" shape.
type Quantized struct {
	PosX, PosY int32
	OffX, OffY uint8 // 0..1<<SubpixelOrder-1
	MX, MY, MZ [2]int32
	Valid      bool
}

// Residual carries the sub-pixel offset chosen for the first quantized
// transform in a cluster, so that a later call (e.g. the border outline
// of the same glyph) can reuse it and hash to a key compatible with the
// fill bitmap's key, per §4.2's "first=true" contract.
type Residual struct {
	OffX, OffY uint8
	Set        bool
}

// QuantizeTransform maps a continuous matrix m, applied to an outline
// with bounding box cbox, onto a discrete cache key. When first is true
// the chosen sub-pixel offset is written back into residual; when false,
// residual's existing offset (if Set) is reused instead of being
// recomputed, so that fill and border bitmaps of the same cluster hash
// compatibly.
//
// Returns Valid=false when the matrix is ill-conditioned (m[2][2] <= 0
// or some intermediate coefficient exceeds maxCoeffMagnitude); callers
// must treat that exactly like a cache miss that can't be constructed.
func QuantizeTransform(m Matrix3, cbox Rect, first bool, residual *Residual) Quantized {
	if m.M[2][2] <= 0 {
		return Quantized{}
	}

	cx, cy := cbox.centerX(), cbox.centerY()

	// recentre so the outline's cbox centre is the input origin
	recentred := Multiply(m, Translate(cx, cy))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(recentred.M[i][j]) > maxCoeffMagnitude {
				return Quantized{}
			}
		}
	}

	outX, outY, outZ := recentred.TransformPoint(0, 0)
	if outZ <= 0 {
		return Quantized{}
	}

	// integer pixel position + SubpixelOrder-bit fractional offset
	const subpixSteps = 1 << SubpixelOrder
	scaledX := outX * subpixSteps
	scaledY := outY * subpixSteps

	var offX, offY uint8
	if !first && residual != nil && residual.Set {
		offX, offY = residual.OffX, residual.OffY
	} else {
		offX = uint8(math.Mod(math.Round(scaledX), subpixSteps))
		offY = uint8(math.Mod(math.Round(scaledY), subpixSteps))
		if residual != nil {
			residual.OffX, residual.OffY, residual.Set = offX, offY, true
		}
	}
	posX := int32(math.Floor(outX - float64(offX)/subpixSteps))
	posY := int32(math.Floor(outY - float64(offY)/subpixSteps))

	// translate output so the quantized centre becomes the new origin
	out := Multiply(Translate(-outX, -outY), recentred)

	// per-axis quantization step: q = POSITION_PRECISION * z0 / d,
	// z0 clamped below by m[2][2]/MaxPerspScale (1/16th of centre z)
	halfW := cbox.width()/2 + 64
	halfH := cbox.height()/2 + 64
	z0 := minCBoxZ(out, cbox, cx, cy)
	zFloor := out.M[2][2] / MaxPerspScale
	if z0 < zFloor {
		z0 = zFloor
	}
	qx := PositionPrecision * z0 / halfW
	qy := PositionPrecision * z0 / halfH
	if qx <= 0 || qy <= 0 {
		return Quantized{}
	}

	mx := [2]int32{quantizeCoeff(out.M[0][0], qx), quantizeCoeff(out.M[0][1], qx)}
	my := [2]int32{quantizeCoeff(out.M[1][0], qy), quantizeCoeff(out.M[1][1], qy)}

	// perspective row, quantized with step q/w per §4.2
	w := PositionPrecision * math.Max(
		math.Abs(float64(mx[0]))+math.Abs(float64(mx[1])),
		math.Abs(float64(my[0]))+math.Abs(float64(my[1])),
	)
	if w <= 0 {
		w = 1
	}
	qz := math.Min(qx, qy) / w
	if qz <= 0 {
		qz = math.SmallestNonzeroFloat64
	}
	mz := [2]int32{quantizeCoeff(out.M[2][0], qz), quantizeCoeff(out.M[2][1], qz)}

	return Quantized{PosX: posX, PosY: posY, OffX: offX, OffY: offY, MX: mx, MY: my, MZ: mz, Valid: true}
}

func quantizeCoeff(v, step float64) int32 {
	return int32(math.Round(v / step))
}

// minCBoxZ samples the four corners (translated to be relative to the
// recentred, re-originated matrix's input space) and returns the
// smallest resulting z, used as z0 in the quantization step formula.
func minCBoxZ(out Matrix3, cbox Rect, cx, cy float64) float64 {
	corners := [4][2]float64{
		{cbox.X0 - cx, cbox.Y0 - cy},
		{cbox.X1 - cx, cbox.Y0 - cy},
		{cbox.X0 - cx, cbox.Y1 - cy},
		{cbox.X1 - cx, cbox.Y1 - cy},
	}
	minZ := math.Inf(1)
	for _, c := range corners {
		v := out.TransformVec3(Vec3{X: c[0], Y: c[1], Z: 1})
		if v.Z < minZ {
			minZ = v.Z
		}
	}
	return minZ
}

// RestoreTransform inverts QuantizeTransform using the stored quantized
// integers and the outline's cbox, reconstructing a matrix suitable for
// re-transforming the outline's original (un-recentred) coordinates.
func RestoreTransform(q Quantized, cbox Rect) Matrix3 {
	if !q.Valid {
		return Identity()
	}
	cx, cy := cbox.centerX(), cbox.centerY()
	const subpixSteps = 1 << SubpixelOrder

	halfW := cbox.width()/2 + 64
	halfH := cbox.height()/2 + 64

	// we don't have the original z0 anymore; it is taken as 1 here
	// rather than reconstructed from the quantized key.
	z0 := 1.0 // canonical outline-space z is always 1 prior to recentring
	qx := PositionPrecision * z0 / halfW
	qy := PositionPrecision * z0 / halfH

	m00 := float64(q.MX[0]) * qx
	m01 := float64(q.MX[1]) * qx
	m10 := float64(q.MY[0]) * qy
	m11 := float64(q.MY[1]) * qy

	w := PositionPrecision * math.Max(math.Abs(m00)+math.Abs(m01), math.Abs(m10)+math.Abs(m11))
	if w <= 0 {
		w = 1
	}
	qz := math.Min(qx, qy) / w
	if qz <= 0 {
		qz = math.SmallestNonzeroFloat64
	}
	m20 := float64(q.MZ[0]) * qz
	m21 := float64(q.MZ[1]) * qz

	centerX := float64(q.PosX) + float64(q.OffX)/subpixSteps
	centerY := float64(q.PosY) + float64(q.OffY)/subpixSteps

	recentred := Matrix3{M: [3][3]float64{
		{m00, m01, centerX},
		{m10, m11, centerY},
		{m20, m21, 1},
	}}
	return Multiply(recentred, Translate(-cx, -cy))
}
