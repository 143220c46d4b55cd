// Package geom provides the 3x3 affine/perspective matrix type used for
// per-glyph transforms and the quantization that maps a continuous
// matrix onto a discrete, hashable cache key.
package geom

import "math"

// Vec3 is a homogeneous 3D point or direction. Z carries the perspective
// weight: a 2D point is (x, y, 1).
type Vec3 struct {
	X, Y, Z float64
}

// Matrix3 is a row-major 3x3 matrix, generalizing the 2D affine matrices
// used for plain text layout to the perspective transforms needed for
// \frx/\fry/\frz rotation.
type Matrix3 struct {
	M [3][3]float64
}

// Identity returns the identity transform.
func Identity() Matrix3 {
	return Matrix3{M: [3][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix3 {
	m := Identity()
	m.M[0][2] = tx
	m.M[1][2] = ty
	return m
}

// Scale returns a scaling matrix.
func Scale(sx, sy float64) Matrix3 {
	m := Identity()
	m.M[0][0] = sx
	m.M[1][1] = sy
	return m
}

// Shear returns a shear matrix in the style of ASS \fax/\fay: shx skews
// x as a function of y, shy skews y as a function of x.
func Shear(shx, shy float64) Matrix3 {
	m := Identity()
	m.M[0][1] = shx
	m.M[1][0] = shy
	return m
}

// Multiply returns a*b (applies b first, then a).
func Multiply(a, b Matrix3) Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a.M[i][k] * b.M[k][j]
			}
			out.M[i][j] = sum
		}
	}
	return out
}

// TransformPoint applies the matrix to a homogeneous point and performs
// the perspective divide, returning the resulting 2D point and the raw z
// (weight) the divide used, so callers can detect degenerate (z<=0) cases.
func (m Matrix3) TransformPoint(x, y float64) (px, py, z float64) {
	rx := m.M[0][0]*x + m.M[0][1]*y + m.M[0][2]
	ry := m.M[1][0]*x + m.M[1][1]*y + m.M[1][2]
	rz := m.M[2][0]*x + m.M[2][1]*y + m.M[2][2]
	if rz == 0 {
		return rx, ry, rz
	}
	return rx / rz, ry / rz, rz
}

// TransformVec3 applies the matrix to a homogeneous vector without
// performing the perspective divide.
func (m Matrix3) TransformVec3(v Vec3) Vec3 {
	return Vec3{
		X: m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z,
		Y: m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z,
		Z: m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z,
	}
}

// IsIdentity reports whether the matrix is (numerically) the identity.
func (m Matrix3) IsIdentity() bool {
	return m == Identity()
}

// Invert returns the inverse of m and whether the matrix was invertible.
func (m Matrix3) Invert() (Matrix3, bool) {
	a, b, c := m.M[0][0], m.M[0][1], m.M[0][2]
	d, e, f := m.M[1][0], m.M[1][1], m.M[1][2]
	g, h, i := m.M[2][0], m.M[2][1], m.M[2][2]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if det == 0 {
		return Identity(), false
	}
	invDet := 1 / det

	var out Matrix3
	out.M[0][0] = (e*i - f*h) * invDet
	out.M[0][1] = (c*h - b*i) * invDet
	out.M[0][2] = (b*f - c*e) * invDet
	out.M[1][0] = (f*g - d*i) * invDet
	out.M[1][1] = (a*i - c*g) * invDet
	out.M[1][2] = (c*d - a*f) * invDet
	out.M[2][0] = (d*h - e*g) * invDet
	out.M[2][1] = (b*g - a*h) * invDet
	out.M[2][2] = (a*e - b*d) * invDet
	return out, true
}

// Perspective folds a pinhole camera at the given distance into rot's
// third row, turning rot's raw rotated-z output into the homogeneous
// weight w = 1 - z/distance that TransformPoint's perspective divide
// expects. distance <= 0 disables the camera (rot is returned as-is).
func Perspective(rot Matrix3, distance float64) Matrix3 {
	if distance <= 0 {
		return rot
	}
	m := rot
	for col := 0; col < 3; col++ {
		m.M[2][col] = -rot.M[2][col] / distance
	}
	m.M[2][2] += 1
	return m
}

// RotateXYZ builds a 3D rotation matrix applying rotation around X, then
// Y, then Z (degrees), the order \frx/\fry/\frz rotation uses.
func RotateXYZ(rxDeg, ryDeg, rzDeg float64) Matrix3 {
	rx := rxDeg * math.Pi / 180
	ry := ryDeg * math.Pi / 180
	rz := rzDeg * math.Pi / 180

	cx, sx := math.Cos(rx), math.Sin(rx)
	cy, sy := math.Cos(ry), math.Sin(ry)
	cz, sz := math.Cos(rz), math.Sin(rz)

	// R = Rz * Ry * Rx, each a standard 3x3 rotation embedded in the
	// top-left of an otherwise-identity Matrix3.
	rotX := Matrix3{M: [3][3]float64{
		{1, 0, 0},
		{0, cx, -sx},
		{0, sx, cx},
	}}
	rotY := Matrix3{M: [3][3]float64{
		{cy, 0, sy},
		{0, 1, 0},
		{-sy, 0, cy},
	}}
	rotZ := Matrix3{M: [3][3]float64{
		{cz, -sz, 0},
		{sz, cz, 0},
		{0, 0, 1},
	}}
	return Multiply(rotZ, Multiply(rotY, rotX))
}
