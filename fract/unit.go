package fract

// Fixed point type to represent fractional values used for font rendering.
//
// 26 bits represent the integer part of the value, while the remaining 6 bits
// represent the decimal part. For an intuitive understanding, if you can
// understand that var ms Millis = 1000 is storing the equivalent to 1 second,
// with Unit, instead of thousandths of a value, you are storing 64ths. So,
// var pixels Unit = 64 would mean 1 pixel, and 96 would be 1.5 pixels.
//
// In the rendering pipeline, Unit is used for script-space drawing
// points and clip rectangles and for the pen positions reported by
// GlyphInfo; the pipeline's own pen arithmetic runs in float64.
//
// The internal representation is compatible with [fixed.Int26_6].
//
// [fixed.Int26_6]: golang.org/x/image/math/fixed.Int26_6
type Unit int32

// Returns only the fractional part of the Unit.
// TODO: what about negative values?
func (self Unit) Fract() Unit {
	return self % 64
}

// Mul multiplies two Units, used for example when applying a PAR
// (pixel aspect ratio) scale factor already expressed as a Unit
// ratio rather than a float64.
func (self Unit) Mul(multiplier Unit) Unit {
	mx64 := int64(self)*int64(multiplier)
	return Unit((mx64 + 32) >> 6)
}

func (self Unit) ToFloat64() float64 {
	return float64(self)/64.0 // *
	// math.Ldexp(float64(self), -6) also sounds good and works, but it's
	// slower. even with amd64 assembly, lack of inlining kills perf.
	// also, https://go-review.googlesource.com/c/go/+/291229
}

func (self Unit) ToFloat32() float32 {
	return float32(self.ToFloat64())
}

// Defaults to [Unit.ToIntHalfUp](). For the fastest possible
// conversion to int, use [Unit.ToIntFloor]() instead.
func (self Unit) ToInt() int {
	return self.ToIntHalfUp()
}

// Fastest conversion from Unit to int.
func (self Unit) ToIntFloor() int {
	return (int(self) +  0) >> 6
}

func (self Unit) ToIntCeil() int {
	return (int(self) + 63) >> 6
}

func (self Unit) ToIntHalfDown() int {
	return (int(self) + 31) >> 6
}

func (self Unit) ToIntHalfUp() int {
	return (int(self) + 32) >> 6
}

func (self Unit) Floor() Unit {
	return self & ^0x3F
}

func (self Unit) Ceil() Unit {
	return (self + 0x3F).Floor()
}

func (self Unit) HalfDown() Unit {
	return (self + 31).Floor()
}

func (self Unit) HalfUp() Unit {
	return (self + 32).Floor()
}
