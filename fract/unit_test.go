package fract

import "testing"
import "math"

func TestToFloat64(t *testing.T) {
	tests := []struct {
		in  Unit
		out float64
	}{
		{0, 0}, {64, 1}, {32, 0.5}, {-32, -0.5},
		{1, 1.0/64.0}, {2, 2.0/64.0}, {-2, -2.0/64.0},
		{3, 3.0/64.0}, {63, 63.0/64.0}, {96, 1.5},
		{MinUnit, MinFloat64}, {MaxUnit, MaxFloat64},
	}

	for i, test := range tests {
		out := test.in.ToFloat64()
		if out != test.out {
			str := "test #%d: in %d expected out %f, but got %f"
			t.Fatalf(str, i, test.in, test.out, out)
		}
	}
}

func TestFract(t *testing.T) {
	tests := []struct {
		in  Unit
		out Unit
	}{
		{0, 0}, {32, 32}, {64, 0}, {31, 31}, {63, 63},
		{127, 63}, {65, 1}, {96, 32},
		{-32, -32}, {-1, -1}, {-31, -31}, {-33, -33},
		{-64, 0}, {-128, 0}, {-65, -1},
	}

	for i, test := range tests {
		out := test.in.Fract()
		if out != test.out {
			str := "test #%d: in %d (%f) expected out %d, but got %d"
			t.Fatalf(str, i, test.in, test.in.ToFloat64(), test.out, out)
		}
		_, fract := math.Modf(test.in.ToFloat64())
		if fract != out.ToFloat64() { panic("bad test") }
	}
}

func TestToIntFloor(t *testing.T) {
	tests := []struct {
		in  Unit
		out int
	}{
		{   0,  0}, { 32,  0}, {  96,  1}, {  64,  1},
		{  65,  1}, { 63,  0}, { -64, -1}, { -65, -2},
		{ -63, -1}, {-96, -2}, {-127, -2}, {-128, -2},
		{-129, -3}, {127,  1}, { 129,  2},
	}

	for i, test := range tests {
		out := test.in.ToIntFloor()
		if out != test.out {
			str := "test #%d: in %d (%f) expected out %d, but got %d"
			t.Fatalf(str, i, test.in, test.in.ToFloat64(), test.out, out)
		}
	}
}

func TestToIntCeil(t *testing.T) {
	tests := []struct {
		in  Unit
		out int
	}{
		{   0,  0}, { 32,  1}, {  96,  2}, {  64,  1},
		{  65,  2}, { 63,  1}, { -64, -1}, { -65, -1},
		{ -63,  0}, {-96, -1}, {-127, -1}, {-128, -2},
		{-129, -2}, {127,  2}, { 129,  3},
	}

	for i, test := range tests {
		out := test.in.ToIntCeil()
		if out != test.out {
			str := "test #%d: in %d (%f) expected out %d, but got %d"
			t.Fatalf(str, i, test.in, test.in.ToFloat64(), test.out, out)
		}
	}
}

func TestToIntHalfDown(t *testing.T) {
	tests := []struct {
		in  Unit
		out int
	}{
		{0, 0}, {64, 1}, {-64, -1}, {128, 2}, {-128, -2},
		{32, 0}, {31, 0}, {33, 1}, {63, 1}, {64 + 32, 1}, {64 + 33, 2}, {64 + 31, 1},
		{-1, 0}, {-32, -1}, {-31, 0}, {-33, -1}, {-65, -1},
		{-64 - 33, -2}, {-64 - 32, -2}, {-64 - 31, -1},
	}

	for i, test := range tests {
		out := test.in.ToIntHalfDown()
		if out != test.out {
			str := "test #%d: in %d (%f), expected out %d, but got %d"
			t.Fatalf(str, i, test.in, test.in.ToFloat64(), test.out, out)
		}
	}
}

func TestToIntHalfUp(t *testing.T) {
	tests := []struct {
		in  Unit
		out int
	}{
		{0, 0}, {64, 1}, {-64, -1}, {128, 2}, {-128, -2},
		{32, 1}, {31, 0}, {33, 1}, {63, 1}, {64 + 32, 2}, {64 + 33, 2}, {64 + 31, 1},
		{-1, 0}, {-32, 0}, {-31, 0}, {-33, -1}, {-65, -1},
		{-64 - 33, -2}, {-64 - 32, -1}, {-64 - 31, -1},
	}

	for i, test := range tests {
		out := test.in.ToIntHalfUp()
		if out != test.out {
			str := "test #%d: in %d (%f), expected out %d, but got %d"
			t.Fatalf(str, i, test.in, test.in.ToFloat64(), test.out, out)
		}
		if out != test.in.ToInt() {
			str := "test #%d: ToIntHalfUp() != ToInt() (with in %d (%f))"
			t.Fatalf(str, i, test.in, test.in.ToFloat64())
		}
	}
}

func TestFloor(t *testing.T) {
	tests := []struct {
		in  Unit
		out Unit
	}{
		{   0,   0}, { 32,  0}, {  96,  64}, {  64, 64},
		{  65,  64}, { 63,  0}, { -64, -64}, { -65, -128},
		{ -63, -64}, {-96, -128}, {-127, -128}, {-128, -128},
		{-129, -192}, {127,  64}, { 129,  128},
	}

	for i, test := range tests {
		out := test.in.Floor()
		if out != test.out {
			str := "test #%d: in %d (%f) expected out %d (%f), but got %d (%f)"
			t.Fatalf(str, i, test.in, test.in.ToFloat64(), test.out, test.out.ToFloat64(), out, out.ToFloat64())
		}
	}
}

func TestCeil(t *testing.T) {
	tests := []struct {
		in  Unit
		out Unit
	}{
		{   0,   0}, { 32, 64}, { 96, 128}, { 64,  64},
		{  65, 128}, { 63, 64}, {-64, -64}, {-65, -64},
		{ -63,    0}, {-96, -64}, {-127, -64}, {-128, -128},
		{-129, -128}, {127, 128}, { 129, 192},
	}

	for i, test := range tests {
		out := test.in.Ceil()
		if out != test.out {
			str := "test #%d: in %d (%f) expected out %d (%f), but got %d (%f)"
			t.Fatalf(str, i, test.in, test.in.ToFloat64(), test.out, test.out.ToFloat64(), out, out.ToFloat64())
		}
	}
}

func TestHalfDown(t *testing.T) {
	tests := []struct {
		in  Unit
		out Unit
	}{
		{0, 0}, {64, 64}, {-64, -64}, {128, 128}, {-128, -128},
		{32, 0}, {31, 0}, {33, 64}, {63, 64}, {64 + 32, 64}, {64 + 33, 128}, {64 + 31, 64},
		{-1, 0}, {-32, -64}, {-31, 0}, {-33, -64}, {-65, -64},
		{-64 - 33, -128}, {-64 - 32, -128}, {-64 - 31, -64},
	}

	for i, test := range tests {
		out := test.in.HalfDown()
		if out != test.out {
			str := "test #%d: in %d (%f), expected out %d, but got %d"
			t.Fatalf(str, i, test.in, test.in.ToFloat64(), test.out, out)
		}
	}
}

func TestHalfUp(t *testing.T) {
	tests := []struct {
		in  Unit
		out Unit
	}{
		{0, 0}, {64, 64}, {-64, -64}, {128, 128}, {-128, -128},
		{32, 64}, {31, 0}, {33, 64}, {63, 64}, {64 + 32, 128}, {64 + 33, 128}, {64 + 31, 64},
		{-1, 0}, {-32, 0}, {-31, 0}, {-33, -64}, {-65, -64},
		{-64 - 33, -128}, {-64 - 32, -64}, {-64 - 31, -64},
	}

	for i, test := range tests {
		out := test.in.HalfUp()
		if out != test.out {
			str := "test #%d: in %d (%f), expected out %d, but got %d"
			t.Fatalf(str, i, test.in, test.in.ToFloat64(), test.out, out)
		}
	}
}

func TestMul(t *testing.T) {
	tests := []struct {
		in  Unit
		mul Unit
		out float64
	}{
		{0, 0, 0}, {0, 35, 0}, {-1125, 0, 0},
		{64, 182, 182/64.0}, {222, 64, 222/64.0},
		{64, 64, 1}, {64, -64, -1}, {64, 128, 2}, {128, -64, -2},
		{64, 32, 0.5}, {-64, -32, 0.5}, {32, -64, -0.5},
		{32, 32, 1/4.0}, {-32, -32, 1/4.0}, {32, -32, -1/4.0}, {-32, 32, -1/4.0},
		{64*3, 32, 1.5}, {64*2 + 2, 32, 1.0 + 1/64.0}, {64*3, -32, -1.5}, {-64*2 - 2, 32, -1.0 - 1/64.0},

		// some of the tricky inexact cases where the +32 makes a difference
		{-95, 31, -0.718750}, {-94, 30, -0.687500}, {-93, 29, -0.656250},
		{-92, 28, -0.625000}, {-91, 27, -0.593750}, {-87, 23, -0.484375},
		{-84, 20, -0.406250}, {-82, 18, -0.359375}, {-78, 14, -0.265625},
	}

	for i, test := range tests {
		out := test.in.Mul(test.mul).ToFloat64()
		if out != test.out {
			str := "test #%d: in %d (%f) * %d (%f), expected out %f, but got %f"
			t.Fatalf(str, i, test.in, test.in.ToFloat64(), test.mul, test.mul.ToFloat64(), test.out, out)
		}
	}
}
