package fract

// A pair of [Point] values defining a rectangular region.
// Like [image.Rectangle], the Max point is not included
// in the rectangle. The behavior for malformed rectangles
// is undefined.
//
// Used for script-space clip rectangles (\clip) and for the
// device-space mask bounds a rasterized vector clip occupies.
type Rect struct {
	Min Point
	Max Point
}

// Creates a rect from a set of four units.
func UnitsToRect(minX, minY, maxX, maxY Unit) Rect {
	return Rect{
		Min: Point{ X: minX, Y: minY },
		Max: Point{ X: maxX, Y: maxY },
	}
}

// Creates a rect from a pair of points.
func PointsToRect(min, max Point) Rect {
	return Rect{ Min: min, Max: max }
}

// Creates a rect from a set of four integers.
func IntsToRect(minX, minY, maxX, maxY int) Rect {
	return Rect{
		Min: Point{ X: FromInt(minX), Y: FromInt(minY) },
		Max: Point{ X: FromInt(maxX), Y: FromInt(maxY) },
	}
}

// Returns the rect coordinates as a set of four ints.
// The conversion may introduce a loss of precision, but the
// returned ints are guaranteed to contain the original
// rect. This is the rounding mode clipImage needs: the clip
// bound must never be tighter than the script-space rect it
// was derived from.
func (self Rect) ToInts() (minX, minY, maxX, maxY int) {
	return self.Min.X.ToIntFloor(), self.Min.Y.ToIntFloor(), self.Max.X.ToIntCeil(), self.Max.Y.ToIntCeil()
}

// Returns the rect coordinates as a set of four float64s.
func (self Rect) ToFloat64s() (minX, minY, maxX, maxY float64) {
	return self.Min.X.ToFloat64(), self.Min.Y.ToFloat64(), self.Max.X.ToFloat64(), self.Max.Y.ToFloat64()
}

// Returns the width of the rect.
func (self Rect) Width() Unit {
	return self.Max.X - self.Min.X
}

// Returns the width of the rect as an int. The conversion
// may introduce a loss of precision, but the returned
// int width is guaranteed to be >= than the original.
func (self Rect) IntWidth() int {
	return self.Width().ToIntCeil()
}

// Returns the height of the rect.
func (self Rect) Height() Unit {
	return self.Max.Y - self.Min.Y
}

// Returns the height of the rect as an int. The conversion
// may introduce a loss of precision, but the returned
// int height is guaranteed to be >= than the original.
func (self Rect) IntHeight() int {
	return self.Height().ToIntCeil()
}

// Utility method equivalent to ([Rect.Width](), [Rect.Height]()).
func (self Rect) Size() (width, height Unit) {
	return self.Width(), self.Height()
}

// Returns the Min point as a pair of ints. The conversion
// may introduce a loss of precision, but the returned
// coordinates are guaranteed to be <= than the original.
func (self Rect) IntOrigin() (int, int) {
	return self.Min.X.ToIntFloor(), self.Min.Y.ToIntFloor()
}

// Returns whether the Min point is (0, 0) or not.
func (self Rect) HasZeroOrigin() bool {
	return self.Min.X == 0 && self.Min.Y == 0
}

// Returns whether the rect is empty or not.
func (self Rect) Empty() bool {
	return self.Min.X >= self.Max.X || self.Min.Y >= self.Max.Y
}

// Returns the result of translating the rect by the given values.
func (self Rect) AddUnits(x, y Unit) Rect {
	self.Min.X += x
	self.Min.Y += y
	self.Max.X += x
	self.Max.Y += y
	return self
}

// Returns the result of translating the rect by the given values.
func (self Rect) AddInts(x, y int) Rect {
	xFract, yFract := FromInt(x), FromInt(y)
	return self.AddUnits(xFract, yFract)
}

// Returns the result of translating the rect by the given value.
func (self Rect) AddPoint(pt Point) Rect {
	return self.AddUnits(pt.X, pt.Y)
}

// Returns whether the rect contains the given point or not.
//
// Remember that point == Rect.Min is included, but point == Rect.Max
// is not.
func (self Rect) Contains(point Point) bool {
	return point.In(self)
}

// Returns a textual representation of the rect (e.g.: "(0, 0) - (1.5, 8.5)").
func (self Rect) String() string {
	return self.Min.String() + "-" + self.Max.String()
}
