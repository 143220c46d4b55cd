package asslay

import "strconv"

// Direction is the resolved base writing direction of a line, following
// the paragraph embedding levels produced by golang.org/x/text/unicode/bidi.
//
// Directions can be cast directly to [unicode/bidi] directions:
//
//	bidi.Direction(asslay.LeftToRight)
type Direction int8

const (
	LeftToRight Direction = iota
	RightToLeft
	directionMixed
	directionNeutral
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "LeftToRight"
	case RightToLeft:
		return "RightToLeft"
	case directionMixed:
		return "Mixed"
	case directionNeutral:
		return "Neutral"
	default:
		return "UnknownDirection"
	}
}

func runeToUnicodeCode(r rune) string {
	return "\\u" + strconv.FormatInt(int64(r), 16)
}

func ensureSliceSize[T any](slice []T, size int) []T {
	if len(slice) >= size {
		return slice
	}
	if cap(slice) >= size {
		return slice[:size]
	}
	newSlice := make([]T, size)
	if len(slice) > 0 {
		copy(newSlice, slice)
	}
	return newSlice
}
