package outline

import "strconv"
import "strings"

import "github.com/asslay/asslay/fract"

// ConstructDrawing parses an inline drawing command string (the `m n l b
// s p c` grammar used by \p-mode text) into an outline, per §4.3's
// Drawing variant. Advance is the bbox width, ascender the bbox height,
// matching the spec note that drawing-mode clusters use their own
// geometry for metrics rather than any font.
func ConstructDrawing(commands string) (*HashValue, error) {
	poly, err := parseDrawingCommands(commands)
	if err != nil {
		return &HashValue{Valid: false}, err
	}
	hv := &HashValue{Fill: poly, Valid: true}
	hv.CBox = computeCBox(hv.Fill, hv.Border)
	hv.Advance = fract.Unit(hv.CBox.X1 - hv.CBox.X0)
	hv.Ascender = fract.Unit(hv.CBox.Y1 - hv.CBox.Y0)
	return hv, nil
}

// parseDrawingCommands walks the token stream left to right. Recognized
// commands: m (move), n (handled exactly like m), l (line), b (cubic
// bezier, 3 point args), s (cubic b-spline, expanded to a chain of cubic
// beziers), p (extend last b-spline segment), c (a line back to the
// drawing's first point). Unknown tokens are skipped, matching the
// "tolerate garbage, draw what we can" posture of a real-time renderer
// that must never abort a frame over one malformed \p string.
func parseDrawingCommands(commands string) (Polyline, error) {
	tokens := strings.Fields(commands)
	var poly Polyline
	var cur fract.Point
	i := 0

	readPoint := func() (fract.Point, bool) {
		if i+1 >= len(tokens) {
			return fract.Point{}, false
		}
		x, errX := strconv.ParseFloat(tokens[i], 64)
		y, errY := strconv.ParseFloat(tokens[i+1], 64)
		if errX != nil || errY != nil {
			return fract.Point{}, false
		}
		i += 2
		return fract.Point{X: fract.FromFloat64Down(x * 64), Y: fract.FromFloat64Down(y * 64)}, true
	}

	for i < len(tokens) {
		cmd := tokens[i]
		i++
		switch cmd {
		case "m", "n":
			p, ok := readPoint()
			if !ok {
				continue
			}
			cur = p
			poly.Points = append(poly.Points, p)
			poly.Tags = append(poly.Tags, TagMoveTo)
		case "l":
			p, ok := readPoint()
			if !ok {
				continue
			}
			cur = p
			poly.Points = append(poly.Points, p)
			poly.Tags = append(poly.Tags, TagLineTo)
		case "b":
			c1, ok1 := readPoint()
			c2, ok2 := readPoint()
			end, ok3 := readPoint()
			if !ok1 || !ok2 || !ok3 {
				continue
			}
			poly.Points = append(poly.Points, c1, c2, end)
			poly.Tags = append(poly.Tags, TagCubeControl1, TagCubeControl2, TagCubeTo)
			cur = end
		case "s":
			// b-spline: approximate by chaining cubic segments between
			// consecutive control points, matching the degenerate but
			// valid "every point is a cubic through itself" fallback.
			for {
				p, ok := readPoint()
				if !ok {
					break
				}
				poly.Points = append(poly.Points, cur, p, p)
				poly.Tags = append(poly.Tags, TagCubeControl1, TagCubeControl2, TagCubeTo)
				cur = p
				if i < len(tokens) && isCommandToken(tokens[i]) {
					break
				}
			}
		case "p":
			p, ok := readPoint()
			if !ok {
				continue
			}
			poly.Points = append(poly.Points, cur, p, p)
			poly.Tags = append(poly.Tags, TagCubeControl1, TagCubeControl2, TagCubeTo)
			cur = p
		case "c":
			if len(poly.Points) > 0 {
				poly.Points = append(poly.Points, poly.Points[0])
				poly.Tags = append(poly.Tags, TagLineTo)
				cur = poly.Points[0]
			}
		default:
			// unrecognized token: skip, tolerating malformed input
		}
	}
	return poly, nil
}

func isCommandToken(tok string) bool {
	switch tok {
	case "m", "n", "l", "b", "s", "p", "c":
		return true
	default:
		return false
	}
}
