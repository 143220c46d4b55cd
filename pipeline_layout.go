package asslay

import (
	"golang.org/x/text/unicode/bidi"

	"github.com/asslay/asslay/fract"
	"github.com/asslay/asslay/geom"
	"github.com/asslay/asslay/raster"
	"github.com/asslay/asslay/style"
)

// preliminaryLayout is phase 7: walk glyphs in logical order, splitting
// on forced breaks (\N, \n) and accumulating a running pen position
// within each line. Wrapping (soft breaks) is introduced afterward by
// wrapLinesSmart; this pass only establishes the unwrapped baseline the
// wrap pass measures against.
func (p *eventPipeline) preliminaryLayout() {
	line := 0
	penX := 0.0
	for _, g := range p.glyphs {
		g.line = line
		if g.lineBreak == 2 {
			g.skip = true
			line++
			penX = 0
			continue
		}
		g.penX = penX
		penX += g.advance / 64 * g.rs.scaleX
	}
}

// wrapLinesSmart is phase 8 (§4.5.1): greedy pass-1 line breaking
// against the frame's available text width, an optional balancing
// pass-2 that nudges breaks to even out line widths, trim_whitespace to
// drop trailing spaces from each wrapped line, and measure_text to fill
// in p.lines.
func (p *eventPipeline) wrapLinesSmart() {
	p.maxTextWidth = p.computeMaxTextWidth()
	noWrap := p.rs.wrapStyle == 2

	if !noWrap {
		p.greedyWrapPass()
		if p.rs.wrapStyle != 1 {
			p.balanceWrapPass()
		}
	}
	p.trimTrailingWhitespace()
	p.measureLines()
}

func (p *eventPipeline) computeMaxTextWidth() float64 {
	axes := p.rs.axes(p.cfg)
	width := axes.FrameWidth
	if axes.UseMargins {
		width -= axes.LeftMargin + float64(p.evt.MarginR)
	}
	if width <= 0 {
		width = axes.FrameWidth
	}
	return width
}

// greedyWrapPass walks the logical glyph stream per existing line,
// inserting a soft break at the last space before the line would
// overflow maxTextWidth.
func (p *eventPipeline) greedyWrapPass() {
	lineStart := 0
	lastSpace := -1
	for i := 0; i < len(p.glyphs); i++ {
		g := p.glyphs[i]
		if g.skip {
			lineStart = i + 1
			lastSpace = -1
			continue
		}
		if g.rune == ' ' {
			lastSpace = i
		}
		right := g.penX + g.advance/64*g.rs.scaleX
		if right-p.glyphs[lineStart].penX > p.maxTextWidth && i > lineStart {
			breakAt := lastSpace
			if breakAt < lineStart {
				breakAt = i - 1
			}
			p.glyphs[breakAt].lineBreak = 1
			p.glyphs[breakAt].skip = true
			p.reflowFrom(breakAt + 1)
			lineStart = breakAt + 1
			lastSpace = -1
		}
	}
}

// reflowFrom resets penX for every glyph from idx to the end of its
// (new) line to start at zero, after a break is inserted at idx-1.
func (p *eventPipeline) reflowFrom(idx int) {
	penX := 0.0
	line := 0
	if idx > 0 {
		line = p.glyphs[idx-1].line + 1
	}
	for i := idx; i < len(p.glyphs); i++ {
		g := p.glyphs[i]
		if g.lineBreak != 0 {
			g.line = line
			line++
			penX = 0
			continue
		}
		g.line = line
		g.penX = penX
		penX += g.advance / 64 * g.rs.scaleX
	}
}

// balanceWrapPass is the "smart" half of WrapStyle 0/3: while the spread
// between the widest and narrowest line is at least 10% of maxTextWidth,
// it moves the soft break ending the widest line one word earlier, at
// most once per break. A move is not checked for reducing the spread;
// the pass stops when the widest line's break cannot be moved (the last
// line, or a hard break).
func (p *eventPipeline) balanceWrapPass() {
	breaks := p.lineBreakIndices()
	for pass := 0; pass < len(breaks); pass++ {
		widths := p.lineWidths(breaks)
		if len(widths) < 2 {
			return
		}
		maxW, minW := widths[0], widths[0]
		maxIdx := 0
		for i, w := range widths {
			if w > maxW {
				maxW, maxIdx = w, i
			}
			if w < minW {
				minW = w
			}
		}
		if maxW-minW < p.maxTextWidth*0.1 {
			return
		}
		if !p.shiftBreakEarlier(breaks, maxIdx) {
			return
		}
		breaks = p.lineBreakIndices()
	}
}

func (p *eventPipeline) lineBreakIndices() []int {
	var breaks []int
	for i, g := range p.glyphs {
		if g.lineBreak != 0 {
			breaks = append(breaks, i)
		}
	}
	return breaks
}

func (p *eventPipeline) lineWidths(breaks []int) []float64 {
	widths := make([]float64, 0, len(breaks)+1)
	start := 0
	for _, b := range append(breaks, len(p.glyphs)-1) {
		w := 0.0
		for i := start; i <= b && i < len(p.glyphs); i++ {
			g := p.glyphs[i]
			if g.lineBreak != 0 {
				continue
			}
			w = g.penX + g.advance/64*g.rs.scaleX
		}
		widths = append(widths, w)
		start = b + 1
	}
	return widths
}

// shiftBreakEarlier moves the soft break ending line lineIdx back to
// the previous space, reflowing everything after it. Returns false if
// there's no earlier space to move to (nothing changed).
func (p *eventPipeline) shiftBreakEarlier(breaks []int, lineIdx int) bool {
	if lineIdx >= len(breaks) {
		return false
	}
	cur := breaks[lineIdx]
	if p.glyphs[cur].lineBreak != 1 {
		return false // only soft breaks are adjustable
	}
	for i := cur - 1; i > 0; i-- {
		if p.glyphs[i].rune == ' ' && p.glyphs[i].lineBreak == 0 {
			p.glyphs[cur].lineBreak = 0
			p.glyphs[cur].skip = false
			p.glyphs[i].lineBreak = 1
			p.glyphs[i].skip = true
			p.reflowFrom(0)
			return true
		}
	}
	return false
}

// trimTrailingWhitespace marks each line's trailing run of spaces
// (immediately before a break or the end of text) as trimmed and
// skipped, per trim_whitespace.
func (p *eventPipeline) trimTrailingWhitespace() {
	lineEnd := func(end int) {
		for i := end; i >= 0 && p.glyphs[i].rune == ' ' && !p.glyphs[i].skip; i-- {
			p.glyphs[i].trimmed = true
			p.glyphs[i].skip = true
		}
	}
	start := 0
	for i, g := range p.glyphs {
		if g.lineBreak != 0 {
			lineEnd(i - 1)
			start = i + 1
		}
	}
	if start <= len(p.glyphs)-1 {
		lineEnd(len(p.glyphs) - 1)
	}
}

// measureLines is measure_text: fills p.lines with each line's glyph
// range, width and ascender/descender extent.
func (p *eventPipeline) measureLines() {
	p.lines = nil
	start := 0
	for i := 0; i <= len(p.glyphs); i++ {
		if i == len(p.glyphs) || p.glyphs[i].lineBreak != 0 {
			p.lines = append(p.lines, p.measureRange(start, i))
			start = i + 1
		}
	}
}

func (p *eventPipeline) measureRange(start, end int) lineInfo {
	li := lineInfo{start: start, end: end}
	for i := start; i < end && i < len(p.glyphs); i++ {
		g := p.glyphs[i]
		if g.skip {
			continue
		}
		right := g.penX + g.advance/64*g.rs.scaleX
		if right > li.width {
			li.width = right
		}
		if g.outline != nil {
			asc := float64(g.outline.Ascender) / 64
			desc := float64(g.outline.Descender) / 64
			if asc > li.ascender {
				li.ascender = asc
			}
			if desc < li.descender {
				li.descender = desc
			}
		}
	}
	if li.ascender == 0 && li.descender == 0 {
		li.ascender = p.rs.style.FontSize * 0.8
		li.descender = -p.rs.style.FontSize * 0.2
	}
	return li
}

// applyKaraoke is phase 9: for K/KF/KO/KT runs, nothing needs doing to
// glyph geometry — the combine stage reads renderState.karaoke directly
// off each cluster's style snapshot. This phase records each karaoke
// glyph's pen x in its renderState snapshot's scrollShift; nothing reads
// that value back; the combine stage takes a run's leftmost x from its
// fill bitmap placements instead.
func (p *eventPipeline) applyKaraoke() {
	for _, g := range p.glyphs {
		if g.skip || g.rs.karaoke == KaraokeNone {
			continue
		}
		g.rs.scrollShift = int(g.penX)
	}
}

// reorder is phase 10: apply BiDi visual reordering within each line,
// using golang.org/x/text/unicode/bidi's run ordering, then re-walk the
// pen position left to right in the new visual order.
func (p *eventPipeline) reorder() {
	for li := range p.lines {
		p.reorderLine(&p.lines[li])
	}
}

func (p *eventPipeline) reorderLine(line *lineInfo) {
	runes := make([]rune, 0, line.end-line.start)
	idxOf := make([]int, 0, line.end-line.start)
	for i := line.start; i < line.end && i < len(p.glyphs); i++ {
		if p.glyphs[i].skip {
			continue
		}
		runes = append(runes, p.glyphs[i].rune)
		idxOf = append(idxOf, i)
	}
	if len(runes) == 0 {
		return
	}

	var para bidi.Paragraph
	if _, err := para.SetString(string(runes)); err != nil {
		return
	}
	ordering, err := para.Order()
	if err != nil || ordering.NumRuns() < 2 {
		return
	}

	visual := make([]int, 0, len(idxOf))
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		lo, hi := run.Pos()
		if run.Direction() == bidi.RightToLeft {
			for j := hi - 1; j >= lo; j-- {
				visual = append(visual, idxOf[j])
			}
		} else {
			for j := lo; j < hi; j++ {
				visual = append(visual, idxOf[j])
			}
		}
	}

	penX := 0.0
	for _, gi := range visual {
		g := p.glyphs[gi]
		g.penX = penX
		penX += g.advance / 64 * g.rs.scaleX
	}
	line.width = penX
}

// align is phase 11 (§4.5.2): per-line horizontal shift against the
// widest line, honoring the event's alignment anchor, plus vertical
// stacking of lines within the text block.
func (p *eventPipeline) align() {
	blockWidth := 0.0
	for _, li := range p.lines {
		if li.width > blockWidth {
			blockWidth = li.width
		}
	}

	y := 0.0
	for li := range p.lines {
		line := &p.lines[li]
		var shiftX float64
		switch horizontalAnchor(p.rs.alignment) {
		case style.AnchorCenter:
			shiftX = (blockWidth - line.width) / 2
		case style.AnchorRight:
			shiftX = blockWidth - line.width
		}
		for i := line.start; i < line.end && i < len(p.glyphs); i++ {
			g := p.glyphs[i]
			if g.skip {
				continue
			}
			g.penX += shiftX
			g.penY = y + line.ascender
		}
		y += line.ascender - line.descender + p.cfg.LineSpacing
	}
	p.maxTextWidth = blockWidth
}

func horizontalAnchor(alignment int) style.Anchor {
	switch alignment {
	case 1, 4, 7:
		return style.AnchorLeft
	case 3, 6, 9:
		return style.AnchorRight
	default:
		return style.AnchorCenter
	}
}

func verticalRow(alignment int) int {
	switch {
	case alignment >= 7:
		return 0 // top
	case alignment >= 4:
		return 1 // middle
	default:
		return 2 // bottom
	}
}

// computeDeviceOrigin is phase 12: resolve the screen-space origin the
// laid-out block is drawn at. An explicit \pos/\move override wins on
// both axes; a \Effect Banner/Scroll placement (evtScrollHorizontal/
// evtScrollVertical) drives one axis from scrollShiftPixels and leaves
// the other at its \pos value or the alignment+margins default, per
// ass_render.c's "an event can be both positioned and scrolling, and
// the scrolling effect overrides the position on one axis" handling.
func (p *eventPipeline) computeDeviceOrigin() {
	rs := p.rs
	axes := rs.axes(p.cfg)

	blockHeight := 0.0
	for _, li := range p.lines {
		blockHeight += li.ascender - li.descender + p.cfg.LineSpacing
	}

	if rs.posSet {
		p.deviceOriginX = style.ScriptToScreenX(rs.posX, axes, horizontalAnchor(rs.alignment), false, true)
		p.deviceOriginY = style.ScriptToScreenY(rs.posY, axes, false)
	}

	switch rs.evtType {
	case evtScrollHorizontal:
		p.deviceOriginX = p.horizontalScrollOrigin(axes)
		if !rs.posSet {
			p.deviceOriginY = p.defaultOriginY(axes, blockHeight)
		}
		return
	case evtScrollVertical:
		p.deviceOriginY = p.verticalScrollOrigin(axes, blockHeight)
		if !rs.posSet {
			p.deviceOriginX = p.defaultOriginX(axes)
		}
		return
	}

	if rs.posSet {
		return
	}

	p.deviceOriginX = p.defaultOriginX(axes)
	p.deviceOriginY = p.defaultOriginY(axes, blockHeight)
}

// scrollShiftPixels is the legacy \Effect Banner/Scroll timing model:
// the block advances one pixel every Scroll.DelayMs of elapsed event
// time, clamped to the distance the block needs to fully cross its
// band so it doesn't keep sliding once it's run off either edge.
func (p *eventPipeline) scrollShiftPixels(travel float64) float64 {
	s := p.evt.Scroll
	if s.DelayMs <= 0 || travel <= 0 {
		return 0
	}
	elapsed := p.nowMs - p.evt.StartMs
	if elapsed < 0 {
		elapsed = 0
	}
	shift := float64(elapsed) / float64(s.DelayMs)
	if shift > travel {
		shift = travel
	}
	p.rs.scrollShift = int(shift)
	return shift
}

func (p *eventPipeline) horizontalScrollOrigin(axes style.Axes) float64 {
	travel := axes.FrameWidth + p.maxTextWidth
	shift := p.scrollShiftPixels(travel)
	switch p.evt.Scroll.Direction {
	case ScrollRight:
		return style.ScriptToScreenX(shift, axes, style.AnchorLeft, false, true) - p.maxTextWidth
	default: // ScrollLeft
		return style.ScriptToScreenX(float64(p.track.PlayResX), axes, style.AnchorLeft, false, true) - shift
	}
}

func (p *eventPipeline) verticalScrollOrigin(axes style.Axes, blockHeight float64) float64 {
	s := p.evt.Scroll
	travel := s.Y1 - s.Y0 + blockHeight
	shift := p.scrollShiftPixels(travel)
	switch s.Direction {
	case ScrollDown:
		return style.ScriptToScreenY(s.Y1, axes, false) - shift
	default: // ScrollUp
		return style.ScriptToScreenY(s.Y0, axes, false) + shift - blockHeight
	}
}

func (p *eventPipeline) defaultOriginX(axes style.Axes) float64 {
	rs := p.rs
	marginL := float64(p.evt.MarginL)
	if marginL == 0 {
		marginL = rs.style.MarginL
	}
	x := marginL
	switch horizontalAnchor(rs.alignment) {
	case style.AnchorCenter:
		x = (axes.FrameWidth - p.maxTextWidth) / 2
	case style.AnchorRight:
		x = axes.FrameWidth - marginL - p.maxTextWidth
	}
	return style.ScriptToScreenX(x, axes, style.AnchorLeft, axes.UseMargins, true)
}

func (p *eventPipeline) defaultOriginY(axes style.Axes, blockHeight float64) float64 {
	rs := p.rs
	marginV := float64(p.evt.MarginV)
	if marginV == 0 {
		marginV = rs.style.MarginV
	}
	var y float64
	switch verticalRow(rs.alignment) {
	case 0:
		y = marginV
	case 1:
		y = (axes.FrameHeight - blockHeight) / 2
	default:
		y = axes.FrameHeight - marginV - blockHeight
	}
	return style.ScriptToScreenY(y, axes, axes.UseMargins)
}

// resolveClipRect is phase 13: convert the script-space clip (if any) to
// device space. A rectangular \clip/\iclip maps straight through
// ScriptToScreen{X,Y}; a vector \clip/\iclip is rasterized into a mask
// by resolveClipDrawing. An unset clip defaults to the full frame so
// downstream compositing can always intersect against it.
func (p *eventPipeline) resolveClipRect() {
	axes := p.rs.axes(p.cfg)
	full := fract.IntsToRect(0, 0, int(axes.FrameWidth), int(axes.FrameHeight))

	if p.rs.clipDrawing != nil {
		p.resolveClipDrawing(axes, full)
		return
	}
	if !p.rs.clipSet {
		p.rs.clipRect = full
		return
	}

	min := p.rs.clipRect.Min
	max := p.rs.clipRect.Max
	x0 := style.ScriptToScreenX(float64(min.X)/64, axes, style.AnchorLeft, false, true)
	y0 := style.ScriptToScreenY(float64(min.Y)/64, axes, false)
	x1 := style.ScriptToScreenX(float64(max.X)/64, axes, style.AnchorLeft, false, true)
	y1 := style.ScriptToScreenY(float64(max.Y)/64, axes, false)
	p.rs.clipRect = fract.IntsToRect(int(x0), int(y0), int(x1), int(y1))
}

// resolveClipDrawing rasterizes a \clip/\iclip vector-drawing outline
// into a device-space mask bitmap, the same way getBitmapGlyph
// rasterizes a glyph outline, so clipImage can apply it pixel-exactly
// instead of degenerating to the full frame. The outline's own
// coordinates are already in script space; only the horizontal PAR
// scale (font_scale_x) carries over, matching the rectangular-clip
// mapping above (useMargins false, scaled true).
func (p *eventPipeline) resolveClipDrawing(axes style.Axes, full fract.Rect) {
	hv := p.rs.clipDrawing
	if hv == nil || !hv.Valid {
		p.rs.clipRect = full
		return
	}

	m := geom.Scale(axes.FontScaleX, 1)
	var residual geom.Residual
	q := geom.QuantizeTransform(m, hv.CBox, false, &residual)
	if !q.Valid {
		p.rs.clipRect = full
		return
	}
	restored := geom.RestoreTransform(q, hv.CBox)
	bmp, err := raster.Build(hv.Fill, restored, false)
	if err != nil || bmp == nil || bmp.W == 0 || bmp.H == 0 {
		p.rs.clipRect = full
		return
	}

	p.clipMask = bmp
	p.clipMaskX, p.clipMaskY = int(q.PosX), int(q.PosY)
	p.clipMaskInverse = p.rs.clipInverse
	p.rs.clipRect = fract.IntsToRect(p.clipMaskX, p.clipMaskY, p.clipMaskX+bmp.W, p.clipMaskY+bmp.H)
}

// resolveRotationOrigin is phase 14: it stores the screen position of an
// explicit \org in rotOriginX/Y, or the block's device origin when there
// is no \org. Nothing reads rotOriginX/Y afterwards: the combine stage
// rotates each glyph about its own pen position.
func (p *eventPipeline) resolveRotationOrigin() {
	if p.rs.rotOrgSet {
		axes := p.rs.axes(p.cfg)
		p.rotOriginX = style.ScriptToScreenX(p.rs.rotOrgX, axes, horizontalAnchor(p.rs.alignment), false, true)
		p.rotOriginY = style.ScriptToScreenY(p.rs.rotOrgY, axes, false)
		return
	}
	p.rotOriginX, p.rotOriginY = p.deviceOriginX, p.deviceOriginY
}
