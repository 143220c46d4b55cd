package asslay

import (
	"math"
	"strconv"
	"strings"

	"github.com/asslay/asslay/fract"
	"github.com/asslay/asslay/outline"
)

// parseTagsAndChars is phase 3 (parse_events): walk the event text,
// dispatching {...} runs to the tag interpreter and everything else to
// one glyphRecord per unicode scalar, snapshotting the current
// renderState into each record so later phases see the style that was
// active at that exact point in the text.
func (p *eventPipeline) parseTagsAndChars() {
	text := []rune(p.evt.Text)
	i := 0
	drawingMode := false
	startsRun := true
	var drawingBuf strings.Builder

	flushDrawing := func() {
		if drawingBuf.Len() == 0 {
			return
		}
		g := &glyphRecord{
			rune:       '￼', // object replacement: one cluster for the whole drawing run
			rs:         p.snapshotRenderState(),
			startsRun:  startsRun,
			isDrawing:  true,
			drawingCmd: drawingBuf.String(),
		}
		p.glyphs = append(p.glyphs, g)
		startsRun = false
		drawingBuf.Reset()
	}

	for i < len(text) {
		switch {
		case text[i] == '{':
			end := i + 1
			for end < len(text) && text[end] != '}' {
				end++
			}
			block := string(text[i+1 : min(end, len(text))])
			wasDrawing := drawingMode
			drawingMode = p.applyTagBlock(block, drawingMode)
			if wasDrawing && !drawingMode {
				flushDrawing()
			}
			startsRun = true
			i = end + 1

		case drawingMode:
			drawingBuf.WriteRune(text[i])
			i++

		case text[i] == '\\' && i+1 < len(text) && (text[i+1] == 'n' || text[i+1] == 'N'):
			g := &glyphRecord{rune: '\n', lineBreak: 2, startsRun: startsRun, rs: p.snapshotRenderState()}
			p.glyphs = append(p.glyphs, g)
			startsRun = false
			i += 2

		case text[i] == '\\' && i+1 < len(text) && text[i+1] == 'h':
			g := &glyphRecord{rune: ' ', rs: p.snapshotRenderState(), startsRun: startsRun}
			p.glyphs = append(p.glyphs, g)
			startsRun = false
			i += 2

		default:
			g := &glyphRecord{rune: text[i], rs: p.snapshotRenderState(), startsRun: startsRun}
			p.glyphs = append(p.glyphs, g)
			startsRun = false
			i++
		}
	}
	flushDrawing()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// snapshotRenderState copies the pipeline's current renderState so
// later mutation of p.rs (subsequent tags) doesn't retroactively alter
// glyphs already emitted, then resolves any \t(...) windows recorded so
// far against the event's elapsed time so the snapshot carries the
// interpolated value rather than either endpoint.
func (p *eventPipeline) snapshotRenderState() *renderState {
	copyState := *p.rs
	copyState.transitions = append([]Transition(nil), p.rs.transitions...)
	p.applyTransitions(&copyState)
	return &copyState
}

// applyTransitions resolves every \t(...) window recorded on rs against
// the event's elapsed time (nowMs - StartMs), blending each touched
// field's From value toward its target using the same per-tag diff
// applyTransitionTag captured when the \t was parsed.
func (p *eventPipeline) applyTransitions(rs *renderState) {
	if len(rs.transitions) == 0 || p.evt == nil {
		return
	}
	elapsed := p.nowMs - p.evt.StartMs
	for _, tr := range rs.transitions {
		end := tr.EndMs
		if end <= tr.StartMs {
			end = tr.StartMs + 1
		}
		var ratio float64
		switch {
		case elapsed <= tr.StartMs:
			ratio = 0
		case elapsed >= end:
			ratio = 1
		default:
			ratio = float64(elapsed-tr.StartMs) / float64(end-tr.StartMs)
			if tr.Accel > 0 {
				ratio = math.Pow(ratio, tr.Accel)
			}
		}
		lerpF := func(from, to *float64, dst *float64) {
			if to == nil {
				return
			}
			var f float64
			if from != nil {
				f = *from
			}
			*dst = f + (*to-f)*ratio
		}
		lerpF(tr.FromBorderX, tr.BorderX, &rs.borderX)
		lerpF(tr.FromBorderY, tr.BorderY, &rs.borderY)
		lerpF(tr.FromShadowX, tr.ShadowX, &rs.shadowX)
		lerpF(tr.FromShadowY, tr.ShadowY, &rs.shadowY)
		lerpF(tr.FromBlur, tr.Blur, &rs.blur)
		lerpF(tr.FromFRX, tr.FRX, &rs.frx)
		lerpF(tr.FromFRY, tr.FRY, &rs.fry)
		lerpF(tr.FromFRZ, tr.FRZ, &rs.frz)
		lerpF(tr.FromFAX, tr.FAX, &rs.fax)
		lerpF(tr.FromFAY, tr.FAY, &rs.fay)

		lerpC := func(from, to *Color, dst *Color) {
			if to == nil {
				return
			}
			var f Color
			if from != nil {
				f = *from
			} else {
				f = *dst
			}
			*dst = lerpColor(f, *to, ratio)
		}
		lerpC(tr.FromPrimary, tr.Primary, &rs.style.Primary)
		lerpC(tr.FromSecondary, tr.Secondary, &rs.style.Secondary)
		lerpC(tr.FromOutline, tr.Outline, &rs.style.Outline)
		lerpC(tr.FromBack, tr.Back, &rs.style.Back)
	}
}

func lerpColor(from, to Color, ratio float64) Color {
	r := lerpChannel(from.R(), to.R(), ratio)
	g := lerpChannel(from.G(), to.G(), ratio)
	b := lerpChannel(from.B(), to.B(), ratio)
	a := lerpChannel(from.A(), to.A(), ratio)
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

func lerpChannel(from, to uint8, ratio float64) uint8 {
	v := float64(from) + (float64(to)-float64(from))*ratio
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// applyTagBlock interprets one {...} override block, mutating p.rs in
// place. Returns the drawing-mode flag to use for subsequent
// characters (set/cleared by \p).
func (p *eventPipeline) applyTagBlock(block string, drawingMode bool) bool {
	for _, tag := range splitTags(block) {
		drawingMode = p.applyOneTag(tag, drawingMode)
	}
	return drawingMode
}

// splitTags breaks a tag block into individual backslash-led tags,
// tolerating arbitrary whitespace and drawing/comment text between
// them the way a real ASS override block does.
func splitTags(block string) []string {
	var tags []string
	for {
		idx := strings.IndexByte(block, '\\')
		if idx < 0 {
			break
		}
		block = block[idx+1:]
		next := strings.IndexByte(block, '\\')
		if next < 0 {
			tags = append(tags, block)
			break
		}
		tags = append(tags, block[:next])
	}
	return tags
}

func (p *eventPipeline) applyOneTag(tag string, drawingMode bool) bool {
	name, arg := splitTagNameArg(tag)
	rs := p.rs
	switch name {
	case "b":
		rs.style.Bold = arg != "0" && arg != ""
	case "i":
		rs.style.Italic = arg != "0" && arg != ""
	case "u":
		rs.style.Underline = arg != "0" && arg != ""
	case "s":
		rs.style.StrikeOut = arg != "0" && arg != ""
	case "fn":
		rs.style.FontName = arg
	case "fs":
		if v, ok := parseFloat(arg); ok {
			rs.style.FontSize = v
		}
	case "fscx":
		if v, ok := parseFloat(arg); ok {
			rs.scaleX = v / 100
		}
	case "fscy":
		if v, ok := parseFloat(arg); ok {
			rs.scaleY = v / 100
		}
	case "fsp":
		if v, ok := parseFloat(arg); ok {
			rs.spacing = v
		}
	case "frx":
		if v, ok := parseFloat(arg); ok {
			rs.frx = v
		}
	case "fry":
		if v, ok := parseFloat(arg); ok {
			rs.fry = v
		}
	case "frz", "fr":
		if v, ok := parseFloat(arg); ok {
			rs.frz = v
		}
	case "fax":
		if v, ok := parseFloat(arg); ok {
			rs.fax = v
		}
	case "fay":
		if v, ok := parseFloat(arg); ok {
			rs.fay = v
		}
	case "bord":
		if v, ok := parseFloat(arg); ok {
			rs.borderX, rs.borderY = v, v
		}
	case "xbord":
		if v, ok := parseFloat(arg); ok {
			rs.borderX = v
		}
	case "ybord":
		if v, ok := parseFloat(arg); ok {
			rs.borderY = v
		}
	case "shad":
		if v, ok := parseFloat(arg); ok {
			rs.shadowX, rs.shadowY = v, v
		}
	case "xshad":
		if v, ok := parseFloat(arg); ok {
			rs.shadowX = v
		}
	case "yshad":
		if v, ok := parseFloat(arg); ok {
			rs.shadowY = v
		}
	case "be":
		if v, ok := parseFloat(arg); ok {
			rs.be = int(v)
		}
	case "blur":
		if v, ok := parseFloat(arg); ok {
			rs.blur = v
		}
	case "c", "1c":
		if c, ok := parseTagColor(arg); ok {
			rs.style.Primary = setAlpha(c, rs.style.Primary.A())
		}
	case "2c":
		if c, ok := parseTagColor(arg); ok {
			rs.style.Secondary = setAlpha(c, rs.style.Secondary.A())
		}
	case "3c":
		if c, ok := parseTagColor(arg); ok {
			rs.style.Outline = setAlpha(c, rs.style.Outline.A())
		}
	case "4c":
		if c, ok := parseTagColor(arg); ok {
			rs.style.Back = setAlpha(c, rs.style.Back.A())
		}
	case "alpha":
		if a, ok := parseTagAlpha(arg); ok {
			rs.style.Primary = setAlpha(rs.style.Primary, a)
			rs.style.Secondary = setAlpha(rs.style.Secondary, a)
			rs.style.Outline = setAlpha(rs.style.Outline, a)
			rs.style.Back = setAlpha(rs.style.Back, a)
		}
	case "1a":
		if a, ok := parseTagAlpha(arg); ok {
			rs.style.Primary = setAlpha(rs.style.Primary, a)
		}
	case "2a":
		if a, ok := parseTagAlpha(arg); ok {
			rs.style.Secondary = setAlpha(rs.style.Secondary, a)
		}
	case "3a":
		if a, ok := parseTagAlpha(arg); ok {
			rs.style.Outline = setAlpha(rs.style.Outline, a)
		}
	case "4a":
		if a, ok := parseTagAlpha(arg); ok {
			rs.style.Back = setAlpha(rs.style.Back, a)
		}
	case "an":
		if v, ok := parseFloat(arg); ok {
			rs.alignment = int(v)
		}
	case "a":
		if v, ok := parseFloat(arg); ok {
			rs.alignment = legacyAlignToAn(int(v))
		}
	case "q":
		if v, ok := parseFloat(arg); ok {
			rs.wrapStyle = int(v)
		}
	case "k":
		p.startKaraokeSyllable(rs, KaraokeK, arg)
	case "kf", "K":
		p.startKaraokeSyllable(rs, KaraokeKF, arg)
	case "ko":
		p.startKaraokeSyllable(rs, KaraokeKO, arg)
	case "kt":
		if v, ok := parseFloat(arg); ok {
			rs.karaokeFrom = int64(v) * 10
			p.karaokeAccum = rs.karaokeFrom
		}
	case "pos":
		if x, y, ok := parsePair(arg); ok {
			rs.posSet, rs.posX, rs.posY = true, x, y
			rs.explicit = true
			rs.evtType = evtPositioned
		}
	case "org":
		if x, y, ok := parsePair(arg); ok {
			rs.rotOrgSet, rs.rotOrgX, rs.rotOrgY = true, x, y
		}
	case "move":
		if x, y, ok := parsePair(arg); ok {
			rs.posSet, rs.posX, rs.posY = true, x, y
			rs.explicit = true
			rs.evtType = evtPositioned
		}
	case "fad", "fade":
		applyFadeTag(rs, arg)
	case "t":
		applyTransitionTag(rs, arg)
	case "clip":
		applyClipTag(rs, arg, false)
	case "iclip":
		applyClipTag(rs, arg, true)
	case "r":
		// \r resets to the named style (or the script style) — left as
		// the script style's base fields; a full style lookup by name
		// is the Track's Styles slice, resolved here by scanning it.
		// Not meaningful inside a \t(...) scratch evaluation, where
		// p.track is nil.
		if p.track != nil {
			resetStyle(p, rs, arg)
		}
	case "p":
		if v, ok := parseFloat(arg); ok {
			return v != 0
		}
		return false
	}
	return drawingMode
}

// startKaraokeSyllable is the common body of \k/\kf/\ko: stamp the
// syllable's onset from the running accumulator, then advance the
// accumulator by this syllable's own duration so the next \k-family tag
// in the same event starts from the right onset instead of everyone
// reading back karaokeFrom == 0.
func (p *eventPipeline) startKaraokeSyllable(rs *renderState, mode KaraokeMode, arg string) {
	rs.karaoke = mode
	rs.karaokeFrom = p.karaokeAccum
	if v, ok := parseFloat(arg); ok {
		rs.karaokeDur = int64(v) * 10
		p.karaokeAccum += rs.karaokeDur
	}
}

func resetStyle(p *eventPipeline, rs *renderState, name string) {
	base := p.track.Styles[p.evt.StyleIndex]
	if name != "" {
		for i := range p.track.Styles {
			if p.track.Styles[i].Name == name {
				base = p.track.Styles[i]
				break
			}
		}
	}
	rs.style = base
	rs.scaleX, rs.scaleY = base.ScaleX/100, base.ScaleY/100
	rs.spacing = base.Spacing
	rs.borderX, rs.borderY = base.OutlineWidth, base.OutlineWidth
	rs.shadowX, rs.shadowY = base.ShadowX, base.ShadowY
	rs.frz = base.Angle
	rs.frx, rs.fry, rs.fax, rs.fay = 0, 0, 0, 0
}

// splitTagNameArg splits one tag (without its leading backslash) into
// its name and argument. Most tags append a bare argument directly
// (\b1, \fs20, \c&HFFFFFF&); a handful take a parenthesized argument
// list (\pos(...), \t(...), \clip(...)); the four per-channel color/
// alpha tags (\1c, \2c, \3c, \4c, \1a, \2a, \3a, \4a) have a digit as
// part of their name rather than their argument.
func splitTagNameArg(tag string) (name, arg string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", ""
	}
	if len(tag) >= 2 && tag[0] >= '1' && tag[0] <= '4' && (tag[1] == 'c' || tag[1] == 'a') {
		return tag[:2], strings.TrimSpace(tag[2:])
	}

	i := 0
	for i < len(tag) && isAlpha(tag[i]) {
		i++
	}
	name = tag[:i]
	rest := strings.TrimSpace(tag[i:])
	if strings.HasPrefix(rest, "(") {
		j := strings.LastIndexByte(rest, ')')
		if j < 1 {
			return name, rest[1:]
		}
		return name, rest[1:j]
	}
	return name, rest
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func parsePair(s string) (x, y float64, ok bool) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	x, okx := parseFloat(parts[0])
	y, oky := parseFloat(parts[1])
	return x, y, okx && oky
}

// parseTagColor parses &HBBGGRR& (ASS's color tag order is BGR, not
// RGB) into our RGBA-packed Color with alpha 0xFF; applyOneTag then
// keeps the target color's existing alpha.
func parseTagColor(s string) (Color, bool) {
	s = strings.Trim(strings.TrimSpace(s), "&Hh")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	b := uint8(v >> 16)
	g := uint8(v >> 8)
	r := uint8(v)
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xFF), true
}

func parseTagAlpha(s string) (uint8, bool) {
	s = strings.Trim(strings.TrimSpace(s), "&Hh")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return 255 - uint8(v), true
}

func setAlpha(c Color, a uint8) Color {
	return Color(uint32(c)&0xFFFFFF00 | uint32(a))
}

func legacyAlignToAn(legacy int) int {
	// \a uses the old SSA numpad mapping (1/2/3 bottom, 5/6/7 middle,
	// 9/10/11 top, each +4/+8 for center/right); \an uses the numpad
	// layout directly. Map the common legacy values onto \an's.
	switch legacy {
	case 1, 2, 3, 9, 10, 11:
		return legacy
	case 5, 6, 7:
		return legacy + 1 // rough middle-row correction
	default:
		return 2
	}
}

func applyFadeTag(rs *renderState, arg string) {
	parts := strings.Split(arg, ",")
	vals := make([]float64, len(parts))
	for i, s := range parts {
		vals[i], _ = parseFloat(s)
	}
	switch len(vals) {
	case 2: // \fad(in, out)
		rs.fade = Fade{Set: true, FadeInMs: int64(vals[0]), FadeOutMs: int64(vals[1])}
	case 7: // \fade(a1,a2,a3,t1,t2,t3,t4)
		rs.fade = Fade{
			Set: true,
			A1: uint8(vals[0]), A2: uint8(vals[1]), A3: uint8(vals[2]),
			T1: int64(vals[3]), T2: int64(vals[4]), T3: int64(vals[5]), T4: int64(vals[6]),
		}
	}
}

// applyTransitionTag parses \t([t1,t2,][accel,]\tag1\tag2...) and
// records it as a Transition with the *target* values of whichever
// sub-tags it contains, resolved by re-running applyOneTag against a
// scratch renderState seeded from rs and diffing the touched fields.
func applyTransitionTag(rs *renderState, arg string) {
	parts := splitTransitionArgs(arg)
	if len(parts) == 0 {
		return
	}
	var t1, t2 int64 = 0, 0
	accel := 1.0
	body := parts[len(parts)-1]
	numeric := parts[:len(parts)-1]
	switch len(numeric) {
	case 1:
		accel, _ = parseFloat(numeric[0])
	case 2:
		a, _ := parseFloat(numeric[0])
		b, _ := parseFloat(numeric[1])
		t1, t2 = int64(a), int64(b)
	case 3:
		a, _ := parseFloat(numeric[0])
		b, _ := parseFloat(numeric[1])
		t1, t2 = int64(a), int64(b)
		accel, _ = parseFloat(numeric[2])
	}

	scratch := *rs
	for _, sub := range splitTags(body) {
		applyTagToScratch(&scratch, sub)
	}

	tr := Transition{StartMs: t1, EndMs: t2, Accel: accel}
	if scratch.borderX != rs.borderX {
		v, from := scratch.borderX, rs.borderX
		tr.BorderX, tr.FromBorderX = &v, &from
	}
	if scratch.borderY != rs.borderY {
		v, from := scratch.borderY, rs.borderY
		tr.BorderY, tr.FromBorderY = &v, &from
	}
	if scratch.shadowX != rs.shadowX {
		v, from := scratch.shadowX, rs.shadowX
		tr.ShadowX, tr.FromShadowX = &v, &from
	}
	if scratch.shadowY != rs.shadowY {
		v, from := scratch.shadowY, rs.shadowY
		tr.ShadowY, tr.FromShadowY = &v, &from
	}
	if scratch.blur != rs.blur {
		v, from := scratch.blur, rs.blur
		tr.Blur, tr.FromBlur = &v, &from
	}
	if scratch.frx != rs.frx {
		v, from := scratch.frx, rs.frx
		tr.FRX, tr.FromFRX = &v, &from
	}
	if scratch.fry != rs.fry {
		v, from := scratch.fry, rs.fry
		tr.FRY, tr.FromFRY = &v, &from
	}
	if scratch.frz != rs.frz {
		v, from := scratch.frz, rs.frz
		tr.FRZ, tr.FromFRZ = &v, &from
	}
	if scratch.fax != rs.fax {
		v, from := scratch.fax, rs.fax
		tr.FAX, tr.FromFAX = &v, &from
	}
	if scratch.fay != rs.fay {
		v, from := scratch.fay, rs.fay
		tr.FAY, tr.FromFAY = &v, &from
	}
	if scratch.style.Primary != rs.style.Primary {
		v, from := scratch.style.Primary, rs.style.Primary
		tr.Primary, tr.FromPrimary = &v, &from
	}
	if scratch.style.Secondary != rs.style.Secondary {
		v, from := scratch.style.Secondary, rs.style.Secondary
		tr.Secondary, tr.FromSecondary = &v, &from
	}
	if scratch.style.Outline != rs.style.Outline {
		v, from := scratch.style.Outline, rs.style.Outline
		tr.Outline, tr.FromOutline = &v, &from
	}
	if scratch.style.Back != rs.style.Back {
		v, from := scratch.style.Back, rs.style.Back
		tr.Back, tr.FromBack = &v, &from
	}
	rs.transitions = append(rs.transitions, tr)
}

// applyTagToScratch applies a subset of tags (the numeric/color ones a
// \t(...) body is allowed to carry) directly, without drawing-mode or
// positioning side effects.
func applyTagToScratch(rs *renderState, tag string) {
	p := &eventPipeline{rs: rs}
	p.applyOneTag(tag, false)
}

func splitTransitionArgs(arg string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, c := range arg {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, arg[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, arg[start:])
	return parts
}

func applyClipTag(rs *renderState, arg string, inverse bool) {
	rs.clipSet = true
	rs.clipInverse = inverse
	parts := strings.Split(arg, ",")
	if len(parts) == 4 {
		x0, _ := parseFloat(parts[0])
		y0, _ := parseFloat(parts[1])
		x1, _ := parseFloat(parts[2])
		y1, _ := parseFloat(parts[3])
		rs.clipRect = fract.IntsToRect(int(x0), int(y0), int(x1), int(y1))
		return
	}
	// vector clip: either "scale,commands" or bare "commands"
	commands := arg
	if len(parts) >= 2 {
		if _, ok := parseFloat(parts[0]); ok {
			commands = strings.Join(parts[1:], ",")
		}
	}
	hv, err := outline.ConstructDrawing(commands)
	if err == nil && hv.Valid {
		rs.clipDrawing = hv
	}
}
