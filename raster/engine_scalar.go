package raster

// ScalarEngine is the portable, pure-Go implementation of Engine. It is
// always available and is the fallback when no CPU-feature-specific
// engine claims the current processor.
type ScalarEngine struct{}

func (ScalarEngine) AllocBitmap(w, h int) *Bitmap {
	if w <= 0 || h <= 0 {
		return NewEmpty()
	}
	stride := simdAlign(w)
	return &Bitmap{Pix: make([]uint8, stride*h), Stride: stride, W: w, H: h}
}

func (ScalarEngine) CopyBitmap(dst, src *Bitmap, dstX, dstY int) {
	blit(dst, src, dstX, dstY, func(d, s uint8) uint8 { return s })
}

func (ScalarEngine) AddBitmaps(dst, src *Bitmap, dstX, dstY int) {
	blit(dst, src, dstX, dstY, func(d, s uint8) uint8 {
		sum := int(d) + int(s)
		if sum > 255 {
			return 255
		}
		return uint8(sum)
	})
}

func (ScalarEngine) SynthBlur(bitmap *Bitmap, passes int) {
	boxBlurPasses(bitmap, passes)
}

func (ScalarEngine) TileOrder() int { return 1 }

func (ScalarEngine) BEPadding(bePasses int) int { return bePasses }

func blit(dst, src *Bitmap, dstX, dstY int, combine func(d, s uint8) uint8) {
	if dst.empty() || src.empty() {
		return
	}
	for sy := 0; sy < src.H; sy++ {
		dy := dstY + sy
		if dy < 0 || dy >= dst.H {
			continue
		}
		for sx := 0; sx < src.W; sx++ {
			dx := dstX + sx
			if dx < 0 || dx >= dst.W {
				continue
			}
			di := dy*dst.Stride + dx
			si := sy*src.Stride + sx
			dst.Pix[di] = combine(dst.Pix[di], src.Pix[si])
		}
	}
}

// boxBlurPasses applies `passes` iterations of a 3x3 box blur in place,
// the classic "BE" (Blur Edges) smoothing filter from the glossary.
func boxBlurPasses(bitmap *Bitmap, passes int) {
	if bitmap.empty() || passes <= 0 {
		return
	}
	w, h := bitmap.W, bitmap.H
	tmp := make([]uint8, w*h)
	for p := 0; p < passes; p++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				var sum, count int
				for dy := -1; dy <= 1; dy++ {
					ny := y + dy
					if ny < 0 || ny >= h {
						continue
					}
					for dx := -1; dx <= 1; dx++ {
						nx := x + dx
						if nx < 0 || nx >= w {
							continue
						}
						sum += int(bitmap.Pix[ny*bitmap.Stride+nx])
						count++
					}
				}
				tmp[y*w+x] = uint8(sum / count)
			}
		}
		for y := 0; y < h; y++ {
			copy(bitmap.Pix[y*bitmap.Stride:y*bitmap.Stride+w], tmp[y*w:(y+1)*w])
		}
	}
}
