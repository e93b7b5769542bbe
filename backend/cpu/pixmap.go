// Package cpu implements the CPU software-fallback draw backend: a
// single-pass repaint using a flat RGBA8 pixel buffer with the same
// visual semantics as the GPU backend's two draw passes, for hosts
// without usable GPU access.
//
// Grounded on the teacher's pixmap.go (RGBA8 buffer, fillSpan-style
// batch fills) and software.go's pixmapAdapter blending math, trimmed to
// the axis-aligned rect/glyph blit operations a terminal repaint needs —
// no arbitrary path fill.
package cpu

// pixmap is a flat RGBA8 pixel buffer.
type pixmap struct {
	width, height int
	data          []byte
}

func newPixmap(width, height int) *pixmap {
	return &pixmap{width: width, height: height, data: make([]byte, width*height*4)}
}

func (p *pixmap) clear(r, g, b, a uint8) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// fillRect blends a solid color over an axis-aligned rectangle, clipped
// to the pixmap bounds, using source-over compositing.
func (p *pixmap) fillRect(x, y, w, h int, r, g, b, a uint8) {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > p.width {
		w = p.width - x
	}
	if y+h > p.height {
		h = p.height - y
	}
	if w <= 0 || h <= 0 {
		return
	}
	for row := y; row < y+h; row++ {
		p.fillSpanBlend(x, x+w, row, r, g, b, a)
	}
}

func (p *pixmap) fillSpanBlend(x1, x2, y int, r, g, b, a uint8) {
	if y < 0 || y >= p.height || x1 >= x2 {
		return
	}
	if x1 < 0 {
		x1 = 0
	}
	if x2 > p.width {
		x2 = p.width
	}
	if x1 >= x2 {
		return
	}
	if a == 255 {
		start := (y*p.width + x1) * 4
		for i := 0; i < x2-x1; i++ {
			idx := start + i*4
			p.data[idx+0] = r
			p.data[idx+1] = g
			p.data[idx+2] = b
			p.data[idx+3] = a
		}
		return
	}
	invA := 255 - uint32(a)
	start := (y*p.width + x1) * 4
	for i := 0; i < x2-x1; i++ {
		idx := start + i*4
		dr, dg, db, da := p.data[idx+0], p.data[idx+1], p.data[idx+2], p.data[idx+3]
		p.data[idx+0] = r + uint8((uint32(dr)*invA+127)/255)
		p.data[idx+1] = g + uint8((uint32(dg)*invA+127)/255)
		p.data[idx+2] = b + uint8((uint32(db)*invA+127)/255)
		p.data[idx+3] = a + uint8((uint32(da)*invA+127)/255)
	}
}

// blitAlpha composites an alpha-masked glyph bitmap (RGBA8 with coverage
// in the alpha channel, as produced by internal/atlas) tinted by
// (r,g,b,alphaScale) at (x,y).
func (p *pixmap) blitAlpha(x, y int, glyphW, glyphH int, glyph []byte, r, g, b uint8, alphaScale float64) {
	for gy := 0; gy < glyphH; gy++ {
		py := y + gy
		if py < 0 || py >= p.height {
			continue
		}
		for gx := 0; gx < glyphW; gx++ {
			px := x + gx
			if px < 0 || px >= p.width {
				continue
			}
			srcA := glyph[(gy*glyphW+gx)*4+3]
			a := uint8(float64(srcA) * alphaScale)
			if a == 0 {
				continue
			}
			p.fillSpanBlend(px, px+1, py, r, g, b, a)
		}
	}
}
