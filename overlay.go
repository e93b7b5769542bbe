package vtrender

// overlayCanvas is the concrete OverlaySurface handed to a host's
// CursorOverlayFunc: a flat RGBA8 buffer sized to the grid, with glyph
// drawing routed through the renderer's own glyph atlas so overlay text
// shares the same rasterizer and cache as normal cell content.
type overlayCanvas struct {
	width, height int
	pix           []byte
	r             *Renderer
}

func newOverlayCanvas(r *Renderer, width, height int) *overlayCanvas {
	return &overlayCanvas{width: width, height: height, pix: make([]byte, width*height*4), r: r}
}

func (c *overlayCanvas) Clear() {
	for i := range c.pix {
		c.pix[i] = 0
	}
}

func (c *overlayCanvas) FillRect(x, y, w, h float64, r, g, b, a uint8) {
	x0, y0 := clampInt(int(x), 0, c.width), clampInt(int(y), 0, c.height)
	x1, y1 := clampInt(int(x+w), 0, c.width), clampInt(int(y+h), 0, c.height)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.blend(px, py, r, g, b, a)
		}
	}
}

// FillText stamps ch (expected to be a single grapheme, matching cell
// granularity) using the renderer's glyph atlas, tinted by (r,g,b,a).
func (c *overlayCanvas) FillText(text string, x, y float64, r, g, b, a uint8) {
	if c.r == nil || c.r.atlasInst == nil {
		return
	}
	entry, err := c.r.atlasInst.EnsureGlyph(text, false, false)
	if err != nil {
		return
	}
	pix, size := c.r.atlasInst.PageTexture(entry.Page)
	srcX := int(entry.U0 * float64(size))
	srcY := int(entry.V0 * float64(size))
	ox, oy := int(x), int(y)
	for gy := 0; gy < entry.Height; gy++ {
		py := oy + gy
		if py < 0 || py >= c.height {
			continue
		}
		for gx := 0; gx < entry.Width; gx++ {
			px := ox + gx
			if px < 0 || px >= c.width {
				continue
			}
			srcIdx := ((srcY+gy)*size + (srcX + gx)) * 4
			coverage := pix[srcIdx+3]
			if coverage == 0 {
				continue
			}
			alpha := uint8(uint32(a) * uint32(coverage) / 255)
			c.blend(px, py, r, g, b, alpha)
		}
	}
}

func (c *overlayCanvas) blend(x, y int, r, g, b, a uint8) {
	idx := (y*c.width + x) * 4
	if a == 255 {
		c.pix[idx], c.pix[idx+1], c.pix[idx+2], c.pix[idx+3] = r, g, b, a
		return
	}
	invA := 255 - uint32(a)
	dr, dg, db, da := c.pix[idx], c.pix[idx+1], c.pix[idx+2], c.pix[idx+3]
	c.pix[idx] = r + uint8((uint32(dr)*invA+127)/255)
	c.pix[idx+1] = g + uint8((uint32(dg)*invA+127)/255)
	c.pix[idx+2] = b + uint8((uint32(db)*invA+127)/255)
	c.pix[idx+3] = a + uint8((uint32(da)*invA+127)/255)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
