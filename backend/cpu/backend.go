package cpu

import (
	"log/slog"

	"github.com/gogpu/vtrender/backend"
)

// Backend is the CPU software-fallback draw backend. It consumes the
// same row-geometry arrays the GPU backend does (so the two draw the
// same quads and therefore the same pixels, satisfying the frame-hash
// equality property in spec §8) and rasterizes them with a flat RGBA8
// pixmap instead of a GPU pipeline.
//
// Per spec §4.8/§2's scoping of the CPU fallback to "single-row and
// small grids", glyph sampling reads only atlas page 0: a terminal small
// enough to fall back to software rendering rarely spans more than one
// glyph-atlas page.
type Backend struct {
	log     *slog.Logger
	metrics backend.Metrics
	pm      *pixmap
}

// New constructs the CPU backend for the given metrics.
func New(m backend.Metrics, _ backend.Config, log *slog.Logger) (backend.Backend, error) {
	if log == nil {
		log = slog.Default()
	}
	w := int(float64(m.Columns)*m.CellWidth + 0.5)
	h := int(float64(m.Rows)*m.CellHeight + 0.5)
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Backend{log: log, metrics: m, pm: newPixmap(w, h)}, nil
}

// Available always reports true: a CPU rasterizer needs no external
// device.
func Available() bool { return true }

func (b *Backend) Tag() backend.Tag { return backend.TagCPU2D }

func (b *Backend) Resize(m backend.Metrics) error {
	w := int(float64(m.Columns)*m.CellWidth + 0.5)
	h := int(float64(m.Rows)*m.CellHeight + 0.5)
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	b.metrics = m
	b.pm = newPixmap(w, h)
	return nil
}

// Draw repaints the pixmap from frame's geometry arrays, decoding each
// clip-space quad back to a pixel rectangle using the current grid
// metrics.
func (b *Backend) Draw(frame backend.FrameGeometry) (backend.Stats, error) {
	b.pm.clear(
		to255(frame.FallbackBackground[0]),
		to255(frame.FallbackBackground[1]),
		to255(frame.FallbackBackground[2]),
		to255(frame.FallbackBackground[3]),
	)

	calls := 0
	if len(frame.BgPositions) > 0 {
		b.drawRects(frame.BgPositions, frame.BgColors)
		calls++
	}
	if len(frame.GlyphPositions) > 0 && len(frame.AtlasPages) > 0 {
		b.drawGlyphs(frame.GlyphPositions, frame.GlyphTexCoords, frame.GlyphColors, frame.AtlasPages[0])
		calls++
	}
	if frame.Overlay != nil {
		b.drawOverlay(*frame.Overlay)
		calls++
	}

	b.log.Debug("cpu backend drew frame", "draw_calls", calls)
	return backend.Stats{DrawCallCount: calls}, nil
}

func (b *Backend) Dispose() error { return nil }

// quadPixelRect decodes one 6-vertex (12 float) clip-space quad back to
// an axis-aligned pixel rect per internal/geometry's fixed vertex
// ordering: x0/y0 from vertex 0 (top-left), x1 from vertex 1 (top-right),
// and y1 from vertex 2 (bottom-left).
func (b *Backend) quadPixelRect(positions []float32, quad int) (x, y, w, h int) {
	base := quad * 12
	x0 := b.unclipX(positions[base+0])
	y0 := b.unclipY(positions[base+1])
	x1 := b.unclipX(positions[base+2])
	y1 := b.unclipY(positions[base+5])
	return x0, y0, x1 - x0, y1 - y0
}

func (b *Backend) unclipX(cx float32) int {
	totalW := float64(b.metrics.Columns) * b.metrics.CellWidth
	return int((float64(cx)+1)/2*totalW + 0.5)
}

func (b *Backend) unclipY(cy float32) int {
	totalH := float64(b.metrics.Rows) * b.metrics.CellHeight
	return int((1-float64(cy))/2*totalH + 0.5)
}

func (b *Backend) drawRects(positions, colors []float32) {
	quads := len(positions) / 12
	for i := 0; i < quads; i++ {
		x, y, w, h := b.quadPixelRect(positions, i)
		cBase := i * 24 // 6 vertices * 4 components; vertex 0's color represents the quad (flat-shaded)
		r := to255(colors[cBase+0])
		g := to255(colors[cBase+1])
		bl := to255(colors[cBase+2])
		a := to255(colors[cBase+3])
		b.pm.fillRect(x, y, w, h, r, g, bl, a)
	}
}

func (b *Backend) drawGlyphs(positions, texCoords, colors []float32, page backend.AtlasPage) {
	quads := len(positions) / 12
	for i := 0; i < quads; i++ {
		x, y, w, h := b.quadPixelRect(positions, i)
		if w <= 0 || h <= 0 {
			continue
		}
		tBase := i * 12
		u0, v0 := texCoords[tBase+0], texCoords[tBase+1]
		u1, v1 := texCoords[tBase+2], texCoords[tBase+5]

		glyphW := int(float64(u1-u0) * float64(page.Size))
		glyphH := int(float64(v1-v0) * float64(page.Size))
		if glyphW <= 0 || glyphH <= 0 || len(page.Pix) == 0 {
			continue
		}
		srcX := int(float64(u0) * float64(page.Size))
		srcY := int(float64(v0) * float64(page.Size))

		glyph := extractRegion(page.Pix, page.Size, srcX, srcY, glyphW, glyphH)

		cBase := i * 24
		r := to255(colors[cBase+0])
		g := to255(colors[cBase+1])
		bl := to255(colors[cBase+2])
		alphaScale := float64(colors[cBase+3])
		b.pm.blitAlpha(x, y, glyphW, glyphH, glyph, r, g, bl, alphaScale)
	}
}

func (b *Backend) drawOverlay(o backend.OverlayFrame) {
	for y := 0; y < o.Height && y < b.pm.height; y++ {
		for x := 0; x < o.Width && x < b.pm.width; x++ {
			i := (y*o.Width + x) * 4
			r, g, bl, a := o.Pix[i], o.Pix[i+1], o.Pix[i+2], o.Pix[i+3]
			if a == 0 {
				continue
			}
			b.pm.fillSpanBlend(x, x+1, y, r, g, bl, a)
		}
	}
}

func extractRegion(pix []byte, stride, x, y, w, h int) []byte {
	out := make([]byte, w*h*4)
	for row := 0; row < h; row++ {
		srcOff := ((y+row)*stride + x) * 4
		dstOff := row * w * 4
		copy(out[dstOff:dstOff+w*4], pix[srcOff:srcOff+w*4])
	}
	return out
}

func to255(v float32) uint8 {
	f := v * 255
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f + 0.5)
}
