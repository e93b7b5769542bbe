package atlas

import (
	"fmt"
	"image"
	"sync"

	"github.com/go-text/typesetting/fontscan"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/vtrender/internal/width"
)

// FontSource loads the raw bytes of a system font matching a family name
// and weight/slant, used to resolve (family, bold, italic) to a concrete
// font file before rasterization.
type FontSource interface {
	Load(family string, bold, italic bool) ([]byte, error)
}

// systemFontSource discovers installed fonts via go-text/typesetting's
// fontscan, the same family-matching mechanism the teacher's font-loading
// code is built around.
type systemFontSource struct {
	mu  sync.Mutex
	fm  *fontscan.FontMap
}

// NewSystemFontSource builds a FontSource backed by the host's installed
// fonts, scanned once and cached under cacheDir.
func NewSystemFontSource(cacheDir string) (FontSource, error) {
	fm := fontscan.NewFontMap(nil)
	if err := fm.UseSystemFonts(cacheDir); err != nil {
		return nil, fmt.Errorf("atlas: scanning system fonts: %w", err)
	}
	return &systemFontSource{fm: fm}, nil
}

func (s *systemFontSource) Load(family string, bold, italic bool) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	aspect := font.Aspect{Style: font.StyleNormal, Weight: font.WeightNormal}
	if italic {
		aspect.Style = font.StyleItalic
	}
	if bold {
		aspect.Weight = font.WeightBold
	}
	s.fm.SetQuery(fontscan.Query{Families: []string{family}, Aspect: aspect})

	loc := s.fm.FontLocation(rune('M'))
	data, err := fontscan.LoadFontFile(loc)
	if err != nil {
		return nil, fmt.Errorf("atlas: loading font %q: %w", family, err)
	}
	return data, nil
}

type fontKey struct {
	family       string
	bold, italic bool
}

// Rasterizer rasterizes glyphs to RGBA8 bitmaps via golang.org/x/image's
// opentype rasterizer, grounded on the teacher's RasterizeGlyph. Parsed
// fonts are cached per (family, bold, italic); the atlas above caches the
// rendered bitmaps, so each distinct glyph is rasterized at most once
// between SetMetrics calls.
type Rasterizer struct {
	source FontSource

	mu    sync.Mutex
	fonts map[fontKey]*opentype.Font
}

// NewRasterizer wraps source as an atlas.Rasterizer.
func NewRasterizer(source FontSource) *Rasterizer {
	return &Rasterizer{source: source, fonts: make(map[fontKey]*opentype.Font)}
}

func (r *Rasterizer) parsedFont(family string, bold, italic bool) (*opentype.Font, error) {
	key := fontKey{family: family, bold: bold, italic: italic}

	r.mu.Lock()
	if f, ok := r.fonts[key]; ok {
		r.mu.Unlock()
		return f, nil
	}
	r.mu.Unlock()

	data, err := r.source.Load(family, bold, italic)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("atlas: parsing font %q: %w", family, err)
	}

	r.mu.Lock()
	r.fonts[key] = f
	r.mu.Unlock()
	return f, nil
}

// Rasterize implements atlas.Rasterizer: it renders ch at metrics.Size
// into an RGBA8 bitmap sized to one (possibly double-width) cell, white
// with per-pixel coverage in the alpha channel so the glyph program can
// modulate it with the cell's resolved foreground color.
func (r *Rasterizer) Rasterize(ch string, bold, italic bool, metrics FontMetrics) (*GlyphImage, error) {
	otFont, err := r.parsedFont(metrics.Family, bold, italic)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(otFont, &opentype.FaceOptions{
		Size:    metrics.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("atlas: creating face: %w", err)
	}
	defer face.Close()

	cellW := int(metrics.CellWidth + 0.5)
	if width.IsWide(ch) {
		cellW *= 2
	}
	cellH := int(metrics.CellHeight + 0.5)
	if cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("atlas: degenerate cell size %dx%d", cellW, cellH)
	}

	mask := image.NewAlpha(image.Rect(0, 0, cellW, cellH))
	metricsInfo := face.Metrics()
	baseline := metricsInfo.Ascent

	drawer := &font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: baseline},
	}
	drawer.DrawString(ch)

	pix := make([]byte, cellW*cellH*4)
	for y := 0; y < cellH; y++ {
		for x := 0; x < cellW; x++ {
			a := mask.AlphaAt(x, y).A
			i := (y*cellW + x) * 4
			pix[i+0] = 255
			pix[i+1] = 255
			pix[i+2] = 255
			pix[i+3] = a
		}
	}

	return &GlyphImage{Width: cellW, Height: cellH, Pix: pix, IsColor: false}, nil
}
