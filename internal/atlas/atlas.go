// Package atlas implements the glyph atlas: a growable set of fixed-size
// texture pages holding rasterized glyph bitmaps, keyed by
// (char, bold, italic, wide).
package atlas

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/vtrender/internal/width"
)

// Padding is the default border, in pixels, added around each packed
// glyph bitmap to avoid texture-sampling bleed between neighbors.
const Padding = 1

// MinPageSize is the smallest permitted page dimension.
const MinPageSize = 1024

// DefaultMaxPages is the default page-count cap before ensureGlyph fails
// with ErrOverflow.
const DefaultMaxPages = 8

// FontMetrics is the subset of renderer metrics the atlas and its
// rasterizer need to size and shape glyphs.
type FontMetrics struct {
	CellWidth, CellHeight float64
	Family                string
	Size                  float64
}

// GlyphImage is a rasterized glyph bitmap ready for atlas packing.
type GlyphImage struct {
	Width, Height int
	// Pix holds Width*Height RGBA8 pixels, row-major, straight
	// (non-premultiplied) alpha.
	Pix     []byte
	IsColor bool
}

// Rasterizer renders one glyph to a bitmap at the given cell metrics.
type Rasterizer interface {
	Rasterize(ch string, bold, italic bool, metrics FontMetrics) (*GlyphImage, error)
}

// GlyphKey identifies one cached glyph entry. Wide is carried on the key
// per spec §9's East-Asian-Width decision, since a double-width glyph
// rasterizes into a cell twice as wide.
type GlyphKey struct {
	Char        string
	Bold, Italic bool
	Wide        bool
}

// Entry is a packed glyph's location and metrics. Once returned from
// ensureGlyph, an entry's UV rectangle is immutable until the next
// setMetrics call.
type Entry struct {
	Page                   int
	U0, V0, U1, V1         float64
	Width, Height, Padding int
	IsColor                bool
}

type page struct {
	packer *shelfPacker
	data   []byte // RGBA8, pageWidth*pageHeight*4
	width  int
	height int
	dirty  bool
}

func newPage(size, padding int) *page {
	return &page{
		packer: newShelfPacker(size, size, padding),
		data:   make([]byte, size*size*4),
		width:  size,
		height: size,
	}
}

func (p *page) reset() {
	p.packer.reset()
	p.dirty = true
}

func (p *page) blit(r Region, img *GlyphImage) {
	for y := 0; y < img.Height; y++ {
		srcOff := y * img.Width * 4
		dstOff := ((r.Y+y)*p.width + r.X) * 4
		copy(p.data[dstOff:dstOff+img.Width*4], img.Pix[srcOff:srcOff+img.Width*4])
	}
	p.dirty = true
}

// Atlas is the growable glyph atlas described in spec §4.2.
type Atlas struct {
	pageSize int
	padding  int
	maxPages int

	metrics    FontMetrics
	rasterizer Rasterizer
	log        *slog.Logger

	pages   []*page
	entries map[GlyphKey]Entry
}

// New creates a fresh atlas: one page of at least MinPageSize per side,
// packing cursor at (0,0,0), and an empty key-to-entry map.
func New(metrics FontMetrics, rasterizer Rasterizer, maxPages int, log *slog.Logger) *Atlas {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	size := pageSizeFor(metrics)
	a := &Atlas{
		pageSize:   size,
		padding:    Padding,
		maxPages:   maxPages,
		metrics:    metrics,
		rasterizer: rasterizer,
		log:        log,
		entries:    make(map[GlyphKey]Entry),
	}
	a.pages = append(a.pages, newPage(size, a.padding))
	return a
}

func pageSizeFor(metrics FontMetrics) int {
	// A page must be able to hold at least a handful of glyph rows; cell
	// height drives the lower bound in practice, but MinPageSize already
	// comfortably covers any realistic terminal font size.
	return MinPageSize
}

// SetMetrics replaces the atlas's font metrics, clears all entries, and
// resets every page's packing cursor to (0,0,0). Page textures are kept
// and their backing buffers reused, not deallocated.
func (a *Atlas) SetMetrics(next FontMetrics) {
	a.metrics = next
	a.entries = make(map[GlyphKey]Entry)
	for _, p := range a.pages {
		p.reset()
	}
	a.log.Debug("atlas metrics reset", "pages", len(a.pages))
}

// EnsureGlyph returns the packed entry for (ch, bold, italic), rasterizing
// and packing it if this is the first request since the last SetMetrics.
// Repeated calls with the same key return the identical entry (atlas
// monotonicity, spec §8).
func (a *Atlas) EnsureGlyph(ch string, bold, italic bool) (Entry, error) {
	key := GlyphKey{Char: ch, Bold: bold, Italic: italic, Wide: width.IsWide(ch)}
	if e, ok := a.entries[key]; ok {
		return e, nil
	}

	img, err := a.rasterizer.Rasterize(ch, bold, italic, a.metrics)
	if err != nil {
		return Entry{}, fmt.Errorf("atlas: rasterize %q: %w", ch, err)
	}

	glyphW := img.Width + 2*a.padding
	glyphH := img.Height + 2*a.padding
	if glyphW > a.pageSize || glyphH > a.pageSize {
		return Entry{}, fmt.Errorf("atlas: glyph %q is %dx%d, page is %dx%d: %w",
			ch, img.Width, img.Height, a.pageSize, a.pageSize, ErrGlyphTooLarge)
	}

	cur := a.pages[len(a.pages)-1]
	region, ok := cur.packer.allocate(img.Width, img.Height)
	if !ok {
		if len(a.pages) >= a.maxPages {
			return Entry{}, fmt.Errorf("atlas: page cap %d reached: %w", a.maxPages, ErrOverflow)
		}
		cur = newPage(a.pageSize, a.padding)
		a.pages = append(a.pages, cur)
		a.log.Debug("atlas grew", "pages", len(a.pages))
		region, ok = cur.packer.allocate(img.Width, img.Height)
		if !ok {
			return Entry{}, fmt.Errorf("atlas: glyph %q does not fit a fresh page: %w", ch, ErrGlyphTooLarge)
		}
	}

	cur.blit(region, img)

	w, h := float64(cur.width), float64(cur.height)
	entry := Entry{
		Page:    len(a.pages) - 1,
		U0:      float64(region.X) / w,
		V0:      float64(region.Y) / h,
		U1:      float64(region.X+region.Width) / w,
		V1:      float64(region.Y+region.Height) / h,
		Width:   img.Width,
		Height:  img.Height,
		Padding: a.padding,
		IsColor: img.IsColor,
	}
	a.entries[key] = entry
	return entry, nil
}

// PageTexture returns a page's raw RGBA8 pixel buffer and side length. It
// panics if the page index is not allocated: callers only ever pass a
// page index obtained from an Entry, which always names a live page.
func (a *Atlas) PageTexture(pageIdx int) (pix []byte, size int) {
	p := a.pages[pageIdx] // intentional panic on out-of-range, see doc comment
	return p.data, p.width
}

// PageCount returns the number of allocated pages.
func (a *Atlas) PageCount() int { return len(a.pages) }

// PageDirty reports and clears a page's dirty flag, consumed by the
// backend once per frame to decide between texImage2D and texSubImage2D.
func (a *Atlas) PageDirty(pageIdx int) bool {
	p := a.pages[pageIdx]
	d := p.dirty
	p.dirty = false
	return d
}
