package atlas

// Region is a rectangular allocation within one atlas page.
type Region struct {
	X, Y, Width, Height int
}

// shelfPacker packs rectangles into a single fixed-size page using the
// shelf-packing strategy: items are placed left-to-right on a shelf until
// one no longer fits, then a new shelf starts below. Adapted from the
// teacher's RectAllocator, simplified to a single mutable cursor
// (cursorX, cursorY, rowHeight) per spec §4.2 rather than a list of
// independent shelves, since the atlas spec tracks exactly one active
// shelf per page at a time.
type shelfPacker struct {
	pageWidth, pageHeight int
	padding               int

	cursorX, cursorY, rowHeight int
}

func newShelfPacker(pageWidth, pageHeight, padding int) *shelfPacker {
	return &shelfPacker{pageWidth: pageWidth, pageHeight: pageHeight, padding: padding}
}

// reset restores the packing cursor to (0,0,0), as required by setMetrics.
func (p *shelfPacker) reset() {
	p.cursorX, p.cursorY, p.rowHeight = 0, 0, 0
}

// allocate finds space for a width x height rectangle on the current
// shelf, wrapping to a new row when it doesn't fit horizontally. It
// returns ok=false when the page has no vertical room left, signaling the
// caller to open a new page.
func (p *shelfPacker) allocate(width, height int) (Region, bool) {
	paddedW := width + p.padding
	paddedH := height + p.padding

	if p.cursorX+paddedW > p.pageWidth {
		p.cursorY += p.rowHeight
		p.cursorX = 0
		p.rowHeight = 0
	}
	if p.cursorY+paddedH > p.pageHeight {
		return Region{}, false
	}

	region := Region{X: p.cursorX, Y: p.cursorY, Width: width, Height: height}
	p.cursorX += paddedW
	if paddedH > p.rowHeight {
		p.rowHeight = paddedH
	}
	return region, true
}
