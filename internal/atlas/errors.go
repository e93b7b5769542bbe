package atlas

import "errors"

// ErrOverflow is wrapped and returned by EnsureGlyph when packing a new
// glyph would exceed the page cap.
var ErrOverflow = errors.New("atlas: page cap exceeded")

// ErrGlyphTooLarge is wrapped and returned by EnsureGlyph when a glyph
// does not fit within a single page in either dimension.
var ErrGlyphTooLarge = errors.New("atlas: glyph too large for a page")
