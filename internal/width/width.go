// Package width classifies codepoints as narrow or wide for the glyph
// atlas key and the rasterized glyph width, standardizing
// on the East-Asian-Width full/wide rules as required by spec §9's open
// question (no bidi, no ligatures, no shaping beyond single-cell
// monospace).
package width

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	xtwidth "golang.org/x/text/width"
)

// IsWide reports whether s (one cell's char, one or more codepoints)
// should occupy two grid columns. go-runewidth is consulted first, the
// same library the retrieval pack's terminal emulator depends on for this
// exact purpose; when it reports a narrow width of 1,
// golang.org/x/text/width is asked as well, and an East-Asian Wide or
// Fullwidth classification there makes the codepoint wide. Codepoints
// go-runewidth reports as zero-width are never wide.
func IsWide(s string) bool {
	if s == "" {
		return false
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	w := runewidth.RuneWidth(r)
	if w == 2 {
		return true
	}
	if w == 1 {
		switch xtwidth.LookupRune(r).Kind() {
		case xtwidth.EastAsianWide, xtwidth.EastAsianFullwidth:
			return true
		}
	}
	return false
}

// ColumnsFor returns the number of grid columns s occupies: 1 for narrow
// glyphs, 2 for wide ones, 0 for an empty string.
func ColumnsFor(s string) int {
	if s == "" {
		return 0
	}
	if IsWide(s) {
		return 2
	}
	return 1
}
