// Package color resolves terminal cell attribute colors into concrete RGBA8
// pixels. Every exported function here is pure: identical inputs yield
// identical outputs, and none allocate beyond their return value.
package color

// Kind tags which variant a Ref holds.
type Kind int

const (
	Default Kind = iota
	ANSI
	ANSIBright
	Palette
	RGB
)

// Ref is a color reference as carried by a cell attribute: default,
// ansi(0..7), ansi-bright(0..7), palette(0..255), or a direct rgb triple.
type Ref struct {
	Kind    Kind
	Index   int
	R, G, B uint8
}

// RGBA8 is a resolved, renderable color.
type RGBA8 struct {
	R, G, B, A uint8
}

// PaletteTable is the theme's 16 ANSI colors plus up to 240 extended
// colors, each already resolved to RGBA8.
type PaletteTable struct {
	ANSI     [16]RGBA8
	Extended []RGBA8 // index i corresponds to palette slot i+16
}

// Overrides maps a palette index to a color that supersedes PaletteTable
// for that index.
type Overrides map[int]RGBA8

// ResolvePaletteEntry resolves index against overrides then the palette
// table. Negative or out-of-range indices, and indices 16+ with no
// extended entry, return fallback.
func ResolvePaletteEntry(palette PaletteTable, overrides Overrides, index int, fallback RGBA8) RGBA8 {
	if index < 0 {
		return fallback
	}
	if c, ok := overrides[index]; ok {
		return c
	}
	if index < 16 {
		return palette.ANSI[index]
	}
	ext := index - 16
	if ext >= 0 && ext < len(palette.Extended) {
		return palette.Extended[ext]
	}
	return fallback
}

// Theme bundles the pieces of renderer theme state color resolution needs:
// the default foreground/background and the palette table.
type Theme struct {
	DefaultForeground RGBA8
	DefaultBackground RGBA8
	Palette           PaletteTable
}

// TerminalColorToRGBA resolves a single color reference to RGBA8, or
// reports ok=false when the reference is "default" and
// treatDefaultAsNull is set (meaning "use the caller's fallback / don't
// paint").
func TerminalColorToRGBA(c Ref, theme Theme, overrides Overrides, fallback RGBA8, treatDefaultAsNull bool) (color RGBA8, ok bool) {
	switch c.Kind {
	case Default:
		if treatDefaultAsNull {
			return RGBA8{}, false
		}
		return fallback, true
	case ANSI:
		return ResolvePaletteEntry(theme.Palette, overrides, c.Index, fallback), true
	case ANSIBright:
		return ResolvePaletteEntry(theme.Palette, overrides, c.Index+8, fallback), true
	case Palette:
		return ResolvePaletteEntry(theme.Palette, overrides, c.Index, fallback), true
	case RGB:
		return RGBA8{R: c.R, G: c.G, B: c.B, A: 255}, true
	default:
		return fallback, true
	}
}

// Attr is the subset of a cell's display attributes color resolution
// needs: its fg/bg references and the inverse/hidden flags.
type Attr struct {
	Foreground Ref
	Background Ref
	Inverse    bool
	Hidden     bool
}

// Resolved holds a cell's resolved foreground/background. A nil pointer
// means "null": for foreground it means don't draw a glyph; for
// background it means don't paint a background quad (let the theme
// background show through).
type Resolved struct {
	Foreground *RGBA8
	Background *RGBA8
}

// ResolveCellColors implements spec §4.1's resolveCellColors: resolves
// attr's fg/bg against theme+overrides, then applies inverse (swapping
// fg/bg, substituting theme defaults where either resolved to null) and
// hidden (forcing foreground to null) semantics.
func ResolveCellColors(attr Attr, theme Theme, overrides Overrides) Resolved {
	fg, fgOK := TerminalColorToRGBA(attr.Foreground, theme, overrides, theme.DefaultForeground, false)
	bg, bgOK := TerminalColorToRGBA(attr.Background, theme, overrides, theme.DefaultBackground, true)

	var fgPtr, bgPtr *RGBA8
	if fgOK {
		v := fg
		fgPtr = &v
	}
	if bgOK {
		v := bg
		bgPtr = &v
	}

	if attr.Inverse {
		newFg := bgPtr
		newBg := fgPtr
		if newFg == nil {
			v := theme.DefaultBackground
			newFg = &v
		}
		if newBg == nil {
			v := theme.DefaultForeground
			newBg = &v
		}
		fgPtr, bgPtr = newFg, newBg
	}

	if attr.Hidden {
		fgPtr = nil
	}

	return Resolved{Foreground: fgPtr, Background: bgPtr}
}
