package vtrender

// Underline describes the decoration drawn beneath a cell's glyph.
type Underline int

const (
	UnderlineNone Underline = iota
	UnderlineSingle
	UnderlineDouble
)

// CursorShape selects how the terminal cursor is painted.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// ColorKind tags which variant a ColorTag holds.
type ColorKind int

const (
	ColorDefault ColorKind = iota
	ColorANSI
	ColorANSIBright
	ColorPalette
	ColorRGB
)

// ColorTag is a cell's foreground or background color reference, one of
// default, ansi(0..7), ansi-bright(0..7), palette(0..255), or rgb(r,g,b).
type ColorTag struct {
	Kind  ColorKind
	Index int // meaningful for ColorANSI, ColorANSIBright, ColorPalette
	R, G, B uint8 // meaningful for ColorRGB
}

// DefaultColor is the zero-value "inherit from theme" tag.
var DefaultColor = ColorTag{Kind: ColorDefault}

// ANSIColor returns a ColorTag selecting ANSI color index i (0..7).
func ANSIColor(i int) ColorTag { return ColorTag{Kind: ColorANSI, Index: i} }

// ANSIBrightColor returns a ColorTag selecting bright ANSI color index i (0..7).
func ANSIBrightColor(i int) ColorTag { return ColorTag{Kind: ColorANSIBright, Index: i} }

// PaletteColor returns a ColorTag selecting extended palette index i (0..255).
func PaletteColor(i int) ColorTag { return ColorTag{Kind: ColorPalette, Index: i} }

// RGBColor returns a ColorTag carrying a direct truecolor value.
func RGBColor(r, g, b uint8) ColorTag { return ColorTag{Kind: ColorRGB, R: r, G: g, B: b} }

// Attr carries the display attributes of a single cell.
type Attr struct {
	Bold          bool
	Faint         bool
	Italic        bool
	Underline     Underline
	Strikethrough bool
	Inverse       bool
	Hidden        bool
	Foreground    ColorTag
	Background    ColorTag
}

// Cell is one character position in the terminal grid.
type Cell struct {
	Char      string // one or more codepoints
	Attr      Attr
	Protected bool
}

// CursorPos identifies a grid coordinate.
type CursorPos struct {
	Row, Column int
}

// SelectionKind distinguishes selection granularity.
type SelectionKind int

const (
	SelectionNormal SelectionKind = iota
	SelectionRectangular
	SelectionWord
	SelectionLine
)

// SelectionStatus tracks whether a selection is still being extended.
type SelectionStatus int

const (
	SelectionActive SelectionStatus = iota
	SelectionFinalized
)

// SelectionPoint anchors or focuses a selection at a point in time.
type SelectionPoint struct {
	Row, Column int
	Timestamp   int64
}

// Selection describes the current text selection, if any.
type Selection struct {
	Anchor SelectionPoint
	Focus  SelectionPoint
	Kind   SelectionKind
	Status SelectionStatus
}

// RowSegment is one row's inclusive column span of a selection.
type RowSegment struct {
	Row, StartColumn, EndColumn int
}

// SelectionRowSegments computes the per-row inclusive column spans of sel,
// clipped to [0, columns-1]. This is the canonical fallback implementation
// named in the design notes: callers may instead use a segment list
// supplied by the interpreter.
func SelectionRowSegments(sel *Selection, columns int) []RowSegment {
	if sel == nil || columns <= 0 {
		return nil
	}
	a, f := sel.Anchor, sel.Focus
	startRow, endRow := a.Row, f.Row
	startCol, endCol := a.Column, f.Column
	if startRow > endRow || (startRow == endRow && startCol > endCol) {
		startRow, endRow = endRow, startRow
		startCol, endCol = endCol, startCol
	}
	segs := make([]RowSegment, 0, endRow-startRow+1)
	for row := startRow; row <= endRow; row++ {
		sc, ec := 0, columns-1
		if row == startRow {
			sc = startCol
		}
		if row == endRow {
			ec = endCol
		}
		if sc < 0 {
			sc = 0
		}
		if ec > columns-1 {
			ec = columns - 1
		}
		if sc > ec {
			continue
		}
		segs = append(segs, RowSegment{Row: row, StartColumn: sc, EndColumn: ec})
	}
	return segs
}

// TerminalState is an immutable view of the terminal grid and modes at a
// point in time, produced by the interpreter this package is embedded in.
type TerminalState struct {
	Rows, Columns int
	Buffer        [][]Cell // [row][column]
	Cursor        CursorPos
	CursorVisible bool
	Selection     *Selection
	ReverseVideo  bool
	ScrollTop     int
	ScrollBottom  int
}

// UpdateKind tags the variant carried by a TerminalUpdate.
type UpdateKind int

const (
	UpdateCells UpdateKind = iota
	UpdateCursor
	UpdateCursorVisibility
	UpdateScroll
	UpdateClearDisplay
	UpdateClearLine
	UpdateClearLineAfterCursor
	UpdateAttributes
	UpdateScrollRegion
	UpdateMode
	UpdatePalette
	UpdateSelectionSet
	UpdateSelectionUpdate
	UpdateSelectionClear
	UpdateOSC
	UpdateSOSPMAPC
	UpdateDCSStart
	UpdateDCSData
	UpdateDCSEnd
	UpdateClipboard
	UpdateTitle
	UpdateBell
)

// CellChange is one updated cell position within an UpdateCells event.
type CellChange struct {
	Row, Column int
}

// TerminalUpdate is one atomic change to the terminal state.
type TerminalUpdate struct {
	Kind UpdateKind

	Cells []CellChange // UpdateCells

	OldCursor CursorPos // UpdateCursor
	NewCursor CursorPos // UpdateCursor

	Row int // UpdateClearLine, UpdateClearLineAfterCursor
	Col int // UpdateClearLineAfterCursor

	ScrollAmount int // UpdateScroll (positive: content moves up)

	PaletteIndex int      // UpdatePalette
	PaletteColor ColorTag // UpdatePalette

	OldSelection *Selection // UpdateSelectionSet/-Update/-Clear
	NewSelection *Selection // UpdateSelectionSet/-Update

	OSCText string // UpdateOSC
	DCSData []byte // UpdateDCSData
}

// Palette is the theme's 16 ANSI colors plus up to 240 extended colors.
type Palette struct {
	ANSI     [16]ColorTag
	Extended []ColorTag // index i corresponds to palette slot i+16
}

// CursorTheme styles the default cursor overlay.
type CursorTheme struct {
	Color   ColorTag
	Opacity float64 // [0,1]; zero value treated as 1 by the builder
	Shape   CursorShape
}

// SelectionTheme styles selection highlighting. A nil *SelectionTheme on
// Theme means selections are not painted.
type SelectionTheme struct {
	Background ColorTag
	Foreground *ColorTag // nil: leave the cell's resolved foreground
}

// Theme is the renderer-owned palette and styling configuration.
type Theme struct {
	Background ColorTag
	Foreground ColorTag
	Cursor     CursorTheme
	Selection  *SelectionTheme
	Palette    Palette
}

// FontMetrics describes the monospace font used to size and rasterize
// glyphs.
type FontMetrics struct {
	Family        string
	Size          float64
	LetterSpacing float64
	LineHeight    float64
}

// CellMetrics is the pixel footprint of one grid cell in CSS pixels.
type CellMetrics struct {
	Width, Height, Baseline float64
}

// Metrics is the renderer-owned sizing configuration.
type Metrics struct {
	DevicePixelRatio float64
	Cell             CellMetrics
	Font             FontMetrics
}

// PaletteOverrides maps a palette index to a color that supersedes
// theme.Palette for that index.
type PaletteOverrides map[int]ColorTag

// BackendTag identifies the selected draw backend for diagnostics and the
// host-visible surface dataset tag.
type BackendTag string

const (
	BackendCPU2D     BackendTag = "cpu-2d"
	BackendGPUWebGL  BackendTag = "gpu-webgl"
	BackendGPUWebGPU BackendTag = "gpu-webgpu"
)

// Diagnostics reports the outcome of the most recent frame.
type Diagnostics struct {
	LastFrameDuration   float64 // seconds
	LastDrawCallCount   int
	LastOSC             string
	LastSOSPMAPC        string
	LastDCSAccumulation []byte
	GPUBytesUploaded    *int64 // nil on the CPU backend
	CellsProcessed      int
	DirtyCoverage       *float64 // [0,1], nil when not computed
	FrameContentHash    *uint64
	Backend             BackendTag
}
