// Package geometry builds one row's draw geometry: flat float32 buffers
// of background quads and glyph quads (each two triangles / six vertices,
// in clip space), given a row's resolved cells, theme, and glyph atlas.
//
// Grounded on the teacher's scene/builder.go (fluent emission into a flat
// buffer) and scene/pool.go's encoding-per-kind idea, replaced here with
// the spec's fixed two-triangle cell-quad encoding instead of arbitrary
// path/shape records.
package geometry

import (
	"fmt"
	"math"

	"github.com/gogpu/vtrender/internal/atlas"
	"github.com/gogpu/vtrender/internal/color"
)

// Underline mirrors the root package's Underline enum, kept local to
// avoid an import cycle (root imports geometry).
type Underline int

const (
	UnderlineNone Underline = iota
	UnderlineSingle
	UnderlineDouble
)

// CursorShape mirrors the root package's CursorShape enum.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// Cell is one column's display attributes for row building.
type Cell struct {
	Char          string
	Bold, Faint   bool
	Italic        bool
	Underline     Underline
	Strikethrough bool
	Inverse       bool
	Hidden        bool
	Foreground    color.Ref
	Background    color.Ref
}

// GridMetrics is the grid dimensions and cell pixel size used for the
// clip-space mapping.
type GridMetrics struct {
	Rows, Columns int
	CellWidth     float64
	CellHeight    float64
}

// CursorTheme styles the default cursor quad.
type CursorTheme struct {
	Color   color.RGBA8
	Opacity float64 // [0,1]
	Shape   CursorShape
}

// SelectionTheme styles a selection highlight.
type SelectionTheme struct {
	Background color.RGBA8
	Foreground *color.RGBA8
}

// Segment is a row's inclusive column span covered by the selection.
type Segment struct {
	StartColumn, EndColumn int
}

// GlyphProvider ensures a glyph is packed in the atlas and returns its UV
// rectangle. Implemented by *atlas.Atlas.
type GlyphProvider interface {
	EnsureGlyph(ch string, bold, italic bool) (atlas.Entry, error)
}

// Input is everything Build needs to construct one row's geometry.
type Input struct {
	Row       int
	Grid      GridMetrics
	Cells     []Cell // len == Grid.Columns
	Theme     color.Theme
	Overrides color.Overrides
	Glyphs    GlyphProvider

	SelectionSegment *Segment
	SelectionTheme   *SelectionTheme

	IncludeCursor bool
	CursorColumn  int // ignored unless IncludeCursor
	CursorTheme   CursorTheme
}

// Output holds the five float arrays spec §4.4 and §3 describe: two for
// background quads (positions, colors) and three for glyph quads
// (positions, tex-coords, colors).
type Output struct {
	BgPositions    []float32
	BgColors       []float32
	GlyphPositions []float32
	GlyphTexCoords []float32
	GlyphColors    []float32
	GlyphCount     int
}

// Build constructs one row's geometry. It is deterministic: identical
// inputs (including atlas state) yield identical output.
func Build(in Input) (Output, error) {
	var out Output
	w, h := in.Grid.CellWidth, in.Grid.CellHeight

	if in.SelectionSegment != nil && in.SelectionTheme != nil {
		seg := in.SelectionSegment
		x := float64(seg.StartColumn) * w
		y := float64(in.Row) * h
		width := float64(seg.EndColumn-seg.StartColumn+1) * w
		emitRect(&out.BgPositions, &out.BgColors, in.Grid, x, y, width, h, in.SelectionTheme.Background, 1)
	}

	for c := 0; c < in.Grid.Columns && c < len(in.Cells); c++ {
		cell := in.Cells[c]
		resolved := color.ResolveCellColors(color.Attr{
			Foreground: cell.Foreground,
			Background: cell.Background,
			Inverse:    cell.Inverse,
			Hidden:     cell.Hidden,
		}, in.Theme, in.Overrides)

		fg, bg := resolved.Foreground, resolved.Background

		inSelection := in.SelectionSegment != nil && c >= in.SelectionSegment.StartColumn && c <= in.SelectionSegment.EndColumn
		if inSelection && in.SelectionTheme != nil {
			if in.SelectionTheme.Foreground != nil {
				fgv := *in.SelectionTheme.Foreground
				fg = &fgv
			}
			bg = nil
		}

		x := float64(c) * w
		y := float64(in.Row) * h

		if bg != nil {
			emitRect(&out.BgPositions, &out.BgColors, in.Grid, x, y, w, h, *bg, 1)
		}

		if fg == nil {
			continue
		}

		thickness := math.Max(1, math.Round(h*0.08))
		switch cell.Underline {
		case UnderlineSingle:
			emitRect(&out.BgPositions, &out.BgColors, in.Grid, x, y+h-thickness, w, thickness, *fg, 1)
		case UnderlineDouble:
			emitRect(&out.BgPositions, &out.BgColors, in.Grid, x, y+h-thickness, w, thickness, *fg, 1)
			emitRect(&out.BgPositions, &out.BgColors, in.Grid, x, y+h-thickness-(thickness+2), w, thickness, *fg, 1)
		}
		if cell.Strikethrough {
			sy := y + math.Round(h/2) - math.Floor(thickness/2)
			emitRect(&out.BgPositions, &out.BgColors, in.Grid, x, sy, w, thickness, *fg, 1)
		}

		if cell.Char != "" && cell.Char != " " {
			entry, err := in.Glyphs.EnsureGlyph(cell.Char, cell.Bold, cell.Italic)
			if err != nil {
				return out, fmt.Errorf("geometry: row %d col %d: %w", in.Row, c, err)
			}
			alpha := 1.0
			if cell.Faint {
				alpha = 0.6
			}
			emitGlyphQuad(&out, in.Grid, x, y, float64(entry.Width), float64(entry.Height), entry, *fg, alpha)
		}
	}

	if in.IncludeCursor && in.CursorColumn >= 0 {
		cx := float64(in.CursorColumn) * w
		cy := float64(in.Row) * h
		opacity := in.CursorTheme.Opacity
		if opacity == 0 {
			opacity = 1
		}
		switch in.CursorTheme.Shape {
		case CursorUnderline:
			barH := math.Max(1, math.Round(h*0.2))
			emitRect(&out.BgPositions, &out.BgColors, in.Grid, cx, cy+h-barH, w, barH, in.CursorTheme.Color, opacity)
		case CursorBar:
			barW := math.Max(1, math.Round(w*0.2))
			emitRect(&out.BgPositions, &out.BgColors, in.Grid, cx, cy, barW, h, in.CursorTheme.Color, opacity)
		default: // CursorBlock
			emitRect(&out.BgPositions, &out.BgColors, in.Grid, cx, cy, w, h, in.CursorTheme.Color, opacity)
		}
	}

	return out, nil
}

// clipX/clipY map pixel coordinates to clip space [-1,1]^2 per spec §4.4.
func clipX(x float64, grid GridMetrics) float64 {
	return x/(float64(grid.Columns)*grid.CellWidth)*2 - 1
}

func clipY(y float64, grid GridMetrics) float64 {
	return 1 - y/(float64(grid.Rows)*grid.CellHeight)*2
}

// emitRect appends a two-triangle (six vertex) quad to positions/colors in
// clip space, with c's components scaled by alpha.
func emitRect(positions, colors *[]float32, grid GridMetrics, x, y, w, hgt float64, c color.RGBA8, alpha float64) {
	x0, y0 := clipX(x, grid), clipY(y, grid)
	x1, y1 := clipX(x+w, grid), clipY(y+hgt, grid)

	*positions = append(*positions,
		float32(x0), float32(y0),
		float32(x1), float32(y0),
		float32(x0), float32(y1),
		float32(x0), float32(y1),
		float32(x1), float32(y0),
		float32(x1), float32(y1),
	)

	r := float32(c.R) / 255 * float32(alpha)
	g := float32(c.G) / 255 * float32(alpha)
	b := float32(c.B) / 255 * float32(alpha)
	a := float32(c.A) / 255 * float32(alpha)
	for i := 0; i < 6; i++ {
		*colors = append(*colors, r, g, b, a)
	}
}

// emitGlyphQuad appends a textured quad to the glyph buffers.
func emitGlyphQuad(out *Output, grid GridMetrics, x, y, w, hgt float64, e atlas.Entry, c color.RGBA8, alpha float64) {
	x0, y0 := clipX(x, grid), clipY(y, grid)
	x1, y1 := clipX(x+w, grid), clipY(y+hgt, grid)

	out.GlyphPositions = append(out.GlyphPositions,
		float32(x0), float32(y0),
		float32(x1), float32(y0),
		float32(x0), float32(y1),
		float32(x0), float32(y1),
		float32(x1), float32(y0),
		float32(x1), float32(y1),
	)

	u0, v0, u1, v1 := float32(e.U0), float32(e.V0), float32(e.U1), float32(e.V1)
	out.GlyphTexCoords = append(out.GlyphTexCoords,
		u0, v0,
		u1, v0,
		u0, v1,
		u0, v1,
		u1, v0,
		u1, v1,
	)

	r := float32(c.R) / 255 * float32(alpha)
	g := float32(c.G) / 255 * float32(alpha)
	b := float32(c.B) / 255 * float32(alpha)
	a := float32(c.A) / 255 * float32(alpha)
	for i := 0; i < 6; i++ {
		out.GlyphColors = append(out.GlyphColors, r, g, b, a)
	}
	out.GlyphCount++
}
