package geometry

import (
	"testing"

	"github.com/gogpu/vtrender/internal/atlas"
	"github.com/gogpu/vtrender/internal/color"
)

type fakeGlyphs struct{}

func (fakeGlyphs) EnsureGlyph(ch string, bold, italic bool) (atlas.Entry, error) {
	return atlas.Entry{U0: 0, V0: 0, U1: 0.1, V1: 0.1, Width: 9, Height: 18}, nil
}

func testTheme() color.Theme {
	return color.Theme{
		DefaultForeground: color.RGBA8{R: 229, G: 229, B: 229, A: 255},
		DefaultBackground: color.RGBA8{R: 16, G: 16, B: 16, A: 255},
		Palette:           color.DefaultPalette(),
	}
}

func testGrid() GridMetrics {
	return GridMetrics{Rows: 2, Columns: 2, CellWidth: 9, CellHeight: 18}
}

func TestBuildEmitsBackgroundQuadForNonDefaultBg(t *testing.T) {
	cells := []Cell{
		{Char: "a", Background: color.Ref{Kind: color.ANSI, Index: 1}},
		{Char: " "},
	}
	out, err := Build(Input{Row: 0, Grid: testGrid(), Cells: cells, Theme: testTheme(), Glyphs: fakeGlyphs{}})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.BgPositions) != 12 {
		t.Fatalf("expected one background quad (12 floats), got %d", len(out.BgPositions))
	}
	if out.GlyphCount != 1 {
		t.Fatalf("expected one glyph quad for 'a', got %d", out.GlyphCount)
	}
}

func TestBuildSkipsGlyphForSpaceAndEmpty(t *testing.T) {
	cells := []Cell{{Char: " "}, {Char: ""}}
	out, err := Build(Input{Row: 0, Grid: testGrid(), Cells: cells, Theme: testTheme(), Glyphs: fakeGlyphs{}})
	if err != nil {
		t.Fatal(err)
	}
	if out.GlyphCount != 0 {
		t.Fatalf("expected no glyphs for space/empty cells, got %d", out.GlyphCount)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	cells := []Cell{
		{Char: "x", Foreground: color.Ref{Kind: color.ANSI, Index: 2}, Background: color.Ref{Kind: color.ANSI, Index: 1}},
		{Char: "y"},
	}
	in := Input{Row: 1, Grid: testGrid(), Cells: cells, Theme: testTheme(), Glyphs: fakeGlyphs{}}
	a, err := Build(in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.BgPositions) != len(b.BgPositions) {
		t.Fatal("expected identical output for identical input")
	}
	for i := range a.BgPositions {
		if a.BgPositions[i] != b.BgPositions[i] {
			t.Fatalf("mismatch at index %d: %v vs %v", i, a.BgPositions[i], b.BgPositions[i])
		}
	}
}

func TestBuildSelectionForcesBgNullAndSubstitutesForeground(t *testing.T) {
	altFg := color.RGBA8{R: 1, G: 1, B: 1, A: 255}
	cells := []Cell{
		{Char: "a", Background: color.Ref{Kind: color.ANSI, Index: 1}},
		{Char: "b"},
	}
	out, err := Build(Input{
		Row: 0, Grid: testGrid(), Cells: cells, Theme: testTheme(), Glyphs: fakeGlyphs{},
		SelectionSegment: &Segment{StartColumn: 0, EndColumn: 0},
		SelectionTheme:   &SelectionTheme{Background: color.RGBA8{R: 0x12, G: 0x34, B: 0x56, A: 255}, Foreground: &altFg},
	})
	if err != nil {
		t.Fatal(err)
	}
	// One selection-row background quad, plus the second cell's own bg (none, default->null),
	// so only the selection highlight quad should be present.
	if len(out.BgPositions) != 12 {
		t.Fatalf("expected exactly one bg quad (selection highlight, cell bg suppressed), got %d floats", len(out.BgPositions))
	}
}

func TestBuildCursorBlockQuad(t *testing.T) {
	cells := []Cell{{Char: " "}, {Char: " "}}
	out, err := Build(Input{
		Row: 0, Grid: testGrid(), Cells: cells, Theme: testTheme(), Glyphs: fakeGlyphs{},
		IncludeCursor: true, CursorColumn: 1,
		CursorTheme: CursorTheme{Color: color.RGBA8{R: 255, G: 255, B: 255, A: 255}, Shape: CursorBlock},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.BgPositions) != 12 {
		t.Fatalf("expected exactly one cursor bg quad, got %d floats", len(out.BgPositions))
	}
}
