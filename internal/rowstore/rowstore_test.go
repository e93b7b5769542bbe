package rowstore

import (
	"testing"

	"github.com/gogpu/vtrender/internal/geometry"
)

func row(bg, glyph int) geometry.Output {
	return geometry.Output{
		BgPositions:    make([]float32, bg),
		BgColors:       make([]float32, bg*2),
		GlyphPositions: make([]float32, glyph),
		GlyphTexCoords: make([]float32, glyph),
		GlyphColors:    make([]float32, glyph*2),
		GlyphCount:     glyph / 12,
	}
}

func TestRebuildPacksRowsContiguously(t *testing.T) {
	s := New(3)
	s.Rebuild([]geometry.Output{row(12, 0), row(24, 12), row(0, 0)})

	if s.BackgroundVertexCount() != (12+24)/2 {
		t.Fatalf("got %d background vertices", s.BackgroundVertexCount())
	}
	if s.GlyphVertexCount() != 6 {
		t.Fatalf("got %d glyph vertices", s.GlyphVertexCount())
	}
}

func TestWriteRowInPlaceWhenLengthsMatch(t *testing.T) {
	s := New(2)
	s.Rebuild([]geometry.Output{row(12, 0), row(12, 0)})
	v1 := s.Version()

	ok := s.WriteRow(0, row(12, 0))
	if !ok {
		t.Fatal("expected in-place write to succeed for matching lengths")
	}
	if s.Version() == v1 {
		t.Fatal("expected version to advance after a write")
	}
}

func TestWriteRowFailsOnLengthMismatch(t *testing.T) {
	s := New(2)
	s.Rebuild([]geometry.Output{row(12, 0), row(12, 0)})

	ok := s.WriteRow(0, row(24, 0))
	if ok {
		t.Fatal("expected write with different length to fail")
	}
}

func TestTranslateRowsShiftsYAndFlagsOutOfRangeRows(t *testing.T) {
	s := New(4)
	s.Rebuild([]geometry.Output{row(12, 0), row(12, 0), row(12, 0), row(12, 0)})

	needsRebuild := s.TranslateRows(1, 4)
	// Rows 0,1,2 take source rows 1,2,3; row 3's source (4) is out of range.
	if len(needsRebuild) != 1 || needsRebuild[0] != 3 {
		t.Fatalf("expected row 3 to need rebuild, got %+v", needsRebuild)
	}
}

func TestTranslateRowsRequiresMatchingRowCount(t *testing.T) {
	s := New(2)
	s.Rebuild([]geometry.Output{row(12, 0), row(12, 0)})

	needsRebuild := s.TranslateRows(1, 5) // mismatched row count
	if len(needsRebuild) != 5 {
		t.Fatalf("expected all 5 rows flagged on row-count mismatch, got %d", len(needsRebuild))
	}
}

func TestRowOutputRoundTripsThroughRebuild(t *testing.T) {
	s := New(2)
	original := row(12, 12)
	s.Rebuild([]geometry.Output{original, row(0, 0)})

	out := s.RowOutput(0)
	if len(out.BgPositions) != len(original.BgPositions) {
		t.Fatalf("got %d bg positions, want %d", len(out.BgPositions), len(original.BgPositions))
	}
	if out.GlyphCount != original.GlyphCount {
		t.Fatalf("got glyph count %d, want %d", out.GlyphCount, original.GlyphCount)
	}
}
