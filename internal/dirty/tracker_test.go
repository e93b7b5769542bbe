package dirty

import "testing"

func TestMarkFullClearsDirtyRows(t *testing.T) {
	tr := NewTracker()
	tr.MarkRange(0, 1, 2)
	tr.MarkFull()
	res := tr.Consume(10, 10)
	if res.Mode != ModeFull {
		t.Fatalf("expected ModeFull, got %v", res.Mode)
	}
	if len(tr.dirtyRows) != 0 {
		t.Fatal("expected dirtyRows empty after MarkFull")
	}
}

func TestMarkRangeIsNoOpWhenFull(t *testing.T) {
	tr := NewTracker()
	tr.MarkFull()
	tr.MarkRange(0, 1, 2)
	if len(tr.dirtyRows) != 0 {
		t.Fatal("MarkRange should be a no-op once full")
	}
}

func TestMarkRangeSwapsReversedBounds(t *testing.T) {
	tr := NewTracker()
	tr.MarkRange(0, 5, 2)
	res := tr.Consume(10, 10)
	spans := res.Rows[0]
	if len(spans) != 1 || spans[0] != (Span{Start: 2, End: 5}) {
		t.Fatalf("got %+v", spans)
	}
}

func TestMergeAdjacentAndOverlappingSpans(t *testing.T) {
	tr := NewTracker()
	tr.MarkRange(0, 0, 2)
	tr.MarkRange(0, 3, 4) // adjacent: 3 <= 2+1
	tr.MarkRange(0, 10, 12)
	res := tr.Consume(20, 20)
	spans := res.Rows[0]
	if len(spans) != 2 {
		t.Fatalf("expected 2 merged spans, got %+v", spans)
	}
	if spans[0] != (Span{Start: 0, End: 4}) {
		t.Fatalf("expected merged [0,4], got %+v", spans[0])
	}
	if spans[1] != (Span{Start: 10, End: 12}) {
		t.Fatalf("expected untouched [10,12], got %+v", spans[1])
	}
}

func TestConsumeClampsAndDropsOutOfRange(t *testing.T) {
	tr := NewTracker()
	tr.MarkRange(0, -5, 3)
	tr.MarkRange(100, 0, 1) // out of range row, dropped
	res := tr.Consume(10, 10)
	if _, ok := res.Rows[100]; ok {
		t.Fatal("expected out-of-range row to be dropped")
	}
	spans := res.Rows[0]
	if len(spans) != 1 || spans[0] != (Span{Start: 0, End: 3}) {
		t.Fatalf("got %+v", spans)
	}
}

func TestConsumeResetsTracker(t *testing.T) {
	tr := NewTracker()
	tr.MarkRange(0, 0, 1)
	tr.Consume(10, 10)
	res := tr.Consume(10, 10)
	if res.Mode != ModeNone {
		t.Fatalf("expected ModeNone after consuming, got %v", res.Mode)
	}
}

func TestMarkRangeNonFiniteRowEscalatesFull(t *testing.T) {
	tr := NewTracker()
	tr.MarkRangeNonFinite(0, false)
	res := tr.Consume(10, 10)
	if res.Mode != ModeFull {
		t.Fatalf("expected full escalation for non-finite row, got %v", res.Mode)
	}
}

func TestMarkRangeNonFiniteColumnMarksWholeRow(t *testing.T) {
	tr := NewTracker()
	tr.MarkRangeNonFinite(2, true)
	res := tr.Consume(10, 5)
	spans := res.Rows[2]
	if len(spans) != 1 || spans[0] != (Span{Start: 0, End: 4}) {
		t.Fatalf("expected full row clamped to columns-1, got %+v", spans)
	}
}

func TestMarkSelectionIgnoresMalformedSegments(t *testing.T) {
	tr := NewTracker()
	tr.MarkSelection([]RowSegment{{Row: 0, StartColumn: 5, EndColumn: 2}})
	res := tr.Consume(10, 10)
	if res.Mode != ModeNone {
		t.Fatalf("expected malformed segment ignored, got mode %v rows %+v", res.Mode, res.Rows)
	}
}

// TestDirtyTrackerMergeProperty checks the spec §8 invariant: for any sequence of
// markRange calls, the consumed span set equals the set-union of the
// input ranges, clipped to [0, columns-1], expressed as minimal disjoint
// spans.
func TestDirtyTrackerMergeProperty(t *testing.T) {
	tr := NewTracker()
	inputs := []Span{{0, 3}, {2, 5}, {8, 8}, {9, 12}, {20, 25}}
	for _, s := range inputs {
		tr.MarkRange(0, s.Start, s.End)
	}
	res := tr.Consume(1, 30)
	want := []Span{{0, 5}, {8, 12}, {20, 25}}
	got := res.Rows[0]
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	}
}
