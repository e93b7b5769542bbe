// Package dirty tracks per-row damage between frames: a set of merged
// column spans per row, or a single "full repaint" flag, consumed once per
// applyUpdates call.
//
// No direct teacher analogue exists for incremental damage tracking in a
// general 2D graphics library; the shape of a row-keyed dirty set feeding
// a downstream rebuild is grounded on the retrieval pack's terminal line
// cache (other_examples' keystorm renderer, whose Cache embeds a
// dirty.Tracker alongside per-line content hashes).
package dirty

import "sort"

// Span is an inclusive column range [Start, End].
type Span struct {
	Start, End int
}

// Mode classifies the result of Consume.
type Mode int

const (
	ModeNone Mode = iota
	ModePartial
	ModeFull
)

// Result is what Consume hands back to the caller.
type Result struct {
	Mode     Mode
	Coverage *float64 // [0,1], nil for ModeNone/ModeFull
	Rows     map[int][]Span
}

// Tracker is the per-row dirty-span set described in spec §3/§4.3.
type Tracker struct {
	isFull    bool
	dirtyRows map[int][]Span
}

// NewTracker returns an empty, non-full tracker.
func NewTracker() *Tracker {
	return &Tracker{dirtyRows: make(map[int][]Span)}
}

// MarkFull marks the entire frame dirty; dirtyRows is dropped per the
// isFull/dirtyRows exclusivity invariant.
func (t *Tracker) MarkFull() {
	t.isFull = true
	t.dirtyRows = make(map[int][]Span)
}

// MarkCell marks a single column dirty on row.
func (t *Tracker) MarkCell(row, col int) {
	t.MarkRange(row, col, col)
}

// MarkRow marks an entire row dirty using a sentinel full-row span; actual
// clamping to [0, columns-1] happens in Consume, which doesn't know the
// column count until called.
func (t *Tracker) MarkRow(row int) {
	t.markRange(row, 0, maxCol)
}

// maxCol is the sentinel "to the end of the row" column value used
// internally by MarkRow; Consume clamps it to columns-1.
const maxCol = 1<<31 - 1

// MarkRange marks columns [startCol, endCol] dirty on row. Reversed
// bounds are swapped. Callers with a non-finite bound (before truncating
// to int) should call MarkRangeNonFinite instead, per spec §4.3.
func (t *Tracker) MarkRange(row, startCol, endCol int) {
	if t.isFull {
		return
	}
	if startCol > endCol {
		startCol, endCol = endCol, startCol
	}
	t.markRange(row, startCol, endCol)
}

// MarkRangeNonFinite marks row fully dirty because a caller-computed
// column bound was non-finite (NaN/±Inf before truncation), per spec
// §4.3's "non-finite columns escalate to a full-row range" rule, and
// non-finite rows escalate the whole tracker to full.
func (t *Tracker) MarkRangeNonFinite(row int, rowIsFinite bool) {
	if t.isFull {
		return
	}
	if !rowIsFinite {
		t.MarkFull()
		return
	}
	t.MarkRow(row)
}

func (t *Tracker) markRange(row, startCol, endCol int) {
	if t.isFull {
		return
	}
	spans := t.dirtyRows[row]
	spans = insertMerge(spans, Span{Start: startCol, End: endCol})
	t.dirtyRows[row] = spans
}

// insertMerge inserts s into spans (sorted by Start, non-overlapping,
// non-adjacent) and merges overlapping or touching neighbors: [a,b] and
// [c,d] merge iff c <= b+1, yielding [a, max(b,d)].
func insertMerge(spans []Span, s Span) []Span {
	spans = append(spans, s)
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	merged := spans[:0]
	for _, cur := range spans {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if cur.Start <= last.End+1 {
				if cur.End > last.End {
					last.End = cur.End
				}
				continue
			}
		}
		merged = append(merged, cur)
	}
	return merged
}

// MarkSelection marks the given selection row segments dirty. A nil
// segment list marks nothing, and malformed segments (StartColumn greater
// than EndColumn) are silently skipped per spec §7's "malformed selection
// segments are ignored by markSelection" rule.
func (t *Tracker) MarkSelection(segments []RowSegment) {
	if t.isFull {
		return
	}
	for _, seg := range segments {
		if seg.StartColumn > seg.EndColumn {
			continue
		}
		t.MarkRange(seg.Row, seg.StartColumn, seg.EndColumn)
	}
}

// RowSegment mirrors the renderer's selection row segment shape, kept
// local to avoid an import of the root package.
type RowSegment struct {
	Row, StartColumn, EndColumn int
}

// Consume clamps all spans to [0, columns-1] for rows in [0, rows-1],
// drops out-of-range rows entirely, computes coverage, and resets the
// tracker to isFull=false, dirtyRows={}.
func (t *Tracker) Consume(rows, columns int) Result {
	if t.isFull {
		t.isFull = false
		t.dirtyRows = make(map[int][]Span)
		return Result{Mode: ModeFull}
	}
	if len(t.dirtyRows) == 0 {
		return Result{Mode: ModeNone}
	}

	out := make(map[int][]Span, len(t.dirtyRows))
	dirtyCells := 0
	for row, spans := range t.dirtyRows {
		if row < 0 || row >= rows {
			continue
		}
		clamped := make([]Span, 0, len(spans))
		for _, s := range spans {
			start, end := s.Start, s.End
			if start < 0 {
				start = 0
			}
			if end > columns-1 {
				end = columns - 1
			}
			if start > end {
				continue
			}
			clamped = append(clamped, Span{Start: start, End: end})
			dirtyCells += end - start + 1
		}
		if len(clamped) > 0 {
			out[row] = clamped
		}
	}

	t.dirtyRows = make(map[int][]Span)

	if len(out) == 0 {
		return Result{Mode: ModeNone}
	}

	coverage := float64(dirtyCells) / float64(rows*columns)
	return Result{Mode: ModePartial, Coverage: &coverage, Rows: out}
}
