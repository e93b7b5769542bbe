// Package rowstore holds per-row render geometry in five pooled dynamic
// float32 buffers (background positions/colors, glyph positions/
// tex-coords/colors), so a change to one row rewrites only that row's
// slice instead of repacking the whole frame.
//
// Grounded on the teacher's internal/gpu/buffer.go (the bufferData-vs-
// bufferSubData distinction it documents) for the offset/length/capacity
// bookkeeping idiom, generalized from one GPU buffer to five host-side
// pools feeding five GPU buffers.
package rowstore

import "github.com/gogpu/vtrender/internal/geometry"

// RowSlice is one row's offset/length into each of the five pools.
type RowSlice struct {
	BgPosOffset, BgPosLen         int
	BgColorOffset, BgColorLen     int
	GlyphPosOffset, GlyphPosLen   int
	GlyphTexOffset, GlyphTexLen   int
	GlyphColorOffset, GlyphColorLen int
	GlyphCount                   int
}

// Store is the row-slice store described in spec §3/§4.5.
type Store struct {
	bgPositions    *vector
	bgColors       *vector
	glyphPositions *vector
	glyphTexCoords *vector
	glyphColors    *vector

	rows    []RowSlice
	version uint64
}

// New creates a store sized for rowCount rows, all initially empty.
func New(rowCount int) *Store {
	return &Store{
		bgPositions:    newVector(256),
		bgColors:       newVector(256),
		glyphPositions: newVector(256),
		glyphTexCoords: newVector(256),
		glyphColors:    newVector(256),
		rows:           make([]RowSlice, rowCount),
	}
}

// Version is a monotonic tag bumped on every structural change (row
// write, translate, or rebuild), so the GPU backend can tell whether its
// mirrored buffers are stale.
func (s *Store) Version() uint64 { return s.version }

// BackgroundVertexCount is the live vertex count across all rows'
// background geometry.
func (s *Store) BackgroundVertexCount() int { return s.bgPositions.Len() / 2 }

// GlyphVertexCount is the live vertex count across all rows' glyph
// geometry.
func (s *Store) GlyphVertexCount() int { return s.glyphPositions.Len() / 2 }

// GlyphCount is the live glyph-quad count across all rows.
func (s *Store) GlyphCount() int {
	total := 0
	for _, r := range s.rows {
		total += r.GlyphCount
	}
	return total
}

// BgPositions returns the live background-position buffer.
func (s *Store) BgPositions() []float32 { return s.bgPositions.Slice(0, s.bgPositions.Len()) }

// BgColors returns the live background-color buffer.
func (s *Store) BgColors() []float32 { return s.bgColors.Slice(0, s.bgColors.Len()) }

// GlyphPositions returns the live glyph-position buffer.
func (s *Store) GlyphPositions() []float32 { return s.glyphPositions.Slice(0, s.glyphPositions.Len()) }

// GlyphTexCoords returns the live glyph-tex-coord buffer.
func (s *Store) GlyphTexCoords() []float32 { return s.glyphTexCoords.Slice(0, s.glyphTexCoords.Len()) }

// GlyphColors returns the live glyph-color buffer.
func (s *Store) GlyphColors() []float32 { return s.glyphColors.Slice(0, s.glyphColors.Len()) }

// WriteRow overwrites row's slice in place when the new geometry's five
// lengths exactly match the row's existing slice lengths. It reports
// ok=false when any length differs, meaning the caller must fall back to
// Rebuild for the whole store (spec §4.5's length-mismatch rule).
func (s *Store) WriteRow(row int, out geometry.Output) (ok bool) {
	cur := s.rows[row]
	if len(out.BgPositions) != cur.BgPosLen ||
		len(out.BgColors) != cur.BgColorLen ||
		len(out.GlyphPositions) != cur.GlyphPosLen ||
		len(out.GlyphTexCoords) != cur.GlyphTexLen ||
		len(out.GlyphColors) != cur.GlyphColorLen {
		return false
	}
	s.bgPositions.Write(cur.BgPosOffset, out.BgPositions)
	s.bgColors.Write(cur.BgColorOffset, out.BgColors)
	s.glyphPositions.Write(cur.GlyphPosOffset, out.GlyphPositions)
	s.glyphTexCoords.Write(cur.GlyphTexOffset, out.GlyphTexCoords)
	s.glyphColors.Write(cur.GlyphColorOffset, out.GlyphColors)
	s.rows[row].GlyphCount = out.GlyphCount
	s.version++
	return true
}

// RowOutput reconstructs a row's current geometry as a geometry.Output by
// copying out of the live vectors at its current descriptor. Used to
// repack unchanged rows (including ones just shifted by TranslateRows)
// back through Rebuild without re-running the row-geometry builder for
// them.
func (s *Store) RowOutput(row int) geometry.Output {
	rs := s.rows[row]
	return geometry.Output{
		BgPositions:    append([]float32(nil), s.bgPositions.Slice(rs.BgPosOffset, rs.BgPosLen)...),
		BgColors:       append([]float32(nil), s.bgColors.Slice(rs.BgColorOffset, rs.BgColorLen)...),
		GlyphPositions: append([]float32(nil), s.glyphPositions.Slice(rs.GlyphPosOffset, rs.GlyphPosLen)...),
		GlyphTexCoords: append([]float32(nil), s.glyphTexCoords.Slice(rs.GlyphTexOffset, rs.GlyphTexLen)...),
		GlyphColors:    append([]float32(nil), s.glyphColors.Slice(rs.GlyphColorOffset, rs.GlyphColorLen)...),
		GlyphCount:     rs.GlyphCount,
	}
}

// Rebuild repacks every row's geometry contiguously from scratch. rows
// must have exactly one entry per grid row, in order.
func (s *Store) Rebuild(rows []geometry.Output) {
	s.bgPositions.Truncate(0)
	s.bgColors.Truncate(0)
	s.glyphPositions.Truncate(0)
	s.glyphTexCoords.Truncate(0)
	s.glyphColors.Truncate(0)

	slices := make([]RowSlice, len(rows))
	for i, out := range rows {
		var rs RowSlice
		rs.BgPosOffset = s.bgPositions.Len()
		s.bgPositions.Write(rs.BgPosOffset, out.BgPositions)
		rs.BgPosLen = len(out.BgPositions)

		rs.BgColorOffset = s.bgColors.Len()
		s.bgColors.Write(rs.BgColorOffset, out.BgColors)
		rs.BgColorLen = len(out.BgColors)

		rs.GlyphPosOffset = s.glyphPositions.Len()
		s.glyphPositions.Write(rs.GlyphPosOffset, out.GlyphPositions)
		rs.GlyphPosLen = len(out.GlyphPositions)

		rs.GlyphTexOffset = s.glyphTexCoords.Len()
		s.glyphTexCoords.Write(rs.GlyphTexOffset, out.GlyphTexCoords)
		rs.GlyphTexLen = len(out.GlyphTexCoords)

		rs.GlyphColorOffset = s.glyphColors.Len()
		s.glyphColors.Write(rs.GlyphColorOffset, out.GlyphColors)
		rs.GlyphColorLen = len(out.GlyphColors)

		rs.GlyphCount = out.GlyphCount
		slices[i] = rs
	}
	s.rows = slices
	s.version++
}

// TranslateRows implements the full-viewport scroll optimization of spec
// §4.5: for amount k, every destination row t takes on the slice
// descriptor (not the bytes) of source row s = t+k, and every Y component
// in that slice's positions is shifted by deltaClipY = -(t-s)*(2/rows).
// Rows whose source falls outside [0, rows-1] are returned for the caller
// to rebuild from the new snapshot.
func (s *Store) TranslateRows(amount, rows int) (needsRebuild []int) {
	if len(s.rows) != rows {
		// Row count changed since the last rebuild; caller must do a full
		// rebuild instead of a translation.
		all := make([]int, rows)
		for i := range all {
			all[i] = i
		}
		return all
	}

	next := make([]RowSlice, rows)
	for t := 0; t < rows; t++ {
		src := t + amount
		if src < 0 || src >= rows {
			needsRebuild = append(needsRebuild, t)
			continue
		}
		rs := s.rows[src]
		next[t] = rs

		delta := float32(-(t - src)) * (2.0 / float32(rows))
		s.bgPositions.Translate(rs.BgPosOffset, rs.BgPosLen, 2, 1, delta)
		s.glyphPositions.Translate(rs.GlyphPosOffset, rs.GlyphPosLen, 2, 1, delta)
	}
	s.rows = next
	s.version++
	return needsRebuild
}
