// Package vtrender is the rendering core of an embeddable VT terminal.
//
// It turns an interpreter's terminal state — a grid of styled cells plus
// cursor, selection, palette, and mode flags — into GPU-accelerated pixels,
// and turns incremental interpreter updates into minimal GPU work.
//
// # Overview
//
// A [Renderer] owns a glyph atlas, a dirty-region tracker, a row-slice
// store, and a backend (GPU via wgpu, or a CPU software fallback). Callers
// drive it with [Renderer.ApplyUpdates] for incremental repaints or
// [Renderer.Sync] for a full rebuild from a snapshot.
//
//	r, err := vtrender.New(snapshot, metrics, theme)
//	if err != nil { ... }
//	defer r.Dispose()
//	r.ApplyUpdates(snapshot, updates)
//
// # Architecture
//
//   - internal/color: attribute-to-RGBA resolution
//   - internal/width: East-Asian-Width glyph classification
//   - internal/atlas: glyph rasterization and packing
//   - internal/dirty: per-row damage tracking
//   - internal/geometry: row-to-vertex-buffer construction
//   - internal/rowstore: pooled per-row geometry with scroll translation
//   - backend: GPU and CPU-fallback draw backends, selected by probe
package vtrender
