package vtrender

// renderer.go implements the Renderer facade: it turns cell attributes
// and a theme into background/glyph quads via internal/geometry, keeps
// per-row geometry in internal/rowstore so only damaged rows are
// rebuilt, and hands the packed float buffers to whichever backend.Backend
// the host configured (GPU or CPU software fallback).

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gogpu/vtrender/backend"
	_ "github.com/gogpu/vtrender/backend/cpu"
	_ "github.com/gogpu/vtrender/backend/gpu"
	"github.com/gogpu/vtrender/internal/atlas"
	"github.com/gogpu/vtrender/internal/color"
	"github.com/gogpu/vtrender/internal/dirty"
	"github.com/gogpu/vtrender/internal/geometry"
	"github.com/gogpu/vtrender/internal/rowstore"
)

// Renderer is the facade described in spec §4.10: it owns the glyph
// atlas, the dirty tracker, the row-slice store, and the active draw
// backend, and exposes the operations a terminal host drives a frame
// loop with.
type Renderer struct {
	mu sync.Mutex

	opts rendererOptions

	be backend.Backend

	atlasInst *atlas.Atlas
	dirty     *dirty.Tracker
	store     *rowstore.Store

	rows, columns int
	metrics       Metrics
	theme         Theme
	overrides     color.Overrides

	lastSnapshot *TerminalState
	selection    *Selection

	pendingDCS []byte
	lastOSC    string
	lastSOS    string

	diag Diagnostics

	disposed bool
}

// New constructs a Renderer for the given initial snapshot, metrics, and
// theme, probing and creating a draw backend per opts (or the default
// prefer-GPU policy), and draws the first frame before returning.
func New(snapshot *TerminalState, metrics Metrics, theme Theme, opts ...RendererOption) (*Renderer, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("vtrender: New: snapshot is nil")
	}
	ro := defaultRendererOptions()
	for _, o := range opts {
		o(&ro)
	}

	log := Logger()

	cacheDir, _ := os.UserCacheDir()
	fontSource, err := atlas.NewSystemFontSource(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("vtrender: New: %w", err)
	}
	rasterizer := atlas.NewRasterizer(fontSource)
	fm := atlas.FontMetrics{
		CellWidth: metrics.Cell.Width, CellHeight: metrics.Cell.Height,
		Family: metrics.Font.Family, Size: metrics.Font.Size,
	}
	at := atlas.New(fm, rasterizer, ro.glyphAtlasCap, log)

	bm := backend.Metrics{
		DevicePixelRatio: metrics.DevicePixelRatio,
		Rows:             snapshot.Rows, Columns: snapshot.Columns,
		CellWidth: metrics.Cell.Width, CellHeight: metrics.Cell.Height,
	}
	be, err := backend.Create(ro.backendConfig, bm, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendProbeFailed, err)
	}

	r := &Renderer{
		opts:      ro,
		be:        be,
		atlasInst: at,
		dirty:     dirty.NewTracker(),
		store:     rowstore.New(snapshot.Rows),
		rows:      snapshot.Rows,
		columns:   snapshot.Columns,
		metrics:   metrics,
		theme:     theme,
		overrides: make(color.Overrides),
		selection: snapshot.Selection,
	}

	if err := r.rebuildAll(snapshot); err != nil {
		_ = be.Dispose()
		return nil, err
	}
	if err := r.draw(snapshot, nil); err != nil {
		_ = be.Dispose()
		return nil, err
	}
	return r, nil
}

// ApplyUpdates classifies updates into dirty damage per spec §4.6,
// rebuilds only the affected rows (or the whole frame, or nothing, per
// the resulting mode), uploads to the backend, and fires the selection
// listener at most once if any update changed the selection.
func (r *Renderer) ApplyUpdates(snapshot *TerminalState, updates []TerminalUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return ErrRendererDisposed
	}
	if len(updates) == 0 {
		return nil
	}
	start := time.Now()
	r.lastSnapshot = snapshot

	selectionChanged := false
	var newSelection *Selection

	for _, u := range updates {
		switch u.Kind {
		case UpdateCells:
			for _, c := range u.Cells {
				r.dirty.MarkCell(c.Row, c.Column)
			}
		case UpdateCursor:
			r.dirty.MarkCell(u.OldCursor.Row, u.OldCursor.Column)
			r.dirty.MarkCell(u.NewCursor.Row, u.NewCursor.Column)
		case UpdateCursorVisibility:
			r.dirty.MarkCell(snapshot.Cursor.Row, snapshot.Cursor.Column)
		case UpdateScroll:
			if snapshot.ScrollTop == 0 && snapshot.ScrollBottom == r.rows-1 {
				if err := r.applyScrollTranslate(snapshot, u.ScrollAmount); err != nil {
					return err
				}
			} else {
				// Partial scroll regions are not translated in place;
				// the whole frame is rebuilt from the new snapshot.
				r.dirty.MarkFull()
			}
		case UpdateClearDisplay, UpdateAttributes, UpdateScrollRegion, UpdateMode:
			r.dirty.MarkFull()
		case UpdateClearLine:
			r.dirty.MarkRow(u.Row)
		case UpdateClearLineAfterCursor:
			r.dirty.MarkRange(u.Row, u.Col, r.columns-1)
		case UpdatePalette:
			r.overrides[u.PaletteIndex] = r.resolveOverrideColor(u.PaletteColor)
			r.dirty.MarkFull()
		case UpdateSelectionSet, UpdateSelectionUpdate:
			r.markSelectionDirty(u.OldSelection)
			r.markSelectionDirty(u.NewSelection)
			selectionChanged = true
			newSelection = u.NewSelection
		case UpdateSelectionClear:
			r.markSelectionDirty(u.OldSelection)
			selectionChanged = true
			newSelection = nil
		case UpdateOSC:
			r.lastOSC = u.OSCText
		case UpdateSOSPMAPC:
			r.lastSOS = u.OSCText
		case UpdateDCSStart:
			r.pendingDCS = nil
		case UpdateDCSData:
			r.pendingDCS = append(r.pendingDCS, u.DCSData...)
		case UpdateDCSEnd, UpdateClipboard, UpdateTitle, UpdateBell:
			// Host-facing notifications only; no render-visible damage.
		default:
			// Unrecognized update kinds may carry damage this renderer
			// doesn't know how to interpret; repaint everything rather
			// than risk stale cells.
			r.dirty.MarkFull()
		}
	}

	if selectionChanged {
		r.selection = newSelection
	}

	result := r.dirty.Consume(r.rows, r.columns)
	switch result.Mode {
	case dirty.ModeFull:
		if err := r.rebuildAll(snapshot); err != nil {
			return err
		}
	case dirty.ModePartial:
		if err := r.rebuildPartial(snapshot, result.Rows); err != nil {
			return err
		}
	}

	if err := r.draw(snapshot, result.Coverage); err != nil {
		return err
	}

	cells := 0
	switch result.Mode {
	case dirty.ModeFull:
		cells = r.rows * r.columns
	case dirty.ModePartial:
		for _, spans := range result.Rows {
			for _, s := range spans {
				cells += s.End - s.Start + 1
			}
		}
	}
	r.diag.CellsProcessed = cells
	r.diag.LastFrameDuration = time.Since(start).Seconds()
	r.diag.LastOSC = r.lastOSC
	r.diag.LastSOSPMAPC = r.lastSOS
	r.diag.LastDCSAccumulation = r.pendingDCS

	if selectionChanged && r.opts.selectionListener != nil {
		r.opts.selectionListener(r.selection)
	}
	return nil
}

// Resize rebinds the renderer to new grid dimensions and cell metrics: it
// resets the glyph atlas and row-slice store (both are sized/keyed by the
// old dimensions) and forces a full rebuild.
func (r *Renderer) Resize(snapshot *TerminalState, metrics Metrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return ErrRendererDisposed
	}
	r.metrics = metrics
	r.rows, r.columns = snapshot.Rows, snapshot.Columns

	fm := atlas.FontMetrics{
		CellWidth: metrics.Cell.Width, CellHeight: metrics.Cell.Height,
		Family: metrics.Font.Family, Size: metrics.Font.Size,
	}
	r.atlasInst.SetMetrics(fm)
	r.store = rowstore.New(r.rows)
	r.dirty.Consume(r.rows, r.columns)

	bm := backend.Metrics{
		DevicePixelRatio: metrics.DevicePixelRatio,
		Rows:             r.rows, Columns: r.columns,
		CellWidth: metrics.Cell.Width, CellHeight: metrics.Cell.Height,
	}
	if err := r.be.Resize(bm); err != nil {
		return err
	}

	r.selection = snapshot.Selection
	if err := r.rebuildAll(snapshot); err != nil {
		return err
	}
	return r.draw(snapshot, nil)
}

// SetTheme installs a new theme, drops palette overrides, and forces a
// full rebuild against the most recently applied snapshot.
func (r *Renderer) SetTheme(theme Theme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return ErrRendererDisposed
	}
	if r.lastSnapshot == nil {
		return fmt.Errorf("vtrender: SetTheme: no snapshot has been applied yet")
	}
	r.theme = theme
	r.overrides = make(color.Overrides)
	r.dirty.Consume(r.rows, r.columns)
	if err := r.rebuildAll(r.lastSnapshot); err != nil {
		return err
	}
	return r.draw(r.lastSnapshot, nil)
}

// Sync forces a full rebuild and draw from snapshot without processing an
// update list, discarding any pending dirty marks.
func (r *Renderer) Sync(snapshot *TerminalState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return ErrRendererDisposed
	}
	r.dirty.Consume(r.rows, r.columns)
	r.selection = snapshot.Selection
	if err := r.rebuildAll(snapshot); err != nil {
		return err
	}
	return r.draw(snapshot, nil)
}

// Dispose releases the backend. It is idempotent; subsequent calls to
// ApplyUpdates, Resize, SetTheme, and Sync return ErrRendererDisposed.
func (r *Renderer) Dispose() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return nil
	}
	r.disposed = true
	return r.be.Dispose()
}

// Diagnostics reports the outcome of the most recently drawn frame.
func (r *Renderer) Diagnostics() Diagnostics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.diag
}

// CurrentSelection returns the renderer's view of the active selection.
func (r *Renderer) CurrentSelection() *Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selection
}

// OnSelectionChange replaces the selection-change listener.
func (r *Renderer) OnSelectionChange(l SelectionListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.selectionListener = l
}

func (r *Renderer) markSelectionDirty(sel *Selection) {
	if sel == nil {
		return
	}
	segs := SelectionRowSegments(sel, r.columns)
	ds := make([]dirty.RowSegment, len(segs))
	for i, s := range segs {
		ds[i] = dirty.RowSegment{Row: s.Row, StartColumn: s.StartColumn, EndColumn: s.EndColumn}
	}
	r.dirty.MarkSelection(ds)
}

// applyScrollTranslate implements the full-viewport scroll optimization
// of spec §4.5: shift existing row descriptors in place via
// internal/rowstore.TranslateRows, then repack the store from a mix of
// freshly built rows (those the translation exposed) and the unchanged
// rows' existing geometry, avoiding a row-geometry rebuild for rows the
// scroll didn't actually change.
func (r *Renderer) applyScrollTranslate(snapshot *TerminalState, amount int) error {
	needsRebuild := r.store.TranslateRows(amount, r.rows)
	if len(needsRebuild) == 0 {
		return nil
	}
	rebuildSet := make(map[int]bool, len(needsRebuild))
	for _, row := range needsRebuild {
		rebuildSet[row] = true
	}

	ct := r.colorTheme()
	segMap := r.selectionSegmentsFor(snapshot)
	outs := make([]geometry.Output, r.rows)
	for row := 0; row < r.rows; row++ {
		if rebuildSet[row] {
			out, err := r.buildRow(snapshot, row, ct, segMap)
			if err != nil {
				return err
			}
			outs[row] = out
		} else {
			outs[row] = r.store.RowOutput(row)
		}
	}
	r.store.Rebuild(outs)
	return nil
}

func (r *Renderer) rebuildAll(snapshot *TerminalState) error {
	r.lastSnapshot = snapshot
	ct := r.colorTheme()
	segMap := r.selectionSegmentsFor(snapshot)
	outs := make([]geometry.Output, r.rows)
	for row := 0; row < r.rows; row++ {
		out, err := r.buildRow(snapshot, row, ct, segMap)
		if err != nil {
			return err
		}
		outs[row] = out
	}
	r.store.Rebuild(outs)
	return nil
}

// rebuildPartial rebuilds only dirtyRows in place, falling back to a full
// rebuild once if any row's new geometry length doesn't match its
// existing slice (spec §4.5's length-mismatch rule).
func (r *Renderer) rebuildPartial(snapshot *TerminalState, dirtyRows map[int][]dirty.Span) error {
	r.lastSnapshot = snapshot
	ct := r.colorTheme()
	segMap := r.selectionSegmentsFor(snapshot)
	for row := range dirtyRows {
		out, err := r.buildRow(snapshot, row, ct, segMap)
		if err != nil {
			return err
		}
		if !r.store.WriteRow(row, out) {
			return r.rebuildAll(snapshot)
		}
	}
	return nil
}

func (r *Renderer) buildRow(snapshot *TerminalState, row int, ct color.Theme, segMap map[int]geometry.Segment) (geometry.Output, error) {
	cells := make([]geometry.Cell, r.columns)
	if row < len(snapshot.Buffer) {
		src := snapshot.Buffer[row]
		for c := 0; c < r.columns && c < len(src); c++ {
			cells[c] = convertCell(src[c])
		}
	}

	grid := geometry.GridMetrics{
		Rows: r.rows, Columns: r.columns,
		CellWidth: r.metrics.Cell.Width, CellHeight: r.metrics.Cell.Height,
	}

	var selSeg *geometry.Segment
	if s, ok := segMap[row]; ok {
		selSeg = &s
	}

	includeCursor := snapshot.CursorVisible && snapshot.Cursor.Row == row && r.opts.cursorOverlay == nil
	cursorCol := -1
	if includeCursor {
		cursorCol = snapshot.Cursor.Column
	}

	in := geometry.Input{
		Row:              row,
		Grid:             grid,
		Cells:            cells,
		Theme:            ct,
		Overrides:        r.overrides,
		Glyphs:           r.atlasInst,
		SelectionSegment: selSeg,
		SelectionTheme:   r.selectionGeomTheme(ct),
		IncludeCursor:    includeCursor,
		CursorColumn:     cursorCol,
		CursorTheme:      r.cursorGeomTheme(ct),
	}
	out, err := geometry.Build(in)
	switch {
	case errors.Is(err, atlas.ErrOverflow):
		err = fmt.Errorf("%w: %w", ErrAtlasOverflow, err)
	case errors.Is(err, atlas.ErrGlyphTooLarge):
		err = fmt.Errorf("%w: %w", ErrGlyphTooLarge, err)
	}
	return out, err
}

func (r *Renderer) selectionSegmentsFor(snapshot *TerminalState) map[int]geometry.Segment {
	segs := SelectionRowSegments(snapshot.Selection, r.columns)
	m := make(map[int]geometry.Segment, len(segs))
	for _, s := range segs {
		m[s.Row] = geometry.Segment{StartColumn: s.StartColumn, EndColumn: s.EndColumn}
	}
	return m
}

func (r *Renderer) colorTheme() color.Theme {
	palette := convertPalette(r.theme.Palette)
	base := color.Theme{Palette: palette}
	fg, _ := color.TerminalColorToRGBA(convertColorTag(r.theme.Foreground), base, r.overrides, color.RGBA8{R: 255, G: 255, B: 255, A: 255}, false)
	bg, _ := color.TerminalColorToRGBA(convertColorTag(r.theme.Background), base, r.overrides, color.RGBA8{A: 255}, false)
	return color.Theme{DefaultForeground: fg, DefaultBackground: bg, Palette: palette}
}

func (r *Renderer) cursorGeomTheme(ct color.Theme) geometry.CursorTheme {
	col, _ := color.TerminalColorToRGBA(convertColorTag(r.theme.Cursor.Color), ct, r.overrides, ct.DefaultForeground, false)
	opacity := r.theme.Cursor.Opacity
	if opacity == 0 {
		opacity = 1
	}
	return geometry.CursorTheme{Color: col, Opacity: opacity, Shape: geometry.CursorShape(r.theme.Cursor.Shape)}
}

func (r *Renderer) selectionGeomTheme(ct color.Theme) *geometry.SelectionTheme {
	st := r.theme.Selection
	if st == nil {
		return nil
	}
	bg, _ := color.TerminalColorToRGBA(convertColorTag(st.Background), ct, r.overrides, ct.DefaultBackground, false)
	var fgPtr *color.RGBA8
	if st.Foreground != nil {
		fg, _ := color.TerminalColorToRGBA(convertColorTag(*st.Foreground), ct, r.overrides, ct.DefaultForeground, false)
		fgPtr = &fg
	}
	return &geometry.SelectionTheme{Background: bg, Foreground: fgPtr}
}

func (r *Renderer) resolveOverrideColor(c ColorTag) color.RGBA8 {
	ct := r.colorTheme()
	v, _ := color.TerminalColorToRGBA(convertColorTag(c), ct, r.overrides, ct.DefaultForeground, false)
	return v
}

func (r *Renderer) fallbackBackgroundRGBA() [4]float32 {
	bg := r.colorTheme().DefaultBackground
	return [4]float32{float32(bg.R) / 255, float32(bg.G) / 255, float32(bg.B) / 255, float32(bg.A) / 255}
}

func (r *Renderer) draw(snapshot *TerminalState, coverage *float64) error {
	frame := backend.FrameGeometry{
		FallbackBackground: r.fallbackBackgroundRGBA(),
		BgPositions:        r.store.BgPositions(),
		BgColors:           r.store.BgColors(),
		GlyphPositions:     r.store.GlyphPositions(),
		GlyphTexCoords:     r.store.GlyphTexCoords(),
		GlyphColors:        r.store.GlyphColors(),
	}
	for i := 0; i < r.atlasInst.PageCount(); i++ {
		pix, size := r.atlasInst.PageTexture(i)
		frame.AtlasPages = append(frame.AtlasPages, backend.AtlasPage{Pix: pix, Size: size, Dirty: r.atlasInst.PageDirty(i)})
	}

	if r.opts.cursorOverlay != nil {
		w := r.columns * int(r.metrics.Cell.Width+0.5)
		h := r.rows * int(r.metrics.Cell.Height+0.5)
		canvas := newOverlayCanvas(r, w, h)
		canvas.Clear()
		r.opts.cursorOverlay(canvas, snapshot, r.metrics, r.theme, r.selection)
		frame.Overlay = &backend.OverlayFrame{Pix: canvas.pix, Width: w, Height: h}
	}

	stats, err := r.be.Draw(frame)
	if err != nil {
		return err
	}

	hash := frameHash(r.store)
	r.diag.LastDrawCallCount = stats.DrawCallCount
	r.diag.GPUBytesUploaded = stats.GPUBytesUploaded
	r.diag.FrameContentHash = &hash
	r.diag.DirtyCoverage = coverage
	r.diag.Backend = BackendTag(r.be.Tag())
	return nil
}

func convertColorTag(c ColorTag) color.Ref {
	return color.Ref{Kind: color.Kind(c.Kind), Index: c.Index, R: c.R, G: c.G, B: c.B}
}

func convertCell(c Cell) geometry.Cell {
	return geometry.Cell{
		Char:          c.Char,
		Bold:          c.Attr.Bold,
		Faint:         c.Attr.Faint,
		Italic:        c.Attr.Italic,
		Underline:     geometry.Underline(c.Attr.Underline),
		Strikethrough: c.Attr.Strikethrough,
		Inverse:       c.Attr.Inverse,
		Hidden:        c.Attr.Hidden,
		Foreground:    convertColorTag(c.Attr.Foreground),
		Background:    convertColorTag(c.Attr.Background),
	}
}

func convertPalette(p Palette) color.PaletteTable {
	var pt color.PaletteTable
	for i, c := range p.ANSI {
		pt.ANSI[i] = paletteEntryRGBA(c)
	}
	pt.Extended = make([]color.RGBA8, len(p.Extended))
	for i, c := range p.Extended {
		pt.Extended[i] = paletteEntryRGBA(c)
	}
	return pt
}

// paletteEntryRGBA resolves one palette slot directly: a slot cannot
// meaningfully refer to another palette index or to the theme default, so
// only its RGB value (or black, if a theme was built with a non-RGB
// palette entry) is meaningful here.
func paletteEntryRGBA(c ColorTag) color.RGBA8 {
	if c.Kind == ColorRGB {
		return color.RGBA8{R: c.R, G: c.G, B: c.B, A: 255}
	}
	return color.RGBA8{A: 255}
}

// frameHash hashes the row-slice store's five live float buffers, giving
// the renderer a cheap way to assert that two different code paths (an
// incremental rebuild vs. a full rebuild reaching the same state)
// produced byte-identical geometry.
func frameHash(store *rowstore.Store) uint64 {
	h := fnv.New64a()
	var buf [4]byte
	write := func(fs []float32) {
		for _, f := range fs {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
			h.Write(buf[:])
		}
	}
	write(store.BgPositions())
	write(store.BgColors())
	write(store.GlyphPositions())
	write(store.GlyphTexCoords())
	write(store.GlyphColors())
	return h.Sum64()
}
