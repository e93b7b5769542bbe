package vtrender

import "github.com/gogpu/vtrender/backend"

// SelectionListener is invoked after a draw whose update list changed the
// selection, exactly once per ApplyUpdates call.
type SelectionListener func(sel *Selection)

// CursorOverlayFunc is a host-provided pure function of the current
// snapshot, metrics, theme, and selection that paints a custom cursor onto
// an overlay surface. When set, the default cursor background quad is
// omitted from row geometry and the overlay image is rebuilt each frame
// and handed to the backend as the frame's last layer. The CPU backend
// composites it last; the GPU backend does not draw it.
type CursorOverlayFunc func(surface OverlaySurface, snapshot *TerminalState, metrics Metrics, theme Theme, sel *Selection)

// OverlaySurface is the abstract 2D drawing surface handed to a
// CursorOverlayFunc. It substitutes for a host canvas 2D context.
type OverlaySurface interface {
	Clear()
	FillRect(x, y, w, h float64, r, g, b, a uint8)
	FillText(text string, x, y float64, r, g, b, a uint8)
}

// RendererOption configures a Renderer during construction.
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	selectionListener SelectionListener
	cursorOverlay     CursorOverlayFunc
	backendConfig     backend.Config
	glyphAtlasCap     int
}

func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		backendConfig: backend.Config{Type: backend.TypeGPUWebGL, Fallback: backend.FallbackPreferGPU},
		glyphAtlasCap: 8,
	}
}

// WithSelectionListener registers a callback invoked once per
// ApplyUpdates call whose update list changed the selection.
func WithSelectionListener(l SelectionListener) RendererOption {
	return func(o *rendererOptions) { o.selectionListener = l }
}

// WithCursorOverlay installs a host-provided cursor overlay strategy,
// replacing the default background-geometry cursor.
func WithCursorOverlay(f CursorOverlayFunc) RendererOption {
	return func(o *rendererOptions) { o.cursorOverlay = f }
}

// WithBackendConfig selects and configures the draw backend.
func WithBackendConfig(cfg backend.Config) RendererOption {
	return func(o *rendererOptions) { o.backendConfig = cfg }
}

// WithGlyphAtlasCapacity sets the maximum number of atlas pages (default 8)
// before rendering a new glyph fails with ErrAtlasOverflow.
func WithGlyphAtlasCapacity(pages int) RendererOption {
	return func(o *rendererOptions) {
		if pages > 0 {
			o.glyphAtlasCap = pages
		}
	}
}
