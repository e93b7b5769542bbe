package vtrender

import "errors"

// Sentinel errors raised by the renderer facade and its backends. Wrap with
// fmt.Errorf("...: %w", err) at call sites; match with errors.Is.
var (
	// ErrRendererDisposed is returned by every mutating method once
	// Dispose has been called.
	ErrRendererDisposed = errors.New("vtrender: renderer disposed")

	// ErrBackendProbeFailed is returned from New when no backend
	// satisfying the configured fallback policy is available.
	ErrBackendProbeFailed = errors.New("vtrender: backend probe failed")

	// ErrShaderCompileFailed is fatal to the GPU backend.
	ErrShaderCompileFailed = errors.New("vtrender: shader compile failed")

	// ErrProgramLinkFailed is fatal to the GPU backend.
	ErrProgramLinkFailed = errors.New("vtrender: program link failed")

	// ErrBufferAllocFailed is fatal to the GPU backend.
	ErrBufferAllocFailed = errors.New("vtrender: buffer allocation failed")

	// ErrTextureAllocFailed is fatal to the GPU backend.
	ErrTextureAllocFailed = errors.New("vtrender: texture allocation failed")

	// ErrContextLost is fatal to the GPU backend; the device or its
	// surface was lost and must be recreated from scratch.
	ErrContextLost = errors.New("vtrender: GPU context lost")

	// ErrAtlasOverflow wraps the glyph atlas's overflow error in errors
	// returned by the renderer when the page cap would be exceeded.
	ErrAtlasOverflow = errors.New("vtrender: glyph atlas overflow")

	// ErrGlyphTooLarge wraps the glyph atlas's too-large error in errors
	// returned by the renderer when a glyph does not fit within a single
	// page in either dimension.
	ErrGlyphTooLarge = errors.New("vtrender: glyph too large for atlas page")

	// ErrUnsupportedColor is returned by color parsing for strings that
	// do not match a recognized CSS color syntax.
	ErrUnsupportedColor = errors.New("vtrender: unsupported color syntax")
)
