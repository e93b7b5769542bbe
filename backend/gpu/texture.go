package gpu

// atlasTexture tracks one glyph-atlas page's GPU-side texture. Grounded
// on the teacher's internal/gpu/gpu_texture.go GPUTexture: same
// width/height/format bookkeeping, same "logical texture with a pending
// upload" shape, since this module's wgpu binding doesn't yet expose
// texture creation through the high-level core package used for
// device/adapter/queue (only the low-level HAL does, and pulling in the
// HAL layer for one texture upload isn't worth the surface it drags in).
type atlasTexture struct {
	width, height int
	dirty         bool
}

func newAtlasTexture(size int) *atlasTexture {
	return &atlasTexture{width: size, height: size, dirty: true}
}

// sync marks the texture for re-upload when the page grew, and replaces
// its footprint.
func (t *atlasTexture) sync(size int, pageDirty bool) {
	if size != t.width {
		t.width, t.height = size, size
		t.dirty = true
		return
	}
	if pageDirty {
		t.dirty = true
	}
}

// overlayTexture holds the cursor-overlay RGBA8 image uploaded last in
// the draw sequence, per spec's overlay-drawn-last ordering.
type overlayTexture struct {
	width, height int
}

func newOverlayTexture() *overlayTexture { return &overlayTexture{} }

func (t *overlayTexture) resize(w, h int) {
	t.width, t.height = w, h
}
