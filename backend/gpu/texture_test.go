package gpu

import "testing"

func TestAtlasTextureSyncMarksDirtyOnResize(t *testing.T) {
	tex := newAtlasTexture(1024)
	tex.dirty = false
	tex.sync(2048, false)
	if !tex.dirty || tex.width != 2048 {
		t.Fatalf("expected resize to mark dirty and update size, got dirty=%v width=%d", tex.dirty, tex.width)
	}
}

func TestAtlasTextureSyncHonorsPageDirtyFlag(t *testing.T) {
	tex := newAtlasTexture(1024)
	tex.dirty = false
	tex.sync(1024, true)
	if !tex.dirty {
		t.Fatal("expected page dirty flag to propagate")
	}
}

func TestAtlasTextureSyncNoOpWhenClean(t *testing.T) {
	tex := newAtlasTexture(1024)
	tex.dirty = false
	tex.sync(1024, false)
	if tex.dirty {
		t.Fatal("expected no change when size and dirty flag are unchanged")
	}
}

func TestOverlayTextureResize(t *testing.T) {
	ov := newOverlayTexture()
	ov.resize(32, 16)
	if ov.width != 32 || ov.height != 16 {
		t.Fatalf("got %dx%d, want 32x16", ov.width, ov.height)
	}
}
