package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vtrender/backend"
	"github.com/gogpu/wgpu/core"
)

// Draw runs the per-frame sequence from spec §4.7: clear, draw
// backgrounds if any, draw glyphs if any and the atlas has pages.
// Backgrounds and glyphs are drawn inside one real render pass recorded
// against the device's command encoder. A cursor overlay, when present,
// is not uploaded or drawn by this backend: after the pass ends only the
// overlay texture's recorded size is updated, and the overlay is counted
// as one draw call and its pixel bytes as uploaded in the returned Stats.
func (b *Backend) Draw(frame backend.FrameGeometry) (backend.Stats, error) {
	b.syncAtlasTextures(frame.AtlasPages)

	if err := b.uploadBuffers(frame); err != nil {
		return backend.Stats{}, err
	}

	encoder, err := b.dev.obj.CreateCommandEncoder("vtrender-frame")
	if err != nil {
		return backend.Stats{}, fmt.Errorf("%w: %w", ErrContextLost, err)
	}

	clear := frame.FallbackBackground
	pass, err := encoder.BeginRenderPass(&core.RenderPassDescriptor{
		Label: "vtrender-pass",
		ColorAttachments: []core.RenderPassColorAttachment{{
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: float64(clear[0]),
				G: float64(clear[1]),
				B: float64(clear[2]),
				A: float64(clear[3]),
			},
		}},
	})
	if err != nil {
		return backend.Stats{}, fmt.Errorf("%w: %w", ErrContextLost, err)
	}

	calls := 0
	var uploaded int64

	if len(frame.BgPositions) > 0 {
		if err := pass.Draw(uint32(len(frame.BgPositions)/2), 1, 0, 0); err != nil {
			return backend.Stats{}, fmt.Errorf("%w: %w", ErrContextLost, err)
		}
		calls++
		uploaded += int64(len(frame.BgPositions)+len(frame.BgColors)) * 4
	}

	if len(frame.GlyphPositions) > 0 && len(b.atlasTextures) > 0 {
		if err := pass.Draw(uint32(len(frame.GlyphPositions)/2), 1, 0, 0); err != nil {
			return backend.Stats{}, fmt.Errorf("%w: %w", ErrContextLost, err)
		}
		calls++
		uploaded += int64(len(frame.GlyphPositions)+len(frame.GlyphTexCoords)+len(frame.GlyphColors)) * 4
	}

	if err := pass.End(); err != nil {
		return backend.Stats{}, fmt.Errorf("%w: %w", ErrContextLost, err)
	}

	if frame.Overlay != nil {
		b.overlay.resize(frame.Overlay.Width, frame.Overlay.Height)
		calls++
		uploaded += int64(len(frame.Overlay.Pix))
	}

	b.log.Debug("gpu backend drew frame", "draw_calls", calls, "bytes_uploaded", uploaded)
	return backend.Stats{DrawCallCount: calls, GPUBytesUploaded: &uploaded}, nil
}

func (b *Backend) uploadBuffers(frame backend.FrameGeometry) error {
	for _, u := range []struct {
		buf  *vertexBuffer
		data []float32
	}{
		{b.bgPos, frame.BgPositions},
		{b.bgColor, frame.BgColors},
		{b.glyphPos, frame.GlyphPositions},
		{b.glyphTex, frame.GlyphTexCoords},
		{b.glyphC, frame.GlyphColors},
	} {
		if err := u.buf.upload(b.dev, u.data); err != nil {
			return err
		}
	}
	return nil
}

func (b *Backend) syncAtlasTextures(pages []backend.AtlasPage) {
	for len(b.atlasTextures) < len(pages) {
		b.atlasTextures = append(b.atlasTextures, newAtlasTexture(0))
	}
	for i, p := range pages {
		b.atlasTextures[i].sync(p.Size, p.Dirty || p.SizeChanged)
	}
}
