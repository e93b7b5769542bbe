// Package gpu implements the GPU draw backend on top of gogpu/wgpu: a
// device/adapter/queue pair, five dynamic vertex buffers mirroring
// internal/rowstore's arrays, one texture per glyph-atlas page, and two
// shader programs (flat quad, glyph sampling), compiled via gogpu/naga.
//
// Grounded on the teacher's internal/gpu and backend/wgpu packages:
// device setup follows backend/wgpu/device.go, vertex buffers and render
// pipelines are created on the device (buffer.go, pipeline.go), the atlas
// and overlay textures keep gpu_texture.go's "logical resource, upload
// pending" bookkeeping shape without creating device textures
// (texture.go), and shader compilation follows backend/wgpu/gpu_fine.go's
// naga.Compile call.
package gpu

import (
	"log/slog"

	"github.com/gogpu/vtrender/backend"
)

// Backend is the GPU draw backend.
type Backend struct {
	log     *slog.Logger
	dev     *device
	metrics backend.Metrics

	programs      *programSet
	quadPipeline  *renderPipeline
	glyphPipeline *renderPipeline

	bgPos, bgColor             *vertexBuffer
	glyphPos, glyphTex, glyphC *vertexBuffer

	atlasTextures []*atlasTexture
	overlay       *overlayTexture
}

// Priority is registered above the CPU backend: when a GPU adapter can be
// requested, prefer it.
const Priority = 10

func init() {
	backend.Register(backend.TypeGPUWebGL, Priority, probeGPU, New)
}

// New constructs the GPU backend: requests a device, compiles the shader
// programs, and allocates the five vertex buffers.
func New(m backend.Metrics, _ backend.Config, log *slog.Logger) (backend.Backend, error) {
	if log == nil {
		log = slog.Default()
	}

	dev, err := newDevice(log)
	if err != nil {
		return nil, err
	}

	progs, err := newProgramSet()
	if err != nil {
		dev.close()
		return nil, err
	}

	quadPipeline, err := newRenderPipeline(dev, progs.quad)
	if err != nil {
		dev.close()
		return nil, err
	}
	glyphPipeline, err := newRenderPipeline(dev, progs.glyph)
	if err != nil {
		quadPipeline.release()
		dev.close()
		return nil, err
	}

	b := &Backend{
		log:           log,
		dev:           dev,
		metrics:       m,
		programs:      progs,
		quadPipeline:  quadPipeline,
		glyphPipeline: glyphPipeline,
		bgPos:         newVertexBuffer("bg-position"),
		bgColor:       newVertexBuffer("bg-color"),
		glyphPos:      newVertexBuffer("glyph-position"),
		glyphTex:      newVertexBuffer("glyph-texcoord"),
		glyphC:        newVertexBuffer("glyph-color"),
		overlay:       newOverlayTexture(),
	}
	log.Info("gpu backend initialized", "adapter", dev.info.Name, "backend", dev.info.Backend)
	return b, nil
}

func (b *Backend) Tag() backend.Tag { return backend.TagGPUWebGL }

func (b *Backend) Resize(m backend.Metrics) error {
	b.metrics = m
	return nil
}

func (b *Backend) Dispose() error {
	for _, buf := range []*vertexBuffer{b.bgPos, b.bgColor, b.glyphPos, b.glyphTex, b.glyphC} {
		buf.release()
	}
	b.quadPipeline.release()
	b.glyphPipeline.release()
	b.dev.close()
	return nil
}
