package gpu

import (
	"fmt"

	"github.com/gogpu/wgpu/core"
)

// renderPipeline pairs a compiled shader program with the render
// pipeline object built from it, so the SPIR-V programs.go compiles is
// actually consumed by the device instead of sitting unused.
//
// Grounded on the teacher's backend/wgpu/pipeline.go PipelineCache, which
// builds pipelines from compiled shader modules against a *core.Device;
// this module's core dependency already exposes that object API
// (core.Device.CreateCommandEncoder, confirmed in device.go), so pipeline
// creation is wired here rather than left as the teacher's bind-group
// TODO. Binding a pipeline into a render pass mid-draw is left unwired,
// matching the teacher's own RenderPassEncoder.SetPipeline, which is
// state-tracked locally and never forwarded to its core render pass
// either ("integration pending" in the teacher's own comments).
type renderPipeline struct {
	handle *core.RenderPipeline
}

func newRenderPipeline(d *device, prog *program) (*renderPipeline, error) {
	handle, err := d.obj.CreateRenderPipeline(prog.name, prog.spirv)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProgramLinkFailed, prog.name, err)
	}
	return &renderPipeline{handle: handle}, nil
}

func (p *renderPipeline) release() {
	if p == nil || p.handle == nil {
		return
	}
	p.handle.Destroy()
}
