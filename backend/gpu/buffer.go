package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"
)

// vertexBuffer is one of the five dynamic geometry buffers the draw pass
// uploads every frame: background positions/colors and glyph
// positions/texcoords/colors, mirroring internal/rowstore's five arrays.
//
// Grounded on the teacher's internal/gpu/buffer.go CreateBuffer(device,
// desc) / queue.WriteBuffer(buffer, offset, data) pair, adapted to this
// module's device object API (device.go's core.Device/core.Queue lookups)
// rather than the teacher's hal.Device/hal.Queue interfaces: nothing in
// the retrieval pack shows how a concrete hal.Device is obtained outside
// of dependency injection from a caller this module doesn't have, while
// device.go's core.GetDevice/core.GetQueue already give a real device and
// queue object to create and write buffers against.
type vertexBuffer struct {
	label    string
	usage    gputypes.BufferUsage
	capacity uint64 // bytes currently backing the GPU-side allocation
	handle   *core.Buffer
}

func newVertexBuffer(label string) *vertexBuffer {
	return &vertexBuffer{
		label: label,
		usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	}
}

// upload writes data to the GPU buffer, (re)creating the backing
// allocation when the new data no longer fits, then writing it through
// the device's queue. Buffer growth always rounds the new size up so
// columns/rows changes don't thrash reallocation every frame.
func (v *vertexBuffer) upload(d *device, data []float32) error {
	if len(data) == 0 {
		return nil
	}
	raw := floatsToBytes(data)
	byteLen := uint64(len(raw))
	if v.handle == nil || byteLen > v.capacity {
		grown := nextPow2(byteLen)
		buf, err := d.obj.CreateBuffer(&types.BufferDescriptor{
			Label: v.label,
			Size:  grown,
			Usage: v.usage,
		})
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrBufferAllocFailed, v.label, err)
		}
		if v.handle != nil {
			v.handle.Destroy()
		}
		v.handle = buf
		v.capacity = grown
	}
	if err := d.queueObj.WriteBuffer(v.handle, 0, raw); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBufferAllocFailed, v.label, err)
	}
	return nil
}

func (v *vertexBuffer) release() {
	if v.handle != nil {
		v.handle.Destroy()
		v.handle = nil
		v.capacity = 0
	}
}

func floatsToBytes(data []float32) []byte {
	out := make([]byte, len(data)*4)
	for i, f := range data {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

func nextPow2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}
