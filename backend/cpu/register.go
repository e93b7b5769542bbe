package cpu

import "github.com/gogpu/vtrender/backend"

// Priority is deliberately the lowest of the registered backends: the CPU
// rasterizer is always available and is only picked when no GPU backend
// qualifies.
const Priority = 0

func init() {
	backend.Register(backend.TypeCPU2D, Priority, Available, New)
}
