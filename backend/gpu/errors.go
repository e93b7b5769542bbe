package gpu

import "errors"

var (
	// ErrNoGPU is returned when no compatible adapter can be requested.
	ErrNoGPU = errors.New("gpu: no compatible adapter found")

	// ErrNotInitialized is returned when an operation needs a device that
	// hasn't been created yet.
	ErrNotInitialized = errors.New("gpu: backend not initialized")

	// ErrContextLost is returned when the device reports itself lost
	// mid-frame.
	ErrContextLost = errors.New("gpu: device context lost")

	// ErrShaderCompileFailed is returned when a shader module fails to
	// compile.
	ErrShaderCompileFailed = errors.New("gpu: shader compile failed")

	// ErrProgramLinkFailed is returned when a render pipeline fails to
	// link its shader stages.
	ErrProgramLinkFailed = errors.New("gpu: pipeline link failed")

	// ErrBufferAllocFailed is returned when a vertex buffer fails to
	// allocate or write on the device.
	ErrBufferAllocFailed = errors.New("gpu: buffer allocation failed")
)
