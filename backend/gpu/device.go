//go:build !novtgpu

package gpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"
)

// device owns the GPU resources shared by every draw backend instance:
// an instance, an adapter, a logical device, and its command queue.
//
// Grounded on the teacher's backend/wgpu/device.go helpers and
// internal/gpu/backend.go's Init/Close sequence.
type device struct {
	instance *core.Instance
	adapter  core.AdapterID
	handle   core.DeviceID
	queue    core.QueueID
	obj      *core.Device // object view of handle, used for buffer/command-encoder creation
	queueObj *core.Queue  // object view of queue, used for buffer writes
	info     *adapterInfo
}

type adapterInfo struct {
	Name    string
	Vendor  string
	Backend string
}

// probeGPU performs a non-destructive adapter request to answer "is a GPU
// backend usable here" without creating a device. Failure here is exactly
// what DetectPreferredBackend's probe step needs.
func probeGPU() bool {
	inst := core.NewInstance(&gputypes.InstanceDescriptor{Backends: gputypes.BackendsPrimary})
	_, err := inst.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	return err == nil
}

func newDevice(log *slog.Logger) (*device, error) {
	inst := core.NewInstance(&gputypes.InstanceDescriptor{Backends: gputypes.BackendsPrimary})

	adapterID, err := inst.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoGPU, err)
	}

	info, _ := core.GetAdapterInfo(adapterID)
	ai := &adapterInfo{Name: info.Name, Vendor: info.Vendor, Backend: fmt.Sprintf("%v", info.Backend)}
	log.Debug("gpu adapter selected", "name", ai.Name, "vendor", ai.Vendor, "backend", ai.Backend)

	deviceID, err := core.RequestDevice(adapterID, &types.DeviceDescriptor{
		Label:          "vtrender-device",
		RequiredLimits: types.DefaultLimits(),
	})
	if err != nil {
		_ = core.AdapterDrop(adapterID)
		return nil, fmt.Errorf("gpu device creation failed: %w", err)
	}

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		_ = core.DeviceDrop(deviceID)
		_ = core.AdapterDrop(adapterID)
		return nil, fmt.Errorf("gpu queue retrieval failed: %w", err)
	}

	devObj, err := core.GetDevice(deviceID)
	if err != nil {
		_ = core.DeviceDrop(deviceID)
		_ = core.AdapterDrop(adapterID)
		return nil, fmt.Errorf("gpu device object lookup failed: %w", err)
	}

	queueObj, err := core.GetQueue(queueID)
	if err != nil {
		_ = core.DeviceDrop(deviceID)
		_ = core.AdapterDrop(adapterID)
		return nil, fmt.Errorf("gpu queue object lookup failed: %w", err)
	}

	return &device{
		instance: inst,
		adapter:  adapterID,
		handle:   deviceID,
		queue:    queueID,
		obj:      devObj,
		queueObj: queueObj,
		info:     ai,
	}, nil
}

func (d *device) close() {
	if d == nil {
		return
	}
	if !d.handle.IsZero() {
		_ = core.DeviceDrop(d.handle)
	}
	if !d.adapter.IsZero() {
		_ = core.AdapterDrop(d.adapter)
	}
}
