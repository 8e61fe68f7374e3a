package renderer

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
)

type Fence struct {
	device     Device
	Handle     metadata.FenceHandle
	IsSignaled bool
}

func NewFence(device Device, createSignaled bool) (*Fence, error) {
	handle, err := device.CreateFence(createSignaled)
	if err != nil {
		err = errors.Wrap(err, "failed to create fence")
		core.LogError(err.Error())
		return nil, err
	}
	return &Fence{
		device:     device,
		Handle:     handle,
		IsSignaled: createSignaled,
	}, nil
}

func (f *Fence) Destroy() {
	if f.Handle != 0 {
		f.device.DestroyFence(f.Handle)
		f.Handle = 0
	}
	f.IsSignaled = false
}

// Wait blocks until the fence is signaled. A fence already known to be
// signaled returns immediately without touching the device.
func (f *Fence) Wait(timeoutNs uint64) metadata.Result {
	if f.IsSignaled {
		return metadata.ResultSuccess
	}
	result := f.device.WaitForFence(f.Handle, timeoutNs)
	switch result {
	case metadata.ResultSuccess:
		f.IsSignaled = true
	case metadata.ResultTimeout:
		core.LogWarn("fence wait - timed out")
	default:
		core.LogError("fence wait - %s", result)
	}
	return result
}

func (f *Fence) Reset() metadata.Result {
	if !f.IsSignaled {
		return metadata.ResultSuccess
	}
	if res := f.device.ResetFence(f.Handle); res != metadata.ResultSuccess {
		core.LogError("fence reset - %s", res)
		return res
	}
	f.IsSignaled = false
	return metadata.ResultSuccess
}
