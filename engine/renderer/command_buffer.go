package renderer

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
)

type CommandBufferState int

const (
	COMMAND_BUFFER_STATE_READY CommandBufferState = iota
	COMMAND_BUFFER_STATE_RECORDING
	COMMAND_BUFFER_STATE_IN_RENDER_PASS
	COMMAND_BUFFER_STATE_RECORDING_ENDED
	COMMAND_BUFFER_STATE_SUBMITTED
	COMMAND_BUFFER_STATE_NOT_ALLOCATED
)

func (s CommandBufferState) String() string {
	switch s {
	case COMMAND_BUFFER_STATE_READY:
		return "ready"
	case COMMAND_BUFFER_STATE_RECORDING:
		return "recording"
	case COMMAND_BUFFER_STATE_IN_RENDER_PASS:
		return "in render pass"
	case COMMAND_BUFFER_STATE_RECORDING_ENDED:
		return "recording ended"
	case COMMAND_BUFFER_STATE_SUBMITTED:
		return "submitted"
	case COMMAND_BUFFER_STATE_NOT_ALLOCATED:
		return "not allocated"
	}
	return "unknown"
}

type CommandBuffer struct {
	device Device
	Handle metadata.CommandBufferHandle
	// Command buffer state.
	State CommandBufferState
}

// AllocateCommandBuffers allocates count primary command buffers from pool.
func AllocateCommandBuffers(device Device, pool CommandPool, count uint32) ([]*CommandBuffer, error) {
	handles, err := pool.AllocateCommandBuffers(count)
	if err != nil {
		err = errors.Wrapf(err, "failed to allocate %d command buffers", count)
		core.LogError(err.Error())
		return nil, err
	}
	if uint32(len(handles)) != count {
		pool.FreeCommandBuffers(handles)
		return nil, errors.Newf("command pool returned %d command buffers, expected %d", len(handles), count)
	}

	buffers := make([]*CommandBuffer, count)
	for i, h := range handles {
		buffers[i] = &CommandBuffer{
			device: device,
			Handle: h,
			State:  COMMAND_BUFFER_STATE_READY,
		}
	}
	return buffers, nil
}

func FreeCommandBuffers(pool CommandPool, buffers []*CommandBuffer) {
	handles := make([]metadata.CommandBufferHandle, 0, len(buffers))
	for _, cb := range buffers {
		if cb == nil || cb.State == COMMAND_BUFFER_STATE_NOT_ALLOCATED {
			continue
		}
		handles = append(handles, cb.Handle)
		cb.Handle = 0
		cb.State = COMMAND_BUFFER_STATE_NOT_ALLOCATED
	}
	if len(handles) > 0 {
		pool.FreeCommandBuffers(handles)
	}
}

func (cb *CommandBuffer) Begin(isSingleUse, isRenderpassContinue, isSimultaneousUse bool) error {
	switch cb.State {
	case COMMAND_BUFFER_STATE_READY, COMMAND_BUFFER_STATE_RECORDING_ENDED, COMMAND_BUFFER_STATE_SUBMITTED:
	default:
		return errors.AssertionFailedf("cannot begin a command buffer in state %s", cb.State)
	}

	var usage metadata.CommandBufferUsageFlags
	if isSingleUse {
		usage |= metadata.CommandBufferUsageOneTimeSubmit
	}
	if isRenderpassContinue {
		usage |= metadata.CommandBufferUsageRenderPassContinue
	}
	if isSimultaneousUse {
		usage |= metadata.CommandBufferUsageSimultaneousUse
	}

	if res := cb.device.BeginCommandBuffer(cb.Handle, usage); res != metadata.ResultSuccess {
		err := errors.Wrapf(core.ErrCommandBufferRecording, "begin: %s", res)
		core.LogError(err.Error())
		return err
	}
	cb.State = COMMAND_BUFFER_STATE_RECORDING
	return nil
}

func (cb *CommandBuffer) End() error {
	if cb.State != COMMAND_BUFFER_STATE_RECORDING {
		return errors.AssertionFailedf("cannot end a command buffer in state %s", cb.State)
	}
	if res := cb.device.EndCommandBuffer(cb.Handle); res != metadata.ResultSuccess {
		err := errors.Wrapf(core.ErrCommandBufferRecording, "end: %s", res)
		core.LogError(err.Error())
		return err
	}
	cb.State = COMMAND_BUFFER_STATE_RECORDING_ENDED
	return nil
}

func (cb *CommandBuffer) UpdateSubmitted() {
	cb.State = COMMAND_BUFFER_STATE_SUBMITTED
}

func (cb *CommandBuffer) Reset() {
	cb.State = COMMAND_BUFFER_STATE_READY
}
