package renderer

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
)

/**
 * Allocates a command buffer and begins recording it for one-time submission.
 */
func BeginSingleUse(device Device, pool CommandPool) (*CommandBuffer, error) {
	buffers, err := AllocateCommandBuffers(device, pool, 1)
	if err != nil {
		return nil, err
	}
	cb := buffers[0]
	if err := cb.Begin(true, false, false); err != nil {
		FreeCommandBuffers(pool, buffers)
		return nil, err
	}
	return cb, nil
}

/**
 * Ends recording, submits to and waits for queue operation and frees the provided command buffer.
 */
func (cb *CommandBuffer) EndSingleUse(pool CommandPool, queue metadata.QueueRole) error {
	// Freed on every path.
	defer FreeCommandBuffers(pool, []*CommandBuffer{cb})

	if err := cb.End(); err != nil {
		return err
	}

	submitInfo := &metadata.SubmitInfo{
		CommandBuffers: []metadata.CommandBufferHandle{cb.Handle},
	}
	if res := cb.device.QueueSubmit(queue, submitInfo, 0); res != metadata.ResultSuccess {
		err := errors.Wrapf(res.Err(), "failed to submit single use command buffer to %s queue", queue)
		core.LogError(err.Error())
		return err
	}
	cb.UpdateSubmitted()

	if res := cb.device.QueueWaitIdle(queue); res != metadata.ResultSuccess {
		err := errors.Wrapf(res.Err(), "%s queue failed to wait in idle mode", queue)
		core.LogError(err.Error())
		return err
	}
	return nil
}

// SubmitSingleUse records commands with record and runs them to completion on queue.
func SubmitSingleUse(device Device, pool CommandPool, queue metadata.QueueRole, record func(cb *CommandBuffer) error) error {
	cb, err := BeginSingleUse(device, pool)
	if err != nil {
		return err
	}
	if err := record(cb); err != nil {
		FreeCommandBuffers(pool, []*CommandBuffer{cb})
		return errors.Wrap(err, "recording single use commands")
	}
	return cb.EndSingleUse(pool, queue)
}
