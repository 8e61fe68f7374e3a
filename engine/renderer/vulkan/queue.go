package vulkan

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	vk "github.com/goki/vulkan"
)

func (vc *VulkanContext) QueueSubmit(role metadata.QueueRole, info *metadata.SubmitInfo, fence metadata.FenceHandle) metadata.Result {
	commandBuffers := make([]vk.CommandBuffer, len(info.CommandBuffers))
	for i, h := range info.CommandBuffers {
		cb, ok := vc.objects.commandBuffers.get(h)
		if !ok {
			core.LogError("submitting unknown command buffer %d", h)
			return metadata.ResultErrorUnknown
		}
		commandBuffers[i] = cb
	}
	waits, ok := vc.resolveSemaphores(info.WaitSemaphores)
	if !ok {
		return metadata.ResultErrorUnknown
	}
	signals, ok := vc.resolveSemaphores(info.SignalSemaphores)
	if !ok {
		return metadata.ResultErrorUnknown
	}
	stages := make([]vk.PipelineStageFlags, len(info.WaitStages))
	for i, s := range info.WaitStages {
		stages[i] = vk.PipelineStageFlags(toVkFlags(s, pipelineStageBits))
	}

	vkFence := vk.NullFence
	if fence != metadata.NullHandle {
		f, ok := vc.objects.fences.get(fence)
		if !ok {
			core.LogError("submitting with unknown fence %d", fence)
			return metadata.ResultErrorUnknown
		}
		vkFence = f
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   uint32(len(waits)),
		PWaitSemaphores:      waits,
		PWaitDstStageMask:    stages,
		CommandBufferCount:   uint32(len(commandBuffers)),
		PCommandBuffers:      commandBuffers,
		SignalSemaphoreCount: uint32(len(signals)),
		PSignalSemaphores:    signals,
	}

	queue, family := vc.Device.queue(role)
	var res vk.Result
	_ = vc.lockPool.SafeQueueCall(family, func() error {
		res = vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submitInfo}, vkFence)
		return nil
	})
	if res != vk.Success {
		core.LogError("vkQueueSubmit failed with result: %s", VulkanResultString(res, true))
	}
	return toResult(res)
}

func (vc *VulkanContext) QueueWaitIdle(role metadata.QueueRole) metadata.Result {
	queue, family := vc.Device.queue(role)
	var res vk.Result
	_ = vc.lockPool.SafeQueueCall(family, func() error {
		res = vk.QueueWaitIdle(queue)
		return nil
	})
	return toResult(res)
}

func (vc *VulkanContext) WaitIdle() metadata.Result {
	var res vk.Result
	_ = vc.lockPool.SafeCall(DeviceManagement, func() error {
		res = vk.DeviceWaitIdle(vc.Device.LogicalDevice)
		return nil
	})
	if res != vk.Success {
		core.LogError("vkDeviceWaitIdle failed: '%s'", VulkanResultString(res, true))
	}
	return toResult(res)
}
