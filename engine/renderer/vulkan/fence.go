package vulkan

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
)

func (vc *VulkanContext) CreateSemaphore() (metadata.SemaphoreHandle, error) {
	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	var semaphore vk.Semaphore
	if res := vk.CreateSemaphore(vc.Device.LogicalDevice, &semaphoreCreateInfo, vc.Allocator, &semaphore); res != vk.Success {
		err := errors.Wrap(resultError(res, "vkCreateSemaphore"), "failed to create semaphore")
		core.LogError(err.Error())
		return metadata.NullHandle, err
	}
	return vc.objects.semaphores.add(metadata.SemaphoreHandle(vc.objects.nextHandle()), semaphore), nil
}

func (vc *VulkanContext) DestroySemaphore(semaphore metadata.SemaphoreHandle) {
	if s, ok := vc.objects.semaphores.remove(semaphore); ok {
		vk.DestroySemaphore(vc.Device.LogicalDevice, s, vc.Allocator)
	}
}

func (vc *VulkanContext) resolveSemaphores(handles []metadata.SemaphoreHandle) ([]vk.Semaphore, bool) {
	out := make([]vk.Semaphore, len(handles))
	for i, h := range handles {
		s, ok := vc.objects.semaphores.get(h)
		if !ok {
			core.LogError("unknown semaphore handle %d", h)
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

func (vc *VulkanContext) CreateFence(signaled bool) (metadata.FenceHandle, error) {
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	// Make sure to signal the fence if required.
	if signaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var fence vk.Fence
	if res := vk.CreateFence(vc.Device.LogicalDevice, &fenceCreateInfo, vc.Allocator, &fence); res != vk.Success {
		err := errors.Wrap(resultError(res, "vkCreateFence"), "failed to create fence")
		core.LogError(err.Error())
		return metadata.NullHandle, err
	}
	return vc.objects.fences.add(metadata.FenceHandle(vc.objects.nextHandle()), fence), nil
}

func (vc *VulkanContext) DestroyFence(fence metadata.FenceHandle) {
	if f, ok := vc.objects.fences.remove(fence); ok {
		vk.DestroyFence(vc.Device.LogicalDevice, f, vc.Allocator)
	}
}

func (vc *VulkanContext) WaitForFence(fence metadata.FenceHandle, timeoutNs uint64) metadata.Result {
	f, ok := vc.objects.fences.get(fence)
	if !ok {
		return metadata.ResultErrorUnknown
	}
	return toResult(vk.WaitForFences(vc.Device.LogicalDevice, 1, []vk.Fence{f}, vk.True, timeoutNs))
}

func (vc *VulkanContext) ResetFence(fence metadata.FenceHandle) metadata.Result {
	f, ok := vc.objects.fences.get(fence)
	if !ok {
		return metadata.ResultErrorUnknown
	}
	return toResult(vk.ResetFences(vc.Device.LogicalDevice, 1, []vk.Fence{f}))
}
