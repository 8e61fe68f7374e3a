package vulkan

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
)

// VulkanCommandPool allocates primary command buffers that can be reset
// individually. The pool is externally synchronized through the lock pool.
type VulkanCommandPool struct {
	context *VulkanContext
	device  vk.Device
	Handle  vk.CommandPool
}

func NewCommandPool(context *VulkanContext, device vk.Device, queueFamilyIndex uint32) (*VulkanCommandPool, error) {
	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: queueFamilyIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	var pool vk.CommandPool
	if res := vk.CreateCommandPool(device, &poolCreateInfo, context.Allocator, &pool); res != vk.Success {
		err := errors.Wrap(resultError(res, "vkCreateCommandPool"), "failed to create command pool")
		core.LogError(err.Error())
		return nil, err
	}
	return &VulkanCommandPool{context: context, device: device, Handle: pool}, nil
}

func (p *VulkanCommandPool) Destroy() {
	if p.Handle != vk.NullCommandPool {
		vk.DestroyCommandPool(p.device, p.Handle, p.context.Allocator)
		p.Handle = vk.NullCommandPool
	}
}

func (p *VulkanCommandPool) AllocateCommandBuffers(count uint32) ([]metadata.CommandBufferHandle, error) {
	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p.Handle,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	}
	buffers := make([]vk.CommandBuffer, count)
	err := p.context.lockPool.SafeCall(CommandPoolManagement, func() error {
		return resultError(vk.AllocateCommandBuffers(p.device, &allocateInfo, buffers), "vkAllocateCommandBuffers")
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	handles := make([]metadata.CommandBufferHandle, count)
	for i, cb := range buffers {
		handles[i] = p.context.objects.commandBuffers.add(metadata.CommandBufferHandle(p.context.objects.nextHandle()), cb)
	}
	return handles, nil
}

func (p *VulkanCommandPool) FreeCommandBuffers(handles []metadata.CommandBufferHandle) {
	buffers := make([]vk.CommandBuffer, 0, len(handles))
	for _, h := range handles {
		if cb, ok := p.context.objects.commandBuffers.remove(h); ok {
			buffers = append(buffers, cb)
		}
	}
	if len(buffers) == 0 {
		return
	}
	_ = p.context.lockPool.SafeCall(CommandPoolManagement, func() error {
		vk.FreeCommandBuffers(p.device, p.Handle, uint32(len(buffers)), buffers)
		return nil
	})
}

func (vc *VulkanContext) BeginCommandBuffer(cb metadata.CommandBufferHandle, usage metadata.CommandBufferUsageFlags) metadata.Result {
	commandBuffer, ok := vc.objects.commandBuffers.get(cb)
	if !ok {
		return metadata.ResultErrorUnknown
	}
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(toVkFlags(usage, commandBufferUsageBits)),
	}
	return toResult(vk.BeginCommandBuffer(commandBuffer, &beginInfo))
}

func (vc *VulkanContext) EndCommandBuffer(cb metadata.CommandBufferHandle) metadata.Result {
	commandBuffer, ok := vc.objects.commandBuffers.get(cb)
	if !ok {
		return metadata.ResultErrorUnknown
	}
	return toResult(vk.EndCommandBuffer(commandBuffer))
}
