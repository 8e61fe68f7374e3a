package vulkan

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
)

func (vc *VulkanContext) CreateFramebuffer(info *metadata.FramebufferCreateInfo) (metadata.FramebufferHandle, error) {
	renderPass, ok := vc.objects.renderPasses.get(info.RenderPass)
	if !ok {
		return metadata.NullHandle, errors.AssertionFailedf("unknown render pass handle %d", info.RenderPass)
	}
	attachments := make([]vk.ImageView, len(info.Attachments))
	for i, a := range info.Attachments {
		view, ok := vc.objects.imageViews.get(a)
		if !ok {
			return metadata.NullHandle, errors.AssertionFailedf("unknown image view handle %d", a)
		}
		attachments[i] = view
	}

	createInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderPass,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           info.Extent.Width,
		Height:          info.Extent.Height,
		Layers:          1,
	}

	var framebuffer vk.Framebuffer
	if res := vk.CreateFramebuffer(vc.Device.LogicalDevice, &createInfo, vc.Allocator, &framebuffer); res != vk.Success {
		err := errors.Wrap(resultError(res, "vkCreateFramebuffer"), "failed to create framebuffer")
		core.LogError(err.Error())
		return metadata.NullHandle, err
	}
	return vc.objects.framebuffers.add(metadata.FramebufferHandle(vc.objects.nextHandle()), framebuffer), nil
}

func (vc *VulkanContext) DestroyFramebuffer(framebuffer metadata.FramebufferHandle) {
	if fb, ok := vc.objects.framebuffers.remove(framebuffer); ok {
		vk.DestroyFramebuffer(vc.Device.LogicalDevice, fb, vc.Allocator)
	}
}
