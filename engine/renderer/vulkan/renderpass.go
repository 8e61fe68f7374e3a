package vulkan

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
)

func toVkAttachment(a *metadata.AttachmentDescription) vk.AttachmentDescription {
	return vk.AttachmentDescription{
		Format:         formats[a.Format],
		Samples:        vk.SampleCount1Bit,
		LoadOp:         loadOps[a.LoadOp],
		StoreOp:        storeOps[a.StoreOp],
		StencilLoadOp:  loadOps[a.StencilLoadOp],
		StencilStoreOp: storeOps[a.StencilStoreOp],
		InitialLayout:  imageLayouts[a.InitialLayout],
		FinalLayout:    imageLayouts[a.FinalLayout],
	}
}

// CreateRenderPass builds a single graphics subpass with one color
// attachment and an optional depth attachment.
func (vc *VulkanContext) CreateRenderPass(info *metadata.RenderPassCreateInfo) (metadata.RenderPassHandle, error) {
	attachments := []vk.AttachmentDescription{toVkAttachment(&info.Color)}

	colorAttachmentReferences := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(colorAttachmentReferences)),
		PColorAttachments:    colorAttachmentReferences,
	}

	if info.Depth != nil {
		attachments = append(attachments, toVkAttachment(info.Depth))
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: 1,
			Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
		}
	}

	srcSubpass := uint32(0)
	if info.Dependency.SrcExternal {
		srcSubpass = vk.SubpassExternal
	}
	dependency := vk.SubpassDependency{
		SrcSubpass:    srcSubpass,
		DstSubpass:    info.Dependency.DstSubpass,
		SrcStageMask:  vk.PipelineStageFlags(toVkFlags(info.Dependency.SrcStageMask, pipelineStageBits)),
		SrcAccessMask: vk.AccessFlags(toVkFlags(info.Dependency.SrcAccessMask, accessBits)),
		DstStageMask:  vk.PipelineStageFlags(toVkFlags(info.Dependency.DstStageMask, pipelineStageBits)),
		DstAccessMask: vk.AccessFlags(toVkFlags(info.Dependency.DstAccessMask, accessBits)),
	}

	createInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}

	var renderPass vk.RenderPass
	if res := vk.CreateRenderPass(vc.Device.LogicalDevice, &createInfo, vc.Allocator, &renderPass); res != vk.Success {
		err := errors.Wrap(resultError(res, "vkCreateRenderPass"), "failed to create render pass")
		core.LogError(err.Error())
		return metadata.NullHandle, err
	}
	core.LogDebug("Render pass created with %d attachments.", len(attachments))
	return vc.objects.renderPasses.add(metadata.RenderPassHandle(vc.objects.nextHandle()), renderPass), nil
}

func (vc *VulkanContext) DestroyRenderPass(renderPass metadata.RenderPassHandle) {
	if rp, ok := vc.objects.renderPasses.remove(renderPass); ok {
		vk.DestroyRenderPass(vc.Device.LogicalDevice, rp, vc.Allocator)
	}
}

func (vc *VulkanContext) CmdBeginRenderPass(cb metadata.CommandBufferHandle, info *metadata.RenderPassBeginInfo) {
	commandBuffer, ok := vc.objects.commandBuffers.get(cb)
	if !ok {
		core.LogError("begin render pass on unknown command buffer %d", cb)
		return
	}
	renderPass, okPass := vc.objects.renderPasses.get(info.RenderPass)
	framebuffer, okFb := vc.objects.framebuffers.get(info.Framebuffer)
	if !okPass || !okFb {
		core.LogError("begin render pass with unknown render pass %d or framebuffer %d", info.RenderPass, info.Framebuffer)
		return
	}

	clearValues := make([]vk.ClearValue, 1, 2)
	clearValues[0].SetColor(info.ClearColor[:])
	if info.HasDepth {
		var depth vk.ClearValue
		depth.SetDepthStencil(info.ClearDepth.Depth, info.ClearDepth.Stencil)
		clearValues = append(clearValues, depth)
	}

	beginInfo := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      renderPass,
		Framebuffer:     framebuffer,
		RenderArea:      toVkRect(info.RenderArea),
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(commandBuffer, &beginInfo, vk.SubpassContentsInline)
}

func (vc *VulkanContext) CmdEndRenderPass(cb metadata.CommandBufferHandle) {
	if commandBuffer, ok := vc.objects.commandBuffers.get(cb); ok {
		vk.CmdEndRenderPass(commandBuffer)
	}
}

func (vc *VulkanContext) CmdSetViewport(cb metadata.CommandBufferHandle, viewport metadata.Viewport) {
	commandBuffer, ok := vc.objects.commandBuffers.get(cb)
	if !ok {
		return
	}
	vk.CmdSetViewport(commandBuffer, 0, 1, []vk.Viewport{{
		X:        viewport.X,
		Y:        viewport.Y,
		Width:    viewport.Width,
		Height:   viewport.Height,
		MinDepth: viewport.MinDepth,
		MaxDepth: viewport.MaxDepth,
	}})
}

func (vc *VulkanContext) CmdSetScissor(cb metadata.CommandBufferHandle, scissor metadata.Rect2D) {
	if commandBuffer, ok := vc.objects.commandBuffers.get(cb); ok {
		vk.CmdSetScissor(commandBuffer, 0, 1, []vk.Rect2D{toVkRect(scissor)})
	}
}
