package renderer

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
)

type RenderPass struct {
	device   Device
	Handle   metadata.RenderPassHandle
	HasDepth bool
}

/**
 * Creates a single-subpass render pass whose color attachment ends up ready for
 * presentation. The depth attachment is only added when depthFormat is defined.
 */
func NewRenderPass(device Device, colorFormat, depthFormat metadata.Format) (*RenderPass, error) {
	info := &metadata.RenderPassCreateInfo{
		Color: metadata.AttachmentDescription{
			Format:         colorFormat,
			LoadOp:         metadata.AttachmentLoadOpClear,
			StoreOp:        metadata.AttachmentStoreOpStore,
			StencilLoadOp:  metadata.AttachmentLoadOpDontCare,
			StencilStoreOp: metadata.AttachmentStoreOpDontCare,
			InitialLayout:  metadata.ImageLayoutUndefined,
			FinalLayout:    metadata.ImageLayoutPresentSrc,
		},
		Dependency: metadata.SubpassDependency{
			SrcExternal:   true,
			DstSubpass:    0,
			SrcStageMask:  metadata.PipelineStageColorAttachmentOutput | metadata.PipelineStageEarlyFragmentTests,
			DstStageMask:  metadata.PipelineStageColorAttachmentOutput | metadata.PipelineStageEarlyFragmentTests,
			DstAccessMask: metadata.AccessColorAttachmentWrite,
		},
	}

	hasDepth := depthFormat != metadata.FormatUndefined
	if hasDepth {
		info.Depth = &metadata.AttachmentDescription{
			Format:         depthFormat,
			LoadOp:         metadata.AttachmentLoadOpClear,
			StoreOp:        metadata.AttachmentStoreOpDontCare,
			StencilLoadOp:  metadata.AttachmentLoadOpDontCare,
			StencilStoreOp: metadata.AttachmentStoreOpDontCare,
			InitialLayout:  metadata.ImageLayoutUndefined,
			FinalLayout:    metadata.ImageLayoutDepthStencilAttachmentOptimal,
		}
		info.Dependency.DstAccessMask |= metadata.AccessDepthStencilAttachmentWrite
	}

	handle, err := device.CreateRenderPass(info)
	if err != nil {
		err = errors.Wrap(err, "failed to create render pass")
		core.LogError(err.Error())
		return nil, err
	}
	return &RenderPass{
		device:   device,
		Handle:   handle,
		HasDepth: hasDepth,
	}, nil
}

func (rp *RenderPass) Destroy() {
	if rp.Handle != 0 {
		rp.device.DestroyRenderPass(rp.Handle)
		rp.Handle = 0
	}
}

// Begin records the start of the render pass into cb, clearing every attachment.
func (rp *RenderPass) Begin(cb *CommandBuffer, framebuffer *Framebuffer, area metadata.Rect2D, clearColor metadata.ClearColor, clearDepth metadata.ClearDepthStencil) error {
	if cb.State != COMMAND_BUFFER_STATE_RECORDING {
		return errors.AssertionFailedf("cannot begin a render pass on a command buffer in state %s", cb.State)
	}
	rp.device.CmdBeginRenderPass(cb.Handle, &metadata.RenderPassBeginInfo{
		RenderPass:  rp.Handle,
		Framebuffer: framebuffer.Handle,
		RenderArea:  area,
		ClearColor:  clearColor,
		ClearDepth:  clearDepth,
		HasDepth:    rp.HasDepth,
	})
	cb.State = COMMAND_BUFFER_STATE_IN_RENDER_PASS
	return nil
}

func (rp *RenderPass) End(cb *CommandBuffer) error {
	if cb.State != COMMAND_BUFFER_STATE_IN_RENDER_PASS {
		return errors.AssertionFailedf("cannot end a render pass on a command buffer in state %s", cb.State)
	}
	rp.device.CmdEndRenderPass(cb.Handle)
	cb.State = COMMAND_BUFFER_STATE_RECORDING
	return nil
}
