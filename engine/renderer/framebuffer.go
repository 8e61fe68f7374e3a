package renderer

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
)

type Framebuffer struct {
	device      Device
	Handle      metadata.FramebufferHandle
	Attachments []metadata.ImageViewHandle
	Extent      metadata.Extent2D
}

func NewFramebuffer(device Device, renderPass *RenderPass, extent metadata.Extent2D, attachments []metadata.ImageViewHandle) (*Framebuffer, error) {
	// Take a copy of the attachments
	fb := &Framebuffer{
		device:      device,
		Attachments: append([]metadata.ImageViewHandle(nil), attachments...),
		Extent:      extent,
	}

	handle, err := device.CreateFramebuffer(&metadata.FramebufferCreateInfo{
		RenderPass:  renderPass.Handle,
		Attachments: fb.Attachments,
		Extent:      extent,
	})
	if err != nil {
		err = errors.Wrap(err, "failed to create framebuffer")
		core.LogError(err.Error())
		return nil, err
	}
	fb.Handle = handle
	return fb, nil
}

func (fb *Framebuffer) Destroy() {
	if fb.Handle != 0 {
		fb.device.DestroyFramebuffer(fb.Handle)
		fb.Handle = 0
	}
	fb.Attachments = nil
}
