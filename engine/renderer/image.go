package renderer

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
)

// Image is a device image together with the memory bound to it and its view.
type Image struct {
	device Device
	Handle metadata.ImageHandle
	Memory metadata.MemoryHandle
	View   metadata.ImageViewHandle
	Width  uint32
	Height uint32
	Format metadata.Format
}

func NewImage(device Device, info *metadata.ImageCreateInfo) (*Image, error) {
	image := &Image{
		device: device,
		Width:  info.Extent.Width,
		Height: info.Extent.Height,
		Format: info.Format,
	}

	handle, memory, err := device.CreateImage(info)
	if err != nil {
		err = errors.Wrapf(err, "failed to create %dx%d %s image", info.Extent.Width, info.Extent.Height, info.Format)
		core.LogError(err.Error())
		return nil, err
	}
	image.Handle = handle
	image.Memory = memory

	view, err := device.CreateImageView(&metadata.ImageViewCreateInfo{
		Image:       handle,
		Format:      info.Format,
		AspectFlags: info.ViewAspectFlags,
	})
	if err != nil {
		image.Destroy()
		err = errors.Wrap(err, "failed to create image view")
		core.LogError(err.Error())
		return nil, err
	}
	image.View = view
	return image, nil
}

// Destroy releases the view, the image and its memory, in that order.
func (i *Image) Destroy() {
	if i.View != 0 {
		i.device.DestroyImageView(i.View)
		i.View = 0
	}
	if i.Handle != 0 || i.Memory != 0 {
		i.device.DestroyImage(i.Handle, i.Memory)
		i.Handle = 0
		i.Memory = 0
	}
}
