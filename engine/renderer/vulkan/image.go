package vulkan

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
)

func (vc *VulkanContext) FormatProperties(format metadata.Format) metadata.FormatProperties {
	var properties vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(vc.Device.PhysicalDevice, formats[format], &properties)
	properties.Deref()
	return metadata.FormatProperties{
		LinearTilingFeatures:  fromVkFlags(uint32(properties.LinearTilingFeatures), formatFeatureBits),
		OptimalTilingFeatures: fromVkFlags(uint32(properties.OptimalTilingFeatures), formatFeatureBits),
	}
}

// CreateImage creates a single mip, single layer 2D image and binds freshly
// allocated memory to it.
func (vc *VulkanContext) CreateImage(info *metadata.ImageCreateInfo) (metadata.ImageHandle, metadata.MemoryHandle, error) {
	device := vc.Device.LogicalDevice

	imageCreateInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  info.Extent.Width,
			Height: info.Extent.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        formats[info.Format],
		Tiling:        tilings[info.Tiling],
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         vk.ImageUsageFlags(toVkFlags(info.Usage, imageUsageBits)),
		Samples:       vk.SampleCount1Bit,
		SharingMode:   vk.SharingModeExclusive,
	}

	var image vk.Image
	if res := vk.CreateImage(device, &imageCreateInfo, vc.Allocator, &image); res != vk.Success {
		err := errors.Wrap(resultError(res, "vkCreateImage"), "failed to create image")
		core.LogError(err.Error())
		return metadata.NullHandle, metadata.NullHandle, err
	}

	var memoryRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(device, image, &memoryRequirements)
	memoryRequirements.Deref()

	memoryType, ok := vc.FindMemoryIndex(memoryRequirements.MemoryTypeBits, vk.MemoryPropertyFlags(toVkFlags(info.MemoryFlags, memoryPropertyBits)))
	if !ok {
		vk.DestroyImage(device, image, vc.Allocator)
		err := errors.Mark(errors.New("required memory type not found, image not valid"), core.ErrMemoryAllocation)
		core.LogError(err.Error())
		return metadata.NullHandle, metadata.NullHandle, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memoryRequirements.Size,
		MemoryTypeIndex: memoryType,
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(device, &allocateInfo, vc.Allocator, &memory); res != vk.Success {
		vk.DestroyImage(device, image, vc.Allocator)
		err := errors.Mark(resultError(res, "vkAllocateMemory"), core.ErrMemoryAllocation)
		core.LogError(err.Error())
		return metadata.NullHandle, metadata.NullHandle, err
	}

	if res := vk.BindImageMemory(device, image, memory, 0); res != vk.Success {
		vk.FreeMemory(device, memory, vc.Allocator)
		vk.DestroyImage(device, image, vc.Allocator)
		return metadata.NullHandle, metadata.NullHandle, resultError(res, "vkBindImageMemory")
	}

	imageHandle := vc.objects.images.add(metadata.ImageHandle(vc.objects.nextHandle()), &imageObject{handle: image, owned: true})
	memoryHandle := vc.objects.memories.add(metadata.MemoryHandle(vc.objects.nextHandle()), memory)
	return imageHandle, memoryHandle, nil
}

func (vc *VulkanContext) DestroyImage(image metadata.ImageHandle, memory metadata.MemoryHandle) {
	if mem, ok := vc.objects.memories.remove(memory); ok {
		vk.FreeMemory(vc.Device.LogicalDevice, mem, vc.Allocator)
	}
	img, ok := vc.objects.images.get(image)
	if !ok {
		return
	}
	if !img.owned {
		core.LogWarn("refusing to destroy swapchain image %d", image)
		return
	}
	vc.objects.images.remove(image)
	vk.DestroyImage(vc.Device.LogicalDevice, img.handle, vc.Allocator)
}

func (vc *VulkanContext) CreateImageView(info *metadata.ImageViewCreateInfo) (metadata.ImageViewHandle, error) {
	img, ok := vc.objects.images.get(info.Image)
	if !ok {
		return metadata.NullHandle, errors.AssertionFailedf("unknown image handle %d", info.Image)
	}

	viewCreateInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img.handle,
		ViewType: vk.ImageViewType2d,
		Format:   formats[info.Format],
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(toVkFlags(info.AspectFlags, imageAspectBits)),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}

	var view vk.ImageView
	if res := vk.CreateImageView(vc.Device.LogicalDevice, &viewCreateInfo, vc.Allocator, &view); res != vk.Success {
		err := errors.Wrap(resultError(res, "vkCreateImageView"), "failed to create image view")
		core.LogError(err.Error())
		return metadata.NullHandle, err
	}
	return vc.objects.imageViews.add(metadata.ImageViewHandle(vc.objects.nextHandle()), view), nil
}

func (vc *VulkanContext) DestroyImageView(view metadata.ImageViewHandle) {
	if v, ok := vc.objects.imageViews.remove(view); ok {
		vk.DestroyImageView(vc.Device.LogicalDevice, v, vc.Allocator)
	}
}
