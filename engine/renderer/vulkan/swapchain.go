package vulkan

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
)

func querySwapchainSupport(physicalDevice vk.PhysicalDevice, surface vk.Surface) (metadata.SwapchainSupport, error) {
	support := metadata.SwapchainSupport{}

	var capabilities vk.SurfaceCapabilities
	if res := vk.GetPhysicalDeviceSurfaceCapabilities(physicalDevice, surface, &capabilities); res != vk.Success {
		return support, resultError(res, "vkGetPhysicalDeviceSurfaceCapabilities")
	}
	capabilities.Deref()
	support.Capabilities = metadata.SurfaceCapabilities{
		MinImageCount:  capabilities.MinImageCount,
		MaxImageCount:  capabilities.MaxImageCount,
		CurrentExtent:  fromVkExtent(capabilities.CurrentExtent),
		MinImageExtent: fromVkExtent(capabilities.MinImageExtent),
		MaxImageExtent: fromVkExtent(capabilities.MaxImageExtent),
	}

	var formatCount uint32
	if res := vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, surface, &formatCount, nil); res != vk.Success {
		return support, resultError(res, "vkGetPhysicalDeviceSurfaceFormats")
	}
	if formatCount != 0 {
		surfaceFormats := make([]vk.SurfaceFormat, formatCount)
		if res := vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, surface, &formatCount, surfaceFormats); res != vk.Success {
			return support, resultError(res, "vkGetPhysicalDeviceSurfaceFormats")
		}
		for i := range surfaceFormats {
			surfaceFormats[i].Deref()
			format, okFormat := formatsFromVk[surfaceFormats[i].Format]
			colorSpace, okSpace := colorSpacesFromVk[surfaceFormats[i].ColorSpace]
			// Formats the renderer has no name for cannot be requested anyway.
			if okFormat && okSpace {
				support.Formats = append(support.Formats, metadata.SurfaceFormat{Format: format, ColorSpace: colorSpace})
			}
		}
	}

	var modeCount uint32
	if res := vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, surface, &modeCount, nil); res != vk.Success {
		return support, resultError(res, "vkGetPhysicalDeviceSurfacePresentModes")
	}
	if modeCount != 0 {
		modes := make([]vk.PresentMode, modeCount)
		if res := vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, surface, &modeCount, modes); res != vk.Success {
			return support, resultError(res, "vkGetPhysicalDeviceSurfacePresentModes")
		}
		for _, m := range modes {
			if mode, ok := presentModesFromVk[m]; ok {
				support.RefreshModes = append(support.RefreshModes, mode)
			}
		}
	}
	return support, nil
}

// SwapchainSupport queries the surface every time; capabilities change with
// the window size.
func (vc *VulkanContext) SwapchainSupport() (metadata.SwapchainSupport, error) {
	return querySwapchainSupport(vc.Device.PhysicalDevice, vc.Surface)
}

func (vc *VulkanContext) CreateSwapchain(info *metadata.SwapchainCreateInfo) (metadata.SwapchainHandle, error) {
	var capabilities vk.SurfaceCapabilities
	if res := vk.GetPhysicalDeviceSurfaceCapabilities(vc.Device.PhysicalDevice, vc.Surface, &capabilities); res != vk.Success {
		return metadata.NullHandle, resultError(res, "vkGetPhysicalDeviceSurfaceCapabilities")
	}
	capabilities.Deref()

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          vc.Surface,
		MinImageCount:    info.MinImageCount,
		ImageFormat:      formats[info.SurfaceFormat.Format],
		ImageColorSpace:  colorSpaces[info.SurfaceFormat.ColorSpace],
		ImageExtent:      toVkExtent(info.Extent),
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      presentModes[info.RefreshMode],
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}

	// Setup the queue family indices
	if vc.Device.GraphicsQueueIndex != vc.Device.PresentQueueIndex {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{
			uint32(vc.Device.GraphicsQueueIndex),
			uint32(vc.Device.PresentQueueIndex),
		}
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	if info.OldSwapchain != metadata.NullHandle {
		old, ok := vc.objects.swapchains.get(info.OldSwapchain)
		if !ok {
			return metadata.NullHandle, errors.AssertionFailedf("unknown old swapchain handle %d", info.OldSwapchain)
		}
		createInfo.OldSwapchain = old.handle
	}

	var swapchain vk.Swapchain
	err := vc.lockPool.SafeCall(SwapchainManagement, func() error {
		return resultError(vk.CreateSwapchain(vc.Device.LogicalDevice, &createInfo, vc.Allocator, &swapchain), "vkCreateSwapchain")
	})
	if err != nil {
		core.LogError(err.Error())
		return metadata.NullHandle, err
	}

	var imageCount uint32
	if res := vk.GetSwapchainImages(vc.Device.LogicalDevice, swapchain, &imageCount, nil); res != vk.Success {
		vk.DestroySwapchain(vc.Device.LogicalDevice, swapchain, vc.Allocator)
		return metadata.NullHandle, resultError(res, "vkGetSwapchainImages")
	}
	images := make([]vk.Image, imageCount)
	if res := vk.GetSwapchainImages(vc.Device.LogicalDevice, swapchain, &imageCount, images); res != vk.Success {
		vk.DestroySwapchain(vc.Device.LogicalDevice, swapchain, vc.Allocator)
		return metadata.NullHandle, resultError(res, "vkGetSwapchainImages")
	}

	obj := &swapchainObject{handle: swapchain, images: make([]metadata.ImageHandle, len(images))}
	for i, img := range images {
		obj.images[i] = vc.objects.images.add(metadata.ImageHandle(vc.objects.nextHandle()), &imageObject{handle: img})
	}
	return vc.objects.swapchains.add(metadata.SwapchainHandle(vc.objects.nextHandle()), obj), nil
}

func (vc *VulkanContext) DestroySwapchain(swapchain metadata.SwapchainHandle) {
	obj, ok := vc.objects.swapchains.remove(swapchain)
	if !ok {
		core.LogWarn("destroying unknown swapchain handle %d", swapchain)
		return
	}
	for _, img := range obj.images {
		vc.objects.images.remove(img)
	}
	_ = vc.lockPool.SafeCall(SwapchainManagement, func() error {
		vk.DestroySwapchain(vc.Device.LogicalDevice, obj.handle, vc.Allocator)
		return nil
	})
}

func (vc *VulkanContext) SwapchainImages(swapchain metadata.SwapchainHandle) ([]metadata.ImageHandle, error) {
	obj, ok := vc.objects.swapchains.get(swapchain)
	if !ok {
		return nil, errors.AssertionFailedf("unknown swapchain handle %d", swapchain)
	}
	images := make([]metadata.ImageHandle, len(obj.images))
	copy(images, obj.images)
	return images, nil
}

func (vc *VulkanContext) AcquireNextImage(swapchain metadata.SwapchainHandle, timeoutNs uint64, signal metadata.SemaphoreHandle) (uint32, metadata.Result) {
	obj, ok := vc.objects.swapchains.get(swapchain)
	if !ok {
		return 0, metadata.ResultErrorUnknown
	}
	semaphore, ok := vc.objects.semaphores.get(signal)
	if !ok {
		return 0, metadata.ResultErrorUnknown
	}

	var imageIndex uint32
	var res vk.Result
	_ = vc.lockPool.SafeCall(SwapchainManagement, func() error {
		res = vk.AcquireNextImage(vc.Device.LogicalDevice, obj.handle, timeoutNs, semaphore, vk.NullFence, &imageIndex)
		return nil
	})
	return imageIndex, toResult(res)
}

func (vc *VulkanContext) QueuePresent(info *metadata.PresentInfo) metadata.Result {
	obj, ok := vc.objects.swapchains.get(info.Swapchain)
	if !ok {
		return metadata.ResultErrorUnknown
	}
	waits, ok := vc.resolveSemaphores(info.WaitSemaphores)
	if !ok {
		return metadata.ResultErrorUnknown
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(waits)),
		PWaitSemaphores:    waits,
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{obj.handle},
		PImageIndices:      []uint32{info.ImageIndex},
	}

	queue, family := vc.Device.queue(metadata.QueuePresent)
	var res vk.Result
	_ = vc.lockPool.SafeQueueCall(family, func() error {
		res = vk.QueuePresent(queue, &presentInfo)
		return nil
	})
	return toResult(res)
}
