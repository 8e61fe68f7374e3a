package vulkan

import (
	"runtime"

	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
)

type VulkanDevice struct {
	PhysicalDevice vk.PhysicalDevice
	LogicalDevice  vk.Device

	GraphicsQueueIndex int32
	PresentQueueIndex  int32
	ComputeQueueIndex  int32
	TransferQueueIndex int32

	GraphicsQueue vk.Queue
	PresentQueue  vk.Queue
	ComputeQueue  vk.Queue
	TransferQueue vk.Queue

	GraphicsCommandPool *VulkanCommandPool

	Properties vk.PhysicalDeviceProperties
	Features   vk.PhysicalDeviceFeatures
}

type VulkanPhysicalDeviceRequirements struct {
	Graphics             bool
	Present              bool
	Compute              bool
	Transfer             bool
	DeviceExtensionNames []string
	DiscreteGPU          bool
}

type VulkanPhysicalDeviceQueueFamilyInfo struct {
	GraphicsFamilyIndex int32
	PresentFamilyIndex  int32
	ComputeFamilyIndex  int32
	TransferFamilyIndex int32
}

func DeviceCreate(context *VulkanContext, opts Options) (*VulkanDevice, error) {
	device, err := selectPhysicalDevice(context, opts)
	if err != nil {
		return nil, err
	}

	core.LogInfo("Creating logical device...")

	// Do not create additional queues for shared indices.
	var indices []uint32
	for _, index := range []int32{
		device.GraphicsQueueIndex,
		device.PresentQueueIndex,
		device.ComputeQueueIndex,
		device.TransferQueueIndex,
	} {
		if index < 0 {
			continue
		}
		duplicate := false
		for _, existing := range indices {
			if existing == uint32(index) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			indices = append(indices, uint32(index))
		}
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(indices))
	for i := range indices {
		queueCreateInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: indices[i],
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
		context.lockPool.SetQueueFamily(indices[i])
	}

	extensionNames := []string{vk.KhrSwapchainExtensionName}
	available, err := deviceExtensions(device.PhysicalDevice)
	if err != nil {
		return nil, err
	}
	if _, ok := available["VK_KHR_portability_subset"]; ok {
		core.LogInfo("Adding required extension 'VK_KHR_portability_subset'.")
		extensionNames = append(extensionNames, "VK_KHR_portability_subset")
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
		EnabledExtensionCount:   uint32(len(extensionNames)),
		PpEnabledExtensionNames: VulkanSafeStrings(extensionNames),
	}

	var logical vk.Device
	if res := vk.CreateDevice(device.PhysicalDevice, &deviceCreateInfo, context.Allocator, &logical); res != vk.Success {
		err := errors.Wrap(resultError(res, "vkCreateDevice"), "failed to create logical device")
		core.LogError(err.Error())
		return nil, err
	}
	device.LogicalDevice = logical
	core.LogInfo("Logical device created.")

	device.GraphicsQueue = deviceQueue(logical, device.GraphicsQueueIndex)
	device.PresentQueue = deviceQueue(logical, device.PresentQueueIndex)
	device.ComputeQueue = deviceQueue(logical, device.ComputeQueueIndex)
	device.TransferQueue = deviceQueue(logical, device.TransferQueueIndex)
	core.LogInfo("Queues obtained.")

	pool, err := NewCommandPool(context, logical, uint32(device.GraphicsQueueIndex))
	if err != nil {
		vk.DestroyDevice(logical, context.Allocator)
		return nil, err
	}
	device.GraphicsCommandPool = pool
	core.LogInfo("Graphics command pool created.")

	return device, nil
}

func deviceQueue(device vk.Device, familyIndex int32) vk.Queue {
	if familyIndex < 0 {
		return nil
	}
	var queue vk.Queue
	vk.GetDeviceQueue(device, uint32(familyIndex), 0, &queue)
	return queue
}

func (vd *VulkanDevice) Destroy(context *VulkanContext) {
	vd.GraphicsQueue = nil
	vd.PresentQueue = nil
	vd.ComputeQueue = nil
	vd.TransferQueue = nil

	if vd.GraphicsCommandPool != nil {
		core.LogInfo("Destroying command pools...")
		vd.GraphicsCommandPool.Destroy()
		vd.GraphicsCommandPool = nil
	}

	if vd.LogicalDevice != nil {
		core.LogInfo("Destroying logical device...")
		vk.DestroyDevice(vd.LogicalDevice, context.Allocator)
		vd.LogicalDevice = nil
	}

	// Physical devices are not destroyed.
	vd.PhysicalDevice = nil
	vd.GraphicsQueueIndex = -1
	vd.PresentQueueIndex = -1
	vd.ComputeQueueIndex = -1
	vd.TransferQueueIndex = -1
}

// queue resolves a role to its queue and family. Roles without a dedicated
// family fall back to the graphics queue.
func (vd *VulkanDevice) queue(role metadata.QueueRole) (vk.Queue, uint32) {
	switch role {
	case metadata.QueuePresent:
		return vd.PresentQueue, uint32(vd.PresentQueueIndex)
	case metadata.QueueCompute:
		if vd.ComputeQueue != nil {
			return vd.ComputeQueue, uint32(vd.ComputeQueueIndex)
		}
	case metadata.QueueTransfer:
		if vd.TransferQueue != nil {
			return vd.TransferQueue, uint32(vd.TransferQueueIndex)
		}
	}
	return vd.GraphicsQueue, uint32(vd.GraphicsQueueIndex)
}

func selectPhysicalDevice(context *VulkanContext, opts Options) (*VulkanDevice, error) {
	var physicalDeviceCount uint32
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, nil); res != vk.Success {
		return nil, resultError(res, "vkEnumeratePhysicalDevices")
	}
	if physicalDeviceCount == 0 {
		err := errors.New("no devices which support Vulkan were found")
		core.LogError(err.Error())
		return nil, err
	}
	physicalDevices := make([]vk.PhysicalDevice, physicalDeviceCount)
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, physicalDevices); res != vk.Success {
		return nil, resultError(res, "vkEnumeratePhysicalDevices")
	}

	requirements := VulkanPhysicalDeviceRequirements{
		Graphics:             true,
		Present:              true,
		Transfer:             true,
		DiscreteGPU:          opts.DiscreteGPU && runtime.GOOS != "darwin",
		DeviceExtensionNames: []string{vk.KhrSwapchainExtensionName},
	}

	for _, physical := range physicalDevices {
		var properties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(physical, &properties)
		properties.Deref()

		var features vk.PhysicalDeviceFeatures
		vk.GetPhysicalDeviceFeatures(physical, &features)
		features.Deref()

		queueInfo, ok := physicalDeviceMeetsRequirements(physical, context.Surface, &properties, &requirements)
		if !ok {
			continue
		}

		end := FindFirstZeroInByteArray(properties.DeviceName[:])
		core.LogInfo("Selected device: '%s'.", string(properties.DeviceName[:end]))
		switch properties.DeviceType {
		case vk.PhysicalDeviceTypeIntegratedGpu:
			core.LogInfo("GPU type is Integrated.")
		case vk.PhysicalDeviceTypeDiscreteGpu:
			core.LogInfo("GPU type is Discrete.")
		case vk.PhysicalDeviceTypeVirtualGpu:
			core.LogInfo("GPU type is Virtual.")
		case vk.PhysicalDeviceTypeCpu:
			core.LogInfo("GPU type is CPU.")
		default:
			core.LogInfo("GPU type is Unknown.")
		}
		core.LogInfo(
			"Vulkan API version: %d.%d.%d",
			vk.Version(properties.ApiVersion).Major(),
			vk.Version(properties.ApiVersion).Minor(),
			vk.Version(properties.ApiVersion).Patch(),
		)

		core.LogInfo("Physical device selected.")
		return &VulkanDevice{
			PhysicalDevice:     physical,
			GraphicsQueueIndex: queueInfo.GraphicsFamilyIndex,
			PresentQueueIndex:  queueInfo.PresentFamilyIndex,
			ComputeQueueIndex:  queueInfo.ComputeFamilyIndex,
			TransferQueueIndex: queueInfo.TransferFamilyIndex,
			Properties:         properties,
			Features:           features,
		}, nil
	}

	err := errors.New("no physical devices were found which meet the requirements")
	core.LogError(err.Error())
	return nil, err
}

func physicalDeviceMeetsRequirements(device vk.PhysicalDevice, surface vk.Surface, properties *vk.PhysicalDeviceProperties, requirements *VulkanPhysicalDeviceRequirements) (VulkanPhysicalDeviceQueueFamilyInfo, bool) {
	info := VulkanPhysicalDeviceQueueFamilyInfo{-1, -1, -1, -1}

	if requirements.DiscreteGPU && properties.DeviceType != vk.PhysicalDeviceTypeDiscreteGpu {
		core.LogInfo("Device is not a discrete GPU, and one is required. Skipping.")
		return info, false
	}

	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, queueFamilies)

	minTransferScore := 255
	for i := range queueFamilies {
		queueFamilies[i].Deref()
		flags := queueFamilies[i].QueueFlags
		currentTransferScore := 0

		if flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			if info.GraphicsFamilyIndex < 0 {
				info.GraphicsFamilyIndex = int32(i)
			}
			currentTransferScore++
		}
		if flags&vk.QueueFlags(vk.QueueComputeBit) != 0 {
			if info.ComputeFamilyIndex < 0 {
				info.ComputeFamilyIndex = int32(i)
			}
			currentTransferScore++
		}
		// Take the lowest scoring transfer family. This increases the
		// likelihood that it is a dedicated transfer queue.
		if flags&vk.QueueFlags(vk.QueueTransferBit) != 0 && currentTransferScore < minTransferScore {
			minTransferScore = currentTransferScore
			info.TransferFamilyIndex = int32(i)
		}

		var supportsPresent vk.Bool32
		if res := vk.GetPhysicalDeviceSurfaceSupport(device, uint32(i), surface, &supportsPresent); res != vk.Success {
			return info, false
		}
		// Prefer presenting from the graphics family.
		if supportsPresent == vk.True && (info.PresentFamilyIndex < 0 || int32(i) == info.GraphicsFamilyIndex) {
			info.PresentFamilyIndex = int32(i)
		}
	}

	core.LogDebug("Graphics Family Index: %d", info.GraphicsFamilyIndex)
	core.LogDebug("Present Family Index:  %d", info.PresentFamilyIndex)
	core.LogDebug("Transfer Family Index: %d", info.TransferFamilyIndex)
	core.LogDebug("Compute Family Index:  %d", info.ComputeFamilyIndex)

	if (requirements.Graphics && info.GraphicsFamilyIndex < 0) ||
		(requirements.Present && info.PresentFamilyIndex < 0) ||
		(requirements.Compute && info.ComputeFamilyIndex < 0) ||
		(requirements.Transfer && info.TransferFamilyIndex < 0) {
		return info, false
	}

	support, err := querySwapchainSupport(device, surface)
	if err != nil || len(support.Formats) == 0 || len(support.RefreshModes) == 0 {
		core.LogInfo("Required swapchain support not present, skipping device.")
		return info, false
	}

	available, err := deviceExtensions(device)
	if err != nil {
		return info, false
	}
	for _, name := range requirements.DeviceExtensionNames {
		if _, ok := available[name]; !ok {
			core.LogInfo("Required extension not found: '%s', skipping device.", name)
			return info, false
		}
	}
	return info, true
}

func deviceExtensions(device vk.PhysicalDevice) (map[string]struct{}, error) {
	var count uint32
	if res := vk.EnumerateDeviceExtensionProperties(device, "", &count, nil); res != vk.Success {
		return nil, resultError(res, "vkEnumerateDeviceExtensionProperties")
	}
	properties := make([]vk.ExtensionProperties, count)
	if count > 0 {
		if res := vk.EnumerateDeviceExtensionProperties(device, "", &count, properties); res != vk.Success {
			return nil, resultError(res, "vkEnumerateDeviceExtensionProperties")
		}
	}
	names := make(map[string]struct{}, count)
	for i := range properties {
		properties[i].Deref()
		end := FindFirstZeroInByteArray(properties[i].ExtensionName[:])
		names[string(properties[i].ExtensionName[:end])] = struct{}{}
	}
	return names, nil
}
