package vulkan

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer"
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
)

var (
	_ renderer.Device      = (*VulkanContext)(nil)
	_ renderer.CommandPool = (*VulkanCommandPool)(nil)
)

// WindowSurface is the platform window the context presents to.
type WindowSurface interface {
	RequiredInstanceExtensions() []string
	// Returns a VkSurfaceKHR created for instance, which is a vk.Instance.
	CreateWindowSurface(instance interface{}) (uintptr, error)
}

type Options struct {
	ApplicationName string
	// Enables validation layers and the debug report callback.
	Debug bool
	// Only accept discrete GPUs. Ignored on macOS.
	DiscreteGPU bool
}

/**
 * @brief Owns the Vulkan instance, surface and logical device, and implements
 * the renderer's Device contract on top of them. Objects handed out to the
 * renderer are referenced through opaque handles resolved by the registry.
 */
type VulkanContext struct {
	Instance  vk.Instance
	Allocator *vk.AllocationCallbacks
	Surface   vk.Surface

	debugMessenger vk.DebugReportCallback

	Device *VulkanDevice

	lockPool *VulkanLockPool
	objects  *objectRegistry
}

func NewContext(window WindowSurface, opts Options) (*VulkanContext, error) {
	context := &VulkanContext{
		// TODO: custom allocator.
		Allocator: nil,
		lockPool:  NewVulkanLockPool(),
		objects:   newObjectRegistry(),
	}

	if err := context.createInstance(window, opts); err != nil {
		context.Destroy()
		return nil, err
	}

	core.LogDebug("Creating Vulkan surface...")
	surface, err := window.CreateWindowSurface(context.Instance)
	if err != nil {
		context.Destroy()
		err = errors.Wrap(err, "vulkan surface creation failed")
		core.LogError(err.Error())
		return nil, err
	}
	context.Surface = vk.SurfaceFromPointer(surface)
	core.LogDebug("Vulkan surface created.")

	device, err := DeviceCreate(context, opts)
	if err != nil {
		context.Destroy()
		return nil, err
	}
	context.Device = device

	core.LogInfo("Vulkan context initialized successfully.")
	return context, nil
}

// Destroy tears the context down in the opposite order of creation.
// Every renderer object must have been released before.
func (vc *VulkanContext) Destroy() {
	if leaked := vc.objects.count(); leaked > 0 {
		core.LogWarn("destroying vulkan context with %d live objects", leaked)
	}

	if vc.Device != nil {
		vc.Device.Destroy(vc)
		vc.Device = nil
	}

	if vc.Surface != vk.NullSurface {
		vk.DestroySurface(vc.Instance, vc.Surface, vc.Allocator)
		vc.Surface = vk.NullSurface
	}

	if vc.debugMessenger != vk.NullDebugReportCallback {
		core.LogDebug("Destroying Vulkan debugger...")
		vk.DestroyDebugReportCallback(vc.Instance, vc.debugMessenger, vc.Allocator)
		vc.debugMessenger = vk.NullDebugReportCallback
	}

	if vc.Instance != nil {
		core.LogDebug("Destroying Vulkan instance...")
		vk.DestroyInstance(vc.Instance, vc.Allocator)
		vc.Instance = nil
	}
}

func (vc *VulkanContext) FindMemoryIndex(typeFilter uint32, propertyFlags vk.MemoryPropertyFlags) (uint32, bool) {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vc.Device.PhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	for i := uint32(0); i < memoryProperties.MemoryTypeCount; i++ {
		// Check each memory type to see if its bit is set to 1.
		memoryProperties.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (memoryProperties.MemoryTypes[i].PropertyFlags&propertyFlags) == propertyFlags {
			return i, true
		}
	}
	core.LogWarn("Unable to find suitable memory type!")
	return 0, false
}
