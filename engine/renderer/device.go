package renderer

import "github.com/Aalexdev/vk-engine/engine/renderer/metadata"

/**
 * @brief The GPU device the renderer drives. Every object it hands out is
 * identified by an opaque metadata handle; the zero handle is never valid.
 */
type Device interface {
	// Surface support of the presentation surface bound to this device.
	SwapchainSupport() (metadata.SwapchainSupport, error)
	FormatProperties(format metadata.Format) metadata.FormatProperties

	CreateSwapchain(info *metadata.SwapchainCreateInfo) (metadata.SwapchainHandle, error)
	DestroySwapchain(swapchain metadata.SwapchainHandle)
	// Platform-owned images of the swapchain. They must never be destroyed directly.
	SwapchainImages(swapchain metadata.SwapchainHandle) ([]metadata.ImageHandle, error)

	// Creates a 2D image and binds freshly allocated memory to it.
	CreateImage(info *metadata.ImageCreateInfo) (metadata.ImageHandle, metadata.MemoryHandle, error)
	DestroyImage(image metadata.ImageHandle, memory metadata.MemoryHandle)
	CreateImageView(info *metadata.ImageViewCreateInfo) (metadata.ImageViewHandle, error)
	DestroyImageView(view metadata.ImageViewHandle)

	CreateRenderPass(info *metadata.RenderPassCreateInfo) (metadata.RenderPassHandle, error)
	DestroyRenderPass(renderPass metadata.RenderPassHandle)
	CreateFramebuffer(info *metadata.FramebufferCreateInfo) (metadata.FramebufferHandle, error)
	DestroyFramebuffer(framebuffer metadata.FramebufferHandle)

	CreateSemaphore() (metadata.SemaphoreHandle, error)
	DestroySemaphore(semaphore metadata.SemaphoreHandle)
	CreateFence(signaled bool) (metadata.FenceHandle, error)
	DestroyFence(fence metadata.FenceHandle)
	WaitForFence(fence metadata.FenceHandle, timeoutNs uint64) metadata.Result
	ResetFence(fence metadata.FenceHandle) metadata.Result

	AcquireNextImage(swapchain metadata.SwapchainHandle, timeoutNs uint64, signal metadata.SemaphoreHandle) (uint32, metadata.Result)
	QueueSubmit(queue metadata.QueueRole, info *metadata.SubmitInfo, fence metadata.FenceHandle) metadata.Result
	QueuePresent(info *metadata.PresentInfo) metadata.Result
	QueueWaitIdle(queue metadata.QueueRole) metadata.Result
	WaitIdle() metadata.Result

	BeginCommandBuffer(cb metadata.CommandBufferHandle, usage metadata.CommandBufferUsageFlags) metadata.Result
	EndCommandBuffer(cb metadata.CommandBufferHandle) metadata.Result
	CmdBeginRenderPass(cb metadata.CommandBufferHandle, info *metadata.RenderPassBeginInfo)
	CmdEndRenderPass(cb metadata.CommandBufferHandle)
	CmdSetViewport(cb metadata.CommandBufferHandle, viewport metadata.Viewport)
	CmdSetScissor(cb metadata.CommandBufferHandle, scissor metadata.Rect2D)
}

// CommandPool hands out primary command buffers for the graphics queue.
type CommandPool interface {
	AllocateCommandBuffers(count uint32) ([]metadata.CommandBufferHandle, error)
	FreeCommandBuffers(buffers []metadata.CommandBufferHandle)
}

// SurfaceProvider is the window the swapchain presents to.
type SurfaceProvider interface {
	// Current framebuffer size in pixels. Zero while minimized.
	Extent() metadata.Extent2D
	WasResized() bool
	ResetResized()
	// Blocks until the windowing system delivers at least one event.
	WaitEvents()
}
