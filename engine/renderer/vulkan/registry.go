package vulkan

import (
	"sync"
	"sync/atomic"

	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	vk "github.com/goki/vulkan"
)

// handleTable maps the opaque handles given to the renderer onto the
// Vulkan objects behind them.
type handleTable[H ~uint64, T any] struct {
	mu      sync.RWMutex
	objects map[H]T
}

func newHandleTable[H ~uint64, T any]() *handleTable[H, T] {
	return &handleTable[H, T]{objects: make(map[H]T)}
}

func (t *handleTable[H, T]) add(h H, obj T) H {
	t.mu.Lock()
	t.objects[h] = obj
	t.mu.Unlock()
	return h
}

func (t *handleTable[H, T]) get(h H) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	obj, ok := t.objects[h]
	return obj, ok
}

func (t *handleTable[H, T]) remove(h H) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	obj, ok := t.objects[h]
	if ok {
		delete(t.objects, h)
	}
	return obj, ok
}

func (t *handleTable[H, T]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.objects)
}

type swapchainObject struct {
	handle vk.Swapchain
	// Presentable images, owned by the swapchain itself.
	images []metadata.ImageHandle
}

type imageObject struct {
	handle vk.Image
	// False for swapchain images.
	owned bool
}

type objectRegistry struct {
	next atomic.Uint64

	swapchains     *handleTable[metadata.SwapchainHandle, *swapchainObject]
	images         *handleTable[metadata.ImageHandle, *imageObject]
	memories       *handleTable[metadata.MemoryHandle, vk.DeviceMemory]
	imageViews     *handleTable[metadata.ImageViewHandle, vk.ImageView]
	renderPasses   *handleTable[metadata.RenderPassHandle, vk.RenderPass]
	framebuffers   *handleTable[metadata.FramebufferHandle, vk.Framebuffer]
	semaphores     *handleTable[metadata.SemaphoreHandle, vk.Semaphore]
	fences         *handleTable[metadata.FenceHandle, vk.Fence]
	commandBuffers *handleTable[metadata.CommandBufferHandle, vk.CommandBuffer]
}

func newObjectRegistry() *objectRegistry {
	return &objectRegistry{
		swapchains:     newHandleTable[metadata.SwapchainHandle, *swapchainObject](),
		images:         newHandleTable[metadata.ImageHandle, *imageObject](),
		memories:       newHandleTable[metadata.MemoryHandle, vk.DeviceMemory](),
		imageViews:     newHandleTable[metadata.ImageViewHandle, vk.ImageView](),
		renderPasses:   newHandleTable[metadata.RenderPassHandle, vk.RenderPass](),
		framebuffers:   newHandleTable[metadata.FramebufferHandle, vk.Framebuffer](),
		semaphores:     newHandleTable[metadata.SemaphoreHandle, vk.Semaphore](),
		fences:         newHandleTable[metadata.FenceHandle, vk.Fence](),
		commandBuffers: newHandleTable[metadata.CommandBufferHandle, vk.CommandBuffer](),
	}
}

// nextHandle never returns metadata.NullHandle.
func (r *objectRegistry) nextHandle() uint64 {
	return r.next.Add(1)
}

// count reports the live objects that the renderer is expected to release.
// Swapchain images go away with their swapchain and are not counted.
func (r *objectRegistry) count() int {
	owned := 0
	r.images.mu.RLock()
	for _, img := range r.images.objects {
		if img.owned {
			owned++
		}
	}
	r.images.mu.RUnlock()

	return r.swapchains.len() + owned + r.memories.len() + r.imageViews.len() +
		r.renderPasses.len() + r.framebuffers.len() + r.semaphores.len() +
		r.fences.len() + r.commandBuffers.len()
}
