package renderer

import (
	"fmt"

	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
)

// fakeDevice simulates just enough of a GPU to exercise the frame loop. Work
// submitted with a fence completes when that fence is waited on or when the
// device is waited idle. Misuse that a real driver would not tolerate is
// collected in violations.
type fakeDevice struct {
	nextHandle uint64
	live       map[uint64]string

	support     metadata.SwapchainSupport
	formatProps map[metadata.Format]metadata.FormatProperties

	swapchains       map[metadata.SwapchainHandle]*fakeSwapchain
	swapchainCreates []metadata.SwapchainCreateInfo
	fences           map[metadata.FenceHandle]*fakeFence
	imageOwner       map[fakeImageKey]metadata.FenceHandle
	lastAcquired     map[metadata.SwapchainHandle]uint32

	// Scripted results, consumed in order. Defaults apply once empty.
	acquireScript  []fakeAcquire
	submitResults  []metadata.Result
	presentResults []metadata.Result

	failNext map[string]bool

	pending       int
	maxPending    int
	submits       map[metadata.QueueRole]int
	presents      []metadata.PresentInfo
	queueIdles    int
	waitIdles     int
	fenceWaits    int
	violations    []string
	renderPasses  []metadata.RenderPassBeginInfo
	viewports     []metadata.Viewport
	scissors      []metadata.Rect2D
	beginUsages   []metadata.CommandBufferUsageFlags
	endRenderPass int
}

type fakeSwapchain struct {
	info   metadata.SwapchainCreateInfo
	images []metadata.ImageHandle
	next   uint32
}

type fakeFence struct {
	signaled bool
	pending  bool
}

type fakeImageKey struct {
	swapchain metadata.SwapchainHandle
	index     uint32
}

type fakeAcquire struct {
	index  uint32
	result metadata.Result
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		live: make(map[uint64]string),
		support: metadata.SwapchainSupport{
			Capabilities: metadata.SurfaceCapabilities{
				MinImageCount:  2,
				MaxImageCount:  0,
				CurrentExtent:  metadata.Extent2D{Width: metadata.UndefinedExtent, Height: metadata.UndefinedExtent},
				MinImageExtent: metadata.Extent2D{Width: 1, Height: 1},
				MaxImageExtent: metadata.Extent2D{Width: 4096, Height: 4096},
			},
			Formats: []metadata.SurfaceFormat{
				{Format: metadata.FormatB8G8R8A8Srgb, ColorSpace: metadata.ColorSpaceSrgbNonlinear},
				{Format: metadata.FormatB8G8R8A8Unorm, ColorSpace: metadata.ColorSpaceSrgbNonlinear},
			},
			RefreshModes: []metadata.RefreshMode{metadata.RefreshModeFifo, metadata.RefreshModeMailbox},
		},
		formatProps: map[metadata.Format]metadata.FormatProperties{
			metadata.FormatD32Sfloat: {OptimalTilingFeatures: metadata.FormatFeatureDepthStencilAttachment},
		},
		swapchains:   make(map[metadata.SwapchainHandle]*fakeSwapchain),
		fences:       make(map[metadata.FenceHandle]*fakeFence),
		imageOwner:   make(map[fakeImageKey]metadata.FenceHandle),
		lastAcquired: make(map[metadata.SwapchainHandle]uint32),
		failNext:     make(map[string]bool),
		submits:      make(map[metadata.QueueRole]int),
	}
}

func (d *fakeDevice) violate(format string, args ...interface{}) {
	d.violations = append(d.violations, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) create(kind string) (uint64, error) {
	if d.failNext[kind] {
		delete(d.failNext, kind)
		return 0, errors.Newf("injected %s creation failure", kind)
	}
	d.nextHandle++
	d.live[d.nextHandle] = kind
	return d.nextHandle, nil
}

func (d *fakeDevice) destroy(kind string, handle uint64) {
	if got, ok := d.live[handle]; !ok || got != kind {
		d.violate("destroying unknown %s %d", kind, handle)
		return
	}
	delete(d.live, handle)
}

func (d *fakeDevice) liveCount(kind string) int {
	n := 0
	for _, k := range d.live {
		if k == kind {
			n++
		}
	}
	return n
}

func (d *fakeDevice) SwapchainSupport() (metadata.SwapchainSupport, error) {
	return d.support, nil
}

func (d *fakeDevice) FormatProperties(format metadata.Format) metadata.FormatProperties {
	return d.formatProps[format]
}

func (d *fakeDevice) CreateSwapchain(info *metadata.SwapchainCreateInfo) (metadata.SwapchainHandle, error) {
	if info.OldSwapchain != 0 {
		if _, ok := d.swapchains[info.OldSwapchain]; !ok {
			d.violate("old swapchain %d is not alive", info.OldSwapchain)
		}
	}
	h, err := d.create("swapchain")
	if err != nil {
		return 0, err
	}
	sc := &fakeSwapchain{info: *info}
	for i := uint32(0); i < info.MinImageCount; i++ {
		// Platform owned: not tracked as live objects.
		d.nextHandle++
		sc.images = append(sc.images, metadata.ImageHandle(d.nextHandle))
	}
	d.swapchains[metadata.SwapchainHandle(h)] = sc
	d.swapchainCreates = append(d.swapchainCreates, *info)
	return metadata.SwapchainHandle(h), nil
}

func (d *fakeDevice) DestroySwapchain(swapchain metadata.SwapchainHandle) {
	d.destroy("swapchain", uint64(swapchain))
	delete(d.swapchains, swapchain)
}

func (d *fakeDevice) SwapchainImages(swapchain metadata.SwapchainHandle) ([]metadata.ImageHandle, error) {
	sc, ok := d.swapchains[swapchain]
	if !ok {
		return nil, errors.Newf("unknown swapchain %d", swapchain)
	}
	return append([]metadata.ImageHandle(nil), sc.images...), nil
}

func (d *fakeDevice) CreateImage(info *metadata.ImageCreateInfo) (metadata.ImageHandle, metadata.MemoryHandle, error) {
	image, err := d.create("image")
	if err != nil {
		return 0, 0, err
	}
	memory, err := d.create("memory")
	if err != nil {
		d.destroy("image", image)
		return 0, 0, err
	}
	return metadata.ImageHandle(image), metadata.MemoryHandle(memory), nil
}

func (d *fakeDevice) DestroyImage(image metadata.ImageHandle, memory metadata.MemoryHandle) {
	d.destroy("image", uint64(image))
	d.destroy("memory", uint64(memory))
}

func (d *fakeDevice) CreateImageView(info *metadata.ImageViewCreateInfo) (metadata.ImageViewHandle, error) {
	h, err := d.create("imageview")
	return metadata.ImageViewHandle(h), err
}

func (d *fakeDevice) DestroyImageView(view metadata.ImageViewHandle) {
	d.destroy("imageview", uint64(view))
}

func (d *fakeDevice) CreateRenderPass(info *metadata.RenderPassCreateInfo) (metadata.RenderPassHandle, error) {
	h, err := d.create("renderpass")
	return metadata.RenderPassHandle(h), err
}

func (d *fakeDevice) DestroyRenderPass(renderPass metadata.RenderPassHandle) {
	d.destroy("renderpass", uint64(renderPass))
}

func (d *fakeDevice) CreateFramebuffer(info *metadata.FramebufferCreateInfo) (metadata.FramebufferHandle, error) {
	h, err := d.create("framebuffer")
	return metadata.FramebufferHandle(h), err
}

func (d *fakeDevice) DestroyFramebuffer(framebuffer metadata.FramebufferHandle) {
	d.destroy("framebuffer", uint64(framebuffer))
}

func (d *fakeDevice) CreateSemaphore() (metadata.SemaphoreHandle, error) {
	h, err := d.create("semaphore")
	return metadata.SemaphoreHandle(h), err
}

func (d *fakeDevice) DestroySemaphore(semaphore metadata.SemaphoreHandle) {
	d.destroy("semaphore", uint64(semaphore))
}

func (d *fakeDevice) CreateFence(signaled bool) (metadata.FenceHandle, error) {
	h, err := d.create("fence")
	if err != nil {
		return 0, err
	}
	d.fences[metadata.FenceHandle(h)] = &fakeFence{signaled: signaled}
	return metadata.FenceHandle(h), nil
}

func (d *fakeDevice) DestroyFence(fence metadata.FenceHandle) {
	if f, ok := d.fences[fence]; ok && f.pending {
		d.violate("destroying fence %d while its work is pending", fence)
	}
	d.destroy("fence", uint64(fence))
	delete(d.fences, fence)
}

func (d *fakeDevice) complete(f *fakeFence) {
	if f.pending {
		f.pending = false
		d.pending--
	}
	f.signaled = true
}

func (d *fakeDevice) WaitForFence(fence metadata.FenceHandle, timeoutNs uint64) metadata.Result {
	d.fenceWaits++
	f, ok := d.fences[fence]
	if !ok {
		d.violate("waiting on unknown fence %d", fence)
		return metadata.ResultErrorDeviceLost
	}
	if !f.signaled && !f.pending {
		d.violate("waiting on fence %d that nothing will signal", fence)
		return metadata.ResultTimeout
	}
	d.complete(f)
	return metadata.ResultSuccess
}

func (d *fakeDevice) ResetFence(fence metadata.FenceHandle) metadata.Result {
	f, ok := d.fences[fence]
	if !ok {
		d.violate("resetting unknown fence %d", fence)
		return metadata.ResultErrorDeviceLost
	}
	if f.pending {
		d.violate("resetting fence %d while its work is pending", fence)
	}
	f.signaled = false
	return metadata.ResultSuccess
}

func (d *fakeDevice) AcquireNextImage(swapchain metadata.SwapchainHandle, timeoutNs uint64, signal metadata.SemaphoreHandle) (uint32, metadata.Result) {
	sc, ok := d.swapchains[swapchain]
	if !ok {
		d.violate("acquiring from unknown swapchain %d", swapchain)
		return 0, metadata.ResultErrorSurfaceLost
	}
	if timeoutNs != metadata.TimeoutInfinite {
		d.violate("acquire with finite timeout %d", timeoutNs)
	}

	var index uint32
	result := metadata.ResultSuccess
	if len(d.acquireScript) > 0 {
		step := d.acquireScript[0]
		d.acquireScript = d.acquireScript[1:]
		index, result = step.index, step.result
	} else {
		index = sc.next
		sc.next = (sc.next + 1) % uint32(len(sc.images))
	}
	if result.IsSuccess() {
		d.lastAcquired[swapchain] = index
	}
	return index, result
}

func popResult(results *[]metadata.Result) metadata.Result {
	if len(*results) == 0 {
		return metadata.ResultSuccess
	}
	res := (*results)[0]
	*results = (*results)[1:]
	return res
}

func (d *fakeDevice) QueueSubmit(queue metadata.QueueRole, info *metadata.SubmitInfo, fence metadata.FenceHandle) metadata.Result {
	if res := popResult(&d.submitResults); res != metadata.ResultSuccess {
		return res
	}
	d.submits[queue]++
	if fence == 0 {
		return metadata.ResultSuccess
	}

	f, ok := d.fences[fence]
	if !ok {
		d.violate("submitting with unknown fence %d", fence)
		return metadata.ResultErrorDeviceLost
	}
	if f.pending || f.signaled {
		d.violate("submitting with fence %d that is not reset", fence)
	}

	// Frame submissions render into the most recently acquired image.
	for swapchain, index := range d.lastAcquired {
		key := fakeImageKey{swapchain: swapchain, index: index}
		if owner, ok := d.imageOwner[key]; ok {
			if of, ok := d.fences[owner]; ok && of.pending {
				d.violate("image %d submitted while fence %d still renders into it", index, owner)
			}
		}
		d.imageOwner[key] = fence
	}
	d.lastAcquired = make(map[metadata.SwapchainHandle]uint32)

	f.pending = true
	d.pending++
	if d.pending > d.maxPending {
		d.maxPending = d.pending
	}
	return metadata.ResultSuccess
}

func (d *fakeDevice) QueuePresent(info *metadata.PresentInfo) metadata.Result {
	if _, ok := d.swapchains[info.Swapchain]; !ok {
		d.violate("presenting to unknown swapchain %d", info.Swapchain)
	}
	d.presents = append(d.presents, *info)
	return popResult(&d.presentResults)
}

func (d *fakeDevice) QueueWaitIdle(queue metadata.QueueRole) metadata.Result {
	d.queueIdles++
	return metadata.ResultSuccess
}

func (d *fakeDevice) WaitIdle() metadata.Result {
	d.waitIdles++
	for _, f := range d.fences {
		if f.pending {
			d.complete(f)
		}
	}
	return metadata.ResultSuccess
}

func (d *fakeDevice) BeginCommandBuffer(cb metadata.CommandBufferHandle, usage metadata.CommandBufferUsageFlags) metadata.Result {
	d.beginUsages = append(d.beginUsages, usage)
	return metadata.ResultSuccess
}

func (d *fakeDevice) EndCommandBuffer(cb metadata.CommandBufferHandle) metadata.Result {
	return metadata.ResultSuccess
}

func (d *fakeDevice) CmdBeginRenderPass(cb metadata.CommandBufferHandle, info *metadata.RenderPassBeginInfo) {
	d.renderPasses = append(d.renderPasses, *info)
}

func (d *fakeDevice) CmdEndRenderPass(cb metadata.CommandBufferHandle) {
	d.endRenderPass++
}

func (d *fakeDevice) CmdSetViewport(cb metadata.CommandBufferHandle, viewport metadata.Viewport) {
	d.viewports = append(d.viewports, viewport)
}

func (d *fakeDevice) CmdSetScissor(cb metadata.CommandBufferHandle, scissor metadata.Rect2D) {
	d.scissors = append(d.scissors, scissor)
}

// fakePool allocates command buffer handles out of the device handle space.
type fakePool struct {
	device *fakeDevice
}

func (p *fakePool) AllocateCommandBuffers(count uint32) ([]metadata.CommandBufferHandle, error) {
	handles := make([]metadata.CommandBufferHandle, 0, count)
	for i := uint32(0); i < count; i++ {
		h, err := p.device.create("commandbuffer")
		if err != nil {
			p.FreeCommandBuffers(handles)
			return nil, err
		}
		handles = append(handles, metadata.CommandBufferHandle(h))
	}
	return handles, nil
}

func (p *fakePool) FreeCommandBuffers(buffers []metadata.CommandBufferHandle) {
	for _, h := range buffers {
		p.device.destroy("commandbuffer", uint64(h))
	}
}

type fakeSurface struct {
	extent     metadata.Extent2D
	resized    bool
	waitEvents int
	onWait     func(s *fakeSurface)
}

func (s *fakeSurface) Extent() metadata.Extent2D { return s.extent }

func (s *fakeSurface) WasResized() bool { return s.resized }

func (s *fakeSurface) ResetResized() { s.resized = false }

func (s *fakeSurface) WaitEvents() {
	s.waitEvents++
	if s.onWait != nil {
		s.onWait(s)
	}
}
