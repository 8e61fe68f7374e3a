package renderer

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/math"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const DEFAULT_FRAMES_IN_FLIGHT uint32 = 2

type SwapchainState int

const (
	SWAPCHAIN_STATE_UNBUILT SwapchainState = iota
	SWAPCHAIN_STATE_BUILT
	SWAPCHAIN_STATE_DESTROYED
)

func (s SwapchainState) String() string {
	switch s {
	case SWAPCHAIN_STATE_UNBUILT:
		return "unbuilt"
	case SWAPCHAIN_STATE_BUILT:
		return "built"
	case SWAPCHAIN_STATE_DESTROYED:
		return "destroyed"
	}
	return "unknown"
}

// Synchronization objects of one frame in flight.
type frameSync struct {
	imageAvailable metadata.SemaphoreHandle
	renderFinished metadata.SemaphoreHandle
	inFlight       *Fence
}

/**
 * @brief The presentable images of a surface at a given extent, along with
 * everything needed to render into them: views, optional depth images, a
 * render pass, framebuffers and the per-frame synchronization objects.
 */
type Swapchain struct {
	device Device
	id     uuid.UUID
	state  SwapchainState

	windowExtent metadata.Extent2D
	previous     *SwapchainRef

	// Configuration, fixed once built.
	refreshMode         metadata.RefreshMode
	wantedSurfaceFormat metadata.SurfaceFormat
	framesInFlight      uint32
	depthEnabled        bool

	handle        metadata.SwapchainHandle
	surfaceFormat metadata.SurfaceFormat
	depthFormat   metadata.Format
	extent        metadata.Extent2D

	images       []metadata.ImageHandle // owned by the platform, never destroyed here
	imageViews   []metadata.ImageViewHandle
	depthImages  []*Image
	renderPass   *RenderPass
	framebuffers []*Framebuffer

	frames []frameSync
	// Indexed by image index. Non-owning: each entry points into frames.
	imagesInFlight []*Fence
	currentFrame   uint32
}

/**
 * Creates an unbuilt swapchain for the given window extent. When previous is
 * not nil the swapchain takes over that reference and releases it once its
 * native handle has been handed to the device as a reuse hint.
 */
func NewSwapchain(device Device, windowExtent metadata.Extent2D, previous *SwapchainRef) *Swapchain {
	return &Swapchain{
		device:              device,
		id:                  uuid.New(),
		state:               SWAPCHAIN_STATE_UNBUILT,
		windowExtent:        windowExtent,
		previous:            previous,
		refreshMode:         metadata.RefreshModeFifo,
		wantedSurfaceFormat: metadata.DefaultSurfaceFormat,
		framesInFlight:      DEFAULT_FRAMES_IN_FLIGHT,
		depthEnabled:        true,
	}
}

func (s *Swapchain) checkUnbuilt(setting string) error {
	if s.state != SWAPCHAIN_STATE_UNBUILT {
		return errors.AssertionFailedf("cannot change %s of swapchain %s: it is %s", setting, s.id, s.state)
	}
	return nil
}

func (s *Swapchain) SetRefreshMode(mode metadata.RefreshMode) error {
	if err := s.checkUnbuilt("refresh mode"); err != nil {
		return err
	}
	s.refreshMode = mode
	return nil
}

func (s *Swapchain) SetWantedSurfaceFormat(format metadata.SurfaceFormat) error {
	if err := s.checkUnbuilt("surface format"); err != nil {
		return err
	}
	s.wantedSurfaceFormat = format
	return nil
}

func (s *Swapchain) SetFramesInFlight(count uint32) error {
	if err := s.checkUnbuilt("frames in flight"); err != nil {
		return err
	}
	if count == 0 {
		return errors.AssertionFailedf("frames in flight must be at least 1")
	}
	s.framesInFlight = count
	return nil
}

func (s *Swapchain) SetDepthEnabled(enabled bool) error {
	if err := s.checkUnbuilt("depth buffer"); err != nil {
		return err
	}
	s.depthEnabled = enabled
	return nil
}

// Build creates the native swapchain and every resource derived from it.
// On failure everything created so far is released and the swapchain is destroyed.
func (s *Swapchain) Build() error {
	if s.state != SWAPCHAIN_STATE_UNBUILT {
		return errors.AssertionFailedf("cannot build swapchain %s: it is %s", s.id, s.state)
	}
	if err := s.build(); err != nil {
		s.Destroy()
		return err
	}
	s.state = SWAPCHAIN_STATE_BUILT
	core.LogDebug("swapchain %s built: %dx%d, %d images, %s, %s", s.id, s.extent.Width, s.extent.Height, len(s.images), s.surfaceFormat, s.refreshMode)
	return nil
}

func (s *Swapchain) build() error {
	if err := s.createSwapchain(); err != nil {
		return err
	}
	if err := s.createImageViews(); err != nil {
		return err
	}
	if err := s.createRenderPass(); err != nil {
		return err
	}
	if err := s.createDepthResources(); err != nil {
		return err
	}
	if err := s.createFramebuffers(); err != nil {
		return err
	}
	if err := s.createSyncObjects(); err != nil {
		return err
	}
	s.imagesInFlight = make([]*Fence, len(s.images))
	return nil
}

func (s *Swapchain) createSwapchain() error {
	support, err := s.device.SwapchainSupport()
	if err != nil {
		err = errors.Wrap(err, "failed to query swapchain support")
		core.LogError(err.Error())
		return err
	}
	if len(support.Formats) == 0 {
		return errors.WithStack(core.ErrNoSurfaceFormats)
	}
	if len(support.RefreshModes) == 0 {
		return errors.WithStack(core.ErrNoPresentModes)
	}

	surfaceFormat := ChooseSurfaceFormat(support.Formats, s.wantedSurfaceFormat)
	refreshMode := ChoosePresentMode(support.RefreshModes, s.refreshMode)
	extent := ChooseSwapExtent(support.Capabilities, s.windowExtent)
	imageCount := ChooseImageCount(support.Capabilities)

	var oldSwapchain metadata.SwapchainHandle
	if s.previous != nil {
		oldSwapchain = s.previous.Swapchain().Handle()
	}

	handle, err := s.device.CreateSwapchain(&metadata.SwapchainCreateInfo{
		MinImageCount: imageCount,
		SurfaceFormat: surfaceFormat,
		Extent:        extent,
		RefreshMode:   refreshMode,
		OldSwapchain:  oldSwapchain,
	})
	if err != nil {
		err = errors.Mark(errors.Wrap(err, "failed to create swapchain"), core.ErrSwapchainCreate)
		core.LogError(err.Error())
		return err
	}
	s.handle = handle
	s.surfaceFormat = surfaceFormat
	s.extent = extent

	// The hint has been consumed.
	s.releasePrevious()

	images, err := s.device.SwapchainImages(handle)
	if err != nil {
		err = errors.Wrap(err, "failed to retrieve swapchain images")
		core.LogError(err.Error())
		return err
	}
	s.images = images
	return nil
}

func (s *Swapchain) createImageViews() error {
	s.imageViews = make([]metadata.ImageViewHandle, 0, len(s.images))
	for i, image := range s.images {
		view, err := s.device.CreateImageView(&metadata.ImageViewCreateInfo{
			Image:       image,
			Format:      s.surfaceFormat.Format,
			AspectFlags: metadata.ImageAspectColor,
		})
		if err != nil {
			err = errors.Wrapf(err, "failed to create view for swapchain image %d", i)
			core.LogError(err.Error())
			return err
		}
		s.imageViews = append(s.imageViews, view)
	}
	return nil
}

func (s *Swapchain) createRenderPass() error {
	if s.depthEnabled {
		depthFormat, err := FindDepthFormat(s.device)
		if err != nil {
			return err
		}
		s.depthFormat = depthFormat
	}

	renderPass, err := NewRenderPass(s.device, s.surfaceFormat.Format, s.depthFormat)
	if err != nil {
		return err
	}
	s.renderPass = renderPass
	return nil
}

func (s *Swapchain) createDepthResources() error {
	if !s.depthEnabled {
		return nil
	}
	aspect := metadata.ImageAspectDepth
	if s.depthFormat.HasStencil() {
		aspect |= metadata.ImageAspectStencil
	}

	s.depthImages = make([]*Image, 0, len(s.images))
	for range s.images {
		image, err := NewImage(s.device, &metadata.ImageCreateInfo{
			Extent:          s.extent,
			Format:          s.depthFormat,
			Tiling:          metadata.ImageTilingOptimal,
			Usage:           metadata.ImageUsageDepthStencilAttachment,
			MemoryFlags:     metadata.MemoryPropertyDeviceLocal,
			ViewAspectFlags: aspect,
		})
		if err != nil {
			return err
		}
		s.depthImages = append(s.depthImages, image)
	}
	return nil
}

func (s *Swapchain) createFramebuffers() error {
	s.framebuffers = make([]*Framebuffer, 0, len(s.images))
	for i, view := range s.imageViews {
		attachments := []metadata.ImageViewHandle{view}
		if s.depthEnabled {
			attachments = append(attachments, s.depthImages[i].View)
		}
		fb, err := NewFramebuffer(s.device, s.renderPass, s.extent, attachments)
		if err != nil {
			return err
		}
		s.framebuffers = append(s.framebuffers, fb)
	}
	return nil
}

func (s *Swapchain) createSyncObjects() error {
	s.frames = make([]frameSync, s.framesInFlight)
	for i := range s.frames {
		frame := &s.frames[i]
		var err error
		if frame.imageAvailable, err = s.device.CreateSemaphore(); err != nil {
			return s.syncError(i, err)
		}
		if frame.renderFinished, err = s.device.CreateSemaphore(); err != nil {
			return s.syncError(i, err)
		}
		// Signaled so that the very first wait on this slot does not block.
		if frame.inFlight, err = NewFence(s.device, true); err != nil {
			return s.syncError(i, err)
		}
	}
	return nil
}

func (s *Swapchain) syncError(frame int, cause error) error {
	err := errors.Mark(errors.Wrapf(cause, "failed to create synchronization objects for frame %d", frame), core.ErrSynchronizationCreation)
	core.LogError(err.Error())
	return err
}

func (s *Swapchain) releasePrevious() {
	if s.previous != nil {
		s.previous.Release()
		s.previous = nil
	}
}

/**
 * Destroy releases everything the swapchain owns. It is safe to call on a
 * partially built swapchain and more than once.
 */
func (s *Swapchain) Destroy() {
	if s.state == SWAPCHAIN_STATE_DESTROYED {
		return
	}
	s.releasePrevious()

	for _, fb := range s.framebuffers {
		fb.Destroy()
	}
	s.framebuffers = nil

	for _, image := range s.depthImages {
		image.Destroy()
	}
	s.depthImages = nil

	for _, view := range s.imageViews {
		s.device.DestroyImageView(view)
	}
	s.imageViews = nil

	if s.renderPass != nil {
		s.renderPass.Destroy()
		s.renderPass = nil
	}

	for _, frame := range s.frames {
		if frame.renderFinished != 0 {
			s.device.DestroySemaphore(frame.renderFinished)
		}
		if frame.imageAvailable != 0 {
			s.device.DestroySemaphore(frame.imageAvailable)
		}
		if frame.inFlight != nil {
			frame.inFlight.Destroy()
		}
	}
	s.frames = nil
	s.imagesInFlight = nil

	if s.handle != 0 {
		s.device.DestroySwapchain(s.handle)
		s.handle = 0
	}
	s.images = nil
	s.state = SWAPCHAIN_STATE_DESTROYED
}

/**
 * Waits until the current frame slot is free again, then acquires the next
 * presentable image, signaling the slot's image-available semaphore.
 */
func (s *Swapchain) AcquireNextImage() (uint32, metadata.Result) {
	if s.state != SWAPCHAIN_STATE_BUILT {
		core.LogError("cannot acquire an image from swapchain %s: it is %s", s.id, s.state)
		return 0, metadata.ResultErrorInitializationFailed
	}
	frame := &s.frames[s.currentFrame]
	if res := frame.inFlight.Wait(metadata.TimeoutInfinite); res != metadata.ResultSuccess {
		return 0, res
	}
	return s.device.AcquireNextImage(s.handle, metadata.TimeoutInfinite, frame.imageAvailable)
}

/**
 * Submits cb for the acquired image and queues the image for presentation.
 * If a previous frame is still using the image, its fence is waited on before
 * the current frame slot takes ownership. The frame slot always advances.
 */
func (s *Swapchain) SubmitAndPresent(cb *CommandBuffer, imageIndex uint32) metadata.Result {
	if s.state != SWAPCHAIN_STATE_BUILT {
		core.LogError("cannot submit to swapchain %s: it is %s", s.id, s.state)
		return metadata.ResultErrorInitializationFailed
	}
	frame := &s.frames[s.currentFrame]
	defer func() {
		s.currentFrame = (s.currentFrame + 1) % s.framesInFlight
	}()

	if imageIndex >= uint32(len(s.imagesInFlight)) {
		core.LogError("image index %d out of range for swapchain %s with %d images", imageIndex, s.id, len(s.images))
		return metadata.ResultErrorUnknown
	}

	// Wait the old owner, then assign the new one.
	if owner := s.imagesInFlight[imageIndex]; owner != nil {
		if res := owner.Wait(metadata.TimeoutInfinite); res != metadata.ResultSuccess {
			return res
		}
	}
	s.imagesInFlight[imageIndex] = frame.inFlight

	if res := frame.inFlight.Reset(); res != metadata.ResultSuccess {
		return res
	}

	submitInfo := &metadata.SubmitInfo{
		CommandBuffers:   []metadata.CommandBufferHandle{cb.Handle},
		WaitSemaphores:   []metadata.SemaphoreHandle{frame.imageAvailable},
		WaitStages:       []metadata.PipelineStageFlags{metadata.PipelineStageColorAttachmentOutput},
		SignalSemaphores: []metadata.SemaphoreHandle{frame.renderFinished},
	}
	if res := s.device.QueueSubmit(metadata.QueueGraphics, submitInfo, frame.inFlight.Handle); res != metadata.ResultSuccess {
		core.LogError("failed to submit draw command buffer: %s", res)
		return res
	}
	cb.UpdateSubmitted()

	return s.device.QueuePresent(&metadata.PresentInfo{
		WaitSemaphores: []metadata.SemaphoreHandle{frame.renderFinished},
		Swapchain:      s.handle,
		ImageIndex:     imageIndex,
	})
}

// CompareFormats reports whether both swapchains render with the same color and depth formats.
func (s *Swapchain) CompareFormats(other *Swapchain) bool {
	return s.surfaceFormat.Format == other.surfaceFormat.Format &&
		s.depthFormat == other.depthFormat
}

/**
 * Picks the wanted (format, color space) pair when the surface supports it,
 * otherwise the first one the surface reports.
 */
func ChooseSurfaceFormat(available []metadata.SurfaceFormat, wanted metadata.SurfaceFormat) metadata.SurfaceFormat {
	for _, format := range available {
		if format == wanted {
			return format
		}
	}
	core.LogWarn("surface format %s is not supported, falling back to %s", wanted, available[0])
	return available[0]
}

// ChoosePresentMode picks the wanted refresh mode, or FIFO which every surface supports.
func ChoosePresentMode(available []metadata.RefreshMode, wanted metadata.RefreshMode) metadata.RefreshMode {
	for _, mode := range available {
		if mode == wanted {
			return mode
		}
	}
	core.LogWarn("refresh mode %s is not supported, falling back to %s", wanted, metadata.RefreshModeFifo)
	return metadata.RefreshModeFifo
}

/**
 * Uses the surface's current extent unless the surface leaves the choice to
 * the swapchain, in which case the window extent is clamped to the allowed range.
 */
func ChooseSwapExtent(capabilities metadata.SurfaceCapabilities, windowExtent metadata.Extent2D) metadata.Extent2D {
	if !capabilities.CurrentExtent.IsUndefined() {
		return capabilities.CurrentExtent
	}
	return metadata.Extent2D{
		Width:  math.Clamp(windowExtent.Width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: math.Clamp(windowExtent.Height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image more than the minimum, within the surface maximum.
func ChooseImageCount(capabilities metadata.SurfaceCapabilities) uint32 {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 {
		imageCount = math.Clamp(imageCount, capabilities.MinImageCount, capabilities.MaxImageCount)
	}
	return imageCount
}

func (s *Swapchain) ID() uuid.UUID { return s.id }

func (s *Swapchain) State() SwapchainState { return s.state }

func (s *Swapchain) Handle() metadata.SwapchainHandle { return s.handle }

func (s *Swapchain) RenderPass() *RenderPass { return s.renderPass }

func (s *Swapchain) ImageCount() int { return len(s.images) }

func (s *Swapchain) ImageFormat() metadata.Format { return s.surfaceFormat.Format }

func (s *Swapchain) SurfaceFormat() metadata.SurfaceFormat { return s.surfaceFormat }

func (s *Swapchain) DepthFormat() metadata.Format { return s.depthFormat }

func (s *Swapchain) DepthEnabled() bool { return s.depthEnabled }

func (s *Swapchain) Extent() metadata.Extent2D { return s.extent }

func (s *Swapchain) Width() uint32 { return s.extent.Width }

func (s *Swapchain) Height() uint32 { return s.extent.Height }

func (s *Swapchain) FramesInFlight() uint32 { return s.framesInFlight }

func (s *Swapchain) RefreshMode() metadata.RefreshMode { return s.refreshMode }

func (s *Swapchain) WantedSurfaceFormat() metadata.SurfaceFormat { return s.wantedSurfaceFormat }

func (s *Swapchain) Framebuffer(index uint32) *Framebuffer {
	return s.framebuffers[index]
}

func (s *Swapchain) ImageView(index uint32) metadata.ImageViewHandle {
	return s.imageViews[index]
}

func (s *Swapchain) ExtentAspectRatio() float32 {
	return float32(s.extent.Width) / float32(s.extent.Height)
}
