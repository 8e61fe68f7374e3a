package renderer

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
)

type RendererConfig struct {
	RefreshMode        metadata.RefreshMode
	SurfaceFormat      metadata.SurfaceFormat
	FramesInFlight     uint32
	EnableDepth        bool
	ClearColor         metadata.ClearColor
	ClearDepthStencil  metadata.ClearDepthStencil
	AutoUpdateViewport bool
}

func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		RefreshMode:        metadata.RefreshModeFifo,
		SurfaceFormat:      metadata.DefaultSurfaceFormat,
		FramesInFlight:     DEFAULT_FRAMES_IN_FLIGHT,
		EnableDepth:        true,
		ClearColor:         metadata.ClearColor{0, 0, 0, 1},
		ClearDepthStencil:  metadata.ClearDepthStencil{Depth: 1, Stencil: 0},
		AutoUpdateViewport: true,
	}
}

/**
 * @brief Drives the per-frame loop: acquires an image, hands out the command
 * buffer of the current frame slot, submits and presents it, and rebuilds the
 * swapchain whenever it stops matching the surface.
 */
type Renderer struct {
	device  Device
	surface SurfaceProvider
	pool    CommandPool

	swapchain      *SwapchainRef
	commandBuffers []*CommandBuffer

	imageIndex   uint32
	frameIndex   uint32
	frameStarted bool
	rebuilds     uint64

	clearColor   metadata.ClearColor
	clearDepth   metadata.ClearDepthStencil
	viewport     metadata.Viewport
	scissor      metadata.Rect2D
	autoViewport bool
}

func NewRenderer(device Device, surface SurfaceProvider, pool CommandPool, config RendererConfig) (*Renderer, error) {
	r := &Renderer{
		device:       device,
		surface:      surface,
		pool:         pool,
		clearColor:   config.ClearColor,
		clearDepth:   config.ClearDepthStencil,
		autoViewport: config.AutoUpdateViewport,
	}

	swapchain := NewSwapchain(device, r.waitForExtent(), nil)
	if err := swapchain.SetRefreshMode(config.RefreshMode); err != nil {
		return nil, err
	}
	if err := swapchain.SetWantedSurfaceFormat(config.SurfaceFormat); err != nil {
		return nil, err
	}
	if err := swapchain.SetFramesInFlight(config.FramesInFlight); err != nil {
		return nil, err
	}
	if err := swapchain.SetDepthEnabled(config.EnableDepth); err != nil {
		return nil, err
	}
	if err := swapchain.Build(); err != nil {
		return nil, errors.Wrap(err, "failed to build the initial swapchain")
	}
	r.swapchain = NewSwapchainRef(swapchain)

	if err := r.createCommandBuffers(); err != nil {
		r.swapchain.Release()
		return nil, err
	}
	r.resetViewport(swapchain.Extent())

	core.LogInfo("renderer initialized: %dx%d, %d frames in flight", swapchain.Width(), swapchain.Height(), swapchain.FramesInFlight())
	return r, nil
}

// Destroy waits for the device to go idle and releases everything the renderer owns.
func (r *Renderer) Destroy() {
	if res := r.device.WaitIdle(); res != metadata.ResultSuccess {
		core.LogError("renderer destroy - device wait idle: %s", res)
	}
	r.freeCommandBuffers()
	if r.swapchain != nil {
		r.swapchain.Release()
		r.swapchain = nil
	}
	r.frameStarted = false
}

/**
 * Starts a frame and returns the command buffer to record it into. When the
 * swapchain had to be rebuilt no frame is started and the returned command
 * buffer is nil: the caller should skip the frame.
 */
func (r *Renderer) BeginFrame() (*CommandBuffer, error) {
	if r.frameStarted {
		return nil, errors.AssertionFailedf("cannot begin a frame while one is already in progress")
	}
	if r.swapchain == nil || len(r.commandBuffers) == 0 {
		return nil, errors.AssertionFailedf("cannot begin a frame on a destroyed renderer")
	}

	imageIndex, res := r.swapchain.Swapchain().AcquireNextImage()
	if res == metadata.ResultErrorOutOfDate {
		if err := r.recreateSwapchain(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if !res.IsSuccess() {
		err := errors.Wrap(res.Err(), "failed to acquire swapchain image")
		core.LogError(err.Error())
		return nil, err
	}

	r.imageIndex = imageIndex
	cb := r.commandBuffers[r.frameIndex]
	cb.Reset()
	if err := cb.Begin(false, false, false); err != nil {
		return nil, err
	}
	r.frameStarted = true
	return cb, nil
}

/**
 * Ends recording of the current frame, submits and presents it. The swapchain
 * is rebuilt when it is out of date, suboptimal or the surface was resized.
 * The renderer is back to idle and on the next frame slot whatever the outcome.
 */
func (r *Renderer) EndFrame() error {
	if !r.frameStarted {
		return errors.AssertionFailedf("cannot end a frame that has not been started")
	}
	defer func() {
		r.frameStarted = false
		if n := uint32(len(r.commandBuffers)); n > 0 {
			r.frameIndex = (r.frameIndex + 1) % n
		}
	}()

	cb := r.commandBuffers[r.frameIndex]
	if err := cb.End(); err != nil {
		return err
	}

	res := r.swapchain.Swapchain().SubmitAndPresent(cb, r.imageIndex)
	if res.IsFatal() {
		err := errors.Wrap(res.Err(), "failed to present swapchain image")
		core.LogError(err.Error())
		return err
	}
	if res.NeedsRebuild() || r.surface.WasResized() {
		r.surface.ResetResized()
		return r.recreateSwapchain()
	}
	return nil
}

// BeginRenderPass starts the swapchain render pass on the acquired image.
func (r *Renderer) BeginRenderPass(cb *CommandBuffer) error {
	if err := r.checkCurrentCommandBuffer(cb, "begin render pass"); err != nil {
		return err
	}
	swapchain := r.swapchain.Swapchain()
	area := metadata.ScissorFromExtent(swapchain.Extent())
	if err := swapchain.RenderPass().Begin(cb, swapchain.Framebuffer(r.imageIndex), area, r.clearColor, r.clearDepth); err != nil {
		return err
	}
	r.device.CmdSetViewport(cb.Handle, r.Viewport())
	r.device.CmdSetScissor(cb.Handle, r.Scissor())
	return nil
}

func (r *Renderer) EndRenderPass(cb *CommandBuffer) error {
	if err := r.checkCurrentCommandBuffer(cb, "end render pass"); err != nil {
		return err
	}
	return r.swapchain.Swapchain().RenderPass().End(cb)
}

func (r *Renderer) checkCurrentCommandBuffer(cb *CommandBuffer, op string) error {
	if !r.frameStarted {
		return errors.AssertionFailedf("cannot %s: no frame in progress", op)
	}
	if cb != r.commandBuffers[r.frameIndex] {
		return errors.AssertionFailedf("cannot %s on a command buffer from a different frame", op)
	}
	return nil
}

/**
 * Replaces the swapchain with one built for the current surface extent. The
 * old swapchain is handed to the new one as a reuse hint and destroyed once
 * both are done with it.
 */
func (r *Renderer) recreateSwapchain() error {
	if res := r.device.WaitIdle(); res != metadata.ResultSuccess {
		err := errors.Wrapf(core.ErrDeviceWaitIdle, "%s", res)
		core.LogError(err.Error())
		return err
	}

	extent := r.waitForExtent()
	old := r.swapchain.Swapchain()

	next := NewSwapchain(r.device, extent, r.swapchain.Retain())
	// The old swapchain was built with these, so they are valid.
	_ = next.SetRefreshMode(old.RefreshMode())
	_ = next.SetWantedSurfaceFormat(old.WantedSurfaceFormat())
	_ = next.SetFramesInFlight(old.FramesInFlight())
	_ = next.SetDepthEnabled(old.DepthEnabled())

	if err := next.Build(); err != nil {
		return errors.Wrap(err, "failed to rebuild swapchain")
	}
	if !old.CompareFormats(next) {
		next.Destroy()
		err := errors.Wrapf(core.ErrSwapchainFormatChanged, "%s/%s -> %s/%s", old.ImageFormat(), old.DepthFormat(), next.ImageFormat(), next.DepthFormat())
		core.LogError(err.Error())
		return err
	}

	r.freeCommandBuffers()
	r.swapchain.Release()
	r.swapchain = NewSwapchainRef(next)
	if err := r.createCommandBuffers(); err != nil {
		return err
	}
	if r.autoViewport {
		r.resetViewport(next.Extent())
	}
	r.rebuilds++

	core.LogInfo("swapchain rebuilt: %s (%dx%d)", next.ID(), next.Width(), next.Height())
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_SWAPCHAIN_RECREATED,
		Data: &core.SwapchainEvent{
			Generation: next.ID().String(),
			Width:      next.Width(),
			Height:     next.Height(),
			Rebuilds:   r.rebuilds,
		},
	})
	return nil
}

// waitForExtent blocks while the surface has no area, typically while minimized.
func (r *Renderer) waitForExtent() metadata.Extent2D {
	extent := r.surface.Extent()
	for extent.IsZero() {
		r.surface.WaitEvents()
		extent = r.surface.Extent()
	}
	return extent
}

func (r *Renderer) createCommandBuffers() error {
	buffers, err := AllocateCommandBuffers(r.device, r.pool, r.swapchain.Swapchain().FramesInFlight())
	if err != nil {
		return err
	}
	r.commandBuffers = buffers
	r.frameIndex = r.frameIndex % uint32(len(buffers))
	return nil
}

func (r *Renderer) freeCommandBuffers() {
	FreeCommandBuffers(r.pool, r.commandBuffers)
	r.commandBuffers = nil
}

func (r *Renderer) resetViewport(extent metadata.Extent2D) {
	r.viewport = metadata.ViewportFromExtent(extent)
	r.scissor = metadata.ScissorFromExtent(extent)
}

func (r *Renderer) SetClearColor(red, green, blue, alpha float32) {
	r.clearColor = metadata.ClearColor{red, green, blue, alpha}
}

func (r *Renderer) SetClearDepthStencil(depth float32, stencil uint32) {
	r.clearDepth = metadata.ClearDepthStencil{Depth: depth, Stencil: stencil}
}

// SetViewport fixes the viewport and scissor. It turns automatic viewport updates off.
func (r *Renderer) SetViewport(viewport metadata.Viewport, scissor metadata.Rect2D) {
	r.viewport = viewport
	r.scissor = scissor
	r.autoViewport = false
}

func (r *Renderer) SetAutoUpdateViewport(enabled bool) {
	r.autoViewport = enabled
	if enabled {
		r.resetViewport(r.swapchain.Swapchain().Extent())
	}
}

func (r *Renderer) Viewport() metadata.Viewport {
	if r.autoViewport {
		return metadata.ViewportFromExtent(r.swapchain.Swapchain().Extent())
	}
	return r.viewport
}

func (r *Renderer) Scissor() metadata.Rect2D {
	if r.autoViewport {
		return metadata.ScissorFromExtent(r.swapchain.Swapchain().Extent())
	}
	return r.scissor
}

func (r *Renderer) ClearColor() metadata.ClearColor { return r.clearColor }

func (r *Renderer) IsFrameInProgress() bool { return r.frameStarted }

func (r *Renderer) RebuildCount() uint64 { return r.rebuilds }

func (r *Renderer) ImageIndex() uint32 { return r.imageIndex }

func (r *Renderer) Swapchain() *Swapchain { return r.swapchain.Swapchain() }

func (r *Renderer) RenderPass() *RenderPass { return r.swapchain.Swapchain().RenderPass() }

func (r *Renderer) CurrentCommandBuffer() (*CommandBuffer, error) {
	if !r.frameStarted {
		return nil, errors.AssertionFailedf("cannot get command buffer when frame not in progress")
	}
	return r.commandBuffers[r.frameIndex], nil
}

func (r *Renderer) FrameIndex() (uint32, error) {
	if !r.frameStarted {
		return 0, errors.AssertionFailedf("cannot get frame index when frame not in progress")
	}
	return r.frameIndex, nil
}
