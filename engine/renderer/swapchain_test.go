package renderer

import (
	"testing"

	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testExtent = metadata.Extent2D{Width: 800, Height: 600}

func buildSwapchain(t *testing.T, dev *fakeDevice, previous *SwapchainRef, configure ...func(s *Swapchain)) *Swapchain {
	t.Helper()
	s := NewSwapchain(dev, testExtent, previous)
	for _, fn := range configure {
		fn(s)
	}
	require.NoError(t, s.Build())
	return s
}

func TestChooseSwapExtent(t *testing.T) {
	bounded := metadata.SurfaceCapabilities{
		CurrentExtent:  metadata.Extent2D{Width: metadata.UndefinedExtent, Height: metadata.UndefinedExtent},
		MinImageExtent: metadata.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: metadata.Extent2D{Width: 4096, Height: 4096},
	}
	fixed := bounded
	fixed.CurrentExtent = metadata.Extent2D{Width: 1024, Height: 768}

	tests := []struct {
		name   string
		caps   metadata.SurfaceCapabilities
		window metadata.Extent2D
		want   metadata.Extent2D
	}{
		{"within bounds", bounded, metadata.Extent2D{Width: 800, Height: 600}, metadata.Extent2D{Width: 800, Height: 600}},
		{"above max", bounded, metadata.Extent2D{Width: 10000, Height: 10000}, metadata.Extent2D{Width: 4096, Height: 4096}},
		{"below min", bounded, metadata.Extent2D{Width: 0, Height: 0}, metadata.Extent2D{Width: 1, Height: 1}},
		{"mixed", bounded, metadata.Extent2D{Width: 5000, Height: 300}, metadata.Extent2D{Width: 4096, Height: 300}},
		{"current extent wins", fixed, metadata.Extent2D{Width: 800, Height: 600}, metadata.Extent2D{Width: 1024, Height: 768}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChooseSwapExtent(tt.caps, tt.window))
		})
	}
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		min, max uint32
		want     uint32
	}{
		{min: 2, max: 0, want: 3},
		{min: 2, max: 2, want: 2},
		{min: 2, max: 8, want: 3},
		{min: 1, max: 0, want: 2},
	}
	for _, tt := range tests {
		caps := metadata.SurfaceCapabilities{MinImageCount: tt.min, MaxImageCount: tt.max}
		assert.Equal(t, tt.want, ChooseImageCount(caps), "min=%d max=%d", tt.min, tt.max)
	}
}

func TestChooseSurfaceFormat(t *testing.T) {
	unorm := metadata.SurfaceFormat{Format: metadata.FormatB8G8R8A8Unorm, ColorSpace: metadata.ColorSpaceSrgbNonlinear}
	srgb := metadata.DefaultSurfaceFormat

	assert.Equal(t, srgb, ChooseSurfaceFormat([]metadata.SurfaceFormat{unorm, srgb}, srgb))
	assert.Equal(t, unorm, ChooseSurfaceFormat([]metadata.SurfaceFormat{unorm}, srgb))

	// Same format in another color space is not a match.
	p3 := metadata.SurfaceFormat{Format: metadata.FormatB8G8R8A8Srgb, ColorSpace: metadata.ColorSpaceDisplayP3Nonlinear}
	assert.Equal(t, p3, ChooseSurfaceFormat([]metadata.SurfaceFormat{p3, unorm}, srgb))
}

func TestChoosePresentMode(t *testing.T) {
	available := []metadata.RefreshMode{metadata.RefreshModeFifo, metadata.RefreshModeMailbox}
	assert.Equal(t, metadata.RefreshModeMailbox, ChoosePresentMode(available, metadata.RefreshModeMailbox))
	assert.Equal(t, metadata.RefreshModeFifo, ChoosePresentMode(available, metadata.RefreshModeImmediate))
}

func TestSwapchainBuild(t *testing.T) {
	dev := newFakeDevice()
	s := buildSwapchain(t, dev, nil)

	assert.Equal(t, SWAPCHAIN_STATE_BUILT, s.State())
	assert.Equal(t, 3, s.ImageCount())
	assert.Equal(t, testExtent, s.Extent())
	assert.Equal(t, metadata.FormatB8G8R8A8Srgb, s.ImageFormat())
	assert.Equal(t, metadata.FormatD32Sfloat, s.DepthFormat())
	assert.Equal(t, DEFAULT_FRAMES_IN_FLIGHT, s.FramesInFlight())
	assert.InDelta(t, 800.0/600.0, s.ExtentAspectRatio(), 1e-6)
	assert.NotNil(t, s.RenderPass())
	assert.True(t, s.RenderPass().HasDepth)

	for i := uint32(0); i < uint32(s.ImageCount()); i++ {
		assert.NotZero(t, s.ImageView(i))
		fb := s.Framebuffer(i)
		require.NotNil(t, fb)
		assert.Len(t, fb.Attachments, 2)
		assert.Equal(t, s.ImageView(i), fb.Attachments[0])
	}
	assert.Len(t, s.imagesInFlight, 3)
	for _, owner := range s.imagesInFlight {
		assert.Nil(t, owner)
	}

	assert.Equal(t, 1, dev.liveCount("swapchain"))
	assert.Equal(t, 3, dev.liveCount("framebuffer"))
	assert.Equal(t, 6, dev.liveCount("imageview"))
	assert.Equal(t, 3, dev.liveCount("image"))
	assert.Equal(t, 4, dev.liveCount("semaphore"))
	assert.Equal(t, 2, dev.liveCount("fence"))

	require.Len(t, dev.swapchainCreates, 1)
	info := dev.swapchainCreates[0]
	assert.Equal(t, uint32(3), info.MinImageCount)
	assert.Equal(t, metadata.RefreshModeFifo, info.RefreshMode)
	assert.Zero(t, info.OldSwapchain)

	s.Destroy()
	assert.Equal(t, SWAPCHAIN_STATE_DESTROYED, s.State())
	assert.Empty(t, dev.live)
	assert.Empty(t, dev.violations)
}

func TestSwapchainBuildWithoutDepth(t *testing.T) {
	dev := newFakeDevice()
	s := buildSwapchain(t, dev, nil, func(s *Swapchain) {
		require.NoError(t, s.SetDepthEnabled(false))
	})

	assert.Equal(t, metadata.FormatUndefined, s.DepthFormat())
	assert.False(t, s.RenderPass().HasDepth)
	assert.Len(t, s.Framebuffer(0).Attachments, 1)
	assert.Zero(t, dev.liveCount("image"))

	s.Destroy()
	assert.Empty(t, dev.live)
}

func TestSwapchainBuildErrors(t *testing.T) {
	t.Run("no formats", func(t *testing.T) {
		dev := newFakeDevice()
		dev.support.Formats = nil
		s := NewSwapchain(dev, testExtent, nil)
		err := s.Build()
		require.True(t, errors.Is(err, core.ErrNoSurfaceFormats), "%v", err)
		assert.Equal(t, SWAPCHAIN_STATE_DESTROYED, s.State())
		assert.Empty(t, dev.live)
	})

	t.Run("no present modes", func(t *testing.T) {
		dev := newFakeDevice()
		dev.support.RefreshModes = nil
		err := NewSwapchain(dev, testExtent, nil).Build()
		require.True(t, errors.Is(err, core.ErrNoPresentModes), "%v", err)
	})

	t.Run("no depth format", func(t *testing.T) {
		dev := newFakeDevice()
		dev.formatProps = nil
		err := NewSwapchain(dev, testExtent, nil).Build()
		require.True(t, errors.Is(err, core.ErrNoDepthFormat), "%v", err)
		assert.Empty(t, dev.live)
	})

	t.Run("swapchain creation", func(t *testing.T) {
		dev := newFakeDevice()
		dev.failNext["swapchain"] = true
		err := NewSwapchain(dev, testExtent, nil).Build()
		require.True(t, errors.Is(err, core.ErrSwapchainCreate), "%v", err)
	})

	// Every step that can fail halfway leaves nothing behind.
	for _, kind := range []string{"imageview", "renderpass", "image", "memory", "framebuffer", "semaphore", "fence"} {
		t.Run("partial "+kind, func(t *testing.T) {
			dev := newFakeDevice()
			dev.failNext[kind] = true
			s := NewSwapchain(dev, testExtent, nil)
			require.Error(t, s.Build())
			assert.Equal(t, SWAPCHAIN_STATE_DESTROYED, s.State())
			assert.Empty(t, dev.live)
			assert.Empty(t, dev.violations)
		})
	}

	t.Run("sync objects", func(t *testing.T) {
		dev := newFakeDevice()
		dev.failNext["fence"] = true
		err := NewSwapchain(dev, testExtent, nil).Build()
		require.True(t, errors.Is(err, core.ErrSynchronizationCreation), "%v", err)
	})
}

func TestSwapchainConfigurationLockedAfterBuild(t *testing.T) {
	dev := newFakeDevice()
	s := buildSwapchain(t, dev, nil)

	errs := []error{
		s.SetRefreshMode(metadata.RefreshModeMailbox),
		s.SetWantedSurfaceFormat(metadata.SurfaceFormat{Format: metadata.FormatB8G8R8A8Unorm}),
		s.SetFramesInFlight(3),
		s.SetDepthEnabled(false),
		s.Build(),
	}
	for _, err := range errs {
		require.Error(t, err)
		assert.True(t, errors.IsAssertionFailure(err), "%v", err)
	}
	assert.Equal(t, metadata.RefreshModeFifo, s.RefreshMode())
	assert.Equal(t, DEFAULT_FRAMES_IN_FLIGHT, s.FramesInFlight())

	require.True(t, errors.IsAssertionFailure(NewSwapchain(dev, testExtent, nil).SetFramesInFlight(0)))
}

func TestSwapchainPreferencesApplied(t *testing.T) {
	dev := newFakeDevice()
	unorm := metadata.SurfaceFormat{Format: metadata.FormatB8G8R8A8Unorm, ColorSpace: metadata.ColorSpaceSrgbNonlinear}
	s := buildSwapchain(t, dev, nil, func(s *Swapchain) {
		require.NoError(t, s.SetRefreshMode(metadata.RefreshModeMailbox))
		require.NoError(t, s.SetWantedSurfaceFormat(unorm))
		require.NoError(t, s.SetFramesInFlight(3))
	})

	assert.Equal(t, metadata.FormatB8G8R8A8Unorm, s.ImageFormat())
	assert.Equal(t, metadata.RefreshModeMailbox, dev.swapchainCreates[0].RefreshMode)
	assert.Equal(t, 6, dev.liveCount("semaphore"))
	assert.Equal(t, 3, dev.liveCount("fence"))
}

func TestSwapchainPreviousReference(t *testing.T) {
	dev := newFakeDevice()
	first := buildSwapchain(t, dev, nil)
	ref := NewSwapchainRef(first)

	second := buildSwapchain(t, dev, ref.Retain())
	require.Len(t, dev.swapchainCreates, 2)
	assert.Equal(t, first.Handle(), dev.swapchainCreates[1].OldSwapchain)
	// The hint was consumed and the borrowed reference given back.
	assert.Equal(t, int32(1), ref.RefCount())
	assert.Equal(t, SWAPCHAIN_STATE_BUILT, first.State())

	ref.Release()
	assert.Equal(t, SWAPCHAIN_STATE_DESTROYED, first.State())
	assert.Equal(t, SWAPCHAIN_STATE_BUILT, second.State())

	second.Destroy()
	assert.Empty(t, dev.live)
	assert.Empty(t, dev.violations)
}

func TestSwapchainFailedBuildReleasesPrevious(t *testing.T) {
	dev := newFakeDevice()
	ref := NewSwapchainRef(buildSwapchain(t, dev, nil))

	dev.failNext["swapchain"] = true
	require.Error(t, NewSwapchain(dev, testExtent, ref.Retain()).Build())
	assert.Equal(t, int32(1), ref.RefCount())

	ref.Release()
	assert.Empty(t, dev.live)
}

func TestCompareFormats(t *testing.T) {
	dev := newFakeDevice()
	a := buildSwapchain(t, dev, nil)
	b := buildSwapchain(t, dev, nil)
	noDepth := buildSwapchain(t, dev, nil, func(s *Swapchain) {
		require.NoError(t, s.SetDepthEnabled(false))
	})
	unorm := buildSwapchain(t, dev, nil, func(s *Swapchain) {
		require.NoError(t, s.SetWantedSurfaceFormat(metadata.SurfaceFormat{Format: metadata.FormatB8G8R8A8Unorm}))
	})

	all := []*Swapchain{a, b, noDepth, unorm}
	for _, s := range all {
		assert.True(t, s.CompareFormats(s))
		for _, o := range all {
			assert.Equal(t, s.CompareFormats(o), o.CompareFormats(s))
		}
	}
	assert.True(t, a.CompareFormats(b))
	assert.False(t, a.CompareFormats(noDepth))
	assert.False(t, a.CompareFormats(unorm))
}

func runSwapchainFrames(t *testing.T, dev *fakeDevice, s *Swapchain, frames int) {
	t.Helper()
	pool := &fakePool{device: dev}
	cbs, err := AllocateCommandBuffers(dev, pool, s.FramesInFlight())
	require.NoError(t, err)

	for i := 0; i < frames; i++ {
		cb := cbs[s.currentFrame]
		imageIndex, res := s.AcquireNextImage()
		require.Equal(t, metadata.ResultSuccess, res)
		cb.Reset()
		require.NoError(t, cb.Begin(false, false, false))
		require.NoError(t, cb.End())
		require.Equal(t, metadata.ResultSuccess, s.SubmitAndPresent(cb, imageIndex))
		assert.Equal(t, COMMAND_BUFFER_STATE_SUBMITTED, cb.State)
	}
	dev.WaitIdle()
	FreeCommandBuffers(pool, cbs)
}

func TestSwapchainFramesInFlightBound(t *testing.T) {
	for n := uint32(1); n <= 4; n++ {
		dev := newFakeDevice()
		s := buildSwapchain(t, dev, nil, func(s *Swapchain) {
			require.NoError(t, s.SetFramesInFlight(n))
		})
		runSwapchainFrames(t, dev, s, 25)

		assert.LessOrEqual(t, dev.maxPending, int(n), "frames in flight %d", n)
		assert.Equal(t, 25, len(dev.presents))
		assert.Empty(t, dev.violations)
		s.Destroy()
		assert.Empty(t, dev.live)
	}
}

func TestSwapchainImageFenceGuard(t *testing.T) {
	dev := newFakeDevice()
	s := buildSwapchain(t, dev, nil)

	// Images come back in no particular order, including the same image twice in a row.
	for _, index := range []uint32{0, 0, 2, 1, 1, 0, 2, 2, 0, 1} {
		dev.acquireScript = append(dev.acquireScript, fakeAcquire{index: index, result: metadata.ResultSuccess})
	}
	runSwapchainFrames(t, dev, s, 10)

	assert.Empty(t, dev.violations)
	assert.LessOrEqual(t, dev.maxPending, 2)
	for i, owner := range s.imagesInFlight {
		require.NotNil(t, owner, "image %d", i)
		assert.True(t, owner == s.frames[0].inFlight || owner == s.frames[1].inFlight)
	}
}

func TestSubmitAndPresentAdvancesFrameOnFailure(t *testing.T) {
	dev := newFakeDevice()
	s := buildSwapchain(t, dev, nil)
	pool := &fakePool{device: dev}
	cbs, err := AllocateCommandBuffers(dev, pool, 1)
	require.NoError(t, err)

	imageIndex, res := s.AcquireNextImage()
	require.Equal(t, metadata.ResultSuccess, res)
	dev.submitResults = []metadata.Result{metadata.ResultErrorDeviceLost}

	assert.Equal(t, metadata.ResultErrorDeviceLost, s.SubmitAndPresent(cbs[0], imageIndex))
	assert.Equal(t, uint32(1), s.currentFrame)
	assert.Empty(t, dev.presents)

	assert.Equal(t, metadata.ResultErrorUnknown, s.SubmitAndPresent(cbs[0], 42))
	assert.Equal(t, uint32(0), s.currentFrame)
}

func TestSwapchainPresentResultReturned(t *testing.T) {
	dev := newFakeDevice()
	s := buildSwapchain(t, dev, nil)
	cbs, err := AllocateCommandBuffers(dev, &fakePool{device: dev}, 1)
	require.NoError(t, err)

	imageIndex, _ := s.AcquireNextImage()
	dev.presentResults = []metadata.Result{metadata.ResultSuboptimal}
	assert.Equal(t, metadata.ResultSuboptimal, s.SubmitAndPresent(cbs[0], imageIndex))

	require.Len(t, dev.presents, 1)
	assert.Equal(t, s.Handle(), dev.presents[0].Swapchain)
	assert.Equal(t, imageIndex, dev.presents[0].ImageIndex)
	assert.Equal(t, []metadata.SemaphoreHandle{s.frames[0].renderFinished}, dev.presents[0].WaitSemaphores)
}

func TestAcquireOnUnbuiltSwapchain(t *testing.T) {
	dev := newFakeDevice()
	s := NewSwapchain(dev, testExtent, nil)
	_, res := s.AcquireNextImage()
	assert.True(t, res.IsFatal())
}

func TestFindDepthFormat(t *testing.T) {
	dev := newFakeDevice()
	dev.formatProps = map[metadata.Format]metadata.FormatProperties{
		metadata.FormatD32Sfloat:      {LinearTilingFeatures: metadata.FormatFeatureDepthStencilAttachment},
		metadata.FormatD24UnormS8Uint: {OptimalTilingFeatures: metadata.FormatFeatureDepthStencilAttachment | metadata.FormatFeatureSampledImage},
	}
	format, err := FindDepthFormat(dev)
	require.NoError(t, err)
	assert.Equal(t, metadata.FormatD24UnormS8Uint, format)

	dev.formatProps = nil
	_, err = FindDepthFormat(dev)
	require.True(t, errors.Is(err, core.ErrNoDepthFormat), "%v", err)
}
