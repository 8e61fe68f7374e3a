package core

import (
	"github.com/cockroachdb/errors"
)

var (
	ErrNoSurfaceFormats        = errors.New("surface reports no supported formats")
	ErrNoPresentModes          = errors.New("surface reports no supported present modes")
	ErrNoDepthFormat           = errors.New("no supported depth format found")
	ErrSwapchainFormatChanged  = errors.New("swapchain image or depth format has changed")
	ErrSwapchainCreate         = errors.New("failed to create swapchain")
	ErrCommandBufferRecording  = errors.New("failed to record command buffer")
	ErrMemoryAllocation        = errors.New("failed to allocate device memory")
	ErrDeviceWaitIdle          = errors.New("device wait idle failed")
	ErrSynchronizationCreation = errors.New("failed to create synchronization objects for a frame")
)
