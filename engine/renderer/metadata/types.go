package metadata

import "math"

/** @brief Sentinel reported by a surface whose extent is decided by the swapchain. */
const UndefinedExtent uint32 = math.MaxUint32

/** @brief Timeout value meaning "wait forever" for fences and image acquisition. */
const TimeoutInfinite uint64 = math.MaxUint64

/** @brief A two-dimensional size in pixels. */
type Extent2D struct {
	Width  uint32
	Height uint32
}

// IsZero reports whether either dimension is zero, as with a minimized window.
func (e Extent2D) IsZero() bool {
	return e.Width == 0 || e.Height == 0
}

// IsUndefined reports whether the extent is the "decided by the swapchain" sentinel.
func (e Extent2D) IsUndefined() bool {
	return e.Width == UndefinedExtent
}

type Offset2D struct {
	X int32
	Y int32
}

type Rect2D struct {
	Offset Offset2D
	Extent Extent2D
}

type Viewport struct {
	X        float32
	Y        float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

// ViewportFromExtent returns a full-surface viewport with a [0,1] depth range.
func ViewportFromExtent(extent Extent2D) Viewport {
	return Viewport{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
}

// ScissorFromExtent returns a scissor covering the full extent.
func ScissorFromExtent(extent Extent2D) Rect2D {
	return Rect2D{Extent: extent}
}

/** @brief RGBA clear color in linear floating point. */
type ClearColor [4]float32

type ClearDepthStencil struct {
	Depth   float32
	Stencil uint32
}
