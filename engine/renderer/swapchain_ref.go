package renderer

import (
	"sync/atomic"

	"github.com/Aalexdev/vk-engine/engine/core"
)

/**
 * @brief Shared ownership of a swapchain. The swapchain is destroyed when the
 * last owner calls Release.
 */
type SwapchainRef struct {
	swapchain *Swapchain
	refs      atomic.Int32
}

// NewSwapchainRef wraps swapchain with a single owner: the caller.
func NewSwapchainRef(swapchain *Swapchain) *SwapchainRef {
	ref := &SwapchainRef{swapchain: swapchain}
	ref.refs.Store(1)
	return ref
}

// Retain adds an owner and returns the same reference for convenience.
func (r *SwapchainRef) Retain() *SwapchainRef {
	r.refs.Add(1)
	return r
}

func (r *SwapchainRef) Release() {
	switch refs := r.refs.Add(-1); {
	case refs == 0:
		r.swapchain.Destroy()
	case refs < 0:
		core.LogError("swapchain %s released more times than retained", r.swapchain.ID())
	}
}

func (r *SwapchainRef) Swapchain() *Swapchain {
	return r.swapchain
}

func (r *SwapchainRef) RefCount() int32 {
	return r.refs.Load()
}
