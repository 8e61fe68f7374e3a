package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwapchainRefLastReleaseDestroys(t *testing.T) {
	dev := newFakeDevice()
	ref := NewSwapchainRef(buildSwapchain(t, dev, nil))
	assert.Equal(t, int32(1), ref.RefCount())

	assert.Same(t, ref, ref.Retain())
	ref.Retain()
	assert.Equal(t, int32(3), ref.RefCount())

	ref.Release()
	ref.Release()
	assert.Equal(t, SWAPCHAIN_STATE_BUILT, ref.Swapchain().State())

	ref.Release()
	assert.Equal(t, SWAPCHAIN_STATE_DESTROYED, ref.Swapchain().State())
	assert.Empty(t, dev.live)

	// Over-release is reported, not a double destroy.
	ref.Release()
	assert.Empty(t, dev.violations)
}
