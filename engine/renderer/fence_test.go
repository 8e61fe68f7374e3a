package renderer

import (
	"testing"

	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFenceSignaledShadow(t *testing.T) {
	dev := newFakeDevice()
	fence, err := NewFence(dev, true)
	require.NoError(t, err)
	assert.True(t, fence.IsSignaled)

	// Known signaled: no device round trip.
	assert.Equal(t, metadata.ResultSuccess, fence.Wait(metadata.TimeoutInfinite))
	assert.Zero(t, dev.fenceWaits)

	assert.Equal(t, metadata.ResultSuccess, fence.Reset())
	assert.False(t, fence.IsSignaled)
	assert.False(t, dev.fences[fence.Handle].signaled)

	require.Equal(t, metadata.ResultSuccess, dev.QueueSubmit(metadata.QueueGraphics, &metadata.SubmitInfo{}, fence.Handle))
	assert.Equal(t, metadata.ResultSuccess, fence.Wait(metadata.TimeoutInfinite))
	assert.Equal(t, 1, dev.fenceWaits)
	assert.True(t, fence.IsSignaled)

	fence.Destroy()
	assert.Zero(t, fence.Handle)
	assert.Empty(t, dev.live)
	assert.Empty(t, dev.violations)
}

func TestFenceCreateFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.failNext["fence"] = true
	_, err := NewFence(dev, false)
	require.Error(t, err)
}
