package renderer

import (
	"testing"

	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandBufferStateMachine(t *testing.T) {
	dev := newFakeDevice()
	pool := &fakePool{device: dev}
	cbs, err := AllocateCommandBuffers(dev, pool, 2)
	require.NoError(t, err)
	require.Len(t, cbs, 2)
	cb := cbs[0]
	assert.Equal(t, COMMAND_BUFFER_STATE_READY, cb.State)

	err = cb.End()
	assert.True(t, errors.IsAssertionFailure(err), "%v", err)

	require.NoError(t, cb.Begin(false, true, true))
	assert.Equal(t, COMMAND_BUFFER_STATE_RECORDING, cb.State)
	assert.Equal(t, metadata.CommandBufferUsageRenderPassContinue|metadata.CommandBufferUsageSimultaneousUse, dev.beginUsages[0])

	err = cb.Begin(false, false, false)
	assert.True(t, errors.IsAssertionFailure(err), "%v", err)

	require.NoError(t, cb.End())
	assert.Equal(t, COMMAND_BUFFER_STATE_RECORDING_ENDED, cb.State)
	cb.UpdateSubmitted()
	assert.Equal(t, COMMAND_BUFFER_STATE_SUBMITTED, cb.State)
	cb.Reset()
	assert.Equal(t, COMMAND_BUFFER_STATE_READY, cb.State)

	FreeCommandBuffers(pool, cbs)
	for _, cb := range cbs {
		assert.Equal(t, COMMAND_BUFFER_STATE_NOT_ALLOCATED, cb.State)
	}
	assert.Empty(t, dev.live)

	// Freeing twice is a no-op.
	FreeCommandBuffers(pool, cbs)
	assert.Empty(t, dev.violations)
}

func TestSubmitSingleUse(t *testing.T) {
	dev := newFakeDevice()
	pool := &fakePool{device: dev}

	var recorded *CommandBuffer
	err := SubmitSingleUse(dev, pool, metadata.QueueTransfer, func(cb *CommandBuffer) error {
		recorded = cb
		assert.Equal(t, COMMAND_BUFFER_STATE_RECORDING, cb.State)
		return nil
	})
	require.NoError(t, err)

	require.NotNil(t, recorded)
	assert.Equal(t, COMMAND_BUFFER_STATE_NOT_ALLOCATED, recorded.State)
	assert.Equal(t, metadata.CommandBufferUsageOneTimeSubmit, dev.beginUsages[0])
	assert.Equal(t, 1, dev.submits[metadata.QueueTransfer])
	assert.Equal(t, 1, dev.queueIdles)
	assert.Empty(t, dev.live)
}

func TestSubmitSingleUseFailures(t *testing.T) {
	t.Run("record", func(t *testing.T) {
		dev := newFakeDevice()
		pool := &fakePool{device: dev}
		err := SubmitSingleUse(dev, pool, metadata.QueueGraphics, func(cb *CommandBuffer) error {
			return errors.New("boom")
		})
		require.Error(t, err)
		assert.Zero(t, dev.submits[metadata.QueueGraphics])
		assert.Empty(t, dev.live)
	})

	t.Run("submit", func(t *testing.T) {
		dev := newFakeDevice()
		pool := &fakePool{device: dev}
		dev.submitResults = []metadata.Result{metadata.ResultErrorOutOfDeviceMemory}
		err := SubmitSingleUse(dev, pool, metadata.QueueGraphics, func(cb *CommandBuffer) error { return nil })

		var resultErr *metadata.ResultError
		require.True(t, errors.As(err, &resultErr), "%v", err)
		assert.Equal(t, metadata.ResultErrorOutOfDeviceMemory, resultErr.Result)
		assert.Zero(t, dev.queueIdles)
		assert.Empty(t, dev.live)
	})

	t.Run("allocate", func(t *testing.T) {
		dev := newFakeDevice()
		dev.failNext["commandbuffer"] = true
		_, err := BeginSingleUse(dev, &fakePool{device: dev})
		require.Error(t, err)
	})
}
