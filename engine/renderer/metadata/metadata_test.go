package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultClassification(t *testing.T) {
	tests := []struct {
		result  Result
		success bool
		rebuild bool
		fatal   bool
	}{
		{ResultSuccess, true, false, false},
		{ResultSuboptimal, true, true, false},
		{ResultErrorOutOfDate, false, true, false},
		{ResultTimeout, false, false, true},
		{ResultErrorDeviceLost, false, false, true},
		{ResultErrorSurfaceLost, false, false, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.success, tt.result.IsSuccess(), tt.result.String())
		assert.Equal(t, tt.rebuild, tt.result.NeedsRebuild(), tt.result.String())
		assert.Equal(t, tt.fatal, tt.result.IsFatal(), tt.result.String())
		if tt.success {
			assert.NoError(t, tt.result.Err())
		} else {
			require.Error(t, tt.result.Err())
			assert.Contains(t, tt.result.Err().Error(), tt.result.String())
		}
	}
	assert.Equal(t, "result(99)", Result(99).String())
}

func TestEnumTextRoundTrip(t *testing.T) {
	var format Format
	require.NoError(t, format.UnmarshalText([]byte("B8G8R8A8_UNORM")))
	assert.Equal(t, FormatB8G8R8A8Unorm, format)
	assert.Error(t, format.UnmarshalText([]byte("rgb565")))

	var space ColorSpace
	require.NoError(t, space.UnmarshalText([]byte("display_p3_nonlinear")))
	assert.Equal(t, ColorSpaceDisplayP3Nonlinear, space)

	var mode RefreshMode
	require.NoError(t, mode.UnmarshalText([]byte("mailbox")))
	assert.Equal(t, RefreshModeMailbox, mode)
	text, err := RefreshModeFifoRelaxed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "fifo_relaxed", string(text))
	assert.Error(t, mode.UnmarshalText([]byte("vsync")))
}

func TestFormatProperties(t *testing.T) {
	props := FormatProperties{
		OptimalTilingFeatures: FormatFeatureDepthStencilAttachment | FormatFeatureSampledImage,
	}
	assert.True(t, props.Supports(ImageTilingOptimal, FormatFeatureDepthStencilAttachment))
	assert.False(t, props.Supports(ImageTilingLinear, FormatFeatureDepthStencilAttachment))
	assert.False(t, props.Supports(ImageTilingOptimal, FormatFeatureDepthStencilAttachment|FormatFeatureColorAttachment))

	assert.True(t, FormatD24UnormS8Uint.HasStencil())
	assert.False(t, FormatD32Sfloat.HasStencil())
}

func TestExtentHelpers(t *testing.T) {
	assert.True(t, Extent2D{Width: 0, Height: 10}.IsZero())
	assert.False(t, Extent2D{Width: 1, Height: 1}.IsZero())
	assert.True(t, Extent2D{Width: UndefinedExtent, Height: UndefinedExtent}.IsUndefined())

	vp := ViewportFromExtent(Extent2D{Width: 800, Height: 600})
	assert.Equal(t, Viewport{Width: 800, Height: 600, MinDepth: 0, MaxDepth: 1}, vp)
}
