package renderer

import (
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	"github.com/cockroachdb/errors"
)

// Depth formats in order of preference.
var depthFormatCandidates = []metadata.Format{
	metadata.FormatD32Sfloat,
	metadata.FormatD32SfloatS8Uint,
	metadata.FormatD24UnormS8Uint,
}

// FindSupportedFormat returns the first candidate supporting features with the given tiling.
func FindSupportedFormat(device Device, candidates []metadata.Format, tiling metadata.ImageTiling, features metadata.FormatFeatureFlags) (metadata.Format, bool) {
	for _, format := range candidates {
		if device.FormatProperties(format).Supports(tiling, features) {
			return format, true
		}
	}
	return metadata.FormatUndefined, false
}

func FindDepthFormat(device Device) (metadata.Format, error) {
	format, ok := FindSupportedFormat(device, depthFormatCandidates, metadata.ImageTilingOptimal, metadata.FormatFeatureDepthStencilAttachment)
	if !ok {
		err := errors.WithStack(core.ErrNoDepthFormat)
		core.LogError(err.Error())
		return metadata.FormatUndefined, err
	}
	return format, nil
}
