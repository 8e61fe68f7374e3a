package vulkan

import (
	"github.com/Aalexdev/vk-engine/engine/renderer/metadata"
	vk "github.com/goki/vulkan"
)

var formats = map[metadata.Format]vk.Format{
	metadata.FormatUndefined:          vk.FormatUndefined,
	metadata.FormatB8G8R8A8Srgb:       vk.FormatB8g8r8a8Srgb,
	metadata.FormatB8G8R8A8Unorm:      vk.FormatB8g8r8a8Unorm,
	metadata.FormatR8G8B8A8Srgb:       vk.FormatR8g8b8a8Srgb,
	metadata.FormatR8G8B8A8Unorm:      vk.FormatR8g8b8a8Unorm,
	metadata.FormatA2B10G10R10Unorm:   vk.FormatA2b10g10r10UnormPack32,
	metadata.FormatR16G16B16A16Sfloat: vk.FormatR16g16b16a16Sfloat,
	metadata.FormatD32Sfloat:          vk.FormatD32Sfloat,
	metadata.FormatD32SfloatS8Uint:    vk.FormatD32SfloatS8Uint,
	metadata.FormatD24UnormS8Uint:     vk.FormatD24UnormS8Uint,
}

var colorSpaces = map[metadata.ColorSpace]vk.ColorSpace{
	metadata.ColorSpaceSrgbNonlinear:      vk.ColorSpaceSrgbNonlinear,
	metadata.ColorSpaceDisplayP3Nonlinear: vk.ColorSpaceDisplayP3Nonlinear,
	metadata.ColorSpaceExtendedSrgbLinear: vk.ColorSpaceExtendedSrgbLinear,
	metadata.ColorSpaceHdr10St2084:        vk.ColorSpaceHdr10St2084,
}

var presentModes = map[metadata.RefreshMode]vk.PresentMode{
	metadata.RefreshModeFifo:        vk.PresentModeFifo,
	metadata.RefreshModeMailbox:     vk.PresentModeMailbox,
	metadata.RefreshModeImmediate:   vk.PresentModeImmediate,
	metadata.RefreshModeFifoRelaxed: vk.PresentModeFifoRelaxed,
}

var imageLayouts = map[metadata.ImageLayout]vk.ImageLayout{
	metadata.ImageLayoutUndefined:                     vk.ImageLayoutUndefined,
	metadata.ImageLayoutColorAttachmentOptimal:        vk.ImageLayoutColorAttachmentOptimal,
	metadata.ImageLayoutDepthStencilAttachmentOptimal: vk.ImageLayoutDepthStencilAttachmentOptimal,
	metadata.ImageLayoutPresentSrc:                    vk.ImageLayoutPresentSrc,
}

var loadOps = map[metadata.AttachmentLoadOp]vk.AttachmentLoadOp{
	metadata.AttachmentLoadOpClear:    vk.AttachmentLoadOpClear,
	metadata.AttachmentLoadOpLoad:     vk.AttachmentLoadOpLoad,
	metadata.AttachmentLoadOpDontCare: vk.AttachmentLoadOpDontCare,
}

var storeOps = map[metadata.AttachmentStoreOp]vk.AttachmentStoreOp{
	metadata.AttachmentStoreOpStore:    vk.AttachmentStoreOpStore,
	metadata.AttachmentStoreOpDontCare: vk.AttachmentStoreOpDontCare,
}

var tilings = map[metadata.ImageTiling]vk.ImageTiling{
	metadata.ImageTilingOptimal: vk.ImageTilingOptimal,
	metadata.ImageTilingLinear:  vk.ImageTilingLinear,
}

// Reverse lookups for values reported by the driver.
var (
	formatsFromVk      = invert(formats)
	colorSpacesFromVk  = invert(colorSpaces)
	presentModesFromVk = invert(presentModes)
)

func invert[K, V comparable](m map[K]V) map[V]K {
	out := make(map[V]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

type flagPair[F ~uint32] struct {
	flag F
	bit  uint32
}

func toVkFlags[F ~uint32](flags F, table []flagPair[F]) uint32 {
	var out uint32
	for _, p := range table {
		if flags&p.flag != 0 {
			out |= p.bit
		}
	}
	return out
}

func fromVkFlags[F ~uint32](bits uint32, table []flagPair[F]) F {
	var out F
	for _, p := range table {
		if bits&p.bit != 0 {
			out |= p.flag
		}
	}
	return out
}

var imageUsageBits = []flagPair[metadata.ImageUsageFlags]{
	{metadata.ImageUsageTransferSrc, uint32(vk.ImageUsageTransferSrcBit)},
	{metadata.ImageUsageTransferDst, uint32(vk.ImageUsageTransferDstBit)},
	{metadata.ImageUsageSampled, uint32(vk.ImageUsageSampledBit)},
	{metadata.ImageUsageColorAttachment, uint32(vk.ImageUsageColorAttachmentBit)},
	{metadata.ImageUsageDepthStencilAttachment, uint32(vk.ImageUsageDepthStencilAttachmentBit)},
}

var imageAspectBits = []flagPair[metadata.ImageAspectFlags]{
	{metadata.ImageAspectColor, uint32(vk.ImageAspectColorBit)},
	{metadata.ImageAspectDepth, uint32(vk.ImageAspectDepthBit)},
	{metadata.ImageAspectStencil, uint32(vk.ImageAspectStencilBit)},
}

var memoryPropertyBits = []flagPair[metadata.MemoryPropertyFlags]{
	{metadata.MemoryPropertyDeviceLocal, uint32(vk.MemoryPropertyDeviceLocalBit)},
	{metadata.MemoryPropertyHostVisible, uint32(vk.MemoryPropertyHostVisibleBit)},
	{metadata.MemoryPropertyHostCoherent, uint32(vk.MemoryPropertyHostCoherentBit)},
}

var commandBufferUsageBits = []flagPair[metadata.CommandBufferUsageFlags]{
	{metadata.CommandBufferUsageOneTimeSubmit, uint32(vk.CommandBufferUsageOneTimeSubmitBit)},
	{metadata.CommandBufferUsageRenderPassContinue, uint32(vk.CommandBufferUsageRenderPassContinueBit)},
	{metadata.CommandBufferUsageSimultaneousUse, uint32(vk.CommandBufferUsageSimultaneousUseBit)},
}

var pipelineStageBits = []flagPair[metadata.PipelineStageFlags]{
	{metadata.PipelineStageTopOfPipe, uint32(vk.PipelineStageTopOfPipeBit)},
	{metadata.PipelineStageEarlyFragmentTests, uint32(vk.PipelineStageEarlyFragmentTestsBit)},
	{metadata.PipelineStageColorAttachmentOutput, uint32(vk.PipelineStageColorAttachmentOutputBit)},
	{metadata.PipelineStageBottomOfPipe, uint32(vk.PipelineStageBottomOfPipeBit)},
}

var accessBits = []flagPair[metadata.AccessFlags]{
	{metadata.AccessColorAttachmentWrite, uint32(vk.AccessColorAttachmentWriteBit)},
	{metadata.AccessDepthStencilAttachmentWrite, uint32(vk.AccessDepthStencilAttachmentWriteBit)},
}

var formatFeatureBits = []flagPair[metadata.FormatFeatureFlags]{
	{metadata.FormatFeatureSampledImage, uint32(vk.FormatFeatureSampledImageBit)},
	{metadata.FormatFeatureColorAttachment, uint32(vk.FormatFeatureColorAttachmentBit)},
	{metadata.FormatFeatureDepthStencilAttachment, uint32(vk.FormatFeatureDepthStencilAttachmentBit)},
	{metadata.FormatFeatureTransferSrc, uint32(vk.FormatFeatureTransferSrcBit)},
	{metadata.FormatFeatureTransferDst, uint32(vk.FormatFeatureTransferDstBit)},
}

func toVkExtent(e metadata.Extent2D) vk.Extent2D {
	return vk.Extent2D{Width: e.Width, Height: e.Height}
}

func fromVkExtent(e vk.Extent2D) metadata.Extent2D {
	e.Deref()
	return metadata.Extent2D{Width: e.Width, Height: e.Height}
}

func toVkRect(r metadata.Rect2D) vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: r.Offset.X, Y: r.Offset.Y},
		Extent: toVkExtent(r.Extent),
	}
}
