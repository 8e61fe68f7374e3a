package metadata

type ImageUsageFlags uint32

const (
	ImageUsageTransferSrc ImageUsageFlags = 1 << iota
	ImageUsageTransferDst
	ImageUsageSampled
	ImageUsageColorAttachment
	ImageUsageDepthStencilAttachment
)

type ImageAspectFlags uint32

const (
	ImageAspectColor ImageAspectFlags = 1 << iota
	ImageAspectDepth
	ImageAspectStencil
)

type MemoryPropertyFlags uint32

const (
	MemoryPropertyDeviceLocal MemoryPropertyFlags = 1 << iota
	MemoryPropertyHostVisible
	MemoryPropertyHostCoherent
)

type CommandBufferUsageFlags uint32

const (
	CommandBufferUsageOneTimeSubmit CommandBufferUsageFlags = 1 << iota
	CommandBufferUsageRenderPassContinue
	CommandBufferUsageSimultaneousUse
)

type PipelineStageFlags uint32

const (
	PipelineStageTopOfPipe PipelineStageFlags = 1 << iota
	PipelineStageEarlyFragmentTests
	PipelineStageColorAttachmentOutput
	PipelineStageBottomOfPipe
)

type AccessFlags uint32

const (
	AccessColorAttachmentWrite AccessFlags = 1 << iota
	AccessDepthStencilAttachmentWrite
)

type ImageLayout uint8

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutColorAttachmentOptimal
	ImageLayoutDepthStencilAttachmentOptimal
	ImageLayoutPresentSrc
)

type AttachmentLoadOp uint8

const (
	AttachmentLoadOpClear AttachmentLoadOp = iota
	AttachmentLoadOpLoad
	AttachmentLoadOpDontCare
)

type AttachmentStoreOp uint8

const (
	AttachmentStoreOpStore AttachmentStoreOp = iota
	AttachmentStoreOpDontCare
)

/** @brief Parameters for creating a native swapchain. */
type SwapchainCreateInfo struct {
	MinImageCount uint32
	SurfaceFormat SurfaceFormat
	Extent        Extent2D
	RefreshMode   RefreshMode
	// Reuse hint; may be NullHandle.
	OldSwapchain SwapchainHandle
}

/** @brief A 2D image bound to freshly allocated memory. */
type ImageCreateInfo struct {
	Extent          Extent2D
	Format          Format
	Tiling          ImageTiling
	Usage           ImageUsageFlags
	MemoryFlags     MemoryPropertyFlags
	ViewAspectFlags ImageAspectFlags
}

type ImageViewCreateInfo struct {
	Image       ImageHandle
	Format      Format
	AspectFlags ImageAspectFlags
}

type AttachmentDescription struct {
	Format         Format
	LoadOp         AttachmentLoadOp
	StoreOp        AttachmentStoreOp
	StencilLoadOp  AttachmentLoadOp
	StencilStoreOp AttachmentStoreOp
	InitialLayout  ImageLayout
	FinalLayout    ImageLayout
}

type SubpassDependency struct {
	SrcExternal   bool
	DstSubpass    uint32
	SrcStageMask  PipelineStageFlags
	SrcAccessMask AccessFlags
	DstStageMask  PipelineStageFlags
	DstAccessMask AccessFlags
}

/** @brief Single-subpass render pass with a color and an optional depth attachment. */
type RenderPassCreateInfo struct {
	Color      AttachmentDescription
	Depth      *AttachmentDescription
	Dependency SubpassDependency
}

type FramebufferCreateInfo struct {
	RenderPass  RenderPassHandle
	Attachments []ImageViewHandle
	Extent      Extent2D
}

type RenderPassBeginInfo struct {
	RenderPass  RenderPassHandle
	Framebuffer FramebufferHandle
	RenderArea  Rect2D
	ClearColor  ClearColor
	ClearDepth  ClearDepthStencil
	HasDepth    bool
}

type SubmitInfo struct {
	CommandBuffers   []CommandBufferHandle
	WaitSemaphores   []SemaphoreHandle
	WaitStages       []PipelineStageFlags
	SignalSemaphores []SemaphoreHandle
}

type PresentInfo struct {
	WaitSemaphores []SemaphoreHandle
	Swapchain      SwapchainHandle
	ImageIndex     uint32
}
