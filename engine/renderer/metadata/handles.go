package metadata

/**
 * @brief Opaque identifiers for device objects. A zero value is the null handle.
 * Backends own the mapping from these to native objects.
 */
type Handle uint64

// NullHandle is untyped so it compares against every handle kind.
const NullHandle = 0

type (
	SwapchainHandle     Handle
	ImageHandle         Handle
	MemoryHandle        Handle
	ImageViewHandle     Handle
	RenderPassHandle    Handle
	FramebufferHandle   Handle
	SemaphoreHandle     Handle
	FenceHandle         Handle
	CommandBufferHandle Handle
)
