package metadata

import (
	"strings"

	"github.com/cockroachdb/errors"
)

/** @brief How presented images are queued for display. */
type RefreshMode uint8

const (
	RefreshModeFifo RefreshMode = iota
	RefreshModeMailbox
	RefreshModeImmediate
	RefreshModeFifoRelaxed
)

var refreshModeNames = map[RefreshMode]string{
	RefreshModeFifo:        "fifo",
	RefreshModeMailbox:     "mailbox",
	RefreshModeImmediate:   "immediate",
	RefreshModeFifoRelaxed: "fifo_relaxed",
}

func (m RefreshMode) String() string {
	if name, ok := refreshModeNames[m]; ok {
		return name
	}
	return "unknown"
}

func (m RefreshMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *RefreshMode) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for mode, n := range refreshModeNames {
		if n == name {
			*m = mode
			return nil
		}
	}
	return errors.Newf("unknown refresh mode %q", text)
}

/** @brief Surface limits relevant to swapchain creation. */
type SurfaceCapabilities struct {
	MinImageCount  uint32
	MaxImageCount  uint32 // 0 means no upper bound
	CurrentExtent  Extent2D
	MinImageExtent Extent2D
	MaxImageExtent Extent2D
}

/** @brief Everything a surface reports about what it can present. */
type SwapchainSupport struct {
	Capabilities SurfaceCapabilities
	Formats      []SurfaceFormat
	RefreshModes []RefreshMode
}

type QueueRole uint8

const (
	QueueGraphics QueueRole = iota
	QueuePresent
	QueueCompute
	QueueTransfer
)

func (q QueueRole) String() string {
	switch q {
	case QueueGraphics:
		return "graphics"
	case QueuePresent:
		return "present"
	case QueueCompute:
		return "compute"
	case QueueTransfer:
		return "transfer"
	}
	return "unknown"
}
