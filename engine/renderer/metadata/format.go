package metadata

import (
	"strings"

	"github.com/cockroachdb/errors"
)

/** @brief Pixel formats understood by the renderer. Backends map them to native values. */
type Format uint32

const (
	FormatUndefined Format = iota
	FormatB8G8R8A8Srgb
	FormatB8G8R8A8Unorm
	FormatR8G8B8A8Srgb
	FormatR8G8B8A8Unorm
	FormatA2B10G10R10Unorm
	FormatR16G16B16A16Sfloat
	FormatD32Sfloat
	FormatD32SfloatS8Uint
	FormatD24UnormS8Uint
)

var formatNames = map[Format]string{
	FormatUndefined:          "undefined",
	FormatB8G8R8A8Srgb:       "b8g8r8a8_srgb",
	FormatB8G8R8A8Unorm:      "b8g8r8a8_unorm",
	FormatR8G8B8A8Srgb:       "r8g8b8a8_srgb",
	FormatR8G8B8A8Unorm:      "r8g8b8a8_unorm",
	FormatA2B10G10R10Unorm:   "a2b10g10r10_unorm",
	FormatR16G16B16A16Sfloat: "r16g16b16a16_sfloat",
	FormatD32Sfloat:          "d32_sfloat",
	FormatD32SfloatS8Uint:    "d32_sfloat_s8_uint",
	FormatD24UnormS8Uint:     "d24_unorm_s8_uint",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

func (f Format) HasDepth() bool {
	return f == FormatD32Sfloat || f.HasStencil()
}

// HasStencil reports whether the depth format carries a stencil component.
func (f Format) HasStencil() bool {
	return f == FormatD32SfloatS8Uint || f == FormatD24UnormS8Uint
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for format, n := range formatNames {
		if n == name {
			*f = format
			return nil
		}
	}
	return errors.Newf("unknown format %q", text)
}

type ColorSpace uint32

const (
	ColorSpaceSrgbNonlinear ColorSpace = iota
	ColorSpaceDisplayP3Nonlinear
	ColorSpaceExtendedSrgbLinear
	ColorSpaceHdr10St2084
)

var colorSpaceNames = map[ColorSpace]string{
	ColorSpaceSrgbNonlinear:      "srgb_nonlinear",
	ColorSpaceDisplayP3Nonlinear: "display_p3_nonlinear",
	ColorSpaceExtendedSrgbLinear: "extended_srgb_linear",
	ColorSpaceHdr10St2084:        "hdr10_st2084",
}

func (c ColorSpace) String() string {
	if name, ok := colorSpaceNames[c]; ok {
		return name
	}
	return "unknown"
}

func (c ColorSpace) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ColorSpace) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for space, n := range colorSpaceNames {
		if n == name {
			*c = space
			return nil
		}
	}
	return errors.Newf("unknown color space %q", text)
}

/** @brief A (format, color space) pair as advertised by a surface. */
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

func (s SurfaceFormat) String() string {
	return s.Format.String() + "/" + s.ColorSpace.String()
}

// DefaultSurfaceFormat is the preferred surface format of a new swapchain.
var DefaultSurfaceFormat = SurfaceFormat{Format: FormatB8G8R8A8Srgb, ColorSpace: ColorSpaceSrgbNonlinear}

type ImageTiling uint8

const (
	ImageTilingOptimal ImageTiling = iota
	ImageTilingLinear
)

type FormatFeatureFlags uint32

const (
	FormatFeatureSampledImage FormatFeatureFlags = 1 << iota
	FormatFeatureColorAttachment
	FormatFeatureDepthStencilAttachment
	FormatFeatureTransferSrc
	FormatFeatureTransferDst
)

/** @brief Features supported by a format for each tiling mode. */
type FormatProperties struct {
	LinearTilingFeatures  FormatFeatureFlags
	OptimalTilingFeatures FormatFeatureFlags
}

// Supports reports whether all of the requested features are available for tiling.
func (p FormatProperties) Supports(tiling ImageTiling, features FormatFeatureFlags) bool {
	switch tiling {
	case ImageTilingLinear:
		return p.LinearTilingFeatures&features == features
	default:
		return p.OptimalTilingFeatures&features == features
	}
}
