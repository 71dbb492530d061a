package swapchain

import "github.com/gogpu/gputypes"

// formatInfo is one entry of the supported format table.
type formatInfo struct {
	format        gputypes.TextureFormat
	bytesPerPixel uint32
}

// Preferred formats come first; runtimes list them in order of preference.
var supportedFormats = []formatInfo{
	{gputypes.TextureFormatRGBA8UnormSrgb, 4},
	{gputypes.TextureFormatBGRA8UnormSrgb, 4},
	{gputypes.TextureFormatRGBA8Unorm, 4},
	{gputypes.TextureFormatBGRA8Unorm, 4},
	{gputypes.TextureFormatRGBA8Snorm, 4},
	{gputypes.TextureFormatRGBA8Uint, 4},
	{gputypes.TextureFormatRGBA8Sint, 4},
	{gputypes.TextureFormatRGB10A2Unorm, 4},
	{gputypes.TextureFormatRGBA16Float, 8},
	{gputypes.TextureFormatDepth32Float, 4},
}

// Formats returns the supported swapchain formats.
func Formats() []gputypes.TextureFormat {
	out := make([]gputypes.TextureFormat, len(supportedFormats))
	for i, f := range supportedFormats {
		out[i] = f.format
	}
	return out
}

func lookupFormat(f gputypes.TextureFormat) (formatInfo, bool) {
	for _, info := range supportedFormats {
		if info.format == f {
			return info, true
		}
	}
	return formatInfo{}, false
}

// IsSupported reports whether f can back a swapchain.
func IsSupported(f gputypes.TextureFormat) bool {
	_, ok := lookupFormat(f)
	return ok
}

// UsageFlags request how swapchain images will be used.
type UsageFlags uint64

const (
	UsageColorAttachment        UsageFlags = 1 << 0
	UsageDepthStencilAttachment UsageFlags = 1 << 1
	UsageUnorderedAccess        UsageFlags = 1 << 2
	UsageTransferSrc            UsageFlags = 1 << 3
	UsageTransferDst            UsageFlags = 1 << 4
	UsageSampled                UsageFlags = 1 << 5
	UsageMutableFormat          UsageFlags = 1 << 6
	UsageInputAttachment        UsageFlags = 1 << 7
)

var usageMap = []struct {
	flag  UsageFlags
	usage gputypes.TextureUsage
}{
	{UsageColorAttachment, gputypes.TextureUsageRenderAttachment},
	{UsageDepthStencilAttachment, gputypes.TextureUsageRenderAttachment},
	{UsageUnorderedAccess, gputypes.TextureUsageStorageBinding},
	{UsageTransferSrc, gputypes.TextureUsageCopySrc},
	{UsageTransferDst, gputypes.TextureUsageCopyDst},
	{UsageSampled, gputypes.TextureUsageTextureBinding},
	{UsageInputAttachment, gputypes.TextureUsageTextureBinding},
}

// TextureUsage converts swapchain usage flags to texture usage. The result
// always allows copying out, which the mirror relies on.
func (f UsageFlags) TextureUsage() gputypes.TextureUsage {
	u := gputypes.TextureUsageCopySrc
	for _, m := range usageMap {
		if f&m.flag != 0 {
			u |= m.usage
		}
	}
	return u
}

// CreateFlags modify swapchain creation.
type CreateFlags uint64

const (
	CreateProtectedContent CreateFlags = 1 << 0
	CreateStaticImage      CreateFlags = 1 << 1
)
