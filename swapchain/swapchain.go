// Package swapchain implements swapchains: a fixed ring of native images
// and the acquire/wait/release rotation the application drives over them.
package swapchain

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
	"github.com/davidrios/openxr-device-simulator/render"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// DefaultImageCount is the ring size of a non-static swapchain.
const DefaultImageCount = 3

// MaxImageSize bounds the width and height of a swapchain image.
const MaxImageSize = 1024

// CreateInfo describes a swapchain.
type CreateInfo struct {
	CreateFlags CreateFlags
	UsageFlags  UsageFlags
	Format      gputypes.TextureFormat
	SampleCount uint32
	Width       uint32
	Height      uint32
	FaceCount   uint32
	ArraySize   uint32
	MipCount    uint32
}

func (info *CreateInfo) validate() error {
	if _, ok := lookupFormat(info.Format); !ok {
		return xr.Errorf(xr.ErrorSwapchainFormatUnsupported, "", "format %s", info.Format)
	}
	if info.Width == 0 || info.Height == 0 || info.Width > MaxImageSize || info.Height > MaxImageSize {
		return xr.Errorf(xr.ErrorValidationFailure, "", "size %dx%d", info.Width, info.Height)
	}
	if info.FaceCount != 1 && info.FaceCount != 6 {
		return xr.Errorf(xr.ErrorValidationFailure, "", "face count %d", info.FaceCount)
	}
	if info.ArraySize == 0 || info.MipCount == 0 || info.SampleCount == 0 {
		return xr.Errorf(xr.ErrorValidationFailure, "", "array size %d, mip count %d, sample count %d",
			info.ArraySize, info.MipCount, info.SampleCount)
	}
	if info.SampleCount > 1 {
		return xr.Errorf(xr.ErrorFeatureUnsupported, "", "sample count %d", info.SampleCount)
	}
	if info.CreateFlags&CreateProtectedContent != 0 {
		return xr.Errorf(xr.ErrorFeatureUnsupported, "", "protected content")
	}
	return nil
}

// Swapchain owns its images and their rotation. It is not safe for
// concurrent use; the runtime serializes access through its handle table.
type Swapchain struct {
	id      xr.Swapchain
	session xr.Session
	info    CreateInfo
	alloc   render.Allocator
	images  []*render.Image
	rot     *Rotation
}

// New validates info and allocates every image up front. Nothing is
// allocated when validation fails, and a partial allocation is undone.
func New(id xr.Swapchain, session xr.Session, alloc render.Allocator, info CreateInfo, ringSize int) (*Swapchain, error) {
	if err := info.validate(); err != nil {
		return nil, err
	}
	if alloc == nil {
		return nil, xr.Errorf(xr.ErrorGraphicsDeviceInvalid, "", "session has no graphics device")
	}
	fi, _ := lookupFormat(info.Format)

	n := ringSize
	if n <= 0 {
		n = DefaultImageCount
	}
	if info.CreateFlags&CreateStaticImage != 0 {
		n = 1
	}

	sc := &Swapchain{id: id, session: session, info: info, alloc: alloc}
	layers := info.ArraySize * info.FaceCount
	for i := 0; i < n; i++ {
		img, err := alloc.AllocateImage(render.ImageDescriptor{
			Label:         fmt.Sprintf("swapchain %d image %d", id, i),
			Format:        info.Format,
			Usage:         info.UsageFlags.TextureUsage(),
			Width:         info.Width,
			Height:        info.Height,
			ArrayLayers:   layers,
			MipLevelCount: info.MipCount,
			SampleCount:   info.SampleCount,
			BytesPerPixel: fi.bytesPerPixel,
		})
		if err != nil {
			sc.Destroy()
			return nil, &xr.Error{Code: xr.ErrorRuntimeFailure, Err: fmt.Errorf("swapchain %d image %d: %w", id, i, err)}
		}
		sc.images = append(sc.images, img)
	}
	sc.rot = NewRotation(uint32(n))

	xrlog.Logger().Debug("swapchain: created",
		"swapchain", uint64(id), "format", info.Format.String(), "images", n,
		"width", info.Width, "height", info.Height)
	return sc, nil
}

// ID returns the swapchain handle.
func (s *Swapchain) ID() xr.Swapchain { return s.id }

// Session returns the owning session.
func (s *Swapchain) Session() xr.Session { return s.session }

// Info returns the creation parameters.
func (s *Swapchain) Info() CreateInfo { return s.info }

// Images returns the native images in index order.
func (s *Swapchain) Images() []*render.Image { return s.images }

// Image returns the image at index i.
func (s *Swapchain) Image(i uint32) (*render.Image, error) {
	if int(i) >= len(s.images) {
		return nil, xr.Errorf(xr.ErrorIndexOutOfRange, "", "image %d of %d", i, len(s.images))
	}
	return s.images[i], nil
}

// Acquire hands the next available image to the application.
func (s *Swapchain) Acquire() (uint32, error) { return s.rot.Acquire() }

// Wait blocks until the oldest acquired image may be written. Simulated
// images are ready as soon as they are acquired, so any timeout succeeds.
func (s *Swapchain) Wait(timeout xr.Duration) (uint32, error) {
	return s.rot.Wait()
}

// Release returns the oldest waited image to the compositor.
func (s *Swapchain) Release() (uint32, error) { return s.rot.Release() }

// Recycle makes released images available again, as a compositor does after
// presenting them.
func (s *Swapchain) Recycle() int { return s.rot.Recycle() }

// Rotation returns a snapshot of the image lists.
func (s *Swapchain) Rotation() RotationState { return s.rot.Snapshot() }

// Destroy frees every image exactly once.
func (s *Swapchain) Destroy() {
	for _, img := range s.images {
		s.alloc.FreeImage(img)
	}
	if len(s.images) > 0 {
		xrlog.Logger().Debug("swapchain: destroyed", "swapchain", uint64(s.id), "images", len(s.images))
	}
	s.images = nil
}
