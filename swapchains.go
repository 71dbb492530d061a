package xrsim

import (
	"errors"

	"github.com/gogpu/gputypes"

	"github.com/davidrios/openxr-device-simulator/internal/registry"
	"github.com/davidrios/openxr-device-simulator/internal/twocall"
	"github.com/davidrios/openxr-device-simulator/render"
	"github.com/davidrios/openxr-device-simulator/swapchain"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// EnumerateSwapchainFormats lists the formats swapchains of s can use, most
// preferred first.
func (r *Runtime) EnumerateSwapchainFormats(s xr.Session, capacity uint32, out []gputypes.TextureFormat) (uint32, error) {
	return withSession(r, s, func(*sessionEntry) (uint32, error) {
		return twocall.Fill(swapchain.Formats(), capacity, out)
	})
}

// CreateSwapchain allocates a swapchain on the device of s and attaches it
// to the session, which may make the session Ready.
func (r *Runtime) CreateSwapchain(s xr.Session, info swapchain.CreateInfo) (xr.Swapchain, error) {
	return withSession(r, s, func(e *sessionEntry) (xr.Swapchain, error) {
		h, err := r.swapchains.Insert(func(h registry.Handle) (*swapchain.Swapchain, error) {
			return swapchain.New(xr.Swapchain(h), s, e.device, info, r.opts.cfg.SwapchainImages)
		})
		if err != nil {
			return 0, err
		}
		id := xr.Swapchain(h)
		if err := e.state.AttachSwapchain(id); err != nil {
			e.state.DetachSwapchain(id)
			if sc, ok := r.swapchains.Destroy(h); ok {
				sc.Destroy()
			}
			return 0, err
		}
		return id, nil
	})
}

// DestroySwapchain frees the images of sc and detaches it from its session.
func (r *Runtime) DestroySwapchain(sc xr.Swapchain) error {
	obj, ok := r.swapchains.Destroy(registry.Handle(sc))
	if !ok {
		return xr.Errorf(xr.ErrorHandleInvalid, "", "swapchain %d", sc)
	}
	obj.Destroy()
	err := r.doSession(obj.Session(), func(e *sessionEntry) error {
		e.state.DetachSwapchain(sc)
		return nil
	})
	if err != nil && !errors.Is(err, xr.ErrorSessionLost) {
		return err
	}
	return nil
}

// EnumerateSwapchainImages lists the native images of sc in index order.
func (r *Runtime) EnumerateSwapchainImages(sc xr.Swapchain, capacity uint32, out []*render.Image) (uint32, error) {
	return withSwapchain(r, sc, func(s *swapchain.Swapchain) (uint32, error) {
		return twocall.Fill(s.Images(), capacity, out)
	})
}

// AcquireSwapchainImage hands the next available image of sc to the
// application and returns its index.
func (r *Runtime) AcquireSwapchainImage(sc xr.Swapchain) (uint32, error) {
	return withSwapchain(r, sc, func(s *swapchain.Swapchain) (uint32, error) {
		return s.Acquire()
	})
}

// WaitSwapchainImage waits for the oldest acquired image of sc. Simulated
// images are always ready, so timeout never expires.
func (r *Runtime) WaitSwapchainImage(sc xr.Swapchain, timeout xr.Duration) (uint32, error) {
	return withSwapchain(r, sc, func(s *swapchain.Swapchain) (uint32, error) {
		return s.Wait(timeout)
	})
}

// ReleaseSwapchainImage returns the oldest waited image of sc.
func (r *Runtime) ReleaseSwapchainImage(sc xr.Swapchain) (uint32, error) {
	return withSwapchain(r, sc, func(s *swapchain.Swapchain) (uint32, error) {
		return s.Release()
	})
}

// SwapchainImage returns image index of sc so the application or a mirror
// can reach its memory.
func (r *Runtime) SwapchainImage(sc xr.Swapchain, index uint32) (*render.Image, error) {
	return withSwapchain(r, sc, func(s *swapchain.Swapchain) (*render.Image, error) {
		return s.Image(index)
	})
}

// SwapchainRotation returns a snapshot of the image lists of sc.
func (r *Runtime) SwapchainRotation(sc xr.Swapchain) (swapchain.RotationState, error) {
	return withSwapchain(r, sc, func(s *swapchain.Swapchain) (swapchain.RotationState, error) {
		return s.Rotation(), nil
	})
}
