package xrsim

import (
	"context"
	"errors"

	"github.com/davidrios/openxr-device-simulator/frame"
	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
	"github.com/davidrios/openxr-device-simulator/render"
	"github.com/davidrios/openxr-device-simulator/swapchain"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// stereoViews is the view count of the only supported view configuration.
const stereoViews = 2

// WaitFrame blocks until the simulated display is ready for the next frame
// and returns its predicted timing. It is the only blocking call; ctx
// cancels the wait.
func (r *Runtime) WaitFrame(ctx context.Context, s xr.Session) (xr.FrameState, error) {
	p, err := r.runningPacer(s)
	if err != nil {
		return xr.FrameState{}, err
	}
	st, err := p.Wait(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return xr.FrameState{}, wrapCanceled(err)
		}
		return xr.FrameState{}, err
	}
	return st, nil
}

// BeginFrame starts rendering the frame the last WaitFrame predicted. It
// returns FrameDiscarded when the previous frame was never ended.
func (r *Runtime) BeginFrame(s xr.Session) (xr.Result, error) {
	p, err := r.runningPacer(s)
	if err != nil {
		return xr.ResultOf(err), err
	}
	return p.Begin()
}

// EndFrame submits the composition layers of the current frame. Swapchain
// images referenced by the layers must belong to s.
func (r *Runtime) EndFrame(s xr.Session, info xr.FrameEndInfo) error {
	var owned map[xr.Swapchain]struct{}
	var compositor *render.Compositor
	p, err := withSession(r, s, func(e *sessionEntry) (*frame.Pacer, error) {
		if !e.state.IsRunning() {
			return nil, xr.Errorf(xr.ErrorSessionNotRunning, "", "session %d", s)
		}
		owned = make(map[xr.Swapchain]struct{})
		for _, id := range e.state.Swapchains() {
			owned[id] = struct{}{}
		}
		compositor = e.compositor
		return e.pacer, nil
	})
	if err != nil {
		return err
	}
	if !p.CanEnd() {
		return xr.ErrorCallOrderInvalid
	}
	if err := frame.ValidateEndInfo(info); err != nil {
		return err
	}
	if err := checkLayers(info.Layers, owned); err != nil {
		return err
	}
	if err := r.compose(compositor, info.Layers); err != nil {
		return xr.Wrap(xr.ErrorRuntimeFailure, "", err)
	}
	if err := p.End(info); err != nil {
		return err
	}

	if r.opts.cfg.RecycleReleased {
		for id := range owned {
			_ = r.doSwapchain(id, func(sc *swapchain.Swapchain) error {
				if n := sc.Recycle(); n > 0 {
					xrlog.Logger().Debug("xrsim: images recycled", "swapchain", uint64(id), "images", n)
				}
				return nil
			})
		}
	}
	return nil
}

// compose presents every projection layer. Each view shows the most
// recently released image of its swapchain.
func (r *Runtime) compose(c *render.Compositor, layers []xr.CompositionLayer) error {
	for _, l := range layers {
		proj, ok := l.(*xr.CompositionLayerProjection)
		if !ok || proj == nil {
			continue
		}
		views := make([]render.View, 0, len(proj.Views))
		for _, v := range proj.Views {
			img, err := withSwapchain(r, v.SubImage.Swapchain, func(sc *swapchain.Swapchain) (*render.Image, error) {
				released := sc.Rotation().Released
				if len(released) == 0 {
					return nil, nil
				}
				return sc.Image(released[len(released)-1])
			})
			if err != nil {
				return err
			}
			rect := v.SubImage.ImageRect
			views = append(views, render.View{
				Image:  img,
				X:      uint32(rect.Offset.X),
				Y:      uint32(rect.Offset.Y),
				Width:  uint32(rect.Extent.Width),
				Height: uint32(rect.Extent.Height),
			})
		}
		if err := c.Compose(views); err != nil {
			return err
		}
	}
	return nil
}

// checkLayers verifies every sub-image of the layers names a swapchain of
// the session and that projection layers carry one view per eye.
func checkLayers(layers []xr.CompositionLayer, owned map[xr.Swapchain]struct{}) error {
	check := func(i int, sub xr.SwapchainSubImage) error {
		if _, ok := owned[sub.Swapchain]; !ok {
			return xr.Errorf(xr.ErrorLayerInvalid, "", "layer %d: swapchain %d is not part of the session", i, sub.Swapchain)
		}
		if sub.ImageRect.Extent.Width <= 0 || sub.ImageRect.Extent.Height <= 0 ||
			sub.ImageRect.Offset.X < 0 || sub.ImageRect.Offset.Y < 0 {
			return xr.Errorf(xr.ErrorSwapchainRectInvalid, "", "layer %d: rect %+v", i, sub.ImageRect)
		}
		return nil
	}
	for i, l := range layers {
		switch l := l.(type) {
		case *xr.CompositionLayerProjection:
			if l == nil {
				continue
			}
			if len(l.Views) != stereoViews {
				return xr.Errorf(xr.ErrorValidationFailure, "", "layer %d: %d views", i, len(l.Views))
			}
			for _, v := range l.Views {
				if err := check(i, v.SubImage); err != nil {
					return err
				}
			}
		case *xr.CompositionLayerQuad:
			if l == nil {
				continue
			}
			if err := check(i, l.SubImage); err != nil {
				return err
			}
		}
	}
	return nil
}
