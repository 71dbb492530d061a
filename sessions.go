package xrsim

import (
	"errors"
	"fmt"

	"github.com/davidrios/openxr-device-simulator/frame"
	"github.com/davidrios/openxr-device-simulator/internal/registry"
	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
	"github.com/davidrios/openxr-device-simulator/render"
	"github.com/davidrios/openxr-device-simulator/session"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// SessionCreateInfo describes a session. A nil Graphics binding makes the
// runtime open a device from its configured backend.
type SessionCreateInfo struct {
	SystemID xr.SystemID
	Graphics render.Binding
}

// sessionEntry is everything the runtime keeps per session.
type sessionEntry struct {
	state      *session.Session
	device     *render.Device
	compositor *render.Compositor
	pacer      *frame.Pacer
}

// release frees the graphics objects of a session that has already been
// removed from its table.
func (e *sessionEntry) release() {
	e.pacer.Reset()
	e.compositor.Destroy()
	e.device.Close()
}

func (r *Runtime) openDevice(b render.Binding) (*render.Device, error) {
	if b == nil {
		d, err := render.Open(r.opts.backends, r.opts.cfg.GraphicsBackend)
		if err != nil {
			return nil, xr.Wrap(xr.ErrorGraphicsDeviceInvalid, "", err)
		}
		return d, nil
	}
	if b.HALDevice() == nil {
		return nil, xr.Errorf(xr.ErrorGraphicsDeviceInvalid, "", "binding has no device")
	}
	return render.Borrow(b), nil
}

// CreateSession creates the one session an instance may have. The session
// starts Idle and its first state event is queued before CreateSession
// returns.
func (r *Runtime) CreateSession(inst xr.Instance, info SessionCreateInfo) (xr.Session, error) {
	return withInstance(r, inst, func(i *instance) (xr.Session, error) {
		if info.SystemID != xr.HMDSystemID {
			return 0, xr.Errorf(xr.ErrorSystemInvalid, "", "system %d", info.SystemID)
		}
		if i.session != 0 {
			return 0, xr.Errorf(xr.ErrorLimitReached, "", "instance %d already has session %d", inst, i.session)
		}

		device, err := r.openDevice(info.Graphics)
		if err != nil {
			return 0, err
		}
		compositor, err := render.NewCompositor(device)
		if err != nil {
			device.Close()
			return 0, xr.Wrap(xr.ErrorRuntimeFailure, "", err)
		}
		entry := &sessionEntry{
			device:     device,
			compositor: compositor,
			pacer:      frame.NewPacer(r.opts.cfg.Pacing(), r.opts.clock, r.epoch),
		}

		h, err := r.sessions.Insert(func(h registry.Handle) (*sessionEntry, error) {
			s, err := session.New(xr.Session(h), inst, r.events, r.now)
			if err != nil {
				return nil, err
			}
			entry.state = s
			return entry, nil
		})
		if err != nil {
			entry.release()
			return 0, err
		}
		i.session = xr.Session(h)
		xrlog.Logger().Info("xrsim: session created",
			"session", uint64(h), "instance", uint64(inst), "backend", device.Backend())
		return xr.Session(h), nil
	})
}

// teardownSession destroys the swapchains and spaces of a session that has
// already been removed from its table, then releases its graphics objects.
func (r *Runtime) teardownSession(e *sessionEntry) {
	for _, id := range e.state.Swapchains() {
		if sc, ok := r.swapchains.Destroy(registry.Handle(id)); ok {
			sc.Destroy()
		}
	}
	for id := range e.state.Spaces() {
		r.spaces.Destroy(registry.Handle(id))
	}
	e.release()
}

// DestroySession destroys s and everything created from it.
func (r *Runtime) DestroySession(s xr.Session) error {
	e, ok := r.sessions.Destroy(registry.Handle(s))
	if !ok {
		return xr.Errorf(xr.ErrorSessionLost, "", "session %d", s)
	}
	r.teardownSession(e)
	inst := e.state.Instance()
	err := r.doInstance(inst, func(i *instance) error {
		if i.session == s {
			i.session = 0
		}
		return nil
	})
	if err != nil && !errors.Is(err, xr.ErrorInstanceLost) {
		return err
	}
	frames, dropped := e.pacer.Stats()
	xrlog.Logger().Info("xrsim: session destroyed", "session", uint64(s), "frames", frames, "discarded", dropped)
	return nil
}

// BeginSession starts the frame loop of a Ready session.
func (r *Runtime) BeginSession(s xr.Session, viewConfig xr.ViewConfigurationType) error {
	return r.doSession(s, func(e *sessionEntry) error {
		return e.state.Begin(viewConfig)
	})
}

// RequestExitSession asks a running session to stop.
func (r *Runtime) RequestExitSession(s xr.Session) error {
	return r.doSession(s, func(e *sessionEntry) error {
		return e.state.RequestExit()
	})
}

// EndSession stops a stopping session and abandons any frame in flight.
func (r *Runtime) EndSession(s xr.Session) error {
	return r.doSession(s, func(e *sessionEntry) error {
		if err := e.state.End(); err != nil {
			return err
		}
		e.pacer.Reset()
		return nil
	})
}

// SessionState returns the lifecycle state of s.
func (r *Runtime) SessionState(s xr.Session) (xr.SessionState, error) {
	return withSession(r, s, func(e *sessionEntry) (xr.SessionState, error) {
		return e.state.State(), nil
	})
}

// SessionDevice returns the device swapchain images of s live on.
func (r *Runtime) SessionDevice(s xr.Session) (*render.Device, error) {
	return withSession(r, s, func(e *sessionEntry) (*render.Device, error) {
		return e.device, nil
	})
}

// CompositorStats reports what the compositor of s has presented.
func (r *Runtime) CompositorStats(s xr.Session) (render.CompositorStats, error) {
	return withSession(r, s, func(e *sessionEntry) (render.CompositorStats, error) {
		return e.compositor.Stats(), nil
	})
}

// runningPacer returns the pacer of s after checking the session runs. The
// pacer is used without the session lock so a blocked WaitFrame never holds
// it.
func (r *Runtime) runningPacer(s xr.Session) (*frame.Pacer, error) {
	return withSession(r, s, func(e *sessionEntry) (*frame.Pacer, error) {
		if !e.state.IsRunning() {
			return nil, xr.Errorf(xr.ErrorSessionNotRunning, "", "session %d", s)
		}
		return e.pacer, nil
	})
}

// errWaitCanceled wraps a context error returned by WaitFrame.
var errWaitCanceled = errors.New("xrsim: frame wait canceled")

func wrapCanceled(err error) error {
	return &xr.Error{Code: xr.ErrorRuntimeFailure, Err: fmt.Errorf("%w: %w", errWaitCanceled, err)}
}
