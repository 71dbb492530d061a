package xrsim

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/davidrios/openxr-device-simulator/event"
	"github.com/davidrios/openxr-device-simulator/input"
	"github.com/davidrios/openxr-device-simulator/internal/registry"
	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
	"github.com/davidrios/openxr-device-simulator/space"
	"github.com/davidrios/openxr-device-simulator/swapchain"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// Runtime is the simulator. All state lives in its handle tables; there is
// no package-level state besides the logger.
//
// Locks are taken in a fixed order: session, then swapchain, space, action
// set or action, then instance, then the event queues.
type Runtime struct {
	opts   options
	epoch  time.Time
	closed atomic.Bool

	handles    registry.Counter
	instances  *registry.Table[*instance]
	sessions   *registry.Table[*sessionEntry]
	spaces     *registry.Table[*space.Space]
	actionSets *registry.Table[*input.ActionSet]
	actions    *registry.Table[*input.Action]
	swapchains *registry.Table[*swapchain.Swapchain]
	events     *event.Queues
}

// New creates a runtime. The configuration is validated before anything is
// built.
func New(opts ...Option) (*Runtime, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runtime{opts: o, epoch: o.clock.Now(), events: event.NewQueues()}
	r.instances = registry.New[*instance]("instance", &r.handles)
	r.sessions = registry.New[*sessionEntry]("session", &r.handles)
	r.spaces = registry.New[*space.Space]("space", &r.handles)
	r.actionSets = registry.New[*input.ActionSet]("action set", &r.handles)
	r.actions = registry.New[*input.Action]("action", &r.handles)
	r.swapchains = registry.New[*swapchain.Swapchain]("swapchain", &r.handles)

	xrlog.Logger().Debug("xrsim: runtime created",
		"frame_interval", o.cfg.FrameInterval, "backend", o.cfg.GraphicsBackend,
		"swapchain_images", o.cfg.SwapchainImages, "recycle_released", o.cfg.RecycleReleased)
	return r, nil
}

// Close destroys every object: swapchains first so native images are freed
// while their devices are open, then spaces, sessions, action sets,
// actions and instances, and finally the event queues. Calling Close more
// than once is a no-op.
func (r *Runtime) Close() {
	if r.closed.Swap(true) {
		return
	}
	for _, h := range r.swapchains.Handles() {
		if sc, ok := r.swapchains.Destroy(h); ok {
			sc.Destroy()
		}
	}
	for _, h := range r.spaces.Handles() {
		r.spaces.Destroy(h)
	}
	for _, h := range r.sessions.Handles() {
		if e, ok := r.sessions.Destroy(h); ok {
			e.release()
		}
	}
	for _, h := range r.actionSets.Handles() {
		r.actionSets.Destroy(h)
	}
	for _, h := range r.actions.Handles() {
		r.actions.Destroy(h)
	}
	for _, h := range r.instances.Handles() {
		if inst, ok := r.instances.Destroy(h); ok {
			r.events.Remove(inst.id)
		}
	}
	xrlog.Logger().Debug("xrsim: runtime closed")
}

// Result converts err to the code the protocol reports. Failures are logged
// with the operation that produced them.
func (r *Runtime) Result(op string, err error) xr.Result {
	code := xr.ResultOf(err)
	if code.Failed() {
		if code == xr.ErrorRuntimeFailure {
			xrlog.Logger().Error("xrsim: call failed", "op", op, "result", code.String(), "err", err)
		} else {
			xrlog.Logger().Warn("xrsim: call failed", "op", op, "result", code.String(), "err", err)
		}
	}
	return code
}

// now returns the runtime time: nanoseconds since the runtime was created.
func (r *Runtime) now() xr.Time {
	return xr.Time(r.opts.clock.Now().Sub(r.epoch))
}

// notExist upgrades a failed lookup to the family's error code. Errors that
// already carry a code pass through unchanged.
func notExist(err error, code xr.Result, family string, h uint64) error {
	if err == nil {
		return nil
	}
	var xe *xr.Error
	if !errors.As(err, &xe) && errors.Is(err, registry.ErrNotExist) {
		return &xr.Error{Code: code, Err: fmt.Errorf("%s %d: %w", family, h, err)}
	}
	return err
}

func with[T, R any](t *registry.Table[T], h uint64, code xr.Result, fn func(T) (R, error)) (R, error) {
	res, err := registry.With(t, registry.Handle(h), fn)
	return res, notExist(err, code, t.Name(), h)
}

func do[T any](t *registry.Table[T], h uint64, code xr.Result, fn func(T) error) error {
	return notExist(t.Do(registry.Handle(h), fn), code, t.Name(), h)
}

func withInstance[R any](r *Runtime, id xr.Instance, fn func(*instance) (R, error)) (R, error) {
	return with(r.instances, uint64(id), xr.ErrorInstanceLost, fn)
}

func withSession[R any](r *Runtime, id xr.Session, fn func(*sessionEntry) (R, error)) (R, error) {
	return with(r.sessions, uint64(id), xr.ErrorSessionLost, fn)
}

func withSpace[R any](r *Runtime, id xr.Space, fn func(*space.Space) (R, error)) (R, error) {
	return with(r.spaces, uint64(id), xr.ErrorHandleInvalid, fn)
}

func withActionSet[R any](r *Runtime, id xr.ActionSet, fn func(*input.ActionSet) (R, error)) (R, error) {
	return with(r.actionSets, uint64(id), xr.ErrorHandleInvalid, fn)
}

func withAction[R any](r *Runtime, id xr.Action, fn func(*input.Action) (R, error)) (R, error) {
	return with(r.actions, uint64(id), xr.ErrorHandleInvalid, fn)
}

func withSwapchain[R any](r *Runtime, id xr.Swapchain, fn func(*swapchain.Swapchain) (R, error)) (R, error) {
	return with(r.swapchains, uint64(id), xr.ErrorHandleInvalid, fn)
}

func (r *Runtime) doInstance(id xr.Instance, fn func(*instance) error) error {
	return do(r.instances, uint64(id), xr.ErrorInstanceLost, fn)
}

func (r *Runtime) doSession(id xr.Session, fn func(*sessionEntry) error) error {
	return do(r.sessions, uint64(id), xr.ErrorSessionLost, fn)
}

func (r *Runtime) doActionSet(id xr.ActionSet, fn func(*input.ActionSet) error) error {
	return do(r.actionSets, uint64(id), xr.ErrorHandleInvalid, fn)
}

func (r *Runtime) doAction(id xr.Action, fn func(*input.Action) error) error {
	return do(r.actions, uint64(id), xr.ErrorHandleInvalid, fn)
}

func (r *Runtime) doSwapchain(id xr.Swapchain, fn func(*swapchain.Swapchain) error) error {
	return do(r.swapchains, uint64(id), xr.ErrorHandleInvalid, fn)
}
