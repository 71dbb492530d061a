package xrsim

import (
	"errors"
	"slices"

	"github.com/davidrios/openxr-device-simulator/input"
	"github.com/davidrios/openxr-device-simulator/internal/registry"
	"github.com/davidrios/openxr-device-simulator/internal/twocall"
	"github.com/davidrios/openxr-device-simulator/session"
	"github.com/davidrios/openxr-device-simulator/space"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// ReferenceSpaceCreateInfo describes a reference space.
type ReferenceSpaceCreateInfo struct {
	Type xr.ReferenceSpaceType
	Pose xr.Posef
}

// ActionSpaceCreateInfo describes a space that follows a pose action.
type ActionSpaceCreateInfo struct {
	Action        xr.Action
	SubactionPath xr.Path
	Pose          xr.Posef
}

// EnumerateReferenceSpaces lists the reference space types s supports.
func (r *Runtime) EnumerateReferenceSpaces(s xr.Session, capacity uint32, out []xr.ReferenceSpaceType) (uint32, error) {
	return withSession(r, s, func(*sessionEntry) (uint32, error) {
		return twocall.Fill(space.ReferenceTypes(), capacity, out)
	})
}

// insertSpace adds sp to the space table and attaches it to the session
// whose lock the caller holds.
func (r *Runtime) insertSpace(e *sessionEntry, kind session.SpaceKind, build func(id xr.Space) (*space.Space, error)) (xr.Space, error) {
	h, err := r.spaces.Insert(func(h registry.Handle) (*space.Space, error) {
		return build(xr.Space(h))
	})
	if err != nil {
		return 0, err
	}
	id := xr.Space(h)
	if err := e.state.AttachSpace(id, kind); err != nil {
		e.state.DetachSpace(id)
		r.spaces.Destroy(h)
		return 0, err
	}
	return id, nil
}

// CreateReferenceSpace creates a reference space in s.
func (r *Runtime) CreateReferenceSpace(s xr.Session, info ReferenceSpaceCreateInfo) (xr.Space, error) {
	return withSession(r, s, func(e *sessionEntry) (xr.Space, error) {
		return r.insertSpace(e, session.ReferenceSpace, func(id xr.Space) (*space.Space, error) {
			return space.NewReference(id, s, info.Type, info.Pose)
		})
	})
}

// CreateActionSpace creates a space that follows the device of a pose
// action. The subaction path, when given, must be one the action was
// created with.
func (r *Runtime) CreateActionSpace(s xr.Session, info ActionSpaceCreateInfo) (xr.Space, error) {
	return withSession(r, s, func(e *sessionEntry) (xr.Space, error) {
		subactions, err := withAction(r, info.Action, func(a *input.Action) ([]xr.Path, error) {
			if a.Type() != xr.ActionTypePoseInput {
				return nil, xr.Errorf(xr.ErrorActionTypeMismatch, "", "action is %s", a.Type())
			}
			return slices.Clone(a.SubactionPaths()), nil
		})
		if err != nil {
			return 0, err
		}

		var device string
		if info.SubactionPath != xr.NullPath {
			if !slices.Contains(subactions, info.SubactionPath) {
				return 0, xr.Errorf(xr.ErrorPathUnsupported, "", "path %d is not a subaction path of action %d", info.SubactionPath, info.Action)
			}
			t, err := r.pathsOf(e.state.Instance())
			if err != nil {
				return 0, err
			}
			if device, err = t.String(info.SubactionPath); err != nil {
				return 0, err
			}
		}
		return r.insertSpace(e, session.ActionSpace, func(id xr.Space) (*space.Space, error) {
			return space.NewAction(id, s, info.Action, device, info.Pose)
		})
	})
}

// DestroySpace destroys sp and detaches it from its session.
func (r *Runtime) DestroySpace(sp xr.Space) error {
	obj, ok := r.spaces.Destroy(registry.Handle(sp))
	if !ok {
		return xr.Errorf(xr.ErrorHandleInvalid, "", "space %d", sp)
	}
	err := r.doSession(obj.Session(), func(e *sessionEntry) error {
		e.state.DetachSpace(sp)
		return nil
	})
	if err != nil && !errors.Is(err, xr.ErrorSessionLost) {
		return err
	}
	return nil
}

// spaceOf returns the space behind id. Spaces never change after creation,
// so the pointer is used without holding the entry lock.
func (r *Runtime) spaceOf(id xr.Space) (*space.Space, error) {
	return withSpace(r, id, func(sp *space.Space) (*space.Space, error) {
		return sp, nil
	})
}

// LocateSpace returns the pose of sp relative to base at time t.
func (r *Runtime) LocateSpace(sp, base xr.Space, t xr.Time) (xr.SpaceLocation, error) {
	a, err := r.spaceOf(sp)
	if err != nil {
		return xr.SpaceLocation{}, err
	}
	b, err := r.spaceOf(base)
	if err != nil {
		return xr.SpaceLocation{}, err
	}
	return space.Locate(a, b, t)
}

// ReferenceSpaceBoundsRect reports the play area of a reference space. The
// simulator has no bounds and always answers SpaceBoundsUnavailable with a
// zero extent.
func (r *Runtime) ReferenceSpaceBoundsRect(s xr.Session, t xr.ReferenceSpaceType) (xr.Extent2Df, xr.Result, error) {
	_, err := withSession(r, s, func(*sessionEntry) (struct{}, error) {
		if !space.IsSupported(t) {
			return struct{}{}, xr.Errorf(xr.ErrorReferenceSpaceUnsupported, "", "%s", t)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return xr.Extent2Df{}, xr.ResultOf(err), err
	}
	return xr.Extent2Df{}, xr.SpaceBoundsUnavailable, nil
}
