package xrsim

import (
	"github.com/davidrios/openxr-device-simulator/event"
	"github.com/davidrios/openxr-device-simulator/input"
	"github.com/davidrios/openxr-device-simulator/internal/registry"
	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// ActiveActionSet selects an action set to synchronize. SubactionPath
// narrows it to one device; NullPath means all of them.
type ActiveActionSet struct {
	ActionSet     xr.ActionSet
	SubactionPath xr.Path
}

// ActionStateGetInfo selects the action and subaction path to read.
type ActionStateGetInfo struct {
	Action        xr.Action
	SubactionPath xr.Path
}

// CreateActionSet creates an action set in inst. Names are unique per
// instance.
func (r *Runtime) CreateActionSet(inst xr.Instance, info input.ActionSetCreateInfo) (xr.ActionSet, error) {
	if err := input.ValidateName(info.Name); err != nil {
		return 0, err
	}
	if err := input.ValidateLocalizedName(info.LocalizedName); err != nil {
		return 0, err
	}
	return withInstance(r, inst, func(i *instance) (xr.ActionSet, error) {
		if err := i.setNames.Check(info.Name, info.LocalizedName); err != nil {
			return 0, err
		}
		h, err := r.actionSets.Insert(func(h registry.Handle) (*input.ActionSet, error) {
			return input.NewActionSet(xr.ActionSet(h), inst, info), nil
		})
		if err != nil {
			return 0, err
		}
		i.setNames.Add(info.Name, info.LocalizedName)
		i.actionSets[xr.ActionSet(h)] = struct{}{}
		return xr.ActionSet(h), nil
	})
}

// DestroyActionSet destroys set and the actions it contains. Their
// suggested bindings are dropped.
func (r *Runtime) DestroyActionSet(set xr.ActionSet) error {
	obj, ok := r.actionSets.Destroy(registry.Handle(set))
	if !ok {
		return xr.Errorf(xr.ErrorHandleInvalid, "", "action set %d", set)
	}
	actions := obj.Actions()
	for _, a := range actions {
		r.actions.Destroy(registry.Handle(a))
	}
	info := obj.Info()
	// The instance may already be gone; its names went with it.
	_ = r.doInstance(obj.Instance(), func(i *instance) error {
		i.setNames.Remove(info.Name, info.LocalizedName)
		delete(i.actionSets, set)
		for _, a := range actions {
			i.bindings.Forget(a)
		}
		return nil
	})
	return nil
}

// CreateAction creates an action in set. The set must not be attached to a
// session yet.
func (r *Runtime) CreateAction(set xr.ActionSet, info input.ActionCreateInfo) (xr.Action, error) {
	if err := input.ValidateName(info.Name); err != nil {
		return 0, err
	}
	if err := input.ValidateLocalizedName(info.LocalizedName); err != nil {
		return 0, err
	}
	return withActionSet(r, set, func(s *input.ActionSet) (xr.Action, error) {
		if err := s.CheckAction(info); err != nil {
			return 0, err
		}
		t, err := r.pathsOf(s.Instance())
		if err != nil {
			return 0, err
		}
		h, err := r.actions.Insert(func(h registry.Handle) (*input.Action, error) {
			return input.NewAction(xr.Action(h), set, info, t.CheckSubaction)
		})
		if err != nil {
			return 0, err
		}
		s.AddAction(xr.Action(h), info)
		return xr.Action(h), nil
	})
}

// DestroyAction destroys a and drops its suggested bindings.
func (r *Runtime) DestroyAction(a xr.Action) error {
	obj, ok := r.actions.Destroy(registry.Handle(a))
	if !ok {
		return xr.Errorf(xr.ErrorHandleInvalid, "", "action %d", a)
	}
	var inst xr.Instance
	_ = r.doActionSet(obj.ActionSet(), func(s *input.ActionSet) error {
		s.RemoveAction(a, obj.Info().LocalizedName)
		inst = s.Instance()
		return nil
	})
	if inst != 0 {
		_ = r.doInstance(inst, func(i *instance) error {
			i.bindings.Forget(a)
			return nil
		})
	}
	return nil
}

// SuggestInteractionProfileBindings records bindings for profile. A later
// suggestion for the same profile replaces this one.
func (r *Runtime) SuggestInteractionProfileBindings(inst xr.Instance, profile xr.Path, bindings []input.SuggestedBinding) error {
	if len(bindings) == 0 {
		return xr.Errorf(xr.ErrorValidationFailure, "", "no bindings")
	}
	t, err := r.pathsOf(inst)
	if err != nil {
		return err
	}
	ps, err := t.String(profile)
	if err != nil {
		return err
	}
	if err := input.CheckProfilePath(ps); err != nil {
		return err
	}

	for _, b := range bindings {
		bs, err := t.String(b.Binding)
		if err != nil {
			return err
		}
		if err := input.CheckBindingPath(bs); err != nil {
			return err
		}
		set, err := withAction(r, b.Action, func(a *input.Action) (xr.ActionSet, error) {
			return a.ActionSet(), nil
		})
		if err != nil {
			return err
		}
		err = r.doActionSet(set, func(s *input.ActionSet) error {
			if s.Instance() != inst {
				return xr.Errorf(xr.ErrorValidationFailure, "", "action %d belongs to another instance", b.Action)
			}
			if s.Attached() {
				return xr.Errorf(xr.ErrorActionsetsAlreadyAttached, "", "action set %d", set)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return r.doInstance(inst, func(i *instance) error {
		i.bindings.Suggest(profile, bindings)
		xrlog.Logger().Debug("xrsim: bindings suggested", "profile", ps, "bindings", len(bindings))
		return nil
	})
}

// AttachSessionActionSets attaches sets to s. Attached sets become
// immutable and cannot be attached again. When bindings were suggested an
// InteractionProfileChanged event is queued.
func (r *Runtime) AttachSessionActionSets(s xr.Session, sets []xr.ActionSet) error {
	return r.doSession(s, func(e *sessionEntry) error {
		inst := e.state.Instance()
		var marked []xr.ActionSet
		rollback := func() {
			for _, set := range marked {
				_ = r.doActionSet(set, func(as *input.ActionSet) error {
					as.Detach()
					return nil
				})
			}
		}
		for _, set := range sets {
			err := r.doActionSet(set, func(as *input.ActionSet) error {
				if as.Instance() != inst {
					return xr.Errorf(xr.ErrorValidationFailure, "", "action set %d belongs to another instance", set)
				}
				return as.Attach()
			})
			if err != nil {
				rollback()
				return err
			}
			marked = append(marked, set)
		}
		if err := e.state.AttachActionSets(sets...); err != nil {
			rollback()
			return err
		}

		suggested, err := withInstance(r, inst, func(i *instance) (bool, error) {
			return i.bindings.Len() > 0, nil
		})
		if err != nil {
			return err
		}
		if suggested {
			return r.events.Schedule(inst, event.InteractionProfileChanged{Session: s})
		}
		return nil
	})
}

// SyncActions promotes injected input of the active sets so the state
// getters see it. An unfocused session returns SessionNotFocused and leaves
// every state untouched.
func (r *Runtime) SyncActions(s xr.Session, active []ActiveActionSet) (xr.Result, error) {
	if len(active) == 0 {
		return xr.ErrorValidationFailure, xr.Errorf(xr.ErrorValidationFailure, "", "no active action sets")
	}
	var actions []xr.Action
	code, err := withSession(r, s, func(e *sessionEntry) (xr.Result, error) {
		for _, a := range active {
			if !e.state.HasActionSet(a.ActionSet) {
				return xr.ErrorActionsetNotAttached, xr.Errorf(xr.ErrorActionsetNotAttached, "", "action set %d", a.ActionSet)
			}
		}
		if !e.state.IsFocused() {
			return xr.SessionNotFocused, nil
		}
		for _, a := range active {
			list, err := withActionSet(r, a.ActionSet, func(as *input.ActionSet) ([]xr.Action, error) {
				return as.Actions(), nil
			})
			if err != nil {
				return xr.ResultOf(err), err
			}
			actions = append(actions, list...)
		}
		return xr.Success, nil
	})
	if err != nil {
		return xr.ResultOf(err), err
	}
	if code != xr.Success {
		return code, nil
	}

	now := r.now()
	for _, id := range actions {
		_ = r.doAction(id, func(a *input.Action) error {
			a.Sync(now)
			return nil
		})
	}
	return xr.Success, nil
}

// actionState reads a through get after checking its set is attached to s.
func actionState[R any](r *Runtime, s xr.Session, info ActionStateGetInfo, get func(*input.Action) (R, error)) (R, error) {
	var zero R
	if info.SubactionPath != xr.NullPath {
		inst, err := withSession(r, s, func(e *sessionEntry) (xr.Instance, error) {
			return e.state.Instance(), nil
		})
		if err != nil {
			return zero, err
		}
		t, err := r.pathsOf(inst)
		if err != nil {
			return zero, err
		}
		if _, err := t.String(info.SubactionPath); err != nil {
			return zero, err
		}
	}
	return withSession(r, s, func(e *sessionEntry) (R, error) {
		return withAction(r, info.Action, func(a *input.Action) (R, error) {
			if !e.state.HasActionSet(a.ActionSet()) {
				return zero, xr.Errorf(xr.ErrorActionsetNotAttached, "", "action %d", info.Action)
			}
			return get(a)
		})
	})
}

// ActionStateBoolean returns the state of a boolean action.
func (r *Runtime) ActionStateBoolean(s xr.Session, info ActionStateGetInfo) (input.State, error) {
	return actionState(r, s, info, func(a *input.Action) (input.State, error) {
		return a.Boolean(info.SubactionPath)
	})
}

// ActionStateFloat returns the state of a float action.
func (r *Runtime) ActionStateFloat(s xr.Session, info ActionStateGetInfo) (input.State, error) {
	return actionState(r, s, info, func(a *input.Action) (input.State, error) {
		return a.Float(info.SubactionPath)
	})
}

// ActionStateVector2f returns the state of a two-axis action.
func (r *Runtime) ActionStateVector2f(s xr.Session, info ActionStateGetInfo) (input.State, error) {
	return actionState(r, s, info, func(a *input.Action) (input.State, error) {
		return a.Vector2f(info.SubactionPath)
	})
}

// ActionStatePose reports whether a pose action is active.
func (r *Runtime) ActionStatePose(s xr.Session, info ActionStateGetInfo) (bool, error) {
	return actionState(r, s, info, func(a *input.Action) (bool, error) {
		return a.Pose(info.SubactionPath)
	})
}

// InjectInput queues a simulated input sample for action a. It becomes
// visible at the next SyncActions.
func (r *Runtime) InjectInput(a xr.Action, sub xr.Path, v input.Value) error {
	return r.doAction(a, func(obj *input.Action) error {
		return obj.Inject(sub, v)
	})
}
