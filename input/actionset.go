package input

import (
	"github.com/davidrios/openxr-device-simulator/xr"
)

// ActionSetCreateInfo describes an action set.
type ActionSetCreateInfo struct {
	Name          string
	LocalizedName string
	Priority      uint32
}

// ActionSet groups actions. Once attached to a session it is immutable.
type ActionSet struct {
	id       xr.ActionSet
	instance xr.Instance
	info     ActionSetCreateInfo
	attached bool
	names    *Names
	actions  map[xr.Action]string
}

// NewActionSet returns an empty, unattached set. The caller checks the
// names against the instance scope.
func NewActionSet(id xr.ActionSet, inst xr.Instance, info ActionSetCreateInfo) *ActionSet {
	return &ActionSet{
		id:       id,
		instance: inst,
		info:     info,
		names:    NewNames(),
		actions:  make(map[xr.Action]string),
	}
}

func (s *ActionSet) ID() xr.ActionSet          { return s.id }
func (s *ActionSet) Instance() xr.Instance     { return s.instance }
func (s *ActionSet) Info() ActionSetCreateInfo { return s.info }
func (s *ActionSet) Attached() bool            { return s.attached }

// Attach marks the set attached. Attaching twice is an error.
func (s *ActionSet) Attach() error {
	if s.attached {
		return xr.Errorf(xr.ErrorActionsetsAlreadyAttached, "", "action set %q", s.info.Name)
	}
	s.attached = true
	return nil
}

// Detach undoes Attach when attaching a batch of sets fails part way.
func (s *ActionSet) Detach() { s.attached = false }

// CheckAction verifies a new action may join the set.
func (s *ActionSet) CheckAction(info ActionCreateInfo) error {
	if s.attached {
		return xr.Errorf(xr.ErrorActionsetsAlreadyAttached, "", "action set %q is attached", s.info.Name)
	}
	return s.names.Check(info.Name, info.LocalizedName)
}

// AddAction records an action created in the set.
func (s *ActionSet) AddAction(id xr.Action, info ActionCreateInfo) {
	s.names.Add(info.Name, info.LocalizedName)
	s.actions[id] = info.Name
}

// RemoveAction forgets an action and frees its names.
func (s *ActionSet) RemoveAction(id xr.Action, localized string) {
	name, ok := s.actions[id]
	if !ok {
		return
	}
	s.names.Remove(name, localized)
	delete(s.actions, id)
}

// Actions returns the ids of the actions in the set.
func (s *ActionSet) Actions() []xr.Action {
	out := make([]xr.Action, 0, len(s.actions))
	for id := range s.actions {
		out = append(out, id)
	}
	return out
}
