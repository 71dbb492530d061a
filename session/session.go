// Package session implements the lifecycle state machine of one XR session.
//
// A session starts Idle and becomes Ready as soon as it has at least one
// space, one swapchain and one action set attached. Begin starts it running,
// RequestExit moves it to Stopping and End returns it to Idle. Every state
// change is announced through the Emitter before it takes effect.
package session

import (
	"errors"
	"fmt"

	"github.com/davidrios/openxr-device-simulator/event"
	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// ErrAlreadyAttached is returned when a resource is attached twice.
var ErrAlreadyAttached = errors.New("session: already attached")

// Emitter queues events for an instance.
type Emitter interface {
	Schedule(inst xr.Instance, e event.Event) error
}

// Clock reports the current runtime time.
type Clock func() xr.Time

// SpaceKind distinguishes the origin of an attached space.
type SpaceKind int

const (
	ReferenceSpace SpaceKind = iota
	ActionSpace
)

func (k SpaceKind) String() string {
	if k == ActionSpace {
		return "action"
	}
	return "reference"
}

// Session is the state machine of one session. It is not safe for
// concurrent use; the runtime serializes access through its handle table.
type Session struct {
	id       xr.Session
	instance xr.Instance
	emit     Emitter
	now      Clock

	state   xr.SessionState
	running bool
	viewCfg xr.ViewConfigurationType

	spaces     map[xr.Space]SpaceKind
	swapchains map[xr.Swapchain]struct{}
	actionSets map[xr.ActionSet]struct{}
}

// New creates a session in the Idle state and queues the initial
// state-change event. The session is not created if the event cannot be
// queued.
func New(id xr.Session, inst xr.Instance, emit Emitter, now Clock) (*Session, error) {
	s := &Session{
		id:         id,
		instance:   inst,
		emit:       emit,
		now:        now,
		state:      xr.SessionStateUnknown,
		spaces:     make(map[xr.Space]SpaceKind),
		swapchains: make(map[xr.Swapchain]struct{}),
		actionSets: make(map[xr.ActionSet]struct{}),
	}
	if err := s.transition(xr.SessionStateIdle); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the session handle.
func (s *Session) ID() xr.Session { return s.id }

// Instance returns the owning instance.
func (s *Session) Instance() xr.Instance { return s.instance }

// State returns the current lifecycle state.
func (s *Session) State() xr.SessionState { return s.state }

// IsRunning reports whether Begin succeeded and End has not yet run.
func (s *Session) IsRunning() bool { return s.running }

// IsFocused reports whether the session is running and not stopping. Only a
// focused session may synchronize actions.
func (s *Session) IsFocused() bool {
	return s.running && s.state == xr.SessionStateReady
}

// ViewConfiguration returns the view configuration passed to Begin.
func (s *Session) ViewConfiguration() xr.ViewConfigurationType { return s.viewCfg }

func (s *Session) transition(to xr.SessionState) error {
	ev := event.SessionStateChanged{Session: s.id, State: to, Time: s.now()}
	if err := s.emit.Schedule(s.instance, ev); err != nil {
		return fmt.Errorf("session %d: queue %s: %w", s.id, to, err)
	}
	xrlog.Logger().Debug("session: state changed",
		"session", uint64(s.id), "from", s.state.String(), "to", to.String())
	s.state = to
	return nil
}

// updateReadiness moves an idle, stopped session to Ready once spaces,
// swapchains and action sets are all present. It is idempotent.
func (s *Session) updateReadiness() error {
	if s.running || s.state != xr.SessionStateIdle {
		return nil
	}
	if len(s.spaces) == 0 || len(s.swapchains) == 0 || len(s.actionSets) == 0 {
		return nil
	}
	return s.transition(xr.SessionStateReady)
}

// AttachSpace records a space created for this session.
func (s *Session) AttachSpace(id xr.Space, kind SpaceKind) error {
	if _, ok := s.spaces[id]; ok {
		return fmt.Errorf("space %d: %w", id, ErrAlreadyAttached)
	}
	s.spaces[id] = kind
	return s.updateReadiness()
}

// DetachSpace forgets a destroyed space. The state is left as is.
func (s *Session) DetachSpace(id xr.Space) {
	delete(s.spaces, id)
}

// AttachSwapchain records a swapchain created for this session.
func (s *Session) AttachSwapchain(id xr.Swapchain) error {
	if _, ok := s.swapchains[id]; ok {
		return fmt.Errorf("swapchain %d: %w", id, ErrAlreadyAttached)
	}
	s.swapchains[id] = struct{}{}
	return s.updateReadiness()
}

// DetachSwapchain forgets a destroyed swapchain. The state is left as is.
func (s *Session) DetachSwapchain(id xr.Swapchain) {
	delete(s.swapchains, id)
}

// AttachActionSets attaches every set in ids, or none of them if any is
// already attached or listed twice.
func (s *Session) AttachActionSets(ids ...xr.ActionSet) error {
	if len(ids) == 0 {
		return xr.Errorf(xr.ErrorValidationFailure, "", "no action sets")
	}
	seen := make(map[xr.ActionSet]struct{}, len(ids))
	for _, id := range ids {
		_, attached := s.actionSets[id]
		_, dup := seen[id]
		if attached || dup {
			return &xr.Error{
				Code: xr.ErrorActionsetsAlreadyAttached,
				Err:  fmt.Errorf("action set %d: %w", id, ErrAlreadyAttached),
			}
		}
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		s.actionSets[id] = struct{}{}
	}
	return s.updateReadiness()
}

// HasActionSet reports whether id is attached.
func (s *Session) HasActionSet(id xr.ActionSet) bool {
	_, ok := s.actionSets[id]
	return ok
}

// Spaces returns the attached spaces.
func (s *Session) Spaces() map[xr.Space]SpaceKind {
	out := make(map[xr.Space]SpaceKind, len(s.spaces))
	for id, k := range s.spaces {
		out[id] = k
	}
	return out
}

// Swapchains returns the attached swapchains.
func (s *Session) Swapchains() []xr.Swapchain {
	out := make([]xr.Swapchain, 0, len(s.swapchains))
	for id := range s.swapchains {
		out = append(out, id)
	}
	return out
}

// ActionSets returns the attached action sets.
func (s *Session) ActionSets() []xr.ActionSet {
	out := make([]xr.ActionSet, 0, len(s.actionSets))
	for id := range s.actionSets {
		out = append(out, id)
	}
	return out
}

// Begin starts the session. Only primary stereo is supported.
func (s *Session) Begin(viewCfg xr.ViewConfigurationType) error {
	if viewCfg != xr.ViewConfigurationTypePrimaryStereo {
		if viewCfg == xr.ViewConfigurationTypePrimaryMono {
			return xr.ErrorViewConfigurationTypeUnsupported
		}
		return xr.Errorf(xr.ErrorValidationFailure, "", "view configuration %d", viewCfg)
	}
	if s.running {
		return xr.ErrorSessionRunning
	}
	if s.state != xr.SessionStateReady {
		return xr.ErrorSessionNotReady
	}
	s.running = true
	s.viewCfg = viewCfg
	xrlog.Logger().Debug("session: running", "session", uint64(s.id))
	return nil
}

// RequestExit asks a running session to stop.
func (s *Session) RequestExit() error {
	if !s.running {
		return xr.ErrorSessionNotRunning
	}
	return s.transition(xr.SessionStateStopping)
}

// End stops a session that is stopping and returns it to Idle. Readiness is
// not re-evaluated here; the next successful attach does that.
func (s *Session) End() error {
	if !s.running {
		return xr.ErrorSessionNotRunning
	}
	if s.state != xr.SessionStateStopping {
		return xr.ErrorSessionNotStopping
	}
	if err := s.transition(xr.SessionStateIdle); err != nil {
		return err
	}
	s.running = false
	return nil
}
