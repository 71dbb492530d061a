package input

import (
	"math"

	"github.com/davidrios/openxr-device-simulator/xr"
)

// ActionCreateInfo describes an action.
type ActionCreateInfo struct {
	Name           string
	LocalizedName  string
	Type           xr.ActionType
	SubactionPaths []xr.Path
}

// Value is a simulated input sample. Only the field matching the action
// type is read.
type Value struct {
	Bool   bool
	Float  float32
	Vector xr.Vector2f
}

// State is the value an application reads for one subaction path after a
// sync.
type State struct {
	Value
	Changed        bool
	LastChangeTime xr.Time
	Active         bool
}

type slot struct {
	State
	pending *Value
}

// Action holds one value slot per subaction path, plus a slot for the
// null path that receives input not tied to a device.
type Action struct {
	id    xr.Action
	set   xr.ActionSet
	info  ActionCreateInfo
	slots map[xr.Path]*slot
}

// NewAction validates the type and subaction paths and returns an action
// with every slot inactive. resolve maps a subaction path to its string and
// reports unknown or unsupported paths.
func NewAction(id xr.Action, set xr.ActionSet, info ActionCreateInfo, resolve func(xr.Path) (string, error)) (*Action, error) {
	switch info.Type {
	case xr.ActionTypeBooleanInput, xr.ActionTypeFloatInput, xr.ActionTypeVector2fInput,
		xr.ActionTypePoseInput, xr.ActionTypeVibrationOutput:
	default:
		return nil, xr.Errorf(xr.ErrorValidationFailure, "", "action type %d", int32(info.Type))
	}

	slots := map[xr.Path]*slot{xr.NullPath: {}}
	for _, p := range info.SubactionPaths {
		if p == xr.NullPath {
			return nil, xr.Errorf(xr.ErrorPathInvalid, "", "null subaction path")
		}
		if _, dup := slots[p]; dup {
			return nil, xr.Errorf(xr.ErrorPathUnsupported, "", "subaction path %d listed twice", p)
		}
		if _, err := resolve(p); err != nil {
			return nil, err
		}
		slots[p] = &slot{}
	}
	info.SubactionPaths = append([]xr.Path(nil), info.SubactionPaths...)
	return &Action{id: id, set: set, info: info, slots: slots}, nil
}

func (a *Action) ID() xr.Action            { return a.id }
func (a *Action) ActionSet() xr.ActionSet  { return a.set }
func (a *Action) Type() xr.ActionType      { return a.info.Type }
func (a *Action) Info() ActionCreateInfo   { return a.info }
func (a *Action) SubactionPaths() []xr.Path { return a.info.SubactionPaths }

func (a *Action) slot(sub xr.Path) (*slot, error) {
	s, ok := a.slots[sub]
	if !ok {
		return nil, xr.Errorf(xr.ErrorPathUnsupported, "", "path %d is not a subaction path of this action", sub)
	}
	return s, nil
}

// Inject queues v for sub. It becomes visible at the next Sync.
func (a *Action) Inject(sub xr.Path, v Value) error {
	if a.info.Type == xr.ActionTypeVibrationOutput {
		return xr.Errorf(xr.ErrorActionTypeMismatch, "", "cannot inject into an output action")
	}
	s, err := a.slot(sub)
	if err != nil {
		return err
	}
	s.pending = &v
	return nil
}

// Sync promotes pending values. A slot whose value differs from the last
// sync is flagged changed and stamped with now.
func (a *Action) Sync(now xr.Time) {
	for _, s := range a.slots {
		if s.pending == nil {
			s.Changed = false
			continue
		}
		v := *s.pending
		s.pending = nil
		s.Changed = s.Active && v != s.Value
		if !s.Active || s.Changed {
			s.LastChangeTime = now
		}
		s.Value = v
		s.Active = true
	}
}

// state returns the slot for sub, or the aggregate over all slots for the
// null path.
func (a *Action) state(want xr.ActionType, sub xr.Path) (State, error) {
	if a.info.Type != want {
		return State{}, xr.Errorf(xr.ErrorActionTypeMismatch, "", "action is %s, not %s", a.info.Type, want)
	}
	if sub != xr.NullPath {
		s, err := a.slot(sub)
		if err != nil {
			return State{}, err
		}
		return s.State, nil
	}

	var agg State
	for _, s := range a.slots {
		if !s.Active {
			continue
		}
		if !agg.Active || dominates(want, s.Value, agg.Value) {
			agg.Value = s.Value
		}
		agg.Active = true
		agg.Changed = agg.Changed || s.Changed
		if s.LastChangeTime > agg.LastChangeTime {
			agg.LastChangeTime = s.LastChangeTime
		}
	}
	return agg, nil
}

// dominates reports whether v wins over cur when combining subaction
// values: true beats false, larger magnitudes beat smaller ones.
func dominates(t xr.ActionType, v, cur Value) bool {
	switch t {
	case xr.ActionTypeBooleanInput:
		return v.Bool && !cur.Bool
	case xr.ActionTypeFloatInput:
		return math.Abs(float64(v.Float)) > math.Abs(float64(cur.Float))
	case xr.ActionTypeVector2fInput:
		return length(v.Vector) > length(cur.Vector)
	}
	return false
}

func length(v xr.Vector2f) float64 {
	return math.Hypot(float64(v.X), float64(v.Y))
}

// Boolean returns the state of a boolean action.
func (a *Action) Boolean(sub xr.Path) (State, error) {
	return a.state(xr.ActionTypeBooleanInput, sub)
}

// Float returns the state of a float action.
func (a *Action) Float(sub xr.Path) (State, error) {
	return a.state(xr.ActionTypeFloatInput, sub)
}

// Vector2f returns the state of a two-axis action.
func (a *Action) Vector2f(sub xr.Path) (State, error) {
	return a.state(xr.ActionTypeVector2fInput, sub)
}

// Pose reports whether a pose action is active.
func (a *Action) Pose(sub xr.Path) (bool, error) {
	st, err := a.state(xr.ActionTypePoseInput, sub)
	return st.Active, err
}
