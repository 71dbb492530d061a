package input

import (
	"errors"
	"testing"

	"github.com/davidrios/openxr-device-simulator/xr"
)

func resolver(known map[xr.Path]string) func(xr.Path) (string, error) {
	return func(p xr.Path) (string, error) {
		s, ok := known[p]
		if !ok {
			return "", xr.ErrorPathInvalid
		}
		if s != "/user/hand/left" && s != "/user/hand/right" {
			return "", xr.ErrorPathUnsupported
		}
		return s, nil
	}
}

const (
	left  xr.Path = 1
	right xr.Path = 2
	other xr.Path = 3
)

var known = map[xr.Path]string{left: "/user/hand/left", right: "/user/hand/right", other: "/user/hand/left/input"}

func newAction(t *testing.T, typ xr.ActionType, subs ...xr.Path) *Action {
	t.Helper()
	a, err := NewAction(10, 1, ActionCreateInfo{
		Name:           "grab",
		LocalizedName:  "Grab",
		Type:           typ,
		SubactionPaths: subs,
	}, resolver(known))
	if err != nil {
		t.Fatalf("NewAction: %v", err)
	}
	return a
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"gameplay", true},
		{"menu-1.main_x", true},
		{"", false},
		{"Gameplay", false},
		{"with space", false},
		{string(make([]byte, MaxNameSize)), false},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateName(%q) = %v", tt.name, err)
		}
		if err != nil && !errors.Is(err, xr.ErrorNameInvalid) {
			t.Errorf("ValidateName(%q) code = %v", tt.name, xr.ResultOf(err))
		}
	}
}

func TestNamesDuplicates(t *testing.T) {
	n := NewNames()
	composed := "Caf\u00e9"
	decomposed := "Cafe\u0301"
	if err := n.Check("set", composed); err != nil {
		t.Fatal(err)
	}
	n.Add("set", composed)

	if err := n.Check("set", "Other"); !errors.Is(err, xr.ErrorNameDuplicated) {
		t.Errorf("duplicate name = %v", err)
	}
	if err := n.Check("set2", decomposed); !errors.Is(err, xr.ErrorLocalizedNameDuplicated) {
		t.Errorf("duplicate localized name = %v", err)
	}
	if err := n.Check("set2", ""); !errors.Is(err, xr.ErrorLocalizedNameInvalid) {
		t.Errorf("empty localized name = %v", err)
	}

	n.Remove("set", decomposed)
	if err := n.Check("set", composed); err != nil {
		t.Errorf("after Remove: %v", err)
	}
}

func TestNewActionSubactionPaths(t *testing.T) {
	tests := []struct {
		name string
		subs []xr.Path
		want xr.Result
	}{
		{"unknown", []xr.Path{99}, xr.ErrorPathInvalid},
		{"not top level", []xr.Path{other}, xr.ErrorPathUnsupported},
		{"duplicate", []xr.Path{left, left}, xr.ErrorPathUnsupported},
		{"null", []xr.Path{xr.NullPath}, xr.ErrorPathInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAction(1, 1, ActionCreateInfo{Name: "a", LocalizedName: "A", Type: xr.ActionTypeBooleanInput, SubactionPaths: tt.subs}, resolver(known))
			if xr.ResultOf(err) != tt.want {
				t.Errorf("NewAction = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := NewAction(1, 1, ActionCreateInfo{Name: "a", LocalizedName: "A", Type: 7}, resolver(known)); !errors.Is(err, xr.ErrorValidationFailure) {
		t.Errorf("bad type = %v", err)
	}
}

func TestSyncPromotesPendingValues(t *testing.T) {
	a := newAction(t, xr.ActionTypeBooleanInput, left, right)

	st, err := a.Boolean(left)
	if err != nil {
		t.Fatal(err)
	}
	if st.Active || st.Bool {
		t.Errorf("fresh state = %+v", st)
	}

	if err := a.Inject(left, Value{Bool: true}); err != nil {
		t.Fatal(err)
	}
	st, _ = a.Boolean(left)
	if st.Active {
		t.Error("injected value visible before sync")
	}

	a.Sync(100)
	st, _ = a.Boolean(left)
	if !st.Active || !st.Bool || st.Changed || st.LastChangeTime != 100 {
		t.Errorf("after first sync = %+v", st)
	}

	_ = a.Inject(left, Value{Bool: false})
	a.Sync(200)
	st, _ = a.Boolean(left)
	if !st.Changed || st.Bool || st.LastChangeTime != 200 {
		t.Errorf("after change = %+v", st)
	}

	a.Sync(300)
	st, _ = a.Boolean(left)
	if st.Changed || st.LastChangeTime != 200 {
		t.Errorf("after idle sync = %+v", st)
	}
}

func TestNullPathAggregates(t *testing.T) {
	a := newAction(t, xr.ActionTypeFloatInput, left, right)
	_ = a.Inject(left, Value{Float: 0.25})
	_ = a.Inject(right, Value{Float: -0.75})
	a.Sync(10)

	st, err := a.Float(xr.NullPath)
	if err != nil {
		t.Fatal(err)
	}
	if !st.Active || st.Float != -0.75 {
		t.Errorf("aggregate = %+v", st)
	}
}

func TestStateErrors(t *testing.T) {
	a := newAction(t, xr.ActionTypeVector2fInput, left)
	if _, err := a.Boolean(left); !errors.Is(err, xr.ErrorActionTypeMismatch) {
		t.Errorf("type mismatch = %v", err)
	}
	if _, err := a.Vector2f(right); !errors.Is(err, xr.ErrorPathUnsupported) {
		t.Errorf("foreign subaction = %v", err)
	}
	if err := a.Inject(right, Value{}); !errors.Is(err, xr.ErrorPathUnsupported) {
		t.Errorf("inject foreign subaction = %v", err)
	}

	haptic := newAction(t, xr.ActionTypeVibrationOutput)
	if err := haptic.Inject(xr.NullPath, Value{}); !errors.Is(err, xr.ErrorActionTypeMismatch) {
		t.Errorf("inject output = %v", err)
	}

	pose := newAction(t, xr.ActionTypePoseInput, right)
	_ = pose.Inject(right, Value{})
	pose.Sync(1)
	if active, err := pose.Pose(right); err != nil || !active {
		t.Errorf("Pose = (%v, %v)", active, err)
	}
}

func TestActionSetLifecycle(t *testing.T) {
	s := NewActionSet(5, 1, ActionSetCreateInfo{Name: "gameplay", LocalizedName: "Gameplay"})
	info := ActionCreateInfo{Name: "jump", LocalizedName: "Jump", Type: xr.ActionTypeBooleanInput}
	if err := s.CheckAction(info); err != nil {
		t.Fatal(err)
	}
	s.AddAction(6, info)
	if err := s.CheckAction(info); !errors.Is(err, xr.ErrorNameDuplicated) {
		t.Errorf("duplicate action = %v", err)
	}
	if got := s.Actions(); len(got) != 1 || got[0] != 6 {
		t.Errorf("Actions = %v", got)
	}

	if err := s.Attach(); err != nil {
		t.Fatal(err)
	}
	if err := s.Attach(); !errors.Is(err, xr.ErrorActionsetsAlreadyAttached) {
		t.Errorf("second Attach = %v", err)
	}
	info.Name, info.LocalizedName = "duck", "Duck"
	if err := s.CheckAction(info); !errors.Is(err, xr.ErrorActionsetsAlreadyAttached) {
		t.Errorf("action after attach = %v", err)
	}

	s.RemoveAction(6, "Jump")
	if len(s.Actions()) != 0 {
		t.Error("action not removed")
	}
}

func TestBindingPaths(t *testing.T) {
	if err := CheckProfilePath("/interaction_profiles/khr/simple_controller"); err != nil {
		t.Error(err)
	}
	if err := CheckProfilePath("/user/hand/left"); !errors.Is(err, xr.ErrorPathUnsupported) {
		t.Errorf("profile = %v", err)
	}
	if err := CheckBindingPath("/user/hand/left/input/select/click"); err != nil {
		t.Error(err)
	}
	if err := CheckBindingPath("/user/hand/left"); !errors.Is(err, xr.ErrorPathUnsupported) {
		t.Errorf("binding = %v", err)
	}

	b := NewBindings()
	b.Suggest(1, []SuggestedBinding{{Action: 7, Binding: 2}, {Action: 8, Binding: 3}})
	b.Forget(7)
	if got := b.Profile(1); len(got) != 1 || got[0].Action != 8 {
		t.Errorf("Profile = %+v", got)
	}
}
