package paths

import (
	"errors"
	"testing"

	"github.com/davidrios/openxr-device-simulator/xr"
)

func TestInternIsStable(t *testing.T) {
	tbl := New()
	a, err := tbl.Intern(UserHandLeft)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tbl.Intern(UserHandRight)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := tbl.Intern(UserHandLeft)

	if a == xr.NullPath || a == b {
		t.Errorf("ids a=%d b=%d", a, b)
	}
	if again != a {
		t.Errorf("re-interning gave %d, want %d", again, a)
	}
	if s, _ := tbl.String(b); s != UserHandRight {
		t.Errorf("String(b) = %q", s)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len = %d", tbl.Len())
	}
}

func TestStringUnknown(t *testing.T) {
	tbl := New()
	if _, err := tbl.String(99); !errors.Is(err, xr.ErrorPathInvalid) {
		t.Errorf("err = %v, want path invalid", err)
	}
}

func TestValidate(t *testing.T) {
	good := []string{
		"/user/head",
		"/interaction_profiles/khr/simple_controller",
		"/user/hand/left/input/select/click",
		"/a.b-c_d",
	}
	for _, s := range good {
		if err := Validate(s); err != nil {
			t.Errorf("Validate(%q) = %v", s, err)
		}
	}
	bad := []string{"", "/", "user/head", "/user/", "/user//head", "/User/head", "/user/../head", "/user/he ad"}
	for _, s := range bad {
		if err := Validate(s); !errors.Is(err, xr.ErrorPathFormatInvalid) {
			t.Errorf("Validate(%q) = %v, want path format invalid", s, err)
		}
	}
}

func TestCheckSubaction(t *testing.T) {
	tbl := New()
	head, _ := tbl.Intern(UserHead)
	other, _ := tbl.Intern("/user/treadmill")

	if _, err := tbl.CheckSubaction(head); err != nil {
		t.Errorf("head: %v", err)
	}
	if _, err := tbl.CheckSubaction(other); !errors.Is(err, xr.ErrorPathUnsupported) {
		t.Errorf("other: %v, want path unsupported", err)
	}
	if _, err := tbl.CheckSubaction(12345); !errors.Is(err, xr.ErrorPathInvalid) {
		t.Errorf("unknown: %v, want path invalid", err)
	}
}
