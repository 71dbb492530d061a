package space

import (
	"errors"
	"math"
	"testing"

	"github.com/davidrios/openxr-device-simulator/internal/paths"
	"github.com/davidrios/openxr-device-simulator/xr"
)

const eps = 1e-5

func near(a, b float32) bool { return math.Abs(float64(a-b)) < eps }

func nearVec(a, b xr.Vector3f) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func nearPose(a, b xr.Posef) bool {
	qa, qb := a.Orientation, b.Orientation
	sameQuat := near(qa.X, qb.X) && near(qa.Y, qb.Y) && near(qa.Z, qb.Z) && near(qa.W, qb.W)
	negQuat := near(qa.X, -qb.X) && near(qa.Y, -qb.Y) && near(qa.Z, -qb.Z) && near(qa.W, -qb.W)
	return (sameQuat || negQuat) && nearVec(a.Position, b.Position)
}

// yaw90 turns a quarter to the left around +Y.
var yaw90 = xr.Quaternionf{Y: float32(math.Sin(math.Pi / 4)), W: float32(math.Cos(math.Pi / 4))}

func mustReference(t *testing.T, typ xr.ReferenceSpaceType, pose xr.Posef) *Space {
	t.Helper()
	s, err := NewReference(1, 1, typ, pose)
	if err != nil {
		t.Fatalf("NewReference(%s): %v", typ, err)
	}
	return s
}

func TestReferenceTypes(t *testing.T) {
	types := ReferenceTypes()
	if len(types) != 3 {
		t.Fatalf("ReferenceTypes = %v", types)
	}
	if _, err := NewReference(1, 1, xr.ReferenceSpaceTypeStage, xr.IdentityPose); !errors.Is(err, xr.ErrorReferenceSpaceUnsupported) {
		t.Errorf("stage = %v", err)
	}
}

func TestValidatePose(t *testing.T) {
	if err := ValidatePose(xr.IdentityPose); err != nil {
		t.Error(err)
	}
	if err := ValidatePose(xr.Posef{}); !errors.Is(err, xr.ErrorPoseInvalid) {
		t.Errorf("zero quaternion = %v", err)
	}
	if err := ValidatePose(xr.Posef{Orientation: xr.Quaternionf{W: 2}}); !errors.Is(err, xr.ErrorPoseInvalid) {
		t.Errorf("scaled quaternion = %v", err)
	}
	nan := float32(math.NaN())
	if err := ValidatePose(xr.Posef{Orientation: xr.Quaternionf{W: nan}}); !errors.Is(err, xr.ErrorPoseInvalid) {
		t.Errorf("NaN quaternion = %v", err)
	}
}

func TestRotate(t *testing.T) {
	got := Rotate(yaw90, xr.Vector3f{X: 1})
	if !nearVec(got, xr.Vector3f{Z: -1}) {
		t.Errorf("Rotate = %+v", got)
	}
}

func TestComposeInverse(t *testing.T) {
	p := xr.Posef{Orientation: yaw90, Position: xr.Vector3f{X: 1, Y: 2, Z: 3}}
	if got := Compose(p, Inverse(p)); !nearPose(got, xr.IdentityPose) {
		t.Errorf("p * p^-1 = %+v", got)
	}
	if got := Compose(Inverse(p), p); !nearPose(got, xr.IdentityPose) {
		t.Errorf("p^-1 * p = %+v", got)
	}
}

func TestLocate(t *testing.T) {
	floor := mustReference(t, xr.ReferenceSpaceTypeLocalFloor, xr.IdentityPose)
	view := mustReference(t, xr.ReferenceSpaceTypeView, xr.IdentityPose)
	local := mustReference(t, xr.ReferenceSpaceTypeLocal, xr.IdentityPose)

	loc, err := Locate(view, floor, 1)
	if err != nil {
		t.Fatal(err)
	}
	if loc.Flags != 0b1111 {
		t.Errorf("flags = %b", loc.Flags)
	}
	if !nearPose(loc.Pose, HeadPose) {
		t.Errorf("view in floor = %+v", loc.Pose)
	}

	loc, _ = Locate(view, local, 1)
	if !nearPose(loc.Pose, xr.IdentityPose) {
		t.Errorf("view in local = %+v", loc.Pose)
	}

	left, err := NewAction(2, 1, 9, paths.UserHandLeft, xr.IdentityPose)
	if err != nil {
		t.Fatal(err)
	}
	loc, _ = Locate(left, local, 1)
	want := xr.Vector3f{X: -0.2, Y: -0.4, Z: -0.3}
	if !nearVec(loc.Pose.Position, want) {
		t.Errorf("left hand in local = %+v, want %+v", loc.Pose.Position, want)
	}
}

func TestLocateOffsetSpace(t *testing.T) {
	floor := mustReference(t, xr.ReferenceSpaceTypeLocalFloor, xr.IdentityPose)
	turned := mustReference(t, xr.ReferenceSpaceTypeLocalFloor, xr.Posef{Orientation: yaw90, Position: xr.Vector3f{X: 1}})

	// a point one meter ahead along -Z of the turned space sits at x=0
	ahead := mustReference(t, xr.ReferenceSpaceTypeLocalFloor, Compose(turned.Offset(), xr.Posef{Orientation: xr.IdentityPose.Orientation, Position: xr.Vector3f{Z: -1}}))
	loc, _ := Locate(ahead, floor, 1)
	if !nearVec(loc.Pose.Position, xr.Vector3f{X: 0}) {
		t.Errorf("ahead in floor = %+v", loc.Pose.Position)
	}

	loc, _ = Locate(floor, turned, 1)
	if !nearPose(Compose(turned.World(), loc.Pose), floor.World()) {
		t.Errorf("round trip through turned space = %+v", loc.Pose)
	}
}

func TestLocateInvalidTime(t *testing.T) {
	s := mustReference(t, xr.ReferenceSpaceTypeLocal, xr.IdentityPose)
	if _, err := Locate(s, s, 0); !errors.Is(err, xr.ErrorTimeInvalid) {
		t.Errorf("Locate at 0 = %v", err)
	}
}
