// Package space implements reference and action spaces over a simulated
// device that never moves.
package space

import (
	"github.com/davidrios/openxr-device-simulator/internal/paths"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// Kind tells reference spaces from action spaces.
type Kind int

const (
	KindReference Kind = iota
	KindAction
)

// Simulated device origins, in the floor-level frame.
var (
	HeadPose      = xr.Posef{Orientation: xr.IdentityPose.Orientation, Position: xr.Vector3f{Y: 1.6}}
	LeftHandPose  = xr.Posef{Orientation: xr.IdentityPose.Orientation, Position: xr.Vector3f{X: -0.2, Y: 1.2, Z: -0.3}}
	RightHandPose = xr.Posef{Orientation: xr.IdentityPose.Orientation, Position: xr.Vector3f{X: 0.2, Y: 1.2, Z: -0.3}}
	GamepadPose   = xr.Posef{Orientation: xr.IdentityPose.Orientation, Position: xr.Vector3f{Y: 1.0, Z: -0.4}}
)

var referenceTypes = []xr.ReferenceSpaceType{
	xr.ReferenceSpaceTypeView,
	xr.ReferenceSpaceTypeLocal,
	xr.ReferenceSpaceTypeLocalFloor,
}

// ReferenceTypes returns the supported reference space types.
func ReferenceTypes() []xr.ReferenceSpaceType {
	return append([]xr.ReferenceSpaceType(nil), referenceTypes...)
}

// IsSupported reports whether t can be created.
func IsSupported(t xr.ReferenceSpaceType) bool {
	for _, r := range referenceTypes {
		if r == t {
			return true
		}
	}
	return false
}

// Space is a frame of reference: a device origin and an offset from it.
type Space struct {
	id      xr.Space
	session xr.Session
	kind    Kind
	refType xr.ReferenceSpaceType
	action  xr.Action
	device  string
	offset  xr.Posef
}

// NewReference returns a reference space of type t offset by pose.
func NewReference(id xr.Space, session xr.Session, t xr.ReferenceSpaceType, pose xr.Posef) (*Space, error) {
	if !IsSupported(t) {
		return nil, xr.Errorf(xr.ErrorReferenceSpaceUnsupported, "", "%s", t)
	}
	if err := ValidatePose(pose); err != nil {
		return nil, err
	}
	return &Space{id: id, session: session, kind: KindReference, refType: t, offset: pose}, nil
}

// NewAction returns a space that follows the device named by the
// subaction path string of a pose action. An empty device follows the
// first device the action could be bound to, which the simulator treats
// as the gamepad.
func NewAction(id xr.Space, session xr.Session, action xr.Action, device string, pose xr.Posef) (*Space, error) {
	if err := ValidatePose(pose); err != nil {
		return nil, err
	}
	return &Space{id: id, session: session, kind: KindAction, action: action, device: device, offset: pose}, nil
}

func (s *Space) ID() xr.Space                         { return s.id }
func (s *Space) Session() xr.Session                  { return s.session }
func (s *Space) Kind() Kind                           { return s.kind }
func (s *Space) ReferenceType() xr.ReferenceSpaceType { return s.refType }
func (s *Space) Action() xr.Action                    { return s.action }
func (s *Space) Offset() xr.Posef                     { return s.offset }

func (s *Space) origin() xr.Posef {
	if s.kind == KindReference {
		switch s.refType {
		case xr.ReferenceSpaceTypeView, xr.ReferenceSpaceTypeLocal:
			return HeadPose
		default:
			return xr.IdentityPose
		}
	}
	switch s.device {
	case paths.UserHead:
		return HeadPose
	case paths.UserHandLeft:
		return LeftHandPose
	case paths.UserHandRight:
		return RightHandPose
	default:
		return GamepadPose
	}
}

// World returns the pose of the space in the floor-level frame.
func (s *Space) World() xr.Posef {
	return Compose(s.origin(), s.offset)
}

// Locate returns the pose of s relative to base at time t. The simulated
// device is always tracked.
func Locate(s, base *Space, t xr.Time) (xr.SpaceLocation, error) {
	if t <= 0 {
		return xr.SpaceLocation{}, xr.Errorf(xr.ErrorTimeInvalid, "", "time %d", t)
	}
	return xr.SpaceLocation{
		Flags: xr.SpaceLocationOrientationValid | xr.SpaceLocationPositionValid |
			xr.SpaceLocationOrientationTracked | xr.SpaceLocationPositionTracked,
		Pose: Compose(Inverse(base.World()), s.World()),
	}, nil
}
