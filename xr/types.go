// Package xr holds the protocol vocabulary shared by the runtime packages:
// handles, status codes, structure types, enumerations, poses and
// composition layers.
package xr

import (
	"fmt"
	"math"
	"time"
)

// Handles. Every family draws from one counter, so values never collide
// across families. Zero is the null handle.
type (
	Instance  uint64
	Session   uint64
	Space     uint64
	ActionSet uint64
	Action    uint64
	Swapchain uint64
)

// Path is an interned path string, scoped to one instance. Zero is the null path.
type Path uint64

// NullPath is the absent path.
const NullPath Path = 0

// SystemID identifies a simulated system.
type SystemID uint64

// HMDSystemID is the only system the simulator exposes.
const HMDSystemID SystemID = 1

// Time is nanoseconds since the runtime epoch.
type Time int64

// Duration is a span of nanoseconds.
type Duration int64

// InfiniteDuration waits forever.
const InfiniteDuration Duration = math.MaxInt64

// Std converts d to a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// DurationOf converts a time.Duration.
func DurationOf(d time.Duration) Duration { return Duration(d) }

// Version packs major.minor.patch as 16.16.32 bits.
type Version uint64

// MakeVersion builds a Version.
func MakeVersion(major, minor, patch uint32) Version {
	return Version(uint64(major&0xffff)<<48 | uint64(minor&0xffff)<<32 | uint64(patch))
}

// Major returns the major component.
func (v Version) Major() uint32 { return uint32(v>>48) & 0xffff }

// Minor returns the minor component.
func (v Version) Minor() uint32 { return uint32(v>>32) & 0xffff }

// Patch returns the patch component.
func (v Version) Patch() uint32 { return uint32(v) }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// CurrentAPIVersion is the protocol version the runtime implements.
var CurrentAPIVersion = MakeVersion(1, 0, 34)

// SessionState is the lifecycle state reported in state-change events.
type SessionState int32

const (
	SessionStateUnknown      SessionState = 0
	SessionStateIdle         SessionState = 1
	SessionStateReady        SessionState = 2
	SessionStateSynchronized SessionState = 3
	SessionStateVisible      SessionState = 4
	SessionStateFocused      SessionState = 5
	SessionStateStopping     SessionState = 6
	SessionStateLossPending  SessionState = 7
	SessionStateExiting      SessionState = 8
)

func (s SessionState) String() string {
	switch s {
	case SessionStateUnknown:
		return "UNKNOWN"
	case SessionStateIdle:
		return "IDLE"
	case SessionStateReady:
		return "READY"
	case SessionStateSynchronized:
		return "SYNCHRONIZED"
	case SessionStateVisible:
		return "VISIBLE"
	case SessionStateFocused:
		return "FOCUSED"
	case SessionStateStopping:
		return "STOPPING"
	case SessionStateLossPending:
		return "LOSS_PENDING"
	case SessionStateExiting:
		return "EXITING"
	}
	return fmt.Sprintf("SessionState(%d)", int32(s))
}

// FormFactor selects the kind of system requested.
type FormFactor int32

const (
	FormFactorHeadMountedDisplay FormFactor = 1
	FormFactorHandheldDisplay    FormFactor = 2
)

// ViewConfigurationType selects the view layout of a session.
type ViewConfigurationType int32

const (
	ViewConfigurationTypePrimaryMono   ViewConfigurationType = 1
	ViewConfigurationTypePrimaryStereo ViewConfigurationType = 2
)

// EnvironmentBlendMode describes how rendered frames blend with reality.
type EnvironmentBlendMode int32

const (
	EnvironmentBlendModeOpaque     EnvironmentBlendMode = 1
	EnvironmentBlendModeAdditive   EnvironmentBlendMode = 2
	EnvironmentBlendModeAlphaBlend EnvironmentBlendMode = 3
)

// ReferenceSpaceType names a well-known coordinate frame.
type ReferenceSpaceType int32

const (
	ReferenceSpaceTypeView       ReferenceSpaceType = 1
	ReferenceSpaceTypeLocal      ReferenceSpaceType = 2
	ReferenceSpaceTypeStage      ReferenceSpaceType = 3
	ReferenceSpaceTypeLocalFloor ReferenceSpaceType = 1000426000
)

func (t ReferenceSpaceType) String() string {
	switch t {
	case ReferenceSpaceTypeView:
		return "VIEW"
	case ReferenceSpaceTypeLocal:
		return "LOCAL"
	case ReferenceSpaceTypeStage:
		return "STAGE"
	case ReferenceSpaceTypeLocalFloor:
		return "LOCAL_FLOOR"
	}
	return fmt.Sprintf("ReferenceSpaceType(%d)", int32(t))
}

// ActionType is the value type carried by an action.
type ActionType int32

const (
	ActionTypeBooleanInput    ActionType = 1
	ActionTypeFloatInput      ActionType = 2
	ActionTypeVector2fInput   ActionType = 3
	ActionTypePoseInput       ActionType = 4
	ActionTypeVibrationOutput ActionType = 100
)

func (t ActionType) String() string {
	switch t {
	case ActionTypeBooleanInput:
		return "BOOLEAN_INPUT"
	case ActionTypeFloatInput:
		return "FLOAT_INPUT"
	case ActionTypeVector2fInput:
		return "VECTOR2F_INPUT"
	case ActionTypePoseInput:
		return "POSE_INPUT"
	case ActionTypeVibrationOutput:
		return "VIBRATION_OUTPUT"
	}
	return fmt.Sprintf("ActionType(%d)", int32(t))
}

// Vector2f is a 2D vector.
type Vector2f struct{ X, Y float32 }

// Vector3f is a 3D vector.
type Vector3f struct{ X, Y, Z float32 }

// Quaternionf is a rotation quaternion.
type Quaternionf struct{ X, Y, Z, W float32 }

// Posef is an orientation plus a position.
type Posef struct {
	Orientation Quaternionf
	Position    Vector3f
}

// IdentityPose has no rotation and no translation.
var IdentityPose = Posef{Orientation: Quaternionf{W: 1}}

// Fovf is a field of view, angles in radians.
type Fovf struct{ AngleLeft, AngleRight, AngleUp, AngleDown float32 }

// Extent2Di is an integer size.
type Extent2Di struct{ Width, Height int32 }

// Offset2Di is an integer offset.
type Offset2Di struct{ X, Y int32 }

// Rect2Di is an integer rectangle.
type Rect2Di struct {
	Offset Offset2Di
	Extent Extent2Di
}

// Extent2Df is a size in meters.
type Extent2Df struct{ Width, Height float32 }

// SpaceLocationFlags report which parts of a located pose are valid.
type SpaceLocationFlags uint64

const (
	SpaceLocationOrientationValid   SpaceLocationFlags = 1 << 0
	SpaceLocationPositionValid      SpaceLocationFlags = 1 << 1
	SpaceLocationOrientationTracked SpaceLocationFlags = 1 << 2
	SpaceLocationPositionTracked    SpaceLocationFlags = 1 << 3
)

// SpaceLocation is the result of locating a space.
type SpaceLocation struct {
	Flags SpaceLocationFlags
	Pose  Posef
}
