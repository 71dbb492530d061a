package xrsim

import (
	"github.com/davidrios/openxr-device-simulator/xr"
)

// The simulator drives no haptics and has no real input sources. These
// calls exist so an application gets a defined answer.

// ApplyHapticFeedback is not supported.
func (r *Runtime) ApplyHapticFeedback(s xr.Session, a xr.Action, sub xr.Path, duration xr.Duration) error {
	return xr.Errorf(xr.ErrorFunctionUnsupported, "ApplyHapticFeedback", "no haptic devices")
}

// StopHapticFeedback is not supported.
func (r *Runtime) StopHapticFeedback(s xr.Session, a xr.Action, sub xr.Path) error {
	return xr.Errorf(xr.ErrorFunctionUnsupported, "StopHapticFeedback", "no haptic devices")
}

// EnumerateBoundSources is not supported.
func (r *Runtime) EnumerateBoundSources(s xr.Session, a xr.Action, capacity uint32, out []xr.Path) (uint32, error) {
	return 0, xr.Errorf(xr.ErrorFunctionUnsupported, "EnumerateBoundSources", "no input sources")
}

// InputSourceLocalizedName is not supported.
func (r *Runtime) InputSourceLocalizedName(s xr.Session, source xr.Path, capacity uint32, buf []byte) (uint32, error) {
	return 0, xr.Errorf(xr.ErrorFunctionUnsupported, "InputSourceLocalizedName", "no input sources")
}

// CurrentInteractionProfile is not supported.
func (r *Runtime) CurrentInteractionProfile(s xr.Session, topLevel xr.Path) (xr.Path, error) {
	return xr.NullPath, xr.Errorf(xr.ErrorFunctionUnsupported, "CurrentInteractionProfile", "no input sources")
}
