package xrsim

import (
	"github.com/davidrios/openxr-device-simulator/frame"
	"github.com/davidrios/openxr-device-simulator/swapchain"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// VendorID is reported for the simulated system.
const VendorID = 0x079c98d4

// SystemProperties describes the simulated head-mounted display.
type SystemProperties struct {
	SystemID   xr.SystemID
	VendorID   uint32
	SystemName string

	MaxSwapchainImageWidth  uint32
	MaxSwapchainImageHeight uint32
	MaxLayerCount           uint32

	OrientationTracking bool
	PositionTracking    bool
}

// GetSystem returns the system for formFactor. Only head-mounted displays
// are simulated.
func (r *Runtime) GetSystem(inst xr.Instance, formFactor xr.FormFactor) (xr.SystemID, error) {
	return withInstance(r, inst, func(*instance) (xr.SystemID, error) {
		switch formFactor {
		case xr.FormFactorHeadMountedDisplay:
			return xr.HMDSystemID, nil
		case xr.FormFactorHandheldDisplay:
			return 0, xr.Errorf(xr.ErrorFormFactorUnsupported, "", "handheld display")
		default:
			return 0, xr.Errorf(xr.ErrorValidationFailure, "", "form factor %d", formFactor)
		}
	})
}

// SystemProperties reports the capabilities of system.
func (r *Runtime) SystemProperties(inst xr.Instance, system xr.SystemID) (SystemProperties, error) {
	return withInstance(r, inst, func(*instance) (SystemProperties, error) {
		if system != xr.HMDSystemID {
			return SystemProperties{}, xr.Errorf(xr.ErrorSystemInvalid, "", "system %d", system)
		}
		return SystemProperties{
			SystemID:                xr.HMDSystemID,
			VendorID:                VendorID,
			SystemName:              RuntimeName,
			MaxSwapchainImageWidth:  swapchain.MaxImageSize,
			MaxSwapchainImageHeight: swapchain.MaxImageSize,
			MaxLayerCount:           frame.MaxLayers,
			OrientationTracking:     true,
			PositionTracking:        true,
		}, nil
	})
}
