package xr

import (
	"errors"
	"fmt"
	"testing"
)

func TestResultString(t *testing.T) {
	tests := []struct {
		r    Result
		want string
	}{
		{Success, "XR_SUCCESS"},
		{FrameDiscarded, "XR_FRAME_DISCARDED"},
		{ErrorCallOrderInvalid, "XR_ERROR_CALL_ORDER_INVALID"},
		{ErrorSwapchainFormatUnsupported, "XR_ERROR_SWAPCHAIN_FORMAT_UNSUPPORTED"},
		{Result(42), "XR_UNKNOWN_SUCCESS_42"},
		{Result(-999), "XR_UNKNOWN_FAILURE_999"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Result(%d).String() = %q, want %q", int32(tt.r), got, tt.want)
		}
	}
}

func TestStructureTypeString(t *testing.T) {
	if got := TypeEventDataSessionStateChanged.String(); got != "XR_TYPE_EVENT_DATA_SESSION_STATE_CHANGED" {
		t.Errorf("got %q", got)
	}
	if got := StructureType(7777).String(); got != "XR_UNKNOWN_STRUCTURE_TYPE_7777" {
		t.Errorf("got %q", got)
	}
}

func TestResultOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &Error{Code: ErrorSessionLost, Op: "xrBeginSession"})
	tests := []struct {
		name string
		err  error
		want Result
	}{
		{"nil", nil, Success},
		{"bare code", ErrorCallOrderInvalid, ErrorCallOrderInvalid},
		{"wrapped code", fmt.Errorf("ctx: %w", ErrorPathInvalid), ErrorPathInvalid},
		{"xr error", wrapped, ErrorSessionLost},
		{"plain error", errors.New("boom"), ErrorRuntimeFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultOf(tt.err); got != tt.want {
				t.Errorf("ResultOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := Errorf(ErrorValidationFailure, "xrCreateSwapchain", "width %d", 0)
	if !errors.Is(err, ErrorValidationFailure) {
		t.Error("errors.Is should match the code")
	}
	if errors.Is(err, ErrorRuntimeFailure) {
		t.Error("errors.Is matched the wrong code")
	}
	if Wrap(ErrorRuntimeFailure, "op", nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}
}

func TestVersion(t *testing.T) {
	v := MakeVersion(1, 2, 3)
	if v.Major() != 1 || v.Minor() != 2 || v.Patch() != 3 {
		t.Errorf("components = %d.%d.%d", v.Major(), v.Minor(), v.Patch())
	}
	if v.String() != "1.2.3" {
		t.Errorf("String() = %q", v.String())
	}
}
