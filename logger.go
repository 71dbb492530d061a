package xrsim

import (
	"log/slog"

	"github.com/gogpu/wgpu/hal"

	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
)

// SetLogger configures the logger for xrsim and all its sub-packages, and
// for the wgpu HAL layer the graphics subsystem runs on.
// By default, xrsim produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by xrsim:
//   - [slog.LevelDebug]: state transitions, image allocations, frames
//   - [slog.LevelInfo]: instance and session lifecycle, device selection
//   - [slog.LevelWarn]: calls that failed with an error code
//   - [slog.LevelError]: unexpected runtime failures
//
// Example:
//
//	// Enable debug-level logging for full diagnostics:
//	xrsim.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	xrlog.Set(l)
	hal.SetLogger(l)
}

// Logger returns the current logger used by xrsim.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return xrlog.Logger()
}
