// Package xrsim is an in-process conformance runtime for an OpenXR-style
// device API. It simulates a head-mounted display, its input subsystem and
// its graphics subsystem so applications can be driven through the full
// protocol without hardware.
//
// # Overview
//
// A [Runtime] owns every object an application creates: instances,
// sessions, spaces, action sets, actions and swapchains. Each public call
// is a method on the runtime. Failures are returned as errors carrying an
// [xr.Result] code; [Runtime.Result] turns any error into the code the
// protocol reports and logs the failure.
//
// # Quick Start
//
//	rt, err := xrsim.New(xrsim.WithFrameInterval(10 * time.Millisecond))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	inst, _ := rt.CreateInstance(xrsim.InstanceCreateInfo{
//	    ApplicationName: "demo",
//	    APIVersion:      xr.CurrentAPIVersion,
//	})
//	sys, _ := rt.GetSystem(inst, xr.FormFactorHeadMountedDisplay)
//	sess, _ := rt.CreateSession(inst, xrsim.SessionCreateInfo{SystemID: sys})
//
// # Lifecycle
//
// A session becomes Ready once it has at least one space, one swapchain and
// one attached action set. The application then begins it, runs the
// wait/begin/end frame loop, requests exit and ends it. Every state change
// is delivered through [Runtime.PollEvent].
//
// # Concurrency
//
// All methods are safe for concurrent use. Each object is guarded by its own
// lock; WaitFrame is the only call that blocks and it honors its context.
//
// # Graphics
//
// Sessions allocate swapchain images on a wgpu HAL device. Without an
// explicit binding the runtime opens the configured backend, the headless
// noop backend by default. Image memory is host visible so the mirror
// package can read frames back.
package xrsim

// Runtime identification reported by InstanceProperties and the manifest.
const (
	RuntimeName = "openxr-device-simulator"

	RuntimeVersionMajor = 0
	RuntimeVersionMinor = 0
	RuntimeVersionPatch = 1
)
