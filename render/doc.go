// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the graphics layer of the device simulator: the
// device swapchain images live on, native image allocation and the
// per-session compositor objects.
//
// # Key Principle
//
// The runtime RECEIVES a device from the application when the session is
// created with a graphics binding, and only opens its own from a registered
// HAL backend when none is given. A received device is never destroyed by
// the runtime.
//
// # Core Types
//
//   - Binding: what a session is created with (any HAL device)
//   - Device: an opened or borrowed device; implements Allocator
//   - Image: one swapchain image (texture, backing memory and view)
//   - Compositor: presents projection layers into a display target on a
//     session's device (naga-compiled pipeline plus per-view copies)
//   - View: one eye of a projection layer handed to the compositor
//   - Backends: the registry of HAL backends a device can be opened from
//
// # Usage
//
//	dev, err := render.Open(nil, render.BackendNoop)
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//
//	img, err := dev.AllocateImage(render.ImageDescriptor{...})
//	if err != nil {
//	    return err
//	}
//	defer dev.FreeImage(img)
//
// # Teardown Order
//
// Images are freed view first, then memory, then texture. A device outlives
// every image allocated on it; the runtime frees swapchains before it closes
// session devices.
//
// # Thread Safety
//
// Device is safe for concurrent use. Images are not; the swapchain owning an
// image serializes access to it.
package render
