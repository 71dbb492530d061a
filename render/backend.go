// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// Backend names.
const (
	// BackendNoop is the in-memory HAL backend. Resources it creates hold
	// plain byte slices, which is all the simulated compositor needs.
	BackendNoop = "noop"
)

// Backends is a registry of HAL backends a session device can be opened
// from. Applications running against real hardware register their own
// backend (Vulkan, Metal) and select it by name in the runtime config.
type Backends = gpucontext.Registry[hal.Backend]

// NewBackends returns a registry holding the noop backend.
func NewBackends() *Backends {
	r := gpucontext.NewRegistry[hal.Backend](gpucontext.WithPriority(BackendNoop))
	r.Register(BackendNoop, func() hal.Backend { return noop.API{} })
	return r
}

var defaultBackends = NewBackends()

// DefaultBackends returns the process-wide backend registry.
func DefaultBackends() *Backends { return defaultBackends }
