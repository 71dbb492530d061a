// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
)

// Binding is the graphics binding a session is created with: the device
// swapchain images are allocated on.
//
// The runtime RECEIVES the device from the application when one is given
// and opens its own from the configured backend otherwise.
type Binding interface {
	HALDevice() hal.Device
}

// Device is a HAL device plus, when the runtime opened it, the instance it
// came from. It implements Binding and Allocator.
type Device struct {
	mu       sync.Mutex
	instance hal.Instance // nil when the device is borrowed
	device   hal.Device
	queue    hal.Queue
	name     string
	closed   bool
}

// Open creates a device from the named backend in r. It picks the first
// adapter the backend exposes.
func Open(r *Backends, name string) (*Device, error) {
	if r == nil {
		r = DefaultBackends()
	}
	if !r.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	backend := r.Get(name)

	instance, err := backend.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("render: create %s instance: %w", name, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: backend %q", ErrNoAdapter, name)
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("render: open %s adapter: %w", name, err)
	}

	xrlog.Logger().Info("render: device opened", "backend", name, "adapter", adapters[0].Info.Name)
	return &Device{instance: instance, device: open.Device, queue: open.Queue, name: name}, nil
}

// Wrap adapts a device owned by the application. Close does not destroy it.
func Wrap(device hal.Device, queue hal.Queue) *Device {
	return &Device{device: device, queue: queue, name: "external"}
}

// HALDevice implements Binding.
func (d *Device) HALDevice() hal.Device { return d.device }

// Queue returns the device queue.
func (d *Device) Queue() hal.Queue { return d.queue }

// Backend returns the backend name the device was opened from, or
// "external" for wrapped devices.
func (d *Device) Backend() string { return d.name }

// Owned reports whether Close destroys the device.
func (d *Device) Owned() bool { return d.instance != nil }

// Close destroys a device the runtime opened. It is safe to call more than once.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.instance == nil {
		return
	}
	d.device.Destroy()
	d.instance.Destroy()
	xrlog.Logger().Debug("render: device closed", "backend", d.name)
}

func (d *Device) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Borrow returns a Device for b that Close leaves alone, so a session can
// release its device without destroying one the application owns.
func Borrow(b Binding) *Device {
	if d, ok := b.(*Device); ok {
		return Wrap(d.device, d.queue)
	}
	return Wrap(b.HALDevice(), nil)
}
