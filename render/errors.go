// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

var (
	// ErrBackendNotAvailable is returned when no HAL backend is registered
	// under the requested name.
	ErrBackendNotAvailable = errors.New("render: backend not available")

	// ErrNoAdapter is returned when a backend exposes no adapter.
	ErrNoAdapter = errors.New("render: no adapter available")

	// ErrDeviceClosed is returned when a closed device is used.
	ErrDeviceClosed = errors.New("render: device closed")

	// ErrInvalidDimensions is returned for zero-sized images.
	ErrInvalidDimensions = errors.New("render: invalid dimensions")

	// ErrImageDestroyed is returned when a freed image is accessed.
	ErrImageDestroyed = errors.New("render: image destroyed")
)
