// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
)

// ImageDescriptor describes one swapchain image.
type ImageDescriptor struct {
	Label         string
	Format        gputypes.TextureFormat
	Usage         gputypes.TextureUsage
	Width         uint32
	Height        uint32
	ArrayLayers   uint32
	MipLevelCount uint32
	SampleCount   uint32
	// BytesPerPixel sizes the backing memory.
	BytesPerPixel uint32
}

// MemorySize returns the size of the backing memory of the first mip level
// across all array layers.
func (d *ImageDescriptor) MemorySize() uint64 {
	return uint64(d.Width) * uint64(d.Height) * uint64(d.ArrayLayers) * uint64(d.BytesPerPixel)
}

// Image is a native image with its backing memory and default view.
// Memory is a host-visible buffer holding the pixels of mip level 0.
type Image struct {
	Texture hal.Texture
	Memory  hal.Buffer
	View    hal.TextureView
	Desc    ImageDescriptor

	destroyed bool
}

// Destroyed reports whether the image was freed.
func (img *Image) Destroyed() bool { return img.destroyed }

// Allocator creates and frees native images.
type Allocator interface {
	AllocateImage(desc ImageDescriptor) (*Image, error)
	FreeImage(img *Image)
}

// AllocateImage creates the texture, its memory and its view. On failure
// every part already created is freed again.
func (d *Device) AllocateImage(desc ImageDescriptor) (*Image, error) {
	if d.isClosed() {
		return nil, ErrDeviceClosed
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, desc.Width, desc.Height)
	}
	if desc.ArrayLayers == 0 {
		desc.ArrayLayers = 1
	}
	if desc.MipLevelCount == 0 {
		desc.MipLevelCount = 1
	}
	if desc.SampleCount == 0 {
		desc.SampleCount = 1
	}

	img := &Image{Desc: desc}
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: desc.ArrayLayers,
		},
		MipLevelCount: desc.MipLevelCount,
		SampleCount:   desc.SampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("render: create texture: %w", err)
	}
	img.Texture = tex

	mem, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label + " memory",
		Size:  desc.MemorySize(),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageMapWrite | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		d.FreeImage(img)
		return nil, fmt.Errorf("render: create image memory: %w", err)
	}
	img.Memory = mem

	viewDim := gputypes.TextureViewDimension2D
	if desc.ArrayLayers > 1 {
		viewDim = gputypes.TextureViewDimension2DArray
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           desc.Label + " view",
		Format:          desc.Format,
		Dimension:       viewDim,
		Aspect:          gputypes.TextureAspectAll,
		BaseMipLevel:    0,
		MipLevelCount:   desc.MipLevelCount,
		BaseArrayLayer:  0,
		ArrayLayerCount: desc.ArrayLayers,
	})
	if err != nil {
		d.FreeImage(img)
		return nil, fmt.Errorf("render: create image view: %w", err)
	}
	img.View = view

	xrlog.Logger().Debug("render: image allocated",
		"label", desc.Label, "format", desc.Format.String(), "width", desc.Width, "height", desc.Height)
	return img, nil
}

// FreeImage releases the view, then the memory, then the texture. Freeing
// an image twice is a no-op.
func (d *Device) FreeImage(img *Image) {
	if img == nil || img.destroyed {
		return
	}
	img.destroyed = true
	if img.View != nil {
		d.device.DestroyTextureView(img.View)
		img.View = nil
	}
	if img.Memory != nil {
		d.device.DestroyBuffer(img.Memory)
		img.Memory = nil
	}
	if img.Texture != nil {
		d.device.DestroyTexture(img.Texture)
		img.Texture = nil
	}
}

// MapMemory exposes the pixel memory of img to fn. The mapping is released
// when fn returns.
func (d *Device) MapMemory(img *Image, fn func(pixels []byte) error) error {
	if img == nil || img.destroyed {
		return ErrImageDestroyed
	}
	size := img.Desc.MemorySize()
	m, err := d.device.MapBuffer(img.Memory, 0, size)
	if err != nil {
		return fmt.Errorf("render: map image memory: %w", err)
	}
	pixels := unsafeBytes(m.Ptr, size)
	ferr := fn(pixels)
	if err := d.device.UnmapBuffer(img.Memory); err != nil && ferr == nil {
		return fmt.Errorf("render: unmap image memory: %w", err)
	}
	return ferr
}
