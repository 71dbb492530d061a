// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
)

// compositorWGSL draws a full-screen triangle. The compositor clears the
// display target with it before copying the submitted views in.
const compositorWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    var pos = array<vec2<f32>, 3>(
        vec2<f32>(-1.0, -1.0),
        vec2<f32>(3.0, -1.0),
        vec2<f32>(-1.0, 3.0)
    );
    return vec4<f32>(pos[idx], 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

// CompileShaderToSPIRV compiles WGSL source to SPIR-V words.
func CompileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	opts := naga.DefaultOptions()
	opts.Validate = false
	spirvBytes, err := naga.CompileWithOptions(wgslSource, opts)
	if err != nil {
		return nil, fmt.Errorf("render: compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// View is one eye of a submitted projection layer: the released image and
// the rectangle of it that is shown.
type View struct {
	Image *Image
	X, Y  uint32
	Width uint32
	// Height of the rectangle.
	Height uint32
}

// CompositorStats counts the work a compositor has submitted.
type CompositorStats struct {
	Frames  uint64
	Views   uint64
	Skipped uint64
}

// Compositor presents projection layers on a session's device. Each Compose
// clears a display target with the full-screen pipeline and copies every
// view side by side into it.
type Compositor struct {
	device *Device
	shader hal.ShaderModule
	layout hal.PipelineLayout
	words  int

	mu       sync.Mutex
	pipeline hal.RenderPipeline
	display  *Image
	stats    CompositorStats
}

// NewCompositor compiles the compositor shader and creates its module and
// pipeline layout on d.
func NewCompositor(d *Device) (*Compositor, error) {
	if d.isClosed() {
		return nil, ErrDeviceClosed
	}
	words, err := CompileShaderToSPIRV(compositorWGSL)
	if err != nil {
		return nil, err
	}
	device := d.HALDevice()
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "xrsim compositor",
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("render: create compositor shader: %w", err)
	}
	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{Label: "xrsim compositor layout"})
	if err != nil {
		device.DestroyShaderModule(module)
		return nil, fmt.Errorf("render: create compositor layout: %w", err)
	}
	xrlog.Logger().Debug("render: compositor ready", "spirv_words", len(words))
	return &Compositor{device: d, shader: module, layout: layout, words: len(words)}, nil
}

// SPIRVWords returns the size of the compiled shader.
func (c *Compositor) SPIRVWords() int { return c.words }

// Stats returns the work submitted so far.
func (c *Compositor) Stats() CompositorStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// DisplaySize returns the size of the display target, or zero before the
// first Compose.
func (c *Compositor) DisplaySize() (width, height uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.display == nil {
		return 0, 0
	}
	return c.display.Desc.Width, c.display.Desc.Height
}

// Compose presents one projection layer. The display target takes the
// format of the first view; views in another format or with a freed image
// are skipped.
func (c *Compositor) Compose(views []View) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shader == nil {
		return ErrDeviceClosed
	}

	views = append([]View(nil), views...)
	var first *Image
	var width, height uint32
	for i := range views {
		v := &views[i]
		if v.Image == nil || v.Image.destroyed {
			continue
		}
		clampView(v)
		if first == nil {
			first = v.Image
		}
		width += v.Width
		height = max(height, v.Height)
	}
	if first == nil {
		c.stats.Skipped += uint64(len(views))
		return nil
	}
	if err := c.prepare(first.Desc, width, height); err != nil {
		return err
	}

	queue := c.device.Queue()
	if queue == nil {
		return fmt.Errorf("render: device %q has no queue", c.device.Backend())
	}
	hd := c.device.HALDevice()
	enc, err := hd.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "xrsim compose"})
	if err != nil {
		return fmt.Errorf("render: create compose encoder: %w", err)
	}
	defer enc.Destroy()
	if err := enc.BeginEncoding("xrsim compose"); err != nil {
		return fmt.Errorf("render: begin compose: %w", err)
	}

	pass := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "xrsim compose background",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       c.display.View,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{A: 1},
		}},
	})
	pass.SetPipeline(c.pipeline)
	pass.Draw(3, 1, 0, 0)
	pass.End()

	var x uint32
	var copied, skipped uint64
	for _, v := range views {
		if v.Image == nil || v.Image.destroyed || v.Image.Desc.Format != c.display.Desc.Format || v.Width == 0 || v.Height == 0 {
			skipped++
			continue
		}
		enc.CopyTextureToTexture(v.Image.Texture, c.display.Texture, []hal.TextureCopy{{
			SrcBase: hal.ImageCopyTexture{
				Texture: v.Image.Texture,
				Origin:  hal.Origin3D{X: v.X, Y: v.Y},
				Aspect:  gputypes.TextureAspectAll,
			},
			DstBase: hal.ImageCopyTexture{
				Texture: c.display.Texture,
				Origin:  hal.Origin3D{X: x},
				Aspect:  gputypes.TextureAspectAll,
			},
			Size: hal.Extent3D{Width: v.Width, Height: v.Height, DepthOrArrayLayers: 1},
		}})
		x += v.Width
		copied++
	}

	cmd, err := enc.EndEncoding()
	if err != nil {
		return fmt.Errorf("render: end compose: %w", err)
	}
	defer hd.FreeCommandBuffer(cmd)
	if _, err := queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return fmt.Errorf("render: submit compose: %w", err)
	}

	c.stats.Frames++
	c.stats.Views += copied
	c.stats.Skipped += skipped
	xrlog.Logger().Debug("render: composed", "views", copied, "skipped", skipped, "width", width, "height", height)
	return nil
}

// clampView shrinks the rectangle of v to the bounds of its image.
func clampView(v *View) {
	w, h := v.Image.Desc.Width, v.Image.Desc.Height
	if v.X >= w || v.Y >= h {
		v.Width, v.Height = 0, 0
		return
	}
	v.Width = min(v.Width, w-v.X)
	v.Height = min(v.Height, h-v.Y)
}

// prepare makes sure the display target and pipeline match the format and
// at least the size of the views. Callers hold c.mu.
func (c *Compositor) prepare(src ImageDescriptor, width, height uint32) error {
	if c.display != nil && c.display.Desc.Format == src.Format &&
		c.display.Desc.Width >= width && c.display.Desc.Height >= height {
		return nil
	}
	hd := c.device.HALDevice()
	if c.display != nil && c.display.Desc.Format != src.Format && c.pipeline != nil {
		hd.DestroyRenderPipeline(c.pipeline)
		c.pipeline = nil
	}
	if c.display != nil {
		width = max(width, c.display.Desc.Width)
		height = max(height, c.display.Desc.Height)
		c.device.FreeImage(c.display)
		c.display = nil
	}

	display, err := c.device.AllocateImage(ImageDescriptor{
		Label:         "xrsim display",
		Format:        src.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc,
		Width:         width,
		Height:        height,
		BytesPerPixel: src.BytesPerPixel,
	})
	if err != nil {
		return err
	}
	c.display = display

	if c.pipeline == nil {
		pipeline, err := hd.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:       "xrsim compositor",
			Layout:      c.layout,
			Vertex:      hal.VertexState{Module: c.shader, EntryPoint: "vs_main"},
			Primitive:   gputypes.DefaultPrimitiveState(),
			Multisample: gputypes.DefaultMultisampleState(),
			Fragment: &hal.FragmentState{
				Module:     c.shader,
				EntryPoint: "fs_main",
				Targets: []gputypes.ColorTargetState{{
					Format:    src.Format,
					WriteMask: gputypes.ColorWriteMaskAll,
				}},
			},
		})
		if err != nil {
			return fmt.Errorf("render: create compositor pipeline: %w", err)
		}
		c.pipeline = pipeline
	}
	xrlog.Logger().Debug("render: display target", "format", src.Format.String(), "width", width, "height", height)
	return nil
}

// Destroy releases the display target, pipeline and shader module. It is
// safe to call more than once.
func (c *Compositor) Destroy() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shader == nil {
		return
	}
	hd := c.device.HALDevice()
	if c.display != nil {
		c.device.FreeImage(c.display)
		c.display = nil
	}
	if c.pipeline != nil {
		hd.DestroyRenderPipeline(c.pipeline)
		c.pipeline = nil
	}
	hd.DestroyPipelineLayout(c.layout)
	hd.DestroyShaderModule(c.shader)
	c.shader = nil
}

func unsafeBytes(p unsafe.Pointer, n uint64) []byte {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}
