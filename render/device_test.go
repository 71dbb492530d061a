// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func openNoopDevice(t *testing.T) *Device {
	t.Helper()
	d, err := Open(nil, BackendNoop)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

// countingDevice records the order native objects are destroyed in.
type countingDevice struct {
	hal.Device
	created   int
	destroyed []string
}

func (c *countingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	c.created++
	return c.Device.CreateTexture(desc)
}

func (c *countingDevice) DestroyTextureView(v hal.TextureView) {
	c.destroyed = append(c.destroyed, "view")
	c.Device.DestroyTextureView(v)
}

func (c *countingDevice) DestroyBuffer(b hal.Buffer) {
	c.destroyed = append(c.destroyed, "memory")
	c.Device.DestroyBuffer(b)
}

func (c *countingDevice) DestroyTexture(tex hal.Texture) {
	c.destroyed = append(c.destroyed, "image")
	c.Device.DestroyTexture(tex)
}

func testDescriptor() ImageDescriptor {
	return ImageDescriptor{
		Label:         "test",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
		Width:         4,
		Height:        2,
		BytesPerPixel: 4,
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(nil, "vulkan-on-a-toaster"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Open = %v, want ErrBackendNotAvailable", err)
	}
}

func TestBackendsPriority(t *testing.T) {
	r := NewBackends()
	if r.BestName() != BackendNoop {
		t.Errorf("BestName = %q", r.BestName())
	}
	if !r.Has(BackendNoop) {
		t.Error("noop backend missing")
	}
}

func TestAllocateAndFreeImage(t *testing.T) {
	d := openNoopDevice(t)
	counting := &countingDevice{Device: d.HALDevice()}
	wrapped := Wrap(counting, d.Queue())

	img, err := wrapped.AllocateImage(testDescriptor())
	if err != nil {
		t.Fatalf("AllocateImage: %v", err)
	}
	if img.Texture == nil || img.Memory == nil || img.View == nil {
		t.Fatal("image parts missing")
	}
	if img.Desc.ArrayLayers != 1 || img.Desc.MipLevelCount != 1 || img.Desc.SampleCount != 1 {
		t.Errorf("defaults not applied: %+v", img.Desc)
	}

	wrapped.FreeImage(img)
	wrapped.FreeImage(img)
	want := []string{"view", "memory", "image"}
	if len(counting.destroyed) != len(want) {
		t.Fatalf("destroyed = %v, want %v", counting.destroyed, want)
	}
	for i := range want {
		if counting.destroyed[i] != want[i] {
			t.Errorf("destroy %d = %s, want %s", i, counting.destroyed[i], want[i])
		}
	}
	if !img.Destroyed() {
		t.Error("image not marked destroyed")
	}
}

func TestAllocateRejectsZeroSize(t *testing.T) {
	d := openNoopDevice(t)
	desc := testDescriptor()
	desc.Width = 0
	if _, err := d.AllocateImage(desc); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("AllocateImage = %v", err)
	}
}

func TestMapMemory(t *testing.T) {
	d := openNoopDevice(t)
	img, err := d.AllocateImage(testDescriptor())
	if err != nil {
		t.Fatal(err)
	}
	defer d.FreeImage(img)

	err = d.MapMemory(img, func(px []byte) error {
		if len(px) != 4*2*4 {
			t.Errorf("mapped %d bytes", len(px))
		}
		px[0] = 0xAB
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	_ = d.MapMemory(img, func(px []byte) error {
		if px[0] != 0xAB {
			t.Errorf("write did not persist: %#x", px[0])
		}
		return nil
	})

	d.FreeImage(img)
	if err := d.MapMemory(img, func([]byte) error { return nil }); !errors.Is(err, ErrImageDestroyed) {
		t.Errorf("MapMemory after free = %v", err)
	}
}

func TestClosedDevice(t *testing.T) {
	d, err := Open(nil, BackendNoop)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Owned() {
		t.Error("opened device should be owned")
	}
	d.Close()
	d.Close()
	if _, err := d.AllocateImage(testDescriptor()); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("AllocateImage after Close = %v", err)
	}
}

// pipelineDevice counts the pipelines and encoders a compositor creates.
type pipelineDevice struct {
	hal.Device
	pipelines int
	encoders  int
	destroyed int
}

func (p *pipelineDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	p.pipelines++
	return p.Device.CreateRenderPipeline(desc)
}

func (p *pipelineDevice) DestroyRenderPipeline(pl hal.RenderPipeline) {
	p.destroyed++
	p.Device.DestroyRenderPipeline(pl)
}

func (p *pipelineDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	p.encoders++
	return p.Device.CreateCommandEncoder(desc)
}

func TestCompositor(t *testing.T) {
	base := openNoopDevice(t)
	rec := &pipelineDevice{Device: base.HALDevice()}
	d := Wrap(rec, base.Queue())

	c, err := NewCompositor(d)
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	if c.SPIRVWords() < 5 {
		t.Errorf("SPIR-V too short: %d words", c.SPIRVWords())
	}
	if w, h := c.DisplaySize(); w != 0 || h != 0 {
		t.Errorf("display before Compose = %dx%d", w, h)
	}

	eye := testDescriptor()
	eye.Width, eye.Height = 32, 16
	img, err := d.AllocateImage(eye)
	if err != nil {
		t.Fatal(err)
	}
	defer d.FreeImage(img)

	views := []View{
		{Image: img, Width: 32, Height: 16},
		{Image: img, X: 8, Width: 32, Height: 16}, // clamped to 24 wide
	}
	if err := c.Compose(views); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if w, h := c.DisplaySize(); w != 56 || h != 16 {
		t.Errorf("display = %dx%d, want 56x16", w, h)
	}
	if st := c.Stats(); st.Frames != 1 || st.Views != 2 || st.Skipped != 0 {
		t.Errorf("stats = %+v", st)
	}

	// Smaller frames reuse the display and pipeline.
	if err := c.Compose(views[:1]); err != nil {
		t.Fatal(err)
	}
	if rec.pipelines != 1 || rec.encoders != 2 {
		t.Errorf("pipelines = %d, encoders = %d", rec.pipelines, rec.encoders)
	}

	other := testDescriptor()
	other.Format = gputypes.TextureFormatBGRA8Unorm
	bgra, err := d.AllocateImage(other)
	if err != nil {
		t.Fatal(err)
	}
	freed, err := d.AllocateImage(testDescriptor())
	if err != nil {
		t.Fatal(err)
	}
	d.FreeImage(freed)
	err = c.Compose([]View{
		{Image: img, Width: 32, Height: 16},
		{Image: bgra, Width: 4, Height: 2},
		{Image: freed, Width: 4, Height: 2},
		{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if st := c.Stats(); st.Frames != 3 || st.Views != 4 || st.Skipped != 3 {
		t.Errorf("stats with mismatched views = %+v", st)
	}
	d.FreeImage(bgra)

	c.Destroy()
	c.Destroy()
	if rec.destroyed != 1 {
		t.Errorf("pipeline destroyed %d times", rec.destroyed)
	}
	if err := c.Compose(views); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("Compose after Destroy = %v", err)
	}
}

func TestCompositorSkipsEmptyFrame(t *testing.T) {
	c, err := NewCompositor(openNoopDevice(t))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Destroy()
	if err := c.Compose([]View{{}, {}}); err != nil {
		t.Fatal(err)
	}
	if st := c.Stats(); st.Frames != 0 || st.Skipped != 2 {
		t.Errorf("stats = %+v", st)
	}
	if w, _ := c.DisplaySize(); w != 0 {
		t.Errorf("display allocated for empty frame: width %d", w)
	}
}

func TestCompileShaderMagic(t *testing.T) {
	words, err := CompileShaderToSPIRV(compositorWGSL)
	if err != nil {
		t.Fatal(err)
	}
	if words[0] != 0x07230203 {
		t.Errorf("magic = %#x", words[0])
	}
}
