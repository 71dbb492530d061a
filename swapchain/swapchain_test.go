package swapchain

import (
	"errors"
	"sort"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/davidrios/openxr-device-simulator/render"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// fakeAllocator hands out images without a device and counts calls.
type fakeAllocator struct {
	allocated int
	freed     int
	failAt    int // fail the n-th allocation (1-based), 0 never fails
}

func (a *fakeAllocator) AllocateImage(desc render.ImageDescriptor) (*render.Image, error) {
	a.allocated++
	if a.failAt != 0 && a.allocated == a.failAt {
		return nil, errors.New("out of device memory")
	}
	return &render.Image{Desc: desc}, nil
}

func (a *fakeAllocator) FreeImage(img *render.Image) {
	if img != nil && !img.Destroyed() {
		a.freed++
	}
}

func colorInfo() CreateInfo {
	return CreateInfo{
		UsageFlags:  UsageColorAttachment | UsageSampled,
		Format:      gputypes.TextureFormatRGBA8UnormSrgb,
		SampleCount: 1,
		Width:       64,
		Height:      64,
		FaceCount:   1,
		ArraySize:   1,
		MipCount:    1,
	}
}

func checkConservation(t *testing.T, st RotationState, n uint32) {
	t.Helper()
	var all []uint32
	all = append(all, st.Available...)
	all = append(all, st.Acquired...)
	all = append(all, st.Waited...)
	all = append(all, st.Released...)
	if uint32(len(all)) != n {
		t.Fatalf("lists hold %d indices, want %d: %+v", len(all), n, st)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	for i, v := range all {
		if v != uint32(i) {
			t.Fatalf("index set = %v, want 0..%d exactly once", all, n-1)
		}
	}
}

func TestRotationCycle(t *testing.T) {
	r := NewRotation(3)
	checkConservation(t, r.Snapshot(), 3)

	steps := []struct {
		name string
		op   func() (uint32, error)
		want uint32
	}{
		{"acquire", r.Acquire, 0},
		{"acquire", r.Acquire, 1},
		{"wait", r.Wait, 0},
		{"wait", r.Wait, 1},
		{"release", r.Release, 1}, // waited is pushed at the front
		{"release", r.Release, 0},
		{"acquire", r.Acquire, 2},
	}
	for i, s := range steps {
		got, err := s.op()
		if err != nil {
			t.Fatalf("step %d %s: %v", i, s.name, err)
		}
		if got != s.want {
			t.Errorf("step %d %s = %d, want %d", i, s.name, got, s.want)
		}
		checkConservation(t, r.Snapshot(), 3)
	}

	st := r.Snapshot()
	if len(st.Released) != 2 || st.Released[0] != 1 || st.Released[1] != 0 {
		t.Errorf("released = %v", st.Released)
	}
}

func TestRotationEmptySources(t *testing.T) {
	r := NewRotation(1)
	if _, err := r.Wait(); !errors.Is(err, xr.ErrorCallOrderInvalid) {
		t.Errorf("Wait on empty = %v", err)
	}
	if _, err := r.Release(); !errors.Is(err, xr.ErrorCallOrderInvalid) {
		t.Errorf("Release on empty = %v", err)
	}
	if _, err := r.Acquire(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Acquire(); !errors.Is(err, xr.ErrorCallOrderInvalid) {
		t.Errorf("Acquire on empty = %v", err)
	}
	checkConservation(t, r.Snapshot(), 1)
}

func TestRotationNoImplicitRecycle(t *testing.T) {
	r := NewRotation(2)
	for i := 0; i < 2; i++ {
		_, _ = r.Acquire()
		_, _ = r.Wait()
		_, _ = r.Release()
	}
	if _, err := r.Acquire(); !errors.Is(err, xr.ErrorCallOrderInvalid) {
		t.Fatalf("Acquire after full cycle = %v, want call order invalid", err)
	}
	if n := r.Recycle(); n != 2 {
		t.Errorf("Recycle = %d", n)
	}
	if i, err := r.Acquire(); err != nil || i != 0 {
		t.Errorf("Acquire after Recycle = (%d, %v)", i, err)
	}
	checkConservation(t, r.Snapshot(), 2)
}

func TestNewImageCounts(t *testing.T) {
	alloc := &fakeAllocator{}
	sc, err := New(1, 2, alloc, colorInfo(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Images()) != DefaultImageCount || alloc.allocated != DefaultImageCount {
		t.Errorf("images = %d, allocated = %d", len(sc.Images()), alloc.allocated)
	}

	info := colorInfo()
	info.CreateFlags = CreateStaticImage
	static, err := New(3, 2, alloc, info, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(static.Images()) != 1 || static.Rotation().Available[0] != 0 {
		t.Errorf("static swapchain images = %d", len(static.Images()))
	}
}

func TestNewRejectsUnsupportedFormatWithoutAllocating(t *testing.T) {
	alloc := &fakeAllocator{}
	info := colorInfo()
	info.Format = gputypes.TextureFormatR8Unorm
	_, err := New(1, 2, alloc, info, 3)
	if !errors.Is(err, xr.ErrorSwapchainFormatUnsupported) {
		t.Errorf("New = %v", err)
	}
	if alloc.allocated != 0 {
		t.Errorf("allocated %d images for a rejected format", alloc.allocated)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CreateInfo)
		want   xr.Result
	}{
		{"zero width", func(i *CreateInfo) { i.Width = 0 }, xr.ErrorValidationFailure},
		{"too tall", func(i *CreateInfo) { i.Height = MaxImageSize + 1 }, xr.ErrorValidationFailure},
		{"faces", func(i *CreateInfo) { i.FaceCount = 2 }, xr.ErrorValidationFailure},
		{"mips", func(i *CreateInfo) { i.MipCount = 0 }, xr.ErrorValidationFailure},
		{"msaa", func(i *CreateInfo) { i.SampleCount = 4 }, xr.ErrorFeatureUnsupported},
		{"protected", func(i *CreateInfo) { i.CreateFlags = CreateProtectedContent }, xr.ErrorFeatureUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := &fakeAllocator{}
			info := colorInfo()
			tt.modify(&info)
			if _, err := New(1, 2, alloc, info, 3); xr.ResultOf(err) != tt.want {
				t.Errorf("New = %v, want %v", err, tt.want)
			}
			if alloc.allocated != 0 {
				t.Errorf("allocated %d images", alloc.allocated)
			}
		})
	}
}

func TestNewUndoesPartialAllocation(t *testing.T) {
	alloc := &fakeAllocator{failAt: 3}
	_, err := New(1, 2, alloc, colorInfo(), 3)
	if !errors.Is(err, xr.ErrorRuntimeFailure) {
		t.Fatalf("New = %v", err)
	}
	if alloc.freed != 2 {
		t.Errorf("freed %d images, want 2", alloc.freed)
	}
}

func TestDestroyOnRealDevice(t *testing.T) {
	d, err := render.Open(nil, render.BackendNoop)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	sc, err := New(1, 2, d, colorInfo(), 3)
	if err != nil {
		t.Fatal(err)
	}
	images := sc.Images()
	sc.Destroy()
	sc.Destroy()
	for i, img := range images {
		if !img.Destroyed() {
			t.Errorf("image %d not freed", i)
		}
	}
}

func TestImageIndex(t *testing.T) {
	sc, _ := New(1, 2, &fakeAllocator{}, colorInfo(), 3)
	if _, err := sc.Image(2); err != nil {
		t.Error(err)
	}
	if _, err := sc.Image(3); !errors.Is(err, xr.ErrorIndexOutOfRange) {
		t.Errorf("Image(3) = %v", err)
	}
}

func TestUsageMapping(t *testing.T) {
	u := (UsageColorAttachment | UsageUnorderedAccess | UsageTransferDst | UsageInputAttachment).TextureUsage()
	want := gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageStorageBinding |
		gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc
	if u != want {
		t.Errorf("usage = %v, want %v", u, want)
	}
}

func TestFormats(t *testing.T) {
	fs := Formats()
	if len(fs) != 10 {
		t.Errorf("%d formats", len(fs))
	}
	for _, f := range fs {
		if !IsSupported(f) {
			t.Errorf("%s listed but not supported", f)
		}
	}
}
