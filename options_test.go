package xrsim

import (
	"testing"
	"time"

	"github.com/davidrios/openxr-device-simulator/config"
	"github.com/davidrios/openxr-device-simulator/frame"
	"github.com/davidrios/openxr-device-simulator/render"
	"github.com/davidrios/openxr-device-simulator/xr"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
func (c fixedClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.cfg != config.Default() {
		t.Errorf("cfg = %+v, want defaults", o.cfg)
	}
	if o.clock != frame.SystemClock {
		t.Error("clock is not the system clock")
	}
	if o.backends != render.DefaultBackends() {
		t.Error("backends is not the default registry")
	}
}

func TestOptionsApplyInOrder(t *testing.T) {
	cfg := config.Default()
	cfg.SwapchainImages = 5
	cfg.FrameInterval = time.Second

	o := defaultOptions()
	for _, opt := range []Option{WithConfig(cfg), WithFrameInterval(time.Millisecond), WithClock(nil), WithBackends(nil)} {
		opt(&o)
	}
	if o.cfg.SwapchainImages != 5 {
		t.Errorf("SwapchainImages = %d, want 5", o.cfg.SwapchainImages)
	}
	if o.cfg.FrameInterval != time.Millisecond {
		t.Errorf("FrameInterval = %v, want 1ms", o.cfg.FrameInterval)
	}
	if o.clock == nil || o.backends == nil {
		t.Error("nil clock or backends replaced the defaults")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.SwapchainImages = 0
	if _, err := New(WithConfig(cfg)); err == nil {
		t.Fatal("New accepted a config with zero swapchain images")
	}
}

func TestWithClockStampsEvents(t *testing.T) {
	clk := fixedClock{now: time.Unix(1000, 0)}
	rt, err := New(WithClock(clk))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(rt.Close)
	if rt.now() != 0 {
		t.Errorf("now = %d on a frozen clock, want 0", rt.now())
	}
	if !rt.epoch.Equal(clk.now) {
		t.Errorf("epoch = %v, want %v", rt.epoch, clk.now)
	}
}

func TestWithClockDrivesFrames(t *testing.T) {
	rt, err := New(WithClock(fixedClock{now: time.Unix(1000, 0)}))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(rt.Close)
	inst := newTestInstance(t, rt)
	s := newTestSession(t, rt, inst)
	readySession(t, rt, inst, s)
	if err := rt.BeginSession(s, xr.ViewConfigurationTypePrimaryStereo); err != nil {
		t.Fatal(err)
	}

	// The clock never advances, so predicted times come from the pacer's
	// monotonic bump.
	first, err := rt.WaitFrame(t.Context(), s)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rt.BeginFrame(s); err != nil {
		t.Fatal(err)
	}
	second, err := rt.WaitFrame(t.Context(), s)
	if err != nil {
		t.Fatal(err)
	}
	if second.PredictedDisplayTime <= first.PredictedDisplayTime {
		t.Errorf("predicted times %d then %d", first.PredictedDisplayTime, second.PredictedDisplayTime)
	}
}
