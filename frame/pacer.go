// Package frame implements the wait/begin/end frame pacing protocol of a
// session.
package frame

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// MaxLayers is the most composition layers one frame may submit.
const MaxLayers = 16

// Default timing.
const (
	DefaultInterval = 500 * time.Millisecond
	DefaultPeriod   = 16 * time.Millisecond
	DefaultOffset   = time.Millisecond
)

// Config controls simulated display timing.
type Config struct {
	// Interval is how long Wait sleeps once it may proceed.
	Interval time.Duration
	// Period is the reported predicted display period.
	Period time.Duration
	// Offset is added to the elapsed time to predict the display time.
	Offset time.Duration
}

// DefaultConfig returns the default timing.
func DefaultConfig() Config {
	return Config{Interval: DefaultInterval, Period: DefaultPeriod, Offset: DefaultOffset}
}

// Clock abstracts time for the pacer.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the wall clock.
var SystemClock Clock = realClock{}

// Pacer tracks the frame cycle of one session. It is safe for concurrent use:
// Wait typically runs on a different goroutine than Begin and End.
type Pacer struct {
	cfg   Config
	clock Clock
	epoch time.Time

	mu      sync.Mutex
	waited  bool
	began   bool
	pending bool          // a wait claimed the gate and its begin has not arrived
	gate    chan struct{} // closed when pending clears
	gen     uint64        // bumped by Reset
	last    xr.Time
	frames  uint64
	dropped uint64
}

// NewPacer returns a pacer measuring display time from epoch.
func NewPacer(cfg Config, clock Clock, epoch time.Time) *Pacer {
	if clock == nil {
		clock = SystemClock
	}
	return &Pacer{cfg: cfg, clock: clock, epoch: epoch}
}

// errReset is returned by a Wait that was overtaken by Reset.
func errReset() error {
	return xr.Errorf(xr.ErrorSessionNotRunning, "", "frame loop reset while waiting")
}

// claim blocks until no begin is outstanding and marks one as pending. It
// gives up once the pacer leaves generation gen.
func (p *Pacer) claim(ctx context.Context, gen uint64) error {
	for {
		p.mu.Lock()
		if p.gen != gen {
			p.mu.Unlock()
			return errReset()
		}
		if !p.pending {
			p.pending = true
			p.gate = make(chan struct{})
			p.mu.Unlock()
			return nil
		}
		gate := p.gate
		p.mu.Unlock()

		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// openGate clears pending and wakes blocked waiters. Callers hold p.mu.
func (p *Pacer) openGate() {
	if !p.pending {
		return
	}
	p.pending = false
	close(p.gate)
	p.gate = nil
}

// Wait throttles the caller to the simulated display rate. It blocks until
// the previous frame's begin has arrived, sleeps one interval and returns
// the predicted timing of the next frame. A Reset while it is blocked or
// sleeping makes it fail with ErrorSessionNotRunning.
func (p *Pacer) Wait(ctx context.Context) (xr.FrameState, error) {
	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()
	if err := p.claim(ctx, gen); err != nil {
		return xr.FrameState{}, err
	}

	if p.cfg.Interval > 0 {
		select {
		case <-p.clock.After(p.cfg.Interval):
		case <-ctx.Done():
			p.mu.Lock()
			if p.gen == gen {
				p.openGate()
			}
			p.mu.Unlock()
			return xr.FrameState{}, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return xr.FrameState{}, errReset()
	}
	predicted := xr.Time(p.clock.Now().Sub(p.epoch) + p.cfg.Offset)
	if predicted <= p.last {
		predicted = p.last + 1
	}
	p.last = predicted
	p.waited = true
	return xr.FrameState{
		PredictedDisplayTime:   predicted,
		PredictedDisplayPeriod: xr.DurationOf(p.cfg.Period),
		ShouldRender:           true,
	}, nil
}

// Begin marks the start of rendering. A begin while another is outstanding
// succeeds with FrameDiscarded; a begin with neither an outstanding begin
// nor a completed wait fails with ErrorCallOrderInvalid.
func (p *Pacer) Begin() (xr.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.began {
		p.waited = false
		p.openGate()
		p.dropped++
		xrlog.Logger().Debug("frame: discarded", "dropped", p.dropped)
		return xr.FrameDiscarded, nil
	}
	if !p.waited {
		return xr.ErrorCallOrderInvalid, xr.ErrorCallOrderInvalid
	}
	p.waited = false
	p.began = true
	p.openGate()
	return xr.Success, nil
}

// CanEnd reports whether a begin is outstanding.
func (p *Pacer) CanEnd() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.began
}

// End validates and accepts the submitted layers and closes the frame.
func (p *Pacer) End(info xr.FrameEndInfo) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.began {
		return xr.ErrorCallOrderInvalid
	}
	if err := ValidateEndInfo(info); err != nil {
		return err
	}

	p.began = false
	p.frames++
	xrlog.Logger().Debug("frame: ended", "frame", p.frames, "layers", len(info.Layers))
	return nil
}

// ValidateEndInfo checks the parts of a frame submission that do not depend
// on pacer state: display time, blend mode, layer count and layer kinds.
func ValidateEndInfo(info xr.FrameEndInfo) error {
	if info.DisplayTime <= 0 {
		return xr.Errorf(xr.ErrorTimeInvalid, "", "display time %d", info.DisplayTime)
	}
	if info.EnvironmentBlendMode != xr.EnvironmentBlendModeOpaque {
		return xr.Errorf(xr.ErrorEnvironmentBlendModeUnsupported, "", "blend mode %d", info.EnvironmentBlendMode)
	}
	if len(info.Layers) > MaxLayers {
		return xr.Errorf(xr.ErrorLayerLimitExceeded, "", "%d layers", len(info.Layers))
	}
	for i, l := range info.Layers {
		if l == nil {
			return xr.Errorf(xr.ErrorLayerInvalid, "", "layer %d is nil", i)
		}
		switch t := l.LayerType(); t {
		case xr.TypeCompositionLayerProjection, xr.TypeCompositionLayerQuad:
		default:
			return &xr.Error{Code: xr.ErrorRuntimeFailure, Err: fmt.Errorf("frame: unsupported layer %d type %s", i, t)}
		}
	}
	return nil
}

// Stats reports how many frames ended and how many begins were discarded.
func (p *Pacer) Stats() (frames, discarded uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames, p.dropped
}

// Reset abandons any frame in flight and wakes blocked waiters. The session
// calls it when it stops running.
func (p *Pacer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.waited = false
	p.began = false
	p.openGate()
}
