package xrsim

import (
	"time"

	"github.com/davidrios/openxr-device-simulator/config"
	"github.com/davidrios/openxr-device-simulator/frame"
	"github.com/davidrios/openxr-device-simulator/render"
)

// Option configures a Runtime during creation.
//
// Example:
//
//	// Defaults: 500ms frames on the noop graphics backend
//	rt, _ := xrsim.New()
//
//	// Settings from a YAML file, with a faster frame loop
//	cfg, _ := config.Load("xrsim.yaml")
//	rt, _ := xrsim.New(xrsim.WithConfig(cfg), xrsim.WithFrameInterval(time.Millisecond))
type Option func(*options)

// options holds optional configuration for Runtime creation.
type options struct {
	cfg      config.Config
	clock    frame.Clock
	backends *render.Backends
}

// defaultOptions returns the default runtime options.
func defaultOptions() options {
	return options{
		cfg:      config.Default(),
		clock:    frame.SystemClock,
		backends: render.DefaultBackends(),
	}
}

// WithConfig replaces the whole simulator configuration. Options applied
// after it override individual settings.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithFrameInterval sets how long WaitFrame blocks.
func WithFrameInterval(d time.Duration) Option {
	return func(o *options) {
		o.cfg.FrameInterval = d
	}
}

// WithClock substitutes the time source used for frame pacing and event
// timestamps. Tests use it to run the frame loop without sleeping.
func WithClock(c frame.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithBackends sets the graphics backend registry sessions open their
// device from when the application supplies no binding.
func WithBackends(b *render.Backends) Option {
	return func(o *options) {
		if b != nil {
			o.backends = b
		}
	}
}
