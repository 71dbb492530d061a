package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"

	xrsim "github.com/davidrios/openxr-device-simulator"
	"github.com/davidrios/openxr-device-simulator/config"
	"github.com/davidrios/openxr-device-simulator/event"
	"github.com/davidrios/openxr-device-simulator/input"
	"github.com/davidrios/openxr-device-simulator/mirror"
	"github.com/davidrios/openxr-device-simulator/swapchain"
	"github.com/davidrios/openxr-device-simulator/xr"
)

const eyeSize = 256

type runFlags struct {
	config   string
	frames   int
	mirror   string
	interval time.Duration
}

func runCmd(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f runFlags
	fs.StringVar(&f.config, "config", "", "YAML configuration file")
	fs.IntVar(&f.frames, "frames", 3, "frames to render")
	fs.StringVar(&f.mirror, "mirror", "", "write the last frame to this BMP file")
	fs.DurationVar(&f.interval, "interval", -1, "override the frame interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return err
		}
	}
	if f.interval >= 0 {
		cfg.FrameInterval = f.interval
	}
	// The loop may render more frames than the swapchain has images.
	cfg.RecycleReleased = true
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	xrsim.SetLogger(logger)
	defer xrsim.SetLogger(nil)

	rt, err := xrsim.New(xrsim.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer rt.Close()

	d := &driver{rt: rt, log: logger}
	if err := d.bringUp(); err != nil {
		return err
	}
	if err := d.render(context.Background(), f.frames); err != nil {
		return err
	}
	if f.mirror != "" {
		if err := d.saveMirror(f.mirror); err != nil {
			return err
		}
	}
	if err := d.shutDown(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "rendered %d frames, %d events\n", f.frames, d.events)
	return nil
}

// driver plays the application side of a session.
type driver struct {
	rt  *xrsim.Runtime
	log *slog.Logger

	inst   xr.Instance
	sess   xr.Session
	space  xr.Space
	sc     xr.Swapchain
	last   uint32
	events int
}

func (d *driver) bringUp() error {
	var err error
	d.inst, err = d.rt.CreateInstance(xrsim.InstanceCreateInfo{
		ApplicationName: "xrsim-run",
		EngineName:      "xrsim",
		APIVersion:      xr.CurrentAPIVersion,
	})
	if err != nil {
		return err
	}
	sys, err := d.rt.GetSystem(d.inst, xr.FormFactorHeadMountedDisplay)
	if err != nil {
		return err
	}
	if d.sess, err = d.rt.CreateSession(d.inst, xrsim.SessionCreateInfo{SystemID: sys}); err != nil {
		return err
	}
	if d.space, err = d.rt.CreateReferenceSpace(d.sess, xrsim.ReferenceSpaceCreateInfo{
		Type: xr.ReferenceSpaceTypeLocalFloor,
		Pose: xr.IdentityPose,
	}); err != nil {
		return err
	}
	if d.sc, err = d.rt.CreateSwapchain(d.sess, swapchain.CreateInfo{
		UsageFlags:  swapchain.UsageColorAttachment | swapchain.UsageTransferDst,
		Format:      gputypes.TextureFormatRGBA8UnormSrgb,
		SampleCount: 1,
		Width:       eyeSize,
		Height:      eyeSize,
		FaceCount:   1,
		ArraySize:   1,
		MipCount:    1,
	}); err != nil {
		return err
	}
	set, err := d.rt.CreateActionSet(d.inst, input.ActionSetCreateInfo{Name: "default", LocalizedName: "Default"})
	if err != nil {
		return err
	}
	if err := d.rt.AttachSessionActionSets(d.sess, []xr.ActionSet{set}); err != nil {
		return err
	}

	if err := d.waitState(xr.SessionStateReady); err != nil {
		return err
	}
	return d.rt.BeginSession(d.sess, xr.ViewConfigurationTypePrimaryStereo)
}

// waitState polls events until the session reports want.
func (d *driver) waitState(want xr.SessionState) error {
	buf := event.NewBuffer()
	for {
		buf.Reset()
		res, err := d.rt.PollEvent(d.inst, buf)
		if err != nil {
			return err
		}
		if res == xr.EventUnavailable {
			return fmt.Errorf("session never reached %s", want)
		}
		d.events++
		ev, err := event.Decode(buf)
		if err != nil {
			return err
		}
		if sc, ok := ev.(event.SessionStateChanged); ok {
			d.log.Info("state changed", "state", sc.State.String(), "time", int64(sc.Time))
			if sc.State == want {
				return nil
			}
		}
	}
}

func (d *driver) render(ctx context.Context, frames int) error {
	dev, err := d.rt.SessionDevice(d.sess)
	if err != nil {
		return err
	}
	for i := range frames {
		fs, err := d.rt.WaitFrame(ctx, d.sess)
		if err != nil {
			return err
		}
		if _, err := d.rt.BeginFrame(d.sess); err != nil {
			return err
		}

		idx, err := d.rt.AcquireSwapchainImage(d.sc)
		if err != nil {
			return err
		}
		if _, err := d.rt.WaitSwapchainImage(d.sc, xr.InfiniteDuration); err != nil {
			return err
		}
		img, err := d.rt.SwapchainImage(d.sc, idx)
		if err != nil {
			return err
		}
		shade := uint8(255 * (i + 1) / frames)
		if err := mirror.Fill(dev, img, 0, color.RGBA{R: shade, G: 64, B: 255 - shade, A: 255}); err != nil {
			return err
		}
		if _, err := d.rt.ReleaseSwapchainImage(d.sc); err != nil {
			return err
		}
		d.last = idx

		sub := xr.SwapchainSubImage{
			Swapchain: d.sc,
			ImageRect: xr.Rect2Di{Extent: xr.Extent2Di{Width: eyeSize, Height: eyeSize}},
		}
		view := xr.CompositionLayerProjectionView{Pose: xr.IdentityPose, SubImage: sub}
		err = d.rt.EndFrame(d.sess, xr.FrameEndInfo{
			DisplayTime:          fs.PredictedDisplayTime,
			EnvironmentBlendMode: xr.EnvironmentBlendModeOpaque,
			Layers: []xr.CompositionLayer{&xr.CompositionLayerProjection{
				Space: d.space,
				Views: []xr.CompositionLayerProjectionView{view, view},
			}},
		})
		if err != nil {
			return err
		}
		d.log.Debug("frame submitted", "frame", i, "image", idx, "display_time", int64(fs.PredictedDisplayTime))
	}
	return nil
}

func (d *driver) saveMirror(path string) error {
	dev, err := d.rt.SessionDevice(d.sess)
	if err != nil {
		return err
	}
	img, err := d.rt.SwapchainImage(d.sc, d.last)
	if err != nil {
		return err
	}
	pic, err := mirror.Capture(dev, img, 0)
	if err != nil {
		return err
	}
	if err := mirror.SaveBMP(path, pic, eyeSize/2, eyeSize/2); err != nil {
		return err
	}
	d.log.Info("mirror written", "path", path)
	return nil
}

func (d *driver) shutDown() error {
	if err := d.rt.RequestExitSession(d.sess); err != nil {
		return err
	}
	if err := d.waitState(xr.SessionStateStopping); err != nil {
		return err
	}
	if err := d.rt.EndSession(d.sess); err != nil {
		return err
	}
	if err := d.waitState(xr.SessionStateIdle); err != nil {
		return err
	}
	if err := d.rt.DestroySession(d.sess); err != nil {
		return err
	}
	return d.rt.DestroyInstance(d.inst)
}
