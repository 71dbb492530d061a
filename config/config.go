// Package config loads the simulator configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/davidrios/openxr-device-simulator/frame"
	"github.com/davidrios/openxr-device-simulator/swapchain"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("config: invalid value")

// MaxSwapchainImages bounds the configurable ring size.
const MaxSwapchainImages = 8

// Config holds every tunable of the simulated device.
type Config struct {
	// FrameInterval is how long WaitFrame blocks.
	FrameInterval time.Duration `yaml:"frame_interval"`
	// DisplayPeriod is reported as the predicted display period.
	DisplayPeriod time.Duration `yaml:"display_period"`
	// DisplayOffset is added to the elapsed time to predict display time.
	DisplayOffset time.Duration `yaml:"display_offset"`

	SwapchainImages int `yaml:"swapchain_images"`
	// RecycleReleased makes EndFrame return released images to the
	// available list.
	RecycleReleased bool `yaml:"recycle_released"`

	GraphicsBackend string `yaml:"graphics_backend"`
	LogLevel        string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FrameInterval:   frame.DefaultInterval,
		DisplayPeriod:   frame.DefaultPeriod,
		DisplayOffset:   frame.DefaultOffset,
		SwapchainImages: swapchain.DefaultImageCount,
		GraphicsBackend: "noop",
		LogLevel:        "info",
	}
}

// Parse decodes YAML over the defaults and validates the result. Keys that
// are absent keep their default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.FrameInterval < 0:
		return fmt.Errorf("%w: frame_interval %s", ErrInvalid, c.FrameInterval)
	case c.DisplayPeriod <= 0:
		return fmt.Errorf("%w: display_period %s", ErrInvalid, c.DisplayPeriod)
	case c.DisplayOffset < 0:
		return fmt.Errorf("%w: display_offset %s", ErrInvalid, c.DisplayOffset)
	case c.SwapchainImages < 1 || c.SwapchainImages > MaxSwapchainImages:
		return fmt.Errorf("%w: swapchain_images %d", ErrInvalid, c.SwapchainImages)
	case c.GraphicsBackend == "":
		return fmt.Errorf("%w: empty graphics_backend", ErrInvalid)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}

// Pacing returns the frame pacer settings.
func (c *Config) Pacing() frame.Config {
	return frame.Config{
		Interval: c.FrameInterval,
		Period:   c.DisplayPeriod,
		Offset:   c.DisplayOffset,
	}
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
