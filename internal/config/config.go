// Package config manages the persistent viewer settings.
package config

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceView/pkg/canvas"
)

var (
	// ErrInvalidBounds is returned for zoom bounds that cannot be used
	ErrInvalidBounds = errors.New("config: invalid zoom bounds")
	// ErrInvalidWheelGain is returned for a negative wheel gain
	ErrInvalidWheelGain = errors.New("config: wheel_gain must be positive")
)

// Variant names a canvas configuration
type Variant string

const (
	VariantViewer Variant = "viewer"
	VariantMap    Variant = "map"
)

// ZoomBounds limits interactive zoom for one canvas variant
type ZoomBounds struct {
	MinScale float32 `yaml:"min_scale"`
	MaxScale float32 `yaml:"max_scale"`
}

// WindowConfig is the initial window size in dp
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config stores persistent application settings
type Config struct {
	Viewer    ZoomBounds   `yaml:"viewer"`
	Map       ZoomBounds   `yaml:"map"`
	WheelGain float32      `yaml:"wheel_gain"` // scroll points per wheel pixel
	DarkMode  bool         `yaml:"dark_mode"`
	Window    WindowConfig `yaml:"window"`
	LastDir   string       `yaml:"last_dir,omitempty"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	primary := canvas.PrimaryConfig()
	mapped := canvas.MapConfig()
	return &Config{
		Viewer:    ZoomBounds{MinScale: primary.MinScale, MaxScale: primary.MaxScale},
		Map:       ZoomBounds{MinScale: mapped.MinScale, MaxScale: mapped.MaxScale},
		WheelGain: 10,
		Window:    WindowConfig{Width: 1200, Height: 800},
	}
}

// Validate checks the zoom bounds and fills zero values with defaults
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.WheelGain == 0 {
		c.WheelGain = def.WheelGain
	}
	if c.WheelGain < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidWheelGain, c.WheelGain)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window = def.Window
	}
	if err := c.Viewer.validate(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	if err := c.Map.validate(); err != nil {
		return fmt.Errorf("map: %w", err)
	}
	return nil
}

func (b ZoomBounds) validate() error {
	if b.MinScale <= 0 || b.MaxScale <= 0 {
		return fmt.Errorf("%w: scales must be positive (min %v, max %v)", ErrInvalidBounds, b.MinScale, b.MaxScale)
	}
	if b.MinScale > b.MaxScale {
		return fmt.Errorf("%w: min %v exceeds max %v", ErrInvalidBounds, b.MinScale, b.MaxScale)
	}
	return nil
}

// SetLastDir records dir and reports whether it changed
func (c *Config) SetLastDir(dir string) bool {
	if dir == c.LastDir {
		return false
	}
	c.LastDir = dir
	return true
}

// Bounds returns the zoom bounds of a variant for in-place edits
func (c *Config) Bounds(v Variant) *ZoomBounds {
	if v == VariantMap {
		return &c.Map
	}
	return &c.Viewer
}

// Canvas returns the canvas configuration for a variant
func (c *Config) Canvas(v Variant) canvas.Config {
	b := c.Bounds(v)
	return canvas.Config{MinScale: b.MinScale, MaxScale: b.MaxScale}
}

// ParseVariant accepts "viewer" or "map"
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantViewer, VariantMap:
		return Variant(s), nil
	}
	return "", fmt.Errorf("unknown variant %q (want %q or %q)", s, VariantViewer, VariantMap)
}
