// Package config provides configuration loading and access for the wave field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all effect configuration parameters.
// Values are fixed once an effect is constructed.
type Config struct {
	Screen     ScreenConfig            `yaml:"screen"`
	Container  ContainerConfig         `yaml:"container"`
	Grid       GridConfig              `yaml:"grid"`
	Particle   ParticleConfig          `yaml:"particle"`
	Animation  AnimationConfig         `yaml:"animation"`
	Lift       LiftConfig              `yaml:"lift"`
	Input      InputConfig             `yaml:"input"`
	Camera     CameraConfig            `yaml:"camera"`
	Background BackgroundConfig        `yaml:"background"`
	Render     RenderConfig            `yaml:"render"`
	Telemetry  TelemetryConfig         `yaml:"telemetry"`
	Presets    map[string]PresetConfig `yaml:"presets"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"` // 0 = uncapped
	Title     string `yaml:"title"`
}

// ContainerConfig is the screen rectangle that accepts input.
// A zero width or height means the whole window.
type ContainerConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// GridConfig holds the particle grid layout.
type GridConfig struct {
	AmountX int     `yaml:"amount_x"`
	AmountY int     `yaml:"amount_y"`
	Spacing float64 `yaml:"spacing"`
}

// ParticleConfig holds particle geometry and material.
type ParticleConfig struct {
	Size        float64 `yaml:"size"`   // Sphere radius
	Rings       int     `yaml:"rings"`  // Vertical tessellation
	Slices      int     `yaml:"slices"` // Horizontal tessellation
	Color       string  `yaml:"color"`  // Hex, e.g. "#5bc2e7"
	Opacity     float64 `yaml:"opacity"`
	Transparent bool    `yaml:"transparent"`
}

// AnimationConfig holds wave timing.
type AnimationConfig struct {
	Speed float64 `yaml:"speed"` // Wave phase advance per frame
}

// LiftConfig holds the press-to-lift gesture parameters.
type LiftConfig struct {
	Enabled bool    `yaml:"enabled"`
	Max     float64 `yaml:"max"`
	Speed   float64 `yaml:"speed"` // Added per frame while pressed
	Decay   float64 `yaml:"decay"` // Multiplier per frame while released, in (0, 1)
}

// InputConfig holds input mapping parameters.
type InputConfig struct {
	TouchGain float64 `yaml:"touch_gain"` // Touch delta multiplier
	Touch     bool    `yaml:"touch"`      // Poll touch points (desktop mice also report as touch 0)
}

// CameraConfig holds projection and follow parameters.
type CameraConfig struct {
	FOV        float64 `yaml:"fov"` // Vertical, degrees
	Near       float64 `yaml:"near"`
	Far        float64 `yaml:"far"`
	Depth      float64 `yaml:"depth"`       // Fixed z
	BaselineY  float64 `yaml:"baseline_y"`  // Fixed y baseline
	BiasFactor float64 `yaml:"bias_factor"` // Fraction of smoothed y added to baseline
	FollowRate float64 `yaml:"follow_rate"` // Exponential smoothing rate per frame
}

// BackgroundConfig holds the clear colour.
type BackgroundConfig struct {
	Color string `yaml:"color"`
}

// RenderConfig selects the draw path.
type RenderConfig struct {
	Instanced bool `yaml:"instanced"` // false = one draw call per particle with exact colours
}

// TelemetryConfig holds perf collection parameters.
type TelemetryConfig struct {
	PerfWindow  int `yaml:"perf_window"`  // Frames per rolling window
	LogInterval int `yaml:"log_interval"` // Frames between perf logs (0 = window size)
}

// PresetConfig overrides grid and lift settings for a named variant.
// Nil fields leave the base value unchanged.
type PresetConfig struct {
	AmountX     *int     `yaml:"amount_x"`
	AmountY     *int     `yaml:"amount_y"`
	Spacing     *float64 `yaml:"spacing"`
	LiftEnabled *bool    `yaml:"lift_enabled"`
	LiftMax     *float64 `yaml:"lift_max"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Total           int            // Grid.AmountX * Grid.AmountY
	Spacing32       float32        // Grid.Spacing as float32
	ParticleColor   colorful.Color // Parsed Particle.Color
	BackgroundColor colorful.Color // Parsed Background.Color
	LogInterval     int            // Telemetry.LogInterval, defaulted to PerfWindow
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path, preset string) error {
	cfg, err := Load(path, preset)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path, preset string) {
	if err := Init(path, preset); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults with derived values computed.
func Default() *Config {
	cfg, err := Load("", "")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. A non-empty preset is
// applied on top of the merged values.
func Load(path, preset string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyPreset overlays the named preset onto the config.
func (c *Config) ApplyPreset(name string) error {
	p, ok := c.Presets[name]
	if !ok {
		return fmt.Errorf("unknown preset %q (available: %v)", name, c.PresetNames())
	}
	if p.AmountX != nil {
		c.Grid.AmountX = *p.AmountX
	}
	if p.AmountY != nil {
		c.Grid.AmountY = *p.AmountY
	}
	if p.Spacing != nil {
		c.Grid.Spacing = *p.Spacing
	}
	if p.LiftEnabled != nil {
		c.Lift.Enabled = *p.LiftEnabled
	}
	if p.LiftMax != nil {
		c.Lift.Max = *p.LiftMax
	}
	return nil
}

// PresetNames returns the preset names in sorted order.
func (c *Config) PresetNames() []string {
	return slices.Sorted(maps.Keys(c.Presets))
}

// Validate reports every out-of-range field.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Screen.Width > 0 && c.Screen.Height > 0, "screen: size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	check(c.Screen.TargetFPS >= 0, "screen.target_fps: must not be negative, got %d", c.Screen.TargetFPS)
	check(c.Container.Width >= 0 && c.Container.Height >= 0, "container: size must not be negative, got %dx%d", c.Container.Width, c.Container.Height)
	check(c.Grid.AmountX > 0 && c.Grid.AmountY > 0, "grid: amounts must be positive, got %dx%d", c.Grid.AmountX, c.Grid.AmountY)
	check(c.Grid.Spacing > 0, "grid.spacing: must be positive, got %g", c.Grid.Spacing)
	check(c.Particle.Size > 0, "particle.size: must be positive, got %g", c.Particle.Size)
	check(c.Particle.Rings >= 3 && c.Particle.Slices >= 3, "particle: tessellation must be at least 3x3, got %dx%d", c.Particle.Rings, c.Particle.Slices)
	check(c.Particle.Opacity >= 0 && c.Particle.Opacity <= 1, "particle.opacity: must be in [0,1], got %g", c.Particle.Opacity)
	check(c.Animation.Speed > 0, "animation.speed: must be positive, got %g", c.Animation.Speed)
	check(c.Lift.Max >= 0, "lift.max: must not be negative, got %g", c.Lift.Max)
	check(c.Lift.Speed > 0, "lift.speed: must be positive, got %g", c.Lift.Speed)
	check(c.Lift.Decay > 0 && c.Lift.Decay < 1, "lift.decay: must be in (0,1), got %g", c.Lift.Decay)
	check(c.Input.TouchGain > 0, "input.touch_gain: must be positive, got %g", c.Input.TouchGain)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov: must be in (0,180), got %g", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera: need 0 < near < far, got near=%g far=%g", c.Camera.Near, c.Camera.Far)
	check(c.Camera.FollowRate > 0 && c.Camera.FollowRate <= 1, "camera.follow_rate: must be in (0,1], got %g", c.Camera.FollowRate)
	check(c.Telemetry.PerfWindow >= 0 && c.Telemetry.LogInterval >= 0, "telemetry: window and interval must not be negative")

	if _, err := colorful.Hex(c.Particle.Color); err != nil {
		errs = append(errs, fmt.Errorf("particle.color: %w", err))
	}
	if _, err := colorful.Hex(c.Background.Color); err != nil {
		errs = append(errs, fmt.Errorf("background.color: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.Total = c.Grid.AmountX * c.Grid.AmountY
	c.Derived.Spacing32 = float32(c.Grid.Spacing)

	var err error
	if c.Derived.ParticleColor, err = colorful.Hex(c.Particle.Color); err != nil {
		return fmt.Errorf("particle.color: %w", err)
	}
	if c.Derived.BackgroundColor, err = colorful.Hex(c.Background.Color); err != nil {
		return fmt.Errorf("background.color: %w", err)
	}

	c.Derived.LogInterval = c.Telemetry.LogInterval
	if c.Derived.LogInterval == 0 {
		c.Derived.LogInterval = c.Telemetry.PerfWindow
	}
	return nil
}

// Clone returns a deep copy suitable for independent modification.
func (c *Config) Clone() *Config {
	out := *c
	out.Presets = make(map[string]PresetConfig, len(c.Presets))
	for k, v := range c.Presets {
		out.Presets[k] = v
	}
	return &out
}

// Recompute validates the config and refreshes derived values after
// in-place edits.
func (c *Config) Recompute() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.computeDerived()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
