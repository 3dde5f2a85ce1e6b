// Package config provides configuration loading and access for the simulator.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulator configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Controls  ControlsConfig  `yaml:"controls"`
	Scene     SceneConfig     `yaml:"scene"`
	Emitters  EmittersConfig  `yaml:"emitters"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Scale     int `yaml:"scale"` // Pixels per grid cell
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds the simulation grid dimensions in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PhysicsConfig holds the fluid kernel parameters.
type PhysicsConfig struct {
	DT          float64 `yaml:"dt"`
	Gravity     float64 `yaml:"gravity"`      // Added to v per second where density > 0
	Impulse     float64 `yaml:"impulse"`      // Vertical kick at the injected cell
	StampRadius int     `yaml:"stamp_radius"` // Half-extent of the injection stamp
	StampMode   string  `yaml:"stamp_mode"`   // "clamped" or "legacy"
	Workers     int     `yaml:"workers"`      // Goroutines per advection pass (1 = serial)
}

// ControlsConfig holds control panel ranges.
type ControlsConfig struct {
	Viscosity float64 `yaml:"viscosity"` // Displayed only; the kernel has no diffusion
	DTMin     float64 `yaml:"dt_min"`
	DTMax     float64 `yaml:"dt_max"`
}

// SceneConfig holds scripted input parameters for headless runs.
type SceneConfig struct {
	Name          string  `yaml:"name"`           // "drip", "rain" or "none"
	Interval      int     `yaml:"interval"`       // Ticks between drip injections
	DripX         int     `yaml:"drip_x"`         // Drip column (-1 = grid center)
	DripY         int     `yaml:"drip_y"`         // Drip row (-1 = upper quarter)
	RainScale     float64 `yaml:"rain_scale"`     // Noise frequency across the grid
	RainSpeed     float64 `yaml:"rain_speed"`     // Noise drift per tick
	RainThreshold float64 `yaml:"rain_threshold"` // Noise level above which a drop falls
	RainDrops     int     `yaml:"rain_drops"`     // Candidate columns sampled per tick
	Seed          int64   `yaml:"seed"`
}

// EmittersConfig holds persistent ink source parameters.
type EmittersConfig struct {
	Interval int `yaml:"interval"` // Ticks between injections
	Lifetime int `yaml:"lifetime"` // Injections before removal (-1 = unlimited)
	Max      int `yaml:"max"`      // Upper bound on live emitters
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of sim time per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32 // Physics.DT as float32
	Gravity32    float32 // Physics.Gravity as float32
	Impulse32    float32 // Physics.Impulse as float32
	ScreenWidth  int     // Grid.Width * Screen.Scale
	ScreenHeight int     // Grid.Height * Screen.Scale
	StatsTicks   int     // Telemetry.StatsWindow / Physics.DT, at least 1
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
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

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
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

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.Gravity32 = float32(c.Physics.Gravity)
	c.Derived.Impulse32 = float32(c.Physics.Impulse)

	scale := c.Screen.Scale
	if scale < 1 {
		scale = 1
	}
	c.Derived.ScreenWidth = c.Grid.Width * scale
	c.Derived.ScreenHeight = c.Grid.Height * scale

	c.Derived.StatsTicks = 1
	if c.Physics.DT > 0 {
		if n := int(c.Telemetry.StatsWindow / c.Physics.DT); n > 1 {
			c.Derived.StatsTicks = n
		}
	}
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
