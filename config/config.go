package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Config holds every startup constant. It is read once and never mutated afterwards.
type Config struct {
	Controls   ControlsConfig   `yaml:"controls"`
	Water      WaterConfig      `yaml:"water"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Scene      SceneConfig      `yaml:"scene"`
	Projection ProjectionConfig `yaml:"projection"`
	Window     WindowConfig     `yaml:"window"`
	Logging    LoggingConfig    `yaml:"logging"`
	Remote     RemoteConfig     `yaml:"remote"`
	Render     RenderConfig     `yaml:"render"`
}

type ControlsConfig struct {
	Speed            float32 `yaml:"speed"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
}

type WaterConfig struct {
	Speed float64 `yaml:"speed"`
}

type TerrainConfig struct {
	Steps     int     `yaml:"steps"`
	MaxBounds float32 `yaml:"max_bounds"`
}

type SceneConfig struct {
	FogColor       []float32 `yaml:"fog_color"`
	LightDirection []float32 `yaml:"light_direction"`
	StartPosition  []float32 `yaml:"start_position"`
}

type ProjectionConfig struct {
	FOV  float32 `yaml:"fov"` // radians
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type RemoteConfig struct {
	Listen string `yaml:"listen"` // empty disables the remote input server

	// AllowedOrigins lists browser origins besides the server's own that may connect.
	// "*" admits any page open in a local browser.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type RenderConfig struct {
	FrameLimit float64 `yaml:"frame_limit"` // 0 = uncapped
	Profiling  bool    `yaml:"profiling"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Controls: ControlsConfig{Speed: 0.002, MouseSensitivity: 0.5},
		Water:    WaterConfig{Speed: 800},
		Terrain:  TerrainConfig{Steps: 800, MaxBounds: 8},
		Scene: SceneConfig{
			FogColor:       []float32{0.8, 0.9, 1, 1},
			LightDirection: []float32{-0.25, -0.25, -0.25, 0},
			StartPosition:  []float32{0, 3, 0},
		},
		Projection: ProjectionConfig{FOV: 2 * math.Pi / 5, Near: 0.01, Far: 100},
		Window:     WindowConfig{Title: "Oxy Tides", Width: 1280, Height: 720},
		Logging:    LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over the defaults and validates the result. Keys missing from
// the file keep their default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the frame loop or terrain generator cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Terrain.Steps < 2 {
		errs = append(errs, fmt.Errorf("terrain.steps must be at least 2, got %d", c.Terrain.Steps))
	}
	if c.Terrain.MaxBounds <= 0 {
		errs = append(errs, fmt.Errorf("terrain.max_bounds must be positive, got %v", c.Terrain.MaxBounds))
	}
	if c.Water.Speed <= 0 {
		errs = append(errs, fmt.Errorf("water.speed must be positive, got %v", c.Water.Speed))
	}
	if c.Controls.Speed < 0 {
		errs = append(errs, fmt.Errorf("controls.speed must not be negative, got %v", c.Controls.Speed))
	}
	if c.Projection.FOV <= 0 || c.Projection.FOV >= math.Pi {
		errs = append(errs, fmt.Errorf("projection.fov must be in (0, pi), got %v", c.Projection.FOV))
	}
	if c.Projection.Near <= 0 || c.Projection.Far <= c.Projection.Near {
		errs = append(errs, fmt.Errorf("projection planes must satisfy 0 < near < far, got %v/%v", c.Projection.Near, c.Projection.Far))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Render.FrameLimit < 0 {
		errs = append(errs, fmt.Errorf("render.frame_limit must not be negative, got %v", c.Render.FrameLimit))
	}
	for name, v := range map[string]struct {
		got  []float32
		want int
	}{
		"scene.fog_color":       {c.Scene.FogColor, 4},
		"scene.light_direction": {c.Scene.LightDirection, 4},
		"scene.start_position":  {c.Scene.StartPosition, 3},
	} {
		if len(v.got) != v.want {
			errs = append(errs, fmt.Errorf("%s needs %d components, got %d", name, v.want, len(v.got)))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// FogColor returns scene.fog_color as a vector. Call after Validate.
func (c *Config) FogColor() mgl32.Vec4 {
	return mgl32.Vec4{c.Scene.FogColor[0], c.Scene.FogColor[1], c.Scene.FogColor[2], c.Scene.FogColor[3]}
}

// LightDirection returns scene.light_direction as a vector. Call after Validate.
func (c *Config) LightDirection() mgl32.Vec4 {
	d := c.Scene.LightDirection
	return mgl32.Vec4{d[0], d[1], d[2], d[3]}
}

// StartPosition returns scene.start_position as a vector. Call after Validate.
func (c *Config) StartPosition() mgl32.Vec3 {
	p := c.Scene.StartPosition
	return mgl32.Vec3{p[0], p[1], p[2]}
}
