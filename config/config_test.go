package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	if cfg.Controls.Speed != 0.002 || cfg.Controls.MouseSensitivity != 0.5 {
		t.Errorf("controls = %+v", cfg.Controls)
	}
	if cfg.Water.Speed != 800 || cfg.Terrain.Steps != 800 || cfg.Terrain.MaxBounds != 8 {
		t.Errorf("water/terrain = %+v %+v", cfg.Water, cfg.Terrain)
	}
	if cfg.FogColor() != (mgl32.Vec4{0.8, 0.9, 1, 1}) {
		t.Errorf("FogColor = %v", cfg.FogColor())
	}
	if cfg.LightDirection() != (mgl32.Vec4{-0.25, -0.25, -0.25, 0}) {
		t.Errorf("LightDirection = %v", cfg.LightDirection())
	}
	if cfg.StartPosition() != (mgl32.Vec3{0, 3, 0}) {
		t.Errorf("StartPosition = %v", cfg.StartPosition())
	}
	if cfg.Projection.FOV != float32(2*math.Pi/5) || cfg.Projection.Far != 100 {
		t.Errorf("projection = %+v", cfg.Projection)
	}
	if cfg.Remote.Listen != "" || cfg.Render.FrameLimit != 0 || cfg.Render.Profiling {
		t.Errorf("optional features should be off: %+v %+v", cfg.Remote, cfg.Render)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		createFile bool
		content    string
		wantErr    string
		validate   func(t *testing.T, cfg *Config)
	}{
		{
			name:       "overrides keep other defaults",
			createFile: true,
			content: `controls:
  speed: 0.004
terrain:
  steps: 128
scene:
  fog_color: [0.1, 0.2, 0.3, 1]
remote:
  listen: "127.0.0.1:9090"
  allowed_origins: ["http://localhost:3000"]
render:
  frame_limit: 144
  profiling: true
`,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Controls.Speed != 0.004 {
					t.Errorf("Controls.Speed = %v, want 0.004", cfg.Controls.Speed)
				}
				if cfg.Controls.MouseSensitivity != 0.5 {
					t.Errorf("MouseSensitivity = %v, want default 0.5", cfg.Controls.MouseSensitivity)
				}
				if cfg.Terrain.Steps != 128 || cfg.Terrain.MaxBounds != 8 {
					t.Errorf("Terrain = %+v", cfg.Terrain)
				}
				if cfg.FogColor() != (mgl32.Vec4{0.1, 0.2, 0.3, 1}) {
					t.Errorf("FogColor = %v", cfg.FogColor())
				}
				if cfg.StartPosition() != (mgl32.Vec3{0, 3, 0}) {
					t.Errorf("StartPosition = %v, want default", cfg.StartPosition())
				}
				if len(cfg.Remote.AllowedOrigins) != 1 || cfg.Remote.AllowedOrigins[0] != "http://localhost:3000" {
					t.Errorf("AllowedOrigins = %v", cfg.Remote.AllowedOrigins)
				}
				if cfg.Remote.Listen != "127.0.0.1:9090" || cfg.Render.FrameLimit != 144 || !cfg.Render.Profiling {
					t.Errorf("remote/render = %+v %+v", cfg.Remote, cfg.Render)
				}
			},
		},
		{
			name:       "empty file yields defaults",
			createFile: true,
			content:    "",
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Window.Title != "Oxy Tides" || cfg.Window.Width != 1280 {
					t.Errorf("Window = %+v", cfg.Window)
				}
			},
		},
		{
			name:       "missing file",
			createFile: false,
			wantErr:    "no such file",
		},
		{
			name:       "malformed yaml",
			createFile: true,
			content:    "terrain:\n  steps: [800\n",
			wantErr:    "yaml",
		},
		{
			name:       "invalid steps",
			createFile: true,
			content:    "terrain:\n  steps: 1\n",
			wantErr:    "terrain.steps",
		},
		{
			name:       "short vector",
			createFile: true,
			content:    "scene:\n  start_position: [0, 3]\n",
			wantErr:    "scene.start_position",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.createFile {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatalf("write config: %v", err)
				}
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Load() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"zero bounds", func(c *Config) { c.Terrain.MaxBounds = 0 }, "terrain.max_bounds"},
		{"zero water speed", func(c *Config) { c.Water.Speed = 0 }, "water.speed"},
		{"negative controls speed", func(c *Config) { c.Controls.Speed = -1 }, "controls.speed"},
		{"zero near", func(c *Config) { c.Projection.Near = 0 }, "0 < near < far"},
		{"far before near", func(c *Config) { c.Projection.Far = 0.001 }, "0 < near < far"},
		{"fov too wide", func(c *Config) { c.Projection.FOV = 4 }, "projection.fov"},
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"negative frame limit", func(c *Config) { c.Render.FrameLimit = -1 }, "render.frame_limit"},
		{"short fog color", func(c *Config) { c.Scene.FogColor = []float32{1, 1, 1} }, "scene.fog_color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
