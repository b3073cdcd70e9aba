package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/Carmen-Shannon/oxy-tides/common"
	"github.com/Carmen-Shannon/oxy-tides/config"
	"github.com/Carmen-Shannon/oxy-tides/engine"
	"github.com/Carmen-Shannon/oxy-tides/engine/camera"
	"github.com/Carmen-Shannon/oxy-tides/engine/frame"
	"github.com/Carmen-Shannon/oxy-tides/engine/input"
	"github.com/Carmen-Shannon/oxy-tides/engine/remote"
	"github.com/Carmen-Shannon/oxy-tides/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tides/engine/terrain"
	"github.com/Carmen-Shannon/oxy-tides/engine/window"
	"github.com/Carmen-Shannon/oxy-tides/logger"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	// GLFW and the surface must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		slog.Error("oxy-tides failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file (defaults are used when empty)")
	software := flag.Bool("software", false, "force the software fallback adapter")
	vsync := flag.Bool("vsync", true, "wait for vertical blank when presenting")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Terrain ─────────────────────────────────────────────────────────
	mesh, err := terrain.Generate(cfg.Terrain.MaxBounds, cfg.Terrain.Steps)
	if err != nil {
		return fmt.Errorf("generate terrain: %w", err)
	}

	// ── Window ──────────────────────────────────────────────────────────
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	// ── Renderer ────────────────────────────────────────────────────────
	presentMode := renderer.PresentModeVSync
	if !*vsync {
		presentMode = renderer.PresentModeUncapped
	}
	r, err := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(*software),
		renderer.WithClearColor(cfg.FogColor()),
	)
	if err != nil {
		return err
	}
	defer r.Release()

	if err := r.UploadMesh(&mesh); err != nil {
		return err
	}

	// ── Input ───────────────────────────────────────────────────────────
	state := input.NewState()
	win.SetKeyDownCallback(state.HandleKeyDown)
	win.SetKeyUpCallback(state.HandleKeyUp)
	win.SetPointerMoveCallback(state.AddMouseDelta)

	if cfg.Remote.Listen != "" {
		srv := remote.NewServer(state, remote.WithAllowedOrigins(cfg.Remote.AllowedOrigins...))
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Remote.Listen); err != nil {
				slog.Error("remote input stopped", "error", err)
			}
		}()
	}

	// ── Camera + Frame ──────────────────────────────────────────────────
	start := cfg.StartPosition()
	cam := camera.NewCamera(
		camera.WithPosition(start),
		camera.WithMouseSensitivity(cfg.Controls.MouseSensitivity),
	)

	fs := frame.NewFrameState(cam, state,
		frame.WithProjection(perspective(cfg, win.Width(), win.Height())),
		frame.WithFogColor(cfg.FogColor()),
		frame.WithLightDirection(cfg.LightDirection()),
		frame.WithControlsSpeed(cfg.Controls.Speed),
		frame.WithWaterSpeed(cfg.Water.Speed),
		frame.WithHorizontalAnchor(start.X(), start.Z()),
	)

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithProfiling(cfg.Render.Profiling),
		engine.WithRenderFrameLimit(cfg.Render.FrameLimit),
		engine.WithFrameCallback(func(dt float32) error {
			r.WriteUniforms(fs.Advance())
			return r.DrawFrame()
		}),
	)
	eng.SetResizeCallback(func(width, height int) {
		r.Resize(width, height)
		fs.SetProjection(perspective(cfg, width, height))
	})

	slog.Info("oxy-tides running",
		"steps", cfg.Terrain.Steps,
		"bounds", cfg.Terrain.MaxBounds,
		"remote", common.Coalesce(cfg.Remote.Listen, "off"),
	)
	return eng.Run(ctx)
}

func perspective(cfg *config.Config, width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return common.Perspective(cfg.Projection.FOV, aspect, cfg.Projection.Near, cfg.Projection.Far)
}
