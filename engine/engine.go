package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-tides/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tides/engine/window"
)

// FrameFunc renders one frame. dt is the wall time since the previous frame in seconds.
// A returned error is logged and the loop continues.
type FrameFunc func(dt float32) error

// engine implements the Engine interface.
// Coordinates the render goroutine and the window thread.
type engine struct {
	mu *sync.Mutex

	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback  FrameFunc
	resizeCallback func(width, height int)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	frames           uint64
}

// Engine orchestrates the render loop and window message pump.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers the function called once per render frame on the render goroutine.
	//
	// Parameters:
	//   - callback: the per-frame function
	SetFrameCallback(callback FrameFunc)

	// SetResizeCallback registers the function called on the window thread when the framebuffer
	// size changes. Zero sizes are not forwarded.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Frames returns the number of frames rendered so far.
	//
	// Returns:
	//   - uint64: completed frame count
	Frames() uint64

	// Run starts the render goroutine and pumps window messages on the calling goroutine,
	// which must be the main thread. Blocks until the window closes or ctx is cancelled.
	//
	// Parameters:
	//   - ctx: cancelling it closes the window and stops the loop
	//
	// Returns:
	//   - error: an error if the engine has no window
	Run(ctx context.Context) error

	// Quit signals the render goroutine to stop and asks the window to close.
	// Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, frame limit)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:               &sync.Mutex{},
		quitChannel:      make(chan struct{}),
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(time.Second),
		profilingEnabled: false,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if width <= 0 || height <= 0 {
				return
			}
			e.mu.Lock()
			cb := e.resizeCallback
			e.mu.Unlock()
			if cb != nil {
				cb(width, height)
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run(ctx context.Context) error {
	if e.window == nil {
		return fmt.Errorf("engine: no window configured")
	}

	e.wg.Add(2)
	go e.handleRender()
	go e.handleQuit(ctx)

	e.window.ProcessMessages()

	// The window closed on its own (close button, Escape).
	e.signalQuit()
	e.wg.Wait()
	slog.Info("engine stopped", "frames", e.Frames())
	return nil
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel and asks the window to close.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// handleQuit waits for ctx or an internal quit and makes sure both paths end in signalQuit.
func (e *engine) handleQuit(ctx context.Context) {
	defer e.wg.Done()
	select {
	case <-ctx.Done():
		slog.Info("shutdown requested", "cause", context.Cause(ctx))
		e.signalQuit()
	case <-e.quitChannel:
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("render goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		e.mu.Lock()
		cb := e.frameCallback
		limit := e.renderFrameLimit
		profiling := e.profilingEnabled
		e.mu.Unlock()

		if cb != nil {
			if err := cb(dt); err != nil {
				slog.Warn("frame failed", "error", err)
			}
		}

		e.mu.Lock()
		e.frames++
		e.mu.Unlock()

		if profiling && e.profiler != nil {
			e.profiler.Tick()
		}

		if limit > 0 {
			if remaining := limit - time.Since(lastRender); remaining > 0 {
				select {
				case <-e.quitChannel:
					return
				case <-time.After(remaining):
				}
			}
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback FrameFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frameCallback = callback
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resizeCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// frameDuration converts a frame rate cap into a minimum frame duration. Non-positive is uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
