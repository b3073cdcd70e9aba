package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing, keyboard events and pointer-locked mouse look.
// All callbacks run on the goroutine that called NewWindow, which must be the main thread.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events. Auto-repeat events are
	// not delivered.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code and modifier bits
	SetKeyDownCallback(callback func(keyCode uint32, mods int))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetPointerMoveCallback sets the callback for relative pointer motion. It only fires
	// while the pointer is locked. Positive dx is rightward, positive dy is upward.
	//
	// Parameters:
	//   - callback: function receiving the motion since the previous event
	SetPointerMoveCallback(callback func(dx, dy float32))

	// LockPointer hides the cursor and captures relative pointer motion.
	LockPointer()

	// ReleasePointer restores the cursor and stops relative motion events.
	ReleasePointer()

	// PointerLocked reports whether the pointer is currently captured.
	//
	// Returns:
	//   - bool: true while locked
	PointerLocked() bool

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface,
	// created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the surface descriptor, or nil if the window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still open.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to exit after the current iteration.
	// Safe to call from any goroutine.
	RequestClose()

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error

	// ProcessMessages runs the window message loop. Blocks until the window is closed.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	minWidth  int
	minHeight int

	width  int
	height int

	// lockOnClick captures the pointer on a left click.
	lockOnClick bool

	// closeOnEscape closes the window on Escape when the pointer is not locked.
	closeOnEscape bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	pointer pointerTracker

	onUpdate      func()
	onResize      func(width, height int)
	onKeyDown     func(keyCode uint32, mods int)
	onKeyUp       func(keyCode uint32)
	onPointerMove func(dx, dy float32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a Window with the specified options.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:         "Oxy Tides",
		minWidth:      320,
		minHeight:     200,
		width:         1280,
		height:        720,
		lockOnClick:   true,
		closeOnEscape: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32, mods int)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetPointerMoveCallback(callback func(dx, dy float32)) {
	w.onPointerMove = callback
}

func (w *engineWindow) LockPointer() {
	platformSetPointerLock(w, true)
	w.pointer.lock()
}

func (w *engineWindow) ReleasePointer() {
	platformSetPointerLock(w, false)
	w.pointer.release()
}

func (w *engineWindow) PointerLocked() bool {
	return w.pointer.locked
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// pointerTracker converts absolute cursor positions into relative motion while locked.
// The first position after locking only seeds the tracker so the jump from the unlocked
// cursor position is not reported.
type pointerTracker struct {
	locked bool
	seeded bool
	lastX  float64
	lastY  float64
}

func (p *pointerTracker) lock() {
	p.locked = true
	p.seeded = false
}

func (p *pointerTracker) release() {
	p.locked = false
	p.seeded = false
}

// move records the cursor position and returns the motion since the previous call.
// Screen Y grows downward, so dy is inverted to make upward motion positive.
func (p *pointerTracker) move(x, y float64) (dx, dy float32, ok bool) {
	if !p.locked {
		return 0, 0, false
	}
	if !p.seeded {
		p.lastX, p.lastY = x, y
		p.seeded = true
		return 0, 0, false
	}
	dx = float32(x - p.lastX)
	dy = float32(p.lastY - y)
	p.lastX, p.lastY = x, y
	return dx, dy, dx != 0 || dy != 0
}
