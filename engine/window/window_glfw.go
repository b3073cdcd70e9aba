package window

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window *glfw.Window
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, glfw.DontCare, glfw.DontCare)

	gw := &glfwWindow{window: win}
	w.internalWindow = gw

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			if w.pointer.locked {
				w.ReleasePointer()
			} else if w.closeOnEscape {
				win.SetShouldClose(true)
			}
			return
		}
		switch action {
		case glfw.Press:
			if w.onKeyDown != nil {
				w.onKeyDown(uint32(key), int(mods))
			}
		case glfw.Release:
			if w.onKeyUp != nil {
				w.onKeyUp(uint32(key))
			}
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button == glfw.MouseButtonLeft && action == glfw.Press && w.lockOnClick && !w.pointer.locked {
			w.LockPointer()
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		dx, dy, ok := w.pointer.move(xpos, ypos)
		if ok && w.onPointerMove != nil {
			w.onPointerMove(dx, dy)
		}
	})

	// Unfocusing the window drops the lock the same way a browser does.
	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if !focused && w.pointer.locked {
			w.ReleasePointer()
		}
	})

	// Framebuffer size is in pixels, which is what the surface configuration needs on high-DPI displays.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	slog.Info("window created", "title", w.title, "width", w.width, "height", w.height)
	return nil
}

// platformSetPointerLock switches between a disabled (captured) and a normal cursor.
// Raw motion is used when the platform supports it.
func platformSetPointerLock(w *engineWindow, locked bool) {
	if w.internalWindow == nil {
		return
	}
	gw := w.internalWindow.(*glfwWindow)
	if locked {
		gw.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			gw.window.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
		slog.Debug("pointer locked")
		return
	}
	if glfw.RawMouseMotionSupported() {
		gw.window.SetInputMode(glfw.RawMouseMotion, glfw.False)
	}
	gw.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	slog.Debug("pointer released")
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return !gw.window.ShouldClose()
}

// platformRequestClose flags the window for closing. glfwSetWindowShouldClose may be called
// from any thread.
func platformRequestClose(w *engineWindow) {
	if w.internalWindow == nil {
		return
	}
	w.internalWindow.(*glfwWindow).window.SetShouldClose(true)
}

func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	w.internalWindow = nil
	glfw.Terminate()
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
