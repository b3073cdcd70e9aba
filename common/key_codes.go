package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW   = 87  // W key (ASCII)
	KeyA   = 65  // A key (ASCII)
	KeyS   = 83  // S key (ASCII)
	KeyD   = 68  // D key (ASCII)
	KeyL   = 76  // L key (ASCII)
	KeyEsc = 256 // Escape key (GLFW)
)

// Modifier keys. Pressing one of these alone also reports the matching modifier bit.
const (
	KeyLeftShift    = 340 // Left Shift (GLFW)
	KeyLeftControl  = 341 // Left Control (GLFW)
	KeyLeftAlt      = 342 // Left Alt (GLFW)
	KeyRightShift   = 344 // Right Shift (GLFW)
	KeyRightControl = 345 // Right Control (GLFW)
	KeyRightAlt     = 346 // Right Alt (GLFW)
)

// Modifier bit flags reported alongside key events.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#ModifierKey
const (
	ModShift   = 0x0001
	ModControl = 0x0002
	ModAlt     = 0x0004
)
