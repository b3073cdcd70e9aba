package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's starting world-space position.
//
// Parameters:
//   - position: world-space position
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(position mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = position
	}
}

// WithYaw sets the starting yaw in degrees.
//
// Parameters:
//   - yaw: horizontal angle in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's yaw
func WithYaw(yaw float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.yaw = yaw
	}
}

// WithPitch sets the starting pitch in degrees. The value is clamped to [MinPitch, MaxPitch]
// once all options are applied.
//
// Parameters:
//   - pitch: vertical angle in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's pitch
func WithPitch(pitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pitch = pitch
	}
}

// WithWorldUp sets the world up axis used to derive the right vector.
//
// Parameters:
//   - x, y, z: world up components
//
// Returns:
//   - CameraBuilderOption: a function that sets the world up axis
func WithWorldUp(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.worldUp = mgl32.Vec3{x, y, z}
	}
}

// WithMouseSensitivity sets the scale applied to pointer offsets.
//
// Parameters:
//   - sensitivity: degrees per pointer unit
//
// Returns:
//   - CameraBuilderOption: a function that sets the mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.mouseSensitivity = sensitivity
	}
}

// WithYawWrap keeps yaw inside [0, 360) after every orientation change. The derived basis is
// unchanged; only the stored angle stays small over long sessions.
//
// Parameters:
//   - enabled: true to wrap yaw
//
// Returns:
//   - CameraBuilderOption: a function that toggles yaw wrapping
func WithYawWrap(enabled bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.wrapYaw = enabled
	}
}
