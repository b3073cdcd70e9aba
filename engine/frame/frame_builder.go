package frame

import "github.com/go-gl/mathgl/mgl32"

// FrameStateBuilderOption is a functional option for configuring a FrameState.
type FrameStateBuilderOption func(*frameStateImpl)

// WithProjection sets the projection matrix written into every payload.
//
// Parameters:
//   - projection: the projection matrix
//
// Returns:
//   - FrameStateBuilderOption: option function to apply
func WithProjection(projection mgl32.Mat4) FrameStateBuilderOption {
	return func(f *frameStateImpl) {
		f.projection = projection
	}
}

// WithFogColor sets the RGBA fog color.
//
// Parameters:
//   - color: fog color
//
// Returns:
//   - FrameStateBuilderOption: option function to apply
func WithFogColor(color mgl32.Vec4) FrameStateBuilderOption {
	return func(f *frameStateImpl) {
		f.fogColor = color
	}
}

// WithLightDirection sets the directional light vector.
//
// Parameters:
//   - direction: light direction
//
// Returns:
//   - FrameStateBuilderOption: option function to apply
func WithLightDirection(direction mgl32.Vec4) FrameStateBuilderOption {
	return func(f *frameStateImpl) {
		f.lightDirection = direction
	}
}

// WithControlsSpeed sets the movement distance per elapsed millisecond.
//
// Parameters:
//   - speed: distance per millisecond
//
// Returns:
//   - FrameStateBuilderOption: option function to apply
func WithControlsSpeed(speed float32) FrameStateBuilderOption {
	return func(f *frameStateImpl) {
		f.controlsSpeed = speed
	}
}

// WithWaterSpeed sets the divisor turning elapsed milliseconds into animation time.
//
// Parameters:
//   - speed: milliseconds per animation unit
//
// Returns:
//   - FrameStateBuilderOption: option function to apply
func WithWaterSpeed(speed float64) FrameStateBuilderOption {
	return func(f *frameStateImpl) {
		f.waterSpeed = speed
	}
}

// WithHorizontalAnchor pins the rendered eye to (x, z) while the camera keeps its true
// position for movement and the payload.
//
// Parameters:
//   - x: eye X coordinate
//   - z: eye Z coordinate
//
// Returns:
//   - FrameStateBuilderOption: option function to apply
func WithHorizontalAnchor(x, z float32) FrameStateBuilderOption {
	return func(f *frameStateImpl) {
		f.anchored = true
		f.anchor = mgl32.Vec2{x, z}
	}
}

// WithClock sets the clock read at construction and by Advance.
//
// Parameters:
//   - clock: the clock
//
// Returns:
//   - FrameStateBuilderOption: option function to apply
func WithClock(clock Clock) FrameStateBuilderOption {
	return func(f *frameStateImpl) {
		f.clock = clock
	}
}
