package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-tides/common"
	"github.com/Carmen-Shannon/oxy-tides/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxPitch is the highest pitch in degrees. Looking straight up would make front parallel
	// to the world up axis and collapse the right vector.
	MaxPitch float32 = 89.0

	// MinPitch is the lowest pitch in degrees.
	MinPitch float32 = -89.0

	// DefaultYaw faces down the -Z axis.
	DefaultYaw float32 = -90.0

	// DefaultPitch tilts the camera toward the water surface.
	DefaultPitch float32 = -30.0

	// DefaultMouseSensitivity scales raw pointer offsets into degrees.
	DefaultMouseSensitivity float32 = 0.5
)

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	worldUp  mgl32.Vec3

	// Derived basis, rebuilt by updateOrientationVectors.
	front mgl32.Vec3
	right mgl32.Vec3
	up    mgl32.Vec3

	// Euler angles in degrees.
	yaw   float32
	pitch float32

	mouseSensitivity float32
	wrapYaw          bool
}

// Camera defines the interface for the first-person camera.
// The camera owns a world-space position and a yaw/pitch orientation from which it derives an
// orthonormal front/right/up basis. Movement and view matrices are expressed in that basis.
//
// Orientation changes follow a two-step contract: SetOrientation mutates yaw/pitch only and
// UpdateOrientationVectors rebuilds the basis. ProcessMouseMovement performs both steps.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space position
	Position() mgl32.Vec3

	// SetPosition sets the camera's world-space position.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position mgl32.Vec3)

	// Yaw returns the horizontal look angle in degrees.
	//
	// Returns:
	//   - float32: yaw in degrees
	Yaw() float32

	// Pitch returns the vertical look angle in degrees, always within [MinPitch, MaxPitch].
	//
	// Returns:
	//   - float32: pitch in degrees
	Pitch() float32

	// SetOrientation sets yaw and pitch in degrees. Pitch is clamped to [MinPitch, MaxPitch].
	// The basis vectors are left untouched until UpdateOrientationVectors is called.
	//
	// Parameters:
	//   - yaw: horizontal angle in degrees
	//   - pitch: vertical angle in degrees
	SetOrientation(yaw, pitch float32)

	// Front returns the unit look direction.
	//
	// Returns:
	//   - mgl32.Vec3: front vector
	Front() mgl32.Vec3

	// Right returns the unit right vector.
	//
	// Returns:
	//   - mgl32.Vec3: right vector
	Right() mgl32.Vec3

	// Up returns the unit camera-local up vector.
	//
	// Returns:
	//   - mgl32.Vec3: up vector
	Up() mgl32.Vec3

	// WorldUp returns the world up axis used to derive the right vector.
	//
	// Returns:
	//   - mgl32.Vec3: world up axis
	WorldUp() mgl32.Vec3

	// MouseSensitivity returns the degrees-per-unit scale applied to pointer offsets.
	//
	// Returns:
	//   - float32: mouse sensitivity
	MouseSensitivity() float32

	// UpdateOrientationVectors rebuilds front, right and up from the current yaw and pitch.
	// Idempotent: calling it twice without an orientation change yields the same basis.
	UpdateOrientationVectors()

	// ProcessControls translates the position by speed along the basis vector of every
	// active movement flag. Simultaneous flags add up, so diagonal movement is faster than
	// movement along a single axis.
	//
	// Parameters:
	//   - controls: the input snapshot for this frame
	//   - speed: distance per active flag, normally elapsed milliseconds times a sensitivity
	ProcessControls(controls input.Snapshot, speed float32)

	// ProcessMouseMovement scales the offsets by the mouse sensitivity, adds them to yaw and
	// pitch, clamps pitch and rebuilds the basis vectors.
	//
	// Parameters:
	//   - xOffset: horizontal pointer offset (positive turns right)
	//   - yOffset: vertical pointer offset (positive looks up)
	ProcessMouseMovement(xOffset, yOffset float32)

	// ViewMatrix returns the look-at matrix from the camera's true position along front.
	//
	// Returns:
	//   - mgl32.Mat4: the world-to-view matrix (column-major)
	ViewMatrix() mgl32.Mat4

	// AnchoredViewMatrix returns the look-at matrix from an eye at (x, trueY, z). The real
	// position keeps driving movement while the rendered eye stays pinned horizontally, so a
	// stationary mesh reads as endless terrain.
	//
	// Parameters:
	//   - x: eye X coordinate override
	//   - z: eye Z coordinate override
	//
	// Returns:
	//   - mgl32.Mat4: the world-to-view matrix (column-major)
	AnchoredViewMatrix(x, z float32) mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at the origin facing DefaultYaw / DefaultPitch with a Y-up
// world axis. The basis vectors are built before NewCamera returns.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:               &sync.Mutex{},
		worldUp:          common.WorldUp,
		yaw:              DefaultYaw,
		pitch:            DefaultPitch,
		mouseSensitivity: DefaultMouseSensitivity,
	}
	for _, option := range options {
		option(c)
	}
	c.pitch = common.Clamp(c.pitch, MinPitch, MaxPitch)
	c.updateOrientationVectors()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(position mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
}

func (c *cameraImpl) Yaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw
}

func (c *cameraImpl) Pitch() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitch
}

func (c *cameraImpl) SetOrientation(yaw, pitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setOrientation(yaw, pitch)
}

func (c *cameraImpl) Front() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.front
}

func (c *cameraImpl) Right() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.right
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) WorldUp() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worldUp
}

func (c *cameraImpl) MouseSensitivity() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mouseSensitivity
}

func (c *cameraImpl) UpdateOrientationVectors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateOrientationVectors()
}

func (c *cameraImpl) ProcessControls(controls input.Snapshot, speed float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if controls.Forward {
		c.position = c.position.Add(c.front.Mul(speed))
	}
	if controls.Backward {
		c.position = c.position.Sub(c.front.Mul(speed))
	}
	if controls.Left {
		c.position = c.position.Sub(c.right.Mul(speed))
	}
	if controls.Right {
		c.position = c.position.Add(c.right.Mul(speed))
	}
}

func (c *cameraImpl) ProcessMouseMovement(xOffset, yOffset float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	xOffset *= c.mouseSensitivity
	yOffset *= c.mouseSensitivity

	c.setOrientation(c.yaw+xOffset, c.pitch+yOffset)
	c.updateOrientationVectors()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookFrom(c.position)
}

func (c *cameraImpl) AnchoredViewMatrix(x, z float32) mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookFrom(mgl32.Vec3{x, c.position.Y(), z})
}

// lookFrom builds the look-at matrix for eye along the current front and up vectors.
// Caller must hold the mutex.
func (c *cameraImpl) lookFrom(eye mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, eye.Add(c.front), c.up)
}

// setOrientation stores yaw and the clamped pitch, wrapping yaw into [0, 360) when enabled.
// Caller must hold the mutex.
func (c *cameraImpl) setOrientation(yaw, pitch float32) {
	if c.wrapYaw {
		yaw = float32(math.Mod(float64(yaw), 360))
		if yaw < 0 {
			yaw += 360
		}
	}
	c.yaw = yaw
	c.pitch = common.Clamp(pitch, MinPitch, MaxPitch)
}

// updateOrientationVectors recomputes front, right and up from yaw and pitch in one pass.
// Right and up are renormalised: their cross-product length shrinks toward zero as the
// camera looks toward vertical, which would slow strafing.
// Caller must hold the mutex.
func (c *cameraImpl) updateOrientationVectors() {
	yaw := common.DegToRad(c.yaw)
	pitch := common.DegToRad(c.pitch)

	c.front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}
