package frame

import (
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-tides/engine/camera"
	"github.com/Carmen-Shannon/oxy-tides/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultControlsSpeed is the distance travelled per elapsed millisecond per movement flag.
	DefaultControlsSpeed float32 = 0.002

	// DefaultWaterSpeed divides elapsed milliseconds into animation time units.
	DefaultWaterSpeed float64 = 800

	// AnimationPeriod is the modulus applied to animation time.
	AnimationPeriod = 1000
)

// Config is the fourth vector of the uniform record.
type Config struct {
	AnimationTime float32
	FogOn         bool
	LightsOn      bool
	AnimationOn   bool
}

// Payload is the per-frame uniform record before serialization.
type Payload struct {
	Projection     mgl32.Mat4
	View           mgl32.Mat4
	FogColor       mgl32.Vec4
	LightDirection mgl32.Vec4
	CameraPosition mgl32.Vec3
	Config         Config
}

// GPU converts the payload into its GPU-aligned form. Toggles become 1.0 or 0.0.
//
// Returns:
//   - GPUFrameUniform: the GPU representation
func (p Payload) GPU() GPUFrameUniform {
	return GPUFrameUniform{
		Projection:     p.Projection,
		View:           p.View,
		FogColor:       p.FogColor,
		LightDirection: p.LightDirection,
		CameraPosition: [4]float32{p.CameraPosition[0], p.CameraPosition[1], p.CameraPosition[2], 0},
		Config: [4]float32{
			p.Config.AnimationTime,
			boolToFloat(p.Config.FogOn),
			boolToFloat(p.Config.LightsOn),
			boolToFloat(p.Config.AnimationOn),
		},
	}
}

// BufferView is a read-only view over the serialized payload, ready for a buffer write.
// Data stays owned by the FrameState and is overwritten on the next Tick or Assemble.
type BufferView struct {
	Data       []byte
	ByteOffset int
	ByteLength int
}

// Bytes returns the viewed byte range.
//
// Returns:
//   - []byte: Data[ByteOffset : ByteOffset+ByteLength]
func (v BufferView) Bytes() []byte {
	return v.Data[v.ByteOffset : v.ByteOffset+v.ByteLength]
}

// Clock supplies monotonic time for the frame loop.
type Clock interface {
	// Now returns the time elapsed since an arbitrary fixed origin.
	Now() time.Duration
}

type monotonicClock struct {
	start time.Time
}

func (c monotonicClock) Now() time.Duration {
	return time.Since(c.start)
}

// NewMonotonicClock returns a Clock measuring from the moment it was created.
//
// Returns:
//   - Clock: the clock
func NewMonotonicClock() Clock {
	return monotonicClock{start: time.Now()}
}

type frameStateImpl struct {
	mu *sync.Mutex

	cam   camera.Camera
	input input.State
	clock Clock

	projection     mgl32.Mat4
	fogColor       mgl32.Vec4
	lightDirection mgl32.Vec4

	controlsSpeed float32
	waterSpeed    float64

	anchored bool
	anchor   mgl32.Vec2

	last    time.Duration
	payload Payload
	buf     []byte
}

// FrameState derives the uniform payload once per frame from the camera, the input state
// and elapsed time. It owns a single scratch buffer that every call overwrites.
type FrameState interface {
	// Tick advances one frame at time now: it drains one input snapshot, applies pointer
	// motion to the camera, moves the camera by elapsed milliseconds times the controls
	// speed and assembles the payload. Elapsed time is measured from the previous Tick
	// (or from construction) and negative values are treated as zero.
	//
	// Parameters:
	//   - now: the current clock reading
	//
	// Returns:
	//   - BufferView: the serialized payload
	Tick(now time.Duration) BufferView

	// Advance calls Tick with the configured clock's current reading.
	//
	// Returns:
	//   - BufferView: the serialized payload
	Advance() BufferView

	// Assemble serializes p into the scratch buffer, field by field in fixed order.
	//
	// Parameters:
	//   - p: the payload to serialize
	//
	// Returns:
	//   - BufferView: the serialized payload
	Assemble(p Payload) BufferView

	// Payload returns the payload built by the last Tick.
	//
	// Returns:
	//   - Payload: the last payload
	Payload() Payload

	// SetProjection replaces the projection matrix, for example after a resize.
	//
	// Parameters:
	//   - projection: the new projection matrix
	SetProjection(projection mgl32.Mat4)

	// Camera returns the camera driven by this frame state.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera
}

var _ FrameState = &frameStateImpl{}

// NewFrameState creates a FrameState for the given camera and input state. The clock is
// read once here so the first Tick measures from construction.
//
// Parameters:
//   - cam: the camera to drive
//   - in: the input state to snapshot each frame
//   - options: functional options to configure the frame state
//
// Returns:
//   - FrameState: the newly created frame state
func NewFrameState(cam camera.Camera, in input.State, options ...FrameStateBuilderOption) FrameState {
	f := &frameStateImpl{
		mu:            &sync.Mutex{},
		cam:           cam,
		input:         in,
		projection:    mgl32.Ident4(),
		controlsSpeed: DefaultControlsSpeed,
		waterSpeed:    DefaultWaterSpeed,
		buf:           make([]byte, GPUFrameUniformSize),
	}
	for _, option := range options {
		option(f)
	}
	if f.clock == nil {
		f.clock = NewMonotonicClock()
	}
	f.last = f.clock.Now()
	return f
}

// AnimationTime maps a clock reading onto the water animation phase:
// (milliseconds / waterSpeed) mod AnimationPeriod. The result is never negative.
//
// Parameters:
//   - now: the clock reading
//   - waterSpeed: milliseconds per animation unit
//
// Returns:
//   - float32: the animation time in [0, AnimationPeriod)
func AnimationTime(now time.Duration, waterSpeed float64) float32 {
	if waterSpeed <= 0 {
		return 0
	}
	millis := float64(now) / float64(time.Millisecond)
	t := math.Mod(millis/waterSpeed, AnimationPeriod)
	if t < 0 {
		t += AnimationPeriod
	}
	return float32(t)
}

func (f *frameStateImpl) Tick(now time.Duration) BufferView {
	f.mu.Lock()
	defer f.mu.Unlock()

	elapsed := max(now-f.last, 0)
	f.last = now
	speed := float32(float64(elapsed)/float64(time.Millisecond)) * f.controlsSpeed

	snap := f.input.Snapshot()
	if snap.MouseDX != 0 || snap.MouseDY != 0 {
		f.cam.ProcessMouseMovement(snap.MouseDX, snap.MouseDY)
	}
	f.cam.ProcessControls(snap, speed)

	var view mgl32.Mat4
	if f.anchored {
		view = f.cam.AnchoredViewMatrix(f.anchor.X(), f.anchor.Y())
	} else {
		view = f.cam.ViewMatrix()
	}

	f.payload = Payload{
		Projection:     f.projection,
		View:           view,
		FogColor:       f.fogColor,
		LightDirection: f.lightDirection,
		CameraPosition: f.cam.Position(),
		Config: Config{
			AnimationTime: AnimationTime(now, f.waterSpeed),
			FogOn:         snap.FogOn,
			LightsOn:      snap.LightsOn,
			AnimationOn:   snap.AnimationOn,
		},
	}
	return f.assemble(f.payload)
}

func (f *frameStateImpl) Advance() BufferView {
	return f.Tick(f.clock.Now())
}

func (f *frameStateImpl) Assemble(p Payload) BufferView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assemble(p)
}

func (f *frameStateImpl) Payload() Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payload
}

func (f *frameStateImpl) SetProjection(projection mgl32.Mat4) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projection = projection
}

func (f *frameStateImpl) Camera() camera.Camera {
	return f.cam
}

// assemble writes p into the scratch buffer.
// Caller must hold the mutex.
func (f *frameStateImpl) assemble(p Payload) BufferView {
	gpu := p.GPU()
	gpu.Marshal(f.buf)
	return BufferView{Data: f.buf, ByteOffset: 0, ByteLength: len(f.buf)}
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
