package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the world-space up axis used by every camera in the engine (Y-up).
var WorldUp = mgl32.Vec3{0, 1, 0}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the input slice.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Perspective creates a right-handed perspective projection matrix that maps view-space
// depth into the WebGPU clip range [0, 1]. mgl32.Perspective targets the OpenGL range
// [-1, 1] and cannot be uploaded to a WebGPU pipeline as-is.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// DegToRad converts degrees to radians in float64 so trigonometric callers avoid a
// float32 round trip before math.Sin / math.Cos.
//
// Parameters:
//   - deg: angle in degrees
//
// Returns:
//   - float64: angle in radians
func DegToRad(deg float32) float64 {
	return float64(deg) * math.Pi / 180.0
}
