package frame

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUFrameUniformSource is the canonical WGSL definition of the FrameUniform struct.
// Matches GPUFrameUniform layout exactly (192 bytes).
//
//go:embed assets/frame_uniform.wgsl
var GPUFrameUniformSource string

// Byte offsets of every GPUFrameUniform field inside the serialized buffer.
const (
	OffsetProjection     = 0
	OffsetView           = 64
	OffsetFogColor       = 128
	OffsetLightDirection = 144
	OffsetCameraPosition = 160
	OffsetConfig         = 176

	// GPUFrameUniformSize is the serialized size of GPUFrameUniform in bytes.
	GPUFrameUniformSize = 192
)

// GPUFrameUniform is the GPU-aligned representation of the per-frame uniform buffer.
// Matches the WGSL FrameUniform struct layout exactly (see GPUFrameUniformSource).
type GPUFrameUniform struct {
	Projection     [16]float32 // offset   0: perspective projection (mat4x4<f32>)
	View           [16]float32 // offset  64: world-to-view matrix (mat4x4<f32>)
	FogColor       [4]float32  // offset 128: RGBA fog and clear color (vec4<f32>)
	LightDirection [4]float32  // offset 144: directional light (vec4<f32>)
	CameraPosition [4]float32  // offset 160: true camera position, w unused (vec4<f32>)
	Config         [4]float32  // offset 176: animation time, fog, lights, animation (vec4<f32>)
}

// Size returns the size of the GPUFrameUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (192)
func (g *GPUFrameUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFrameUniform into dst, which must hold at least Size() bytes.
// Every byte of the record is overwritten.
//
// Parameters:
//   - dst: destination buffer
func (g *GPUFrameUniform) Marshal(dst []byte) {
	putFloats(dst[OffsetProjection:], g.Projection[:])
	putFloats(dst[OffsetView:], g.View[:])
	putFloats(dst[OffsetFogColor:], g.FogColor[:])
	putFloats(dst[OffsetLightDirection:], g.LightDirection[:])
	putFloats(dst[OffsetCameraPosition:], g.CameraPosition[:])
	putFloats(dst[OffsetConfig:], g.Config[:])
}

func putFloats(dst []byte, src []float32) {
	for i, f := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}
