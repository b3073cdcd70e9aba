package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSliceToBytes(t *testing.T) {
	if got := SliceToBytes([]float32{}); got != nil {
		t.Errorf("empty slice = %v, want nil", got)
	}

	floats := []float32{1.5, -2}
	b := SliceToBytes(floats)
	if len(b) != 8 {
		t.Fatalf("len = %d, want 8", len(b))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[4:])); got != -2 {
		t.Errorf("second float = %v, want -2", got)
	}

	idx := []uint32{7, 1 << 20}
	b = SliceToBytes(idx)
	if len(b) != 8 || binary.LittleEndian.Uint32(b[4:]) != 1<<20 {
		t.Errorf("uint32 bytes = %v", b)
	}
}

// clipDepth projects a view-space point at distance d in front of the camera and returns z/w.
func clipDepth(p mgl32.Mat4, d float32) float32 {
	v := p.Mul4x1(mgl32.Vec4{0, 0, -d, 1})
	return v.Z() / v.W()
}

func TestPerspective(t *testing.T) {
	tests := []struct {
		name         string
		fov, aspect  float32
		near, far    float32
		wantX, wantY float32
	}{
		{"square 90 degrees", math.Pi / 2, 1, 0.01, 100, 1, 1},
		{"wide 72 degrees", 2 * math.Pi / 5, 16.0 / 9.0, 0.01, 100, 1.3763819 / (16.0 / 9.0), 1.3763819},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Perspective(tt.fov, tt.aspect, tt.near, tt.far)
			if math.Abs(float64(p[0]-tt.wantX)) > 1e-5 || math.Abs(float64(p[5]-tt.wantY)) > 1e-5 {
				t.Errorf("scale = %v, %v want %v, %v", p[0], p[5], tt.wantX, tt.wantY)
			}
			if p[11] != -1 || p[15] != 0 {
				t.Errorf("w row = %v %v", p[11], p[15])
			}
			if z := clipDepth(p, tt.near); math.Abs(float64(z)) > 1e-5 {
				t.Errorf("near plane depth = %v, want 0", z)
			}
			if z := clipDepth(p, tt.far); math.Abs(float64(z-1)) > 1e-4 {
				t.Errorf("far plane depth = %v, want 1", z)
			}
		})
	}
}

func TestDegToRad(t *testing.T) {
	tests := []struct {
		deg  float32
		want float64
	}{
		{0, 0},
		{180, math.Pi},
		{-90, -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := DegToRad(tt.deg); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("DegToRad(%v) = %v, want %v", tt.deg, got, tt.want)
		}
	}
}
