package renderer

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-tides/engine/frame"
	"github.com/Carmen-Shannon/oxy-tides/engine/terrain"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeBackend struct {
	configured  [][2]int
	presentMode PresentMode
	clear       [4]float64
	source      string
	binding     uint32
	uniformSize uint64
	indexCount  int
	uniforms    [][]byte
	draws       int
	released    bool
	drawErr     error
}

var _ RendererBackend = &fakeBackend{}

func (f *fakeBackend) ConfigureSurface(width, height int) error {
	f.configured = append(f.configured, [2]int{width, height})
	return nil
}
func (f *fakeBackend) SetPresentMode(mode PresentMode)    { f.presentMode = mode }
func (f *fakeBackend) SetClearColor(r, g, b, a float64) { f.clear = [4]float64{r, g, b, a} }
func (f *fakeBackend) CreatePipeline(source string, binding uint32, uniformSize uint64) error {
	f.source, f.binding, f.uniformSize = source, binding, uniformSize
	return nil
}
func (f *fakeBackend) InitMeshBuffers(vertexData, indexData []byte, indexCount int) error {
	f.indexCount = indexCount
	return nil
}
func (f *fakeBackend) WriteUniforms(data []byte) {
	f.uniforms = append(f.uniforms, append([]byte(nil), data...))
}
func (f *fakeBackend) DrawFrame() error {
	f.draws++
	return f.drawErr
}
func (f *fakeBackend) Release() { f.released = true }

func newTestRenderer(t *testing.T, options ...RendererBuilderOption) (*renderer, *fakeBackend) {
	t.Helper()
	r := newRendererConfig(BackendTypeWGPU, options...)
	fb := &fakeBackend{}
	if err := r.attach(fb, 640, 480); err != nil {
		t.Fatalf("attach: %v", err)
	}
	return r, fb
}

func TestBuildShaderProgram(t *testing.T) {
	program, err := buildShaderProgram(waterSource)
	if err != nil {
		t.Fatalf("buildShaderProgram: %v", err)
	}
	src := program.source
	for _, want := range []string{
		"struct FrameUniform",
		"@group(0) @binding(0) var<uniform> frame: FrameUniform;",
		"fn vertex_main",
		"fn fragment_main",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("shader source missing %q", want)
		}
	}
	if strings.Contains(src, "@oxy:") {
		t.Error("annotations left in processed source")
	}
	if strings.Index(src, "struct FrameUniform") > strings.Index(src, "fn vertex_main") {
		t.Error("FrameUniform must be declared before the entry points")
	}
	if program.binding != 0 || program.uniformSize != frame.GPUFrameUniformSize {
		t.Errorf("binding = %d size = %d", program.binding, program.uniformSize)
	}
}

func TestBuildShaderProgramRejects(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"no binding", "//@oxy:include frame\n", "declares 0 bindings"},
		{"wrong group", "//@oxy:include frame\n//@oxy:group 1 0 uniform frame frame\n", "group 0"},
		{"storage space", "//@oxy:include frame\n//@oxy:group 0 0 storage_read frame frame\n", "group 0"},
		{"two bindings", "//@oxy:group 0 0 uniform a frame\n//@oxy:group 0 1 uniform b frame\n", "declares 2 bindings"},
		{"bad annotation", "//@oxy:group 0 x uniform frame frame\n", "pre-process"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildShaderProgram(tt.raw)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("buildShaderProgram() = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestAttach(t *testing.T) {
	r, fb := newTestRenderer(t,
		WithPresentMode(PresentModeUncapped),
		WithClearColor(mgl32.Vec4{0.8, 0.9, 1, 1}),
	)
	if len(fb.configured) != 1 || fb.configured[0] != [2]int{640, 480} {
		t.Errorf("configured = %v", fb.configured)
	}
	if fb.presentMode != PresentModeUncapped {
		t.Errorf("present mode = %v", fb.presentMode)
	}
	if fb.clear[0] != float64(float32(0.8)) || fb.clear[3] != 1 {
		t.Errorf("clear color = %v", fb.clear)
	}
	if fb.uniformSize != frame.GPUFrameUniformSize {
		t.Errorf("uniform size = %d, want %d", fb.uniformSize, frame.GPUFrameUniformSize)
	}
	if !strings.Contains(fb.source, "fn vertex_main") || fb.binding != 0 {
		t.Errorf("pipeline compiled from unexpected source (binding %d)", fb.binding)
	}
	if w, h := r.Size(); w != 640 || h != 480 {
		t.Errorf("Size() = %d,%d", w, h)
	}
}

func TestResizeAppliedOnNextFrame(t *testing.T) {
	tests := []struct {
		name       string
		resizes    [][2]int
		wantConfig [][2]int
		wantSize   [2]int
	}{
		{"no resize", nil, [][2]int{{640, 480}}, [2]int{640, 480}},
		{"single resize", [][2]int{{800, 600}}, [][2]int{{640, 480}, {800, 600}}, [2]int{800, 600}},
		{"last resize wins", [][2]int{{800, 600}, {1024, 768}}, [][2]int{{640, 480}, {1024, 768}}, [2]int{1024, 768}},
		{"zero size ignored", [][2]int{{0, 0}}, [][2]int{{640, 480}}, [2]int{640, 480}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fb := newTestRenderer(t)
			for _, sz := range tt.resizes {
				r.Resize(sz[0], sz[1])
			}
			if len(fb.configured) != 1 {
				t.Fatalf("surface reconfigured before DrawFrame: %v", fb.configured)
			}
			if err := r.DrawFrame(); err != nil {
				t.Fatalf("DrawFrame: %v", err)
			}
			if len(fb.configured) != len(tt.wantConfig) {
				t.Fatalf("configured = %v, want %v", fb.configured, tt.wantConfig)
			}
			for i := range tt.wantConfig {
				if fb.configured[i] != tt.wantConfig[i] {
					t.Errorf("configured[%d] = %v, want %v", i, fb.configured[i], tt.wantConfig[i])
				}
			}
			if w, h := r.Size(); w != tt.wantSize[0] || h != tt.wantSize[1] {
				t.Errorf("Size() = %d,%d want %v", w, h, tt.wantSize)
			}
			// A second frame must not reconfigure again.
			_ = r.DrawFrame()
			if len(fb.configured) != len(tt.wantConfig) {
				t.Errorf("surface reconfigured twice: %v", fb.configured)
			}
		})
	}
}

func TestUploadMesh(t *testing.T) {
	mesh, err := terrain.Generate(1, 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	r, fb := newTestRenderer(t)
	if err := r.UploadMesh(&mesh); err != nil {
		t.Fatalf("UploadMesh: %v", err)
	}
	if fb.indexCount != len(mesh.Indices) {
		t.Errorf("index count = %d, want %d", fb.indexCount, len(mesh.Indices))
	}
	if err := r.UploadMesh(&mesh); err == nil {
		t.Error("second UploadMesh should fail")
	}
	if err := newRendererConfig(BackendTypeWGPU).UploadMesh(nil); err == nil {
		t.Error("nil mesh should fail")
	}
}

func TestWriteUniformsUsesView(t *testing.T) {
	r, fb := newTestRenderer(t)
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = byte(i)
	}
	r.WriteUniforms(frame.BufferView{Data: buf, ByteOffset: 4, ByteLength: 8})
	if len(fb.uniforms) != 1 {
		t.Fatalf("uniform writes = %d", len(fb.uniforms))
	}
	got := fb.uniforms[0]
	if len(got) != 8 || got[0] != 4 || got[7] != 11 {
		t.Errorf("uniform bytes = %v", got)
	}
}

func TestDrawFrameError(t *testing.T) {
	r, fb := newTestRenderer(t)
	fb.drawErr = errors.New("surface lost")
	if err := r.DrawFrame(); err == nil || !strings.Contains(err.Error(), "surface lost") {
		t.Errorf("DrawFrame() = %v", err)
	}
	r.Release()
	if !fb.released {
		t.Error("Release did not release the backend")
	}
}
