package renderer

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-tides/engine/frame"
	"github.com/Carmen-Shannon/oxy-tides/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-tides/engine/terrain"
	"github.com/Carmen-Shannon/oxy-tides/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed assets/water.wgsl
var waterSource string

// shaderProgram is the pre-processed water shader and the uniform binding it declares.
type shaderProgram struct {
	source      string
	binding     uint32
	uniformSize uint64
}

// buildShaderProgram runs the water shader through the pre-processor. The program must
// declare exactly one uniform of the frame type in group 0.
func buildShaderProgram(raw string) (shaderProgram, error) {
	pp := shader.NewPreProcessor()
	source, err := pp.Process(raw)
	if err != nil {
		return shaderProgram{}, fmt.Errorf("renderer: pre-process shader: %w", err)
	}

	decls := pp.Declarations()
	if len(decls) != 1 {
		return shaderProgram{}, fmt.Errorf("renderer: shader declares %d bindings, want 1", len(decls))
	}
	d := decls[0]
	if *d.Group != 0 || d.Args[0] != shader.AnnotationArgUniform || d.Args[2] != shader.AnnotationArgFrame {
		return shaderProgram{}, fmt.Errorf("renderer: line %d: want a frame uniform in group 0", d.Line)
	}
	return shaderProgram{
		source:      source,
		binding:     uint32(*d.Binding),
		uniformSize: pp.StructSize(d.Args[2]),
	}, nil
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width  int
	height int

	// pendingWidth and pendingHeight hold a resize that has not reached the surface yet.
	pendingWidth  int
	pendingHeight int
	resizePending bool

	meshUploaded bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           mgl32.Vec4
}

// Renderer draws the water terrain with a single pipeline and a single uniform record.
//
// Resize may be called from the window thread while DrawFrame runs on the render goroutine.
// The new size is applied at the start of the next DrawFrame.
type Renderer interface {
	// UploadMesh copies the terrain vertices and indices into GPU buffers. The mesh is
	// uploaded once and cannot be replaced.
	//
	// Parameters:
	//   - mesh: the generated terrain mesh
	//
	// Returns:
	//   - error: an error if the mesh is empty, already uploaded, or buffer creation fails
	UploadMesh(mesh *terrain.Mesh) error

	// WriteUniforms copies the frame uniform bytes described by view into the uniform buffer.
	//
	// Parameters:
	//   - view: the byte range of the assembled frame uniform
	WriteUniforms(view frame.BufferView)

	// DrawFrame renders one frame: clear to the clear color, draw the mesh, present.
	//
	// Returns:
	//   - error: an error if the surface could not be acquired or the frame could not be submitted
	DrawFrame() error

	// Resize records a new surface size. Zero sizes (minimized windows) are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode. It takes effect at the next surface configuration.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Size returns the size the surface is currently configured for.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// Release frees all GPU resources.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given window, compiles the water pipeline and
// configures the surface.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - win: the window to render into
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if the GPU device, surface or pipeline could not be created
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRendererConfig(backendType, options...)

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var (
		backend RendererBackend
		err     error
	)
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}
	if err != nil {
		return nil, err
	}

	if err := r.attach(backend, win.Width(), win.Height()); err != nil {
		backend.Release()
		return nil, err
	}
	return r, nil
}

func newRendererConfig(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		clearColor:  mgl32.Vec4{0, 0, 0, 1},
	}
	// Options are applied before the backend exists so adapter flags are known up front.
	for _, opt := range options {
		opt(r)
	}
	return r
}

// attach configures a freshly created backend from the collected options.
func (r *renderer) attach(backend RendererBackend, width, height int) error {
	r.backend = backend

	if r.pendingPresentMode != nil {
		backend.SetPresentMode(*r.pendingPresentMode)
	}
	c := r.clearColor
	backend.SetClearColor(float64(c.X()), float64(c.Y()), float64(c.Z()), float64(c.W()))

	if err := backend.ConfigureSurface(width, height); err != nil {
		return err
	}
	r.width, r.height = width, height

	program, err := buildShaderProgram(waterSource)
	if err != nil {
		return err
	}
	return backend.CreatePipeline(program.source, program.binding, program.uniformSize)
}

func (r *renderer) UploadMesh(mesh *terrain.Mesh) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mesh == nil || len(mesh.Indices) == 0 {
		return fmt.Errorf("renderer: mesh is empty")
	}
	if r.meshUploaded {
		return fmt.Errorf("renderer: mesh already uploaded")
	}
	if err := r.backend.InitMeshBuffers(mesh.VertexBytes(), mesh.IndexBytes(), len(mesh.Indices)); err != nil {
		return err
	}
	r.meshUploaded = true
	slog.Info("terrain uploaded", "vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())
	return nil
}

func (r *renderer) WriteUniforms(view frame.BufferView) {
	r.backend.WriteUniforms(view.Bytes())
}

func (r *renderer) DrawFrame() error {
	r.mu.Lock()
	if r.resizePending {
		w, h := r.pendingWidth, r.pendingHeight
		r.resizePending = false
		if err := r.backend.ConfigureSurface(w, h); err != nil {
			r.mu.Unlock()
			return err
		}
		r.width, r.height = w, h
	}
	r.mu.Unlock()

	return r.backend.DrawFrame()
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}
	r.pendingWidth, r.pendingHeight = width, height
	r.resizePending = true
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.SetPresentMode(mode)
	if !r.resizePending {
		r.pendingWidth, r.pendingHeight = r.width, r.height
		r.resizePending = true
	}
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.width, r.height
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}
