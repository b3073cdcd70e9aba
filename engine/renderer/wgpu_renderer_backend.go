package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// terrainVertexStride is one xyz float32 triplet.
	terrainVertexStride = 12

	depthFormat = wgpu.TextureFormatDepth24Plus
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	pipeline        *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
	uniformBuffer   *wgpu.Buffer
	uniformGroup    *wgpu.BindGroup

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32
}

type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and recreates the size-dependent
	// MSAA and depth attachments.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	//
	// Returns:
	//   - error: an error if an attachment could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the render pass clears to.
	//
	// Parameters:
	//   - r, g, b, a: color components in [0, 1]
	SetClearColor(r, g, b, a float64)

	// CreatePipeline compiles the shader source and creates the single render pipeline, its
	// bind group layout, the uniform buffer and the uniform bind group (group 0).
	//
	// Parameters:
	//   - source: complete WGSL source with vertex_main and fragment_main entry points
	//   - binding: the binding index of the uniform inside group 0
	//   - uniformSize: size of the uniform buffer in bytes
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	CreatePipeline(source string, binding uint32, uniformSize uint64) error

	// InitMeshBuffers creates the vertex and index buffers and uploads their contents once.
	//
	// Parameters:
	//   - vertexData: xyz float32 triplets as bytes
	//   - indexData: uint32 indices as bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if a buffer could not be created
	InitMeshBuffers(vertexData, indexData []byte, indexCount int) error

	// WriteUniforms copies data into the uniform buffer at offset 0.
	//
	// Parameters:
	//   - data: the serialized uniform record
	WriteUniforms(data []byte)

	// DrawFrame acquires the swapchain texture, clears, draws the mesh, submits and presents.
	//
	// Returns:
	//   - error: an error if the frame could not be rendered
	DrawFrame() error

	// Release frees every GPU object held by the backend.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) (wgpuRendererBackend, error) {
	if surfaceDescriptor == nil {
		return nil, errors.New("renderer: window has no surface descriptor")
	}
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: request adapter: %w", err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "Main Device"})
	if err != nil {
		return nil, fmt.Errorf("renderer: request device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return nil, errors.New("renderer: surface reports no formats")
	}
	b.surfaceFormat = capabilities.Formats[0]
	slog.Info("gpu device ready", "format", int(b.surfaceFormat), "msaa", uint32(sampleCount), "fallback", forceFallbackAdapter)

	return b, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return nil
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseAttachments()

	count := uint32(b.sampleCount)
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	storeOp := wgpu.StoreOpStore
	if count > 1 {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("renderer: create msaa texture: %w", err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return fmt.Errorf("renderer: create msaa view: %w", err)
		}
		b.msaaTexture, b.msaaTextureView = tex, view
		storeOp = wgpu.StoreOpDiscard
	}

	depth, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("renderer: create depth texture: %w", err)
	}
	depthView, err := depth.CreateView(nil)
	if err != nil {
		depth.Release()
		return fmt.Errorf("renderer: create depth view: %w", err)
	}
	b.depthTexture, b.depthTextureView = depth, depthView

	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView, // nil without MSAA; set per frame
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	slog.Debug("surface configured", "width", width, "height", height, "msaa", count)
	return nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) SetClearColor(r, g, bl, a float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearColor = wgpu.Color{R: r, G: g, B: bl, A: a}
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = b.clearColor
	}
}

func (b *wgpuRendererBackendImpl) CreatePipeline(source string, binding uint32, uniformSize uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Water Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return fmt.Errorf("renderer: compile shader: %w", err)
	}
	defer module.Release()

	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Uniform Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    binding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: create bind group layout: %w", err)
	}
	b.bindGroupLayout = layout

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Water Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return fmt.Errorf("renderer: create pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	// The grid alternates triangle facing inside each cell, so culling stays off.
	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Water Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vertex_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: terrainVertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fragment_main",
			Targets: []wgpu.ColorTargetState{
				{Format: b.surfaceFormat, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: create render pipeline: %w", err)
	}
	b.pipeline = created

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Uniform Buffer",
		Size:  uniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("renderer: create uniform buffer: %w", err)
	}
	b.uniformBuffer = buf

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame Uniform Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: binding, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: create uniform bind group: %w", err)
	}
	b.uniformGroup = group
	return nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) == 0 || len(indexData) == 0 {
		return errors.New("renderer: mesh data is empty")
	}

	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Terrain Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("renderer: create vertex buffer: %w", err)
	}
	b.queue.WriteBuffer(vb, 0, vertexData)

	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Terrain Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return fmt.Errorf("renderer: create index buffer: %w", err)
	}
	b.queue.WriteBuffer(ib, 0, indexData)

	b.vertexBuffer, b.indexBuffer = vb, ib
	b.indexCount = uint32(indexCount)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteUniforms(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.uniformBuffer == nil {
		return
	}
	b.queue.WriteBuffer(b.uniformBuffer, 0, data)
}

func (b *wgpuRendererBackendImpl) DrawFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pipeline == nil || b.renderPassDescriptor == nil {
		return errors.New("renderer: pipeline or surface not ready")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("renderer: acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("renderer: create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("renderer: create command encoder: %w", err)
	}
	defer encoder.Release()

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}

	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	if b.vertexBuffer != nil && b.indexBuffer != nil {
		pass.SetPipeline(b.pipeline)
		pass.SetBindGroup(0, b.uniformGroup, nil)
		pass.SetVertexBuffer(0, b.vertexBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(b.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(b.indexCount, 1, 0, 0, 0)
	}
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("renderer: finish command encoder: %w", err)
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseAttachments()
	for _, buf := range []*wgpu.Buffer{b.vertexBuffer, b.indexBuffer, b.uniformBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
	b.vertexBuffer, b.indexBuffer, b.uniformBuffer = nil, nil, nil
	if b.uniformGroup != nil {
		b.uniformGroup.Release()
		b.uniformGroup = nil
	}
	if b.bindGroupLayout != nil {
		b.bindGroupLayout.Release()
		b.bindGroupLayout = nil
	}
	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
	b.queue, b.device, b.adapter, b.surface, b.instance = nil, nil, nil, nil, nil
}

// releaseAttachments frees the size-dependent textures.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) releaseAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}
