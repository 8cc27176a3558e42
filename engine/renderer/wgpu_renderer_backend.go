package renderer

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	frameLayout     *wgpu.BindGroupLayout
	objectLayout    *wgpu.BindGroupLayout
	frameBuffer     *wgpu.Buffer
	objectBuffer    *wgpu.Buffer
	frameBindGroup  *wgpu.BindGroup
	objectBindGroup *wgpu.BindGroup

	meshPipeline   *wgpu.RenderPipeline
	shadowPipeline *wgpu.RenderPipeline
	linePipeline   *wgpu.RenderPipeline

	lineBuffer   *wgpu.Buffer
	lineCapacity uint64
	lines        []LineVertex

	// Frame state for batched rendering across multiple draw calls
	drawSlot     int
	overflowed   bool
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the colour the main pass clears to.
	SetClearColor(color [4]float32)

	// CreatePipelines builds the uniform buffers, bind groups and the mesh, shadow and line
	// pipelines. ConfigureSurface must have run first so the surface format is known.
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	CreatePipelines() error

	// CreateMeshBuffers uploads vertex and index data into new GPU buffers.
	//
	// Parameters:
	//   - label: debug label for the buffers
	//   - vertices: interleaved vertex data
	//   - indices: triangle list indices
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer
	//   - *wgpu.Buffer: the index buffer
	//   - error: an error if buffer creation fails
	CreateMeshBuffers(label string, vertices []Vertex, indices []uint32) (*wgpu.Buffer, *wgpu.Buffer, error)

	// WriteVertices overwrites the start of a vertex buffer.
	WriteVertices(buffer *wgpu.Buffer, vertices []Vertex)

	// BeginFrame acquires the next swapchain texture, writes the frame uniforms and begins the
	// main render pass. Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame(frame FrameUniforms) error

	// DrawMesh encodes one indexed draw within the current render pass.
	DrawMesh(vertexBuffer, indexBuffer *wgpu.Buffer, indexCount int, params DrawParams)

	// AddLines queues line list vertices, drawn in one call at EndFrame.
	AddLines(lines []LineVertex)

	// EndFrame draws queued lines, ends the render pass and submits the command buffer.
	// Does not present the surface; call Present after EndFrame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// Release frees the GPU objects owned by the backend.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	limits := wgpu.DefaultLimits()
	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	width, height = max(width, 1), max(height, 1)

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	size := wgpu.Extent3D{
		Width:              uint32(width),
		Height:             uint32(height),
		DepthOrArrayLayers: 1,
	}

	if msaaEnabled {
		// the render pass draws into the MSAA texture and resolves into the swapchain view
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
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
}

func (b *wgpuRendererBackendImpl) releaseTargets() {
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

func (b *wgpuRendererBackendImpl) SetClearColor(color [4]float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearColor = wgpu.Color{R: float64(color[0]), G: float64(color[1]), B: float64(color[2]), A: float64(color[3])}
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = b.clearColor
	}
}

func (b *wgpuRendererBackendImpl) CreatePipelines() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		return errors.New("surface must be configured before creating pipelines")
	}

	var err error
	b.frameLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: frameUniformSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create frame bind group layout: %w", err)
	}
	b.objectLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Object Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   objectUniformSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create object bind group layout: %w", err)
	}

	b.frameBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Uniform Buffer",
		Size:  frameUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.objectBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Object Uniform Buffer",
		Size:  objectUniformStride * maxDrawsPerFrame,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	b.frameBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Frame Bind Group",
		Layout:  b.frameLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: b.frameBuffer, Size: frameUniformSize}},
	})
	if err != nil {
		return err
	}
	b.objectBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Object Bind Group",
		Layout:  b.objectLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: b.objectBuffer, Size: objectUniformSize}},
	})
	if err != nil {
		return err
	}

	meshLayout := wgpu.VertexBufferLayout{
		ArrayStride: vertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}
	lineLayout := wgpu.VertexBufferLayout{
		ArrayStride: lineVertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
		},
	}

	if b.meshPipeline, err = b.createRenderPipeline("Mesh", meshShaderSource, meshLayout, true, wgpu.PrimitiveTopologyTriangleList, true); err != nil {
		return err
	}
	if b.shadowPipeline, err = b.createRenderPipeline("Shadow", meshShaderSource, meshLayout, true, wgpu.PrimitiveTopologyTriangleList, false); err != nil {
		return err
	}
	if b.linePipeline, err = b.createRenderPipeline("Line", lineShaderSource, lineLayout, false, wgpu.PrimitiveTopologyLineList, true); err != nil {
		return err
	}
	return nil
}

func (b *wgpuRendererBackendImpl) createRenderPipeline(
	label, source string,
	layout wgpu.VertexBufferLayout,
	perObject bool,
	topology wgpu.PrimitiveTopology,
	depthWrite bool,
) (*wgpu.RenderPipeline, error) {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", label, err)
	}

	bindGroupLayouts := []*wgpu.BindGroupLayout{b.frameLayout}
	if perObject {
		bindGroupLayouts = append(bindGroupLayouts, b.objectLayout)
	}
	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + " Pipeline Layout",
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline layout: %w", label, err)
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{layout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    *b.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				},
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: depthWrite,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s render pipeline: %w", label, err)
	}
	return created, nil
}

func (b *wgpuRendererBackendImpl) CreateMeshBuffers(label string, vertices []Vertex, indices []uint32) (*wgpu.Buffer, *wgpu.Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertices) == 0 || len(indices) == 0 {
		return nil, nil, fmt.Errorf("mesh %q has no geometry", label)
	}

	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Vertex Buffer",
		Size:  uint64(len(vertices) * vertexStride),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, nil, err
	}
	b.queue.WriteBuffer(vb, 0, common.SliceToBytes(vertices))

	// index buffer writes must be 4-byte aligned, which uint32 indices always are
	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Index Buffer",
		Size:  uint64(len(indices) * 4),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, nil, err
	}
	b.queue.WriteBuffer(ib, 0, common.SliceToBytes(indices))

	return vb, ib, nil
}

func (b *wgpuRendererBackendImpl) WriteVertices(buffer *wgpu.Buffer, vertices []Vertex) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if buffer == nil || len(vertices) == 0 {
		return
	}
	b.queue.WriteBuffer(buffer, 0, common.SliceToBytes(vertices))
}

func (b *wgpuRendererBackendImpl) BeginFrame(frame FrameUniforms) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.meshPipeline == nil {
		return errors.New("pipelines not created")
	}
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	b.queue.WriteBuffer(b.frameBuffer, 0, frame.bytes())
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.drawSlot = 0
	b.lines = b.lines[:0]

	return nil
}

func (b *wgpuRendererBackendImpl) DrawMesh(vertexBuffer, indexBuffer *wgpu.Buffer, indexCount int, params DrawParams) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil || vertexBuffer == nil || indexBuffer == nil {
		return
	}
	if b.drawSlot >= maxDrawsPerFrame {
		if !b.overflowed {
			log.Printf("Warning: more than %d draws in one frame, extra draws skipped", maxDrawsPerFrame)
			b.overflowed = true
		}
		return
	}

	offset := uint32(b.drawSlot * objectUniformStride)
	b.drawSlot++
	b.queue.WriteBuffer(b.objectBuffer, uint64(offset), params.bytes())

	if params.Shadow {
		b.framePass.SetPipeline(b.shadowPipeline)
	} else {
		b.framePass.SetPipeline(b.meshPipeline)
	}
	b.framePass.SetBindGroup(0, b.frameBindGroup, nil)
	b.framePass.SetBindGroup(1, b.objectBindGroup, []uint32{offset})
	b.framePass.SetVertexBuffer(0, vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(indexCount), 1, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) AddLines(lines []LineVertex) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = append(b.lines, lines...)
}

// flushLines grows the line buffer when needed and encodes one draw for every queued line.
func (b *wgpuRendererBackendImpl) flushLines() {
	if len(b.lines) == 0 {
		return
	}
	size := uint64(len(b.lines) * lineVertexStride)
	if size > b.lineCapacity {
		if b.lineBuffer != nil {
			b.lineBuffer.Release()
		}
		capacity := max(size*2, 64*1024)
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Line Vertex Buffer",
			Size:  capacity,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			log.Printf("Warning: failed to allocate line buffer: %v", err)
			b.lineBuffer, b.lineCapacity = nil, 0
			return
		}
		b.lineBuffer, b.lineCapacity = buf, capacity
	}
	b.queue.WriteBuffer(b.lineBuffer, 0, common.SliceToBytes(b.lines))

	b.framePass.SetPipeline(b.linePipeline)
	b.framePass.SetBindGroup(0, b.frameBindGroup, nil)
	b.framePass.SetVertexBuffer(0, b.lineBuffer, 0, size)
	b.framePass.Draw(uint32(len(b.lines)), 1, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.flushLines()
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseTargets()
	for _, p := range []*wgpu.RenderPipeline{b.meshPipeline, b.shadowPipeline, b.linePipeline} {
		if p != nil {
			p.Release()
		}
	}
	for _, buf := range []*wgpu.Buffer{b.frameBuffer, b.objectBuffer, b.lineBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
	b.meshPipeline, b.shadowPipeline, b.linePipeline = nil, nil, nil
	b.frameBuffer, b.objectBuffer, b.lineBuffer = nil, nil, nil
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
}
