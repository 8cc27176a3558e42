package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           [4]float32
}

// Renderer draws the viewer scene: lit triangle meshes, flattened shadow meshes and a batch of
// coloured debug lines per frame.
//
// A frame is BeginFrame, any number of DrawMesh and DrawLines calls, EndFrame, then Present.
type Renderer interface {
	// Resize reconfigures the surface and its render targets for a new size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. Takes effect on the next Resize.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the background colour.
	SetClearColor(color [4]float32)

	// UploadMesh creates GPU buffers for a triangle mesh.
	//
	// Parameters:
	//   - label: debug label for the buffers
	//   - vertices: interleaved positions and normals
	//   - indices: triangle list indices into vertices
	//
	// Returns:
	//   - Mesh: the uploaded mesh handle
	//   - error: an error if buffer creation fails or the mesh is empty
	UploadMesh(label string, vertices []Vertex, indices []uint32) (Mesh, error)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	//
	// Parameters:
	//   - frame: camera and lighting uniforms for every draw in the frame
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame(frame FrameUniforms) error

	// DrawMesh draws an uploaded mesh with the given transform and colour.
	DrawMesh(mesh Mesh, params DrawParams)

	// DrawLines queues world space line list vertices for this frame.
	DrawLines(lines []LineVertex)

	// EndFrame draws queued lines and submits the frame.
	EndFrame()

	// Present displays the submitted frame.
	Present()

	// Release frees all GPU objects owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer presenting into the given window.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if pipeline creation fails
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		clearColor:  [4]float32{0.1, 0.1, 0.1, 1},
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.SetClearColor(r.clearColor)
	r.backend.ConfigureSurface(win.Width(), win.Height())
	if err := r.backend.CreatePipelines(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(color [4]float32) {
	r.backend.SetClearColor(color)
}

func (r *renderer) UploadMesh(label string, vertices []Vertex, indices []uint32) (Mesh, error) {
	vb, ib, err := r.backend.CreateMeshBuffers(label, vertices, indices)
	if err != nil {
		return nil, err
	}
	return &mesh{
		backend:      r.backend,
		label:        label,
		vertexBuffer: vb,
		indexBuffer:  ib,
		vertexCount:  len(vertices),
		indexCount:   len(indices),
	}, nil
}

func (r *renderer) BeginFrame(frame FrameUniforms) error {
	return r.backend.BeginFrame(frame)
}

func (r *renderer) DrawMesh(m Mesh, params DrawParams) {
	gm, ok := m.(*mesh)
	if !ok || gm.vertexBuffer == nil {
		return
	}
	r.backend.DrawMesh(gm.vertexBuffer, gm.indexBuffer, gm.indexCount, params)
}

func (r *renderer) DrawLines(lines []LineVertex) {
	if len(lines) == 0 {
		return
	}
	r.backend.AddLines(lines)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.backend.Release()
}

// --- Mesh ---

type mesh struct {
	backend      RendererBackend
	label        string
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	vertexCount  int
	indexCount   int
}

// Mesh is geometry resident on the GPU.
type Mesh interface {
	// Label returns the debug label given at upload.
	Label() string

	// VertexCount returns the number of uploaded vertices.
	VertexCount() int

	// IndexCount returns the number of uploaded indices.
	IndexCount() int

	// Update overwrites the vertex data, used to stream CPU skinned vertices each frame.
	// Extra vertices beyond the uploaded count are ignored.
	Update(vertices []Vertex)

	// Release frees the GPU buffers; the mesh draws nothing afterwards.
	Release()
}

var _ Mesh = &mesh{}

func (m *mesh) Label() string {
	return m.label
}

func (m *mesh) VertexCount() int {
	return m.vertexCount
}

func (m *mesh) IndexCount() int {
	return m.indexCount
}

func (m *mesh) Update(vertices []Vertex) {
	if len(vertices) > m.vertexCount {
		vertices = vertices[:m.vertexCount]
	}
	m.backend.WriteVertices(m.vertexBuffer, vertices)
}

func (m *mesh) Release() {
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
}
