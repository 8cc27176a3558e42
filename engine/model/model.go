package model

import "sync"

// model is the implementation of the Model interface.
type model struct {
	mu         *sync.RWMutex
	name       string
	source     string
	skeleton   *Skeleton
	animations []*AnimationClip
	meshes     []ImportedMesh
}

// Model is a loaded asset: an optional skeleton, zero or more meshes and the clips embedded in it.
// Clips are shared with the loader cache and must be treated as read-only; use AnimationClip.Clone
// before renaming.
type Model interface {
	// Name returns the asset name (scene name or file stem).
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Source returns the path the asset was loaded from.
	//
	// Returns:
	//   - string: the asset path, empty for models built in memory
	Source() string

	// Skeleton returns the skeleton, or nil when the asset has no skin.
	//
	// Returns:
	//   - *Skeleton: the bone hierarchy
	Skeleton() *Skeleton

	// Animations returns the clips embedded in the asset, in file order.
	//
	// Returns:
	//   - []*AnimationClip: the clips
	Animations() []*AnimationClip

	// AnimationNames returns the names of the embedded clips, in file order.
	//
	// Returns:
	//   - []string: clip names
	AnimationNames() []string

	// GetAnimationIndex returns the index of the first clip with the given name, or -1.
	//
	// Parameters:
	//   - name: exact clip name
	//
	// Returns:
	//   - int: clip index or -1
	GetAnimationIndex(name string) int

	// Meshes returns a snapshot of the mesh nodes of the asset.
	//
	// Returns:
	//   - []ImportedMesh: mesh copies (vertex slices are shared)
	Meshes() []ImportedMesh

	// MeshCount returns the number of mesh nodes.
	//
	// Returns:
	//   - int: mesh count
	MeshCount() int

	// SetShadows sets the shadow flags of every mesh node in the asset.
	//
	// Parameters:
	//   - cast: whether meshes cast shadows
	//   - receive: whether meshes receive shadows
	SetShadows(cast, receive bool)
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: the configured model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{mu: &sync.RWMutex{}}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// FromImported wraps an ImportedModel.
//
// Parameters:
//   - imported: the import result
//
// Returns:
//   - Model: the model
func FromImported(imported *ImportedModel) Model {
	return NewModel(
		WithName(imported.Name),
		WithSource(imported.Source),
		WithSkeleton(imported.Skeleton),
		WithAnimations(imported.Animations),
		WithMeshes(imported.Meshes),
	)
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Source() string {
	return m.source
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) Animations() []*AnimationClip {
	return m.animations
}

func (m *model) AnimationNames() []string {
	names := make([]string, len(m.animations))
	for i, clip := range m.animations {
		names[i] = clip.Name
	}
	return names
}

func (m *model) GetAnimationIndex(name string) int {
	for i, clip := range m.animations {
		if clip.Name == name {
			return i
		}
	}
	return -1
}

func (m *model) Meshes() []ImportedMesh {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ImportedMesh(nil), m.meshes...)
}

func (m *model) MeshCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.meshes)
}

func (m *model) SetShadows(cast, receive bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.meshes {
		m.meshes[i].CastShadow = cast
		m.meshes[i].ReceiveShadow = receive
	}
}
