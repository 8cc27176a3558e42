package model

// ModelBuilderOption is a function that configures a model.
type ModelBuilderOption func(*model)

// WithName sets the model name.
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithSource sets the path the model was loaded from.
func WithSource(source string) ModelBuilderOption {
	return func(m *model) {
		m.source = source
	}
}

// WithSkeleton sets the skeleton.
func WithSkeleton(skeleton *Skeleton) ModelBuilderOption {
	return func(m *model) {
		m.skeleton = skeleton
	}
}

// WithAnimations sets the embedded clips.
func WithAnimations(animations []*AnimationClip) ModelBuilderOption {
	return func(m *model) {
		m.animations = animations
	}
}

// WithMeshes sets the mesh nodes. The slice is copied so shadow flags stay per model.
func WithMeshes(meshes []ImportedMesh) ModelBuilderOption {
	return func(m *model) {
		m.meshes = append([]ImportedMesh(nil), meshes...)
	}
}
