package animator

import "github.com/Carmen-Shannon/oxy-viewer/engine/model"

// MixerBuilderOption is a functional option for configuring a Mixer during construction.
type MixerBuilderOption func(*mixer)

// WithSkeleton is an option builder that sets the skeleton clip channels are bound to.
//
// Parameters:
//   - skeleton: the target skeleton, bones ordered parents first
//
// Returns:
//   - MixerBuilderOption: a function that applies the skeleton option to a mixer
func WithSkeleton(skeleton *model.Skeleton) MixerBuilderOption {
	return func(m *mixer) {
		m.skeleton = skeleton
	}
}

// WithSkinWorkers is an option builder that sets how many workers deform vertices in Skin.
//
// Parameters:
//   - n: worker count, values below 1 are raised to 1
//
// Returns:
//   - MixerBuilderOption: a function that applies the worker count to a mixer
func WithSkinWorkers(n int) MixerBuilderOption {
	return func(m *mixer) {
		m.skinWorkers = max(n, 1)
	}
}
