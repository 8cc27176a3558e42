package physics

// WorldBuilderOption is a functional option for configuring a World during construction.
type WorldBuilderOption func(*world)

// WithPlatform is an option builder that adds a static platform.
//
// Parameters:
//   - box: the platform bounds
//
// Returns:
//   - WorldBuilderOption: a function that adds the platform to a world
func WithPlatform(box Box) WorldBuilderOption {
	return func(w *world) {
		w.addPlatform(box)
	}
}

// WithGravity is an option builder that sets the downward acceleration in units per second squared.
func WithGravity(g float32) WorldBuilderOption {
	return func(w *world) {
		w.gravity = g
	}
}

// WithStepHeight is an option builder that sets the tallest ledge the character climbs without jumping.
func WithStepHeight(h float32) WorldBuilderOption {
	return func(w *world) {
		w.stepHeight = h
	}
}

// WithCharacterSize is an option builder that sets the character's square footprint side and height.
func WithCharacterSize(footprint, height float32) WorldBuilderOption {
	return func(w *world) {
		if footprint > 0 {
			w.footprint = footprint
		}
		if height > 0 {
			w.height = height
		}
	}
}
