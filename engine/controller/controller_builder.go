package controller

// ControllerBuilderOption is a functional option for configuring a Controller during construction.
type ControllerBuilderOption func(*controller)

// WithSpeeds is an option builder that sets the walk, run and rotation speeds.
// Non-positive values keep the defaults.
//
// Parameters:
//   - walk: walk speed in units per second
//   - run: run speed in units per second
//   - rotate: turn speed in radians per second
//
// Returns:
//   - ControllerBuilderOption: a function that applies the speeds to a controller
func WithSpeeds(walk, run, rotate float32) ControllerBuilderOption {
	return func(c *controller) {
		if walk > 0 {
			c.walkSpeed = walk
		}
		if run > 0 {
			c.runSpeed = run
		}
		if rotate > 0 {
			c.rotateSpeed = rotate
		}
	}
}

// WithLabels is an option builder that sets the idle, walk and run action labels.
// Empty values keep the defaults.
func WithLabels(idle, walk, run string) ControllerBuilderOption {
	return func(c *controller) {
		if idle != "" {
			c.idleLabel = idle
		}
		if walk != "" {
			c.walkLabel = walk
		}
		if run != "" {
			c.runLabel = run
		}
	}
}

// WithActionScript is an option builder that lets a script choose the desired action.
func WithActionScript(script ActionScript) ControllerBuilderOption {
	return func(c *controller) {
		c.script = script
	}
}
