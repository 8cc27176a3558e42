package action

// DriverBuilderOption is a functional option for configuring a Driver during construction.
type DriverBuilderOption func(*driver)

// WithFadeDuration is an option builder that sets the crossfade length.
//
// Parameters:
//   - seconds: fade length, zero or less switches clips instantly
//
// Returns:
//   - DriverBuilderOption: a function that applies the fade duration to a driver
func WithFadeDuration(seconds float32) DriverBuilderOption {
	return func(d *driver) {
		d.fade = seconds
	}
}
