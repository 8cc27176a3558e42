package light

// LightBuilderOption is a functional option for configuring a Light during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition sets where the light shines from.
//
// Parameters:
//   - x, y, z: world position
//
// Returns:
//   - LightBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
	}
}

// WithTarget sets the point a directional light aims at.
func WithTarget(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.target = [3]float32{x, y, z}
	}
}

// WithColor sets the light colour.
//
// Parameters:
//   - r, g, b: linear colour components in [0, 1]
//
// Returns:
//   - LightBuilderOption: functional option to set the colour
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithIntensity sets the brightness multiplier.
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = max(intensity, 0)
	}
}

// WithEnabled sets whether the light starts on.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithCastsShadows sets whether the light casts shadows.
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}
