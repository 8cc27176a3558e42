package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every surface evenly.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional shines from Position towards Target with parallel rays.
	LightTypeDirectional
)

type lightImpl struct {
	mu           sync.RWMutex
	lightType    LightType
	position     [3]float32
	target       [3]float32
	color        [3]float32
	intensity    float32
	enabled      bool
	castsShadows bool
}

// Light is an ambient or directional light. Intensity is live so the environment settings can
// adjust it between frames.
type Light interface {
	// Type returns the light type.
	//
	// Returns:
	//   - LightType: the type of light
	Type() LightType

	// Position returns where a directional light shines from.
	//
	// Returns:
	//   - [3]float32: the position
	Position() [3]float32

	// Direction returns the unit direction rays travel, from Position towards the target.
	//
	// Returns:
	//   - [3]float32: the direction
	Direction() [3]float32

	// Color returns the linear RGB colour.
	Color() [3]float32

	// Intensity returns the brightness multiplier.
	Intensity() float32

	// Radiance returns Color scaled by Intensity, or black when disabled.
	Radiance() [3]float32

	// Enabled reports whether the light contributes.
	Enabled() bool

	// CastsShadows reports whether shadow casting meshes project onto the ground for this light.
	CastsShadows() bool

	// SetPosition moves the light.
	SetPosition(x, y, z float32)

	// SetTarget sets the point a directional light aims at.
	SetTarget(x, y, z float32)

	// SetColor sets the colour.
	SetColor(r, g, b float32)

	// SetIntensity sets the brightness multiplier; negative values are stored as zero.
	SetIntensity(intensity float32)

	// SetEnabled switches the light on or off.
	SetEnabled(enabled bool)

	// SetCastsShadows sets whether the light casts shadows.
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// NewLight creates a white light of intensity 1 with the given type.
//
// Parameters:
//   - lightType: the type of light
//   - opts: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		position:  [3]float32{0, 1, 0},
		color:     [3]float32{1, 1, 1},
		intensity: 1.0,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.position
}

func (l *lightImpl) Direction() [3]float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d := common.Sub3(l.target, l.position)
	if d == ([3]float32{}) {
		return [3]float32{0, -1, 0}
	}
	return common.Normalize3(d)
}

func (l *lightImpl) Color() [3]float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.intensity
}

func (l *lightImpl) Radiance() [3]float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.enabled {
		return [3]float32{}
	}
	return common.Scale3(l.color, l.intensity)
}

func (l *lightImpl) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.castsShadows
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetTarget(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.target = [3]float32{x, y, z}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = max(intensity, 0)
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.castsShadows = castsShadows
}
