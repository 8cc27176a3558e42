package game_object

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/animator"
	"github.com/Carmen-Shannon/oxy-viewer/engine/controller"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

type gameObject struct {
	id      uint64
	enabled atomic.Bool

	mu       sync.RWMutex
	mdl      model.Model
	mixer    animator.Mixer
	position [3]float32
	yaw      float32
	scale    [3]float32
}

// GameObject is a scene entity with a position, a heading about the vertical axis and a scale.
// The character is a GameObject carrying its model and animation mixer.
type GameObject interface {
	controller.Body

	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Mixer returns the animation mixer driving this object's skeleton, or nil.
	//
	// Returns:
	//   - animator.Mixer: the mixer or nil
	Mixer() animator.Mixer

	// Position returns the world position of the object's origin.
	//
	// Returns:
	//   - [3]float32: position
	Position() [3]float32

	// Yaw returns the heading in radians, counter-clockwise from +Z seen from above.
	//
	// Returns:
	//   - float32: the heading
	Yaw() float32

	// Scale returns the per-axis scale.
	//
	// Returns:
	//   - [3]float32: scale factors
	Scale() [3]float32

	// Forward returns the unit vector the object faces.
	//
	// Returns:
	//   - [3]float32: the local +Z axis in world space
	Forward() [3]float32

	// ModelMatrix writes translation * yaw rotation * scale into out.
	//
	// Parameters:
	//   - out: destination, at least 16 floats, column-major
	ModelMatrix(out []float32)

	// SetID sets the object's unique identifier.
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled for rendering.
	SetEnabled(enabled bool)

	// SetModel assigns a Model to this object.
	SetModel(m model.Model)

	// SetMixer assigns the animation mixer for the object's skeleton.
	SetMixer(m animator.Mixer)

	// SetPosition moves the object.
	SetPosition(x, y, z float32)

	// SetYaw sets the heading in radians.
	SetYaw(yaw float32)

	// SetScale sets the per-axis scale.
	SetScale(sx, sy, sz float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects start enabled at the origin with unit scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: [3]float32{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Model() model.Model {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mdl
}

func (g *gameObject) Mixer() animator.Mixer {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mixer
}

func (g *gameObject) Position() [3]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) Yaw() float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.yaw
}

func (g *gameObject) Scale() [3]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) Forward() [3]float32 {
	return forward(g.Yaw())
}

func forward(yaw float32) [3]float32 {
	s, c := math.Sincos(float64(yaw))
	return [3]float32{float32(s), 0, float32(c)}
}

func (g *gameObject) ModelMatrix(out []float32) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	common.ComposeTRS(out, g.position, common.QuatFromYaw(g.yaw), g.scale)
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetModel(m model.Model) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mdl = m
}

func (g *gameObject) SetMixer(m animator.Mixer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mixer = m
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = [3]float32{x, y, z}
}

func (g *gameObject) SetYaw(yaw float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.yaw = yaw
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = [3]float32{sx, sy, sz}
}

// --- controller.Body ---

func (g *gameObject) Rotate(angle float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.yaw += angle
}

func (g *gameObject) TranslateForward(distance float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = common.Add3(g.position, common.Scale3(forward(g.yaw), distance))
}
