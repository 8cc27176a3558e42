package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// cameraControllerImpl orbits a target on a sphere given by radius, azimuth and elevation.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32

	radius    float32
	azimuth   float32 // around +Y, zero looks down -Z from +Z
	elevation float32 // above the horizontal plane

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	mouseSensitivity float32
	zoomSpeed        float32
}

// CameraController positions a camera around a target that can follow a moving subject.
type CameraController interface {
	// Position returns the eye position.
	//
	// Returns:
	//   - [3]float32: the eye
	Position() [3]float32

	// Target returns the point the camera looks at.
	//
	// Returns:
	//   - [3]float32: the target
	Target() [3]float32

	// SetTarget moves the target without changing the orbit, so the eye moves with it.
	//
	// Parameters:
	//   - target: the new target
	SetTarget(target [3]float32)

	// Follow moves the target towards subject by factor in [0, 1], 1 snapping onto it.
	//
	// Parameters:
	//   - subject: the point to follow
	//   - factor: fraction of the remaining distance to cover
	Follow(subject [3]float32, factor float32)

	// Orbit rotates around the target by a mouse drag in pixels.
	// Elevation is clamped to the controller's bounds.
	//
	// Parameters:
	//   - dx: horizontal drag
	//   - dy: vertical drag
	Orbit(dx, dy float32)

	// Zoom changes the radius; positive deltas move closer.
	//
	// Parameters:
	//   - delta: scroll amount
	Zoom(delta float32)

	// Radius returns the distance to the target.
	Radius() float32

	// Azimuth returns the horizontal orbit angle in radians.
	Azimuth() float32

	// Elevation returns the vertical orbit angle in radians.
	Elevation() float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller with defaults matching a camera at (0, 2, 5)
// looking at the origin.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		radius:    float32(math.Hypot(2, 5)),
		elevation: float32(math.Atan2(2, 5)),

		minRadius:    1,
		maxRadius:    50,
		minElevation: 0,
		maxElevation: math.Pi / 2,

		mouseSensitivity: 0.005,
		zoomSpeed:        0.5,
	}
	for _, option := range options {
		option(cc)
	}
	cc.clamp()
	cc.updatePosition()
	return cc
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sinElev, cosElev := math.Sincos(float64(cc.elevation))
	sinAzim, cosAzim := math.Sincos(float64(cc.azimuth))

	cc.position[0] = cc.target[0] + cc.radius*float32(cosElev*sinAzim)
	cc.position[1] = cc.target[1] + cc.radius*float32(sinElev)
	cc.position[2] = cc.target[2] + cc.radius*float32(cosElev*cosAzim)
}

// clamp keeps radius and elevation within bounds. Caller must hold the mutex.
func (cc *cameraControllerImpl) clamp() {
	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = common.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
}

func (cc *cameraControllerImpl) Position() [3]float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() [3]float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target [3]float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Follow(subject [3]float32, factor float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = common.Lerp3(cc.target, subject, common.Clamp(factor, 0, 1))
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Orbit(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth -= dx * cc.mouseSensitivity
	cc.elevation += dy * cc.mouseSensitivity
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius -= delta * cc.zoomSpeed
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}
